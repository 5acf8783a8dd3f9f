package handlers

import (
	"context"
	"net/http"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
	"github.com/xavierca1/rewards-onboarding/internal/infra/http/middleware"
	"github.com/xavierca1/rewards-onboarding/internal/usecase"
)

type registerUser interface {
	Execute(ctx context.Context, input usecase.RegisterUserInput) (*entity.User, error)
}

type authenticateUser interface {
	Execute(ctx context.Context, input usecase.AuthenticateUserInput) (*usecase.AuthenticateUserOutput, error)
}

type AuthHandler struct {
	RegisterUC     registerUser
	AuthenticateUC authenticateUser
	SecureCookies  bool
}

func NewAuthHandler(register registerUser, authenticate authenticateUser, secureCookies bool) *AuthHandler {
	return &AuthHandler{RegisterUC: register, AuthenticateUC: authenticate, SecureCookies: secureCookies}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input usecase.RegisterUserInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.RegisterUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": "User created successfully", "user": user})
}

// Login handles POST /api/auth/login and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input usecase.AuthenticateUserInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	out, err := h.AuthenticateUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.SetSessionCookie(w, out.Session, h.SecureCookies)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Login successful", "user": out.User})
}
