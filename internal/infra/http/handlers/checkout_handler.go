package handlers

import (
	"context"
	"net/http"

	"github.com/xavierca1/rewards-onboarding/internal/infra/http/middleware"
	"github.com/xavierca1/rewards-onboarding/internal/usecase"
)

type createCheckout interface {
	Execute(ctx context.Context, token string) (*usecase.CreateCheckoutOutput, error)
}

type CheckoutHandler struct {
	CreateCheckoutUC createCheckout
}

func NewCheckoutHandler(uc createCheckout) *CheckoutHandler {
	return &CheckoutHandler{CreateCheckoutUC: uc}
}

// Handle serves POST /api/stripe/create-subscription.
func (h *CheckoutHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, usecase.CodeUnauthorized, "Unauthorized")
		return
	}

	out, err := h.CreateCheckoutUC.Execute(r.Context(), token)
	if err != nil {
		middleware.RecordIntegrationError("stripe")
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"sessionUrl": out.SessionURL})
}
