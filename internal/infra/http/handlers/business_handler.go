package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
	"github.com/xavierca1/rewards-onboarding/internal/infra/http/middleware"
	"github.com/xavierca1/rewards-onboarding/internal/usecase"
)

type createListing interface {
	Execute(ctx context.Context, token string, draft entity.ListingDraft) (*entity.Listing, error)
}

type submitIntake interface {
	Execute(ctx context.Context, token string, input usecase.SubmitIntakeInput) (*entity.Listing, error)
}

type listingStatus interface {
	Execute(ctx context.Context, id int64) (*usecase.ListingStatusOutput, error)
}

type BusinessHandler struct {
	CreateListingUC createListing
	SubmitIntakeUC  submitIntake
	StatusUC        listingStatus
}

func NewBusinessHandler(create createListing, intake submitIntake, status listingStatus) *BusinessHandler {
	return &BusinessHandler{CreateListingUC: create, SubmitIntakeUC: intake, StatusUC: status}
}

type listingSummary struct {
	ID           int64                `json:"id"`
	BusinessName string               `json:"businessName"`
	Status       entity.ListingStatus `json:"status"`
}

func writeListingCreated(w http.ResponseWriter, l *entity.Listing) {
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Business listing submitted successfully",
		"listing": listingSummary{ID: l.ID, BusinessName: l.BusinessName, Status: l.Status},
	})
}

// Submit handles POST /api/business/submit.
func (h *BusinessHandler) Submit(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, usecase.CodeUnauthorized, "Unauthorized")
		return
	}

	var draft entity.ListingDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	listing, err := h.CreateListingUC.Execute(r.Context(), token, draft)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeListingCreated(w, listing)
}

// Intake handles POST /api/business/intake, the manual listing form.
func (h *BusinessHandler) Intake(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, usecase.CodeUnauthorized, "Unauthorized")
		return
	}

	var input usecase.SubmitIntakeInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	listing, err := h.SubmitIntakeUC.Execute(r.Context(), token, input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeListingCreated(w, listing)
}

// Status handles GET /api/business/{id}/status.
func (h *BusinessHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Listing id must be a positive integer")
		return
	}

	out, err := h.StatusUC.Execute(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
