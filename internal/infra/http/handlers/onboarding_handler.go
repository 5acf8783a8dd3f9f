package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/rewards-onboarding/internal/config"
	"github.com/xavierca1/rewards-onboarding/internal/entity"
	"github.com/xavierca1/rewards-onboarding/internal/infra/http/middleware"
	"github.com/xavierca1/rewards-onboarding/internal/onboarding"
)

const (
	msgLookupUnavailable = "The business directory is unavailable. Please try again."
	msgLookupNotFound    = "We couldn't find that business. Try another search."
)

type upsellOffer interface {
	OfferUpgrade(ctx context.Context, token string) (onboarding.RedirectTarget, error)
}

// OnboardingHandler exposes the onboarding state machine over JSON. Every
// route needs the visitor middleware in front of it.
type OnboardingHandler struct {
	Machine       *onboarding.Machine
	Upsell        upsellOffer
	SecureCookies bool
	Logger        logrus.FieldLogger
}

func NewOnboardingHandler(machine *onboarding.Machine, upsell upsellOffer, secureCookies bool, logger logrus.FieldLogger) *OnboardingHandler {
	return &OnboardingHandler{Machine: machine, Upsell: upsell, SecureCookies: secureCookies, Logger: logger}
}

type stateResponse struct {
	State    onboarding.State `json:"state"`
	Redirect bool             `json:"redirect,omitempty"`
}

// writeDecision renders a redirect as 303 with the target step, anything else as 200.
func writeDecision(w http.ResponseWriter, d onboarding.Decision, body any) bool {
	if d.Redirected() {
		w.Header().Set("Location", d.State.Path())
		writeJSON(w, http.StatusSeeOther, stateResponse{State: d.State, Redirect: true})
		return true
	}
	if body == nil {
		body = stateResponse{State: d.State}
	}
	writeJSON(w, http.StatusOK, body)
	return false
}

func (h *OnboardingHandler) internalError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	config.LogError(h.Logger, "onboarding", funcName, "step state", map[string]interface{}{
		"visitor": middleware.VisitorID(r.Context()),
	}, err)
	middleware.RecordStep(funcName, "error")
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

// GET /onboarding/search
func (h *OnboardingHandler) Search(w http.ResponseWriter, r *http.Request) {
	view, err := h.Machine.Search(r.Context(), middleware.VisitorID(r.Context()))
	if err != nil {
		h.internalError(w, r, "Search", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": view.State, "query": view.Query})
}

// POST /onboarding/search
func (h *OnboardingHandler) SubmitSearch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	decision, err := h.Machine.SubmitSearch(r.Context(), middleware.VisitorID(r.Context()), body.Query)
	if errors.Is(err, onboarding.ErrEmptyQuery) {
		writeError(w, http.StatusBadRequest, "QUERY_REQUIRED", "Please enter a business name")
		return
	}
	if err != nil {
		h.internalError(w, r, "SubmitSearch", err)
		return
	}
	middleware.RecordStep(string(onboarding.StateSearch), "submitted")
	writeDecision(w, decision, nil)
}

// GET /onboarding/verify
func (h *OnboardingHandler) Verify(w http.ResponseWriter, r *http.Request) {
	view, err := h.Machine.Verify(r.Context(), middleware.VisitorID(r.Context()))
	if err != nil {
		h.internalError(w, r, "Verify", err)
		return
	}
	if view.Redirected() {
		writeDecision(w, view.Decision, nil)
		return
	}

	resp := map[string]any{
		"state":  view.State,
		"query":  view.Query,
		"status": view.Status,
	}
	switch view.Status {
	case onboarding.LookupFound:
		resp["candidate"] = view.Candidate
	case onboarding.LookupNotFound:
		resp["message"] = msgLookupNotFound
	case onboarding.LookupUnavailable:
		middleware.RecordIntegrationError("places")
		resp["message"] = msgLookupUnavailable
	}
	middleware.RecordStep(string(onboarding.StateVerify), string(view.Status))
	writeJSON(w, http.StatusOK, resp)
}

// POST /onboarding/verify/confirm
func (h *OnboardingHandler) ConfirmCandidate(w http.ResponseWriter, r *http.Request) {
	decision, err := h.Machine.ConfirmCandidate(r.Context(), middleware.VisitorID(r.Context()))
	if err != nil {
		h.internalError(w, r, "ConfirmCandidate", err)
		return
	}
	if !writeDecision(w, decision, nil) {
		middleware.RecordStep(string(onboarding.StateVerify), "confirmed")
	}
}

// POST /onboarding/verify/reject
func (h *OnboardingHandler) RejectCandidate(w http.ResponseWriter, r *http.Request) {
	decision, err := h.Machine.RejectCandidate(r.Context(), middleware.VisitorID(r.Context()))
	if err != nil {
		h.internalError(w, r, "RejectCandidate", err)
		return
	}
	middleware.RecordStep(string(onboarding.StateVerify), "rejected")
	writeDecision(w, decision, nil)
}

// GET /onboarding/create-account
func (h *OnboardingHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	view, err := h.Machine.CreateAccount(r.Context(), middleware.VisitorID(r.Context()))
	if err != nil {
		h.internalError(w, r, "CreateAccount", err)
		return
	}
	if view.Redirected() {
		writeDecision(w, view.Decision, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":    view.State,
		"business": view.Business,
		"draft":    view.Draft,
	})
}

// POST /onboarding/create-account
func (h *OnboardingHandler) SubmitAccount(w http.ResponseWriter, r *http.Request) {
	var draft entity.AccountDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	decision, err := h.Machine.SubmitAccount(r.Context(), middleware.VisitorID(r.Context()), draft)
	if err != nil {
		var vErr *onboarding.ValidationFailedError
		switch {
		case errors.As(err, &vErr):
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:   "VALIDATION_ERROR",
				Message: "Please correct the highlighted fields",
				Fields:  vErr.Fields,
			})
		case errors.Is(err, onboarding.ErrOwnershipNotAttested):
			writeError(w, http.StatusUnprocessableEntity, "OWNERSHIP_REQUIRED", "You must confirm you own or manage this business")
		default:
			h.internalError(w, r, "SubmitAccount", err)
			return
		}
		middleware.RecordStep(string(onboarding.StateCreateAccount), "invalid")
		return
	}
	if !writeDecision(w, decision, nil) {
		middleware.RecordStep(string(onboarding.StateCreateAccount), "submitted")
	}
}

// GET /onboarding/terms
func (h *OnboardingHandler) Terms(w http.ResponseWriter, r *http.Request) {
	view, err := h.Machine.Terms(r.Context(), middleware.VisitorID(r.Context()))
	if err != nil {
		h.internalError(w, r, "Terms", err)
		return
	}
	if view.Redirected() {
		writeDecision(w, view.Decision, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":    view.State,
		"business": view.Business,
		"draft":    view.Draft,
	})
}

// POST /onboarding/terms
func (h *OnboardingHandler) AcceptTerms(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Agreed bool `json:"agreed"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	view, err := h.Machine.AcceptTerms(r.Context(), middleware.VisitorID(r.Context()), body.Agreed)
	if err != nil {
		h.writeActivationError(w, r, err)
		return
	}
	if view.Redirected() {
		writeDecision(w, view.Decision, nil)
		return
	}

	middleware.RecordActivation("success", "")
	middleware.SetSessionCookie(w, view.Session, h.SecureCookies)
	writeJSON(w, http.StatusOK, map[string]any{
		"state":   view.State,
		"listing": view.Listing,
	})
}

func (h *OnboardingHandler) writeActivationError(w http.ResponseWriter, r *http.Request, err error) {
	var stepErr *onboarding.ActivationStepFailedError
	switch {
	case errors.Is(err, onboarding.ErrTermsNotAccepted):
		writeError(w, http.StatusUnprocessableEntity, "TERMS_REQUIRED", "You must accept the terms to continue")
	case errors.Is(err, onboarding.ErrActivationInProgress):
		writeError(w, http.StatusConflict, "ACTIVATION_IN_PROGRESS", "Your listing is already being activated")
	case errors.As(err, &stepErr):
		middleware.RecordActivation("failed", stepErr.Step)
		status := http.StatusBadGateway
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			status = http.StatusConflict
		}
		writeError(w, status, "ACTIVATION_FAILED", onboarding.ActivationFailedMessage)
	default:
		h.internalError(w, r, "AcceptTerms", err)
	}
}

// POST /onboarding/upgrade
func (h *OnboardingHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	target, err := h.Upsell.OfferUpgrade(r.Context(), middleware.SessionToken(r))
	if err != nil {
		middleware.RecordUpsell("failed")
		writeError(w, http.StatusBadGateway, "UPSELL_FAILED", "Could not start the upgrade. Your free listing is active.")
		return
	}
	middleware.RecordUpsell("redirected")
	writeJSON(w, http.StatusOK, target)
}
