package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
	"github.com/xavierca1/rewards-onboarding/internal/infra/http/middleware"
)

type placeSearcher interface {
	Search(ctx context.Context, query string) ([]entity.CandidateBusiness, error)
}

type PlacesHandler struct {
	Lookup placeSearcher
	Logger logrus.FieldLogger
}

func NewPlacesHandler(lookup placeSearcher, logger logrus.FieldLogger) *PlacesHandler {
	return &PlacesHandler{Lookup: lookup, Logger: logger}
}

// Search handles GET /api/places/search?query=.
func (h *PlacesHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "QUERY_REQUIRED", "Query parameter is required")
		return
	}

	places, err := h.Lookup.Search(r.Context(), query)
	if err != nil {
		middleware.RecordIntegrationError("places")
		h.Logger.WithField("module", "places").WithError(err).Warn("place search failed")
		writeError(w, http.StatusBadGateway, "LOOKUP_UNAVAILABLE", "Failed to fetch places")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"places": places})
}
