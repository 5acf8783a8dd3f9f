package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
)

type InitDBHandler struct {
	Init   func(ctx context.Context) error
	Logger logrus.FieldLogger
}

func NewInitDBHandler(init func(ctx context.Context) error, logger logrus.FieldLogger) *InitDBHandler {
	return &InitDBHandler{Init: init, Logger: logger}
}

// Handle serves POST /api/init-db. The schema statements are idempotent.
func (h *InitDBHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if err := h.Init(r.Context()); err != nil {
		h.Logger.WithField("module", "database").WithError(err).Error("schema initialization failed")
		writeError(w, http.StatusInternalServerError, "INIT_DB_FAILED", "Failed to initialize database")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Database initialized successfully"})
}
