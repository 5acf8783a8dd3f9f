package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/xavierca1/rewards-onboarding/internal/usecase"
)

type errorResponse struct {
	Error   string                    `json:"error"`
	Message string                    `json:"message,omitempty"`
	Fields  []usecase.ValidationError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func decodeJSON(r *http.Request, dest any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	return dec.Decode(dest)
}

// writeUseCaseError maps use-case errors to status codes.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusBadRequest
		switch de.Code {
		case usecase.CodeEmailConflict:
			status = http.StatusConflict
		case usecase.CodeUnauthorized:
			status = http.StatusUnauthorized
		case usecase.CodeNotFound:
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: de.Code, Message: de.Message, Fields: de.Fields})
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) && te.Code == usecase.CodeGateway {
		writeError(w, http.StatusBadGateway, te.Code, te.Message)
		return
	}

	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}
