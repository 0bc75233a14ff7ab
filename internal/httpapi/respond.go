package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"IdeaSpark/internal/apperr"
)

// envelope is the wire format for every JSON response: {success, data} on
// the happy path, {success: false, error} otherwise.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if logger != nil {
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", "status", status, "error", err)
		} else {
			logger.Debug("request rejected", "status", status, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: err.Error()})
}
