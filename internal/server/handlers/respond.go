package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// sendJSON writes a JSON response
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendDetail writes a {"detail": "..."} error response.
// Used for authentication, permission and generic failures.
func sendDetail(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	sendJSON(logger, w, map[string]string{"detail": message}, statusCode)
}

// sendFieldErrors writes a 400 response with per-field error lists,
// the shape clients decode as a field-error kind.
func sendFieldErrors(logger *slog.Logger, w http.ResponseWriter, fields map[string][]string) {
	sendJSON(logger, w, fields, http.StatusBadRequest)
}
