// Package handlers holds the small response helpers shared by every HTTP
// handler, so success and error bodies look the same across the API.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RespondJSON encodes data as the JSON response body under the given status.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs the failure and answers with an {"error": ...} body.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logger.Error("handler error", "error", err, "status", status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
