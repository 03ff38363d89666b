package reader

import (
	"errors"
	"net/http"

	"github.com/foliolabs/folio/internal/documents"
)

// Session lifecycle errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionNotReady = errors.New("session not ready")
	ErrSessionActive   = errors.New("document already has an active session")
)

// MapHTTPStatus converts reader errors to appropriate HTTP status codes,
// falling back to the documents mapping for lookup failures.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSessionNotReady), errors.Is(err, ErrSessionActive):
		return http.StatusConflict
	default:
		return documents.MapHTTPStatus(err)
	}
}
