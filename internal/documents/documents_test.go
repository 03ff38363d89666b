package documents_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/foliolabs/folio/internal/documents"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", documents.ErrNotFound, http.StatusNotFound},
		{"duplicate", documents.ErrDuplicate, http.StatusConflict},
		{"too large", documents.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid file", documents.ErrInvalidFile, http.StatusBadRequest},
		{"invalid page", documents.ErrInvalidPage, http.StatusBadRequest},
		{"wrapped not found", errors.Join(errors.New("find"), documents.ErrNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := documents.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestDocument_Locator(t *testing.T) {
	doc := documents.Document{StorageKey: "a1b2c3.pdf"}
	if got := doc.Locator(); got != "blob:a1b2c3.pdf" {
		t.Errorf("Locator() = %q, want %q", got, "blob:a1b2c3.pdf")
	}
}
