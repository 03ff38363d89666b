// Package documents provides the reading library: PDF import, metadata
// management, and per-document reading progress. Imported files are kept in
// blob storage; metadata lives in PostgreSQL.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document represents an imported PDF with metadata and reading progress.
type Document struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Filename  string    `json:"filename"`
	SizeBytes int64     `json:"size_bytes"`

	// PageCount is the last confirmed page count. It is extracted at import
	// and may be nil until a render session confirms it.
	PageCount *int `json:"page_count,omitempty"`

	// LastReadPage is 1-indexed and defaults to 1 for unread documents.
	LastReadPage int        `json:"last_read_page"`
	LastReadAt   *time.Time `json:"last_read_at,omitempty"`

	StorageKey string    `json:"storage_key"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Locator returns the byte source locator for the document's stored blob.
func (d *Document) Locator() string {
	return "blob:" + d.StorageKey
}

// CreateCommand contains the data required to import a new document.
// Data holds the raw file bytes to be stored.
type CreateCommand struct {
	Name      string
	Filename  string
	SizeBytes int64
	PageCount *int
	Data      []byte
}

// UpdateCommand contains the fields that can be modified on an existing document.
// Only the display name can be changed; the stored file is immutable.
type UpdateCommand struct {
	Name string
}
