package documents

import (
	"context"

	"github.com/foliolabs/folio/pkg/pagination"
	"github.com/google/uuid"
)

// System defines the document library operations.
// Implementations handle blob storage and database persistence.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error)
	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdateProgress records the last read page and stamps the read time.
	UpdateProgress(ctx context.Context, id uuid.UUID, page int) error

	// ConfirmPageCount records the page count reported by a render session.
	ConfirmPageCount(ctx context.Context, id uuid.UUID, pageCount int) error

	// ClearAll removes every document and its stored blob.
	ClearAll(ctx context.Context) error
}
