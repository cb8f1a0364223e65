package documents

import (
	"context"
	"time"
)

// Repo defines persistence operations for documents. All reads and writes are
// scoped to a firm; a row owned by another firm behaves as absent.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, firmID, documentID string) (Document, error)
	ListByFirm(ctx context.Context, firmID string, limit, offset int) ([]Document, error)
	Delete(ctx context.Context, firmID, documentID string) error
	SetExtractedText(ctx context.Context, firmID, documentID, text string, extractedAt time.Time) error
}
