package documents

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Document // firmID -> documents
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Document),
	}
}

// Create stores a document for a firm.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.FirmID] = append(r.data[doc.FirmID], doc)
	return nil
}

// GetByID returns a firm's document by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, firmID, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := r.data[firmID]
	for i := range docs {
		if docs[i].ID == documentID {
			return docs[i], nil
		}
	}
	return Document{}, ErrNotFound
}

// ListByFirm returns a firm's documents, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByFirm(ctx context.Context, firmID string, limit, offset int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	firmDocs := r.data[firmID]
	r.mu.RUnlock()

	if len(firmDocs) == 0 || offset >= len(firmDocs) {
		return []Document{}, nil
	}

	docs := make([]Document, len(firmDocs))
	copy(docs, firmDocs)
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})

	end := len(docs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return docs[offset:end], nil
}

// Delete removes a firm's document by ID.
func (r *MemoryRepo) Delete(ctx context.Context, firmID, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[firmID]
	for i := range docs {
		if docs[i].ID == documentID {
			r.data[firmID] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// SetExtractedText caches extracted text; the first write wins.
func (r *MemoryRepo) SetExtractedText(ctx context.Context, firmID, documentID, text string, extractedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[firmID]
	for i := range docs {
		if docs[i].ID == documentID {
			if docs[i].ExtractedText == "" {
				docs[i].ExtractedText = text
				docs[i].ExtractedAt = &extractedAt
				r.data[firmID] = docs
			}
			return nil
		}
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
