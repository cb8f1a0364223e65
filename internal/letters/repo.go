package letters

import "context"

// Repo defines persistence operations for generated letters. Create persists
// the letter and its source-document associations atomically. Mutate loads
// the letter under a per-letter write lock, applies fn, and persists the
// result before releasing the lock; fn errors abort without writing.
type Repo interface {
	Create(ctx context.Context, letter Letter, documentIDs []string) error
	GetByID(ctx context.Context, firmID, letterID string) (Letter, error)
	ListByFirm(ctx context.Context, firmID string, limit, offset int) ([]Letter, error)
	DocumentIDs(ctx context.Context, firmID, letterID string) ([]string, error)
	Mutate(ctx context.Context, firmID, letterID string, fn func(*Letter) error) (Letter, error)
	Delete(ctx context.Context, firmID, letterID string) error
}
