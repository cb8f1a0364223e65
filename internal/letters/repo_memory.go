package letters

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo. A per-letter mutex gives
// Mutate the same single-writer guarantee the Postgres row lock provides.
type MemoryRepo struct {
	mu    sync.RWMutex
	data  map[string]Letter   // letterID -> letter
	docs  map[string][]string // letterID -> source document IDs
	locks map[string]*sync.Mutex
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data:  make(map[string]Letter),
		docs:  make(map[string][]string),
		locks: make(map[string]*sync.Mutex),
	}
}

// Create stores a letter and its source-document associations.
func (r *MemoryRepo) Create(ctx context.Context, letter Letter, documentIDs []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[letter.ID] = letter
	r.docs[letter.ID] = append([]string(nil), documentIDs...)
	return nil
}

// GetByID returns a firm's letter by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, firmID, letterID string) (Letter, error) {
	if err := ctx.Err(); err != nil {
		return Letter{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getLocked(firmID, letterID)
}

func (r *MemoryRepo) getLocked(firmID, letterID string) (Letter, error) {
	letter, ok := r.data[letterID]
	if !ok || letter.FirmID != firmID {
		return Letter{}, ErrNotFound
	}
	return letter, nil
}

// ListByFirm returns a firm's letters, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByFirm(ctx context.Context, firmID string, limit, offset int) ([]Letter, error) {
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
	var out []Letter
	for _, letter := range r.data {
		if letter.FirmID == firmID {
			out = append(out, letter)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []Letter{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

// DocumentIDs returns the source-document IDs recorded at generation time.
func (r *MemoryRepo) DocumentIDs(ctx context.Context, firmID, letterID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, err := r.getLocked(firmID, letterID); err != nil {
		return nil, err
	}
	return append([]string(nil), r.docs[letterID]...), nil
}

// Mutate applies fn under the letter's mutex and persists the result.
func (r *MemoryRepo) Mutate(ctx context.Context, firmID, letterID string, fn func(*Letter) error) (Letter, error) {
	if err := ctx.Err(); err != nil {
		return Letter{}, err
	}

	lock := r.letterLock(letterID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.RLock()
	letter, err := r.getLocked(firmID, letterID)
	r.mu.RUnlock()
	if err != nil {
		return Letter{}, err
	}

	if err := fn(&letter); err != nil {
		return Letter{}, err
	}

	r.mu.Lock()
	r.data[letterID] = letter
	r.mu.Unlock()
	return letter, nil
}

// Delete removes a firm's letter and its associations.
func (r *MemoryRepo) Delete(ctx context.Context, firmID, letterID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.getLocked(firmID, letterID); err != nil {
		return err
	}
	delete(r.data, letterID)
	delete(r.docs, letterID)
	delete(r.locks, letterID)
	return nil
}

func (r *MemoryRepo) letterLock(letterID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lock, ok := r.locks[letterID]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	r.locks[letterID] = lock
	return lock
}

var _ Repo = (*MemoryRepo)(nil)
