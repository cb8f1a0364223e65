package templates

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Template // firmID -> templates
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Template),
	}
}

// Create stores a template; a new default unsets the firm's previous one.
func (r *MemoryRepo) Create(ctx context.Context, tpl Template) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl.IsDefault {
		r.clearDefaultLocked(tpl.FirmID)
	}
	r.data[tpl.FirmID] = append(r.data[tpl.FirmID], tpl)
	return nil
}

// GetByID returns a firm's template by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, firmID, templateID string) (Template, error) {
	if err := ctx.Err(); err != nil {
		return Template{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tpls := r.data[firmID]
	for i := range tpls {
		if tpls[i].ID == templateID {
			return tpls[i], nil
		}
	}
	return Template{}, ErrNotFound
}

// GetDefault returns the firm's default template.
func (r *MemoryRepo) GetDefault(ctx context.Context, firmID string) (Template, error) {
	if err := ctx.Err(); err != nil {
		return Template{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tpls := r.data[firmID]
	for i := range tpls {
		if tpls[i].IsDefault {
			return tpls[i], nil
		}
	}
	return Template{}, ErrNotFound
}

// ListByFirm returns a firm's templates, newest first.
func (r *MemoryRepo) ListByFirm(ctx context.Context, firmID string) ([]Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	firmTpls := r.data[firmID]
	r.mu.RUnlock()

	tpls := make([]Template, len(firmTpls))
	copy(tpls, firmTpls)
	sort.Slice(tpls, func(i, j int) bool {
		return tpls[i].CreatedAt.After(tpls[j].CreatedAt)
	})
	return tpls, nil
}

// Update rewrites a template; a new default unsets the firm's previous one.
func (r *MemoryRepo) Update(ctx context.Context, tpl Template) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	tpls := r.data[tpl.FirmID]
	for i := range tpls {
		if tpls[i].ID == tpl.ID {
			if tpl.IsDefault {
				r.clearDefaultLocked(tpl.FirmID)
			}
			tpl.CreatedAt = tpls[i].CreatedAt
			tpl.CreatedBy = tpls[i].CreatedBy
			tpls[i] = tpl
			r.data[tpl.FirmID] = tpls
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes a firm's template by ID.
func (r *MemoryRepo) Delete(ctx context.Context, firmID, templateID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	tpls := r.data[firmID]
	for i := range tpls {
		if tpls[i].ID == templateID {
			r.data[firmID] = append(tpls[:i], tpls[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) clearDefaultLocked(firmID string) {
	tpls := r.data[firmID]
	for i := range tpls {
		tpls[i].IsDefault = false
	}
	r.data[firmID] = tpls
}

var _ Repo = (*MemoryRepo)(nil)
