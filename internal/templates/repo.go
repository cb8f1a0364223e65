package templates

import "context"

// Repo defines persistence operations for letter templates. Implementations
// keep at most one default template per firm: creating or updating a template
// with IsDefault set unsets the previous default in the same transaction.
type Repo interface {
	Create(ctx context.Context, tpl Template) error
	GetByID(ctx context.Context, firmID, templateID string) (Template, error)
	GetDefault(ctx context.Context, firmID string) (Template, error)
	ListByFirm(ctx context.Context, firmID string) ([]Template, error)
	Update(ctx context.Context, tpl Template) error
	Delete(ctx context.Context, firmID, templateID string) error
}
