package letters

import "time"

// Letter statuses. Letters start as drafts; finalize moves them to created
// and they never go back.
const (
	StatusDraft   = "draft"
	StatusCreated = "created"
)

// Letter is a generated demand letter owned by a firm. Content is sanitized
// HTML; DocxKey and DocxContentHash track the exported artifact, if any.
type Letter struct {
	ID              string
	FirmID          string
	CreatedBy       string
	Title           string
	Content         string
	Status          string
	TemplateID      string
	DocxKey         string
	DocxContentHash string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
