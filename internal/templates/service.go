package templates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Input carries caller-editable template fields.
type Input struct {
	Name             string
	LetterheadText   string
	OpeningParagraph string
	ClosingParagraph string
	Sections         []string
	IsDefault        bool
}

// Service contains business logic for letter templates.
type Service struct {
	Repo Repo
}

// Create validates and persists a new template.
func (s *Service) Create(ctx context.Context, firmID, createdBy string, in Input) (Template, error) {
	if firmID == "" {
		return Template{}, ErrInvalidInput
	}
	if err := validate(&in); err != nil {
		return Template{}, err
	}

	now := time.Now().UTC()
	tpl := Template{
		ID:               uuid.NewString(),
		FirmID:           firmID,
		Name:             in.Name,
		LetterheadText:   in.LetterheadText,
		OpeningParagraph: in.OpeningParagraph,
		ClosingParagraph: in.ClosingParagraph,
		Sections:         in.Sections,
		IsDefault:        in.IsDefault,
		CreatedBy:        createdBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.Repo.Create(ctx, tpl); err != nil {
		return Template{}, err
	}
	return tpl, nil
}

// Get returns a firm's template by ID.
func (s *Service) Get(ctx context.Context, firmID, templateID string) (Template, error) {
	if firmID == "" || templateID == "" {
		return Template{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, firmID, templateID)
}

// GetDefault returns the firm's default template.
func (s *Service) GetDefault(ctx context.Context, firmID string) (Template, error) {
	if firmID == "" {
		return Template{}, ErrInvalidInput
	}
	return s.Repo.GetDefault(ctx, firmID)
}

// List returns a firm's templates.
func (s *Service) List(ctx context.Context, firmID string) ([]Template, error) {
	if firmID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByFirm(ctx, firmID)
}

// Update validates and rewrites an existing template.
func (s *Service) Update(ctx context.Context, firmID, templateID string, in Input) (Template, error) {
	existing, err := s.Get(ctx, firmID, templateID)
	if err != nil {
		return Template{}, err
	}
	if err := validate(&in); err != nil {
		return Template{}, err
	}

	existing.Name = in.Name
	existing.LetterheadText = in.LetterheadText
	existing.OpeningParagraph = in.OpeningParagraph
	existing.ClosingParagraph = in.ClosingParagraph
	existing.Sections = in.Sections
	existing.IsDefault = in.IsDefault
	existing.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, existing); err != nil {
		return Template{}, err
	}
	return existing, nil
}

// Delete removes a firm's template by ID.
func (s *Service) Delete(ctx context.Context, firmID, templateID string) error {
	if firmID == "" || templateID == "" {
		return ErrInvalidInput
	}
	return s.Repo.Delete(ctx, firmID, templateID)
}

func validate(in *Input) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(in.Name) > 255 {
		in.Name = in.Name[:255]
	}
	cleaned := make([]string, 0, len(in.Sections))
	for _, section := range in.Sections {
		section = strings.TrimSpace(section)
		if section != "" {
			cleaned = append(cleaned, section)
		}
	}
	in.Sections = cleaned
	return nil
}
