package templates

import "time"

// TemplateRequest is the inbound payload for create/update.
type TemplateRequest struct {
	Name             string   `json:"name"`
	LetterheadText   string   `json:"letterheadText"`
	OpeningParagraph string   `json:"openingParagraph"`
	ClosingParagraph string   `json:"closingParagraph"`
	Sections         []string `json:"sections"`
	IsDefault        bool     `json:"isDefault"`
}

// TemplateResponse is the outward-facing representation of a template.
type TemplateResponse struct {
	TemplateID       string    `json:"templateId"`
	Name             string    `json:"name"`
	LetterheadText   string    `json:"letterheadText,omitempty"`
	OpeningParagraph string    `json:"openingParagraph,omitempty"`
	ClosingParagraph string    `json:"closingParagraph,omitempty"`
	Sections         []string  `json:"sections"`
	IsDefault        bool      `json:"isDefault"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func toResponse(tpl Template) TemplateResponse {
	sections := tpl.Sections
	if sections == nil {
		sections = []string{}
	}
	return TemplateResponse{
		TemplateID:       tpl.ID,
		Name:             tpl.Name,
		LetterheadText:   tpl.LetterheadText,
		OpeningParagraph: tpl.OpeningParagraph,
		ClosingParagraph: tpl.ClosingParagraph,
		Sections:         sections,
		IsDefault:        tpl.IsDefault,
		CreatedAt:        tpl.CreatedAt,
		UpdatedAt:        tpl.UpdatedAt,
	}
}
