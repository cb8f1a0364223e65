package llm

import (
	"context"
	"errors"
)

// Client abstracts generative-text providers for demand letter drafting.
type Client interface {
	GenerateLetter(ctx context.Context, input GenerateInput) (string, error)
}

// TemplateData carries the template boilerplate embedded in the prompt.
type TemplateData struct {
	LetterheadText   string
	OpeningParagraph string
	ClosingParagraph string
	Sections         []string
}

// DocumentText is one source document's extracted text, labelled by ID.
type DocumentText struct {
	DocumentID string
	Text       string
}

// GenerateInput captures the inputs for one letter generation call.
type GenerateInput struct {
	Template  TemplateData
	Documents []DocumentText
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// GenerateLetter returns ErrNotImplemented.
func (PlaceholderClient) GenerateLetter(ctx context.Context, input GenerateInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotImplemented
}
