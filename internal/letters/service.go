package letters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"letters-backend/internal/documents"
	"letters-backend/internal/extract"
	"letters-backend/internal/llm"
	"letters-backend/internal/render"
	"letters-backend/internal/shared/metrics"
	"letters-backend/internal/shared/storage/object"
	"letters-backend/internal/shared/telemetry"
	"letters-backend/internal/shared/util"
	"letters-backend/internal/templates"
)

const (
	maxSourceDocuments = 5
	maxTitleBytes      = 255
)

// truncateTitle caps a title at maxTitleBytes without splitting a
// multi-byte rune at the cut point.
func truncateTitle(title string) string {
	if len(title) <= maxTitleBytes {
		return title
	}
	cut := maxTitleBytes
	for cut > 0 && !utf8.RuneStart(title[cut]) {
		cut--
	}
	return title[:cut]
}

// Service contains the letter generation and lifecycle logic.
type Service struct {
	Letters    Repo
	Templates  templates.Repo
	Docs       documents.Repo
	Extract    *extract.Service
	LLM        llm.Client
	Exports    object.ObjectStore
	PresignTTL time.Duration
}

// GenerateInput is what the caller supplies for one generation.
type GenerateInput struct {
	TemplateID  string
	DocumentIDs []string
	Title       string
}

// Generate drafts a new letter from a template and 1..5 source documents.
// The letter row and its associations are written atomically; a failure at
// any stage leaves no rows and no stored objects behind.
func (s *Service) Generate(ctx context.Context, firmID, createdBy string, in GenerateInput) (Letter, error) {
	if firmID == "" {
		return Letter{}, ErrInvalidInput
	}
	if len(in.DocumentIDs) == 0 {
		return Letter{}, fmt.Errorf("%w: at least one document is required", ErrInvalidInput)
	}
	if len(in.DocumentIDs) > maxSourceDocuments {
		return Letter{}, fmt.Errorf("%w: at most %d documents allowed per generation", ErrInvalidInput, maxSourceDocuments)
	}
	seen := make(map[string]struct{}, len(in.DocumentIDs))
	for _, docID := range in.DocumentIDs {
		if _, dup := seen[docID]; dup {
			return Letter{}, fmt.Errorf("%w: duplicate document %s", ErrInvalidInput, docID)
		}
		seen[docID] = struct{}{}
	}

	metrics.IncGenerationStarted()
	start := time.Now()

	tpl, err := s.Templates.GetByID(ctx, firmID, in.TemplateID)
	if err != nil {
		if errors.Is(err, templates.ErrNotFound) {
			return Letter{}, fmt.Errorf("%w: template %s", ErrNotFound, in.TemplateID)
		}
		return Letter{}, err
	}

	docs := make([]documents.Document, 0, len(in.DocumentIDs))
	for _, docID := range in.DocumentIDs {
		doc, err := s.Docs.GetByID(ctx, firmID, docID)
		if err != nil {
			if errors.Is(err, documents.ErrNotFound) {
				return Letter{}, fmt.Errorf("%w: document %s", ErrNotFound, docID)
			}
			return Letter{}, err
		}
		docs = append(docs, doc)
	}

	// Extract sequentially in request order; any failure aborts.
	texts := make([]llm.DocumentText, 0, len(docs))
	for _, doc := range docs {
		text, err := s.Extract.Text(ctx, doc)
		if err != nil {
			metrics.IncGenerationFailed()
			return Letter{}, fmt.Errorf("%w: extract %s: %v", ErrUpstream, doc.ID, err)
		}
		if strings.TrimSpace(text) == "" {
			metrics.IncGenerationFailed()
			return Letter{}, fmt.Errorf("%w: document %s has no extractable text", ErrUpstream, doc.ID)
		}
		texts = append(texts, llm.DocumentText{DocumentID: doc.ID, Text: text})
	}

	content, err := s.LLM.GenerateLetter(ctx, llm.GenerateInput{
		Template: llm.TemplateData{
			LetterheadText:   tpl.LetterheadText,
			OpeningParagraph: tpl.OpeningParagraph,
			ClosingParagraph: tpl.ClosingParagraph,
			Sections:         tpl.Sections,
		},
		Documents: texts,
	})
	if err != nil {
		metrics.IncGenerationFailed()
		return Letter{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	sanitized := util.SanitizeHTML(content)
	if strings.TrimSpace(sanitized) == "" {
		metrics.IncGenerationFailed()
		return Letter{}, fmt.Errorf("%w: generated content is empty", ErrUpstream)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Demand Letter - " + tpl.Name
	}
	title = truncateTitle(title)

	now := time.Now().UTC()
	letter := Letter{
		ID:         uuid.NewString(),
		FirmID:     firmID,
		CreatedBy:  createdBy,
		Title:      title,
		Content:    sanitized,
		Status:     StatusDraft,
		TemplateID: tpl.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Letters.Create(ctx, letter, in.DocumentIDs); err != nil {
		metrics.IncGenerationFailed()
		return Letter{}, err
	}

	metrics.IncGenerationCompleted()
	metrics.ObserveGenerationDuration(time.Since(start))
	telemetry.Info("letter generated", map[string]any{
		"firm_id":   firmID,
		"letter_id": letter.ID,
		"documents": len(in.DocumentIDs),
	})
	return letter, nil
}

// Get returns a firm's letter by ID.
func (s *Service) Get(ctx context.Context, firmID, letterID string) (Letter, error) {
	if firmID == "" || letterID == "" {
		return Letter{}, ErrInvalidInput
	}
	return s.Letters.GetByID(ctx, firmID, letterID)
}

// List returns a firm's letters, newest first.
func (s *Service) List(ctx context.Context, firmID string, limit, offset int) ([]Letter, error) {
	if firmID == "" {
		return nil, ErrInvalidInput
	}
	return s.Letters.ListByFirm(ctx, firmID, limit, offset)
}

// SourceDocumentIDs returns the IDs recorded at generation time.
func (s *Service) SourceDocumentIDs(ctx context.Context, firmID, letterID string) ([]string, error) {
	if firmID == "" || letterID == "" {
		return nil, ErrInvalidInput
	}
	return s.Letters.DocumentIDs(ctx, firmID, letterID)
}

// UpdateInput carries optional edits to a letter.
type UpdateInput struct {
	Title   *string
	Content *string
}

// Update edits a letter's title and/or content and bumps updated_at.
func (s *Service) Update(ctx context.Context, firmID, letterID string, in UpdateInput) (Letter, error) {
	if firmID == "" || letterID == "" {
		return Letter{}, ErrInvalidInput
	}
	if in.Title == nil && in.Content == nil {
		return Letter{}, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	return s.Letters.Mutate(ctx, firmID, letterID, func(letter *Letter) error {
		if in.Title != nil {
			title := strings.TrimSpace(*in.Title)
			if title == "" {
				return fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
			}
			letter.Title = truncateTitle(title)
		}
		if in.Content != nil {
			sanitized := util.SanitizeHTML(*in.Content)
			if strings.TrimSpace(sanitized) == "" {
				return fmt.Errorf("%w: content cannot be empty", ErrInvalidInput)
			}
			letter.Content = sanitized
		}
		letter.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// ExportResult is the outcome of a finalize or export call.
type ExportResult struct {
	Letter      Letter
	FileName    string
	DownloadURL string
}

// Finalize renders the letter's current content to DOCX, uploads it, and
// marks the letter created. Re-finalizing regenerates the artifact; the
// superseded object is deleted best-effort. The render/upload/update sequence
// runs under the letter's write lock.
func (s *Service) Finalize(ctx context.Context, firmID, letterID string) (ExportResult, error) {
	return s.exportLocked(ctx, firmID, letterID, true)
}

// Export produces a download URL for the letter's DOCX artifact without
// changing its status. When the stored artifact already matches the current
// content (by content hash) the existing object is presigned; otherwise the
// artifact is regenerated exactly as in Finalize.
func (s *Service) Export(ctx context.Context, firmID, letterID string) (ExportResult, error) {
	return s.exportLocked(ctx, firmID, letterID, false)
}

func (s *Service) exportLocked(ctx context.Context, firmID, letterID string, markCreated bool) (ExportResult, error) {
	if firmID == "" || letterID == "" {
		return ExportResult{}, ErrInvalidInput
	}

	updated, err := s.Letters.Mutate(ctx, firmID, letterID, func(letter *Letter) error {
		contentHash := util.HashContent(letter.Content)
		if !markCreated && letter.DocxKey != "" && letter.DocxContentHash == contentHash {
			// Artifact still matches the content; reuse it.
			return nil
		}

		data, err := render.Letter(letter.Content)
		if err != nil {
			return fmt.Errorf("%w: render: %v", ErrStorage, err)
		}

		now := time.Now().UTC()
		fileName := render.FileName(letter.Title, now)
		key := fmt.Sprintf("%s/letters/%s", firmID, fileName)

		if _, err := s.Exports.Save(ctx, key, docxMimeType, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("%w: upload artifact: %v", ErrStorage, err)
		}

		if letter.DocxKey != "" && letter.DocxKey != key {
			if err := s.Exports.Delete(ctx, letter.DocxKey); err != nil {
				telemetry.Warn("superseded artifact delete failed", map[string]any{
					"firm_id":   firmID,
					"letter_id": letter.ID,
					"docx_key":  letter.DocxKey,
					"error":     err.Error(),
				})
			}
		}

		letter.DocxKey = key
		letter.DocxContentHash = contentHash
		letter.UpdatedAt = now
		if markCreated {
			letter.Status = StatusCreated
		}
		return nil
	})
	if err != nil {
		return ExportResult{}, err
	}

	ttl := s.PresignTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	url, err := s.Exports.PresignGet(ctx, updated.DocxKey, ttl)
	if err != nil {
		return ExportResult{}, fmt.Errorf("%w: presign artifact: %v", ErrStorage, err)
	}

	metrics.IncExport()
	return ExportResult{
		Letter:      updated,
		FileName:    fileNameFromKey(updated.DocxKey),
		DownloadURL: url,
	}, nil
}

// Delete removes the letter's DOCX artifact (if any), then its associations
// and row. An artifact delete failure aborts.
func (s *Service) Delete(ctx context.Context, firmID, letterID string) error {
	letter, err := s.Get(ctx, firmID, letterID)
	if err != nil {
		return err
	}
	if letter.DocxKey != "" {
		if err := s.Exports.Delete(ctx, letter.DocxKey); err != nil {
			return fmt.Errorf("%w: delete artifact: %v", ErrStorage, err)
		}
	}
	return s.Letters.Delete(ctx, firmID, letterID)
}

const docxMimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func fileNameFromKey(key string) string {
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		return key[idx+1:]
	}
	return key
}
