package letters

import "time"

// GenerateRequest is the inbound payload for letter generation.
type GenerateRequest struct {
	TemplateID  string   `json:"templateId"`
	DocumentIDs []string `json:"documentIds"`
	Title       string   `json:"title"`
}

// GenerateResponse is what generation returns: the new draft.
type GenerateResponse struct {
	LetterID string `json:"letterId"`
	Content  string `json:"content"`
	Status   string `json:"status"`
}

// LetterSummary is the list-view representation. It omits content and
// download URLs.
type LetterSummary struct {
	LetterID  string    `json:"letterId"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LetterResponse is the full single-letter representation.
type LetterResponse struct {
	LetterID   string    `json:"letterId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Status     string    `json:"status"`
	TemplateID string    `json:"templateId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UpdateRequest carries optional title/content edits.
type UpdateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// ExportResponse is returned by finalize and export.
type ExportResponse struct {
	LetterID    string `json:"letterId"`
	Status      string `json:"status"`
	FileName    string `json:"fileName"`
	DownloadURL string `json:"downloadUrl"`
}

func toSummary(letter Letter) LetterSummary {
	return LetterSummary{
		LetterID:  letter.ID,
		Title:     letter.Title,
		Status:    letter.Status,
		CreatedAt: letter.CreatedAt,
		UpdatedAt: letter.UpdatedAt,
	}
}

func toResponse(letter Letter) LetterResponse {
	return LetterResponse{
		LetterID:   letter.ID,
		Title:      letter.Title,
		Content:    letter.Content,
		Status:     letter.Status,
		TemplateID: letter.TemplateID,
		CreatedAt:  letter.CreatedAt,
		UpdatedAt:  letter.UpdatedAt,
	}
}

func toExportResponse(result ExportResult) ExportResponse {
	return ExportResponse{
		LetterID:    result.Letter.ID,
		Status:      result.Letter.Status,
		FileName:    result.FileName,
		DownloadURL: result.DownloadURL,
	}
}
