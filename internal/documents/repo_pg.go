package documents

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, firm_id, uploaded_by, filename, size_bytes, storage_key, mime_type, extracted_text, extracted_at, uploaded_at`

// Create inserts a new document row.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, firm_id, uploaded_by, filename, size_bytes, storage_key, mime_type, uploaded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var uploadedBy sql.NullString
	if doc.UploadedBy != "" {
		uploadedBy = sql.NullString{String: doc.UploadedBy, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.FirmID,
		uploadedBy,
		doc.FileName,
		doc.SizeBytes,
		doc.StorageKey,
		doc.MimeType,
		doc.UploadedAt,
	)
	return err
}

// GetByID fetches a document by ID within a firm.
func (r *PGRepo) GetByID(ctx context.Context, firmID, documentID string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE firm_id = $1 AND id = $2
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, firmID, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByFirm lists a firm's documents newest-first.
func (r *PGRepo) ListByFirm(ctx context.Context, firmID string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE firm_id = $1
ORDER BY uploaded_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, firmID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Delete removes a document row within a firm.
func (r *PGRepo) Delete(ctx context.Context, firmID, documentID string) error {
	const query = `DELETE FROM documents WHERE firm_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, firmID, documentID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetExtractedText caches extracted text for a document. The cache is written
// once; a later call for an already-extracted document is a no-op.
func (r *PGRepo) SetExtractedText(ctx context.Context, firmID, documentID, text string, extractedAt time.Time) error {
	const query = `
UPDATE documents
SET extracted_text = $1, extracted_at = $2
WHERE firm_id = $3 AND id = $4 AND extracted_text IS NULL`
	_, err := r.DB.ExecContext(ctx, query, text, extractedAt, firmID, documentID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var uploadedBy sql.NullString
	var extractedText sql.NullString
	var extractedAt sql.NullTime
	if err := row.Scan(
		&doc.ID,
		&doc.FirmID,
		&uploadedBy,
		&doc.FileName,
		&doc.SizeBytes,
		&doc.StorageKey,
		&doc.MimeType,
		&extractedText,
		&extractedAt,
		&doc.UploadedAt,
	); err != nil {
		return Document{}, err
	}
	if uploadedBy.Valid {
		doc.UploadedBy = uploadedBy.String
	}
	if extractedText.Valid {
		doc.ExtractedText = extractedText.String
	}
	if extractedAt.Valid {
		doc.ExtractedAt = &extractedAt.Time
	}
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
