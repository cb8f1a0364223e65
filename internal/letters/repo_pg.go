package letters

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres. Mutate takes a row lock with
// SELECT ... FOR UPDATE so finalize/export sequences are single-writer per
// letter.
type PGRepo struct {
	DB *sql.DB
}

const letterColumns = `id, firm_id, created_by, title, content, status, template_id, docx_key, docx_content_hash, created_at, updated_at`

// Create inserts the letter and its source-document associations in one
// transaction.
func (r *PGRepo) Create(ctx context.Context, letter Letter, documentIDs []string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insertLetter = `
INSERT INTO generated_letters (id, firm_id, created_by, title, content, status, template_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var createdBy sql.NullString
	if letter.CreatedBy != "" {
		createdBy = sql.NullString{String: letter.CreatedBy, Valid: true}
	}
	var templateID sql.NullString
	if letter.TemplateID != "" {
		templateID = sql.NullString{String: letter.TemplateID, Valid: true}
	}

	if _, err := tx.ExecContext(ctx, insertLetter,
		letter.ID,
		letter.FirmID,
		createdBy,
		letter.Title,
		letter.Content,
		letter.Status,
		templateID,
		letter.CreatedAt,
		letter.UpdatedAt,
	); err != nil {
		return err
	}

	const insertAssociation = `
INSERT INTO letter_source_documents (letter_id, document_id) VALUES ($1, $2)`
	for _, docID := range documentIDs {
		if _, err := tx.ExecContext(ctx, insertAssociation, letter.ID, docID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID fetches a letter by ID within a firm.
func (r *PGRepo) GetByID(ctx context.Context, firmID, letterID string) (Letter, error) {
	const query = `
SELECT ` + letterColumns + `
FROM generated_letters
WHERE firm_id = $1 AND id = $2
LIMIT 1`
	letter, err := scanLetter(r.DB.QueryRowContext(ctx, query, firmID, letterID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Letter{}, ErrNotFound
		}
		return Letter{}, err
	}
	return letter, nil
}

// ListByFirm lists a firm's letters, newest first.
func (r *PGRepo) ListByFirm(ctx context.Context, firmID string, limit, offset int) ([]Letter, error) {
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
SELECT ` + letterColumns + `
FROM generated_letters
WHERE firm_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, firmID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Letter
	for rows.Next() {
		letter, err := scanLetter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, letter)
	}
	return out, rows.Err()
}

// DocumentIDs returns the source-document IDs recorded at generation time.
func (r *PGRepo) DocumentIDs(ctx context.Context, firmID, letterID string) ([]string, error) {
	if _, err := r.GetByID(ctx, firmID, letterID); err != nil {
		return nil, err
	}
	const query = `
SELECT document_id FROM letter_source_documents WHERE letter_id = $1`
	rows, err := r.DB.QueryContext(ctx, query, letterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Mutate locks the letter row, applies fn, and writes the result back in the
// same transaction. The caller's render/upload sequence runs inside fn, so it
// happens under the row lock.
func (r *PGRepo) Mutate(ctx context.Context, firmID, letterID string, fn func(*Letter) error) (Letter, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Letter{}, err
	}
	defer tx.Rollback()

	const selectForUpdate = `
SELECT ` + letterColumns + `
FROM generated_letters
WHERE firm_id = $1 AND id = $2
FOR UPDATE`
	letter, err := scanLetter(tx.QueryRowContext(ctx, selectForUpdate, firmID, letterID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Letter{}, ErrNotFound
		}
		return Letter{}, err
	}

	if err := fn(&letter); err != nil {
		return Letter{}, err
	}

	const update = `
UPDATE generated_letters
SET title = $1, content = $2, status = $3, docx_key = $4, docx_content_hash = $5, updated_at = $6
WHERE firm_id = $7 AND id = $8`

	var docxKey sql.NullString
	if letter.DocxKey != "" {
		docxKey = sql.NullString{String: letter.DocxKey, Valid: true}
	}
	var docxHash sql.NullString
	if letter.DocxContentHash != "" {
		docxHash = sql.NullString{String: letter.DocxContentHash, Valid: true}
	}

	if _, err := tx.ExecContext(ctx, update,
		letter.Title,
		letter.Content,
		letter.Status,
		docxKey,
		docxHash,
		letter.UpdatedAt,
		firmID,
		letterID,
	); err != nil {
		return Letter{}, err
	}

	if err := tx.Commit(); err != nil {
		return Letter{}, err
	}
	return letter, nil
}

// Delete removes the letter's associations and row in one transaction.
func (r *PGRepo) Delete(ctx context.Context, firmID, letterID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const deleteAssociations = `DELETE FROM letter_source_documents WHERE letter_id = $1`
	if _, err := tx.ExecContext(ctx, deleteAssociations, letterID); err != nil {
		return err
	}

	const deleteLetter = `DELETE FROM generated_letters WHERE firm_id = $1 AND id = $2`
	res, err := tx.ExecContext(ctx, deleteLetter, firmID, letterID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLetter(row rowScanner) (Letter, error) {
	var letter Letter
	var createdBy, templateID, docxKey, docxHash sql.NullString
	if err := row.Scan(
		&letter.ID,
		&letter.FirmID,
		&createdBy,
		&letter.Title,
		&letter.Content,
		&letter.Status,
		&templateID,
		&docxKey,
		&docxHash,
		&letter.CreatedAt,
		&letter.UpdatedAt,
	); err != nil {
		return Letter{}, err
	}
	if createdBy.Valid {
		letter.CreatedBy = createdBy.String
	}
	if templateID.Valid {
		letter.TemplateID = templateID.String
	}
	if docxKey.Valid {
		letter.DocxKey = docxKey.String
	}
	if docxHash.Valid {
		letter.DocxContentHash = docxHash.String
	}
	return letter, nil
}

var _ Repo = (*PGRepo)(nil)
