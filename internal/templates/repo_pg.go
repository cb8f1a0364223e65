package templates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const templateColumns = `id, firm_id, name, letterhead_text, opening_paragraph, closing_paragraph, sections, is_default, created_by, created_at, updated_at`

// Create inserts a template. When IsDefault is set, the firm's previous
// default is unset inside the same transaction.
func (r *PGRepo) Create(ctx context.Context, tpl Template) error {
	sections, err := marshalSections(tpl.Sections)
	if err != nil {
		return err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if tpl.IsDefault {
		if err := clearDefault(ctx, tx, tpl.FirmID); err != nil {
			return err
		}
	}

	const query = `
INSERT INTO letter_templates (id, firm_id, name, letterhead_text, opening_paragraph, closing_paragraph, sections, is_default, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var createdBy sql.NullString
	if tpl.CreatedBy != "" {
		createdBy = sql.NullString{String: tpl.CreatedBy, Valid: true}
	}

	if _, err := tx.ExecContext(ctx, query,
		tpl.ID,
		tpl.FirmID,
		tpl.Name,
		tpl.LetterheadText,
		tpl.OpeningParagraph,
		tpl.ClosingParagraph,
		sections,
		tpl.IsDefault,
		createdBy,
		tpl.CreatedAt,
		tpl.UpdatedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID fetches a template by ID within a firm.
func (r *PGRepo) GetByID(ctx context.Context, firmID, templateID string) (Template, error) {
	const query = `
SELECT ` + templateColumns + `
FROM letter_templates
WHERE firm_id = $1 AND id = $2
LIMIT 1`
	return r.queryOne(ctx, query, firmID, templateID)
}

// GetDefault fetches the firm's default template.
func (r *PGRepo) GetDefault(ctx context.Context, firmID string) (Template, error) {
	const query = `
SELECT ` + templateColumns + `
FROM letter_templates
WHERE firm_id = $1 AND is_default
LIMIT 1`
	return r.queryOne(ctx, query, firmID)
}

func (r *PGRepo) queryOne(ctx context.Context, query string, args ...any) (Template, error) {
	tpl, err := scanTemplate(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Template{}, ErrNotFound
		}
		return Template{}, err
	}
	return tpl, nil
}

// ListByFirm lists a firm's templates, newest first.
func (r *PGRepo) ListByFirm(ctx context.Context, firmID string) ([]Template, error) {
	const query = `
SELECT ` + templateColumns + `
FROM letter_templates
WHERE firm_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, firmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	return out, rows.Err()
}

// Update rewrites a template's fields. Setting IsDefault unsets the firm's
// previous default in the same transaction.
func (r *PGRepo) Update(ctx context.Context, tpl Template) error {
	sections, err := marshalSections(tpl.Sections)
	if err != nil {
		return err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if tpl.IsDefault {
		if err := clearDefault(ctx, tx, tpl.FirmID); err != nil {
			return err
		}
	}

	const query = `
UPDATE letter_templates
SET name = $1, letterhead_text = $2, opening_paragraph = $3, closing_paragraph = $4, sections = $5, is_default = $6, updated_at = $7
WHERE firm_id = $8 AND id = $9`

	res, err := tx.ExecContext(ctx, query,
		tpl.Name,
		tpl.LetterheadText,
		tpl.OpeningParagraph,
		tpl.ClosingParagraph,
		sections,
		tpl.IsDefault,
		tpl.UpdatedAt,
		tpl.FirmID,
		tpl.ID,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// Delete removes a template within a firm.
func (r *PGRepo) Delete(ctx context.Context, firmID, templateID string) error {
	const query = `DELETE FROM letter_templates WHERE firm_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, firmID, templateID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func clearDefault(ctx context.Context, tx *sql.Tx, firmID string) error {
	const query = `UPDATE letter_templates SET is_default = FALSE WHERE firm_id = $1 AND is_default`
	_, err := tx.ExecContext(ctx, query, firmID)
	return err
}

func marshalSections(sections []string) ([]byte, error) {
	if sections == nil {
		sections = []string{}
	}
	return json.Marshal(sections)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (Template, error) {
	var tpl Template
	var letterhead, opening, closing sql.NullString
	var sections []byte
	var createdBy sql.NullString
	if err := row.Scan(
		&tpl.ID,
		&tpl.FirmID,
		&tpl.Name,
		&letterhead,
		&opening,
		&closing,
		&sections,
		&tpl.IsDefault,
		&createdBy,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	); err != nil {
		return Template{}, err
	}
	if letterhead.Valid {
		tpl.LetterheadText = letterhead.String
	}
	if opening.Valid {
		tpl.OpeningParagraph = opening.String
	}
	if closing.Valid {
		tpl.ClosingParagraph = closing.String
	}
	if createdBy.Valid {
		tpl.CreatedBy = createdBy.String
	}
	if len(sections) > 0 {
		if err := json.Unmarshal(sections, &tpl.Sections); err != nil {
			return Template{}, err
		}
	}
	return tpl, nil
}

var _ Repo = (*PGRepo)(nil)
