package users

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Upsert inserts or refreshes a user row keyed by email. The user's firm row
// is created on first sight so the FK always holds.
func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const firmQuery = `
INSERT INTO firms (id, name, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, firmQuery, user.FirmID, user.Email, user.CreatedAt); err != nil {
		return err
	}

	const userQuery = `
INSERT INTO users (id, firm_id, email, name, picture, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (email) DO UPDATE
SET name = EXCLUDED.name, picture = EXCLUDED.picture`
	if _, err := tx.ExecContext(ctx, userQuery,
		user.ID,
		user.FirmID,
		user.Email,
		user.FullName,
		user.PictureURL,
		user.CreatedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByEmail returns the user with the given email.
func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT id, firm_id, email, name, picture, created_at
FROM users
WHERE email = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

// GetByID returns the user with the given ID.
func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, firm_id, email, name, picture, created_at
FROM users
WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) scanOne(row *sql.Row) (User, error) {
	var user User
	var name, picture sql.NullString
	err := row.Scan(&user.ID, &user.FirmID, &user.Email, &name, &picture, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if name.Valid {
		user.FullName = name.String
	}
	if picture.Valid {
		user.PictureURL = picture.String
	}
	return user, nil
}

var _ Repo = (*PGRepo)(nil)
