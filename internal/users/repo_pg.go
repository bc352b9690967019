package users

import (
	"context"
	"database/sql"
	"errors"

	"jobmatch-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, email, role, password_hash, full_name, picture_url, COALESCE(external_id, ''), created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, role, password_hash, full_name, picture_url, external_id, created_at, updated_at)
VALUES ($1, lower($2), $3, $4, $5, $6, $7, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		string(user.Role),
		user.PasswordHash,
		user.FullName,
		user.PictureURL,
		nullableString(user.ExternalID),
	)
	if db.IsUniqueViolation(err, "") {
		return ErrEmailTaken
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = lower($1) LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) UpsertExternal(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, email, role, password_hash, full_name, picture_url, external_id, created_at, updated_at)
VALUES ($1, lower($2), $3, '', $4, $5, $6, now(), now())
ON CONFLICT (external_id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  picture_url = EXCLUDED.picture_url,
  updated_at = now()
RETURNING ` + userColumns
	stored, err := scanUser(r.DB.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		string(user.Role),
		user.FullName,
		user.PictureURL,
		user.ExternalID,
	))
	if db.IsUniqueViolation(err, "") {
		return User{}, ErrEmailTaken
	}
	return stored, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	var role string
	err := row.Scan(
		&user.ID,
		&user.Email,
		&role,
		&user.PasswordHash,
		&user.FullName,
		&user.PictureURL,
		&user.ExternalID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.Role = Role(role)
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
