package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"jobmatch-backend/internal/shared/storage/db"
	"jobmatch-backend/internal/users"
)

type PGRepo struct {
	DB *sql.DB
}

const selectResume = `
SELECT r.id, r.title, r.description, r.salary, r.author_id, r.attachment_key, r.created_at, r.updated_at,
       u.id, u.email, u.role, u.full_name
FROM resumes r
JOIN users u ON u.id = r.author_id`

func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (id, author_id, title, description, salary, attachment_key, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.AuthorID,
		resume.Title,
		resume.Description,
		nullableFloat(resume.Salary),
		resume.AttachmentKey,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	const query = selectResume + `
WHERE r.id = $1
LIMIT 1`
	return scanResume(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) Update(ctx context.Context, resume Resume) error {
	const query = `
UPDATE resumes
SET title = $3, description = $4, salary = $5, updated_at = now()
WHERE id = $1 AND author_id = $2`
	res, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.AuthorID,
		resume.Title,
		resume.Description,
		nullableFloat(resume.Salary),
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) Delete(ctx context.Context, id, authorID string) error {
	const query = `DELETE FROM resumes WHERE id = $1 AND author_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, authorID)
	if err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return ErrInUse
		}
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) ListByAuthor(ctx context.Context, authorID string, ids []string, offset, limit int) ([]Resume, error) {
	where, args := authorFilter(authorID, ids)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`%s
WHERE %s
ORDER BY r.created_at DESC, r.id DESC
LIMIT $%d OFFSET $%d`, selectResume, where, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

func (r *PGRepo) CountByAuthor(ctx context.Context, authorID string, ids []string) (int, error) {
	where, args := authorFilter(authorID, ids)
	query := `SELECT COUNT(*) FROM resumes r WHERE ` + where
	var total int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func authorFilter(authorID string, ids []string) (string, []any) {
	args := []any{authorID}
	where := "r.author_id = $1"
	if len(ids) == 0 {
		return where, args
	}
	placeholders := make([]string, len(ids))
	for i, id := range ids {
		args = append(args, id)
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}
	return where + " AND r.id IN (" + strings.Join(placeholders, ", ") + ")", args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var resume Resume
	var salary sql.NullFloat64
	var role string
	err := row.Scan(
		&resume.ID,
		&resume.Title,
		&resume.Description,
		&salary,
		&resume.AuthorID,
		&resume.AttachmentKey,
		&resume.CreatedAt,
		&resume.UpdatedAt,
		&resume.Author.ID,
		&resume.Author.Email,
		&role,
		&resume.Author.FullName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	if salary.Valid {
		v := salary.Float64
		resume.Salary = &v
	}
	resume.Author.Role = users.Role(role)
	return resume, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
