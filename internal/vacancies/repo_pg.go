package vacancies

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

const selectVacancy = `
SELECT v.id, v.title, v.description, v.salary, v.author_id, v.created_at, v.updated_at,
       u.id, u.email, u.role, u.full_name
FROM vacancies v
JOIN users u ON u.id = v.author_id`

func (r *PGRepo) Create(ctx context.Context, vacancy Vacancy) error {
	const query = `
INSERT INTO vacancies (id, author_id, title, description, salary, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		vacancy.ID,
		vacancy.AuthorID,
		vacancy.Title,
		vacancy.Description,
		nullableFloat(vacancy.Salary),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Vacancy, error) {
	const query = selectVacancy + `
WHERE v.id = $1
LIMIT 1`
	return scanVacancy(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) Update(ctx context.Context, vacancy Vacancy) error {
	const query = `
UPDATE vacancies
SET title = $3, description = $4, salary = $5, updated_at = now()
WHERE id = $1 AND author_id = $2`
	res, err := r.DB.ExecContext(ctx, query,
		vacancy.ID,
		vacancy.AuthorID,
		vacancy.Title,
		vacancy.Description,
		nullableFloat(vacancy.Salary),
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) Delete(ctx context.Context, id, authorID string) error {
	const query = `DELETE FROM vacancies WHERE id = $1 AND author_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, authorID)
	if err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return ErrInUse
		}
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) ListByAuthor(ctx context.Context, authorID string, ids []string, offset, limit int) ([]Vacancy, error) {
	where, args := authorFilter(authorID, ids)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`%s
WHERE %s
ORDER BY v.created_at DESC, v.id DESC
LIMIT $%d OFFSET $%d`, selectVacancy, where, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Vacancy{}
	for rows.Next() {
		vacancy, err := scanVacancy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, vacancy)
	}
	return out, rows.Err()
}

func (r *PGRepo) CountByAuthor(ctx context.Context, authorID string, ids []string) (int, error) {
	where, args := authorFilter(authorID, ids)
	query := `SELECT COUNT(*) FROM vacancies v WHERE ` + where
	var total int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func authorFilter(authorID string, ids []string) (string, []any) {
	args := []any{authorID}
	where := "v.author_id = $1"
	if len(ids) == 0 {
		return where, args
	}
	placeholders := make([]string, len(ids))
	for i, id := range ids {
		args = append(args, id)
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}
	return where + " AND v.id IN (" + strings.Join(placeholders, ", ") + ")", args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVacancy(row rowScanner) (Vacancy, error) {
	var vacancy Vacancy
	var salary sql.NullFloat64
	var role string
	err := row.Scan(
		&vacancy.ID,
		&vacancy.Title,
		&vacancy.Description,
		&salary,
		&vacancy.AuthorID,
		&vacancy.CreatedAt,
		&vacancy.UpdatedAt,
		&vacancy.Author.ID,
		&vacancy.Author.Email,
		&role,
		&vacancy.Author.FullName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Vacancy{}, ErrNotFound
		}
		return Vacancy{}, err
	}
	if salary.Valid {
		v := salary.Float64
		vacancy.Salary = &v
	}
	vacancy.Author.Role = users.Role(role)
	return vacancy, nil
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
