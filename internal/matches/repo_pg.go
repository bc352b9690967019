package matches

import (
	"context"
	"database/sql"
	"errors"

	"jobmatch-backend/internal/shared/storage/db"
	"jobmatch-backend/internal/users"
)

// activePairIndex is the partial unique index that serialises concurrent proposals.
const activePairIndex = "matches_active_pair_uidx"

type PGRepo struct {
	DB *sql.DB
}

const selectHydrated = `
SELECT m.id, m.resume_id, m.vacancy_id, m.sender_id, m.receiver_id, m.status, m.created_at, m.updated_at,
       r.id, r.title, r.description, r.salary, r.author_id, r.attachment_key, r.created_at, r.updated_at,
       ra.id, ra.email, ra.role, ra.full_name,
       v.id, v.title, v.description, v.salary, v.author_id, v.created_at, v.updated_at,
       va.id, va.email, va.role, va.full_name,
       s.id, s.email, s.role, s.full_name,
       rc.id, rc.email, rc.role, rc.full_name
FROM matches m
JOIN resumes r ON r.id = m.resume_id
JOIN users ra ON ra.id = r.author_id
JOIN vacancies v ON v.id = m.vacancy_id
JOIN users va ON va.id = v.author_id
JOIN users s ON s.id = m.sender_id
JOIN users rc ON rc.id = m.receiver_id`

func (r *PGRepo) FindActiveByPair(ctx context.Context, resumeID, vacancyID string) (Match, error) {
	const query = `
SELECT id, resume_id, vacancy_id, sender_id, receiver_id, status, created_at, updated_at
FROM matches
WHERE resume_id = $1 AND vacancy_id = $2 AND status <> 'CANCELED'
LIMIT 1`
	var m Match
	var status string
	err := r.DB.QueryRowContext(ctx, query, resumeID, vacancyID).Scan(
		&m.ID,
		&m.ResumeID,
		&m.VacancyID,
		&m.SenderID,
		&m.ReceiverID,
		&status,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Match{}, ErrNotFound
		}
		return Match{}, err
	}
	m.Status = Status(status)
	return m, nil
}

func (r *PGRepo) Create(ctx context.Context, m Match) error {
	const query = `
INSERT INTO matches (id, resume_id, vacancy_id, sender_id, receiver_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		m.ID,
		m.ResumeID,
		m.VacancyID,
		m.SenderID,
		m.ReceiverID,
		string(m.Status),
	)
	switch {
	case db.IsUniqueViolation(err, activePairIndex):
		return ErrActiveExists
	case db.IsForeignKeyViolation(err, ""):
		return ErrReferenceGone
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Match, error) {
	const query = selectHydrated + `
WHERE m.id = $1
LIMIT 1`
	return scanMatch(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	const query = `
UPDATE matches
SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2`
	res, err := r.DB.ExecContext(ctx, query, id, string(from), string(to))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStatusChanged
	}
	return nil
}

func (r *PGRepo) ListByParticipant(ctx context.Context, userID string, offset, limit int) ([]Match, error) {
	const query = selectHydrated + `
WHERE m.sender_id = $1 OR m.receiver_id = $1
ORDER BY m.created_at DESC, m.id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PGRepo) CountByParticipant(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM matches WHERE sender_id = $1 OR receiver_id = $1`
	var total int
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PGRepo) ResumeReferenced(ctx context.Context, resumeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM matches WHERE resume_id = $1)`
	return r.exists(ctx, query, resumeID)
}

func (r *PGRepo) VacancyReferenced(ctx context.Context, vacancyID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM matches WHERE vacancy_id = $1)`
	return r.exists(ctx, query, vacancyID)
}

func (r *PGRepo) exists(ctx context.Context, query, arg string) (bool, error) {
	var ok bool
	if err := r.DB.QueryRowContext(ctx, query, arg).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (Match, error) {
	var m Match
	var status string
	var resumeSalary, vacancySalary sql.NullFloat64
	var resumeRole, vacancyRole, senderRole, receiverRole string
	err := row.Scan(
		&m.ID, &m.ResumeID, &m.VacancyID, &m.SenderID, &m.ReceiverID, &status, &m.CreatedAt, &m.UpdatedAt,
		&m.Resume.ID, &m.Resume.Title, &m.Resume.Description, &resumeSalary, &m.Resume.AuthorID,
		&m.Resume.AttachmentKey, &m.Resume.CreatedAt, &m.Resume.UpdatedAt,
		&m.Resume.Author.ID, &m.Resume.Author.Email, &resumeRole, &m.Resume.Author.FullName,
		&m.Vacancy.ID, &m.Vacancy.Title, &m.Vacancy.Description, &vacancySalary, &m.Vacancy.AuthorID,
		&m.Vacancy.CreatedAt, &m.Vacancy.UpdatedAt,
		&m.Vacancy.Author.ID, &m.Vacancy.Author.Email, &vacancyRole, &m.Vacancy.Author.FullName,
		&m.Sender.ID, &m.Sender.Email, &senderRole, &m.Sender.FullName,
		&m.Receiver.ID, &m.Receiver.Email, &receiverRole, &m.Receiver.FullName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Match{}, ErrNotFound
		}
		return Match{}, err
	}
	m.Status = Status(status)
	m.Resume.Salary = floatPtr(resumeSalary)
	m.Vacancy.Salary = floatPtr(vacancySalary)
	m.Resume.Author.Role = users.Role(resumeRole)
	m.Vacancy.Author.Role = users.Role(vacancyRole)
	m.Sender.Role = users.Role(senderRole)
	m.Receiver.Role = users.Role(receiverRole)
	return m, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
