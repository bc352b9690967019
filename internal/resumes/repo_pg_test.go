package resumes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

var resumeColumns = []string{
	"id", "title", "description", "salary", "author_id", "attachment_key", "created_at", "updated_at",
	"id", "email", "role", "full_name",
}

func TestPGRepoGetByIDJoinsAuthor(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	mock.ExpectQuery("FROM resumes r\\s+JOIN users u ON u.id = r.author_id\\s+WHERE r.id = \\$1").
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows(resumeColumns).
			AddRow("r1", "Go developer", "backend", nil, "u1", "", now, now, "u1", "a@example.com", "CANDIDATE", "Ann"))

	repo := &PGRepo{DB: db}
	resume, err := repo.GetByID(context.Background(), "r1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if resume.Salary != nil {
		t.Fatalf("expected nil salary, got %v", *resume.Salary)
	}
	if resume.Author.Email != "a@example.com" || resume.Author.Role != "CANDIDATE" {
		t.Fatalf("unexpected author %+v", resume.Author)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByAuthorWithIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	mock.ExpectQuery("WHERE r.author_id = \\$1 AND r.id IN \\(\\$2, \\$3\\)\\s+ORDER BY r.created_at DESC, r.id DESC\\s+LIMIT \\$4 OFFSET \\$5").
		WithArgs("u1", "r1", "r2", 10, 0).
		WillReturnRows(sqlmock.NewRows(resumeColumns).
			AddRow("r1", "A", "", 100.0, "u1", "", now, now, "u1", "a@example.com", "CANDIDATE", ""))

	repo := &PGRepo{DB: db}
	out, err := repo.ListByAuthor(context.Background(), "u1", []string{"r1", "r2"}, 0, 10)
	if err != nil {
		t.Fatalf("ListByAuthor: %v", err)
	}
	if len(out) != 1 || *out[0].Salary != 100 {
		t.Fatalf("unexpected rows %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteMapsErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("DELETE FROM resumes").
		WithArgs("r1", "u1").
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectExec("DELETE FROM resumes").
		WithArgs("r2", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	if err := repo.Delete(context.Background(), "r1", "u1"); !errors.Is(err, ErrInUse) {
		t.Fatalf("expected ErrInUse, got %v", err)
	}
	if err := repo.Delete(context.Background(), "r2", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
