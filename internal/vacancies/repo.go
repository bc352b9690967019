package vacancies

import (
	"context"

	"jobmatch-backend/internal/users"
)

type Repo interface {
	Create(ctx context.Context, vacancy Vacancy) error
	// GetByID returns the vacancy with its author regardless of the caller.
	GetByID(ctx context.Context, id string) (Vacancy, error)
	// Update persists title, description and salary for a vacancy owned by vacancy.AuthorID.
	Update(ctx context.Context, vacancy Vacancy) error
	Delete(ctx context.Context, id, authorID string) error
	ListByAuthor(ctx context.Context, authorID string, ids []string, offset, limit int) ([]Vacancy, error)
	CountByAuthor(ctx context.Context, authorID string, ids []string) (int, error)
}

// AuthorLookup resolves the author profile for in-memory hydration.
type AuthorLookup interface {
	GetByID(ctx context.Context, userID string) (users.User, error)
}
