package resumes

import (
	"context"

	"jobmatch-backend/internal/users"
)

type Repo interface {
	Create(ctx context.Context, resume Resume) error
	// GetByID returns the resume with its author regardless of the caller.
	GetByID(ctx context.Context, id string) (Resume, error)
	// Update persists title, description and salary for a resume owned by resume.AuthorID.
	Update(ctx context.Context, resume Resume) error
	Delete(ctx context.Context, id, authorID string) error
	ListByAuthor(ctx context.Context, authorID string, ids []string, offset, limit int) ([]Resume, error)
	CountByAuthor(ctx context.Context, authorID string, ids []string) (int, error)
}

// AuthorLookup resolves the author profile for in-memory hydration.
type AuthorLookup interface {
	GetByID(ctx context.Context, userID string) (users.User, error)
}
