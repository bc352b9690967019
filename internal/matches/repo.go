package matches

import "context"

type Repo interface {
	// FindActiveByPair returns the non-canceled match for the pair, or ErrNotFound.
	FindActiveByPair(ctx context.Context, resumeID, vacancyID string) (Match, error)
	// Create inserts a match and returns ErrActiveExists when the pair is already held.
	Create(ctx context.Context, m Match) error
	// GetByID returns the match with resume, vacancy, sender and receiver loaded.
	GetByID(ctx context.Context, id string) (Match, error)
	// UpdateStatus moves id from one status to another. It returns ErrStatusChanged
	// when the stored status is no longer from, including when the row is gone.
	UpdateStatus(ctx context.Context, id string, from, to Status) error
	ListByParticipant(ctx context.Context, userID string, offset, limit int) ([]Match, error)
	CountByParticipant(ctx context.Context, userID string) (int, error)
	ResumeReferenced(ctx context.Context, resumeID string) (bool, error)
	VacancyReferenced(ctx context.Context, vacancyID string) (bool, error)
}
