package users

import "context"

type Repo interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// UpsertExternal inserts or refreshes a user keyed by ExternalID and returns the stored row.
	UpsertExternal(ctx context.Context, user User) (User, error)
}
