package users

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"jobmatch-backend/internal/shared/apperr"
)

const minPasswordLength = 8

type Service struct {
	Repo Repo
	// HashCost defaults to bcrypt.DefaultCost; tests lower it.
	HashCost int
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, HashCost: bcrypt.DefaultCost}
}

type RegisterInput struct {
	Email    string
	Password string
	Role     string
}

// ExternalProfile is the identity returned by an OAuth provider.
type ExternalProfile struct {
	Provider   string
	Subject    string
	Email      string
	FullName   string
	PictureURL string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return User{}, err
	}
	role, ok := ParseRole(in.Role)
	if !ok {
		return User{}, apperr.Validation("role must be one of CANDIDATE, HR")
	}
	if len(in.Password) < minPasswordLength {
		return User{}, apperr.Validation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return User{}, apperr.Wrap(apperr.KindConflict, "user already exists", err)
		}
		return User{}, err
	}
	return s.Repo.GetByID(ctx, user.ID)
}

// Login checks the password and returns the user. Unknown emails and wrong passwords
// are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	invalid := apperr.Wrap(apperr.KindUnauthorized, "invalid email or password", ErrInvalidCredentials)

	normalized, err := normalizeEmail(email)
	if err != nil {
		return User{}, invalid
	}
	user, err := s.Repo.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, invalid
		}
		return User{}, err
	}
	if user.PasswordHash == "" {
		return User{}, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, invalid
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, apperr.Validation("user id is required")
	}
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperr.Wrap(apperr.KindNotFound, "user not found", err)
		}
		return User{}, err
	}
	return user, nil
}

// UpsertExternal creates or refreshes a CANDIDATE user for an OAuth identity.
func (s *Service) UpsertExternal(ctx context.Context, p ExternalProfile) (User, error) {
	if strings.TrimSpace(p.Provider) == "" || strings.TrimSpace(p.Subject) == "" {
		return User{}, apperr.Validation("external identity is required")
	}
	email, err := normalizeEmail(p.Email)
	if err != nil {
		return User{}, err
	}
	user, err := s.Repo.UpsertExternal(ctx, User{
		ID:         uuid.NewString(),
		Email:      email,
		Role:       RoleCandidate,
		FullName:   strings.TrimSpace(p.FullName),
		PictureURL: strings.TrimSpace(p.PictureURL),
		ExternalID: p.Provider + ":" + p.Subject,
	})
	if errors.Is(err, ErrEmailTaken) {
		return User{}, apperr.Wrap(apperr.KindConflict, "user already exists", err)
	}
	return user, err
}

func (s *Service) cost() int {
	if s.HashCost == 0 {
		return bcrypt.DefaultCost
	}
	return s.HashCost
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", apperr.Validation("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", apperr.Validation("email is invalid")
	}
	return email, nil
}
