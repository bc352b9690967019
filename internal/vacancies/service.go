package vacancies

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"jobmatch-backend/internal/shared/apperr"
	"jobmatch-backend/internal/shared/auth"
	"jobmatch-backend/internal/shared/pagination"
)

const maxTitleLength = 5000

// ReferenceChecker reports whether any match points at a vacancy.
type ReferenceChecker interface {
	VacancyReferenced(ctx context.Context, vacancyID string) (bool, error)
}

type Service struct {
	Repo Repo
	Refs ReferenceChecker
}

// GetByID resolves any vacancy by id for the match engine.
func (s *Service) GetByID(ctx context.Context, id string) (Vacancy, error) {
	vacancy, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Vacancy{}, translate(err)
	}
	return vacancy, nil
}

func (s *Service) Create(ctx context.Context, p auth.Principal, in CreateInput) (Vacancy, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return Vacancy{}, err
	}
	if in.Salary != nil && *in.Salary < 0 {
		return Vacancy{}, apperr.Validation("salary must not be negative")
	}
	vacancy := Vacancy{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Salary:      in.Salary,
		AuthorID:    p.UserID,
	}
	if err := s.Repo.Create(ctx, vacancy); err != nil {
		return Vacancy{}, err
	}
	return s.GetByID(ctx, vacancy.ID)
}

func (s *Service) Get(ctx context.Context, p auth.Principal, id string) (Vacancy, error) {
	vacancy, err := s.GetByID(ctx, id)
	if err != nil {
		return Vacancy{}, err
	}
	if vacancy.AuthorID != p.UserID {
		return Vacancy{}, translate(ErrNotFound)
	}
	return vacancy, nil
}

func (s *Service) Update(ctx context.Context, p auth.Principal, id string, in UpdateInput) (Vacancy, error) {
	vacancy, err := s.Get(ctx, p, id)
	if err != nil {
		return Vacancy{}, err
	}
	if in.Title != nil {
		if vacancy.Title, err = validateTitle(*in.Title); err != nil {
			return Vacancy{}, err
		}
	}
	if in.Description != nil {
		vacancy.Description = strings.TrimSpace(*in.Description)
	}
	if in.Salary != nil {
		if *in.Salary < 0 {
			return Vacancy{}, apperr.Validation("salary must not be negative")
		}
		vacancy.Salary = in.Salary
	}
	if err := s.Repo.Update(ctx, vacancy); err != nil {
		return Vacancy{}, translate(err)
	}
	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, p auth.Principal, id string) (Vacancy, error) {
	vacancy, err := s.Get(ctx, p, id)
	if err != nil {
		return Vacancy{}, err
	}
	if s.Refs != nil {
		referenced, err := s.Refs.VacancyReferenced(ctx, id)
		if err != nil {
			return Vacancy{}, err
		}
		if referenced {
			return Vacancy{}, translate(ErrInUse)
		}
	}
	if err := s.Repo.Delete(ctx, id, p.UserID); err != nil {
		return Vacancy{}, translate(err)
	}
	return vacancy, nil
}

func (s *Service) List(ctx context.Context, p auth.Principal, f ListFilter) (ListResult, error) {
	page := pagination.Page(&f.Page)
	items, err := s.Repo.ListByAuthor(ctx, p.UserID, f.IDs, pagination.Skip(page), pagination.PageSize)
	if err != nil {
		return ListResult{}, err
	}
	total, err := s.Repo.CountByAuthor(ctx, p.UserID, f.IDs)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Vacancies: items, Pagination: pagination.Build(page, total)}, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, "vacancy not found", err)
	case errors.Is(err, ErrInUse):
		return apperr.Wrap(apperr.KindConflict, "vacancy is referenced by a match", err)
	default:
		return err
	}
}

func validateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", apperr.Validation("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", apperr.Validation("title must be at most 5000 characters")
	}
	return title, nil
}
