package resumes

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"jobmatch-backend/internal/extract"
	"jobmatch-backend/internal/shared/apperr"
	"jobmatch-backend/internal/shared/auth"
	"jobmatch-backend/internal/shared/pagination"
	"jobmatch-backend/internal/shared/storage/object"
	"jobmatch-backend/internal/shared/telemetry"
)

const maxTitleLength = 5000

// ReferenceChecker reports whether any match points at a resume.
type ReferenceChecker interface {
	ResumeReferenced(ctx context.Context, resumeID string) (bool, error)
}

type Service struct {
	Repo  Repo
	Store object.Store
	Refs  ReferenceChecker
}

type ImportInput struct {
	FileName string
	Title    string
	Salary   *float64
	Body     io.Reader
}

// GetByID resolves any resume by id. The match engine uses it; ownership is not checked.
func (s *Service) GetByID(ctx context.Context, id string) (Resume, error) {
	resume, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Resume{}, translate(err)
	}
	return resume, nil
}

func (s *Service) Create(ctx context.Context, p auth.Principal, in CreateInput) (Resume, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return Resume{}, err
	}
	if err := validateSalary(in.Salary); err != nil {
		return Resume{}, err
	}
	resume := Resume{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Salary:      in.Salary,
		AuthorID:    p.UserID,
	}
	return s.create(ctx, resume)
}

// Get returns a resume owned by the caller.
func (s *Service) Get(ctx context.Context, p auth.Principal, id string) (Resume, error) {
	resume, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Resume{}, translate(err)
	}
	if resume.AuthorID != p.UserID {
		return Resume{}, translate(ErrNotFound)
	}
	return resume, nil
}

func (s *Service) Update(ctx context.Context, p auth.Principal, id string, in UpdateInput) (Resume, error) {
	resume, err := s.Get(ctx, p, id)
	if err != nil {
		return Resume{}, err
	}
	if in.Title != nil {
		title, err := validateTitle(*in.Title)
		if err != nil {
			return Resume{}, err
		}
		resume.Title = title
	}
	if in.Description != nil {
		resume.Description = strings.TrimSpace(*in.Description)
	}
	if in.Salary != nil {
		if err := validateSalary(in.Salary); err != nil {
			return Resume{}, err
		}
		resume.Salary = in.Salary
	}
	if err := s.Repo.Update(ctx, resume); err != nil {
		return Resume{}, translate(err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes the caller's resume and returns it as it was.
func (s *Service) Delete(ctx context.Context, p auth.Principal, id string) (Resume, error) {
	resume, err := s.Get(ctx, p, id)
	if err != nil {
		return Resume{}, err
	}
	if s.Refs != nil {
		referenced, err := s.Refs.ResumeReferenced(ctx, id)
		if err != nil {
			return Resume{}, err
		}
		if referenced {
			return Resume{}, translate(ErrInUse)
		}
	}
	if err := s.Repo.Delete(ctx, id, p.UserID); err != nil {
		return Resume{}, translate(err)
	}
	return resume, nil
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
	return ListResult{Resumes: items, Pagination: pagination.Build(page, total)}, nil
}

// Import stores an uploaded file and creates a resume from its text.
func (s *Service) Import(ctx context.Context, p auth.Principal, in ImportInput) (Resume, error) {
	if s.Store == nil {
		return Resume{}, errors.New("object store not configured")
	}
	if err := validateSalary(in.Salary); err != nil {
		return Resume{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(in.FileName), filepath.Ext(in.FileName))
	}
	title, err := validateTitle(title)
	if err != nil {
		return Resume{}, err
	}

	stored, err := s.Store.Put(ctx, p.UserID, in.FileName, in.Body)
	if err != nil {
		return Resume{}, apperr.Wrap(apperr.KindValidation, "unable to store file", err)
	}
	text, err := extract.FromStore(ctx, s.Store, stored.Key, stored.MimeType, in.FileName)
	if err != nil {
		telemetry.Warn("resume.import_extract_failed", map[string]any{
			"user_id":   p.UserID,
			"key":       stored.Key,
			"mime_type": stored.MimeType,
			"error":     err,
		})
		if errors.Is(err, extract.ErrUnsupported) {
			return Resume{}, apperr.Wrap(apperr.KindValidation, "only PDF, DOCX and plain text files are supported", err)
		}
		return Resume{}, apperr.Wrap(apperr.KindValidation, "unable to read file contents", err)
	}

	resume := Resume{
		ID:            uuid.NewString(),
		Title:         title,
		Description:   text,
		Salary:        in.Salary,
		AuthorID:      p.UserID,
		AttachmentKey: stored.Key,
	}
	created, err := s.create(ctx, resume)
	if err != nil {
		return Resume{}, err
	}
	telemetry.Info("resume.imported", map[string]any{
		"resume_id":  created.ID,
		"user_id":    p.UserID,
		"size_bytes": stored.Size,
		"mime_type":  stored.MimeType,
	})
	return created, nil
}

func (s *Service) create(ctx context.Context, resume Resume) (Resume, error) {
	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	return s.GetByID(ctx, resume.ID)
}

func translate(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, "resume not found", err)
	case errors.Is(err, ErrInUse):
		return apperr.Wrap(apperr.KindConflict, "resume is referenced by a match", err)
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

func validateSalary(salary *float64) error {
	if salary != nil && *salary < 0 {
		return apperr.Validation("salary must not be negative")
	}
	return nil
}
