package matches

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"jobmatch-backend/internal/resumes"
	"jobmatch-backend/internal/shared/apperr"
	"jobmatch-backend/internal/shared/auth"
	"jobmatch-backend/internal/shared/metrics"
	"jobmatch-backend/internal/shared/pagination"
	"jobmatch-backend/internal/shared/telemetry"
	"jobmatch-backend/internal/vacancies"
)

// ResumeLookup resolves a resume by id and reports a missing one as an apperr not-found.
type ResumeLookup interface {
	GetByID(ctx context.Context, id string) (resumes.Resume, error)
}

// VacancyLookup resolves a vacancy by id and reports a missing one as an apperr not-found.
type VacancyLookup interface {
	GetByID(ctx context.Context, id string) (vacancies.Vacancy, error)
}

// Service is the match negotiation engine.
type Service struct {
	Repo      Repo
	Resumes   ResumeLookup
	Vacancies VacancyLookup
}

// Propose creates a PENDING match from the caller, who must own the resume or
// the vacancy, to the owner of the other side.
func (s *Service) Propose(ctx context.Context, p auth.Principal, in ProposeInput) (Match, error) {
	resumeID := strings.TrimSpace(in.ResumeID)
	vacancyID := strings.TrimSpace(in.VacancyID)
	if resumeID == "" || vacancyID == "" {
		return Match{}, apperr.Validation("resumeId and vacancyId are required")
	}

	if _, err := s.Repo.FindActiveByPair(ctx, resumeID, vacancyID); err == nil {
		return Match{}, s.reject(violation(ReasonActiveExists, apperr.Conflict(msgActiveExists)))
	} else if !errors.Is(err, ErrNotFound) {
		return Match{}, err
	}

	vacancy, err := s.Vacancies.GetByID(ctx, vacancyID)
	if err != nil {
		return Match{}, err
	}
	resume, err := s.Resumes.GetByID(ctx, resumeID)
	if err != nil {
		return Match{}, err
	}

	ownsVacancy := vacancy.AuthorID == p.UserID
	ownsResume := resume.AuthorID == p.UserID
	var receiverID string
	switch {
	case ownsVacancy && ownsResume:
		return Match{}, s.reject(violation(ReasonSelfMatch, apperr.Validation(msgSelfMatch)))
	case ownsVacancy:
		receiverID = resume.AuthorID
	case ownsResume:
		receiverID = vacancy.AuthorID
	default:
		return Match{}, s.reject(violation(ReasonNoOwnership, apperr.NotFound(msgNoOwnership)))
	}

	m := Match{
		ID:         uuid.NewString(),
		ResumeID:   resume.ID,
		VacancyID:  vacancy.ID,
		SenderID:   p.UserID,
		ReceiverID: receiverID,
		Status:     StatusPending,
	}
	if err := s.Repo.Create(ctx, m); err != nil {
		if errors.Is(err, ErrActiveExists) {
			return Match{}, s.reject(violation(ReasonActiveExists, apperr.Wrap(apperr.KindConflict, msgActiveExists, err)))
		}
		if errors.Is(err, ErrReferenceGone) {
			return Match{}, apperr.Wrap(apperr.KindNotFound, msgReferenceGone, err)
		}
		return Match{}, err
	}

	created, err := s.Repo.GetByID(ctx, m.ID)
	if err != nil {
		return Match{}, translate(err)
	}
	metrics.IncMatchProposed()
	telemetry.Info("match.proposed", map[string]any{
		"match_id":    created.ID,
		"resume_id":   created.ResumeID,
		"vacancy_id":  created.VacancyID,
		"sender_id":   created.SenderID,
		"receiver_id": created.ReceiverID,
	})
	return created, nil
}

// UpdateStatus applies one status transition requested by a party of the match.
func (s *Service) UpdateStatus(ctx context.Context, p auth.Principal, id string, next Status) (Transition, error) {
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Transition{}, translate(err)
	}
	if err := CheckParty(current, p.UserID); err != nil {
		return Transition{}, s.reject(err)
	}
	if err := CheckTransition(current, p.UserID, next); err != nil {
		return Transition{}, s.reject(err)
	}

	if err := s.Repo.UpdateStatus(ctx, id, current.Status, next); err != nil {
		if !errors.Is(err, ErrStatusChanged) {
			return Transition{}, err
		}
		if _, getErr := s.Repo.GetByID(ctx, id); getErr != nil {
			return Transition{}, translate(getErr)
		}
		return Transition{}, apperr.Wrap(apperr.KindConflict, msgConcurrentChange, err)
	}

	updated, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Transition{}, translate(err)
	}
	metrics.IncMatchTransition(string(next))
	telemetry.Info("match.status_changed", map[string]any{
		"match_id": id,
		"from":     string(current.Status),
		"to":       string(next),
		"actor_id": p.UserID,
	})
	return Transition{Match: updated, From: current.Status}, nil
}

// List returns one page of the caller's matches, sent or received, newest first.
func (s *Service) List(ctx context.Context, p auth.Principal, page int) (ListResult, error) {
	page = pagination.Page(&page)
	items, err := s.Repo.ListByParticipant(ctx, p.UserID, pagination.Skip(page), pagination.PageSize)
	if err != nil {
		return ListResult{}, err
	}
	total, err := s.Repo.CountByParticipant(ctx, p.UserID)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Matches: items, Pagination: pagination.Build(page, total)}, nil
}

// Get returns a match the caller takes part in. Other callers see it as missing.
func (s *Service) Get(ctx context.Context, p auth.Principal, id string) (Match, error) {
	m, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Match{}, translate(err)
	}
	if !m.IsParty(p.UserID) {
		return Match{}, translate(ErrNotFound)
	}
	return m, nil
}

func (s *Service) reject(err error) error {
	var v *Violation
	if errors.As(err, &v) {
		metrics.IncMatchRejection(v.Reason)
	}
	return err
}

func translate(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.Wrap(apperr.KindNotFound, "match not found", err)
	}
	return err
}
