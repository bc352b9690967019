package matches

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"jobmatch-backend/internal/resumes"
	"jobmatch-backend/internal/shared/apperr"
	"jobmatch-backend/internal/shared/auth"
	"jobmatch-backend/internal/shared/metrics"
	"jobmatch-backend/internal/shared/pagination"
	"jobmatch-backend/internal/shared/storage/object/local"
	"jobmatch-backend/internal/users"
	"jobmatch-backend/internal/vacancies"
)

var (
	candidate = auth.Principal{UserID: "cand", Role: string(users.RoleCandidate)}
	recruiter = auth.Principal{UserID: "hr", Role: string(users.RoleHR)}
	outsider  = auth.Principal{UserID: "other", Role: string(users.RoleHR)}
)

type fixture struct {
	svc       *Service
	repo      *MemoryRepo
	resumes   *resumes.Service
	vacancies *vacancies.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	userRepo := users.NewMemoryRepo()
	for _, u := range []users.User{
		{ID: "cand", Email: "cand@example.com", Role: users.RoleCandidate},
		{ID: "hr", Email: "hr@example.com", Role: users.RoleHR},
		{ID: "other", Email: "other@example.com", Role: users.RoleHR},
	} {
		require.NoError(t, userRepo.Create(ctx, u))
	}

	resumeSvc := &resumes.Service{Repo: resumes.NewMemoryRepo(userRepo), Store: local.New(t.TempDir())}
	vacancySvc := &vacancies.Service{Repo: vacancies.NewMemoryRepo(userRepo)}
	repo := NewMemoryRepo(resumeSvc, vacancySvc, userRepo)
	resumeSvc.Refs = repo
	vacancySvc.Refs = repo

	return fixture{
		svc:       &Service{Repo: repo, Resumes: resumeSvc, Vacancies: vacancySvc},
		repo:      repo,
		resumes:   resumeSvc,
		vacancies: vacancySvc,
	}
}

func (f fixture) resume(t *testing.T, owner auth.Principal) resumes.Resume {
	t.Helper()
	r, err := f.resumes.Create(context.Background(), owner, resumes.CreateInput{Title: "Go developer"})
	require.NoError(t, err)
	return r
}

func (f fixture) vacancy(t *testing.T, owner auth.Principal) vacancies.Vacancy {
	t.Helper()
	v, err := f.vacancies.Create(context.Background(), owner, vacancies.CreateInput{Title: "Backend engineer"})
	require.NoError(t, err)
	return v
}

func requireKind(t *testing.T, err error, kind apperr.Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err))
	require.Equal(t, msg, err.Error())
}

func TestProposeByCandidateTargetsVacancyOwner(t *testing.T) {
	f := newFixture(t)
	r := f.resume(t, candidate)
	v := f.vacancy(t, recruiter)

	m, err := f.svc.Propose(context.Background(), candidate, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
	require.NoError(t, err)
	require.Equal(t, StatusPending, m.Status)
	require.Equal(t, "cand", m.SenderID)
	require.Equal(t, "hr", m.ReceiverID)
	require.Equal(t, "Go developer", m.Resume.Title)
	require.Equal(t, "hr@example.com", m.Vacancy.Author.Email)
	require.Equal(t, users.RoleHR, m.Receiver.Role)
	require.False(t, m.CreatedAt.IsZero())
}

func TestProposeByRecruiterTargetsResumeOwner(t *testing.T) {
	f := newFixture(t)
	r := f.resume(t, candidate)
	v := f.vacancy(t, recruiter)

	m, err := f.svc.Propose(context.Background(), recruiter, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
	require.NoError(t, err)
	require.Equal(t, "hr", m.SenderID)
	require.Equal(t, "cand", m.ReceiverID)
}

func TestProposeRejections(t *testing.T) {
	f := newFixture(t)
	r := f.resume(t, candidate)
	v := f.vacancy(t, recruiter)
	ownVacancy := f.vacancy(t, candidate)
	ctx := context.Background()

	_, err := f.svc.Propose(ctx, candidate, ProposeInput{ResumeID: r.ID})
	requireKind(t, err, apperr.KindValidation, "resumeId and vacancyId are required")

	_, err = f.svc.Propose(ctx, candidate, ProposeInput{ResumeID: r.ID, VacancyID: "missing"})
	requireKind(t, err, apperr.KindNotFound, "vacancy not found")

	_, err = f.svc.Propose(ctx, candidate, ProposeInput{ResumeID: "missing", VacancyID: v.ID})
	requireKind(t, err, apperr.KindNotFound, "resume not found")

	_, err = f.svc.Propose(ctx, outsider, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
	requireKind(t, err, apperr.KindNotFound, "user hasn't vacancy nor resume. not found")

	_, err = f.svc.Propose(ctx, candidate, ProposeInput{ResumeID: r.ID, VacancyID: ownVacancy.ID})
	requireKind(t, err, apperr.KindValidation, "Cannot match a resume and a vacancy owned by the same user")
	var violation *Violation
	require.True(t, errors.As(err, &violation))
	require.Equal(t, ReasonSelfMatch, violation.Reason)
}

func TestProposeDuplicateIsCheckedBeforeOwnership(t *testing.T) {
	f := newFixture(t)
	r := f.resume(t, candidate)
	v := f.vacancy(t, recruiter)
	ctx := context.Background()

	_, err := f.svc.Propose(ctx, candidate, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
	require.NoError(t, err)

	// An unrelated caller still sees the conflict first.
	_, err = f.svc.Propose(ctx, outsider, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
	requireKind(t, err, apperr.KindConflict, "Match with the given vacancyId and resumeId already exist and is not cancelled")

	_, err = f.svc.Propose(ctx, recruiter, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
	requireKind(t, err, apperr.KindConflict, "Match with the given vacancyId and resumeId already exist and is not cancelled")
}

func TestProposeAfterCancelCreatesNewRecord(t *testing.T) {
	f := newFixture(t)
	r := f.resume(t, candidate)
	v := f.vacancy(t, recruiter)
	ctx := context.Background()

	first, err := f.svc.Propose(ctx, candidate, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, candidate, first.ID, StatusCanceled)
	require.NoError(t, err)

	second, err := f.svc.Propose(ctx, recruiter, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, StatusPending, second.Status)

	old, err := f.svc.Get(ctx, candidate, first.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCanceled, old.Status)

	// Rejected and accepted matches still block the pair.
	_, err = f.svc.UpdateStatus(ctx, candidate, second.ID, StatusRejected)
	require.NoError(t, err)
	_, err = f.svc.Propose(ctx, candidate, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
	requireKind(t, err, apperr.KindConflict, "Match with the given vacancyId and resumeId already exist and is not cancelled")
}

func TestConcurrentProposalsCreateOneMatch(t *testing.T) {
	f := newFixture(t)
	r := f.resume(t, candidate)
	v := f.vacancy(t, recruiter)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		caller := candidate
		if i%2 == 1 {
			caller = recruiter
		}
		wg.Add(1)
		go func(p auth.Principal) {
			defer wg.Done()
			_, err := f.svc.Propose(context.Background(), p, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
			errs <- err
		}(caller)
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.KindOf(err) == apperr.KindConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, workers-1, conflicts)

	total, err := f.repo.CountByParticipant(context.Background(), "cand")
	require.NoError(t, err)
	require.Equal(t, 1, total)
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newFixture(t)
	r := f.resume(t, candidate)
	v := f.vacancy(t, recruiter)
	ctx := context.Background()

	m, err := f.svc.Propose(ctx, candidate, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, outsider, m.ID, StatusAccepted)
	requireKind(t, err, apperr.KindForbidden, "User is not part of this match")

	_, err = f.svc.UpdateStatus(ctx, recruiter, m.ID, StatusPending)
	requireKind(t, err, apperr.KindValidation, "The status 'PENDING' cannot be set explicitly")

	_, err = f.svc.UpdateStatus(ctx, candidate, m.ID, StatusAccepted)
	requireKind(t, err, apperr.KindValidation, "Only the receiver can accept or reject the match")

	_, err = f.svc.UpdateStatus(ctx, recruiter, m.ID, StatusCanceled)
	requireKind(t, err, apperr.KindValidation, "Only the sender can cancel the match")

	tr, err := f.svc.UpdateStatus(ctx, recruiter, m.ID, StatusAccepted)
	require.NoError(t, err)
	require.Equal(t, StatusPending, tr.From)
	require.Equal(t, StatusAccepted, tr.Match.Status)
	require.Equal(t, m.CreatedAt, tr.Match.CreatedAt)
	require.Equal(t, m.SenderID, tr.Match.SenderID)
	require.False(t, tr.Match.UpdatedAt.Before(m.UpdatedAt))

	_, err = f.svc.UpdateStatus(ctx, candidate, m.ID, StatusCanceled)
	requireKind(t, err, apperr.KindValidation, "Match is already ACCEPTED and cannot be changed")

	_, err = f.svc.UpdateStatus(ctx, recruiter, "missing", StatusAccepted)
	requireKind(t, err, apperr.KindNotFound, "match not found")
}

func TestUpdateStatusRecordsMetrics(t *testing.T) {
	f := newFixture(t)
	r := f.resume(t, candidate)
	v := f.vacancy(t, recruiter)
	ctx := context.Background()

	m, err := f.svc.Propose(ctx, candidate, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, outsider, m.ID, StatusRejected)
	require.Error(t, err)
	_, err = f.svc.UpdateStatus(ctx, recruiter, m.ID, StatusRejected)
	require.NoError(t, err)

	out := metrics.Render()
	require.Contains(t, out, `match_transitions_total{status="REJECTED"}`)
	require.Contains(t, out, `match_rejections_total{reason="not_participant"}`)
}

type staleRepo struct {
	*MemoryRepo
}

func (r *staleRepo) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	// Another writer wins the race between the read and the write.
	if err := r.MemoryRepo.UpdateStatus(ctx, id, from, StatusRejected); err != nil {
		return err
	}
	return r.MemoryRepo.UpdateStatus(ctx, id, from, to)
}

func TestUpdateStatusConcurrentChangeIsConflict(t *testing.T) {
	f := newFixture(t)
	r := f.resume(t, candidate)
	v := f.vacancy(t, recruiter)
	ctx := context.Background()

	m, err := f.svc.Propose(ctx, candidate, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
	require.NoError(t, err)

	f.svc.Repo = &staleRepo{MemoryRepo: f.repo}
	_, err = f.svc.UpdateStatus(ctx, recruiter, m.ID, StatusAccepted)
	requireKind(t, err, apperr.KindConflict, "Match status was changed concurrently")
	require.True(t, errors.Is(err, ErrStatusChanged))

	stored, err := f.repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, StatusRejected, stored.Status)
}

func TestConcurrentTransitionsApplyOnce(t *testing.T) {
	f := newFixture(t)
	r := f.resume(t, candidate)
	v := f.vacancy(t, recruiter)
	ctx := context.Background()

	m, err := f.svc.Propose(ctx, candidate, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, step := range []struct {
		p    auth.Principal
		next Status
	}{{recruiter, StatusAccepted}, {candidate, StatusCanceled}} {
		wg.Add(1)
		go func(p auth.Principal, next Status) {
			defer wg.Done()
			_, err := f.svc.UpdateStatus(ctx, p, m.ID, next)
			results <- err
		}(step.p, step.next)
	}
	wg.Wait()
	close(results)

	var ok int
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		kind := apperr.KindOf(err)
		require.True(t, kind == apperr.KindConflict || kind == apperr.KindValidation, "unexpected %v", err)
	}
	require.Equal(t, 1, ok)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	f := newFixture(t)
	v := f.vacancy(t, recruiter)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 13; i++ {
		r, err := f.resumes.Create(ctx, candidate, resumes.CreateInput{Title: fmt.Sprintf("resume %d", i)})
		require.NoError(t, err)
		m, err := f.svc.Propose(ctx, candidate, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	first, err := f.svc.List(ctx, recruiter, 1)
	require.NoError(t, err)
	require.Len(t, first.Matches, 10)
	require.Equal(t, ids[12], first.Matches[0].ID)
	require.NotNil(t, first.Pagination.NextPage)
	require.Equal(t, 2, *first.Pagination.NextPage)

	second, err := f.svc.List(ctx, candidate, 2)
	require.NoError(t, err)
	require.Len(t, second.Matches, 3)
	require.Equal(t, ids[0], second.Matches[2].ID)
	require.Nil(t, second.Pagination.NextPage)

	empty, err := f.svc.List(ctx, outsider, 1)
	require.NoError(t, err)
	require.Empty(t, empty.Matches)
	require.Nil(t, empty.Pagination.NextPage)
}

func TestGetHidesForeignMatch(t *testing.T) {
	f := newFixture(t)
	r := f.resume(t, candidate)
	v := f.vacancy(t, recruiter)
	ctx := context.Background()

	m, err := f.svc.Propose(ctx, candidate, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, outsider, m.ID)
	requireKind(t, err, apperr.KindNotFound, "match not found")

	got, err := f.svc.Get(ctx, recruiter, m.ID)
	require.NoError(t, err)
	require.Equal(t, m.ID, got.ID)
}

func TestReferencedResumeCannotBeDeleted(t *testing.T) {
	f := newFixture(t)
	r := f.resume(t, candidate)
	v := f.vacancy(t, recruiter)
	ctx := context.Background()

	_, err := f.svc.Propose(ctx, candidate, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
	require.NoError(t, err)

	_, err = f.resumes.Delete(ctx, candidate, r.ID)
	requireKind(t, err, apperr.KindConflict, "resume is referenced by a match")
	_, err = f.vacancies.Delete(ctx, recruiter, v.ID)
	requireKind(t, err, apperr.KindConflict, "vacancy is referenced by a match")
}

func TestListWithHugePageIsEmpty(t *testing.T) {
	f := newFixture(t)
	r := f.resume(t, candidate)
	v := f.vacancy(t, recruiter)
	ctx := context.Background()

	_, err := f.svc.Propose(ctx, candidate, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
	require.NoError(t, err)

	result, err := f.svc.List(ctx, candidate, pagination.FromQuery("1000000000000000000"))
	require.NoError(t, err)
	require.Empty(t, result.Matches)
	require.Nil(t, result.Pagination.NextPage)

	items, err := f.repo.ListByParticipant(ctx, "cand", -10, pagination.PageSize)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

type goneRepo struct {
	*MemoryRepo
}

func (r *goneRepo) Create(context.Context, Match) error {
	// The vacancy is deleted between the lookup and the insert.
	return ErrReferenceGone
}

func TestProposeMissingReferenceIsNotFound(t *testing.T) {
	f := newFixture(t)
	r := f.resume(t, candidate)
	v := f.vacancy(t, recruiter)
	ctx := context.Background()

	f.svc.Repo = &goneRepo{MemoryRepo: f.repo}
	_, err := f.svc.Propose(ctx, candidate, ProposeInput{ResumeID: r.ID, VacancyID: v.ID})
	requireKind(t, err, apperr.KindNotFound, "Resume or vacancy not found")
	require.True(t, errors.Is(err, ErrReferenceGone))

	total, err := f.repo.CountByParticipant(ctx, "cand")
	require.NoError(t, err)
	require.Equal(t, 0, total)
}
