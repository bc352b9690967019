package matches

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobmatch-backend/internal/resumes"
	"jobmatch-backend/internal/users"
	"jobmatch-backend/internal/vacancies"
)

// Lookups used to hydrate matches kept in memory.
type (
	ResumeSource interface {
		GetByID(ctx context.Context, id string) (resumes.Resume, error)
	}
	VacancySource interface {
		GetByID(ctx context.Context, id string) (vacancies.Vacancy, error)
	}
	UserSource interface {
		GetByID(ctx context.Context, id string) (users.User, error)
	}
)

// MemoryRepo keeps matches in process memory. The active-pair check and the
// insert happen under one lock.
type MemoryRepo struct {
	mu      sync.RWMutex
	matches map[string]Match
	seq     map[string]int
	next    int
	now     func() time.Time

	Resumes   ResumeSource
	Vacancies VacancySource
	Users     UserSource
}

func NewMemoryRepo(resumes ResumeSource, vacancies VacancySource, users UserSource) *MemoryRepo {
	return &MemoryRepo{
		matches:   make(map[string]Match),
		seq:       make(map[string]int),
		now:       func() time.Time { return time.Now().UTC() },
		Resumes:   resumes,
		Vacancies: vacancies,
		Users:     users,
	}
}

func (r *MemoryRepo) FindActiveByPair(ctx context.Context, resumeID, vacancyID string) (Match, error) {
	if err := ctx.Err(); err != nil {
		return Match{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.activeLocked(resumeID, vacancyID); ok {
		return m, nil
	}
	return Match{}, ErrNotFound
}

func (r *MemoryRepo) Create(ctx context.Context, m Match) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.activeLocked(m.ResumeID, m.VacancyID); ok {
		return ErrActiveExists
	}
	now := r.now()
	m.CreatedAt = now
	m.UpdatedAt = now
	r.matches[m.ID] = m
	r.next++
	r.seq[m.ID] = r.next
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Match, error) {
	if err := ctx.Err(); err != nil {
		return Match{}, err
	}
	r.mu.RLock()
	m, ok := r.matches[id]
	r.mu.RUnlock()
	if !ok {
		return Match{}, ErrNotFound
	}
	return r.hydrate(ctx, m)
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok || m.Status != from {
		return ErrStatusChanged
	}
	m.Status = to
	m.UpdatedAt = r.now()
	r.matches[id] = m
	return nil
}

func (r *MemoryRepo) ListByParticipant(ctx context.Context, userID string, offset, limit int) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all := r.participantMatches(userID)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []Match{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]Match, 0, end-offset)
	for _, m := range all[offset:end] {
		hydrated, err := r.hydrate(ctx, m)
		if err != nil {
			return nil, err
		}
		out = append(out, hydrated)
	}
	return out, nil
}

func (r *MemoryRepo) CountByParticipant(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(r.participantMatches(userID)), nil
}

func (r *MemoryRepo) ResumeReferenced(ctx context.Context, resumeID string) (bool, error) {
	return r.referenced(ctx, func(m Match) bool { return m.ResumeID == resumeID })
}

func (r *MemoryRepo) VacancyReferenced(ctx context.Context, vacancyID string) (bool, error) {
	return r.referenced(ctx, func(m Match) bool { return m.VacancyID == vacancyID })
}

func (r *MemoryRepo) referenced(ctx context.Context, pred func(Match) bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.matches {
		if pred(m) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepo) activeLocked(resumeID, vacancyID string) (Match, bool) {
	for _, m := range r.matches {
		if m.ResumeID == resumeID && m.VacancyID == vacancyID && m.Status != StatusCanceled {
			return m, true
		}
	}
	return Match{}, false
}

// participantMatches returns the user's matches newest first.
func (r *MemoryRepo) participantMatches(userID string) []Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Match
	for _, m := range r.matches {
		if m.IsParty(userID) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	return out
}

func (r *MemoryRepo) hydrate(ctx context.Context, m Match) (Match, error) {
	var err error
	if r.Resumes != nil {
		if m.Resume, err = r.Resumes.GetByID(ctx, m.ResumeID); err != nil {
			return Match{}, err
		}
	}
	if r.Vacancies != nil {
		if m.Vacancy, err = r.Vacancies.GetByID(ctx, m.VacancyID); err != nil {
			return Match{}, err
		}
	}
	if r.Users != nil {
		sender, err := r.Users.GetByID(ctx, m.SenderID)
		if err != nil {
			return Match{}, err
		}
		receiver, err := r.Users.GetByID(ctx, m.ReceiverID)
		if err != nil {
			return Match{}, err
		}
		m.Sender = sender.Profile()
		m.Receiver = receiver.Profile()
	}
	return m, nil
}
