package vacancies

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	items   map[string]Vacancy
	seq     map[string]int
	next    int
	authors AuthorLookup
}

func NewMemoryRepo(authors AuthorLookup) *MemoryRepo {
	return &MemoryRepo{
		items:   make(map[string]Vacancy),
		seq:     make(map[string]int),
		authors: authors,
	}
}

func (r *MemoryRepo) Create(ctx context.Context, vacancy Vacancy) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	vacancy.CreatedAt = now
	vacancy.UpdatedAt = now
	r.items[vacancy.ID] = vacancy
	r.next++
	r.seq[vacancy.ID] = r.next
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Vacancy, error) {
	if err := ctx.Err(); err != nil {
		return Vacancy{}, err
	}
	r.mu.RLock()
	vacancy, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return Vacancy{}, ErrNotFound
	}
	return r.hydrate(ctx, vacancy)
}

func (r *MemoryRepo) Update(ctx context.Context, vacancy Vacancy) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[vacancy.ID]
	if !ok || existing.AuthorID != vacancy.AuthorID {
		return ErrNotFound
	}
	existing.Title = vacancy.Title
	existing.Description = vacancy.Description
	existing.Salary = vacancy.Salary
	existing.UpdatedAt = time.Now().UTC()
	r.items[vacancy.ID] = existing
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id, authorID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[id]
	if !ok || existing.AuthorID != authorID {
		return ErrNotFound
	}
	delete(r.items, id)
	delete(r.seq, id)
	return nil
}

func (r *MemoryRepo) ListByAuthor(ctx context.Context, authorID string, ids []string, offset, limit int) ([]Vacancy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matched := r.filter(authorID, ids)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []Vacancy{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]Vacancy, 0, end-offset)
	for _, vacancy := range matched[offset:end] {
		hydrated, err := r.hydrate(ctx, vacancy)
		if err != nil {
			return nil, err
		}
		out = append(out, hydrated)
	}
	return out, nil
}

func (r *MemoryRepo) CountByAuthor(ctx context.Context, authorID string, ids []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(r.filter(authorID, ids)), nil
}

// filter returns the author's vacancies newest first.
func (r *MemoryRepo) filter(authorID string, ids []string) []Vacancy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var wanted map[string]struct{}
	if len(ids) > 0 {
		wanted = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			wanted[id] = struct{}{}
		}
	}
	var out []Vacancy
	for id, vacancy := range r.items {
		if vacancy.AuthorID != authorID {
			continue
		}
		if wanted != nil {
			if _, ok := wanted[id]; !ok {
				continue
			}
		}
		out = append(out, vacancy)
	}
	sort.Slice(out, func(i, j int) bool {
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	return out
}

func (r *MemoryRepo) hydrate(ctx context.Context, vacancy Vacancy) (Vacancy, error) {
	if r.authors == nil {
		vacancy.Author.ID = vacancy.AuthorID
		return vacancy, nil
	}
	author, err := r.authors.GetByID(ctx, vacancy.AuthorID)
	if err != nil {
		return Vacancy{}, err
	}
	vacancy.Author = author.Profile()
	return vacancy, nil
}
