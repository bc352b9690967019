package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	items   map[string]Resume
	seq     map[string]int
	next    int
	authors AuthorLookup
}

func NewMemoryRepo(authors AuthorLookup) *MemoryRepo {
	return &MemoryRepo{
		items:   make(map[string]Resume),
		seq:     make(map[string]int),
		authors: authors,
	}
}

func (r *MemoryRepo) Create(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	resume.CreatedAt = now
	resume.UpdatedAt = now
	r.items[resume.ID] = resume
	r.next++
	r.seq[resume.ID] = r.next
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	resume, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return Resume{}, ErrNotFound
	}
	return r.hydrate(ctx, resume)
}

func (r *MemoryRepo) Update(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[resume.ID]
	if !ok || existing.AuthorID != resume.AuthorID {
		return ErrNotFound
	}
	existing.Title = resume.Title
	existing.Description = resume.Description
	existing.Salary = resume.Salary
	existing.UpdatedAt = time.Now().UTC()
	r.items[resume.ID] = existing
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

func (r *MemoryRepo) ListByAuthor(ctx context.Context, authorID string, ids []string, offset, limit int) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matched := r.filter(authorID, ids)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []Resume{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]Resume, 0, end-offset)
	for _, resume := range matched[offset:end] {
		hydrated, err := r.hydrate(ctx, resume)
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

// filter returns the author's resumes newest first.
func (r *MemoryRepo) filter(authorID string, ids []string) []Resume {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var wanted map[string]struct{}
	if len(ids) > 0 {
		wanted = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			wanted[id] = struct{}{}
		}
	}
	var out []Resume
	for id, resume := range r.items {
		if resume.AuthorID != authorID {
			continue
		}
		if wanted != nil {
			if _, ok := wanted[id]; !ok {
				continue
			}
		}
		out = append(out, resume)
	}
	sort.Slice(out, func(i, j int) bool {
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	return out
}

func (r *MemoryRepo) hydrate(ctx context.Context, resume Resume) (Resume, error) {
	if r.authors == nil {
		resume.Author.ID = resume.AuthorID
		return resume, nil
	}
	author, err := r.authors.GetByID(ctx, resume.AuthorID)
	if err != nil {
		return Resume{}, err
	}
	resume.Author = author.Profile()
	return resume, nil
}
