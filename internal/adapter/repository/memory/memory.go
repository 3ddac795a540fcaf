// Package memory provides an in-process link store for development and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vadimbarashkov/link-shortener/internal/entity"
)

type record struct {
	link entity.Link
	seq  uint64
}

// LinkRepository keeps links in maps guarded by a single mutex. The alias
// index plays the role of the unique constraint.
type LinkRepository struct {
	mu      sync.Mutex
	seq     uint64
	byID    map[uuid.UUID]*record
	byAlias map[string]uuid.UUID
	now     func() time.Time
}

func NewLinkRepository() *LinkRepository {
	return &LinkRepository{
		byID:    make(map[uuid.UUID]*record),
		byAlias: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

func clone(l entity.Link) *entity.Link {
	if l.PreviewImage != nil {
		img := *l.PreviewImage
		l.PreviewImage = &img
	}
	return &l
}

func (r *LinkRepository) Create(_ context.Context, link *entity.Link) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.Create"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byAlias[link.Alias]; ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrAliasExists)
	}

	now := r.now()
	stored := *clone(*link)
	stored.ID = uuid.New()
	stored.Visits = 0
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.seq++
	r.byID[stored.ID] = &record{link: stored, seq: r.seq}
	r.byAlias[stored.Alias] = stored.ID

	return clone(stored), nil
}

func (r *LinkRepository) ExistsByAlias(_ context.Context, alias string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.byAlias[alias]
	return ok, nil
}

func (r *LinkRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.GetByID"

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	return clone(rec.link), nil
}

func (r *LinkRepository) GetByAlias(_ context.Context, alias string) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.GetByAlias"

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byAlias[alias]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	return clone(r.byID[id].link), nil
}

func (r *LinkRepository) ListByOwner(_ context.Context, owner entity.Owner) ([]*entity.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner.IsNone() {
		return []*entity.Link{}, nil
	}

	recs := make([]*record, 0)
	for _, rec := range r.byID {
		if rec.link.Owner == owner {
			recs = append(recs, rec)
		}
	}

	// Newest first; insertion order breaks timestamp ties.
	slices.SortFunc(recs, func(a, b *record) int {
		if c := b.link.CreatedAt.Compare(a.link.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.seq > b.seq:
			return -1
		case a.seq < b.seq:
			return 1
		default:
			return 0
		}
	})

	links := make([]*entity.Link, 0, len(recs))
	for _, rec := range recs {
		links = append(links, clone(rec.link))
	}

	return links, nil
}

// Update stores the link's original URL and alias.
func (r *LinkRepository) Update(_ context.Context, link *entity.Link) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.Update"

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[link.ID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	if id, taken := r.byAlias[link.Alias]; taken && id != link.ID {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrAliasExists)
	}

	delete(r.byAlias, rec.link.Alias)
	r.byAlias[link.Alias] = link.ID

	rec.link.OriginalURL = link.OriginalURL
	rec.link.Alias = link.Alias
	rec.link.UpdatedAt = r.now()

	return clone(rec.link), nil
}

func (r *LinkRepository) IncrementVisits(_ context.Context, alias string) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.IncrementVisits"

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byAlias[alias]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	rec := r.byID[id]
	rec.link.Visits++
	rec.link.UpdatedAt = r.now()

	return clone(rec.link), nil
}

func (r *LinkRepository) Delete(_ context.Context, id uuid.UUID) error {
	const op = "adapter.repository.memory.LinkRepository.Delete"

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	delete(r.byAlias, rec.link.Alias)
	delete(r.byID, id)

	return nil
}
