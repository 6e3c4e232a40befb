package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/clubkit/league-sync/internal/domain/season"
)

// SeasonRepository is the in-memory season store used in demo mode and
// tests.
type SeasonRepository struct {
	mu      sync.RWMutex
	seasons map[string]season.Season
}

func NewSeasonRepository(seed []season.Season) *SeasonRepository {
	repo := &SeasonRepository{seasons: make(map[string]season.Season, len(seed))}
	for _, se := range seed {
		repo.seasons[se.ID] = se
	}
	return repo
}

func (r *SeasonRepository) List(_ context.Context) ([]season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]season.Season, 0, len(r.seasons))
	for _, se := range r.seasons {
		out = append(out, se)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsActive != out[j].IsActive {
			return out[i].IsActive
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}

func (r *SeasonRepository) ListActive(ctx context.Context) ([]season.Season, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]season.Season, 0, len(all))
	for _, se := range all {
		if se.IsActive {
			out = append(out, se)
		}
	}
	return out, nil
}

func (r *SeasonRepository) GetByID(_ context.Context, id string) (*season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	se, ok := r.seasons[id]
	if !ok {
		return nil, nil
	}
	out := se
	return &out, nil
}

func (r *SeasonRepository) GetBySlug(_ context.Context, slug string) (*season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, se := range r.seasons {
		if se.Slug == slug {
			out := se
			return &out, nil
		}
	}
	return nil, nil
}

// Upsert adds or replaces a season. Demo wiring only.
func (r *SeasonRepository) Upsert(_ context.Context, se season.Season) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seasons[se.ID] = se
}
