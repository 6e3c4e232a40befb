package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/clubkit/league-sync/internal/domain/season"
	"github.com/clubkit/league-sync/internal/platform/cache"
)

const seasonListCacheKey = "seasons:list"

// SeasonService reads season registrations. The list is small and
// changes rarely, so it sits behind the in-process cache when one is
// wired.
type SeasonService struct {
	repo  season.Repository
	cache *cache.Store
}

func NewSeasonService(repo season.Repository, store *cache.Store) *SeasonService {
	return &SeasonService{repo: repo, cache: store}
}

func (s *SeasonService) List(ctx context.Context) ([]season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.List")
	defer span.End()

	if s.cache == nil {
		return s.repo.List(ctx)
	}

	value, err := s.cache.GetOrLoad(ctx, seasonListCacheKey, func(ctx context.Context) (any, error) {
		return s.repo.List(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	seasons, _ := value.([]season.Season)
	return seasons, nil
}

// Get resolves a season by ID first, then by slug, so public URLs can
// carry either.
func (s *SeasonService) Get(ctx context.Context, idOrSlug string) (*season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Get")
	defer span.End()

	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	se, err := s.repo.GetByID(ctx, idOrSlug)
	if err != nil {
		return nil, fmt.Errorf("get season by id: %w", err)
	}
	if se == nil {
		se, err = s.repo.GetBySlug(ctx, season.NormalizeSlug(idOrSlug))
		if err != nil {
			return nil, fmt.Errorf("get season by slug: %w", err)
		}
	}
	if se == nil {
		return nil, fmt.Errorf("%w: season=%s", ErrNotFound, idOrSlug)
	}
	return se, nil
}

// InvalidateCache drops the cached season list, for use after admin
// edits land.
func (s *SeasonService) InvalidateCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Delete(ctx, seasonListCacheKey)
	}
}
