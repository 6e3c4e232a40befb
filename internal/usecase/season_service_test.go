package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubkit/league-sync/internal/domain/season"
	"github.com/clubkit/league-sync/internal/platform/cache"
)

func TestSeasonServiceGetByIDThenSlug(t *testing.T) {
	repo := &seasonRepoStub{seasons: []season.Season{testSeason()}}
	svc := NewSeasonService(repo, nil)

	byID, err := svc.Get(context.Background(), "season-1")
	require.NoError(t, err)
	assert.Equal(t, "season-1", byID.ID)

	bySlug, err := svc.Get(context.Background(), "spring-2026")
	require.NoError(t, err)
	assert.Equal(t, "season-1", bySlug.ID)
}

func TestSeasonServiceGetUnknown(t *testing.T) {
	svc := NewSeasonService(&seasonRepoStub{}, nil)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSeasonServiceListUsesCache(t *testing.T) {
	repo := &seasonRepoStub{seasons: []season.Season{testSeason()}}
	svc := NewSeasonService(repo, cache.NewStore(time.Minute))

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second := testSeason()
	second.ID = "season-2"
	second.Slug = "autumn-2026"
	repo.seasons = append(repo.seasons, second)

	cached, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, cached, 1, "list is served from cache until invalidated")

	svc.InvalidateCache(context.Background())
	fresh, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestSeasonServiceListWithoutCache(t *testing.T) {
	repo := &seasonRepoStub{seasons: []season.Season{testSeason()}}
	svc := NewSeasonService(repo, nil)

	out, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
