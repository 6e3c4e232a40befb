package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubkit/league-sync/internal/domain/season"
	"github.com/clubkit/league-sync/internal/domain/snapshot"
	"github.com/clubkit/league-sync/internal/platform/logging"
)

type seasonRepoStub struct {
	seasons []season.Season
}

func (s *seasonRepoStub) List(_ context.Context) ([]season.Season, error) {
	return s.seasons, nil
}

func (s *seasonRepoStub) ListActive(_ context.Context) ([]season.Season, error) {
	var out []season.Season
	for _, se := range s.seasons {
		if se.IsActive {
			out = append(out, se)
		}
	}
	return out, nil
}

func (s *seasonRepoStub) GetByID(_ context.Context, id string) (*season.Season, error) {
	for i := range s.seasons {
		if s.seasons[i].ID == id {
			se := s.seasons[i]
			return &se, nil
		}
	}
	return nil, nil
}

func (s *seasonRepoStub) GetBySlug(_ context.Context, slug string) (*season.Season, error) {
	for i := range s.seasons {
		if s.seasons[i].Slug == slug {
			se := s.seasons[i]
			return &se, nil
		}
	}
	return nil, nil
}

type snapshotRepoStub struct {
	mu        sync.Mutex
	rows      []*snapshot.Snapshot
	insertErr error
}

func (s *snapshotRepoStub) Insert(_ context.Context, snap *snapshot.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	stored := *snap
	stored.ID = fmt.Sprintf("snap-%d", len(s.rows)+1)
	s.rows = append(s.rows, &stored)
	return nil
}

func (s *snapshotRepoStub) LatestBySeason(_ context.Context, seasonID string) (*snapshot.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *snapshot.Snapshot
	for _, row := range s.rows {
		if row.SeasonID != seasonID {
			continue
		}
		if latest == nil || row.FetchedAt.After(latest.FetchedAt) {
			latest = row
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

func (s *snapshotRepoStub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

type leagueSourceStub struct {
	fixtures  []snapshot.Fixture
	results   []snapshot.Fixture
	standings []snapshot.Standing
	err       error
	calls     atomic.Int32
}

func (s *leagueSourceStub) FetchFixtures(_ context.Context, pageURL string) ([]snapshot.Fixture, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	if strings.Contains(pageURL, "results") {
		return s.results, nil
	}
	return s.fixtures, nil
}

func (s *leagueSourceStub) FetchStandings(_ context.Context, _ string) ([]snapshot.Standing, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.standings, nil
}

func testSeason() season.Season {
	return season.Season{
		ID:                 "season-1",
		Slug:               "spring-2026",
		Name:               "Spring 2026",
		TeamName:           "Red Star FC",
		SourceURLFixtures:  "portal.playfootball.net/fixtures",
		SourceURLResults:   "portal.playfootball.net/results",
		SourceURLStandings: "portal.playfootball.net/standings",
		IsActive:           true,
	}
}

func newTestSnapshotService(seasons *seasonRepoStub, snaps *snapshotRepoStub, source LeagueSource, now time.Time) *SnapshotService {
	return NewSnapshotService(seasons, snaps, source, SnapshotServiceConfig{
		Logger: logging.NewNop(),
		Now:    func() time.Time { return now },
	})
}

func TestSnapshotServiceFreshSnapshotSkipsFetch(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	seasons := &seasonRepoStub{seasons: []season.Season{testSeason()}}
	snaps := &snapshotRepoStub{}
	source := &leagueSourceStub{}

	require.NoError(t, snaps.Insert(context.Background(), &snapshot.Snapshot{
		SeasonID:  "season-1",
		FetchedAt: now.Add(-time.Hour),
		Status:    snapshot.StatusOK,
	}))

	svc := newTestSnapshotService(seasons, snaps, source, now)
	snap, err := svc.GetBySeasonID(context.Background(), "season-1", false)

	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, int32(0), source.calls.Load())
	assert.Equal(t, 1, snaps.count())
}

func TestSnapshotServiceStaleSnapshotRefetches(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	seasons := &seasonRepoStub{seasons: []season.Season{testSeason()}}
	snaps := &snapshotRepoStub{}

	kickoff := time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)
	one, three := 1, 3
	source := &leagueSourceStub{
		fixtures: []snapshot.Fixture{{
			DateLabel: "07/03/2026", Time: "18:00", KickoffAt: &kickoff,
			HomeTeam: "Red Star FC", AwayTeam: "Blue Star FC",
		}},
		results: []snapshot.Fixture{{
			DateLabel: "07/03/2026", Time: "18:00", KickoffAt: &kickoff,
			HomeTeam: "Red Star FC", AwayTeam: "Blue Star FC",
			HomeScore: &three, AwayScore: &one,
		}},
		standings: []snapshot.Standing{{Position: 1, Team: "Red Star FC"}},
	}

	require.NoError(t, snaps.Insert(context.Background(), &snapshot.Snapshot{
		SeasonID:  "season-1",
		FetchedAt: now.Add(-7 * time.Hour),
		Status:    snapshot.StatusOK,
	}))

	svc := newTestSnapshotService(seasons, snaps, source, now)
	snap, err := svc.GetBySeasonID(context.Background(), "season-1", false)

	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, snapshot.StatusOK, snap.Status)
	assert.Equal(t, now, snap.FetchedAt)
	require.Len(t, snap.Fixtures, 1, "results feed must merge into the fixtures feed")
	require.NotNil(t, snap.Fixtures[0].HomeScore)
	assert.Equal(t, 3, *snap.Fixtures[0].HomeScore)
	assert.Len(t, snap.Standings, 1)
	assert.Equal(t, 2, snaps.count())
}

func TestSnapshotServiceForceBypassesFreshness(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	seasons := &seasonRepoStub{seasons: []season.Season{testSeason()}}
	snaps := &snapshotRepoStub{}
	source := &leagueSourceStub{}

	require.NoError(t, snaps.Insert(context.Background(), &snapshot.Snapshot{
		SeasonID:  "season-1",
		FetchedAt: now.Add(-time.Minute),
		Status:    snapshot.StatusOK,
	}))

	svc := newTestSnapshotService(seasons, snaps, source, now)
	_, err := svc.Refresh(context.Background(), "season-1")

	require.NoError(t, err)
	assert.Equal(t, int32(3), source.calls.Load())
	assert.Equal(t, 2, snaps.count())
}

func TestSnapshotServiceFailureFallsBackToPrevious(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	seasons := &seasonRepoStub{seasons: []season.Season{testSeason()}}
	snaps := &snapshotRepoStub{}
	source := &leagueSourceStub{err: errors.New("portal down")}

	require.NoError(t, snaps.Insert(context.Background(), &snapshot.Snapshot{
		SeasonID:  "season-1",
		FetchedAt: now.Add(-8 * time.Hour),
		Status:    snapshot.StatusOK,
	}))

	svc := newTestSnapshotService(seasons, snaps, source, now)
	snap, err := svc.GetBySeasonID(context.Background(), "season-1", false)

	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, now.Add(-8*time.Hour), snap.FetchedAt, "previous capture is served unchanged")
	assert.Equal(t, 1, snaps.count(), "failed refresh with a previous capture writes nothing")
}

func TestSnapshotServiceFirstFetchFailureWritesErrorRow(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	seasons := &seasonRepoStub{seasons: []season.Season{testSeason()}}
	snaps := &snapshotRepoStub{}
	source := &leagueSourceStub{err: errors.New("portal down")}

	svc := newTestSnapshotService(seasons, snaps, source, now)
	snap, err := svc.GetBySeasonID(context.Background(), "season-1", false)

	require.NoError(t, err)
	assert.Nil(t, snap)
	require.Equal(t, 1, snaps.count())
	stored, err := snaps.LatestBySeason(context.Background(), "season-1")
	require.NoError(t, err)
	assert.Equal(t, snapshot.StatusError, stored.Status)
	assert.Contains(t, stored.StatusMessage, "portal down")
}

func TestSnapshotServiceSeasonWithoutSources(t *testing.T) {
	se := testSeason()
	se.SourceURLFixtures = ""
	se.SourceURLResults = ""
	se.SourceURLStandings = ""
	seasons := &seasonRepoStub{seasons: []season.Season{se}}
	snaps := &snapshotRepoStub{}
	source := &leagueSourceStub{}

	svc := newTestSnapshotService(seasons, snaps, source, time.Now())
	snap, err := svc.GetBySeasonID(context.Background(), "season-1", false)

	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.Equal(t, int32(0), source.calls.Load())
}

func TestSnapshotServiceUnknownSeason(t *testing.T) {
	svc := newTestSnapshotService(&seasonRepoStub{}, &snapshotRepoStub{}, &leagueSourceStub{}, time.Now())

	_, err := svc.GetBySeasonID(context.Background(), "missing", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetBySeasonID(context.Background(), "  ", false)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
