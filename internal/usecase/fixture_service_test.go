package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubkit/league-sync/internal/domain/season"
	"github.com/clubkit/league-sync/internal/domain/snapshot"
)

func scheduled(home, away string, kickoff time.Time, pitch string) snapshot.Fixture {
	at := kickoff
	return snapshot.Fixture{
		HomeTeam:  home,
		AwayTeam:  away,
		KickoffAt: &at,
		Pitch:     pitch,
	}
}

func TestFilterFixturesForTeam(t *testing.T) {
	fixtures := []snapshot.Fixture{
		scheduled("Red Star FC", "Blue Star", time.Now(), ""),
		scheduled("Old Boys", "red star fc!", time.Now(), ""),
		scheduled("Old Boys", "Blue Star", time.Now(), ""),
	}

	mine := FilterFixturesForTeam(fixtures, "Red Star FC")
	assert.Len(t, mine, 2)
	assert.Empty(t, FilterFixturesForTeam(fixtures, "***"))
}

func TestNextFixtureGraceWindow(t *testing.T) {
	now := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	inProgress := scheduled("A", "B", now.Add(-time.Hour), "")
	nextWeek := scheduled("A", "C", now.Add(6*24*time.Hour), "")
	longDone := scheduled("A", "D", now.Add(-3*time.Hour), "")

	got := NextFixture([]snapshot.Fixture{nextWeek, inProgress, longDone}, now)
	require.NotNil(t, got)
	assert.Equal(t, "B", got.AwayTeam, "a match inside the grace window is still next")
}

func TestNextFixtureFallsBackToEarliest(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	first := scheduled("A", "B", now.Add(-30*24*time.Hour), "")
	second := scheduled("A", "C", now.Add(-7*24*time.Hour), "")

	got := NextFixture([]snapshot.Fixture{second, first}, now)
	require.NotNil(t, got)
	assert.Equal(t, "B", got.AwayTeam)

	assert.Nil(t, NextFixture([]snapshot.Fixture{{HomeTeam: "A", AwayTeam: "B"}}, now),
		"undated fixtures are never picked")
	assert.Nil(t, NextFixture(nil, now))
}

func TestLastFixture(t *testing.T) {
	now := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	older := scheduled("A", "B", now.Add(-8*24*time.Hour), "")
	recent := scheduled("A", "C", now.Add(-time.Hour), "")
	upcoming := scheduled("A", "D", now.Add(time.Hour), "")

	got := LastFixture([]snapshot.Fixture{upcoming, older, recent}, now)
	require.NotNil(t, got)
	assert.Equal(t, "C", got.AwayTeam)

	assert.Nil(t, LastFixture([]snapshot.Fixture{upcoming}, now))
}

func TestOpponentVenueLabels(t *testing.T) {
	home := scheduled("Red Star", "Blue Star", time.Now(), "")
	opponent, venue := Opponent(home, "Red Star")
	assert.Equal(t, "Blue Star", opponent)
	assert.Equal(t, "Home", venue)

	away := scheduled("Blue Star", "Red Star", time.Now(), "")
	opponent, venue = Opponent(away, "Red Star")
	assert.Equal(t, "Blue Star", opponent)
	assert.Equal(t, "Away", venue)

	pitched := scheduled("Red Star", "Blue Star", time.Now(), "Pitch 2")
	_, venue = Opponent(pitched, "Red Star")
	assert.Equal(t, "Pitch 2", venue)
}

func TestFixtureServiceNextBySeason(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	kickoff := now.Add(24 * time.Hour)

	seasons := &seasonRepoStub{seasons: []season.Season{testSeason()}}
	snaps := &snapshotRepoStub{}
	require.NoError(t, snaps.Insert(context.Background(), &snapshot.Snapshot{
		SeasonID:  "season-1",
		FetchedAt: now.Add(-time.Hour),
		Status:    snapshot.StatusOK,
		Fixtures: []snapshot.Fixture{
			scheduled("Red Star FC", "Blue Star", kickoff, "Pitch 1"),
			scheduled("Old Boys", "Blue Star", kickoff, ""),
		},
	}))

	snapshots := newTestSnapshotService(seasons, snaps, &leagueSourceStub{}, now)
	svc := NewFixtureService(snapshots, "Red Star FC", func() time.Time { return now })

	next, err := svc.NextBySeason(context.Background(), "season-1", "")
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "Blue Star", next.Opponent)
	assert.Equal(t, "Pitch 1", next.Venue)

	assert.True(t, svc.IsClubTeam("red star fc"))
	assert.False(t, svc.IsClubTeam("Old Boys"))
}
