package usecase

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubkit/league-sync/internal/domain/snapshot"
	"github.com/clubkit/league-sync/internal/domain/teamname"
)

const forfeitSentinel = "Call Now To Enter 01702 414079"

func score(h, a int) (*int, *int) { return &h, &a }

func played(home, away string, hs, as int, kickoff *time.Time) snapshot.Fixture {
	h, a := score(hs, as)
	return snapshot.Fixture{
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: h,
		AwayScore: a,
		KickoffAt: kickoff,
	}
}

func kickoffAt(day int) *time.Time {
	at := time.Date(2026, 3, day, 18, 0, 0, 0, time.UTC)
	return &at
}

func TestBuildTeamResultsAggregates(t *testing.T) {
	fixtures := []snapshot.Fixture{
		played("Red Star", "Blue Star", 3, 1, kickoffAt(1)),
		played("Blue Star", "Red Star", 2, 2, kickoffAt(8)),
		{HomeTeam: "Red Star", AwayTeam: "Blue Star", KickoffAt: kickoffAt(15)}, // unplayed
	}

	byTeam := BuildTeamResults(fixtures, EligibilityOptions{})

	red := byTeam[teamname.KeyOf("Red Star")]
	require.NotNil(t, red)
	assert.Equal(t, 1, red.Wins)
	assert.Equal(t, 1, red.Draws)
	assert.Equal(t, 0, red.Losses)
	assert.Equal(t, 5, red.GoalsFor)
	assert.Equal(t, 3, red.GoalsAgainst)
	require.Len(t, red.Matches, 2)
	// Most recent first.
	assert.Equal(t, "D", red.Matches[0].Outcome)
	assert.Equal(t, "W", red.Matches[1].Outcome)
	assert.Equal(t, "Blue Star", red.Matches[0].Opponent)
	assert.Equal(t, []string{"D"}, red.Form(1))

	blue := byTeam[teamname.KeyOf("Blue Star")]
	require.NotNil(t, blue)
	assert.Equal(t, 1, blue.Losses)
}

func TestBuildTeamResultsNilKickoffSortsOldest(t *testing.T) {
	fixtures := []snapshot.Fixture{
		played("Red Star", "Blue Star", 1, 0, nil),
		played("Red Star", "Old Boys", 0, 1, kickoffAt(1)),
	}

	byTeam := BuildTeamResults(fixtures, EligibilityOptions{})
	red := byTeam[teamname.KeyOf("Red Star")]
	require.Len(t, red.Matches, 2)
	assert.Equal(t, "Old Boys", red.Matches[0].Opponent)
	assert.Equal(t, "Blue Star", red.Matches[1].Opponent)
}

func TestEligibilityForfeitExcludedOnExactScoreOnly(t *testing.T) {
	opts := EligibilityOptions{
		ForfeitTeam:  forfeitSentinel,
		ForfeitScore: [2]int{8, 0},
	}
	fixtures := []snapshot.Fixture{
		played("Red Star", forfeitSentinel, 8, 0, kickoffAt(1)),
		played(forfeitSentinel, "Red Star", 8, 0, kickoffAt(8)),
		played("Red Star", forfeitSentinel, 5, 0, kickoffAt(15)),
	}

	byTeam := BuildTeamResults(fixtures, opts)
	red := byTeam[teamname.KeyOf("Red Star")]
	require.NotNil(t, red)
	// Walkovers drop in both orientations; a genuinely played match
	// against the sentinel still counts.
	assert.Len(t, red.Matches, 1)
	assert.Equal(t, 5, red.Matches[0].GoalsFor)
}

func TestEligibilityActiveAndIgnoredLists(t *testing.T) {
	fixtures := []snapshot.Fixture{
		played("Red Star", "Blue Star", 1, 0, kickoffAt(1)),
		played("Red Star", "Left League FC", 4, 0, kickoffAt(8)),
		played("Red Star", "Bye", 3, 0, kickoffAt(15)),
	}

	byTeam := BuildTeamResults(fixtures, EligibilityOptions{
		ActiveTeams:  []string{"Red Star", "Blue Star", "Bye"},
		IgnoredTeams: []string{"Bye"},
	})

	red := byTeam[teamname.KeyOf("Red Star")]
	require.NotNil(t, red)
	assert.Len(t, red.Matches, 1)
	assert.Equal(t, "Blue Star", red.Matches[0].Opponent)
	assert.NotContains(t, byTeam, teamname.KeyOf("Left League FC"))
	assert.NotContains(t, byTeam, teamname.KeyOf("Bye"))
}

func TestComputeTeamEloSingleMatch(t *testing.T) {
	fixtures := []snapshot.Fixture{
		played("Red Star", "Blue Star", 3, 1, kickoffAt(1)),
	}

	byTeam := ComputeTeamElo(fixtures, EligibilityOptions{})

	red := byTeam[teamname.KeyOf("Red Star")]
	blue := byTeam[teamname.KeyOf("Blue Star")]
	require.NotNil(t, red)
	require.NotNil(t, blue)

	// Equal ratings give expected 0.5; two-goal margin scales K by
	// 1.25, so the winner gains 20*1.25*0.5 = 12.5.
	assert.InDelta(t, 1012.5, red.Rating, 1e-9)
	assert.InDelta(t, 987.5, blue.Rating, 1e-9)
	assert.Equal(t, 1, red.Wins)
	assert.Equal(t, 1, blue.Losses)
	assert.Equal(t, 1, red.Games)
}

func TestComputeTeamEloReplaysChronologically(t *testing.T) {
	// Second match listed first; replay order must follow kickoff.
	fixtures := []snapshot.Fixture{
		played("Blue Star", "Red Star", 1, 0, kickoffAt(8)),
		played("Red Star", "Blue Star", 3, 1, kickoffAt(1)),
	}

	byTeam := ComputeTeamElo(fixtures, EligibilityOptions{})

	red := byTeam[teamname.KeyOf("Red Star")]
	blue := byTeam[teamname.KeyOf("Blue Star")]

	// After match one: red 1012.5, blue 987.5. Blue then wins by one
	// as the underdog.
	expectedBlue := 1.0 / (1.0 + math.Pow(10, (1012.5-987.5)/400.0))
	delta := 20.0 * (1.0 - expectedBlue)
	assert.InDelta(t, 987.5+delta, blue.Rating, 1e-9)
	assert.InDelta(t, 1012.5-delta, red.Rating, 1e-9)
	assert.Equal(t, 2, red.Games)
	assert.Equal(t, 2, blue.Games)
}

func TestComputeTeamEloZeroSum(t *testing.T) {
	fixtures := []snapshot.Fixture{
		played("A", "B", 4, 0, kickoffAt(1)),
		played("B", "C", 2, 2, kickoffAt(2)),
		played("C", "A", 1, 0, kickoffAt(3)),
		played("A", "C", 7, 1, nil),
	}

	byTeam := ComputeTeamElo(fixtures, EligibilityOptions{})

	total := 0.0
	games := 0
	for _, entry := range byTeam {
		total += entry.Rating
		games += entry.Games
	}
	assert.InDelta(t, float64(len(byTeam))*1000.0, total, 1e-6)
	assert.Equal(t, 8, games)
}

func TestComputeTeamEloMarginCap(t *testing.T) {
	fixtures := []snapshot.Fixture{
		played("A", "B", 9, 0, kickoffAt(1)),
	}

	byTeam := ComputeTeamElo(fixtures, EligibilityOptions{})

	// Margin multiplier caps at 1 + 3*0.25 = 1.75.
	assert.InDelta(t, 1000.0+20.0*1.75*0.5, byTeam[teamname.KeyOf("A")].Rating, 1e-9)
}
