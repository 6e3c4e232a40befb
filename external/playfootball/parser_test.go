package playfootball

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calendarPage = `
League fixtures

Thursday 12 March

18:00 Pitch 1 [Red Star FC](http://portal.playfootball.net/t/1) vs [Blue Star FC](http://portal.playfootball.net/t/2)
18:30 [Green Rovers](http://portal.playfootball.net/t/3) 2-1 vs [Old Boys](http://portal.playfootball.net/t/4)
18:00 Pitch 1 [Red Star FC](http://portal.playfootball.net/t/1) vs [Blue Star FC](http://portal.playfootball.net/t/2)

Thursday 19 March

19:00 Pitch 2 [Old Boys](http://portal.playfootball.net/t/4) v [Red Star FC](http://portal.playfootball.net/t/1) 0-3
`

func TestCalendarGrammarParsesRows(t *testing.T) {
	fixtures := ParseFixtures(calendarPage)

	require.Len(t, fixtures, 3, "duplicate row must collapse")

	first := fixtures[0]
	assert.Equal(t, "Thursday 12 March", first.DateLabel)
	assert.Equal(t, "18:00", first.Time)
	assert.Equal(t, "Pitch 1", first.Pitch)
	assert.Equal(t, "Red Star FC", first.HomeTeam)
	assert.Equal(t, "Blue Star FC", first.AwayTeam)
	assert.Nil(t, first.HomeScore)
	assert.Nil(t, first.KickoffAt, "prose label without year stays unresolved")

	scored := fixtures[1]
	require.NotNil(t, scored.HomeScore)
	assert.Equal(t, 2, *scored.HomeScore)
	assert.Equal(t, 1, *scored.AwayScore)

	trailing := fixtures[2]
	require.NotNil(t, trailing.HomeScore, "score after the away link is picked up by the loose rescan")
	assert.Equal(t, 0, *trailing.HomeScore)
	assert.Equal(t, 3, *trailing.AwayScore)
}

func TestCalendarGrammarIgnoresRowsBeforeFirstHeader(t *testing.T) {
	fixtures := ParseFixtures(`18:00 [A](http://x) vs [B](http://y)`)
	assert.Empty(t, fixtures)
}

const loungePage = `
Results

14/03/2026 18:30
Red Star FC
vs
3 - 1
Blue Star FC

14/03/2026 19:00
Green Rovers
2
2
Old Boys

21/03/2026 18:00
Red Star FC
vs
Green Rovers
`

func TestLoungeGrammarParsesScoreForms(t *testing.T) {
	fixtures := ParseFixtures(loungePage)

	require.Len(t, fixtures, 3)

	combined := fixtures[0]
	assert.Equal(t, "14/03/2026", combined.DateLabel)
	assert.Equal(t, "Red Star FC", combined.HomeTeam)
	assert.Equal(t, "Blue Star FC", combined.AwayTeam)
	require.NotNil(t, combined.HomeScore)
	assert.Equal(t, 3, *combined.HomeScore)
	assert.Equal(t, 1, *combined.AwayScore)
	require.NotNil(t, combined.KickoffAt)
	assert.Equal(t, time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC), combined.KickoffAt.UTC())

	split := fixtures[1]
	assert.Equal(t, "Green Rovers", split.HomeTeam)
	assert.Equal(t, "Old Boys", split.AwayTeam)
	require.NotNil(t, split.HomeScore)
	assert.Equal(t, 2, *split.HomeScore)
	assert.Equal(t, 2, *split.AwayScore)

	upcoming := fixtures[2]
	assert.Equal(t, "Green Rovers", upcoming.AwayTeam)
	assert.Nil(t, upcoming.HomeScore)
}

func TestLoungeGrammarScoreFlanksSeparator(t *testing.T) {
	page := `
14/03/2026 19:00
Green Rovers
2
vs
1
Old Boys
`
	fixtures := ParseFixtures(page)

	require.Len(t, fixtures, 1)
	f := fixtures[0]
	assert.Equal(t, "Green Rovers", f.HomeTeam)
	assert.Equal(t, "Old Boys", f.AwayTeam)
	require.NotNil(t, f.HomeScore)
	assert.Equal(t, 2, *f.HomeScore)
	assert.Equal(t, 1, *f.AwayScore)
}

func TestLoungeGrammarCombinedScoreEnDash(t *testing.T) {
	page := `
14/03/2026 18:30
Red Star FC
vs
3 – 1
Blue Star FC
`
	fixtures := ParseFixtures(page)

	require.Len(t, fixtures, 1)
	require.NotNil(t, fixtures[0].HomeScore)
	assert.Equal(t, 3, *fixtures[0].HomeScore)
	assert.Equal(t, 1, *fixtures[0].AwayScore)
}

func TestCalendarGrammarLooseScoreEnDash(t *testing.T) {
	page := `
Thursday 19 March

19:00 [Old Boys](http://portal.playfootball.net/t/4) v [Red Star FC](http://portal.playfootball.net/t/1) 0 – 3
`
	fixtures := ParseFixtures(page)

	require.Len(t, fixtures, 1)
	require.NotNil(t, fixtures[0].HomeScore)
	assert.Equal(t, 0, *fixtures[0].HomeScore)
	assert.Equal(t, 3, *fixtures[0].AwayScore)
}

func TestCalendarGrammarWinsOverLounge(t *testing.T) {
	// A page carrying both shapes resolves through the first grammar
	// that yields records.
	page := `
Thursday 12 March
18:00 [A Team](http://portal.playfootball.net/t/1) vs [B Team](http://portal.playfootball.net/t/2)

14/03/2026 19:00
C Team
vs
D Team
`
	fixtures := ParseFixtures(page)
	require.Len(t, fixtures, 1)
	assert.Equal(t, "A Team", fixtures[0].HomeTeam)
}

func TestParseFixturesGarbageYieldsEmpty(t *testing.T) {
	assert.Empty(t, ParseFixtures("nothing to see here\njust prose"))
	assert.Empty(t, ParseFixtures(""))
}

const standingsTablePage = `
League table

| POS | Name | P | W | D | L | F | A | GD | PTS |
| --- | --- | --- | --- | --- | --- | --- | --- | --- | --- |
| 1 | [Red Star FC](http://portal.playfootball.net/Leagues/TeamProfile?id=1) | 5 | 4 | 1 | 0 | 18 | 6 | 12 | 13 |
| 2 | Blue Star FC | 5 | 3 | 0 | 2 | 12 | 9 | 3 | 9 |
| - | - | - | - | - | - | - | - | - | - |
| x | Broken Row | 5 | 3 | 0 | 2 | 12 | 9 | 3 | 9 |

footer text
`

func TestTableGrammarParsesStandings(t *testing.T) {
	standings := ParseStandings(standingsTablePage)

	require.Len(t, standings, 2, "separator and non-numeric rows are skipped")

	top := standings[0]
	assert.Equal(t, 1, top.Position)
	assert.Equal(t, "Red Star FC", top.Team)
	assert.Equal(t, 5, top.Played)
	assert.Equal(t, 4, top.Won)
	assert.Equal(t, 1, top.Drawn)
	assert.Equal(t, 0, top.Lost)
	assert.Equal(t, 18, top.GoalsFor)
	assert.Equal(t, 6, top.GoalsAgainst)
	assert.Equal(t, 12, top.GoalDifference)
	assert.Equal(t, 13, top.Points)
}

const standingsFallbackPage = `
[Red Star FC](http://portal.playfootball.net/Leagues/TeamProfile?teamId=1) 5 4 1 0 18 6 12 13 **13**
[Blue Star FC](http://portal.playfootball.net/Leagues/TeamProfile?teamId=2) 5 3 0 2 12 9-3 9 **[9](http://x)** extra
`

func TestTeamProfileGrammarFallback(t *testing.T) {
	standings := ParseStandings(standingsFallbackPage)

	require.Len(t, standings, 2)

	top := standings[0]
	assert.Equal(t, 1, top.Position)
	assert.Equal(t, "Red Star FC", top.Team)
	assert.Equal(t, 5, top.Played)
	assert.Equal(t, 4, top.Won)
	assert.Equal(t, 18, top.GoalsFor)
	assert.Equal(t, 6, top.GoalsAgainst)
	assert.Equal(t, 12, top.GoalDifference)
	assert.Equal(t, 13, top.Points)

	// The "9-3" token is a collapsed goals-against / goal-difference
	// pair; the second half renders negative.
	second := standings[1]
	assert.Equal(t, 2, second.Position)
	assert.Equal(t, 9, second.GoalsAgainst)
	assert.Equal(t, -3, second.GoalDifference)
	assert.Equal(t, 9, second.Points)
}

func TestTableGrammarWinsOverFallback(t *testing.T) {
	page := standingsTablePage + "\n" + standingsFallbackPage
	standings := ParseStandings(page)
	require.NotEmpty(t, standings)
	assert.Equal(t, 2, len(standings))
}

func TestParseStandingsGarbageYieldsEmpty(t *testing.T) {
	assert.Empty(t, ParseStandings("| incomplete | table |"))
}

func TestResolveKickoffUKForm(t *testing.T) {
	at := resolveKickoff("07/09/2026", "18:45")
	require.NotNil(t, at)
	assert.Equal(t, time.Date(2026, 9, 7, 18, 45, 0, 0, time.UTC), at.UTC())
}

func TestResolveKickoffProseWithYear(t *testing.T) {
	at := resolveKickoff("Thursday 12 March 2026", "19:00")
	require.NotNil(t, at)
	assert.Equal(t, time.Date(2026, 3, 12, 19, 0, 0, 0, time.UTC), at.UTC())
}

func TestResolveKickoffUnresolvable(t *testing.T) {
	assert.Nil(t, resolveKickoff("Thursday 12 March", "19:00"))
	assert.Nil(t, resolveKickoff("40/40/2026", "19:00"))
	assert.Nil(t, resolveKickoff("", "19:00"))
}
