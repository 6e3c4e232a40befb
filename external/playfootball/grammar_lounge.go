package playfootball

import (
	"regexp"
	"strings"

	"github.com/clubkit/league-sync/internal/domain/snapshot"
	"github.com/clubkit/league-sync/internal/domain/teamname"
)

var loungeDateTimeRegex = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(\d{2}:\d{2})$`)
var combinedScoreRegex = regexp.MustCompile(`^(\d+)\s*[-–]\s*(\d+)$`)
var bareIntRegex = regexp.MustCompile(`^\d+$`)

// loungeFixtureGrammar handles the lounge-style template, where each
// match spans several lines: a "DD/MM/YYYY HH:MM" line opens the
// record and the following non-empty lines carry home team, an
// optional "vs" separator, an optional score (a combined "N-N" token,
// two bare integers, or two integers flanking the separator), and the
// away team, in that order.
type loungeFixtureGrammar struct{}

func (loungeFixtureGrammar) name() string { return "lounge" }

func (loungeFixtureGrammar) parse(text string) []snapshot.Fixture {
	lines := splitLines(text)
	var fixtures []snapshot.Fixture
	seen := make(map[string]struct{})

	for index, line := range lines {
		m := loungeDateTimeRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		dateLabel, timeLabel := m[1], m[2]

		cursor := index + 1
		home, cursor, ok := nextValue(lines, cursor)
		if !ok {
			continue
		}

		peek, afterPeek, ok := nextValue(lines, cursor)
		if ok && strings.EqualFold(peek, "vs") {
			cursor = afterPeek
			peek, afterPeek, ok = nextValue(lines, cursor)
		}
		if !ok {
			continue
		}

		var homeScore, awayScore *int
		if s := combinedScoreRegex.FindStringSubmatch(peek); s != nil {
			homeScore, awayScore = atoiPtr(s[1]), atoiPtr(s[2])
			cursor = afterPeek
		} else if bareIntRegex.MatchString(peek) {
			second, afterSecond, okSecond := nextValue(lines, afterPeek)
			switch {
			case okSecond && bareIntRegex.MatchString(second):
				homeScore, awayScore = atoiPtr(peek), atoiPtr(second)
				cursor = afterSecond
			case okSecond && strings.EqualFold(second, "vs"):
				// The integers can also flank the separator:
				// home, 2, vs, 1, away.
				third, afterThird, okThird := nextValue(lines, afterSecond)
				if okThird && bareIntRegex.MatchString(third) {
					homeScore, awayScore = atoiPtr(peek), atoiPtr(third)
					cursor = afterThird
				}
			}
		}

		away, _, ok := nextValue(lines, cursor)
		if !ok {
			continue
		}
		// A new record header in the away slot means the current one is
		// incomplete.
		if loungeDateTimeRegex.MatchString(away) {
			continue
		}

		f := snapshot.Fixture{
			DateLabel: dateLabel,
			Time:      timeLabel,
			KickoffAt: resolveKickoff(dateLabel, timeLabel),
			HomeTeam:  teamname.Clean(home),
			AwayTeam:  teamname.Clean(away),
			HomeScore: homeScore,
			AwayScore: awayScore,
		}

		key := fixtureDedupKey(f)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		fixtures = append(fixtures, f)
	}

	return fixtures
}

// nextValue returns the first non-empty line at or after start and the
// index just past it. splitLines already dropped blanks, so this is a
// plain bounds walk kept for clarity at call sites.
func nextValue(lines []string, start int) (string, int, bool) {
	if start < 0 || start >= len(lines) {
		return "", start, false
	}
	return lines[start], start + 1, true
}
