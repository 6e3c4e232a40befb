package playfootball

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/clubkit/league-sync/internal/domain/snapshot"
	"github.com/clubkit/league-sync/internal/domain/teamname"
)

var weekdayHeaderRegex = regexp.MustCompile(`^(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)\b`)

// One match row: time, optional pitch prefix, linked home team, an
// optional tight score, "v"/"vs", linked away team.
var calendarRowRegex = regexp.MustCompile(`(?i)^(\d{1,2}:\d{2})\s+([^\[]+)?\[([^\]]+)\]\([^)]*\)\s*(?:(\d+)\s*-\s*(\d+)\s*)?vs?\s*\[([^\]]+)\]`)

// The portal prints both ASCII hyphens and en-dashes in scores.
var looseScoreRegex = regexp.MustCompile(`(\d+)\s*[-–]\s*(\d+)`)

// calendarFixtureGrammar handles the calendar-style template: weekday
// header lines set the date for the match rows beneath them. Rows seen
// before any header have no date and are dropped.
type calendarFixtureGrammar struct{}

func (calendarFixtureGrammar) name() string { return "calendar" }

func (calendarFixtureGrammar) parse(text string) []snapshot.Fixture {
	var fixtures []snapshot.Fixture
	seen := make(map[string]struct{})
	currentDate := ""

	for _, line := range splitLines(text) {
		if weekdayHeaderRegex.MatchString(line) {
			currentDate = line
			continue
		}
		if currentDate == "" {
			continue
		}

		m := calendarRowRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		timeLabel := m[1]
		pitch := strings.TrimSpace(m[2])
		home := teamname.Clean(m[3])
		away := teamname.Clean(m[6])
		if home == "" || away == "" {
			continue
		}

		f := snapshot.Fixture{
			DateLabel: currentDate,
			Time:      timeLabel,
			KickoffAt: resolveKickoff(currentDate, timeLabel),
			HomeTeam:  home,
			AwayTeam:  away,
			Pitch:     pitch,
		}
		if m[4] != "" && m[5] != "" {
			f.HomeScore, f.AwayScore = atoiPtr(m[4]), atoiPtr(m[5])
		} else if rest := line[len(m[0]):]; rest != "" {
			// Some templates print the score after the away link.
			if s := looseScoreRegex.FindStringSubmatch(rest); s != nil {
				f.HomeScore, f.AwayScore = atoiPtr(s[1]), atoiPtr(s[2])
			}
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

func atoiPtr(value string) *int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}
