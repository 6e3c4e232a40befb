package playfootball

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/clubkit/league-sync/internal/domain/snapshot"
	"github.com/clubkit/league-sync/internal/domain/teamname"
)

var tableHeaderRegex = regexp.MustCompile(`(?i)\|\s*Name\s*\|\s*P\s*\|`)
var tableSeparatorRegex = regexp.MustCompile(`\|\s*-+\s*\|`)

// tableStandingsGrammar reads the markdown league table most templates
// render: a header row containing "| Name | P |", a separator row of
// dashes, then one row per team with at least ten cells
// (position, name, P, W, D, L, F, A, GD, PTS).
type tableStandingsGrammar struct{}

func (tableStandingsGrammar) name() string { return "table" }

func (tableStandingsGrammar) parse(text string) []snapshot.Standing {
	var standings []snapshot.Standing
	inTable := false

	for _, line := range splitLines(text) {
		if !inTable {
			if tableHeaderRegex.MatchString(line) {
				inTable = true
			}
			continue
		}
		if !strings.HasPrefix(line, "|") {
			break
		}
		if tableSeparatorRegex.MatchString(line) {
			continue
		}

		cells := splitTableCells(line)
		if len(cells) < 10 {
			continue
		}

		position, err := strconv.Atoi(cells[0])
		team := teamname.Clean(cells[1])
		if err != nil || team == "" {
			continue
		}

		standings = append(standings, snapshot.Standing{
			Position:       position,
			Team:           team,
			Played:         atoiOrZero(cells[2]),
			Won:            atoiOrZero(cells[3]),
			Drawn:          atoiOrZero(cells[4]),
			Lost:           atoiOrZero(cells[5]),
			GoalsFor:       atoiOrZero(cells[6]),
			GoalsAgainst:   atoiOrZero(cells[7]),
			GoalDifference: atoiOrZero(cells[8]),
			Points:         atoiOrZero(cells[9]),
		})
	}

	return standings
}

// teamProfileStandingsGrammar is the fallback for templates without a
// real table: each team row is a profile link followed by a run of
// numeric stats and a bold points value. Position is discovery order.
var teamProfileRowRegex = regexp.MustCompile(`\[([^\]]+)\]\(http://portal\.playfootball\.net/Leagues/TeamProfile[^)]+\)([^*\n]+?)\*\*(?:\[(\d+)\][^*]*|(\d+))\*\*`)

type teamProfileStandingsGrammar struct{}

func (teamProfileStandingsGrammar) name() string { return "team_profile" }

func (teamProfileStandingsGrammar) parse(text string) []snapshot.Standing {
	var standings []snapshot.Standing

	for _, m := range teamProfileRowRegex.FindAllStringSubmatch(text, -1) {
		team := teamname.Clean(m[1])
		if team == "" {
			continue
		}

		points := atoiOrZero(m[3])
		if m[3] == "" {
			points = atoiOrZero(m[4])
		}

		tokens := parseNumberTokens(m[2])
		row := snapshot.Standing{
			Position: len(standings) + 1,
			Team:     team,
			Points:   points,
		}
		if len(tokens) > 0 {
			row.Played = tokens[0]
		}
		if len(tokens) > 1 {
			row.Won = tokens[1]
		}
		if len(tokens) > 2 {
			row.Drawn = tokens[2]
		}
		if len(tokens) > 3 {
			row.Lost = tokens[3]
		}
		// Goal columns sit at the tail of the run; row length varies by
		// template, so they are addressed from the end.
		if len(tokens) >= 4 {
			row.GoalsFor = tokens[len(tokens)-4]
		}
		if len(tokens) >= 3 {
			row.GoalsAgainst = tokens[len(tokens)-3]
		}
		if len(tokens) >= 2 {
			row.GoalDifference = tokens[len(tokens)-2]
		} else {
			row.GoalDifference = row.GoalsFor - row.GoalsAgainst
		}

		standings = append(standings, row)
	}

	return standings
}

var dashPairRegex = regexp.MustCompile(`^(\d+)-(\d+)$`)
var signedIntRegex = regexp.MustCompile(`^-?\d+$`)

// parseNumberTokens pulls integers out of a whitespace-separated stat
// run. A "N-M" token is a collapsed pair where the second value lost
// its separating space and renders as negative (goal difference
// columns do this).
func parseNumberTokens(value string) []int {
	var out []int
	for _, token := range strings.Fields(value) {
		if signedIntRegex.MatchString(token) {
			n, _ := strconv.Atoi(token)
			out = append(out, n)
			continue
		}
		if m := dashPairRegex.FindStringSubmatch(token); m != nil {
			first, _ := strconv.Atoi(m[1])
			second, _ := strconv.Atoi(m[2])
			out = append(out, first, -second)
		}
	}
	return out
}

func splitTableCells(line string) []string {
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			cells = append(cells, part)
		}
	}
	return cells
}

func atoiOrZero(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}
