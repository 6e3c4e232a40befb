package playfootball

import (
	"context"
	"strings"

	"github.com/clubkit/league-sync/internal/domain/snapshot"
)

// The portal renders fixtures and standings in a handful of layouts
// depending on the venue's template. Each layout is handled by one
// grammar; grammars are tried in order and the first one producing any
// records wins. Parsing is total: malformed input yields an empty
// slice, never an error.

type fixtureGrammar interface {
	name() string
	parse(text string) []snapshot.Fixture
}

type standingsGrammar interface {
	name() string
	parse(text string) []snapshot.Standing
}

var fixtureGrammars = []fixtureGrammar{
	calendarFixtureGrammar{},
	loungeFixtureGrammar{},
}

var standingsGrammars = []standingsGrammar{
	tableStandingsGrammar{},
	teamProfileStandingsGrammar{},
}

// ParseFixtures extracts match rows from a rendered fixtures or
// results page.
func ParseFixtures(text string) []snapshot.Fixture {
	for _, grammar := range fixtureGrammars {
		if parsed := grammar.parse(text); len(parsed) > 0 {
			return parsed
		}
	}
	return nil
}

// ParseStandings extracts league-table rows from a rendered standings
// page.
func ParseStandings(text string) []snapshot.Standing {
	for _, grammar := range standingsGrammars {
		if parsed := grammar.parse(text); len(parsed) > 0 {
			return parsed
		}
	}
	return nil
}

// FetchFixtures retrieves and parses one fixtures or results page.
func (c *Client) FetchFixtures(ctx context.Context, pageURL string) ([]snapshot.Fixture, error) {
	text, err := c.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	fixtures := ParseFixtures(text)
	if len(fixtures) == 0 && strings.TrimSpace(text) != "" {
		c.logger.WarnContext(ctx, "playfootball page parsed to zero fixtures", "url", pageURL, "text_len", len(text))
	}
	return fixtures, nil
}

// FetchStandings retrieves and parses one standings page.
func (c *Client) FetchStandings(ctx context.Context, pageURL string) ([]snapshot.Standing, error) {
	text, err := c.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	standings := ParseStandings(text)
	if len(standings) == 0 && strings.TrimSpace(text) != "" {
		c.logger.WarnContext(ctx, "playfootball page parsed to zero standings", "url", pageURL, "text_len", len(text))
	}
	return standings, nil
}

// splitLines trims every line and drops blanks; all grammars work on
// this shape.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func fixtureDedupKey(f snapshot.Fixture) string {
	return f.DateLabel + "|" + f.Time + "|" + f.HomeTeam + "|" + f.AwayTeam
}
