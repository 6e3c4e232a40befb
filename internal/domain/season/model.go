package season

import (
	"strings"
	"time"
)

// Season is one league campaign the club takes part in, together with
// the portal pages its data is scraped from. A season without any
// source URL is registration metadata only and never hits the network.
type Season struct {
	ID                 string
	Slug               string
	Name               string
	TeamName           string
	SourceURLFixtures  string
	SourceURLResults   string
	SourceURLStandings string
	IsActive           bool
	CreatedAt          time.Time
}

// HasSources reports whether at least one portal page is configured.
func (s Season) HasSources() bool {
	return strings.TrimSpace(s.SourceURLFixtures) != "" ||
		strings.TrimSpace(s.SourceURLResults) != "" ||
		strings.TrimSpace(s.SourceURLStandings) != ""
}

func NormalizeSlug(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
