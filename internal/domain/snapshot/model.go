package snapshot

import "time"

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Fixture is one parsed match row, scheduled or played. KickoffAt is
// nil when the source label could not be resolved to an instant; the
// raw DateLabel and Time strings are always preserved for display.
type Fixture struct {
	DateLabel string     `json:"dateLabel"`
	Time      string     `json:"time"`
	KickoffAt *time.Time `json:"kickoffAt,omitempty"`
	HomeTeam  string     `json:"homeTeam"`
	AwayTeam  string     `json:"awayTeam"`
	HomeScore *int       `json:"homeScore,omitempty"`
	AwayScore *int       `json:"awayScore,omitempty"`
	Pitch     string     `json:"pitch,omitempty"`
}

// Played reports whether both scores are present.
func (f Fixture) Played() bool {
	return f.HomeScore != nil && f.AwayScore != nil
}

// Standing is one league-table row.
type Standing struct {
	Position       int    `json:"position"`
	Team           string `json:"team"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
}

// Snapshot is one immutable capture of a season's scraped data.
// Snapshots are insert-only; readers always want the latest row.
type Snapshot struct {
	ID            string     `json:"id"`
	SeasonID      string     `json:"seasonId"`
	FetchedAt     time.Time  `json:"fetchedAt"`
	Source        string     `json:"source"`
	Fixtures      []Fixture  `json:"fixtures"`
	Standings     []Standing `json:"standings"`
	Status        string     `json:"status"`
	StatusMessage string     `json:"statusMessage,omitempty"`
}

func kickoffOrDefault(f Fixture) time.Time {
	if f.KickoffAt != nil {
		return *f.KickoffAt
	}
	return time.Time{}
}

// Fresh reports whether the snapshot is an ok capture younger than ttl.
func (s *Snapshot) Fresh(now time.Time, ttl time.Duration) bool {
	if s == nil || s.Status != StatusOK {
		return false
	}
	return now.Sub(s.FetchedAt) < ttl
}
