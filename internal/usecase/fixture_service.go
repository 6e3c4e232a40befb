package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/clubkit/league-sync/internal/domain/snapshot"
	"github.com/clubkit/league-sync/internal/domain/teamname"
)

// nextFixtureGrace keeps a fixture "next" while it is in progress or
// just finished, so the dashboard does not flip to the following week
// at kickoff.
const nextFixtureGrace = 2 * time.Hour

// FilterFixturesForTeam keeps fixtures where the team plays on either
// side, matched by normalized name.
func FilterFixturesForTeam(fixtures []snapshot.Fixture, team string) []snapshot.Fixture {
	key := teamname.KeyOf(team)
	if key.Zero() {
		return nil
	}
	var out []snapshot.Fixture
	for _, fx := range fixtures {
		if teamname.KeyOf(fx.HomeTeam) == key || teamname.KeyOf(fx.AwayTeam) == key {
			out = append(out, fx)
		}
	}
	return out
}

// NextFixture picks the earliest dated fixture at or after now minus
// the grace window. When every dated fixture is in the past it falls
// back to the earliest one; fixtures without a resolved kickoff are
// never picked.
func NextFixture(fixtures []snapshot.Fixture, now time.Time) *snapshot.Fixture {
	dated := datedSortedByKickoff(fixtures)
	if len(dated) == 0 {
		return nil
	}

	horizon := now.Add(-nextFixtureGrace)
	for i := range dated {
		if !dated[i].KickoffAt.Before(horizon) {
			return &dated[i]
		}
	}
	return &dated[0]
}

// LastFixture picks the latest fixture that kicked off before now.
func LastFixture(fixtures []snapshot.Fixture, now time.Time) *snapshot.Fixture {
	dated := datedSortedByKickoff(fixtures)
	for i := len(dated) - 1; i >= 0; i-- {
		if dated[i].KickoffAt.Before(now) {
			return &dated[i]
		}
	}
	return nil
}

// Opponent describes a fixture from the given team's perspective:
// opponent display name and a venue label (the pitch when known,
// otherwise Home/Away).
func Opponent(fx snapshot.Fixture, team string) (string, string) {
	key := teamname.KeyOf(team)
	opponent := fx.AwayTeam
	venue := "Home"
	if teamname.KeyOf(fx.AwayTeam) == key {
		opponent = fx.HomeTeam
		venue = "Away"
	}
	if pitch := strings.TrimSpace(fx.Pitch); pitch != "" {
		venue = pitch
	}
	return teamname.Clean(opponent), venue
}

func datedSortedByKickoff(fixtures []snapshot.Fixture) []snapshot.Fixture {
	dated := make([]snapshot.Fixture, 0, len(fixtures))
	for _, fx := range fixtures {
		if fx.KickoffAt != nil {
			dated = append(dated, fx)
		}
	}
	snapshot.SortByKickoff(dated)
	return dated
}

// TeamFixture is a fixture annotated for one team's schedule view.
type TeamFixture struct {
	snapshot.Fixture
	Opponent string `json:"opponent"`
	Venue    string `json:"venue"`
}

// FixtureService answers team-facing schedule questions from the
// season's current snapshot.
type FixtureService struct {
	snapshots *SnapshotService
	clubTeam  string
	now       func() time.Time
}

func NewFixtureService(snapshots *SnapshotService, clubTeam string, now func() time.Time) *FixtureService {
	if now == nil {
		now = time.Now
	}
	return &FixtureService{
		snapshots: snapshots,
		clubTeam:  strings.TrimSpace(clubTeam),
		now:       now,
	}
}

// resolveTeam falls back to the configured club team when the caller
// does not name one.
func (s *FixtureService) resolveTeam(team string) string {
	team = strings.TrimSpace(team)
	if team != "" {
		return team
	}
	return s.clubTeam
}

// IsClubTeam reports whether the label names the configured club team.
func (s *FixtureService) IsClubTeam(team string) bool {
	return s.clubTeam != "" && teamname.Same(team, s.clubTeam)
}

// ListBySeason returns the season's fixtures, optionally narrowed to
// one team's schedule.
func (s *FixtureService) ListBySeason(ctx context.Context, seasonID, team string) ([]snapshot.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListBySeason")
	defer span.End()

	snap, err := s.snapshots.GetBySeasonID(ctx, seasonID, false)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	if strings.TrimSpace(team) == "" {
		return snap.Fixtures, nil
	}
	return FilterFixturesForTeam(snap.Fixtures, team), nil
}

// NextBySeason returns the team's next fixture, annotated with
// opponent and venue. Nil when the schedule holds no dated fixtures.
func (s *FixtureService) NextBySeason(ctx context.Context, seasonID, team string) (*TeamFixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.NextBySeason")
	defer span.End()

	team = s.resolveTeam(team)
	mine, err := s.ListBySeason(ctx, seasonID, team)
	if err != nil {
		return nil, err
	}
	next := NextFixture(mine, s.now())
	if next == nil {
		return nil, nil
	}
	return s.annotate(*next, team), nil
}

// LastBySeason returns the team's most recently played fixture.
func (s *FixtureService) LastBySeason(ctx context.Context, seasonID, team string) (*TeamFixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.LastBySeason")
	defer span.End()

	team = s.resolveTeam(team)
	mine, err := s.ListBySeason(ctx, seasonID, team)
	if err != nil {
		return nil, err
	}
	last := LastFixture(mine, s.now())
	if last == nil {
		return nil, nil
	}
	return s.annotate(*last, team), nil
}

func (s *FixtureService) annotate(fx snapshot.Fixture, team string) *TeamFixture {
	opponent, venue := Opponent(fx, team)
	return &TeamFixture{Fixture: fx, Opponent: opponent, Venue: venue}
}
