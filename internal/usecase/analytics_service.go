package usecase

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/clubkit/league-sync/internal/domain/snapshot"
	"github.com/clubkit/league-sync/internal/domain/teamname"
)

const (
	eloInitialRating = 1000.0
	eloKFactor       = 20.0
)

// EligibilityOptions narrows which played fixtures count towards
// analytics. The forfeit sentinel is a placeholder opponent the portal
// schedules against odd-numbered leagues; its walkover results carry
// the fixed forfeit score and say nothing about team strength.
type EligibilityOptions struct {
	ActiveTeams  []string
	IgnoredTeams []string
	ForfeitTeam  string
	ForfeitScore [2]int
}

type eligibilityFilter struct {
	active       map[teamname.Key]struct{}
	ignored      map[teamname.Key]struct{}
	forfeitKey   teamname.Key
	forfeitScore [2]int
}

func newEligibilityFilter(opts EligibilityOptions) eligibilityFilter {
	f := eligibilityFilter{
		forfeitKey:   teamname.KeyOf(opts.ForfeitTeam),
		forfeitScore: opts.ForfeitScore,
	}
	if len(opts.ActiveTeams) > 0 {
		f.active = make(map[teamname.Key]struct{}, len(opts.ActiveTeams))
		for _, team := range opts.ActiveTeams {
			f.active[teamname.KeyOf(team)] = struct{}{}
		}
	}
	if len(opts.IgnoredTeams) > 0 {
		f.ignored = make(map[teamname.Key]struct{}, len(opts.IgnoredTeams))
		for _, team := range opts.IgnoredTeams {
			f.ignored[teamname.KeyOf(team)] = struct{}{}
		}
	}
	return f
}

func (f eligibilityFilter) admits(fx snapshot.Fixture) bool {
	if !fx.Played() {
		return false
	}

	homeKey := teamname.KeyOf(fx.HomeTeam)
	awayKey := teamname.KeyOf(fx.AwayTeam)
	if homeKey.Zero() || awayKey.Zero() {
		return false
	}
	if f.active != nil {
		if _, ok := f.active[homeKey]; !ok {
			return false
		}
		if _, ok := f.active[awayKey]; !ok {
			return false
		}
	}
	if f.ignored != nil {
		if _, ok := f.ignored[homeKey]; ok {
			return false
		}
		if _, ok := f.ignored[awayKey]; ok {
			return false
		}
	}

	if !f.forfeitKey.Zero() && (homeKey == f.forfeitKey || awayKey == f.forfeitKey) {
		hs, as := *fx.HomeScore, *fx.AwayScore
		if (hs == f.forfeitScore[0] && as == f.forfeitScore[1]) ||
			(hs == f.forfeitScore[1] && as == f.forfeitScore[0]) {
			return false
		}
	}

	return true
}

// TeamMatch is one played fixture from a single team's point of view.
type TeamMatch struct {
	Opponent     string     `json:"opponent"`
	DateLabel    string     `json:"dateLabel"`
	Time         string     `json:"time"`
	KickoffAt    *time.Time `json:"kickoffAt,omitempty"`
	GoalsFor     int        `json:"goalsFor"`
	GoalsAgainst int        `json:"goalsAgainst"`
	Outcome      string     `json:"outcome"`
}

// TeamResults aggregates a team's played fixtures, most recent first.
type TeamResults struct {
	Team         string      `json:"team"`
	Matches      []TeamMatch `json:"matches"`
	Wins         int         `json:"wins"`
	Draws        int         `json:"draws"`
	Losses       int         `json:"losses"`
	GoalsFor     int         `json:"goalsFor"`
	GoalsAgainst int         `json:"goalsAgainst"`
}

// Form returns the outcome letters of the last n matches, most recent
// first.
func (r *TeamResults) Form(n int) []string {
	if r == nil || n <= 0 {
		return nil
	}
	if n > len(r.Matches) {
		n = len(r.Matches)
	}
	form := make([]string, 0, n)
	for _, m := range r.Matches[:n] {
		form = append(form, m.Outcome)
	}
	return form
}

// BuildTeamResults folds eligible fixtures into per-team records. The
// same fixture contributes one entry to each side.
func BuildTeamResults(fixtures []snapshot.Fixture, opts EligibilityOptions) map[teamname.Key]*TeamResults {
	filter := newEligibilityFilter(opts)
	byTeam := make(map[teamname.Key]*TeamResults)

	record := func(team, opponent string, goalsFor, goalsAgainst int, fx snapshot.Fixture) {
		key := teamname.KeyOf(team)
		entry := byTeam[key]
		if entry == nil {
			entry = &TeamResults{Team: teamname.Clean(team)}
			byTeam[key] = entry
		}
		outcome := "D"
		switch {
		case goalsFor > goalsAgainst:
			outcome = "W"
			entry.Wins++
		case goalsFor < goalsAgainst:
			outcome = "L"
			entry.Losses++
		default:
			entry.Draws++
		}
		entry.GoalsFor += goalsFor
		entry.GoalsAgainst += goalsAgainst
		entry.Matches = append(entry.Matches, TeamMatch{
			Opponent:     teamname.Clean(opponent),
			DateLabel:    fx.DateLabel,
			Time:         fx.Time,
			KickoffAt:    fx.KickoffAt,
			GoalsFor:     goalsFor,
			GoalsAgainst: goalsAgainst,
			Outcome:      outcome,
		})
	}

	for _, fx := range fixtures {
		if !filter.admits(fx) {
			continue
		}
		record(fx.HomeTeam, fx.AwayTeam, *fx.HomeScore, *fx.AwayScore, fx)
		record(fx.AwayTeam, fx.HomeTeam, *fx.AwayScore, *fx.HomeScore, fx)
	}

	for _, entry := range byTeam {
		matches := entry.Matches
		sort.SliceStable(matches, func(i, j int) bool {
			return matchInstant(matches[i]).After(matchInstant(matches[j]))
		})
	}

	return byTeam
}

// TeamElo is a team's rating after replaying every eligible result.
type TeamElo struct {
	Team   string  `json:"team"`
	Rating float64 `json:"rating"`
	Games  int     `json:"games"`
	Wins   int     `json:"wins"`
	Draws  int     `json:"draws"`
	Losses int     `json:"losses"`
}

// ComputeTeamElo replays eligible results in kickoff order. Ratings
// start at 1000 and move by K=20 scaled by a margin multiplier: one
// goal of difference is worth the base update, every further goal adds
// a quarter, capped at three extra goals. Updates are zero-sum.
func ComputeTeamElo(fixtures []snapshot.Fixture, opts EligibilityOptions) map[teamname.Key]*TeamElo {
	filter := newEligibilityFilter(opts)

	eligible := make([]snapshot.Fixture, 0, len(fixtures))
	for _, fx := range fixtures {
		if filter.admits(fx) {
			eligible = append(eligible, fx)
		}
	}
	snapshot.SortByKickoff(eligible)

	byTeam := make(map[teamname.Key]*TeamElo)
	get := func(team string) *TeamElo {
		key := teamname.KeyOf(team)
		entry := byTeam[key]
		if entry == nil {
			entry = &TeamElo{Team: teamname.Clean(team), Rating: eloInitialRating}
			byTeam[key] = entry
		}
		return entry
	}

	for _, fx := range eligible {
		home := get(fx.HomeTeam)
		away := get(fx.AwayTeam)
		hs, as := *fx.HomeScore, *fx.AwayScore

		expectedHome := 1.0 / (1.0 + math.Pow(10, (away.Rating-home.Rating)/400.0))
		scoreHome := 0.5
		switch {
		case hs > as:
			scoreHome = 1.0
			home.Wins++
			away.Losses++
		case hs < as:
			scoreHome = 0.0
			home.Losses++
			away.Wins++
		default:
			home.Draws++
			away.Draws++
		}

		margin := 1.0
		if diff := math.Abs(float64(hs - as)); diff > 1 {
			margin = 1.0 + math.Min(3, diff-1)*0.25
		}

		delta := eloKFactor * margin * (scoreHome - expectedHome)
		home.Rating += delta
		away.Rating -= delta
		home.Games++
		away.Games++
	}

	return byTeam
}

func matchInstant(m TeamMatch) time.Time {
	if m.KickoffAt != nil {
		return *m.KickoffAt
	}
	return time.Time{}
}

// AnalyticsService derives team form and ratings from the current
// snapshot on every call; nothing computed here is persisted.
type AnalyticsService struct {
	snapshots    *SnapshotService
	forfeitTeam  string
	forfeitScore [2]int
	ignoredTeams []string
}

type AnalyticsServiceConfig struct {
	ForfeitTeam  string
	ForfeitScore [2]int
	IgnoredTeams []string
}

func NewAnalyticsService(snapshots *SnapshotService, cfg AnalyticsServiceConfig) *AnalyticsService {
	score := cfg.ForfeitScore
	if score == [2]int{} {
		score = [2]int{8, 0}
	}
	return &AnalyticsService{
		snapshots:    snapshots,
		forfeitTeam:  cfg.ForfeitTeam,
		forfeitScore: score,
		ignoredTeams: cfg.IgnoredTeams,
	}
}

// TeamResultsBySeason returns per-team result aggregates sorted by
// team name. Teams in the current standings form the active set, so
// sides that left the league mid-season drop out of the stats.
func (s *AnalyticsService) TeamResultsBySeason(ctx context.Context, seasonID string) ([]*TeamResults, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.TeamResultsBySeason")
	defer span.End()

	snap, err := s.snapshots.GetBySeasonID(ctx, seasonID, false)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}

	byTeam := BuildTeamResults(snap.Fixtures, s.eligibility(snap))
	out := make([]*TeamResults, 0, len(byTeam))
	for _, entry := range byTeam {
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Team) < strings.ToLower(out[j].Team)
	})
	return out, nil
}

// TeamEloBySeason returns ratings sorted best first.
func (s *AnalyticsService) TeamEloBySeason(ctx context.Context, seasonID string) ([]*TeamElo, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.TeamEloBySeason")
	defer span.End()

	snap, err := s.snapshots.GetBySeasonID(ctx, seasonID, false)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}

	byTeam := ComputeTeamElo(snap.Fixtures, s.eligibility(snap))
	out := make([]*TeamElo, 0, len(byTeam))
	for _, entry := range byTeam {
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return strings.ToLower(out[i].Team) < strings.ToLower(out[j].Team)
	})
	return out, nil
}

func (s *AnalyticsService) eligibility(snap *snapshot.Snapshot) EligibilityOptions {
	opts := EligibilityOptions{
		IgnoredTeams: s.ignoredTeams,
		ForfeitTeam:  s.forfeitTeam,
		ForfeitScore: s.forfeitScore,
	}
	for _, row := range snap.Standings {
		opts.ActiveTeams = append(opts.ActiveTeams, row.Team)
	}
	return opts
}
