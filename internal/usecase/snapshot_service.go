package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/clubkit/league-sync/internal/domain/season"
	"github.com/clubkit/league-sync/internal/domain/snapshot"
	"github.com/clubkit/league-sync/internal/platform/logging"
	"github.com/clubkit/league-sync/internal/platform/resilience"
)

const DefaultSnapshotTTL = 6 * time.Hour

const snapshotSource = "playfootball"

// LeagueSource fetches and parses one portal page. Implemented by the
// playfootball client; faked in tests.
type LeagueSource interface {
	FetchFixtures(ctx context.Context, pageURL string) ([]snapshot.Fixture, error)
	FetchStandings(ctx context.Context, pageURL string) ([]snapshot.Standing, error)
}

type SnapshotServiceConfig struct {
	TTL    time.Duration
	Logger *logging.Logger
	// Now overrides the clock in tests.
	Now func() time.Time
}

// SnapshotService serves the latest scraped capture for a season,
// refetching at most once per TTL window. A refresh that fails leaves
// the previous capture in place; only a season with no capture at all
// gets an error row, so operators can see first-fetch failures.
type SnapshotService struct {
	seasonRepo   season.Repository
	snapshotRepo snapshot.Repository
	source       LeagueSource
	ttl          time.Duration
	logger       *logging.Logger
	now          func() time.Time
	flight       resilience.SingleFlight
}

func NewSnapshotService(seasonRepo season.Repository, snapshotRepo snapshot.Repository, source LeagueSource, cfg SnapshotServiceConfig) *SnapshotService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &SnapshotService{
		seasonRepo:   seasonRepo,
		snapshotRepo: snapshotRepo,
		source:       source,
		ttl:          ttl,
		logger:       logger,
		now:          now,
	}
}

// GetBySeasonID resolves the season and returns its snapshot, fetching
// if stale or forced. A season without configured sources yields a nil
// snapshot and no error.
func (s *SnapshotService) GetBySeasonID(ctx context.Context, seasonID string, force bool) (*snapshot.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.GetBySeasonID")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	se, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("get season: %w", err)
	}
	if se == nil {
		return nil, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	return s.GetForSeason(ctx, se, force)
}

// Refresh forces a refetch regardless of snapshot age.
func (s *SnapshotService) Refresh(ctx context.Context, seasonID string) (*snapshot.Snapshot, error) {
	return s.GetBySeasonID(ctx, seasonID, true)
}

func (s *SnapshotService) GetForSeason(ctx context.Context, se *season.Season, force bool) (*snapshot.Snapshot, error) {
	if se == nil || !se.HasSources() {
		return nil, nil
	}

	latest, err := s.snapshotRepo.LatestBySeason(ctx, se.ID)
	if err != nil {
		return nil, fmt.Errorf("load latest snapshot: %w", err)
	}
	if !force && latest.Fresh(s.now(), s.ttl) {
		return latest, nil
	}

	// Concurrent refreshes of the same season collapse into one fetch
	// cycle; every waiter gets the cycle's outcome.
	out, err, _ := s.flight.Do("season:"+se.ID, func() (any, error) {
		return s.refreshCycle(ctx, se, latest)
	})
	if err != nil {
		return nil, err
	}
	snap, _ := out.(*snapshot.Snapshot)
	return snap, nil
}

// refreshCycle fetches all configured pages, reconciles the two
// fixture feeds and persists the capture. Any failure falls back to
// the previous snapshot when one exists.
func (s *SnapshotService) refreshCycle(ctx context.Context, se *season.Season, latest *snapshot.Snapshot) (*snapshot.Snapshot, error) {
	var (
		fixtures  []snapshot.Fixture
		results   []snapshot.Fixture
		standings []snapshot.Standing
	)

	fetchers := pool.New().WithContext(ctx).WithCancelOnError()
	if url := strings.TrimSpace(se.SourceURLFixtures); url != "" {
		fetchers.Go(func(ctx context.Context) error {
			parsed, err := s.source.FetchFixtures(ctx, url)
			if err != nil {
				return fmt.Errorf("fetch fixtures page: %w", err)
			}
			fixtures = parsed
			return nil
		})
	}
	if url := strings.TrimSpace(se.SourceURLResults); url != "" {
		fetchers.Go(func(ctx context.Context) error {
			parsed, err := s.source.FetchFixtures(ctx, url)
			if err != nil {
				return fmt.Errorf("fetch results page: %w", err)
			}
			results = parsed
			return nil
		})
	}
	if url := strings.TrimSpace(se.SourceURLStandings); url != "" {
		fetchers.Go(func(ctx context.Context) error {
			parsed, err := s.source.FetchStandings(ctx, url)
			if err != nil {
				return fmt.Errorf("fetch standings page: %w", err)
			}
			standings = parsed
			return nil
		})
	}

	if err := fetchers.Wait(); err != nil {
		return s.handleCycleFailure(ctx, se, latest, err)
	}

	snap := &snapshot.Snapshot{
		SeasonID:  se.ID,
		FetchedAt: s.now().UTC(),
		Source:    snapshotSource,
		Fixtures:  snapshot.MergeFixtures(fixtures, results),
		Standings: standings,
		Status:    snapshot.StatusOK,
	}

	if err := s.snapshotRepo.Insert(ctx, snap); err != nil {
		return s.handleCycleFailure(ctx, se, latest, fmt.Errorf("persist snapshot: %w", err))
	}

	s.logger.InfoContext(ctx, "league snapshot refreshed",
		"season_id", se.ID,
		"fixtures", len(snap.Fixtures),
		"standings", len(snap.Standings),
	)
	return snap, nil
}

// handleCycleFailure keeps the last good capture if there is one.
// Otherwise an error row is written so the first failed fetch of a
// season is visible, and the caller gets nothing.
func (s *SnapshotService) handleCycleFailure(ctx context.Context, se *season.Season, latest *snapshot.Snapshot, cause error) (*snapshot.Snapshot, error) {
	if latest != nil {
		s.logger.WarnContext(ctx, "league snapshot refresh failed, serving previous capture",
			"season_id", se.ID,
			"fetched_at", latest.FetchedAt,
			"error", cause,
		)
		return latest, nil
	}

	errorSnap := &snapshot.Snapshot{
		SeasonID:      se.ID,
		FetchedAt:     s.now().UTC(),
		Source:        snapshotSource,
		Fixtures:      []snapshot.Fixture{},
		Standings:     []snapshot.Standing{},
		Status:        snapshot.StatusError,
		StatusMessage: cause.Error(),
	}
	if insertErr := s.snapshotRepo.Insert(ctx, errorSnap); insertErr != nil {
		s.logger.ErrorContext(ctx, "persist error snapshot failed", "season_id", se.ID, "error", insertErr)
	}
	s.logger.WarnContext(ctx, "league snapshot refresh failed with no previous capture", "season_id", se.ID, "error", cause)
	return nil, nil
}
