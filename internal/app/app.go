package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/clubkit/league-sync/external/playfootball"
	"github.com/clubkit/league-sync/internal/config"
	"github.com/clubkit/league-sync/internal/domain/season"
	"github.com/clubkit/league-sync/internal/domain/snapshot"
	"github.com/clubkit/league-sync/internal/infrastructure/repository/memory"
	"github.com/clubkit/league-sync/internal/infrastructure/repository/postgres"
	"github.com/clubkit/league-sync/internal/interfaces/httpapi"
	"github.com/clubkit/league-sync/internal/platform/cache"
	idgen "github.com/clubkit/league-sync/internal/platform/id"
	"github.com/clubkit/league-sync/internal/platform/logging"
	"github.com/clubkit/league-sync/internal/platform/resilience"
	"github.com/clubkit/league-sync/internal/usecase"
)

// NewHTTPServer wires repositories, services, and the HTTP router. The
// returned cleanup releases infrastructure handles (the DB pool) and is
// safe to call after server shutdown.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	cleanup := func() error { return nil }

	var (
		seasonRepo   season.Repository
		snapshotRepo snapshot.Repository
	)
	if cfg.DBURL == "" {
		// No DB_URL means memory mode: seeded seasons, snapshots kept
		// only for the process lifetime.
		logger.Info("storage mode", "mode", "memory")
		seasonRepo = memory.NewSeasonRepository(memory.SeedSeasons())
		snapshotRepo = memory.NewSnapshotRepository()
	} else {
		db, err := openDB(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		logger.Info("storage mode", "mode", "postgres", "db_name", dbNameFromURL(cfg.DBURL))
		seasonRepo = postgres.NewSeasonRepository(db)
		snapshotRepo = postgres.NewSnapshotRepository(db, idgen.NewRandomGenerator())
		cleanup = db.Close
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	source := playfootball.NewClient(playfootball.ClientConfig{
		ReaderBaseURL: cfg.PlayFootballReaderBaseURL,
		Timeout:       cfg.PlayFootballTimeout,
		MaxRetries:    cfg.PlayFootballMaxRetries,
		Logger:        logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.PlayFootballCircuitEnabled,
			FailureThreshold: cfg.PlayFootballCircuitFailureCount,
			OpenTimeout:      cfg.PlayFootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.PlayFootballCircuitHalfOpenMaxReq,
		},
	})

	snapshotSvc := usecase.NewSnapshotService(seasonRepo, snapshotRepo, source, usecase.SnapshotServiceConfig{
		TTL:    cfg.SnapshotTTL,
		Logger: logger,
	})
	seasonSvc := usecase.NewSeasonService(seasonRepo, store)
	fixtureSvc := usecase.NewFixtureService(snapshotSvc, cfg.ClubTeamName, nil)
	analyticsSvc := usecase.NewAnalyticsService(snapshotSvc, usecase.AnalyticsServiceConfig{
		ForfeitTeam:  cfg.ForfeitTeam,
		ForfeitScore: cfg.ForfeitScore,
		IgnoredTeams: cfg.IgnoredTeams,
	})
	refreshSvc := usecase.NewRefreshService(seasonRepo, snapshotSvc, logger)

	handler := httpapi.NewHandler(seasonSvc, snapshotSvc, fixtureSvc, analyticsSvc, refreshSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return db, nil
}
