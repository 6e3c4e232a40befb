package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/clubkit/league-sync/internal/domain/season"
	"github.com/clubkit/league-sync/internal/domain/snapshot"
	"github.com/clubkit/league-sync/internal/platform/logging"
)

const (
	refreshStatusSuccess = "success"
	refreshStatusFailed  = "failed"
	refreshStatusSkipped = "skipped"

	defaultRefreshWorkers = 4
	maxRefreshWorkers     = 16
)

type RefreshAllInput struct {
	MaxWorkers int
}

type RefreshResult struct {
	SeasonCount  int                 `json:"season_count"`
	SuccessCount int                 `json:"success_count"`
	FailedCount  int                 `json:"failed_count"`
	SkippedCount int                 `json:"skipped_count"`
	WorkerCount  int                 `json:"worker_count"`
	Tasks        []RefreshTaskResult `json:"tasks"`
}

type RefreshTaskResult struct {
	SeasonID   string `json:"season_id"`
	Slug       string `json:"slug"`
	Status     string `json:"status"`
	Fixtures   int    `json:"fixtures"`
	Standings  int    `json:"standings"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// RefreshService drives forced snapshot refreshes, one season at a
// time or across every active season on a worker pool. It backs the
// internal job endpoints the scheduler hits.
type RefreshService struct {
	seasonRepo season.Repository
	snapshots  *SnapshotService
	logger     *logging.Logger
}

func NewRefreshService(seasonRepo season.Repository, snapshots *SnapshotService, logger *logging.Logger) *RefreshService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RefreshService{
		seasonRepo: seasonRepo,
		snapshots:  snapshots,
		logger:     logger,
	}
}

// RefreshSeason forces one season's snapshot.
func (s *RefreshService) RefreshSeason(ctx context.Context, seasonID string) (RefreshTaskResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.RefreshSeason")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return RefreshTaskResult{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	se, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return RefreshTaskResult{}, fmt.Errorf("get season: %w", err)
	}
	if se == nil {
		return RefreshTaskResult{}, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	return s.runTask(ctx, *se), nil
}

// RefreshAll forces every active season's snapshot on an ants pool.
// Individual failures are reported per task and never abort the run.
func (s *RefreshService) RefreshAll(ctx context.Context, input RefreshAllInput) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.RefreshAll")
	defer span.End()

	seasons, err := s.seasonRepo.ListActive(ctx)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("list active seasons: %w", err)
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = defaultRefreshWorkers
	}
	if workerCount > maxRefreshWorkers {
		workerCount = maxRefreshWorkers
	}
	if workerCount > len(seasons) && len(seasons) > 0 {
		workerCount = len(seasons)
	}

	result := RefreshResult{
		SeasonCount: len(seasons),
		WorkerCount: workerCount,
	}
	if len(seasons) == 0 {
		return result, nil
	}

	taskResults := make(chan RefreshTaskResult, len(seasons))
	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for _, se := range seasons {
		se := se
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			row := s.runTask(ctx, se)
			switch row.Status {
			case refreshStatusSuccess:
				successCount.Add(1)
			case refreshStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}
			taskResults <- row
		}); err != nil {
			workers.Done()
			failedCount.Add(1)
			taskResults <- RefreshTaskResult{
				SeasonID: se.ID,
				Slug:     se.Slug,
				Status:   refreshStatusFailed,
				Message:  fmt.Sprintf("submit refresh task: %v", err),
			}
		}
	}
	workers.Wait()
	close(taskResults)

	for row := range taskResults {
		result.Tasks = append(result.Tasks, row)
	}
	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())

	s.logger.InfoContext(ctx, "bulk snapshot refresh finished",
		"seasons", result.SeasonCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)
	return result, nil
}

func (s *RefreshService) runTask(ctx context.Context, se season.Season) RefreshTaskResult {
	row := RefreshTaskResult{SeasonID: se.ID, Slug: se.Slug}
	start := time.Now()

	if !se.HasSources() {
		row.Status = refreshStatusSkipped
		row.Message = "season has no source urls"
		return row
	}

	snap, err := s.snapshots.GetForSeason(ctx, &se, true)
	row.DurationMs = time.Since(start).Milliseconds()
	switch {
	case err != nil:
		row.Status = refreshStatusFailed
		row.Message = err.Error()
	case snap == nil || snap.Status != snapshot.StatusOK:
		row.Status = refreshStatusFailed
		if snap != nil {
			row.Message = snap.StatusMessage
		} else {
			row.Message = "refresh produced no snapshot"
		}
	default:
		row.Status = refreshStatusSuccess
		row.Fixtures = len(snap.Fixtures)
		row.Standings = len(snap.Standings)
	}
	return row
}
