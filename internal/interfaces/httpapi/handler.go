package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/clubkit/league-sync/internal/domain/season"
	"github.com/clubkit/league-sync/internal/platform/logging"
	"github.com/clubkit/league-sync/internal/usecase"
)

type Handler struct {
	seasonService    *usecase.SeasonService
	snapshotService  *usecase.SnapshotService
	fixtureService   *usecase.FixtureService
	analyticsService *usecase.AnalyticsService
	refreshService   *usecase.RefreshService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	seasonService *usecase.SeasonService,
	snapshotService *usecase.SnapshotService,
	fixtureService *usecase.FixtureService,
	analyticsService *usecase.AnalyticsService,
	refreshService *usecase.RefreshService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		seasonService:    seasonService,
		snapshotService:  snapshotService,
		fixtureService:   fixtureService,
		analyticsService: analyticsService,
		refreshService:   refreshService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasons")
	defer span.End()

	seasons, err := h.seasonService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list seasons failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]seasonDTO, 0, len(seasons))
	for _, se := range seasons {
		items = append(items, seasonToDTO(se))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// resolveSeason maps the {seasonID} path value, which may be an ID or
// a slug, to the stored season.
func (h *Handler) resolveSeason(ctx context.Context, r *http.Request) (*season.Season, error) {
	return h.seasonService.Get(ctx, r.PathValue("seasonID"))
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type seasonDTO struct {
	ID         string `json:"id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	TeamName   string `json:"teamName,omitempty"`
	IsActive   bool   `json:"isActive"`
	HasSources bool   `json:"hasSources"`
	CreatedAt  string `json:"createdAt"`
}

func seasonToDTO(se season.Season) seasonDTO {
	return seasonDTO{
		ID:         se.ID,
		Slug:       se.Slug,
		Name:       se.Name,
		TeamName:   se.TeamName,
		IsActive:   se.IsActive,
		HasSources: se.HasSources(),
		CreatedAt:  se.CreatedAt.UTC().Format(time.RFC3339),
	}
}
