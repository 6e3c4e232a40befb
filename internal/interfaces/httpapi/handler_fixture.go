package httpapi

import (
	"net/http"
	"strings"

	"github.com/clubkit/league-sync/internal/domain/snapshot"
)

func (h *Handler) ListSeasonFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonFixtures")
	defer span.End()

	se, err := h.resolveSeason(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	team := strings.TrimSpace(r.URL.Query().Get("team"))
	fixtures, err := h.fixtureService.ListBySeason(ctx, se.ID, team)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "season_id", se.ID, "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	if fixtures == nil {
		fixtures = []snapshot.Fixture{}
	}
	writeSuccess(ctx, w, http.StatusOK, fixtures)
}

func (h *Handler) GetNextSeasonFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetNextSeasonFixture")
	defer span.End()

	se, err := h.resolveSeason(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	team := strings.TrimSpace(r.URL.Query().Get("team"))
	next, err := h.fixtureService.NextBySeason(ctx, se.ID, team)
	if err != nil {
		h.logger.WarnContext(ctx, "get next fixture failed", "season_id", se.ID, "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	// Nil means no upcoming fixture is known, which is not an error.
	writeSuccess(ctx, w, http.StatusOK, next)
}

func (h *Handler) GetLastSeasonFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLastSeasonFixture")
	defer span.End()

	se, err := h.resolveSeason(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	team := strings.TrimSpace(r.URL.Query().Get("team"))
	last, err := h.fixtureService.LastBySeason(ctx, se.ID, team)
	if err != nil {
		h.logger.WarnContext(ctx, "get last fixture failed", "season_id", se.ID, "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, last)
}
