package httpapi

import (
	"net/http"
	"time"

	"github.com/clubkit/league-sync/internal/domain/snapshot"
)

func (h *Handler) GetSeasonSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonSnapshot")
	defer span.End()

	se, err := h.resolveSeason(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snap, err := h.snapshotService.GetForSeason(ctx, se, false)
	if err != nil {
		h.logger.WarnContext(ctx, "get snapshot failed", "season_id", se.ID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if snap == nil {
		// Season exists but has no configured sources yet.
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(snap))
}

func (h *Handler) ListSeasonStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonStandings")
	defer span.End()

	se, err := h.resolveSeason(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snap, err := h.snapshotService.GetForSeason(ctx, se, false)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "season_id", se.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	standings := []snapshot.Standing{}
	if snap != nil {
		standings = append(standings, snap.Standings...)
	}

	writeSuccess(ctx, w, http.StatusOK, standings)
}

type snapshotDTO struct {
	ID            string              `json:"id"`
	SeasonID      string              `json:"seasonId"`
	FetchedAt     string              `json:"fetchedAt"`
	Source        string              `json:"source"`
	Status        string              `json:"status"`
	StatusMessage string              `json:"statusMessage,omitempty"`
	Fixtures      []snapshot.Fixture  `json:"fixtures"`
	Standings     []snapshot.Standing `json:"standings"`
}

func snapshotToDTO(snap *snapshot.Snapshot) snapshotDTO {
	dto := snapshotDTO{
		ID:            snap.ID,
		SeasonID:      snap.SeasonID,
		FetchedAt:     snap.FetchedAt.UTC().Format(time.RFC3339),
		Source:        snap.Source,
		Status:        snap.Status,
		StatusMessage: snap.StatusMessage,
		Fixtures:      snap.Fixtures,
		Standings:     snap.Standings,
	}
	if dto.Fixtures == nil {
		dto.Fixtures = []snapshot.Fixture{}
	}
	if dto.Standings == nil {
		dto.Standings = []snapshot.Standing{}
	}
	return dto
}
