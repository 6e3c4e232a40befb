package httpapi

import (
	"net/http"

	"github.com/clubkit/league-sync/internal/usecase"
)

const formLength = 5

func (h *Handler) ListSeasonTeamResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonTeamResults")
	defer span.End()

	se, err := h.resolveSeason(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	results, err := h.analyticsService.TeamResultsBySeason(ctx, se.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "list team results failed", "season_id", se.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamResultsDTO, 0, len(results))
	for _, res := range results {
		items = append(items, teamResultsToDTO(res))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListSeasonEloRatings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonEloRatings")
	defer span.End()

	se, err := h.resolveSeason(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	ratings, err := h.analyticsService.TeamEloBySeason(ctx, se.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "list elo ratings failed", "season_id", se.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	if ratings == nil {
		ratings = []*usecase.TeamElo{}
	}
	writeSuccess(ctx, w, http.StatusOK, ratings)
}

type teamResultsDTO struct {
	Team         string              `json:"team"`
	Wins         int                 `json:"wins"`
	Draws        int                 `json:"draws"`
	Losses       int                 `json:"losses"`
	GoalsFor     int                 `json:"goalsFor"`
	GoalsAgainst int                 `json:"goalsAgainst"`
	Form         []string            `json:"form"`
	Matches      []usecase.TeamMatch `json:"matches"`
}

func teamResultsToDTO(res *usecase.TeamResults) teamResultsDTO {
	form := res.Form(formLength)
	if form == nil {
		form = []string{}
	}
	matches := res.Matches
	if matches == nil {
		matches = []usecase.TeamMatch{}
	}
	return teamResultsDTO{
		Team:         res.Team,
		Wins:         res.Wins,
		Draws:        res.Draws,
		Losses:       res.Losses,
		GoalsFor:     res.GoalsFor,
		GoalsAgainst: res.GoalsAgainst,
		Form:         form,
		Matches:      matches,
	}
}
