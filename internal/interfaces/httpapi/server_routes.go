package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerSeasonRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/snapshot", handler.GetSeasonSnapshot)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/standings", handler.ListSeasonStandings)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/fixtures", handler.ListSeasonFixtures)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/fixtures/next", handler.GetNextSeasonFixture)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/fixtures/last", handler.GetLastSeasonFixture)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/analytics/results", handler.ListSeasonTeamResults)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/analytics/elo", handler.ListSeasonEloRatings)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/refresh-snapshot", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshSnapshotJob)))
	mux.Handle("POST /v1/internal/jobs/refresh-all", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshAllJob)))
}
