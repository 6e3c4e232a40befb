package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/clubkit/league-sync/internal/domain/snapshot"
	"github.com/clubkit/league-sync/internal/infrastructure/repository/memory"
	"github.com/clubkit/league-sync/internal/platform/logging"
	"github.com/clubkit/league-sync/internal/usecase"
)

const testJobToken = "job-secret"

type stubLeagueSource struct{}

func (s *stubLeagueSource) FetchFixtures(_ context.Context, pageURL string) ([]snapshot.Fixture, error) {
	kickoff := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	if strings.Contains(pageURL, "Results") {
		three, one := 3, 1
		return []snapshot.Fixture{
			{
				DateLabel: "14/03/2026",
				Time:      "18:00",
				KickoffAt: &kickoff,
				HomeTeam:  "I think we struck goals here",
				AwayTeam:  "Blue Star",
				HomeScore: &three,
				AwayScore: &one,
				Pitch:     "Pitch 1",
			},
		}, nil
	}
	return []snapshot.Fixture{
		{
			DateLabel: "14/03/2026",
			Time:      "18:00",
			KickoffAt: &kickoff,
			HomeTeam:  "I think we struck goals here",
			AwayTeam:  "Blue Star",
		},
		{
			DateLabel: "21/03/2026",
			Time:      "19:00",
			HomeTeam:  "Red Devils",
			AwayTeam:  "Blue Star",
		},
	}, nil
}

func (s *stubLeagueSource) FetchStandings(_ context.Context, _ string) ([]snapshot.Standing, error) {
	return []snapshot.Standing{
		{Position: 1, Team: "I think we struck goals here", Played: 1, Won: 1, Points: 3},
		{Position: 2, Team: "Blue Star", Played: 1, Lost: 1},
		{Position: 3, Team: "Red Devils"},
	}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	seasonRepo := memory.NewSeasonRepository(memory.SeedSeasons())
	snapshotRepo := memory.NewSnapshotRepository()

	snapshotService := usecase.NewSnapshotService(seasonRepo, snapshotRepo, &stubLeagueSource{}, usecase.SnapshotServiceConfig{
		Logger: logger,
	})
	seasonService := usecase.NewSeasonService(seasonRepo, nil)
	fixtureService := usecase.NewFixtureService(snapshotService, "I think we struck goals here", nil)
	analyticsService := usecase.NewAnalyticsService(snapshotService, usecase.AnalyticsServiceConfig{})
	refreshService := usecase.NewRefreshService(seasonRepo, snapshotService, logger)

	handler := NewHandler(seasonService, snapshotService, fixtureService, analyticsService, refreshService, logger)
	return NewRouter(handler, logger, []string{"*"}, testJobToken)
}

func doRequest(t *testing.T, router http.Handler, method, target string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal response body: %v", err)
		}
	}
	return rec, body
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	data, _ := body["data"].(map[string]any)
	if got, _ := data["status"].(string); got != "ok" {
		t.Fatalf("expected status=ok, got %v", data["status"])
	}
}

func TestRouter_ListSeasons(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/v1/seasons", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	items, ok := body["data"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected two seasons, got %v", body["data"])
	}
	first, _ := items[0].(map[string]any)
	if got, _ := first["slug"].(string); got != "spring-2026" {
		t.Fatalf("expected active season first, got %v", first["slug"])
	}
}

func TestRouter_SnapshotMergesResults(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/v1/seasons/spring-2026/snapshot", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	data, _ := body["data"].(map[string]any)
	if got, _ := data["status"].(string); got != "ok" {
		t.Fatalf("expected snapshot status ok, got %v", data["status"])
	}
	fixtures, _ := data["fixtures"].([]any)
	if len(fixtures) != 2 {
		t.Fatalf("expected two merged fixtures, got %d", len(fixtures))
	}
	first, _ := fixtures[0].(map[string]any)
	if got, ok := first["homeScore"].(float64); !ok || got != 3 {
		t.Fatalf("expected result score merged onto fixture, got %v", first["homeScore"])
	}
	if got, _ := first["pitch"].(string); got != "Pitch 1" {
		t.Fatalf("expected pitch from results feed, got %v", first["pitch"])
	}
}

func TestRouter_FixturesTeamFilter(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/v1/seasons/spring-2026/fixtures?team=Red+Devils", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	items, _ := body["data"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected one fixture for Red Devils, got %d", len(items))
	}
}

func TestRouter_NextFixtureForClubTeam(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/v1/seasons/spring-2026/fixtures/next", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	data, _ := body["data"].(map[string]any)
	if data == nil {
		t.Fatalf("expected a next fixture, got nil")
	}
	if got, _ := data["opponent"].(string); got != "Blue Star" {
		t.Fatalf("expected opponent Blue Star, got %v", data["opponent"])
	}
}

func TestRouter_UnknownSeason(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doRequest(t, router, http.MethodGet, "/v1/seasons/nope/snapshot", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestRouter_InternalJobTokenGuard(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/refresh-all", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rec.Code)
	}

	rec, body := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/refresh-all", map[string]string{
		"X-Internal-Job-Token": testJobToken,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 with token, got %d", rec.Code)
	}
	data, _ := body["data"].(map[string]any)
	if got, ok := data["success_count"].(float64); !ok || got != 1 {
		t.Fatalf("expected one successful refresh, got %v", data["success_count"])
	}
}

func TestRouter_EloRatings(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/v1/seasons/spring-2026/analytics/elo", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	items, _ := body["data"].([]any)
	if len(items) == 0 {
		t.Fatalf("expected elo entries, got none")
	}
	top, _ := items[0].(map[string]any)
	if got, _ := top["team"].(string); got != "I think we struck goals here" {
		t.Fatalf("expected winner ranked first, got %v", top["team"])
	}
}
