package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/thehubfc/prediction-league/internal/domain/scoring"
	"github.com/thehubfc/prediction-league/internal/domain/user"
	"github.com/thehubfc/prediction-league/internal/infrastructure/repository/memory"
	idgen "github.com/thehubfc/prediction-league/internal/platform/id"
	"github.com/thehubfc/prediction-league/internal/platform/logging"
	"github.com/thehubfc/prediction-league/internal/usecase"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	competitionRepo := memory.NewCompetitionRepository(memory.SeedCompetitions())
	roundRepo := memory.NewRoundRepository(memory.SeedRounds())
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	userRepo := memory.NewUserRepository(memory.SeedUsers())
	predictionRepo := memory.NewPredictionRepository()
	statsRepo := memory.NewRoundStatsRepository(roundRepo)

	ids := idgen.NewRandomGenerator()
	policy := scoring.DefaultWinnerPolicy

	roundSvc := usecase.NewRoundService(competitionRepo, roundRepo, matchRepo, teamRepo, predictionRepo, statsRepo, userRepo, ids)
	leaderboardSvc := usecase.NewLeaderboardService(competitionRepo, roundRepo, matchRepo, predictionRepo, statsRepo, userRepo, policy, nil)
	roundSvc.SetLeaderboardInvalidator(leaderboardSvc)
	predictionSvc := usecase.NewPredictionService(roundRepo, matchRepo, predictionRepo)
	historySvc := usecase.NewHistoryService(roundRepo, matchRepo, predictionRepo, userRepo, leaderboardSvc, policy)
	comparisonSvc := usecase.NewComparisonService(roundRepo, matchRepo, predictionRepo, userRepo)
	dashboardSvc := usecase.NewDashboardService(competitionRepo, roundRepo, predictionRepo, leaderboardSvc)
	competitionSvc := usecase.NewCompetitionService(competitionRepo, ids)

	handler := NewHandler(
		roundSvc,
		predictionSvc,
		leaderboardSvc,
		historySvc,
		comparisonSvc,
		dashboardSvc,
		competitionSvc,
		teamRepo,
		userRepo,
		logging.NewNop(),
	)

	verifier := &stubVerifier{principals: map[string]user.Principal{
		"token-player": {UserID: "user-1", Name: "Ola Berg"},
		"token-admin":  {UserID: "user-admin", Name: "Kari Admin", IsAdmin: true},
	}}

	return NewRouter(handler, verifier, logging.NewNop(), true, []string{"*"})
}

func decodeEnvelope(t *testing.T, body []byte) map[string]any {
	t.Helper()

	var envelope map[string]any
	if err := sonic.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return envelope
}

func TestRouter_HealthzIsPublic(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_ListCompetitionsIsPublic(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/competitions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	envelope := decodeEnvelope(t, rec.Body.Bytes())
	items, ok := envelope["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %T", envelope["data"])
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 seeded competitions, got %d", len(items))
	}
}

func TestRouter_DashboardRequiresAuth(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRouter_AdminRoutesRejectPlayers(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/rounds", strings.NewReader(`{"deadline":"2027-04-01T16:00:00Z"}`))
	req.Header.Set("Authorization", "Bearer token-player")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestRouter_AdminCreatesRound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	deadline := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/rounds", strings.NewReader(`{"deadline":"`+deadline+`"}`))
	req.Header.Set("Authorization", "Bearer token-admin")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec.Body.Bytes())
	data, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %T", envelope["data"])
	}
	if got, _ := data["status"].(string); got != "scheduled" {
		t.Fatalf("expected new round status scheduled, got %v", data["status"])
	}
	if got, _ := data["competition_id"].(string); got != memory.CompetitionIDEliteserien2026 {
		t.Fatalf("expected round in the active competition, got %v", data["competition_id"])
	}
}

func TestRouter_PlayerSeesPublishedRound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/rounds/round-1", nil)
	req.Header.Set("Authorization", "Bearer token-player")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec.Body.Bytes())
	data, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %T", envelope["data"])
	}
	matches, ok := data["matches"].([]any)
	if !ok {
		t.Fatalf("expected matches array, got %T", data["matches"])
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches in round-1, got %d", len(matches))
	}
}

func TestRouter_ScheduledRoundHiddenFromPlayers(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/rounds/round-2", nil)
	req.Header.Set("Authorization", "Bearer token-player")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for a scheduled round, got %d", rec.Code)
	}
}

func TestRouter_SavePredictionsOnHiddenRound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	body := `{"picks":[{"match_id":"match-4","pick":"H"}]}`
	req := httptest.NewRequest(http.MethodPut, "/v1/rounds/round-2/predictions", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token-player")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for a hidden round, got %d", rec.Code)
	}
}
