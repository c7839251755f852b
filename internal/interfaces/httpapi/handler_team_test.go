package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/thehubfc/prediction-league/internal/domain/team"
	teammock "github.com/thehubfc/prediction-league/internal/mocks/domain/team"
	"github.com/thehubfc/prediction-league/internal/platform/logging"
)

func newTeamsOnlyHandler(t *testing.T, repo team.Repository) *Handler {
	t.Helper()
	return NewHandler(nil, nil, nil, nil, nil, nil, nil, repo, nil, logging.NewNop())
}

func TestListTeams_UsingMockery(t *testing.T) {
	t.Parallel()

	repo := teammock.NewRepository(t)
	repo.
		On("List", mock.Anything).
		Return([]team.Team{
			{ID: "no-vif", Name: "Vålerenga", Short: "VIF"},
			{ID: "no-lsk", Name: "Lillestrøm", Short: "LSK"},
		}, nil).
		Once()

	handler := newTeamsOnlyHandler(t, repo)

	rec := httptest.NewRecorder()
	handler.ListTeams(rec, httptest.NewRequest(http.MethodGet, "/v1/teams", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	envelope := decodeEnvelope(t, rec.Body.Bytes())
	items, ok := envelope["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %T", envelope["data"])
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(items))
	}
}

func TestListTeams_RepositoryErrorUsingMockery(t *testing.T) {
	t.Parallel()

	repo := teammock.NewRepository(t)
	repo.
		On("List", mock.Anything).
		Return(nil, errors.New("connection refused")).
		Once()

	handler := newTeamsOnlyHandler(t, repo)

	rec := httptest.NewRecorder()
	handler.ListTeams(rec, httptest.NewRequest(http.MethodGet, "/v1/teams", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}
