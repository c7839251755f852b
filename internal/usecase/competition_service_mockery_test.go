package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/thehubfc/prediction-league/internal/domain/competition"
	competitionmock "github.com/thehubfc/prediction-league/internal/mocks/domain/competition"
	idgen "github.com/thehubfc/prediction-league/internal/platform/id"
)

func TestCompetitionService_Activate_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := competitionmock.NewRepository(t)
	svc := NewCompetitionService(repo, idgen.NewRandomGenerator())

	competitionID := "eliteserien-2027"

	repo.
		On("GetByID", mock.Anything, competitionID).
		Return(competition.Competition{ID: competitionID, Name: "Eliteserien 2027"}, true, nil).
		Once()
	repo.
		On("SetActive", mock.Anything, competitionID).
		Return(nil).
		Once()

	if err := svc.Activate(ctx, competitionID); err != nil {
		t.Fatalf("activate competition: %v", err)
	}
}

func TestCompetitionService_Activate_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := competitionmock.NewRepository(t)
	svc := NewCompetitionService(repo, idgen.NewRandomGenerator())

	repo.
		On("GetByID", mock.Anything, "missing-competition").
		Return(competition.Competition{}, false, nil).
		Once()

	err := svc.Activate(ctx, "missing-competition")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompetitionService_List_RepositoryErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := competitionmock.NewRepository(t)
	svc := NewCompetitionService(repo, idgen.NewRandomGenerator())

	repo.
		On("List", mock.Anything).
		Return(nil, errors.New("connection refused")).
		Once()

	if _, err := svc.List(ctx); err == nil {
		t.Fatal("expected repository error to surface")
	}
}
