package usecase

import (
	"errors"
	"testing"

	"github.com/thehubfc/prediction-league/internal/domain/match"
	"github.com/thehubfc/prediction-league/internal/domain/prediction"
)

func TestComparisonService_Compare(t *testing.T) {
	f := newLeagueFixture()
	svc := NewComparisonService(f.rounds, f.matches, f.predictions, f.users)
	svc.now = fixedNow(afterRound1Deadline)

	if err := f.predictions.UpsertBatch(t.Context(), []prediction.Prediction{
		{UserID: "user-1", MatchID: "match-1", RoundID: "round-1", Pick: match.ResultHome, IsBanker: true},
		{UserID: "user-1", MatchID: "match-2", RoundID: "round-1", Pick: match.ResultDraw},
		{UserID: "user-2", MatchID: "match-1", RoundID: "round-1", Pick: match.ResultAway},
		{UserID: "user-2", MatchID: "match-2", RoundID: "round-1", Pick: match.ResultDraw},
	}); err != nil {
		t.Fatalf("seed predictions failed: %v", err)
	}

	// Only match-1 has a result so far.
	m, _, _ := f.matches.GetByID(t.Context(), "match-1")
	m.Result = match.ResultHome
	if err := f.matches.Update(t.Context(), m); err != nil {
		t.Fatalf("set result failed: %v", err)
	}

	cmp, err := svc.Compare(t.Context(), "round-1", "user-1", "user-2")
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if cmp.UserA.Name != "Ola Berg" || cmp.UserB.Name != "Nina Strand" {
		t.Fatalf("unexpected players: %+v vs %+v", cmp.UserA, cmp.UserB)
	}
	if len(cmp.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(cmp.Lines))
	}

	first := cmp.Lines[0]
	if !first.HasResult {
		t.Fatalf("match-1 has a result: %+v", first)
	}
	// Banker hit on the motw match doubles twice.
	if first.PointsA != 12 || first.PointsB != 0 {
		t.Fatalf("unexpected points on match-1: %+v", first)
	}
	if cmp.Lines[1].HasResult || cmp.Lines[1].PointsA != 0 {
		t.Fatalf("matches without results must score zero: %+v", cmp.Lines[1])
	}
	if cmp.TotalA != 12 || cmp.TotalB != 0 {
		t.Fatalf("unexpected totals: %d vs %d", cmp.TotalA, cmp.TotalB)
	}
}

func TestComparisonService_Compare_RejectedWhileOpen(t *testing.T) {
	f := newLeagueFixture()
	svc := NewComparisonService(f.rounds, f.matches, f.predictions, f.users)
	svc.now = fixedNow(beforeRound1Deadline)

	_, err := svc.Compare(t.Context(), "round-1", "user-1", "user-2")
	if !errors.Is(err, ErrRoundLocked) {
		t.Fatalf("open rounds must refuse comparison, got %v", err)
	}
}

func TestComparisonService_Compare_SamePlayer(t *testing.T) {
	f := newLeagueFixture()
	svc := NewComparisonService(f.rounds, f.matches, f.predictions, f.users)

	_, err := svc.Compare(t.Context(), "round-1", "user-1", "user-1")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
