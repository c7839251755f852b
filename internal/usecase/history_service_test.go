package usecase

import (
	"errors"
	"testing"

	"github.com/thehubfc/prediction-league/internal/domain/scoring"
	"github.com/thehubfc/prediction-league/internal/infrastructure/repository/memory"
)

func newHistoryService(f *leagueFixture) *HistoryService {
	return NewHistoryService(
		f.rounds,
		f.matches,
		f.predictions,
		f.users,
		f.leaderboardService(),
		scoring.DefaultWinnerPolicy,
	)
}

func TestHistoryService_List(t *testing.T) {
	f := newLeagueFixture()
	roundSvc := f.roundService()
	svc := newHistoryService(f)

	seedSettledRound(t, f, roundSvc)

	summaries, err := svc.List(t.Context(), memory.CompetitionIDEliteserien2026)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one settled round, got %d", len(summaries))
	}

	summary := summaries[0]
	if summary.Round.ID != "round-1" {
		t.Fatalf("unexpected round: %+v", summary.Round)
	}
	if summary.TopPoints != 12 || summary.Players != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.WinnerNames) != 1 || summary.WinnerNames[0] != "Ola Berg" {
		t.Fatalf("unexpected winners: %v", summary.WinnerNames)
	}
}

func TestHistoryService_Detail(t *testing.T) {
	f := newLeagueFixture()
	roundSvc := f.roundService()
	svc := newHistoryService(f)

	seedSettledRound(t, f, roundSvc)

	detail, err := svc.Detail(t.Context(), "round-1")
	if err != nil {
		t.Fatalf("round detail failed: %v", err)
	}
	if len(detail.Matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(detail.Matches))
	}
	if len(detail.Stats) != 1 || detail.Stats[0].Points != 12 {
		t.Fatalf("unexpected stats: %+v", detail.Stats)
	}
	if len(detail.WinnerIDs) != 1 || detail.WinnerIDs[0] != "user-1" {
		t.Fatalf("unexpected winner ids: %v", detail.WinnerIDs)
	}
	if detail.Names["user-1"] != "Ola Berg" {
		t.Fatalf("player names missing: %v", detail.Names)
	}
	if len(detail.Predictions) != 3 {
		t.Fatalf("expected the full pick sheet, got %d", len(detail.Predictions))
	}
}

func TestHistoryService_Detail_RejectsUnsettledRound(t *testing.T) {
	f := newLeagueFixture()
	svc := newHistoryService(f)

	_, err := svc.Detail(t.Context(), "round-1")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a live round, got %v", err)
	}
}
