package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/thehubfc/prediction-league/internal/domain/match"
	"github.com/thehubfc/prediction-league/internal/domain/round"
	"github.com/thehubfc/prediction-league/internal/infrastructure/repository/memory"
)

func TestPredictionService_Save(t *testing.T) {
	f := newLeagueFixture()
	svc := f.predictionService()
	svc.now = fixedNow(beforeRound1Deadline)

	err := svc.Save(t.Context(), SavePredictionsInput{
		UserID:  "user-1",
		RoundID: "round-1",
		Picks: []PredictionPick{
			{MatchID: "match-1", Pick: match.ResultHome, IsBanker: true},
			{MatchID: "match-2", Pick: match.ResultDraw},
			{MatchID: "match-3", Pick: match.ResultAway},
		},
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	preds, err := f.predictions.ListByUserRound(t.Context(), "user-1", "round-1")
	if err != nil {
		t.Fatalf("list predictions failed: %v", err)
	}
	if len(preds) != 3 {
		t.Fatalf("expected 3 picks, got %d", len(preds))
	}
	if preds[0].MatchID != "match-1" || !preds[0].IsBanker {
		t.Fatalf("banker pick not stored: %+v", preds[0])
	}
}

func TestPredictionService_Save_OverwritesPreviousPicks(t *testing.T) {
	f := newLeagueFixture()
	svc := f.predictionService()
	svc.now = fixedNow(beforeRound1Deadline)

	first := SavePredictionsInput{
		UserID:  "user-1",
		RoundID: "round-1",
		Picks: []PredictionPick{
			{MatchID: "match-1", Pick: match.ResultHome, IsBanker: true},
			{MatchID: "match-2", Pick: match.ResultDraw},
			{MatchID: "match-3", Pick: match.ResultAway},
		},
	}
	if err := svc.Save(t.Context(), first); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	second := SavePredictionsInput{
		UserID:  "user-1",
		RoundID: "round-1",
		Picks: []PredictionPick{
			{MatchID: "match-1", Pick: match.ResultAway},
			{MatchID: "match-2", Pick: match.ResultDraw, IsBanker: true},
			{MatchID: "match-3", Pick: match.ResultHome},
		},
	}
	if err := svc.Save(t.Context(), second); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	preds, _ := f.predictions.ListByUserRound(t.Context(), "user-1", "round-1")
	if len(preds) != 3 {
		t.Fatalf("expected 3 picks after resave, got %d", len(preds))
	}
	if preds[0].Pick != match.ResultAway || preds[0].IsBanker {
		t.Fatalf("pick for match-1 not overwritten: %+v", preds[0])
	}
	if !preds[1].IsBanker {
		t.Fatalf("banker should have moved to match-2: %+v", preds[1])
	}
}

func TestPredictionService_Save_RejectedAfterDeadline(t *testing.T) {
	f := newLeagueFixture()
	svc := f.predictionService()
	svc.now = fixedNow(afterRound1Deadline)

	err := svc.Save(t.Context(), SavePredictionsInput{
		UserID:  "user-1",
		RoundID: "round-1",
		Picks: []PredictionPick{
			{MatchID: "match-1", Pick: match.ResultHome},
			{MatchID: "match-2", Pick: match.ResultDraw},
			{MatchID: "match-3", Pick: match.ResultAway},
		},
	})
	if !errors.Is(err, ErrRoundLocked) {
		t.Fatalf("expected ErrRoundLocked, got %v", err)
	}
}

func TestPredictionService_Save_RejectedForHiddenRound(t *testing.T) {
	f := newLeagueFixture()
	svc := f.predictionService()
	svc.now = fixedNow(beforeRound1Deadline)

	err := svc.Save(t.Context(), SavePredictionsInput{
		UserID:  "user-1",
		RoundID: "round-2",
		Picks:   []PredictionPick{{MatchID: "match-4", Pick: match.ResultHome}},
	})
	if !errors.Is(err, ErrRoundHidden) {
		t.Fatalf("expected ErrRoundHidden, got %v", err)
	}
}

func TestPredictionService_Save_RequiresAllMatches(t *testing.T) {
	f := newLeagueFixture()
	svc := f.predictionService()
	svc.now = fixedNow(beforeRound1Deadline)

	err := svc.Save(t.Context(), SavePredictionsInput{
		UserID:  "user-1",
		RoundID: "round-1",
		Picks: []PredictionPick{
			{MatchID: "match-1", Pick: match.ResultHome},
			{MatchID: "match-2", Pick: match.ResultDraw},
		},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an incomplete set, got %v", err)
	}
}

func TestPredictionService_Save_AtMostOneBanker(t *testing.T) {
	f := newLeagueFixture()
	svc := f.predictionService()
	svc.now = fixedNow(beforeRound1Deadline)

	err := svc.Save(t.Context(), SavePredictionsInput{
		UserID:  "user-1",
		RoundID: "round-1",
		Picks: []PredictionPick{
			{MatchID: "match-1", Pick: match.ResultHome, IsBanker: true},
			{MatchID: "match-2", Pick: match.ResultDraw, IsBanker: true},
			{MatchID: "match-3", Pick: match.ResultAway},
		},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for two bankers, got %v", err)
	}
}

func TestPredictionService_Save_NoBankerInStandaloneRounds(t *testing.T) {
	f := newLeagueFixture()
	svc := f.predictionService()

	deadline := time.Date(2026, 5, 1, 16, 0, 0, 0, time.UTC)
	if err := f.rounds.Create(t.Context(), round.Round{
		ID:            "round-9",
		CompetitionID: memory.CompetitionIDEliteserien2026,
		Number:        9,
		Type:          round.TypeStandalone,
		Deadline:      deadline,
		Status:        round.StatusPublished,
	}); err != nil {
		t.Fatalf("seed standalone round failed: %v", err)
	}
	if err := f.matches.Create(t.Context(), match.Match{
		ID:             "match-9",
		RoundID:        "round-9",
		HomeTeamID:     "no-rbk",
		AwayTeamID:     "no-brn",
		KickoffAt:      deadline.Add(time.Hour),
		Status:         match.StatusScheduled,
		IncludeInRound: true,
	}); err != nil {
		t.Fatalf("seed standalone match failed: %v", err)
	}
	svc.now = fixedNow(deadline.Add(-time.Hour))

	err := svc.Save(t.Context(), SavePredictionsInput{
		UserID:  "user-1",
		RoundID: "round-9",
		Picks:   []PredictionPick{{MatchID: "match-9", Pick: match.ResultHome, IsBanker: true}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a standalone banker, got %v", err)
	}

	err = svc.Save(t.Context(), SavePredictionsInput{
		UserID:  "user-1",
		RoundID: "round-9",
		Picks:   []PredictionPick{{MatchID: "match-9", Pick: match.ResultHome}},
	})
	if err != nil {
		t.Fatalf("plain standalone pick failed: %v", err)
	}
}

func TestPredictionService_GetPlayerRound(t *testing.T) {
	f := newLeagueFixture()
	svc := f.predictionService()
	svc.now = fixedNow(beforeRound1Deadline)

	view, err := svc.GetPlayerRound(t.Context(), "user-1", "round-1")
	if err != nil {
		t.Fatalf("get player round failed: %v", err)
	}
	if view.State != round.StateOpen {
		t.Fatalf("expected open state, got %s", view.State)
	}
	if len(view.Matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(view.Matches))
	}

	_, err = svc.GetPlayerRound(t.Context(), "user-1", "round-2")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("hidden round must read as not found, got %v", err)
	}
}
