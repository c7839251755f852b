package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/thehubfc/prediction-league/internal/domain/match"
	"github.com/thehubfc/prediction-league/internal/domain/notification"
	"github.com/thehubfc/prediction-league/internal/domain/prediction"
	"github.com/thehubfc/prediction-league/internal/domain/scoring"
	"github.com/thehubfc/prediction-league/internal/infrastructure/repository/memory"
	idgen "github.com/thehubfc/prediction-league/internal/platform/id"
)

// leagueFixture wires the memory repositories the way the app does so
// service tests share one seeded world.
type leagueFixture struct {
	competitions *memory.CompetitionRepository
	teams        *memory.TeamRepository
	rounds       *memory.RoundRepository
	matches      *memory.MatchRepository
	predictions  *memory.PredictionRepository
	stats        *memory.RoundStatsRepository
	users        *memory.UserRepository
}

func newLeagueFixture() *leagueFixture {
	rounds := memory.NewRoundRepository(memory.SeedRounds())
	return &leagueFixture{
		competitions: memory.NewCompetitionRepository(memory.SeedCompetitions()),
		teams:        memory.NewTeamRepository(memory.SeedTeams()),
		rounds:       rounds,
		matches:      memory.NewMatchRepository(memory.SeedMatches()),
		predictions:  memory.NewPredictionRepository(),
		stats:        memory.NewRoundStatsRepository(rounds),
		users:        memory.NewUserRepository(memory.SeedUsers()),
	}
}

func (f *leagueFixture) roundService() *RoundService {
	return NewRoundService(
		f.competitions,
		f.rounds,
		f.matches,
		f.teams,
		f.predictions,
		f.stats,
		f.users,
		idgen.NewRandomGenerator(),
	)
}

func (f *leagueFixture) predictionService() *PredictionService {
	return NewPredictionService(f.rounds, f.matches, f.predictions)
}

func (f *leagueFixture) leaderboardService() *LeaderboardService {
	return NewLeaderboardService(
		f.competitions,
		f.rounds,
		f.matches,
		f.predictions,
		f.stats,
		f.users,
		scoring.DefaultWinnerPolicy,
		nil,
	)
}

// beforeRound1Deadline is inside round-1's open window.
var beforeRound1Deadline = time.Date(2026, 4, 6, 12, 0, 0, 0, time.UTC)

// afterRound1Deadline is past round-1's deadline.
var afterRound1Deadline = time.Date(2026, 4, 6, 18, 0, 0, 0, time.UTC)

func fixedNow(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// seedSettledRound enters results and one complete set of correct
// picks for user-1, then finalizes round-1. user-1 ends on 12 points
// because match-1 is the match of the week.
func seedSettledRound(t *testing.T, f *leagueFixture, svc *RoundService) {
	t.Helper()

	for matchID, result := range map[string]match.Result{
		"match-1": match.ResultHome,
		"match-2": match.ResultDraw,
		"match-3": match.ResultAway,
	} {
		if err := svc.SetResult(t.Context(), matchID, result); err != nil {
			t.Fatalf("set result for %s failed: %v", matchID, err)
		}
	}
	if err := f.predictions.UpsertBatch(t.Context(), []prediction.Prediction{
		{UserID: "user-1", MatchID: "match-1", RoundID: "round-1", Pick: match.ResultHome},
		{UserID: "user-1", MatchID: "match-2", RoundID: "round-1", Pick: match.ResultDraw},
		{UserID: "user-1", MatchID: "match-3", RoundID: "round-1", Pick: match.ResultAway},
	}); err != nil {
		t.Fatalf("seed predictions failed: %v", err)
	}
	if _, err := svc.SetFinal(t.Context(), "round-1"); err != nil {
		t.Fatalf("set final failed: %v", err)
	}
}

type stubNotifier struct {
	kinds  []notification.Kind
	infos  []notification.RoundInfo
	counts []int
	result notification.Result
	err    error
}

func (n *stubNotifier) NotifyRound(_ context.Context, kind notification.Kind, info notification.RoundInfo, recipients []notification.Recipient) (notification.Result, error) {
	n.kinds = append(n.kinds, kind)
	n.infos = append(n.infos, info)
	n.counts = append(n.counts, len(recipients))
	return n.result, n.err
}
