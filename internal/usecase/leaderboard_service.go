package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/thehubfc/prediction-league/internal/domain/competition"
	"github.com/thehubfc/prediction-league/internal/domain/match"
	"github.com/thehubfc/prediction-league/internal/domain/prediction"
	"github.com/thehubfc/prediction-league/internal/domain/round"
	"github.com/thehubfc/prediction-league/internal/domain/scoring"
	"github.com/thehubfc/prediction-league/internal/domain/user"
	"github.com/thehubfc/prediction-league/internal/platform/cache"
)

// LeaderboardService is the single place season standings are computed.
// Stored per-round stats are a cache of the scoring engine's output;
// when a final round has no stored rows they are rebuilt from picks and
// results with the same functions, so both paths always agree.
type LeaderboardService struct {
	competitionRepo competition.Repository
	roundRepo       round.Repository
	matchRepo       match.Repository
	predictionRepo  prediction.Repository
	statsRepo       scoring.Repository
	userRepo        user.Repository
	policy          scoring.WinnerPolicy
	store           *cache.Store
}

func NewLeaderboardService(
	competitionRepo competition.Repository,
	roundRepo round.Repository,
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	statsRepo scoring.Repository,
	userRepo user.Repository,
	policy scoring.WinnerPolicy,
	store *cache.Store,
) *LeaderboardService {
	return &LeaderboardService{
		competitionRepo: competitionRepo,
		roundRepo:       roundRepo,
		matchRepo:       matchRepo,
		predictionRepo:  predictionRepo,
		statsRepo:       statsRepo,
		userRepo:        userRepo,
		policy:          policy,
		store:           store,
	}
}

// Get returns the ranked leaderboard for a competition. Empty
// competition id means the active one.
func (s *LeaderboardService) Get(ctx context.Context, competitionID string) ([]scoring.LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "LeaderboardService.Get")
	defer span.End()

	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		active, exists, err := s.competitionRepo.GetActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("get active competition: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: no active competition", ErrNotFound)
		}
		competitionID = active.ID
	} else {
		_, exists, err := s.competitionRepo.GetByID(ctx, competitionID)
		if err != nil {
			return nil, fmt.Errorf("get competition: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: competition=%s", ErrNotFound, competitionID)
		}
	}

	if s.store == nil {
		return s.build(ctx, competitionID)
	}

	value, err := s.store.GetOrLoad(ctx, leaderboardCacheKey(competitionID), func(ctx context.Context) (any, error) {
		return s.build(ctx, competitionID)
	})
	if err != nil {
		return nil, err
	}

	entries, ok := value.([]scoring.LeaderboardEntry)
	if !ok {
		return s.build(ctx, competitionID)
	}

	return entries, nil
}

// InvalidateCompetition drops the cached leaderboard after a round is
// settled or reopened.
func (s *LeaderboardService) InvalidateCompetition(ctx context.Context, competitionID string) {
	if s.store == nil {
		return
	}
	s.store.Delete(ctx, leaderboardCacheKey(competitionID))
}

// RoundStats returns the settled stats for one final round, reading
// stored rows first and recomputing from picks when they are missing.
func (s *LeaderboardService) RoundStats(ctx context.Context, item round.Round) ([]scoring.UserRoundStats, error) {
	stats, err := s.statsRepo.ListByRound(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list round stats: %w", err)
	}
	if len(stats) > 0 {
		return stats, nil
	}

	return s.recompute(ctx, item)
}

func (s *LeaderboardService) build(ctx context.Context, competitionID string) ([]scoring.LeaderboardEntry, error) {
	rounds, err := s.roundRepo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}

	stored, err := s.statsRepo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("list competition stats: %w", err)
	}

	statsByRound := make(map[string][]scoring.UserRoundStats)
	for _, item := range rounds {
		if item.Status != round.StatusFinal {
			continue
		}
		if stats, ok := stored[item.ID]; ok && len(stats) > 0 {
			statsByRound[item.ID] = stats
			continue
		}
		stats, err := s.recompute(ctx, item)
		if err != nil {
			return nil, err
		}
		if len(stats) > 0 {
			statsByRound[item.ID] = stats
		}
	}

	players, err := s.userRepo.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}

	return scoring.Aggregate(statsByRound, names, s.policy), nil
}

func (s *LeaderboardService) recompute(ctx context.Context, item round.Round) ([]scoring.UserRoundStats, error) {
	matches, err := s.matchRepo.ListByRound(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list round matches: %w", err)
	}
	preds, err := s.predictionRepo.ListByRound(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list round predictions: %w", err)
	}

	return scoring.ScoreRound(item, matches, preds), nil
}

func leaderboardCacheKey(competitionID string) string {
	return "leaderboard:" + competitionID
}
