package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/thehubfc/prediction-league/internal/domain/match"
	"github.com/thehubfc/prediction-league/internal/domain/prediction"
	"github.com/thehubfc/prediction-league/internal/domain/round"
	"github.com/thehubfc/prediction-league/internal/domain/scoring"
	"github.com/thehubfc/prediction-league/internal/domain/user"
)

// RoundSummary is one line in the season history.
type RoundSummary struct {
	Round       round.Round
	WinnerNames []string
	TopPoints   int
	Players     int
}

// RoundHistoryDetail is the full breakdown of one settled round.
type RoundHistoryDetail struct {
	Round       round.Round
	Matches     []match.Match
	Stats       []scoring.UserRoundStats
	WinnerIDs   []string
	Names       map[string]string
	Predictions []prediction.Prediction
}

type roundStatsProvider interface {
	RoundStats(ctx context.Context, item round.Round) ([]scoring.UserRoundStats, error)
}

type HistoryService struct {
	roundRepo      round.Repository
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	userRepo       user.Repository
	stats          roundStatsProvider
	policy         scoring.WinnerPolicy
}

func NewHistoryService(
	roundRepo round.Repository,
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	userRepo user.Repository,
	stats roundStatsProvider,
	policy scoring.WinnerPolicy,
) *HistoryService {
	return &HistoryService{
		roundRepo:      roundRepo,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		userRepo:       userRepo,
		stats:          stats,
		policy:         policy,
	}
}

// List returns every settled round of a competition with its winners.
func (s *HistoryService) List(ctx context.Context, competitionID string) ([]RoundSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "HistoryService.List")
	defer span.End()

	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return nil, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	rounds, err := s.roundRepo.ListByStatus(ctx, competitionID, round.StatusFinal)
	if err != nil {
		return nil, fmt.Errorf("list final rounds: %w", err)
	}

	names, err := s.playerNames(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RoundSummary, 0, len(rounds))
	for _, item := range rounds {
		stats, err := s.stats.RoundStats(ctx, item)
		if err != nil {
			return nil, err
		}

		summary := RoundSummary{Round: item, Players: len(stats)}
		for _, winnerID := range scoring.RoundWinners(stats, s.policy) {
			summary.WinnerNames = append(summary.WinnerNames, names[winnerID])
		}
		for _, st := range stats {
			if st.Points > summary.TopPoints {
				summary.TopPoints = st.Points
			}
		}
		out = append(out, summary)
	}

	return out, nil
}

// Detail returns the full breakdown of one settled round, picks
// included. Only final rounds are served here.
func (s *HistoryService) Detail(ctx context.Context, roundID string) (RoundHistoryDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "HistoryService.Detail")
	defer span.End()

	roundID = strings.TrimSpace(roundID)
	if roundID == "" {
		return RoundHistoryDetail{}, fmt.Errorf("%w: round id is required", ErrInvalidInput)
	}

	item, exists, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return RoundHistoryDetail{}, fmt.Errorf("get round: %w", err)
	}
	if !exists {
		return RoundHistoryDetail{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}
	if item.Status != round.StatusFinal {
		return RoundHistoryDetail{}, fmt.Errorf("%w: round %s is not settled yet", ErrInvalidInput, roundID)
	}

	matches, err := s.matchRepo.ListByRound(ctx, item.ID)
	if err != nil {
		return RoundHistoryDetail{}, fmt.Errorf("list round matches: %w", err)
	}
	preds, err := s.predictionRepo.ListByRound(ctx, item.ID)
	if err != nil {
		return RoundHistoryDetail{}, fmt.Errorf("list round predictions: %w", err)
	}
	stats, err := s.stats.RoundStats(ctx, item)
	if err != nil {
		return RoundHistoryDetail{}, err
	}
	names, err := s.playerNames(ctx)
	if err != nil {
		return RoundHistoryDetail{}, err
	}

	return RoundHistoryDetail{
		Round:       item,
		Matches:     matches,
		Stats:       stats,
		WinnerIDs:   scoring.RoundWinners(stats, s.policy),
		Names:       names,
		Predictions: preds,
	}, nil
}

func (s *HistoryService) playerNames(ctx context.Context) (map[string]string, error) {
	players, err := s.userRepo.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}

	return names, nil
}
