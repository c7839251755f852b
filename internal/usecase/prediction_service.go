package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thehubfc/prediction-league/internal/domain/match"
	"github.com/thehubfc/prediction-league/internal/domain/prediction"
	"github.com/thehubfc/prediction-league/internal/domain/round"
)

type PredictionPick struct {
	MatchID  string
	Pick     match.Result
	IsBanker bool
}

type SavePredictionsInput struct {
	UserID  string
	RoundID string
	Picks   []PredictionPick
}

// PlayerRound is what a player sees when opening a round: the derived
// state, the matches and their own picks.
type PlayerRound struct {
	Round       round.Round
	State       round.PlayerState
	Matches     []match.Match
	Predictions []prediction.Prediction
}

type PredictionService struct {
	roundRepo      round.Repository
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	now            func() time.Time
}

func NewPredictionService(
	roundRepo round.Repository,
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
) *PredictionService {
	return &PredictionService{
		roundRepo:      roundRepo,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		now:            time.Now,
	}
}

// GetPlayerRound returns the round as one player sees it. Hidden rounds
// are reported as not found so players cannot probe scheduled rounds.
func (s *PredictionService) GetPlayerRound(ctx context.Context, userID, roundID string) (PlayerRound, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.GetPlayerRound")
	defer span.End()

	userID = strings.TrimSpace(userID)
	roundID = strings.TrimSpace(roundID)
	if userID == "" || roundID == "" {
		return PlayerRound{}, fmt.Errorf("%w: user_id and round_id are required", ErrInvalidInput)
	}

	item, exists, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return PlayerRound{}, fmt.Errorf("get round: %w", err)
	}
	if !exists {
		return PlayerRound{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}

	state := item.StateAt(s.now())
	if state == round.StateHidden {
		return PlayerRound{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}

	matches, err := s.matchRepo.ListByRound(ctx, item.ID)
	if err != nil {
		return PlayerRound{}, fmt.Errorf("list round matches: %w", err)
	}

	preds, err := s.predictionRepo.ListByUserRound(ctx, userID, item.ID)
	if err != nil {
		return PlayerRound{}, fmt.Errorf("list user predictions: %w", err)
	}

	return PlayerRound{
		Round:       item,
		State:       state,
		Matches:     matches,
		Predictions: preds,
	}, nil
}

// Save stores a player's picks for an open round. The whole set is
// validated together: every counted match needs a pick, picks must be
// valid outcomes, and a banker is a single pick in regular rounds only.
// Saving again overwrites the previous set.
func (s *PredictionService) Save(ctx context.Context, input SavePredictionsInput) error {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.Save")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.RoundID = strings.TrimSpace(input.RoundID)
	if input.UserID == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if input.RoundID == "" {
		return fmt.Errorf("%w: round_id is required", ErrInvalidInput)
	}

	item, exists, err := s.roundRepo.GetByID(ctx, input.RoundID)
	if err != nil {
		return fmt.Errorf("get round: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: round=%s", ErrNotFound, input.RoundID)
	}

	switch item.StateAt(s.now()) {
	case round.StateOpen:
	case round.StateHidden:
		return fmt.Errorf("%w: round=%s", ErrRoundHidden, input.RoundID)
	default:
		return fmt.Errorf("%w: round=%s", ErrRoundLocked, input.RoundID)
	}

	matches, err := s.matchRepo.ListByRound(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("list round matches: %w", err)
	}

	counted := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if m.Counted() {
			counted[m.ID] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(input.Picks))
	bankers := 0
	items := make([]prediction.Prediction, 0, len(input.Picks))
	savedAt := s.now().UTC()

	for _, pick := range input.Picks {
		matchID := strings.TrimSpace(pick.MatchID)
		if _, ok := counted[matchID]; !ok {
			return fmt.Errorf("%w: match %s is not part of round %s", ErrInvalidInput, matchID, item.ID)
		}
		if _, dup := seen[matchID]; dup {
			return fmt.Errorf("%w: duplicate pick for match %s", ErrInvalidInput, matchID)
		}
		seen[matchID] = struct{}{}

		if pick.IsBanker {
			if item.Type != round.TypeRegular {
				return fmt.Errorf("%w: banker is only available in regular rounds", ErrInvalidInput)
			}
			bankers++
		}

		p := prediction.Prediction{
			UserID:    input.UserID,
			MatchID:   matchID,
			RoundID:   item.ID,
			Pick:      pick.Pick,
			IsBanker:  pick.IsBanker,
			UpdatedAt: savedAt,
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		items = append(items, p)
	}

	if len(seen) != len(counted) {
		return fmt.Errorf("%w: all %d matches need a pick, got %d", ErrInvalidInput, len(counted), len(seen))
	}
	if bankers > 1 {
		return fmt.Errorf("%w: at most one banker per round", ErrInvalidInput)
	}

	if err := s.predictionRepo.UpsertBatch(ctx, items); err != nil {
		return fmt.Errorf("save predictions: %w", err)
	}

	return nil
}
