package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thehubfc/prediction-league/internal/domain/match"
	"github.com/thehubfc/prediction-league/internal/domain/prediction"
	"github.com/thehubfc/prediction-league/internal/domain/round"
	"github.com/thehubfc/prediction-league/internal/domain/scoring"
	"github.com/thehubfc/prediction-league/internal/domain/user"
)

// ComparisonLine puts two players' picks for the same match side by
// side. Points are zero until the match has a result.
type ComparisonLine struct {
	Match     match.Match
	PickA     match.Result
	PickB     match.Result
	BankerA   bool
	BankerB   bool
	PointsA   int
	PointsB   int
	HasResult bool
}

// Comparison is a head-to-head view of one round.
type Comparison struct {
	Round  round.Round
	UserA  user.Player
	UserB  user.Player
	Lines  []ComparisonLine
	TotalA int
	TotalB int
}

type ComparisonService struct {
	roundRepo      round.Repository
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	userRepo       user.Repository
	now            func() time.Time
}

func NewComparisonService(
	roundRepo round.Repository,
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	userRepo user.Repository,
) *ComparisonService {
	return &ComparisonService{
		roundRepo:      roundRepo,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		userRepo:       userRepo,
		now:            time.Now,
	}
}

// Compare builds the head-to-head for two players. Other players'
// picks stay secret while the round is open, so only locked and final
// rounds can be compared.
func (s *ComparisonService) Compare(ctx context.Context, roundID, userIDA, userIDB string) (Comparison, error) {
	ctx, span := startUsecaseSpan(ctx, "ComparisonService.Compare")
	defer span.End()

	roundID = strings.TrimSpace(roundID)
	userIDA = strings.TrimSpace(userIDA)
	userIDB = strings.TrimSpace(userIDB)
	if roundID == "" || userIDA == "" || userIDB == "" {
		return Comparison{}, fmt.Errorf("%w: round_id and both user ids are required", ErrInvalidInput)
	}
	if userIDA == userIDB {
		return Comparison{}, fmt.Errorf("%w: pick two different players", ErrInvalidInput)
	}

	item, exists, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return Comparison{}, fmt.Errorf("get round: %w", err)
	}
	if !exists {
		return Comparison{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}

	switch item.StateAt(s.now()) {
	case round.StateLocked, round.StateFinal:
	case round.StateHidden:
		return Comparison{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	default:
		return Comparison{}, fmt.Errorf("%w: picks stay hidden until the deadline", ErrRoundLocked)
	}

	playerA, err := s.getPlayer(ctx, userIDA)
	if err != nil {
		return Comparison{}, err
	}
	playerB, err := s.getPlayer(ctx, userIDB)
	if err != nil {
		return Comparison{}, err
	}

	matches, err := s.matchRepo.ListByRound(ctx, item.ID)
	if err != nil {
		return Comparison{}, fmt.Errorf("list round matches: %w", err)
	}

	picksA, err := s.picksByMatch(ctx, userIDA, item.ID)
	if err != nil {
		return Comparison{}, err
	}
	picksB, err := s.picksByMatch(ctx, userIDB, item.ID)
	if err != nil {
		return Comparison{}, err
	}

	out := Comparison{Round: item, UserA: playerA, UserB: playerB}
	for _, m := range matches {
		if !m.Counted() {
			continue
		}

		line := ComparisonLine{Match: m, HasResult: m.HasResult()}
		if p, ok := picksA[m.ID]; ok {
			line.PickA = p.Pick
			line.BankerA = p.IsBanker && item.Type == round.TypeRegular
		}
		if p, ok := picksB[m.ID]; ok {
			line.PickB = p.Pick
			line.BankerB = p.IsBanker && item.Type == round.TypeRegular
		}
		if line.HasResult {
			if line.PickA.Valid() {
				line.PointsA = scoring.Points(line.PickA == m.Result, line.BankerA, m.IsMatchOfWeek, item.Type)
			}
			if line.PickB.Valid() {
				line.PointsB = scoring.Points(line.PickB == m.Result, line.BankerB, m.IsMatchOfWeek, item.Type)
			}
		}

		out.TotalA += line.PointsA
		out.TotalB += line.PointsB
		out.Lines = append(out.Lines, line)
	}

	return out, nil
}

func (s *ComparisonService) getPlayer(ctx context.Context, userID string) (user.Player, error) {
	p, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return user.Player{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	return p, nil
}

func (s *ComparisonService) picksByMatch(ctx context.Context, userID, roundID string) (map[string]prediction.Prediction, error) {
	preds, err := s.predictionRepo.ListByUserRound(ctx, userID, roundID)
	if err != nil {
		return nil, fmt.Errorf("list user predictions: %w", err)
	}

	out := make(map[string]prediction.Prediction, len(preds))
	for _, p := range preds {
		out[p.MatchID] = p
	}

	return out, nil
}
