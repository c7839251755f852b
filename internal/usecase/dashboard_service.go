package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/thehubfc/prediction-league/internal/domain/competition"
	"github.com/thehubfc/prediction-league/internal/domain/prediction"
	"github.com/thehubfc/prediction-league/internal/domain/round"
	"github.com/thehubfc/prediction-league/internal/domain/scoring"
)

// Dashboard is the landing view for a player: where the season stands
// and what they still have to do.
type Dashboard struct {
	CompetitionID   string
	CompetitionName string
	CurrentRound    *round.Round
	CurrentState    round.PlayerState
	PicksMade       int
	TotalPoints     int
	Rank            int
	RoundWins       int
	Players         int
	// BankerRate is the share of the player's settled bankers that hit,
	// zero when none were played yet.
	BankerRate      float64
	LastFinalRound  *round.Round
	LastRoundPoints int
	// LastRoundBanker is the player's banker outcome in the last
	// finalized round: "hit", "miss", or "none".
	LastRoundBanker string
}

// Banker outcomes for the last finalized round.
const (
	BankerOutcomeHit  = "hit"
	BankerOutcomeMiss = "miss"
	BankerOutcomeNone = "none"
)

type dashboardLeaderboardProvider interface {
	Get(ctx context.Context, competitionID string) ([]scoring.LeaderboardEntry, error)
	RoundStats(ctx context.Context, item round.Round) ([]scoring.UserRoundStats, error)
}

type DashboardService struct {
	competitionRepo competition.Repository
	roundRepo       round.Repository
	predictionRepo  prediction.Repository
	leaderboard     dashboardLeaderboardProvider
	now             func() time.Time
}

func NewDashboardService(
	competitionRepo competition.Repository,
	roundRepo round.Repository,
	predictionRepo prediction.Repository,
	leaderboard dashboardLeaderboardProvider,
) *DashboardService {
	return &DashboardService{
		competitionRepo: competitionRepo,
		roundRepo:       roundRepo,
		predictionRepo:  predictionRepo,
		leaderboard:     leaderboard,
		now:             time.Now,
	}
}

func (s *DashboardService) Get(ctx context.Context, userID string) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "DashboardService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Dashboard{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	active, exists, err := s.competitionRepo.GetActive(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("get active competition: %w", err)
	}
	if !exists {
		return Dashboard{}, fmt.Errorf("%w: no active competition", ErrNotFound)
	}

	out := Dashboard{
		CompetitionID:   active.ID,
		CompetitionName: active.Name,
		CurrentState:    round.StateHidden,
	}

	var (
		published []round.Round
		finals    []round.Round
		entries   []scoring.LeaderboardEntry
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		items, err := s.roundRepo.ListByStatus(ctx, active.ID, round.StatusPublished)
		if err != nil {
			return fmt.Errorf("list published rounds: %w", err)
		}
		published = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.roundRepo.ListByStatus(ctx, active.ID, round.StatusFinal)
		if err != nil {
			return fmt.Errorf("list final rounds: %w", err)
		}
		finals = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.leaderboard.Get(ctx, active.ID)
		if err != nil {
			return fmt.Errorf("get leaderboard: %w", err)
		}
		entries = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return Dashboard{}, err
	}

	now := s.now()
	if current := pickCurrentRound(published, now); current != nil {
		out.CurrentRound = current
		out.CurrentState = current.StateAt(now)

		picks, err := s.predictionRepo.ListByUserRound(ctx, userID, current.ID)
		if err != nil {
			return Dashboard{}, fmt.Errorf("list user predictions: %w", err)
		}
		out.PicksMade = len(picks)
	}

	if len(finals) > 0 {
		last := finals[len(finals)-1]
		out.LastFinalRound = &last
		out.LastRoundBanker = BankerOutcomeNone

		stats, err := s.leaderboard.RoundStats(ctx, last)
		if err != nil {
			return Dashboard{}, fmt.Errorf("get last round stats: %w", err)
		}
		for _, stat := range stats {
			if stat.UserID != userID {
				continue
			}
			out.LastRoundPoints = stat.Points
			switch {
			case stat.BankerCorrect > 0:
				out.LastRoundBanker = BankerOutcomeHit
			case stat.BankerWrong > 0:
				out.LastRoundBanker = BankerOutcomeMiss
			}
			break
		}
	}

	out.Players = len(entries)
	for _, entry := range entries {
		if entry.UserID == userID {
			out.TotalPoints = entry.TotalPoints
			out.Rank = entry.Rank
			out.RoundWins = entry.RoundWins
			if played := entry.BankerCorrect + entry.BankerWrong; played > 0 {
				out.BankerRate = float64(entry.BankerCorrect) / float64(played)
			}
			break
		}
	}

	return out, nil
}

// pickCurrentRound prefers the open round with the nearest deadline and
// falls back to the most recently locked one.
func pickCurrentRound(published []round.Round, now time.Time) *round.Round {
	var open, locked *round.Round
	for i := range published {
		item := &published[i]
		if item.IsOpenAt(now) {
			if open == nil || item.Deadline.Before(open.Deadline) {
				open = item
			}
			continue
		}
		if locked == nil || item.Deadline.After(locked.Deadline) {
			locked = item
		}
	}

	if open != nil {
		return open
	}
	return locked
}
