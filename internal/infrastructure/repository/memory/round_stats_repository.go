package memory

import (
	"context"
	"sync"

	"github.com/thehubfc/prediction-league/internal/domain/scoring"
)

// RoundStatsRepository keeps settled stats per round. The competition
// scoping is resolved through the round repository it is given.
type RoundStatsRepository struct {
	mu      sync.RWMutex
	byRound map[string][]scoring.UserRoundStats
	rounds  *RoundRepository
}

func NewRoundStatsRepository(rounds *RoundRepository) *RoundStatsRepository {
	return &RoundStatsRepository{
		byRound: make(map[string][]scoring.UserRoundStats),
		rounds:  rounds,
	}
}

func (r *RoundStatsRepository) ListByRound(_ context.Context, roundID string) ([]scoring.UserRoundStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byRound[roundID]
	if !ok {
		return nil, nil
	}

	out := make([]scoring.UserRoundStats, len(stored))
	copy(out, stored)

	return out, nil
}

func (r *RoundStatsRepository) ListByCompetition(ctx context.Context, competitionID string) (map[string][]scoring.UserRoundStats, error) {
	rounds, err := r.rounds.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]scoring.UserRoundStats)
	for _, rd := range rounds {
		stored, ok := r.byRound[rd.ID]
		if !ok {
			continue
		}
		items := make([]scoring.UserRoundStats, len(stored))
		copy(items, stored)
		out[rd.ID] = items
	}

	return out, nil
}

func (r *RoundStatsRepository) ReplaceRound(_ context.Context, roundID string, items []scoring.UserRoundStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]scoring.UserRoundStats, len(items))
	copy(stored, items)
	r.byRound[roundID] = stored

	return nil
}

func (r *RoundStatsRepository) DeleteByRound(_ context.Context, roundID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byRound, roundID)

	return nil
}
