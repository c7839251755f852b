package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/thehubfc/prediction-league/internal/domain/round"
)

type RoundRepository struct {
	mu    sync.RWMutex
	items map[string]round.Round
}

func NewRoundRepository(rounds []round.Round) *RoundRepository {
	items := make(map[string]round.Round, len(rounds))
	for _, r := range rounds {
		items[r.ID] = r
	}

	return &RoundRepository{items: items}
}

func (r *RoundRepository) GetByID(_ context.Context, roundID string) (round.Round, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[roundID]
	if !ok {
		return round.Round{}, false, nil
	}

	return item, true, nil
}

func (r *RoundRepository) GetByNumber(_ context.Context, competitionID string, number int) (round.Round, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.CompetitionID == competitionID && item.Number == number {
			return item, true, nil
		}
	}

	return round.Round{}, false, nil
}

func (r *RoundRepository) ListByCompetition(_ context.Context, competitionID string) ([]round.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]round.Round, 0)
	for _, item := range r.items {
		if item.CompetitionID == competitionID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })

	return out, nil
}

func (r *RoundRepository) ListByStatus(_ context.Context, competitionID string, status round.Status) ([]round.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]round.Round, 0)
	for _, item := range r.items {
		if item.CompetitionID == competitionID && item.Status == status {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })

	return out, nil
}

func (r *RoundRepository) NextNumber(_ context.Context, competitionID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	max := 0
	for _, item := range r.items {
		if item.CompetitionID == competitionID && item.Number > max {
			max = item.Number
		}
	}

	return max + 1, nil
}

func (r *RoundRepository) Create(_ context.Context, item round.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item

	return nil
}

func (r *RoundRepository) UpdateStatus(_ context.Context, roundID string, status round.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[roundID]
	if !ok {
		return nil
	}
	item.Status = status
	r.items[roundID] = item

	return nil
}

func (r *RoundRepository) UpdateDeadline(_ context.Context, roundID string, deadline time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[roundID]
	if !ok {
		return nil
	}
	item.Deadline = deadline
	r.items[roundID] = item

	return nil
}
