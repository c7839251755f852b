package memory

import (
	"context"
	"sync"

	"github.com/thehubfc/prediction-league/internal/domain/competition"
)

type CompetitionRepository struct {
	mu     sync.RWMutex
	items  map[string]competition.Competition
	orders []string
}

func NewCompetitionRepository(competitions []competition.Competition) *CompetitionRepository {
	items := make(map[string]competition.Competition, len(competitions))
	orders := make([]string, 0, len(competitions))

	for _, c := range competitions {
		items[c.ID] = c
		orders = append(orders, c.ID)
	}

	return &CompetitionRepository{
		items:  items,
		orders: orders,
	}
}

func (r *CompetitionRepository) List(_ context.Context) ([]competition.Competition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]competition.Competition, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *CompetitionRepository) GetByID(_ context.Context, competitionID string) (competition.Competition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[competitionID]
	if !ok {
		return competition.Competition{}, false, nil
	}

	return c, true, nil
}

func (r *CompetitionRepository) GetActive(_ context.Context) (competition.Competition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.orders {
		if c := r.items[id]; c.IsActive {
			return c, true, nil
		}
	}

	return competition.Competition{}, false, nil
}

func (r *CompetitionRepository) Create(_ context.Context, item competition.Competition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		r.orders = append(r.orders, item.ID)
	}
	r.items[item.ID] = item

	return nil
}

func (r *CompetitionRepository) SetActive(_ context.Context, competitionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.items {
		c.IsActive = id == competitionID
		r.items[id] = c
	}

	return nil
}
