package memory

import (
	"context"
	"sync"

	"github.com/thehubfc/prediction-league/internal/domain/user"
)

type UserRepository struct {
	mu     sync.RWMutex
	items  map[string]user.Player
	orders []string
}

func NewUserRepository(players []user.Player) *UserRepository {
	items := make(map[string]user.Player, len(players))
	orders := make([]string, 0, len(players))

	for _, p := range players {
		items[p.ID] = p
		orders = append(orders, p.ID)
	}

	return &UserRepository{
		items:  items,
		orders: orders,
	}
}

func (r *UserRepository) ListPlayers(_ context.Context) ([]user.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.Player, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[userID]
	if !ok {
		return user.Player{}, false, nil
	}

	return p, true, nil
}
