package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/thehubfc/prediction-league/internal/domain/prediction"
)

type predictionKey struct {
	userID  string
	matchID string
}

type PredictionRepository struct {
	mu    sync.RWMutex
	items map[predictionKey]prediction.Prediction
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{items: make(map[predictionKey]prediction.Prediction)}
}

func (r *PredictionRepository) ListByRound(_ context.Context, roundID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.items {
		if item.RoundID == roundID {
			out = append(out, item)
		}
	}
	sortPredictions(out)

	return out, nil
}

func (r *PredictionRepository) ListByUserRound(_ context.Context, userID, roundID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.items {
		if item.UserID == userID && item.RoundID == roundID {
			out = append(out, item)
		}
	}
	sortPredictions(out)

	return out, nil
}

func (r *PredictionRepository) UpsertBatch(_ context.Context, items []prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.items[predictionKey{userID: item.UserID, matchID: item.MatchID}] = item
	}

	return nil
}

func (r *PredictionRepository) DeleteByMatch(_ context.Context, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.items {
		if key.matchID == matchID {
			delete(r.items, key)
		}
	}

	return nil
}

func sortPredictions(items []prediction.Prediction) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].UserID != items[j].UserID {
			return items[i].UserID < items[j].UserID
		}
		return items[i].MatchID < items[j].MatchID
	})
}
