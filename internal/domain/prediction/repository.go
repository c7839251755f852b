package prediction

import "context"

// Repository describes prediction persistence needs from use cases.
type Repository interface {
	ListByRound(ctx context.Context, roundID string) ([]Prediction, error)
	ListByUserRound(ctx context.Context, userID, roundID string) ([]Prediction, error)
	// UpsertBatch saves all picks in one shot, overwriting any existing
	// pick the user holds for the same match.
	UpsertBatch(ctx context.Context, items []Prediction) error
	DeleteByMatch(ctx context.Context, matchID string) error
}
