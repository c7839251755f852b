package match

import "context"

// Repository describes match persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListByRound(ctx context.Context, roundID string) ([]Match, error)
	ListPostponed(ctx context.Context) ([]Match, error)
	Create(ctx context.Context, item Match) error
	Update(ctx context.Context, item Match) error
	Delete(ctx context.Context, matchID string) error
	ClearMatchOfWeek(ctx context.Context, roundID string) error
}
