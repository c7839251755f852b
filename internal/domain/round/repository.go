package round

import (
	"context"
	"time"
)

// Repository describes round persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, roundID string) (Round, bool, error)
	GetByNumber(ctx context.Context, competitionID string, number int) (Round, bool, error)
	ListByCompetition(ctx context.Context, competitionID string) ([]Round, error)
	ListByStatus(ctx context.Context, competitionID string, status Status) ([]Round, error)
	NextNumber(ctx context.Context, competitionID string) (int, error)
	Create(ctx context.Context, item Round) error
	UpdateStatus(ctx context.Context, roundID string, status Status) error
	UpdateDeadline(ctx context.Context, roundID string, deadline time.Time) error
}
