package scoring

import "context"

// Repository stores settled per-round stats. Rows are a write-through
// cache of ScoreRound output, replaced wholesale on finalize and
// dropped on unfinalize.
type Repository interface {
	ListByRound(ctx context.Context, roundID string) ([]UserRoundStats, error)
	ListByCompetition(ctx context.Context, competitionID string) (map[string][]UserRoundStats, error)
	ReplaceRound(ctx context.Context, roundID string, items []UserRoundStats) error
	DeleteByRound(ctx context.Context, roundID string) error
}
