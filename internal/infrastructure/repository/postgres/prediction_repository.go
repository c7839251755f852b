package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/thehubfc/prediction-league/internal/domain/match"
	"github.com/thehubfc/prediction-league/internal/domain/prediction"
	qb "github.com/thehubfc/prediction-league/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) ListByRound(ctx context.Context, roundID string) ([]prediction.Prediction, error) {
	return r.list(ctx,
		qb.Eq("round_public_id", roundID),
		qb.IsNull("deleted_at"),
	)
}

func (r *PredictionRepository) ListByUserRound(ctx context.Context, userID, roundID string) ([]prediction.Prediction, error) {
	return r.list(ctx,
		qb.Eq("user_id", userID),
		qb.Eq("round_public_id", roundID),
		qb.IsNull("deleted_at"),
	)
}

func (r *PredictionRepository) list(ctx context.Context, conditions ...qb.Condition) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(conditions...).
		OrderBy("user_id", "match_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, prediction.Prediction{
			UserID:    row.UserID,
			MatchID:   row.MatchPublicID,
			RoundID:   row.RoundPublicID,
			Pick:      match.Result(row.Pick),
			IsBanker:  row.IsBanker,
			UpdatedAt: row.UpdatedAt,
		})
	}

	return out, nil
}

// UpsertBatch writes every pick in one transaction so a resave can
// never leave a half-updated sheet behind.
func (r *PredictionRepository) UpsertBatch(ctx context.Context, items []prediction.Prediction) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin predictions tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, item := range items {
		query, args, err := qb.InsertModel("predictions", predictionInsertModel{
			UserID:        item.UserID,
			MatchPublicID: item.MatchID,
			RoundPublicID: item.RoundID,
			Pick:          string(item.Pick),
			IsBanker:      item.IsBanker,
		}, `ON CONFLICT (user_id, match_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    round_public_id = EXCLUDED.round_public_id,
    pick = EXCLUDED.pick,
    is_banker = EXCLUDED.is_banker,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert prediction query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert prediction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit predictions tx: %w", err)
	}

	return nil
}

func (r *PredictionRepository) DeleteByMatch(ctx context.Context, matchID string) error {
	query, args, err := qb.Update("predictions").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete predictions query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete predictions: %w", err)
	}

	return nil
}
