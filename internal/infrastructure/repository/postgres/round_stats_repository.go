package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/thehubfc/prediction-league/internal/domain/scoring"
	qb "github.com/thehubfc/prediction-league/internal/platform/querybuilder"
)

type RoundStatsRepository struct {
	db *sqlx.DB
}

func NewRoundStatsRepository(db *sqlx.DB) *RoundStatsRepository {
	return &RoundStatsRepository{db: db}
}

func (r *RoundStatsRepository) ListByRound(ctx context.Context, roundID string) ([]scoring.UserRoundStats, error) {
	query, args, err := qb.Select("*").From("round_stats").
		Where(
			qb.Eq("round_public_id", roundID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list round stats query: %w", err)
	}

	var rows []roundStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list round stats: %w", err)
	}

	out := make([]scoring.UserRoundStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, statsFromRow(row))
	}

	return out, nil
}

func (r *RoundStatsRepository) ListByCompetition(ctx context.Context, competitionID string) (map[string][]scoring.UserRoundStats, error) {
	query, args, err := qb.Select("round_stats.*").From("round_stats").
		Where(
			qb.Expr("round_public_id IN (SELECT public_id FROM rounds WHERE competition_public_id = ? AND deleted_at IS NULL)", competitionID),
			qb.IsNull("round_stats.deleted_at"),
		).
		OrderBy("round_public_id", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list competition stats query: %w", err)
	}

	var rows []roundStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list competition stats: %w", err)
	}

	out := make(map[string][]scoring.UserRoundStats)
	for _, row := range rows {
		out[row.RoundPublicID] = append(out[row.RoundPublicID], statsFromRow(row))
	}

	return out, nil
}

// ReplaceRound swaps the stored rows for a round in one transaction so
// readers never observe a partially settled round.
func (r *RoundStatsRepository) ReplaceRound(ctx context.Context, roundID string, items []scoring.UserRoundStats) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin round stats tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deleteQuery, deleteArgs, err := qb.Update("round_stats").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("round_public_id", roundID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear round stats query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("clear round stats: %w", err)
	}

	for _, item := range items {
		query, args, err := qb.InsertModel("round_stats", roundStatsInsertModel{
			RoundPublicID: roundID,
			UserID:        item.UserID,
			Points:        item.Points,
			CorrectCount:  item.Correct,
			AwayCorrect:   item.AwayCorrect,
			BankerNet:     item.BankerNet,
			BankerCorrect: item.BankerCorrect,
			BankerWrong:   item.BankerWrong,
			Predicted:     item.Predicted,
		}, "")
		if err != nil {
			return fmt.Errorf("build insert round stats query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert round stats: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit round stats tx: %w", err)
	}

	return nil
}

func (r *RoundStatsRepository) DeleteByRound(ctx context.Context, roundID string) error {
	query, args, err := qb.Update("round_stats").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("round_public_id", roundID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete round stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete round stats: %w", err)
	}

	return nil
}

func statsFromRow(row roundStatsTableModel) scoring.UserRoundStats {
	return scoring.UserRoundStats{
		UserID:        row.UserID,
		RoundID:       row.RoundPublicID,
		Points:        row.Points,
		Correct:       row.CorrectCount,
		AwayCorrect:   row.AwayCorrect,
		BankerNet:     row.BankerNet,
		BankerCorrect: row.BankerCorrect,
		BankerWrong:   row.BankerWrong,
		Predicted:     row.Predicted,
	}
}
