package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/thehubfc/prediction-league/internal/domain/round"
	qb "github.com/thehubfc/prediction-league/internal/platform/querybuilder"
)

type RoundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

func (r *RoundRepository) GetByID(ctx context.Context, roundID string) (round.Round, bool, error) {
	query, args, err := qb.Select("*").From("rounds").
		Where(
			qb.Eq("public_id", roundID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return round.Round{}, false, fmt.Errorf("build get round query: %w", err)
	}

	var row roundTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return r.getByIDLiteral(ctx, roundID)
		}
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("get round: %w", err)
	}

	return roundFromRow(row), true, nil
}

// getByIDLiteral retries with an inlined literal for deployments behind
// pgbouncer in transaction pooling mode.
func (r *RoundRepository) getByIDLiteral(ctx context.Context, roundID string) (round.Round, bool, error) {
	query := "SELECT * FROM rounds WHERE public_id = " + quoteLiteral(roundID) + " AND deleted_at IS NULL"

	var row roundTableModel
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("get round literal: %w", err)
	}

	return roundFromRow(row), true, nil
}

func (r *RoundRepository) GetByNumber(ctx context.Context, competitionID string, number int) (round.Round, bool, error) {
	query, args, err := qb.Select("*").From("rounds").
		Where(
			qb.Eq("competition_public_id", competitionID),
			qb.Eq("number", number),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return round.Round{}, false, fmt.Errorf("build get round by number query: %w", err)
	}

	var row roundTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("get round by number: %w", err)
	}

	return roundFromRow(row), true, nil
}

func (r *RoundRepository) ListByCompetition(ctx context.Context, competitionID string) ([]round.Round, error) {
	return r.list(ctx,
		qb.Eq("competition_public_id", competitionID),
		qb.IsNull("deleted_at"),
	)
}

func (r *RoundRepository) ListByStatus(ctx context.Context, competitionID string, status round.Status) ([]round.Round, error) {
	return r.list(ctx,
		qb.Eq("competition_public_id", competitionID),
		qb.Eq("status", string(status)),
		qb.IsNull("deleted_at"),
	)
}

func (r *RoundRepository) list(ctx context.Context, conditions ...qb.Condition) ([]round.Round, error) {
	query, args, err := qb.Select("*").From("rounds").
		Where(conditions...).
		OrderBy("number", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rounds query: %w", err)
	}

	var rows []roundTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}

	out := make([]round.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, roundFromRow(row))
	}

	return out, nil
}

func (r *RoundRepository) NextNumber(ctx context.Context, competitionID string) (int, error) {
	query, args, err := qb.Select("COALESCE(MAX(number), 0) AS number").From("rounds").
		Where(
			qb.Eq("competition_public_id", competitionID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build next round number query: %w", err)
	}

	var max sql.NullInt64
	if err := r.db.GetContext(ctx, &max, query, args...); err != nil {
		return 0, fmt.Errorf("next round number: %w", err)
	}

	return int(max.Int64) + 1, nil
}

func (r *RoundRepository) Create(ctx context.Context, item round.Round) error {
	query, args, err := qb.InsertModel("rounds", roundInsertModel{
		PublicID:            item.ID,
		CompetitionPublicID: item.CompetitionID,
		Number:              item.Number,
		RoundType:           string(item.Type),
		DeadlineAt:          item.Deadline.UTC(),
		Status:              string(item.Status),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert round query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert round: %w", err)
	}

	return nil
}

func (r *RoundRepository) UpdateStatus(ctx context.Context, roundID string, status round.Status) error {
	query, args, err := qb.Update("rounds").
		Set("status", string(status)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", roundID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update round status query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update round status: %w", err)
	}

	return nil
}

func (r *RoundRepository) UpdateDeadline(ctx context.Context, roundID string, deadline time.Time) error {
	query, args, err := qb.Update("rounds").
		Set("deadline_at", deadline.UTC()).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", roundID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update round deadline query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update round deadline: %w", err)
	}

	return nil
}

func roundFromRow(row roundTableModel) round.Round {
	return round.Round{
		ID:            row.PublicID,
		CompetitionID: row.CompetitionPublicID,
		Number:        row.Number,
		Type:          round.Type(row.RoundType),
		Deadline:      row.DeadlineAt,
		Status:        round.Status(row.Status),
		CreatedAt:     row.CreatedAt,
	}
}
