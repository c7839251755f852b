package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/thehubfc/prediction-league/internal/domain/match"
	qb "github.com/thehubfc/prediction-league/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	return matchFromRow(row), true, nil
}

func (r *MatchRepository) ListByRound(ctx context.Context, roundID string) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("round_public_id", roundID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("kickoff_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}

	return out, nil
}

func (r *MatchRepository) ListPostponed(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("status", string(match.StatusPostponed)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("kickoff_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list postponed matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list postponed matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}

	return out, nil
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) error {
	query, args, err := qb.InsertModel("matches", matchInsertFromDomain(item), "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	return nil
}

func (r *MatchRepository) Update(ctx context.Context, item match.Match) error {
	query, args, err := qb.Update("matches").
		Set("round_public_id", nullString(item.RoundID)).
		Set("home_team_public_id", item.HomeTeamID).
		Set("away_team_public_id", item.AwayTeamID).
		Set("kickoff_at", item.KickoffAt.UTC()).
		Set("status", string(item.Status)).
		Set("include_in_round", item.IncludeInRound).
		Set("is_match_of_week", item.IsMatchOfWeek).
		Set("result", nullString(string(item.Result))).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", item.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match: %w", err)
	}

	return nil
}

func (r *MatchRepository) Delete(ctx context.Context, matchID string) error {
	query, args, err := qb.Update("matches").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}

	return nil
}

func (r *MatchRepository) ClearMatchOfWeek(ctx context.Context, roundID string) error {
	query, args, err := qb.Update("matches").
		Set("is_match_of_week", false).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("round_public_id", roundID),
			qb.Eq("is_match_of_week", true),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear match of week query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear match of week: %w", err)
	}

	return nil
}

func matchInsertFromDomain(item match.Match) matchInsertModel {
	return matchInsertModel{
		PublicID:         item.ID,
		RoundPublicID:    nullString(item.RoundID),
		HomeTeamPublicID: item.HomeTeamID,
		AwayTeamPublicID: item.AwayTeamID,
		KickoffAt:        item.KickoffAt.UTC(),
		Status:           string(item.Status),
		IncludeInRound:   item.IncludeInRound,
		IsMatchOfWeek:    item.IsMatchOfWeek,
		Result:           nullString(string(item.Result)),
	}
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:             row.PublicID,
		RoundID:        nullStringValue(row.RoundPublicID),
		HomeTeamID:     row.HomeTeamPublicID,
		AwayTeamID:     row.AwayTeamPublicID,
		KickoffAt:      row.KickoffAt,
		Status:         match.Status(row.Status),
		IncludeInRound: row.IncludeInRound,
		IsMatchOfWeek:  row.IsMatchOfWeek,
		Result:         match.Result(nullStringValue(row.Result)),
		CreatedAt:      row.CreatedAt,
	}
}
