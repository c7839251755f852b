package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/thehubfc/prediction-league/internal/domain/user"
	qb "github.com/thehubfc/prediction-league/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) ListPlayers(ctx context.Context) ([]user.Player, error) {
	query, args, err := qb.Select("*").From("users").
		Where(qb.IsNull("deleted_at")).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]user.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}

	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.Player, bool, error) {
	query, args, err := qb.Select("*").From("users").
		Where(
			qb.Eq("public_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return user.Player{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.Player{}, false, nil
		}
		return user.Player{}, false, fmt.Errorf("get user: %w", err)
	}

	return playerFromRow(row), true, nil
}

// Upsert keeps the local player roster in sync with the identity
// provider after each verified request.
func (r *UserRepository) Upsert(ctx context.Context, item user.Player) error {
	query, args, err := qb.InsertModel("users", userInsertModel{
		PublicID: item.ID,
		Name:     item.Name,
		Email:    item.Email,
		IsAdmin:  item.IsAdmin,
	}, `ON CONFLICT (public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    name = EXCLUDED.name,
    email = EXCLUDED.email,
    is_admin = EXCLUDED.is_admin,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert user query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	return nil
}

func playerFromRow(row userTableModel) user.Player {
	return user.Player{
		ID:      row.PublicID,
		Name:    row.Name,
		Email:   row.Email,
		IsAdmin: row.IsAdmin,
	}
}
