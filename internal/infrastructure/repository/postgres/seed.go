package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/thehubfc/prediction-league/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo season into an empty database so a fresh
// deployment has something to click around in. It is a no-op once any
// competition exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM competitions WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count competitions for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, c := range memory.SeedCompetitions() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO competitions (public_id, name, is_active)
VALUES (:public_id, :name, :is_active)
ON CONFLICT (public_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"public_id": c.ID,
			"name":      c.Name,
			"is_active": c.IsActive,
		})
		if err != nil {
			return fmt.Errorf("bind seed competition %s query: %w", c.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed competition %s: %w", c.ID, err)
		}
	}

	for _, t := range memory.SeedTeams() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (public_id, name, short_name)
VALUES (:public_id, :name, :short_name)
ON CONFLICT (public_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"public_id":  t.ID,
			"name":       t.Name,
			"short_name": t.Short,
		})
		if err != nil {
			return fmt.Errorf("bind seed team %s query: %w", t.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}
	}

	for _, u := range memory.SeedUsers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO users (public_id, name, email, is_admin)
VALUES (:public_id, :name, :email, :is_admin)
ON CONFLICT (public_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"public_id": u.ID,
			"name":      u.Name,
			"email":     u.Email,
			"is_admin":  u.IsAdmin,
		})
		if err != nil {
			return fmt.Errorf("bind seed user %s query: %w", u.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}

	for _, r := range memory.SeedRounds() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO rounds (public_id, competition_public_id, number, round_type, deadline_at, status)
VALUES (:public_id, :competition_public_id, :number, :round_type, :deadline_at, :status)
ON CONFLICT (public_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"public_id":             r.ID,
			"competition_public_id": r.CompetitionID,
			"number":                r.Number,
			"round_type":            string(r.Type),
			"deadline_at":           r.Deadline.UTC(),
			"status":                string(r.Status),
		})
		if err != nil {
			return fmt.Errorf("bind seed round %s query: %w", r.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed round %s: %w", r.ID, err)
		}
	}

	for _, m := range memory.SeedMatches() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO matches (public_id, round_public_id, home_team_public_id, away_team_public_id, kickoff_at, status, include_in_round, is_match_of_week, result)
VALUES (:public_id, :round_public_id, :home_team_public_id, :away_team_public_id, :kickoff_at, :status, :include_in_round, :is_match_of_week, :result)
ON CONFLICT (public_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"public_id":           m.ID,
			"round_public_id":     nullString(m.RoundID),
			"home_team_public_id": m.HomeTeamID,
			"away_team_public_id": m.AwayTeamID,
			"kickoff_at":          m.KickoffAt.UTC(),
			"status":              string(m.Status),
			"include_in_round":    m.IncludeInRound,
			"is_match_of_week":    m.IsMatchOfWeek,
			"result":              nullString(string(m.Result)),
		})
		if err != nil {
			return fmt.Errorf("bind seed match %s query: %w", m.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed match %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
