package httpapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thehubfc/prediction-league/internal/domain/competition"
	"github.com/thehubfc/prediction-league/internal/domain/match"
	"github.com/thehubfc/prediction-league/internal/domain/prediction"
	"github.com/thehubfc/prediction-league/internal/domain/round"
	"github.com/thehubfc/prediction-league/internal/domain/scoring"
	"github.com/thehubfc/prediction-league/internal/domain/team"
	"github.com/thehubfc/prediction-league/internal/domain/user"
	"github.com/thehubfc/prediction-league/internal/usecase"
)

type createRoundRequest struct {
	CompetitionID string `json:"competition_id"`
	Deadline      string `json:"deadline" validate:"required"`
}

type updateDeadlineRequest struct {
	Deadline string `json:"deadline" validate:"required"`
}

type addMatchRequest struct {
	HomeTeamID string `json:"home_team_id" validate:"required"`
	AwayTeamID string `json:"away_team_id" validate:"required"`
	KickoffAt  string `json:"kickoff_at" validate:"required"`
}

type setResultRequest struct {
	Result string `json:"result" validate:"omitempty,oneof=H U B"`
}

type rescheduleMatchRequest struct {
	KickoffAt string `json:"kickoff_at" validate:"required"`
	Deadline  string `json:"deadline" validate:"required"`
}

type setMatchOfWeekRequest struct {
	MatchID string `json:"match_id" validate:"required"`
}

type savePredictionsRequest struct {
	Picks []savePredictionPick `json:"picks" validate:"required,min=1,dive"`
}

type savePredictionPick struct {
	MatchID  string `json:"match_id" validate:"required"`
	Pick     string `json:"pick" validate:"required,oneof=H U B"`
	IsBanker bool   `json:"is_banker"`
}

type createCompetitionRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

type roundDTO struct {
	ID            string `json:"id"`
	CompetitionID string `json:"competition_id"`
	Number        int    `json:"number"`
	Type          string `json:"type"`
	Deadline      string `json:"deadline"`
	DeadlineIn    string `json:"deadline_in,omitempty"`
	Urgency       string `json:"urgency,omitempty"`
	Status        string `json:"status"`
	CreatedAtUTC  string `json:"created_at_utc"`
}

type matchDTO struct {
	ID             string `json:"id"`
	RoundID        string `json:"round_id,omitempty"`
	HomeTeamID     string `json:"home_team_id"`
	AwayTeamID     string `json:"away_team_id"`
	HomeTeam       string `json:"home_team,omitempty"`
	AwayTeam       string `json:"away_team,omitempty"`
	KickoffAtUTC   string `json:"kickoff_at_utc"`
	Status         string `json:"status"`
	IncludeInRound bool   `json:"include_in_round"`
	IsMatchOfWeek  bool   `json:"is_match_of_week"`
	Result         string `json:"result,omitempty"`
}

type predictionDTO struct {
	MatchID      string `json:"match_id"`
	Pick         string `json:"pick"`
	IsBanker     bool   `json:"is_banker"`
	UpdatedAtUTC string `json:"updated_at_utc"`
}

type playerRoundDTO struct {
	Round       roundDTO        `json:"round"`
	State       string          `json:"state"`
	Matches     []matchDTO      `json:"matches"`
	Predictions []predictionDTO `json:"predictions"`
}

type roundDetailDTO struct {
	Round   roundDTO   `json:"round"`
	Matches []matchDTO `json:"matches"`
}

type notificationResultDTO struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type leaderboardEntryDTO struct {
	Rank          int     `json:"rank"`
	UserID        string  `json:"user_id"`
	Name          string  `json:"name"`
	TotalPoints   int     `json:"total_points"`
	RoundsPlayed  int     `json:"rounds_played"`
	AvgPerRound   float64 `json:"avg_per_round"`
	RoundWins     int     `json:"round_wins"`
	Correct       int     `json:"correct"`
	AwayCorrect   int     `json:"away_correct"`
	BankerNet     int     `json:"banker_net"`
	BankerCorrect int     `json:"banker_correct"`
	BankerWrong   int     `json:"banker_wrong"`
}

type dashboardDTO struct {
	CompetitionID   string    `json:"competition_id"`
	CompetitionName string    `json:"competition_name"`
	CurrentRound    *roundDTO `json:"current_round,omitempty"`
	CurrentState    string    `json:"current_state"`
	PicksMade       int       `json:"picks_made"`
	TotalPoints     int       `json:"total_points"`
	Rank            int       `json:"rank"`
	RoundWins       int       `json:"round_wins"`
	Players         int       `json:"players"`
	BankerRate      float64   `json:"banker_rate"`
	LastFinalRound  *roundDTO `json:"last_final_round,omitempty"`
	LastRoundPoints int       `json:"last_round_points"`
	LastRoundBanker string    `json:"last_round_banker,omitempty"`
}

type roundSummaryDTO struct {
	Round       roundDTO `json:"round"`
	WinnerNames []string `json:"winner_names,omitempty"`
	TopPoints   int      `json:"top_points"`
	Players     int      `json:"players"`
}

type roundStandingDTO struct {
	UserID        string `json:"user_id"`
	Name          string `json:"name"`
	Points        int    `json:"points"`
	Correct       int    `json:"correct"`
	AwayCorrect   int    `json:"away_correct"`
	BankerNet     int    `json:"banker_net"`
	BankerCorrect int    `json:"banker_correct"`
	BankerWrong   int    `json:"banker_wrong"`
	Predicted     int    `json:"predicted"`
	IsWinner      bool   `json:"is_winner"`
}

type historyPredictionDTO struct {
	UserID   string `json:"user_id"`
	MatchID  string `json:"match_id"`
	Pick     string `json:"pick"`
	IsBanker bool   `json:"is_banker"`
	Points   int    `json:"points"`
}

type roundHistoryDetailDTO struct {
	Round       roundDTO               `json:"round"`
	Matches     []matchDTO             `json:"matches"`
	Standings   []roundStandingDTO     `json:"standings"`
	Predictions []historyPredictionDTO `json:"predictions"`
}

type comparedPlayerDTO struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type comparisonLineDTO struct {
	Match     matchDTO `json:"match"`
	PickA     string   `json:"pick_a,omitempty"`
	PickB     string   `json:"pick_b,omitempty"`
	BankerA   bool     `json:"banker_a"`
	BankerB   bool     `json:"banker_b"`
	PointsA   int      `json:"points_a"`
	PointsB   int      `json:"points_b"`
	HasResult bool     `json:"has_result"`
}

type comparisonDTO struct {
	Round  roundDTO            `json:"round"`
	UserA  comparedPlayerDTO   `json:"user_a"`
	UserB  comparedPlayerDTO   `json:"user_b"`
	Lines  []comparisonLineDTO `json:"lines"`
	TotalA int                 `json:"total_a"`
	TotalB int                 `json:"total_b"`
}

type competitionDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IsActive     bool   `json:"is_active"`
	CreatedAtUTC string `json:"created_at_utc"`
}

type teamDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short"`
}

type playerDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func roundToDTO(ctx context.Context, v round.Round, now time.Time) roundDTO {
	ctx, span := startSpan(ctx, "httpapi.roundToDTO")
	defer span.End()

	dto := roundDTO{
		ID:            v.ID,
		CompetitionID: v.CompetitionID,
		Number:        v.Number,
		Type:          string(v.Type),
		Deadline:      v.Deadline.UTC().Format(time.RFC3339),
		Status:        string(v.Status),
		CreatedAtUTC:  v.CreatedAt.UTC().Format(time.RFC3339),
	}
	if v.StateAt(now) == round.StateOpen {
		dto.DeadlineIn = formatRemaining(v.Deadline.Sub(now))
	}
	dto.Urgency = deadlineUrgency(v, now)
	return dto
}

func matchToDTO(ctx context.Context, v match.Match, teamNameByID map[string]string) matchDTO {
	ctx, span := startSpan(ctx, "httpapi.matchToDTO")
	defer span.End()

	return matchDTO{
		ID:             v.ID,
		RoundID:        v.RoundID,
		HomeTeamID:     v.HomeTeamID,
		AwayTeamID:     v.AwayTeamID,
		HomeTeam:       teamNameByID[v.HomeTeamID],
		AwayTeam:       teamNameByID[v.AwayTeamID],
		KickoffAtUTC:   v.KickoffAt.UTC().Format(time.RFC3339),
		Status:         string(v.Status),
		IncludeInRound: v.IncludeInRound,
		IsMatchOfWeek:  v.IsMatchOfWeek,
		Result:         string(v.Result),
	}
}

func matchesToDTO(ctx context.Context, items []match.Match, teamNameByID map[string]string) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, m := range items {
		out = append(out, matchToDTO(ctx, m, teamNameByID))
	}
	return out
}

func predictionToDTO(v prediction.Prediction) predictionDTO {
	return predictionDTO{
		MatchID:      v.MatchID,
		Pick:         string(v.Pick),
		IsBanker:     v.IsBanker,
		UpdatedAtUTC: v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func leaderboardEntryToDTO(v scoring.LeaderboardEntry) leaderboardEntryDTO {
	return leaderboardEntryDTO{
		Rank:          v.Rank,
		UserID:        v.UserID,
		Name:          v.Name,
		TotalPoints:   v.TotalPoints,
		RoundsPlayed:  v.RoundsPlayed,
		AvgPerRound:   v.AvgPerRound,
		RoundWins:     v.RoundWins,
		Correct:       v.Correct,
		AwayCorrect:   v.AwayCorrect,
		BankerNet:     v.BankerNet,
		BankerCorrect: v.BankerCorrect,
		BankerWrong:   v.BankerWrong,
	}
}

func competitionToDTO(v competition.Competition) competitionDTO {
	return competitionDTO{
		ID:           v.ID,
		Name:         v.Name,
		IsActive:     v.IsActive,
		CreatedAtUTC: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{ID: v.ID, Name: v.Name, Short: v.Short}
}

func playerToDTO(v user.Player) playerDTO {
	return playerDTO{ID: v.ID, Name: v.Name}
}

// teamNames builds the id to name lookup the match DTOs want. A lookup
// failure degrades to bare ids instead of failing the read.
func (h *Handler) teamNames(ctx context.Context) map[string]string {
	teams, err := h.teamRepo.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams for name lookup failed", "error", err)
		return nil
	}

	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names
}

// formatRemaining renders a deadline countdown the way the round pages
// show it: the two largest units, minutes at minimum.
func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "0m"
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h"
	case hours > 0:
		return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
	default:
		return strconv.Itoa(minutes) + "m"
	}
}

// deadlineUrgency classifies how pressing an open deadline is.
func deadlineUrgency(v round.Round, now time.Time) string {
	if v.StateAt(now) != round.StateOpen {
		return "closed"
	}

	remaining := v.Deadline.Sub(now)
	switch {
	case remaining < time.Hour:
		return "critical"
	case remaining < 24*time.Hour:
		return "soon"
	default:
		return "normal"
	}
}

func parseTimeField(field, value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC3339", usecase.ErrInvalidInput, field)
	}
	return parsed, nil
}
