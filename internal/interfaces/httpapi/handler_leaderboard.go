package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/thehubfc/prediction-league/internal/usecase"
)

// GetLeaderboard serves the season standings. Empty competition_id
// means the active competition.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	competitionID := strings.TrimSpace(r.URL.Query().Get("competition_id"))
	entries, err := h.leaderboardService.Get(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, leaderboardEntryToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	dashboard, err := h.dashboardService.Get(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get dashboard failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	now := time.Now()
	dto := dashboardDTO{
		CompetitionID:   dashboard.CompetitionID,
		CompetitionName: dashboard.CompetitionName,
		CurrentState:    string(dashboard.CurrentState),
		PicksMade:       dashboard.PicksMade,
		TotalPoints:     dashboard.TotalPoints,
		Rank:            dashboard.Rank,
		RoundWins:       dashboard.RoundWins,
		Players:         dashboard.Players,
		BankerRate:      dashboard.BankerRate,
		LastRoundPoints: dashboard.LastRoundPoints,
		LastRoundBanker: dashboard.LastRoundBanker,
	}
	if dashboard.CurrentRound != nil {
		current := roundToDTO(ctx, *dashboard.CurrentRound, now)
		dto.CurrentRound = &current
	}
	if dashboard.LastFinalRound != nil {
		last := roundToDTO(ctx, *dashboard.LastFinalRound, now)
		dto.LastFinalRound = &last
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}
