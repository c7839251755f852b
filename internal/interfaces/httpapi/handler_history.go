package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/thehubfc/prediction-league/internal/domain/match"
	"github.com/thehubfc/prediction-league/internal/domain/scoring"
)

// ListRoundHistory returns every settled round of a competition with
// its winners. Empty competition_id means the active competition.
func (h *Handler) ListRoundHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRoundHistory")
	defer span.End()

	competitionID := strings.TrimSpace(r.URL.Query().Get("competition_id"))
	if competitionID == "" {
		active, exists, err := h.competitionService.GetActive(ctx)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		if !exists {
			writeSuccess(ctx, w, http.StatusOK, []roundSummaryDTO{})
			return
		}
		competitionID = active.ID
	}

	summaries, err := h.historyService.List(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list round history failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	now := time.Now()
	out := make([]roundSummaryDTO, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, roundSummaryDTO{
			Round:       roundToDTO(ctx, summary.Round, now),
			WinnerNames: summary.WinnerNames,
			TopPoints:   summary.TopPoints,
			Players:     summary.Players,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

// GetRoundHistory returns the full breakdown of one settled round:
// standings, winners, and every pick with the points it earned.
func (h *Handler) GetRoundHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoundHistory")
	defer span.End()

	roundID := r.PathValue("roundID")
	detail, err := h.historyService.Detail(ctx, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "get round history failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	winners := make(map[string]struct{}, len(detail.WinnerIDs))
	for _, winnerID := range detail.WinnerIDs {
		winners[winnerID] = struct{}{}
	}

	standings := make([]roundStandingDTO, 0, len(detail.Stats))
	for _, s := range detail.Stats {
		_, isWinner := winners[s.UserID]
		standings = append(standings, roundStandingDTO{
			UserID:        s.UserID,
			Name:          detail.Names[s.UserID],
			Points:        s.Points,
			Correct:       s.Correct,
			AwayCorrect:   s.AwayCorrect,
			BankerNet:     s.BankerNet,
			BankerCorrect: s.BankerCorrect,
			BankerWrong:   s.BankerWrong,
			Predicted:     s.Predicted,
			IsWinner:      isWinner,
		})
	}

	scorable := make(map[string]match.Match, len(detail.Matches))
	for _, m := range detail.Matches {
		if m.Counted() && m.HasResult() {
			scorable[m.ID] = m
		}
	}

	preds := make([]historyPredictionDTO, 0, len(detail.Predictions))
	for _, p := range detail.Predictions {
		dto := historyPredictionDTO{
			UserID:   p.UserID,
			MatchID:  p.MatchID,
			Pick:     string(p.Pick),
			IsBanker: p.IsBanker,
		}
		if m, ok := scorable[p.MatchID]; ok {
			dto.Points = scoring.Points(p.Pick == m.Result, p.IsBanker, m.IsMatchOfWeek, detail.Round.Type)
		}
		preds = append(preds, dto)
	}

	writeSuccess(ctx, w, http.StatusOK, roundHistoryDetailDTO{
		Round:       roundToDTO(ctx, detail.Round, time.Now()),
		Matches:     matchesToDTO(ctx, detail.Matches, h.teamNames(ctx)),
		Standings:   standings,
		Predictions: preds,
	})
}
