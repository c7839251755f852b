package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/thehubfc/prediction-league/internal/usecase"
)

// CompareRound puts the authenticated player's picks next to another
// player's for one round. Only locked and final rounds can be compared.
func (h *Handler) CompareRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompareRound")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	roundID := r.PathValue("roundID")
	opponentID := strings.TrimSpace(r.PathValue("userID"))

	comparison, err := h.comparisonService.Compare(ctx, roundID, principal.UserID, opponentID)
	if err != nil {
		h.logger.WarnContext(ctx, "compare round failed",
			"round_id", roundID,
			"user_id", principal.UserID,
			"opponent_id", opponentID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	teamNames := h.teamNames(ctx)
	lines := make([]comparisonLineDTO, 0, len(comparison.Lines))
	for _, line := range comparison.Lines {
		lines = append(lines, comparisonLineDTO{
			Match:     matchToDTO(ctx, line.Match, teamNames),
			PickA:     string(line.PickA),
			PickB:     string(line.PickB),
			BankerA:   line.BankerA,
			BankerB:   line.BankerB,
			PointsA:   line.PointsA,
			PointsB:   line.PointsB,
			HasResult: line.HasResult,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, comparisonDTO{
		Round:  roundToDTO(ctx, comparison.Round, time.Now()),
		UserA:  comparedPlayerDTO{UserID: comparison.UserA.ID, Name: comparison.UserA.Name},
		UserB:  comparedPlayerDTO{UserID: comparison.UserB.ID, Name: comparison.UserB.Name},
		Lines:  lines,
		TotalA: comparison.TotalA,
		TotalB: comparison.TotalB,
	})
}
