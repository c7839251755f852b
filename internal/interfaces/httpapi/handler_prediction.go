package httpapi

import (
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/thehubfc/prediction-league/internal/domain/match"
	"github.com/thehubfc/prediction-league/internal/usecase"
)

// GetMyRound returns a round as the authenticated player sees it:
// derived state, matches, and their own picks.
func (h *Handler) GetMyRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyRound")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	roundID := r.PathValue("roundID")
	view, err := h.predictionService.GetPlayerRound(ctx, principal.UserID, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player round failed", "round_id", roundID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	preds := make([]predictionDTO, 0, len(view.Predictions))
	for _, p := range view.Predictions {
		preds = append(preds, predictionToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, playerRoundDTO{
		Round:       roundToDTO(ctx, view.Round, time.Now()),
		State:       string(view.State),
		Matches:     matchesToDTO(ctx, view.Matches, h.teamNames(ctx)),
		Predictions: preds,
	})
}

// SaveMyPredictions overwrites the player's pick sheet for an open
// round. The whole sheet is submitted every time.
func (h *Handler) SaveMyPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveMyPredictions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	roundID := r.PathValue("roundID")
	var req savePredictionsRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	picks := make([]usecase.PredictionPick, 0, len(req.Picks))
	for _, p := range req.Picks {
		picks = append(picks, usecase.PredictionPick{
			MatchID:  p.MatchID,
			Pick:     match.Result(p.Pick),
			IsBanker: p.IsBanker,
		})
	}

	if err := h.predictionService.Save(ctx, usecase.SavePredictionsInput{
		UserID:  principal.UserID,
		RoundID: roundID,
		Picks:   picks,
	}); err != nil {
		h.logger.WarnContext(ctx, "save predictions failed", "round_id", roundID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "saved"})
}
