package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/thehubfc/prediction-league/internal/domain/match"
	"github.com/thehubfc/prediction-league/internal/usecase"
)

func (h *Handler) CreateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRound")
	defer span.End()

	var req createRoundRequest
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

	deadline, err := parseTimeField("deadline", req.Deadline)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.roundService.Create(ctx, usecase.CreateRoundInput{
		CompetitionID: req.CompetitionID,
		Deadline:      deadline,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create round failed", "competition_id", req.CompetitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, roundToDTO(ctx, item, time.Now()))
}

func (h *Handler) ListRounds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRounds")
	defer span.End()

	competitionID := strings.TrimSpace(r.URL.Query().Get("competition_id"))
	if competitionID == "" {
		active, exists, err := h.competitionService.GetActive(ctx)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		if !exists {
			writeSuccess(ctx, w, http.StatusOK, []roundDTO{})
			return
		}
		competitionID = active.ID
	}

	items, err := h.roundService.ListByCompetition(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list rounds failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	now := time.Now()
	out := make([]roundDTO, 0, len(items))
	for _, item := range items {
		out = append(out, roundToDTO(ctx, item, now))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetRoundDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoundDetail")
	defer span.End()

	roundID := r.PathValue("roundID")
	detail, err := h.roundService.GetDetail(ctx, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "get round detail failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundDetailDTO{
		Round:   roundToDTO(ctx, detail.Round, time.Now()),
		Matches: matchesToDTO(ctx, detail.Matches, h.teamNames(ctx)),
	})
}

func (h *Handler) UpdateRoundDeadline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateRoundDeadline")
	defer span.End()

	roundID := r.PathValue("roundID")
	var req updateDeadlineRequest
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

	deadline, err := parseTimeField("deadline", req.Deadline)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.roundService.UpdateDeadline(ctx, roundID, deadline); err != nil {
		h.logger.WarnContext(ctx, "update round deadline failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) PublishRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PublishRound")
	defer span.End()

	roundID := r.PathValue("roundID")
	result, err := h.roundService.Publish(ctx, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "publish round failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, notificationResultDTO{Sent: result.Sent, Failed: result.Failed})
}

func (h *Handler) UnpublishRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnpublishRound")
	defer span.End()

	roundID := r.PathValue("roundID")
	if err := h.roundService.Unpublish(ctx, roundID); err != nil {
		h.logger.WarnContext(ctx, "unpublish round failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "scheduled"})
}

func (h *Handler) FinalizeRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizeRound")
	defer span.End()

	roundID := r.PathValue("roundID")
	result, err := h.roundService.SetFinal(ctx, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "finalize round failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, notificationResultDTO{Sent: result.Sent, Failed: result.Failed})
}

func (h *Handler) UnfinalizeRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnfinalizeRound")
	defer span.End()

	roundID := r.PathValue("roundID")
	if err := h.roundService.Unfinalize(ctx, roundID); err != nil {
		h.logger.WarnContext(ctx, "unfinalize round failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "published"})
}

func (h *Handler) AddMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddMatch")
	defer span.End()

	roundID := r.PathValue("roundID")
	var req addMatchRequest
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

	kickoffAt, err := parseTimeField("kickoff_at", req.KickoffAt)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.roundService.AddMatch(ctx, usecase.AddMatchInput{
		RoundID:    roundID,
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		KickoffAt:  kickoffAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add match failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(ctx, item, h.teamNames(ctx)))
}

func (h *Handler) SetMatchOfWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetMatchOfWeek")
	defer span.End()

	roundID := r.PathValue("roundID")
	var req setMatchOfWeekRequest
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

	if err := h.roundService.SetMatchOfWeek(ctx, roundID, req.MatchID); err != nil {
		h.logger.WarnContext(ctx, "set match of week failed", "round_id", roundID, "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	if err := h.roundService.DeleteMatch(ctx, matchID); err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) SetMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetMatchResult")
	defer span.End()

	matchID := r.PathValue("matchID")
	var req setResultRequest
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

	if err := h.roundService.SetResult(ctx, matchID, match.Result(req.Result)); err != nil {
		h.logger.WarnContext(ctx, "set match result failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) PostponeMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PostponeMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	if err := h.roundService.PostponeMatch(ctx, matchID); err != nil {
		h.logger.WarnContext(ctx, "postpone match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "postponed"})
}

func (h *Handler) ListPostponedMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPostponedMatches")
	defer span.End()

	items, err := h.roundService.ListPostponedMatches(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list postponed matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchesToDTO(ctx, items, h.teamNames(ctx)))
}

// RescheduleMatch turns a postponed match into a standalone round.
func (h *Handler) RescheduleMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RescheduleMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	var req rescheduleMatchRequest
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

	kickoffAt, err := parseTimeField("kickoff_at", req.KickoffAt)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	deadline, err := parseTimeField("deadline", req.Deadline)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.roundService.RescheduleStandalone(ctx, matchID, kickoffAt, deadline)
	if err != nil {
		h.logger.WarnContext(ctx, "reschedule match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, roundToDTO(ctx, item, time.Now()))
}
