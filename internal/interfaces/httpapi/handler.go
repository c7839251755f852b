package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/thehubfc/prediction-league/internal/domain/team"
	"github.com/thehubfc/prediction-league/internal/domain/user"
	"github.com/thehubfc/prediction-league/internal/platform/logging"
	"github.com/thehubfc/prediction-league/internal/usecase"
)

type Handler struct {
	roundService       *usecase.RoundService
	predictionService  *usecase.PredictionService
	leaderboardService *usecase.LeaderboardService
	historyService     *usecase.HistoryService
	comparisonService  *usecase.ComparisonService
	dashboardService   *usecase.DashboardService
	competitionService *usecase.CompetitionService
	teamRepo           team.Repository
	userRepo           user.Repository
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	roundService *usecase.RoundService,
	predictionService *usecase.PredictionService,
	leaderboardService *usecase.LeaderboardService,
	historyService *usecase.HistoryService,
	comparisonService *usecase.ComparisonService,
	dashboardService *usecase.DashboardService,
	competitionService *usecase.CompetitionService,
	teamRepo team.Repository,
	userRepo user.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		roundService:       roundService,
		predictionService:  predictionService,
		leaderboardService: leaderboardService,
		historyService:     historyService,
		comparisonService:  comparisonService,
		dashboardService:   dashboardService,
		competitionService: competitionService,
		teamRepo:           teamRepo,
		userRepo:           userRepo,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
