package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/thehubfc/prediction-league/external/emailjs"
	"github.com/thehubfc/prediction-league/internal/config"
	"github.com/thehubfc/prediction-league/internal/domain/competition"
	"github.com/thehubfc/prediction-league/internal/domain/match"
	"github.com/thehubfc/prediction-league/internal/domain/prediction"
	"github.com/thehubfc/prediction-league/internal/domain/round"
	"github.com/thehubfc/prediction-league/internal/domain/scoring"
	"github.com/thehubfc/prediction-league/internal/domain/team"
	"github.com/thehubfc/prediction-league/internal/domain/user"
	"github.com/thehubfc/prediction-league/internal/infrastructure/account/anubis"
	cacherepo "github.com/thehubfc/prediction-league/internal/infrastructure/repository/cache"
	"github.com/thehubfc/prediction-league/internal/infrastructure/repository/memory"
	"github.com/thehubfc/prediction-league/internal/infrastructure/repository/postgres"
	"github.com/thehubfc/prediction-league/internal/interfaces/httpapi"
	basecache "github.com/thehubfc/prediction-league/internal/platform/cache"
	idgen "github.com/thehubfc/prediction-league/internal/platform/id"
	"github.com/thehubfc/prediction-league/internal/platform/logging"
	"github.com/thehubfc/prediction-league/internal/platform/resilience"
	"github.com/thehubfc/prediction-league/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

type repositories struct {
	competitions competition.Repository
	rounds       round.Repository
	matches      match.Repository
	teams        team.Repository
	users        user.Repository
	predictions  prediction.Repository
	stats        scoring.Repository
	close        func() error
}

// NewHTTPServer wires storage, services and the HTTP router into a
// ready-to-run server. The returned cleanup releases the DB pool and is
// safe to call after Shutdown.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	policy := scoring.WinnerPolicy{
		MinParticipants:      cfg.WinnerMinParticipants,
		AllowZeroPointWinner: cfg.WinnerAllowZeroPoints,
	}

	var leaderboardStore *basecache.Store
	if cfg.CacheEnabled {
		leaderboardStore = basecache.NewStore(cfg.CacheTTL)
	}

	ids := idgen.NewRandomGenerator()

	roundSvc := usecase.NewRoundService(
		repos.competitions,
		repos.rounds,
		repos.matches,
		repos.teams,
		repos.predictions,
		repos.stats,
		repos.users,
		ids,
	)
	roundSvc.SetWinnerPolicy(policy)

	leaderboardSvc := usecase.NewLeaderboardService(
		repos.competitions,
		repos.rounds,
		repos.matches,
		repos.predictions,
		repos.stats,
		repos.users,
		policy,
		leaderboardStore,
	)
	roundSvc.SetLeaderboardInvalidator(leaderboardSvc)

	if cfg.MailerEnabled {
		roundSvc.SetNotifier(emailjs.NewClient(emailjs.ClientConfig{
			BaseURL:        cfg.MailerBaseURL,
			ServiceID:      cfg.MailerServiceID,
			PublicKey:      cfg.MailerPublicKey,
			PrivateKey:     cfg.MailerPrivateKey,
			TemplateActive: cfg.MailerTemplateActive,
			TemplateFinal:  cfg.MailerTemplateFinal,
			Timeout:        cfg.MailerTimeout,
			MaxRetries:     cfg.MailerMaxRetries,
			Workers:        cfg.MailerWorkers,
			Logger:         logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.MailerCircuitEnabled,
				FailureThreshold: cfg.MailerCircuitFailureCount,
				OpenTimeout:      cfg.MailerCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.MailerCircuitHalfOpenMaxReq,
			},
		}))
	} else {
		logger.Info("mailer disabled", "reason", "MAILER_ENABLED=false")
	}

	predictionSvc := usecase.NewPredictionService(repos.rounds, repos.matches, repos.predictions)
	historySvc := usecase.NewHistoryService(repos.rounds, repos.matches, repos.predictions, repos.users, leaderboardSvc, policy)
	comparisonSvc := usecase.NewComparisonService(repos.rounds, repos.matches, repos.predictions, repos.users)
	dashboardSvc := usecase.NewDashboardService(repos.competitions, repos.rounds, repos.predictions, leaderboardSvc)
	competitionSvc := usecase.NewCompetitionService(repos.competitions, ids)

	anubisClient := anubis.NewClient(
		&http.Client{Timeout: cfg.AnubisTimeout},
		cfg.AnubisBaseURL,
		cfg.AnubisIntrospectURL,
		cfg.AnubisAdminKey,
		anubis.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
		},
		logger,
	)

	handler := httpapi.NewHandler(
		roundSvc,
		predictionSvc,
		leaderboardSvc,
		historySvc,
		comparisonSvc,
		dashboardSvc,
		competitionSvc,
		repos.teams,
		repos.users,
		logger,
	)
	router := httpapi.NewRouter(handler, anubisClient, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = repos.close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, repos.close, nil
}

// buildRepositories picks postgres when DB_URL is set and falls back to
// the seeded in-memory stores otherwise, so the service runs without
// any infrastructure in local development.
func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")
		return buildMemoryRepositories(), nil
	}

	db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, fmt.Errorf("connect postgres: %w", err)
	}

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		_ = db.Close()
		return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
	}

	repos := buildPostgresRepositories(db)
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
		repos.competitions = cacherepo.NewCompetitionRepository(repos.competitions, store)
		repos.users = cacherepo.NewUserRepository(repos.users, store)
	}

	logger.Info("using postgres repositories", "db_name", dbNameFromURL(cfg.DBURL), "cache_enabled", cfg.CacheEnabled)

	return repos, nil
}

func buildPostgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		competitions: postgres.NewCompetitionRepository(db),
		rounds:       postgres.NewRoundRepository(db),
		matches:      postgres.NewMatchRepository(db),
		teams:        postgres.NewTeamRepository(db),
		users:        postgres.NewUserRepository(db),
		predictions:  postgres.NewPredictionRepository(db),
		stats:        postgres.NewRoundStatsRepository(db),
		close:        db.Close,
	}
}

func buildMemoryRepositories() repositories {
	roundRepo := memory.NewRoundRepository(memory.SeedRounds())

	return repositories{
		competitions: memory.NewCompetitionRepository(memory.SeedCompetitions()),
		rounds:       roundRepo,
		matches:      memory.NewMatchRepository(memory.SeedMatches()),
		teams:        memory.NewTeamRepository(memory.SeedTeams()),
		users:        memory.NewUserRepository(memory.SeedUsers()),
		predictions:  memory.NewPredictionRepository(),
		stats:        memory.NewRoundStatsRepository(roundRepo),
		close:        func() error { return nil },
	}
}
