package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/onboarding-backend/internal/api"
	onboardingapi "github.com/futig/onboarding-backend/internal/api/onboarding"
	profileapi "github.com/futig/onboarding-backend/internal/api/profile"
	"github.com/futig/onboarding-backend/internal/config"
	"github.com/futig/onboarding-backend/internal/integration/completion"
	"github.com/futig/onboarding-backend/internal/pkg/formatter"
	"github.com/futig/onboarding-backend/internal/repository"
	"github.com/futig/onboarding-backend/internal/telegram"
	"github.com/futig/onboarding-backend/internal/usecase/onboarding"
	"github.com/futig/onboarding-backend/internal/usecase/profile"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.Int("onboarding_steps", cfg.Steps.Len()),
	)

	db, profileRepo, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	completionConn := setupCompletion(cfg, logger)

	profileUC := profile.NewUsecase(profileRepo, formatter.NewFactory(), logger)
	onboardingUC := onboarding.NewUsecase(profileRepo, completionConn, cfg.Steps, logger)
	logger.Info("Use cases initialized")

	profileHandler := profileapi.NewHandler(profileUC)
	onboardingHandler := onboardingapi.NewHandler(onboardingUC)
	logger.Info("API handlers initialized")

	router := api.SetupRouter(profileHandler, onboardingHandler, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (telegram.Bot, *zap.Logger, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	_, profileRepo, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	completionConn := setupCompletion(cfg, logger)

	onboardingUC := onboarding.NewUsecase(profileRepo, completionConn, cfg.Steps, logger)
	logger.Info("Use cases initialized")

	bot, err := telegram.NewBot(&cfg.TelegramCfg, onboardingUC, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, nil
}

// setupStorage connects the pool, runs migrations and wires the cached
// profile repository.
func setupStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (
	*pgxpool.Pool, repository.ProfileRepository, error,
) {
	pool, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("setup database: %w", err)
	}

	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	repo := repository.NewCachedProfileRepository(
		repository.NewProfilePostgres(pool),
		cfg.ProfileCacheTTL,
		cfg.ProfileCacheCleanup,
	)
	logger.Info("Repositories initialized")

	return pool, repo, nil
}

// setupCompletion picks the real or mock completion connector.
func setupCompletion(cfg *config.Config, logger *zap.Logger) onboarding.CompletionConnector {
	if cfg.EnableMocks {
		logger.Info("Using mock completion connector")
		return completion.NewMockConnector(logger)
	}

	logger.Info("Using real completion connector",
		zap.String("model", cfg.CompletionCfg.Model),
	)
	return completion.NewConnector(cfg.CompletionCfg, logger)
}
