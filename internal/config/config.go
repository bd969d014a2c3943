package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/futig/onboarding-backend/internal/entity"
	pkgRetry "github.com/futig/onboarding-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration
	DatabaseURL         string               `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int                  `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int                  `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration        `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration        `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration        `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	DBConnectRetry      pkgRetry.RetryConfig `envPrefix:"DB_CONNECT_RETRY_"`

	// Completion service configuration
	CompletionCfg CompletionConnectorConfig `envPrefix:"COMPLETION_"`

	// Profile cache configuration
	ProfileCacheTTL     time.Duration `env:"PROFILE_CACHE_TTL" envDefault:"30s"`
	ProfileCacheCleanup time.Duration `env:"PROFILE_CACHE_CLEANUP" envDefault:"5m"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Onboarding step catalog (loaded from JSON file)
	Steps entity.StepCatalog

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Telegram bot configuration (only used by the telegram-bot binary)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// CompletionConnectorConfig configures the chat completions client.
type CompletionConnectorConfig struct {
	HTTPClientConfig
	Model               string `env:"MODEL,notEmpty"`
	CompletionsEndpoint string `env:"COMPLETIONS_ENDPOINT" envDefault:"/v1/chat/completions"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN,notEmpty"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"30"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

// onboardingSteps represents the structure of onboarding_steps.json
type onboardingSteps struct {
	Steps []entity.OnboardingStep `json:"steps"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Load onboarding step catalog from JSON file
	if err := loadOnboardingSteps(cfg); err != nil {
		return nil, fmt.Errorf("load onboarding steps: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		return fmt.Errorf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns)
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns)
	}

	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		return fmt.Errorf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute)
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		return fmt.Errorf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout)
	}

	return nil
}

const stepsFilePath = "internal/config/onboarding_steps.json"

func loadOnboardingSteps(cfg *Config) error {
	if _, err := os.Stat(stepsFilePath); os.IsNotExist(err) {
		fmt.Printf("Warning: onboarding steps file not found at %s, using default steps\n", stepsFilePath)
		cfg.Steps = DefaultSteps()
		return cfg.Steps.Validate()
	}

	data, err := os.ReadFile(stepsFilePath)
	if err != nil {
		return fmt.Errorf("read onboarding steps file: %w", err)
	}

	var stepsData onboardingSteps
	if err := json.Unmarshal(data, &stepsData); err != nil {
		return fmt.Errorf("parse onboarding steps JSON: %w", err)
	}

	if len(stepsData.Steps) == 0 {
		return fmt.Errorf("onboarding steps file contains no steps: %s", stepsFilePath)
	}

	catalog := entity.StepCatalog(stepsData.Steps)
	if err := catalog.Validate(); err != nil {
		return fmt.Errorf("invalid step catalog in %s: %w", stepsFilePath, err)
	}

	cfg.Steps = catalog

	fmt.Printf("Loaded %d onboarding steps from %s\n", len(cfg.Steps), stepsFilePath)
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
