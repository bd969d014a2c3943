package telegram

import (
	"context"
	"fmt"

	"github.com/futig/onboarding-backend/internal/config"
	"github.com/futig/onboarding-backend/internal/telegram/bot"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	onboardingUC bot.OnboardingUsecase,
	logger *zap.Logger,
) (Bot, error) {
	b, err := bot.New(cfg, onboardingUC, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	logger.Info("telegram bot initialized successfully")

	return b, nil
}
