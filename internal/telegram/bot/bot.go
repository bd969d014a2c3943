package bot

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/futig/onboarding-backend/internal/config"
	"github.com/futig/onboarding-backend/internal/entity"
	"github.com/futig/onboarding-backend/internal/telegram/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const errGeneric = "Something went wrong. Please try again or send /start."

// OnboardingUsecase is the conversation engine the bot forwards turns to.
type OnboardingUsecase interface {
	HandleTurn(ctx context.Context, req *entity.OnboardingTurnRequest) (*entity.OnboardingTurnResponse, error)
}

// Bot represents the Telegram bot
type Bot struct {
	api          *tgbotapi.BotAPI
	cfg          *config.TelegramConfig
	onboardingUC OnboardingUsecase
	logger       *zap.Logger
	loggingMW    *middleware.LoggingMiddleware
	recoveryMW   *middleware.RecoveryMiddleware
	rateLimitMW  *middleware.RateLimiterMiddleware
	updatesChan  tgbotapi.UpdatesChannel
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

// New creates a new Telegram bot
func New(
	cfg *config.TelegramConfig,
	onboardingUC OnboardingUsecase,
	logger *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	bot := &Bot{
		api:          api,
		cfg:          cfg,
		onboardingUC: onboardingUC,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}

	bot.loggingMW = middleware.NewLoggingMiddleware(logger)
	bot.recoveryMW = middleware.NewRecoveryMiddleware(logger, api, errGeneric)
	bot.rateLimitMW = middleware.NewRateLimiterMiddleware(
		cfg.RateLimitPerMinute,
		cfg.RateLimitBurst,
		logger,
		api,
	)

	return bot, nil
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout

	updates := b.api.GetUpdatesChan(u)
	b.updatesChan = updates

	ctx = ctxzap.ToContext(ctx, b.logger)

	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates processes incoming updates
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update := <-b.updatesChan:
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware processes update through middleware chain
func (b *Bot) handleUpdateWithMiddleware(update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				b.handleUpdate(u3)
			})
		})
	})
}

// handleUpdate routes update to the onboarding engine
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	ctx := ctxzap.ToContext(context.Background(), b.logger)
	message := update.Message

	input := message.Text
	if message.IsCommand() {
		switch message.Command() {
		case "start":
			// A bare /start is a turn with no input: the engine replies
			// with the current step's question.
			input = ""
		default:
			b.send(ctx, message.Chat.ID, "I only understand plain answers here. Send /start to begin.")
			return
		}
	}

	resp, err := b.onboardingUC.HandleTurn(ctx, &entity.OnboardingTurnRequest{
		UserID: ProfileIDForChat(message.Chat.ID),
		Input:  input,
	})
	if err != nil {
		ctxzap.Error(ctx, "onboarding turn failed",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID),
		)
		b.send(ctx, message.Chat.ID, errGeneric)
		return
	}

	b.send(ctx, message.Chat.ID, resp.Response)
}

func (b *Bot) send(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		ctxzap.Error(ctx, "failed to send telegram message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// profileNamespace salts chat-derived profile ids so they cannot
// collide with ids issued elsewhere.
var profileNamespace = uuid.MustParse("3c680784-5a5e-4dc4-b1fb-9d6a8a785cbd")

// ProfileIDForChat deterministically maps a telegram chat to a profile
// id, so a returning chat continues its onboarding where it left off.
func ProfileIDForChat(chatID int64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(chatID))
	return uuid.NewSHA1(profileNamespace, buf[:]).String()
}
