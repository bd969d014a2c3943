package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/futig/onboarding-backend/internal/config"
	"github.com/futig/onboarding-backend/internal/entity"
	pkghttp "github.com/futig/onboarding-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.CompletionConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.CompletionConnectorConfig,
	logger *zap.Logger,
) *Connector {
	connCfg := &pkghttp.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return &Connector{
		connector: pkghttp.NewConnector(
			connCfg,
			pkghttp.WithRequestTimeout(cfg.RequestTimeout),
			pkghttp.WithConnClientTimeout(cfg.ConnTimeout),
			pkghttp.WithClientKeepAlive(cfg.KeepAlive),
			pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
			pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
			pkghttp.WithRequestLogging(),
			pkghttp.WithAuthToken(cfg.Token),
		),
		config: cfg,
		logger: logger,
	}
}

// ValidateAnswer asks the completion service whether answer is an
// acceptable value for the step's field. On rejection the model's own
// text is returned as the re-prompt shown to the user.
func (c *Connector) ValidateAnswer(ctx context.Context, step *entity.OnboardingStep, answer string) (*entity.ValidationResult, error) {
	ctxzap.Info(ctx, "validating answer via completion service",
		zap.Int("step", step.Position),
		zap.String("field", step.Field),
	)

	reply, err := c.complete(ctx, []entity.ChatMessage{
		{Role: entity.RoleSystem, Content: step.ValidationPrompt},
		{Role: entity.RoleUser, Content: answer},
	})
	if err != nil {
		return nil, fmt.Errorf("validate answer: %w", err)
	}

	result := &entity.ValidationResult{
		Accepted: !isRejection(reply),
		Reply:    reply,
	}

	ctxzap.Info(ctx, "answer validated",
		zap.Int("step", step.Position),
		zap.Bool("accepted", result.Accepted),
	)

	return result, nil
}

// GenerateReply asks the completion service to phrase the step's prompt
// in context: system framing, the user's last input (possibly empty) and
// the base prompt as a priming assistant turn.
func (c *Connector) GenerateReply(ctx context.Context, step *entity.OnboardingStep, userInput string) (string, error) {
	ctxzap.Info(ctx, "generating reply via completion service",
		zap.Int("step", step.Position),
	)

	reply, err := c.complete(ctx, []entity.ChatMessage{
		{Role: entity.RoleSystem, Content: step.SystemContext},
		{Role: entity.RoleUser, Content: userInput},
		{Role: entity.RoleAssistant, Content: step.Prompt},
	})
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}

	return reply, nil
}

func (c *Connector) complete(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	req := &entity.CompletionRequest{
		Model:    c.config.Model,
		Messages: messages,
	}

	var resp entity.CompletionResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.CompletionsEndpoint, req, &resp)
	if err != nil {
		var netErr *pkghttp.NetworkError
		var httpErr *pkghttp.HTTPError
		if errors.As(err, &netErr) || errors.As(err, &httpErr) {
			return "", fmt.Errorf("%w: %v", entity.ErrUpstreamUnavailable, err)
		}
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: completion response has no choices", entity.ErrUpstreamUnavailable)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// rejectionMarker is the phrase the validation prompts instruct the
// model to use when an answer should be re-asked. The substring check is
// a fragile contract between prompt text and parser; it lives only here
// so a structured verdict can replace it without touching the engine.
const rejectionMarker = "ask again"

func isRejection(reply string) bool {
	return strings.Contains(strings.ToLower(reply), rejectionMarker)
}
