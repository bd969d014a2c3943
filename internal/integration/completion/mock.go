package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/onboarding-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is an offline stand-in for the completion service:
// it accepts any non-empty answer and echoes step prompts verbatim.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) ValidateAnswer(ctx context.Context, step *entity.OnboardingStep, answer string) (*entity.ValidationResult, error) {
	ctxzap.Info(ctx, "[MOCK] validating answer",
		zap.Int("step", step.Position),
		zap.String("field", step.Field),
	)

	if strings.TrimSpace(answer) == "" {
		return &entity.ValidationResult{
			Accepted: false,
			Reply:    fmt.Sprintf("Hmm, that doesn't look right. %s", step.Prompt),
		}, nil
	}

	return &entity.ValidationResult{Accepted: true}, nil
}

func (m *MockConnector) GenerateReply(ctx context.Context, step *entity.OnboardingStep, userInput string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating reply", zap.Int("step", step.Position))

	return step.Prompt, nil
}
