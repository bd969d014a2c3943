package onboarding

import (
	"context"

	"github.com/futig/onboarding-backend/internal/entity"
)

// CompletionConnector is the external text-completion capability the
// engine relies on for validation verdicts and phrased replies.
type CompletionConnector interface {
	ValidateAnswer(ctx context.Context, step *entity.OnboardingStep, answer string) (*entity.ValidationResult, error)
	GenerateReply(ctx context.Context, step *entity.OnboardingStep, userInput string) (string, error)
}
