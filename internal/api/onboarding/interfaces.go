package onboarding

import (
	"context"

	"github.com/futig/onboarding-backend/internal/entity"
)

type OnboardingUsecase interface {
	HandleTurn(ctx context.Context, req *entity.OnboardingTurnRequest) (*entity.OnboardingTurnResponse, error)
}
