package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/futig/onboarding-backend/internal/entity"
	"github.com/futig/onboarding-backend/internal/pkg/keylock"
	"github.com/futig/onboarding-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Fixed replies for the terminal state. CompleteMessage is returned when
// a finished user keeps sending turns; FinishedMessage exactly once, on
// the turn that fills the last field.
const (
	CompleteMessage = "Onboarding complete! Thank you for sharing your information."
	FinishedMessage = "Thank you for completing the onboarding! We're excited to have you on board."
)

const lockMaxIdle = 10 * time.Minute

// Usecase drives the onboarding conversation: one call per inbound
// turn, state carried entirely in the profile's progress marker.
type Usecase struct {
	profileRepo repository.ProfileRepository
	completion  CompletionConnector
	catalog     entity.StepCatalog
	locks       *keylock.KeyLock
	logger      *zap.Logger
}

func NewUsecase(
	profileRepo repository.ProfileRepository,
	completion CompletionConnector,
	catalog entity.StepCatalog,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		profileRepo: profileRepo,
		completion:  completion,
		catalog:     catalog,
		locks:       keylock.New(lockMaxIdle),
		logger:      logger,
	}
}

// HandleTurn processes one (user id, optional text) turn and returns
// the outward reply. Turns for the same user are serialized; turns for
// different users run concurrently.
func (uc *Usecase) HandleTurn(ctx context.Context, req *entity.OnboardingTurnRequest) (*entity.OnboardingTurnResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = uuid.New().String()
	}

	input := strings.TrimSpace(req.Input)

	ctx = withTurnLogger(ctx, userID)

	uc.locks.Lock(userID)
	defer uc.locks.Unlock(userID)

	profile, err := uc.loadOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	step := uc.catalog.StepAt(profile.OnboardingStep)
	if step == nil {
		// Terminal state: checked before consuming input, so a finished
		// user sending more text never reaches the completion service.
		ctxzap.Debug(ctx, "onboarding already complete", zap.Int("step", profile.OnboardingStep))
		return uc.reply(userID, CompleteMessage), nil
	}

	if input != "" {
		result, err := uc.completion.ValidateAnswer(ctx, step, input)
		if err != nil {
			return nil, fmt.Errorf("validate answer for step %d: %w", step.Position, err)
		}

		if !result.Accepted {
			// Self-loop: no writes, the oracle's text is the reply.
			ctxzap.Info(ctx, "answer rejected", zap.Int("step", step.Position))
			return uc.reply(userID, result.Reply), nil
		}

		// The original user text is stored, never the model's text.
		// Write and advance happen as one atomic unit.
		if err := uc.profileRepo.SaveAnswer(ctx, userID, step.Field, input, step.Position); err != nil {
			return nil, fmt.Errorf("save answer for step %d: %w", step.Position, err)
		}

		ctxzap.Info(ctx, "answer accepted",
			zap.Int("step", step.Position),
			zap.String("field", step.Field),
		)

		step = uc.catalog.StepAt(step.Position + 1)
		if step == nil {
			return uc.reply(userID, FinishedMessage), nil
		}
	}

	reply, err := uc.completion.GenerateReply(ctx, step, input)
	if err != nil {
		return nil, fmt.Errorf("generate reply for step %d: %w", step.Position, err)
	}

	return uc.reply(userID, reply), nil
}

func (uc *Usecase) loadOrCreateProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	profile, err := uc.profileRepo.Get(ctx, userID)
	if err == nil {
		return profile, nil
	}

	if !errors.Is(err, entity.ErrProfileNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	// First reference: create with default marker 0. A concurrent
	// create of the same id is resolved by re-reading the winner's row.
	profile, err = uc.profileRepo.Create(ctx, entity.Profile{ID: userID})
	if err != nil {
		if errors.Is(err, entity.ErrProfileExists) {
			return uc.profileRepo.Get(ctx, userID)
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	ctxzap.Info(ctx, "profile created for onboarding")

	return profile, nil
}

func (uc *Usecase) reply(userID, text string) *entity.OnboardingTurnResponse {
	return &entity.OnboardingTurnResponse{
		Response: text,
		UserID:   userID,
	}
}

func withTurnLogger(ctx context.Context, userID string) context.Context {
	logger := ctxzap.Extract(ctx)
	return ctxzap.ToContext(ctx, logger.With(zap.String("user_id", userID)))
}
