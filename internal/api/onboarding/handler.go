package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/onboarding-backend/internal/entity"
	"github.com/futig/onboarding-backend/internal/pkg/logger"
	"github.com/futig/onboarding-backend/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase OnboardingUsecase
}

func NewHandler(usecase OnboardingUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// HandleTurn handles POST /api/onboarding
func (h *Handler) HandleTurn(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "OnboardingTurn")

	var req entity.OnboardingTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.usecase.HandleTurn(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "onboarding turn failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrInvalidParameter):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrStepConflict):
		response.Error(w, http.StatusConflict, "another turn for this user is already in progress")
	case errors.Is(err, entity.ErrUpstreamUnavailable):
		// Distinguished from domain errors so the caller can retry the
		// whole turn; nothing was written when this surfaces.
		response.Error(w, http.StatusBadGateway, "completion service unavailable, retry the turn")
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
