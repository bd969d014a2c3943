package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/futig/onboarding-backend/internal/entity"
	"github.com/futig/onboarding-backend/internal/pkg/logger"
	"github.com/futig/onboarding-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase ProfileUsecase
}

func NewHandler(usecase ProfileUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// GetProfile handles GET /profiles/{profile_id}
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("profile_id", profileID),
		zap.String("action", "GetProfile"),
	)

	profile, err := h.usecase.GetProfile(ctx, profileID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toProfileView(profile))
}

// ListProfiles handles GET /profiles
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListProfiles")

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	req := entity.ListProfilesRequest{
		Skip:  skip,
		Limit: limit,
	}

	profiles, err := h.usecase.ListProfiles(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	views := make([]*ProfileView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, toProfileView(p))
	}

	ctxzap.Info(ctx, "profiles listed", zap.Int("count", len(views)))

	response.Success(w, views)
}

// CreateProfile handles POST /profiles
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateProfile")

	var req entity.CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.usecase.CreateProfile(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, map[string]string{"user_uid": profile.ID})
}

// UpdateProfile handles PUT /profiles/{profile_id}
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("profile_id", profileID),
		zap.String("action", "UpdateProfile"),
	)

	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.usecase.UpdateProfile(ctx, &entity.UpdateProfileRequest{
		ID:     profileID,
		Fields: fields,
	})
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toProfileView(profile))
}

// ExportProfile handles GET /profiles/{profile_id}/export
func (h *Handler) ExportProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("profile_id", profileID),
		zap.String("action", "ExportProfile"),
	)

	format := entity.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatMarkdown
	}

	rendered, contentType, err := h.usecase.ExportProfile(ctx, profileID, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(rendered)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "usecase error", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrProfileNotFound):
		response.Error(w, http.StatusNotFound, "profile not found")
	case errors.Is(err, entity.ErrUnknownField),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrMissingField):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrProfileExists):
		response.Error(w, http.StatusConflict, "profile already exists")
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
