package profile

import (
	"context"
	"fmt"

	"github.com/futig/onboarding-backend/internal/entity"
	"github.com/futig/onboarding-backend/internal/pkg/formatter"
	"github.com/futig/onboarding-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ProfileUsecase implements profile business logic
type ProfileUsecase struct {
	profileRepo repository.ProfileRepository
	formatters  *formatter.Factory
	logger      *zap.Logger
}

// NewUsecase creates a new profile use case
func NewUsecase(
	profileRepo repository.ProfileRepository,
	formatters *formatter.Factory,
	logger *zap.Logger,
) *ProfileUsecase {
	return &ProfileUsecase{
		profileRepo: profileRepo,
		formatters:  formatters,
		logger:      logger,
	}
}

// GetProfile returns one profile by id
func (uc *ProfileUsecase) GetProfile(ctx context.Context, id string) (*entity.Profile, error) {
	return uc.profileRepo.Get(ctx, id)
}

// ListProfiles returns a page of profiles
func (uc *ProfileUsecase) ListProfiles(ctx context.Context, req *entity.ListProfilesRequest) ([]*entity.Profile, error) {
	req.Normalize()
	return uc.profileRepo.List(ctx, req.Skip, req.Limit)
}

// CreateProfile creates a profile, generating an id when the caller
// supplied none. A duplicate id on this path is a conflict (the
// onboarding path, by contrast, reuses an existing row silently).
func (uc *ProfileUsecase) CreateProfile(ctx context.Context, req *entity.CreateProfileRequest) (*entity.Profile, error) {
	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}

	profile := entity.Profile{ID: id}
	for field, value := range req.Fields {
		if err := profile.SetField(field, value); err != nil {
			return nil, fmt.Errorf("%w: %q", err, field)
		}
	}

	created, err := uc.profileRepo.Create(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	ctxzap.Info(ctx, "profile created",
		zap.String("profile_id", created.ID),
		zap.Int("initial_fields", len(req.Fields)),
	)

	return created, nil
}

// UpdateProfile applies direct attribute updates. Every key is checked
// against the fixed schema before any write; the progress marker is
// deliberately left alone even when the update overwrites a field the
// conversation collected.
func (uc *ProfileUsecase) UpdateProfile(ctx context.Context, req *entity.UpdateProfileRequest) (*entity.Profile, error) {
	for field := range req.Fields {
		if !entity.IsProfileField(field) {
			return nil, fmt.Errorf("%w: %q", entity.ErrUnknownField, field)
		}
	}

	updated, err := uc.profileRepo.UpdateFields(ctx, req.ID, req.Fields)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "profile updated",
		zap.String("profile_id", req.ID),
		zap.Int("field_count", len(req.Fields)),
	)

	return updated, nil
}

// ExportProfile renders a profile summary in the requested format.
func (uc *ProfileUsecase) ExportProfile(ctx context.Context, id string, format entity.ExportFormat) ([]byte, string, error) {
	profile, err := uc.profileRepo.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	f, err := uc.formatters.Create(format)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
	}

	rendered, err := f.Format(renderSummary(profile))
	if err != nil {
		return nil, "", fmt.Errorf("render profile export: %w", err)
	}

	ctxzap.Info(ctx, "profile exported",
		zap.String("profile_id", id),
		zap.String("format", string(format)),
	)

	return rendered, f.ContentType(), nil
}
