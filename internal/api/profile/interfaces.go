package profile

import (
	"context"

	"github.com/futig/onboarding-backend/internal/entity"
)

type ProfileUsecase interface {
	GetProfile(ctx context.Context, id string) (*entity.Profile, error)
	ListProfiles(ctx context.Context, req *entity.ListProfilesRequest) ([]*entity.Profile, error)
	CreateProfile(ctx context.Context, req *entity.CreateProfileRequest) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, req *entity.UpdateProfileRequest) (*entity.Profile, error)
	ExportProfile(ctx context.Context, id string, format entity.ExportFormat) ([]byte, string, error)
}
