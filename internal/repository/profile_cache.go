package repository

import (
	"context"
	"time"

	"github.com/futig/onboarding-backend/internal/entity"
	gocache "github.com/patrickmn/go-cache"
)

var _ ProfileRepository = &CachedProfileRepository{}

// CachedProfileRepository is a read-through cache over a
// ProfileRepository. Every mutation evicts the cached row, so a read
// after a write always sees the stored state; the TTL only bounds
// staleness across processes.
type CachedProfileRepository struct {
	inner ProfileRepository
	cache *gocache.Cache
}

func NewCachedProfileRepository(inner ProfileRepository, ttl, cleanup time.Duration) *CachedProfileRepository {
	return &CachedProfileRepository{
		inner: inner,
		cache: gocache.New(ttl, cleanup),
	}
}

func (r *CachedProfileRepository) Get(ctx context.Context, id string) (*entity.Profile, error) {
	if cached, ok := r.cache.Get(id); ok {
		profile := *(cached.(*entity.Profile))
		return &profile, nil
	}

	profile, err := r.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cache.SetDefault(id, profile)

	copied := *profile
	return &copied, nil
}

func (r *CachedProfileRepository) List(ctx context.Context, skip, limit int) ([]*entity.Profile, error) {
	return r.inner.List(ctx, skip, limit)
}

func (r *CachedProfileRepository) Create(ctx context.Context, profile entity.Profile) (*entity.Profile, error) {
	created, err := r.inner.Create(ctx, profile)
	if err != nil {
		return nil, err
	}

	r.cache.Delete(profile.ID)
	return created, nil
}

func (r *CachedProfileRepository) UpdateFields(ctx context.Context, id string, fields map[string]string) (*entity.Profile, error) {
	updated, err := r.inner.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	r.cache.Delete(id)
	return updated, nil
}

func (r *CachedProfileRepository) SetField(ctx context.Context, id, field, value string) error {
	if err := r.inner.SetField(ctx, id, field, value); err != nil {
		return err
	}

	r.cache.Delete(id)
	return nil
}

func (r *CachedProfileRepository) AdvanceStep(ctx context.Context, id string) error {
	if err := r.inner.AdvanceStep(ctx, id); err != nil {
		return err
	}

	r.cache.Delete(id)
	return nil
}

func (r *CachedProfileRepository) SaveAnswer(ctx context.Context, id, field, value string, expectedStep int) error {
	if err := r.inner.SaveAnswer(ctx, id, field, value, expectedStep); err != nil {
		// a conflict still means the row changed under us
		r.cache.Delete(id)
		return err
	}

	r.cache.Delete(id)
	return nil
}
