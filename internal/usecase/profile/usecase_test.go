package profile

import (
	"context"
	"strings"
	"testing"

	"github.com/futig/onboarding-backend/internal/entity"
	"github.com/futig/onboarding-backend/internal/pkg/formatter"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProfileRepo struct {
	profiles map[string]*entity.Profile

	lastListSkip  int
	lastListLimit int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*entity.Profile)}
}

func (r *fakeProfileRepo) Get(_ context.Context, id string) (*entity.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, entity.ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProfileRepo) List(_ context.Context, skip, limit int) ([]*entity.Profile, error) {
	r.lastListSkip = skip
	r.lastListLimit = limit
	out := make([]*entity.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeProfileRepo) Create(_ context.Context, profile entity.Profile) (*entity.Profile, error) {
	if _, ok := r.profiles[profile.ID]; ok {
		return nil, entity.ErrProfileExists
	}
	stored := profile
	r.profiles[profile.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeProfileRepo) UpdateFields(_ context.Context, id string, fields map[string]string) (*entity.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, entity.ErrProfileNotFound
	}
	for field, value := range fields {
		if err := p.SetField(field, value); err != nil {
			return nil, err
		}
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProfileRepo) SetField(_ context.Context, id, field, value string) error {
	p, ok := r.profiles[id]
	if !ok {
		return entity.ErrProfileNotFound
	}
	return p.SetField(field, value)
}

func (r *fakeProfileRepo) AdvanceStep(_ context.Context, id string) error {
	p, ok := r.profiles[id]
	if !ok {
		return entity.ErrProfileNotFound
	}
	p.OnboardingStep++
	return nil
}

func (r *fakeProfileRepo) SaveAnswer(_ context.Context, id, field, value string, expectedStep int) error {
	p, ok := r.profiles[id]
	if !ok {
		return entity.ErrProfileNotFound
	}
	if p.OnboardingStep != expectedStep {
		return entity.ErrStepConflict
	}
	if err := p.SetField(field, value); err != nil {
		return err
	}
	p.OnboardingStep++
	return nil
}

func newTestUsecase() (*ProfileUsecase, *fakeProfileRepo) {
	repo := newFakeProfileRepo()
	return NewUsecase(repo, formatter.NewFactory(), zap.NewNop()), repo
}

func TestCreateProfileGeneratesID(t *testing.T) {
	uc, _ := newTestUsecase()

	created, err := uc.CreateProfile(context.Background(), &entity.CreateProfileRequest{
		Fields: map[string]string{entity.FieldFirstName: "Bob"},
	})
	require.NoError(t, err)

	_, err = uuid.Parse(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Bob", created.FirstName)
	assert.Equal(t, 0, created.OnboardingStep)
}

func TestCreateProfileUnknownFieldRejected(t *testing.T) {
	uc, repo := newTestUsecase()

	_, err := uc.CreateProfile(context.Background(), &entity.CreateProfileRequest{
		Fields: map[string]string{"favorite_color": "blue"},
	})
	assert.ErrorIs(t, err, entity.ErrUnknownField)
	assert.Empty(t, repo.profiles)
}

func TestCreateProfileDuplicateIDConflicts(t *testing.T) {
	uc, repo := newTestUsecase()

	id := uuid.New().String()
	_, err := repo.Create(context.Background(), entity.Profile{ID: id})
	require.NoError(t, err)

	_, err = uc.CreateProfile(context.Background(), &entity.CreateProfileRequest{ID: id})
	assert.ErrorIs(t, err, entity.ErrProfileExists)
}

func TestUpdateProfileUnknownFieldRejectsWholeUpdate(t *testing.T) {
	uc, repo := newTestUsecase()

	id := uuid.New().String()
	_, err := repo.Create(context.Background(), entity.Profile{ID: id, FirstName: "Bob"})
	require.NoError(t, err)

	_, err = uc.UpdateProfile(context.Background(), &entity.UpdateProfileRequest{
		ID: id,
		Fields: map[string]string{
			entity.FieldFirstName: "Robert",
			"favorite_color":      "blue",
		},
	})
	assert.ErrorIs(t, err, entity.ErrUnknownField)

	// nothing applied, not even the valid key
	stored, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Bob", stored.FirstName)
}

func TestUpdateProfileLeavesProgressMarkerAlone(t *testing.T) {
	uc, repo := newTestUsecase()

	id := uuid.New().String()
	_, err := repo.Create(context.Background(), entity.Profile{ID: id, OnboardingStep: 3})
	require.NoError(t, err)

	updated, err := uc.UpdateProfile(context.Background(), &entity.UpdateProfileRequest{
		ID:     id,
		Fields: map[string]string{entity.FieldFirstName: "Robert"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Robert", updated.FirstName)
	assert.Equal(t, 3, updated.OnboardingStep)
}

func TestUpdateProfileNotFound(t *testing.T) {
	uc, _ := newTestUsecase()

	_, err := uc.UpdateProfile(context.Background(), &entity.UpdateProfileRequest{
		ID:     uuid.New().String(),
		Fields: map[string]string{entity.FieldFirstName: "Robert"},
	})
	assert.ErrorIs(t, err, entity.ErrProfileNotFound)
}

func TestListProfilesNormalizesPagination(t *testing.T) {
	uc, repo := newTestUsecase()

	_, err := uc.ListProfiles(context.Background(), &entity.ListProfilesRequest{Skip: -5, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, repo.lastListSkip)
	assert.Equal(t, 50, repo.lastListLimit)

	_, err = uc.ListProfiles(context.Background(), &entity.ListProfilesRequest{Limit: 10000})
	require.NoError(t, err)
	assert.Equal(t, 200, repo.lastListLimit)
}

func TestExportProfileMarkdown(t *testing.T) {
	uc, repo := newTestUsecase()

	id := uuid.New().String()
	_, err := repo.Create(context.Background(), entity.Profile{
		ID:        id,
		FirstName: "Bob",
		Company:   "Acme",
	})
	require.NoError(t, err)

	data, contentType, err := uc.ExportProfile(context.Background(), id, entity.FormatMarkdown)
	require.NoError(t, err)

	assert.Equal(t, "text/markdown; charset=utf-8", contentType)
	body := string(data)
	assert.Contains(t, body, "First name: Bob")
	assert.Contains(t, body, "Company: Acme")
	// unset fields still show up as placeholders
	assert.Contains(t, body, "Last name: -")
}

func TestExportProfileUnsupportedFormat(t *testing.T) {
	uc, repo := newTestUsecase()

	id := uuid.New().String()
	_, err := repo.Create(context.Background(), entity.Profile{ID: id})
	require.NoError(t, err)

	_, _, err = uc.ExportProfile(context.Background(), id, entity.ExportFormat("xlsx"))
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestExportProfileNotFound(t *testing.T) {
	uc, _ := newTestUsecase()

	_, _, err := uc.ExportProfile(context.Background(), uuid.New().String(), entity.FormatMarkdown)
	assert.ErrorIs(t, err, entity.ErrProfileNotFound)
}

func TestRenderSummaryListsEveryField(t *testing.T) {
	p := &entity.Profile{ID: "abc", FirstName: "Bob", OnboardingStep: 2}
	summary := renderSummary(p)

	for _, label := range summaryLabels {
		assert.True(t, strings.Contains(summary, label+":"), label)
	}
	assert.Contains(t, summary, "Onboarding step: 2")
}
