package onboarding

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/futig/onboarding-backend/internal/config"
	"github.com/futig/onboarding-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProfileRepo is an in-memory ProfileRepository.
type fakeProfileRepo struct {
	profiles map[string]*entity.Profile
	writes   int
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

func (r *fakeProfileRepo) List(_ context.Context, _, _ int) ([]*entity.Profile, error) {
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
	r.writes++
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
	r.writes++
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
	r.writes++
	return p.SetField(field, value)
}

func (r *fakeProfileRepo) AdvanceStep(_ context.Context, id string) error {
	p, ok := r.profiles[id]
	if !ok {
		return entity.ErrProfileNotFound
	}
	r.writes++
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
	r.writes++
	p.OnboardingStep++
	return nil
}

// scriptedConnector returns canned verdicts and replies.
type scriptedConnector struct {
	rejectWith  string // when non-empty, every validation is rejected with this text
	completeErr error  // when non-nil, every call fails with this error

	lastValidated string
	lastReplyStep int
}

func (c *scriptedConnector) ValidateAnswer(_ context.Context, step *entity.OnboardingStep, answer string) (*entity.ValidationResult, error) {
	if c.completeErr != nil {
		return nil, c.completeErr
	}
	c.lastValidated = answer
	if c.rejectWith != "" {
		return &entity.ValidationResult{Accepted: false, Reply: c.rejectWith}, nil
	}
	return &entity.ValidationResult{Accepted: true, Reply: "looks good"}, nil
}

func (c *scriptedConnector) GenerateReply(_ context.Context, step *entity.OnboardingStep, _ string) (string, error) {
	if c.completeErr != nil {
		return "", c.completeErr
	}
	c.lastReplyStep = step.Position
	return fmt.Sprintf("phrased: %s", step.Prompt), nil
}

func newTestUsecase(t *testing.T, conn CompletionConnector) (*Usecase, *fakeProfileRepo) {
	t.Helper()
	repo := newFakeProfileRepo()
	catalog := config.DefaultSteps()
	require.NoError(t, catalog.Validate())
	return NewUsecase(repo, conn, catalog, zap.NewNop()), repo
}

func TestHandleTurnCreatesProfileAndAsksFirstQuestion(t *testing.T) {
	conn := &scriptedConnector{}
	uc, repo := newTestUsecase(t, conn)

	userID := uuid.New().String()
	resp, err := uc.HandleTurn(context.Background(), &entity.OnboardingTurnRequest{UserID: userID})
	require.NoError(t, err)

	assert.Equal(t, userID, resp.UserID)
	assert.Equal(t, "phrased: Hi there! I'd love to get to know you better. What's your first name?", resp.Response)
	assert.Equal(t, 0, conn.lastReplyStep)

	profile, err := repo.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.OnboardingStep)
}

func TestHandleTurnGeneratesUserIDWhenAbsent(t *testing.T) {
	uc, repo := newTestUsecase(t, &scriptedConnector{})

	resp, err := uc.HandleTurn(context.Background(), &entity.OnboardingTurnRequest{})
	require.NoError(t, err)

	require.NotEmpty(t, resp.UserID)
	_, err = uuid.Parse(resp.UserID)
	require.NoError(t, err)

	_, err = repo.Get(context.Background(), resp.UserID)
	assert.NoError(t, err)
}

func TestHandleTurnAcceptedAnswerAdvancesAndUsesNextStep(t *testing.T) {
	conn := &scriptedConnector{}
	uc, repo := newTestUsecase(t, conn)

	userID := uuid.New().String()
	resp, err := uc.HandleTurn(context.Background(), &entity.OnboardingTurnRequest{
		UserID: userID,
		Input:  "Bob",
	})
	require.NoError(t, err)

	profile, err := repo.Get(context.Background(), userID)
	require.NoError(t, err)

	// the original user text is stored, not the model's text
	assert.Equal(t, "Bob", profile.FirstName)
	assert.Equal(t, 1, profile.OnboardingStep)

	// the reply is phrased from the new current step
	assert.Equal(t, 1, conn.lastReplyStep)
	assert.Equal(t, "phrased: Thanks! And what's your last name?", resp.Response)
}

func TestHandleTurnRejectedAnswerIsSelfLoop(t *testing.T) {
	rejection := "That doesn't look like a name, can you try again?"
	conn := &scriptedConnector{rejectWith: rejection}
	uc, repo := newTestUsecase(t, conn)

	userID := uuid.New().String()
	_, err := repo.Create(context.Background(), entity.Profile{ID: userID, OnboardingStep: 1})
	require.NoError(t, err)
	writesBefore := repo.writes

	resp, err := uc.HandleTurn(context.Background(), &entity.OnboardingTurnRequest{
		UserID: userID,
		Input:  "xyz123",
	})
	require.NoError(t, err)

	// reply is the oracle's text exactly, no writes, marker unchanged
	assert.Equal(t, rejection, resp.Response)
	assert.Equal(t, writesBefore, repo.writes)

	profile, err := repo.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.OnboardingStep)
	assert.Empty(t, profile.LastName)
}

func TestHandleTurnLastAcceptedAnswerFinishesOnboarding(t *testing.T) {
	conn := &scriptedConnector{}
	uc, repo := newTestUsecase(t, conn)

	userID := uuid.New().String()
	_, err := repo.Create(context.Background(), entity.Profile{ID: userID, OnboardingStep: 5})
	require.NoError(t, err)

	resp, err := uc.HandleTurn(context.Background(), &entity.OnboardingTurnRequest{
		UserID: userID,
		Input:  "a friend told me",
	})
	require.NoError(t, err)

	assert.Equal(t, FinishedMessage, resp.Response)

	profile, err := repo.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "a friend told me", profile.HeardAboutUs)
	assert.Equal(t, 6, profile.OnboardingStep)
}

func TestHandleTurnCompletedUserShortCircuits(t *testing.T) {
	conn := &scriptedConnector{}
	uc, repo := newTestUsecase(t, conn)

	userID := uuid.New().String()
	_, err := repo.Create(context.Background(), entity.Profile{ID: userID, OnboardingStep: 6})
	require.NoError(t, err)
	writesBefore := repo.writes

	// input or not, a completed user gets the fixed message and no
	// completion call is made
	for _, input := range []string{"", "still here", "hello?"} {
		resp, err := uc.HandleTurn(context.Background(), &entity.OnboardingTurnRequest{
			UserID: userID,
			Input:  input,
		})
		require.NoError(t, err)
		assert.Equal(t, CompleteMessage, resp.Response)
	}

	assert.Equal(t, writesBefore, repo.writes)
	assert.Empty(t, conn.lastValidated)
}

func TestHandleTurnMarkerIsMonotonic(t *testing.T) {
	conn := &scriptedConnector{}
	uc, repo := newTestUsecase(t, conn)

	userID := uuid.New().String()
	answers := []string{"Bob", "Smith", "Acme", "Engineering", "Staff Engineer", "a friend"}

	last := 0
	for _, answer := range answers {
		_, err := uc.HandleTurn(context.Background(), &entity.OnboardingTurnRequest{
			UserID: userID,
			Input:  answer,
		})
		require.NoError(t, err)

		profile, err := repo.Get(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, last+1, profile.OnboardingStep)
		last = profile.OnboardingStep
	}

	assert.Equal(t, 6, last)
}

func TestHandleTurnUpstreamFailurePropagatesWithoutWrites(t *testing.T) {
	conn := &scriptedConnector{
		completeErr: fmt.Errorf("%w: connection refused", entity.ErrUpstreamUnavailable),
	}
	uc, repo := newTestUsecase(t, conn)

	userID := uuid.New().String()
	_, err := repo.Create(context.Background(), entity.Profile{ID: userID})
	require.NoError(t, err)
	writesBefore := repo.writes

	_, err = uc.HandleTurn(context.Background(), &entity.OnboardingTurnRequest{
		UserID: userID,
		Input:  "Bob",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrUpstreamUnavailable))
	assert.Equal(t, writesBefore, repo.writes)
}

func TestHandleTurnWhitespaceInputIsTreatedAsAbsent(t *testing.T) {
	conn := &scriptedConnector{}
	uc, _ := newTestUsecase(t, conn)

	resp, err := uc.HandleTurn(context.Background(), &entity.OnboardingTurnRequest{
		UserID: uuid.New().String(),
		Input:  "   \n",
	})
	require.NoError(t, err)

	// no validation happened, the engine just asked step 0's question
	assert.Empty(t, conn.lastValidated)
	assert.Equal(t, 0, conn.lastReplyStep)
	assert.Contains(t, resp.Response, "first name")
}
