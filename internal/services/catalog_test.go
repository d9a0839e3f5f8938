package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/requestdata"
	"github.com/isekai-health/backend/internal/types"
)

type fakeChallengeRepo struct {
	challenges map[uuid.UUID]*types.Challenge
}

func (f *fakeChallengeRepo) Create(ctx context.Context, tx *gorm.DB, challenge *types.Challenge) (*types.Challenge, error) {
	f.challenges[challenge.ID] = challenge
	return challenge, nil
}

func (f *fakeChallengeRepo) GetByID(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) (*types.Challenge, error) {
	ch, ok := f.challenges[challengeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ch, nil
}

func (f *fakeChallengeRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Challenge, error) {
	var out []*types.Challenge
	for _, ch := range f.challenges {
		if activeOnly && !ch.Active {
			continue
		}
		out = append(out, ch)
	}
	return out, nil
}

func (f *fakeChallengeRepo) NameExists(ctx context.Context, tx *gorm.DB, name string, excludeID uuid.UUID) (bool, error) {
	for _, ch := range f.challenges {
		if ch.Name == name && ch.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeChallengeRepo) Update(ctx context.Context, tx *gorm.DB, challenge *types.Challenge) (*types.Challenge, error) {
	f.challenges[challenge.ID] = challenge
	return challenge, nil
}

func (f *fakeChallengeRepo) DeleteByID(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) error {
	delete(f.challenges, challengeID)
	return nil
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)
	t.Cleanup(func() { log.Sync() })
	return log
}

func staffContext() context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: uuid.New(),
		Role:   types.RoleTherapist,
	})
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestChallengeServiceCreateValidation(t *testing.T) {
	log := newTestLogger(t)
	repo := &fakeChallengeRepo{challenges: map[uuid.UUID]*types.Challenge{}}
	svc := NewChallengeService(nil, log, repo, nil)
	ctx := staffContext()

	_, err := svc.Create(ctx, ChallengeInput{Description: strPtr("desc")})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, ChallengeInput{
		Name:        strPtr("Daily check-in"),
		Description: strPtr("desc"),
		ActionKind:  strPtr("loginStreak"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, ChallengeInput{
		Name:        strPtr("Daily check-in"),
		Description: strPtr("desc"),
		Frequency:   strPtr("fortnightly"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, ChallengeInput{
		Name:        strPtr("Daily check-in"),
		Description: strPtr("desc"),
		XPReward:    intPtr(-5),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	require.Empty(t, repo.challenges)
}

func TestChallengeServiceCreateDefaultsAndNameUniqueness(t *testing.T) {
	log := newTestLogger(t)
	repo := &fakeChallengeRepo{challenges: map[uuid.UUID]*types.Challenge{}}
	svc := NewChallengeService(nil, log, repo, nil)
	ctx := staffContext()

	created, err := svc.Create(ctx, ChallengeInput{
		Name:        strPtr("Daily check-in"),
		Description: strPtr("Record your mood once a day"),
		ActionKind:  strPtr(string(types.ChallengeActionMoodEntry)),
		Threshold:   intPtr(1),
		XPReward:    intPtr(15),
	})
	require.NoError(t, err)
	require.Equal(t, types.FrequencyDaily, created.Frequency)
	require.False(t, created.Active)

	_, err = svc.Create(ctx, ChallengeInput{
		Name:        strPtr("Daily check-in"),
		Description: strPtr("duplicate"),
	})
	require.ErrorIs(t, err, ErrNameTaken)
}

func TestChallengeServiceVisibilityByRole(t *testing.T) {
	log := newTestLogger(t)
	repo := &fakeChallengeRepo{challenges: map[uuid.UUID]*types.Challenge{}}
	svc := NewChallengeService(nil, log, repo, nil)

	hidden := &types.Challenge{ID: uuid.New(), Name: "Hidden", Description: "d", Active: false, Frequency: types.FrequencyOnce}
	visible := &types.Challenge{ID: uuid.New(), Name: "Visible", Description: "d", Active: true, Frequency: types.FrequencyOnce}
	repo.challenges[hidden.ID] = hidden
	repo.challenges[visible.ID] = visible

	patientCtx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: uuid.New(),
		Role:   types.RolePatient,
	})

	listed, err := svc.List(patientCtx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, visible.ID, listed[0].ID)

	_, err = svc.GetByID(patientCtx, hidden.ID)
	require.ErrorIs(t, err, ErrNotActive)

	staffListed, err := svc.List(staffContext())
	require.NoError(t, err)
	require.Len(t, staffListed, 2)

	got, err := svc.GetByID(staffContext(), hidden.ID)
	require.NoError(t, err)
	require.Equal(t, hidden.ID, got.ID)
}

func TestChallengeServiceUpdateAndDelete(t *testing.T) {
	log := newTestLogger(t)
	repo := &fakeChallengeRepo{challenges: map[uuid.UUID]*types.Challenge{}}
	svc := NewChallengeService(nil, log, repo, nil)
	ctx := staffContext()

	created, err := svc.Create(ctx, ChallengeInput{
		Name:        strPtr("Weekly streak"),
		Description: strPtr("desc"),
		Frequency:   strPtr(string(types.FrequencyWeekly)),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, ChallengeInput{
		Active:   boolPtr(true),
		XPReward: intPtr(40),
	})
	require.NoError(t, err)
	require.True(t, updated.Active)
	require.Equal(t, 40, updated.XPReward)
	require.Equal(t, types.FrequencyWeekly, updated.Frequency)

	_, err = svc.Update(ctx, uuid.New(), ChallengeInput{})
	require.ErrorIs(t, err, ErrChallengeNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, created.ID), ErrChallengeNotFound)
}

func TestAuthRegisterValidation(t *testing.T) {
	log := newTestLogger(t)
	users := &fakeUserRepo{users: map[uuid.UUID]*types.User{}}
	svc := NewAuthService(nil, log, users, nil, nil, "secret", time.Hour, 24*time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@b.com", "secret1", "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, "mika", "not-an-email", "secret1", "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, "mika", "a@b.com", "short", "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, "mika", "a@b.com", "secret1", "superuser")
	require.ErrorIs(t, err, ErrInvalidInput)

	existing := &types.User{ID: uuid.New(), Username: "mika", Email: "mika@example.com"}
	users.users[existing.ID] = existing
	_, err = svc.Register(ctx, "mika", "new@example.com", "secret1", "")
	require.ErrorIs(t, err, ErrNameTaken)
}
