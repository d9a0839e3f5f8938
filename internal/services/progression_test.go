package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/progression"
	"github.com/isekai-health/backend/internal/repos"
	"github.com/isekai-health/backend/internal/types"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*types.User
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	for _, u := range users {
		f.users[u.ID] = u
	}
	return users, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UsernameOrEmailExists(ctx context.Context, tx *gorm.DB, username, email string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) TouchLastLogin(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	return nil
}

// fakeProgressionRepo keeps one snapshot per user in memory and enforces the
// same version guard as the postgres implementation. conflictsLeft fails that
// many saves with ErrVersionConflict first, bumping the stored version each
// time to mimic a concurrent writer.
type fakeProgressionRepo struct {
	snaps         map[uuid.UUID]*progression.Snapshot
	saves         int
	conflictsLeft int
	// onConflict mutates the stored snapshot when a simulated concurrent
	// writer wins, so the replay sees their work.
	onConflict func(stored *progression.Snapshot)
}

func newFakeProgressionRepo() *fakeProgressionRepo {
	return &fakeProgressionRepo{snaps: map[uuid.UUID]*progression.Snapshot{}}
}

func (f *fakeProgressionRepo) CreateForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	f.snaps[userID] = progression.NewSnapshot(userID)
	return nil
}

func copySnapshot(s *progression.Snapshot) *progression.Snapshot {
	out := &progression.Snapshot{
		UserID:           s.UserID,
		ExperiencePoints: s.ExperiencePoints,
		CurrentLevel:     s.CurrentLevel,
		Version:          s.Version,
	}
	out.TherapiesCompleted = append(out.TherapiesCompleted, s.TherapiesCompleted...)
	out.AchievementsUnlocked = append(out.AchievementsUnlocked, s.AchievementsUnlocked...)
	out.ChallengesCompleted = append(out.ChallengesCompleted, s.ChallengesCompleted...)
	return out
}

func (f *fakeProgressionRepo) GetSnapshotByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*progression.Snapshot, error) {
	stored, ok := f.snaps[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copySnapshot(stored), nil
}

func (f *fakeProgressionRepo) SaveSnapshot(ctx context.Context, tx *gorm.DB, snap *progression.Snapshot) error {
	stored, ok := f.snaps[snap.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		stored.Version++
		if f.onConflict != nil {
			f.onConflict(stored)
		}
		return repos.ErrVersionConflict
	}
	if snap.Version != stored.Version {
		return repos.ErrVersionConflict
	}
	saved := copySnapshot(snap)
	saved.Version++
	f.snaps[snap.UserID] = saved
	snap.Version++
	f.saves++
	return nil
}

type fakeTherapyRepo struct {
	therapies map[uuid.UUID]*types.Therapy
}

func (f *fakeTherapyRepo) Create(ctx context.Context, tx *gorm.DB, therapy *types.Therapy) (*types.Therapy, error) {
	f.therapies[therapy.ID] = therapy
	return therapy, nil
}

func (f *fakeTherapyRepo) GetByID(ctx context.Context, tx *gorm.DB, therapyID uuid.UUID) (*types.Therapy, error) {
	th, ok := f.therapies[therapyID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return th, nil
}

func (f *fakeTherapyRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Therapy, error) {
	var out []*types.Therapy
	for _, th := range f.therapies {
		if activeOnly && !th.Active {
			continue
		}
		out = append(out, th)
	}
	return out, nil
}

func (f *fakeTherapyRepo) NameExists(ctx context.Context, tx *gorm.DB, name string, excludeID uuid.UUID) (bool, error) {
	for _, th := range f.therapies {
		if th.Name == name && th.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTherapyRepo) Update(ctx context.Context, tx *gorm.DB, therapy *types.Therapy) (*types.Therapy, error) {
	f.therapies[therapy.ID] = therapy
	return therapy, nil
}

func (f *fakeTherapyRepo) DeleteByID(ctx context.Context, tx *gorm.DB, therapyID uuid.UUID) error {
	delete(f.therapies, therapyID)
	return nil
}

type fakeMoodEntryRepo struct {
	entries []*types.MoodEntry
}

func (f *fakeMoodEntryRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.MoodEntry) (*types.MoodEntry, error) {
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeMoodEntryRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.MoodEntry, error) {
	var out []*types.MoodEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeCatalog struct {
	achievements []*types.Achievement
	challenges   []*types.Challenge
}

func (f *fakeCatalog) ListActiveAchievements(ctx context.Context) ([]*types.Achievement, error) {
	return f.achievements, nil
}

func (f *fakeCatalog) ListActiveChallenges(ctx context.Context) ([]*types.Challenge, error) {
	return f.challenges, nil
}

type progressionFixture struct {
	users       *fakeUserRepo
	progression *fakeProgressionRepo
	therapies   *fakeTherapyRepo
	moods       *fakeMoodEntryRepo
	catalog     *fakeCatalog
	service     ProgressionService
	userID      uuid.UUID
}

func newProgressionFixture(t *testing.T) *progressionFixture {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)
	t.Cleanup(func() { log.Sync() })

	userID := uuid.New()
	users := &fakeUserRepo{users: map[uuid.UUID]*types.User{
		userID: {ID: userID, Username: "mika", Email: "mika@example.com", Role: types.RolePatient},
	}}
	progressionRepo := newFakeProgressionRepo()
	require.NoError(t, progressionRepo.CreateForUser(context.Background(), nil, userID))
	therapies := &fakeTherapyRepo{therapies: map[uuid.UUID]*types.Therapy{}}
	moods := &fakeMoodEntryRepo{}
	catalog := &fakeCatalog{}

	svc := NewProgressionService(log, users, progressionRepo, therapies, moods, catalog, progression.DefaultLevelTable())
	return &progressionFixture{
		users:       users,
		progression: progressionRepo,
		therapies:   therapies,
		moods:       moods,
		catalog:     catalog,
		service:     svc,
		userID:      userID,
	}
}

func (fx *progressionFixture) addTherapy(xp, requiredLevel int, active bool) *types.Therapy {
	th := &types.Therapy{
		ID:            uuid.New(),
		Name:          uuid.NewString(),
		Active:        active,
		XPReward:      xp,
		RequiredLevel: requiredLevel,
	}
	fx.therapies.therapies[th.ID] = th
	return th
}

func TestCompleteTherapyAwardsXPAndLevels(t *testing.T) {
	fx := newProgressionFixture(t)
	th := fx.addTherapy(250, 1, true)
	now := time.Now()

	summary, err := fx.service.CompleteTherapy(context.Background(), fx.userID, th.ID, now)
	require.NoError(t, err)
	require.Equal(t, 250, summary.ExperiencePoints)
	require.Equal(t, 2, summary.CurrentLevel)
	require.Len(t, summary.TherapiesCompleted, 1)
	require.Equal(t, th.ID, summary.TherapiesCompleted[0].TherapyID)
	require.Equal(t, 1, fx.progression.saves)

	stored := fx.progression.snaps[fx.userID]
	require.Equal(t, 250, stored.ExperiencePoints)
	require.Equal(t, 2, stored.CurrentLevel)
}

func TestCompleteTherapyRunsAwarders(t *testing.T) {
	fx := newProgressionFixture(t)
	th := fx.addTherapy(250, 1, true)
	fx.catalog.achievements = []*types.Achievement{
		{ID: uuid.New(), Active: true, CriterionKind: types.AchievementCriterionTherapiesCompleted, CriterionThreshold: 1},
	}
	fx.catalog.challenges = []*types.Challenge{
		{ID: uuid.New(), Active: true, ActionKind: types.ChallengeActionXPGained, Threshold: 200, XPReward: 30, Frequency: types.FrequencyOnce},
	}

	summary, err := fx.service.CompleteTherapy(context.Background(), fx.userID, th.ID, time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, summary.NewAchievements)
	require.Equal(t, 1, summary.NewChallenges)
	require.Equal(t, 280, summary.ExperiencePoints)

	// Everything landed in the one persisted write.
	require.Equal(t, 1, fx.progression.saves)
	stored := fx.progression.snaps[fx.userID]
	require.Len(t, stored.AchievementsUnlocked, 1)
	require.Len(t, stored.ChallengesCompleted, 1)
	require.Equal(t, 280, stored.ExperiencePoints)
}

func TestCompleteTherapyRejections(t *testing.T) {
	fx := newProgressionFixture(t)

	_, err := fx.service.CompleteTherapy(context.Background(), fx.userID, uuid.New(), time.Now())
	require.ErrorIs(t, err, ErrTherapyNotFound)

	inactive := fx.addTherapy(100, 1, false)
	_, err = fx.service.CompleteTherapy(context.Background(), fx.userID, inactive.ID, time.Now())
	require.ErrorIs(t, err, progression.ErrTherapyInactive)

	locked := fx.addTherapy(100, 5, true)
	_, err = fx.service.CompleteTherapy(context.Background(), fx.userID, locked.ID, time.Now())
	require.ErrorIs(t, err, progression.ErrLevelTooLow)

	require.Equal(t, 0, fx.progression.saves)
}

func TestCompleteTherapyDuplicate(t *testing.T) {
	fx := newProgressionFixture(t)
	th := fx.addTherapy(100, 1, true)

	_, err := fx.service.CompleteTherapy(context.Background(), fx.userID, th.ID, time.Now())
	require.NoError(t, err)

	_, err = fx.service.CompleteTherapy(context.Background(), fx.userID, th.ID, time.Now())
	require.ErrorIs(t, err, progression.ErrAlreadyCompleted)
	require.Equal(t, 1, fx.progression.saves)
	require.Equal(t, 100, fx.progression.snaps[fx.userID].ExperiencePoints)
}

func TestCompleteTherapyReplaysOnConflict(t *testing.T) {
	fx := newProgressionFixture(t)
	th := fx.addTherapy(100, 1, true)
	fx.progression.conflictsLeft = 1

	summary, err := fx.service.CompleteTherapy(context.Background(), fx.userID, th.ID, time.Now())
	require.NoError(t, err)
	require.Equal(t, 100, summary.ExperiencePoints)
	require.Len(t, summary.TherapiesCompleted, 1)
	require.Equal(t, 1, fx.progression.saves)
}

func TestCompleteTherapyConflictReplaySeesDuplicate(t *testing.T) {
	fx := newProgressionFixture(t)
	th := fx.addTherapy(100, 1, true)

	// The concurrent writer completed the same therapy first: the replay must
	// come back as a duplicate, not a double award.
	fx.progression.conflictsLeft = 1
	fx.progression.onConflict = func(stored *progression.Snapshot) {
		stored.TherapiesCompleted = append(stored.TherapiesCompleted, progression.TherapyCompletion{
			TherapyID:   th.ID,
			XPAwarded:   th.XPReward,
			CompletedAt: time.Now(),
		})
		stored.ExperiencePoints += th.XPReward
	}

	_, err := fx.service.CompleteTherapy(context.Background(), fx.userID, th.ID, time.Now())
	require.ErrorIs(t, err, progression.ErrAlreadyCompleted)
	require.Equal(t, 0, fx.progression.saves)
	require.Equal(t, 100, fx.progression.snaps[fx.userID].ExperiencePoints)
}

func TestCompleteTherapyGivesUpAfterRepeatedConflicts(t *testing.T) {
	fx := newProgressionFixture(t)
	th := fx.addTherapy(100, 1, true)
	fx.progression.conflictsLeft = maxPersistAttempts

	_, err := fx.service.CompleteTherapy(context.Background(), fx.userID, th.ID, time.Now())
	require.ErrorIs(t, err, ErrConcurrentUpdate)
}

func TestRecordMoodEntryValidation(t *testing.T) {
	fx := newProgressionFixture(t)

	_, err := fx.service.RecordMoodEntry(context.Background(), fx.userID, "ecstatic", "", time.Now())
	require.ErrorIs(t, err, ErrInvalidInput)

	long := make([]byte, maxMoodNotesLen+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = fx.service.RecordMoodEntry(context.Background(), fx.userID, types.MoodGood, string(long), time.Now())
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = fx.service.RecordMoodEntry(context.Background(), uuid.New(), types.MoodGood, "", time.Now())
	require.ErrorIs(t, err, ErrUserNotFound)

	require.Empty(t, fx.moods.entries)
}

func TestRecordMoodEntryAwardsChallenges(t *testing.T) {
	fx := newProgressionFixture(t)
	daily := &types.Challenge{
		ID:         uuid.New(),
		Active:     true,
		ActionKind: types.ChallengeActionMoodEntry,
		Threshold:  1,
		XPReward:   15,
		Frequency:  types.FrequencyDaily,
	}
	fx.catalog.challenges = []*types.Challenge{daily}
	now := time.Now()

	entry, err := fx.service.RecordMoodEntry(context.Background(), fx.userID, types.MoodGood, "slept well", now)
	require.NoError(t, err)
	require.Equal(t, types.MoodGood, entry.Mood)
	require.Len(t, fx.moods.entries, 1)

	stored := fx.progression.snaps[fx.userID]
	require.Len(t, stored.ChallengesCompleted, 1)
	require.Equal(t, 15, stored.ExperiencePoints)

	// A second entry the same day records fine but awards nothing new.
	_, err = fx.service.RecordMoodEntry(context.Background(), fx.userID, types.MoodNeutral, "", now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, fx.moods.entries, 2)
	require.Len(t, fx.progression.snaps[fx.userID].ChallengesCompleted, 1)
	require.Equal(t, 15, fx.progression.snaps[fx.userID].ExperiencePoints)
}

func TestGetProfile(t *testing.T) {
	fx := newProgressionFixture(t)
	th := fx.addTherapy(250, 1, true)
	_, err := fx.service.CompleteTherapy(context.Background(), fx.userID, th.ID, time.Now())
	require.NoError(t, err)

	profile, err := fx.service.GetProfile(context.Background(), fx.userID)
	require.NoError(t, err)
	require.Equal(t, "mika", profile.Username)
	require.Equal(t, types.RolePatient, profile.Role)
	require.Equal(t, 250, profile.ExperiencePoints)
	require.Equal(t, 2, profile.CurrentLevel)
	require.Len(t, profile.TherapiesCompleted, 1)

	_, err = fx.service.GetProfile(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrUserNotFound)
}
