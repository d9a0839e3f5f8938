package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/progression"
	"github.com/isekai-health/backend/internal/repos"
	"github.com/isekai-health/backend/internal/types"
)

// How many times a completion is replayed when another request persisted the
// same user's progression first. Each replay reloads and re-evaluates, so a
// replayed duplicate turns into ErrAlreadyCompleted instead of a double award.
const maxPersistAttempts = 3

const maxMoodNotesLen = 200

// CatalogSource yields the active definitions the awarders scan. Backed by
// the redis catalog cache in production.
type CatalogSource interface {
	ListActiveAchievements(ctx context.Context) ([]*types.Achievement, error)
	ListActiveChallenges(ctx context.Context) ([]*types.Challenge, error)
}

type ProgressionSummary struct {
	UserID               uuid.UUID                         `json:"user_id"`
	ExperiencePoints     int                               `json:"experience_points"`
	CurrentLevel         int                               `json:"current_level"`
	TherapiesCompleted   []progression.TherapyCompletion   `json:"therapies_completed"`
	AchievementsUnlocked []progression.AchievementUnlock   `json:"achievements_unlocked"`
	ChallengesCompleted  []progression.ChallengeCompletion `json:"challenges_completed"`
	NewAchievements      int                               `json:"new_achievements"`
	NewChallenges        int                               `json:"new_challenges"`
}

type Profile struct {
	ID                   uuid.UUID                         `json:"id"`
	Username             string                            `json:"username"`
	Email                string                            `json:"email"`
	Role                 string                            `json:"role"`
	ExperiencePoints     int                               `json:"experience_points"`
	CurrentLevel         int                               `json:"current_level"`
	TherapiesCompleted   []progression.TherapyCompletion   `json:"therapies_completed"`
	AchievementsUnlocked []progression.AchievementUnlock   `json:"achievements_unlocked"`
	ChallengesCompleted  []progression.ChallengeCompletion `json:"challenges_completed"`
	CreatedAt            time.Time                         `json:"created_at"`
}

// ProgressionService is the single writer of user progression. Every
// qualifying action funnels through here: evaluate, mutate the snapshot in
// memory, run the awarders, persist once.
type ProgressionService interface {
	CompleteTherapy(ctx context.Context, userID, therapyID uuid.UUID, now time.Time) (*ProgressionSummary, error)
	RecordMoodEntry(ctx context.Context, userID uuid.UUID, mood, notes string, now time.Time) (*types.MoodEntry, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
}

type progressionService struct {
	log             *logger.Logger
	userRepo        repos.UserRepo
	progressionRepo repos.UserProgressionRepo
	therapyRepo     repos.TherapyRepo
	moodEntryRepo   repos.MoodEntryRepo
	catalog         CatalogSource
	levels          progression.LevelTable
}

func NewProgressionService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	progressionRepo repos.UserProgressionRepo,
	therapyRepo repos.TherapyRepo,
	moodEntryRepo repos.MoodEntryRepo,
	catalog CatalogSource,
	levels progression.LevelTable,
) ProgressionService {
	serviceLog := log.With("service", "ProgressionService")
	if levels == nil {
		levels = progression.DefaultLevelTable()
	}
	return &progressionService{
		log:             serviceLog,
		userRepo:        userRepo,
		progressionRepo: progressionRepo,
		therapyRepo:     therapyRepo,
		moodEntryRepo:   moodEntryRepo,
		catalog:         catalog,
		levels:          levels,
	}
}

func (ps *progressionService) CompleteTherapy(ctx context.Context, userID, therapyID uuid.UUID, now time.Time) (*ProgressionSummary, error) {
	therapy, err := ps.therapyRepo.GetByID(ctx, nil, therapyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTherapyNotFound
		}
		return nil, fmt.Errorf("load therapy: %w", err)
	}

	for attempt := 0; attempt < maxPersistAttempts; attempt++ {
		snap, err := ps.loadSnapshot(ctx, userID)
		if err != nil {
			return nil, err
		}

		if err := progression.CanCompleteTherapy(snap, therapy); err != nil {
			return nil, err
		}

		snap.TherapiesCompleted = append(snap.TherapiesCompleted, progression.TherapyCompletion{
			TherapyID:   therapy.ID,
			XPAwarded:   therapy.XPReward,
			CompletedAt: now,
		})
		snap.ExperiencePoints += therapy.XPReward
		snap.CurrentLevel = progression.AdvanceLevel(ps.levels, snap.CurrentLevel, snap.ExperiencePoints)

		newAchievements := ps.scanAchievements(ctx, snap, now)
		newChallenges := ps.scanChallenges(ctx, snap, progression.ActionSignal{
			Kind:      types.ChallengeActionTherapiesCompleted,
			Magnitude: len(snap.TherapiesCompleted),
		}, now)
		newChallenges += ps.scanChallenges(ctx, snap, progression.ActionSignal{
			Kind:      types.ChallengeActionXPGained,
			Magnitude: snap.ExperiencePoints,
		}, now)

		// Single commit point: the one write that carries the completion, the
		// XP, the level and every award from this action.
		if err := ps.progressionRepo.SaveSnapshot(ctx, nil, snap); err != nil {
			if errors.Is(err, repos.ErrVersionConflict) {
				ps.log.Debug("Progression moved underneath us, replaying", "user_id", userID, "attempt", attempt+1)
				continue
			}
			return nil, fmt.Errorf("persist progression: %w", err)
		}

		ps.log.Info("Therapy completed",
			"user_id", userID,
			"therapy_id", therapyID,
			"xp_awarded", therapy.XPReward,
			"level", snap.CurrentLevel,
			"new_achievements", newAchievements,
			"new_challenges", newChallenges,
		)
		return summarize(snap, newAchievements, newChallenges), nil
	}
	return nil, ErrConcurrentUpdate
}

func (ps *progressionService) RecordMoodEntry(ctx context.Context, userID uuid.UUID, mood, notes string, now time.Time) (*types.MoodEntry, error) {
	mood = strings.TrimSpace(mood)
	if !types.ValidMood(mood) {
		return nil, fmt.Errorf("%w: unknown mood value %q", ErrInvalidInput, mood)
	}
	if len(notes) > maxMoodNotesLen {
		return nil, fmt.Errorf("%w: notes longer than %d characters", ErrInvalidInput, maxMoodNotesLen)
	}
	if _, err := ps.userRepo.GetByID(ctx, nil, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	entry := &types.MoodEntry{
		ID:         uuid.New(),
		UserID:     userID,
		Mood:       mood,
		Notes:      notes,
		RecordedAt: now,
	}
	entry, err := ps.moodEntryRepo.Create(ctx, nil, entry)
	if err != nil {
		return nil, fmt.Errorf("record mood entry: %w", err)
	}

	// The entry stands regardless of how the challenge scan goes; a missed
	// award is re-evaluated on the next qualifying entry.
	ps.awardMoodChallenges(ctx, userID, now)

	return entry, nil
}

// awardMoodChallenges runs the challenge awarder for one mood entry. The
// magnitude is a fixed 1 per entry, not a running total.
func (ps *progressionService) awardMoodChallenges(ctx context.Context, userID uuid.UUID, now time.Time) {
	for attempt := 0; attempt < maxPersistAttempts; attempt++ {
		snap, err := ps.loadSnapshot(ctx, userID)
		if err != nil {
			ps.log.Warn("Mood challenge scan skipped: progression unavailable", "user_id", userID, "error", err)
			return
		}
		awarded := ps.scanChallenges(ctx, snap, progression.ActionSignal{
			Kind:      types.ChallengeActionMoodEntry,
			Magnitude: 1,
		}, now)
		if awarded == 0 {
			return
		}
		if err := ps.progressionRepo.SaveSnapshot(ctx, nil, snap); err != nil {
			if errors.Is(err, repos.ErrVersionConflict) {
				continue
			}
			ps.log.Warn("Mood challenge award not persisted", "user_id", userID, "error", err)
			return
		}
		ps.log.Info("Mood entry awarded challenges", "user_id", userID, "count", awarded)
		return
	}
	ps.log.Warn("Mood challenge award abandoned after repeated conflicts", "user_id", userID)
}

func (ps *progressionService) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := ps.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	snap, err := ps.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:                   user.ID,
		Username:             user.Username,
		Email:                user.Email,
		Role:                 user.Role,
		ExperiencePoints:     snap.ExperiencePoints,
		CurrentLevel:         snap.CurrentLevel,
		TherapiesCompleted:   snap.TherapiesCompleted,
		AchievementsUnlocked: snap.AchievementsUnlocked,
		ChallengesCompleted:  snap.ChallengesCompleted,
		CreatedAt:            user.CreatedAt,
	}, nil
}

func (ps *progressionService) loadSnapshot(ctx context.Context, userID uuid.UUID) (*progression.Snapshot, error) {
	snap, err := ps.progressionRepo.GetSnapshotByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load progression: %w", err)
	}
	return snap, nil
}

// scanAchievements fetches the active definitions and runs the awarder. A
// fetch failure is logged and skipped so it never fails the primary action;
// the scan is idempotent and will catch up on the next one.
func (ps *progressionService) scanAchievements(ctx context.Context, snap *progression.Snapshot, now time.Time) int {
	defs, err := ps.catalog.ListActiveAchievements(ctx)
	if err != nil {
		ps.log.Warn("Achievement scan skipped: definitions unavailable", "user_id", snap.UserID, "error", err)
		return 0
	}
	return progression.AwardAchievements(ps.log, snap, defs, now)
}

func (ps *progressionService) scanChallenges(ctx context.Context, snap *progression.Snapshot, signal progression.ActionSignal, now time.Time) int {
	defs, err := ps.catalog.ListActiveChallenges(ctx)
	if err != nil {
		ps.log.Warn("Challenge scan skipped: definitions unavailable", "user_id", snap.UserID, "error", err)
		return 0
	}
	return progression.AwardChallenges(ps.log, snap, defs, signal, ps.levels, now)
}

func summarize(snap *progression.Snapshot, newAchievements, newChallenges int) *ProgressionSummary {
	return &ProgressionSummary{
		UserID:               snap.UserID,
		ExperiencePoints:     snap.ExperiencePoints,
		CurrentLevel:         snap.CurrentLevel,
		TherapiesCompleted:   snap.TherapiesCompleted,
		AchievementsUnlocked: snap.AchievementsUnlocked,
		ChallengesCompleted:  snap.ChallengesCompleted,
		NewAchievements:      newAchievements,
		NewChallenges:        newChallenges,
	}
}
