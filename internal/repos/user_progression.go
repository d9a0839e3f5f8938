package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/progression"
	"github.com/isekai-health/backend/internal/types"
)

// ErrVersionConflict means another request persisted the same user's
// progression between our read and write. Safe to reload and retry.
var ErrVersionConflict = errors.New("progression version conflict")

type UserProgressionRepo interface {
	CreateForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	GetSnapshotByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*progression.Snapshot, error)
	// SaveSnapshot persists the whole snapshot in one update guarded by the
	// version it was loaded at. Returns ErrVersionConflict when the row moved.
	SaveSnapshot(ctx context.Context, tx *gorm.DB, snap *progression.Snapshot) error
}

type userProgressionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressionRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressionRepo {
	repoLog := baseLog.With("repo", "UserProgressionRepo")
	return &userProgressionRepo{db: db, log: repoLog}
}

func (pr *userProgressionRepo) CreateForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	emptyLog := datatypes.JSON([]byte("[]"))
	row := &types.UserProgression{
		ID:                   uuid.New(),
		UserID:               userID,
		ExperiencePoints:     0,
		CurrentLevel:         1,
		TherapiesCompleted:   emptyLog,
		AchievementsUnlocked: emptyLog,
		ChallengesCompleted:  emptyLog,
		Version:              0,
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (pr *userProgressionRepo) GetSnapshotByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*progression.Snapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var row types.UserProgression
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return rowToSnapshot(&row)
}

func (pr *userProgressionRepo) SaveSnapshot(ctx context.Context, tx *gorm.DB, snap *progression.Snapshot) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	therapies, err := json.Marshal(snap.TherapiesCompleted)
	if err != nil {
		return fmt.Errorf("marshal therapies completed: %w", err)
	}
	achievements, err := json.Marshal(snap.AchievementsUnlocked)
	if err != nil {
		return fmt.Errorf("marshal achievements unlocked: %w", err)
	}
	challenges, err := json.Marshal(snap.ChallengesCompleted)
	if err != nil {
		return fmt.Errorf("marshal challenges completed: %w", err)
	}

	result := transaction.WithContext(ctx).
		Model(&types.UserProgression{}).
		Where("user_id = ? AND version = ?", snap.UserID, snap.Version).
		Updates(map[string]interface{}{
			"experience_points":     snap.ExperiencePoints,
			"current_level":         snap.CurrentLevel,
			"therapies_completed":   datatypes.JSON(therapies),
			"achievements_unlocked": datatypes.JSON(achievements),
			"challenges_completed":  datatypes.JSON(challenges),
			"version":               snap.Version + 1,
			"updated_at":            gorm.Expr("now()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	snap.Version++
	return nil
}

func rowToSnapshot(row *types.UserProgression) (*progression.Snapshot, error) {
	snap := &progression.Snapshot{
		UserID:           row.UserID,
		ExperiencePoints: row.ExperiencePoints,
		CurrentLevel:     row.CurrentLevel,
		Version:          row.Version,
	}
	if len(row.TherapiesCompleted) > 0 {
		if err := json.Unmarshal(row.TherapiesCompleted, &snap.TherapiesCompleted); err != nil {
			return nil, fmt.Errorf("unmarshal therapies completed: %w", err)
		}
	}
	if len(row.AchievementsUnlocked) > 0 {
		if err := json.Unmarshal(row.AchievementsUnlocked, &snap.AchievementsUnlocked); err != nil {
			return nil, fmt.Errorf("unmarshal achievements unlocked: %w", err)
		}
	}
	if len(row.ChallengesCompleted) > 0 {
		if err := json.Unmarshal(row.ChallengesCompleted, &snap.ChallengesCompleted); err != nil {
			return nil, fmt.Errorf("unmarshal challenges completed: %w", err)
		}
	}
	return snap, nil
}
