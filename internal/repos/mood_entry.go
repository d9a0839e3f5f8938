package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/types"
)

type MoodEntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.MoodEntry) (*types.MoodEntry, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.MoodEntry, error)
}

type moodEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMoodEntryRepo(db *gorm.DB, baseLog *logger.Logger) MoodEntryRepo {
	repoLog := baseLog.With("repo", "MoodEntryRepo")
	return &moodEntryRepo{db: db, log: repoLog}
}

func (mr *moodEntryRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.MoodEntry) (*types.MoodEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (mr *moodEntryRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.MoodEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.MoodEntry
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
