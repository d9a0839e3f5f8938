package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/types"
)

type AchievementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, achievement *types.Achievement) (*types.Achievement, error)
	GetByID(ctx context.Context, tx *gorm.DB, achievementID uuid.UUID) (*types.Achievement, error)
	List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Achievement, error)
	NameExists(ctx context.Context, tx *gorm.DB, name string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, achievement *types.Achievement) (*types.Achievement, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, achievementID uuid.UUID) error
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	repoLog := baseLog.With("repo", "AchievementRepo")
	return &achievementRepo{db: db, log: repoLog}
}

func (ar *achievementRepo) Create(ctx context.Context, tx *gorm.DB, achievement *types.Achievement) (*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if err := transaction.WithContext(ctx).Create(achievement).Error; err != nil {
		return nil, err
	}
	return achievement, nil
}

func (ar *achievementRepo) GetByID(ctx context.Context, tx *gorm.DB, achievementID uuid.UUID) (*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var result types.Achievement
	if err := transaction.WithContext(ctx).
		Where("id = ?", achievementID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *achievementRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Achievement
	query := transaction.WithContext(ctx)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *achievementRepo) NameExists(ctx context.Context, tx *gorm.DB, name string, excludeID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var count int64
	query := transaction.WithContext(ctx).
		Model(&types.Achievement{}).
		Where("name = ?", name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ar *achievementRepo) Update(ctx context.Context, tx *gorm.DB, achievement *types.Achievement) (*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if err := transaction.WithContext(ctx).Save(achievement).Error; err != nil {
		return nil, err
	}
	return achievement, nil
}

func (ar *achievementRepo) DeleteByID(ctx context.Context, tx *gorm.DB, achievementID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", achievementID).
		Delete(&types.Achievement{}).Error
}
