package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/types"
)

type ActivityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, activity *types.Activity) (*types.Activity, error)
	GetByID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) (*types.Activity, error)
	List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Activity, error)
	NameExists(ctx context.Context, tx *gorm.DB, name string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, activity *types.Activity) (*types.Activity, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) error
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	repoLog := baseLog.With("repo", "ActivityRepo")
	return &activityRepo{db: db, log: repoLog}
}

func (ar *activityRepo) Create(ctx context.Context, tx *gorm.DB, activity *types.Activity) (*types.Activity, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if err := transaction.WithContext(ctx).Create(activity).Error; err != nil {
		return nil, err
	}
	return activity, nil
}

func (ar *activityRepo) GetByID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) (*types.Activity, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var result types.Activity
	if err := transaction.WithContext(ctx).
		Where("id = ?", activityID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *activityRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Activity, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Activity
	query := transaction.WithContext(ctx)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *activityRepo) NameExists(ctx context.Context, tx *gorm.DB, name string, excludeID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var count int64
	query := transaction.WithContext(ctx).
		Model(&types.Activity{}).
		Where("name = ?", name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ar *activityRepo) Update(ctx context.Context, tx *gorm.DB, activity *types.Activity) (*types.Activity, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if err := transaction.WithContext(ctx).Save(activity).Error; err != nil {
		return nil, err
	}
	return activity, nil
}

func (ar *activityRepo) DeleteByID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", activityID).
		Delete(&types.Activity{}).Error
}
