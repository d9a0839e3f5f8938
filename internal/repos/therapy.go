package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/types"
)

type TherapyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, therapy *types.Therapy) (*types.Therapy, error)
	GetByID(ctx context.Context, tx *gorm.DB, therapyID uuid.UUID) (*types.Therapy, error)
	List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Therapy, error)
	NameExists(ctx context.Context, tx *gorm.DB, name string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, therapy *types.Therapy) (*types.Therapy, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, therapyID uuid.UUID) error
}

type therapyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTherapyRepo(db *gorm.DB, baseLog *logger.Logger) TherapyRepo {
	repoLog := baseLog.With("repo", "TherapyRepo")
	return &therapyRepo{db: db, log: repoLog}
}

func (tr *therapyRepo) Create(ctx context.Context, tx *gorm.DB, therapy *types.Therapy) (*types.Therapy, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if err := transaction.WithContext(ctx).Create(therapy).Error; err != nil {
		return nil, err
	}
	return therapy, nil
}

func (tr *therapyRepo) GetByID(ctx context.Context, tx *gorm.DB, therapyID uuid.UUID) (*types.Therapy, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var result types.Therapy
	if err := transaction.WithContext(ctx).
		Where("id = ?", therapyID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (tr *therapyRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Therapy, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Therapy
	query := transaction.WithContext(ctx)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *therapyRepo) NameExists(ctx context.Context, tx *gorm.DB, name string, excludeID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var count int64
	query := transaction.WithContext(ctx).
		Model(&types.Therapy{}).
		Where("name = ?", name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (tr *therapyRepo) Update(ctx context.Context, tx *gorm.DB, therapy *types.Therapy) (*types.Therapy, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if err := transaction.WithContext(ctx).Save(therapy).Error; err != nil {
		return nil, err
	}
	return therapy, nil
}

func (tr *therapyRepo) DeleteByID(ctx context.Context, tx *gorm.DB, therapyID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", therapyID).
		Delete(&types.Therapy{}).Error
}
