package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/types"
)

type ChallengeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, challenge *types.Challenge) (*types.Challenge, error)
	GetByID(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) (*types.Challenge, error)
	List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Challenge, error)
	NameExists(ctx context.Context, tx *gorm.DB, name string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, challenge *types.Challenge) (*types.Challenge, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) error
}

type challengeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChallengeRepo(db *gorm.DB, baseLog *logger.Logger) ChallengeRepo {
	repoLog := baseLog.With("repo", "ChallengeRepo")
	return &challengeRepo{db: db, log: repoLog}
}

func (cr *challengeRepo) Create(ctx context.Context, tx *gorm.DB, challenge *types.Challenge) (*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if err := transaction.WithContext(ctx).Create(challenge).Error; err != nil {
		return nil, err
	}
	return challenge, nil
}

func (cr *challengeRepo) GetByID(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) (*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Challenge
	if err := transaction.WithContext(ctx).
		Where("id = ?", challengeID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *challengeRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Challenge
	query := transaction.WithContext(ctx)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *challengeRepo) NameExists(ctx context.Context, tx *gorm.DB, name string, excludeID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var count int64
	query := transaction.WithContext(ctx).
		Model(&types.Challenge{}).
		Where("name = ?", name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (cr *challengeRepo) Update(ctx context.Context, tx *gorm.DB, challenge *types.Challenge) (*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if err := transaction.WithContext(ctx).Save(challenge).Error; err != nil {
		return nil, err
	}
	return challenge, nil
}

func (cr *challengeRepo) DeleteByID(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", challengeID).
		Delete(&types.Challenge{}).Error
}
