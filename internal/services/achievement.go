package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isekai-health/backend/internal/cache"
	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/repos"
	"github.com/isekai-health/backend/internal/types"
)

type AchievementInput struct {
	Name               *string `json:"name"`
	Description        *string `json:"description"`
	Active             *bool   `json:"active"`
	CriterionKind      *string `json:"criterion_kind"`
	CriterionThreshold *int    `json:"criterion_threshold"`
	Icon               *string `json:"icon"`
	Reward             *string `json:"reward"`
}

type AchievementService interface {
	Create(ctx context.Context, input AchievementInput) (*types.Achievement, error)
	List(ctx context.Context) ([]*types.Achievement, error)
	GetByID(ctx context.Context, achievementID uuid.UUID) (*types.Achievement, error)
	Update(ctx context.Context, achievementID uuid.UUID, input AchievementInput) (*types.Achievement, error)
	Delete(ctx context.Context, achievementID uuid.UUID) error
}

type achievementService struct {
	db              *gorm.DB
	log             *logger.Logger
	achievementRepo repos.AchievementRepo
	catalogCache    *cache.CatalogCache
}

func NewAchievementService(db *gorm.DB, log *logger.Logger, achievementRepo repos.AchievementRepo, catalogCache *cache.CatalogCache) AchievementService {
	serviceLog := log.With("service", "AchievementService")
	return &achievementService{db: db, log: serviceLog, achievementRepo: achievementRepo, catalogCache: catalogCache}
}

func validAchievementCriterion(kind string) bool {
	switch types.AchievementCriterionKind(kind) {
	case types.AchievementCriterionTherapiesCompleted,
		types.AchievementCriterionLevelReached,
		types.AchievementCriterionXPAccumulated,
		types.AchievementCriterionNone:
		return true
	}
	return false
}

func (as *achievementService) Create(ctx context.Context, input AchievementInput) (*types.Achievement, error) {
	name := deref(input.Name)
	description := deref(input.Description)
	if strings.TrimSpace(name) == "" || strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: name and description are required", ErrInvalidInput)
	}
	criterionKind := deref(input.CriterionKind)
	if criterionKind == "" {
		criterionKind = string(types.AchievementCriterionNone)
	}
	if !validAchievementCriterion(criterionKind) {
		return nil, fmt.Errorf("%w: unknown criterion kind %q", ErrInvalidInput, criterionKind)
	}
	threshold := derefInt(input.CriterionThreshold, 0)
	if threshold < 0 {
		return nil, fmt.Errorf("%w: criterion threshold must be non-negative", ErrInvalidInput)
	}

	exists, err := as.achievementRepo.NameExists(ctx, nil, name, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check achievement name: %w", err)
	}
	if exists {
		return nil, ErrNameTaken
	}

	achievement := &types.Achievement{
		ID:                 uuid.New(),
		Name:               name,
		Description:        description,
		Active:             derefBool(input.Active, true),
		CriterionKind:      types.AchievementCriterionKind(criterionKind),
		CriterionThreshold: threshold,
		Icon:               deref(input.Icon),
		Reward:             derefWithDefault(input.Reward, "badge"),
	}
	created, err := as.achievementRepo.Create(ctx, nil, achievement)
	if err != nil {
		return nil, err
	}
	as.invalidate(ctx)
	return created, nil
}

func (as *achievementService) List(ctx context.Context) ([]*types.Achievement, error) {
	return as.achievementRepo.List(ctx, nil, !isStaff(ctx))
}

func (as *achievementService) GetByID(ctx context.Context, achievementID uuid.UUID) (*types.Achievement, error) {
	achievement, err := as.achievementRepo.GetByID(ctx, nil, achievementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAchievementNotFound
		}
		return nil, fmt.Errorf("load achievement: %w", err)
	}
	if !achievement.Active && !isStaff(ctx) {
		return nil, ErrNotActive
	}
	return achievement, nil
}

func (as *achievementService) Update(ctx context.Context, achievementID uuid.UUID, input AchievementInput) (*types.Achievement, error) {
	achievement, err := as.achievementRepo.GetByID(ctx, nil, achievementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAchievementNotFound
		}
		return nil, fmt.Errorf("load achievement: %w", err)
	}

	if input.Name != nil && *input.Name != achievement.Name {
		exists, err := as.achievementRepo.NameExists(ctx, nil, *input.Name, achievement.ID)
		if err != nil {
			return nil, fmt.Errorf("check achievement name: %w", err)
		}
		if exists {
			return nil, ErrNameTaken
		}
		achievement.Name = *input.Name
	}
	if input.Description != nil {
		achievement.Description = *input.Description
	}
	if input.Active != nil {
		achievement.Active = *input.Active
	}
	if input.CriterionKind != nil {
		if !validAchievementCriterion(*input.CriterionKind) {
			return nil, fmt.Errorf("%w: unknown criterion kind %q", ErrInvalidInput, *input.CriterionKind)
		}
		achievement.CriterionKind = types.AchievementCriterionKind(*input.CriterionKind)
	}
	if input.CriterionThreshold != nil {
		if *input.CriterionThreshold < 0 {
			return nil, fmt.Errorf("%w: criterion threshold must be non-negative", ErrInvalidInput)
		}
		achievement.CriterionThreshold = *input.CriterionThreshold
	}
	if input.Icon != nil {
		achievement.Icon = *input.Icon
	}
	if input.Reward != nil {
		achievement.Reward = *input.Reward
	}

	updated, err := as.achievementRepo.Update(ctx, nil, achievement)
	if err != nil {
		return nil, err
	}
	as.invalidate(ctx)
	return updated, nil
}

func (as *achievementService) Delete(ctx context.Context, achievementID uuid.UUID) error {
	if _, err := as.achievementRepo.GetByID(ctx, nil, achievementID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAchievementNotFound
		}
		return fmt.Errorf("load achievement: %w", err)
	}
	if err := as.achievementRepo.DeleteByID(ctx, nil, achievementID); err != nil {
		return err
	}
	as.invalidate(ctx)
	return nil
}

func (as *achievementService) invalidate(ctx context.Context) {
	if as.catalogCache != nil {
		as.catalogCache.InvalidateAchievements(ctx)
	}
}

func derefWithDefault(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
