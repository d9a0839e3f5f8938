package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/repos"
	"github.com/isekai-health/backend/internal/types"
)

type ActivityInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ResourceURL *string `json:"resource_url"`
	Active      *bool   `json:"active"`
}

type ActivityService interface {
	Create(ctx context.Context, input ActivityInput) (*types.Activity, error)
	List(ctx context.Context) ([]*types.Activity, error)
	GetByID(ctx context.Context, activityID uuid.UUID) (*types.Activity, error)
	Update(ctx context.Context, activityID uuid.UUID, input ActivityInput) (*types.Activity, error)
	Delete(ctx context.Context, activityID uuid.UUID) error
}

type activityService struct {
	db           *gorm.DB
	log          *logger.Logger
	activityRepo repos.ActivityRepo
}

func NewActivityService(db *gorm.DB, log *logger.Logger, activityRepo repos.ActivityRepo) ActivityService {
	serviceLog := log.With("service", "ActivityService")
	return &activityService{db: db, log: serviceLog, activityRepo: activityRepo}
}

func (as *activityService) Create(ctx context.Context, input ActivityInput) (*types.Activity, error) {
	name := deref(input.Name)
	description := deref(input.Description)
	if strings.TrimSpace(name) == "" || strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: name and description are required", ErrInvalidInput)
	}

	exists, err := as.activityRepo.NameExists(ctx, nil, name, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check activity name: %w", err)
	}
	if exists {
		return nil, ErrNameTaken
	}

	activity := &types.Activity{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		ResourceURL: deref(input.ResourceURL),
		Active:      derefBool(input.Active, true),
	}
	return as.activityRepo.Create(ctx, nil, activity)
}

func (as *activityService) List(ctx context.Context) ([]*types.Activity, error) {
	return as.activityRepo.List(ctx, nil, !isStaff(ctx))
}

func (as *activityService) GetByID(ctx context.Context, activityID uuid.UUID) (*types.Activity, error) {
	activity, err := as.activityRepo.GetByID(ctx, nil, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("load activity: %w", err)
	}
	if !activity.Active && !isStaff(ctx) {
		return nil, ErrNotActive
	}
	return activity, nil
}

func (as *activityService) Update(ctx context.Context, activityID uuid.UUID, input ActivityInput) (*types.Activity, error) {
	activity, err := as.activityRepo.GetByID(ctx, nil, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("load activity: %w", err)
	}

	if input.Name != nil && *input.Name != activity.Name {
		exists, err := as.activityRepo.NameExists(ctx, nil, *input.Name, activity.ID)
		if err != nil {
			return nil, fmt.Errorf("check activity name: %w", err)
		}
		if exists {
			return nil, ErrNameTaken
		}
		activity.Name = *input.Name
	}
	if input.Description != nil {
		activity.Description = *input.Description
	}
	if input.ResourceURL != nil {
		activity.ResourceURL = *input.ResourceURL
	}
	if input.Active != nil {
		activity.Active = *input.Active
	}

	return as.activityRepo.Update(ctx, nil, activity)
}

func (as *activityService) Delete(ctx context.Context, activityID uuid.UUID) error {
	if _, err := as.activityRepo.GetByID(ctx, nil, activityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("load activity: %w", err)
	}
	return as.activityRepo.DeleteByID(ctx, nil, activityID)
}
