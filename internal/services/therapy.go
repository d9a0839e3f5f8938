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
	"github.com/isekai-health/backend/internal/requestdata"
	"github.com/isekai-health/backend/internal/types"
)

// TherapyInput carries create/update fields. Pointer fields distinguish
// "not provided" from zero values on partial updates.
type TherapyInput struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Kind            *string `json:"kind"`
	DurationMinutes *int    `json:"duration_minutes"`
	Cost            *int    `json:"cost"`
	Active          *bool   `json:"active"`
	ContentURL      *string `json:"content_url"`
	FullText        *string `json:"full_text"`
	XPReward        *int    `json:"xp_reward"`
	RequiredLevel   *int    `json:"required_level"`
}

type TherapyService interface {
	Create(ctx context.Context, input TherapyInput) (*types.Therapy, error)
	List(ctx context.Context) ([]*types.Therapy, error)
	GetByID(ctx context.Context, therapyID uuid.UUID) (*types.Therapy, error)
	Update(ctx context.Context, therapyID uuid.UUID, input TherapyInput) (*types.Therapy, error)
	Delete(ctx context.Context, therapyID uuid.UUID) error
}

type therapyService struct {
	db          *gorm.DB
	log         *logger.Logger
	therapyRepo repos.TherapyRepo
}

func NewTherapyService(db *gorm.DB, log *logger.Logger, therapyRepo repos.TherapyRepo) TherapyService {
	serviceLog := log.With("service", "TherapyService")
	return &therapyService{db: db, log: serviceLog, therapyRepo: therapyRepo}
}

func (ts *therapyService) Create(ctx context.Context, input TherapyInput) (*types.Therapy, error) {
	name := deref(input.Name)
	description := deref(input.Description)
	if strings.TrimSpace(name) == "" || strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: name and description are required", ErrInvalidInput)
	}

	exists, err := ts.therapyRepo.NameExists(ctx, nil, name, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check therapy name: %w", err)
	}
	if exists {
		return nil, ErrNameTaken
	}

	rd := requestdata.GetRequestData(ctx)
	therapy := &types.Therapy{
		ID:              uuid.New(),
		Name:            name,
		Description:     description,
		Kind:            deref(input.Kind),
		DurationMinutes: derefInt(input.DurationMinutes, 0),
		Cost:            derefInt(input.Cost, 0),
		Active:          derefBool(input.Active, false),
		ContentURL:      deref(input.ContentURL),
		FullText:        deref(input.FullText),
		XPReward:        derefInt(input.XPReward, 100),
		RequiredLevel:   derefInt(input.RequiredLevel, 1),
	}
	if rd != nil && rd.UserID != uuid.Nil {
		createdBy := rd.UserID
		therapy.CreatedBy = &createdBy
	}
	if therapy.XPReward < 0 || therapy.RequiredLevel < 1 {
		return nil, fmt.Errorf("%w: xp reward must be non-negative and required level at least 1", ErrInvalidInput)
	}

	return ts.therapyRepo.Create(ctx, nil, therapy)
}

func (ts *therapyService) List(ctx context.Context) ([]*types.Therapy, error) {
	return ts.therapyRepo.List(ctx, nil, !isStaff(ctx))
}

func (ts *therapyService) GetByID(ctx context.Context, therapyID uuid.UUID) (*types.Therapy, error) {
	therapy, err := ts.therapyRepo.GetByID(ctx, nil, therapyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTherapyNotFound
		}
		return nil, fmt.Errorf("load therapy: %w", err)
	}
	if !therapy.Active && !isStaff(ctx) {
		return nil, ErrNotActive
	}
	return therapy, nil
}

func (ts *therapyService) Update(ctx context.Context, therapyID uuid.UUID, input TherapyInput) (*types.Therapy, error) {
	therapy, err := ts.therapyRepo.GetByID(ctx, nil, therapyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTherapyNotFound
		}
		return nil, fmt.Errorf("load therapy: %w", err)
	}

	if input.Name != nil && *input.Name != therapy.Name {
		exists, err := ts.therapyRepo.NameExists(ctx, nil, *input.Name, therapy.ID)
		if err != nil {
			return nil, fmt.Errorf("check therapy name: %w", err)
		}
		if exists {
			return nil, ErrNameTaken
		}
		therapy.Name = *input.Name
	}
	if input.Description != nil {
		therapy.Description = *input.Description
	}
	if input.Kind != nil {
		therapy.Kind = *input.Kind
	}
	if input.DurationMinutes != nil {
		therapy.DurationMinutes = *input.DurationMinutes
	}
	if input.Cost != nil {
		therapy.Cost = *input.Cost
	}
	if input.Active != nil {
		therapy.Active = *input.Active
	}
	if input.ContentURL != nil {
		therapy.ContentURL = *input.ContentURL
	}
	if input.FullText != nil {
		therapy.FullText = *input.FullText
	}
	if input.XPReward != nil {
		therapy.XPReward = *input.XPReward
	}
	if input.RequiredLevel != nil {
		therapy.RequiredLevel = *input.RequiredLevel
	}
	if therapy.XPReward < 0 || therapy.RequiredLevel < 1 {
		return nil, fmt.Errorf("%w: xp reward must be non-negative and required level at least 1", ErrInvalidInput)
	}

	return ts.therapyRepo.Update(ctx, nil, therapy)
}

func (ts *therapyService) Delete(ctx context.Context, therapyID uuid.UUID) error {
	if _, err := ts.therapyRepo.GetByID(ctx, nil, therapyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTherapyNotFound
		}
		return fmt.Errorf("load therapy: %w", err)
	}
	return ts.therapyRepo.DeleteByID(ctx, nil, therapyID)
}

func isStaff(ctx context.Context) bool {
	rd := requestdata.GetRequestData(ctx)
	return rd != nil && types.IsStaff(rd.Role)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int, fallback int) int {
	if i == nil {
		return fallback
	}
	return *i
}

func derefBool(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
