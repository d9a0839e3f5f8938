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

type ChallengeInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
	ActionKind  *string `json:"action_kind"`
	Threshold   *int    `json:"threshold"`
	XPReward    *int    `json:"xp_reward"`
	Frequency   *string `json:"frequency"`
}

type ChallengeService interface {
	Create(ctx context.Context, input ChallengeInput) (*types.Challenge, error)
	List(ctx context.Context) ([]*types.Challenge, error)
	GetByID(ctx context.Context, challengeID uuid.UUID) (*types.Challenge, error)
	Update(ctx context.Context, challengeID uuid.UUID, input ChallengeInput) (*types.Challenge, error)
	Delete(ctx context.Context, challengeID uuid.UUID) error
}

type challengeService struct {
	db            *gorm.DB
	log           *logger.Logger
	challengeRepo repos.ChallengeRepo
	catalogCache  *cache.CatalogCache
}

func NewChallengeService(db *gorm.DB, log *logger.Logger, challengeRepo repos.ChallengeRepo, catalogCache *cache.CatalogCache) ChallengeService {
	serviceLog := log.With("service", "ChallengeService")
	return &challengeService{db: db, log: serviceLog, challengeRepo: challengeRepo, catalogCache: catalogCache}
}

func validChallengeAction(kind string) bool {
	switch types.ChallengeActionKind(kind) {
	case types.ChallengeActionTherapiesCompleted,
		types.ChallengeActionXPGained,
		types.ChallengeActionMoodEntry,
		types.ChallengeActionLevelReached,
		types.ChallengeActionNone:
		return true
	}
	return false
}

func validChallengeFrequency(freq string) bool {
	switch types.ChallengeFrequency(freq) {
	case types.FrequencyOnce, types.FrequencyDaily, types.FrequencyWeekly:
		return true
	}
	return false
}

func (cs *challengeService) Create(ctx context.Context, input ChallengeInput) (*types.Challenge, error) {
	name := deref(input.Name)
	description := deref(input.Description)
	if strings.TrimSpace(name) == "" || strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: name and description are required", ErrInvalidInput)
	}
	actionKind := deref(input.ActionKind)
	if actionKind == "" {
		actionKind = string(types.ChallengeActionNone)
	}
	if !validChallengeAction(actionKind) {
		return nil, fmt.Errorf("%w: unknown action kind %q", ErrInvalidInput, actionKind)
	}
	frequency := deref(input.Frequency)
	if frequency == "" {
		frequency = string(types.FrequencyDaily)
	}
	if !validChallengeFrequency(frequency) {
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, frequency)
	}
	threshold := derefInt(input.Threshold, 0)
	xpReward := derefInt(input.XPReward, 0)
	if threshold < 0 || xpReward < 0 {
		return nil, fmt.Errorf("%w: threshold and xp reward must be non-negative", ErrInvalidInput)
	}

	exists, err := cs.challengeRepo.NameExists(ctx, nil, name, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check challenge name: %w", err)
	}
	if exists {
		return nil, ErrNameTaken
	}

	challenge := &types.Challenge{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Active:      derefBool(input.Active, false),
		ActionKind:  types.ChallengeActionKind(actionKind),
		Threshold:   threshold,
		XPReward:    xpReward,
		Frequency:   types.ChallengeFrequency(frequency),
	}
	created, err := cs.challengeRepo.Create(ctx, nil, challenge)
	if err != nil {
		return nil, err
	}
	cs.invalidate(ctx)
	return created, nil
}

func (cs *challengeService) List(ctx context.Context) ([]*types.Challenge, error) {
	return cs.challengeRepo.List(ctx, nil, !isStaff(ctx))
}

func (cs *challengeService) GetByID(ctx context.Context, challengeID uuid.UUID) (*types.Challenge, error) {
	challenge, err := cs.challengeRepo.GetByID(ctx, nil, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("load challenge: %w", err)
	}
	if !challenge.Active && !isStaff(ctx) {
		return nil, ErrNotActive
	}
	return challenge, nil
}

func (cs *challengeService) Update(ctx context.Context, challengeID uuid.UUID, input ChallengeInput) (*types.Challenge, error) {
	challenge, err := cs.challengeRepo.GetByID(ctx, nil, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("load challenge: %w", err)
	}

	if input.Name != nil && *input.Name != challenge.Name {
		exists, err := cs.challengeRepo.NameExists(ctx, nil, *input.Name, challenge.ID)
		if err != nil {
			return nil, fmt.Errorf("check challenge name: %w", err)
		}
		if exists {
			return nil, ErrNameTaken
		}
		challenge.Name = *input.Name
	}
	if input.Description != nil {
		challenge.Description = *input.Description
	}
	if input.Active != nil {
		challenge.Active = *input.Active
	}
	if input.ActionKind != nil {
		if !validChallengeAction(*input.ActionKind) {
			return nil, fmt.Errorf("%w: unknown action kind %q", ErrInvalidInput, *input.ActionKind)
		}
		challenge.ActionKind = types.ChallengeActionKind(*input.ActionKind)
	}
	if input.Threshold != nil {
		if *input.Threshold < 0 {
			return nil, fmt.Errorf("%w: threshold must be non-negative", ErrInvalidInput)
		}
		challenge.Threshold = *input.Threshold
	}
	if input.XPReward != nil {
		if *input.XPReward < 0 {
			return nil, fmt.Errorf("%w: xp reward must be non-negative", ErrInvalidInput)
		}
		challenge.XPReward = *input.XPReward
	}
	if input.Frequency != nil {
		if !validChallengeFrequency(*input.Frequency) {
			return nil, fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, *input.Frequency)
		}
		challenge.Frequency = types.ChallengeFrequency(*input.Frequency)
	}

	updated, err := cs.challengeRepo.Update(ctx, nil, challenge)
	if err != nil {
		return nil, err
	}
	cs.invalidate(ctx)
	return updated, nil
}

func (cs *challengeService) Delete(ctx context.Context, challengeID uuid.UUID) error {
	if _, err := cs.challengeRepo.GetByID(ctx, nil, challengeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChallengeNotFound
		}
		return fmt.Errorf("load challenge: %w", err)
	}
	if err := cs.challengeRepo.DeleteByID(ctx, nil, challengeID); err != nil {
		return err
	}
	cs.invalidate(ctx)
	return nil
}

func (cs *challengeService) invalidate(ctx context.Context) {
	if cs.catalogCache != nil {
		cs.catalogCache.InvalidateChallenges(ctx)
	}
}
