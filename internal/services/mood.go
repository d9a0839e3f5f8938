package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/repos"
	"github.com/isekai-health/backend/internal/types"
)

type MoodService interface {
	RecordEntry(ctx context.Context, userID uuid.UUID, mood, notes string, now time.Time) (*types.MoodEntry, error)
	History(ctx context.Context, userID uuid.UUID) ([]*types.MoodEntry, error)
}

type moodService struct {
	db                 *gorm.DB
	log                *logger.Logger
	moodEntryRepo      repos.MoodEntryRepo
	progressionService ProgressionService
}

func NewMoodService(db *gorm.DB, log *logger.Logger, moodEntryRepo repos.MoodEntryRepo, progressionService ProgressionService) MoodService {
	serviceLog := log.With("service", "MoodService")
	return &moodService{
		db:                 db,
		log:                serviceLog,
		moodEntryRepo:      moodEntryRepo,
		progressionService: progressionService,
	}
}

// RecordEntry funnels through the progression service so the mood-triggered
// challenge scan runs exactly once per entry.
func (ms *moodService) RecordEntry(ctx context.Context, userID uuid.UUID, mood, notes string, now time.Time) (*types.MoodEntry, error) {
	return ms.progressionService.RecordMoodEntry(ctx, userID, mood, notes, now)
}

func (ms *moodService) History(ctx context.Context, userID uuid.UUID) ([]*types.MoodEntry, error) {
	entries, err := ms.moodEntryRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load mood history: %w", err)
	}
	return entries, nil
}
