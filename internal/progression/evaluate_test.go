package progression

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/isekai-health/backend/internal/types"
)

func TestCanCompleteTherapyInactive(t *testing.T) {
	snap := NewSnapshot(uuid.New())
	therapy := &types.Therapy{ID: uuid.New(), Active: false, RequiredLevel: 5}

	err := CanCompleteTherapy(snap, therapy)
	if !errors.Is(err, ErrTherapyInactive) {
		t.Fatalf("want ErrTherapyInactive, got %v", err)
	}
}

func TestCanCompleteTherapyLevelTooLow(t *testing.T) {
	snap := NewSnapshot(uuid.New())
	therapy := &types.Therapy{ID: uuid.New(), Active: true, RequiredLevel: 3}

	err := CanCompleteTherapy(snap, therapy)
	if !errors.Is(err, ErrLevelTooLow) {
		t.Fatalf("want ErrLevelTooLow, got %v", err)
	}
	var lvlErr *LevelTooLowError
	if !errors.As(err, &lvlErr) {
		t.Fatalf("want *LevelTooLowError, got %T", err)
	}
	if lvlErr.RequiredLevel != 3 || lvlErr.CurrentLevel != 1 {
		t.Fatalf("level error fields: required=%d current=%d", lvlErr.RequiredLevel, lvlErr.CurrentLevel)
	}
}

func TestCanCompleteTherapyAlreadyCompleted(t *testing.T) {
	therapyID := uuid.New()
	snap := NewSnapshot(uuid.New())
	snap.CurrentLevel = 2
	snap.TherapiesCompleted = []TherapyCompletion{{TherapyID: therapyID, XPAwarded: 100, CompletedAt: time.Now()}}
	therapy := &types.Therapy{ID: therapyID, Active: true, RequiredLevel: 1}

	err := CanCompleteTherapy(snap, therapy)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("want ErrAlreadyCompleted, got %v", err)
	}
}

// An inactive therapy that would also fail the level check reports inactive:
// the checks run in a fixed order.
func TestCanCompleteTherapyCheckOrder(t *testing.T) {
	therapyID := uuid.New()
	snap := NewSnapshot(uuid.New())
	snap.TherapiesCompleted = []TherapyCompletion{{TherapyID: therapyID}}
	therapy := &types.Therapy{ID: therapyID, Active: false, RequiredLevel: 10}

	if err := CanCompleteTherapy(snap, therapy); !errors.Is(err, ErrTherapyInactive) {
		t.Fatalf("inactive must win over level and duplicate, got %v", err)
	}

	therapy.Active = true
	if err := CanCompleteTherapy(snap, therapy); !errors.Is(err, ErrLevelTooLow) {
		t.Fatalf("level must win over duplicate, got %v", err)
	}
}

func TestCanCompleteTherapyDoesNotMutate(t *testing.T) {
	snap := NewSnapshot(uuid.New())
	snap.ExperiencePoints = 250
	snap.CurrentLevel = 2
	therapy := &types.Therapy{ID: uuid.New(), Active: true, RequiredLevel: 1, XPReward: 100}

	if err := CanCompleteTherapy(snap, therapy); err != nil {
		t.Fatalf("CanCompleteTherapy: %v", err)
	}
	if snap.ExperiencePoints != 250 || snap.CurrentLevel != 2 || len(snap.TherapiesCompleted) != 0 {
		t.Fatalf("snapshot mutated by evaluation: %+v", snap)
	}
}
