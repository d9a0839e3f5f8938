package progression

import (
	"errors"
	"fmt"

	"github.com/isekai-health/backend/internal/types"
)

// Expected business outcomes of a completion attempt. Callers branch on these
// rather than on error strings.
var (
	ErrTherapyInactive  = errors.New("therapy is not active and cannot be completed")
	ErrAlreadyCompleted = errors.New("therapy already completed")
	ErrLevelTooLow      = errors.New("level too low for this therapy")
)

// LevelTooLowError carries the level the therapy actually requires so the
// caller can tell the user what to aim for.
type LevelTooLowError struct {
	RequiredLevel int
	CurrentLevel  int
}

func (e *LevelTooLowError) Error() string {
	return fmt.Sprintf("you need to be at least level %d to complete this therapy (current level %d)", e.RequiredLevel, e.CurrentLevel)
}

func (e *LevelTooLowError) Is(target error) bool {
	return target == ErrLevelTooLow
}

// CanCompleteTherapy decides whether the snapshot's owner may complete the
// therapy. Checks run in a fixed order: active, level, duplicate. It never
// mutates the snapshot; recording the completion is the orchestrator's job.
func CanCompleteTherapy(snap *Snapshot, therapy *types.Therapy) error {
	if !therapy.Active {
		return ErrTherapyInactive
	}
	if snap.CurrentLevel < therapy.RequiredLevel {
		return &LevelTooLowError{RequiredLevel: therapy.RequiredLevel, CurrentLevel: snap.CurrentLevel}
	}
	if snap.HasCompletedTherapy(therapy.ID) {
		return ErrAlreadyCompleted
	}
	return nil
}
