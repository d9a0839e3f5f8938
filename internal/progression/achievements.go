package progression

import (
	"time"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/types"
)

// AwardAchievements scans the achievement definitions against the snapshot
// and appends any newly satisfied unlocks. It returns the number of new
// unlocks; the caller persists once iff the count is positive. Running the
// scan again with no state change awards nothing.
func AwardAchievements(log *logger.Logger, snap *Snapshot, defs []*types.Achievement, now time.Time) int {
	awarded := 0
	for _, def := range defs {
		if def == nil || !def.Active {
			continue
		}
		if snap.HasUnlockedAchievement(def.ID) {
			continue
		}

		satisfied := false
		switch def.CriterionKind {
		case types.AchievementCriterionTherapiesCompleted:
			satisfied = len(snap.TherapiesCompleted) >= def.CriterionThreshold
		case types.AchievementCriterionLevelReached:
			satisfied = snap.CurrentLevel >= def.CriterionThreshold
		case types.AchievementCriterionXPAccumulated:
			satisfied = snap.ExperiencePoints >= def.CriterionThreshold
		case types.AchievementCriterionNone:
			// Achievements without a criterion are granted manually, never here.
		default:
			if log != nil {
				log.Warn("Unknown achievement criterion kind, skipping", "achievement_id", def.ID, "criterion_kind", def.CriterionKind)
			}
		}

		if satisfied {
			snap.AchievementsUnlocked = append(snap.AchievementsUnlocked, AchievementUnlock{
				AchievementID: def.ID,
				UnlockedAt:    now,
			})
			awarded++
		}
	}
	return awarded
}
