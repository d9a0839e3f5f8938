package progression

import (
	"time"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/types"
)

// ActionSignal describes the event that triggered a challenge scan: what kind
// of action happened and its magnitude. Mood entries always carry magnitude 1
// per entry; therapy completions carry the running totals.
type ActionSignal struct {
	Kind      types.ChallengeActionKind
	Magnitude int
}

// AwardChallenges scans the challenge definitions against the action signal
// and appends completions for every challenge that matches and is eligible in
// its current period. XP rewards accumulate onto the snapshot and the level is
// recomputed once at the end, only if something was awarded. Returns the
// number of new completions; the caller persists once iff positive.
func AwardChallenges(log *logger.Logger, snap *Snapshot, defs []*types.Challenge, signal ActionSignal, table LevelTable, now time.Time) int {
	awarded := 0
	for _, def := range defs {
		if def == nil || !def.Active {
			continue
		}
		if completedInPeriod(snap, def, now) {
			continue
		}

		satisfied := false
		switch def.ActionKind {
		case types.ChallengeActionTherapiesCompleted, types.ChallengeActionXPGained, types.ChallengeActionMoodEntry:
			satisfied = def.ActionKind == signal.Kind && signal.Magnitude >= def.Threshold
		case types.ChallengeActionLevelReached:
			// Reads the ledger directly instead of the action signal.
			satisfied = snap.CurrentLevel >= def.Threshold
		case types.ChallengeActionNone:
			// Never auto-completed.
		default:
			if log != nil {
				log.Warn("Unknown challenge action kind, skipping", "challenge_id", def.ID, "action_kind", def.ActionKind)
			}
		}

		if satisfied {
			snap.ChallengesCompleted = append(snap.ChallengesCompleted, ChallengeCompletion{
				ChallengeID: def.ID,
				CompletedAt: now,
			})
			snap.ExperiencePoints += def.XPReward
			awarded++
		}
	}

	if awarded > 0 {
		snap.CurrentLevel = AdvanceLevel(table, snap.CurrentLevel, snap.ExperiencePoints)
	}
	return awarded
}

// completedInPeriod reports whether the challenge was already completed in
// its current eligibility window: ever for once, the same calendar day for
// daily, the same week for weekly.
func completedInPeriod(snap *Snapshot, def *types.Challenge, now time.Time) bool {
	for _, item := range snap.ChallengesCompleted {
		if item.ChallengeID != def.ID {
			continue
		}
		switch def.Frequency {
		case types.FrequencyOnce:
			return true
		case types.FrequencyDaily:
			if sameDay(item.CompletedAt, now) {
				return true
			}
		case types.FrequencyWeekly:
			if weekStart(item.CompletedAt.In(now.Location())).Equal(weekStart(now)) {
				return true
			}
		default:
			// Frequencies outside the known set never recur; treat any prior
			// completion as consuming the challenge.
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// weekStart truncates to midnight of the most recent Sunday.
func weekStart(t time.Time) time.Time {
	year, month, day := t.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}
