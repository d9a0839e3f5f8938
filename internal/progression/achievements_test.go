package progression

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(func() { log.Sync() })
	return log
}

func TestAwardAchievementsThresholds(t *testing.T) {
	log := testLogger(t)
	now := time.Now()

	byCount := &types.Achievement{ID: uuid.New(), Active: true, CriterionKind: types.AchievementCriterionTherapiesCompleted, CriterionThreshold: 2}
	byLevel := &types.Achievement{ID: uuid.New(), Active: true, CriterionKind: types.AchievementCriterionLevelReached, CriterionThreshold: 3}
	byXP := &types.Achievement{ID: uuid.New(), Active: true, CriterionKind: types.AchievementCriterionXPAccumulated, CriterionThreshold: 500}
	defs := []*types.Achievement{byCount, byLevel, byXP}

	snap := NewSnapshot(uuid.New())
	snap.TherapiesCompleted = []TherapyCompletion{{TherapyID: uuid.New()}, {TherapyID: uuid.New()}}
	snap.CurrentLevel = 2
	snap.ExperiencePoints = 499

	if got := AwardAchievements(log, snap, defs, now); got != 1 {
		t.Fatalf("first scan: want=1 got=%d", got)
	}
	if !snap.HasUnlockedAchievement(byCount.ID) {
		t.Fatalf("count achievement not unlocked")
	}

	snap.ExperiencePoints = 500
	snap.CurrentLevel = 3
	if got := AwardAchievements(log, snap, defs, now); got != 2 {
		t.Fatalf("second scan: want=2 got=%d", got)
	}
	if len(snap.AchievementsUnlocked) != 3 {
		t.Fatalf("unlocks: want=3 got=%d", len(snap.AchievementsUnlocked))
	}
}

func TestAwardAchievementsIdempotent(t *testing.T) {
	log := testLogger(t)
	now := time.Now()
	def := &types.Achievement{ID: uuid.New(), Active: true, CriterionKind: types.AchievementCriterionXPAccumulated, CriterionThreshold: 100}

	snap := NewSnapshot(uuid.New())
	snap.ExperiencePoints = 150

	if got := AwardAchievements(log, snap, []*types.Achievement{def}, now); got != 1 {
		t.Fatalf("first scan: want=1 got=%d", got)
	}
	if got := AwardAchievements(log, snap, []*types.Achievement{def}, now); got != 0 {
		t.Fatalf("rescan with no state change: want=0 got=%d", got)
	}
	if len(snap.AchievementsUnlocked) != 1 {
		t.Fatalf("unlocks: want=1 got=%d", len(snap.AchievementsUnlocked))
	}
}

func TestAwardAchievementsSkipsInactiveAndManual(t *testing.T) {
	log := testLogger(t)
	now := time.Now()
	inactive := &types.Achievement{ID: uuid.New(), Active: false, CriterionKind: types.AchievementCriterionXPAccumulated, CriterionThreshold: 0}
	manual := &types.Achievement{ID: uuid.New(), Active: true, CriterionKind: types.AchievementCriterionNone}

	snap := NewSnapshot(uuid.New())
	snap.ExperiencePoints = 10000

	if got := AwardAchievements(log, snap, []*types.Achievement{inactive, manual, nil}, now); got != 0 {
		t.Fatalf("want=0 got=%d", got)
	}
}

func TestAwardAchievementsUnknownKindSkipped(t *testing.T) {
	log := testLogger(t)
	now := time.Now()
	weird := &types.Achievement{ID: uuid.New(), Active: true, CriterionKind: "loginStreak", CriterionThreshold: 1}

	snap := NewSnapshot(uuid.New())
	snap.ExperiencePoints = 10000

	if got := AwardAchievements(log, snap, []*types.Achievement{weird}, now); got != 0 {
		t.Fatalf("unknown criterion must award nothing, got=%d", got)
	}
	if len(snap.AchievementsUnlocked) != 0 {
		t.Fatalf("unlocks: want=0 got=%d", len(snap.AchievementsUnlocked))
	}
}
