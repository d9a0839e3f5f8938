package progression

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/isekai-health/backend/internal/types"
)

func dailyChallenge(xp int) *types.Challenge {
	return &types.Challenge{
		ID:         uuid.New(),
		Active:     true,
		ActionKind: types.ChallengeActionMoodEntry,
		Threshold:  1,
		XPReward:   xp,
		Frequency:  types.FrequencyDaily,
	}
}

func TestAwardChallengesSignalMatch(t *testing.T) {
	log := testLogger(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	table := DefaultLevelTable()

	def := &types.Challenge{
		ID:         uuid.New(),
		Active:     true,
		ActionKind: types.ChallengeActionTherapiesCompleted,
		Threshold:  3,
		XPReward:   50,
		Frequency:  types.FrequencyOnce,
	}

	snap := NewSnapshot(uuid.New())
	signal := ActionSignal{Kind: types.ChallengeActionTherapiesCompleted, Magnitude: 2}
	if got := AwardChallenges(log, snap, []*types.Challenge{def}, signal, table, now); got != 0 {
		t.Fatalf("below threshold: want=0 got=%d", got)
	}

	signal.Magnitude = 3
	if got := AwardChallenges(log, snap, []*types.Challenge{def}, signal, table, now); got != 1 {
		t.Fatalf("at threshold: want=1 got=%d", got)
	}
	if snap.ExperiencePoints != 50 {
		t.Fatalf("xp: want=50 got=%d", snap.ExperiencePoints)
	}

	// A different action kind never matches even with a huge magnitude.
	other := ActionSignal{Kind: types.ChallengeActionXPGained, Magnitude: 1000}
	snap2 := NewSnapshot(uuid.New())
	if got := AwardChallenges(log, snap2, []*types.Challenge{def}, other, table, now); got != 0 {
		t.Fatalf("kind mismatch: want=0 got=%d", got)
	}
}

func TestAwardChallengesOnceNeverRepeats(t *testing.T) {
	log := testLogger(t)
	table := DefaultLevelTable()
	def := &types.Challenge{
		ID:         uuid.New(),
		Active:     true,
		ActionKind: types.ChallengeActionMoodEntry,
		Threshold:  1,
		XPReward:   25,
		Frequency:  types.FrequencyOnce,
	}
	signal := ActionSignal{Kind: types.ChallengeActionMoodEntry, Magnitude: 1}

	snap := NewSnapshot(uuid.New())
	day1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	if got := AwardChallenges(log, snap, []*types.Challenge{def}, signal, table, day1); got != 1 {
		t.Fatalf("first completion: want=1 got=%d", got)
	}
	monthLater := day1.AddDate(0, 1, 0)
	if got := AwardChallenges(log, snap, []*types.Challenge{def}, signal, table, monthLater); got != 0 {
		t.Fatalf("once challenge repeated: got=%d", got)
	}
}

func TestAwardChallengesDailyWindow(t *testing.T) {
	log := testLogger(t)
	table := DefaultLevelTable()
	def := dailyChallenge(10)
	signal := ActionSignal{Kind: types.ChallengeActionMoodEntry, Magnitude: 1}

	snap := NewSnapshot(uuid.New())
	lateNight := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	if got := AwardChallenges(log, snap, []*types.Challenge{def}, signal, table, lateNight); got != 1 {
		t.Fatalf("first completion: want=1 got=%d", got)
	}

	sameDay := time.Date(2026, 3, 10, 23, 59, 30, 0, time.UTC)
	if got := AwardChallenges(log, snap, []*types.Challenge{def}, signal, table, sameDay); got != 0 {
		t.Fatalf("same day must not repeat: got=%d", got)
	}

	// Two minutes later it is a new calendar day and the challenge resets.
	nextDay := time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC)
	if got := AwardChallenges(log, snap, []*types.Challenge{def}, signal, table, nextDay); got != 1 {
		t.Fatalf("next calendar day: want=1 got=%d", got)
	}
	if snap.ExperiencePoints != 20 {
		t.Fatalf("xp after two completions: want=20 got=%d", snap.ExperiencePoints)
	}
}

func TestAwardChallengesWeeklyWindowStartsSunday(t *testing.T) {
	log := testLogger(t)
	table := DefaultLevelTable()
	def := &types.Challenge{
		ID:         uuid.New(),
		Active:     true,
		ActionKind: types.ChallengeActionMoodEntry,
		Threshold:  1,
		XPReward:   10,
		Frequency:  types.FrequencyWeekly,
	}
	signal := ActionSignal{Kind: types.ChallengeActionMoodEntry, Magnitude: 1}

	snap := NewSnapshot(uuid.New())
	// 2026-03-09 is a Monday.
	monday := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	if got := AwardChallenges(log, snap, []*types.Challenge{def}, signal, table, monday); got != 1 {
		t.Fatalf("first completion: want=1 got=%d", got)
	}

	friday := time.Date(2026, 3, 13, 18, 0, 0, 0, time.UTC)
	if got := AwardChallenges(log, snap, []*types.Challenge{def}, signal, table, friday); got != 0 {
		t.Fatalf("same week must not repeat: got=%d", got)
	}

	saturday := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)
	if got := AwardChallenges(log, snap, []*types.Challenge{def}, signal, table, saturday); got != 0 {
		t.Fatalf("saturday is still the same week: got=%d", got)
	}

	// Sunday opens a new week.
	sunday := time.Date(2026, 3, 15, 0, 30, 0, 0, time.UTC)
	if got := AwardChallenges(log, snap, []*types.Challenge{def}, signal, table, sunday); got != 1 {
		t.Fatalf("sunday starts a new week: want=1 got=%d", got)
	}
}

func TestAwardChallengesLevelReachedReadsSnapshot(t *testing.T) {
	log := testLogger(t)
	table := DefaultLevelTable()
	def := &types.Challenge{
		ID:         uuid.New(),
		Active:     true,
		ActionKind: types.ChallengeActionLevelReached,
		Threshold:  3,
		XPReward:   10,
		Frequency:  types.FrequencyOnce,
	}
	// The signal kind is irrelevant for levelReached.
	signal := ActionSignal{Kind: types.ChallengeActionMoodEntry, Magnitude: 1}
	now := time.Now()

	snap := NewSnapshot(uuid.New())
	snap.CurrentLevel = 2
	if got := AwardChallenges(log, snap, []*types.Challenge{def}, signal, table, now); got != 0 {
		t.Fatalf("below level: want=0 got=%d", got)
	}
	snap.CurrentLevel = 3
	if got := AwardChallenges(log, snap, []*types.Challenge{def}, signal, table, now); got != 1 {
		t.Fatalf("at level: want=1 got=%d", got)
	}
}

func TestAwardChallengesRewardXPCanLevelUp(t *testing.T) {
	log := testLogger(t)
	table := DefaultLevelTable()
	def := dailyChallenge(60)
	signal := ActionSignal{Kind: types.ChallengeActionMoodEntry, Magnitude: 1}
	now := time.Now()

	snap := NewSnapshot(uuid.New())
	snap.ExperiencePoints = 150
	snap.CurrentLevel = 1

	if got := AwardChallenges(log, snap, []*types.Challenge{def}, signal, table, now); got != 1 {
		t.Fatalf("want=1 got=%d", got)
	}
	if snap.ExperiencePoints != 210 {
		t.Fatalf("xp: want=210 got=%d", snap.ExperiencePoints)
	}
	if snap.CurrentLevel != 2 {
		t.Fatalf("challenge xp must feed the level: want=2 got=%d", snap.CurrentLevel)
	}
}

func TestAwardChallengesSkipsInactiveAndManual(t *testing.T) {
	log := testLogger(t)
	table := DefaultLevelTable()
	now := time.Now()
	inactive := dailyChallenge(10)
	inactive.Active = false
	manual := &types.Challenge{ID: uuid.New(), Active: true, ActionKind: types.ChallengeActionNone, Frequency: types.FrequencyOnce}
	signal := ActionSignal{Kind: types.ChallengeActionMoodEntry, Magnitude: 1}

	snap := NewSnapshot(uuid.New())
	if got := AwardChallenges(log, snap, []*types.Challenge{inactive, manual, nil}, signal, table, now); got != 0 {
		t.Fatalf("want=0 got=%d", got)
	}
	if snap.ExperiencePoints != 0 {
		t.Fatalf("xp must be untouched, got=%d", snap.ExperiencePoints)
	}
}

func TestAwardChallengesUnknownFrequencyConsumedForever(t *testing.T) {
	log := testLogger(t)
	table := DefaultLevelTable()
	def := &types.Challenge{
		ID:         uuid.New(),
		Active:     true,
		ActionKind: types.ChallengeActionMoodEntry,
		Threshold:  1,
		XPReward:   10,
		Frequency:  "fortnightly",
	}
	signal := ActionSignal{Kind: types.ChallengeActionMoodEntry, Magnitude: 1}

	snap := NewSnapshot(uuid.New())
	day1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	if got := AwardChallenges(log, snap, []*types.Challenge{def}, signal, table, day1); got != 1 {
		t.Fatalf("first completion: want=1 got=%d", got)
	}
	yearLater := day1.AddDate(1, 0, 0)
	if got := AwardChallenges(log, snap, []*types.Challenge{def}, signal, table, yearLater); got != 0 {
		t.Fatalf("unknown frequency must never recur: got=%d", got)
	}
}
