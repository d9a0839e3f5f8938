package progression

import (
	"time"

	"github.com/google/uuid"
)

// TherapyCompletion marks a therapy as completed once, forever.
type TherapyCompletion struct {
	TherapyID   uuid.UUID `json:"therapy_id"`
	XPAwarded   int       `json:"xp_awarded"`
	CompletedAt time.Time `json:"completed_at"`
}

type AchievementUnlock struct {
	AchievementID uuid.UUID `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// ChallengeCompletion may repeat for the same challenge across eligibility
// windows, but never twice inside one window.
type ChallengeCompletion struct {
	ChallengeID uuid.UUID `json:"challenge_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// Snapshot is the pure-data view of one user's progression ledger. The
// awarders and the evaluator operate on a snapshot in memory; the service
// layer loads it, threads it through them and persists it exactly once.
type Snapshot struct {
	UserID               uuid.UUID
	ExperiencePoints     int
	CurrentLevel         int
	TherapiesCompleted   []TherapyCompletion
	AchievementsUnlocked []AchievementUnlock
	ChallengesCompleted  []ChallengeCompletion

	// Version is the optimistic concurrency token of the backing row. It is
	// opaque to the awarders.
	Version int
}

func NewSnapshot(userID uuid.UUID) *Snapshot {
	return &Snapshot{
		UserID:           userID,
		ExperiencePoints: 0,
		CurrentLevel:     1,
	}
}

func (s *Snapshot) HasCompletedTherapy(therapyID uuid.UUID) bool {
	for _, item := range s.TherapiesCompleted {
		if item.TherapyID == therapyID {
			return true
		}
	}
	return false
}

func (s *Snapshot) HasUnlockedAchievement(achievementID uuid.UUID) bool {
	for _, item := range s.AchievementsUnlocked {
		if item.AchievementID == achievementID {
			return true
		}
	}
	return false
}
