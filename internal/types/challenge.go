package types

import (
	"time"

	"github.com/google/uuid"
)

// ChallengeActionKind is the closed set of action signals a challenge
// criterion can match against.
type ChallengeActionKind string

const (
	ChallengeActionTherapiesCompleted ChallengeActionKind = "therapiesCompletedCount"
	ChallengeActionXPGained           ChallengeActionKind = "xpGained"
	ChallengeActionMoodEntry          ChallengeActionKind = "moodEntryCount"
	ChallengeActionLevelReached       ChallengeActionKind = "levelReached"
	ChallengeActionNone               ChallengeActionKind = "none"
)

// ChallengeFrequency controls how often a challenge can be completed again.
type ChallengeFrequency string

const (
	FrequencyOnce   ChallengeFrequency = "once"
	FrequencyDaily  ChallengeFrequency = "daily"
	FrequencyWeekly ChallengeFrequency = "weekly"
)

type Challenge struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string              `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description string              `gorm:"not null;column:description" json:"description"`
	Active      bool                `gorm:"not null;default:false;column:active" json:"active"`
	ActionKind  ChallengeActionKind `gorm:"not null;default:'none';column:action_kind" json:"action_kind"`
	Threshold   int                 `gorm:"not null;default:0;column:threshold" json:"threshold"`
	XPReward    int                 `gorm:"not null;default:0;column:xp_reward" json:"xp_reward"`
	Frequency   ChallengeFrequency  `gorm:"not null;default:'daily';column:frequency" json:"frequency"`
	CreatedAt   time.Time           `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"not null;default:now()" json:"updated_at"`
}

func (Challenge) TableName() string {
	return "challenge"
}
