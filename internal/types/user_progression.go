package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserProgression is the gamification ledger for one user: experience points,
// current level and the three append-only completion logs. The logs live in
// jsonb columns and are only ever mutated through the progression service,
// which persists the whole row in a single version-checked update.
type UserProgression struct {
	ID                   uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID               uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null;column:user_id" json:"user_id"`
	User                 *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ExperiencePoints     int            `gorm:"not null;default:0;column:experience_points" json:"experience_points"`
	CurrentLevel         int            `gorm:"not null;default:1;column:current_level" json:"current_level"`
	TherapiesCompleted   datatypes.JSON `gorm:"type:jsonb;column:therapies_completed" json:"therapies_completed"`
	AchievementsUnlocked datatypes.JSON `gorm:"type:jsonb;column:achievements_unlocked" json:"achievements_unlocked"`
	ChallengesCompleted  datatypes.JSON `gorm:"type:jsonb;column:challenges_completed" json:"challenges_completed"`
	Version              int            `gorm:"not null;default:0;column:version" json:"version"`
	CreatedAt            time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserProgression) TableName() string {
	return "user_progression"
}
