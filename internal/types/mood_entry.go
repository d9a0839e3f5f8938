package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	MoodExcellent = "excellent"
	MoodGreat     = "great"
	MoodGood      = "good"
	MoodNeutral   = "neutral"
	MoodFair      = "fair"
	MoodBad       = "bad"
	MoodAwful     = "awful"
)

func ValidMood(mood string) bool {
	switch mood {
	case MoodExcellent, MoodGreat, MoodGood, MoodNeutral, MoodFair, MoodBad, MoodAwful:
		return true
	}
	return false
}

type MoodEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Mood       string    `gorm:"not null;column:mood" json:"mood"`
	Notes      string    `gorm:"size:200;column:notes" json:"notes"`
	RecordedAt time.Time `gorm:"not null;column:recorded_at" json:"recorded_at"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (MoodEntry) TableName() string {
	return "mood_entry"
}
