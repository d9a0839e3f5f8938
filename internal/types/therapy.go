package types

import (
	"time"

	"github.com/google/uuid"
)

type Therapy struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name            string     `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description     string     `gorm:"not null;column:description" json:"description"`
	Kind            string     `gorm:"column:kind" json:"kind"`
	DurationMinutes int        `gorm:"column:duration_minutes" json:"duration_minutes"`
	Cost            int        `gorm:"column:cost" json:"cost"`
	Active          bool       `gorm:"not null;default:false;column:active" json:"active"`
	ContentURL      string     `gorm:"column:content_url" json:"content_url"`
	FullText        string     `gorm:"column:full_text" json:"full_text"`
	XPReward        int        `gorm:"not null;default:100;column:xp_reward" json:"xp_reward"`
	RequiredLevel   int        `gorm:"not null;default:1;column:required_level" json:"required_level"`
	CreatedBy       *uuid.UUID `gorm:"type:uuid;column:created_by" json:"created_by,omitempty"`
	CreatedAt       time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Therapy) TableName() string {
	return "therapy"
}
