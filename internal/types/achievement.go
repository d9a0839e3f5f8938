package types

import (
	"time"

	"github.com/google/uuid"
)

// AchievementCriterionKind is the closed set of criteria an achievement can
// be unlocked by. Unknown values coming out of the store are skipped by the
// awarder, never fatal.
type AchievementCriterionKind string

const (
	AchievementCriterionTherapiesCompleted AchievementCriterionKind = "therapiesCompletedCount"
	AchievementCriterionLevelReached       AchievementCriterionKind = "levelReached"
	AchievementCriterionXPAccumulated      AchievementCriterionKind = "xpAccumulated"
	AchievementCriterionNone               AchievementCriterionKind = "none"
)

type Achievement struct {
	ID                 uuid.UUID                `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name               string                   `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description        string                   `gorm:"not null;column:description" json:"description"`
	Active             bool                     `gorm:"not null;default:true;column:active" json:"active"`
	CriterionKind      AchievementCriterionKind `gorm:"not null;default:'none';column:criterion_kind" json:"criterion_kind"`
	CriterionThreshold int                      `gorm:"not null;default:0;column:criterion_threshold" json:"criterion_threshold"`
	Icon               string                   `gorm:"column:icon" json:"icon"`
	Reward             string                   `gorm:"not null;default:'badge';column:reward" json:"reward"`
	CreatedAt          time.Time                `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time                `gorm:"not null;default:now()" json:"updated_at"`
}

func (Achievement) TableName() string {
	return "achievement"
}
