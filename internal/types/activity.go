package types

import (
	"time"

	"github.com/google/uuid"
)

type Activity struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description string    `gorm:"not null;column:description" json:"description"`
	ResourceURL string    `gorm:"column:resource_url" json:"resource_url"`
	Active      bool      `gorm:"not null;default:true;column:active" json:"active"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Activity) TableName() string {
	return "activity"
}
