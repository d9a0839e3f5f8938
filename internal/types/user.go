package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	RolePatient   = "patient"
	RoleTherapist = "therapist"
	RoleAdmin     = "admin"
)

func ValidRole(role string) bool {
	switch role {
	case RolePatient, RoleTherapist, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role may manage catalog entities and see
// inactive entries.
func IsStaff(role string) bool {
	return role == RoleTherapist || role == RoleAdmin
}

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Username  string     `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Email     string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password  string     `gorm:"not null;column:password" json:"-"`
	Role      string     `gorm:"not null;default:'patient';column:role" json:"role"`
	LastLogin *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
