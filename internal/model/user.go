package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleGPS     Role = "GPS"
	RoleLicense Role = "license"
	RoleViewer  Role = "viewer"
	RoleUser    Role = "user"
)

// ValidRole reports whether r is one of the five account roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleGPS, RoleLicense, RoleViewer, RoleUser:
		return true
	}
	return false
}

const (
	UsernameMinLen = 3
	UsernameMaxLen = 50
	PasswordMinLen = 6
	PasswordMaxLen = 20
)

// User is a registry account. Deactivated accounts stay in storage with
// active=false and are excluded from every default lookup.
type User struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username          string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Password          string     `gorm:"type:varchar(128);not null" json:"-"`
	Role              Role       `gorm:"type:varchar(16);not null;default:user" json:"role"`
	PasswordChangedAt *time.Time `json:"password_changed_at,omitempty"`
	Active            bool       `gorm:"default:true" json:"active"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ChangedPasswordAfter reports whether the password was changed after the
// given token issue time. Tokens issued earlier are stale.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Before(*u.PasswordChangedAt)
}

// Principal is the authenticated identity attached to each request.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     Role
}
