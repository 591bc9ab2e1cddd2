package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LicenseValidity string

const (
	ValidityUnknown      LicenseValidity = "unknown"
	ValidityExpired      LicenseValidity = "expired"
	ValidityExpiringSoon LicenseValidity = "expiring-soon"
	ValidityValid        LicenseValidity = "valid"
)

// ExpiringSoonDays is the warning window before a license end date.
const ExpiringSoonDays = 30

// License is the civilian road license of a vehicle. VehicleID may stay null:
// paper records are imported before the owning vehicle is registered and are
// reconciled later by chassis number.
type License struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SerialNumber     *int       `json:"serial_number"`
	PlateNumber      string     `gorm:"type:varchar(32);not null;index" json:"plate_number"`
	LicenseType      string     `gorm:"type:varchar(64);not null" json:"license_type"`
	VehicleType      *string    `gorm:"type:varchar(128)" json:"vehicle_type"`
	ChassisNumber    string     `gorm:"type:varchar(64);not null" json:"chassis_number"`
	LicenseStartDate *DateOnly  `gorm:"type:date" json:"license_start_date"`
	LicenseEndDate   *DateOnly  `gorm:"type:date;index" json:"license_end_date"`
	Recipient        *string    `gorm:"type:varchar(128)" json:"recipient"`
	Notes            *string    `gorm:"type:text" json:"notes"`
	Violations       *string    `gorm:"type:text" json:"violations"`
	VehicleID        *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"vehicleId"`
	Vehicle          *Vehicle   `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (License) TableName() string {
	return "licenses"
}

func (l *License) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// ValidityStatus derives the license state from its end date. It is computed
// on read and never persisted.
func (l *License) ValidityStatus(now time.Time) LicenseValidity {
	if l.LicenseEndDate == nil || l.LicenseEndDate.IsZero() {
		return ValidityUnknown
	}
	if l.LicenseEndDate.Before(now) {
		return ValidityExpired
	}
	if l.DaysRemaining(now) <= ExpiringSoonDays {
		return ValidityExpiringSoon
	}
	return ValidityValid
}

// DaysRemaining returns the number of days until the end date, rounded up
// and floored at zero. Without an end date it reports zero.
func (l *License) DaysRemaining(now time.Time) int {
	if l.LicenseEndDate == nil || l.LicenseEndDate.IsZero() {
		return 0
	}
	diff := l.LicenseEndDate.Sub(now)
	days := int((diff + 24*time.Hour - time.Nanosecond) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

// MarshalJSON attaches the computed validity fields to every serialized
// license, mirroring the registry's virtual validity_status attribute.
func (l License) MarshalJSON() ([]byte, error) {
	type plain License
	now := time.Now()
	return json.Marshal(struct {
		plain
		ValidityStatus LicenseValidity `json:"validity_status"`
		DaysRemaining  int             `json:"days_remaining"`
	}{
		plain:          plain(l),
		ValidityStatus: l.ValidityStatus(now),
		DaysRemaining:  l.DaysRemaining(now),
	})
}
