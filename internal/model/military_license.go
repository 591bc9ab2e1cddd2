package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MilitaryLicense is the military-administration counterpart of License with
// an independent lifecycle. It links to at most one vehicle and may exist
// unlinked until its chassis number is reconciled.
type MilitaryLicense struct {
	ID                      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ChassisNumber           *string    `gorm:"type:varchar(64);uniqueIndex" json:"chassis_number"`
	PlateNumberGesh         *string    `gorm:"type:varchar(32);uniqueIndex" json:"plate_number_gesh"`
	VehicleType             *string    `gorm:"type:varchar(128)" json:"vehicle_type"`
	VehicleEquipment        *string    `gorm:"type:varchar(128)" json:"vehicle_equipment"`
	Allocation              *string    `gorm:"type:varchar(128)" json:"allocation"`
	LoadCapacity            *string    `gorm:"type:varchar(64)" json:"load_capacity"`
	ManagementMethod        *string    `gorm:"type:varchar(128)" json:"management_method"`
	EstimatedFinancialValue *float64   `json:"estimated_financial_value"`
	Active                  bool       `gorm:"default:true" json:"active"`
	VehicleID               *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"vehicleId"`
	Vehicle                 *Vehicle   `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	CreatedAt               time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MilitaryLicense) TableName() string {
	return "military_licenses"
}

func (m *MilitaryLicense) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
