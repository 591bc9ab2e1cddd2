package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle is the aggregate root of the registry. The three plate fields are
// independent: civilian (malaky), military (gesh) and intelligence
// (mokhabrat) plates are issued by different administrations and any of them
// may be missing.
type Vehicle struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code                 *string   `gorm:"type:varchar(64)" json:"code"`
	ChassisNumber        string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"chassis_number"`
	VehicleType          *string   `gorm:"type:varchar(128);index" json:"vehicle_type"`
	VehicleEquipment     *string   `gorm:"type:varchar(128);index" json:"vehicle_equipment"`
	PlateNumberMalaky    *string   `gorm:"type:varchar(32);uniqueIndex" json:"plate_number_malaky"`
	PlateNumberGesh      *string   `gorm:"type:varchar(32);uniqueIndex" json:"plate_number_gesh"`
	PlateNumberMokhabrat *string   `gorm:"type:varchar(32);uniqueIndex" json:"plate_number_mokhabrat"`
	EngineNumber         *string   `gorm:"type:varchar(64)" json:"engine_number"`
	Color                *string   `gorm:"type:varchar(32)" json:"color"`
	GPSDeviceNumber      *string   `gorm:"type:varchar(64)" json:"gps_device_number"`
	LineNumber           *string   `gorm:"type:varchar(64)" json:"line_number"`
	Sector               *string   `gorm:"type:varchar(128);index" json:"sector"`
	Administration       *string   `gorm:"type:varchar(128);index" json:"administration"`
	ModelYear            *int      `json:"model_year"`
	FuelType             *string   `gorm:"type:varchar(32)" json:"fuel_type"`
	ResponsiblePerson    *string   `gorm:"type:varchar(128)" json:"responsible_person"`
	SupplySource         *string   `gorm:"type:varchar(128)" json:"supply_source"`
	InsuranceStatus      *string   `gorm:"type:varchar(64)" json:"insurance_status"`
	Notes                NoteMap   `json:"notes"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

const (
	// ModelYearMin bounds model_year; older entries are data-entry errors.
	ModelYearMin = 1800
)

// ValidModelYear reports whether year is inside the accepted range
// [1800, currentYear+1].
func ValidModelYear(year int, now time.Time) bool {
	return year >= ModelYearMin && year <= now.Year()+1
}
