package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectedFieldsAreSubsetsOfVehicleFields(t *testing.T) {
	all := make(map[string]bool, len(VehicleFields))
	for _, field := range VehicleFields {
		all[field] = true
	}

	for role := range roleProjections {
		for _, field := range ProjectedFields(role) {
			assert.Truef(t, all[field], "role %s projects unknown field %s", role, field)
		}
	}
}

func TestProjectedFieldsUnknownRoleFallsBack(t *testing.T) {
	assert.Equal(t, ProjectedFields(RoleUser), ProjectedFields(Role("intern")))
}

func TestProjectVehicleHidesSensitiveColumns(t *testing.T) {
	gesh := "G 1234"
	mokhabrat := "M 99"
	gps := "DEV-7"
	vehicle := &Vehicle{
		ChassisNumber:        "ABC123",
		PlateNumberGesh:      &gesh,
		PlateNumberMokhabrat: &mokhabrat,
		GPSDeviceNumber:      &gps,
	}

	projected := ProjectVehicle(vehicle, ProjectedFields(RoleViewer))
	assert.NotContains(t, projected, "plate_number_gesh")
	assert.NotContains(t, projected, "plate_number_mokhabrat")
	assert.NotContains(t, projected, "gps_device_number")
	assert.NotContains(t, projected, "chassis_number")
	assert.Contains(t, projected, "vehicle_type")

	full := ProjectVehicle(vehicle, ProjectedFields(RoleAdmin))
	assert.Equal(t, "G 1234", full["plate_number_gesh"])
	assert.Equal(t, "ABC123", full["chassis_number"])
}
