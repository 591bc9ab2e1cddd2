package model

import "encoding/json"

// VehicleFields is the full set of vehicle attributes as they appear in
// responses. Projections below are subsets of this list.
var VehicleFields = []string{
	"id",
	"code",
	"chassis_number",
	"vehicle_type",
	"vehicle_equipment",
	"plate_number_malaky",
	"plate_number_gesh",
	"plate_number_mokhabrat",
	"engine_number",
	"color",
	"gps_device_number",
	"line_number",
	"sector",
	"administration",
	"model_year",
	"fuel_type",
	"responsible_person",
	"supply_source",
	"insurance_status",
	"notes",
	"created_at",
	"updated_at",
}

// roleProjections maps each role to the vehicle fields it may see. Military
// and intelligence plates plus GPS hardware identifiers are the sensitive
// columns and are withheld from the narrower roles.
var roleProjections = map[Role][]string{
	RoleAdmin: VehicleFields,
	RoleGPS: {
		"id", "code", "chassis_number", "vehicle_type", "vehicle_equipment",
		"plate_number_malaky", "gps_device_number", "line_number", "sector",
		"administration", "model_year", "fuel_type", "responsible_person",
		"created_at", "updated_at",
	},
	RoleLicense: {
		"id", "code", "chassis_number", "vehicle_type", "vehicle_equipment",
		"plate_number_malaky", "plate_number_gesh", "engine_number", "color",
		"sector", "administration", "model_year", "fuel_type",
		"insurance_status", "created_at", "updated_at",
	},
	RoleViewer: {
		"id", "code", "vehicle_type", "vehicle_equipment",
		"plate_number_malaky", "color", "sector", "administration",
		"model_year", "fuel_type",
	},
	RoleUser: {
		"id", "code", "chassis_number", "vehicle_type", "vehicle_equipment",
		"plate_number_malaky", "engine_number", "color", "line_number",
		"sector", "administration", "model_year", "fuel_type",
		"responsible_person", "supply_source", "insurance_status", "notes",
		"created_at", "updated_at",
	},
}

// ProjectedFields returns the vehicle fields visible to a role. Unknown
// roles fall back to the user projection.
func ProjectedFields(role Role) []string {
	if fields, ok := roleProjections[role]; ok {
		return fields
	}
	return roleProjections[RoleUser]
}

// ProjectVehicle restricts a vehicle to the given fields, keyed by the
// response attribute names. Projection applies to reads only; writes are
// gated per route, not per field.
func ProjectVehicle(v *Vehicle, fields []string) map[string]interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var full map[string]interface{}
	if err := json.Unmarshal(raw, &full); err != nil {
		return nil
	}
	out := make(map[string]interface{}, len(fields))
	for _, field := range fields {
		if value, ok := full[field]; ok {
			out[field] = value
		}
	}
	return out
}

// ProjectVehicles applies ProjectVehicle to a slice.
func ProjectVehicles(vehicles []Vehicle, fields []string) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(vehicles))
	for i := range vehicles {
		out = append(out, ProjectVehicle(&vehicles[i], fields))
	}
	return out
}
