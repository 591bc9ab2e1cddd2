package query

// Column schemas for the filterable entities. Only columns listed here can
// appear in a compiled predicate; anything else in the query string is
// ignored.

var VehicleSchema = Schema{
	"code":                   Text,
	"chassis_number":         Text,
	"vehicle_type":           Text,
	"vehicle_equipment":      Text,
	"plate_number_malaky":    Text,
	"plate_number_gesh":      Text,
	"plate_number_mokhabrat": Text,
	"engine_number":          Text,
	"color":                  Text,
	"gps_device_number":      Text,
	"line_number":            Text,
	"sector":                 Text,
	"administration":         Text,
	"model_year":             Integer,
	"fuel_type":              Text,
	"responsible_person":     Text,
	"supply_source":          Text,
	"insurance_status":       Text,
	"created_at":             Date,
	"updated_at":             Date,
}

var LicenseSchema = Schema{
	"serial_number":      Integer,
	"plate_number":       Text,
	"license_type":       Text,
	"vehicle_type":       Text,
	"chassis_number":     Text,
	"license_start_date": Date,
	"license_end_date":   Date,
	"recipient":          Text,
	"notes":              Text,
	"violations":         Text,
	"created_at":         Date,
}

var MilitaryLicenseSchema = Schema{
	"chassis_number":            Text,
	"plate_number_gesh":         Text,
	"vehicle_type":              Text,
	"vehicle_equipment":         Text,
	"allocation":                Text,
	"load_capacity":             Text,
	"management_method":         Text,
	"estimated_financial_value": Other,
	"active":                    Other,
	"created_at":                Date,
}

var UserSchema = Schema{
	"username":   Text,
	"role":       Other,
	"active":     Other,
	"created_at": Date,
}
