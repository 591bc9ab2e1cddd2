package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleet-registry/internal/model"
	"fleet-registry/internal/query"
	"fleet-registry/internal/repository"
)

type VehicleService struct {
	vehicleRepo     *repository.VehicleRepository
	vehiclePageSize int
}

func NewVehicleService(vehicleRepo *repository.VehicleRepository, vehiclePageSize int) *VehicleService {
	if vehiclePageSize <= 0 {
		vehiclePageSize = 500
	}
	return &VehicleService{
		vehicleRepo:     vehicleRepo,
		vehiclePageSize: vehiclePageSize,
	}
}

func (s *VehicleService) Create(ctx context.Context, vehicle *model.Vehicle) (*model.Vehicle, error) {
	if strings.TrimSpace(vehicle.ChassisNumber) == "" {
		return nil, fmt.Errorf("%w: chassis_number is required", ErrInvalidInput)
	}
	vehicle.ChassisNumber = strings.TrimSpace(vehicle.ChassisNumber)
	if vehicle.ModelYear != nil && !model.ValidModelYear(*vehicle.ModelYear, time.Now()) {
		return nil, fmt.Errorf("%w: model_year out of range", ErrInvalidInput)
	}
	if vehicle.Notes == nil {
		vehicle.Notes = model.NoteMap{}
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: chassis or plate number already registered", ErrConflict)
		}
		return nil, err
	}
	return vehicle, nil
}

// Get returns one vehicle projected to the caller's role.
func (s *VehicleService) Get(ctx context.Context, principal model.Principal, id string) (map[string]interface{}, error) {
	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid vehicle id", ErrInvalidInput)
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return model.ProjectVehicle(vehicle, model.ProjectedFields(principal.Role)), nil
}

// GetRaw returns a vehicle without projection, for internal consumers.
func (s *VehicleService) GetRaw(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

// VehicleListResult is one page of projected vehicles.
type VehicleListResult struct {
	Vehicles   []map[string]interface{}
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// List compiles the request parameters into a filter and returns the page
// projected to the caller's role.
func (s *VehicleService) List(ctx context.Context, principal model.Principal, params map[string]string) (*VehicleListResult, error) {
	q := query.Compile(params, query.VehicleSchema, query.Options{DefaultLimit: s.vehiclePageSize})

	vehicles, total, err := s.vehicleRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	fields := model.ProjectedFields(principal.Role)
	return &VehicleListResult{
		Vehicles:   model.ProjectVehicles(vehicles, fields),
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: q.TotalPages(total),
	}, nil
}

func (s *VehicleService) ListBySector(ctx context.Context, principal model.Principal, sector string) ([]map[string]interface{}, error) {
	sector = strings.TrimSpace(sector)
	if sector == "" {
		return nil, fmt.Errorf("%w: sector is required", ErrInvalidInput)
	}
	vehicles, err := s.vehicleRepo.ListBySector(ctx, sector)
	if err != nil {
		return nil, err
	}
	return model.ProjectVehicles(vehicles, model.ProjectedFields(principal.Role)), nil
}

func (s *VehicleService) ListByAdministration(ctx context.Context, principal model.Principal, administration string) ([]map[string]interface{}, error) {
	administration = strings.TrimSpace(administration)
	if administration == "" {
		return nil, fmt.Errorf("%w: administration is required", ErrInvalidInput)
	}
	vehicles, err := s.vehicleRepo.ListByAdministration(ctx, administration)
	if err != nil {
		return nil, err
	}
	return model.ProjectVehicles(vehicles, model.ProjectedFields(principal.Role)), nil
}

// vehicleWritableColumns are the columns a PATCH may touch. Keys outside this
// set are dropped, matching the pass-through update of the registry.
var vehicleWritableColumns = map[string]bool{
	"code": true, "chassis_number": true, "vehicle_type": true,
	"vehicle_equipment": true, "plate_number_malaky": true,
	"plate_number_gesh": true, "plate_number_mokhabrat": true,
	"engine_number": true, "color": true, "gps_device_number": true,
	"line_number": true, "sector": true, "administration": true,
	"model_year": true, "fuel_type": true, "responsible_person": true,
	"supply_source": true, "insurance_status": true, "notes": true,
}

// Update patches a vehicle from a raw JSON body. Legacy imports send
// model_year as the string "NULL" for unknown years; that is normalized to
// null here.
func (s *VehicleService) Update(ctx context.Context, principal model.Principal, id string, patch map[string]interface{}) (map[string]interface{}, error) {
	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid vehicle id", ErrInvalidInput)
	}

	fields := make(map[string]interface{}, len(patch))
	for key, value := range patch {
		if !vehicleWritableColumns[key] {
			continue
		}
		fields[key] = value
	}
	if year, ok := fields["model_year"]; ok {
		normalized, err := normalizeModelYear(year)
		if err != nil {
			return nil, err
		}
		fields["model_year"] = normalized
	}
	if notes, ok := fields["notes"]; ok {
		encoded, err := normalizeNotes(notes)
		if err != nil {
			return nil, err
		}
		fields["notes"] = encoded
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields", ErrInvalidInput)
	}

	updated, err := s.vehicleRepo.UpdateFields(ctx, vehicleID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: chassis or plate number already registered", ErrConflict)
		}
		return nil, err
	}
	if !updated {
		return nil, ErrNotFound
	}
	return s.Get(ctx, principal, id)
}

func (s *VehicleService) UpdateInsuranceStatus(ctx context.Context, id string, status string) error {
	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid vehicle id", ErrInvalidInput)
	}
	if strings.TrimSpace(status) == "" {
		return fmt.Errorf("%w: insurance_status is required", ErrInvalidInput)
	}
	updated, err := s.vehicleRepo.UpdateFields(ctx, vehicleID, map[string]interface{}{"insurance_status": status})
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotFound
	}
	return nil
}

func (s *VehicleService) Delete(ctx context.Context, id string) error {
	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid vehicle id", ErrInvalidInput)
	}
	deleted, err := s.vehicleRepo.Delete(ctx, vehicleID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// UniqueFieldValues fans out one distinct query per requested field.
func (s *VehicleService) UniqueFieldValues(ctx context.Context, fields []string) (map[string][]string, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: fields are required", ErrInvalidInput)
	}
	for _, field := range fields {
		if _, ok := query.VehicleSchema[field]; !ok {
			return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidInput, field)
		}
	}
	return distinctFanOut(ctx, fields, s.vehicleRepo.DistinctValues)
}

func normalizeModelYear(raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.EqualFold(strings.TrimSpace(v), "NULL") || strings.TrimSpace(v) == "" {
			return nil, nil
		}
		year, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%w: model_year must be an integer", ErrInvalidInput)
		}
		if !model.ValidModelYear(year, time.Now()) {
			return nil, fmt.Errorf("%w: model_year out of range", ErrInvalidInput)
		}
		return year, nil
	case float64:
		year := int(v)
		if !model.ValidModelYear(year, time.Now()) {
			return nil, fmt.Errorf("%w: model_year out of range", ErrInvalidInput)
		}
		return year, nil
	default:
		return nil, fmt.Errorf("%w: model_year must be an integer", ErrInvalidInput)
	}
}

func normalizeNotes(raw interface{}) (interface{}, error) {
	if raw == nil {
		return model.NoteMap{}, nil
	}
	asMap, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: notes must be an object", ErrInvalidInput)
	}
	notes := make(model.NoteMap, len(asMap))
	for key, value := range asMap {
		notes[key] = fmt.Sprint(value)
	}
	return notes, nil
}
