package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleet-registry/internal/model"
	"fleet-registry/internal/query"
	"fleet-registry/internal/repository"
	"fleet-registry/internal/utils"
)

// MilitaryLicenseService mirrors the civilian lifecycle for the military
// administration. The gesh plate on the vehicle is owned by this record:
// an explicit vehicle link always overwrites it, a fuzzy chassis match on
// create only fills it when empty.
type MilitaryLicenseService struct {
	militaryRepo *repository.MilitaryLicenseRepository
	vehicleRepo  *repository.VehicleRepository
	pageSize     int
}

func NewMilitaryLicenseService(militaryRepo *repository.MilitaryLicenseRepository, vehicleRepo *repository.VehicleRepository, pageSize int) *MilitaryLicenseService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &MilitaryLicenseService{
		militaryRepo: militaryRepo,
		vehicleRepo:  vehicleRepo,
		pageSize:     pageSize,
	}
}

func (s *MilitaryLicenseService) Create(ctx context.Context, license *model.MilitaryLicense) (*model.MilitaryLicense, error) {
	if license.VehicleID != nil {
		if err := s.linkExplicit(ctx, license); err != nil {
			return nil, err
		}
	} else if license.ChassisNumber != nil {
		if err := s.linkByChassis(ctx, license, false); err != nil {
			return nil, err
		}
	}

	if err := s.militaryRepo.Create(ctx, license); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: military license already exists for this vehicle, plate or chassis", ErrConflict)
		}
		return nil, err
	}
	return license, nil
}

// UpdateMilitaryLicenseInput is a partial update; nil fields are untouched.
type UpdateMilitaryLicenseInput struct {
	ChassisNumber           *string    `json:"chassis_number"`
	PlateNumberGesh         *string    `json:"plate_number_gesh"`
	VehicleType             *string    `json:"vehicle_type"`
	VehicleEquipment        *string    `json:"vehicle_equipment"`
	Allocation              *string    `json:"allocation"`
	LoadCapacity            *string    `json:"load_capacity"`
	ManagementMethod        *string    `json:"management_method"`
	EstimatedFinancialValue *float64   `json:"estimated_financial_value"`
	Active                  *bool      `json:"active"`
	VehicleID               *uuid.UUID `json:"vehicleId"`
}

func (s *MilitaryLicenseService) Update(ctx context.Context, id string, input UpdateMilitaryLicenseInput) (*model.MilitaryLicense, error) {
	licenseID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid military license id", ErrInvalidInput)
	}
	license, err := s.militaryRepo.GetByID(ctx, licenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.ChassisNumber != nil {
		license.ChassisNumber = input.ChassisNumber
	}
	if input.PlateNumberGesh != nil {
		license.PlateNumberGesh = input.PlateNumberGesh
	}
	if input.VehicleType != nil {
		license.VehicleType = input.VehicleType
	}
	if input.VehicleEquipment != nil {
		license.VehicleEquipment = input.VehicleEquipment
	}
	if input.Allocation != nil {
		license.Allocation = input.Allocation
	}
	if input.LoadCapacity != nil {
		license.LoadCapacity = input.LoadCapacity
	}
	if input.ManagementMethod != nil {
		license.ManagementMethod = input.ManagementMethod
	}
	if input.EstimatedFinancialValue != nil {
		license.EstimatedFinancialValue = input.EstimatedFinancialValue
	}
	if input.Active != nil {
		license.Active = *input.Active
	}
	if input.VehicleID != nil {
		license.VehicleID = input.VehicleID
	}

	if license.VehicleID != nil {
		if err := s.linkExplicit(ctx, license); err != nil {
			return nil, err
		}
	} else if license.ChassisNumber != nil {
		// On update a successful fuzzy match overwrites the vehicle's gesh
		// plate: the incoming paperwork is the newer source.
		if err := s.linkByChassis(ctx, license, true); err != nil {
			return nil, err
		}
	}

	if err := s.militaryRepo.Update(ctx, license); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: military license already exists for this vehicle, plate or chassis", ErrConflict)
		}
		return nil, err
	}
	return license, nil
}

// linkExplicit resolves the declared vehicle and takes over its gesh plate
// unconditionally.
func (s *MilitaryLicenseService) linkExplicit(ctx context.Context, license *model.MilitaryLicense) error {
	vehicle, err := s.vehicleRepo.GetByID(ctx, *license.VehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: vehicle not found with provided id", ErrNotFound)
		}
		return err
	}
	license.ChassisNumber = &vehicle.ChassisNumber
	vehicle.PlateNumberGesh = license.PlateNumberGesh
	return s.vehicleRepo.Update(ctx, vehicle)
}

// linkByChassis tries the fuzzy chassis match. overwritePlate selects between
// the create rule (back-fill only when the vehicle has no gesh plate) and the
// update rule (always overwrite).
func (s *MilitaryLicenseService) linkByChassis(ctx context.Context, license *model.MilitaryLicense, overwritePlate bool) error {
	chassis := utils.NormalizeChassis(*license.ChassisNumber)
	if chassis == "" {
		return nil
	}
	vehicle, err := s.vehicleRepo.FindByChassisSuffix(ctx, chassis)
	if err != nil {
		return err
	}
	if vehicle == nil {
		return nil
	}
	license.VehicleID = &vehicle.ID
	license.ChassisNumber = &vehicle.ChassisNumber
	if overwritePlate || vehicle.PlateNumberGesh == nil {
		vehicle.PlateNumberGesh = license.PlateNumberGesh
	}
	return s.vehicleRepo.Update(ctx, vehicle)
}

func (s *MilitaryLicenseService) GetByID(ctx context.Context, id string) (*model.MilitaryLicense, error) {
	licenseID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid military license id", ErrInvalidInput)
	}
	license, err := s.militaryRepo.GetByID(ctx, licenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return license, nil
}

func (s *MilitaryLicenseService) GetByChassisNumber(ctx context.Context, chassis string) (*model.MilitaryLicense, error) {
	chassis = strings.TrimSpace(chassis)
	if chassis == "" {
		return nil, fmt.Errorf("%w: chassis_number is required", ErrInvalidInput)
	}
	license, err := s.militaryRepo.GetByChassisSuffix(ctx, chassis)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return license, nil
}

func (s *MilitaryLicenseService) GetByVehicleID(ctx context.Context, vehicleID string) (*model.MilitaryLicense, error) {
	id, err := uuid.Parse(vehicleID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid vehicle id", ErrInvalidInput)
	}
	license, err := s.militaryRepo.GetByVehicleID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return license, nil
}

// MilitaryLicenseListResult is one filtered page of military licenses.
type MilitaryLicenseListResult struct {
	Licenses   []model.MilitaryLicense
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

func (s *MilitaryLicenseService) List(ctx context.Context, params map[string]string) (*MilitaryLicenseListResult, error) {
	q := query.Compile(params, query.MilitaryLicenseSchema, query.Options{
		DefaultLimit: s.pageSize,
		DefaultOrder: "created_at ASC",
	})
	licenses, total, err := s.militaryRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &MilitaryLicenseListResult{
		Licenses:   licenses,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: q.TotalPages(total),
	}, nil
}

func (s *MilitaryLicenseService) Delete(ctx context.Context, id string) error {
	licenseID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid military license id", ErrInvalidInput)
	}
	deleted, err := s.militaryRepo.Delete(ctx, licenseID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *MilitaryLicenseService) UniqueFieldValues(ctx context.Context, fields []string) (map[string][]string, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: fields are required", ErrInvalidInput)
	}
	for _, field := range fields {
		if _, ok := query.MilitaryLicenseSchema[field]; !ok {
			return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidInput, field)
		}
	}
	return distinctFanOut(ctx, fields, s.militaryRepo.DistinctValues)
}
