package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleet-registry/internal/model"
	"fleet-registry/internal/query"
	"fleet-registry/internal/repository"
	"fleet-registry/internal/utils"
)

// LicenseService owns the civilian license lifecycle, including the linkage
// rules between a license and its vehicle: chassis numbers flow from the
// vehicle to the license, confirmed plate numbers flow back to the vehicle.
type LicenseService struct {
	licenseRepo *repository.LicenseRepository
	vehicleRepo *repository.VehicleRepository
	pageSize    int
}

func NewLicenseService(licenseRepo *repository.LicenseRepository, vehicleRepo *repository.VehicleRepository, pageSize int) *LicenseService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &LicenseService{
		licenseRepo: licenseRepo,
		vehicleRepo: vehicleRepo,
		pageSize:    pageSize,
	}
}

// Create validates, links and stores a license. With an explicit vehicleId
// the vehicle must exist and its chassis number wins over the submitted one.
// Without one, the chassis number is fuzzy-matched against the fleet; a miss
// leaves the license unlinked for later reconciliation.
func (s *LicenseService) Create(ctx context.Context, license *model.License) (*model.License, error) {
	if err := validateLicense(license); err != nil {
		return nil, err
	}

	var vehicle *model.Vehicle
	if license.VehicleID != nil {
		found, err := s.vehicleRepo.GetByID(ctx, *license.VehicleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: vehicle not found with provided id", ErrNotFound)
			}
			return nil, err
		}
		vehicle = found
		license.ChassisNumber = vehicle.ChassisNumber
	} else {
		found, err := s.vehicleRepo.FindByChassisSuffix(ctx, utils.NormalizeChassis(license.ChassisNumber))
		if err != nil {
			return nil, err
		}
		if found != nil {
			vehicle = found
			license.VehicleID = &found.ID
			license.ChassisNumber = found.ChassisNumber
		}
	}

	colliding, err := s.licenseRepo.FindColliding(ctx, license.PlateNumber, license.ChassisNumber, license.VehicleID, nil)
	if err != nil {
		return nil, err
	}
	if colliding != nil {
		return nil, fmt.Errorf("%w: a license already exists for this vehicle, plate number or chassis number", ErrConflict)
	}

	if err := s.licenseRepo.Create(ctx, license); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: license already exists for this vehicle", ErrConflict)
		}
		return nil, err
	}

	if vehicle != nil {
		if err := s.syncPlateToVehicle(ctx, vehicle, license.PlateNumber); err != nil {
			return nil, err
		}
	}

	return s.licenseRepo.GetByID(ctx, license.ID, true)
}

// UpdateLicenseInput is a partial update; nil fields are left untouched.
type UpdateLicenseInput struct {
	SerialNumber     *int            `json:"serial_number"`
	PlateNumber      *string         `json:"plate_number"`
	LicenseType      *string         `json:"license_type"`
	VehicleType      *string         `json:"vehicle_type"`
	ChassisNumber    *string         `json:"chassis_number"`
	LicenseStartDate *model.DateOnly `json:"license_start_date"`
	LicenseEndDate   *model.DateOnly `json:"license_end_date"`
	Recipient        *string         `json:"recipient"`
	Notes            *string         `json:"notes"`
	Violations       *string         `json:"violations"`
	VehicleID        *uuid.UUID      `json:"vehicleId"`
}

func (s *LicenseService) Update(ctx context.Context, id string, input UpdateLicenseInput) (*model.License, error) {
	licenseID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid license id", ErrInvalidInput)
	}
	license, err := s.licenseRepo.GetByID(ctx, licenseID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.SerialNumber != nil {
		license.SerialNumber = input.SerialNumber
	}
	if input.PlateNumber != nil {
		license.PlateNumber = *input.PlateNumber
	}
	if input.LicenseType != nil {
		license.LicenseType = *input.LicenseType
	}
	if input.VehicleType != nil {
		license.VehicleType = input.VehicleType
	}
	if input.ChassisNumber != nil {
		license.ChassisNumber = *input.ChassisNumber
	}
	if input.LicenseStartDate != nil {
		license.LicenseStartDate = input.LicenseStartDate
	}
	if input.LicenseEndDate != nil {
		license.LicenseEndDate = input.LicenseEndDate
	}
	if input.Recipient != nil {
		license.Recipient = input.Recipient
	}
	if input.Notes != nil {
		license.Notes = input.Notes
	}
	if input.Violations != nil {
		license.Violations = input.Violations
	}
	if input.VehicleID != nil {
		license.VehicleID = input.VehicleID
	}

	if err := validateLicense(license); err != nil {
		return nil, err
	}

	var vehicle *model.Vehicle
	if license.VehicleID != nil {
		found, err := s.vehicleRepo.GetByID(ctx, *license.VehicleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: vehicle not found with provided id", ErrNotFound)
			}
			return nil, err
		}
		vehicle = found
		license.ChassisNumber = vehicle.ChassisNumber
	}

	colliding, err := s.licenseRepo.FindColliding(ctx, license.PlateNumber, license.ChassisNumber, license.VehicleID, &license.ID)
	if err != nil {
		return nil, err
	}
	if colliding != nil {
		return nil, fmt.Errorf("%w: a license already exists for this vehicle, plate number or chassis number", ErrConflict)
	}

	if err := s.licenseRepo.Update(ctx, license); err != nil {
		return nil, err
	}

	if vehicle != nil {
		if err := s.syncPlateToVehicle(ctx, vehicle, license.PlateNumber); err != nil {
			return nil, err
		}
	}

	return s.licenseRepo.GetByID(ctx, license.ID, true)
}

func (s *LicenseService) GetByID(ctx context.Context, id string) (*model.License, error) {
	licenseID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid license id", ErrInvalidInput)
	}
	license, err := s.licenseRepo.GetByID(ctx, licenseID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return license, nil
}

func (s *LicenseService) GetByVehicleID(ctx context.Context, vehicleID string) (*model.License, error) {
	id, err := uuid.Parse(vehicleID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid vehicle id", ErrInvalidInput)
	}
	license, err := s.licenseRepo.GetByVehicleID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return license, nil
}

// LicenseListResult is one filtered page of licenses.
type LicenseListResult struct {
	Licenses   []model.License
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

func (s *LicenseService) List(ctx context.Context, params map[string]string, withVehicles bool) (*LicenseListResult, error) {
	q := query.Compile(params, query.LicenseSchema, query.Options{
		DefaultLimit: s.pageSize,
		DefaultOrder: "created_at ASC",
	})
	licenses, total, err := s.licenseRepo.List(ctx, q, withVehicles)
	if err != nil {
		return nil, err
	}
	return &LicenseListResult{
		Licenses:   licenses,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: q.TotalPages(total),
	}, nil
}

func (s *LicenseService) Delete(ctx context.Context, id string) error {
	licenseID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid license id", ErrInvalidInput)
	}
	deleted, err := s.licenseRepo.Delete(ctx, licenseID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Expired returns every license whose end date passed before today.
func (s *LicenseService) Expired(ctx context.Context) ([]model.License, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.licenseRepo.ExpiredBefore(ctx, today)
}

// ExpiringBefore returns licenses ending between now and the threshold.
// Without an explicit threshold the default 30-day warning window applies.
func (s *LicenseService) ExpiringBefore(ctx context.Context, threshold *time.Time) ([]model.License, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, model.ExpiringSoonDays)
	if threshold != nil {
		if threshold.Before(from) {
			return nil, fmt.Errorf("%w: date must not be in the past", ErrInvalidInput)
		}
		to = *threshold
	}
	return s.licenseRepo.ExpiringBetween(ctx, from, to)
}

func (s *LicenseService) UniqueFieldValues(ctx context.Context, fields []string) (map[string][]string, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: fields are required", ErrInvalidInput)
	}
	for _, field := range fields {
		if _, ok := query.LicenseSchema[field]; !ok {
			return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidInput, field)
		}
	}
	return distinctFanOut(ctx, fields, s.licenseRepo.DistinctValues)
}

// syncPlateToVehicle copies a confirmed civilian plate number onto the
// owning vehicle.
func (s *LicenseService) syncPlateToVehicle(ctx context.Context, vehicle *model.Vehicle, plateNumber string) error {
	vehicle.PlateNumberMalaky = &plateNumber
	return s.vehicleRepo.Update(ctx, vehicle)
}

func validateLicense(license *model.License) error {
	missing := make([]string, 0, 4)
	if strings.TrimSpace(license.PlateNumber) == "" {
		missing = append(missing, "plate_number")
	}
	if strings.TrimSpace(license.LicenseType) == "" {
		missing = append(missing, "license_type")
	}
	if strings.TrimSpace(license.ChassisNumber) == "" {
		missing = append(missing, "chassis_number")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	if license.LicenseStartDate != nil && license.LicenseEndDate != nil &&
		license.LicenseEndDate.Before(license.LicenseStartDate.Time) {
		return fmt.Errorf("%w: end date cannot be before start date", ErrInvalidInput)
	}
	return nil
}
