package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleet-registry/internal/model"
	"fleet-registry/internal/query"
)

type LicenseRepository struct {
	db *gorm.DB
}

func NewLicenseRepository(db *gorm.DB) *LicenseRepository {
	return &LicenseRepository{db: db}
}

func (r *LicenseRepository) Create(ctx context.Context, license *model.License) error {
	return r.db.WithContext(ctx).Create(license).Error
}

func (r *LicenseRepository) GetByID(ctx context.Context, id uuid.UUID, withVehicle bool) (*model.License, error) {
	tx := r.db.WithContext(ctx)
	if withVehicle {
		tx = tx.Preload("Vehicle")
	}
	var license model.License
	if err := tx.Where("id = ?", id).First(&license).Error; err != nil {
		return nil, err
	}
	return &license, nil
}

func (r *LicenseRepository) GetByVehicleID(ctx context.Context, vehicleID uuid.UUID) (*model.License, error) {
	var license model.License
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("created_at ASC").
		First(&license).Error
	if err != nil {
		return nil, err
	}
	return &license, nil
}

// FindColliding looks for another license claiming the same plate number,
// chassis number or vehicle. excludeID skips the record being updated so a
// record never collides with itself.
func (r *LicenseRepository) FindColliding(ctx context.Context, plateNumber, chassisNumber string, vehicleID *uuid.UUID, excludeID *uuid.UUID) (*model.License, error) {
	tx := r.db.WithContext(ctx)
	if vehicleID != nil {
		tx = tx.Where("plate_number = ? OR chassis_number = ? OR vehicle_id = ?", plateNumber, chassisNumber, *vehicleID)
	} else {
		tx = tx.Where("plate_number = ? OR chassis_number = ?", plateNumber, chassisNumber)
	}
	if excludeID != nil {
		tx = tx.Where("id <> ?", *excludeID)
	}
	var license model.License
	err := tx.First(&license).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &license, nil
}

func (r *LicenseRepository) Update(ctx context.Context, license *model.License) error {
	return r.db.WithContext(ctx).Save(license).Error
}

func (r *LicenseRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.License{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *LicenseRepository) List(ctx context.Context, q query.Query, withVehicle bool) ([]model.License, int64, error) {
	var total int64
	if err := q.ApplyConditions(r.db.WithContext(ctx).Model(&model.License{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tx := r.db.WithContext(ctx).Model(&model.License{})
	if withVehicle {
		tx = tx.Preload("Vehicle")
	}
	var licenses []model.License
	if err := q.Apply(tx).Find(&licenses).Error; err != nil {
		return nil, 0, err
	}
	return licenses, total, nil
}

// ExpiredBefore returns licenses whose end date is strictly before the given
// instant, oldest expiry first, each with its owning vehicle.
func (r *LicenseRepository) ExpiredBefore(ctx context.Context, t time.Time) ([]model.License, error) {
	var licenses []model.License
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Where("license_end_date IS NOT NULL AND license_end_date < ?", t).
		Order("license_end_date ASC").
		Find(&licenses).Error
	if err != nil {
		return nil, err
	}
	return licenses, nil
}

// ExpiringBetween returns licenses whose end date falls inside [from, to],
// soonest first, each with its owning vehicle.
func (r *LicenseRepository) ExpiringBetween(ctx context.Context, from, to time.Time) ([]model.License, error) {
	var licenses []model.License
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Where("license_end_date IS NOT NULL AND license_end_date BETWEEN ? AND ?", from, to).
		Order("license_end_date ASC").
		Find(&licenses).Error
	if err != nil {
		return nil, err
	}
	return licenses, nil
}

func (r *LicenseRepository) DistinctValues(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).Model(&model.License{}).
		Distinct().
		Where(column + " IS NOT NULL").
		Order(column + " ASC").
		Pluck(column, &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}
