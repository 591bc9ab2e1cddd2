package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleet-registry/internal/model"
	"fleet-registry/internal/query"
)

type MilitaryLicenseRepository struct {
	db *gorm.DB
}

func NewMilitaryLicenseRepository(db *gorm.DB) *MilitaryLicenseRepository {
	return &MilitaryLicenseRepository{db: db}
}

func (r *MilitaryLicenseRepository) Create(ctx context.Context, license *model.MilitaryLicense) error {
	return r.db.WithContext(ctx).Create(license).Error
}

func (r *MilitaryLicenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MilitaryLicense, error) {
	var license model.MilitaryLicense
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&license).Error; err != nil {
		return nil, err
	}
	return &license, nil
}

func (r *MilitaryLicenseRepository) GetByVehicleID(ctx context.Context, vehicleID uuid.UUID) (*model.MilitaryLicense, error) {
	var license model.MilitaryLicense
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("created_at ASC").
		First(&license).Error
	if err != nil {
		return nil, err
	}
	return &license, nil
}

// GetByChassisSuffix matches on the tail of the chassis number, the same
// fuzzy rule used to link military paperwork to vehicles.
func (r *MilitaryLicenseRepository) GetByChassisSuffix(ctx context.Context, chassis string) (*model.MilitaryLicense, error) {
	var license model.MilitaryLicense
	err := r.db.WithContext(ctx).
		Where("LOWER(chassis_number) LIKE LOWER(?)", "%"+chassis).
		Order("created_at ASC").
		First(&license).Error
	if err != nil {
		return nil, err
	}
	return &license, nil
}

func (r *MilitaryLicenseRepository) Update(ctx context.Context, license *model.MilitaryLicense) error {
	return r.db.WithContext(ctx).Save(license).Error
}

func (r *MilitaryLicenseRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.MilitaryLicense{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *MilitaryLicenseRepository) List(ctx context.Context, q query.Query) ([]model.MilitaryLicense, int64, error) {
	var total int64
	if err := q.ApplyConditions(r.db.WithContext(ctx).Model(&model.MilitaryLicense{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var licenses []model.MilitaryLicense
	if err := q.Apply(r.db.WithContext(ctx).Model(&model.MilitaryLicense{})).Find(&licenses).Error; err != nil {
		return nil, 0, err
	}
	return licenses, total, nil
}

func (r *MilitaryLicenseRepository) DistinctValues(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).Model(&model.MilitaryLicense{}).
		Distinct().
		Where(column + " IS NOT NULL").
		Order(column + " ASC").
		Pluck(column, &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}
