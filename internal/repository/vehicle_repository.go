package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleet-registry/internal/model"
	"fleet-registry/internal/query"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&vehicle).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// FindByChassisSuffix resolves a vehicle whose chassis number ends with the
// given fragment, case-insensitively. Legacy license paperwork often records
// only the tail of the chassis number. A miss returns (nil, nil).
func (r *VehicleRepository) FindByChassisSuffix(ctx context.Context, chassis string) (*model.Vehicle, error) {
	if chassis == "" {
		return nil, nil
	}
	var vehicle model.Vehicle
	err := r.db.WithContext(ctx).
		Where("LOWER(chassis_number) LIKE LOWER(?)", "%"+chassis).
		First(&vehicle).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &vehicle, nil
}

func (r *VehicleRepository) Update(ctx context.Context, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

// UpdateFields patches the given columns on a vehicle and reports whether a
// row matched.
func (r *VehicleRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Vehicle{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Vehicle{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List runs a compiled filter and returns the page plus the total number of
// matching rows.
func (r *VehicleRepository) List(ctx context.Context, q query.Query) ([]model.Vehicle, int64, error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&model.Vehicle{})
	if err := q.ApplyConditions(base).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var vehicles []model.Vehicle
	if err := q.Apply(r.db.WithContext(ctx).Model(&model.Vehicle{})).Find(&vehicles).Error; err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

func (r *VehicleRepository) ListBySector(ctx context.Context, sector string) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	err := r.db.WithContext(ctx).
		Where("LOWER(sector) LIKE LOWER(?)", "%"+sector+"%").
		Order("created_at DESC").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *VehicleRepository) ListByAdministration(ctx context.Context, administration string) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	err := r.db.WithContext(ctx).
		Where("LOWER(administration) LIKE LOWER(?)", "%"+administration+"%").
		Order("created_at DESC").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

// DistinctValues returns the sorted distinct non-null values of a column.
// Callers validate the column name against the vehicle schema first.
func (r *VehicleRepository) DistinctValues(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).Model(&model.Vehicle{}).
		Distinct().
		Where(column + " IS NOT NULL").
		Order(column + " ASC").
		Pluck(column, &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}
