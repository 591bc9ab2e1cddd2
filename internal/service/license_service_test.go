package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-registry/internal/model"
	"fleet-registry/internal/repository"
)

func newLicenseFixture(t *testing.T) (*LicenseService, *repository.VehicleRepository) {
	t.Helper()
	db := newTestDB(t)
	vehicleRepo := repository.NewVehicleRepository(db)
	licenseRepo := repository.NewLicenseRepository(db)
	return NewLicenseService(licenseRepo, vehicleRepo, 10), vehicleRepo
}

func TestLicenseCreateLinksByChassisSuffix(t *testing.T) {
	ctx := context.Background()
	svc, vehicleRepo := newLicenseFixture(t)

	vehicle := &model.Vehicle{ChassisNumber: "WDB123XYZ"}
	require.NoError(t, vehicleRepo.Create(ctx, vehicle))

	// Paperwork carries only the tail of the chassis number.
	created, err := svc.Create(ctx, &model.License{
		PlateNumber:   "A 1234",
		LicenseType:   "private",
		ChassisNumber: "123XYZ",
	})
	require.NoError(t, err)

	require.NotNil(t, created.VehicleID)
	assert.Equal(t, vehicle.ID, *created.VehicleID)
	assert.Equal(t, "WDB123XYZ", created.ChassisNumber)

	// The confirmed plate flows back onto the vehicle.
	reloaded, err := vehicleRepo.GetByID(ctx, vehicle.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.PlateNumberMalaky)
	assert.Equal(t, "A 1234", *reloaded.PlateNumberMalaky)
}

func TestLicenseCreateStaysUnlinkedOnMiss(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLicenseFixture(t)

	created, err := svc.Create(ctx, &model.License{
		PlateNumber:   "B 5678",
		LicenseType:   "private",
		ChassisNumber: "NOMATCH",
	})
	require.NoError(t, err)
	assert.Nil(t, created.VehicleID)
	assert.Equal(t, "NOMATCH", created.ChassisNumber)
}

func TestLicenseCreateUnknownVehicleID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLicenseFixture(t)

	missing := newUUID(t)
	_, err := svc.Create(ctx, &model.License{
		PlateNumber:   "C 1111",
		LicenseType:   "private",
		ChassisNumber: "ANY",
		VehicleID:     &missing,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLicenseCreateRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLicenseFixture(t)

	_, err := svc.Create(ctx, &model.License{
		PlateNumber:   "D 2222",
		LicenseType:   "private",
		ChassisNumber: "CHS-1",
	})
	require.NoError(t, err)

	// Same plate, different chassis.
	_, err = svc.Create(ctx, &model.License{
		PlateNumber:   "D 2222",
		LicenseType:   "private",
		ChassisNumber: "CHS-2",
	})
	assert.ErrorIs(t, err, ErrConflict)

	// Same chassis, different plate.
	_, err = svc.Create(ctx, &model.License{
		PlateNumber:   "D 3333",
		LicenseType:   "private",
		ChassisNumber: "CHS-1",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLicenseUpdateExcludesSelfFromDuplicateCheck(t *testing.T) {
	ctx := context.Background()
	svc, vehicleRepo := newLicenseFixture(t)

	vehicle := &model.Vehicle{ChassisNumber: "WDB999AAA"}
	require.NoError(t, vehicleRepo.Create(ctx, vehicle))

	created, err := svc.Create(ctx, &model.License{
		PlateNumber:   "E 4444",
		LicenseType:   "private",
		ChassisNumber: "999AAA",
	})
	require.NoError(t, err)

	// Touching an unrelated field must not trip over the license's own
	// plate, chassis or vehicle link.
	updated, err := svc.Update(ctx, created.ID.String(), UpdateLicenseInput{
		Notes: strPtr("renewed at the counter"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "renewed at the counter", *updated.Notes)
	assert.Equal(t, "E 4444", updated.PlateNumber)
}

func TestLicenseUpdatePlateResyncsVehicle(t *testing.T) {
	ctx := context.Background()
	svc, vehicleRepo := newLicenseFixture(t)

	vehicle := &model.Vehicle{ChassisNumber: "WDB555BBB"}
	require.NoError(t, vehicleRepo.Create(ctx, vehicle))

	created, err := svc.Create(ctx, &model.License{
		PlateNumber:   "F 5555",
		LicenseType:   "private",
		ChassisNumber: "555BBB",
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID.String(), UpdateLicenseInput{
		PlateNumber: strPtr("F 6666"),
	})
	require.NoError(t, err)

	reloaded, err := vehicleRepo.GetByID(ctx, vehicle.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.PlateNumberMalaky)
	assert.Equal(t, "F 6666", *reloaded.PlateNumberMalaky)
}

func TestLicenseValidateDates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLicenseFixture(t)

	start := model.NewDateOnly(mustParseDate(t, "2026-06-01"))
	end := model.NewDateOnly(mustParseDate(t, "2026-05-01"))
	_, err := svc.Create(ctx, &model.License{
		PlateNumber:      "G 7777",
		LicenseType:      "private",
		ChassisNumber:    "CHS-3",
		LicenseStartDate: &start,
		LicenseEndDate:   &end,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLicenseCreateRequiresCoreFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLicenseFixture(t)

	_, err := svc.Create(ctx, &model.License{PlateNumber: "H 8888"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
