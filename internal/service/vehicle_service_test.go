package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-registry/internal/model"
	"fleet-registry/internal/repository"
)

func newVehicleFixture(t *testing.T) (*VehicleService, *repository.VehicleRepository) {
	t.Helper()
	db := newTestDB(t)
	repo := repository.NewVehicleRepository(db)
	return NewVehicleService(repo, 500), repo
}

func adminPrincipal() model.Principal {
	return model.Principal{Username: "admin", Role: model.RoleAdmin}
}

func TestVehicleCreateRequiresChassis(t *testing.T) {
	ctx := context.Background()
	svc, _ := newVehicleFixture(t)

	_, err := svc.Create(ctx, &model.Vehicle{ChassisNumber: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestVehicleCreateRejectsDuplicateChassis(t *testing.T) {
	ctx := context.Background()
	svc, _ := newVehicleFixture(t)

	_, err := svc.Create(ctx, &model.Vehicle{ChassisNumber: "DUP-1"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &model.Vehicle{ChassisNumber: "DUP-1"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestVehicleCreateValidatesModelYear(t *testing.T) {
	ctx := context.Background()
	svc, _ := newVehicleFixture(t)

	_, err := svc.Create(ctx, &model.Vehicle{ChassisNumber: "Y-1", ModelYear: intPtr(1500)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	created, err := svc.Create(ctx, &model.Vehicle{ChassisNumber: "Y-2", ModelYear: intPtr(2020)})
	require.NoError(t, err)
	assert.Equal(t, 2020, *created.ModelYear)
}

func TestVehicleGetProjectsByRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := newVehicleFixture(t)

	created, err := svc.Create(ctx, &model.Vehicle{
		ChassisNumber:   "PRJ-1",
		PlateNumberGesh: strPtr("G 10"),
		VehicleType:     strPtr("truck"),
	})
	require.NoError(t, err)

	viewer := model.Principal{Username: "viewer", Role: model.RoleViewer}
	projected, err := svc.Get(ctx, viewer, created.ID.String())
	require.NoError(t, err)
	assert.NotContains(t, projected, "plate_number_gesh")
	assert.NotContains(t, projected, "chassis_number")
	assert.Equal(t, "truck", projected["vehicle_type"])

	full, err := svc.Get(ctx, adminPrincipal(), created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "G 10", full["plate_number_gesh"])
	assert.Equal(t, "PRJ-1", full["chassis_number"])
}

func TestVehicleListFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newVehicleFixture(t)

	for i := 0; i < 25; i++ {
		sector := "North"
		if i >= 15 {
			sector = "South"
		}
		_, err := svc.Create(ctx, &model.Vehicle{
			ChassisNumber: fmt.Sprintf("LST-%02d", i),
			Sector:        &sector,
		})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, adminPrincipal(), map[string]string{"limit": "10", "page": "2"})
	require.NoError(t, err)
	assert.Len(t, page.Vehicles, 10)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 3, page.TotalPages)

	north, err := svc.List(ctx, adminPrincipal(), map[string]string{"sector": "North"})
	require.NoError(t, err)
	assert.Equal(t, int64(15), north.Total)

	both, err := svc.List(ctx, adminPrincipal(), map[string]string{"sector": "North,South"})
	require.NoError(t, err)
	assert.Equal(t, int64(25), both.Total)
}

func TestVehicleUpdateNormalizesModelYear(t *testing.T) {
	ctx := context.Background()
	svc, repo := newVehicleFixture(t)

	created, err := svc.Create(ctx, &model.Vehicle{ChassisNumber: "UPD-1", ModelYear: intPtr(2018)})
	require.NoError(t, err)

	// Legacy imports send the literal string "NULL" for unknown years.
	_, err = svc.Update(ctx, adminPrincipal(), created.ID.String(), map[string]interface{}{
		"model_year": "NULL",
	})
	require.NoError(t, err)

	reloaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.ModelYear)

	_, err = svc.Update(ctx, adminPrincipal(), created.ID.String(), map[string]interface{}{
		"model_year": "2021",
	})
	require.NoError(t, err)

	reloaded, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.ModelYear)
	assert.Equal(t, 2021, *reloaded.ModelYear)
}

func TestVehicleUpdateDropsUnknownColumns(t *testing.T) {
	ctx := context.Background()
	svc, _ := newVehicleFixture(t)

	created, err := svc.Create(ctx, &model.Vehicle{ChassisNumber: "UPD-2"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, adminPrincipal(), created.ID.String(), map[string]interface{}{
		"id":         "11111111-1111-1111-1111-111111111111",
		"created_at": "2000-01-01",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestVehicleUpdateInsuranceStatus(t *testing.T) {
	ctx := context.Background()
	svc, repo := newVehicleFixture(t)

	created, err := svc.Create(ctx, &model.Vehicle{ChassisNumber: "INS-1"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateInsuranceStatus(ctx, created.ID.String(), "insured"))

	reloaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.InsuranceStatus)
	assert.Equal(t, "insured", *reloaded.InsuranceStatus)

	err = svc.UpdateInsuranceStatus(ctx, newUUID(t).String(), "insured")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVehicleUniqueFieldValues(t *testing.T) {
	ctx := context.Background()
	svc, _ := newVehicleFixture(t)

	for i, sector := range []string{"North", "South", "North"} {
		_, err := svc.Create(ctx, &model.Vehicle{
			ChassisNumber: fmt.Sprintf("UNQ-%d", i),
			Sector:        &sector,
			FuelType:      strPtr("diesel"),
		})
		require.NoError(t, err)
	}

	values, err := svc.UniqueFieldValues(ctx, []string{"sector", "fuel_type"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"North", "South"}, values["sector"])
	assert.Equal(t, []string{"diesel"}, values["fuel_type"])

	_, err = svc.UniqueFieldValues(ctx, []string{"password"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestVehicleDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newVehicleFixture(t)

	created, err := svc.Create(ctx, &model.Vehicle{ChassisNumber: "DEL-1"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID.String()))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID.String()), ErrNotFound)

	_, err = svc.Get(ctx, adminPrincipal(), created.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)
}
