package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"flotilla/internal/models"
	"flotilla/internal/pagination"
	"flotilla/internal/testutil"
)

func TestCreateMaintenance(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMaintenanceService(db)

		vehicle := testutil.CreateTestVehicle(t, db)
		entry, err := svc.CreateMaintenance(vehicle.ID, "Oil change", decimal.RequireFromString("89.99"), time.Now())
		testutil.AssertNoError(t, err)

		if entry.Status != models.MaintenanceStatusScheduled {
			t.Errorf("expected scheduled status, got %s", entry.Status)
		}
		testutil.AssertDecimalEqual(t, "89.99", entry.Cost)
	})

	t.Run("missing_description", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMaintenanceService(db)

		vehicle := testutil.CreateTestVehicle(t, db)
		_, err := svc.CreateMaintenance(vehicle.ID, "", decimal.NewFromInt(100), time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_cost", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMaintenanceService(db)

		vehicle := testutil.CreateTestVehicle(t, db)
		_, err := svc.CreateMaintenance(vehicle.ID, "Brakes", decimal.NewFromInt(-1), time.Now())
		testutil.AssertAppError(t, err, "NEGATIVE_AMOUNT")
	})

	t.Run("unknown_vehicle", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMaintenanceService(db)

		_, err := svc.CreateMaintenance("0198c5a0-0000-7000-8000-000000000000", "Brakes", decimal.NewFromInt(1), time.Now())
		testutil.AssertAppError(t, err, "VEHICLE_NOT_FOUND")
	})
}

func TestGetVehicleMaintenance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewMaintenanceService(db)

	vehicle := testutil.CreateTestVehicle(t, db)
	other := testutil.CreateTestVehicle(t, db)
	testutil.CreateTestMaintenance(t, db, vehicle.ID)
	testutil.CreateTestMaintenance(t, db, vehicle.ID)
	testutil.CreateTestMaintenance(t, db, other.ID)

	result, err := svc.GetVehicleMaintenance(vehicle.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if result.TotalItems != 2 {
		t.Fatalf("expected 2 entries, got %d", result.TotalItems)
	}
}

func TestUpdateMaintenanceStatus(t *testing.T) {
	t.Run("valid_transition", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMaintenanceService(db)

		vehicle := testutil.CreateTestVehicle(t, db)
		entry := testutil.CreateTestMaintenance(t, db, vehicle.ID)

		updated, err := svc.UpdateMaintenanceStatus(entry.ID, models.MaintenanceStatusCompleted)
		testutil.AssertNoError(t, err)
		if updated.Status != models.MaintenanceStatusCompleted {
			t.Errorf("expected completed status, got %s", updated.Status)
		}
	})

	t.Run("unknown_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMaintenanceService(db)

		_, err := svc.UpdateMaintenanceStatus("0198c5a0-0000-7000-8000-000000000000", models.MaintenanceStatusCompleted)
		testutil.AssertAppError(t, err, "MAINTENANCE_NOT_FOUND")
	})
}

func TestDeleteMaintenance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewMaintenanceService(db)

	vehicle := testutil.CreateTestVehicle(t, db)
	entry := testutil.CreateTestMaintenance(t, db, vehicle.ID)

	testutil.AssertNoError(t, svc.DeleteMaintenance(entry.ID))
	err := svc.DeleteMaintenance(entry.ID)
	testutil.AssertAppError(t, err, "MAINTENANCE_NOT_FOUND")
}
