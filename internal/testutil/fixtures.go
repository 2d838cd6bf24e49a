package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"flotilla/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestAdmin creates an active admin user with a hashed password.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return createTestUser(t, db, models.UserRoleAdmin)
}

// CreateTestInvestor creates an active investor with a unique email and name.
func CreateTestInvestor(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return createTestUser(t, db, models.UserRoleInvestor)
}

// CreateTestInvestorNamed creates an active investor with the given full name.
func CreateTestInvestorNamed(t *testing.T, db *gorm.DB, fullName string) *models.User {
	t.Helper()

	investor := createTestUser(t, db, models.UserRoleInvestor)
	investor.FullName = &fullName
	if err := db.Save(investor).Error; err != nil {
		t.Fatalf("failed to name test investor: %v", err)
	}
	return investor
}

func createTestUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := nextID()
	name := fmt.Sprintf("Test User %d", n)
	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", n),
		Password: string(hash),
		FullName: &name,
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestVehicle creates an unassigned vehicle with a unique plate.
func CreateTestVehicle(t *testing.T, db *gorm.DB) *models.Vehicle {
	t.Helper()

	n := nextID()
	plate := fmt.Sprintf("TST-%03d", n)
	vehicle := &models.Vehicle{
		Make:         "Toyota",
		Model:        fmt.Sprintf("Corolla %d", n),
		Year:         2022,
		LicensePlate: &plate,
		Status:       models.VehicleStatusAvailable,
	}
	if err := db.Create(vehicle).Error; err != nil {
		t.Fatalf("failed to create test vehicle: %v", err)
	}
	return vehicle
}

// CreateTestVehicleAssigned creates a vehicle assigned to the given investor.
func CreateTestVehicleAssigned(t *testing.T, db *gorm.DB, investorID string) *models.Vehicle {
	t.Helper()

	vehicle := CreateTestVehicle(t, db)
	vehicle.AssignedInvestorID = &investorID
	vehicle.Status = models.VehicleStatusRented
	if err := db.Save(vehicle).Error; err != nil {
		t.Fatalf("failed to assign test vehicle: %v", err)
	}
	return vehicle
}

// CreateTestRecord creates a financial record with the given type and
// amount (as a decimal string) dated now.
func CreateTestRecord(t *testing.T, db *gorm.DB, vehicleID string, recordType models.RecordType, amount string) *models.FinancialRecord {
	t.Helper()
	return CreateTestRecordOn(t, db, vehicleID, recordType, amount, time.Now())
}

// CreateTestRecordOn creates a financial record with an explicit date.
func CreateTestRecordOn(t *testing.T, db *gorm.DB, vehicleID string, recordType models.RecordType, amount string, date time.Time) *models.FinancialRecord {
	t.Helper()

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("invalid test amount %q: %v", amount, err)
	}

	category := "rental"
	if recordType == models.RecordTypeExpense {
		category = "repairs"
	}

	record := &models.FinancialRecord{
		VehicleID:   vehicleID,
		Type:        recordType,
		Category:    category,
		Amount:      amt,
		Date:        date,
		Description: fmt.Sprintf("Test record %d", nextID()),
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test record: %v", err)
	}
	return record
}

// CreateTestMaintenance creates a scheduled maintenance entry for a vehicle.
func CreateTestMaintenance(t *testing.T, db *gorm.DB, vehicleID string) *models.MaintenanceRecord {
	t.Helper()

	entry := &models.MaintenanceRecord{
		VehicleID:   vehicleID,
		Description: fmt.Sprintf("Test maintenance %d", nextID()),
		Cost:        decimal.NewFromInt(150),
		Status:      models.MaintenanceStatusScheduled,
		PerformedAt: time.Now(),
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test maintenance: %v", err)
	}
	return entry
}

// CreateTestDocument creates a document linked to the given vehicle.
func CreateTestDocument(t *testing.T, db *gorm.DB, vehicleID, uploadedBy string) *models.Document {
	t.Helper()

	n := nextID()
	doc := &models.Document{
		Name:        fmt.Sprintf("test-doc-%d.pdf", n),
		FileURL:     fmt.Sprintf("https://storage.test/docs/%d.pdf", n),
		ContentType: "application/pdf",
		VehicleID:   &vehicleID,
		UploadedBy:  uploadedBy,
	}
	if err := db.Create(doc).Error; err != nil {
		t.Fatalf("failed to create test document: %v", err)
	}
	return doc
}
