package services

import (
	"time"

	"github.com/shopspring/decimal"

	"flotilla/internal/models"
	"flotilla/internal/pagination"
)

// UserServicer defines the contract for user and investor management.
type UserServicer interface {
	CreateUser(email, password string, fullName *string, role models.UserRole) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	ListInvestors(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	UpdateInvestor(investorID string, fullName *string) (*models.User, error)
	DeactivateInvestor(investorID string) error
}

// VehicleServicer defines the contract for vehicle management.
type VehicleServicer interface {
	CreateVehicle(make, model string, year int, licensePlate, imageURL *string) (*models.Vehicle, error)
	GetVehicleByID(vehicleID string) (*models.Vehicle, error)
	ListVehicles(page pagination.PageRequest, status *models.VehicleStatus, investorID *string) (*pagination.PageResponse[models.Vehicle], error)
	UpdateVehicle(vehicleID string, make, model string, year int, licensePlate, imageURL *string, status *models.VehicleStatus) (*models.Vehicle, error)
	AssignInvestor(vehicleID, investorID string) (*models.Vehicle, error)
	UnassignInvestor(vehicleID string) (*models.Vehicle, error)
	DeleteVehicle(vehicleID string) error
}

// RecordFilter holds optional filter parameters for listing financial records.
type RecordFilter struct {
	VehicleID *string
	Type      *models.RecordType
	Category  *string
	FromDate  *time.Time
	ToDate    *time.Time
}

// FinancialRecordServicer defines the contract for financial record management.
type FinancialRecordServicer interface {
	CreateRecord(vehicleID string, recordType models.RecordType, category string, amount decimal.Decimal, date time.Time, description string) (*models.FinancialRecord, error)
	GetRecordByID(recordID string) (*models.FinancialRecord, error)
	ListRecords(page pagination.PageRequest, filter RecordFilter) (*pagination.PageResponse[models.FinancialRecord], error)
	UpdateRecord(recordID string, category *string, amount *decimal.Decimal, date *time.Time, description *string) (*models.FinancialRecord, error)
	DeleteRecord(recordID string) error
}

// MaintenanceServicer defines the contract for maintenance tracking.
type MaintenanceServicer interface {
	CreateMaintenance(vehicleID, description string, cost decimal.Decimal, performedAt time.Time) (*models.MaintenanceRecord, error)
	GetVehicleMaintenance(vehicleID string, page pagination.PageRequest) (*pagination.PageResponse[models.MaintenanceRecord], error)
	UpdateMaintenanceStatus(maintenanceID string, status models.MaintenanceStatus) (*models.MaintenanceRecord, error)
	DeleteMaintenance(maintenanceID string) error
}

// DocumentServicer defines the contract for document metadata management.
// File contents live in external object storage; only URLs are stored here.
type DocumentServicer interface {
	CreateDocument(name, fileURL, contentType string, vehicleID, investorID *string, uploadedBy string) (*models.Document, error)
	ListDocuments(page pagination.PageRequest, vehicleID, investorID *string) (*pagination.PageResponse[models.Document], error)
	DeleteDocument(documentID string) error
}

// VehicleFinancials aggregates income and expenses for a single vehicle.
type VehicleFinancials struct {
	VehicleID        string          `json:"vehicle_id"`
	Name             string          `json:"name"`
	LicensePlate     *string         `json:"license_plate,omitempty"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	NetBalance       decimal.Decimal `json:"net_balance"`
	TransactionCount int             `json:"transaction_count"`
}

// InvestorFinancialSummary aggregates financials across all vehicles
// assigned to one investor.
type InvestorFinancialSummary struct {
	InvestorID          string              `json:"investor_id"`
	InvestorName        string              `json:"investor_name"`
	Email               string              `json:"email"`
	VehicleCount        int                 `json:"vehicle_count"`
	TotalIncome         decimal.Decimal     `json:"total_income"`
	TotalExpenses       decimal.Decimal     `json:"total_expenses"`
	NetBalance          decimal.Decimal     `json:"net_balance"`
	LastTransactionDate *time.Time          `json:"last_transaction_date,omitempty"`
	Vehicles            []VehicleFinancials `json:"vehicles"`
}

// MonthlyBucket aggregates income, expenses, and net for one calendar
// month ("YYYY-MM") within the reporting window.
type MonthlyBucket struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// SummaryReport carries computed summaries plus non-fatal warnings from
// degraded sub-fetches. An empty Warnings slice means a clean run.
type SummaryReport struct {
	Summaries []InvestorFinancialSummary `json:"summaries"`
	Warnings  []string                   `json:"warnings,omitempty"`
}

// ReportServicer defines the contract for investor financial reporting.
type ReportServicer interface {
	FinancialSummaries(investorID *string) SummaryReport
	MonthlyFinancials(investorID string, windowMonths int) ([]MonthlyBucket, error)
	InvestorTransactions(investorID string) ([]models.FinancialRecord, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
