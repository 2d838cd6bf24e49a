package models

// VehicleStatus represents the operational state of a fleet vehicle.
type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusRented      VehicleStatus = "rented"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
)

// Vehicle represents a fleet asset. A vehicle may be unassigned
// (AssignedInvestorID nil), in which case it is excluded from all
// investor reporting.
type Vehicle struct {
	Base
	Make               string        `gorm:"not null" json:"make"`
	Model              string        `gorm:"not null" json:"model"`
	Year               int           `json:"year"`
	LicensePlate       *string       `gorm:"uniqueIndex" json:"license_plate,omitempty"`
	ImageURL           *string       `json:"image_url,omitempty"`
	Status             VehicleStatus `gorm:"not null;default:available" json:"status"`
	AssignedInvestorID *string       `gorm:"type:uuid;index" json:"assigned_investor_id,omitempty"`

	AssignedInvestor   *User               `gorm:"foreignKey:AssignedInvestorID" json:"assigned_investor,omitempty"`
	FinancialRecords   []FinancialRecord   `gorm:"foreignKey:VehicleID" json:"financial_records,omitempty"`
	MaintenanceRecords []MaintenanceRecord `gorm:"foreignKey:VehicleID" json:"maintenance_records,omitempty"`
}

// DisplayName returns the human-readable vehicle name used in reports.
func (v *Vehicle) DisplayName() string {
	return v.Make + " " + v.Model
}
