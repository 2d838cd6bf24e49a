package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaintenanceStatus represents the progress of a maintenance job.
type MaintenanceStatus string

const (
	MaintenanceStatusScheduled  MaintenanceStatus = "scheduled"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusCompleted  MaintenanceStatus = "completed"
)

// MaintenanceRecord tracks service work performed on a vehicle.
type MaintenanceRecord struct {
	Base
	VehicleID   string            `gorm:"type:uuid;not null;index" json:"vehicle_id"`
	Description string            `gorm:"not null" json:"description"`
	Cost        decimal.Decimal   `gorm:"type:numeric(14,2)" json:"cost"`
	Status      MaintenanceStatus `gorm:"not null;default:scheduled" json:"status"`
	PerformedAt time.Time         `gorm:"not null" json:"performed_at"`

	Vehicle Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle"`
}
