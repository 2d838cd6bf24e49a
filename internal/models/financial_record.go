package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordType represents the direction of a financial record.
type RecordType string

const (
	RecordTypeIncome  RecordType = "income"
	RecordTypeExpense RecordType = "expense"
)

// FinancialRecord is a single dated income or expense transaction tied
// to one vehicle. Amount is an unsigned magnitude; its sign is implied
// by Type. Stored as numeric to keep monetary values exact.
type FinancialRecord struct {
	Base
	VehicleID   string          `gorm:"type:uuid;not null;index" json:"vehicle_id"`
	Type        RecordType      `gorm:"not null;index" json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Description string          `json:"description"`

	Vehicle Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle"`
}
