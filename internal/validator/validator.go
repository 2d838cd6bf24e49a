// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("record_type", validateRecordType)
		_ = v.RegisterValidation("user_role", validateUserRole)
		_ = v.RegisterValidation("vehicle_status", validateVehicleStatus)
		_ = v.RegisterValidation("maintenance_status", validateMaintenanceStatus)
	}
}

func validateRecordType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "admin", "investor":
		return true
	}
	return false
}

func validateVehicleStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "available", "rented", "maintenance":
		return true
	}
	return false
}

func validateMaintenanceStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "scheduled", "in_progress", "completed":
		return true
	}
	return false
}
