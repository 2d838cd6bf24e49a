// Package errors provides custom error types for the Flotilla API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User & investor errors.
var (
	ErrUserNotFound     = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrInvestorNotFound = &AppError{Code: "INVESTOR_NOT_FOUND", Message: "Investor not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail   = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Vehicle errors.
var (
	ErrVehicleNotFound   = &AppError{Code: "VEHICLE_NOT_FOUND", Message: "Vehicle not found", StatusCode: http.StatusNotFound}
	ErrDuplicatePlate    = &AppError{Code: "DUPLICATE_PLATE", Message: "A vehicle with this license plate already exists", StatusCode: http.StatusConflict}
	ErrVehicleAssigned   = &AppError{Code: "VEHICLE_ASSIGNED", Message: "Vehicle is already assigned to an investor", StatusCode: http.StatusConflict}
	ErrVehicleUnassigned = &AppError{Code: "VEHICLE_UNASSIGNED", Message: "Vehicle is not assigned to an investor", StatusCode: http.StatusBadRequest}
)

// Financial record errors.
var (
	ErrRecordNotFound = &AppError{Code: "RECORD_NOT_FOUND", Message: "Financial record not found", StatusCode: http.StatusNotFound}
	ErrNegativeAmount = &AppError{Code: "NEGATIVE_AMOUNT", Message: "Amount must not be negative", StatusCode: http.StatusBadRequest}
)

// Maintenance errors.
var (
	ErrMaintenanceNotFound = &AppError{Code: "MAINTENANCE_NOT_FOUND", Message: "Maintenance record not found", StatusCode: http.StatusNotFound}
)

// Document errors.
var (
	ErrDocumentNotFound = &AppError{Code: "DOCUMENT_NOT_FOUND", Message: "Document not found", StatusCode: http.StatusNotFound}
)

// Report errors.
var (
	ErrReportEmpty = &AppError{Code: "REPORT_EMPTY", Message: "No records available to export", StatusCode: http.StatusNotFound}
)
