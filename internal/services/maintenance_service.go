package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "flotilla/internal/errors"
	"flotilla/internal/models"
	"flotilla/internal/pagination"
)

// maintenanceService handles vehicle maintenance tracking.
type maintenanceService struct {
	db *gorm.DB
}

// NewMaintenanceService creates a new MaintenanceServicer.
func NewMaintenanceService(db *gorm.DB) MaintenanceServicer {
	return &maintenanceService{db: db}
}

// CreateMaintenance schedules maintenance work for a vehicle.
func (s *maintenanceService) CreateMaintenance(vehicleID, description string, cost decimal.Decimal, performedAt time.Time) (*models.MaintenanceRecord, error) {
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if cost.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}

	var vehicle models.Vehicle
	if err := s.db.Where("id = ?", vehicleID).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVehicleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	record := &models.MaintenanceRecord{
		VehicleID:   vehicleID,
		Description: description,
		Cost:        cost,
		Status:      models.MaintenanceStatusScheduled,
		PerformedAt: performedAt,
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return record, nil
}

// GetVehicleMaintenance lists maintenance records for a vehicle, newest first.
func (s *maintenanceService) GetVehicleMaintenance(vehicleID string, page pagination.PageRequest) (*pagination.PageResponse[models.MaintenanceRecord], error) {
	page.Defaults()

	base := s.db.Model(&models.MaintenanceRecord{}).Where("vehicle_id = ?", vehicleID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.MaintenanceRecord
	if err := base.Order("performed_at DESC").Scopes(pagination.Paginate(page)).Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(records, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateMaintenanceStatus moves a maintenance record through its lifecycle.
func (s *maintenanceService) UpdateMaintenanceStatus(maintenanceID string, status models.MaintenanceStatus) (*models.MaintenanceRecord, error) {
	var record models.MaintenanceRecord
	if err := s.db.Where("id = ?", maintenanceID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMaintenanceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&record).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}

// DeleteMaintenance soft-deletes a maintenance record.
func (s *maintenanceService) DeleteMaintenance(maintenanceID string) error {
	var record models.MaintenanceRecord
	if err := s.db.Where("id = ?", maintenanceID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMaintenanceNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&record).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
