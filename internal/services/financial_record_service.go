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

// financialRecordService handles financial record management.
type financialRecordService struct {
	db *gorm.DB
}

// NewFinancialRecordService creates a new FinancialRecordServicer.
func NewFinancialRecordService(db *gorm.DB) FinancialRecordServicer {
	return &financialRecordService{db: db}
}

// CreateRecord stores a new income or expense record for a vehicle.
// Amount is an unsigned magnitude; the sign is implied by the type.
func (s *financialRecordService) CreateRecord(vehicleID string, recordType models.RecordType, category string, amount decimal.Decimal, date time.Time, description string) (*models.FinancialRecord, error) {
	if recordType != models.RecordTypeIncome && recordType != models.RecordTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be income or expense")
	}
	if amount.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}

	var vehicle models.Vehicle
	if err := s.db.Where("id = ?", vehicleID).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVehicleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	record := &models.FinancialRecord{
		VehicleID:   vehicleID,
		Type:        recordType,
		Category:    category,
		Amount:      amount,
		Date:        date,
		Description: description,
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	record.Vehicle = vehicle
	return record, nil
}

// GetRecordByID returns a financial record with its vehicle preloaded.
func (s *financialRecordService) GetRecordByID(recordID string) (*models.FinancialRecord, error) {
	var record models.FinancialRecord
	if err := s.db.Preload("Vehicle").Where("id = ?", recordID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}

// ListRecords returns a paginated, filtered list of financial records
// ordered by date descending.
func (s *financialRecordService) ListRecords(page pagination.PageRequest, filter RecordFilter) (*pagination.PageResponse[models.FinancialRecord], error) {
	page.Defaults()

	base := s.db.Model(&models.FinancialRecord{})
	if filter.VehicleID != nil {
		base = base.Where("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", *filter.ToDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.FinancialRecord
	if err := base.Preload("Vehicle").Order("date DESC").
		Scopes(pagination.Paginate(page)).Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(records, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateRecord updates mutable fields of a record. Type and vehicle are
// immutable; delete and recreate to change them.
func (s *financialRecordService) UpdateRecord(recordID string, category *string, amount *decimal.Decimal, date *time.Time, description *string) (*models.FinancialRecord, error) {
	record, err := s.GetRecordByID(recordID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if category != nil {
		updates["category"] = *category
	}
	if amount != nil {
		if amount.IsNegative() {
			return nil, apperrors.ErrNegativeAmount
		}
		updates["amount"] = *amount
	}
	if date != nil {
		updates["date"] = *date
	}
	if description != nil {
		updates["description"] = *description
	}

	if len(updates) > 0 {
		if err := s.db.Model(record).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return record, nil
}

// DeleteRecord soft-deletes a financial record.
func (s *financialRecordService) DeleteRecord(recordID string) error {
	record, err := s.GetRecordByID(recordID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(record).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
