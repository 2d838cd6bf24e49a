package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "flotilla/internal/errors"
	"flotilla/internal/models"
	"flotilla/internal/pagination"
)

// vehicleService handles vehicle management.
type vehicleService struct {
	db *gorm.DB
}

// NewVehicleService creates a new VehicleServicer.
func NewVehicleService(db *gorm.DB) VehicleServicer {
	return &vehicleService{db: db}
}

// CreateVehicle registers a new fleet vehicle, initially unassigned.
func (s *vehicleService) CreateVehicle(make, model string, year int, licensePlate, imageURL *string) (*models.Vehicle, error) {
	if make == "" || model == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "make and model are required")
	}

	if licensePlate != nil && *licensePlate != "" {
		var count int64
		s.db.Model(&models.Vehicle{}).Where("license_plate = ?", *licensePlate).Count(&count)
		if count > 0 {
			return nil, apperrors.ErrDuplicatePlate
		}
	}

	vehicle := &models.Vehicle{
		Make:         make,
		Model:        model,
		Year:         year,
		LicensePlate: licensePlate,
		ImageURL:     imageURL,
		Status:       models.VehicleStatusAvailable,
	}

	if err := s.db.Create(vehicle).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return vehicle, nil
}

// GetVehicleByID returns a vehicle with its assigned investor preloaded.
func (s *vehicleService) GetVehicleByID(vehicleID string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := s.db.Preload("AssignedInvestor").Where("id = ?", vehicleID).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVehicleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &vehicle, nil
}

// ListVehicles returns a paginated list of vehicles with optional
// status and investor filters.
func (s *vehicleService) ListVehicles(page pagination.PageRequest, status *models.VehicleStatus, investorID *string) (*pagination.PageResponse[models.Vehicle], error) {
	page.Defaults()

	base := s.db.Model(&models.Vehicle{})
	if status != nil {
		base = base.Where("status = ?", *status)
	}
	if investorID != nil {
		base = base.Where("assigned_investor_id = ?", *investorID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var vehicles []models.Vehicle
	if err := base.Preload("AssignedInvestor").Order("make ASC, model ASC").
		Scopes(pagination.Paginate(page)).Find(&vehicles).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(vehicles, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateVehicle updates vehicle details.
func (s *vehicleService) UpdateVehicle(vehicleID string, make, model string, year int, licensePlate, imageURL *string, status *models.VehicleStatus) (*models.Vehicle, error) {
	vehicle, err := s.GetVehicleByID(vehicleID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if make != "" {
		updates["make"] = make
	}
	if model != "" {
		updates["model"] = model
	}
	if year != 0 {
		updates["year"] = year
	}
	if licensePlate != nil {
		var count int64
		s.db.Model(&models.Vehicle{}).
			Where("license_plate = ? AND id <> ?", *licensePlate, vehicleID).Count(&count)
		if count > 0 {
			return nil, apperrors.ErrDuplicatePlate
		}
		updates["license_plate"] = licensePlate
	}
	if imageURL != nil {
		updates["image_url"] = imageURL
	}
	if status != nil {
		updates["status"] = *status
	}

	if len(updates) > 0 {
		if err := s.db.Model(vehicle).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return vehicle, nil
}

// AssignInvestor assigns a vehicle to an investor. The vehicle must not
// already be assigned.
func (s *vehicleService) AssignInvestor(vehicleID, investorID string) (*models.Vehicle, error) {
	vehicle, err := s.GetVehicleByID(vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.AssignedInvestorID != nil {
		return nil, apperrors.ErrVehicleAssigned
	}

	var investor models.User
	err = s.db.Where("id = ? AND role = ? AND is_active = ?", investorID, models.UserRoleInvestor, true).
		First(&investor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(vehicle).Update("assigned_investor_id", investorID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	vehicle.AssignedInvestorID = &investor.ID
	vehicle.AssignedInvestor = &investor
	return vehicle, nil
}

// UnassignInvestor removes a vehicle's investor assignment.
func (s *vehicleService) UnassignInvestor(vehicleID string) (*models.Vehicle, error) {
	vehicle, err := s.GetVehicleByID(vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.AssignedInvestorID == nil {
		return nil, apperrors.ErrVehicleUnassigned
	}

	if err := s.db.Model(vehicle).Update("assigned_investor_id", nil).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	vehicle.AssignedInvestorID = nil
	vehicle.AssignedInvestor = nil
	return vehicle, nil
}

// DeleteVehicle soft-deletes a vehicle. Its financial records are kept
// for audit but drop out of reporting with the vehicle.
func (s *vehicleService) DeleteVehicle(vehicleID string) error {
	vehicle, err := s.GetVehicleByID(vehicleID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(vehicle).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
