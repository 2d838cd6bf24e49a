package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "flotilla/internal/errors"
	"flotilla/internal/models"
	"flotilla/internal/pagination"
)

// documentService handles document metadata. Blobs live in external
// object storage; this service only tracks names and URLs.
type documentService struct {
	db *gorm.DB
}

// NewDocumentService creates a new DocumentServicer.
func NewDocumentService(db *gorm.DB) DocumentServicer {
	return &documentService{db: db}
}

// CreateDocument stores metadata for an uploaded file.
func (s *documentService) CreateDocument(name, fileURL, contentType string, vehicleID, investorID *string, uploadedBy string) (*models.Document, error) {
	if name == "" || fileURL == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name and file_url are required")
	}

	if vehicleID != nil {
		var count int64
		s.db.Model(&models.Vehicle{}).Where("id = ?", *vehicleID).Count(&count)
		if count == 0 {
			return nil, apperrors.ErrVehicleNotFound
		}
	}
	if investorID != nil {
		var count int64
		s.db.Model(&models.User{}).
			Where("id = ? AND role = ?", *investorID, models.UserRoleInvestor).Count(&count)
		if count == 0 {
			return nil, apperrors.ErrInvestorNotFound
		}
	}

	doc := &models.Document{
		Name:        name,
		FileURL:     fileURL,
		ContentType: contentType,
		VehicleID:   vehicleID,
		InvestorID:  investorID,
		UploadedBy:  uploadedBy,
	}

	if err := s.db.Create(doc).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return doc, nil
}

// ListDocuments returns documents filtered by vehicle and/or investor.
func (s *documentService) ListDocuments(page pagination.PageRequest, vehicleID, investorID *string) (*pagination.PageResponse[models.Document], error) {
	page.Defaults()

	base := s.db.Model(&models.Document{})
	if vehicleID != nil {
		base = base.Where("vehicle_id = ?", *vehicleID)
	}
	if investorID != nil {
		base = base.Where("investor_id = ?", *investorID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var docs []models.Document
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&docs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(docs, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteDocument removes document metadata. The blob in object storage
// is cleaned up separately by the storage provider's lifecycle rules.
func (s *documentService) DeleteDocument(documentID string) error {
	var doc models.Document
	if err := s.db.Where("id = ?", documentID).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrDocumentNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&doc).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
