package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "flotilla/internal/errors"
	"flotilla/internal/models"
	"flotilla/internal/pagination"
)

// userService handles user and investor management.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user with the given role.
func (s *userService) CreateUser(email, password string, fullName *string, role models.UserRole) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	var count int64
	s.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:    strings.ToLower(email),
		Password: string(hashedPassword),
		FullName: fullName,
		Role:     role,
		IsActive: true,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByEmail retrieves an active user by email.
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash.
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// StoreRefreshTokenHash persists the hash of the user's current refresh token.
func (s *userService) StoreRefreshTokenHash(userID, tokenHash string) error {
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("refresh_token_hash", tokenHash).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetRefreshTokenHash returns the stored refresh token hash for a user.
func (s *userService) GetRefreshTokenHash(userID string) (string, error) {
	var user models.User
	if err := s.db.Select("refresh_token_hash").Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrUserNotFound
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user.RefreshTokenHash, nil
}

// ListInvestors returns a paginated list of active investors ordered by
// full name ascending.
func (s *userService) ListInvestors(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	page.Defaults()

	base := s.db.Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.UserRoleInvestor, true)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var investors []models.User
	if err := base.Order("full_name ASC").Scopes(pagination.Paginate(page)).Find(&investors).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(investors, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateInvestor updates an investor's display name.
func (s *userService) UpdateInvestor(investorID string, fullName *string) (*models.User, error) {
	investor, err := s.getInvestor(investorID)
	if err != nil {
		return nil, err
	}

	if fullName != nil {
		if err := s.db.Model(investor).Update("full_name", fullName).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return investor, nil
}

// DeactivateInvestor marks an investor inactive. Their vehicles stay
// assigned; reporting excludes inactive investors at fetch time.
func (s *userService) DeactivateInvestor(investorID string) error {
	investor, err := s.getInvestor(investorID)
	if err != nil {
		return err
	}

	if err := s.db.Model(investor).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *userService) getInvestor(investorID string) (*models.User, error) {
	var investor models.User
	err := s.db.Where("id = ? AND role = ?", investorID, models.UserRoleInvestor).First(&investor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &investor, nil
}
