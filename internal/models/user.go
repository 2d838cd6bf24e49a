package models

import "time"

// UserRole distinguishes platform administrators from investors.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleInvestor UserRole = "investor"
)

// User represents a profile row: an administrator or an investor.
// FullName is optional; investors are displayed by email when it is absent.
type User struct {
	Base
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	FullName         *string    `json:"full_name,omitempty"`
	Role             UserRole   `gorm:"not null;default:investor;index" json:"role"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash string     `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`

	Vehicles  []Vehicle  `gorm:"foreignKey:AssignedInvestorID" json:"vehicles,omitempty"`
	Documents []Document `gorm:"foreignKey:InvestorID" json:"documents,omitempty"`
}

// DisplayName returns the full name when set, otherwise the email.
func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Email
}
