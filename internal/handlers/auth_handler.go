package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "flotilla/internal/errors"
	"flotilla/internal/middleware"
	"flotilla/internal/models"
	"flotilla/internal/services"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService services.UserServicer, auditService services.AuditServicer) *AuthHandler {
	return &AuthHandler{userService: userService, auditService: auditService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email,max=255"`
	Password string  `json:"password" binding:"required,min=8,max=128"`
	FullName *string `json:"full_name" binding:"omitempty,max=200"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the token refresh request payload.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID       string          `json:"id"`
	Email    string          `json:"email"`
	FullName *string         `json:"full_name,omitempty"`
	Role     models.UserRole `json:"role"`
}

// AuthResponse represents the authentication response with tokens
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

func userJSON(user *models.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      user.Role,
	}
}

// issueTokens generates the access/refresh pair and persists the
// refresh token hash so stolen refresh tokens can be revoked.
func (h *AuthHandler) issueTokens(c *gin.Context, user *models.User, status int) {
	accessToken, err := middleware.GenerateAccessToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	refreshToken, err := middleware.GenerateRefreshToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	if err := h.userService.StoreRefreshTokenHash(user.ID, middleware.HashToken(refreshToken)); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(status, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          userJSON(user),
	})
}

// Register handles administrator registration
// @Summary     Register a new administrator
// @Description Register a new administrator with email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "Administrator registration data"
// @Success     201 {object} AuthResponse "User registered and tokens generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req.Email, req.Password, req.FullName, models.UserRoleAdmin)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "REGISTER", "user", user.ID, c.ClientIP(), nil)

	h.issueTokens(c, user, http.StatusCreated)
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a user and get an access/refresh token pair
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated and tokens generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.GetUserByEmail(req.Email)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	if !user.IsActive {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	if !h.userService.VerifyPassword(user, req.Password) {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	h.auditService.Log(user.ID, "LOGIN", "user", user.ID, c.ClientIP(), nil)

	h.issueTokens(c, user, http.StatusOK)
}

// RefreshToken exchanges a valid refresh token for a new token pair
// @Summary     Refresh tokens
// @Description Exchange a refresh token for a new access/refresh token pair
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RefreshRequest true "Refresh token"
// @Success     200 {object} AuthResponse "New token pair"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid or revoked refresh token"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	claims, err := middleware.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	storedHash, err := h.userService.GetRefreshTokenHash(claims.UserID)
	if err != nil || storedHash == "" || storedHash != middleware.HashToken(req.RefreshToken) {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	user, err := h.userService.GetUserByID(claims.UserID)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	h.issueTokens(c, user, http.StatusOK)
}

// GetProfile returns the user's profile
// @Summary     Get user profile
// @Description Get the authenticated user's profile information
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}
