package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "flotilla/internal/errors"
	"flotilla/internal/models"
	"flotilla/internal/pagination"
	"flotilla/internal/services"
)

// InvestorHandler handles investor account management requests.
type InvestorHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewInvestorHandler creates a new InvestorHandler.
func NewInvestorHandler(userService services.UserServicer, auditService services.AuditServicer) *InvestorHandler {
	return &InvestorHandler{userService: userService, auditService: auditService}
}

// CreateInvestorRequest represents the request payload for creating an investor account.
type CreateInvestorRequest struct {
	Email    string  `json:"email" binding:"required,email,max=255"`
	Password string  `json:"password" binding:"required,min=8,max=128"`
	FullName *string `json:"full_name" binding:"omitempty,max=200"`
}

// UpdateInvestorRequest represents the request payload for updating an investor.
type UpdateInvestorRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,max=200"`
}

// CreateInvestor handles the creation of a new investor account
// @Summary     Create an investor
// @Description Create a new investor account. Admin only.
// @Tags        investors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateInvestorRequest true "Investor details"
// @Success     201 {object} UserResponse "Investor created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investors [post]
func (h *InvestorHandler) CreateInvestor(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateInvestorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	investor, err := h.userService.CreateUser(req.Email, req.Password, req.FullName, models.UserRoleInvestor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_INVESTOR", "user", investor.ID, c.ClientIP(),
		map[string]interface{}{"email": req.Email})

	c.JSON(http.StatusCreated, gin.H{"investor": userJSON(investor)})
}

// ListInvestors handles the retrieval of investor accounts
// @Summary     List investors
// @Description Get a paginated list of active investors, ordered by name. Admin only.
// @Tags        investors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.User] "Paginated investors"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investors [get]
func (h *InvestorHandler) ListInvestors(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.userService.ListInvestors(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetInvestor handles the retrieval of a single investor
// @Summary     Get investor by ID
// @Description Get a specific investor by ID. Admin only.
// @Tags        investors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investor ID"
// @Success     200 {object} UserResponse "Investor details"
// @Failure     400 {object} ErrorResponse "Invalid investor ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investors/{id} [get]
func (h *InvestorHandler) GetInvestor(c *gin.Context) {
	investorID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	investor, err := h.userService.GetUserByID(investorID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if investor.Role != models.UserRoleInvestor {
		respondWithError(c, apperrors.ErrInvestorNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"investor": userJSON(investor)})
}

// UpdateInvestor handles updating an investor's profile
// @Summary     Update investor
// @Description Update an investor's profile. Admin only.
// @Tags        investors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Investor ID"
// @Param       request body UpdateInvestorRequest true "Updated investor details"
// @Success     200 {object} UserResponse "Updated investor"
// @Failure     400 {object} ErrorResponse "Invalid input or investor ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investors/{id} [put]
func (h *InvestorHandler) UpdateInvestor(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investorID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateInvestorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	investor, err := h.userService.UpdateInvestor(investorID, req.FullName)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_INVESTOR", "user", investorID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"investor": userJSON(investor)})
}

// DeactivateInvestor handles investor deactivation
// @Summary     Deactivate investor
// @Description Deactivate an investor account. The account and its history are preserved. Admin only.
// @Tags        investors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investor ID"
// @Success     204 "Investor deactivated"
// @Failure     400 {object} ErrorResponse "Invalid investor ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investors/{id} [delete]
func (h *InvestorHandler) DeactivateInvestor(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investorID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeactivateInvestor(investorID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DEACTIVATE_INVESTOR", "user", investorID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
