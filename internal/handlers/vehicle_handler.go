package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "flotilla/internal/errors"
	"flotilla/internal/models"
	"flotilla/internal/pagination"
	"flotilla/internal/services"
)

// VehicleHandler handles vehicle management requests.
type VehicleHandler struct {
	vehicleService services.VehicleServicer
	auditService   services.AuditServicer
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicleService services.VehicleServicer, auditService services.AuditServicer) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService, auditService: auditService}
}

// CreateVehicleRequest represents the request payload for creating a vehicle.
type CreateVehicleRequest struct {
	Make         string  `json:"make" binding:"required,min=1,max=100"`
	Model        string  `json:"model" binding:"required,min=1,max=100"`
	Year         int     `json:"year" binding:"required,gte=1950,lte=2100"`
	LicensePlate *string `json:"license_plate" binding:"omitempty,min=1,max=20"`
	ImageURL     *string `json:"image_url" binding:"omitempty,url,max=2048"`
}

// UpdateVehicleRequest represents the request payload for updating a vehicle.
type UpdateVehicleRequest struct {
	Make         string                `json:"make" binding:"required,min=1,max=100"`
	Model        string                `json:"model" binding:"required,min=1,max=100"`
	Year         int                   `json:"year" binding:"required,gte=1950,lte=2100"`
	LicensePlate *string               `json:"license_plate" binding:"omitempty,min=1,max=20"`
	ImageURL     *string               `json:"image_url" binding:"omitempty,url,max=2048"`
	Status       *models.VehicleStatus `json:"status" binding:"omitempty,vehicle_status"`
}

// AssignInvestorRequest represents the request payload for assigning a vehicle.
type AssignInvestorRequest struct {
	InvestorID string `json:"investor_id" binding:"required,uuid"`
}

// CreateVehicle handles the creation of a new vehicle
// @Summary     Create a vehicle
// @Description Register a new vehicle in the fleet. Admin only.
// @Tags        vehicles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateVehicleRequest true "Vehicle details"
// @Success     201 {object} models.Vehicle "Vehicle created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "License plate already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vehicles [post]
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(req.Make, req.Model, req.Year, req.LicensePlate, req.ImageURL)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_VEHICLE", "vehicle", vehicle.ID, c.ClientIP(),
		map[string]interface{}{"make": req.Make, "model": req.Model, "year": req.Year})

	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle})
}

// ListVehicles handles the retrieval of fleet vehicles
// @Summary     List vehicles
// @Description Get a paginated list of vehicles, optionally filtered by status or assigned investor
// @Tags        vehicles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       status      query string false "Filter by status (available, rented, maintenance)"
// @Param       investor_id query string false "Filter by assigned investor ID"
// @Success     200 {object} pagination.PageResponse[models.Vehicle] "Paginated vehicles"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vehicles [get]
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.VehicleStatus
	if s := c.Query("status"); s != "" {
		vs := models.VehicleStatus(s)
		if vs != models.VehicleStatusAvailable && vs != models.VehicleStatusRented && vs != models.VehicleStatusMaintenance {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid status"))
			return
		}
		status = &vs
	}

	var investorID *string
	if id := c.Query("investor_id"); id != "" {
		investorID = &id
	}

	result, err := h.vehicleService.ListVehicles(page, status, investorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetVehicle handles the retrieval of a single vehicle
// @Summary     Get vehicle by ID
// @Description Get a specific vehicle by ID, including its assigned investor
// @Tags        vehicles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Vehicle ID"
// @Success     200 {object} models.Vehicle "Vehicle details"
// @Failure     400 {object} ErrorResponse "Invalid vehicle ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Vehicle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vehicles/{id} [get]
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	vehicle, err := h.vehicleService.GetVehicleByID(vehicleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// UpdateVehicle handles updating a vehicle
// @Summary     Update vehicle
// @Description Update a vehicle's details and status. Admin only.
// @Tags        vehicles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Vehicle ID"
// @Param       request body UpdateVehicleRequest true "Updated vehicle details"
// @Success     200 {object} models.Vehicle "Updated vehicle"
// @Failure     400 {object} ErrorResponse "Invalid input or vehicle ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Vehicle not found"
// @Failure     409 {object} ErrorResponse "License plate already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vehicles/{id} [put]
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	vehicleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	vehicle, err := h.vehicleService.UpdateVehicle(vehicleID, req.Make, req.Model, req.Year, req.LicensePlate, req.ImageURL, req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_VEHICLE", "vehicle", vehicleID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// AssignInvestor handles assigning a vehicle to an investor
// @Summary     Assign vehicle to investor
// @Description Assign an unassigned vehicle to an active investor. Admin only.
// @Tags        vehicles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Vehicle ID"
// @Param       request body AssignInvestorRequest true "Investor assignment"
// @Success     200 {object} models.Vehicle "Updated vehicle"
// @Failure     400 {object} ErrorResponse "Invalid input or vehicle ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Vehicle or investor not found"
// @Failure     409 {object} ErrorResponse "Vehicle already assigned"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vehicles/{id}/assign [post]
func (h *VehicleHandler) AssignInvestor(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	vehicleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AssignInvestorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	vehicle, err := h.vehicleService.AssignInvestor(vehicleID, req.InvestorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ASSIGN_VEHICLE", "vehicle", vehicleID, c.ClientIP(),
		map[string]interface{}{"investor_id": req.InvestorID})

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// UnassignInvestor handles removing a vehicle's investor assignment
// @Summary     Unassign vehicle
// @Description Remove the investor assignment from a vehicle. Admin only.
// @Tags        vehicles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Vehicle ID"
// @Success     200 {object} models.Vehicle "Updated vehicle"
// @Failure     400 {object} ErrorResponse "Invalid vehicle ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Vehicle not found"
// @Failure     409 {object} ErrorResponse "Vehicle not assigned"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vehicles/{id}/unassign [post]
func (h *VehicleHandler) UnassignInvestor(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	vehicleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	vehicle, err := h.vehicleService.UnassignInvestor(vehicleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UNASSIGN_VEHICLE", "vehicle", vehicleID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// DeleteVehicle handles vehicle deletion
// @Summary     Delete vehicle
// @Description Soft-delete a vehicle. Its financial history is preserved. Admin only.
// @Tags        vehicles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Vehicle ID"
// @Success     204 "Vehicle deleted"
// @Failure     400 {object} ErrorResponse "Invalid vehicle ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Vehicle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vehicles/{id} [delete]
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	vehicleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.vehicleService.DeleteVehicle(vehicleID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_VEHICLE", "vehicle", vehicleID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
