package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "flotilla/internal/errors"
	"flotilla/internal/models"
	"flotilla/internal/pagination"
	"flotilla/internal/services"
)

// MaintenanceHandler handles vehicle maintenance tracking requests.
type MaintenanceHandler struct {
	maintenanceService services.MaintenanceServicer
	auditService       services.AuditServicer
}

// NewMaintenanceHandler creates a new MaintenanceHandler.
func NewMaintenanceHandler(maintenanceService services.MaintenanceServicer, auditService services.AuditServicer) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService, auditService: auditService}
}

// CreateMaintenanceRequest represents the request payload for recording maintenance.
type CreateMaintenanceRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Cost        decimal.Decimal `json:"cost" binding:"required"`
	PerformedAt string          `json:"performed_at" binding:"required"`
}

// UpdateMaintenanceStatusRequest represents the request payload for a status change.
type UpdateMaintenanceStatusRequest struct {
	Status string `json:"status" binding:"required,maintenance_status"`
}

// CreateMaintenance handles recording maintenance for a vehicle
// @Summary     Record maintenance
// @Description Record a maintenance entry for a vehicle. Admin only.
// @Tags        maintenance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Vehicle ID"
// @Param       request body CreateMaintenanceRequest true "Maintenance details"
// @Success     201 {object} models.MaintenanceRecord "Maintenance recorded"
// @Failure     400 {object} ErrorResponse "Invalid input or vehicle ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Vehicle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vehicles/{id}/maintenance [post]
func (h *MaintenanceHandler) CreateMaintenance(c *gin.Context) {
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

	var req CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	performedAt, err := parseRecordDate(req.PerformedAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.maintenanceService.CreateMaintenance(vehicleID, req.Description, req.Cost, performedAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_MAINTENANCE", "maintenance_record", entry.ID, c.ClientIP(),
		map[string]interface{}{"vehicle_id": vehicleID, "cost": req.Cost.String()})

	c.JSON(http.StatusCreated, gin.H{"maintenance": entry})
}

// GetVehicleMaintenance handles listing a vehicle's maintenance history
// @Summary     List vehicle maintenance
// @Description Get a paginated maintenance history for a vehicle, newest first
// @Tags        maintenance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Vehicle ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.MaintenanceRecord] "Paginated maintenance"
// @Failure     400 {object} ErrorResponse "Invalid vehicle ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Vehicle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vehicles/{id}/maintenance [get]
func (h *MaintenanceHandler) GetVehicleMaintenance(c *gin.Context) {
	vehicleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.maintenanceService.GetVehicleMaintenance(vehicleID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateMaintenanceStatus handles maintenance status transitions
// @Summary     Update maintenance status
// @Description Move a maintenance entry between scheduled, in_progress, and completed. Admin only.
// @Tags        maintenance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                          true "Maintenance ID"
// @Param       request body UpdateMaintenanceStatusRequest true "New status"
// @Success     200 {object} models.MaintenanceRecord "Updated maintenance entry"
// @Failure     400 {object} ErrorResponse "Invalid input or maintenance ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Maintenance entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /maintenance/{id}/status [put]
func (h *MaintenanceHandler) UpdateMaintenanceStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	maintenanceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateMaintenanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.maintenanceService.UpdateMaintenanceStatus(maintenanceID, models.MaintenanceStatus(req.Status))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_MAINTENANCE", "maintenance_record", maintenanceID, c.ClientIP(),
		map[string]interface{}{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{"maintenance": entry})
}

// DeleteMaintenance handles maintenance entry deletion
// @Summary     Delete maintenance entry
// @Description Soft-delete a maintenance entry. Admin only.
// @Tags        maintenance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Maintenance ID"
// @Success     204 "Maintenance entry deleted"
// @Failure     400 {object} ErrorResponse "Invalid maintenance ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Maintenance entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /maintenance/{id} [delete]
func (h *MaintenanceHandler) DeleteMaintenance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	maintenanceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.maintenanceService.DeleteMaintenance(maintenanceID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_MAINTENANCE", "maintenance_record", maintenanceID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
