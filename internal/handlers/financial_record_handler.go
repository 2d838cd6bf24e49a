package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "flotilla/internal/errors"
	"flotilla/internal/models"
	"flotilla/internal/pagination"
	"flotilla/internal/services"
)

// FinancialRecordHandler handles income and expense record requests.
type FinancialRecordHandler struct {
	recordService services.FinancialRecordServicer
	auditService  services.AuditServicer
}

// NewFinancialRecordHandler creates a new FinancialRecordHandler.
func NewFinancialRecordHandler(recordService services.FinancialRecordServicer, auditService services.AuditServicer) *FinancialRecordHandler {
	return &FinancialRecordHandler{recordService: recordService, auditService: auditService}
}

// CreateRecordRequest represents the request payload for creating a financial record.
type CreateRecordRequest struct {
	VehicleID   string          `json:"vehicle_id" binding:"required,uuid"`
	Type        string          `json:"type" binding:"required,record_type"`
	Category    string          `json:"category" binding:"required,min=1,max=100"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Date        string          `json:"date" binding:"required"`
	Description string          `json:"description" binding:"max=500"`
}

// UpdateRecordRequest represents the request payload for updating a financial record.
// Type and vehicle are immutable; create a new record instead.
type UpdateRecordRequest struct {
	Category    *string          `json:"category" binding:"omitempty,min=1,max=100"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        *string          `json:"date"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
}

// parseRecordDate accepts RFC 3339 or a bare calendar date.
func parseRecordDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format")
	}
	return t, nil
}

// CreateRecord handles the creation of a new financial record
// @Summary     Create a financial record
// @Description Record an income or expense against a vehicle. Admin only.
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRecordRequest true "Record details"
// @Success     201 {object} models.FinancialRecord "Record created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Vehicle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /records [post]
func (h *FinancialRecordHandler) CreateRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseRecordDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.CreateRecord(req.VehicleID, models.RecordType(req.Type), req.Category, req.Amount, date, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_RECORD", "financial_record", record.ID, c.ClientIP(),
		map[string]interface{}{"vehicle_id": req.VehicleID, "type": req.Type, "amount": req.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"record": record})
}

// ListRecords handles the retrieval of financial records
// @Summary     List financial records
// @Description Get a paginated list of financial records, newest first, with optional filters
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Param       vehicle_id query string false "Filter by vehicle ID"
// @Param       type       query string false "Filter by type (income, expense)"
// @Param       category   query string false "Filter by category"
// @Param       from       query string false "Filter records on or after this date (YYYY-MM-DD)"
// @Param       to         query string false "Filter records on or before this date (YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[models.FinancialRecord] "Paginated records"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /records [get]
func (h *FinancialRecordHandler) ListRecords(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.RecordFilter
	if id := c.Query("vehicle_id"); id != "" {
		filter.VehicleID = &id
	}
	if t := c.Query("type"); t != "" {
		rt := models.RecordType(t)
		if rt != models.RecordTypeIncome && rt != models.RecordTypeExpense {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid type"))
			return
		}
		filter.Type = &rt
	}
	if cat := c.Query("category"); cat != "" {
		filter.Category = &cat
	}
	if from := c.Query("from"); from != "" {
		t, err := parseRecordDate(from)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.FromDate = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := parseRecordDate(to)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.ToDate = &t
	}

	result, err := h.recordService.ListRecords(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecord handles the retrieval of a single financial record
// @Summary     Get record by ID
// @Description Get a specific financial record by ID
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Record ID"
// @Success     200 {object} models.FinancialRecord "Record details"
// @Failure     400 {object} ErrorResponse "Invalid record ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /records/{id} [get]
func (h *FinancialRecordHandler) GetRecord(c *gin.Context) {
	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.GetRecordByID(recordID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": record})
}

// UpdateRecord handles updating a financial record
// @Summary     Update record
// @Description Update a financial record's category, amount, date, or description. Admin only.
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Record ID"
// @Param       request body UpdateRecordRequest true "Updated record details"
// @Success     200 {object} models.FinancialRecord "Updated record"
// @Failure     400 {object} ErrorResponse "Invalid input or record ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /records/{id} [put]
func (h *FinancialRecordHandler) UpdateRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		t, err := parseRecordDate(*req.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
		date = &t
	}

	record, err := h.recordService.UpdateRecord(recordID, req.Category, req.Amount, date, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_RECORD", "financial_record", recordID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"record": record})
}

// DeleteRecord handles financial record deletion
// @Summary     Delete record
// @Description Soft-delete a financial record. Admin only.
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Record ID"
// @Success     204 "Record deleted"
// @Failure     400 {object} ErrorResponse "Invalid record ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /records/{id} [delete]
func (h *FinancialRecordHandler) DeleteRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recordService.DeleteRecord(recordID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_RECORD", "financial_record", recordID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
