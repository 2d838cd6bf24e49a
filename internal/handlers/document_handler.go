package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "flotilla/internal/errors"
	"flotilla/internal/pagination"
	"flotilla/internal/services"
)

// DocumentHandler handles document metadata requests. File contents
// live in external object storage; the API tracks names and URLs.
type DocumentHandler struct {
	documentService services.DocumentServicer
	auditService    services.AuditServicer
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService services.DocumentServicer, auditService services.AuditServicer) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, auditService: auditService}
}

// CreateDocumentRequest represents the request payload for registering a document.
type CreateDocumentRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	FileURL     string  `json:"file_url" binding:"required,url,max=2048"`
	ContentType string  `json:"content_type" binding:"required,max=100"`
	VehicleID   *string `json:"vehicle_id" binding:"omitempty,uuid"`
	InvestorID  *string `json:"investor_id" binding:"omitempty,uuid"`
}

// CreateDocument handles registering a new document
// @Summary     Register a document
// @Description Register an uploaded document against a vehicle or an investor. Admin only.
// @Tags        documents
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDocumentRequest true "Document metadata"
// @Success     201 {object} models.Document "Document registered"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Vehicle or investor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /documents [post]
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	doc, err := h.documentService.CreateDocument(req.Name, req.FileURL, req.ContentType, req.VehicleID, req.InvestorID, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_DOCUMENT", "document", doc.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"document": doc})
}

// ListDocuments handles the retrieval of documents
// @Summary     List documents
// @Description Get a paginated list of documents, optionally filtered by vehicle or investor
// @Tags        documents
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       vehicle_id  query string false "Filter by vehicle ID"
// @Param       investor_id query string false "Filter by investor ID"
// @Success     200 {object} pagination.PageResponse[models.Document] "Paginated documents"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var vehicleID, investorID *string
	if id := c.Query("vehicle_id"); id != "" {
		vehicleID = &id
	}
	if id := c.Query("investor_id"); id != "" {
		investorID = &id
	}

	result, err := h.documentService.ListDocuments(page, vehicleID, investorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteDocument handles document deletion
// @Summary     Delete document
// @Description Delete a document's metadata. The stored file is not touched. Admin only.
// @Tags        documents
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Document ID"
// @Success     204 "Document deleted"
// @Failure     400 {object} ErrorResponse "Invalid document ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Document not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	documentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.documentService.DeleteDocument(documentID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_DOCUMENT", "document", documentID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
