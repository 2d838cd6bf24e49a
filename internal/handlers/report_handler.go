package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"flotilla/internal/config"
	apperrors "flotilla/internal/errors"
	"flotilla/internal/models"
	"flotilla/internal/reports"
	"flotilla/internal/services"
)

// ReportHandler serves investor financial summaries and report exports.
type ReportHandler struct {
	reportService services.ReportServicer
	auditService  services.AuditServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer, auditService services.AuditServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService, auditService: auditService}
}

// GetFinancialSummaries handles the fleet-wide summary report
// @Summary     Get investor financial summaries
// @Description Get per-investor financial summaries across the fleet, sorted by net balance descending. Admin only.
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.SummaryReport "Summaries with any non-fatal warnings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/investors [get]
func (h *ReportHandler) GetFinancialSummaries(c *gin.Context) {
	report := h.reportService.FinancialSummaries(nil)
	c.JSON(http.StatusOK, report)
}

// GetInvestorSummary handles the single-investor summary report
// @Summary     Get one investor's financial summary
// @Description Get the financial summary for a single investor
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investor ID"
// @Success     200 {object} services.InvestorFinancialSummary "Investor summary"
// @Failure     400 {object} ErrorResponse "Invalid investor ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investor not found"
// @Router      /reports/investors/{id} [get]
func (h *ReportHandler) GetInvestorSummary(c *gin.Context) {
	investorID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := requireSelfOrAdmin(c, investorID); err != nil {
		respondWithError(c, err)
		return
	}

	report := h.reportService.FinancialSummaries(&investorID)
	if len(report.Summaries) == 0 {
		respondWithError(c, apperrors.ErrInvestorNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": report.Summaries[0], "warnings": report.Warnings})
}

// GetMonthlyFinancials handles the monthly breakdown report
// @Summary     Get monthly financials
// @Description Get an investor's income and expenses bucketed by calendar month over a trailing window. Months without activity are omitted.
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id     path  string true  "Investor ID"
// @Param       months query int    false "Trailing window in months (default from server config)"
// @Success     200 {array} services.MonthlyBucket "Monthly buckets, oldest first"
// @Failure     400 {object} ErrorResponse "Invalid investor ID or window"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/investors/{id}/monthly [get]
func (h *ReportHandler) GetMonthlyFinancials(c *gin.Context) {
	investorID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := requireSelfOrAdmin(c, investorID); err != nil {
		respondWithError(c, err)
		return
	}

	months := config.Get().ReportWindowMonths
	if raw := c.Query("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 60 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid months"))
			return
		}
		months = n
	}

	buckets, err := h.reportService.MonthlyFinancials(investorID, months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"months": buckets})
}

// investorReportData gathers the summary and transaction rows both
// exports are built from.
func (h *ReportHandler) investorReportData(investorID string) (*services.InvestorFinancialSummary, []reports.Row, error) {
	report := h.reportService.FinancialSummaries(&investorID)
	if len(report.Summaries) == 0 {
		return nil, nil, apperrors.ErrInvestorNotFound
	}
	summary := report.Summaries[0]

	records, err := h.reportService.InvestorTransactions(investorID)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]reports.Row, 0, len(records))
	for i := range records {
		r := &records[i]
		rows = append(rows, reports.Row{
			Date:        r.Date,
			Type:        r.Type,
			Category:    r.Category,
			VehicleName: r.Vehicle.DisplayName(),
			Amount:      r.Amount,
			Description: r.Description,
		})
	}
	return &summary, rows, nil
}

// ExportCSV handles the CSV transaction export
// @Summary     Export investor transactions as CSV
// @Description Download an investor's full transaction history as a CSV attachment
// @Tags        reports
// @Accept      json
// @Produce     text/csv
// @Security    BearerAuth
// @Param       id path string true "Investor ID"
// @Success     200 {string} string "CSV document"
// @Failure     400 {object} ErrorResponse "Invalid investor ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investor not found or no records to export"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/investors/{id}/export/csv [get]
func (h *ReportHandler) ExportCSV(c *gin.Context) {
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

	if err := requireSelfOrAdmin(c, investorID); err != nil {
		respondWithError(c, err)
		return
	}

	summary, rows, err := h.investorReportData(investorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	doc, err := reports.BuildCSV(rows)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "EXPORT_CSV", "report", investorID, c.ClientIP(), nil)

	now := time.Now()
	filename := reports.Filename(summary.InvestorName, now, "csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(doc))
}

// ExportPDF handles the PDF statement export
// @Summary     Export investor statement as PDF
// @Description Download an investor's financial statement as a paginated PDF attachment
// @Tags        reports
// @Accept      json
// @Produce     application/pdf
// @Security    BearerAuth
// @Param       id path string true "Investor ID"
// @Success     200 {string} string "PDF document"
// @Failure     400 {object} ErrorResponse "Invalid investor ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/investors/{id}/export/pdf [get]
func (h *ReportHandler) ExportPDF(c *gin.Context) {
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

	if err := requireSelfOrAdmin(c, investorID); err != nil {
		respondWithError(c, err)
		return
	}

	summary, rows, err := h.investorReportData(investorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	buckets, err := h.reportService.MonthlyFinancials(investorID, config.Get().ReportWindowMonths)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := time.Now()
	doc, err := reports.BuildInvestorPDF(reports.StatementData{
		Summary:      *summary,
		Buckets:      buckets,
		Transactions: rows,
		GeneratedAt:  now,
	})
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(userID, "EXPORT_PDF", "report", investorID, c.ClientIP(), nil)

	filename := reports.Filename(summary.InvestorName, now, "pdf")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

// requireSelfOrAdmin lets investor-role users hit the report endpoints
// for their own ID only. Admins pass through untouched.
func requireSelfOrAdmin(c *gin.Context, investorID string) error {
	if c.GetString("role") == string(models.UserRoleAdmin) {
		return nil
	}
	if c.GetString("userID") != investorID {
		return apperrors.ErrForbidden
	}
	return nil
}
