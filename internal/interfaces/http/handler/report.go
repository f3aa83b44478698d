package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/krodas7/constructora-backend/internal/application/report"
)

// ReportHandler streams rendered PDF and Excel reports
type ReportHandler struct {
	BaseHandler
	reportService *report.Service
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *report.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) stream(c *gin.Context, result *report.Result) {
	c.Header("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

// Invoices renders the filtered invoice listing as PDF or Excel
func (h *ReportHandler) Invoices(c *gin.Context) {
	filter, err := bindInvoiceFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	format := report.Format(c.DefaultQuery("format", string(report.FormatPDF)))
	if format != report.FormatPDF && format != report.FormatExcel {
		h.BadRequest(c, "Format must be pdf or excel")
		return
	}

	result, err := h.reportService.Invoices(c.Request.Context(), filter, format)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.stream(c, result)
}

// Payroll renders one payroll run's pay stubs
func (h *ReportHandler) Payroll(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid payroll ID")
		return
	}

	result, err := h.reportService.Payroll(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.stream(c, result)
}

// Quotation renders one quotation as a client-facing PDF
func (h *ReportHandler) Quotation(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	result, err := h.reportService.Quotation(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.stream(c, result)
}
