package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appbilling "github.com/krodas7/constructora-backend/internal/application/billing"
	"github.com/krodas7/constructora-backend/internal/domain/billing"
)

// InvoiceHandler handles invoice lifecycle and payment requests
type InvoiceHandler struct {
	BaseHandler
	invoiceService *appbilling.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *appbilling.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// CreateInvoiceRequest carries the input for invoice creation
type CreateInvoiceRequest struct {
	ProjectID       uuid.UUID        `json:"project_id" binding:"required"`
	Type            string           `json:"type" binding:"omitempty,oneof=PROGRESS FINAL ADDITIONAL RETENTION OTHER"`
	Subtotal        decimal.Decimal  `json:"subtotal" binding:"required"`
	Tax             decimal.Decimal  `json:"tax"`
	IssuedAt        time.Time        `json:"issued_at" binding:"required"`
	DueAt           time.Time        `json:"due_at" binding:"required"`
	Description     string           `json:"description"`
	ProgressPercent *decimal.Decimal `json:"progress_percent"`
	Notes           string           `json:"notes"`
}

// Create allocates the next invoice number and creates a draft invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), appbilling.CreateInvoiceRequest{
		ProjectID:       req.ProjectID,
		Type:            req.Type,
		Subtotal:        req.Subtotal,
		Tax:             req.Tax,
		IssuedAt:        req.IssuedAt,
		DueAt:           req.DueAt,
		Description:     req.Description,
		ProgressPercent: req.ProgressPercent,
		Notes:           req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Get returns one invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// bindInvoiceFilter reads the invoice-specific query parameters
func bindInvoiceFilter(c *gin.Context) (billing.InvoiceFilter, error) {
	base, err := bindListFilter(c)
	if err != nil {
		return billing.InvoiceFilter{}, err
	}
	filter := billing.InvoiceFilter{Filter: base}

	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return billing.InvoiceFilter{}, err
		}
		filter.ProjectID = &id
	}
	if raw := c.Query("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return billing.InvoiceFilter{}, err
		}
		filter.ClientID = &id
	}
	filter.Status = billing.InvoiceStatus(c.Query("status"))
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return billing.InvoiceFilter{}, err
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return billing.InvoiceFilter{}, err
		}
		filter.To = &to
	}
	return filter, nil
}

// List returns invoices with pagination and filters
func (h *InvoiceHandler) List(c *gin.Context) {
	filter, err := bindInvoiceFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	page, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Issue transitions a draft invoice to issued
func (h *InvoiceHandler) Issue(c *gin.Context) {
	h.transition(c, h.invoiceService.Issue)
}

// Send transitions an issued invoice to sent
func (h *InvoiceHandler) Send(c *gin.Context) {
	h.transition(c, h.invoiceService.Send)
}

// Cancel cancels an unsettled invoice
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	h.transition(c, h.invoiceService.Cancel)
}

func (h *InvoiceHandler) transition(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*billing.Invoice, error)) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := op(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// RegisterPaymentRequest carries the input for payment registration
type RegisterPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	PaidAt    time.Time       `json:"paid_at" binding:"required"`
	Method    string          `json:"method" binding:"omitempty,oneof=TRANSFER CHECK CASH CARD"`
	Reference string          `json:"reference" binding:"max=100"`
	Bank      string          `json:"bank" binding:"max=100"`
}

// RegisterPayment records a confirmed payment against an invoice
func (h *InvoiceHandler) RegisterPayment(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	var req RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	invoice, err := h.invoiceService.RegisterPayment(c.Request.Context(), appbilling.RegisterPaymentRequest{
		InvoiceID: id,
		Amount:    req.Amount,
		PaidAt:    req.PaidAt,
		Method:    req.Method,
		Reference: req.Reference,
		Bank:      req.Bank,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Payments lists an invoice's payments
func (h *InvoiceHandler) Payments(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	payments, err := h.invoiceService.Payments(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// Delete removes a draft invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
