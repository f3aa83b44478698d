package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appbilling "github.com/krodas7/constructora-backend/internal/application/billing"
	"github.com/krodas7/constructora-backend/internal/domain/billing"
)

// AdvanceHandler handles client advance and reconciliation requests
type AdvanceHandler struct {
	BaseHandler
	advanceService *appbilling.AdvanceService
}

// NewAdvanceHandler creates a new advance handler
func NewAdvanceHandler(advanceService *appbilling.AdvanceService) *AdvanceHandler {
	return &AdvanceHandler{advanceService: advanceService}
}

// CreateAdvanceRequest carries the input for advance creation
type CreateAdvanceRequest struct {
	ProjectID     uuid.UUID       `json:"project_id" binding:"required"`
	Type          string          `json:"type" binding:"omitempty,oneof=WORK MATERIALS OTHER"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	ReceivedAt    time.Time       `json:"received_at" binding:"required"`
	ExpiresAt     *time.Time      `json:"expires_at"`
	PaymentMethod string          `json:"payment_method" binding:"max=50"`
	PaymentRef    string          `json:"payment_ref" binding:"max=100"`
	Description   string          `json:"description"`
}

// Create allocates the next advance number and records a pending advance
func (h *AdvanceHandler) Create(c *gin.Context) {
	var req CreateAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	advance, err := h.advanceService.Create(c.Request.Context(), appbilling.CreateAdvanceRequest{
		ProjectID:     req.ProjectID,
		Type:          req.Type,
		Amount:        req.Amount,
		ReceivedAt:    req.ReceivedAt,
		ExpiresAt:     req.ExpiresAt,
		PaymentMethod: req.PaymentMethod,
		PaymentRef:    req.PaymentRef,
		Description:   req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, advance)
}

// Get returns one advance
func (h *AdvanceHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid advance ID")
		return
	}

	advance, err := h.advanceService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advance)
}

// List returns advances with pagination and filters
func (h *AdvanceHandler) List(c *gin.Context) {
	base, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	filter := billing.AdvanceFilter{Filter: base}
	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid project ID")
			return
		}
		filter.ProjectID = &id
	}
	if raw := c.Query("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid client ID")
			return
		}
		filter.ClientID = &id
	}
	filter.Status = billing.AdvanceStatus(c.Query("status"))

	page, err := h.advanceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Applications lists an advance's invoice applications
func (h *AdvanceHandler) Applications(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid advance ID")
		return
	}

	applications, err := h.advanceService.Applications(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, applications)
}

// ApplyToInvoiceRequest carries the target invoice and amount
type ApplyToInvoiceRequest struct {
	InvoiceID uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// ApplyToInvoice consumes part of an advance against an invoice
func (h *AdvanceHandler) ApplyToInvoice(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid advance ID")
		return
	}
	var req ApplyToInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	advance, err := h.advanceService.ApplyToInvoice(c.Request.Context(), id, req.InvoiceID, req.Amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advance)
}

// ApplyToProjectRequest carries the amount applied straight to the project
type ApplyToProjectRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ApplyToProject consumes part of an advance against the project directly
func (h *AdvanceHandler) ApplyToProject(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid advance ID")
		return
	}
	var req ApplyToProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	advance, err := h.advanceService.ApplyToProject(c.Request.Context(), id, req.Amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advance)
}

// Refund returns the unconsumed remainder of an advance
func (h *AdvanceHandler) Refund(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid advance ID")
		return
	}

	advance, err := h.advanceService.Refund(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advance)
}

// Cancel cancels an unconsumed advance
func (h *AdvanceHandler) Cancel(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid advance ID")
		return
	}

	advance, err := h.advanceService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advance)
}
