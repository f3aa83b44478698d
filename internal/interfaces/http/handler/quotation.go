package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appquotation "github.com/krodas7/constructora-backend/internal/application/quotation"
	"github.com/krodas7/constructora-backend/internal/domain/quotation"
)

// QuotationHandler handles quotation lifecycle requests
type QuotationHandler struct {
	BaseHandler
	quotationService *appquotation.Service
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(quotationService *appquotation.Service) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// QuotationLineRequest is one priced line
type QuotationLineRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

func (r QuotationLineRequest) toLine() appquotation.LineRequest {
	return appquotation.LineRequest{
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
	}
}

// CreateQuotationRequest carries the input for quotation creation
type CreateQuotationRequest struct {
	ProjectID uuid.UUID              `json:"project_id" binding:"required"`
	Name      string                 `json:"name" binding:"required,max=200"`
	Version   string                 `json:"version" binding:"max=20"`
	Notes     string                 `json:"notes"`
	Lines     []QuotationLineRequest `json:"lines" binding:"dive"`
}

// Create builds a draft quotation with its initial lines
func (h *QuotationHandler) Create(c *gin.Context) {
	var req CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	lines := make([]appquotation.LineRequest, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, line.toLine())
	}

	quote, err := h.quotationService.Create(c.Request.Context(), appquotation.CreateRequest{
		ProjectID: req.ProjectID,
		Name:      req.Name,
		Version:   req.Version,
		Notes:     req.Notes,
		Lines:     lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, quote)
}

// Get returns a quotation with its lines
func (h *QuotationHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	quote, err := h.quotationService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// List returns quotations with pagination
func (h *QuotationHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	page, err := h.quotationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListByProject returns a project's quotations
func (h *QuotationHandler) ListByProject(c *gin.Context) {
	projectID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	quotes, err := h.quotationService.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotes)
}

// AddLine appends a priced line to a draft quotation
func (h *QuotationHandler) AddLine(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}
	var req QuotationLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	quote, err := h.quotationService.AddLine(c.Request.Context(), id, req.toLine())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Send marks a draft quotation as sent to the client
func (h *QuotationHandler) Send(c *gin.Context) {
	h.transition(c, h.quotationService.Send)
}

// Reject records client rejection of a sent quotation
func (h *QuotationHandler) Reject(c *gin.Context) {
	h.transition(c, h.quotationService.Reject)
}

func (h *QuotationHandler) transition(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*quotation.Quotation, error)) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	quote, err := op(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// ApproveQuotationRequest carries the approved amount
type ApproveQuotationRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// Approve records client approval for the given amount
func (h *QuotationHandler) Approve(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}
	var req ApproveQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	quote, err := h.quotationService.Approve(c.Request.Context(), id, req.Amount, currentUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Delete removes a draft quotation
func (h *QuotationHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}
	if err := h.quotationService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
