package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apppayroll "github.com/krodas7/constructora-backend/internal/application/payroll"
	"github.com/krodas7/constructora-backend/internal/domain/payroll"
)

// PayrollHandler handles payroll runs and worker requests
type PayrollHandler struct {
	BaseHandler
	payrollService *apppayroll.Service
}

// NewPayrollHandler creates a new payroll handler
func NewPayrollHandler(payrollService *apppayroll.Service) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

// PayrollLineRequest is one worker's entry in a payroll request. A nil
// daily_rate takes the worker's current rate.
type PayrollLineRequest struct {
	WorkerID   uuid.UUID        `json:"worker_id" binding:"required"`
	DaysWorked decimal.Decimal  `json:"days_worked" binding:"required"`
	DailyRate  *decimal.Decimal `json:"daily_rate"`
	Bonus      decimal.Decimal  `json:"bonus"`
	Deductions decimal.Decimal  `json:"deductions"`
}

func (r PayrollLineRequest) toLine() apppayroll.LineRequest {
	return apppayroll.LineRequest{
		WorkerID:   r.WorkerID,
		DaysWorked: r.DaysWorked,
		DailyRate:  r.DailyRate,
		Bonus:      r.Bonus,
		Deductions: r.Deductions,
	}
}

// CreatePayrollRequest carries the input for payroll creation
type CreatePayrollRequest struct {
	ProjectID   uuid.UUID            `json:"project_id" binding:"required"`
	PeriodStart time.Time            `json:"period_start" binding:"required"`
	PeriodEnd   time.Time            `json:"period_end" binding:"required"`
	Lines       []PayrollLineRequest `json:"lines" binding:"dive"`
}

// Create builds a draft payroll with its lines
func (h *PayrollHandler) Create(c *gin.Context) {
	var req CreatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	lines := make([]apppayroll.LineRequest, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, line.toLine())
	}

	run, err := h.payrollService.Create(c.Request.Context(), apppayroll.CreateRequest{
		ProjectID:   req.ProjectID,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		Lines:       lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, run)
}

// Get returns a payroll run with its lines
func (h *PayrollHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid payroll ID")
		return
	}

	run, err := h.payrollService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, run)
}

// List returns payroll runs with pagination
func (h *PayrollHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	page, err := h.payrollService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListByProject returns a project's payroll runs
func (h *PayrollHandler) ListByProject(c *gin.Context) {
	projectID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	runs, err := h.payrollService.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, runs)
}

// AddLine appends a worker line to a draft payroll
func (h *PayrollHandler) AddLine(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid payroll ID")
		return
	}
	var req PayrollLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	run, err := h.payrollService.AddLine(c.Request.Context(), id, req.toLine())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, run)
}

// Approve locks a draft payroll for payment
func (h *PayrollHandler) Approve(c *gin.Context) {
	h.transition(c, h.payrollService.Approve)
}

// MarkPaid marks an approved payroll as paid out
func (h *PayrollHandler) MarkPaid(c *gin.Context) {
	h.transition(c, h.payrollService.MarkPaid)
}

func (h *PayrollHandler) transition(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*payroll.Payroll, error)) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid payroll ID")
		return
	}

	run, err := op(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, run)
}

// Delete removes a draft payroll
func (h *PayrollHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid payroll ID")
		return
	}
	if err := h.payrollService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// WorkerRequest carries worker fields for create and update
type WorkerRequest struct {
	FullName  string          `json:"full_name" binding:"required,max=200"`
	Document  string          `json:"document" binding:"max=50"`
	Phone     string          `json:"phone" binding:"max=20"`
	Trade     string          `json:"trade" binding:"max=100"`
	DailyRate decimal.Decimal `json:"daily_rate" binding:"required"`
}

// CreateWorker registers a daily worker
func (h *PayrollHandler) CreateWorker(c *gin.Context) {
	var req WorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	worker, err := h.payrollService.CreateWorker(c.Request.Context(), apppayroll.CreateWorkerRequest{
		FullName:  req.FullName,
		Document:  req.Document,
		Phone:     req.Phone,
		Trade:     req.Trade,
		DailyRate: req.DailyRate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, worker)
}

// GetWorker returns one worker
func (h *PayrollHandler) GetWorker(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid worker ID")
		return
	}

	worker, err := h.payrollService.GetWorker(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, worker)
}

// ListWorkers returns workers with pagination and search
func (h *PayrollHandler) ListWorkers(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	page, err := h.payrollService.ListWorkers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateWorker replaces a worker's editable fields
func (h *PayrollHandler) UpdateWorker(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid worker ID")
		return
	}
	var req WorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	worker, err := h.payrollService.UpdateWorker(c.Request.Context(), id, apppayroll.CreateWorkerRequest{
		FullName:  req.FullName,
		Document:  req.Document,
		Phone:     req.Phone,
		Trade:     req.Trade,
		DailyRate: req.DailyRate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, worker)
}

// DeleteWorker deactivates a worker
func (h *PayrollHandler) DeleteWorker(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid worker ID")
		return
	}
	if err := h.payrollService.DeleteWorker(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
