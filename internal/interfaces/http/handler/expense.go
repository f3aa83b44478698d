package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appexpense "github.com/krodas7/constructora-backend/internal/application/expense"
	"github.com/krodas7/constructora-backend/internal/domain/expense"
)

// ExpenseHandler handles expense CRUD, approval and category requests
type ExpenseHandler struct {
	BaseHandler
	expenseService *appexpense.Service
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *appexpense.Service) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest carries the input for expense creation
type CreateExpenseRequest struct {
	ProjectID   uuid.UUID       `json:"project_id" binding:"required"`
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	IncurredAt  time.Time       `json:"incurred_at" binding:"required"`
	ReceiptPath string          `json:"receipt_path" binding:"max=500"`
}

// Create records an unapproved expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	e, err := h.expenseService.Create(c.Request.Context(), appexpense.CreateRequest{
		ProjectID:   req.ProjectID,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Amount:      req.Amount,
		IncurredAt:  req.IncurredAt,
		ReceiptPath: req.ReceiptPath,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, e)
}

// Get returns one expense
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	e, err := h.expenseService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, e)
}

// List returns expenses with pagination and filters
func (h *ExpenseHandler) List(c *gin.Context) {
	base, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	filter := expense.Filter{Filter: base}
	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid project ID")
			return
		}
		filter.ProjectID = &id
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid category ID")
			return
		}
		filter.CategoryID = &id
	}
	if raw := c.Query("approved"); raw != "" {
		approved, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "Invalid approved flag")
			return
		}
		filter.Approved = &approved
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid from date")
			return
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid to date")
			return
		}
		filter.To = &to
	}

	page, err := h.expenseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, page.Items, page.Total, page.Page, page.PageSize)
}

func (h *ExpenseHandler) actor(c *gin.Context) appexpense.Actor {
	return appexpense.Actor{
		UserID:    currentUserID(c),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// Approve approves an expense and adds it to the project's spent total
func (h *ExpenseHandler) Approve(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	e, err := h.expenseService.Approve(c.Request.Context(), id, h.actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, e)
}

// Disapprove reverses an expense approval
func (h *ExpenseHandler) Disapprove(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	e, err := h.expenseService.Disapprove(c.Request.Context(), id, h.actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, e)
}

// Delete removes an unapproved expense
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}
	if err := h.expenseService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Categories lists all expense categories
func (h *ExpenseHandler) Categories(c *gin.Context) {
	categories, err := h.expenseService.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// CreateCategoryRequest carries the input for category creation
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Color       string `json:"color" binding:"max=20"`
}

// CreateCategory adds an expense category
func (h *ExpenseHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.expenseService.CreateCategory(c.Request.Context(), req.Name, req.Description, req.Color)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}
