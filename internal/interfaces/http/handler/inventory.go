package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinventory "github.com/krodas7/constructora-backend/internal/application/inventory"
)

// InventoryHandler handles stock item and assignment requests
type InventoryHandler struct {
	BaseHandler
	inventoryService *appinventory.Service
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *appinventory.Service) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// CreateItemRequest carries the input for item creation
type CreateItemRequest struct {
	Code     string          `json:"code" binding:"required,max=50"`
	Name     string          `json:"name" binding:"required,max=200"`
	Category string          `json:"category" binding:"max=100"`
	Unit     string          `json:"unit" binding:"max=20"`
	Quantity int             `json:"quantity" binding:"min=0"`
	MinLevel int             `json:"min_level" binding:"min=0"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Location string          `json:"location" binding:"max=200"`
}

// CreateItem registers a stock item
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), appinventory.CreateItemRequest{
		Code:     req.Code,
		Name:     req.Name,
		Category: req.Category,
		Unit:     req.Unit,
		Quantity: req.Quantity,
		MinLevel: req.MinLevel,
		UnitCost: req.UnitCost,
		Location: req.Location,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// GetItem returns one item
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	item, err := h.inventoryService.GetItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListItems returns items with pagination and search
func (h *InventoryHandler) ListItems(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	if category := c.Query("category"); category != "" {
		filter.Filters["category"] = category
	}

	page, err := h.inventoryService.ListItems(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, page.Items, page.Total, page.Page, page.PageSize)
}

// LowStock returns items under their minimum level
func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.inventoryService.LowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// UpdateItemRequest carries the mutable item fields
type UpdateItemRequest struct {
	Name     string          `json:"name" binding:"required,max=200"`
	Category string          `json:"category" binding:"max=100"`
	Unit     string          `json:"unit" binding:"max=20"`
	Quantity int             `json:"quantity" binding:"min=0"`
	MinLevel int             `json:"min_level" binding:"min=0"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Location string          `json:"location" binding:"max=200"`
}

// UpdateItem replaces an item's editable fields
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.inventoryService.UpdateItem(c.Request.Context(), id, appinventory.UpdateItemRequest{
		Name:     req.Name,
		Category: req.Category,
		Unit:     req.Unit,
		Quantity: req.Quantity,
		MinLevel: req.MinLevel,
		UnitCost: req.UnitCost,
		Location: req.Location,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// DeleteItem deactivates an item with no outstanding assignments
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}
	if err := h.inventoryService.DeleteItem(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AssignRequest carries the input for a stock assignment
type AssignRequest struct {
	ProjectID uuid.UUID `json:"project_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	Notes     string    `json:"notes"`
}

// Assign reserves stock for a project
func (h *InventoryHandler) Assign(c *gin.Context) {
	itemID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	assignment, err := h.inventoryService.Assign(c.Request.Context(), itemID, req.ProjectID, req.Quantity, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, assignment)
}

// Return closes an assignment and releases its stock
func (h *InventoryHandler) Return(c *gin.Context) {
	assignmentID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid assignment ID")
		return
	}

	assignment, err := h.inventoryService.Return(c.Request.Context(), assignmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, assignment)
}

// Assignments returns a project's inventory assignments
func (h *InventoryHandler) Assignments(c *gin.Context) {
	projectID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	assignments, err := h.inventoryService.Assignments(c.Request.Context(), projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, assignments)
}
