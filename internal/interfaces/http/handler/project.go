package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/krodas7/constructora-backend/internal/application/project"
)

// ProjectHandler handles project CRUD and lifecycle requests
type ProjectHandler struct {
	BaseHandler
	projectService *project.Service
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *project.Service) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProjectRequest carries the input for project creation
type CreateProjectRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	ClientID    uuid.UUID       `json:"client_id" binding:"required"`
	Description string          `json:"description"`
	Location    string          `json:"location" binding:"max=200"`
	Budget      decimal.Decimal `json:"budget"`
	StartAt     *time.Time      `json:"start_at"`
	EndAt       *time.Time      `json:"end_at"`
}

// Create registers a new project
func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	proj, err := h.projectService.Create(c.Request.Context(), project.CreateRequest{
		Name:        req.Name,
		ClientID:    req.ClientID,
		Description: req.Description,
		Location:    req.Location,
		Budget:      req.Budget,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, proj)
}

// Get returns one project
func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	proj, err := h.projectService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, proj)
}

// List returns projects with pagination, search and status/client filters
func (h *ProjectHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if clientID := c.Query("client_id"); clientID != "" {
		id, err := uuid.Parse(clientID)
		if err != nil {
			h.BadRequest(c, "Invalid client ID")
			return
		}
		filter.Filters["client_id"] = id
	}

	page, err := h.projectService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListActive returns all active projects for selection lists
func (h *ProjectHandler) ListActive(c *gin.Context) {
	projects, err := h.projectService.ListActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, projects)
}

// UpdateProjectRequest carries the mutable project fields
type UpdateProjectRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Description string          `json:"description"`
	Location    string          `json:"location" binding:"max=200"`
	Budget      decimal.Decimal `json:"budget"`
	Status      string          `json:"status" binding:"omitempty,oneof=PLANNING IN_PROGRESS PAUSED COMPLETED"`
	StartAt     *time.Time      `json:"start_at"`
	EndAt       *time.Time      `json:"end_at"`
}

// Update replaces a project's editable fields
func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}
	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	proj, err := h.projectService.Update(c.Request.Context(), id, project.UpdateRequest{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Budget:      req.Budget,
		Status:      req.Status,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, proj)
}

// ChangeStatusRequest carries the target lifecycle state
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PLANNING IN_PROGRESS PAUSED COMPLETED"`
}

// ChangeStatus moves a project to a new lifecycle state
func (h *ProjectHandler) ChangeStatus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}
	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	proj, err := h.projectService.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, proj)
}

// Delete deactivates a project
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}
	if err := h.projectService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
