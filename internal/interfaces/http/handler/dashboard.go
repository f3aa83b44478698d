package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/krodas7/constructora-backend/internal/application/dashboard"
)

// DashboardHandler serves the aggregated dashboard snapshot
type DashboardHandler struct {
	BaseHandler
	dashboardService *dashboard.Service
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get returns the dashboard for the requested window in months
func (h *DashboardHandler) Get(c *gin.Context) {
	months := 6
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "Invalid months parameter")
			return
		}
		months = parsed
	}

	h.Success(c, h.dashboardService.Get(c.Request.Context(), months))
}
