package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	reportapp "github.com/grocery/admin/internal/application/report"
)

// DashboardHandler serves the landing screen summary
type DashboardHandler struct {
	BaseHandler
	dashboardService *reportapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *reportapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Get returns totals, charts and recent orders.
// GET /dashboard?refresh=
func (h *DashboardHandler) Get(c *gin.Context) {
	refresh, _ := strconv.ParseBool(c.Query("refresh"))

	dash, err := h.dashboardService.Get(c.Request.Context(), refresh)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dash)
}
