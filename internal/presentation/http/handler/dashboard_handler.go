package handler

import (
	"strconv"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/application/service"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get handles retrieving the dashboard aggregates
func (h *DashboardHandler) Get(c *gin.Context) {
	days := 30
	if v := c.Query("days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			days = parsed
		}
	}

	result, err := h.dashboardService.GetDashboard(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard retrieved successfully", result)
}
