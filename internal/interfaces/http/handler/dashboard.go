package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rently/backend/internal/application/report"
)

// DashboardHandler handles operational dashboard HTTP requests
type DashboardHandler struct {
	BaseHandler
	dashboardService *report.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *report.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Snapshot godoc
// @Summary      Get the operational dashboard snapshot
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /dashboard [get]
func (h *DashboardHandler) Snapshot(c *gin.Context) {
	snapshot, err := h.dashboardService.Snapshot(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, snapshot)
}
