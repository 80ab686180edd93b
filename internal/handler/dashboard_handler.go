package handler

import (
	"net/http"

	"github.com/LOAD-13/boc-forms-backend/internal/response"
	"github.com/LOAD-13/boc-forms-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler handles admin dashboard endpoints.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard godoc
// GET /api/v1/admin/dashboard
// Returns stat cards, form status distribution and recent form results.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	summary, err := h.dashboardService.GetSummary(c.Request.Context(), ownerID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, summary)
}
