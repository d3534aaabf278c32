package analytics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/revisionpro/api/services"
	"github.com/revisionpro/api/utils/response"
)

// AnalyticsHandler handles dashboard statistics requests
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *AnalyticsHandler) GetDashboard(c *fiber.Ctx) error {
	stats, err := h.analyticsService.GetDashboardStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute dashboard stats")
	}
	return response.Success(c, stats)
}
