package recommendation

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/revisionpro/api/services"
	"github.com/revisionpro/api/utils/response"
)

// defaultLimit is the number of recommendations returned when the
// caller does not specify one
const defaultLimit = 5

// RecommendationHandler handles study recommendation requests
type RecommendationHandler struct {
	recommendationService *services.RecommendationService
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recommendationService *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
	}
}

// GetRecommendations handles GET /api/v1/recommendations?limit=N
// A non-positive limit yields an empty list, not an error
func (h *RecommendationHandler) GetRecommendations(c *fiber.Ctx) error {
	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return response.BadRequest(c, "Invalid limit")
		}
		limit = parsed
	}

	recommendations, err := h.recommendationService.Recommend(c.Context(), limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute recommendations")
	}

	return response.Success(c, recommendations)
}
