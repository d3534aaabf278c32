package subtopic

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/revisionpro/api/model"
	"github.com/revisionpro/api/services"
	"github.com/revisionpro/api/utils/response"
	"github.com/revisionpro/api/utils/validation"
)

// SubtopicHandler handles subtopic-related requests
type SubtopicHandler struct {
	validator        *validation.Validator
	hierarchyService *services.HierarchyService
}

// NewSubtopicHandler creates a new subtopic handler
func NewSubtopicHandler(hierarchyService *services.HierarchyService) *SubtopicHandler {
	return &SubtopicHandler{
		validator:        validation.NewValidator(),
		hierarchyService: hierarchyService,
	}
}

// CreateSubtopicRequest represents the request body for creating a subtopic
type CreateSubtopicRequest struct {
	TopicID     uint   `json:"topic_id" validate:"required"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Difficulty  string `json:"difficulty" validate:"omitempty,oneof=Easy Moderate Hard"`
}

// UpdateSubtopicRequest represents the request body for updating a subtopic
type UpdateSubtopicRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Difficulty  *string `json:"difficulty" validate:"omitempty,oneof=Easy Moderate Hard"`
	Notes       *string `json:"notes" validate:"omitempty,max=5000"`
}

// ListSubtopics handles GET /api/v1/subtopics?topic_id=
func (h *SubtopicHandler) ListSubtopics(c *fiber.Ctx) error {
	var topicID *uint
	if raw := c.Query("topic_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid topic_id")
		}
		id := uint(parsed)
		topicID = &id
	}

	subtopics, err := h.hierarchyService.ListSubtopics(c.Context(), topicID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch subtopics")
	}
	return response.Success(c, subtopics)
}

// CreateSubtopic handles POST /api/v1/subtopics
func (h *SubtopicHandler) CreateSubtopic(c *fiber.Ctx) error {
	var req CreateSubtopicRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	subtopic, err := h.hierarchyService.CreateSubtopic(
		c.Context(), req.TopicID, req.Name, req.Description,
		model.DifficultyLevel(req.Difficulty),
	)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Topic not found")
		case errors.Is(err, services.ErrValidation):
			return response.ValidationError(c, err)
		default:
			return response.InternalServerError(c, "Failed to create subtopic")
		}
	}

	return response.Created(c, subtopic)
}

// UpdateSubtopic handles PUT /api/v1/subtopics/:id
func (h *SubtopicHandler) UpdateSubtopic(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid subtopic ID")
	}

	var req UpdateSubtopicRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	input := services.UpdateSubtopicInput{
		Name:        req.Name,
		Description: req.Description,
		Notes:       req.Notes,
	}
	if req.Difficulty != nil {
		difficulty := model.DifficultyLevel(*req.Difficulty)
		input.Difficulty = &difficulty
	}

	subtopic, err := h.hierarchyService.UpdateSubtopic(c.Context(), uint(id), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Subtopic not found")
		case errors.Is(err, services.ErrValidation):
			return response.ValidationError(c, err)
		default:
			return response.InternalServerError(c, "Failed to update subtopic")
		}
	}

	return response.Success(c, subtopic)
}

// DeleteSubtopic handles DELETE /api/v1/subtopics/:id
func (h *SubtopicHandler) DeleteSubtopic(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid subtopic ID")
	}

	if err := h.hierarchyService.DeleteSubtopic(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Subtopic not found")
		}
		return response.InternalServerError(c, "Failed to delete subtopic")
	}

	return response.NoContent(c)
}
