package topic

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/revisionpro/api/services"
	"github.com/revisionpro/api/utils/response"
	"github.com/revisionpro/api/utils/validation"
)

// TopicHandler handles topic-related requests
type TopicHandler struct {
	validator        *validation.Validator
	hierarchyService *services.HierarchyService
}

// NewTopicHandler creates a new topic handler
func NewTopicHandler(hierarchyService *services.HierarchyService) *TopicHandler {
	return &TopicHandler{
		validator:        validation.NewValidator(),
		hierarchyService: hierarchyService,
	}
}

// CreateTopicRequest represents the request body for creating a topic
type CreateTopicRequest struct {
	SubjectID   uint   `json:"subject_id" validate:"required"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// ListTopics handles GET /api/v1/topics?subject_id=
func (h *TopicHandler) ListTopics(c *fiber.Ctx) error {
	var subjectID *uint
	if raw := c.Query("subject_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid subject_id")
		}
		id := uint(parsed)
		subjectID = &id
	}

	topics, err := h.hierarchyService.ListTopics(c.Context(), subjectID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch topics")
	}
	return response.Success(c, topics)
}

// CreateTopic handles POST /api/v1/topics
func (h *TopicHandler) CreateTopic(c *fiber.Ctx) error {
	var req CreateTopicRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	topic, err := h.hierarchyService.CreateTopic(c.Context(), req.SubjectID, req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Subject not found")
		case errors.Is(err, services.ErrValidation):
			return response.ValidationError(c, err)
		default:
			return response.InternalServerError(c, "Failed to create topic")
		}
	}

	return response.Created(c, topic)
}

// DeleteTopic handles DELETE /api/v1/topics/:id
// Cascade deletes all subtopics and their revision events
func (h *TopicHandler) DeleteTopic(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid topic ID")
	}

	if err := h.hierarchyService.DeleteTopic(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Topic not found")
		}
		return response.InternalServerError(c, "Failed to delete topic")
	}

	return response.NoContent(c)
}
