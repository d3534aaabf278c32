package revision

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/revisionpro/api/model"
	"github.com/revisionpro/api/services"
	"github.com/revisionpro/api/utils/response"
	"github.com/revisionpro/api/utils/validation"
)

// RevisionHandler handles revision ledger requests
type RevisionHandler struct {
	validator       *validation.Validator
	revisionService *services.RevisionService
}

// NewRevisionHandler creates a new revision handler
func NewRevisionHandler(revisionService *services.RevisionService) *RevisionHandler {
	return &RevisionHandler{
		validator:       validation.NewValidator(),
		revisionService: revisionService,
	}
}

// CreateRevisionRequest represents the request body for logging a revision
type CreateRevisionRequest struct {
	SubtopicID  uint   `json:"subtopic_id" validate:"required"`
	Performance string `json:"performance" validate:"required,oneof=Struggled Mastered"`
	Notes       string `json:"notes" validate:"omitempty,max=5000"`
}

// CreateRevision handles POST /api/v1/revisions
func (h *RevisionHandler) CreateRevision(c *fiber.Ctx) error {
	var req CreateRevisionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	event, err := h.revisionService.RecordRevision(
		c.Context(), req.SubtopicID,
		model.RevisionPerformance(req.Performance), req.Notes,
	)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Subtopic not found")
		case errors.Is(err, services.ErrValidation):
			return response.ValidationError(c, err)
		default:
			return response.InternalServerError(c, "Failed to record revision")
		}
	}

	return response.Created(c, event)
}

// GetRevisionHistory handles GET /api/v1/revisions/:subtopic_id
func (h *RevisionHandler) GetRevisionHistory(c *fiber.Ctx) error {
	subtopicID, err := strconv.ParseUint(c.Params("subtopic_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid subtopic ID")
	}

	events, err := h.revisionService.History(c.Context(), uint(subtopicID))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Subtopic not found")
		}
		return response.InternalServerError(c, "Failed to fetch revision history")
	}

	return response.Success(c, events)
}
