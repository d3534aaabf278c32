package subject

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/revisionpro/api/services"
	"github.com/revisionpro/api/utils/response"
	"github.com/revisionpro/api/utils/validation"
)

// SubjectHandler handles subject-related requests
type SubjectHandler struct {
	validator        *validation.Validator
	hierarchyService *services.HierarchyService
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(hierarchyService *services.HierarchyService) *SubjectHandler {
	return &SubjectHandler{
		validator:        validation.NewValidator(),
		hierarchyService: hierarchyService,
	}
}

// CreateSubjectRequest represents the request body for creating a subject
type CreateSubjectRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// ListSubjects handles GET /api/v1/subjects
func (h *SubjectHandler) ListSubjects(c *fiber.Ctx) error {
	subjects, err := h.hierarchyService.ListSubjects(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch subjects")
	}
	return response.Success(c, subjects)
}

// CreateSubject handles POST /api/v1/subjects
func (h *SubjectHandler) CreateSubject(c *fiber.Ctx) error {
	var req CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	subject, err := h.hierarchyService.CreateSubject(c.Context(), req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return response.ValidationError(c, err)
		case errors.Is(err, services.ErrConflict):
			return response.Conflict(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create subject")
		}
	}

	return response.Created(c, subject)
}

// DeleteSubject handles DELETE /api/v1/subjects/:id
// Cascade deletes all topics, subtopics and revision events underneath
func (h *SubjectHandler) DeleteSubject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid subject ID")
	}

	if err := h.hierarchyService.DeleteSubject(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to delete subject")
	}

	return response.NoContent(c)
}
