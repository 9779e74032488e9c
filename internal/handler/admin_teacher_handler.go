package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/dto"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/service"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/utils"
)

// AdminTeacherHandler wires teacher account management endpoints.
type AdminTeacherHandler struct {
	teachers service.TeacherService
	auth     service.AuthService
	logger   zerolog.Logger
}

// NewAdminTeacherHandler constructs the handler.
func NewAdminTeacherHandler(teachers service.TeacherService, auth service.AuthService, logger zerolog.Logger) *AdminTeacherHandler {
	return &AdminTeacherHandler{
		teachers: teachers,
		auth:     auth,
		logger:   logger.With().Str("component", "admin_teacher_handler").Logger(),
	}
}

// Register attaches teacher admin routes to the router group.
func (h *AdminTeacherHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/impersonate", h.impersonate)
}

func (h *AdminTeacherHandler) list(c *fiber.Ctx) error {
	teachers, err := h.teachers.List(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list teachers")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list teachers")
	}

	return utils.SendSuccess(c, "teachers retrieved", teachers)
}

func (h *AdminTeacherHandler) create(c *fiber.Ctx) error {
	var payload dto.TeacherCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	teacher, err := h.teachers.Create(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserIDTaken):
			return utils.SendError(c, fiber.StatusConflict, "userid already taken")
		case isValidationError(err):
			return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "invalid payload", validationDetails(err))
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create teacher")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create teacher")
		}
	}

	return utils.SendCreated(c, "teacher created", teacher)
}

func (h *AdminTeacherHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.TeacherUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	teacher, err := h.teachers.Update(c.Context(), id, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTeacherNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "teacher not found")
		case isValidationError(err):
			return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "invalid payload", validationDetails(err))
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update teacher")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update teacher")
		}
	}

	return utils.SendSuccess(c, "teacher updated", teacher)
}

func (h *AdminTeacherHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.teachers.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrTeacherNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "teacher not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete teacher")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete teacher")
	}

	return utils.SendSuccess(c, "teacher deleted", fiber.Map{"teacher_id": id})
}

func (h *AdminTeacherHandler) impersonate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	response, err := h.auth.Impersonate(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTeacherNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "teacher not found or inactive")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to impersonate teacher")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to impersonate teacher")
	}

	return utils.SendSuccess(c, "impersonation token issued", response)
}
