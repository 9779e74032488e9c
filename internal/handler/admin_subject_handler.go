package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/dto"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/service"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/utils"
)

// AdminSubjectHandler wires subject catalogue endpoints.
type AdminSubjectHandler struct {
	service service.SubjectService
	logger  zerolog.Logger
}

// NewAdminSubjectHandler constructs the handler.
func NewAdminSubjectHandler(service service.SubjectService, logger zerolog.Logger) *AdminSubjectHandler {
	return &AdminSubjectHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_subject_handler").Logger(),
	}
}

// Register attaches subject admin routes to the router group.
func (h *AdminSubjectHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
}

func (h *AdminSubjectHandler) list(c *fiber.Ctx) error {
	var active *bool
	switch strings.ToLower(strings.TrimSpace(c.Query("active"))) {
	case "true", "1":
		value := true
		active = &value
	case "false", "0":
		value := false
		active = &value
	}

	subjects, err := h.service.List(c.Context(), active)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list subjects")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list subjects")
	}

	return utils.SendSuccess(c, "subjects retrieved", subjects)
}

func (h *AdminSubjectHandler) create(c *fiber.Ctx) error {
	var payload dto.SubjectCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	subject, err := h.service.Create(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubjectCodeTaken):
			return utils.SendError(c, fiber.StatusConflict, "subject code already exists")
		case isValidationError(err):
			return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "invalid payload", validationDetails(err))
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create subject")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create subject")
		}
	}

	return utils.SendCreated(c, "subject created", subject)
}

func (h *AdminSubjectHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.SubjectUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	subject, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubjectNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "subject not found")
		case isValidationError(err):
			return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "invalid payload", validationDetails(err))
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update subject")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update subject")
		}
	}

	return utils.SendSuccess(c, "subject updated", subject)
}
