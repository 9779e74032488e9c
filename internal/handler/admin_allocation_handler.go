package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/dto"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/service"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/utils"
)

// AdminAllocationHandler wires teacher-subject allocation endpoints.
type AdminAllocationHandler struct {
	service service.AllocationService
	logger  zerolog.Logger
}

// NewAdminAllocationHandler constructs the handler.
func NewAdminAllocationHandler(service service.AllocationService, logger zerolog.Logger) *AdminAllocationHandler {
	return &AdminAllocationHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_allocation_handler").Logger(),
	}
}

// Register attaches allocation admin routes to the router group.
func (h *AdminAllocationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Delete("/:id", h.delete)
}

func (h *AdminAllocationHandler) list(c *fiber.Ctx) error {
	allocations, err := h.service.List(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list allocations")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list allocations")
	}

	return utils.SendSuccess(c, "allocations retrieved", allocations)
}

func (h *AdminAllocationHandler) create(c *fiber.Ctx) error {
	var payload dto.AllocationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	allocation, err := h.service.Create(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTeacherNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "teacher not found")
		case errors.Is(err, service.ErrSubjectNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "subject not found")
		case errors.Is(err, service.ErrAllocationExists):
			return utils.SendError(c, fiber.StatusConflict, "allocation already exists")
		case isValidationError(err):
			return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "invalid payload", validationDetails(err))
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create allocation")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create allocation")
		}
	}

	return utils.SendCreated(c, "allocation created", allocation)
}

func (h *AdminAllocationHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrAllocationNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "allocation not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete allocation")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete allocation")
	}

	return utils.SendSuccess(c, "allocation deleted", fiber.Map{"allocation_id": id})
}
