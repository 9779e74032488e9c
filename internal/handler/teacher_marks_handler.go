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

// TeacherMarksHandler wires the teacher panel: mark entry and the views a
// teacher needs around it.
type TeacherMarksHandler struct {
	marks   service.MarkService
	reports service.ReportService
	logger  zerolog.Logger
}

// NewTeacherMarksHandler constructs the handler.
func NewTeacherMarksHandler(marks service.MarkService, reports service.ReportService, logger zerolog.Logger) *TeacherMarksHandler {
	return &TeacherMarksHandler{
		marks:   marks,
		reports: reports,
		logger:  logger.With().Str("component", "teacher_marks_handler").Logger(),
	}
}

// Register attaches teacher panel routes to the router group.
func (h *TeacherMarksHandler) Register(router fiber.Router) {
	router.Get("/students", h.studentsForSubject)
	router.Get("/students-by-division", h.studentsByDivision)
	router.Get("/student-marks", h.studentMarks)
	router.Get("/marks", h.listMarks)
	router.Post("/marks", h.enterMark)
	router.Put("/marks/:id", h.updateMark)
	router.Delete("/marks/:id", h.deleteMark)
	router.Get("/complete-table", h.completeTable)
}

func (h *TeacherMarksHandler) studentsForSubject(c *fiber.Ctx) error {
	subjectCode := strings.TrimSpace(c.Query("subject_code"))
	division := strings.TrimSpace(c.Query("division"))
	if subjectCode == "" || division == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "subject_code and division are required")
	}

	students, err := h.marks.StudentsForSubject(c.Context(), actorFromContext(c), subjectCode, division)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubjectNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "subject not found")
		case errors.Is(err, service.ErrNotAllocated):
			return utils.SendError(c, fiber.StatusForbidden, "not allocated to this subject and division")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to list students")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to list students")
		}
	}

	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *TeacherMarksHandler) studentsByDivision(c *fiber.Ctx) error {
	division := strings.TrimSpace(c.Query("division"))
	if division == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "division is required")
	}

	students, err := h.marks.StudentsByDivision(c.Context(), actorFromContext(c), division)
	if err != nil {
		if errors.Is(err, service.ErrNotAllocated) {
			return utils.SendError(c, fiber.StatusForbidden, "no allocation in this division")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list students")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list students")
	}

	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *TeacherMarksHandler) studentMarks(c *fiber.Ctx) error {
	rollNo, err := parseQueryInt(c, "roll_no")
	if err != nil || rollNo <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid roll number")
	}
	division := strings.TrimSpace(c.Query("division"))
	if division == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "division is required")
	}

	response, err := h.marks.StudentMarks(c.Context(), actorFromContext(c), rollNo, division)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAllocated):
			return utils.SendError(c, fiber.StatusForbidden, "no allocation in this division")
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch student marks")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch student marks")
		}
	}

	return utils.SendSuccess(c, "student marks retrieved", response)
}

func (h *TeacherMarksHandler) listMarks(c *fiber.Ctx) error {
	subjectID, err := parseQueryInt(c, "subject_id")
	if err != nil || subjectID <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid subject id")
	}
	division := strings.TrimSpace(c.Query("division"))
	if division == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "division is required")
	}

	rows, err := h.marks.ListForSubject(c.Context(), actorFromContext(c), uint(subjectID), division)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubjectNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "subject not found")
		case errors.Is(err, service.ErrNotAllocated):
			return utils.SendError(c, fiber.StatusForbidden, "not allocated to this subject and division")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to list marks")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to list marks")
		}
	}

	return utils.SendSuccess(c, "marks retrieved", rows)
}

func (h *TeacherMarksHandler) enterMark(c *fiber.Ctx) error {
	var payload dto.MarkEntryRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	mark, err := h.marks.Enter(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return h.markError(c, err, "failed to enter marks")
	}

	return utils.SendCreated(c, "marks entered", mark)
}

func (h *TeacherMarksHandler) updateMark(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.MarkUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	mark, err := h.marks.Update(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return h.markError(c, err, "failed to update marks")
	}

	return utils.SendSuccess(c, "marks updated", mark)
}

func (h *TeacherMarksHandler) deleteMark(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.marks.Delete(c.Context(), actorFromContext(c), id); err != nil {
		switch {
		case errors.Is(err, service.ErrMarkNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "mark not found")
		case errors.Is(err, service.ErrMarkNotOwned):
			return utils.SendError(c, fiber.StatusForbidden, "only the entering teacher or an admin can delete this mark")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete mark")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete mark")
		}
	}

	return utils.SendSuccess(c, "mark deleted", fiber.Map{"mark_id": id})
}

func (h *TeacherMarksHandler) completeTable(c *fiber.Ctx) error {
	division := strings.TrimSpace(c.Query("division"))
	if division == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "division is required")
	}

	rows, err := h.reports.CompleteTable(c.Context(), actorFromContext(c), division)
	if err != nil {
		if errors.Is(err, service.ErrNotAllocated) {
			return utils.SendError(c, fiber.StatusForbidden, "no allocation in this division")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build complete table")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build complete table")
	}

	return utils.SendSuccess(c, "complete table retrieved", rows)
}

// markError maps mark entry failures onto the status codes the panel
// expects.
func (h *TeacherMarksHandler) markError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "subject not found")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrMarkNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "mark not found")
	case errors.Is(err, service.ErrNotAllocated):
		return utils.SendError(c, fiber.StatusForbidden, "not allocated to this subject and division")
	case errors.Is(err, service.ErrMarkExists):
		return utils.SendError(c, fiber.StatusConflict, "marks already exist, use update instead")
	case errors.Is(err, service.ErrNotEnrolled):
		return utils.SendError(c, fiber.StatusBadRequest, "student not enrolled in this optional subject")
	case errors.Is(err, service.ErrGraceOutOfRange):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case isValidationError(err):
		return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "invalid payload", validationDetails(err))
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
