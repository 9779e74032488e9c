package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/dto"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/service"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminResultHandler wires result generation, report queries, spreadsheet
// exports and bulk mark import.
type AdminResultHandler struct {
	reports  service.ReportService
	exports  service.ExportService
	importer service.ImportService
	students service.StudentService
	logger   zerolog.Logger
}

// NewAdminResultHandler constructs the handler.
func NewAdminResultHandler(reports service.ReportService, exports service.ExportService, importer service.ImportService, students service.StudentService, logger zerolog.Logger) *AdminResultHandler {
	return &AdminResultHandler{
		reports:  reports,
		exports:  exports,
		importer: importer,
		students: students,
		logger:   logger.With().Str("component", "admin_result_handler").Logger(),
	}
}

// Register attaches result and export routes to the admin group.
func (h *AdminResultHandler) Register(router fiber.Router) {
	router.Post("/results/generate", h.generate)
	router.Get("/results", h.results)
	router.Get("/divisions", h.divisions)
	router.Get("/export/division", h.exportDivision)
	router.Get("/export/complete", h.exportComplete)
	router.Get("/export/student", h.exportStudent)
	router.Get("/export/marksheet", h.exportMarksheet)
	router.Post("/marks/import", h.importMarks)
}

func (h *AdminResultHandler) generate(c *fiber.Ctx) error {
	var payload dto.GenerateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(payload.Division) == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "division is required")
	}

	if err := h.reports.Generate(c.Context(), payload.Division); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to generate results")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to generate results")
	}

	return utils.SendSuccess(c, "results generated", fiber.Map{"division": payload.Division})
}

// results serves both query shapes: ?division= for the whole division and
// ?roll_no=[&division=] for one student across divisions.
func (h *AdminResultHandler) results(c *fiber.Ctx) error {
	rollNo, err := parseQueryInt(c, "roll_no")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid roll number")
	}
	division := c.Query("division")

	if rollNo > 0 {
		rows, err := h.reports.StudentReport(c.Context(), rollNo, division)
		if err != nil {
			if errors.Is(err, service.ErrStudentNotFound) {
				return utils.SendError(c, fiber.StatusNotFound, "student not found")
			}
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch student results")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch results")
		}
		return utils.SendSuccess(c, "results retrieved", rows)
	}

	if strings.TrimSpace(division) == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "division or roll_no is required")
	}

	rows, err := h.reports.DivisionReport(c.Context(), division)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch division results")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch results")
	}

	return utils.SendSuccess(c, "results retrieved", rows)
}

func (h *AdminResultHandler) divisions(c *fiber.Ctx) error {
	divisions, err := h.students.Divisions(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list divisions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list divisions")
	}

	return utils.SendSuccess(c, "divisions retrieved", divisions)
}

func (h *AdminResultHandler) exportDivision(c *fiber.Ctx) error {
	division := strings.TrimSpace(c.Query("division"))
	if division == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "division is required")
	}

	export, err := h.exports.DivisionWorkbook(c.Context(), division)
	if err != nil {
		return h.exportError(c, err, "failed to export division marks")
	}

	return h.sendWorkbook(c, export)
}

func (h *AdminResultHandler) exportComplete(c *fiber.Ctx) error {
	division := strings.TrimSpace(c.Query("division"))

	var rollNo *int
	parsed, err := parseQueryInt(c, "roll_no")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid roll number")
	}
	if parsed > 0 {
		rollNo = &parsed
	}

	export, err := h.exports.CompleteWorkbook(c.Context(), division, rollNo)
	if err != nil {
		return h.exportError(c, err, "failed to export complete results")
	}

	return h.sendWorkbook(c, export)
}

func (h *AdminResultHandler) exportStudent(c *fiber.Ctx) error {
	rollNo, err := parseQueryInt(c, "roll_no")
	if err != nil || rollNo <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid roll number")
	}
	division := strings.TrimSpace(c.Query("division"))
	if division == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "division is required")
	}

	export, err := h.exports.StudentWorkbook(c.Context(), rollNo, division)
	if err != nil {
		return h.exportError(c, err, "failed to export student marks")
	}

	return h.sendWorkbook(c, export)
}

func (h *AdminResultHandler) exportMarksheet(c *fiber.Ctx) error {
	division := strings.TrimSpace(c.Query("division"))
	if division == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "division is required")
	}

	export, err := h.exports.MarksheetWorkbook(c.Context(), division)
	if err != nil {
		return h.exportError(c, err, "failed to export marksheet")
	}

	return h.sendWorkbook(c, export)
}

func (h *AdminResultHandler) importMarks(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "import file is required")
	}

	result, err := h.importer.ImportMarks(c.Context(), actorFromContext(c), file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImportFileRequired),
			errors.Is(err, service.ErrImportUnreadable),
			errors.Is(err, service.ErrImportMissingColumns):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrImportTypeNotAllowed):
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, service.ErrImportTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to import marks")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to import marks")
		}
	}

	return utils.SendSuccess(c, "marks imported", result)
}

func (h *AdminResultHandler) exportError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrNoStudents):
		return utils.SendError(c, fiber.StatusNotFound, "no students found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}

func (h *AdminResultHandler) sendWorkbook(c *fiber.Ctx, export service.ExportFile) error {
	buffer, err := export.File.WriteToBuffer()
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to render workbook")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to render workbook")
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.Filename))
	return c.Send(buffer.Bytes())
}
