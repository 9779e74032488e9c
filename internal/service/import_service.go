package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/dto"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/repository"
)

var (
	// ErrImportFileRequired indicates no spreadsheet was attached.
	ErrImportFileRequired = errors.New("import file is required")
	// ErrImportTooLarge indicates the spreadsheet exceeded the size limit.
	ErrImportTooLarge = errors.New("import file exceeds maximum allowed size")
	// ErrImportTypeNotAllowed indicates the upload is not an xlsx workbook.
	ErrImportTypeNotAllowed = errors.New("import file must be an xlsx workbook")
	// ErrImportUnreadable indicates the workbook could not be parsed.
	ErrImportUnreadable = errors.New("import file could not be read")
	// ErrImportMissingColumns indicates required header columns are absent.
	ErrImportMissingColumns = errors.New("import sheet is missing required columns")
)

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxImportBytes caps uploads; mark sheets are tiny, this is generous.
const maxImportBytes = 10 << 20

// ImportService loads mark rows in bulk from spreadsheets.
type ImportService interface {
	ImportMarks(ctx context.Context, actor Actor, file *multipart.FileHeader) (dto.MarkImportResult, error)
}

type importService struct {
	marks    repository.MarkRepository
	students repository.StudentRepository
	subjects repository.SubjectRepository
	results  ResultService
	reports  ReportInvalidator
	logger   zerolog.Logger
	graceMax float64
	tracer   trace.Tracer
}

// NewImportService constructs the import service.
func NewImportService(marks repository.MarkRepository, students repository.StudentRepository, subjects repository.SubjectRepository, results ResultService, reports ReportInvalidator, logger zerolog.Logger, graceMax float64) ImportService {
	return &importService{
		marks:    marks,
		students: students,
		subjects: subjects,
		results:  results,
		reports:  reports,
		logger:   logger.With().Str("component", "import_service").Logger(),
		graceMax: graceMax,
		tracer:   otel.Tracer("github.com/Ajaykanojiya578/Junior-College-Result/internal/service/import"),
	}
}

func (s *importService) ImportMarks(ctx context.Context, actor Actor, file *multipart.FileHeader) (dto.MarkImportResult, error) {
	ctx, span := s.tracer.Start(ctx, "marks.import")
	defer span.End()

	if file == nil {
		span.RecordError(ErrImportFileRequired)
		span.SetStatus(codes.Error, "validation failed")
		return dto.MarkImportResult{}, ErrImportFileRequired
	}
	span.SetAttributes(
		attribute.String("import.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("import.request_size", file.Size),
	)
	if file.Size > maxImportBytes {
		span.RecordError(ErrImportTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.MarkImportResult{}, ErrImportTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.MarkImportResult{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, maxImportBytes+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.MarkImportResult{}, err
	}
	if buf.Len() > maxImportBytes {
		span.RecordError(ErrImportTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.MarkImportResult{}, ErrImportTooLarge
	}

	if detected := mimetype.Detect(buf.Bytes()); detected.String() != xlsxMime {
		span.RecordError(ErrImportTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.MarkImportResult{}, ErrImportTypeNotAllowed
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return dto.MarkImportResult{}, ErrImportUnreadable
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return dto.MarkImportResult{}, ErrImportUnreadable
	}
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return dto.MarkImportResult{}, ErrImportUnreadable
	}
	if len(rows) == 0 {
		return dto.MarkImportResult{}, ErrImportMissingColumns
	}

	columns, err := mapImportColumns(rows[0])
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "header mismatch")
		return dto.MarkImportResult{}, err
	}

	subjects, err := s.subjects.List(ctx, repository.SubjectFilter{})
	if err != nil {
		return dto.MarkImportResult{}, err
	}
	subjectByCode := make(map[string]models.Subject, len(subjects))
	subjectByID := make(map[uint]models.Subject, len(subjects))
	for _, subject := range subjects {
		subjectByCode[subject.SubjectCode] = subject
		subjectByID[subject.SubjectID] = subject
	}

	result := dto.MarkImportResult{Errors: []dto.MarkImportRowError{}}
	touched := make(map[string]struct{})
	studentCache := make(map[string]*models.Student)

	for i, cells := range rows[1:] {
		rowNumber := i + 2
		if isBlankRow(cells) {
			continue
		}

		if reason := s.importRow(ctx, actor, cells, columns, subjectByCode, subjectByID, studentCache, touched); reason != "" {
			result.Errors = append(result.Errors, dto.MarkImportRowError{Row: rowNumber, Reason: reason})
			continue
		}
		result.Imported++
	}

	for division := range touched {
		s.recompute(ctx, division)
		s.invalidateReport(ctx, division)
	}

	span.SetAttributes(
		attribute.Int("import.rows_imported", result.Imported),
		attribute.Int("import.rows_rejected", len(result.Errors)),
	)
	span.SetStatus(codes.Ok, "imported")

	s.logger.Info().
		Int("imported", result.Imported).
		Int("rejected", len(result.Errors)).
		Msg("mark import finished")

	return result, nil
}

// importRow validates and upserts one sheet row, returning a rejection
// reason or "" on success.
func (s *importService) importRow(ctx context.Context, actor Actor, cells []string, columns importColumns, subjectByCode map[string]models.Subject, subjectByID map[uint]models.Subject, studentCache map[string]*models.Student, touched map[string]struct{}) string {
	rollRaw := cellAt(cells, columns.roll)
	rollNo, err := strconv.Atoi(strings.TrimSpace(rollRaw))
	if err != nil || rollNo <= 0 {
		return "invalid roll_no"
	}

	division := normalizeDivision(cellAt(cells, columns.division))
	if division == "" {
		return "division is required"
	}

	subject, ok := resolveImportSubject(cellAt(cells, columns.subject), subjectByCode, subjectByID)
	if !ok {
		return "unknown subject"
	}

	student, reason := s.cachedStudent(ctx, studentCache, rollNo, division)
	if reason != "" {
		return reason
	}
	if checkEnrollment(subject.SubjectCode, *student) != nil {
		return "student not enrolled in this optional subject"
	}

	unit1, reason := parseImportScore(cells, columns.unit1, "unit1", 25)
	if reason != "" {
		return reason
	}
	unit2, reason := parseImportScore(cells, columns.unit2, "unit2", 25)
	if reason != "" {
		return reason
	}
	term, reason := parseImportScore(cells, columns.term, "term", 50)
	if reason != "" {
		return reason
	}
	annual, reason := parseImportScore(cells, columns.annual, "annual", 100)
	if reason != "" {
		return reason
	}
	grace, reason := parseImportScore(cells, columns.grace, "grace", s.graceMax)
	if reason != "" {
		return reason
	}

	existing, err := s.marks.GetByEntry(ctx, rollNo, division, subject.SubjectID)
	switch {
	case err == nil:
		existing.Unit1 = unit1
		existing.Unit2 = unit2
		existing.Term = term
		existing.Annual = annual
		if grace != nil {
			existing.Grace = *grace
		}
		existing.Tot, existing.SubAvg = componentTotals(existing)
		if err := s.marks.Update(ctx, &existing); err != nil {
			return "failed to store mark"
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		mark := models.Mark{
			RollNo:    rollNo,
			Division:  division,
			SubjectID: subject.SubjectID,
			Unit1:     unit1,
			Unit2:     unit2,
			Term:      term,
			Annual:    annual,
			EnteredBy: actor.TeacherID,
		}
		if grace != nil {
			mark.Grace = *grace
		}
		mark.Tot, mark.SubAvg = componentTotals(mark)
		if err := s.marks.Create(ctx, &mark); err != nil {
			return "failed to store mark"
		}
	default:
		return "failed to store mark"
	}

	touched[division] = struct{}{}
	return ""
}

func (s *importService) cachedStudent(ctx context.Context, cache map[string]*models.Student, rollNo int, division string) (*models.Student, string) {
	key := fmt.Sprintf("%s/%d", division, rollNo)
	if student, ok := cache[key]; ok {
		if student == nil {
			return nil, "student not found"
		}
		return student, ""
	}

	student, err := s.students.Get(ctx, rollNo, division)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cache[key] = nil
			return nil, "student not found"
		}
		return nil, "failed to look up student"
	}
	cache[key] = &student
	return &student, ""
}

// importColumns holds zero-based header positions; optional score columns
// may be -1.
type importColumns struct {
	roll     int
	division int
	subject  int
	unit1    int
	unit2    int
	term     int
	annual   int
	grace    int
}

// mapImportColumns locates known headers, tolerating the aliases legacy
// sheets used.
func mapImportColumns(header []string) (importColumns, error) {
	index := func(names ...string) int {
		for _, name := range names {
			for i, cell := range header {
				if strings.EqualFold(strings.TrimSpace(cell), name) {
					return i
				}
			}
		}
		return -1
	}

	columns := importColumns{
		roll:     index("roll_no", "roll", "rollno"),
		division: index("division", "div"),
		subject:  index("subject", "subject_code", "subject_id"),
		unit1:    index("unit1"),
		unit2:    index("unit2"),
		term:     index("term"),
		annual:   index("annual"),
		grace:    index("grace"),
	}
	if columns.roll < 0 || columns.division < 0 || columns.subject < 0 {
		return importColumns{}, ErrImportMissingColumns
	}

	return columns, nil
}

func resolveImportSubject(raw string, byCode map[string]models.Subject, byID map[uint]models.Subject) (models.Subject, bool) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return models.Subject{}, false
	}
	if subject, ok := byCode[value]; ok {
		return subject, true
	}
	if id, err := strconv.ParseUint(value, 10, 64); err == nil {
		if subject, ok := byID[uint(id)]; ok {
			return subject, true
		}
	}
	return models.Subject{}, false
}

// parseImportScore reads an optional numeric cell and checks its range.
func parseImportScore(cells []string, column int, name string, max float64) (*float64, string) {
	raw := strings.TrimSpace(cellAt(cells, column))
	if raw == "" {
		return nil, ""
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Sprintf("invalid %s", name)
	}
	if value < 0 || value > max {
		return nil, fmt.Sprintf("%s must be between 0 and %g", name, max)
	}
	return &value, ""
}

func cellAt(cells []string, index int) string {
	if index < 0 || index >= len(cells) {
		return ""
	}
	return cells[index]
}

func isBlankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func (s *importService) recompute(ctx context.Context, division string) {
	if s.results == nil {
		return
	}
	if err := s.results.Recompute(ctx, division); err != nil {
		s.logger.Warn().Err(err).Str("division", division).Msg("result recompute failed")
	}
}

func (s *importService) invalidateReport(ctx context.Context, division string) {
	if s.reports == nil {
		return
	}
	s.reports.InvalidateDivision(ctx, division)
}
