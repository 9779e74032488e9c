package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/dto"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/repository"
)

// ReportInvalidator drops cached report rows for a division after a
// mutation. Services holding one may leave it nil.
type ReportInvalidator interface {
	InvalidateDivision(ctx context.Context, division string)
}

// ReportService renders result tables for admins and teachers.
type ReportService interface {
	DivisionReport(ctx context.Context, division string) ([]dto.ResultRow, error)
	StudentReport(ctx context.Context, rollNo int, division string) ([]dto.ResultRow, error)
	CompleteTable(ctx context.Context, actor Actor, division string) ([]dto.ResultRow, error)
	Generate(ctx context.Context, division string) error
	InvalidateDivision(ctx context.Context, division string)
}

type reportService struct {
	students    repository.StudentRepository
	subjects    repository.SubjectRepository
	marks       repository.MarkRepository
	results     repository.ResultRepository
	allocations repository.AllocationRepository
	engine      ResultService
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewReportService constructs the report service. cache may be nil, which
// disables caching entirely.
func NewReportService(students repository.StudentRepository, subjects repository.SubjectRepository, marks repository.MarkRepository, results repository.ResultRepository, allocations repository.AllocationRepository, engine ResultService, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) ReportService {
	return &reportService{
		students:    students,
		subjects:    subjects,
		marks:       marks,
		results:     results,
		allocations: allocations,
		engine:      engine,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger.With().Str("component", "report_service").Logger(),
	}
}

// Generate recomputes a division on demand. Unlike the recompute hooks on
// mutations, a failure here is surfaced to the caller.
func (s *reportService) Generate(ctx context.Context, division string) error {
	division = normalizeDivision(division)
	if err := s.engine.Recompute(ctx, division); err != nil {
		return err
	}

	s.InvalidateDivision(ctx, division)
	return nil
}

func (s *reportService) DivisionReport(ctx context.Context, division string) ([]dto.ResultRow, error) {
	return s.divisionRows(ctx, normalizeDivision(division))
}

func (s *reportService) CompleteTable(ctx context.Context, actor Actor, division string) ([]dto.ResultRow, error) {
	division = normalizeDivision(division)

	if !actor.IsAdmin() {
		allocated, err := s.allocations.ExistsForDivision(ctx, actor.TeacherID, division)
		if err != nil {
			return nil, err
		}
		if !allocated {
			return nil, ErrNotAllocated
		}
	}

	return s.divisionRows(ctx, division)
}

func (s *reportService) StudentReport(ctx context.Context, rollNo int, division string) ([]dto.ResultRow, error) {
	filter := repository.StudentFilter{RollNo: &rollNo}
	if division != "" {
		filter.Division = normalizeDivision(division)
	}
	students, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, ErrStudentNotFound
	}

	codeByID, err := s.subjectCodes(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.ResultRow, 0, len(students))
	for i, student := range students {
		s.recompute(ctx, student.Division)

		result, err := s.resultFor(ctx, student.RollNo, student.Division)
		if err != nil {
			return nil, err
		}
		marks, err := s.marks.List(ctx, repository.MarkFilter{Division: student.Division, RollNo: &student.RollNo})
		if err != nil {
			return nil, err
		}

		rows = append(rows, buildResultRow(i+1, student, result, marksByCode(marks, codeByID)))
	}

	return rows, nil
}

func (s *reportService) InvalidateDivision(ctx context.Context, division string) {
	if s.cache == nil {
		return
	}
	key := reportCacheKey(normalizeDivision(division))
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		s.logger.Warn().Err(err).Str("division", division).Msg("failed to drop report cache")
	}
}

func (s *reportService) divisionRows(ctx context.Context, division string) ([]dto.ResultRow, error) {
	s.recompute(ctx, division)

	cacheKey := reportCacheKey(division)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var rows []dto.ResultRow
			if unmarshalErr := json.Unmarshal([]byte(cached), &rows); unmarshalErr == nil {
				s.logger.Debug().Str("division", division).Msg("report cache hit")
				return rows, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read report cache")
		}
	}

	rows, err := s.buildDivisionRows(ctx, division)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		payload, err := json.Marshal(rows)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store report cache")
			}
		}
	}

	return rows, nil
}

func (s *reportService) buildDivisionRows(ctx context.Context, division string) ([]dto.ResultRow, error) {
	students, err := s.students.List(ctx, repository.StudentFilter{Division: division})
	if err != nil {
		return nil, err
	}

	codeByID, err := s.subjectCodes(ctx)
	if err != nil {
		return nil, err
	}

	marks, err := s.marks.List(ctx, repository.MarkFilter{Division: division})
	if err != nil {
		return nil, err
	}
	markRows := make(map[int][]models.Mark)
	for _, mark := range marks {
		markRows[mark.RollNo] = append(markRows[mark.RollNo], mark)
	}

	results, err := s.results.ListByDivision(ctx, division)
	if err != nil {
		return nil, err
	}
	resultByRoll := make(map[int]models.Result, len(results))
	for _, result := range results {
		resultByRoll[result.RollNo] = result
	}

	rows := make([]dto.ResultRow, 0, len(students))
	for i, student := range students {
		var result *models.Result
		if r, ok := resultByRoll[student.RollNo]; ok {
			result = &r
		}
		rows = append(rows, buildResultRow(i+1, student, result, marksByCode(markRows[student.RollNo], codeByID)))
	}

	return rows, nil
}

func (s *reportService) subjectCodes(ctx context.Context) (map[uint]string, error) {
	subjects, err := s.subjects.List(ctx, repository.SubjectFilter{})
	if err != nil {
		return nil, err
	}
	codeByID := make(map[uint]string, len(subjects))
	for _, subject := range subjects {
		codeByID[subject.SubjectID] = subject.SubjectCode
	}
	return codeByID, nil
}

func (s *reportService) resultFor(ctx context.Context, rollNo int, division string) (*models.Result, error) {
	result, err := s.results.Get(ctx, rollNo, division)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (s *reportService) recompute(ctx context.Context, division string) {
	if err := s.engine.Recompute(ctx, division); err != nil {
		s.logger.Warn().Err(err).Str("division", division).Msg("result recompute failed")
	}
}

func reportCacheKey(division string) string {
	return fmt.Sprintf("report:division:%s", division)
}

func marksByCode(marks []models.Mark, codeByID map[uint]string) map[string]models.Mark {
	byCode := make(map[string]models.Mark, len(marks))
	for _, mark := range marks {
		if code, ok := codeByID[mark.SubjectID]; ok {
			byCode[code] = mark
		}
	}
	return byCode
}

// scoredReportCodes is the fixed display order for numerically scored
// subjects; electives appear only for students who chose them.
var scoredReportCodes = []string{models.CodeEng, models.CodeEco, models.CodeBk, models.CodeOc}

// buildResultRow assembles one student's report line. Engine output wins
// when a Result row exists; otherwise raw marks keep partially entered
// data visible. final_total only appears once a percentage is computed.
func buildResultRow(seq int, student models.Student, result *models.Result, markByCode map[string]models.Mark) dto.ResultRow {
	row := dto.ResultRow{
		Seq:      seq,
		RollNo:   student.RollNo,
		Name:     student.Name,
		Division: student.Division,
	}

	var totalAvg, totalGrace float64

	appendScored := func(code string) {
		var avg *float64
		grace := 0.0

		if result != nil {
			resAvg, resGrace := result.SubjectScore(code)
			avg = resAvg
			if resGrace != nil {
				grace = *resGrace
			}
		} else if mark, ok := markByCode[code]; ok {
			avg = mark.Annual
			grace = mark.Grace
		}

		entry := dto.ResultSubjectEntry{Code: code, Grace: &grace}
		if avg != nil {
			value := *avg
			final := value + grace
			entry.Avg = &value
			entry.Final = &final
			totalAvg += value
			totalGrace += grace
		}
		if mark, ok := markByCode[code]; ok {
			detail := dto.NewMarkDetail(&mark)
			entry.Mark = &detail
		}
		row.Subjects = append(row.Subjects, entry)
	}

	for _, code := range scoredReportCodes {
		appendScored(code)
	}
	for _, code := range student.OptionalCodes() {
		appendScored(code)
	}

	appendGraded := func(code, resultGrade string) {
		if resultGrade != "" {
			row.Subjects = append(row.Subjects, dto.ResultSubjectEntry{Code: code, Grade: resultGrade})
			return
		}
		mark, ok := markByCode[code]
		if !ok || !mark.HasAnnual() {
			return
		}
		detail := dto.NewMarkDetail(&mark)
		row.Subjects = append(row.Subjects, dto.ResultSubjectEntry{
			Code:  code,
			Grade: LetterGrade(*mark.Annual),
			Mark:  &detail,
		})
	}

	var evsGrade, peGrade string
	if result != nil {
		evsGrade = result.EvsGrade
		peGrade = result.PeGrade
	}
	appendGraded(models.CodeEvs, evsGrade)
	appendGraded(models.CodePe, peGrade)

	row.TotalAvg = round2(totalAvg)
	row.TotalGrace = round2(totalGrace)
	if result != nil && result.Percentage != nil {
		finalTotal := round2(totalAvg + totalGrace)
		row.FinalTotal = &finalTotal
		percentage := *result.Percentage
		row.Percentage = &percentage
	}

	return row
}
