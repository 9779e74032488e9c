package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/dto"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/repository"
)

// ErrMarkNotFound indicates the referenced mark row does not exist.
var ErrMarkNotFound = errors.New("mark not found")

// ErrMarkExists indicates a mark already exists for the student and subject.
var ErrMarkExists = errors.New("marks already exist, use update instead")

// ErrNotAllocated indicates the teacher holds no allocation covering the request.
var ErrNotAllocated = errors.New("not authorized for this subject or division")

// ErrNotEnrolled indicates the student does not take the optional subject.
var ErrNotEnrolled = errors.New("student not enrolled in this optional subject")

// ErrMarkNotOwned indicates the caller neither entered the mark nor is an admin.
var ErrMarkNotOwned = errors.New("mark belongs to another teacher")

// ErrGraceOutOfRange indicates a grace value above the configured ceiling.
var ErrGraceOutOfRange = errors.New("grace out of range")

// MarkService handles mark entry and the teacher-facing roster views.
type MarkService interface {
	Enter(ctx context.Context, actor Actor, payload dto.MarkEntryRequest) (dto.MarkResponse, error)
	Update(ctx context.Context, actor Actor, markID uint, payload dto.MarkUpdateRequest) (dto.MarkResponse, error)
	Delete(ctx context.Context, actor Actor, markID uint) error
	ListForSubject(ctx context.Context, actor Actor, subjectID uint, division string) ([]dto.SubjectMarkRow, error)
	StudentsForSubject(ctx context.Context, actor Actor, subjectCode, division string) ([]dto.StudentLite, error)
	StudentsByDivision(ctx context.Context, actor Actor, division string) ([]dto.StudentLite, error)
	StudentMarks(ctx context.Context, actor Actor, rollNo int, division string) (dto.StudentMarksResponse, error)
}

type markService struct {
	marks       repository.MarkRepository
	students    repository.StudentRepository
	subjects    repository.SubjectRepository
	allocations repository.AllocationRepository
	results     ResultService
	reports     ReportInvalidator
	validator   *validator.Validate
	logger      zerolog.Logger
	graceMax    float64
}

// NewMarkService constructs the mark service. graceMax caps grace updates.
func NewMarkService(marks repository.MarkRepository, students repository.StudentRepository, subjects repository.SubjectRepository, allocations repository.AllocationRepository, results ResultService, reports ReportInvalidator, validator *validator.Validate, logger zerolog.Logger, graceMax float64) MarkService {
	return &markService{
		marks:       marks,
		students:    students,
		subjects:    subjects,
		allocations: allocations,
		results:     results,
		reports:     reports,
		validator:   validator,
		logger:      logger.With().Str("component", "mark_service").Logger(),
		graceMax:    graceMax,
	}
}

func (s *markService) Enter(ctx context.Context, actor Actor, payload dto.MarkEntryRequest) (dto.MarkResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MarkResponse{}, err
	}

	division := normalizeDivision(payload.Division)

	subject, err := s.subjects.GetByID(ctx, payload.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MarkResponse{}, ErrSubjectNotFound
		}
		return dto.MarkResponse{}, err
	}

	// Mark entry always requires the caller's own allocation, admins included.
	allocated, err := s.allocations.Exists(ctx, actor.TeacherID, subject.SubjectID, division)
	if err != nil {
		return dto.MarkResponse{}, err
	}
	if !allocated {
		return dto.MarkResponse{}, ErrNotAllocated
	}

	student, err := s.students.Get(ctx, payload.RollNo, division)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MarkResponse{}, ErrStudentNotFound
		}
		return dto.MarkResponse{}, err
	}
	if err := checkEnrollment(subject.SubjectCode, student); err != nil {
		return dto.MarkResponse{}, err
	}

	if _, err := s.marks.GetByEntry(ctx, payload.RollNo, division, subject.SubjectID); err == nil {
		return dto.MarkResponse{}, ErrMarkExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.MarkResponse{}, err
	}

	if err := s.checkGrace(payload.Grace); err != nil {
		return dto.MarkResponse{}, err
	}

	mark := models.Mark{
		RollNo:    payload.RollNo,
		Division:  division,
		SubjectID: subject.SubjectID,
		Unit1:     payload.Unit1,
		Unit2:     payload.Unit2,
		Term:      payload.Term,
		Annual:    payload.Annual,
		EnteredBy: actor.TeacherID,
	}
	// Grace always starts at zero. A grace sent with the first entry is
	// range-checked but not stored; it has to come in through an update.
	mark.Grace = 0
	mark.Tot, mark.SubAvg = componentTotals(mark)

	if err := s.marks.Create(ctx, &mark); err != nil {
		return dto.MarkResponse{}, err
	}

	s.recompute(ctx, division)
	s.invalidateReport(ctx, division)

	s.logger.Info().
		Int("roll_no", mark.RollNo).
		Str("division", division).
		Str("subject_code", subject.SubjectCode).
		Msg("marks entered")

	return dto.NewMarkResponse(mark), nil
}

func (s *markService) Update(ctx context.Context, actor Actor, markID uint, payload dto.MarkUpdateRequest) (dto.MarkResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MarkResponse{}, err
	}

	mark, err := s.marks.GetByID(ctx, markID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MarkResponse{}, ErrMarkNotFound
		}
		return dto.MarkResponse{}, err
	}

	allocated, err := s.allocations.Exists(ctx, actor.TeacherID, mark.SubjectID, mark.Division)
	if err != nil {
		return dto.MarkResponse{}, err
	}
	if !allocated {
		return dto.MarkResponse{}, ErrNotAllocated
	}

	if payload.Unit1 != nil {
		mark.Unit1 = payload.Unit1
	}
	if payload.Unit2 != nil {
		mark.Unit2 = payload.Unit2
	}
	if payload.Term != nil {
		mark.Term = payload.Term
	}
	if payload.Annual != nil {
		mark.Annual = payload.Annual
	}
	if payload.Grace != nil {
		if err := s.checkGrace(payload.Grace); err != nil {
			return dto.MarkResponse{}, err
		}
		mark.Grace = *payload.Grace
	}
	mark.Tot, mark.SubAvg = componentTotals(mark)

	if err := s.marks.Update(ctx, &mark); err != nil {
		return dto.MarkResponse{}, err
	}

	s.recompute(ctx, mark.Division)
	s.invalidateReport(ctx, mark.Division)

	return dto.NewMarkResponse(mark), nil
}

func (s *markService) Delete(ctx context.Context, actor Actor, markID uint) error {
	mark, err := s.marks.GetByID(ctx, markID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMarkNotFound
		}
		return err
	}

	if !actor.IsAdmin() && mark.EnteredBy != actor.TeacherID {
		return ErrMarkNotOwned
	}

	if err := s.marks.Delete(ctx, markID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMarkNotFound
		}
		return err
	}

	s.recompute(ctx, mark.Division)
	s.invalidateReport(ctx, mark.Division)

	s.logger.Info().Uint("mark_id", markID).Str("division", mark.Division).Msg("marks deleted")

	return nil
}

func (s *markService) ListForSubject(ctx context.Context, actor Actor, subjectID uint, division string) ([]dto.SubjectMarkRow, error) {
	division = normalizeDivision(division)

	if !actor.IsAdmin() {
		allocated, err := s.allocations.Exists(ctx, actor.TeacherID, subjectID, division)
		if err != nil {
			return nil, err
		}
		if !allocated {
			return nil, ErrNotAllocated
		}
	}

	students, err := s.students.List(ctx, repository.StudentFilter{Division: division})
	if err != nil {
		return nil, err
	}
	marks, err := s.marks.List(ctx, repository.MarkFilter{Division: division, SubjectID: &subjectID})
	if err != nil {
		return nil, err
	}
	byRoll := make(map[int]models.Mark, len(marks))
	for _, mark := range marks {
		byRoll[mark.RollNo] = mark
	}

	// One row per student, marked or not, so tables render the full roster.
	rows := make([]dto.SubjectMarkRow, 0, len(students))
	for _, student := range students {
		row := dto.SubjectMarkRow{
			RollNo:   student.RollNo,
			Name:     student.Name,
			Division: student.Division,
		}
		if mark, ok := byRoll[student.RollNo]; ok {
			row.Mark = dto.NewMarkDetail(&mark)
		} else {
			row.Mark = dto.NewMarkDetail(nil)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (s *markService) StudentsForSubject(ctx context.Context, actor Actor, subjectCode, division string) ([]dto.StudentLite, error) {
	division = normalizeDivision(division)

	subject, err := s.subjects.GetByCode(ctx, subjectCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}

	allocated, err := s.allocations.Exists(ctx, actor.TeacherID, subject.SubjectID, division)
	if err != nil {
		return nil, err
	}
	if !allocated {
		return nil, ErrNotAllocated
	}

	students, err := s.students.List(ctx, repository.StudentFilter{Division: division})
	if err != nil {
		return nil, err
	}

	lites := make([]dto.StudentLite, 0, len(students))
	for _, student := range students {
		if checkEnrollment(subject.SubjectCode, student) != nil {
			continue
		}
		lites = append(lites, dto.NewStudentLite(student))
	}

	return lites, nil
}

func (s *markService) StudentsByDivision(ctx context.Context, actor Actor, division string) ([]dto.StudentLite, error) {
	division = normalizeDivision(division)
	if err := s.checkDivisionAccess(ctx, actor, division); err != nil {
		return nil, err
	}

	students, err := s.students.List(ctx, repository.StudentFilter{Division: division})
	if err != nil {
		return nil, err
	}

	lites := make([]dto.StudentLite, 0, len(students))
	for _, student := range students {
		lites = append(lites, dto.NewStudentLite(student))
	}

	return lites, nil
}

func (s *markService) StudentMarks(ctx context.Context, actor Actor, rollNo int, division string) (dto.StudentMarksResponse, error) {
	division = normalizeDivision(division)
	if err := s.checkDivisionAccess(ctx, actor, division); err != nil {
		return dto.StudentMarksResponse{}, err
	}

	student, err := s.students.Get(ctx, rollNo, division)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentMarksResponse{}, ErrStudentNotFound
		}
		return dto.StudentMarksResponse{}, err
	}

	active := true
	subjects, err := s.subjects.List(ctx, repository.SubjectFilter{Active: &active})
	if err != nil {
		return dto.StudentMarksResponse{}, err
	}

	// The student's panel shows every core subject plus their electives,
	// alphabetical by code.
	chosen := make(map[string]struct{})
	for _, code := range student.OptionalCodes() {
		chosen[code] = struct{}{}
	}
	taken := make([]models.Subject, 0, len(subjects))
	for _, subject := range subjects {
		if subject.SubjectType == models.SubjectTypeCore {
			taken = append(taken, subject)
			continue
		}
		if _, ok := chosen[subject.SubjectCode]; ok {
			taken = append(taken, subject)
		}
	}
	sort.Slice(taken, func(i, j int) bool { return taken[i].SubjectCode < taken[j].SubjectCode })

	marks, err := s.marks.List(ctx, repository.MarkFilter{Division: division, RollNo: &rollNo})
	if err != nil {
		return dto.StudentMarksResponse{}, err
	}
	bySubject := make(map[uint]models.Mark, len(marks))
	for _, mark := range marks {
		bySubject[mark.SubjectID] = mark
	}

	rows := make([]dto.StudentSubjectMarks, 0, len(taken))
	for _, subject := range taken {
		row := dto.StudentSubjectMarks{
			SubjectID:   subject.SubjectID,
			SubjectCode: subject.SubjectCode,
			SubjectName: subject.SubjectName,
		}
		if mark, ok := bySubject[subject.SubjectID]; ok {
			row.Mark = dto.NewMarkDetail(&mark)
		} else {
			row.Mark = dto.NewMarkDetail(nil)
		}
		rows = append(rows, row)
	}

	return dto.StudentMarksResponse{
		RollNo:   student.RollNo,
		Name:     student.Name,
		Division: student.Division,
		Subjects: rows,
	}, nil
}

// checkDivisionAccess admits admins and teachers holding any allocation in
// the division.
func (s *markService) checkDivisionAccess(ctx context.Context, actor Actor, division string) error {
	if actor.IsAdmin() {
		return nil
	}
	allocated, err := s.allocations.ExistsForDivision(ctx, actor.TeacherID, division)
	if err != nil {
		return err
	}
	if !allocated {
		return ErrNotAllocated
	}
	return nil
}

func (s *markService) checkGrace(grace *float64) error {
	if grace == nil {
		return nil
	}
	if *grace < 0 || *grace > s.graceMax {
		return fmt.Errorf("%w: must be between 0 and %g", ErrGraceOutOfRange, s.graceMax)
	}
	return nil
}

// checkEnrollment rejects optional subjects the student has not chosen.
// Core and grade-only subjects always pass.
func checkEnrollment(subjectCode string, student models.Student) error {
	switch subjectCode {
	case models.CodeHindi, models.CodeIT:
		if student.OptionalSubject != subjectCode {
			return ErrNotEnrolled
		}
	case models.CodeMaths, models.CodeSP:
		if student.OptionalSubject2 != subjectCode {
			return ErrNotEnrolled
		}
	}
	return nil
}

// componentTotals derives the stored aggregate columns from the raw
// components, treating missing ones as zero. sub_avg normalizes the
// 200-point total back to 100.
func componentTotals(mark models.Mark) (tot, subAvg float64) {
	tot = sumComponents(mark)
	return tot, round2(tot / 2)
}

// sumComponents adds the raw component scores, missing ones as zero.
func sumComponents(mark models.Mark) float64 {
	var total float64
	for _, component := range []*float64{mark.Unit1, mark.Unit2, mark.Term, mark.Annual} {
		if component != nil {
			total += *component
		}
	}
	return total
}

func (s *markService) recompute(ctx context.Context, division string) {
	if s.results == nil {
		return
	}
	if err := s.results.Recompute(ctx, division); err != nil {
		s.logger.Warn().Err(err).Str("division", division).Msg("result recompute failed")
	}
}

func (s *markService) invalidateReport(ctx context.Context, division string) {
	if s.reports == nil {
		return
	}
	s.reports.InvalidateDivision(ctx, division)
}
