package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/dto"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/repository"
)

// ErrStudentNotFound indicates no student matches the roll number and division.
var ErrStudentNotFound = errors.New("student not found")

// ErrStudentExists indicates the (roll_no, division) pair is already enrolled.
var ErrStudentExists = errors.New("student already exists")

// StudentService manages division rosters.
type StudentService interface {
	List(ctx context.Context, filter dto.StudentFilterRequest) ([]dto.StudentResponse, error)
	Get(ctx context.Context, division string, rollNo int) (dto.StudentResponse, error)
	Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
	Update(ctx context.Context, division string, rollNo int, payload dto.StudentUpdateRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, division string, rollNo int) error
	Divisions(ctx context.Context) ([]string, error)
}

type studentService struct {
	students  repository.StudentRepository
	results   ResultService
	reports   ReportInvalidator
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(students repository.StudentRepository, results ResultService, reports ReportInvalidator, validator *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  students,
		results:   results,
		reports:   reports,
		validator: validator,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context, filter dto.StudentFilterRequest) ([]dto.StudentResponse, error) {
	students, err := s.students.List(ctx, repository.StudentFilter{
		Division: normalizeDivision(filter.Division),
		Search:   strings.TrimSpace(filter.Search),
	})
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponses(students), nil
}

func (s *studentService) Get(ctx context.Context, division string, rollNo int) (dto.StudentResponse, error) {
	student, err := s.students.Get(ctx, rollNo, normalizeDivision(division))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	division := normalizeDivision(payload.Division)
	if _, err := s.students.Get(ctx, payload.RollNo, division); err == nil {
		return dto.StudentResponse{}, ErrStudentExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		RollNo:           payload.RollNo,
		Division:         division,
		Name:             strings.TrimSpace(payload.Name),
		OptionalSubject:  payload.OptionalSubject,
		OptionalSubject2: payload.OptionalSubject2,
	}
	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.invalidateReport(ctx, division)
	s.logger.Info().Int("roll_no", student.RollNo).Str("division", division).Msg("student enrolled")

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, division string, rollNo int, payload dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	division = normalizeDivision(division)
	student, err := s.students.Get(ctx, rollNo, division)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	optionalChanged := false
	if payload.Name != nil {
		student.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.OptionalSubject != nil && *payload.OptionalSubject != student.OptionalSubject {
		student.OptionalSubject = *payload.OptionalSubject
		optionalChanged = true
	}
	if payload.OptionalSubject2 != nil && *payload.OptionalSubject2 != student.OptionalSubject2 {
		student.OptionalSubject2 = *payload.OptionalSubject2
		optionalChanged = true
	}

	if err := s.students.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	// Elective changes move subjects in and out of the student's required
	// set, so the division result is stale until recomputed.
	if optionalChanged {
		s.recompute(ctx, division)
	}
	s.invalidateReport(ctx, division)

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Delete(ctx context.Context, division string, rollNo int) error {
	division = normalizeDivision(division)
	if err := s.students.Delete(ctx, rollNo, division); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	s.invalidateReport(ctx, division)
	s.logger.Info().Int("roll_no", rollNo).Str("division", division).Msg("student removed")

	return nil
}

func (s *studentService) Divisions(ctx context.Context) ([]string, error) {
	return s.students.Divisions(ctx)
}

func (s *studentService) recompute(ctx context.Context, division string) {
	if s.results == nil {
		return
	}
	if err := s.results.Recompute(ctx, division); err != nil {
		s.logger.Warn().Err(err).Str("division", division).Msg("result recompute failed")
	}
}

func (s *studentService) invalidateReport(ctx context.Context, division string) {
	if s.reports == nil {
		return
	}
	s.reports.InvalidateDivision(ctx, division)
}
