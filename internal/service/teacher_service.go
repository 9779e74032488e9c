package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/dto"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/repository"
)

// ErrUserIDTaken indicates the login userid is already registered.
var ErrUserIDTaken = errors.New("userid already exists")

// TeacherService manages teacher accounts.
type TeacherService interface {
	List(ctx context.Context) ([]dto.TeacherResponse, error)
	Get(ctx context.Context, id uint) (dto.TeacherResponse, error)
	Create(ctx context.Context, payload dto.TeacherCreateRequest) (dto.TeacherResponse, error)
	Update(ctx context.Context, id uint, payload dto.TeacherUpdateRequest) (dto.TeacherResponse, error)
	Delete(ctx context.Context, id uint) error
}

type teacherService struct {
	teachers    repository.TeacherRepository
	allocations repository.AllocationRepository
	results     ResultService
	reports     ReportInvalidator
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(teachers repository.TeacherRepository, allocations repository.AllocationRepository, results ResultService, reports ReportInvalidator, validator *validator.Validate, logger zerolog.Logger) TeacherService {
	return &teacherService{
		teachers:    teachers,
		allocations: allocations,
		results:     results,
		reports:     reports,
		validator:   validator,
		logger:      logger.With().Str("component", "teacher_service").Logger(),
	}
}

func (s *teacherService) List(ctx context.Context) ([]dto.TeacherResponse, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewTeacherResponses(teachers), nil
}

func (s *teacherService) Get(ctx context.Context, id uint) (dto.TeacherResponse, error) {
	teacher, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherResponse{}, ErrTeacherNotFound
		}
		return dto.TeacherResponse{}, err
	}

	return dto.NewTeacherResponse(teacher), nil
}

func (s *teacherService) Create(ctx context.Context, payload dto.TeacherCreateRequest) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherResponse{}, err
	}

	userID := strings.TrimSpace(payload.UserID)
	if _, err := s.teachers.GetByUserID(ctx, userID); err == nil {
		return dto.TeacherResponse{}, ErrUserIDTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.TeacherResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.TeacherResponse{}, err
	}

	role := strings.ToUpper(strings.TrimSpace(payload.Role))
	if role == "" {
		role = models.RoleTeacher
	}

	teacher := models.Teacher{
		Name:         strings.TrimSpace(payload.Name),
		UserID:       userID,
		Email:        strings.TrimSpace(payload.Email),
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := s.teachers.Create(ctx, &teacher); err != nil {
		return dto.TeacherResponse{}, err
	}

	s.logger.Info().Uint("teacher_id", teacher.TeacherID).Str("userid", teacher.UserID).Msg("teacher account created")

	return dto.NewTeacherResponse(teacher), nil
}

func (s *teacherService) Update(ctx context.Context, id uint, payload dto.TeacherUpdateRequest) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherResponse{}, err
	}

	teacher, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherResponse{}, ErrTeacherNotFound
		}
		return dto.TeacherResponse{}, err
	}

	if payload.Name != nil {
		teacher.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Email != nil {
		teacher.Email = strings.TrimSpace(*payload.Email)
	}
	if payload.Active != nil {
		teacher.Active = *payload.Active
	}
	if payload.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return dto.TeacherResponse{}, err
		}
		teacher.PasswordHash = string(hash)
	}

	if err := s.teachers.Update(ctx, &teacher); err != nil {
		return dto.TeacherResponse{}, err
	}

	return dto.NewTeacherResponse(teacher), nil
}

func (s *teacherService) Delete(ctx context.Context, id uint) error {
	// Collect the divisions the teacher was allocated to before the rows
	// go away, so their reports can be refreshed.
	allocations, err := s.allocations.List(ctx, repository.AllocationFilter{TeacherID: &id})
	if err != nil {
		return err
	}
	divisions := make(map[string]struct{}, len(allocations))
	for _, allocation := range allocations {
		divisions[allocation.Division] = struct{}{}
	}

	if err := s.teachers.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		return err
	}

	for division := range divisions {
		s.recompute(ctx, division)
		s.invalidateReport(ctx, division)
	}

	s.logger.Info().Uint("teacher_id", id).Msg("teacher account removed")

	return nil
}

func (s *teacherService) recompute(ctx context.Context, division string) {
	if s.results == nil {
		return
	}
	if err := s.results.Recompute(ctx, division); err != nil {
		s.logger.Warn().Err(err).Str("division", division).Msg("result recompute failed")
	}
}

func (s *teacherService) invalidateReport(ctx context.Context, division string) {
	if s.reports == nil {
		return
	}
	s.reports.InvalidateDivision(ctx, division)
}
