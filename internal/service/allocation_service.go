package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/dto"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/repository"
)

// ErrAllocationNotFound indicates the referenced allocation does not exist.
var ErrAllocationNotFound = errors.New("allocation not found")

// ErrAllocationExists indicates the teacher already holds this subject and division.
var ErrAllocationExists = errors.New("allocation already exists")

// AllocationService manages teacher-subject-division assignments.
type AllocationService interface {
	List(ctx context.Context) ([]dto.AllocationResponse, error)
	Create(ctx context.Context, payload dto.AllocationCreateRequest) (dto.AllocationResponse, error)
	Delete(ctx context.Context, id uint) error
}

type allocationService struct {
	allocations repository.AllocationRepository
	teachers    repository.TeacherRepository
	subjects    repository.SubjectRepository
	results     ResultService
	reports     ReportInvalidator
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewAllocationService constructs the allocation service.
func NewAllocationService(allocations repository.AllocationRepository, teachers repository.TeacherRepository, subjects repository.SubjectRepository, results ResultService, reports ReportInvalidator, validator *validator.Validate, logger zerolog.Logger) AllocationService {
	return &allocationService{
		allocations: allocations,
		teachers:    teachers,
		subjects:    subjects,
		results:     results,
		reports:     reports,
		validator:   validator,
		logger:      logger.With().Str("component", "allocation_service").Logger(),
	}
}

func (s *allocationService) List(ctx context.Context) ([]dto.AllocationResponse, error) {
	allocations, err := s.allocations.List(ctx, repository.AllocationFilter{})
	if err != nil {
		return nil, err
	}

	return dto.NewAllocationResponses(allocations), nil
}

func (s *allocationService) Create(ctx context.Context, payload dto.AllocationCreateRequest) (dto.AllocationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AllocationResponse{}, err
	}

	division := normalizeDivision(payload.Division)

	teacher, err := s.teachers.GetByID(ctx, payload.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AllocationResponse{}, ErrTeacherNotFound
		}
		return dto.AllocationResponse{}, err
	}
	subject, err := s.subjects.GetByID(ctx, payload.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AllocationResponse{}, ErrSubjectNotFound
		}
		return dto.AllocationResponse{}, err
	}

	exists, err := s.allocations.Exists(ctx, payload.TeacherID, payload.SubjectID, division)
	if err != nil {
		return dto.AllocationResponse{}, err
	}
	if exists {
		return dto.AllocationResponse{}, ErrAllocationExists
	}

	allocation := models.TeacherSubjectAllocation{
		TeacherID: payload.TeacherID,
		SubjectID: payload.SubjectID,
		Division:  division,
	}
	if err := s.allocations.Create(ctx, &allocation); err != nil {
		return dto.AllocationResponse{}, err
	}
	allocation.Teacher = teacher
	allocation.Subject = subject

	// A new allocation can widen the division's required subject set.
	s.recompute(ctx, division)
	s.invalidateReport(ctx, division)

	s.logger.Info().
		Uint("teacher_id", payload.TeacherID).
		Uint("subject_id", payload.SubjectID).
		Str("division", division).
		Msg("teacher allocated")

	return dto.NewAllocationResponse(allocation), nil
}

func (s *allocationService) Delete(ctx context.Context, id uint) error {
	allocation, err := s.allocations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAllocationNotFound
		}
		return err
	}

	if err := s.allocations.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAllocationNotFound
		}
		return err
	}

	s.recompute(ctx, allocation.Division)
	s.invalidateReport(ctx, allocation.Division)

	s.logger.Info().Uint("allocation_id", id).Str("division", allocation.Division).Msg("allocation removed")

	return nil
}

func (s *allocationService) recompute(ctx context.Context, division string) {
	if s.results == nil {
		return
	}
	if err := s.results.Recompute(ctx, division); err != nil {
		s.logger.Warn().Err(err).Str("division", division).Msg("result recompute failed")
	}
}

func (s *allocationService) invalidateReport(ctx context.Context, division string) {
	if s.reports == nil {
		return
	}
	s.reports.InvalidateDivision(ctx, division)
}
