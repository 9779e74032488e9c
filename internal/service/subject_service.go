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

// ErrSubjectNotFound indicates the referenced subject does not exist.
var ErrSubjectNotFound = errors.New("subject not found")

// ErrSubjectCodeTaken indicates the subject code is already registered.
var ErrSubjectCodeTaken = errors.New("subject code already exists")

// SubjectService manages the subject catalogue.
type SubjectService interface {
	List(ctx context.Context, active *bool) ([]dto.SubjectResponse, error)
	Create(ctx context.Context, payload dto.SubjectCreateRequest) (dto.SubjectResponse, error)
	Update(ctx context.Context, id uint, payload dto.SubjectUpdateRequest) (dto.SubjectResponse, error)
}

type subjectService struct {
	subjects  repository.SubjectRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSubjectService constructs the subject service.
func NewSubjectService(subjects repository.SubjectRepository, validator *validator.Validate, logger zerolog.Logger) SubjectService {
	return &subjectService{
		subjects:  subjects,
		validator: validator,
		logger:    logger.With().Str("component", "subject_service").Logger(),
	}
}

func (s *subjectService) List(ctx context.Context, active *bool) ([]dto.SubjectResponse, error) {
	subjects, err := s.subjects.List(ctx, repository.SubjectFilter{Active: active})
	if err != nil {
		return nil, err
	}

	return dto.NewSubjectResponses(subjects), nil
}

func (s *subjectService) Create(ctx context.Context, payload dto.SubjectCreateRequest) (dto.SubjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubjectResponse{}, err
	}

	code := strings.ToUpper(strings.TrimSpace(payload.SubjectCode))
	if _, err := s.subjects.GetByCode(ctx, code); err == nil {
		return dto.SubjectResponse{}, ErrSubjectCodeTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubjectResponse{}, err
	}

	subjectType := strings.ToUpper(strings.TrimSpace(payload.SubjectType))
	if subjectType == "" {
		subjectType = models.SubjectTypeCore
	}

	subject := models.Subject{
		SubjectCode: code,
		SubjectName: strings.TrimSpace(payload.SubjectName),
		SubjectType: subjectType,
		Active:      true,
	}
	if err := s.subjects.Create(ctx, &subject); err != nil {
		return dto.SubjectResponse{}, err
	}

	s.logger.Info().Str("subject_code", subject.SubjectCode).Msg("subject registered")

	return dto.NewSubjectResponse(subject), nil
}

func (s *subjectService) Update(ctx context.Context, id uint, payload dto.SubjectUpdateRequest) (dto.SubjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubjectResponse{}, err
	}

	subject, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubjectResponse{}, ErrSubjectNotFound
		}
		return dto.SubjectResponse{}, err
	}

	if payload.SubjectName != nil {
		subject.SubjectName = strings.TrimSpace(*payload.SubjectName)
	}
	if payload.Active != nil {
		subject.Active = *payload.Active
	}

	if err := s.subjects.Update(ctx, &subject); err != nil {
		return dto.SubjectResponse{}, err
	}

	return dto.NewSubjectResponse(subject), nil
}
