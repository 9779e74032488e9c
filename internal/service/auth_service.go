package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/dto"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/repository"
)

// ErrInvalidCredentials is returned for unknown accounts, wrong passwords
// and deactivated teachers alike so the response never leaks which it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrTeacherNotFound indicates the referenced teacher does not exist or is inactive.
var ErrTeacherNotFound = errors.New("teacher not found")

// Actor identifies the authenticated caller inside service-level checks.
type Actor struct {
	TeacherID uint
	Role      string
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return strings.EqualFold(a.Role, models.RoleAdmin)
}

// AuthClaims is the JWT payload issued at login. The subject holds the
// teacher id as a decimal string.
type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService issues access tokens for teachers and admins.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	Impersonate(ctx context.Context, teacherID uint) (dto.ImpersonationResponse, error)
}

type authService struct {
	teachers       repository.TeacherRepository
	validator      *validator.Validate
	logger         zerolog.Logger
	secret         []byte
	tokenTTL       time.Duration
	impersonateTTL time.Duration
	now            func() time.Time
}

// NewAuthService constructs the auth service.
func NewAuthService(teachers repository.TeacherRepository, validator *validator.Validate, logger zerolog.Logger, secret string, tokenTTL, impersonateTTL time.Duration) AuthService {
	return &authService{
		teachers:       teachers,
		validator:      validator,
		logger:         logger.With().Str("component", "auth_service").Logger(),
		secret:         []byte(secret),
		tokenTTL:       tokenTTL,
		impersonateTTL: impersonateTTL,
		now:            time.Now,
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	teacher, err := s.teachers.GetByUserID(ctx, strings.TrimSpace(payload.UserID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}
	if !teacher.Active {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.signToken(teacher.TeacherID, teacher.Role, s.tokenTTL)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().
		Uint("teacher_id", teacher.TeacherID).
		Str("role", teacher.Role).
		Msg("login succeeded")

	return dto.LoginResponse{
		Token:     token,
		Role:      teacher.Role,
		TeacherID: teacher.TeacherID,
		Name:      teacher.Name,
	}, nil
}

func (s *authService) Impersonate(ctx context.Context, teacherID uint) (dto.ImpersonationResponse, error) {
	teacher, err := s.teachers.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ImpersonationResponse{}, ErrTeacherNotFound
		}
		return dto.ImpersonationResponse{}, err
	}
	if !teacher.Active {
		return dto.ImpersonationResponse{}, ErrTeacherNotFound
	}

	// Impersonation tokens always carry the teacher role, even when the
	// target account is an admin.
	token, err := s.signToken(teacher.TeacherID, models.RoleTeacher, s.impersonateTTL)
	if err != nil {
		return dto.ImpersonationResponse{}, err
	}

	s.logger.Info().Uint("teacher_id", teacher.TeacherID).Msg("impersonation token issued")

	return dto.ImpersonationResponse{
		Token:   token,
		Teacher: dto.NewTeacherResponse(teacher),
	}, nil
}

func (s *authService) signToken(teacherID uint, role string, ttl time.Duration) (string, error) {
	issued := s.now()
	claims := AuthClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(teacherID), 10),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
