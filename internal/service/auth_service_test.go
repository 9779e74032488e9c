package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/dto"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
)

const authTestSecret = "auth-test-secret"

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthFixture(t *testing.T) (*memTeachers, AuthService) {
	t.Helper()
	teachers := &memTeachers{}
	teachers.Create(context.Background(), &models.Teacher{
		Name: "Sunita Desai", UserID: "sunita", Email: "sunita@example.com",
		PasswordHash: hashPassword(t, "chalk-and-talk"),
		Role:         models.RoleTeacher, Active: true,
	})
	teachers.Create(context.Background(), &models.Teacher{
		Name: "Former Staff", UserID: "gone",
		PasswordHash: hashPassword(t, "chalk-and-talk"),
		Role:         models.RoleTeacher, Active: false,
	})
	teachers.Create(context.Background(), &models.Teacher{
		Name: "Principal", UserID: "principal",
		PasswordHash: hashPassword(t, "open-sesame"),
		Role:         models.RoleAdmin, Active: true,
	})

	svc := NewAuthService(teachers, validator.New(validator.WithRequiredStructEnabled()), testLogger(), authTestSecret, time.Hour, 10*time.Minute)
	return teachers, svc
}

func parseAuthToken(t *testing.T, token string) AuthClaims {
	t.Helper()
	claims := AuthClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(authTestSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	return claims
}

func TestAuthServiceLoginIssuesToken(t *testing.T) {
	_, svc := newAuthFixture(t)

	response, err := svc.Login(context.Background(), dto.LoginRequest{UserID: "sunita", Password: "chalk-and-talk"})
	require.NoError(t, err)
	require.Equal(t, models.RoleTeacher, response.Role)
	require.Equal(t, uint(1), response.TeacherID)
	require.Equal(t, "Sunita Desai", response.Name)

	claims := parseAuthToken(t, response.Token)
	require.Equal(t, "1", claims.Subject)
	require.Equal(t, models.RoleTeacher, claims.Role)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestAuthServiceLoginTrimsUserID(t *testing.T) {
	_, svc := newAuthFixture(t)

	response, err := svc.Login(context.Background(), dto.LoginRequest{UserID: "  sunita ", Password: "chalk-and-talk"})
	require.NoError(t, err)
	require.Equal(t, uint(1), response.TeacherID)
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	_, svc := newAuthFixture(t)

	cases := []dto.LoginRequest{
		{UserID: "sunita", Password: "wrong"},
		{UserID: "nobody", Password: "chalk-and-talk"},
		{UserID: "gone", Password: "chalk-and-talk"},
	}
	for _, payload := range cases {
		_, err := svc.Login(context.Background(), payload)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
}

func TestAuthServiceLoginValidatesPayload(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceImpersonateIssuesTeacherToken(t *testing.T) {
	_, svc := newAuthFixture(t)

	// Target is the admin; the issued token still carries the teacher role.
	response, err := svc.Impersonate(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, uint(3), response.Teacher.TeacherID)
	require.Equal(t, "Principal", response.Teacher.Name)

	claims := parseAuthToken(t, response.Token)
	require.Equal(t, "3", claims.Subject)
	require.Equal(t, models.RoleTeacher, claims.Role)
	require.WithinDuration(t, time.Now().Add(10*time.Minute), claims.ExpiresAt.Time, time.Minute)
}

func TestAuthServiceImpersonateRejectsMissingOrInactive(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Impersonate(context.Background(), 99)
	require.ErrorIs(t, err, ErrTeacherNotFound)

	_, err = svc.Impersonate(context.Background(), 2)
	require.ErrorIs(t, err, ErrTeacherNotFound)
}

func TestActorIsAdmin(t *testing.T) {
	require.True(t, Actor{Role: "ADMIN"}.IsAdmin())
	require.True(t, Actor{Role: "admin"}.IsAdmin())
	require.False(t, Actor{Role: models.RoleTeacher}.IsAdmin())
	require.False(t, Actor{}.IsAdmin())
}
