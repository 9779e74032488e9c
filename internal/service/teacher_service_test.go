package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/dto"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
)

type teacherFixture struct {
	teachers    *memTeachers
	allocations *memAllocations
	results     *memResults
	reports     *memInvalidations
	svc         TeacherService
}

func newTeacherFixture() *teacherFixture {
	f := &teacherFixture{
		teachers:    &memTeachers{},
		allocations: &memAllocations{},
		results:     newMemResults(),
		reports:     &memInvalidations{},
	}
	subjects := &memSubjects{subjects: seedSubjects()}
	engine := NewResultService(&memStudents{}, subjects, f.allocations, &memMarks{}, f.results, testLogger())
	f.svc = NewTeacherService(f.teachers, f.allocations, engine, f.reports, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	return f
}

func TestTeacherServiceCreateDefaultsAndHashes(t *testing.T) {
	f := newTeacherFixture()

	created, err := f.svc.Create(context.Background(), dto.TeacherCreateRequest{
		Name:     " Sunita Rao ",
		UserID:   "sunita",
		Password: "chalk-and-talk",
	})
	require.NoError(t, err)
	require.Equal(t, "Sunita Rao", created.Name)
	require.Equal(t, models.RoleTeacher, created.Role)
	require.True(t, created.Active)

	stored, err := f.teachers.GetByUserID(context.Background(), "sunita")
	require.NoError(t, err)
	require.NotEqual(t, "chalk-and-talk", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("chalk-and-talk")))

	_, err = f.svc.Create(context.Background(), dto.TeacherCreateRequest{
		Name: "Imposter", UserID: "sunita", Password: "whatever1",
	})
	require.ErrorIs(t, err, ErrUserIDTaken)

	var verrs validator.ValidationErrors
	_, err = f.svc.Create(context.Background(), dto.TeacherCreateRequest{
		Name: "Short Password", UserID: "short", Password: "abc",
	})
	require.ErrorAs(t, err, &verrs)

	admin, err := f.svc.Create(context.Background(), dto.TeacherCreateRequest{
		Name: "Principal", UserID: "principal", Password: "open-sesame", Role: models.RoleAdmin,
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, admin.Role)
}

func TestTeacherServiceUpdatePatchesFields(t *testing.T) {
	f := newTeacherFixture()
	created, err := f.svc.Create(context.Background(), dto.TeacherCreateRequest{
		Name: "Sunita Rao", UserID: "sunita", Password: "chalk-and-talk",
	})
	require.NoError(t, err)

	active := false
	updated, err := f.svc.Update(context.Background(), created.TeacherID, dto.TeacherUpdateRequest{
		Name:     strptr("Sunita Deshpande"),
		Email:    strptr("sunita@college.example"),
		Password: strptr("fresh-secret"),
		Active:   &active,
	})
	require.NoError(t, err)
	require.Equal(t, "Sunita Deshpande", updated.Name)
	require.Equal(t, "sunita@college.example", updated.Email)
	require.False(t, updated.Active)

	stored, err := f.teachers.GetByID(context.Background(), created.TeacherID)
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("fresh-secret")))

	// The login name survives every update.
	require.Equal(t, "sunita", stored.UserID)

	_, err = f.svc.Update(context.Background(), 999, dto.TeacherUpdateRequest{Name: strptr("Ghost")})
	require.ErrorIs(t, err, ErrTeacherNotFound)
}

func TestTeacherServiceDeleteRefreshesAllocatedDivisions(t *testing.T) {
	f := newTeacherFixture()
	created, err := f.svc.Create(context.Background(), dto.TeacherCreateRequest{
		Name: "Sunita Rao", UserID: "sunita", Password: "chalk-and-talk",
	})
	require.NoError(t, err)

	for _, division := range []string{"A", "B"} {
		f.allocations.Create(context.Background(), &models.TeacherSubjectAllocation{
			TeacherID: created.TeacherID,
			SubjectID: 1,
			Division:  division,
		})
	}

	require.NoError(t, f.svc.Delete(context.Background(), created.TeacherID))
	require.ElementsMatch(t, []string{"A", "B"}, f.reports.divisions)

	err = f.svc.Delete(context.Background(), created.TeacherID)
	require.ErrorIs(t, err, ErrTeacherNotFound)

	teachers, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, teachers)
}
