package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
)

func TestAllocationRepositoryListPreloadsAndFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAllocationRepository(db)

	sunita := models.Teacher{Name: "Sunita Rao", UserID: "sunita", PasswordHash: "x", Role: models.RoleTeacher, Active: true}
	mahesh := models.Teacher{Name: "Mahesh Kale", UserID: "mahesh", PasswordHash: "x", Role: models.RoleTeacher, Active: true}
	require.NoError(t, db.Create(&sunita).Error)
	require.NoError(t, db.Create(&mahesh).Error)

	eng := models.Subject{SubjectCode: models.CodeEng, SubjectName: "English", SubjectType: models.SubjectTypeCore, Active: true}
	eco := models.Subject{SubjectCode: models.CodeEco, SubjectName: "Economics", SubjectType: models.SubjectTypeCore, Active: true}
	require.NoError(t, db.Create(&eng).Error)
	require.NoError(t, db.Create(&eco).Error)

	allocations := []models.TeacherSubjectAllocation{
		{TeacherID: sunita.TeacherID, SubjectID: eng.SubjectID, Division: "A"},
		{TeacherID: sunita.TeacherID, SubjectID: eco.SubjectID, Division: "B"},
		{TeacherID: mahesh.TeacherID, SubjectID: eng.SubjectID, Division: "A"},
	}
	for i := range allocations {
		require.NoError(t, db.Create(&allocations[i]).Error)
	}

	all, err := repo.List(context.Background(), AllocationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Sunita Rao", all[0].Teacher.Name, "expected teacher preloaded")
	require.Equal(t, models.CodeEng, all[0].Subject.SubjectCode, "expected subject preloaded")
	require.Equal(t, allocations[0].AllocationID, all[0].AllocationID, "expected creation order")

	mine, err := repo.List(context.Background(), AllocationFilter{TeacherID: &sunita.TeacherID})
	require.NoError(t, err)
	require.Len(t, mine, 2)

	divA, err := repo.List(context.Background(), AllocationFilter{Division: "A"})
	require.NoError(t, err)
	require.Len(t, divA, 2)

	engOnly, err := repo.List(context.Background(), AllocationFilter{SubjectID: &eng.SubjectID, Division: "A"})
	require.NoError(t, err)
	require.Len(t, engOnly, 2)
}

func TestAllocationRepositoryExistenceChecks(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAllocationRepository(db)

	sunita := models.Teacher{Name: "Sunita Rao", UserID: "sunita", PasswordHash: "x", Role: models.RoleTeacher, Active: true}
	require.NoError(t, db.Create(&sunita).Error)
	eng := models.Subject{SubjectCode: models.CodeEng, SubjectName: "English", SubjectType: models.SubjectTypeCore, Active: true}
	require.NoError(t, db.Create(&eng).Error)

	allocation := models.TeacherSubjectAllocation{TeacherID: sunita.TeacherID, SubjectID: eng.SubjectID, Division: "A"}
	require.NoError(t, db.Create(&allocation).Error)

	ok, err := repo.Exists(context.Background(), sunita.TeacherID, eng.SubjectID, "A")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.Exists(context.Background(), sunita.TeacherID, eng.SubjectID, "B")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = repo.ExistsForDivision(context.Background(), sunita.TeacherID, "A")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.ExistsForDivision(context.Background(), sunita.TeacherID, "B")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.Delete(context.Background(), allocation.AllocationID))
	err = repo.Delete(context.Background(), allocation.AllocationID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
