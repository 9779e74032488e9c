package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
)

func TestSubjectRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubjectRepository(db)

	subjects := []models.Subject{
		{SubjectCode: models.CodeEng, SubjectName: "English", SubjectType: models.SubjectTypeCore, Active: true},
		{SubjectCode: models.CodeHindi, SubjectName: "Hindi", SubjectType: models.SubjectTypeOptional, Active: true},
		{SubjectCode: "HIST", SubjectName: "History", SubjectType: models.SubjectTypeCore, Active: true},
	}
	for i := range subjects {
		require.NoError(t, db.Create(&subjects[i]).Error)
	}
	require.NoError(t, db.Model(&subjects[2]).Update("active", false).Error)

	all, err := repo.List(context.Background(), SubjectFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, models.CodeEng, all[0].SubjectCode, "expected subject id ordering")

	active := true
	activeOnly, err := repo.List(context.Background(), SubjectFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, activeOnly, 2)

	inactive := false
	inactiveOnly, err := repo.List(context.Background(), SubjectFilter{Active: &inactive})
	require.NoError(t, err)
	require.Len(t, inactiveOnly, 1)
	require.Equal(t, "HIST", inactiveOnly[0].SubjectCode)

	optionals, err := repo.List(context.Background(), SubjectFilter{SubjectType: models.SubjectTypeOptional})
	require.NoError(t, err)
	require.Len(t, optionals, 1)
	require.Equal(t, models.CodeHindi, optionals[0].SubjectCode)
}

func TestSubjectRepositoryGetByCodeAndCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubjectRepository(db)

	bk := models.Subject{SubjectCode: models.CodeBk, SubjectName: "Book Keeping", SubjectType: models.SubjectTypeCore, Active: true}
	require.NoError(t, db.Create(&bk).Error)

	got, err := repo.GetByCode(context.Background(), models.CodeBk)
	require.NoError(t, err)
	require.Equal(t, "Book Keeping", got.SubjectName)

	_, err = repo.GetByCode(context.Background(), "NOPE")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
