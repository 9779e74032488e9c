package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
)

func TestStudentRepositoryListFiltersAndOrders(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	students := []models.Student{
		{RollNo: 2, Division: "B", Name: "Kiran Patil", OptionalSubject: models.CodeIT, OptionalSubject2: models.CodeMaths},
		{RollNo: 1, Division: "B", Name: "Asha Verma", OptionalSubject: models.CodeHindi, OptionalSubject2: models.CodeSP},
		{RollNo: 1, Division: "A", Name: "Rahul Shinde", OptionalSubject: models.CodeHindi, OptionalSubject2: models.CodeMaths},
	}
	for i := range students {
		require.NoError(t, db.Create(&students[i]).Error)
	}

	all, err := repo.List(context.Background(), StudentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "A", all[0].Division, "expected division then roll ordering")
	require.Equal(t, 1, all[1].RollNo)
	require.Equal(t, 2, all[2].RollNo)

	filtered, err := repo.List(context.Background(), StudentFilter{Division: "B", Search: "aSHa"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "Asha Verma", filtered[0].Name, "search should be case-insensitive")

	roll := 2
	byRoll, err := repo.List(context.Background(), StudentFilter{RollNo: &roll})
	require.NoError(t, err)
	require.Len(t, byRoll, 1)
	require.Equal(t, "Kiran Patil", byRoll[0].Name)
}

func TestStudentRepositoryDeleteRemovesMarksAndResult(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	eng := models.Subject{SubjectCode: models.CodeEng, SubjectName: "English", SubjectType: models.SubjectTypeCore, Active: true}
	require.NoError(t, db.Create(&eng).Error)

	gone := models.Student{RollNo: 7, Division: "A", Name: "Neha Kulkarni"}
	kept := models.Student{RollNo: 8, Division: "A", Name: "Vikram Joshi"}
	require.NoError(t, db.Create(&gone).Error)
	require.NoError(t, db.Create(&kept).Error)

	marks := []models.Mark{
		{RollNo: 7, Division: "A", SubjectID: eng.SubjectID, Annual: fptr(44), Tot: 44, SubAvg: 44},
		{RollNo: 8, Division: "A", SubjectID: eng.SubjectID, Annual: fptr(51), Tot: 51, SubAvg: 51},
	}
	for i := range marks {
		require.NoError(t, db.Create(&marks[i]).Error)
	}
	require.NoError(t, db.Create(&models.Result{RollNo: 7, Division: "A", Name: "Neha Kulkarni"}).Error)

	require.NoError(t, repo.Delete(context.Background(), 7, "A"))

	var markCount, resultCount int64
	require.NoError(t, db.Model(&models.Mark{}).Where("roll_no = ? AND division = ?", 7, "A").Count(&markCount).Error)
	require.NoError(t, db.Model(&models.Result{}).Where("roll_no = ? AND division = ?", 7, "A").Count(&resultCount).Error)
	require.Zero(t, markCount, "marks should go with the student")
	require.Zero(t, resultCount)

	var remaining int64
	require.NoError(t, db.Model(&models.Mark{}).Count(&remaining).Error)
	require.Equal(t, int64(1), remaining, "other students' marks should stay")

	err := repo.Delete(context.Background(), 7, "A")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStudentRepositoryDivisions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	students := []models.Student{
		{RollNo: 1, Division: "B", Name: "Asha Verma"},
		{RollNo: 2, Division: "B", Name: "Kiran Patil"},
		{RollNo: 1, Division: "A", Name: "Rahul Shinde"},
	}
	for i := range students {
		require.NoError(t, db.Create(&students[i]).Error)
	}

	divisions, err := repo.Divisions(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, divisions)
}
