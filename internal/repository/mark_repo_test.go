package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/database"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
)

func TestMarkRepositoryListFiltersAndOrders(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMarkRepository(db)

	eng := models.Subject{SubjectCode: models.CodeEng, SubjectName: "English", SubjectType: models.SubjectTypeCore, Active: true}
	eco := models.Subject{SubjectCode: models.CodeEco, SubjectName: "Economics", SubjectType: models.SubjectTypeCore, Active: true}
	require.NoError(t, db.Create(&eng).Error)
	require.NoError(t, db.Create(&eco).Error)

	rows := []models.Mark{
		{RollNo: 2, Division: "A", SubjectID: eco.SubjectID, Annual: fptr(70), Tot: 70, SubAvg: 70, EnteredBy: 1},
		{RollNo: 1, Division: "A", SubjectID: eng.SubjectID, Annual: fptr(64), Tot: 64, SubAvg: 64, EnteredBy: 1},
		{RollNo: 1, Division: "A", SubjectID: eco.SubjectID, Annual: fptr(58), Tot: 58, SubAvg: 58, EnteredBy: 1},
		{RollNo: 1, Division: "B", SubjectID: eng.SubjectID, Annual: fptr(80), Tot: 80, SubAvg: 80, EnteredBy: 2},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	marks, err := repo.List(context.Background(), MarkFilter{Division: "A"})
	require.NoError(t, err)
	require.Len(t, marks, 3)
	require.Equal(t, 1, marks[0].RollNo, "expected roll then subject ordering")
	require.Equal(t, eng.SubjectID, marks[0].SubjectID)
	require.Equal(t, eco.SubjectID, marks[1].SubjectID)
	require.Equal(t, 2, marks[2].RollNo)
	require.Equal(t, models.CodeEng, marks[0].Subject.SubjectCode, "expected subject preloaded")

	marks, err = repo.List(context.Background(), MarkFilter{Division: "A", SubjectID: &eco.SubjectID})
	require.NoError(t, err)
	require.Len(t, marks, 2)

	roll := 1
	marks, err = repo.List(context.Background(), MarkFilter{Division: "A", RollNo: &roll, SubjectID: &eco.SubjectID})
	require.NoError(t, err)
	require.Len(t, marks, 1)
	require.Equal(t, 58.0, marks[0].Tot)
}

func TestMarkRepositoryGetByEntry(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMarkRepository(db)

	eng := models.Subject{SubjectCode: models.CodeEng, SubjectName: "English", SubjectType: models.SubjectTypeCore, Active: true}
	require.NoError(t, db.Create(&eng).Error)

	mark := models.Mark{RollNo: 12, Division: "A", SubjectID: eng.SubjectID, Unit1: fptr(18), Tot: 18, SubAvg: 18, EnteredBy: 3}
	require.NoError(t, db.Create(&mark).Error)

	got, err := repo.GetByEntry(context.Background(), 12, "A", eng.SubjectID)
	require.NoError(t, err)
	require.Equal(t, mark.MarkID, got.MarkID)
	require.Equal(t, models.CodeEng, got.Subject.SubjectCode)

	_, err = repo.GetByEntry(context.Background(), 12, "B", eng.SubjectID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMarkRepositoryDeleteMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMarkRepository(db)

	err := repo.Delete(context.Background(), 99)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// setupTestDB opens an in-memory database whose DSN is keyed on the test
// name, so every test sees a fresh schema while gorm's connection pool still
// reaches the same instance.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func fptr(v float64) *float64 {
	return &v
}
