package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
)

// StudentFilter narrows student listings.
type StudentFilter struct {
	Division string
	RollNo   *int
	Search   string
}

// StudentRepository provides access to student records.
type StudentRepository interface {
	List(ctx context.Context, filter StudentFilter) ([]models.Student, error)
	Get(ctx context.Context, rollNo int, division string) (models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, rollNo int, division string) error
	Divisions(ctx context.Context) ([]string, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})

	if filter.Division != "" {
		query = query.Where("division = ?", filter.Division)
	}

	if filter.RollNo != nil {
		query = query.Where("roll_no = ?", *filter.RollNo)
	}

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", like)
	}

	var students []models.Student
	if err := query.Order("division ASC, roll_no ASC").Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) Get(ctx context.Context, rollNo int, division string) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Where("roll_no = ?", rollNo).
		Where("division = ?", division).
		First(&student).Error
	if err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

// Delete removes the student together with their marks and result row in one
// transaction.
func (r *studentRepository) Delete(ctx context.Context, rollNo int, division string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("roll_no = ? AND division = ?", rollNo, division).
			Delete(&models.Mark{}).Error; err != nil {
			return err
		}

		if err := tx.Where("roll_no = ? AND division = ?", rollNo, division).
			Delete(&models.Result{}).Error; err != nil {
			return err
		}

		del := tx.Where("roll_no = ? AND division = ?", rollNo, division).
			Delete(&models.Student{})
		if del.Error != nil {
			return del.Error
		}

		if del.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func (r *studentRepository) Divisions(ctx context.Context) ([]string, error) {
	var divisions []string
	err := r.db.WithContext(ctx).Model(&models.Student{}).
		Distinct("division").
		Order("division ASC").
		Pluck("division", &divisions).Error
	if err != nil {
		return nil, err
	}

	return divisions, nil
}
