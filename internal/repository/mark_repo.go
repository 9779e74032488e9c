package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
)

// MarkFilter narrows mark listings.
type MarkFilter struct {
	Division  string
	RollNo    *int
	SubjectID *uint
}

// MarkRepository provides access to entered marks.
type MarkRepository interface {
	List(ctx context.Context, filter MarkFilter) ([]models.Mark, error)
	GetByID(ctx context.Context, id uint) (models.Mark, error)
	GetByEntry(ctx context.Context, rollNo int, division string, subjectID uint) (models.Mark, error)
	Create(ctx context.Context, mark *models.Mark) error
	Update(ctx context.Context, mark *models.Mark) error
	Delete(ctx context.Context, id uint) error
}

type markRepository struct {
	db *gorm.DB
}

// NewMarkRepository constructs a mark repository.
func NewMarkRepository(db *gorm.DB) MarkRepository {
	return &markRepository{db: db}
}

func (r *markRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Mark{}).Preload("Subject")
}

func (r *markRepository) List(ctx context.Context, filter MarkFilter) ([]models.Mark, error) {
	query := r.baseQuery(ctx)

	if filter.Division != "" {
		query = query.Where("division = ?", filter.Division)
	}

	if filter.RollNo != nil {
		query = query.Where("roll_no = ?", *filter.RollNo)
	}

	if filter.SubjectID != nil {
		query = query.Where("subject_id = ?", *filter.SubjectID)
	}

	var marks []models.Mark
	if err := query.Order("roll_no ASC, subject_id ASC").Find(&marks).Error; err != nil {
		return nil, err
	}

	return marks, nil
}

func (r *markRepository) GetByID(ctx context.Context, id uint) (models.Mark, error) {
	var mark models.Mark
	if err := r.baseQuery(ctx).First(&mark, id).Error; err != nil {
		return models.Mark{}, err
	}

	return mark, nil
}

func (r *markRepository) GetByEntry(ctx context.Context, rollNo int, division string, subjectID uint) (models.Mark, error) {
	var mark models.Mark
	err := r.baseQuery(ctx).
		Where("roll_no = ?", rollNo).
		Where("division = ?", division).
		Where("subject_id = ?", subjectID).
		First(&mark).Error
	if err != nil {
		return models.Mark{}, err
	}

	return mark, nil
}

func (r *markRepository) Create(ctx context.Context, mark *models.Mark) error {
	return r.db.WithContext(ctx).Create(mark).Error
}

func (r *markRepository) Update(ctx context.Context, mark *models.Mark) error {
	return r.db.WithContext(ctx).Save(mark).Error
}

func (r *markRepository) Delete(ctx context.Context, id uint) error {
	del := r.db.WithContext(ctx).Delete(&models.Mark{}, id)
	if del.Error != nil {
		return del.Error
	}

	if del.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
