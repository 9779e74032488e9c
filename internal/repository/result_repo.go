package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
)

// ResultRepository provides access to computed result rows.
type ResultRepository interface {
	ListByDivision(ctx context.Context, division string) ([]models.Result, error)
	Get(ctx context.Context, rollNo int, division string) (models.Result, error)
	SaveAll(ctx context.Context, results []models.Result) error
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository constructs a result repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) ListByDivision(ctx context.Context, division string) ([]models.Result, error) {
	var results []models.Result
	err := r.db.WithContext(ctx).
		Where("division = ?", division).
		Order("roll_no ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) Get(ctx context.Context, rollNo int, division string) (models.Result, error) {
	var result models.Result
	err := r.db.WithContext(ctx).
		Where("roll_no = ?", rollNo).
		Where("division = ?", division).
		First(&result).Error
	if err != nil {
		return models.Result{}, err
	}

	return result, nil
}

// SaveAll upserts the given rows in a single transaction. Existing rows keyed
// by (roll_no, division) are overwritten column for column.
func (r *resultRepository) SaveAll(ctx context.Context, results []models.Result) error {
	if len(results) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "roll_no"}, {Name: "division"}},
			UpdateAll: true,
		}).Create(&results).Error
	})
}
