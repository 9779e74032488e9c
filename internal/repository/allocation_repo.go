package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
)

// AllocationFilter narrows allocation listings.
type AllocationFilter struct {
	TeacherID *uint
	SubjectID *uint
	Division  string
}

// AllocationRepository provides access to teacher-subject allocations.
type AllocationRepository interface {
	List(ctx context.Context, filter AllocationFilter) ([]models.TeacherSubjectAllocation, error)
	GetByID(ctx context.Context, id uint) (models.TeacherSubjectAllocation, error)
	Exists(ctx context.Context, teacherID, subjectID uint, division string) (bool, error)
	ExistsForDivision(ctx context.Context, teacherID uint, division string) (bool, error)
	Create(ctx context.Context, allocation *models.TeacherSubjectAllocation) error
	Delete(ctx context.Context, id uint) error
}

type allocationRepository struct {
	db *gorm.DB
}

// NewAllocationRepository constructs an allocation repository.
func NewAllocationRepository(db *gorm.DB) AllocationRepository {
	return &allocationRepository{db: db}
}

func (r *allocationRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.TeacherSubjectAllocation{}).
		Preload("Teacher").
		Preload("Subject")
}

// List returns allocations in creation order. Required-subject resolution
// depends on that order staying stable between calls.
func (r *allocationRepository) List(ctx context.Context, filter AllocationFilter) ([]models.TeacherSubjectAllocation, error) {
	query := r.baseQuery(ctx)

	if filter.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filter.TeacherID)
	}

	if filter.SubjectID != nil {
		query = query.Where("subject_id = ?", *filter.SubjectID)
	}

	if filter.Division != "" {
		query = query.Where("division = ?", filter.Division)
	}

	var allocations []models.TeacherSubjectAllocation
	if err := query.Order("allocation_id ASC").Find(&allocations).Error; err != nil {
		return nil, err
	}

	return allocations, nil
}

func (r *allocationRepository) GetByID(ctx context.Context, id uint) (models.TeacherSubjectAllocation, error) {
	var allocation models.TeacherSubjectAllocation
	if err := r.baseQuery(ctx).First(&allocation, id).Error; err != nil {
		return models.TeacherSubjectAllocation{}, err
	}

	return allocation, nil
}

func (r *allocationRepository) Exists(ctx context.Context, teacherID, subjectID uint, division string) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.TeacherSubjectAllocation{}).
		Where("teacher_id = ?", teacherID).
		Where("subject_id = ?", subjectID).
		Where("division = ?", division).
		Count(&total).Error
	if err != nil {
		return false, err
	}

	return total > 0, nil
}

func (r *allocationRepository) ExistsForDivision(ctx context.Context, teacherID uint, division string) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.TeacherSubjectAllocation{}).
		Where("teacher_id = ?", teacherID).
		Where("division = ?", division).
		Count(&total).Error
	if err != nil {
		return false, err
	}

	return total > 0, nil
}

func (r *allocationRepository) Create(ctx context.Context, allocation *models.TeacherSubjectAllocation) error {
	return r.db.WithContext(ctx).Create(allocation).Error
}

func (r *allocationRepository) Delete(ctx context.Context, id uint) error {
	del := r.db.WithContext(ctx).Delete(&models.TeacherSubjectAllocation{}, id)
	if del.Error != nil {
		return del.Error
	}

	if del.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
