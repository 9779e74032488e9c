package models

import "time"

// TeacherSubjectAllocation maps a teacher to one subject taught in one
// division. The triple is unique. Allocations authorize mark entry and drive
// the required-subject set of a division.
type TeacherSubjectAllocation struct {
	AllocationID uint      `gorm:"primaryKey" json:"allocation_id"`
	TeacherID    uint      `gorm:"not null;uniqueIndex:idx_alloc_triple" json:"teacher_id"`
	SubjectID    uint      `gorm:"not null;uniqueIndex:idx_alloc_triple" json:"subject_id"`
	Division     string    `gorm:"size:8;not null;uniqueIndex:idx_alloc_triple" json:"division"`
	CreatedAt    time.Time `json:"created_at"`
	Teacher      Teacher   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Subject      Subject   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
