package dto

import (
	"time"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
)

// AllocationCreateRequest assigns a teacher to a subject within a division.
type AllocationCreateRequest struct {
	TeacherID uint   `json:"teacher_id" validate:"required,gt=0"`
	SubjectID uint   `json:"subject_id" validate:"required,gt=0"`
	Division  string `json:"division" validate:"required,max=8"`
}

// AllocationResponse is the client-facing view of a teacher-subject allocation.
type AllocationResponse struct {
	AllocationID uint      `json:"allocation_id"`
	TeacherID    uint      `json:"teacher_id"`
	TeacherName  string    `json:"teacher_name"`
	SubjectID    uint      `json:"subject_id"`
	SubjectCode  string    `json:"subject_code"`
	SubjectName  string    `json:"subject_name"`
	Division     string    `json:"division"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewAllocationResponse converts an allocation, expecting preloaded
// teacher and subject associations.
func NewAllocationResponse(model models.TeacherSubjectAllocation) AllocationResponse {
	return AllocationResponse{
		AllocationID: model.AllocationID,
		TeacherID:    model.TeacherID,
		TeacherName:  model.Teacher.Name,
		SubjectID:    model.SubjectID,
		SubjectCode:  model.Subject.SubjectCode,
		SubjectName:  model.Subject.SubjectName,
		Division:     model.Division,
		CreatedAt:    model.CreatedAt,
	}
}

// NewAllocationResponses maps a slice of allocations.
func NewAllocationResponses(items []models.TeacherSubjectAllocation) []AllocationResponse {
	responses := make([]AllocationResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewAllocationResponse(item))
	}
	return responses
}
