package dto

import (
	"time"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
)

// SubjectCreateRequest registers a subject in the catalogue.
type SubjectCreateRequest struct {
	SubjectCode string `json:"subject_code" validate:"required,min=2,max=16,uppercase"`
	SubjectName string `json:"subject_name" validate:"required,min=2"`
	SubjectType string `json:"subject_type" validate:"omitempty,oneof=CORE OPTIONAL"`
}

// SubjectUpdateRequest patches mutable subject fields. Codes are immutable
// because mark rows and allocations hang off them.
type SubjectUpdateRequest struct {
	SubjectName *string `json:"subject_name" validate:"omitempty,min=2"`
	Active      *bool   `json:"active"`
}

// SubjectResponse is the client-facing view of a subject.
type SubjectResponse struct {
	SubjectID   uint      `json:"subject_id"`
	SubjectCode string    `json:"subject_code"`
	SubjectName string    `json:"subject_name"`
	SubjectType string    `json:"subject_type"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSubjectResponse converts a Subject model into a DTO.
func NewSubjectResponse(model models.Subject) SubjectResponse {
	return SubjectResponse{
		SubjectID:   model.SubjectID,
		SubjectCode: model.SubjectCode,
		SubjectName: model.SubjectName,
		SubjectType: model.SubjectType,
		Active:      model.Active,
		CreatedAt:   model.CreatedAt,
	}
}

// NewSubjectResponses maps a slice of subjects.
func NewSubjectResponses(items []models.Subject) []SubjectResponse {
	responses := make([]SubjectResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewSubjectResponse(item))
	}
	return responses
}
