package dto

import (
	"time"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
)

// StudentCreateRequest enrolls a student into a division.
type StudentCreateRequest struct {
	RollNo           int    `json:"roll_no" validate:"required,gt=0"`
	Division         string `json:"division" validate:"required,max=8"`
	Name             string `json:"name" validate:"required,min=2"`
	OptionalSubject  string `json:"optional_subject" validate:"omitempty,oneof=HINDI IT"`
	OptionalSubject2 string `json:"optional_subject_2" validate:"omitempty,oneof=MATHS SP"`
}

// StudentUpdateRequest patches student fields. An empty string clears an
// optional-subject choice.
type StudentUpdateRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=2"`
	OptionalSubject  *string `json:"optional_subject" validate:"omitempty,oneof=HINDI IT"`
	OptionalSubject2 *string `json:"optional_subject_2" validate:"omitempty,oneof=MATHS SP"`
}

// StudentFilterRequest describes query string filters for listing students.
type StudentFilterRequest struct {
	Division string `query:"division"`
	Search   string `query:"search"`
}

// StudentResponse is the client-facing view of a student.
type StudentResponse struct {
	RollNo           int       `json:"roll_no"`
	Division         string    `json:"division"`
	Name             string    `json:"name"`
	OptionalSubject  string    `json:"optional_subject"`
	OptionalSubject2 string    `json:"optional_subject_2"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewStudentResponse converts a Student model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		RollNo:           model.RollNo,
		Division:         model.Division,
		Name:             model.Name,
		OptionalSubject:  model.OptionalSubject,
		OptionalSubject2: model.OptionalSubject2,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

// NewStudentResponses maps a slice of students.
func NewStudentResponses(items []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewStudentResponse(item))
	}
	return responses
}

// StudentLite is the compact shape used by teacher-facing student listings.
type StudentLite struct {
	RollNo   int    `json:"roll_no"`
	Name     string `json:"name"`
	Division string `json:"division"`
}

// NewStudentLite converts a Student model into its compact listing shape.
func NewStudentLite(model models.Student) StudentLite {
	return StudentLite{RollNo: model.RollNo, Name: model.Name, Division: model.Division}
}
