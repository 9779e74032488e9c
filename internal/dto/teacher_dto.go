package dto

import (
	"time"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
)

// TeacherCreateRequest describes the payload for registering a teacher account.
type TeacherCreateRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	UserID   string `json:"userid" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=TEACHER ADMIN"`
}

// TeacherUpdateRequest updates profile fields. The role is fixed at creation.
type TeacherUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Active   *bool   `json:"active"`
}

// TeacherResponse is the client-facing view of a teacher account.
type TeacherResponse struct {
	TeacherID uint      `json:"teacher_id"`
	Name      string    `json:"name"`
	UserID    string    `json:"userid"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTeacherResponse converts a Teacher model into a DTO.
func NewTeacherResponse(model models.Teacher) TeacherResponse {
	return TeacherResponse{
		TeacherID: model.TeacherID,
		Name:      model.Name,
		UserID:    model.UserID,
		Email:     model.Email,
		Role:      model.Role,
		Active:    model.Active,
		CreatedAt: model.CreatedAt,
	}
}

// NewTeacherResponses maps a slice of teachers.
func NewTeacherResponses(items []models.Teacher) []TeacherResponse {
	responses := make([]TeacherResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewTeacherResponse(item))
	}
	return responses
}
