package dto

// LoginRequest carries the credentials posted to the login endpoint.
type LoginRequest struct {
	UserID   string `json:"userid" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	TeacherID uint   `json:"teacher_id"`
	Name      string `json:"name"`
}

// ImpersonationResponse carries a short-lived teacher token issued to an admin.
type ImpersonationResponse struct {
	Token   string          `json:"token"`
	Teacher TeacherResponse `json:"teacher"`
}
