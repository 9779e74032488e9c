package models

import "time"

const (
	// RoleTeacher can enter marks for allocated subjects.
	RoleTeacher = "TEACHER"
	// RoleAdmin can manage the catalogue and generate results.
	RoleAdmin = "ADMIN"
)

// Teacher represents a staff account. Administrators are teachers carrying
// the ADMIN role; there is no separate admin table.
type Teacher struct {
	TeacherID    uint      `gorm:"primaryKey" json:"teacher_id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	UserID       string    `gorm:"column:userid;size:64;uniqueIndex;not null" json:"userid"`
	Email        string    `gorm:"size:255" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:TEACHER" json:"role"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the account carries administrator privileges.
func (t Teacher) IsAdmin() bool {
	return t.Role == RoleAdmin
}
