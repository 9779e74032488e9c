package models

import "time"

// Canonical subject codes recognised by result computation.
const (
	CodeEng   = "ENG"
	CodeEco   = "ECO"
	CodeBk    = "BK"
	CodeOc    = "OC"
	CodeHindi = "HINDI"
	CodeIT    = "IT"
	CodeMaths = "MATHS"
	CodeSP    = "SP"
	CodeEvs   = "EVS"
	CodePe    = "PE"
)

const (
	// SubjectTypeCore marks a subject taken by every student of a division.
	SubjectTypeCore = "CORE"
	// SubjectTypeOptional marks an elective chosen per student.
	SubjectTypeOptional = "OPTIONAL"
)

// Subject represents a taught subject identified by its short code.
type Subject struct {
	SubjectID   uint      `gorm:"primaryKey" json:"subject_id"`
	SubjectCode string    `gorm:"size:16;uniqueIndex;not null" json:"subject_code"`
	SubjectName string    `gorm:"size:255;not null" json:"subject_name"`
	SubjectType string    `gorm:"size:16;not null;default:CORE" json:"subject_type"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsGradeOnly reports whether the code is assessed with a letter grade rather
// than marks. Grade-only subjects never gate or enter the percentage.
func IsGradeOnly(code string) bool {
	return code == CodeEvs || code == CodePe
}

// IsOptionalCode reports whether the code is an elective chosen per student.
func IsOptionalCode(code string) bool {
	switch code {
	case CodeHindi, CodeIT, CodeMaths, CodeSP:
		return true
	}
	return false
}
