package models

import "time"

// Student represents a learner enrolled in a division. Students are keyed by
// roll number within their division; there is no surrogate id.
type Student struct {
	RollNo           int       `gorm:"primaryKey;autoIncrement:false" json:"roll_no"`
	Division         string    `gorm:"primaryKey;size:8" json:"division"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	OptionalSubject  string    `gorm:"size:16" json:"optional_subject"`
	OptionalSubject2 string    `gorm:"size:16" json:"optional_subject_2"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// OptionalCodes returns the student's chosen elective codes in slot order.
// The first slot accepts HINDI or IT, the second MATHS or SP; anything else
// is skipped.
func (s Student) OptionalCodes() []string {
	var codes []string
	if s.OptionalSubject == CodeHindi || s.OptionalSubject == CodeIT {
		codes = append(codes, s.OptionalSubject)
	}
	if s.OptionalSubject2 == CodeMaths || s.OptionalSubject2 == CodeSP {
		codes = append(codes, s.OptionalSubject2)
	}
	return codes
}
