package models

import "time"

// Mark holds one student's component scores for a single subject. Component
// columns are nullable so partially entered marks stay representable; Tot and
// SubAvg are recomputed on every write.
type Mark struct {
	MarkID    uint      `gorm:"primaryKey" json:"mark_id"`
	RollNo    int       `gorm:"not null;uniqueIndex:idx_mark_entry" json:"roll_no"`
	Division  string    `gorm:"size:8;not null;uniqueIndex:idx_mark_entry" json:"division"`
	SubjectID uint      `gorm:"not null;uniqueIndex:idx_mark_entry" json:"subject_id"`
	Unit1     *float64  `json:"unit1"`
	Unit2     *float64  `json:"unit2"`
	Term      *float64  `json:"term"`
	Annual    *float64  `json:"annual"`
	Tot       float64   `gorm:"not null;default:0" json:"tot"`
	SubAvg    float64   `gorm:"not null;default:0" json:"sub_avg"`
	Grace     float64   `gorm:"not null;default:0" json:"grace"`
	EnteredBy uint      `json:"entered_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Subject   Subject   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// HasAnnual reports whether the annual exam score has been entered. Result
// computation treats a required subject as complete only when this is true.
func (m Mark) HasAnnual() bool {
	return m.Annual != nil
}
