package dto

import (
	"time"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
)

// MarkEntryRequest records component scores for one student and subject.
// Components left out stay null so completeness gating can tell "not yet
// examined" from a zero score. Grace sent here is range-checked but the
// stored value always starts at zero.
type MarkEntryRequest struct {
	RollNo    int      `json:"roll_no" validate:"required,gt=0"`
	Division  string   `json:"division" validate:"required,max=8"`
	SubjectID uint     `json:"subject_id" validate:"required,gt=0"`
	Unit1     *float64 `json:"unit1" validate:"omitempty,gte=0,lte=25"`
	Unit2     *float64 `json:"unit2" validate:"omitempty,gte=0,lte=25"`
	Term      *float64 `json:"term" validate:"omitempty,gte=0,lte=50"`
	Annual    *float64 `json:"annual" validate:"omitempty,gte=0,lte=100"`
	Grace     *float64 `json:"grace" validate:"omitempty,gte=0"`
}

// MarkUpdateRequest patches component scores on an existing mark row.
// Only provided fields change; totals are recomputed from the result.
type MarkUpdateRequest struct {
	Unit1  *float64 `json:"unit1" validate:"omitempty,gte=0,lte=25"`
	Unit2  *float64 `json:"unit2" validate:"omitempty,gte=0,lte=25"`
	Term   *float64 `json:"term" validate:"omitempty,gte=0,lte=50"`
	Annual *float64 `json:"annual" validate:"omitempty,gte=0,lte=100"`
	Grace  *float64 `json:"grace" validate:"omitempty,gte=0"`
}

// MarkResponse is the full client-facing view of a mark row.
type MarkResponse struct {
	MarkID    uint      `json:"mark_id"`
	RollNo    int       `json:"roll_no"`
	Division  string    `json:"division"`
	SubjectID uint      `json:"subject_id"`
	Unit1     *float64  `json:"unit1"`
	Unit2     *float64  `json:"unit2"`
	Term      *float64  `json:"term"`
	Annual    *float64  `json:"annual"`
	Tot       float64   `json:"tot"`
	SubAvg    float64   `json:"sub_avg"`
	Grace     float64   `json:"grace"`
	EnteredBy uint      `json:"entered_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMarkResponse converts a Mark model into a DTO.
func NewMarkResponse(model models.Mark) MarkResponse {
	return MarkResponse{
		MarkID:    model.MarkID,
		RollNo:    model.RollNo,
		Division:  model.Division,
		SubjectID: model.SubjectID,
		Unit1:     model.Unit1,
		Unit2:     model.Unit2,
		Term:      model.Term,
		Annual:    model.Annual,
		Tot:       model.Tot,
		SubAvg:    model.SubAvg,
		Grace:     model.Grace,
		EnteredBy: model.EnteredBy,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// MarkDetail is the nested mark breakdown used in listing rows. All fields
// are null when no mark exists yet, except grace which reads as zero.
type MarkDetail struct {
	MarkID *uint    `json:"mark_id"`
	Unit1  *float64 `json:"unit1"`
	Unit2  *float64 `json:"unit2"`
	Term   *float64 `json:"term"`
	Annual *float64 `json:"annual"`
	Tot    *float64 `json:"tot"`
	SubAvg *float64 `json:"sub_avg"`
	Grace  float64  `json:"grace"`
}

// NewMarkDetail builds the nested breakdown, tolerating a missing mark.
func NewMarkDetail(model *models.Mark) MarkDetail {
	if model == nil {
		return MarkDetail{}
	}
	return MarkDetail{
		MarkID: &model.MarkID,
		Unit1:  model.Unit1,
		Unit2:  model.Unit2,
		Term:   model.Term,
		Annual: model.Annual,
		Tot:    &model.Tot,
		SubAvg: &model.SubAvg,
		Grace:  model.Grace,
	}
}

// SubjectMarkRow pairs a student with their mark for one subject. Rows are
// emitted for every student in the division so tables render complete.
type SubjectMarkRow struct {
	RollNo   int        `json:"roll_no"`
	Name     string     `json:"name"`
	Division string     `json:"division"`
	Mark     MarkDetail `json:"mark"`
}

// StudentSubjectMarks pairs one of a student's subjects with its mark.
type StudentSubjectMarks struct {
	SubjectID   uint       `json:"subject_id"`
	SubjectCode string     `json:"subject_code"`
	SubjectName string     `json:"subject_name"`
	Mark        MarkDetail `json:"mark"`
}

// StudentMarksResponse lists every subject a student takes with marks so far.
type StudentMarksResponse struct {
	RollNo   int                   `json:"roll_no"`
	Name     string                `json:"name"`
	Division string                `json:"division"`
	Subjects []StudentSubjectMarks `json:"subjects"`
}
