package models

import "time"

// Result is the engine-owned outcome row for one student, at most one per
// (roll_no, division). Result computation creates and rewrites these rows;
// nothing else writes them.
//
// The *_avg columns store the subject's annual exam score, not an average of
// components. The column names are historical and downstream consumers of
// this table read them as such, so they stay.
type Result struct {
	RollNo   int    `gorm:"primaryKey;autoIncrement:false" json:"roll_no"`
	Division string `gorm:"primaryKey;size:8" json:"division"`
	Name     string `gorm:"size:255;not null" json:"name"`

	EngAvg     *float64 `json:"eng_avg"`
	EngGrace   *float64 `json:"eng_grace"`
	EcoAvg     *float64 `json:"eco_avg"`
	EcoGrace   *float64 `json:"eco_grace"`
	BkAvg      *float64 `json:"bk_avg"`
	BkGrace    *float64 `json:"bk_grace"`
	OcAvg      *float64 `json:"oc_avg"`
	OcGrace    *float64 `json:"oc_grace"`
	HindiAvg   *float64 `json:"hindi_avg"`
	HindiGrace *float64 `json:"hindi_grace"`
	ItAvg      *float64 `json:"it_avg"`
	ItGrace    *float64 `json:"it_grace"`
	MathsAvg   *float64 `json:"maths_avg"`
	MathsGrace *float64 `json:"maths_grace"`
	SpAvg      *float64 `json:"sp_avg"`
	SpGrace    *float64 `json:"sp_grace"`

	TotalGrace *float64 `json:"total_grace"`
	Percentage *float64 `json:"percentage"`
	EvsGrade   string   `gorm:"size:4" json:"evs_grade"`
	PeGrade    string   `gorm:"size:4" json:"pe_grade"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetSubjectScore stores the annual score and grace for the given subject code
// into its column pair. Unknown codes are ignored.
func (r *Result) SetSubjectScore(code string, annual, grace float64) {
	switch code {
	case CodeEng:
		r.EngAvg, r.EngGrace = &annual, &grace
	case CodeEco:
		r.EcoAvg, r.EcoGrace = &annual, &grace
	case CodeBk:
		r.BkAvg, r.BkGrace = &annual, &grace
	case CodeOc:
		r.OcAvg, r.OcGrace = &annual, &grace
	case CodeHindi:
		r.HindiAvg, r.HindiGrace = &annual, &grace
	case CodeIT:
		r.ItAvg, r.ItGrace = &annual, &grace
	case CodeMaths:
		r.MathsAvg, r.MathsGrace = &annual, &grace
	case CodeSP:
		r.SpAvg, r.SpGrace = &annual, &grace
	}
}

// SubjectScore returns the stored annual score and grace for the code, or
// nils when the code has no column pair or nothing is stored.
func (r *Result) SubjectScore(code string) (avg, grace *float64) {
	switch code {
	case CodeEng:
		return r.EngAvg, r.EngGrace
	case CodeEco:
		return r.EcoAvg, r.EcoGrace
	case CodeBk:
		return r.BkAvg, r.BkGrace
	case CodeOc:
		return r.OcAvg, r.OcGrace
	case CodeHindi:
		return r.HindiAvg, r.HindiGrace
	case CodeIT:
		return r.ItAvg, r.ItGrace
	case CodeMaths:
		return r.MathsAvg, r.MathsGrace
	case CodeSP:
		return r.SpAvg, r.SpGrace
	}
	return nil, nil
}

// GraceTotal sums the grace columns that feed the published total: ENG,
// HINDI, IT, MATHS, SP, BK and OC. ECO grace is excluded from this sum.
// Unset columns count as zero.
func (r *Result) GraceTotal() float64 {
	var total float64
	for _, g := range []*float64{
		r.EngGrace, r.HindiGrace, r.ItGrace,
		r.MathsGrace, r.SpGrace, r.BkGrace, r.OcGrace,
	} {
		if g != nil {
			total += *g
		}
	}
	return total
}
