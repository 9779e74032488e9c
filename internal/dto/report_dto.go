package dto

// GenerateRequest asks for an explicit recompute of one division.
type GenerateRequest struct {
	Division string `json:"division" validate:"required,max=8"`
}

// ResultSubjectEntry is one subject cell inside a report row. Scored
// subjects carry avg/grace/final; EVS and PE carry a letter grade instead.
// The raw mark breakdown rides along when a mark row exists.
type ResultSubjectEntry struct {
	Code  string      `json:"code"`
	Avg   *float64    `json:"avg"`
	Grace *float64    `json:"grace"`
	Final *float64    `json:"final"`
	Grade string      `json:"grade,omitempty"`
	Mark  *MarkDetail `json:"mark,omitempty"`
}

// ResultRow is one student's line in the division report. final_total is
// the display sum of per-subject finals and only appears once the engine
// has produced a percentage.
type ResultRow struct {
	Seq        int                  `json:"seq"`
	RollNo     int                  `json:"roll_no"`
	Name       string               `json:"name"`
	Division   string               `json:"division"`
	Subjects   []ResultSubjectEntry `json:"subjects"`
	TotalAvg   float64              `json:"total_avg"`
	TotalGrace float64              `json:"total_grace"`
	FinalTotal *float64             `json:"final_total"`
	Percentage *float64             `json:"percentage"`
}
