package service

import (
	"math"
	"strings"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
)

// coreSubjectCodes is the fixed core scoring set, and doubles as the fallback
// required set for divisions without any usable allocation.
var coreSubjectCodes = []string{models.CodeEng, models.CodeEco, models.CodeBk, models.CodeOc}

// gradeBand maps a minimum annual score to its letter.
type gradeBand struct {
	min    float64
	letter string
}

// Bands for grade-only subjects, highest first.
var gradeBands = []gradeBand{
	{min: 75, letter: "A+"},
	{min: 60, letter: "A"},
	{min: 50, letter: "B"},
	{min: 35, letter: "C"},
}

// LetterGrade maps an annual exam score to the letter scale used for
// grade-only subjects. Scores below every band fail.
func LetterGrade(score float64) string {
	for _, band := range gradeBands {
		if score >= band.min {
			return band.letter
		}
	}

	return "F"
}

// requiredBaseCodes derives the division-wide required subject codes from its
// allocations: allocated codes minus electives and grade-only subjects,
// deduplicated in first-seen order. Divisions without a usable allocation
// fall back to the standard core set.
func requiredBaseCodes(allocations []models.TeacherSubjectAllocation, codeByID map[uint]string) []string {
	var codes []string
	seen := make(map[string]struct{})

	for _, allocation := range allocations {
		code, ok := codeByID[allocation.SubjectID]
		if !ok || code == "" {
			continue
		}
		if models.IsGradeOnly(code) || models.IsOptionalCode(code) {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}

	if len(codes) == 0 {
		return append([]string(nil), coreSubjectCodes...)
	}

	return codes
}

// requiredCodesFor appends the student's chosen electives to the division
// base set.
func requiredCodesFor(student models.Student, base []string) []string {
	return append(append([]string(nil), base...), student.OptionalCodes()...)
}

// round2 rounds to two decimals, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// normalizeDivision canonicalizes division values at the service boundary
// so "a " and "A" address the same division everywhere downstream.
func normalizeDivision(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
