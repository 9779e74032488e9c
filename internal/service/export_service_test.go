package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
)

type exportFixture struct {
	students    *memStudents
	subjects    *memSubjects
	allocations *memAllocations
	marks       *memMarks
	results     *memResults
	teachers    *memTeachers
	svc         ExportService
}

func newExportFixture() *exportFixture {
	f := &exportFixture{
		students:    &memStudents{},
		subjects:    &memSubjects{subjects: seedSubjects()},
		allocations: &memAllocations{},
		marks:       &memMarks{},
		results:     newMemResults(),
		teachers:    &memTeachers{},
	}
	engine := NewResultService(f.students, f.subjects, f.allocations, f.marks, f.results, testLogger())
	f.svc = NewExportService(f.students, f.subjects, f.marks, f.teachers, engine, testLogger())
	return f
}

func (f *exportFixture) addStudent(rollNo int, division, name, optional1, optional2 string) {
	f.students.Create(context.Background(), &models.Student{
		RollNo:           rollNo,
		Division:         division,
		Name:             name,
		OptionalSubject:  optional1,
		OptionalSubject2: optional2,
	})
}

func (f *exportFixture) addMark(rollNo int, division, code string, mark models.Mark) {
	mark.RollNo = rollNo
	mark.Division = division
	mark.SubjectID = subjectIDByCode(f.subjects.subjects, code)
	f.marks.Create(context.Background(), &mark)
}

func cellValue(t *testing.T, file *excelize.File, sheet, ref string) string {
	t.Helper()
	value, err := file.GetCellValue(sheet, ref)
	require.NoError(t, err)
	return value
}

func TestExportServiceStudentWorkbook(t *testing.T) {
	f := newExportFixture()
	f.teachers.Create(context.Background(), &models.Teacher{Name: "Sunita Rao", UserID: "sunita", Role: models.RoleTeacher, Active: true})
	f.addStudent(101, "A", "Asha Verma", models.CodeHindi, models.CodeMaths)
	f.addMark(101, "A", models.CodeEng, models.Mark{
		Unit1: fptr(20), Unit2: fptr(18), Term: fptr(40), Annual: fptr(80),
		Tot: 158, SubAvg: 79, Grace: 2, EnteredBy: 1,
	})

	export, err := f.svc.StudentWorkbook(context.Background(), 101, "a")
	require.NoError(t, err)
	require.Equal(t, "student_101_A.xlsx", export.Filename)

	const sheet = "Marks"
	require.Equal(t, "Roll", cellValue(t, export.File, sheet, "A1"))
	require.Equal(t, "Entered By", cellValue(t, export.File, sheet, "M1"))

	// One row per taken subject, alphabetical: BK, ECO, ENG, EVS, HINDI,
	// MATHS, OC, PE. ENG lands on row 4.
	require.Equal(t, "BK", cellValue(t, export.File, sheet, "C2"))
	require.Equal(t, "ENG", cellValue(t, export.File, sheet, "C4"))
	require.Equal(t, "PE", cellValue(t, export.File, sheet, "C9"))

	require.Equal(t, "101", cellValue(t, export.File, sheet, "A4"))
	require.Equal(t, "Asha Verma", cellValue(t, export.File, sheet, "B4"))
	require.Equal(t, "20", cellValue(t, export.File, sheet, "E4"))
	require.Equal(t, "80", cellValue(t, export.File, sheet, "H4"))
	require.Equal(t, "158", cellValue(t, export.File, sheet, "I4"))
	require.Equal(t, "79", cellValue(t, export.File, sheet, "J4"))
	require.Equal(t, "2", cellValue(t, export.File, sheet, "K4"))
	require.Equal(t, "81", cellValue(t, export.File, sheet, "L4"))
	require.Equal(t, "Sunita Rao", cellValue(t, export.File, sheet, "M4"))

	// Subjects without marks keep their score cells empty.
	require.Equal(t, "", cellValue(t, export.File, sheet, "E2"))

	_, err = f.svc.StudentWorkbook(context.Background(), 999, "A")
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestExportServiceCompleteWorkbook(t *testing.T) {
	f := newExportFixture()
	f.addStudent(101, "A", "Asha Verma", models.CodeHindi, models.CodeMaths)
	f.addStudent(102, "A", "Rohan Pillai", "", "")
	f.addMark(101, "A", models.CodeEng, models.Mark{
		Unit1: fptr(20), Unit2: fptr(18), Term: fptr(40), Annual: fptr(80), Grace: 2,
	})

	export, err := f.svc.CompleteWorkbook(context.Background(), "A", nil)
	require.NoError(t, err)
	require.Equal(t, "complete_results_A.xlsx", export.Filename)

	const sheet = "Complete Results"
	rows, err := export.File.GetRows(sheet)
	require.NoError(t, err)
	// Header plus 8 subjects for Asha and 6 cores for Rohan.
	require.Len(t, rows, 15)

	require.Equal(t, []string{
		"Roll", "Student Name", "Subject", "Division", "Unit1", "Term", "Unit2", "Annual", "Grace",
	}, rows[0])

	// Asha's ENG row sits third in her alphabetical block. This layout swaps
	// Term ahead of Unit2.
	require.Equal(t, "ENG", cellValue(t, export.File, sheet, "C4"))
	require.Equal(t, "20", cellValue(t, export.File, sheet, "E4"))
	require.Equal(t, "40", cellValue(t, export.File, sheet, "F4"))
	require.Equal(t, "18", cellValue(t, export.File, sheet, "G4"))
	require.Equal(t, "80", cellValue(t, export.File, sheet, "H4"))
	require.Equal(t, "2", cellValue(t, export.File, sheet, "I4"))

	require.Equal(t, "102", cellValue(t, export.File, sheet, "A10"))
	require.Equal(t, "BK", cellValue(t, export.File, sheet, "C10"))

	roll := 101
	export, err = f.svc.CompleteWorkbook(context.Background(), "A", &roll)
	require.NoError(t, err)
	require.Equal(t, "complete_results_A_roll_101.xlsx", export.Filename)
	rows, err = export.File.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 9)

	missing := 999
	_, err = f.svc.CompleteWorkbook(context.Background(), "A", &missing)
	require.ErrorIs(t, err, ErrStudentNotFound)

	_, err = f.svc.CompleteWorkbook(context.Background(), "Z", nil)
	require.ErrorIs(t, err, ErrNoStudents)
}

func TestExportServiceDivisionWorkbook(t *testing.T) {
	f := newExportFixture()
	f.teachers.Create(context.Background(), &models.Teacher{Name: "Sunita Rao", UserID: "sunita", Role: models.RoleTeacher, Active: true})
	f.addStudent(101, "A", "Asha Verma", "", "")
	f.addMark(101, "A", models.CodeEng, models.Mark{Annual: fptr(64), EnteredBy: 1})

	export, err := f.svc.DivisionWorkbook(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, "division_A_marks.xlsx", export.Filename)

	const sheet = "Marks"
	require.Equal(t, "Entered By", cellValue(t, export.File, sheet, "J1"))

	// Six core rows; ENG is third.
	require.Equal(t, "ENG", cellValue(t, export.File, sheet, "C4"))
	require.Equal(t, "64", cellValue(t, export.File, sheet, "H4"))
	require.Equal(t, "Sunita Rao", cellValue(t, export.File, sheet, "J4"))

	_, err = f.svc.DivisionWorkbook(context.Background(), "Z")
	require.ErrorIs(t, err, ErrNoStudents)
}

func TestExportServiceMarksheetWorkbook(t *testing.T) {
	f := newExportFixture()
	f.addStudent(101, "A", "Asha Verma", models.CodeHindi, models.CodeMaths)
	f.addMark(101, "A", models.CodeEng, models.Mark{
		Unit1: fptr(20), Unit2: fptr(18), Term: fptr(40), Annual: fptr(80),
		Tot: 158, SubAvg: 79, Grace: 2,
	})
	f.addMark(101, "A", models.CodeMaths, models.Mark{
		Unit1: fptr(22), Term: fptr(35), Annual: fptr(70), Tot: 127, SubAvg: 63.5,
	})

	export, err := f.svc.MarksheetWorkbook(context.Background(), "A")
	require.NoError(t, err)
	require.Equal(t, "marksheet_div_A.xlsx", export.Filename)

	const sheet = "Marksheet"
	require.Equal(t, "SIES COLLEGE OF COMMERCE, NERUL", cellValue(t, export.File, sheet, "A1"))
	require.Contains(t, cellValue(t, export.File, sheet, "A2"), "FYJC (DIV A) MARKSHEET")

	// Five subject blocks of eight columns each, starting at C.
	require.Equal(t, "ROLL NO", cellValue(t, export.File, sheet, "A4"))
	require.Equal(t, "ENGLISH", cellValue(t, export.File, sheet, "C4"))
	require.Equal(t, "OC", cellValue(t, export.File, sheet, "K4"))
	require.Equal(t, "SP / MATHS", cellValue(t, export.File, sheet, "S4"))
	require.Equal(t, "ECONOMICS", cellValue(t, export.File, sheet, "AA4"))
	require.Equal(t, "B.K. & A/C", cellValue(t, export.File, sheet, "AI4"))

	require.Equal(t, "UNIT I", cellValue(t, export.File, sheet, "C5"))
	require.Equal(t, "GRACE", cellValue(t, export.File, sheet, "J5"))

	// Max marks row.
	require.Equal(t, "25", cellValue(t, export.File, sheet, "C6"))
	require.Equal(t, "50", cellValue(t, export.File, sheet, "D6"))
	require.Equal(t, "80", cellValue(t, export.File, sheet, "G6"))
	require.Equal(t, "200", cellValue(t, export.File, sheet, "H6"))
	require.Equal(t, "100", cellValue(t, export.File, sheet, "I6"))

	// First student on row 7. ENG block: UNIT I, TERM I, UNIT II, blank INT,
	// ANNUAL, TOT, AVG, GRACE.
	require.Equal(t, "101", cellValue(t, export.File, sheet, "A7"))
	require.Equal(t, "20", cellValue(t, export.File, sheet, "C7"))
	require.Equal(t, "40", cellValue(t, export.File, sheet, "D7"))
	require.Equal(t, "18", cellValue(t, export.File, sheet, "E7"))
	require.Equal(t, "", cellValue(t, export.File, sheet, "F7"))
	require.Equal(t, "80", cellValue(t, export.File, sheet, "G7"))
	require.Equal(t, "158", cellValue(t, export.File, sheet, "H7"))
	require.Equal(t, "79", cellValue(t, export.File, sheet, "I7"))
	require.Equal(t, "2", cellValue(t, export.File, sheet, "J7"))

	// The elective block resolves to the student's own choice.
	require.Equal(t, "22", cellValue(t, export.File, sheet, "S7"))
	require.Equal(t, "70", cellValue(t, export.File, sheet, "W7"))

	_, err = f.svc.MarksheetWorkbook(context.Background(), "Z")
	require.ErrorIs(t, err, ErrNoStudents)
}
