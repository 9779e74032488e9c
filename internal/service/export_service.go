package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/repository"
)

// ErrNoStudents indicates an export target division has no students.
var ErrNoStudents = errors.New("no students found for division")

// ExportFile couples a built workbook with its download name.
type ExportFile struct {
	File     *excelize.File
	Filename string
}

// ExportService renders mark and result spreadsheets.
type ExportService interface {
	StudentWorkbook(ctx context.Context, rollNo int, division string) (ExportFile, error)
	CompleteWorkbook(ctx context.Context, division string, rollNo *int) (ExportFile, error)
	DivisionWorkbook(ctx context.Context, division string) (ExportFile, error)
	MarksheetWorkbook(ctx context.Context, division string) (ExportFile, error)
}

type exportService struct {
	students repository.StudentRepository
	subjects repository.SubjectRepository
	marks    repository.MarkRepository
	teachers repository.TeacherRepository
	engine   ResultService
	logger   zerolog.Logger
}

// NewExportService constructs the export service.
func NewExportService(students repository.StudentRepository, subjects repository.SubjectRepository, marks repository.MarkRepository, teachers repository.TeacherRepository, engine ResultService, logger zerolog.Logger) ExportService {
	return &exportService{
		students: students,
		subjects: subjects,
		marks:    marks,
		teachers: teachers,
		engine:   engine,
		logger:   logger.With().Str("component", "export_service").Logger(),
	}
}

// StudentWorkbook renders one student's per-subject mark rows.
func (s *exportService) StudentWorkbook(ctx context.Context, rollNo int, division string) (ExportFile, error) {
	division = normalizeDivision(division)

	student, err := s.students.Get(ctx, rollNo, division)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ExportFile{}, ErrStudentNotFound
		}
		return ExportFile{}, err
	}

	subjects, err := s.takenSubjects(ctx, student)
	if err != nil {
		return ExportFile{}, err
	}

	marks, err := s.marks.List(ctx, repository.MarkFilter{Division: division, RollNo: &rollNo})
	if err != nil {
		return ExportFile{}, err
	}
	bySubject := make(map[uint]models.Mark, len(marks))
	for _, mark := range marks {
		bySubject[mark.SubjectID] = mark
	}

	file := excelize.NewFile()
	const sheet = "Marks"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return ExportFile{}, err
	}

	writeHeaderRow(file, sheet, 1, []string{
		"Roll", "Student Name", "Subject", "Division",
		"Unit1", "Unit2", "Term", "Annual", "Tot", "Sub_Avg", "Grace", "Final", "Entered By",
	})

	teacherNames := map[uint]string{}
	for i, subject := range subjects {
		row := i + 2
		setCell(file, sheet, 1, row, student.RollNo)
		setCell(file, sheet, 2, row, student.Name)
		setCell(file, sheet, 3, row, subject.SubjectCode)
		setCell(file, sheet, 4, row, student.Division)

		mark, ok := bySubject[subject.SubjectID]
		if !ok {
			continue
		}
		setCellFloat(file, sheet, 5, row, mark.Unit1)
		setCellFloat(file, sheet, 6, row, mark.Unit2)
		setCellFloat(file, sheet, 7, row, mark.Term)
		setCellFloat(file, sheet, 8, row, mark.Annual)
		setCell(file, sheet, 9, row, mark.Tot)
		setCell(file, sheet, 10, row, mark.SubAvg)
		setCell(file, sheet, 11, row, mark.Grace)
		setCell(file, sheet, 12, row, mark.SubAvg+mark.Grace)
		setCell(file, sheet, 13, row, s.teacherName(ctx, teacherNames, mark.EnteredBy))
	}

	return ExportFile{
		File:     file,
		Filename: fmt.Sprintf("student_%d_%s.xlsx", rollNo, division),
	}, nil
}

// CompleteWorkbook renders the merged results sheet, one row per
// student-subject pair, in the fixed column order the office expects.
func (s *exportService) CompleteWorkbook(ctx context.Context, division string, rollNo *int) (ExportFile, error) {
	division = normalizeDivision(division)

	filter := repository.StudentFilter{Division: division, RollNo: rollNo}
	students, err := s.students.List(ctx, filter)
	if err != nil {
		return ExportFile{}, err
	}
	if len(students) == 0 {
		if rollNo != nil {
			return ExportFile{}, ErrStudentNotFound
		}
		return ExportFile{}, ErrNoStudents
	}

	divisions := make(map[string]struct{})
	for _, student := range students {
		divisions[student.Division] = struct{}{}
	}
	for d := range divisions {
		s.recompute(ctx, d)
	}

	subjects, err := s.activeSubjects(ctx)
	if err != nil {
		return ExportFile{}, err
	}
	markLookup, err := s.markLookup(ctx, divisions)
	if err != nil {
		return ExportFile{}, err
	}

	file := excelize.NewFile()
	const sheet = "Complete Results"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return ExportFile{}, err
	}

	writeHeaderRow(file, sheet, 1, []string{
		"Roll", "Student Name", "Subject", "Division", "Unit1", "Term", "Unit2", "Annual", "Grace",
	})

	row := 2
	for _, student := range students {
		for _, subject := range takenOf(subjects, student) {
			setCell(file, sheet, 1, row, student.RollNo)
			setCell(file, sheet, 2, row, student.Name)
			setCell(file, sheet, 3, row, subject.SubjectCode)
			setCell(file, sheet, 4, row, student.Division)
			if mark, ok := markLookup[markKey{student.RollNo, student.Division, subject.SubjectID}]; ok {
				setCellFloat(file, sheet, 5, row, mark.Unit1)
				setCellFloat(file, sheet, 6, row, mark.Term)
				setCellFloat(file, sheet, 7, row, mark.Unit2)
				setCellFloat(file, sheet, 8, row, mark.Annual)
				setCell(file, sheet, 9, row, mark.Grace)
			}
			row++
		}
	}

	filename := "complete_results"
	if division != "" {
		filename += "_" + division
	}
	if rollNo != nil {
		filename += fmt.Sprintf("_roll_%d", *rollNo)
	}
	filename += ".xlsx"

	return ExportFile{File: file, Filename: filename}, nil
}

// DivisionWorkbook renders every mark row for a division.
func (s *exportService) DivisionWorkbook(ctx context.Context, division string) (ExportFile, error) {
	division = normalizeDivision(division)

	students, err := s.students.List(ctx, repository.StudentFilter{Division: division})
	if err != nil {
		return ExportFile{}, err
	}
	if len(students) == 0 {
		return ExportFile{}, ErrNoStudents
	}

	subjects, err := s.activeSubjects(ctx)
	if err != nil {
		return ExportFile{}, err
	}
	markLookup, err := s.markLookup(ctx, map[string]struct{}{division: {}})
	if err != nil {
		return ExportFile{}, err
	}

	file := excelize.NewFile()
	const sheet = "Marks"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return ExportFile{}, err
	}

	writeHeaderRow(file, sheet, 1, []string{
		"Roll", "Student Name", "Subject", "Division", "Unit1", "Unit2", "Term", "Annual", "Grace", "Entered By",
	})

	teacherNames := map[uint]string{}
	row := 2
	for _, student := range students {
		for _, subject := range takenOf(subjects, student) {
			setCell(file, sheet, 1, row, student.RollNo)
			setCell(file, sheet, 2, row, student.Name)
			setCell(file, sheet, 3, row, subject.SubjectCode)
			setCell(file, sheet, 4, row, student.Division)
			if mark, ok := markLookup[markKey{student.RollNo, student.Division, subject.SubjectID}]; ok {
				setCellFloat(file, sheet, 5, row, mark.Unit1)
				setCellFloat(file, sheet, 6, row, mark.Unit2)
				setCellFloat(file, sheet, 7, row, mark.Term)
				setCellFloat(file, sheet, 8, row, mark.Annual)
				setCell(file, sheet, 9, row, mark.Grace)
				setCell(file, sheet, 10, row, s.teacherName(ctx, teacherNames, mark.EnteredBy))
			}
			row++
		}
	}

	return ExportFile{
		File:     file,
		Filename: fmt.Sprintf("division_%s_marks.xlsx", division),
	}, nil
}

// marksheetBlocks is the fixed print order of subject blocks. The
// "SP / MATHS" block resolves per student's elective choice.
var marksheetBlocks = []struct {
	Label      string
	Candidates []string
}{
	{Label: "ENGLISH", Candidates: []string{models.CodeEng}},
	{Label: "OC", Candidates: []string{models.CodeOc}},
	{Label: "SP / MATHS", Candidates: []string{models.CodeSP, models.CodeMaths}},
	{Label: "ECONOMICS", Candidates: []string{models.CodeEco}},
	{Label: "B.K. & A/C", Candidates: []string{models.CodeBk}},
}

// marksheetColumns are the internal columns inside every subject block.
// INT stays blank: the internal component is not captured by mark entry.
var marksheetColumns = []string{"UNIT I", "TERM I", "UNIT II", "INT", "ANNUAL", "TOT", "AVG", "GRACE"}

// MarksheetWorkbook renders the printable division marksheet with merged
// headers, fixed subject blocks and a max-marks row.
func (s *exportService) MarksheetWorkbook(ctx context.Context, division string) (ExportFile, error) {
	division = normalizeDivision(division)

	s.recompute(ctx, division)

	students, err := s.students.List(ctx, repository.StudentFilter{Division: division})
	if err != nil {
		return ExportFile{}, err
	}
	if len(students) == 0 {
		return ExportFile{}, ErrNoStudents
	}

	subjects, err := s.activeSubjects(ctx)
	if err != nil {
		return ExportFile{}, err
	}
	byCode := make(map[string]models.Subject, len(subjects))
	for _, subject := range subjects {
		byCode[subject.SubjectCode] = subject
	}
	markLookup, err := s.markLookup(ctx, map[string]struct{}{division: {}})
	if err != nil {
		return ExportFile{}, err
	}

	file := excelize.NewFile()
	const sheet = "Marksheet"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return ExportFile{}, err
	}

	blockWidth := len(marksheetColumns)
	totalCols := 2 + len(marksheetBlocks)*blockWidth
	lastCol, err := excelize.ColumnNumberToName(totalCols)
	if err != nil {
		return ExportFile{}, err
	}

	titleStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return ExportFile{}, err
	}
	rightStyle, err := file.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return ExportFile{}, err
	}
	centerStyle, err := file.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return ExportFile{}, err
	}

	mustMerge := func(topLeft, bottomRight string) {
		_ = file.MergeCell(sheet, topLeft, bottomRight)
	}

	mustMerge("A1", lastCol+"1")
	setCell(file, sheet, 1, 1, "SIES COLLEGE OF COMMERCE, NERUL")
	_ = file.SetCellStyle(sheet, "A1", "A1", titleStyle)

	mustMerge("A2", lastCol+"2")
	setCell(file, sheet, 1, 2, fmt.Sprintf("FYJC (DIV %s) MARKSHEET – 2024–2025", division))
	_ = file.SetCellStyle(sheet, "A2", "A2", titleStyle)

	setCell(file, sheet, totalCols, 3, "B.K. & A/C")
	_ = file.SetCellStyle(sheet, lastCol+"3", lastCol+"3", rightStyle)

	mustMerge("A4", "A5")
	setCell(file, sheet, 1, 4, "ROLL NO")
	_ = file.SetCellStyle(sheet, "A4", "A4", titleStyle)
	mustMerge("B4", "B5")
	setCell(file, sheet, 2, 4, "STUDENT NAME")
	_ = file.SetCellStyle(sheet, "B4", "B4", titleStyle)

	for i, block := range marksheetBlocks {
		start := 3 + i*blockWidth
		startName, err := excelize.ColumnNumberToName(start)
		if err != nil {
			return ExportFile{}, err
		}
		endName, err := excelize.ColumnNumberToName(start + blockWidth - 1)
		if err != nil {
			return ExportFile{}, err
		}
		mustMerge(startName+"4", endName+"4")
		setCell(file, sheet, start, 4, block.Label)
		_ = file.SetCellStyle(sheet, startName+"4", startName+"4", titleStyle)

		for j, header := range marksheetColumns {
			setCell(file, sheet, start+j, 5, header)
		}
		_ = file.SetCellStyle(sheet, startName+"5", endName+"5", titleStyle)
	}

	// Max-marks row. The TOT column carries the 200-point raw total and
	// AVG its normalized 100. Grace has no maximum to print.
	maxValues := []interface{}{25.0, 50.0, 25.0, 20.0, 80.0, 200.0, 100.0, nil}
	for i := range marksheetBlocks {
		start := 3 + i*blockWidth
		for j, value := range maxValues {
			if value == nil {
				continue
			}
			setCell(file, sheet, start+j, 6, value)
		}
	}

	for idx, student := range students {
		row := 7 + idx
		setCell(file, sheet, 1, row, student.RollNo)
		setCell(file, sheet, 2, row, student.Name)

		for i, block := range marksheetBlocks {
			start := 3 + i*blockWidth
			subject, ok := resolveBlockSubject(block.Candidates, student, byCode)
			if !ok {
				continue
			}
			mark, ok := markLookup[markKey{student.RollNo, student.Division, subject.SubjectID}]
			if !ok {
				continue
			}

			setCellFloat(file, sheet, start, row, mark.Unit1)
			setCellFloat(file, sheet, start+1, row, mark.Term)
			setCellFloat(file, sheet, start+2, row, mark.Unit2)
			// start+3 is INT, always blank
			setCellFloat(file, sheet, start+4, row, mark.Annual)

			tot := mark.Tot
			if tot == 0 {
				tot = sumComponents(mark)
			}
			avg := mark.SubAvg
			if avg == 0 {
				avg = round2(tot / 2)
			}
			setCell(file, sheet, start+5, row, tot)
			setCell(file, sheet, start+6, row, avg)
			setCell(file, sheet, start+7, row, mark.Grace)
		}
	}

	lastRow := 6 + len(students)
	_ = file.SetCellStyle(sheet, "C6", fmt.Sprintf("%s%d", lastCol, lastRow), centerStyle)

	return ExportFile{
		File:     file,
		Filename: fmt.Sprintf("marksheet_div_%s.xlsx", division),
	}, nil
}

// resolveBlockSubject picks the subject backing a marksheet block. For the
// elective block the student's own choice wins, then any candidate present
// in the catalogue.
func resolveBlockSubject(candidates []string, student models.Student, byCode map[string]models.Subject) (models.Subject, bool) {
	for _, chosen := range []string{student.OptionalSubject, student.OptionalSubject2} {
		if chosen == "" {
			continue
		}
		for _, candidate := range candidates {
			if chosen == candidate {
				if subject, ok := byCode[candidate]; ok {
					return subject, true
				}
			}
		}
	}
	for _, candidate := range candidates {
		if subject, ok := byCode[candidate]; ok {
			return subject, true
		}
	}
	return models.Subject{}, false
}

type markKey struct {
	RollNo    int
	Division  string
	SubjectID uint
}

func (s *exportService) markLookup(ctx context.Context, divisions map[string]struct{}) (map[markKey]models.Mark, error) {
	lookup := make(map[markKey]models.Mark)
	for division := range divisions {
		marks, err := s.marks.List(ctx, repository.MarkFilter{Division: division})
		if err != nil {
			return nil, err
		}
		for _, mark := range marks {
			lookup[markKey{mark.RollNo, mark.Division, mark.SubjectID}] = mark
		}
	}
	return lookup, nil
}

// activeSubjects returns the active catalogue ordered by code.
func (s *exportService) activeSubjects(ctx context.Context) ([]models.Subject, error) {
	active := true
	subjects, err := s.subjects.List(ctx, repository.SubjectFilter{Active: &active})
	if err != nil {
		return nil, err
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].SubjectCode < subjects[j].SubjectCode })
	return subjects, nil
}

// takenSubjects resolves the subjects one student takes, code-ordered.
func (s *exportService) takenSubjects(ctx context.Context, student models.Student) ([]models.Subject, error) {
	subjects, err := s.activeSubjects(ctx)
	if err != nil {
		return nil, err
	}
	return takenOf(subjects, student), nil
}

// takenOf filters an already code-ordered catalogue down to the core
// subjects plus the student's electives.
func takenOf(subjects []models.Subject, student models.Student) []models.Subject {
	chosen := make(map[string]struct{})
	for _, code := range student.OptionalCodes() {
		chosen[code] = struct{}{}
	}

	taken := make([]models.Subject, 0, len(subjects))
	for _, subject := range subjects {
		if subject.SubjectType == models.SubjectTypeCore {
			taken = append(taken, subject)
			continue
		}
		if _, ok := chosen[subject.SubjectCode]; ok {
			taken = append(taken, subject)
		}
	}
	return taken
}

func (s *exportService) teacherName(ctx context.Context, cache map[uint]string, teacherID uint) string {
	if teacherID == 0 {
		return ""
	}
	if name, ok := cache[teacherID]; ok {
		return name
	}
	name := ""
	if teacher, err := s.teachers.GetByID(ctx, teacherID); err == nil {
		name = teacher.Name
	}
	cache[teacherID] = name
	return name
}

func (s *exportService) recompute(ctx context.Context, division string) {
	if s.engine == nil {
		return
	}
	if err := s.engine.Recompute(ctx, division); err != nil {
		s.logger.Warn().Err(err).Str("division", division).Msg("result recompute failed")
	}
}

func writeHeaderRow(file *excelize.File, sheet string, row int, headers []string) {
	for i, header := range headers {
		setCell(file, sheet, i+1, row, header)
	}
}

func setCell(file *excelize.File, sheet string, col, row int, value interface{}) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return
	}
	_ = file.SetCellValue(sheet, cell, value)
}

func setCellFloat(file *excelize.File, sheet string, col, row int, value *float64) {
	if value == nil {
		return
	}
	setCell(file, sheet, col, row, *value)
}
