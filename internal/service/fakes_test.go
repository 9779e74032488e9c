package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func fptr(v float64) *float64 {
	return &v
}

// seedSubjects returns the standard catalogue with stable ids for tests.
func seedSubjects() []models.Subject {
	entries := []struct {
		code string
		name string
		typ  string
	}{
		{models.CodeEng, "English", models.SubjectTypeCore},
		{models.CodeEco, "Economics", models.SubjectTypeCore},
		{models.CodeBk, "Book Keeping & Accountancy", models.SubjectTypeCore},
		{models.CodeOc, "Organisation of Commerce", models.SubjectTypeCore},
		{models.CodeHindi, "Hindi", models.SubjectTypeOptional},
		{models.CodeIT, "Information Technology", models.SubjectTypeOptional},
		{models.CodeMaths, "Mathematics & Statistics", models.SubjectTypeOptional},
		{models.CodeSP, "Secretarial Practice", models.SubjectTypeOptional},
		{models.CodeEvs, "Environmental Studies", models.SubjectTypeCore},
		{models.CodePe, "Physical Education", models.SubjectTypeCore},
	}

	subjects := make([]models.Subject, 0, len(entries))
	for i, entry := range entries {
		subjects = append(subjects, models.Subject{
			SubjectID:   uint(i + 1),
			SubjectCode: entry.code,
			SubjectName: entry.name,
			SubjectType: entry.typ,
			Active:      true,
		})
	}

	return subjects
}

func subjectIDByCode(subjects []models.Subject, code string) uint {
	for _, subject := range subjects {
		if subject.SubjectCode == code {
			return subject.SubjectID
		}
	}
	return 0
}

type memStudents struct {
	students []models.Student
}

func (m *memStudents) List(_ context.Context, filter repository.StudentFilter) ([]models.Student, error) {
	var out []models.Student
	for _, student := range m.students {
		if filter.Division != "" && student.Division != filter.Division {
			continue
		}
		if filter.RollNo != nil && student.RollNo != *filter.RollNo {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(student.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, student)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RollNo < out[j].RollNo })
	return out, nil
}

func (m *memStudents) Get(_ context.Context, rollNo int, division string) (models.Student, error) {
	for _, student := range m.students {
		if student.RollNo == rollNo && student.Division == division {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (m *memStudents) Create(_ context.Context, student *models.Student) error {
	m.students = append(m.students, *student)
	return nil
}

func (m *memStudents) Update(_ context.Context, student *models.Student) error {
	for i, existing := range m.students {
		if existing.RollNo == student.RollNo && existing.Division == student.Division {
			m.students[i] = *student
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memStudents) Delete(_ context.Context, rollNo int, division string) error {
	for i, student := range m.students {
		if student.RollNo == rollNo && student.Division == division {
			m.students = append(m.students[:i], m.students[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memStudents) Divisions(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, student := range m.students {
		if _, ok := seen[student.Division]; ok {
			continue
		}
		seen[student.Division] = struct{}{}
		out = append(out, student.Division)
	}
	sort.Strings(out)
	return out, nil
}

type memSubjects struct {
	subjects []models.Subject
}

func (m *memSubjects) List(_ context.Context, filter repository.SubjectFilter) ([]models.Subject, error) {
	var out []models.Subject
	for _, subject := range m.subjects {
		if filter.Active != nil && subject.Active != *filter.Active {
			continue
		}
		if filter.SubjectType != "" && subject.SubjectType != filter.SubjectType {
			continue
		}
		out = append(out, subject)
	}
	return out, nil
}

func (m *memSubjects) GetByID(_ context.Context, id uint) (models.Subject, error) {
	for _, subject := range m.subjects {
		if subject.SubjectID == id {
			return subject, nil
		}
	}
	return models.Subject{}, gorm.ErrRecordNotFound
}

func (m *memSubjects) GetByCode(_ context.Context, code string) (models.Subject, error) {
	for _, subject := range m.subjects {
		if subject.SubjectCode == code {
			return subject, nil
		}
	}
	return models.Subject{}, gorm.ErrRecordNotFound
}

func (m *memSubjects) Create(_ context.Context, subject *models.Subject) error {
	if subject.SubjectID == 0 {
		subject.SubjectID = uint(len(m.subjects) + 1)
	}
	m.subjects = append(m.subjects, *subject)
	return nil
}

func (m *memSubjects) Update(_ context.Context, subject *models.Subject) error {
	for i, existing := range m.subjects {
		if existing.SubjectID == subject.SubjectID {
			m.subjects[i] = *subject
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memSubjects) Count(_ context.Context) (int64, error) {
	return int64(len(m.subjects)), nil
}

type memAllocations struct {
	allocations []models.TeacherSubjectAllocation
	nextID      uint
}

func (m *memAllocations) List(_ context.Context, filter repository.AllocationFilter) ([]models.TeacherSubjectAllocation, error) {
	var out []models.TeacherSubjectAllocation
	for _, allocation := range m.allocations {
		if filter.TeacherID != nil && allocation.TeacherID != *filter.TeacherID {
			continue
		}
		if filter.SubjectID != nil && allocation.SubjectID != *filter.SubjectID {
			continue
		}
		if filter.Division != "" && allocation.Division != filter.Division {
			continue
		}
		out = append(out, allocation)
	}
	return out, nil
}

func (m *memAllocations) GetByID(_ context.Context, id uint) (models.TeacherSubjectAllocation, error) {
	for _, allocation := range m.allocations {
		if allocation.AllocationID == id {
			return allocation, nil
		}
	}
	return models.TeacherSubjectAllocation{}, gorm.ErrRecordNotFound
}

func (m *memAllocations) Exists(_ context.Context, teacherID, subjectID uint, division string) (bool, error) {
	for _, allocation := range m.allocations {
		if allocation.TeacherID == teacherID && allocation.SubjectID == subjectID && allocation.Division == division {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAllocations) ExistsForDivision(_ context.Context, teacherID uint, division string) (bool, error) {
	for _, allocation := range m.allocations {
		if allocation.TeacherID == teacherID && allocation.Division == division {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAllocations) Create(_ context.Context, allocation *models.TeacherSubjectAllocation) error {
	m.nextID++
	allocation.AllocationID = m.nextID
	m.allocations = append(m.allocations, *allocation)
	return nil
}

func (m *memAllocations) Delete(_ context.Context, id uint) error {
	for i, allocation := range m.allocations {
		if allocation.AllocationID == id {
			m.allocations = append(m.allocations[:i], m.allocations[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type memMarks struct {
	marks  []models.Mark
	nextID uint
}

func (m *memMarks) List(_ context.Context, filter repository.MarkFilter) ([]models.Mark, error) {
	var out []models.Mark
	for _, mark := range m.marks {
		if filter.Division != "" && mark.Division != filter.Division {
			continue
		}
		if filter.RollNo != nil && mark.RollNo != *filter.RollNo {
			continue
		}
		if filter.SubjectID != nil && mark.SubjectID != *filter.SubjectID {
			continue
		}
		out = append(out, mark)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RollNo != out[j].RollNo {
			return out[i].RollNo < out[j].RollNo
		}
		return out[i].SubjectID < out[j].SubjectID
	})
	return out, nil
}

func (m *memMarks) GetByID(_ context.Context, id uint) (models.Mark, error) {
	for _, mark := range m.marks {
		if mark.MarkID == id {
			return mark, nil
		}
	}
	return models.Mark{}, gorm.ErrRecordNotFound
}

func (m *memMarks) GetByEntry(_ context.Context, rollNo int, division string, subjectID uint) (models.Mark, error) {
	for _, mark := range m.marks {
		if mark.RollNo == rollNo && mark.Division == division && mark.SubjectID == subjectID {
			return mark, nil
		}
	}
	return models.Mark{}, gorm.ErrRecordNotFound
}

func (m *memMarks) Create(_ context.Context, mark *models.Mark) error {
	m.nextID++
	mark.MarkID = m.nextID
	m.marks = append(m.marks, *mark)
	return nil
}

func (m *memMarks) Update(_ context.Context, mark *models.Mark) error {
	for i, existing := range m.marks {
		if existing.MarkID == mark.MarkID {
			m.marks[i] = *mark
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memMarks) Delete(_ context.Context, id uint) error {
	for i, mark := range m.marks {
		if mark.MarkID == id {
			m.marks = append(m.marks[:i], m.marks[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type memResults struct {
	rows      map[string]models.Result
	saveCalls int
}

func newMemResults() *memResults {
	return &memResults{rows: make(map[string]models.Result)}
}

func resultKey(rollNo int, division string) string {
	return fmt.Sprintf("%s/%d", division, rollNo)
}

func (m *memResults) ListByDivision(_ context.Context, division string) ([]models.Result, error) {
	var out []models.Result
	for _, row := range m.rows {
		if row.Division == division {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RollNo < out[j].RollNo })
	return out, nil
}

func (m *memResults) Get(_ context.Context, rollNo int, division string) (models.Result, error) {
	row, ok := m.rows[resultKey(rollNo, division)]
	if !ok {
		return models.Result{}, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (m *memResults) SaveAll(_ context.Context, results []models.Result) error {
	m.saveCalls++
	for _, row := range results {
		m.rows[resultKey(row.RollNo, row.Division)] = row
	}
	return nil
}

type memInvalidations struct {
	divisions []string
}

func (m *memInvalidations) InvalidateDivision(_ context.Context, division string) {
	m.divisions = append(m.divisions, division)
}

type memTeachers struct {
	teachers []models.Teacher
	nextID   uint
}

func (m *memTeachers) List(_ context.Context) ([]models.Teacher, error) {
	out := make([]models.Teacher, len(m.teachers))
	copy(out, m.teachers)
	sort.Slice(out, func(i, j int) bool { return out[i].TeacherID < out[j].TeacherID })
	return out, nil
}

func (m *memTeachers) GetByID(_ context.Context, id uint) (models.Teacher, error) {
	for _, teacher := range m.teachers {
		if teacher.TeacherID == id {
			return teacher, nil
		}
	}
	return models.Teacher{}, gorm.ErrRecordNotFound
}

func (m *memTeachers) GetByUserID(_ context.Context, userID string) (models.Teacher, error) {
	for _, teacher := range m.teachers {
		if teacher.UserID == userID {
			return teacher, nil
		}
	}
	return models.Teacher{}, gorm.ErrRecordNotFound
}

func (m *memTeachers) Create(_ context.Context, teacher *models.Teacher) error {
	m.nextID++
	teacher.TeacherID = m.nextID
	m.teachers = append(m.teachers, *teacher)
	return nil
}

func (m *memTeachers) Update(_ context.Context, teacher *models.Teacher) error {
	for i, existing := range m.teachers {
		if existing.TeacherID == teacher.TeacherID {
			m.teachers[i] = *teacher
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memTeachers) Delete(_ context.Context, id uint) error {
	for i, teacher := range m.teachers {
		if teacher.TeacherID == id {
			m.teachers = append(m.teachers[:i], m.teachers[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
