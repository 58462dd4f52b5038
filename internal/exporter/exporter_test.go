package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dersplan/timetable-api/internal/domain"
)

func sampleInput() Input {
	mon0900 := domain.Slot{Day: domain.Monday, Start: 540, End: 600}
	course := domain.Course{ID: "C1", Code: "ENG101", DepartmentID: "D1", Semester: 1}
	return Input{
		AcademicYear:  "2025-2026",
		SemesterLabel: "Güz",
		Placements:    []domain.Placement{{CourseID: "C1", Slot: mon0900, RoomID: "R1", InstructorID: "I1"}},
		Courses:       map[string]domain.Course{"C1": course},
		Instructors:   map[string]domain.Instructor{"I1": {ID: "I1", DisplayName: "Dr. Aksoy"}},
		Rooms:         map[string]domain.Room{"R1": {ID: "R1", Name: "A101"}},
		Departments:   []domain.Department{{ID: "D1", Code: "CENG"}},
	}
}

func TestBuildWorkbookCreatesOneSheetPerDepartment(t *testing.T) {
	e := New()
	f, err := e.BuildWorkbook(sampleInput())
	require.NoError(t, err)
	assert.Contains(t, f.GetSheetList(), "CENG")

	cell, err := f.GetCellValue("CENG", "C3")
	require.NoError(t, err)
	assert.Contains(t, cell, "ENG101")
}

func TestBuildWorkbookReplicatesSharedCourseIntoPartnerDepartment(t *testing.T) {
	input := sampleInput()
	input.Departments = append(input.Departments, domain.Department{ID: "D2", Code: "EEE"})
	input.SharedLinks = []domain.SharedLink{{OwnerCourseID: "C1", PartnerDepartmentID: "D2"}}

	e := New()
	f, err := e.BuildWorkbook(input)
	require.NoError(t, err)
	assert.Contains(t, f.GetSheetList(), "EEE")

	cell, err := f.GetCellValue("EEE", "C3")
	require.NoError(t, err)
	assert.Contains(t, cell, "ENG101")
}

func TestBuildCSVWritesOneRowPerPlacement(t *testing.T) {
	e := New()
	out, err := e.BuildCSV(sampleInput())
	require.NoError(t, err)
	assert.Contains(t, string(out), "ENG101")
	assert.Contains(t, string(out), "A101")
}

func TestBuildPDFProducesNonEmptyDocument(t *testing.T) {
	e := New()
	out, err := e.BuildPDF(sampleInput())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}
