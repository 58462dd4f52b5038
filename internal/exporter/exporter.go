// Package exporter turns a stored ledger into the three output formats
// SPEC_FULL.md §6 names: an XLSX weekly grid (one sheet per department), a
// flat CSV dump, and a printable PDF summary.
package exporter

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/timegrid"
	pkgexport "github.com/dersplan/timetable-api/pkg/export"
)

// Input bundles a ledger with the lookup tables needed to render human
// names instead of bare ids, plus the shared-course links needed to
// replicate a placement into every partner department's sheet.
type Input struct {
	AcademicYear  string
	SemesterLabel string
	Placements    []domain.Placement
	Courses       map[string]domain.Course
	Instructors   map[string]domain.Instructor
	Rooms         map[string]domain.Room
	Departments   []domain.Department
	SharedLinks   []domain.SharedLink
}

// cell is one occupied (department, year, slot) entry rendered into a grid.
type cell struct {
	CourseCode     string
	InstructorName string
	RoomOrOnline   string
	SemesterLabel  string
}

// Exporter renders a ledger into weekly-grid spreadsheets, CSV, and PDF.
type Exporter struct{}

// New builds an exporter. It carries no configuration of its own.
func New() *Exporter { return &Exporter{} }

// cohortCells groups every placement (including shared-link replication)
// by the (department, year, slot) it occupies.
func (e *Exporter) cohortCells(in Input) map[domain.CohortKey]map[domain.Slot][]cell {
	sharedPartners := make(map[string][]string, len(in.SharedLinks))
	for _, l := range in.SharedLinks {
		sharedPartners[l.OwnerCourseID] = append(sharedPartners[l.OwnerCourseID], l.PartnerDepartmentID)
	}

	grid := make(map[domain.CohortKey]map[domain.Slot][]cell)
	addCell := func(key domain.CohortKey, slot domain.Slot, c cell) {
		if grid[key] == nil {
			grid[key] = make(map[domain.Slot][]cell)
		}
		grid[key][slot] = append(grid[key][slot], c)
	}

	for _, p := range in.Placements {
		course, ok := in.Courses[p.CourseID]
		if !ok {
			continue
		}
		roomOrOnline := "Online"
		if p.HasRoom() {
			if room, ok := in.Rooms[p.RoomID]; ok {
				roomOrOnline = room.Name
			} else {
				roomOrOnline = p.RoomID
			}
		}
		instructorName := p.InstructorID
		if instr, ok := in.Instructors[p.InstructorID]; ok {
			instructorName = instr.DisplayName
		}
		c := cell{CourseCode: course.Code, InstructorName: instructorName, RoomOrOnline: roomOrOnline, SemesterLabel: in.SemesterLabel}

		addCell(course.Cohort(), p.Slot, c)
		for _, partnerDept := range sharedPartners[course.ID] {
			addCell(domain.CohortKey{DepartmentID: partnerDept, Year: course.Year()}, p.Slot, c)
		}
	}
	return grid
}

func rowTimes() []domain.Slot {
	return timegrid.SlotsOf(domain.Monday)
}

// BuildWorkbook renders the weekly grid as an XLSX workbook, one sheet per
// department, rows in canonical slot order, columns Mon..Fri, with one
// sub-row per year cohort when a department has more than one.
func (e *Exporter) BuildWorkbook(in Input) (*excelize.File, error) {
	grid := e.cohortCells(in)
	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)

	depts := make([]domain.Department, len(in.Departments))
	copy(depts, in.Departments)
	sort.Slice(depts, func(i, j int) bool { return depts[i].Code < depts[j].Code })

	created := false
	for _, dept := range depts {
		years := cohortYears(grid, dept.ID)
		if len(years) == 0 {
			continue
		}

		sheetName := dept.Code
		if !created {
			f.SetSheetName(defaultSheet, sheetName)
			created = true
		} else {
			if _, err := f.NewSheet(sheetName); err != nil {
				return nil, fmt.Errorf("exporter: new sheet for %s: %w", dept.Code, err)
			}
		}

		row := 1
		headerCols := []string{"Slot", "Year", "Mon", "Tue", "Wed", "Thu", "Fri"}
		for col, h := range headerCols {
			cellRef, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cellRef, h)
		}
		row++

		for _, slot := range rowTimes() {
			for _, year := range years {
				cellRef, _ := excelize.CoordinatesToCellName(1, row)
				_ = f.SetCellValue(sheetName, cellRef, timegrid.FormatClock(slot.Start)+"-"+timegrid.FormatClock(slot.End))
				cellRef, _ = excelize.CoordinatesToCellName(2, row)
				_ = f.SetCellValue(sheetName, cellRef, year)

				for dayIdx, day := range domain.Weekdays {
					daySlot := domain.Slot{Day: day, Start: slot.Start, End: slot.End}
					cells := grid[domain.CohortKey{DepartmentID: dept.ID, Year: year}][daySlot]
					cellRef, _ = excelize.CoordinatesToCellName(3+dayIdx, row)
					_ = f.SetCellValue(sheetName, cellRef, formatCells(cells))
				}
				row++
			}
		}
	}

	if !created {
		// No department had any placements; keep the default empty sheet so
		// the workbook is still a well-formed, openable file.
		f.SetSheetName(defaultSheet, "Empty")
	}

	return f, nil
}

func cohortYears(grid map[domain.CohortKey]map[domain.Slot][]cell, departmentID string) []int {
	set := make(map[int]struct{})
	for key := range grid {
		if key.DepartmentID == departmentID {
			set[key.Year] = struct{}{}
		}
	}
	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func formatCells(cells []cell) string {
	if len(cells) == 0 {
		return ""
	}
	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		parts = append(parts, fmt.Sprintf("%s / %s / %s", c.CourseCode, c.InstructorName, c.RoomOrOnline))
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += "; " + p
	}
	return out
}

// flatDataset renders the ledger into the generic tabular shape pkg/export's
// CSV and PDF renderers consume, one row per placement, sorted by
// department, day, and start time.
func (e *Exporter) flatDataset(in Input) pkgexport.Dataset {
	headers := []string{"department", "year", "course_code", "day", "start", "end", "room", "instructor", "semester_label"}

	placements := make([]domain.Placement, len(in.Placements))
	copy(placements, in.Placements)
	sort.Slice(placements, func(i, j int) bool {
		ci, cj := in.Courses[placements[i].CourseID], in.Courses[placements[j].CourseID]
		if ci.DepartmentID != cj.DepartmentID {
			return ci.DepartmentID < cj.DepartmentID
		}
		if placements[i].Slot.Day != placements[j].Slot.Day {
			return placements[i].Slot.Day < placements[j].Slot.Day
		}
		return placements[i].Slot.Start < placements[j].Slot.Start
	})

	rows := make([]map[string]string, 0, len(placements))
	for _, p := range placements {
		course, ok := in.Courses[p.CourseID]
		if !ok {
			continue
		}
		roomOrOnline := "Online"
		if p.HasRoom() {
			if room, ok := in.Rooms[p.RoomID]; ok {
				roomOrOnline = room.Name
			} else {
				roomOrOnline = p.RoomID
			}
		}
		instructorName := p.InstructorID
		if instr, ok := in.Instructors[p.InstructorID]; ok {
			instructorName = instr.DisplayName
		}
		rows = append(rows, map[string]string{
			"department":     course.DepartmentID,
			"year":           fmt.Sprintf("%d", course.Year()),
			"course_code":    course.Code,
			"day":            p.Slot.Day.String(),
			"start":          timegrid.FormatClock(p.Slot.Start),
			"end":            timegrid.FormatClock(p.Slot.End),
			"room":           roomOrOnline,
			"instructor":     instructorName,
			"semester_label": in.SemesterLabel,
		})
	}
	return pkgexport.Dataset{Headers: headers, Rows: rows}
}

// BuildCSV renders a flat one-row-per-placement CSV dump.
func (e *Exporter) BuildCSV(in Input) ([]byte, error) {
	payload, err := pkgexport.NewCSVExporter().Render(e.flatDataset(in))
	if err != nil {
		return nil, fmt.Errorf("exporter: render csv: %w", err)
	}
	return payload, nil
}

// BuildPDF renders a flat tabular summary, one row per placement.
func (e *Exporter) BuildPDF(in Input) ([]byte, error) {
	title := fmt.Sprintf("Schedule %s / %s", in.AcademicYear, in.SemesterLabel)
	payload, err := pkgexport.NewPDFExporter().Render(e.flatDataset(in), title)
	if err != nil {
		return nil, fmt.Errorf("exporter: render pdf: %w", err)
	}
	return payload, nil
}
