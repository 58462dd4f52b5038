package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/exporter"
)

type slotLister interface {
	Slots(ctx context.Context, academicYear, semesterLabel string) ([]domain.Placement, error)
}

// ExportFormat names one of the three output formats SPEC_FULL.md's exporter
// collaborator produces.
type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
	ExportPDF  ExportFormat = "pdf"
)

// ExportService renders a persisted schedule into one of the exporter's
// output formats, ready to hand to pkg/storage or stream directly.
type ExportService struct {
	catalogue catalogueLoader
	schedules slotLister
	exporter  *exporter.Exporter
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(catalogue catalogueLoader, schedules slotLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{catalogue: catalogue, schedules: schedules, exporter: exporter.New(), logger: logger}
}

// Export renders the schedule stored under (academicYear, semesterLabel)
// into the requested format and returns the raw file bytes.
func (s *ExportService) Export(ctx context.Context, academicYear, semesterLabel string, format ExportFormat) ([]byte, error) {
	inputs, err := s.catalogue.LoadInputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalogue for export: %w", err)
	}
	placements, err := s.schedules.Slots(ctx, academicYear, semesterLabel)
	if err != nil {
		return nil, fmt.Errorf("load placements for export: %w", err)
	}

	in := exporter.Input{
		AcademicYear:  academicYear,
		SemesterLabel: semesterLabel,
		Placements:    placements,
		Courses:       indexCourses(inputs.Courses),
		Instructors:   indexInstructors(inputs.Instructors),
		Rooms:         indexRooms(inputs.Rooms),
		Departments:   inputs.Departments,
		SharedLinks:   inputs.SharedLinks,
	}

	switch format {
	case ExportXLSX:
		wb, err := s.exporter.BuildWorkbook(in)
		if err != nil {
			return nil, err
		}
		buf, err := wb.WriteToBuffer()
		if err != nil {
			return nil, fmt.Errorf("export: write workbook buffer: %w", err)
		}
		return buf.Bytes(), nil
	case ExportCSV:
		return s.exporter.BuildCSV(in)
	case ExportPDF:
		return s.exporter.BuildPDF(in)
	default:
		return nil, fmt.Errorf("export: unsupported format %q", format)
	}
}

func indexCourses(courses []domain.Course) map[string]domain.Course {
	out := make(map[string]domain.Course, len(courses))
	for _, c := range courses {
		out[c.ID] = c
	}
	return out
}

func indexInstructors(instructors []domain.Instructor) map[string]domain.Instructor {
	out := make(map[string]domain.Instructor, len(instructors))
	for _, i := range instructors {
		out[i.ID] = i
	}
	return out
}

func indexRooms(rooms []domain.Room) map[string]domain.Room {
	out := make(map[string]domain.Room, len(rooms))
	for _, r := range rooms {
		out[r.ID] = r
	}
	return out
}
