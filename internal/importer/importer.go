// Package importer converts a tabular course catalogue (CSV or XLSX) into
// domain.Course values, sharing one header-normalization pass between both
// formats before either parses the row body.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dersplan/timetable-api/internal/domain"
)

// Config carries the configured shared-course prefix set (default TUR, ATA,
// DIL per SPEC_FULL.md §6).
type Config struct {
	SharedCoursePrefixes []string
}

// Row is one parsed catalogue line before it is turned into a domain.Course;
// exposed so callers (the service layer) can report per-row import errors.
type Row struct {
	LineNumber   int
	Course       domain.Course
	Skipped      bool
	SkippedWhy   string
}

// Importer parses catalogues into courses.
type Importer struct {
	cfg Config
}

// New builds an importer bound to cfg.
func New(cfg Config) *Importer {
	return &Importer{cfg: cfg}
}

var requiredColumns = []string{"semester", "course_code", "course_name", "theory", "applied", "lab", "course_kind"}

// ParseCSV reads a CSV catalogue for one department.
func (im *Importer) ParseCSV(r io.Reader, departmentID string) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("importer: read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("importer: empty catalogue")
	}
	return im.parseRecords(records, departmentID)
}

// ParseXLSX reads the first sheet of an XLSX catalogue for one department.
func (im *Importer) ParseXLSX(r io.Reader, departmentID string) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("importer: open xlsx: %w", err)
	}
	defer f.Close() //nolint:errcheck

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("importer: xlsx has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("importer: read xlsx rows: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("importer: empty catalogue")
	}
	return im.parseRecords(records, departmentID)
}

func (im *Importer) parseRecords(records [][]string, departmentID string) ([]Row, error) {
	header := records[0]
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[normalizeHeader(col)] = i
	}
	for _, required := range requiredColumns {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("importer: missing required column %q", required)
		}
	}

	rows := make([]Row, 0, len(records)-1)
	for lineNo, record := range records[1:] {
		row, err := im.parseRow(record, index, departmentID)
		if err != nil {
			return nil, fmt.Errorf("importer: row %d: %w", lineNo+2, err)
		}
		row.LineNumber = lineNo + 2
		rows = append(rows, row)
	}
	return rows, nil
}

func (im *Importer) parseRow(record []string, index map[string]int, departmentID string) (Row, error) {
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	semester, err := strconv.Atoi(get("semester"))
	if err != nil {
		return Row{}, fmt.Errorf("semester: %w", err)
	}
	code := get("course_code")
	name := get("course_name")
	theory, err := atoiDefault(get("theory"))
	if err != nil {
		return Row{}, fmt.Errorf("theory: %w", err)
	}
	applied, err := atoiDefault(get("applied"))
	if err != nil {
		return Row{}, fmt.Errorf("applied: %w", err)
	}
	lab, err := atoiDefault(get("lab"))
	if err != nil {
		return Row{}, fmt.Errorf("lab: %w", err)
	}
	kindFlag := strings.ToLower(get("course_kind"))

	weeklyHours := theory + applied + lab
	isMandatory := kindFlag == "mandatory"
	if weeklyHours == 0 && isMandatory {
		return Row{Skipped: true, SkippedWhy: "zero weekly hours for a mandatory course"}, nil
	}

	structuralKind := domain.CourseTheory
	switch {
	case lab > 0:
		structuralKind = domain.CourseLab
	case applied > 0:
		structuralKind = domain.CourseApplied
	}

	isShared := hasSharedPrefix(code, im.cfg.SharedCoursePrefixes)

	course := domain.Course{
		Code:         code,
		Name:         name,
		DepartmentID: departmentID,
		Semester:     semester,
		WeeklyHours:  weeklyHours,
		Kind:         structuralKind,
		CapacityHint: domain.DefaultCapacityHint,
		IsShared:     isShared,
	}
	return Row{Course: course}, nil
}

func atoiDefault(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func hasSharedPrefix(code string, prefixes []string) bool {
	upper := strings.ToUpper(code)
	for _, p := range prefixes {
		if strings.HasPrefix(upper, strings.ToUpper(p)) {
			return true
		}
	}
	return false
}

var turkishFold = strings.NewReplacer(
	"ç", "c", "Ç", "c",
	"ğ", "g", "Ğ", "g",
	"ı", "i", "İ", "i",
	"ö", "o", "Ö", "o",
	"ş", "s", "Ş", "s",
	"ü", "u", "Ü", "u",
)

// normalizeHeader folds a column header to lowercase ASCII, stripping
// Turkish diacritics and collapsing whitespace to underscores, so
// "Öğrenci Kodu" and "course_code" compare the same way the importer's
// column matching is defined (case- and diacritic-insensitive).
func normalizeHeader(raw string) string {
	folded := turkishFold.Replace(strings.ToLower(strings.TrimSpace(raw)))
	folded = strings.ReplaceAll(folded, " ", "_")
	folded = strings.ReplaceAll(folded, "-", "_")
	return folded
}
