package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/importer"
)

type courseUpserter interface {
	Upsert(ctx context.Context, course domain.Course) (string, error)
}

// ImportService runs a catalogue file through internal/importer and upserts
// every surviving row via courseUpserter.
type ImportService struct {
	parser   *importer.Importer
	upserter courseUpserter
	logger   *zap.Logger
}

// NewImportService constructs an ImportService bound to the configured
// shared-course prefix set.
func NewImportService(cfg importer.Config, upserter courseUpserter, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{parser: importer.New(cfg), upserter: upserter, logger: logger}
}

// ImportResult summarizes one catalogue import run.
type ImportResult struct {
	Imported int
	Skipped  []importer.Row
}

// ImportCatalogue parses filename's extension to pick CSV or XLSX, then
// upserts every non-skipped row for the given department.
func (s *ImportService) ImportCatalogue(ctx context.Context, filename string, r io.Reader, departmentID string) (ImportResult, error) {
	var rows []importer.Row
	var err error
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"):
		rows, err = s.parser.ParseXLSX(r, departmentID)
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		rows, err = s.parser.ParseCSV(r, departmentID)
	default:
		return ImportResult{}, fmt.Errorf("import: unsupported catalogue format %q", filename)
	}
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{}
	for _, row := range rows {
		if row.Skipped {
			result.Skipped = append(result.Skipped, row)
			continue
		}
		if _, err := s.upserter.Upsert(ctx, row.Course); err != nil {
			return result, fmt.Errorf("upsert course %s: %w", row.Course.Code, err)
		}
		result.Imported++
	}

	s.logger.Info("catalogue import complete",
		zap.String("department_id", departmentID),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}
