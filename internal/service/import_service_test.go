package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/importer"
)

type fakeCourseUpserter struct {
	upserted []domain.Course
	err      error
}

func (f *fakeCourseUpserter) Upsert(ctx context.Context, course domain.Course) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.upserted = append(f.upserted, course)
	return "generated-id", nil
}

const sampleCSV = "semester,course_code,course_name,theory,applied,lab,course_kind\n" +
	"1,ENG101,English I,3,0,0,mandatory\n" +
	"2,SEC201,Elective Seminar,0,0,0,elective\n"

func TestImportServiceImportCatalogueUpsertsSurvivingRows(t *testing.T) {
	upserter := &fakeCourseUpserter{}
	svc := NewImportService(importer.Config{}, upserter, zap.NewNop())

	result, err := svc.ImportCatalogue(context.Background(), "fall.csv", strings.NewReader(sampleCSV), "D1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Skipped)
	assert.Len(t, upserter.upserted, 2)
}

func TestImportServiceRejectsUnsupportedExtension(t *testing.T) {
	svc := NewImportService(importer.Config{}, &fakeCourseUpserter{}, zap.NewNop())
	_, err := svc.ImportCatalogue(context.Background(), "fall.txt", strings.NewReader(sampleCSV), "D1")
	require.Error(t, err)
}
