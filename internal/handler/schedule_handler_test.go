package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/models"
	"github.com/dersplan/timetable-api/internal/scheduler"
	"github.com/dersplan/timetable-api/internal/service"
)

type fakeGenerationService struct {
	result  scheduler.RunResult
	err     error
	deleted bool
}

func (f *fakeGenerationService) Generate(ctx context.Context, academicYear, semesterLabel string) (scheduler.RunResult, error) {
	return f.result, f.err
}

func (f *fakeGenerationService) DeleteSchedule(ctx context.Context, academicYear, semesterLabel string) error {
	f.deleted = true
	return f.err
}

type fakeJobService struct {
	enqueuedID string
	status     service.JobStatus
	statusErr  error
}

func (f *fakeJobService) Enqueue(ctx context.Context, jobID, academicYear, semesterLabel string) error {
	f.enqueuedID = jobID
	return nil
}

func (f *fakeJobService) Status(ctx context.Context, jobID string) (service.JobStatus, error) {
	return f.status, f.statusErr
}

type fakeEditorService struct {
	result domain.Placement
	err    error
}

func (f *fakeEditorService) Move(ctx context.Context, req service.MoveRequest) (domain.Placement, error) {
	return f.result, f.err
}

type fakeScheduleLister struct {
	keys  []models.ScheduleKey
	total int
	slots []domain.Placement
	err   error
}

func (f *fakeScheduleLister) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleKey, int, error) {
	return f.keys, f.total, f.err
}

func (f *fakeScheduleLister) Slots(ctx context.Context, academicYear, semesterLabel string) ([]domain.Placement, error) {
	return f.slots, f.err
}

type fakeImportService struct {
	result service.ImportResult
	err    error
}

func (f *fakeImportService) ImportCatalogue(ctx context.Context, filename string, r io.Reader, departmentID string) (service.ImportResult, error) {
	return f.result, f.err
}

type fakeExportService struct {
	payload []byte
	err     error
}

func (f *fakeExportService) Export(ctx context.Context, academicYear, semesterLabel string, format service.ExportFormat) ([]byte, error) {
	return f.payload, f.err
}

func newTestContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestScheduleHandlerGenerateSync(t *testing.T) {
	gen := &fakeGenerationService{result: scheduler.RunResult{Ledger: []domain.Placement{{}, {}}}}
	h := NewScheduleHandler(gen, &fakeJobService{}, &fakeEditorService{}, &fakeScheduleLister{}, &fakeImportService{}, &fakeExportService{})

	c, w := newTestContext(http.MethodPost, "/schedules/generate", []byte(`{"academic_year":"2025-2026","semester_label":"Güz"}`))
	h.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestScheduleHandlerGenerateAsync(t *testing.T) {
	jobs := &fakeJobService{}
	h := NewScheduleHandler(&fakeGenerationService{}, jobs, &fakeEditorService{}, &fakeScheduleLister{}, &fakeImportService{}, &fakeExportService{})

	c, w := newTestContext(http.MethodPost, "/schedules/generate", []byte(`{"academic_year":"2025-2026","semester_label":"Güz","async":true}`))
	h.Generate(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, "2025-2026~G%C3%BCz", jobs.enqueuedID)
}

func TestScheduleHandlerGenerateMapsInfeasibleToUnprocessable(t *testing.T) {
	gen := &fakeGenerationService{err: scheduler.ErrInfeasible}
	h := NewScheduleHandler(gen, &fakeJobService{}, &fakeEditorService{}, &fakeScheduleLister{}, &fakeImportService{}, &fakeExportService{})

	c, w := newTestContext(http.MethodPost, "/schedules/generate", []byte(`{"academic_year":"2025-2026","semester_label":"Güz"}`))
	h.Generate(c)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestScheduleHandlerGenerateRejectsMalformedBody(t *testing.T) {
	h := NewScheduleHandler(&fakeGenerationService{}, &fakeJobService{}, &fakeEditorService{}, &fakeScheduleLister{}, &fakeImportService{}, &fakeExportService{})

	c, w := newTestContext(http.MethodPost, "/schedules/generate", []byte(`{"academic_year":`))
	h.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerMoveLockHeldReturnsConflict(t *testing.T) {
	editor := &fakeEditorService{err: service.ErrLockHeld}
	h := NewScheduleHandler(&fakeGenerationService{}, &fakeJobService{}, editor, &fakeScheduleLister{}, &fakeImportService{}, &fakeExportService{})

	c, w := newTestContext(http.MethodPost, "/schedules/2025-2026~G%C3%BCz/move", []byte(`{"placement_id":"p1","day":"Mon","start":"09:00","end":"10:00"}`))
	c.Params = gin.Params{{Key: "id", Value: "2025-2026~G%C3%BCz"}}
	h.Move(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestScheduleHandlerMoveUnknownDay(t *testing.T) {
	h := NewScheduleHandler(&fakeGenerationService{}, &fakeJobService{}, &fakeEditorService{}, &fakeScheduleLister{}, &fakeImportService{}, &fakeExportService{})

	c, w := newTestContext(http.MethodPost, "/schedules/2025-2026~G%C3%BCz/move", []byte(`{"placement_id":"p1","day":"Zzz","start":"09:00","end":"10:00"}`))
	c.Params = gin.Params{{Key: "id", Value: "2025-2026~G%C3%BCz"}}
	h.Move(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerJobStatusNotFound(t *testing.T) {
	jobs := &fakeJobService{statusErr: context.DeadlineExceeded}
	h := NewScheduleHandler(&fakeGenerationService{}, jobs, &fakeEditorService{}, &fakeScheduleLister{}, &fakeImportService{}, &fakeExportService{})

	c, w := newTestContext(http.MethodGet, "/schedules/jobs/missing", nil)
	c.Params = gin.Params{{Key: "jobId", Value: "missing"}}
	h.JobStatus(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleHandlerListAppliesPaging(t *testing.T) {
	lister := &fakeScheduleLister{keys: []models.ScheduleKey{{AcademicYear: "2025-2026", SemesterLabel: "Güz"}}, total: 1}
	h := NewScheduleHandler(&fakeGenerationService{}, &fakeJobService{}, &fakeEditorService{}, lister, &fakeImportService{}, &fakeExportService{})

	c, w := newTestContext(http.MethodGet, "/schedules?page=2&limit=5", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestScheduleHandlerExportRejectsUnsupportedFormat(t *testing.T) {
	h := NewScheduleHandler(&fakeGenerationService{}, &fakeJobService{}, &fakeEditorService{}, &fakeScheduleLister{}, &fakeImportService{}, &fakeExportService{})

	c, w := newTestContext(http.MethodGet, "/schedules/2025-2026~G%C3%BCz/export.rtf", nil)
	c.Params = gin.Params{{Key: "id", Value: "2025-2026~G%C3%BCz"}, {Key: "format", Value: "rtf"}}
	h.Export(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerDeleteRejectsMalformedID(t *testing.T) {
	h := NewScheduleHandler(&fakeGenerationService{}, &fakeJobService{}, &fakeEditorService{}, &fakeScheduleLister{}, &fakeImportService{}, &fakeExportService{})

	c, w := newTestContext(http.MethodDelete, "/schedules/not-a-key", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-key"}}
	h.Delete(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
