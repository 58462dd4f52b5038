package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/dto"
	"github.com/dersplan/timetable-api/internal/editor"
	"github.com/dersplan/timetable-api/internal/models"
	"github.com/dersplan/timetable-api/internal/scheduler"
	"github.com/dersplan/timetable-api/internal/service"
	appErrors "github.com/dersplan/timetable-api/pkg/errors"
	"github.com/dersplan/timetable-api/pkg/response"
)

type generationService interface {
	Generate(ctx context.Context, academicYear, semesterLabel string) (scheduler.RunResult, error)
	DeleteSchedule(ctx context.Context, academicYear, semesterLabel string) error
}

type generationJobService interface {
	Enqueue(ctx context.Context, jobID, academicYear, semesterLabel string) error
	Status(ctx context.Context, jobID string) (service.JobStatus, error)
}

type editorService interface {
	Move(ctx context.Context, req service.MoveRequest) (domain.Placement, error)
}

type scheduleLister interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleKey, int, error)
	Slots(ctx context.Context, academicYear, semesterLabel string) ([]domain.Placement, error)
}

type importService interface {
	ImportCatalogue(ctx context.Context, filename string, r io.Reader, departmentID string) (service.ImportResult, error)
}

type exportService interface {
	Export(ctx context.Context, academicYear, semesterLabel string, format service.ExportFormat) ([]byte, error)
}

// ScheduleHandler wires the generation, editor, import, and export services
// onto the /api/v1/schedules route group the way the teacher's
// ScheduleHandler wires service.ScheduleService onto /schedules.
type ScheduleHandler struct {
	generation generationService
	jobs       generationJobService
	editor     editorService
	schedules  scheduleLister
	importer   importService
	exporter   exportService
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(generation generationService, jobs generationJobService, editor editorService, schedules scheduleLister, importer importService, exporter exportService) *ScheduleHandler {
	return &ScheduleHandler{generation: generation, jobs: jobs, editor: editor, schedules: schedules, importer: importer, exporter: exporter}
}

// Generate godoc
// @Summary Run a scheduling generation pass
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateRequest true "Generation request"
// @Success 200 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid generation payload"))
		return
	}

	if req.Async {
		jobID := encodeScheduleKey(req.AcademicYear, req.SemesterLabel)
		if err := h.jobs.Enqueue(c.Request.Context(), jobID, req.AcademicYear, req.SemesterLabel); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusAccepted, dto.GenerateJobResponse{JobID: jobID}, nil)
		return
	}

	result, err := h.generation.Generate(c.Request.Context(), req.AcademicYear, req.SemesterLabel)
	if err != nil {
		response.Error(c, service.MapSchedulerError(err))
		return
	}
	response.JSON(c, http.StatusOK, dto.GenerateResponse{
		AcademicYear:   req.AcademicYear,
		SemesterLabel:  req.SemesterLabel,
		PlacementCount: len(result.Ledger),
		Warnings:       result.Warnings,
	}, nil)
}

// Move godoc
// @Summary Move one placement within a persisted schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.MoveRequest true "Move request"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/move [post]
func (h *ScheduleHandler) Move(c *gin.Context) {
	academicYear, semesterLabel, err := decodeScheduleKey(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	var req dto.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid move payload"))
		return
	}
	day, err := domain.ParseDay(req.Day)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrEditorBadTimeFormat, "unknown day"))
		return
	}

	moved, err := h.editor.Move(c.Request.Context(), service.MoveRequest{
		AcademicYear:  academicYear,
		SemesterLabel: semesterLabel,
		PlacementID:   req.PlacementID,
		NewDay:        day,
		NewStartRaw:   req.Start,
		NewEndRaw:     req.End,
	})
	if err != nil {
		var conflict *editor.ConflictError
		if errors.Is(err, service.ErrLockHeld) {
			response.Error(c, appErrors.Clone(appErrors.ErrConflict, "schedule is locked by another move"))
			return
		}
		if errors.As(err, &conflict) || errors.Is(err, editor.ErrConflict) {
			response.Error(c, appErrors.Clone(appErrors.ErrEditorConflict, err.Error()))
			return
		}
		if errors.Is(err, editor.ErrBadTimeFormat) {
			response.Error(c, appErrors.Clone(appErrors.ErrEditorBadTimeFormat, err.Error()))
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.PlacementFrom(moved), nil)
}

// JobStatus godoc
// @Summary Poll an asynchronous generation job's status
// @Tags Schedules
// @Produce json
// @Param jobId path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/jobs/{jobId} [get]
func (h *ScheduleHandler) JobStatus(c *gin.Context) {
	status, err := h.jobs.Status(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "job not found"))
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// List godoc
// @Summary List persisted schedules
// @Tags Schedules
// @Produce json
// @Param academicYear query string false "Filter by academic year"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	filter := models.ScheduleFilter{
		AcademicYear: c.Query("academicYear"),
		SortBy:       c.Query("sort"),
		SortOrder:    c.Query("order"),
	}
	filter.Page = queryInt(c, "page", 1)
	filter.PageSize = queryInt(c, "limit", 20)

	keys, total, err := h.schedules.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.ScheduleKeyResponse, 0, len(keys))
	for _, k := range keys {
		out = append(out, dto.ScheduleKeyResponse{AcademicYear: k.AcademicYear, SemesterLabel: k.SemesterLabel})
	}
	response.JSON(c, http.StatusOK, out, &models.Page{Total: total, Page: filter.Page, Size: filter.PageSize})
}

// Slots godoc
// @Summary List the placements of one persisted schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/slots [get]
func (h *ScheduleHandler) Slots(c *gin.Context) {
	academicYear, semesterLabel, err := decodeScheduleKey(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	placements, err := h.schedules.Slots(c.Request.Context(), academicYear, semesterLabel)
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]dto.PlacementResponse, 0, len(placements))
	for _, p := range placements {
		out = append(out, dto.PlacementFrom(p))
	}
	response.JSON(c, http.StatusOK, out, nil)
}

// Delete godoc
// @Summary Delete a persisted schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	academicYear, semesterLabel, err := decodeScheduleKey(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	if err := h.generation.DeleteSchedule(c.Request.Context(), academicYear, semesterLabel); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Import godoc
// @Summary Import a course catalogue for one department
// @Tags Schedules
// @Accept multipart/form-data
// @Produce json
// @Param departmentId formData string true "Department ID"
// @Param file formData file true "Catalogue file (CSV or XLSX)"
// @Success 200 {object} response.Envelope
// @Router /schedules/import [post]
func (h *ScheduleHandler) Import(c *gin.Context) {
	departmentID := c.PostForm("departmentId")
	if departmentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "departmentId is required"))
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open uploaded file"))
		return
	}
	defer file.Close() //nolint:errcheck

	result, err := h.importer.ImportCatalogue(c.Request.Context(), fileHeader.Filename, file, departmentID)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrSchedulerInput.Code, appErrors.ErrSchedulerInput.Status, err.Error()))
		return
	}

	skipped := make([]string, 0, len(result.Skipped))
	for _, row := range result.Skipped {
		skipped = append(skipped, row.Course.Code+": "+row.SkippedWhy)
	}
	response.JSON(c, http.StatusOK, dto.ImportResultResponse{Imported: result.Imported, Skipped: skipped}, nil)
}

// Export godoc
// @Summary Export a persisted schedule
// @Tags Schedules
// @Produce application/octet-stream
// @Param id path string true "Schedule ID"
// @Param format path string true "Export format (xlsx, csv, pdf)"
// @Success 200 {file} binary
// @Router /schedules/{id}/export.{format} [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	academicYear, semesterLabel, err := decodeScheduleKey(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	format := service.ExportFormat(c.Param("format"))
	contentType, ok := exportContentTypes[format]
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported export format"))
		return
	}

	payload, err := h.exporter.Export(c.Request.Context(), academicYear, semesterLabel, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\"schedule."+string(format)+"\"")
	c.Data(http.StatusOK, contentType, payload)
}

var exportContentTypes = map[service.ExportFormat]string{
	service.ExportXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	service.ExportCSV:  "text/csv",
	service.ExportPDF:  "application/pdf",
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
