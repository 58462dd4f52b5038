package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dersplan/timetable-api/pkg/jobs"
)

type resultCache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
}

// jobMetrics is satisfied by *pkg/metrics.Service; a nil *Service still
// implements it since every method on that type nil-checks its receiver.
type jobMetrics interface {
	ObserveGeneration(duration time.Duration, success bool)
	SetJobQueueDepth(depth int)
}

// JobStatus is the terminal or in-progress state of one async generation run,
// keyed by job id in resultCache.
type JobStatus struct {
	State  string `json:"state"`
	Ledger int    `json:"placement_count,omitempty"`
	Error  string `json:"error,omitempty"`
}

const (
	JobStatePending = "PENDING"
	JobStateRunning = "RUNNING"
	JobStateDone    = "DONE"
	JobStateFailed  = "FAILED"
)

// GenerationJobService dispatches scheduling runs onto a bounded worker pool
// (pkg/jobs.Queue) so a long search never blocks an HTTP request, per
// SPEC_FULL.md §4.10. Each job's status is recorded in resultCache, keyed by
// job id, so a caller can poll it after the request returns.
type GenerationJobService struct {
	gen      *GenerationService
	queue    *jobs.Queue
	cache    resultCache
	cacheTTL time.Duration
	metrics  jobMetrics
	logger   *zap.Logger
}

// NewGenerationJobService wires a GenerationService to a started job queue.
// metrics may be nil, in which case the generation-duration histogram and
// queue-depth gauge simply aren't observed.
func NewGenerationJobService(gen *GenerationService, queue *jobs.Queue, cache resultCache, cacheTTL time.Duration, metrics jobMetrics, logger *zap.Logger) *GenerationJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Minute
	}
	return &GenerationJobService{gen: gen, queue: queue, cache: cache, cacheTTL: cacheTTL, metrics: metrics, logger: logger}
}

type generatePayload struct {
	AcademicYear  string
	SemesterLabel string
}

// Enqueue submits a generation run under jobID and returns immediately.
func (s *GenerationJobService) Enqueue(ctx context.Context, jobID, academicYear, semesterLabel string) error {
	_ = s.cache.Set(ctx, jobID, JobStatus{State: JobStatePending}, s.cacheTTL)

	err := s.queue.Enqueue(jobs.Job{
		ID:      jobID,
		Type:    "schedule.generate",
		Payload: generatePayload{AcademicYear: academicYear, SemesterLabel: semesterLabel},
	})
	if s.metrics != nil {
		s.metrics.SetJobQueueDepth(s.queue.Depth())
	}
	return err
}

// Handle is the pkg/jobs.Handler this service registers with the queue.
func (s *GenerationJobService) Handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(generatePayload)
	if !ok {
		return fmt.Errorf("generation job %s: unexpected payload type", job.ID)
	}

	_ = s.cache.Set(ctx, job.ID, JobStatus{State: JobStateRunning}, s.cacheTTL)

	start := time.Now()
	result, err := s.gen.Generate(ctx, payload.AcademicYear, payload.SemesterLabel)
	if s.metrics != nil {
		s.metrics.ObserveGeneration(time.Since(start), err == nil)
		s.metrics.SetJobQueueDepth(s.queue.Depth())
	}
	if err != nil {
		mapped := MapSchedulerError(err)
		s.logger.Warn("generation job failed", zap.String("job_id", job.ID), zap.Error(err))
		_ = s.cache.Set(ctx, job.ID, JobStatus{State: JobStateFailed, Error: mapped.Error()}, s.cacheTTL)
		return err
	}

	_ = s.cache.Set(ctx, job.ID, JobStatus{State: JobStateDone, Ledger: len(result.Ledger)}, s.cacheTTL)
	return nil
}

// Status returns the last known status of jobID.
func (s *GenerationJobService) Status(ctx context.Context, jobID string) (JobStatus, error) {
	var status JobStatus
	if err := s.cache.Get(ctx, jobID, &status); err != nil {
		return JobStatus{}, err
	}
	return status, nil
}
