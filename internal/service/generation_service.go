// Package service wires the core scheduler/editor/importer/exporter
// packages to the persistence and queue collaborators, the way the
// teacher's internal/service package wires its repositories to its gin
// handlers: narrow interfaces, constructor injection, zap logging.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/scheduler"
	appErrors "github.com/dersplan/timetable-api/pkg/errors"
)

type catalogueLoader interface {
	LoadInputs(ctx context.Context) (scheduler.Inputs, error)
}

type scheduleStore interface {
	StoreSchedule(ctx context.Context, academicYear, semesterLabel string, ledger []domain.Placement) error
	Delete(ctx context.Context, academicYear, semesterLabel string) error
}

// GenerationConfig carries the scheduler driver's tuning knobs, loaded from
// pkg/config.SchedulerConfig.
type GenerationConfig struct {
	RectorWideCodes                     []string
	ForcedDistribution                  bool
	AvailabilityMissingDayUnconstrained bool
	Seed                                int64
}

// GenerationService runs the scheduler driver against one (academic_year,
// semester_label) key and persists or discards the result.
type GenerationService struct {
	loader catalogueLoader
	store  scheduleStore
	cfg    GenerationConfig
	logger *zap.Logger
}

// NewGenerationService constructs a GenerationService.
func NewGenerationService(loader catalogueLoader, store scheduleStore, cfg GenerationConfig, logger *zap.Logger) *GenerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationService{loader: loader, store: store, cfg: cfg, logger: logger}
}

// Generate runs one scheduling attempt and, on success, persists the ledger
// under the given key. On infeasibility or cancellation it returns the
// driver's error untouched so the HTTP/CLI surface can map it.
func (s *GenerationService) Generate(ctx context.Context, academicYear, semesterLabel string) (scheduler.RunResult, error) {
	driver := scheduler.NewDriver(s.loader, scheduler.Config{
		RectorWideCodes:                     s.cfg.RectorWideCodes,
		ForcedDistribution:                  s.cfg.ForcedDistribution,
		AvailabilityMissingDayUnconstrained: s.cfg.AvailabilityMissingDayUnconstrained,
		Seed:                                s.cfg.Seed,
		Logger:                              s.logger,
	})

	result, err := driver.Run(ctx)
	if err != nil {
		s.logger.Warn("scheduling run did not succeed",
			zap.String("academic_year", academicYear),
			zap.String("semester_label", semesterLabel),
			zap.Error(err),
		)
		return result, err
	}

	if err := s.store.StoreSchedule(ctx, academicYear, semesterLabel, result.Ledger); err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist generated schedule")
	}

	s.logger.Info("schedule generated and stored",
		zap.String("academic_year", academicYear),
		zap.String("semester_label", semesterLabel),
		zap.Int("placements", len(result.Ledger)),
	)
	return result, nil
}

// MapSchedulerError translates the scheduler driver's plain sentinel/typed
// errors onto the typed taxonomy both the HTTP and async job surfaces
// respond with, since internal/scheduler deliberately stays free of the
// pkg/errors dependency.
func MapSchedulerError(err error) error {
	var pinConflict *scheduler.FixedPinConflictError
	var inputErr *scheduler.InputError
	switch {
	case errors.As(err, &pinConflict):
		return appErrors.Clone(appErrors.ErrSchedulerFixedPin, err.Error())
	case errors.As(err, &inputErr):
		return appErrors.Clone(appErrors.ErrSchedulerInput, err.Error())
	case errors.Is(err, scheduler.ErrInfeasible):
		return appErrors.Clone(appErrors.ErrSchedulerInfeasible, err.Error())
	case errors.Is(err, scheduler.ErrCancelled):
		return appErrors.Clone(appErrors.ErrSchedulerCancelled, err.Error())
	default:
		return err
	}
}

// DeleteSchedule removes a persisted schedule.
func (s *GenerationService) DeleteSchedule(ctx context.Context, academicYear, semesterLabel string) error {
	if err := s.store.Delete(ctx, academicYear, semesterLabel); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}
