package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/editor"
	"github.com/dersplan/timetable-api/internal/models"
	"github.com/dersplan/timetable-api/internal/oracle"
	"github.com/dersplan/timetable-api/internal/store"
)

type placementStore interface {
	Slots(ctx context.Context, academicYear, semesterLabel string) ([]domain.Placement, error)
	FindPlacementByID(ctx context.Context, id string) (*models.Placement, error)
	ReplacePlacement(ctx context.Context, id string, slot domain.Slot) error
}

type lock interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

// ErrLockHeld signals another move is already in progress for this schedule.
var ErrLockHeld = fmt.Errorf("editor: schedule is locked by another move")

// EditorConfig carries the availability-mask semantics the oracle needs.
type EditorConfig struct {
	AvailabilityMissingDayUnconstrained bool
	LockTTL                             time.Duration
}

// EditorService rebuilds a constraint store from a persisted schedule and
// runs the single-slot editor against it, under an exclusive per-schedule
// lock, matching SPEC_FULL.md §5's exclusivity requirement.
type EditorService struct {
	catalogue catalogueLoader
	schedules placementStore
	locks     lock
	cfg       EditorConfig
	logger    *zap.Logger
}

// NewEditorService constructs an EditorService.
func NewEditorService(catalogue catalogueLoader, schedules placementStore, locks lock, cfg EditorConfig, logger *zap.Logger) *EditorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	return &EditorService{catalogue: catalogue, schedules: schedules, locks: locks, cfg: cfg, logger: logger}
}

// MoveRequest identifies the persisted placement to move and its target time.
type MoveRequest struct {
	AcademicYear  string
	SemesterLabel string
	PlacementID   string
	NewDay        domain.Day
	NewStartRaw   string
	NewEndRaw     string
}

// Move rebuilds the schedule's constraint store, performs the atomic move,
// and persists the updated placement row.
func (s *EditorService) Move(ctx context.Context, req MoveRequest) (domain.Placement, error) {
	lockKey := req.AcademicYear + "/" + req.SemesterLabel
	acquired, err := s.locks.AcquireLock(ctx, lockKey, s.cfg.LockTTL)
	if err != nil {
		return domain.Placement{}, fmt.Errorf("acquire schedule lock: %w", err)
	}
	if !acquired {
		return domain.Placement{}, ErrLockHeld
	}
	defer func() {
		if err := s.locks.ReleaseLock(ctx, lockKey); err != nil {
			s.logger.Warn("failed to release schedule lock", zap.String("key", lockKey), zap.Error(err))
		}
	}()

	inputs, err := s.catalogue.LoadInputs(ctx)
	if err != nil {
		return domain.Placement{}, fmt.Errorf("load catalogue for move: %w", err)
	}

	ledger, err := s.schedules.Slots(ctx, req.AcademicYear, req.SemesterLabel)
	if err != nil {
		return domain.Placement{}, fmt.Errorf("load persisted schedule: %w", err)
	}

	row, err := s.schedules.FindPlacementByID(ctx, req.PlacementID)
	if err != nil {
		return domain.Placement{}, fmt.Errorf("find placement %s: %w", req.PlacementID, err)
	}

	coursesByID := make(map[string]domain.Course, len(inputs.Courses))
	for _, c := range inputs.Courses {
		coursesByID[c.ID] = c
	}
	instructorsByID := make(map[string]domain.Instructor, len(inputs.Instructors))
	for _, in := range inputs.Instructors {
		instructorsByID[in.ID] = in
	}
	roomsByID := make(map[string]domain.Room, len(inputs.Rooms))
	for _, r := range inputs.Rooms {
		roomsByID[r.ID] = r
	}

	st := store.New(inputs.Courses, inputs.SharedLinks, domain.NewGlobalBlackout(inputs.Blackouts))
	for _, p := range ledger {
		st.Add(p)
	}

	course, ok := coursesByID[row.CourseID]
	if !ok {
		return domain.Placement{}, fmt.Errorf("move references unknown course %s", row.CourseID)
	}
	instructor := instructorsByID[row.InstructorID]
	var roomPtr *domain.Room
	if row.RoomID != domain.NoRoom {
		if r, ok := roomsByID[row.RoomID]; ok {
			roomPtr = &r
		}
	}

	original := domain.Placement{
		CourseID:     row.CourseID,
		Slot:         domain.Slot{}, // overwritten below once parsed back from row
		RoomID:       row.RoomID,
		InstructorID: row.InstructorID,
		IsOnline:     row.IsOnline,
	}
	day, err := domain.ParseDay(row.Day)
	if err != nil {
		return domain.Placement{}, fmt.Errorf("stored placement has invalid day: %w", err)
	}
	original.Slot = domain.Slot{Day: day, Start: domain.ClockMinutes(row.Start), End: domain.ClockMinutes(row.End)}

	ed := editor.New(st, oracle.Config{AvailabilityMissingDayUnconstrained: s.cfg.AvailabilityMissingDayUnconstrained})
	moved, err := ed.Move(editor.MoveRequest{
		Course:      course,
		Instructor:  instructor,
		Room:        roomPtr,
		Original:    original,
		NewDay:      req.NewDay,
		NewStartRaw: req.NewStartRaw,
		NewEndRaw:   req.NewEndRaw,
	})
	if err != nil {
		return domain.Placement{}, err
	}

	if err := s.schedules.ReplacePlacement(ctx, req.PlacementID, moved.Slot); err != nil {
		return domain.Placement{}, fmt.Errorf("persist moved placement: %w", err)
	}
	return moved, nil
}
