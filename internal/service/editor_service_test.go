package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/models"
	"github.com/dersplan/timetable-api/internal/scheduler"
)

type fakePlacementStore struct {
	ledger     []domain.Placement
	byID       map[string]*models.Placement
	replaced   map[string]domain.Slot
	replaceErr error
}

func (f *fakePlacementStore) Slots(ctx context.Context, academicYear, semesterLabel string) ([]domain.Placement, error) {
	return f.ledger, nil
}

func (f *fakePlacementStore) FindPlacementByID(ctx context.Context, id string) (*models.Placement, error) {
	row, ok := f.byID[id]
	if !ok {
		return nil, errors.New("placement not found")
	}
	return row, nil
}

func (f *fakePlacementStore) ReplacePlacement(ctx context.Context, id string, slot domain.Slot) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	if f.replaced == nil {
		f.replaced = make(map[string]domain.Slot)
	}
	f.replaced[id] = slot
	return nil
}

type fakeLock struct {
	acquired bool
	released bool
	deny     bool
}

func (f *fakeLock) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if f.deny {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) ReleaseLock(ctx context.Context, key string) error {
	f.released = true
	return nil
}

func schedulerInputsFor(courses ...domain.Course) scheduler.Inputs {
	return scheduler.Inputs{
		Departments: []domain.Department{{ID: "D1", Code: "CENG"}},
		Rooms:       []domain.Room{{ID: "R1", Name: "A101", Capacity: 40}},
		Instructors: []domain.Instructor{{ID: "I1", DisplayName: "Dr. Aksoy"}},
		Courses:     courses,
	}
}

func TestEditorServiceMoveCommitsToFreeSlot(t *testing.T) {
	course1 := domain.Course{ID: "C1", Code: "ENG101", DepartmentID: "D1", WeeklyHours: 1, Kind: domain.CourseTheory, CapacityHint: 30}
	course2 := domain.Course{ID: "C2", Code: "MAT101", DepartmentID: "D1", WeeklyHours: 1, Kind: domain.CourseTheory, CapacityHint: 30}
	loader := &fakeLoader{inputs: schedulerInputsFor(course1, course2)}

	row := &models.Placement{ID: "P1", CourseID: "C1", Day: "Mon", Start: 540, End: 600, RoomID: "R1", InstructorID: "I1"}
	ledger := []domain.Placement{
		{CourseID: "C1", Slot: domain.Slot{Day: domain.Monday, Start: 540, End: 600}, RoomID: "R1", InstructorID: "I1"},
	}
	store := &fakePlacementStore{ledger: ledger, byID: map[string]*models.Placement{"P1": row}}
	lock := &fakeLock{}

	svc := NewEditorService(loader, store, lock, EditorConfig{AvailabilityMissingDayUnconstrained: true}, zap.NewNop())
	moved, err := svc.Move(context.Background(), MoveRequest{
		AcademicYear: "2025-2026", SemesterLabel: "Güz", PlacementID: "P1",
		NewDay: domain.Tuesday, NewStartRaw: "09:00", NewEndRaw: "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Tuesday, moved.Slot.Day)
	assert.True(t, lock.acquired)
	assert.True(t, lock.released)
	assert.Contains(t, store.replaced, "P1")
}

func TestEditorServiceMoveFailsWhenLockHeld(t *testing.T) {
	lock := &fakeLock{deny: true}
	svc := NewEditorService(&fakeLoader{}, &fakePlacementStore{}, lock, EditorConfig{}, zap.NewNop())

	_, err := svc.Move(context.Background(), MoveRequest{AcademicYear: "2025-2026", SemesterLabel: "Güz", PlacementID: "P1"})
	require.ErrorIs(t, err, ErrLockHeld)
}
