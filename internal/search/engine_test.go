package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/oracle"
	"github.com/dersplan/timetable-api/internal/store"
)

func distributeEvenly(course domain.Course, hours int) CourseInput {
	targets := map[domain.Day]int{}
	for i := 0; i < hours; i++ {
		targets[domain.Weekdays[i%len(domain.Weekdays)]]++
	}
	return CourseInput{Course: course, RemainingHours: hours, DayTargets: targets}
}

func TestEngineLabRequiresLabRoomWithCapacityFit(t *testing.T) {
	course := domain.Course{
		ID: "LAB1", DepartmentID: "D1", Semester: 1, WeeklyHours: 2, Kind: domain.CourseLab,
		CapacityHint: 20, InstructorCandidates: []string{"I1"},
	}
	rooms := []domain.Room{
		{ID: "NORMAL", Capacity: 100, Kind: domain.RoomNormal},
		{ID: "LAB_SMALL", Capacity: 15, Kind: domain.RoomLab},
		{ID: "LAB_BIG", Capacity: 25, Kind: domain.RoomLab},
	}
	instructors := map[string]domain.Instructor{"I1": {ID: "I1"}}

	st := store.New([]domain.Course{course}, nil, domain.NewGlobalBlackout(nil))
	e := New(st, rooms, instructors, Config{Oracle: oracle.Config{AvailabilityMissingDayUnconstrained: true}, Seed: 1})

	result, err := e.Run(context.Background(), []CourseInput{distributeEvenly(course, 2)})
	require.NoError(t, err)
	require.Len(t, result.Ledger, 2)
	for _, p := range result.Ledger {
		assert.Equal(t, "LAB_BIG", p.RoomID)
	}
}

func TestEngineInstructorAvailabilityForbidsMonday(t *testing.T) {
	course := domain.Course{
		ID: "C1", DepartmentID: "D1", Semester: 1, WeeklyHours: 1, Kind: domain.CourseTheory,
		CapacityHint: 10, InstructorCandidates: []string{"I1"},
	}
	rooms := []domain.Room{{ID: "R1", Capacity: 50, Kind: domain.RoomNormal}}
	instructors := map[string]domain.Instructor{
		"I1": {ID: "I1", Availability: domain.AvailabilityMask{domain.Monday: {}}},
	}

	st := store.New([]domain.Course{course}, nil, domain.NewGlobalBlackout(nil))
	e := New(st, rooms, instructors, Config{Oracle: oracle.Config{AvailabilityMissingDayUnconstrained: true}, Seed: 42})

	result, err := e.Run(context.Background(), []CourseInput{{Course: course, RemainingHours: 1, DayTargets: map[domain.Day]int{domain.Monday: 1}}})
	require.NoError(t, err)
	require.Len(t, result.Ledger, 1)
	assert.NotEqual(t, domain.Monday, result.Ledger[0].Slot.Day)
}

func TestEngineRespectsGlobalBlackout(t *testing.T) {
	course := domain.Course{
		ID: "C1", DepartmentID: "D1", Semester: 1, WeeklyHours: 1, Kind: domain.CourseTheory,
		CapacityHint: 10, InstructorCandidates: []string{"I1"},
	}
	rooms := []domain.Room{{ID: "R1", Capacity: 50, Kind: domain.RoomNormal}}
	instructors := map[string]domain.Instructor{"I1": {ID: "I1"}}
	blackout := domain.NewGlobalBlackout([]domain.Slot{{Day: domain.Wednesday, Start: 720, End: 780}})

	st := store.New([]domain.Course{course}, nil, blackout)
	e := New(st, rooms, instructors, Config{Oracle: oracle.Config{AvailabilityMissingDayUnconstrained: true}, Seed: 7})

	result, err := e.Run(context.Background(), []CourseInput{{Course: course, RemainingHours: 1, DayTargets: map[domain.Day]int{domain.Wednesday: 1}}})
	require.NoError(t, err)
	require.Len(t, result.Ledger, 1)
	assert.NotEqual(t, domain.Slot{Day: domain.Wednesday, Start: 720, End: 780}, result.Ledger[0].Slot)
}

func TestEngineInfeasibleOverbookingReportsDiagnostics(t *testing.T) {
	var courses []domain.Course
	var inputs []CourseInput
	for i := 0; i < 6; i++ {
		c := domain.Course{
			ID: string(rune('A' + i)), DepartmentID: "D1", Semester: 1, WeeklyHours: 40,
			Kind: domain.CourseTheory, CapacityHint: 10, InstructorCandidates: []string{"I1"},
		}
		courses = append(courses, c)
		inputs = append(inputs, distributeEvenly(c, 40))
	}
	rooms := []domain.Room{{ID: "R1", Capacity: 50, Kind: domain.RoomNormal}}
	instructors := map[string]domain.Instructor{"I1": {ID: "I1"}}

	st := store.New(courses, nil, domain.NewGlobalBlackout(nil))
	e := New(st, rooms, instructors, Config{Oracle: oracle.Config{AvailabilityMissingDayUnconstrained: true}, Seed: 3})

	result, err := e.Run(context.Background(), inputs)
	require.ErrorIs(t, err, ErrInfeasible)
	require.NotEmpty(t, result.Diagnostics)
	foundShortfall := false
	for _, d := range result.Diagnostics {
		if d.Placed < d.Needed {
			foundShortfall = true
		}
	}
	assert.True(t, foundShortfall)
}

func TestEngineCancellationStopsBeforeCompletion(t *testing.T) {
	course := domain.Course{
		ID: "C1", DepartmentID: "D1", Semester: 1, WeeklyHours: 1, Kind: domain.CourseTheory,
		CapacityHint: 10, InstructorCandidates: []string{"I1"},
	}
	rooms := []domain.Room{{ID: "R1", Capacity: 50, Kind: domain.RoomNormal}}
	instructors := map[string]domain.Instructor{"I1": {ID: "I1"}}

	st := store.New([]domain.Course{course}, nil, domain.NewGlobalBlackout(nil))
	e := New(st, rooms, instructors, Config{Oracle: oracle.Config{AvailabilityMissingDayUnconstrained: true}, Seed: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx, []CourseInput{distributeEvenly(course, 1)})
	require.ErrorIs(t, err, ErrCancelled)
	assert.Empty(t, st.Ledger())
}
