package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dersplan/timetable-api/internal/domain"
)

func sampleCourse() domain.Course {
	return domain.Course{
		ID:           "ENG101",
		DepartmentID: "D1",
		Semester:     1,
		WeeklyHours:  2,
		Kind:         domain.CourseTheory,
		CapacityHint: 30,
	}
}

func TestAddThenRemoveIsByteEqualLIFO(t *testing.T) {
	course := sampleCourse()
	s := New([]domain.Course{course}, nil, domain.NewGlobalBlackout(nil))

	before := s.Ledger()
	p := domain.Placement{CourseID: course.ID, Slot: domain.Slot{Day: domain.Monday, Start: 480, End: 540}, RoomID: "R1", InstructorID: "I1"}

	s.Add(p)
	assert.True(t, s.InstructorBusy("I1", p.Slot))
	assert.True(t, s.RoomBusy("R1", p.Slot))
	assert.True(t, s.CohortBusy(course.Cohort(), p.Slot))

	s.Remove(p)
	assert.False(t, s.InstructorBusy("I1", p.Slot))
	assert.False(t, s.RoomBusy("R1", p.Slot))
	assert.False(t, s.CohortBusy(course.Cohort(), p.Slot))
	assert.Equal(t, before, s.Ledger())
}

func TestRemoveNonTopOfLedgerPanics(t *testing.T) {
	course := sampleCourse()
	s := New([]domain.Course{course}, nil, domain.NewGlobalBlackout(nil))
	p := domain.Placement{CourseID: course.ID, Slot: domain.Slot{Day: domain.Monday, Start: 480, End: 540}, InstructorID: "I1"}

	assert.Panics(t, func() {
		s.Remove(p)
	})
}

func TestSharedLinkExtendsCohortOccupancy(t *testing.T) {
	owner := domain.Course{ID: "ENG101", DepartmentID: "D1", Semester: 1, CapacityHint: 30}
	s := New([]domain.Course{owner}, []domain.SharedLink{{OwnerCourseID: "ENG101", PartnerDepartmentID: "D2"}}, domain.NewGlobalBlackout(nil))

	slot := domain.Slot{Day: domain.Monday, Start: 480, End: 540}
	p := domain.Placement{CourseID: owner.ID, Slot: slot, InstructorID: "I1"}
	s.Add(p)

	assert.True(t, s.CohortBusy(domain.CohortKey{DepartmentID: "D1", Year: 1}, slot))
	assert.True(t, s.CohortBusy(domain.CohortKey{DepartmentID: "D2", Year: 1}, slot))
}

func TestPlacedHoursCounts(t *testing.T) {
	course := sampleCourse()
	s := New([]domain.Course{course}, nil, domain.NewGlobalBlackout(nil))
	require.Equal(t, 0, s.PlacedHours(course.ID))

	s.Add(domain.Placement{CourseID: course.ID, Slot: domain.Slot{Day: domain.Monday, Start: 480, End: 540}, InstructorID: "I1"})
	s.Add(domain.Placement{CourseID: course.ID, Slot: domain.Slot{Day: domain.Monday, Start: 540, End: 600}, InstructorID: "I1"})
	assert.Equal(t, 2, s.PlacedHours(course.ID))
}
