package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/store"
)

func baseCourse() domain.Course {
	return domain.Course{
		ID:                   "ENG101",
		DepartmentID:         "D1",
		Semester:             1,
		WeeklyHours:          1,
		Kind:                 domain.CourseTheory,
		CapacityHint:         20,
		InstructorCandidates: []string{"I1"},
	}
}

func baseInstructor() domain.Instructor {
	return domain.Instructor{ID: "I1", Availability: domain.AvailabilityMask{}}
}

func TestCanPlaceRejectsGlobalBlackout(t *testing.T) {
	slot := domain.Slot{Day: domain.Wednesday, Start: 720, End: 780}
	s := store.New([]domain.Course{baseCourse()}, nil, domain.NewGlobalBlackout([]domain.Slot{slot}))
	room := &domain.Room{ID: "R1", Capacity: 30, Kind: domain.RoomNormal}

	ok := CanPlace(s, Config{AvailabilityMissingDayUnconstrained: true}, Candidate{
		Course: baseCourse(), Slot: slot, Room: room, Instructor: baseInstructor(),
	})
	assert.False(t, ok)
}

func TestCanPlaceRejectsUnavailableDay(t *testing.T) {
	course := baseCourse()
	s := store.New([]domain.Course{course}, nil, domain.NewGlobalBlackout(nil))
	slot := domain.Slot{Day: domain.Monday, Start: 480, End: 540}
	instr := domain.Instructor{ID: "I1", Availability: domain.AvailabilityMask{domain.Monday: {}}}
	room := &domain.Room{ID: "R1", Capacity: 30, Kind: domain.RoomNormal}

	ok := CanPlace(s, Config{AvailabilityMissingDayUnconstrained: true}, Candidate{
		Course: course, Slot: slot, Room: room, Instructor: instr,
	})
	assert.False(t, ok)

	tue := domain.Slot{Day: domain.Tuesday, Start: 480, End: 540}
	ok = CanPlace(s, Config{AvailabilityMissingDayUnconstrained: true}, Candidate{
		Course: course, Slot: tue, Room: room, Instructor: instr,
	})
	assert.True(t, ok)
}

func TestCanPlaceEnforcesLabRoomKindAndCapacity(t *testing.T) {
	course := baseCourse()
	course.Kind = domain.CourseLab
	course.CapacityHint = 20
	s := store.New([]domain.Course{course}, nil, domain.NewGlobalBlackout(nil))
	slot := domain.Slot{Day: domain.Monday, Start: 480, End: 540}

	normalRoom := &domain.Room{ID: "NORM", Capacity: 100, Kind: domain.RoomNormal}
	smallLab := &domain.Room{ID: "LAB1", Capacity: 15, Kind: domain.RoomLab}
	bigLab := &domain.Room{ID: "LAB2", Capacity: 25, Kind: domain.RoomLab}

	assert.False(t, CanPlace(s, Config{AvailabilityMissingDayUnconstrained: true}, Candidate{Course: course, Slot: slot, Room: normalRoom, Instructor: baseInstructor()}))
	assert.False(t, CanPlace(s, Config{AvailabilityMissingDayUnconstrained: true}, Candidate{Course: course, Slot: slot, Room: smallLab, Instructor: baseInstructor()}))
	assert.True(t, CanPlace(s, Config{AvailabilityMissingDayUnconstrained: true}, Candidate{Course: course, Slot: slot, Room: bigLab, Instructor: baseInstructor()}))
}

func TestCanPlaceOnlineRulesForbidLabWithoutRoom(t *testing.T) {
	course := baseCourse()
	course.Kind = domain.CourseLab
	s := store.New([]domain.Course{course}, nil, domain.NewGlobalBlackout(nil))
	evening := domain.Slot{Day: domain.Monday, Start: 1020, End: 1140}

	ok := CanPlace(s, Config{AvailabilityMissingDayUnconstrained: true}, Candidate{
		Course: course, Slot: evening, Room: nil, Instructor: baseInstructor(),
	})
	assert.False(t, ok, "LAB courses may never be online")
}

func TestCanPlaceAllowsOnlineTheoryInEveningSlot(t *testing.T) {
	course := baseCourse()
	s := store.New([]domain.Course{course}, nil, domain.NewGlobalBlackout(nil))
	evening := domain.Slot{Day: domain.Monday, Start: 1020, End: 1140}
	morning := domain.Slot{Day: domain.Monday, Start: 480, End: 540}

	assert.True(t, CanPlace(s, Config{AvailabilityMissingDayUnconstrained: true}, Candidate{Course: course, Slot: evening, Room: nil, Instructor: baseInstructor()}))
	assert.False(t, CanPlace(s, Config{AvailabilityMissingDayUnconstrained: true}, Candidate{Course: course, Slot: morning, Room: nil, Instructor: baseInstructor()}),
		"non-eligible slot without a room is infeasible unless the course is explicitly online")
}

func TestCanPlaceRejectsInstructorNotInCandidateSet(t *testing.T) {
	course := baseCourse()
	s := store.New([]domain.Course{course}, nil, domain.NewGlobalBlackout(nil))
	slot := domain.Slot{Day: domain.Monday, Start: 480, End: 540}
	room := &domain.Room{ID: "R1", Capacity: 30, Kind: domain.RoomNormal}
	other := domain.Instructor{ID: "I2"}

	ok := CanPlace(s, Config{AvailabilityMissingDayUnconstrained: true}, Candidate{
		Course: course, Slot: slot, Room: room, Instructor: other,
	})
	assert.False(t, ok)
}
