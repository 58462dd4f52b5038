// Package oracle implements the pure feasibility predicate the search
// engine and the single-slot editor both consult. It never mutates the
// store and never raises; every failure mode is a plain false.
package oracle

import (
	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/store"
	"github.com/dersplan/timetable-api/internal/timegrid"
)

// Config carries the one documented open question: how a missing day key in
// an instructor's availability mask should be treated.
type Config struct {
	// AvailabilityMissingDayUnconstrained is used as given: its zero value
	// false treats a missing day as unavailable. Callers set it from
	// SchedulerConfig.AvailabilityMissingDayUnconstrained(), whose configured
	// default is "unconstrained".
	AvailabilityMissingDayUnconstrained bool
}

// Candidate is everything CanPlace needs to evaluate one placement attempt.
type Candidate struct {
	Course     domain.Course
	Slot       domain.Slot
	Room       *domain.Room // nil means NONE (online/no-room placement)
	Instructor domain.Instructor
}

// CanPlace checks, in the spec's exact order, short-circuiting on the first
// failure: global blackout, instructor busy, instructor availability,
// cohort conflicts (own plus shared), room busy/kind/capacity (or the
// online-eligibility rule when no room is given), and instructor candidacy.
func CanPlace(st *store.Store, cfg Config, cand Candidate) bool {
	if st.IsBlackedOut(cand.Slot) {
		return false
	}
	if st.InstructorBusy(cand.Instructor.ID, cand.Slot) {
		return false
	}
	if !cand.Instructor.Availability.Allows(cand.Slot, cfg.AvailabilityMissingDayUnconstrained) {
		return false
	}
	for _, cohort := range st.CohortsFor(cand.Course) {
		if st.CohortBusy(cohort, cand.Slot) {
			return false
		}
	}
	if cand.Room != nil {
		if st.RoomBusy(cand.Room.ID, cand.Slot) {
			return false
		}
		isLabCourse := cand.Course.Kind == domain.CourseLab
		isLabRoom := cand.Room.Kind == domain.RoomLab
		if isLabCourse != isLabRoom {
			return false
		}
		if cand.Room.Capacity < cand.Course.CapacityHint {
			return false
		}
	} else {
		if !(cand.Course.IsOnline || timegrid.IsOnlineEligible(cand.Slot)) {
			return false
		}
		if cand.Course.Kind == domain.CourseLab {
			return false
		}
	}
	if !containsInstructor(cand.Course.InstructorCandidates, cand.Instructor.ID) {
		return false
	}
	return true
}

func containsInstructor(candidates []string, id string) bool {
	for _, c := range candidates {
		if c == id {
			return true
		}
	}
	return false
}
