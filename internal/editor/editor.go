// Package editor implements the single-slot move: an atomic remove/check/
// commit-or-restore operation against a persisted ledger's constraint store.
// It never performs a multi-step search.
package editor

import (
	"errors"
	"fmt"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/oracle"
	"github.com/dersplan/timetable-api/internal/store"
	"github.com/dersplan/timetable-api/internal/timegrid"
)

// ErrBadTimeFormat signals new_time_interval could not be parsed into a
// canonical slot.
var ErrBadTimeFormat = errors.New("editor: malformed time interval")

// ErrConflict signals the move would violate a hard constraint.
var ErrConflict = errors.New("editor: conflict")

// ConflictError names which constraint rejected the move.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return fmt.Sprintf("conflict: %s", e.Reason) }
func (e *ConflictError) Unwrap() error { return ErrConflict }

// MoveRequest identifies the placement to move and its new time. The course
// and instructor/room are carried alongside so the editor never has to look
// them up through a repository mid-transaction.
type MoveRequest struct {
	Course      domain.Course
	Instructor  domain.Instructor
	Room        *domain.Room // nil when Original.HasRoom() is false
	Original    domain.Placement
	NewDay      domain.Day
	NewStartRaw string
	NewEndRaw   string
}

// Editor performs single-slot moves against one constraint store. Callers
// are responsible for holding an exclusive lock on the persisted ledger for
// the duration of one Move call.
type Editor struct {
	store *store.Store
	cfg   oracle.Config
}

// New builds an editor bound to the persisted ledger's store.
func New(st *store.Store, cfg oracle.Config) *Editor {
	return &Editor{store: st, cfg: cfg}
}

// Move parses req.NewStartRaw/NewEndRaw into a canonical slot and attempts
// the swap: remove the original placement, check feasibility of the
// candidate at the new slot, and either commit (add the candidate) or
// restore (re-add the original) before returning.
func (e *Editor) Move(req MoveRequest) (domain.Placement, error) {
	newSlot, err := timegrid.ParseInterval(req.NewDay, req.NewStartRaw, req.NewEndRaw)
	if err != nil {
		return domain.Placement{}, fmt.Errorf("%w: %v", ErrBadTimeFormat, err)
	}

	e.store.RemoveAny(req.Original)

	candidate := req.Original
	candidate.Slot = newSlot

	cand := oracle.Candidate{
		Course:     req.Course,
		Slot:       newSlot,
		Room:       req.Room,
		Instructor: req.Instructor,
	}
	if !oracle.CanPlace(e.store, e.cfg, cand) {
		reason := e.conflictReason(cand)
		e.store.Add(req.Original)
		return domain.Placement{}, &ConflictError{Reason: reason}
	}

	e.store.Add(candidate)
	return candidate, nil
}

// conflictReason re-walks CanPlace's checks in the same order against the
// store's individual predicates to name the one that rejected cand. Only
// called after CanPlace has already returned false for cand.
func (e *Editor) conflictReason(cand oracle.Candidate) string {
	if e.store.IsBlackedOut(cand.Slot) {
		return "slot falls within a global blackout"
	}
	if e.store.InstructorBusy(cand.Instructor.ID, cand.Slot) {
		return "instructor already has a placement at that time"
	}
	if !cand.Instructor.Availability.Allows(cand.Slot, e.cfg.AvailabilityMissingDayUnconstrained) {
		return "instructor is unavailable at that time"
	}
	for _, cohort := range e.store.CohortsFor(cand.Course) {
		if e.store.CohortBusy(cohort, cand.Slot) {
			return fmt.Sprintf("cohort %s year %d already has a class at that time", cohort.DepartmentID, cohort.Year)
		}
	}
	if cand.Room != nil {
		if e.store.RoomBusy(cand.Room.ID, cand.Slot) {
			return "room already has a placement at that time"
		}
		if (cand.Course.Kind == domain.CourseLab) != (cand.Room.Kind == domain.RoomLab) {
			return "room kind does not match the course's kind"
		}
		if cand.Room.Capacity < cand.Course.CapacityHint {
			return "room capacity is below the course's requirement"
		}
	} else {
		if !(cand.Course.IsOnline || timegrid.IsOnlineEligible(cand.Slot)) {
			return "slot is not eligible for a roomless placement"
		}
		if cand.Course.Kind == domain.CourseLab {
			return "lab course cannot be placed without a room"
		}
	}
	for _, id := range cand.Course.InstructorCandidates {
		if id == cand.Instructor.ID {
			return "new slot violates a hard constraint"
		}
	}
	return "instructor is not a candidate for the course"
}
