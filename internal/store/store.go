// Package store implements the mutable occupancy tables the search engine
// drives with strict LIFO add/remove discipline. A Store is a value owned by
// exactly one scheduling run; it must never be shared across runs or held as
// a package-level static.
package store

import (
	"fmt"

	"github.com/dersplan/timetable-api/internal/domain"
)

// Store holds the four occupancy indices described in the data model: one
// per instructor, one per room, one per (department, year) cohort, plus the
// immutable global blackout set. It also owns the insertion-ordered ledger.
type Store struct {
	instructorOcc map[string]map[domain.Slot]struct{}
	roomOcc       map[string]map[domain.Slot]struct{}
	cohortOcc     map[domain.CohortKey]map[domain.Slot]struct{}
	blackout      domain.GlobalBlackout

	courses     map[string]domain.Course
	sharedLinks map[string][]string // ownerCourseID -> partner department ids

	ledger []domain.Placement
}

// New builds an empty store scoped to one scheduling run. courses and
// sharedLinks are read-only domain inputs; they are consulted (never
// mutated) to resolve which cohorts a placement occupies.
func New(courses []domain.Course, sharedLinks []domain.SharedLink, blackout domain.GlobalBlackout) *Store {
	s := &Store{
		instructorOcc: make(map[string]map[domain.Slot]struct{}),
		roomOcc:       make(map[string]map[domain.Slot]struct{}),
		cohortOcc:     make(map[domain.CohortKey]map[domain.Slot]struct{}),
		blackout:      blackout,
		courses:       make(map[string]domain.Course, len(courses)),
		sharedLinks:   make(map[string][]string),
	}
	for _, c := range courses {
		s.courses[c.ID] = c
	}
	for _, link := range sharedLinks {
		s.sharedLinks[link.OwnerCourseID] = append(s.sharedLinks[link.OwnerCourseID], link.PartnerDepartmentID)
	}
	return s
}

// CohortsFor returns the course's own cohort plus every cohort reachable
// through a shared-course link, at the course's year.
func (s *Store) CohortsFor(course domain.Course) []domain.CohortKey {
	cohorts := []domain.CohortKey{course.Cohort()}
	for _, deptID := range s.sharedLinks[course.ID] {
		cohorts = append(cohorts, domain.CohortKey{DepartmentID: deptID, Year: course.Year()})
	}
	return cohorts
}

// IsBlackedOut reports whether slot is globally blacked out.
func (s *Store) IsBlackedOut(slot domain.Slot) bool {
	return s.blackout.Contains(slot)
}

// InstructorBusy reports whether instructorID already holds a placement at slot.
func (s *Store) InstructorBusy(instructorID string, slot domain.Slot) bool {
	occ, ok := s.instructorOcc[instructorID]
	if !ok {
		return false
	}
	_, busy := occ[slot]
	return busy
}

// RoomBusy reports whether roomID already holds a placement at slot.
func (s *Store) RoomBusy(roomID string, slot domain.Slot) bool {
	occ, ok := s.roomOcc[roomID]
	if !ok {
		return false
	}
	_, busy := occ[slot]
	return busy
}

// CohortBusy reports whether cohort already holds a placement at slot.
func (s *Store) CohortBusy(cohort domain.CohortKey, slot domain.Slot) bool {
	occ, ok := s.cohortOcc[cohort]
	if !ok {
		return false
	}
	_, busy := occ[slot]
	return busy
}

// Add inserts the placement into I, R (if the placement has a room), and C
// for the course's own cohort and every shared cohort. It is the caller's
// (the feasibility oracle's) job to have already verified the placement does
// not conflict; Add does not re-check.
func (s *Store) Add(p domain.Placement) {
	occupy(s.instructorOcc, p.InstructorID, p.Slot)
	if p.HasRoom() {
		occupy(s.roomOcc, p.RoomID, p.Slot)
	}
	course := s.courses[p.CourseID]
	for _, cohort := range s.CohortsFor(course) {
		occupy(s.cohortOcc, cohort, p.Slot)
	}
	s.ledger = append(s.ledger, p)
}

// Remove undoes exactly what Add did for p. Calling Remove on a placement
// that was not the most recent Add, or was never added, is a programming
// error in the search engine and panics rather than silently corrupting the
// store.
func (s *Store) Remove(p domain.Placement) {
	if len(s.ledger) == 0 || s.ledger[len(s.ledger)-1] != p {
		panic(fmt.Sprintf("store: Remove called on non-top-of-ledger placement %+v", p))
	}
	s.ledger = s.ledger[:len(s.ledger)-1]

	vacate(s.instructorOcc, p.InstructorID, p.Slot)
	if p.HasRoom() {
		vacate(s.roomOcc, p.RoomID, p.Slot)
	}
	course := s.courses[p.CourseID]
	for _, cohort := range s.CohortsFor(course) {
		vacate(s.cohortOcc, cohort, p.Slot)
	}
}

// RemoveAny undoes what Add did for p regardless of its position in the
// ledger, splicing it out in place. Used by the editor, which operates on a
// rehydrated persisted ledger and moves an arbitrary placement, not
// necessarily the most recently added one. The search engine must never call
// this — it relies on Remove's strict-LIFO panic to catch ordering bugs.
func (s *Store) RemoveAny(p domain.Placement) {
	idx := -1
	for i, existing := range s.ledger {
		if existing == p {
			idx = i
			break
		}
	}
	if idx == -1 {
		panic(fmt.Sprintf("store: RemoveAny called on placement not in ledger %+v", p))
	}
	s.ledger = append(s.ledger[:idx], s.ledger[idx+1:]...)

	vacate(s.instructorOcc, p.InstructorID, p.Slot)
	if p.HasRoom() {
		vacate(s.roomOcc, p.RoomID, p.Slot)
	}
	course := s.courses[p.CourseID]
	for _, cohort := range s.CohortsFor(course) {
		vacate(s.cohortOcc, cohort, p.Slot)
	}
}

func occupy[K comparable](table map[K]map[domain.Slot]struct{}, key K, slot domain.Slot) {
	occ, ok := table[key]
	if !ok {
		occ = make(map[domain.Slot]struct{})
		table[key] = occ
	}
	occ[slot] = struct{}{}
}

func vacate[K comparable](table map[K]map[domain.Slot]struct{}, key K, slot domain.Slot) {
	occ, ok := table[key]
	if !ok {
		return
	}
	delete(occ, slot)
	if len(occ) == 0 {
		delete(table, key)
	}
}

// Ledger returns a copy of the ordered placements added so far.
func (s *Store) Ledger() []domain.Placement {
	out := make([]domain.Placement, len(s.ledger))
	copy(out, s.ledger)
	return out
}

// PlacedHours counts how many placements exist for courseID so far.
func (s *Store) PlacedHours(courseID string) int {
	n := 0
	for _, p := range s.ledger {
		if p.CourseID == courseID {
			n++
		}
	}
	return n
}
