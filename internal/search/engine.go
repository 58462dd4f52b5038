// Package search implements the backtracking engine described by the
// scheduler: variable ordering over courses, hour-variable expansion guided
// by a day-distribution target, value ordering over (day, slot, room,
// instructor) tuples, and classical chronological backtracking with
// cooperative cancellation.
package search

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strings"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/oracle"
	"github.com/dersplan/timetable-api/internal/store"
	"github.com/dersplan/timetable-api/internal/timegrid"
)

// ErrCancelled is returned when the caller-provided context is done before
// the search completes. The store is left in a consistent, fully
// backtracked state that the caller must discard.
var ErrCancelled = errors.New("search: cancelled")

// ErrInfeasible is returned when the backtracking procedure exhausts every
// tuple without placing every required hour.
var ErrInfeasible = errors.New("search: infeasible")

// Diagnostic reports, for one course that did not reach its weekly target,
// how many hours were needed versus how far the deepest attempt got.
type Diagnostic struct {
	CourseID string
	Needed   int
	Placed   int
}

// CourseInput is one course still requiring placements when the search
// engine starts. RemainingHours already excludes hours satisfied by fixed
// pins pre-placed by the driver. DayTargets sums to RemainingHours and
// anchors each hour variable's preferred day.
type CourseInput struct {
	Course         domain.Course
	RemainingHours int
	DayTargets     map[domain.Day]int
}

// Result is the discriminated success/failure outcome of a run.
type Result struct {
	Ledger      []domain.Placement
	Diagnostics []Diagnostic
}

// Config bundles the tie-breaking inputs the engine needs beyond the domain
// data already loaded into the store.
type Config struct {
	Oracle          oracle.Config
	RectorWideCodes []string // course-code prefixes treated as rector-wide shared/common
	Seed            int64
}

// Engine runs one backtracking search over a store that the driver has
// already seeded with fixed-pin placements.
type Engine struct {
	store       *store.Store
	rooms       []domain.Room
	instructors map[string]domain.Instructor
	cfg         Config
	rng         *rand.Rand
}

// New builds an engine bound to one store for the lifetime of one run.
func New(st *store.Store, rooms []domain.Room, instructors map[string]domain.Instructor, cfg Config) *Engine {
	sortedRooms := make([]domain.Room, len(rooms))
	copy(sortedRooms, rooms)
	sort.SliceStable(sortedRooms, func(i, j int) bool { return sortedRooms[i].Capacity < sortedRooms[j].Capacity })

	return &Engine{
		store:       st,
		rooms:       sortedRooms,
		instructors: instructors,
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
	}
}

type hourVariable struct {
	course       domain.Course
	preferredDay domain.Day
}

// Run orders courses, expands hour variables, and backtracks until every
// variable is placed, the search space is exhausted, or ctx is cancelled.
func (e *Engine) Run(ctx context.Context, courses []CourseInput) (Result, error) {
	ordered := e.orderCourses(courses)
	variables := e.expandVariables(ordered)

	deepest := newProgressSnapshot(e.store, ordered)
	ok, err := e.backtrack(ctx, variables, 0, deepest)
	if err != nil {
		return Result{}, err
	}
	if ok {
		return Result{Ledger: e.store.Ledger()}, nil
	}

	return Result{Diagnostics: deepest.diagnostics()}, ErrInfeasible
}

// orderCourses applies the stable key-tuple ordering from the search spec:
// fixed-pin priority, rector-wide codes, LAB before non-LAB, ascending
// semester, descending capacity hint, then a seeded random tiebreak.
func (e *Engine) orderCourses(courses []CourseInput) []CourseInput {
	ordered := make([]CourseInput, len(courses))
	copy(ordered, courses)

	tiebreak := make(map[string]float64, len(ordered))
	for _, c := range ordered {
		tiebreak[c.Course.ID] = e.rng.Float64()
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].Course, ordered[j].Course

		ap, bp := len(a.FixedPins) > 0, len(b.FixedPins) > 0
		if ap != bp {
			return ap
		}

		ar, br := e.isRectorWide(a.Code), e.isRectorWide(b.Code)
		if ar != br {
			return ar
		}

		al, bl := a.Kind == domain.CourseLab, b.Kind == domain.CourseLab
		if al != bl {
			return al
		}

		if a.Semester != b.Semester {
			return a.Semester < b.Semester
		}

		if a.CapacityHint != b.CapacityHint {
			return a.CapacityHint > b.CapacityHint
		}

		return tiebreak[a.ID] < tiebreak[b.ID]
	})

	return ordered
}

func (e *Engine) isRectorWide(code string) bool {
	for _, prefix := range e.cfg.RectorWideCodes {
		if strings.HasPrefix(code, prefix) {
			return true
		}
	}
	return false
}

// expandVariables turns each course's remaining hours into independent hour
// variables, anchored to a preferred day in day-target order so that within
// a day hour variables land in contiguous, earliest-feasible slots.
func (e *Engine) expandVariables(ordered []CourseInput) []hourVariable {
	var variables []hourVariable
	for _, ci := range ordered {
		for _, day := range domain.Weekdays {
			for i := 0; i < ci.DayTargets[day]; i++ {
				variables = append(variables, hourVariable{course: ci.Course, preferredDay: day})
			}
		}
	}
	return variables
}

func (e *Engine) backtrack(ctx context.Context, variables []hourVariable, idx int, progress *progressSnapshot) (bool, error) {
	if idx == len(variables) {
		return true, nil
	}

	select {
	case <-ctx.Done():
		return false, ErrCancelled
	default:
	}

	v := variables[idx]
	for _, day := range e.dayOrder(v.preferredDay) {
		for _, slot := range timegrid.SlotsOf(day) {
			for _, roomCandidate := range e.roomOrder() {
				for _, instructorID := range v.course.InstructorCandidates {
					instructor, ok := e.instructors[instructorID]
					if !ok {
						continue
					}

					if !oracle.CanPlace(e.store, e.cfg.Oracle, oracle.Candidate{
						Course:     v.course,
						Slot:       slot,
						Room:       roomCandidate,
						Instructor: instructor,
					}) {
						continue
					}

					placement := domain.Placement{
						CourseID:     v.course.ID,
						Slot:         slot,
						InstructorID: instructorID,
						IsOnline:     roomCandidate == nil,
					}
					if roomCandidate != nil {
						placement.RoomID = roomCandidate.ID
					}

					e.store.Add(placement)
					progress.record(e.store, idx+1)

					done, err := e.backtrack(ctx, variables, idx+1, progress)
					if err != nil {
						e.store.Remove(placement)
						return false, err
					}
					if done {
						return true, nil
					}
					e.store.Remove(placement)
				}
			}
		}
	}

	return false, nil
}

// dayOrder puts preferred first, then the remaining weekdays in a seeded
// random shuffle so solutions don't front-load Monday.
func (e *Engine) dayOrder(preferred domain.Day) []domain.Day {
	rest := make([]domain.Day, 0, len(domain.Weekdays)-1)
	for _, d := range domain.Weekdays {
		if d != preferred {
			rest = append(rest, d)
		}
	}
	e.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	return append([]domain.Day{preferred}, rest...)
}

// roomOrder yields smallest-feasible-capacity-upward rooms followed by the
// NONE option; the oracle is responsible for rejecting infeasible rooms and
// for rejecting NONE when the slot/course does not allow it.
func (e *Engine) roomOrder() []*domain.Room {
	candidates := make([]*domain.Room, 0, len(e.rooms)+1)
	for i := range e.rooms {
		candidates = append(candidates, &e.rooms[i])
	}
	return append(candidates, nil)
}
