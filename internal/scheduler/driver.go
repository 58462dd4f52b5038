// Package scheduler implements the top-level driver: load inputs, pre-place
// fixed pins and shared courses, apply the day-distribution heuristic,
// invoke the search engine, and emit the ledger or diagnostics.
package scheduler

import (
	"context"
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/oracle"
	"github.com/dersplan/timetable-api/internal/search"
	"github.com/dersplan/timetable-api/internal/store"
)

// Inputs is the immutable snapshot the persistence collaborator hands the
// driver at the start of a run.
type Inputs struct {
	Departments []domain.Department
	Rooms       []domain.Room
	Instructors []domain.Instructor
	Courses     []domain.Course
	SharedLinks []domain.SharedLink
	Blackouts   []domain.Slot
}

// Loader is the persistence collaborator's read side.
type Loader interface {
	LoadInputs(ctx context.Context) (Inputs, error)
}

// Config tunes the driver's heuristics. NewDriver fills in Logger and
// RectorWideCodes when they are zero; every other field is used as given, so a
// zero AvailabilityMissingDayUnconstrained treats a missing day as unavailable.
type Config struct {
	RectorWideCodes                     []string
	ForcedDistribution                  bool
	AvailabilityMissingDayUnconstrained bool
	Seed                                int64
	Logger                              *zap.Logger
}

// Driver runs one scheduling attempt. A fresh Driver must be constructed for
// every run; it is not reusable and shares no state across runs.
type Driver struct {
	loader Loader
	cfg    Config
	state  State
}

// NewDriver builds a driver bound to one loader.
func NewDriver(loader Loader, cfg Config) *Driver {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if len(cfg.RectorWideCodes) == 0 {
		cfg.RectorWideCodes = []string{"TUR", "ATA", "DIL", "ISG", "BLM417", "BLM426"}
	}
	return &Driver{loader: loader, cfg: cfg, state: StateLoading}
}

// State reports the driver's current position in the LOADING -> PRE_PLACING
// -> SEARCHING -> (SUCCESS | FAILURE) state machine.
func (d *Driver) State() State { return d.state }

// RunResult is the terminal outcome of a scheduling run.
type RunResult struct {
	Ledger      []domain.Placement
	Diagnostics []search.Diagnostic
	Warnings    []string
}

// Run executes the full driver pipeline once.
func (d *Driver) Run(ctx context.Context) (RunResult, error) {
	d.state = StateLoading
	inputs, err := d.loader.LoadInputs(ctx)
	if err != nil {
		return RunResult{}, &InputError{Message: err.Error()}
	}

	instructors := make(map[string]domain.Instructor, len(inputs.Instructors))
	for _, in := range inputs.Instructors {
		instructors[in.ID] = in
	}
	roomsByID := make(map[string]domain.Room, len(inputs.Rooms))
	for _, r := range inputs.Rooms {
		roomsByID[r.ID] = r
	}

	st := store.New(inputs.Courses, inputs.SharedLinks, domain.NewGlobalBlackout(inputs.Blackouts))
	oracleCfg := oracle.Config{AvailabilityMissingDayUnconstrained: d.cfg.AvailabilityMissingDayUnconstrained}

	d.state = StatePrePlacing
	var warnings []string
	remaining := make([]domain.Course, 0, len(inputs.Courses))
	for _, c := range inputs.Courses {
		if c.WeeklyHours == 0 {
			continue
		}
		if len(c.InstructorCandidates) == 0 {
			d.cfg.Logger.Warn("course has no instructor candidates, skipping", zap.String("course_id", c.ID))
			warnings = append(warnings, (&NoInstructorCandidatesWarning{CourseID: c.ID}).Error())
			continue
		}
		if len(c.FixedPins) > 0 {
			if err := prePlaceFixedPins(st, roomsByID, instructors, oracleCfg, c); err != nil {
				return RunResult{}, err
			}
		}
		if st.PlacedHours(c.ID) < c.WeeklyHours {
			remaining = append(remaining, c)
		}
	}

	sharedFirst, others := classifyShared(remaining, inputs.SharedLinks)
	ordered := append(sharedFirst, others...)

	rng := rand.New(rand.NewSource(d.cfg.Seed))
	dayLoad := make(map[domain.Day]int)
	courseInputs := make([]search.CourseInput, 0, len(ordered))
	for _, c := range ordered {
		need := c.WeeklyHours - st.PlacedHours(c.ID)
		targets := distributeDays(need, dayLoad, d.cfg.ForcedDistribution, rng)
		courseInputs = append(courseInputs, search.CourseInput{Course: c, RemainingHours: need, DayTargets: targets})
	}

	d.state = StateSearching
	engine := search.New(st, inputs.Rooms, instructors, search.Config{
		Oracle:          oracleCfg,
		RectorWideCodes: d.cfg.RectorWideCodes,
		Seed:            d.cfg.Seed,
	})

	result, err := engine.Run(ctx, courseInputs)
	if err != nil {
		switch err {
		case search.ErrCancelled:
			d.state = StateFailure
			return RunResult{}, ErrCancelled
		case search.ErrInfeasible:
			d.state = StateFailure
			return RunResult{Diagnostics: result.Diagnostics, Warnings: warnings}, ErrInfeasible
		default:
			d.state = StateFailure
			return RunResult{}, err
		}
	}

	d.state = StateSuccess
	return RunResult{Ledger: st.Ledger(), Warnings: warnings}, nil
}

// prePlaceFixedPins deterministically places every fixed pin of course c,
// choosing the smallest feasible room (or NONE when online-eligible) and the
// first feasible instructor from c's declared candidate order. A fixed pin
// infeasible against already-pinned placements or global constraints aborts
// the entire run, per the driver's step 2.
func prePlaceFixedPins(st *store.Store, rooms map[string]domain.Room, instructors map[string]domain.Instructor, cfg oracle.Config, c domain.Course) error {
	candidates := append(sortedRoomList(rooms), nil)

	for _, pin := range c.FixedPins {
		placed := false

		for _, roomPtr := range candidates {
			for _, instructorID := range c.InstructorCandidates {
				instructor, ok := instructors[instructorID]
				if !ok {
					continue
				}
				if !oracle.CanPlace(st, cfg, oracle.Candidate{Course: c, Slot: pin, Room: roomPtr, Instructor: instructor}) {
					continue
				}
				p := domain.Placement{CourseID: c.ID, Slot: pin, InstructorID: instructorID, IsOnline: roomPtr == nil}
				if roomPtr != nil {
					p.RoomID = roomPtr.ID
				}
				st.Add(p)
				placed = true
				break
			}
			if placed {
				break
			}
		}

		if !placed {
			return &FixedPinConflictError{CourseID: c.ID, Reason: "no feasible room/instructor combination for pin " + pin.String()}
		}
	}
	return nil
}

func sortedRoomList(rooms map[string]domain.Room) []*domain.Room {
	list := make([]domain.Room, 0, len(rooms))
	for _, r := range rooms {
		list = append(list, r)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Capacity < list[j].Capacity })
	out := make([]*domain.Room, len(list))
	for i := range list {
		out[i] = &list[i]
	}
	return out
}

// classifyShared splits courses into shared-linked-first and the rest,
// matching the driver's step 3 classification before the heuristic and
// search stages see them.
func classifyShared(courses []domain.Course, links []domain.SharedLink) (shared, others []domain.Course) {
	isShared := make(map[string]bool, len(links))
	for _, l := range links {
		isShared[l.OwnerCourseID] = true
	}
	for _, c := range courses {
		if c.IsShared || isShared[c.ID] {
			shared = append(shared, c)
		} else {
			others = append(others, c)
		}
	}
	return shared, others
}

// distributeDays implements the day-distribution heuristic: with forced
// distribution (the default for multi-hour courses) hours are spread onto
// the currently least-loaded days one at a time; otherwise every hour goes
// onto a single randomly chosen day.
func distributeDays(hours int, dayLoad map[domain.Day]int, forced bool, rng *rand.Rand) map[domain.Day]int {
	targets := make(map[domain.Day]int)
	if hours <= 0 {
		return targets
	}

	if !forced || hours == 1 {
		day := domain.Weekdays[rng.Intn(len(domain.Weekdays))]
		targets[day] = hours
		dayLoad[day] += hours
		return targets
	}

	for i := 0; i < hours; i++ {
		day := leastLoadedDay(dayLoad, rng)
		targets[day]++
		dayLoad[day]++
	}
	return targets
}

func leastLoadedDay(dayLoad map[domain.Day]int, rng *rand.Rand) domain.Day {
	best := domain.Weekdays[0]
	bestLoad := dayLoad[best]
	ties := []domain.Day{best}
	for _, d := range domain.Weekdays[1:] {
		load := dayLoad[d]
		if load < bestLoad {
			best, bestLoad = d, load
			ties = []domain.Day{d}
		} else if load == bestLoad {
			ties = append(ties, d)
		}
	}
	return ties[rng.Intn(len(ties))]
}

