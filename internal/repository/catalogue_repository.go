package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/models"
	"github.com/dersplan/timetable-api/internal/scheduler"
)

// CatalogueRepository is the persistence collaborator's read side: it loads
// the immutable snapshot the scheduler driver runs against. It implements
// scheduler.Loader.
type CatalogueRepository struct {
	db *sqlx.DB
}

// NewCatalogueRepository constructs a repository bound to db.
func NewCatalogueRepository(db *sqlx.DB) *CatalogueRepository {
	return &CatalogueRepository{db: db}
}

// availabilitySlot is the JSON wire shape stored in instructors.availability.
type availabilitySlot struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// LoadInputs returns immutable snapshots of every entity the scheduler
// driver needs for one run.
func (r *CatalogueRepository) LoadInputs(ctx context.Context) (scheduler.Inputs, error) {
	var deptRows []models.Department
	if err := r.db.SelectContext(ctx, &deptRows, `SELECT id, code, name, created_at, updated_at FROM departments ORDER BY code`); err != nil {
		return scheduler.Inputs{}, fmt.Errorf("load departments: %w", err)
	}

	var roomRows []models.Room
	if err := r.db.SelectContext(ctx, &roomRows, `SELECT id, name, capacity, kind, created_at, updated_at FROM rooms ORDER BY capacity`); err != nil {
		return scheduler.Inputs{}, fmt.Errorf("load rooms: %w", err)
	}

	var instructorRows []models.Instructor
	if err := r.db.SelectContext(ctx, &instructorRows, `SELECT id, display_name, availability, created_at, updated_at FROM instructors ORDER BY display_name`); err != nil {
		return scheduler.Inputs{}, fmt.Errorf("load instructors: %w", err)
	}

	var courseRows []models.Course
	if err := r.db.SelectContext(ctx, &courseRows, `SELECT id, code, name, department_id, semester, weekly_hours, kind, is_online, capacity_hint, is_shared, created_at, updated_at FROM courses ORDER BY code`); err != nil {
		return scheduler.Inputs{}, fmt.Errorf("load courses: %w", err)
	}

	var candidateRows []models.CourseInstructorCandidate
	if err := r.db.SelectContext(ctx, &candidateRows, `SELECT course_id, instructor_id, order_index FROM course_instructor_candidates ORDER BY course_id, order_index`); err != nil {
		return scheduler.Inputs{}, fmt.Errorf("load course instructor candidates: %w", err)
	}

	var pinRows []models.CourseFixedPin
	if err := r.db.SelectContext(ctx, &pinRows, `SELECT course_id, day, start_minute, end_minute FROM course_fixed_pins ORDER BY course_id`); err != nil {
		return scheduler.Inputs{}, fmt.Errorf("load course fixed pins: %w", err)
	}

	var linkRows []models.SharedCourseLink
	if err := r.db.SelectContext(ctx, &linkRows, `SELECT owner_course_id, partner_department_id FROM shared_course_links`); err != nil {
		return scheduler.Inputs{}, fmt.Errorf("load shared course links: %w", err)
	}

	var blackoutRows []models.GlobalBlackout
	if err := r.db.SelectContext(ctx, &blackoutRows, `SELECT day, start_minute, end_minute FROM global_blackouts`); err != nil {
		return scheduler.Inputs{}, fmt.Errorf("load global blackouts: %w", err)
	}

	candidatesByCourse := make(map[string][]string, len(courseRows))
	for _, c := range candidateRows {
		candidatesByCourse[c.CourseID] = append(candidatesByCourse[c.CourseID], c.InstructorID)
	}

	pinsByCourse := make(map[string][]domain.Slot, len(pinRows))
	for _, p := range pinRows {
		day, err := domain.ParseDay(p.Day)
		if err != nil {
			return scheduler.Inputs{}, fmt.Errorf("course %s fixed pin: %w", p.CourseID, err)
		}
		pinsByCourse[p.CourseID] = append(pinsByCourse[p.CourseID], domain.Slot{Day: day, Start: domain.ClockMinutes(p.Start), End: domain.ClockMinutes(p.End)})
	}

	inputs := scheduler.Inputs{
		Departments: make([]domain.Department, 0, len(deptRows)),
		Rooms:       make([]domain.Room, 0, len(roomRows)),
		Instructors: make([]domain.Instructor, 0, len(instructorRows)),
		Courses:     make([]domain.Course, 0, len(courseRows)),
		SharedLinks: make([]domain.SharedLink, 0, len(linkRows)),
	}

	for _, d := range deptRows {
		inputs.Departments = append(inputs.Departments, domain.Department{ID: d.ID, Code: d.Code, Name: d.Name})
	}

	for _, rm := range roomRows {
		inputs.Rooms = append(inputs.Rooms, domain.Room{ID: rm.ID, Name: rm.Name, Capacity: rm.Capacity, Kind: domain.RoomKind(rm.Kind)})
	}

	for _, in := range instructorRows {
		mask, err := decodeAvailability(in.Availability)
		if err != nil {
			return scheduler.Inputs{}, fmt.Errorf("instructor %s availability: %w", in.ID, err)
		}
		inputs.Instructors = append(inputs.Instructors, domain.Instructor{ID: in.ID, DisplayName: in.DisplayName, Availability: mask})
	}

	for _, c := range courseRows {
		inputs.Courses = append(inputs.Courses, domain.Course{
			ID:                   c.ID,
			Code:                 c.Code,
			Name:                 c.Name,
			DepartmentID:         c.DepartmentID,
			Semester:             c.Semester,
			WeeklyHours:          c.WeeklyHours,
			Kind:                 domain.CourseKind(c.Kind),
			IsOnline:             c.IsOnline,
			CapacityHint:         c.CapacityHint,
			InstructorCandidates: candidatesByCourse[c.ID],
			FixedPins:            pinsByCourse[c.ID],
			IsShared:             c.IsShared,
		})
	}

	for _, l := range linkRows {
		inputs.SharedLinks = append(inputs.SharedLinks, domain.SharedLink{OwnerCourseID: l.OwnerCourseID, PartnerDepartmentID: l.PartnerDepartmentID})
	}

	for _, b := range blackoutRows {
		day, err := domain.ParseDay(b.Day)
		if err != nil {
			return scheduler.Inputs{}, fmt.Errorf("global blackout: %w", err)
		}
		inputs.Blackouts = append(inputs.Blackouts, domain.Slot{Day: day, Start: domain.ClockMinutes(b.Start), End: domain.ClockMinutes(b.End)})
	}

	return inputs, nil
}

func decodeAvailability(raw []byte) (domain.AvailabilityMask, error) {
	if len(raw) == 0 {
		return domain.AvailabilityMask{}, nil
	}
	var wire map[string][]availabilitySlot
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, err
	}
	mask := make(domain.AvailabilityMask, len(wire))
	for dayCode, slots := range wire {
		day, err := domain.ParseDay(dayCode)
		if err != nil {
			return nil, err
		}
		list := make([]domain.Slot, 0, len(slots))
		for _, s := range slots {
			list = append(list, domain.Slot{Day: day, Start: domain.ClockMinutes(s.Start), End: domain.ClockMinutes(s.End)})
		}
		mask[day] = list
	}
	return mask, nil
}

// encodeAvailability is the inverse of decodeAvailability, used by the CLI's
// edit-availability command.
func encodeAvailability(mask domain.AvailabilityMask) ([]byte, error) {
	wire := make(map[string][]availabilitySlot, len(mask))
	days := make([]domain.Day, 0, len(mask))
	for d := range mask {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	for _, d := range days {
		slots := mask[d]
		encoded := make([]availabilitySlot, 0, len(slots))
		for _, s := range slots {
			encoded = append(encoded, availabilitySlot{Start: int(s.Start), End: int(s.End)})
		}
		wire[d.String()] = encoded
	}
	return json.Marshal(wire)
}
