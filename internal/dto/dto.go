// Package dto holds the HTTP request/response shapes for the timetable
// API's gin routes, kept separate from internal/models' persistence rows the
// way the teacher's internal/dto package separates wire shapes from table
// rows.
package dto

import "github.com/dersplan/timetable-api/internal/domain"

// GenerateRequest starts a scheduling run for one (academic_year,
// semester_label) key.
type GenerateRequest struct {
	AcademicYear  string `json:"academic_year" binding:"required"`
	SemesterLabel string `json:"semester_label" binding:"required"`
	Async         bool   `json:"async"`
}

// GenerateResponse reports a synchronous run's outcome.
type GenerateResponse struct {
	AcademicYear   string   `json:"academic_year"`
	SemesterLabel  string   `json:"semester_label"`
	PlacementCount int      `json:"placement_count"`
	Warnings       []string `json:"warnings,omitempty"`
}

// GenerateJobResponse reports an asynchronous run's job id for polling.
type GenerateJobResponse struct {
	JobID string `json:"job_id"`
}

// MoveRequest relocates one persisted placement to a new day/time, scoped to
// the schedule identified by the request's :id path parameter.
type MoveRequest struct {
	PlacementID string `json:"placement_id" binding:"required"`
	Day         string `json:"day" binding:"required"`
	Start       string `json:"start" binding:"required"`
	End         string `json:"end" binding:"required"`
}

// PlacementResponse is one ledger entry rendered for API consumers.
type PlacementResponse struct {
	CourseID     string `json:"course_id"`
	Day          string `json:"day"`
	Start        int    `json:"start_minute"`
	End          int    `json:"end_minute"`
	RoomID       string `json:"room_id,omitempty"`
	InstructorID string `json:"instructor_id"`
	IsOnline     bool   `json:"is_online"`
}

// PlacementFrom converts a domain.Placement into its wire shape.
func PlacementFrom(p domain.Placement) PlacementResponse {
	return PlacementResponse{
		CourseID:     p.CourseID,
		Day:          p.Slot.Day.String(),
		Start:        int(p.Slot.Start),
		End:          int(p.Slot.End),
		RoomID:       p.RoomID,
		InstructorID: p.InstructorID,
		IsOnline:     p.IsOnline,
	}
}

// ScheduleKeyResponse is one entry in the schedule listing.
type ScheduleKeyResponse struct {
	AcademicYear  string `json:"academic_year"`
	SemesterLabel string `json:"semester_label"`
}

// AddDepartmentRequest creates a department.
type AddDepartmentRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// AddRoomRequest creates a room.
type AddRoomRequest struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity" binding:"required"`
	Kind     string `json:"kind" binding:"required"`
}

// AddInstructorRequest creates an instructor.
type AddInstructorRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

// SlotPayload is the wire shape of one (day, start, end) interval.
type SlotPayload struct {
	Day   string `json:"day" binding:"required"`
	Start int    `json:"start_minute"`
	End   int    `json:"end_minute"`
}

// EditAvailabilityRequest overwrites an instructor's weekly availability mask.
type EditAvailabilityRequest struct {
	Availability map[string][]SlotPayload `json:"availability"`
}

// SetBlackoutsRequest overwrites the university-wide blackout set.
type SetBlackoutsRequest struct {
	Blackouts []SlotPayload `json:"blackouts"`
}

// AddCourseRequest creates or updates a course directly, outside the bulk
// importer.
type AddCourseRequest struct {
	Code                 string   `json:"code" binding:"required"`
	Name                 string   `json:"name" binding:"required"`
	DepartmentID         string   `json:"department_id" binding:"required"`
	Semester             int      `json:"semester"`
	WeeklyHours          int      `json:"weekly_hours"`
	Kind                 string   `json:"kind"`
	IsOnline             bool     `json:"is_online"`
	CapacityHint         int      `json:"capacity_hint"`
	IsShared             bool     `json:"is_shared"`
	InstructorCandidates []string `json:"instructor_candidates,omitempty"`
}

// DefineSharedRequest marks a course shared with a partner department.
type DefineSharedRequest struct {
	PartnerDepartmentID string `json:"partner_department_id" binding:"required"`
}

// PinFixedTimeRequest records a fixed pre-placement for a course.
type PinFixedTimeRequest struct {
	Day   string `json:"day" binding:"required"`
	Start int    `json:"start_minute"`
	End   int    `json:"end_minute"`
}

// SetInstructorCandidatesRequest replaces a course's ordered candidate list.
type SetInstructorCandidatesRequest struct {
	InstructorIDs []string `json:"instructor_ids" binding:"required"`
}

// ImportResultResponse reports a catalogue import run's outcome.
type ImportResultResponse struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}
