// Package models holds the persistence row shapes for the scheduler's
// domain entities: one struct per table, with db/json tags in the
// teacher's style. Nothing outside internal/repository constructs or reads
// these directly against internal/domain.
package models

import "time"

// Department is the departments table row.
type Department struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Room is the rooms table row.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Kind      string    `db:"kind" json:"kind"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Instructor is the instructors table row. Availability is stored as a JSON
// document mapping a three-letter day code to a list of {start,end} minute
// pairs; absence of a key means unconstrained or unavailable per the
// configured SchedulerConfig.AvailabilityMissingDay semantics.
type Instructor struct {
	ID           string    `db:"id" json:"id"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	Availability []byte    `db:"availability" json:"availability"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Course is the courses table row.
type Course struct {
	ID           string    `db:"id" json:"id"`
	Code         string    `db:"code" json:"code"`
	Name         string    `db:"name" json:"name"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	Semester     int       `db:"semester" json:"semester"`
	WeeklyHours  int       `db:"weekly_hours" json:"weekly_hours"`
	Kind         string    `db:"kind" json:"kind"`
	IsOnline     bool      `db:"is_online" json:"is_online"`
	CapacityHint int       `db:"capacity_hint" json:"capacity_hint"`
	IsShared     bool      `db:"is_shared" json:"is_shared"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CourseInstructorCandidate is one row of the course<->instructor candidate
// join table; order_index preserves the declared candidate order the search
// engine's value ordering depends on.
type CourseInstructorCandidate struct {
	CourseID     string `db:"course_id" json:"course_id"`
	InstructorID string `db:"instructor_id" json:"instructor_id"`
	OrderIndex   int    `db:"order_index" json:"order_index"`
}

// CourseFixedPin is one row of a course's pre-placed (day, slot) pin.
type CourseFixedPin struct {
	CourseID string `db:"course_id" json:"course_id"`
	Day      string `db:"day" json:"day"`
	Start    int    `db:"start_minute" json:"start_minute"`
	End      int    `db:"end_minute" json:"end_minute"`
}

// SharedCourseLink is the shared_course_links table row.
type SharedCourseLink struct {
	OwnerCourseID       string `db:"owner_course_id" json:"owner_course_id"`
	PartnerDepartmentID string `db:"partner_department_id" json:"partner_department_id"`
}

// GlobalBlackout is the global_blackouts table row.
type GlobalBlackout struct {
	Day   string `db:"day" json:"day"`
	Start int    `db:"start_minute" json:"start_minute"`
	End   int    `db:"end_minute" json:"end_minute"`
}

// Placement is one placements table row, keyed (with AcademicYear and
// SemesterLabel) to a single stored schedule.
type Placement struct {
	ID             string    `db:"id" json:"id"`
	AcademicYear   string    `db:"academic_year" json:"academic_year"`
	SemesterLabel  string    `db:"semester_label" json:"semester_label"`
	CourseID       string    `db:"course_id" json:"course_id"`
	Day            string    `db:"day" json:"day"`
	Start          int       `db:"start_minute" json:"start_minute"`
	End            int       `db:"end_minute" json:"end_minute"`
	RoomID         string    `db:"room_id" json:"room_id"`
	InstructorID   string    `db:"instructor_id" json:"instructor_id"`
	IsOnline       bool      `db:"is_online" json:"is_online"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ScheduleKey identifies one stored ledger. The exact strings are preserved
// byte-for-byte, including non-ASCII semester labels ("Güz", "Bahar").
type ScheduleKey struct {
	AcademicYear  string `db:"academic_year" json:"academic_year"`
	SemesterLabel string `db:"semester_label" json:"semester_label"`
}

// ScheduleFilter narrows a schedule listing; List implements the same
// allowed-sort-whitelist and page/size clamping pattern used across the
// repository layer.
type ScheduleFilter struct {
	AcademicYear string
	SortBy       string
	SortOrder    string
	Page         int
	PageSize     int
}

// Page carries pagination metadata (total row count, page number and page
// size) for a list response, replacing the
// dropped models.Pagination type used only by the student-admin handlers.
type Page struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}
