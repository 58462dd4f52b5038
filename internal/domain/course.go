package domain

// CourseKind is the structural kind of a course offering, driving the
// room-kind and online-eligibility rules in the feasibility oracle.
type CourseKind string

const (
	CourseTheory  CourseKind = "THEORY"
	CourseLab     CourseKind = "LAB"
	CourseApplied CourseKind = "APPLIED"
)

// DefaultCapacityHint is used when an importer or caller does not supply a
// real capacity figure. The source hard-codes 30 for every course; the
// reimplementation plumbs the real value through and only falls back to this
// constant when it is genuinely unknown.
const DefaultCapacityHint = 30

// Course describes one offering that must receive WeeklyHours placements.
type Course struct {
	ID                  string
	Code                string
	Name                string
	DepartmentID        string
	Semester            int
	WeeklyHours         int
	Kind                CourseKind
	IsOnline            bool
	CapacityHint        int
	InstructorCandidates []string
	FixedPins           []Slot
	IsShared            bool
}

// Year is the derived year of study, ceil(semester/2).
func (c Course) Year() int {
	return (c.Semester + 1) / 2
}

// Cohort is the course's own conflict-free scheduling unit.
func (c Course) Cohort() CohortKey {
	return CohortKey{DepartmentID: c.DepartmentID, Year: c.Year()}
}
