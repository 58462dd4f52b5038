package domain

// SharedLink declares that any placement of OwnerCourseID also occupies the
// same (day, slot) in PartnerDepartmentID's cohort at the owner course's year.
type SharedLink struct {
	OwnerCourseID       string
	PartnerDepartmentID string
}
