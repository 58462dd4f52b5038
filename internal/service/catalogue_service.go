package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dersplan/timetable-api/internal/domain"
)

type adminRepository interface {
	AddDepartment(ctx context.Context, code, name string) (string, error)
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	AddRoom(ctx context.Context, name string, capacity int, kind domain.RoomKind) (string, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
	AddInstructor(ctx context.Context, displayName string) (string, error)
	ListInstructors(ctx context.Context) ([]domain.Instructor, error)
	SetAvailability(ctx context.Context, instructorID string, mask domain.AvailabilityMask) error
	SetBlackouts(ctx context.Context, slots []domain.Slot) error
}

type courseAdminRepository interface {
	courseUpserter
	DefineShared(ctx context.Context, courseID, partnerDepartmentID string) error
	PinFixedTime(ctx context.Context, courseID string, slot domain.Slot) error
	SetInstructorCandidates(ctx context.Context, courseID string, instructorIDs []string) error
	List(ctx context.Context, departmentID string) ([]domain.Course, error)
}

// CatalogueAdminService backs every timetablectl subcommand that mutates
// departments, rooms, instructors, or courses directly, as opposed to
// running a scheduling pass.
type CatalogueAdminService struct {
	admin   adminRepository
	courses courseAdminRepository
	logger  *zap.Logger
}

// NewCatalogueAdminService constructs a CatalogueAdminService.
func NewCatalogueAdminService(admin adminRepository, courses courseAdminRepository, logger *zap.Logger) *CatalogueAdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogueAdminService{admin: admin, courses: courses, logger: logger}
}

// AddDepartment creates a new department.
func (s *CatalogueAdminService) AddDepartment(ctx context.Context, code, name string) (string, error) {
	return s.admin.AddDepartment(ctx, code, name)
}

// ListDepartments lists every department.
func (s *CatalogueAdminService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return s.admin.ListDepartments(ctx)
}

// AddRoom creates a new room.
func (s *CatalogueAdminService) AddRoom(ctx context.Context, name string, capacity int, kind domain.RoomKind) (string, error) {
	return s.admin.AddRoom(ctx, name, capacity, kind)
}

// ListRooms lists every room.
func (s *CatalogueAdminService) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return s.admin.ListRooms(ctx)
}

// AddInstructor creates a new instructor with an empty availability mask
// (no day listed, so every day follows the missing-day setting);
// EditAvailability narrows it afterward.
func (s *CatalogueAdminService) AddInstructor(ctx context.Context, displayName string) (string, error) {
	return s.admin.AddInstructor(ctx, displayName)
}

// ListInstructors lists every instructor.
func (s *CatalogueAdminService) ListInstructors(ctx context.Context) ([]domain.Instructor, error) {
	return s.admin.ListInstructors(ctx)
}

// EditAvailability overwrites an instructor's weekly availability mask.
func (s *CatalogueAdminService) EditAvailability(ctx context.Context, instructorID string, mask domain.AvailabilityMask) error {
	return s.admin.SetAvailability(ctx, instructorID, mask)
}

// AddCourse upserts a course row directly (outside the bulk importer),
// following the same shared-vs-owned dedup key the importer uses.
func (s *CatalogueAdminService) AddCourse(ctx context.Context, course domain.Course) (string, error) {
	id, err := s.courses.Upsert(ctx, course)
	if err != nil {
		return "", fmt.Errorf("add course %s: %w", course.Code, err)
	}
	return id, nil
}

// ListCourses lists every course belonging to a department.
func (s *CatalogueAdminService) ListCourses(ctx context.Context, departmentID string) ([]domain.Course, error) {
	return s.courses.List(ctx, departmentID)
}

// DefineShared marks a course shared with a partner department.
func (s *CatalogueAdminService) DefineShared(ctx context.Context, courseID, partnerDepartmentID string) error {
	return s.courses.DefineShared(ctx, courseID, partnerDepartmentID)
}

// PinFixedTime records a fixed pre-placement for a course.
func (s *CatalogueAdminService) PinFixedTime(ctx context.Context, courseID string, slot domain.Slot) error {
	return s.courses.PinFixedTime(ctx, courseID, slot)
}

// SetInstructorCandidates declares the ordered instructor candidates for a
// course.
func (s *CatalogueAdminService) SetInstructorCandidates(ctx context.Context, courseID string, instructorIDs []string) error {
	return s.courses.SetInstructorCandidates(ctx, courseID, instructorIDs)
}

// SetGlobalBlackouts replaces the university-wide blackout set.
func (s *CatalogueAdminService) SetGlobalBlackouts(ctx context.Context, slots []domain.Slot) error {
	return s.admin.SetBlackouts(ctx, slots)
}
