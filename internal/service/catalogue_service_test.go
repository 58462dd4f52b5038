package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dersplan/timetable-api/internal/domain"
)

type fakeAdminRepository struct {
	departments []domain.Department
	blackouts   []domain.Slot
	mask        domain.AvailabilityMask
}

func (f *fakeAdminRepository) AddDepartment(ctx context.Context, code, name string) (string, error) {
	f.departments = append(f.departments, domain.Department{ID: "D" + code, Code: code, Name: name})
	return "D" + code, nil
}

func (f *fakeAdminRepository) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return f.departments, nil
}

func (f *fakeAdminRepository) AddRoom(ctx context.Context, name string, capacity int, kind domain.RoomKind) (string, error) {
	return "R1", nil
}

func (f *fakeAdminRepository) ListRooms(ctx context.Context) ([]domain.Room, error) { return nil, nil }

func (f *fakeAdminRepository) AddInstructor(ctx context.Context, displayName string) (string, error) {
	return "I1", nil
}

func (f *fakeAdminRepository) ListInstructors(ctx context.Context) ([]domain.Instructor, error) {
	return nil, nil
}

func (f *fakeAdminRepository) SetAvailability(ctx context.Context, instructorID string, mask domain.AvailabilityMask) error {
	f.mask = mask
	return nil
}

func (f *fakeAdminRepository) SetBlackouts(ctx context.Context, slots []domain.Slot) error {
	f.blackouts = slots
	return nil
}

type fakeCourseAdminRepository struct {
	fakeCourseUpserter
	sharedLinks map[string]string
	pins        map[string][]domain.Slot
	candidates  map[string][]string
}

func (f *fakeCourseAdminRepository) DefineShared(ctx context.Context, courseID, partnerDepartmentID string) error {
	if f.sharedLinks == nil {
		f.sharedLinks = make(map[string]string)
	}
	f.sharedLinks[courseID] = partnerDepartmentID
	return nil
}

func (f *fakeCourseAdminRepository) PinFixedTime(ctx context.Context, courseID string, slot domain.Slot) error {
	if f.pins == nil {
		f.pins = make(map[string][]domain.Slot)
	}
	f.pins[courseID] = append(f.pins[courseID], slot)
	return nil
}

func (f *fakeCourseAdminRepository) SetInstructorCandidates(ctx context.Context, courseID string, instructorIDs []string) error {
	if f.candidates == nil {
		f.candidates = make(map[string][]string)
	}
	f.candidates[courseID] = instructorIDs
	return nil
}

func (f *fakeCourseAdminRepository) List(ctx context.Context, departmentID string) ([]domain.Course, error) {
	return nil, nil
}

func TestCatalogueAdminServiceAddDepartment(t *testing.T) {
	admin := &fakeAdminRepository{}
	svc := NewCatalogueAdminService(admin, &fakeCourseAdminRepository{}, zap.NewNop())

	id, err := svc.AddDepartment(context.Background(), "CENG", "Computer Engineering")
	require.NoError(t, err)
	assert.Equal(t, "DCENG", id)
	assert.Len(t, admin.departments, 1)
}

func TestCatalogueAdminServiceDefineShared(t *testing.T) {
	courses := &fakeCourseAdminRepository{}
	svc := NewCatalogueAdminService(&fakeAdminRepository{}, courses, zap.NewNop())

	err := svc.DefineShared(context.Background(), "C1", "D2")
	require.NoError(t, err)
	assert.Equal(t, "D2", courses.sharedLinks["C1"])
}

func TestCatalogueAdminServiceSetGlobalBlackouts(t *testing.T) {
	admin := &fakeAdminRepository{}
	svc := NewCatalogueAdminService(admin, &fakeCourseAdminRepository{}, zap.NewNop())

	slots := []domain.Slot{{Day: domain.Wednesday, Start: 720, End: 780}}
	err := svc.SetGlobalBlackouts(context.Background(), slots)
	require.NoError(t, err)
	assert.Equal(t, slots, admin.blackouts)
}
