package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/service"
)

type fakeAdminRepo struct {
	blackouts []domain.Slot
}

func (f *fakeAdminRepo) AddDepartment(ctx context.Context, code, name string) (string, error) {
	return "dept-1", nil
}
func (f *fakeAdminRepo) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return nil, nil
}
func (f *fakeAdminRepo) AddRoom(ctx context.Context, name string, capacity int, kind domain.RoomKind) (string, error) {
	return "room-1", nil
}
func (f *fakeAdminRepo) ListRooms(ctx context.Context) ([]domain.Room, error) { return nil, nil }
func (f *fakeAdminRepo) AddInstructor(ctx context.Context, displayName string) (string, error) {
	return "instr-1", nil
}
func (f *fakeAdminRepo) ListInstructors(ctx context.Context) ([]domain.Instructor, error) {
	return nil, nil
}
func (f *fakeAdminRepo) SetAvailability(ctx context.Context, instructorID string, mask domain.AvailabilityMask) error {
	return nil
}
func (f *fakeAdminRepo) SetBlackouts(ctx context.Context, slots []domain.Slot) error {
	f.blackouts = slots
	return nil
}

type fakeCourseRepo struct {
	pinnedCourseID string
	pinnedSlot     domain.Slot
	candidateIDs   []string
}

func (f *fakeCourseRepo) Upsert(ctx context.Context, course domain.Course) (string, error) {
	return "course-1", nil
}
func (f *fakeCourseRepo) DefineShared(ctx context.Context, courseID, partnerDepartmentID string) error {
	return nil
}
func (f *fakeCourseRepo) PinFixedTime(ctx context.Context, courseID string, slot domain.Slot) error {
	f.pinnedCourseID = courseID
	f.pinnedSlot = slot
	return nil
}
func (f *fakeCourseRepo) SetInstructorCandidates(ctx context.Context, courseID string, instructorIDs []string) error {
	f.candidateIDs = instructorIDs
	return nil
}
func (f *fakeCourseRepo) List(ctx context.Context, departmentID string) ([]domain.Course, error) {
	return nil, nil
}

func newTestAdminService() (*service.CatalogueAdminService, *fakeAdminRepo, *fakeCourseRepo) {
	admin := &fakeAdminRepo{}
	courses := &fakeCourseRepo{}
	return service.NewCatalogueAdminService(admin, courses, zap.NewNop()), admin, courses
}

func TestCmdBlackoutParsesAndAppliesSlots(t *testing.T) {
	admin, repo, _ := newTestAdminService()
	app = deps{admin: admin}

	cmd := cmdBlackout()
	require.NoError(t, cmd.Flags().Set("slot", "Mon,12:00,13:00"))
	cmd.SetContext(context.Background())

	require.NoError(t, cmd.RunE(cmd, nil))
	require.Len(t, repo.blackouts, 1)
	require.Equal(t, domain.Monday, repo.blackouts[0].Day)
}

func TestCmdBlackoutRejectsMalformedSlot(t *testing.T) {
	admin, _, _ := newTestAdminService()
	app = deps{admin: admin}

	cmd := cmdBlackout()
	require.NoError(t, cmd.Flags().Set("slot", "Mon,12:00"))
	cmd.SetContext(context.Background())

	require.Error(t, cmd.RunE(cmd, nil))
}

func TestCmdPinFixedTimeWiresCourseRepository(t *testing.T) {
	admin, _, courses := newTestAdminService()
	app = deps{admin: admin}

	cmd := cmdPinFixedTime()
	require.NoError(t, cmd.Flags().Set("course-id", "course-1"))
	require.NoError(t, cmd.Flags().Set("day", "Tue"))
	require.NoError(t, cmd.Flags().Set("start", "09:00"))
	require.NoError(t, cmd.Flags().Set("end", "10:00"))
	cmd.SetContext(context.Background())

	require.NoError(t, cmd.RunE(cmd, nil))
	require.Equal(t, "course-1", courses.pinnedCourseID)
	require.Equal(t, domain.Tuesday, courses.pinnedSlot.Day)
}

func TestCmdPinFixedTimeRejectsUnknownDay(t *testing.T) {
	admin, _, _ := newTestAdminService()
	app = deps{admin: admin}

	cmd := cmdPinFixedTime()
	require.NoError(t, cmd.Flags().Set("course-id", "course-1"))
	require.NoError(t, cmd.Flags().Set("day", "Zzz"))
	require.NoError(t, cmd.Flags().Set("start", "09:00"))
	require.NoError(t, cmd.Flags().Set("end", "10:00"))
	cmd.SetContext(context.Background())

	require.Error(t, cmd.RunE(cmd, nil))
}

func TestCmdCourseSetCandidatesSplitsCommaList(t *testing.T) {
	admin, _, courses := newTestAdminService()
	app = deps{admin: admin}

	courseCmd := cmdCourse()
	setCandidates, _, err := courseCmd.Find([]string{"set-candidates"})
	require.NoError(t, err)
	require.NoError(t, setCandidates.Flags().Set("course-id", "course-1"))
	require.NoError(t, setCandidates.Flags().Set("instructor-ids", "i1,i2,i3"))
	setCandidates.SetContext(context.Background())

	require.NoError(t, setCandidates.RunE(setCandidates, nil))
	require.Equal(t, []string{"i1", "i2", "i3"}, courses.candidateIDs)
}
