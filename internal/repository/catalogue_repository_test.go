package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/dersplan/timetable-api/internal/domain"
)

func TestCatalogueRepositoryLoadInputsAssemblesCourseCandidatesAndPins(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewCatalogueRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM departments")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "created_at", "updated_at"}).
			AddRow("D1", "CENG", "Computer Engineering", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "kind", "created_at", "updated_at"}).
			AddRow("R1", "A101", 40, "NORMAL", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM instructors")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "availability", "created_at", "updated_at"}).
			AddRow("I1", "Dr. Aksoy", []byte(`{"Mon":[{"start":540,"end":600}]}`), now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "department_id", "semester", "weekly_hours", "kind", "is_online", "capacity_hint", "is_shared", "created_at", "updated_at"}).
			AddRow("C1", "ENG101", "English I", "D1", 1, 1, "THEORY", false, 30, false, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM course_instructor_candidates")).
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "instructor_id", "order_index"}).
			AddRow("C1", "I1", 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM course_fixed_pins")).
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "day", "start_minute", "end_minute"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM shared_course_links")).
		WillReturnRows(sqlmock.NewRows([]string{"owner_course_id", "partner_department_id"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM global_blackouts")).
		WillReturnRows(sqlmock.NewRows([]string{"day", "start_minute", "end_minute"}))

	inputs, err := repo.LoadInputs(context.Background())
	require.NoError(t, err)
	require.Len(t, inputs.Courses, 1)
	require.Equal(t, []string{"I1"}, inputs.Courses[0].InstructorCandidates)
	require.Len(t, inputs.Instructors, 1)
	require.True(t, inputs.Instructors[0].Availability.Allows(domain.Slot{Day: domain.Monday, Start: 540, End: 600}, false))
	require.NoError(t, mock.ExpectationsWereMet())
}
