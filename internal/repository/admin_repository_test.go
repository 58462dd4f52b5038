package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dersplan/timetable-api/internal/domain"
)

func TestAdminRepositoryAddDepartment(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO departments")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := repo.AddDepartment(context.Background(), "CENG", "Computer Engineering")
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryListRoomsMapsKind(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "kind"}).
			AddRow("R1", "A101", 40, "LAB"))

	rooms, err := repo.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	require.Equal(t, domain.RoomKind("LAB"), rooms[0].Kind)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositorySetAvailabilityEncodesMask(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE instructors SET availability")).
		WithArgs(sqlmock.AnyArg(), "I1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mask := domain.AvailabilityMask{domain.Monday: {{Day: domain.Monday, Start: 540, End: 600}}}
	err := repo.SetAvailability(context.Background(), "I1", mask)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
