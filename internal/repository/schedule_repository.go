package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/models"
)

// ScheduleRepository persists the placements produced by a scheduling run,
// keyed by (academic_year, semester_label), and serves them back out for the
// HTTP/CLI surfaces.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a repository bound to db.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// StoreSchedule deletes any existing placements for the given key and
// inserts ledger in a single transaction, matching the persistence
// collaborator contract: store_schedule first deletes, then inserts.
func (r *ScheduleRepository) StoreSchedule(ctx context.Context, academicYear, semesterLabel string, ledger []domain.Placement) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin store schedule: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM placements WHERE academic_year = $1 AND semester_label = $2`, academicYear, semesterLabel); err != nil {
		return fmt.Errorf("delete existing placements: %w", err)
	}

	now := time.Now().UTC()
	const insertQuery = `INSERT INTO placements (id, academic_year, semester_label, course_id, day, start_minute, end_minute, room_id, instructor_id, is_online, created_at)
VALUES (:id, :academic_year, :semester_label, :course_id, :day, :start_minute, :end_minute, :room_id, :instructor_id, :is_online, :created_at)`

	for _, p := range ledger {
		row := models.Placement{
			ID:            uuid.NewString(),
			AcademicYear:  academicYear,
			SemesterLabel: semesterLabel,
			CourseID:      p.CourseID,
			Day:           p.Slot.Day.String(),
			Start:         int(p.Slot.Start),
			End:           int(p.Slot.End),
			RoomID:        p.RoomID,
			InstructorID:  p.InstructorID,
			IsOnline:      p.IsOnline,
			CreatedAt:     now,
		}
		if _, err = sqlx.NamedExecContext(ctx, tx, insertQuery, &row); err != nil {
			return fmt.Errorf("insert placement for course %s: %w", p.CourseID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit store schedule: %w", err)
	}
	return nil
}

// List returns distinct stored schedule keys, newest first, with an
// allowed-sort whitelist and page/size clamping matching the repository
// layer's established pattern.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleKey, int, error) {
	base := "FROM (SELECT DISTINCT academic_year, semester_label, MAX(created_at) AS last_created FROM placements"
	var conditions []string
	var args []interface{}

	if filter.AcademicYear != "" {
		conditions = append(conditions, fmt.Sprintf("academic_year = $%d", len(args)+1))
		args = append(args, filter.AcademicYear)
	}
	if len(conditions) > 0 {
		base += " WHERE " + strings.Join(conditions, " AND ")
	}
	base += " GROUP BY academic_year, semester_label) keys"

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"academic_year": "academic_year",
		"created_at":    "last_created",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "last_created"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT academic_year, semester_label %s ORDER BY %s %s LIMIT %d OFFSET %d", base, column, order, size, offset)
	var keys []models.ScheduleKey
	if err := r.db.SelectContext(ctx, &keys, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedules: %w", err)
	}

	return keys, total, nil
}

// Slots returns every placement stored for one schedule key, ordered for
// display by day then start time.
func (r *ScheduleRepository) Slots(ctx context.Context, academicYear, semesterLabel string) ([]domain.Placement, error) {
	const query = `SELECT id, academic_year, semester_label, course_id, day, start_minute, end_minute, room_id, instructor_id, is_online, created_at
FROM placements WHERE academic_year = $1 AND semester_label = $2 ORDER BY day, start_minute`
	var rows []models.Placement
	if err := r.db.SelectContext(ctx, &rows, query, academicYear, semesterLabel); err != nil {
		return nil, fmt.Errorf("list schedule slots: %w", err)
	}

	placements := make([]domain.Placement, 0, len(rows))
	for _, row := range rows {
		day, err := domain.ParseDay(row.Day)
		if err != nil {
			return nil, fmt.Errorf("placement %s: %w", row.ID, err)
		}
		placements = append(placements, domain.Placement{
			CourseID:     row.CourseID,
			Slot:         domain.Slot{Day: day, Start: domain.ClockMinutes(row.Start), End: domain.ClockMinutes(row.End)},
			RoomID:       row.RoomID,
			InstructorID: row.InstructorID,
			IsOnline:     row.IsOnline,
		})
	}
	return placements, nil
}

// FindPlacementByID loads the single ledger row the single-slot editor moves,
// identified by its persisted row id rather than by (course, slot).
func (r *ScheduleRepository) FindPlacementByID(ctx context.Context, id string) (*models.Placement, error) {
	const query = `SELECT id, academic_year, semester_label, course_id, day, start_minute, end_minute, room_id, instructor_id, is_online, created_at FROM placements WHERE id = $1`
	var row models.Placement
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// ReplacePlacement atomically updates one stored placement row's day/slot in
// place, used by the editor's commit step once can_place has already
// verified feasibility.
func (r *ScheduleRepository) ReplacePlacement(ctx context.Context, id string, slot domain.Slot) error {
	const query = `UPDATE placements SET day = $1, start_minute = $2, end_minute = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, slot.Day.String(), int(slot.Start), int(slot.End), id)
	if err != nil {
		return fmt.Errorf("replace placement: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace placement rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes every placement stored under one schedule key.
func (r *ScheduleRepository) Delete(ctx context.Context, academicYear, semesterLabel string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM placements WHERE academic_year = $1 AND semester_label = $2`, academicYear, semesterLabel); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}
