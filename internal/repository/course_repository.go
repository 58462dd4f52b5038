package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dersplan/timetable-api/internal/domain"
)

// CourseRepository manages the courses table, including the catalogue
// importer's upsert semantics: a shared course (TUR/ATA/DIL-prefixed, or
// otherwise configured) is deduplicated by code alone so every department
// that teaches it shares one row; a department-owned course is deduplicated
// by (code, department).
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a repository bound to db.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Upsert inserts course, or updates the matching existing row in place,
// returning the row's id either way.
func (r *CourseRepository) Upsert(ctx context.Context, course domain.Course) (string, error) {
	existingID, err := r.findExistingID(ctx, course)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("find existing course %s: %w", course.Code, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		id := uuid.NewString()
		const insertQuery = `INSERT INTO courses (id, code, name, department_id, semester, weekly_hours, kind, is_online, capacity_hint, is_shared, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())`
		if _, err := r.db.ExecContext(ctx, insertQuery, id, course.Code, course.Name, course.DepartmentID, course.Semester, course.WeeklyHours, string(course.Kind), course.IsOnline, course.CapacityHint, course.IsShared); err != nil {
			return "", fmt.Errorf("insert course %s: %w", course.Code, err)
		}
		return id, nil
	}

	const updateQuery = `UPDATE courses SET name = $1, semester = $2, weekly_hours = $3, kind = $4, is_online = $5, capacity_hint = $6, is_shared = $7, updated_at = now() WHERE id = $8`
	if _, err := r.db.ExecContext(ctx, updateQuery, course.Name, course.Semester, course.WeeklyHours, string(course.Kind), course.IsOnline, course.CapacityHint, course.IsShared, existingID); err != nil {
		return "", fmt.Errorf("update course %s: %w", course.Code, err)
	}
	return existingID, nil
}

func (r *CourseRepository) findExistingID(ctx context.Context, course domain.Course) (string, error) {
	var id string
	if course.IsShared {
		err := r.db.GetContext(ctx, &id, `SELECT id FROM courses WHERE code = $1`, course.Code)
		return id, err
	}
	err := r.db.GetContext(ctx, &id, `SELECT id FROM courses WHERE code = $1 AND department_id = $2`, course.Code, course.DepartmentID)
	return id, err
}

// DefineShared marks an existing course shared and records a partner
// department link, used by the CLI's define-shared command.
func (r *CourseRepository) DefineShared(ctx context.Context, courseID, partnerDepartmentID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin define shared: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE courses SET is_shared = true, updated_at = now() WHERE id = $1`, courseID); err != nil {
		return fmt.Errorf("mark course %s shared: %w", courseID, err)
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO shared_course_links (owner_course_id, partner_department_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, courseID, partnerDepartmentID); err != nil {
		return fmt.Errorf("link course %s to department %s: %w", courseID, partnerDepartmentID, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit define shared: %w", err)
	}
	return nil
}

// PinFixedTime records a fixed pre-placement for a course as a new pin row,
// used by the CLI's pin-fixed-time command. A pin already declared at the
// same day/time is not replaced; the duplicate is stored as a second pin.
func (r *CourseRepository) PinFixedTime(ctx context.Context, courseID string, slot domain.Slot) error {
	const query = `INSERT INTO course_fixed_pins (course_id, day, start_minute, end_minute) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, courseID, slot.Day.String(), int(slot.Start), int(slot.End)); err != nil {
		return fmt.Errorf("pin course %s: %w", courseID, err)
	}
	return nil
}

// SetInstructorCandidates replaces a course's declared instructor candidate
// order, used by the CLI's course management commands.
func (r *CourseRepository) SetInstructorCandidates(ctx context.Context, courseID string, instructorIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set candidates: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM course_instructor_candidates WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("clear candidates for course %s: %w", courseID, err)
	}
	const insertQuery = `INSERT INTO course_instructor_candidates (course_id, instructor_id, order_index) VALUES ($1, $2, $3)`
	for i, instructorID := range instructorIDs {
		if _, err = tx.ExecContext(ctx, insertQuery, courseID, instructorID, i); err != nil {
			return fmt.Errorf("insert candidate %s for course %s: %w", instructorID, courseID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit set candidates: %w", err)
	}
	return nil
}

// List returns every course belonging to a department, ordered by code.
func (r *CourseRepository) List(ctx context.Context, departmentID string) ([]domain.Course, error) {
	const query = `SELECT id, code, name, department_id, semester, weekly_hours, kind, is_online, capacity_hint, is_shared FROM courses WHERE department_id = $1 ORDER BY code`
	type row struct {
		ID           string `db:"id"`
		Code         string `db:"code"`
		Name         string `db:"name"`
		DepartmentID string `db:"department_id"`
		Semester     int    `db:"semester"`
		WeeklyHours  int    `db:"weekly_hours"`
		Kind         string `db:"kind"`
		IsOnline     bool   `db:"is_online"`
		CapacityHint int    `db:"capacity_hint"`
		IsShared     bool   `db:"is_shared"`
	}
	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, departmentID); err != nil {
		return nil, fmt.Errorf("list courses for department %s: %w", departmentID, err)
	}
	courses := make([]domain.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, domain.Course{
			ID:           r.ID,
			Code:         r.Code,
			Name:         r.Name,
			DepartmentID: r.DepartmentID,
			Semester:     r.Semester,
			WeeklyHours:  r.WeeklyHours,
			Kind:         domain.CourseKind(r.Kind),
			IsOnline:     r.IsOnline,
			CapacityHint: r.CapacityHint,
			IsShared:     r.IsShared,
		})
	}
	return courses, nil
}
