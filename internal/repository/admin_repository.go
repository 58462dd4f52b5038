package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dersplan/timetable-api/internal/domain"
)

// AdminRepository manages the catalogue entities the CLI's admin commands
// create and list directly: departments, rooms, and instructors.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository constructs a repository bound to db.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// AddDepartment inserts a new department and returns its id.
func (r *AdminRepository) AddDepartment(ctx context.Context, code, name string) (string, error) {
	id := uuid.NewString()
	const query = `INSERT INTO departments (id, code, name, created_at, updated_at) VALUES ($1, $2, $3, now(), now())`
	if _, err := r.db.ExecContext(ctx, query, id, code, name); err != nil {
		return "", fmt.Errorf("add department %s: %w", code, err)
	}
	return id, nil
}

// ListDepartments returns every department ordered by code.
func (r *AdminRepository) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	const query = `SELECT id, code, name FROM departments ORDER BY code`
	type row struct {
		ID   string `db:"id"`
		Code string `db:"code"`
		Name string `db:"name"`
	}
	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	out := make([]domain.Department, 0, len(rows))
	for _, d := range rows {
		out = append(out, domain.Department{ID: d.ID, Code: d.Code, Name: d.Name})
	}
	return out, nil
}

// AddRoom inserts a new room and returns its id.
func (r *AdminRepository) AddRoom(ctx context.Context, name string, capacity int, kind domain.RoomKind) (string, error) {
	id := uuid.NewString()
	const query = `INSERT INTO rooms (id, name, capacity, kind, created_at, updated_at) VALUES ($1, $2, $3, $4, now(), now())`
	if _, err := r.db.ExecContext(ctx, query, id, name, capacity, string(kind)); err != nil {
		return "", fmt.Errorf("add room %s: %w", name, err)
	}
	return id, nil
}

// ListRooms returns every room ordered by capacity.
func (r *AdminRepository) ListRooms(ctx context.Context) ([]domain.Room, error) {
	const query = `SELECT id, name, capacity, kind FROM rooms ORDER BY capacity`
	type row struct {
		ID       string `db:"id"`
		Name     string `db:"name"`
		Capacity int    `db:"capacity"`
		Kind     string `db:"kind"`
	}
	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	out := make([]domain.Room, 0, len(rows))
	for _, rm := range rows {
		out = append(out, domain.Room{ID: rm.ID, Name: rm.Name, Capacity: rm.Capacity, Kind: domain.RoomKind(rm.Kind)})
	}
	return out, nil
}

// AddInstructor inserts a new instructor with an empty availability mask and
// returns its id; availability is populated later via SetAvailability.
func (r *AdminRepository) AddInstructor(ctx context.Context, displayName string) (string, error) {
	id := uuid.NewString()
	const query = `INSERT INTO instructors (id, display_name, availability, created_at, updated_at) VALUES ($1, $2, $3, now(), now())`
	if _, err := r.db.ExecContext(ctx, query, id, displayName, []byte("{}")); err != nil {
		return "", fmt.Errorf("add instructor %s: %w", displayName, err)
	}
	return id, nil
}

// ListInstructors returns every instructor ordered by display name.
func (r *AdminRepository) ListInstructors(ctx context.Context) ([]domain.Instructor, error) {
	const query = `SELECT id, display_name, availability FROM instructors ORDER BY display_name`
	type row struct {
		ID           string `db:"id"`
		DisplayName  string `db:"display_name"`
		Availability []byte `db:"availability"`
	}
	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	out := make([]domain.Instructor, 0, len(rows))
	for _, in := range rows {
		mask, err := decodeAvailability(in.Availability)
		if err != nil {
			return nil, fmt.Errorf("instructor %s availability: %w", in.ID, err)
		}
		out = append(out, domain.Instructor{ID: in.ID, DisplayName: in.DisplayName, Availability: mask})
	}
	return out, nil
}

// SetAvailability overwrites an instructor's availability mask, used by the
// CLI's edit-availability command.
func (r *AdminRepository) SetAvailability(ctx context.Context, instructorID string, mask domain.AvailabilityMask) error {
	encoded, err := encodeAvailability(mask)
	if err != nil {
		return fmt.Errorf("encode availability for instructor %s: %w", instructorID, err)
	}
	const query = `UPDATE instructors SET availability = $1, updated_at = now() WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, encoded, instructorID); err != nil {
		return fmt.Errorf("set availability for instructor %s: %w", instructorID, err)
	}
	return nil
}

// SetBlackouts replaces the global blackout set, used by the CLI's
// administration commands.
func (r *AdminRepository) SetBlackouts(ctx context.Context, slots []domain.Slot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set blackouts: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM global_blackouts`); err != nil {
		return fmt.Errorf("clear blackouts: %w", err)
	}
	const insertQuery = `INSERT INTO global_blackouts (day, start_minute, end_minute) VALUES ($1, $2, $3)`
	for _, slot := range slots {
		if _, err = tx.ExecContext(ctx, insertQuery, slot.Day.String(), int(slot.Start), int(slot.End)); err != nil {
			return fmt.Errorf("insert blackout: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit set blackouts: %w", err)
	}
	return nil
}
