// Package schema carries the Postgres DDL for the timetable tables
// SPEC_FULL.md §3 names, applied by timetablectl's init-db command the way
// the teacher's deployment runs its own schema before first boot.
package schema

// DDL creates every table the repository layer reads and writes, idempotent
// via IF NOT EXISTS so init-db is safe to run against an already-provisioned
// database.
const DDL = `
CREATE TABLE IF NOT EXISTS departments (
	id         TEXT PRIMARY KEY,
	code       TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS rooms (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	capacity   INTEGER NOT NULL,
	kind       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS instructors (
	id           TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	availability JSONB NOT NULL DEFAULT '{}',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS courses (
	id            TEXT PRIMARY KEY,
	code          TEXT NOT NULL,
	name          TEXT NOT NULL,
	department_id TEXT NOT NULL REFERENCES departments (id),
	semester      INTEGER NOT NULL,
	weekly_hours  INTEGER NOT NULL,
	kind          TEXT NOT NULL,
	is_online     BOOLEAN NOT NULL DEFAULT false,
	capacity_hint INTEGER NOT NULL DEFAULT 30,
	is_shared     BOOLEAN NOT NULL DEFAULT false,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (department_id, code)
);

CREATE TABLE IF NOT EXISTS course_instructor_candidates (
	course_id     TEXT NOT NULL REFERENCES courses (id) ON DELETE CASCADE,
	instructor_id TEXT NOT NULL REFERENCES instructors (id) ON DELETE CASCADE,
	order_index   INTEGER NOT NULL,
	PRIMARY KEY (course_id, instructor_id)
);

CREATE TABLE IF NOT EXISTS course_fixed_pins (
	course_id    TEXT NOT NULL REFERENCES courses (id) ON DELETE CASCADE,
	day          TEXT NOT NULL,
	start_minute INTEGER NOT NULL,
	end_minute   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS shared_course_links (
	owner_course_id       TEXT NOT NULL REFERENCES courses (id) ON DELETE CASCADE,
	partner_department_id TEXT NOT NULL REFERENCES departments (id),
	PRIMARY KEY (owner_course_id, partner_department_id)
);

CREATE TABLE IF NOT EXISTS global_blackouts (
	day          TEXT NOT NULL,
	start_minute INTEGER NOT NULL,
	end_minute   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS placements (
	id             TEXT PRIMARY KEY,
	academic_year  TEXT NOT NULL,
	semester_label TEXT NOT NULL,
	course_id      TEXT NOT NULL REFERENCES courses (id),
	day            TEXT NOT NULL,
	start_minute   INTEGER NOT NULL,
	end_minute     INTEGER NOT NULL,
	room_id        TEXT NOT NULL DEFAULT '',
	instructor_id  TEXT NOT NULL,
	is_online      BOOLEAN NOT NULL DEFAULT false,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_placements_schedule ON placements (academic_year, semester_label);
CREATE INDEX IF NOT EXISTS idx_courses_department ON courses (department_id);
`
