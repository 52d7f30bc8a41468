package repository

// Schema creates the dev API tables. Statements are idempotent and run in order by database.Migrate.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		fees NUMERIC(12,2),
		course_type TEXT NOT NULL,
		duration NUMERIC(6,2),
		duration_type TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS subjects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL,
		type TEXT NOT NULL,
		course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (course_id, code)
	)`,
	`CREATE TABLE IF NOT EXISTS enquiries (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone_number TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		application_number TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		phone_number TEXT NOT NULL DEFAULT '',
		date_of_birth DATE NOT NULL,
		payment_status TEXT NOT NULL DEFAULT 'PENDING',
		payment_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		course_id TEXT REFERENCES courses(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS admins (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_subjects_course_id ON subjects(course_id)`,
}
