package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS admin_user (
		id TEXT PRIMARY KEY,
		identity_id TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS wage_level (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		hourly_wage REAL NOT NULL DEFAULT 0,
		minimum_hours REAL NOT NULL DEFAULT 0,
		sequence INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS trainer_level (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		sequence INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS trainer (
		id TEXT PRIMARY KEY,
		identity_id TEXT UNIQUE,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		national_id TEXT,
		birthdate TEXT,
		bank_account_number TEXT,
		phone TEXT,
		street TEXT,
		street2 TEXT,
		zip TEXT,
		city TEXT,
		wage_level_id TEXT,
		minimum_hours REAL NOT NULL DEFAULT 0,
		contract_from_date TEXT,
		contract_to_date TEXT,
		contract_permanent INTEGER NOT NULL DEFAULT 0,
		contract_document_ref TEXT,
		contract_status TEXT NOT NULL DEFAULT 'none',
		contract_sent_at TEXT,
		payroll_employee_id INTEGER NOT NULL DEFAULT 0,
		can_access_workout_library INTEGER NOT NULL DEFAULT 0,
		can_access_planner INTEGER NOT NULL DEFAULT 0,
		can_access_statistics INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (wage_level_id) REFERENCES wage_level(id) ON DELETE SET NULL
	);

	CREATE TABLE IF NOT EXISTS trainer_certification (
		trainer_id TEXT NOT NULL,
		level_id TEXT NOT NULL,
		PRIMARY KEY (trainer_id, level_id),
		FOREIGN KEY (trainer_id) REFERENCES trainer(id) ON DELETE CASCADE,
		FOREIGN KEY (level_id) REFERENCES trainer_level(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS party (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		competitive INTEGER NOT NULL DEFAULT 0,
		roster_subgroup_id TEXT,
		sequence INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS trainer_party (
		trainer_id TEXT NOT NULL,
		party_id TEXT NOT NULL,
		PRIMARY KEY (trainer_id, party_id),
		FOREIGN KEY (trainer_id) REFERENCES trainer(id) ON DELETE CASCADE,
		FOREIGN KEY (party_id) REFERENCES party(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS swimmer (
		id TEXT PRIMARY KEY,
		roster_member_id TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT,
		phone TEXT,
		party_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (party_id) REFERENCES party(id)
	);

	CREATE TABLE IF NOT EXISTS training_session (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		total_meters TEXT,
		focus_stroke TEXT,
		intensity TEXT,
		created_by TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS planned_session (
		id TEXT PRIMARY KEY,
		session_id TEXT,
		party_id TEXT NOT NULL,
		planned_date TEXT NOT NULL,
		planned_by TEXT,
		ai_title TEXT,
		ai_content TEXT,
		ai_total_meters TEXT,
		ai_focus_stroke TEXT,
		ai_intensity TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (session_id) REFERENCES training_session(id),
		FOREIGN KEY (party_id) REFERENCES party(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS app_setting (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_trainer_document_ref ON trainer(contract_document_ref);
	CREATE INDEX IF NOT EXISTS idx_planned_session_date ON planned_session(planned_date);
	CREATE INDEX IF NOT EXISTS idx_planned_session_party ON planned_session(party_id);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
