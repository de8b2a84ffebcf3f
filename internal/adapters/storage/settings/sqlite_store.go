package settings

import (
	"context"
	"database/sql"
	"time"

	domain "swimclub/internal/domain/settings"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new settings store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// RegistrationOpen reports whether trainer self-registration is open.
func (s *SQLiteStore) RegistrationOpen(ctx context.Context) (bool, error) {
	return s.getBool(ctx, domain.KeyRegistrationOpen, domain.DefaultRegistrationOpen)
}

// SetRegistrationOpen toggles trainer self-registration.
func (s *SQLiteStore) SetRegistrationOpen(ctx context.Context, open bool) error {
	return s.setBool(ctx, domain.KeyRegistrationOpen, open)
}

// WorkoutAIEnabled reports whether AI workout generation is enabled.
func (s *SQLiteStore) WorkoutAIEnabled(ctx context.Context) (bool, error) {
	return s.getBool(ctx, domain.KeyWorkoutAIEnabled, domain.DefaultWorkoutAIEnabled)
}

// SetWorkoutAIEnabled toggles AI workout generation.
func (s *SQLiteStore) SetWorkoutAIEnabled(ctx context.Context, enabled bool) error {
	return s.setBool(ctx, domain.KeyWorkoutAIEnabled, enabled)
}

// ContractTestMode reports whether contracts are sent in test mode.
func (s *SQLiteStore) ContractTestMode(ctx context.Context) (bool, error) {
	return s.getBool(ctx, domain.KeyContractTestMode, domain.DefaultContractTestMode)
}

// SetContractTestMode toggles contract test mode.
func (s *SQLiteStore) SetContractTestMode(ctx context.Context, enabled bool) error {
	return s.setBool(ctx, domain.KeyContractTestMode, enabled)
}

// getBool reads a boolean setting, falling back to fallback when the row
// has never been written.
func (s *SQLiteStore) getBool(ctx context.Context, key string, fallback bool) (bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM app_setting WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	return value == "true", nil
}

func (s *SQLiteStore) setBool(ctx context.Context, key string, value bool) error {
	text := "false"
	if value {
		text = "true"
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO app_setting (key, value, updated_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at",
		key, text, time.Now().Format(time.RFC3339Nano))
	return err
}
