package trainerlevel

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "swimclub/internal/domain/trainerlevel"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new trainer-level store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const levelColumns = "id, name, sequence, created_at, updated_at"

// GetByID retrieves a Level by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Level, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+levelColumns+" FROM trainer_level WHERE id = ?", id)
	entity, err := scanLevel(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Level{}, fmt.Errorf("trainer level not found: %w", err)
	}
	return entity, err
}

// Save persists a Level to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Level) error {
	query := "INSERT INTO trainer_level (" + levelColumns + ") VALUES (?, ?, ?, ?, ?) " +
		"ON CONFLICT(id) DO UPDATE SET name=excluded.name, sequence=excluded.sequence, " +
		"updated_at=excluded.updated_at"

	var updatedAt interface{}
	if !entity.UpdatedAt.IsZero() {
		updatedAt = entity.UpdatedAt.Format(time.RFC3339Nano)
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.Sequence,
		entity.CreatedAt.Format(time.RFC3339Nano),
		updatedAt,
	)
	return err
}

// Delete removes a Level from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM trainer_level WHERE id = ?", id)
	return err
}

// List retrieves all levels ordered by sequence.
// POST: Returns all levels
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Level, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+levelColumns+" FROM trainer_level ORDER BY sequence ASC, name COLLATE NOCASE ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []domain.Level
	for rows.Next() {
		entity, err := scanLevel(rows.Scan)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

// scanLevel scans a trainer-level row using the provided scan function.
func scanLevel(scan func(dest ...interface{}) error) (domain.Level, error) {
	var entity domain.Level
	var createdAt string
	var updatedAt sql.NullString

	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.Sequence,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Level{}, err
	}

	entity.CreatedAt, _ = parseTime(createdAt)
	if updatedAt.Valid {
		entity.UpdatedAt, _ = parseTime(updatedAt.String)
	}
	return entity, nil
}

// parseTime parses timestamps in the formats SQLite may hand back.
func parseTime(value string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	}
	var lastErr error
	for _, format := range formats {
		t, err := time.Parse(format, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
