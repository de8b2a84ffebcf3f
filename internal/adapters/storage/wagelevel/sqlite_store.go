package wagelevel

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "swimclub/internal/domain/wagelevel"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new wage-level store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const levelColumns = "id, name, hourly_wage, minimum_hours, sequence, created_at, updated_at"

// GetByID retrieves a WageLevel by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.WageLevel, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+levelColumns+" FROM wage_level WHERE id = ?", id)
	entity, err := scanLevel(row.Scan)
	if err == sql.ErrNoRows {
		return domain.WageLevel{}, fmt.Errorf("wage level not found: %w", err)
	}
	return entity, err
}

// Save persists a WageLevel to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.WageLevel) error {
	query := "INSERT INTO wage_level (" + levelColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?) " +
		"ON CONFLICT(id) DO UPDATE SET name=excluded.name, hourly_wage=excluded.hourly_wage, " +
		"minimum_hours=excluded.minimum_hours, sequence=excluded.sequence, updated_at=excluded.updated_at"

	var updatedAt interface{}
	if !entity.UpdatedAt.IsZero() {
		updatedAt = entity.UpdatedAt.Format(time.RFC3339Nano)
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.HourlyWage,
		entity.MinimumHours,
		entity.Sequence,
		entity.CreatedAt.Format(time.RFC3339Nano),
		updatedAt,
	)
	return err
}

// Delete removes a WageLevel from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM wage_level WHERE id = ?", id)
	return err
}

// List retrieves all wage levels ordered by sequence.
// POST: Returns all wage levels
func (s *SQLiteStore) List(ctx context.Context) ([]domain.WageLevel, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+levelColumns+" FROM wage_level ORDER BY sequence ASC, name COLLATE NOCASE ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []domain.WageLevel
	for rows.Next() {
		entity, err := scanLevel(rows.Scan)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

// scanLevel scans a wage-level row using the provided scan function.
func scanLevel(scan func(dest ...interface{}) error) (domain.WageLevel, error) {
	var entity domain.WageLevel
	var createdAt string
	var updatedAt sql.NullString

	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.HourlyWage,
		&entity.MinimumHours,
		&entity.Sequence,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.WageLevel{}, err
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
