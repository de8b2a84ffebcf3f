package workout

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "swimclub/internal/domain/workout"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new workout session store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const sessionColumns = "id, title, content, total_meters, focus_stroke, intensity, created_by, created_at, updated_at"

// GetByID retrieves a Session by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM training_session WHERE id = ?", id)
	entity, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Session{}, fmt.Errorf("session not found: %w", err)
	}
	return entity, err
}

// Save persists a Session to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Session) error {
	query := "INSERT INTO training_session (" + sessionColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) " +
		"ON CONFLICT(id) DO UPDATE SET title=excluded.title, content=excluded.content, " +
		"total_meters=excluded.total_meters, focus_stroke=excluded.focus_stroke, " +
		"intensity=excluded.intensity, updated_at=excluded.updated_at"

	var updatedAt interface{}
	if !entity.UpdatedAt.IsZero() {
		updatedAt = entity.UpdatedAt.Format(time.RFC3339Nano)
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Title,
		entity.Content,
		entity.TotalMeters,
		entity.FocusStroke,
		entity.Intensity,
		entity.CreatedBy,
		entity.CreatedAt.Format(time.RFC3339Nano),
		updatedAt,
	)
	return err
}

// Delete removes a Session from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM training_session WHERE id = ?", id)
	return err
}

// List retrieves sessions matching the filter, newest first.
// POST: Returns sessions matching the filter
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Session, error) {
	query := "SELECT " + sessionColumns + " FROM training_session WHERE 1=1"
	args := []interface{}{}

	if filter.FocusStroke != "" {
		query += " AND focus_stroke = ?"
		args = append(args, filter.FocusStroke)
	}
	if filter.Intensity != "" {
		query += " AND intensity = ?"
		args = append(args, filter.Intensity)
	}
	if filter.Search != "" {
		query += " AND (title LIKE ? OR content LIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []domain.Session
	for rows.Next() {
		entity, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

// scanSession scans a session row using the provided scan function.
func scanSession(scan func(dest ...interface{}) error) (domain.Session, error) {
	var entity domain.Session
	var totalMeters, focusStroke, intensity, createdBy, updatedAt sql.NullString
	var createdAt string

	err := scan(
		&entity.ID,
		&entity.Title,
		&entity.Content,
		&totalMeters,
		&focusStroke,
		&intensity,
		&createdBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Session{}, err
	}

	entity.TotalMeters = totalMeters.String
	entity.FocusStroke = focusStroke.String
	entity.Intensity = intensity.String
	entity.CreatedBy = createdBy.String
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
