package plan

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "swimclub/internal/domain/plan"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new planned-session store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const planColumns = "id, session_id, party_id, planned_date, planned_by, ai_title, ai_content, ai_total_meters, ai_focus_stroke, ai_intensity, created_at"

// GetByID retrieves a PlannedSession by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.PlannedSession, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+planColumns+" FROM planned_session WHERE id = ?", id)
	entity, err := scanPlan(row.Scan)
	if err == sql.ErrNoRows {
		return domain.PlannedSession{}, fmt.Errorf("planned session not found: %w", err)
	}
	return entity, err
}

// Save persists a PlannedSession to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.PlannedSession) error {
	query := "INSERT INTO planned_session (" + planColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) " +
		"ON CONFLICT(id) DO UPDATE SET session_id=excluded.session_id, party_id=excluded.party_id, " +
		"planned_date=excluded.planned_date, ai_title=excluded.ai_title, " +
		"ai_content=excluded.ai_content, ai_total_meters=excluded.ai_total_meters, " +
		"ai_focus_stroke=excluded.ai_focus_stroke, ai_intensity=excluded.ai_intensity"

	var sessionID interface{}
	if entity.SessionID != "" {
		sessionID = entity.SessionID
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		sessionID,
		entity.PartyID,
		entity.PlannedDate,
		entity.PlannedBy,
		entity.AITitle,
		entity.AIContent,
		entity.AITotalMeters,
		entity.AIFocusStroke,
		entity.AIIntensity,
		entity.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// Delete removes a PlannedSession from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM planned_session WHERE id = ?", id)
	return err
}

// ListEntries returns planned sessions joined with their bank sessions,
// ordered by planned date. Generated plans surface their own AI fields.
// POST: Returns entries within the range, oldest first
func (s *SQLiteStore) ListEntries(ctx context.Context, partyID, from, to string) ([]Entry, error) {
	query := `SELECT p.id, p.session_id, p.party_id, p.planned_date, p.planned_by,
			p.ai_title, p.ai_content, p.ai_total_meters, p.ai_focus_stroke, p.ai_intensity, p.created_at,
			COALESCE(ts.title, ''), COALESCE(ts.content, ''), COALESCE(ts.total_meters, ''),
			COALESCE(ts.focus_stroke, ''), COALESCE(ts.intensity, '')
		FROM planned_session p
		LEFT JOIN training_session ts ON ts.id = p.session_id
		WHERE 1=1`
	args := []interface{}{}

	if partyID != "" {
		query += " AND p.party_id = ?"
		args = append(args, partyID)
	}
	if from != "" {
		query += " AND p.planned_date >= ?"
		args = append(args, from)
	}
	if to != "" {
		query += " AND p.planned_date <= ?"
		args = append(args, to)
	}
	query += " ORDER BY p.planned_date ASC, p.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var sessionID sql.NullString
		var plannedBy sql.NullString
		var aiTitle, aiContent, aiMeters, aiStroke, aiIntensity sql.NullString
		var createdAt string

		err := rows.Scan(
			&entry.Plan.ID,
			&sessionID,
			&entry.Plan.PartyID,
			&entry.Plan.PlannedDate,
			&plannedBy,
			&aiTitle,
			&aiContent,
			&aiMeters,
			&aiStroke,
			&aiIntensity,
			&createdAt,
			&entry.Title,
			&entry.Content,
			&entry.TotalMeters,
			&entry.FocusStroke,
			&entry.Intensity,
		)
		if err != nil {
			return nil, err
		}

		entry.Plan.SessionID = sessionID.String
		entry.Plan.PlannedBy = plannedBy.String
		entry.Plan.AITitle = aiTitle.String
		entry.Plan.AIContent = aiContent.String
		entry.Plan.AITotalMeters = aiMeters.String
		entry.Plan.AIFocusStroke = aiStroke.String
		entry.Plan.AIIntensity = aiIntensity.String
		entry.Plan.CreatedAt, _ = parseTime(createdAt)

		if entry.Plan.IsGenerated() {
			entry.Title = entry.Plan.AITitle
			entry.Content = entry.Plan.AIContent
			entry.TotalMeters = entry.Plan.AITotalMeters
			entry.FocusStroke = entry.Plan.AIFocusStroke
			entry.Intensity = entry.Plan.AIIntensity
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CountBySession returns how many plans reference a bank session.
// Deleting a bank session is refused while plans still point at it.
func (s *SQLiteStore) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM planned_session WHERE session_id = ?", sessionID).Scan(&count)
	return count, err
}

// scanPlan scans a planned-session row using the provided scan function.
func scanPlan(scan func(dest ...interface{}) error) (domain.PlannedSession, error) {
	var entity domain.PlannedSession
	var sessionID, plannedBy, aiTitle, aiContent, aiMeters, aiStroke, aiIntensity sql.NullString
	var createdAt string

	err := scan(
		&entity.ID,
		&sessionID,
		&entity.PartyID,
		&entity.PlannedDate,
		&plannedBy,
		&aiTitle,
		&aiContent,
		&aiMeters,
		&aiStroke,
		&aiIntensity,
		&createdAt,
	)
	if err != nil {
		return domain.PlannedSession{}, err
	}

	entity.SessionID = sessionID.String
	entity.PlannedBy = plannedBy.String
	entity.AITitle = aiTitle.String
	entity.AIContent = aiContent.String
	entity.AITotalMeters = aiMeters.String
	entity.AIFocusStroke = aiStroke.String
	entity.AIIntensity = aiIntensity.String
	entity.CreatedAt, _ = parseTime(createdAt)
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
