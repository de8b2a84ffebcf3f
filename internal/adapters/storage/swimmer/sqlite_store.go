package swimmer

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	domain "swimclub/internal/domain/swimmer"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new swimmer store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const swimmerColumns = "id, roster_member_id, first_name, last_name, email, phone, party_id, created_at, updated_at"

// GetByID retrieves a Swimmer by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Swimmer, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+swimmerColumns+" FROM swimmer WHERE id = ?", id)
	entity, err := scanSwimmer(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Swimmer{}, fmt.Errorf("swimmer not found: %w", err)
	}
	return entity, err
}

// GetByRosterMemberID retrieves a Swimmer by the provider's member id.
// PRE: rosterMemberID is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByRosterMemberID(ctx context.Context, rosterMemberID string) (domain.Swimmer, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+swimmerColumns+" FROM swimmer WHERE roster_member_id = ?", rosterMemberID)
	entity, err := scanSwimmer(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Swimmer{}, fmt.Errorf("swimmer not found: %w", err)
	}
	return entity, err
}

// Save persists a Swimmer, upserting on the roster member id.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Swimmer) error {
	query := "INSERT INTO swimmer (" + swimmerColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) " +
		"ON CONFLICT(roster_member_id) DO UPDATE SET first_name=excluded.first_name, " +
		"last_name=excluded.last_name, email=excluded.email, phone=excluded.phone, " +
		"party_id=excluded.party_id, updated_at=excluded.updated_at"

	var updatedAt interface{}
	if !entity.UpdatedAt.IsZero() {
		updatedAt = entity.UpdatedAt.Format(time.RFC3339Nano)
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.RosterMemberID,
		entity.FirstName,
		entity.LastName,
		entity.Email,
		entity.Phone,
		entity.PartyID,
		entity.CreatedAt.Format(time.RFC3339Nano),
		updatedAt,
	)
	return err
}

// Delete removes a Swimmer from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM swimmer WHERE id = ?", id)
	return err
}

// DeleteByContacts removes swimmers matching any of the given emails or
// phones. Matching is exact; callers pass normalized values.
// POST: Returns the number of rows removed
func (s *SQLiteStore) DeleteByContacts(ctx context.Context, emails, phones []string) (int, error) {
	if len(emails) == 0 && len(phones) == 0 {
		return 0, nil
	}

	var conditions []string
	var args []interface{}
	if len(emails) > 0 {
		conditions = append(conditions, "email IN ("+placeholders(len(emails))+")")
		for _, e := range emails {
			args = append(args, e)
		}
	}
	if len(phones) > 0 {
		conditions = append(conditions, "phone IN ("+placeholders(len(phones))+")")
		for _, p := range phones {
			args = append(args, p)
		}
	}

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM swimmer WHERE "+strings.Join(conditions, " OR "), args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// List retrieves all swimmers ordered by name.
// POST: Returns all swimmers
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Swimmer, error) {
	return s.query(ctx, "SELECT "+swimmerColumns+" FROM swimmer ORDER BY last_name COLLATE NOCASE ASC, first_name COLLATE NOCASE ASC")
}

// ListByParty retrieves the swimmers in one party.
// POST: Returns the party's swimmers ordered by name
func (s *SQLiteStore) ListByParty(ctx context.Context, partyID string) ([]domain.Swimmer, error) {
	return s.query(ctx,
		"SELECT "+swimmerColumns+" FROM swimmer WHERE party_id = ? ORDER BY last_name COLLATE NOCASE ASC, first_name COLLATE NOCASE ASC",
		partyID)
}

// CountByParty returns swimmer counts keyed by party id.
func (s *SQLiteStore) CountByParty(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT party_id, COUNT(*) FROM swimmer GROUP BY party_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var partyID string
		var count int
		if err := rows.Scan(&partyID, &count); err != nil {
			return nil, err
		}
		counts[partyID] = count
	}
	return counts, rows.Err()
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...interface{}) ([]domain.Swimmer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []domain.Swimmer
	for rows.Next() {
		entity, err := scanSwimmer(rows.Scan)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

// scanSwimmer scans a swimmer row using the provided scan function.
func scanSwimmer(scan func(dest ...interface{}) error) (domain.Swimmer, error) {
	var entity domain.Swimmer
	var email, phone, updatedAt sql.NullString
	var createdAt string

	err := scan(
		&entity.ID,
		&entity.RosterMemberID,
		&entity.FirstName,
		&entity.LastName,
		&email,
		&phone,
		&entity.PartyID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Swimmer{}, err
	}

	entity.Email = email.String
	entity.Phone = phone.String
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
