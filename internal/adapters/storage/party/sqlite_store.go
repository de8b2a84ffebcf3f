package party

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "swimclub/internal/domain/party"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new party store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const partyColumns = "id, name, slug, competitive, roster_subgroup_id, sequence, created_at, updated_at"

// GetByID retrieves a Party by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Party, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+partyColumns+" FROM party WHERE id = ?", id)
	entity, err := scanParty(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Party{}, fmt.Errorf("party not found: %w", err)
	}
	return entity, err
}

// GetBySlug retrieves a Party by slug.
// PRE: slug is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetBySlug(ctx context.Context, slug string) (domain.Party, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+partyColumns+" FROM party WHERE slug = ?", slug)
	entity, err := scanParty(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Party{}, fmt.Errorf("party not found: %w", err)
	}
	return entity, err
}

// Save persists a Party to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Party) error {
	query := "INSERT INTO party (" + partyColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?) " +
		"ON CONFLICT(id) DO UPDATE SET name=excluded.name, slug=excluded.slug, " +
		"competitive=excluded.competitive, roster_subgroup_id=excluded.roster_subgroup_id, " +
		"sequence=excluded.sequence, updated_at=excluded.updated_at"

	competitive := 0
	if entity.Competitive {
		competitive = 1
	}
	var updatedAt interface{}
	if !entity.UpdatedAt.IsZero() {
		updatedAt = entity.UpdatedAt.Format(time.RFC3339Nano)
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.Slug,
		competitive,
		entity.RosterSubgroupID,
		entity.Sequence,
		entity.CreatedAt.Format(time.RFC3339Nano),
		updatedAt,
	)
	return err
}

// Delete removes a Party from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM party WHERE id = ?", id)
	return err
}

// List retrieves all parties ordered by sequence.
// POST: Returns all parties
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Party, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+partyColumns+" FROM party ORDER BY sequence ASC, name COLLATE NOCASE ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []domain.Party
	for rows.Next() {
		entity, err := scanParty(rows.Scan)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

// scanParty scans a party row using the provided scan function.
func scanParty(scan func(dest ...interface{}) error) (domain.Party, error) {
	var entity domain.Party
	var subgroupID, updatedAt sql.NullString
	var createdAt string
	var competitive int

	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.Slug,
		&competitive,
		&subgroupID,
		&entity.Sequence,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Party{}, err
	}

	entity.Competitive = competitive != 0
	entity.RosterSubgroupID = subgroupID.String
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
