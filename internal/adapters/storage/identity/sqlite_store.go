package identity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "swimclub/internal/domain/identity"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	query := "SELECT id, email, password_hash, created_at, failed_logins, locked_until FROM account WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanAccount(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves an Account by email.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	query := "SELECT id, email, password_hash, created_at, failed_logins, locked_until FROM account WHERE email = ?"
	row := s.db.QueryRowContext(ctx, query, email)

	entity, err := scanAccount(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	return entity, err
}

// Save persists an Account to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	query := "INSERT INTO account (id, email, password_hash, created_at, failed_logins, locked_until) VALUES (?, ?, ?, ?, ?, ?) " +
		"ON CONFLICT(id) DO UPDATE SET email=excluded.email, password_hash=excluded.password_hash, failed_logins=excluded.failed_logins, locked_until=excluded.locked_until"

	var lockedUntil interface{}
	if !entity.LockedUntil.IsZero() {
		lockedUntil = entity.LockedUntil.Format(time.RFC3339Nano)
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Email,
		entity.PasswordHash,
		entity.CreatedAt.Format(time.RFC3339Nano),
		entity.FailedLogins,
		lockedUntil,
	)
	return err
}

// Delete removes an Account from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM account WHERE id = ?", id)
	return err
}

// Count returns the total number of accounts.
// POST: Returns total account count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&count)
	return count, err
}

// AdminSQLiteStore implements AdminStore using SQLite.
type AdminSQLiteStore struct {
	db *sql.DB
}

// NewAdminSQLiteStore creates a new admin-record store.
func NewAdminSQLiteStore(db *sql.DB) *AdminSQLiteStore {
	return &AdminSQLiteStore{db: db}
}

// GetByIdentityID retrieves the AdminRecord for an identity.
// PRE: identityID is non-empty
// POST: Returns the record or sql.ErrNoRows-wrapped error if not found
func (s *AdminSQLiteStore) GetByIdentityID(ctx context.Context, identityID string) (domain.AdminRecord, error) {
	query := "SELECT id, identity_id, created_at FROM admin_user WHERE identity_id = ?"
	row := s.db.QueryRowContext(ctx, query, identityID)

	var entity domain.AdminRecord
	var createdAt string
	err := row.Scan(&entity.ID, &entity.IdentityID, &createdAt)
	if err != nil {
		return domain.AdminRecord{}, err
	}
	entity.CreatedAt, _ = parseTime(createdAt)
	return entity, nil
}

// Save persists an AdminRecord, upserting on identity id so at most one
// record exists per identity.
// PRE: entity.IdentityID is non-empty
// POST: Record is persisted
func (s *AdminSQLiteStore) Save(ctx context.Context, entity domain.AdminRecord) error {
	query := "INSERT INTO admin_user (id, identity_id, created_at) VALUES (?, ?, ?) ON CONFLICT(identity_id) DO NOTHING"
	_, err := s.db.ExecContext(ctx, query, entity.ID, entity.IdentityID, entity.CreatedAt.Format(time.RFC3339Nano))
	return err
}

// Delete removes an AdminRecord from the database.
// PRE: id is non-empty
// POST: Record with given id is removed
func (s *AdminSQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM admin_user WHERE id = ?", id)
	return err
}

// List retrieves all AdminRecords.
// POST: Returns all records ordered by creation time
func (s *AdminSQLiteStore) List(ctx context.Context) ([]domain.AdminRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, identity_id, created_at FROM admin_user ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.AdminRecord
	for rows.Next() {
		var entity domain.AdminRecord
		var createdAt string
		if err := rows.Scan(&entity.ID, &entity.IdentityID, &createdAt); err != nil {
			return nil, err
		}
		entity.CreatedAt, _ = parseTime(createdAt)
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanAccount extracts an Account from a row scanner function.
func scanAccount(scan func(dest ...interface{}) error) (domain.Account, error) {
	var entity domain.Account
	var createdAt string
	var lockedUntil sql.NullString
	err := scan(
		&entity.ID,
		&entity.Email,
		&entity.PasswordHash,
		&createdAt,
		&entity.FailedLogins,
		&lockedUntil,
	)
	if err != nil {
		return domain.Account{}, err
	}
	entity.CreatedAt, _ = parseTime(createdAt)
	if lockedUntil.Valid && lockedUntil.String != "" {
		entity.LockedUntil, _ = parseTime(lockedUntil.String)
	}
	return entity, nil
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
