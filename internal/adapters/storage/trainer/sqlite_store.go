package trainer

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "swimclub/internal/domain/trainer"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new trainer store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const trainerColumns = "id, identity_id, email, name, national_id, birthdate, bank_account_number, " +
	"phone, street, street2, zip, city, wage_level_id, minimum_hours, contract_from_date, " +
	"contract_to_date, contract_permanent, contract_document_ref, contract_status, contract_sent_at, " +
	"payroll_employee_id, can_access_workout_library, can_access_planner, can_access_statistics, " +
	"created_at, updated_at"

const qualifiedTrainerColumns = "t.id, t.identity_id, t.email, t.name, t.national_id, t.birthdate, " +
	"t.bank_account_number, t.phone, t.street, t.street2, t.zip, t.city, t.wage_level_id, " +
	"t.minimum_hours, t.contract_from_date, t.contract_to_date, t.contract_permanent, " +
	"t.contract_document_ref, t.contract_status, t.contract_sent_at, t.payroll_employee_id, " +
	"t.can_access_workout_library, t.can_access_planner, t.can_access_statistics, t.created_at, t.updated_at"

// GetByID retrieves a Trainer by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Trainer, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+trainerColumns+" FROM trainer WHERE id = ?", id)
	entity, err := scanTrainer(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Trainer{}, fmt.Errorf("trainer not found: %w", err)
	}
	return entity, err
}

// GetByIdentityID retrieves the Trainer linked to a login identity.
// PRE: identityID is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByIdentityID(ctx context.Context, identityID string) (domain.Trainer, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+trainerColumns+" FROM trainer WHERE identity_id = ?", identityID)
	entity, err := scanTrainer(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Trainer{}, fmt.Errorf("trainer not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves a Trainer by email.
// PRE: email is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Trainer, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+trainerColumns+" FROM trainer WHERE email = ?", email)
	entity, err := scanTrainer(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Trainer{}, fmt.Errorf("trainer not found: %w", err)
	}
	return entity, err
}

// GetByDocumentRef retrieves the Trainer whose in-flight contract packet
// matches documentRef. Webhook deliveries resolve trainers this way.
// PRE: documentRef is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByDocumentRef(ctx context.Context, documentRef string) (domain.Trainer, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+trainerColumns+" FROM trainer WHERE contract_document_ref = ?", documentRef)
	entity, err := scanTrainer(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Trainer{}, fmt.Errorf("trainer not found: %w", err)
	}
	return entity, err
}

// Save persists a Trainer to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Trainer) error {
	query := `INSERT INTO trainer (` + trainerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			identity_id=excluded.identity_id,
			email=excluded.email,
			name=excluded.name,
			national_id=excluded.national_id,
			birthdate=excluded.birthdate,
			bank_account_number=excluded.bank_account_number,
			phone=excluded.phone,
			street=excluded.street,
			street2=excluded.street2,
			zip=excluded.zip,
			city=excluded.city,
			wage_level_id=excluded.wage_level_id,
			minimum_hours=excluded.minimum_hours,
			contract_from_date=excluded.contract_from_date,
			contract_to_date=excluded.contract_to_date,
			contract_permanent=excluded.contract_permanent,
			contract_document_ref=excluded.contract_document_ref,
			contract_status=excluded.contract_status,
			contract_sent_at=excluded.contract_sent_at,
			payroll_employee_id=excluded.payroll_employee_id,
			can_access_workout_library=excluded.can_access_workout_library,
			can_access_planner=excluded.can_access_planner,
			can_access_statistics=excluded.can_access_statistics,
			updated_at=excluded.updated_at`

	var identityID interface{}
	if entity.IdentityID != "" {
		identityID = entity.IdentityID
	}
	var wageLevelID interface{}
	if entity.WageLevelID != "" {
		wageLevelID = entity.WageLevelID
	}
	var sentAt interface{}
	if !entity.ContractSentAt.IsZero() {
		sentAt = entity.ContractSentAt.Format(time.RFC3339Nano)
	}
	var updatedAt interface{}
	if !entity.UpdatedAt.IsZero() {
		updatedAt = entity.UpdatedAt.Format(time.RFC3339Nano)
	}
	status := entity.ContractStatus
	if status == "" {
		status = "none"
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		identityID,
		entity.Email,
		entity.Name,
		entity.NationalID,
		entity.Birthdate,
		entity.BankAccountNumber,
		entity.Phone,
		entity.Street,
		entity.Street2,
		entity.Zip,
		entity.City,
		wageLevelID,
		entity.MinimumHours,
		entity.ContractFromDate,
		entity.ContractToDate,
		boolToInt(entity.ContractPermanent),
		entity.ContractDocumentRef,
		status,
		sentAt,
		entity.PayrollEmployeeID,
		boolToInt(entity.CanAccessWorkoutLibrary),
		boolToInt(entity.CanAccessPlanner),
		boolToInt(entity.CanAccessStatistics),
		entity.CreatedAt.Format(time.RFC3339Nano),
		updatedAt,
	)
	return err
}

// SetContractStatus updates only the contract status column.
// PRE: id is non-empty, status is a valid contract status
// POST: contract_status is updated for the trainer
func (s *SQLiteStore) SetContractStatus(ctx context.Context, id, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE trainer SET contract_status = ?, updated_at = ? WHERE id = ?",
		status, time.Now().Format(time.RFC3339Nano), id)
	return err
}

// Delete removes a Trainer and its membership rows.
// PRE: id is non-empty
// POST: Trainer and all its party/certification links are removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM trainer_party WHERE trainer_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM trainer_certification WHERE trainer_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM trainer WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// List retrieves trainers ordered by name.
// POST: Returns trainers matching the filter
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Trainer, error) {
	query := "SELECT " + trainerColumns + " FROM trainer"
	args := []interface{}{}

	if filter.ContractStatus != "" {
		query += " WHERE contract_status = ?"
		args = append(args, filter.ContractStatus)
	}
	query += " ORDER BY name COLLATE NOCASE ASC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []domain.Trainer
	for rows.Next() {
		entity, err := scanTrainer(rows.Scan)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

// ListByParty retrieves the trainers assigned to one party.
// POST: Returns the party's trainers ordered by name
func (s *SQLiteStore) ListByParty(ctx context.Context, partyID string) ([]domain.Trainer, error) {
	query := "SELECT " + qualifiedTrainerColumns + " FROM trainer t " +
		"JOIN trainer_party tp ON tp.trainer_id = t.id " +
		"WHERE tp.party_id = ? ORDER BY t.name COLLATE NOCASE ASC"

	rows, err := s.db.QueryContext(ctx, query, partyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []domain.Trainer
	for rows.Next() {
		entity, err := scanTrainer(rows.Scan)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

// Count returns the total number of trainers.
// POST: Returns total trainer count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM trainer").Scan(&count)
	return count, err
}

// PartyIDs returns the party memberships for a trainer.
// POST: Returns party ids ordered by party sequence
func (s *SQLiteStore) PartyIDs(ctx context.Context, trainerID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tp.party_id FROM trainer_party tp
		 JOIN party p ON p.id = tp.party_id
		 WHERE tp.trainer_id = ?
		 ORDER BY p.sequence ASC, p.name ASC`, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDs(rows)
}

// SetPartyIDs replaces a trainer's party memberships.
// POST: trainer_party rows match partyIDs exactly
func (s *SQLiteStore) SetPartyIDs(ctx context.Context, trainerID string, partyIDs []string) error {
	return s.replaceLinks(ctx, "trainer_party", "party_id", trainerID, partyIDs)
}

// LevelIDs returns the certification levels held by a trainer.
// POST: Returns level ids ordered by level sequence
func (s *SQLiteStore) LevelIDs(ctx context.Context, trainerID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tc.level_id FROM trainer_certification tc
		 JOIN trainer_level l ON l.id = tc.level_id
		 WHERE tc.trainer_id = ?
		 ORDER BY l.sequence ASC, l.name ASC`, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDs(rows)
}

// SetLevelIDs replaces a trainer's certification levels.
// POST: trainer_certification rows match levelIDs exactly
func (s *SQLiteStore) SetLevelIDs(ctx context.Context, trainerID string, levelIDs []string) error {
	return s.replaceLinks(ctx, "trainer_certification", "level_id", trainerID, levelIDs)
}

// replaceLinks rewrites a membership table for one trainer inside a
// transaction (delete then insert).
func (s *SQLiteStore) replaceLinks(ctx context.Context, table, column, trainerID string, ids []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE trainer_id = ?", trainerID); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO "+table+" (trainer_id, "+column+") VALUES (?, ?)",
			trainerID, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func collectIDs(rows *sql.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// scanTrainer scans a trainer row using the provided scan function.
func scanTrainer(scan func(dest ...interface{}) error) (domain.Trainer, error) {
	var entity domain.Trainer
	var identityID, nationalID, birthdate, bankAccount sql.NullString
	var phone, street, street2, zip, city sql.NullString
	var wageLevelID, fromDate, toDate, documentRef sql.NullString
	var sentAt, updatedAt sql.NullString
	var createdAt string
	var permanent, canLibrary, canPlanner, canStats int

	err := scan(
		&entity.ID,
		&identityID,
		&entity.Email,
		&entity.Name,
		&nationalID,
		&birthdate,
		&bankAccount,
		&phone,
		&street,
		&street2,
		&zip,
		&city,
		&wageLevelID,
		&entity.MinimumHours,
		&fromDate,
		&toDate,
		&permanent,
		&documentRef,
		&entity.ContractStatus,
		&sentAt,
		&entity.PayrollEmployeeID,
		&canLibrary,
		&canPlanner,
		&canStats,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Trainer{}, err
	}

	entity.IdentityID = identityID.String
	entity.NationalID = nationalID.String
	entity.Birthdate = birthdate.String
	entity.BankAccountNumber = bankAccount.String
	entity.Phone = phone.String
	entity.Street = street.String
	entity.Street2 = street2.String
	entity.Zip = zip.String
	entity.City = city.String
	entity.WageLevelID = wageLevelID.String
	entity.ContractFromDate = fromDate.String
	entity.ContractToDate = toDate.String
	entity.ContractPermanent = permanent != 0
	entity.ContractDocumentRef = documentRef.String
	entity.CanAccessWorkoutLibrary = canLibrary != 0
	entity.CanAccessPlanner = canPlanner != 0
	entity.CanAccessStatistics = canStats != 0

	entity.CreatedAt, _ = parseTime(createdAt)
	if sentAt.Valid {
		entity.ContractSentAt, _ = parseTime(sentAt.String)
	}
	if updatedAt.Valid {
		entity.UpdatedAt, _ = parseTime(updatedAt.String)
	}
	return entity, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
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
