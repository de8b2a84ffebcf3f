package trainer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"swimclub/internal/domain/contract"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength    = 200
	MaxAddressLength = 300
)

// Module constants for the three gated feature areas.
const (
	ModuleWorkoutLibrary = "workout_library"
	ModulePlanner        = "planner"
	ModuleStatistics     = "statistics"
)

// Domain errors
var (
	ErrEmptyName         = errors.New("trainer name cannot be empty")
	ErrInvalidEmail      = errors.New("trainer email must be valid")
	ErrInvalidNationalID = errors.New("national identity number must be 11 digits")
	ErrEmptyBankAccount  = errors.New("bank account number is required")
	ErrEmptyPhone        = errors.New("phone number is required")
	ErrEmptyStreet       = errors.New("street address is required")
	ErrEmptyZip          = errors.New("zip code is required")
	ErrEmptyCity         = errors.New("city is required")
)

var digitsOnly = regexp.MustCompile(`\D`)

// Trainer is a registered club trainer profile.
//
// IdentityID is empty until the trainer's login is linked. The contract_*
// fields are mutated only by the contract lifecycle orchestrators; the
// module access flags only by administrators (and the competitive-party
// auto-grant when party memberships are edited).
type Trainer struct {
	ID                string
	IdentityID        string
	Email             string
	Name              string
	NationalID        string
	Birthdate         string // YYYY-MM-DD, derived from NationalID when possible
	BankAccountNumber string
	Phone             string
	Street            string
	Street2           string
	Zip               string
	City              string

	WageLevelID       string
	MinimumHours      float64
	ContractFromDate  string // YYYY-MM-DD
	ContractToDate    string // YYYY-MM-DD, empty for permanent contracts
	ContractPermanent bool

	ContractDocumentRef string
	ContractStatus      string
	ContractSentAt      time.Time

	PayrollEmployeeID int64

	CanAccessWorkoutLibrary bool
	CanAccessPlanner        bool
	CanAccessStatistics     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the Trainer has valid data.
// PRE: Trainer struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: a non-none contract status requires a document reference
func (t *Trainer) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if len(t.Name) > MaxNameLength {
		return fmt.Errorf("trainer name cannot exceed %d characters", MaxNameLength)
	}
	if !strings.Contains(t.Email, "@") {
		return ErrInvalidEmail
	}
	if t.NationalID != "" {
		digits := digitsOnly.ReplaceAllString(t.NationalID, "")
		if len(digits) != 11 {
			return ErrInvalidNationalID
		}
	}
	if t.ContractStatus != "" && t.ContractStatus != contract.StatusNone && t.ContractDocumentRef == "" {
		return errors.New("contract status requires a document reference")
	}
	return nil
}

// CanAccess returns the persisted flag for the given module.
// PRE: module is one of the Module* constants
// INVARIANT: Trainer fields are not mutated
func (t *Trainer) CanAccess(module string) bool {
	switch module {
	case ModuleWorkoutLibrary:
		return t.CanAccessWorkoutLibrary
	case ModulePlanner:
		return t.CanAccessPlanner
	case ModuleStatistics:
		return t.CanAccessStatistics
	default:
		return false
	}
}

// GrantAllModules sets all three module flags to true. Used by the
// competitive-party auto-grant; it never revokes a flag.
// POST: all module flags are true
func (t *Trainer) GrantAllModules() {
	t.CanAccessWorkoutLibrary = true
	t.CanAccessPlanner = true
	t.CanAccessStatistics = true
}

// Address joins the street fields into a single postal address line.
// INVARIANT: Trainer fields are not mutated
func (t *Trainer) Address() string {
	parts := []string{}
	if t.Street != "" {
		parts = append(parts, t.Street)
	}
	if t.Street2 != "" {
		parts = append(parts, t.Street2)
	}
	zipCity := strings.TrimSpace(t.Zip + " " + t.City)
	if zipCity != "" {
		parts = append(parts, zipCity)
	}
	addr := strings.Join(parts, ", ")
	if addr == "" {
		return "-"
	}
	if len(addr) > MaxAddressLength {
		return addr[:MaxAddressLength]
	}
	return addr
}

// NormalizeNationalID strips everything but digits from a national identity
// number.
func NormalizeNationalID(raw string) string {
	return digitsOnly.ReplaceAllString(raw, "")
}

// BirthdateFromNationalID derives a YYYY-MM-DD birthdate from the first six
// digits (DDMMYY) of a Norwegian national identity number. Two-digit years
// below 40 are read as 20yy, the rest as 19yy. Returns "" when the digits do
// not form a real date.
func BirthdateFromNationalID(nationalID string) string {
	digits := NormalizeNationalID(nationalID)
	if len(digits) < 6 {
		return ""
	}
	day := int(digits[0]-'0')*10 + int(digits[1]-'0')
	month := int(digits[2]-'0')*10 + int(digits[3]-'0')
	yy := int(digits[4]-'0')*10 + int(digits[5]-'0')
	year := 1900 + yy
	if yy < 40 {
		year = 2000 + yy
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return ""
	}
	return date.Format("2006-01-02")
}
