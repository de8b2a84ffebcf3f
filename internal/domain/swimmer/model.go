package swimmer

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyName     = errors.New("swimmer name cannot be empty")
	ErrMissingParty  = errors.New("swimmer must belong to a party")
	ErrMissingRoster = errors.New("swimmer must carry the roster member id")
)

// Swimmer is a club swimmer mirrored from the external group-roster
// provider. Rows are created and updated exclusively by roster sync; the
// provider's member id is the upsert key.
type Swimmer struct {
	ID             string
	RosterMemberID string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	PartyID        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks if the Swimmer has valid data.
// PRE: Swimmer struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (s *Swimmer) Validate() error {
	if strings.TrimSpace(s.FirstName) == "" && strings.TrimSpace(s.LastName) == "" {
		return ErrEmptyName
	}
	if s.PartyID == "" {
		return ErrMissingParty
	}
	if s.RosterMemberID == "" {
		return ErrMissingRoster
	}
	return nil
}

// Name returns the swimmer's full name.
// INVARIANT: Swimmer fields are not mutated
func (s *Swimmer) Name() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// NormalizeEmail lowercases and trims an email for matching. The roster
// provider assigns a different member id per group for the same person, so
// exclusion matching runs on contact details instead.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone strips whitespace from a phone number for matching.
func NormalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
}
