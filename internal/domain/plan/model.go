package plan

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrMissingParty   = errors.New("planned session must belong to a party")
	ErrInvalidDate    = errors.New("planned date must be YYYY-MM-DD")
	ErrMissingContent = errors.New("planned session needs a bank session or generated content")
)

// PlannedSession places a workout on a party's calendar. Either SessionID
// references a bank session, or the AI* fields carry a one-off generated
// workout; exactly one of the two shapes is populated.
type PlannedSession struct {
	ID          string
	SessionID   string
	PartyID     string
	PlannedDate string // YYYY-MM-DD
	PlannedBy   string // trainer id, empty when planned by an administrator

	AITitle       string
	AIContent     string
	AITotalMeters string
	AIFocusStroke string
	AIIntensity   string

	CreatedAt time.Time
}

// Validate checks if the PlannedSession has valid data.
// PRE: PlannedSession struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *PlannedSession) Validate() error {
	if p.PartyID == "" {
		return ErrMissingParty
	}
	if _, err := time.Parse("2006-01-02", p.PlannedDate); err != nil {
		return ErrInvalidDate
	}
	if p.SessionID == "" && p.AIContent == "" {
		return ErrMissingContent
	}
	return nil
}

// IsGenerated returns true when the plan carries inline generated content
// instead of a bank session reference.
// INVARIANT: PlannedSession fields are not mutated
func (p *PlannedSession) IsGenerated() bool {
	return p.SessionID == ""
}
