package party

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyName = errors.New("party name cannot be empty")
	ErrEmptySlug = errors.New("party slug cannot be empty")
)

// SwimSchoolSlug identifies the swim-school party, whose members are never
// imported as club swimmers during roster sync.
const SwimSchoolSlug = "svommeskolen"

// Party is a training group within the club. Competitive parties appear in
// the planner, and assigning a trainer to one auto-grants all module flags.
type Party struct {
	ID               string
	Name             string
	Slug             string
	Competitive      bool
	RosterSubgroupID string
	Sequence         int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate checks if the Party has valid data.
// PRE: Party struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Party) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(p.Slug) == "" {
		return ErrEmptySlug
	}
	return nil
}

// IsSwimSchool returns true for the swim-school party.
// INVARIANT: Party fields are not mutated
func (p *Party) IsSwimSchool() bool {
	return p.Slug == SwimSchoolSlug
}
