package swimmer

import (
	"context"

	domain "swimclub/internal/domain/swimmer"
)

// Store persists Swimmer entities mirrored from the roster provider.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Swimmer, error)
	GetByRosterMemberID(ctx context.Context, rosterMemberID string) (domain.Swimmer, error)
	Save(ctx context.Context, value domain.Swimmer) error
	Delete(ctx context.Context, id string) error
	// DeleteByContacts removes swimmers whose normalized email or phone
	// matches one of the given sets. Roster sync uses it to purge
	// members of the exclusion group that were imported earlier.
	DeleteByContacts(ctx context.Context, emails, phones []string) (int, error)
	List(ctx context.Context) ([]domain.Swimmer, error)
	ListByParty(ctx context.Context, partyID string) ([]domain.Swimmer, error)
	CountByParty(ctx context.Context) (map[string]int, error)
}
