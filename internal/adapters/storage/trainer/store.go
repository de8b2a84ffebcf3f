package trainer

import (
	"context"

	domain "swimclub/internal/domain/trainer"
)

// Store persists Trainer state, including party memberships and
// certification links.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Trainer, error)
	GetByIdentityID(ctx context.Context, identityID string) (domain.Trainer, error)
	GetByEmail(ctx context.Context, email string) (domain.Trainer, error)
	GetByDocumentRef(ctx context.Context, documentRef string) (domain.Trainer, error)
	Save(ctx context.Context, value domain.Trainer) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Trainer, error)
	ListByParty(ctx context.Context, partyID string) ([]domain.Trainer, error)
	Count(ctx context.Context) (int, error)

	// SetContractStatus writes only the contract status field. Webhook
	// deliveries use this narrow write so concurrent profile edits are
	// not clobbered.
	SetContractStatus(ctx context.Context, id, status string) error

	PartyIDs(ctx context.Context, trainerID string) ([]string, error)
	SetPartyIDs(ctx context.Context, trainerID string, partyIDs []string) error
	LevelIDs(ctx context.Context, trainerID string) ([]string, error)
	SetLevelIDs(ctx context.Context, trainerID string, levelIDs []string) error
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit          int
	Offset         int
	ContractStatus string
}
