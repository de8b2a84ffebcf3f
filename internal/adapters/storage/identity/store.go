package identity

import (
	"context"

	domain "swimclub/internal/domain/identity"
)

// Store persists Account state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// AdminStore persists AdminRecord state. At most one record exists per
// identity; Save is an upsert on identity id.
type AdminStore interface {
	GetByIdentityID(ctx context.Context, identityID string) (domain.AdminRecord, error)
	Save(ctx context.Context, value domain.AdminRecord) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.AdminRecord, error)
}
