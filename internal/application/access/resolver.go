package access

import (
	"context"
	"database/sql"
	"errors"

	"swimclub/internal/domain/identity"
	"swimclub/internal/domain/trainer"
)

// AdminStore defines the admin-record lookup the resolver needs.
type AdminStore interface {
	GetByIdentityID(ctx context.Context, identityID string) (identity.AdminRecord, error)
}

// TrainerStore defines the trainer lookup the resolver needs.
type TrainerStore interface {
	GetByIdentityID(ctx context.Context, identityID string) (trainer.Trainer, error)
}

// Resolver answers authorization questions for an explicit identity. It
// reads the stores on every call so that flag edits take effect immediately;
// nothing is cached across requests.
type Resolver struct {
	AdminStore   AdminStore
	TrainerStore TrainerStore
}

// IsAdministrator reports whether the identity is an administrator: either
// it authenticated via the enterprise provider, or an admin record exists
// for it. Either grant alone is sufficient.
// PRE: id may be the zero identity (unauthenticated)
// POST: false for unauthenticated identities; never returns an error to the caller
func (r *Resolver) IsAdministrator(ctx context.Context, id identity.Identity) bool {
	if id.IsZero() {
		return false
	}
	if id.HasProvider(identity.ProviderAzure) {
		return true
	}
	_, err := r.AdminStore.GetByIdentityID(ctx, id.ID)
	return err == nil
}

// CanAccess reports whether the identity may use the given module, one of
// trainer.ModuleWorkoutLibrary, trainer.ModulePlanner, or
// trainer.ModuleStatistics.
//
// Administrators bypass module gating entirely. Otherwise the identity must
// be linked to a trainer whose corresponding flag is set. Authenticated
// identities with no trainer profile are denied.
// PRE: id may be the zero identity (unauthenticated)
// POST: deny-by-default; store failures read as "no access", never a panic
func (r *Resolver) CanAccess(ctx context.Context, id identity.Identity, module string) bool {
	if id.IsZero() {
		return false
	}
	if r.IsAdministrator(ctx, id) {
		return true
	}
	tr, err := r.TrainerStore.GetByIdentityID(ctx, id.ID)
	if err != nil {
		return false
	}
	return tr.CanAccess(module)
}

// IsTrainer reports whether the identity is linked to a trainer profile and
// returns the profile when it is.
func (r *Resolver) IsTrainer(ctx context.Context, id identity.Identity) (trainer.Trainer, bool) {
	if id.IsZero() {
		return trainer.Trainer{}, false
	}
	tr, err := r.TrainerStore.GetByIdentityID(ctx, id.ID)
	if err != nil {
		return trainer.Trainer{}, false
	}
	return tr, true
}

// IsNotFound reports whether a store error just means "no row", which access
// checks treat as an ordinary deny.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
