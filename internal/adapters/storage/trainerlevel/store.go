package trainerlevel

import (
	"context"

	domain "swimclub/internal/domain/trainerlevel"
)

// Store persists certification Level entities.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Level, error)
	Save(ctx context.Context, value domain.Level) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Level, error)
}
