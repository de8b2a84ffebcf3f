package wagelevel

import (
	"context"

	domain "swimclub/internal/domain/wagelevel"
)

// Store persists WageLevel entities.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.WageLevel, error)
	Save(ctx context.Context, value domain.WageLevel) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.WageLevel, error)
}
