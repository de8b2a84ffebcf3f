package party

import (
	"context"

	domain "swimclub/internal/domain/party"
)

// Store persists Party entities.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Party, error)
	GetBySlug(ctx context.Context, slug string) (domain.Party, error)
	Save(ctx context.Context, value domain.Party) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Party, error)
}
