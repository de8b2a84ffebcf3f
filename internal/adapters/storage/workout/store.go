package workout

import (
	"context"

	domain "swimclub/internal/domain/workout"
)

// Store persists Session entities for the workout bank.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Session, error)
	Save(ctx context.Context, value domain.Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Session, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	FocusStroke string
	Intensity   string
	Search      string
}
