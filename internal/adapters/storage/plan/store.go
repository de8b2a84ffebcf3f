package plan

import (
	"context"

	domain "swimclub/internal/domain/plan"
)

// Entry is a planned session joined with the bank session it references,
// resolved to the fields the calendar and statistics need. For generated
// plans the workout fields come from the plan's own AI columns.
type Entry struct {
	Plan domain.PlannedSession

	Title       string
	Content     string
	TotalMeters string
	FocusStroke string
	Intensity   string
}

// Store persists PlannedSession entities.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.PlannedSession, error)
	Save(ctx context.Context, value domain.PlannedSession) error
	Delete(ctx context.Context, id string) error
	// ListEntries returns joined entries within the date range
	// [from, to], both YYYY-MM-DD inclusive; empty bounds are open.
	// partyID narrows to one party when non-empty.
	ListEntries(ctx context.Context, partyID, from, to string) ([]Entry, error)
	CountBySession(ctx context.Context, sessionID string) (int, error)
}
