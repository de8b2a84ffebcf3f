package projections

import (
	"context"

	partyDomain "swimclub/internal/domain/party"
	trainerDomain "swimclub/internal/domain/trainer"
)

// PartyOverviewPartyStore defines the party store interface for the
// overview projection.
type PartyOverviewPartyStore interface {
	List(ctx context.Context) ([]partyDomain.Party, error)
}

// PartyOverviewSwimmerStore defines the swimmer store interface.
type PartyOverviewSwimmerStore interface {
	CountByParty(ctx context.Context) (map[string]int, error)
}

// PartyOverviewTrainerStore defines the trainer store interface.
type PartyOverviewTrainerStore interface {
	ListByParty(ctx context.Context, partyID string) ([]trainerDomain.Trainer, error)
}

// PartyOverviewDeps holds dependencies for the overview projection.
type PartyOverviewDeps struct {
	Parties  PartyOverviewPartyStore
	Swimmers PartyOverviewSwimmerStore
	Trainers PartyOverviewTrainerStore
}

// PartyOverviewRow is one party with its roster and staffing numbers.
type PartyOverviewRow struct {
	Party        partyDomain.Party
	SwimmerCount int
	TrainerNames []string
}

// QueryPartyOverview lists all parties in display order with imported
// swimmer counts and assigned trainer names.
// POST: Returns one row per party, ordered by party sequence
func QueryPartyOverview(ctx context.Context, deps PartyOverviewDeps) ([]PartyOverviewRow, error) {
	parties, err := deps.Parties.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := deps.Swimmers.CountByParty(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]PartyOverviewRow, 0, len(parties))
	for _, p := range parties {
		row := PartyOverviewRow{Party: p, SwimmerCount: counts[p.ID]}
		trainers, err := deps.Trainers.ListByParty(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		for _, t := range trainers {
			row.TrainerNames = append(row.TrainerNames, t.Name)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
