package projections

import (
	"context"

	partyDomain "swimclub/internal/domain/party"
	trainerDomain "swimclub/internal/domain/trainer"
	trainerlevelDomain "swimclub/internal/domain/trainerlevel"
	wagelevelDomain "swimclub/internal/domain/wagelevel"
)

// TrainerProfileTrainerStore defines the trainer store interface for the
// profile projection.
type TrainerProfileTrainerStore interface {
	GetByID(ctx context.Context, id string) (trainerDomain.Trainer, error)
	PartyIDs(ctx context.Context, trainerID string) ([]string, error)
	LevelIDs(ctx context.Context, trainerID string) ([]string, error)
}

// TrainerProfileWageLevelStore defines the wage level store interface.
type TrainerProfileWageLevelStore interface {
	GetByID(ctx context.Context, id string) (wagelevelDomain.WageLevel, error)
}

// TrainerProfilePartyStore defines the party store interface.
type TrainerProfilePartyStore interface {
	GetByID(ctx context.Context, id string) (partyDomain.Party, error)
}

// TrainerProfileLevelStore defines the certification level store interface.
type TrainerProfileLevelStore interface {
	GetByID(ctx context.Context, id string) (trainerlevelDomain.Level, error)
}

// TrainerProfileDeps holds dependencies for the profile projection.
type TrainerProfileDeps struct {
	TrainerStore  TrainerProfileTrainerStore
	WageLevels    TrainerProfileWageLevelStore
	Parties       TrainerProfilePartyStore
	TrainerLevels TrainerProfileLevelStore
}

// TrainerProfile is a trainer joined with the references an admin detail
// page shows.
type TrainerProfile struct {
	Trainer   trainerDomain.Trainer
	WageLevel *wagelevelDomain.WageLevel
	Parties   []partyDomain.Party
	Levels    []trainerlevelDomain.Level
}

// QueryTrainerProfile loads one trainer with wage level, party memberships
// and certifications resolved. Dangling references are skipped rather than
// failing the whole profile.
// PRE: id is non-empty
// POST: Returns the profile or the trainer store's not-found error
func QueryTrainerProfile(ctx context.Context, id string, deps TrainerProfileDeps) (TrainerProfile, error) {
	t, err := deps.TrainerStore.GetByID(ctx, id)
	if err != nil {
		return TrainerProfile{}, err
	}
	profile := TrainerProfile{Trainer: t}

	if t.WageLevelID != "" {
		if level, err := deps.WageLevels.GetByID(ctx, t.WageLevelID); err == nil {
			profile.WageLevel = &level
		}
	}

	partyIDs, err := deps.TrainerStore.PartyIDs(ctx, id)
	if err != nil {
		return TrainerProfile{}, err
	}
	for _, partyID := range partyIDs {
		if p, err := deps.Parties.GetByID(ctx, partyID); err == nil {
			profile.Parties = append(profile.Parties, p)
		}
	}

	levelIDs, err := deps.TrainerStore.LevelIDs(ctx, id)
	if err != nil {
		return TrainerProfile{}, err
	}
	for _, levelID := range levelIDs {
		if l, err := deps.TrainerLevels.GetByID(ctx, levelID); err == nil {
			profile.Levels = append(profile.Levels, l)
		}
	}
	return profile, nil
}
