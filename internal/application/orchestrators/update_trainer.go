package orchestrators

import (
	"context"
	"log/slog"
	"time"

	partyStore "swimclub/internal/adapters/storage/party"
	trainerStore "swimclub/internal/adapters/storage/trainer"
)

// UpdateTrainerInput carries the admin-editable trainer fields.
type UpdateTrainerInput struct {
	TrainerID         string
	WageLevelID       string
	MinimumHours      float64
	ContractFromDate  string
	ContractToDate    string
	ContractPermanent bool

	LevelIDs []string
	PartyIDs []string

	CanAccessWorkoutLibrary bool
	CanAccessPlanner        bool
	CanAccessStatistics     bool
}

// UpdateTrainerDeps holds dependencies for UpdateTrainer.
type UpdateTrainerDeps struct {
	TrainerStore trainerStore.Store
	PartyStore   partyStore.Store
	Now          func() time.Time
}

// ExecuteUpdateTrainer applies an admin edit of wage, contract terms,
// certifications, party memberships and module access flags.
// PRE: trainer exists; caller is an administrator
// POST: trainer row, certification links and party links are updated
// INVARIANT: membership in any competitive party forces all module flags
// true; the auto-grant never revokes a flag
func ExecuteUpdateTrainer(ctx context.Context, input UpdateTrainerInput, deps UpdateTrainerDeps) error {
	t, err := deps.TrainerStore.GetByID(ctx, input.TrainerID)
	if err != nil {
		return err
	}

	t.WageLevelID = input.WageLevelID
	t.MinimumHours = input.MinimumHours
	t.ContractFromDate = input.ContractFromDate
	t.ContractToDate = input.ContractToDate
	t.ContractPermanent = input.ContractPermanent
	if input.ContractPermanent {
		// A permanent contract has no end date.
		t.ContractToDate = ""
	}
	t.CanAccessWorkoutLibrary = input.CanAccessWorkoutLibrary
	t.CanAccessPlanner = input.CanAccessPlanner
	t.CanAccessStatistics = input.CanAccessStatistics
	t.UpdatedAt = deps.Now()

	granted := false
	for _, partyID := range input.PartyIDs {
		p, err := deps.PartyStore.GetByID(ctx, partyID)
		if err != nil {
			return err
		}
		if p.Competitive {
			t.GrantAllModules()
			granted = true
			break
		}
	}

	if err := t.Validate(); err != nil {
		return err
	}
	if err := deps.TrainerStore.Save(ctx, t); err != nil {
		return err
	}
	if err := deps.TrainerStore.SetLevelIDs(ctx, input.TrainerID, input.LevelIDs); err != nil {
		return err
	}
	if err := deps.TrainerStore.SetPartyIDs(ctx, input.TrainerID, input.PartyIDs); err != nil {
		return err
	}

	slog.Info("trainer_updated", "trainer_id", input.TrainerID, "party_count", len(input.PartyIDs), "auto_granted", granted)
	return nil
}

// DeleteTrainerDeps holds dependencies for DeleteTrainer.
type DeleteTrainerDeps struct {
	TrainerStore trainerStore.Store
}

// ExecuteDeleteTrainer removes a trainer and its membership links.
// PRE: caller is an administrator
// POST: trainer row and its links are gone; the login account remains
func ExecuteDeleteTrainer(ctx context.Context, trainerID string, deps DeleteTrainerDeps) error {
	if err := deps.TrainerStore.Delete(ctx, trainerID); err != nil {
		return err
	}
	slog.Info("trainer_deleted", "trainer_id", trainerID)
	return nil
}
