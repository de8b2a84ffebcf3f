package orchestrators

import (
	"context"
	"log/slog"
	"time"

	partyStore "swimclub/internal/adapters/storage/party"
	settingsStore "swimclub/internal/adapters/storage/settings"
	trainerlevelStore "swimclub/internal/adapters/storage/trainerlevel"
	wagelevelStore "swimclub/internal/adapters/storage/wagelevel"
	partyDomain "swimclub/internal/domain/party"
	trainerlevelDomain "swimclub/internal/domain/trainerlevel"
	wagelevelDomain "swimclub/internal/domain/wagelevel"
)

// SaveWageLevelInput carries input for creating or updating a wage level.
type SaveWageLevelInput struct {
	LevelID      string // empty creates a new level
	Name         string
	HourlyWage   float64
	MinimumHours float64
	Sequence     int
}

// CatalogDeps holds the stores the catalog commands write to.
type CatalogDeps struct {
	WageLevels    wagelevelStore.Store
	TrainerLevels trainerlevelStore.Store
	Parties       partyStore.Store
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteSaveWageLevel creates or updates a pay step.
// PRE: caller is an administrator
func ExecuteSaveWageLevel(ctx context.Context, input SaveWageLevelInput, deps CatalogDeps) (string, error) {
	now := deps.Now()
	var w wagelevelDomain.WageLevel

	if input.LevelID != "" {
		existing, err := deps.WageLevels.GetByID(ctx, input.LevelID)
		if err != nil {
			return "", err
		}
		w = existing
		w.UpdatedAt = now
	} else {
		w = wagelevelDomain.WageLevel{ID: deps.GenerateID(), CreatedAt: now}
	}

	w.Name = input.Name
	w.HourlyWage = input.HourlyWage
	w.MinimumHours = input.MinimumHours
	w.Sequence = input.Sequence

	if err := w.Validate(); err != nil {
		return "", err
	}
	if err := deps.WageLevels.Save(ctx, w); err != nil {
		return "", err
	}
	slog.Info("wage_level_saved", "level_id", w.ID, "name", w.Name)
	return w.ID, nil
}

// ExecuteDeleteWageLevel removes a pay step. Trainers still assigned to it
// keep working because the assignment column is nullable; the database
// clears the reference.
func ExecuteDeleteWageLevel(ctx context.Context, levelID string, deps CatalogDeps) error {
	if err := deps.WageLevels.Delete(ctx, levelID); err != nil {
		return err
	}
	slog.Info("wage_level_deleted", "level_id", levelID)
	return nil
}

// SaveTrainerLevelInput carries input for creating or updating a
// certification level.
type SaveTrainerLevelInput struct {
	LevelID  string // empty creates a new level
	Name     string
	Sequence int
}

// ExecuteSaveTrainerLevel creates or updates a certification level.
// PRE: caller is an administrator
func ExecuteSaveTrainerLevel(ctx context.Context, input SaveTrainerLevelInput, deps CatalogDeps) (string, error) {
	now := deps.Now()
	var l trainerlevelDomain.Level

	if input.LevelID != "" {
		existing, err := deps.TrainerLevels.GetByID(ctx, input.LevelID)
		if err != nil {
			return "", err
		}
		l = existing
		l.UpdatedAt = now
	} else {
		l = trainerlevelDomain.Level{ID: deps.GenerateID(), CreatedAt: now}
	}

	l.Name = input.Name
	l.Sequence = input.Sequence

	if err := l.Validate(); err != nil {
		return "", err
	}
	if err := deps.TrainerLevels.Save(ctx, l); err != nil {
		return "", err
	}
	slog.Info("trainer_level_saved", "level_id", l.ID, "name", l.Name)
	return l.ID, nil
}

// ExecuteDeleteTrainerLevel removes a certification level and its trainer
// links.
func ExecuteDeleteTrainerLevel(ctx context.Context, levelID string, deps CatalogDeps) error {
	if err := deps.TrainerLevels.Delete(ctx, levelID); err != nil {
		return err
	}
	slog.Info("trainer_level_deleted", "level_id", levelID)
	return nil
}

// SavePartyInput carries input for creating or updating a training group.
type SavePartyInput struct {
	PartyID          string // empty creates a new party
	Name             string
	Slug             string
	Competitive      bool
	RosterSubgroupID string
	Sequence         int
}

// ExecuteSaveParty creates or updates a training group.
// PRE: caller is an administrator
func ExecuteSaveParty(ctx context.Context, input SavePartyInput, deps CatalogDeps) (string, error) {
	now := deps.Now()
	var p partyDomain.Party

	if input.PartyID != "" {
		existing, err := deps.Parties.GetByID(ctx, input.PartyID)
		if err != nil {
			return "", err
		}
		p = existing
		p.UpdatedAt = now
	} else {
		p = partyDomain.Party{ID: deps.GenerateID(), CreatedAt: now}
	}

	p.Name = input.Name
	p.Slug = input.Slug
	p.Competitive = input.Competitive
	p.RosterSubgroupID = input.RosterSubgroupID
	p.Sequence = input.Sequence

	if err := p.Validate(); err != nil {
		return "", err
	}
	if err := deps.Parties.Save(ctx, p); err != nil {
		return "", err
	}
	slog.Info("party_saved", "party_id", p.ID, "slug", p.Slug)
	return p.ID, nil
}

// ExecuteDeleteParty removes a training group along with its trainer
// assignments.
func ExecuteDeleteParty(ctx context.Context, partyID string, deps CatalogDeps) error {
	if err := deps.Parties.Delete(ctx, partyID); err != nil {
		return err
	}
	slog.Info("party_deleted", "party_id", partyID)
	return nil
}

// UpdateSettingsInput carries the settings toggles. Nil pointers leave the
// setting unchanged.
type UpdateSettingsInput struct {
	RegistrationOpen *bool
	WorkoutAIEnabled *bool
	ContractTestMode *bool
}

// UpdateSettingsDeps holds dependencies for UpdateSettings.
type UpdateSettingsDeps struct {
	Settings settingsStore.Store
}

// ExecuteUpdateSettings writes the provided toggles.
// PRE: caller is an administrator
// POST: only the non-nil toggles are written
func ExecuteUpdateSettings(ctx context.Context, input UpdateSettingsInput, deps UpdateSettingsDeps) error {
	if input.RegistrationOpen != nil {
		if err := deps.Settings.SetRegistrationOpen(ctx, *input.RegistrationOpen); err != nil {
			return err
		}
		slog.Info("setting_changed", "key", "registration_open", "value", *input.RegistrationOpen)
	}
	if input.WorkoutAIEnabled != nil {
		if err := deps.Settings.SetWorkoutAIEnabled(ctx, *input.WorkoutAIEnabled); err != nil {
			return err
		}
		slog.Info("setting_changed", "key", "workout_ai_enabled", "value", *input.WorkoutAIEnabled)
	}
	if input.ContractTestMode != nil {
		if err := deps.Settings.SetContractTestMode(ctx, *input.ContractTestMode); err != nil {
			return err
		}
		slog.Info("setting_changed", "key", "contract_test_mode", "value", *input.ContractTestMode)
	}
	return nil
}
