package web

import (
	"database/sql"
	"errors"
	"net/http"

	"swimclub/internal/application/orchestrators"
	"swimclub/internal/application/projections"
	partyDomain "swimclub/internal/domain/party"
	trainerlevelDomain "swimclub/internal/domain/trainerlevel"
	wagelevelDomain "swimclub/internal/domain/wagelevel"
)

func catalogDeps() orchestrators.CatalogDeps {
	return orchestrators.CatalogDeps{
		WageLevels:    stores.WageLevelStore,
		TrainerLevels: stores.TrainerLevelStore,
		Parties:       stores.PartyStore,
		GenerateID:    generateID,
		Now:           timeNow,
	}
}

// handleParties handles /api/parties
// GET is open to any authenticated user since the planner and registration
// forms list parties; writes are admin only.
func handleParties(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		if _, ok := requireSession(w, r); !ok {
			return
		}
		parties, err := stores.PartyStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, parties)

	case "POST":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var input orchestrators.SavePartyInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		partyID, err := orchestrators.ExecuteSaveParty(ctx, input, catalogDeps())
		if err != nil {
			switch {
			case errors.Is(err, partyDomain.ErrEmptyName),
				errors.Is(err, partyDomain.ErrEmptySlug):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, sql.ErrNoRows):
				http.Error(w, "party not found", http.StatusNotFound)
			default:
				internalError(w, err)
			}
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"PartyID": partyID})

	case "DELETE":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		if err := orchestrators.ExecuteDeleteParty(ctx, id, catalogDeps()); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handlePartyOverview handles GET /api/parties/overview (admin dashboard)
func handlePartyOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	rows, err := projections.QueryPartyOverview(r.Context(), projections.PartyOverviewDeps{
		Parties:  stores.PartyStore,
		Swimmers: stores.SwimmerStore,
		Trainers: stores.TrainerStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleWageLevels handles /api/wage-levels (admin CRUD)
func handleWageLevels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		levels, err := stores.WageLevelStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, levels)

	case "POST":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var input orchestrators.SaveWageLevelInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		levelID, err := orchestrators.ExecuteSaveWageLevel(ctx, input, catalogDeps())
		if err != nil {
			switch {
			case errors.Is(err, wagelevelDomain.ErrEmptyName),
				errors.Is(err, wagelevelDomain.ErrNegativeWage):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, sql.ErrNoRows):
				http.Error(w, "wage level not found", http.StatusNotFound)
			default:
				internalError(w, err)
			}
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"LevelID": levelID})

	case "DELETE":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		if err := orchestrators.ExecuteDeleteWageLevel(ctx, id, catalogDeps()); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleTrainerLevels handles /api/trainer-levels (admin CRUD)
func handleTrainerLevels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		levels, err := stores.TrainerLevelStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, levels)

	case "POST":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var input orchestrators.SaveTrainerLevelInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		levelID, err := orchestrators.ExecuteSaveTrainerLevel(ctx, input, catalogDeps())
		if err != nil {
			switch {
			case errors.Is(err, trainerlevelDomain.ErrEmptyName):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, sql.ErrNoRows):
				http.Error(w, "trainer level not found", http.StatusNotFound)
			default:
				internalError(w, err)
			}
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"LevelID": levelID})

	case "DELETE":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		if err := orchestrators.ExecuteDeleteTrainerLevel(ctx, id, catalogDeps()); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// settingsResponse mirrors the three application toggles.
type settingsResponse struct {
	RegistrationOpen bool
	WorkoutAIEnabled bool
	ContractTestMode bool
}

// handleSettings handles /api/settings (admin)
func handleSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var resp settingsResponse
		var err error
		if resp.RegistrationOpen, err = stores.SettingsStore.RegistrationOpen(ctx); err != nil {
			internalError(w, err)
			return
		}
		if resp.WorkoutAIEnabled, err = stores.SettingsStore.WorkoutAIEnabled(ctx); err != nil {
			internalError(w, err)
			return
		}
		if resp.ContractTestMode, err = stores.SettingsStore.ContractTestMode(ctx); err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)

	case "POST":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var input orchestrators.UpdateSettingsInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		deps := orchestrators.UpdateSettingsDeps{Settings: stores.SettingsStore}
		if err := orchestrators.ExecuteUpdateSettings(ctx, input, deps); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleRosterSync handles POST /api/roster/sync (admin)
func handleRosterSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var input orchestrators.SyncRosterInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if input.ExcludeGroupID == "" {
		input.ExcludeGroupID = providers.RosterExcludeGroupID
	}

	deps := orchestrators.SyncRosterDeps{
		Roster:       providers.Roster,
		PartyStore:   stores.PartyStore,
		SwimmerStore: stores.SwimmerStore,
		GenerateID:   generateID,
		Now:          timeNow,
	}
	result, err := orchestrators.ExecuteSyncRoster(r.Context(), input, deps)
	if err != nil {
		if errors.Is(err, orchestrators.ErrRosterGroupNotFound) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
