package web

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	trainerStore "swimclub/internal/adapters/storage/trainer"
	"swimclub/internal/application/orchestrators"
	"swimclub/internal/application/projections"
	"swimclub/internal/domain/contract"
)

// handleTrainers handles GET /api/trainers (admin list)
func handleTrainers(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	q := r.URL.Query()
	filter := trainerStore.ListFilter{
		ContractStatus: q.Get("contract_status"),
	}
	if v := q.Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("offset"); v != "" {
		filter.Offset, _ = strconv.Atoi(v)
	}

	trainers, err := stores.TrainerStore.List(r.Context(), filter)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trainers)
}

// handleTrainerProfile handles /api/trainers/profile
// GET returns the joined profile; PUT applies an admin edit; DELETE removes
// the trainer. Trainers may fetch their own profile, everything else is
// admin only.
func handleTrainerProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		session, ok := requireSession(w, r)
		if !ok {
			return
		}
		id := r.URL.Query().Get("id")
		if !resolver.IsAdministrator(ctx, session.Identity()) {
			tr, isTrainer := resolver.IsTrainer(ctx, session.Identity())
			if !isTrainer || (id != "" && id != tr.ID) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			id = tr.ID
		}
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}

		profile, err := projections.QueryTrainerProfile(ctx, id, projections.TrainerProfileDeps{
			TrainerStore:  stores.TrainerStore,
			WageLevels:    stores.WageLevelStore,
			Parties:       stores.PartyStore,
			TrainerLevels: stores.TrainerLevelStore,
		})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "trainer not found", http.StatusNotFound)
				return
			}
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)

	case "PUT":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var input orchestrators.UpdateTrainerInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		deps := orchestrators.UpdateTrainerDeps{
			TrainerStore: stores.TrainerStore,
			PartyStore:   stores.PartyStore,
			Now:          timeNow,
		}
		if err := orchestrators.ExecuteUpdateTrainer(ctx, input, deps); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "trainer not found", http.StatusNotFound)
				return
			}
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case "DELETE":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		deps := orchestrators.DeleteTrainerDeps{TrainerStore: stores.TrainerStore}
		if err := orchestrators.ExecuteDeleteTrainer(ctx, id, deps); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleSendContract handles POST /api/trainers/send-contract
func handleSendContract(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var input orchestrators.SendContractInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	deps := orchestrators.SendContractDeps{
		TrainerStore:   stores.TrainerStore,
		WageLevelStore: stores.WageLevelStore,
		Settings:       stores.SettingsStore,
		Esign:          providers.Esign,
		Now:            timeNow,
	}
	result, err := orchestrators.ExecuteSendContract(r.Context(), input, deps)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "trainer not found", http.StatusNotFound)
		case errors.Is(err, contract.ErrMissingWageLevel),
			errors.Is(err, contract.ErrMissingEmail):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleSyncContractStatus handles POST /api/trainers/sync-contract-status
func handleSyncContractStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var input orchestrators.SyncContractStatusInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	deps := orchestrators.SyncContractStatusDeps{
		TrainerStore: stores.TrainerStore,
		Esign:        providers.Esign,
	}
	status, err := orchestrators.ExecuteSyncContractStatus(r.Context(), input, deps)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "trainer not found", http.StatusNotFound)
		case errors.Is(err, contract.ErrNoContractInFlight):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"ContractStatus": status})
}

// handleSyncPayroll handles POST /api/trainers/sync-payroll
func handleSyncPayroll(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var input orchestrators.SyncPayrollInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	deps := orchestrators.SyncPayrollDeps{
		TrainerStore: stores.TrainerStore,
		Payroll:      providers.Payroll,
		Now:          timeNow,
	}
	employeeID, err := orchestrators.ExecuteSyncPayroll(r.Context(), input, deps)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "trainer not found", http.StatusNotFound)
		case errors.Is(err, orchestrators.ErrMissingPayrollEmail):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"PayrollEmployeeID": employeeID})
}
