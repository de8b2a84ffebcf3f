package web

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"swimclub/internal/application/orchestrators"
	"swimclub/internal/application/projections"
	planDomain "swimclub/internal/domain/plan"
	trainerDomain "swimclub/internal/domain/trainer"
)

// handlePlanner handles /api/planner
// GET lists calendar entries for a date range, POST places or moves a
// session, DELETE removes a planned session.
func handlePlanner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		if _, ok := requireModule(w, r, trainerDomain.ModulePlanner); !ok {
			return
		}
		q := r.URL.Query()
		entries, err := stores.PlanStore.ListEntries(ctx, q.Get("party"), q.Get("from"), q.Get("to"))
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)

	case "POST":
		session, ok := requireModule(w, r, trainerDomain.ModulePlanner)
		if !ok {
			return
		}
		var input orchestrators.PlanSessionInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if tr, isTrainer := resolver.IsTrainer(ctx, session.Identity()); isTrainer {
			input.TrainerID = tr.ID
		} else {
			input.TrainerID = ""
		}

		deps := orchestrators.PlanSessionDeps{
			PlanStore:  stores.PlanStore,
			GenerateID: generateID,
			Now:        timeNow,
		}
		planID, err := orchestrators.ExecutePlanSession(ctx, input, deps)
		if err != nil {
			switch {
			case errors.Is(err, planDomain.ErrInvalidDate),
				errors.Is(err, planDomain.ErrMissingParty),
				errors.Is(err, planDomain.ErrMissingContent):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, sql.ErrNoRows):
				http.Error(w, "planned session not found", http.StatusNotFound)
			default:
				internalError(w, err)
			}
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"PlanID": planID})

	case "DELETE":
		if _, ok := requireModule(w, r, trainerDomain.ModulePlanner); !ok {
			return
		}
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		deps := orchestrators.DeletePlanDeps{PlanStore: stores.PlanStore}
		if err := orchestrators.ExecuteDeletePlan(ctx, id, deps); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleSendPlanEmail handles POST /api/planner/send-email
func handleSendPlanEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireModule(w, r, trainerDomain.ModulePlanner); !ok {
		return
	}

	var input struct {
		PlanID string
	}
	if err := strictDecode(r, &input); err != nil || input.PlanID == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	deps := orchestrators.SendPlanEmailDeps{
		PlanStore:    stores.PlanStore,
		TrainerStore: stores.TrainerStore,
		Email:        providers.Email,
		From:         providers.EmailFrom,
	}
	result, err := orchestrators.ExecuteSendPlanEmail(r.Context(), input.PlanID, deps)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "planned session not found", http.StatusNotFound)
		case errors.Is(err, orchestrators.ErrNoPartyTrainers):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleStatistics handles GET /api/statistics
func handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireModule(w, r, trainerDomain.ModuleStatistics); !ok {
		return
	}

	q := r.URL.Query()
	input := projections.StatisticsInput{
		From: q.Get("from"),
		To:   q.Get("to"),
	}
	if parties := q.Get("parties"); parties != "" {
		input.PartyIDs = strings.Split(parties, ",")
	}

	deps := projections.StatisticsDeps{
		PlanStore:  stores.PlanStore,
		PartyStore: stores.PartyStore,
	}
	result, err := projections.QueryStatistics(r.Context(), input, deps)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
