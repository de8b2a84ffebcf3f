package web

import (
	"database/sql"
	"errors"
	"net/http"

	workoutStore "swimclub/internal/adapters/storage/workout"
	"swimclub/internal/application/orchestrators"
	trainerDomain "swimclub/internal/domain/trainer"
	workoutDomain "swimclub/internal/domain/workout"
)

// workoutResponse is a bank session with its markdown content rendered for
// display.
type workoutResponse struct {
	Session     workoutDomain.Session
	ContentHTML string
}

// handleWorkouts handles /api/workouts
// GET lists or fetches one session, POST saves, DELETE removes.
func handleWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		if _, ok := requireModule(w, r, trainerDomain.ModuleWorkoutLibrary); !ok {
			return
		}
		q := r.URL.Query()
		if id := q.Get("id"); id != "" {
			session, err := stores.WorkoutStore.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					http.Error(w, "session not found", http.StatusNotFound)
					return
				}
				internalError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, workoutResponse{
				Session:     session,
				ContentHTML: renderMarkdown(session.Content),
			})
			return
		}

		filter := workoutStore.ListFilter{
			FocusStroke: q.Get("stroke"),
			Intensity:   q.Get("intensity"),
			Search:      q.Get("q"),
		}
		sessions, err := stores.WorkoutStore.List(ctx, filter)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sessions)

	case "POST":
		session, ok := requireModule(w, r, trainerDomain.ModuleWorkoutLibrary)
		if !ok {
			return
		}
		var input orchestrators.SaveWorkoutInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		// Administrators save without a trainer attribution
		if tr, isTrainer := resolver.IsTrainer(ctx, session.Identity()); isTrainer {
			input.TrainerID = tr.ID
		} else {
			input.TrainerID = ""
		}

		deps := orchestrators.SaveWorkoutDeps{
			WorkoutStore: stores.WorkoutStore,
			GenerateID:   generateID,
			Now:          timeNow,
		}
		sessionID, err := orchestrators.ExecuteSaveWorkout(ctx, input, deps)
		if err != nil {
			switch {
			case errors.Is(err, workoutDomain.ErrInvalidStroke),
				errors.Is(err, workoutDomain.ErrInvalidIntensity),
				errors.Is(err, workoutDomain.ErrEmptyTitle),
				errors.Is(err, workoutDomain.ErrTitleTooLong):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, sql.ErrNoRows):
				http.Error(w, "session not found", http.StatusNotFound)
			default:
				internalError(w, err)
			}
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"SessionID": sessionID})

	case "DELETE":
		if _, ok := requireModule(w, r, trainerDomain.ModuleWorkoutLibrary); !ok {
			return
		}
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		deps := orchestrators.DeleteWorkoutDeps{
			WorkoutStore: stores.WorkoutStore,
			PlanStore:    stores.PlanStore,
		}
		if err := orchestrators.ExecuteDeleteWorkout(ctx, id, deps); err != nil {
			if errors.Is(err, orchestrators.ErrSessionInUse) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleGenerateWorkout handles POST /api/workouts/generate
func handleGenerateWorkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireModule(w, r, trainerDomain.ModuleWorkoutLibrary); !ok {
		return
	}

	var input orchestrators.GenerateWorkoutInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	deps := orchestrators.GenerateWorkoutDeps{
		Generator: providers.Generator,
		Settings:  stores.SettingsStore,
	}
	workout, err := orchestrators.ExecuteGenerateWorkout(r.Context(), input, deps)
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrAIGenerationDisabled):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, orchestrators.ErrInvalidTargetMeters),
			errors.Is(err, workoutDomain.ErrInvalidStroke),
			errors.Is(err, workoutDomain.ErrInvalidIntensity):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, workout)
}

// handleAdjustWorkout handles POST /api/workouts/adjust
func handleAdjustWorkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireModule(w, r, trainerDomain.ModuleWorkoutLibrary); !ok {
		return
	}

	var input orchestrators.AdjustWorkoutInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	deps := orchestrators.GenerateWorkoutDeps{
		Generator: providers.Generator,
		Settings:  stores.SettingsStore,
	}
	workout, err := orchestrators.ExecuteAdjustWorkout(r.Context(), input, deps)
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrAIGenerationDisabled):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, orchestrators.ErrInvalidTargetMeters),
			errors.Is(err, workoutDomain.ErrEmptyTitle):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, workout)
}
