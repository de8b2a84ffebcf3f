package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"swimclub/internal/adapters/http/middleware"
	"swimclub/internal/application/orchestrators"
	identityDomain "swimclub/internal/domain/identity"
	trainerDomain "swimclub/internal/domain/trainer"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// renderMarkdown converts workout markdown to sanitized HTML.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return ""
	}
	return buf.String()
}

// requireSession writes a 401 and returns false when the request is
// unauthenticated.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return middleware.Session{}, false
	}
	return session, true
}

// requireAdmin writes a 401 or 403 and returns false unless the caller is
// an administrator.
func requireAdmin(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	session, ok := requireSession(w, r)
	if !ok {
		return middleware.Session{}, false
	}
	if !resolver.IsAdministrator(r.Context(), session.Identity()) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return middleware.Session{}, false
	}
	return session, true
}

// requireModule writes a 401 or 403 and returns false unless the caller may
// use the given module.
func requireModule(w http.ResponseWriter, r *http.Request, module string) (middleware.Session, bool) {
	session, ok := requireSession(w, r)
	if !ok {
		return middleware.Session{}, false
	}
	if !resolver.CanAccess(r.Context(), session.Identity(), module) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return middleware.Session{}, false
	}
	return session, true
}

// registerRoutes attaches all API handlers to the mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/register", handleRegister)
	mux.HandleFunc("/api/login", handleLogin)
	mux.HandleFunc("/api/logout", handleLogout)
	mux.HandleFunc("/api/me", handleMe)

	mux.HandleFunc("/api/trainers", handleTrainers)
	mux.HandleFunc("/api/trainers/profile", handleTrainerProfile)
	mux.HandleFunc("/api/trainers/send-contract", handleSendContract)
	mux.HandleFunc("/api/trainers/sync-contract-status", handleSyncContractStatus)
	mux.HandleFunc("/api/trainers/sync-payroll", handleSyncPayroll)

	mux.HandleFunc("/api/webhooks/esign", handleEsignWebhook)

	mux.HandleFunc("/api/workouts", handleWorkouts)
	mux.HandleFunc("/api/workouts/generate", handleGenerateWorkout)
	mux.HandleFunc("/api/workouts/adjust", handleAdjustWorkout)

	mux.HandleFunc("/api/planner", handlePlanner)
	mux.HandleFunc("/api/planner/send-email", handleSendPlanEmail)

	mux.HandleFunc("/api/statistics", handleStatistics)

	mux.HandleFunc("/api/parties", handleParties)
	mux.HandleFunc("/api/parties/overview", handlePartyOverview)
	mux.HandleFunc("/api/wage-levels", handleWageLevels)
	mux.HandleFunc("/api/trainer-levels", handleTrainerLevels)
	mux.HandleFunc("/api/settings", handleSettings)
	mux.HandleFunc("/api/roster/sync", handleRosterSync)
}

// handleRegister handles POST /api/register (public trainer registration)
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input orchestrators.RegisterTrainerInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	deps := orchestrators.RegisterTrainerDeps{
		AccountStore: stores.AccountStore,
		TrainerStore: stores.TrainerStore,
		Settings:     stores.SettingsStore,
		GenerateID:   generateID,
		Now:          timeNow,
	}
	trainerID, err := orchestrators.ExecuteRegisterTrainer(r.Context(), input, deps)
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrRegistrationClosed):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, orchestrators.ErrEmailTaken):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, identityDomain.ErrPasswordTooShort),
			errors.Is(err, identityDomain.ErrInvalidEmail),
			errors.Is(err, identityDomain.ErrEmptyEmail),
			errors.Is(err, identityDomain.ErrEmptyPassword),
			errors.Is(err, trainerDomain.ErrEmptyName),
			errors.Is(err, trainerDomain.ErrInvalidNationalID):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"TrainerID": trainerID})
}

// handleLogin handles POST /api/login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input orchestrators.LoginInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	deps := orchestrators.LoginDeps{AccountStore: stores.AccountStore}
	result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrAccountLocked):
			http.Error(w, err.Error(), http.StatusTooManyRequests)
		case errors.Is(err, orchestrators.ErrInvalidCredentials):
			http.Error(w, err.Error(), http.StatusUnauthorized)
		default:
			internalError(w, err)
		}
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, []string{identityDomain.ProviderEmail})
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	writeJSON(w, http.StatusOK, map[string]string{"Email": result.Email})
}

// handleLogout handles POST /api/logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if token := middleware.SessionTokenFromRequest(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// meResponse is what the frontend needs to decide which modules to show.
type meResponse struct {
	IdentityID   string
	Email        string
	IsAdmin      bool
	IsTrainer    bool
	TrainerID    string
	ModuleAccess map[string]bool
}

// handleMe handles GET /api/me
func handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	id := session.Identity()
	resp := meResponse{
		IdentityID: session.IdentityID,
		Email:      session.Email,
		IsAdmin:    resolver.IsAdministrator(ctx, id),
		ModuleAccess: map[string]bool{
			trainerDomain.ModuleWorkoutLibrary: resolver.CanAccess(ctx, id, trainerDomain.ModuleWorkoutLibrary),
			trainerDomain.ModulePlanner:        resolver.CanAccess(ctx, id, trainerDomain.ModulePlanner),
			trainerDomain.ModuleStatistics:     resolver.CanAccess(ctx, id, trainerDomain.ModuleStatistics),
		},
	}
	if tr, ok := resolver.IsTrainer(ctx, id); ok {
		resp.IsTrainer = true
		resp.TrainerID = tr.ID
	}

	writeJSON(w, http.StatusOK, resp)
}
