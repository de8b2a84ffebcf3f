package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"swimclub/internal/adapters/aigen"
	"swimclub/internal/adapters/email"
	"swimclub/internal/adapters/esign"
	"swimclub/internal/adapters/http/middleware"
	"swimclub/internal/adapters/payroll"
	"swimclub/internal/adapters/roster"
	identityStore "swimclub/internal/adapters/storage/identity"
	partyStore "swimclub/internal/adapters/storage/party"
	planStore "swimclub/internal/adapters/storage/plan"
	settingsStore "swimclub/internal/adapters/storage/settings"
	swimmerStore "swimclub/internal/adapters/storage/swimmer"
	trainerStore "swimclub/internal/adapters/storage/trainer"
	trainerLevelStore "swimclub/internal/adapters/storage/trainerlevel"
	wageLevelStore "swimclub/internal/adapters/storage/wagelevel"
	workoutStore "swimclub/internal/adapters/storage/workout"
	"swimclub/internal/application/access"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore      identityStore.Store
	AdminStore        identityStore.AdminStore
	TrainerStore      trainerStore.Store
	PartyStore        partyStore.Store
	SwimmerStore      swimmerStore.Store
	WorkoutStore      workoutStore.Store
	PlanStore         planStore.Store
	WageLevelStore    wageLevelStore.Store
	TrainerLevelStore trainerLevelStore.Store
	SettingsStore     settingsStore.Store
}

// Providers holds the outbound integrations the handlers call.
type Providers struct {
	Esign     esign.Provider
	Payroll   payroll.Client
	Roster    roster.Client
	Generator aigen.Generator
	Email     email.Sender
	EmailFrom string
	// RosterExcludeGroupID names the roster group whose members are never
	// imported as swimmers (the club board).
	RosterExcludeGroupID string
}

// loadCSRFKey reads the CSRF secret from SWIMCLUB_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("SWIMCLUB_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("SWIMCLUB_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("SWIMCLUB_ENV") == "production" {
		log.Fatal("SWIMCLUB_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set SWIMCLUB_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global providers instance (set by NewMux)
var providers *Providers

// Global session store instance
var sessions *middleware.SessionStore

// Global access resolver (set by NewMux)
var resolver *access.Resolver

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, p *Providers) http.Handler {
	stores = s
	providers = p
	sessions = middleware.NewSessionStore()
	resolver = &access.Resolver{AdminStore: s.AdminStore, TrainerStore: s.TrainerStore}

	mux := http.NewServeMux()
	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	mux.Handle("/metrics", middleware.MetricsHandler())
	registerRoutes(mux)

	// Enterprise bearer tokens share a secret with the identity gateway
	tokens := middleware.NewTokenVerifier(
		[]byte(os.Getenv("SWIMCLUB_IDENTITY_SECRET")),
		os.Getenv("SWIMCLUB_IDENTITY_ISSUER"),
	)

	csrfKey := loadCSRFKey()
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Metrics -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, "/api/webhooks/"),
		middleware.Auth(sessions, tokens),
		middleware.RateLimit(limiter),
		middleware.Metrics,
	)
}
