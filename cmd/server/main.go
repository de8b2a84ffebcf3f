package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"swimclub/internal/adapters/aigen"
	emailPkg "swimclub/internal/adapters/email"
	"swimclub/internal/adapters/esign"
	web "swimclub/internal/adapters/http"
	"swimclub/internal/adapters/http/middleware"
	"swimclub/internal/adapters/payroll"
	"swimclub/internal/adapters/roster"
	"swimclub/internal/adapters/storage"
	identityStorePkg "swimclub/internal/adapters/storage/identity"
	partyStorePkg "swimclub/internal/adapters/storage/party"
	planStorePkg "swimclub/internal/adapters/storage/plan"
	settingsStorePkg "swimclub/internal/adapters/storage/settings"
	swimmerStorePkg "swimclub/internal/adapters/storage/swimmer"
	trainerStorePkg "swimclub/internal/adapters/storage/trainer"
	trainerLevelStorePkg "swimclub/internal/adapters/storage/trainerlevel"
	wageLevelStorePkg "swimclub/internal/adapters/storage/wagelevel"
	workoutStorePkg "swimclub/internal/adapters/storage/workout"
	identityDomain "swimclub/internal/domain/identity"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load .env file if it exists (optional - fails silently if not found)
	_ = godotenv.Load()

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("SWIMCLUB_DB", "swimclub.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Println("Database initialized successfully!")

	acctStore := identityStorePkg.NewSQLiteStore(db)
	adminStore := identityStorePkg.NewAdminSQLiteStore(db)
	stores := &web.Stores{
		AccountStore:      acctStore,
		AdminStore:        adminStore,
		TrainerStore:      trainerStorePkg.NewSQLiteStore(db),
		PartyStore:        partyStorePkg.NewSQLiteStore(db),
		SwimmerStore:      swimmerStorePkg.NewSQLiteStore(db),
		WorkoutStore:      workoutStorePkg.NewSQLiteStore(db),
		PlanStore:         planStorePkg.NewSQLiteStore(db),
		WageLevelStore:    wageLevelStorePkg.NewSQLiteStore(db),
		TrainerLevelStore: trainerLevelStorePkg.NewSQLiteStore(db),
		SettingsStore:     settingsStorePkg.NewSQLiteStore(db),
	}

	// Seed a bootstrap admin if no accounts exist yet
	if err := seedAdmin(acctStore, adminStore); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	providers := buildProviders(stores.SettingsStore)

	middleware.RegisterMetrics()
	mux := web.NewMux(envOrDefault("SWIMCLUB_STATIC_DIR", "static"), stores, providers)

	addr := envOrDefault("SWIMCLUB_ADDR", ":8080")
	log.Printf("Swimclub %s starting on %s (env=%s)", version, addr, envOrDefault("SWIMCLUB_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// seedAdmin creates the bootstrap administrator account on an empty
// database. The password comes from the environment so production deploys
// never ship a default credential.
func seedAdmin(accounts identityStorePkg.Store, admins identityStorePkg.AdminStore) error {
	count, err := accounts.Count(context.Background())
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := envOrDefault("SWIMCLUB_ADMIN_EMAIL", "admin@skiensvk.no")
	password := os.Getenv("SWIMCLUB_ADMIN_PASSWORD")
	if password == "" {
		if os.Getenv("SWIMCLUB_ENV") == "production" {
			log.Fatal("SWIMCLUB_ADMIN_PASSWORD is required in production for the bootstrap admin")
		}
		password = "admin passord for utvikling"
		log.Println("WARNING: using development admin password. Set SWIMCLUB_ADMIN_PASSWORD.")
	}

	acct := identityDomain.Account{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: time.Now(),
	}
	if err := acct.SetPassword(password); err != nil {
		return err
	}
	if err := accounts.Save(context.Background(), acct); err != nil {
		return err
	}
	rec := identityDomain.AdminRecord{
		ID:         uuid.New().String(),
		IdentityID: acct.ID,
		CreatedAt:  time.Now(),
	}
	if err := admins.Save(context.Background(), rec); err != nil {
		return err
	}
	log.Printf("Seeded bootstrap admin %s", email)
	return nil
}

// buildProviders wires the outbound integrations from the environment.
// Missing credentials fall back to safe local behaviour where one exists.
func buildProviders(settings settingsStorePkg.Store) *web.Providers {
	p := &web.Providers{
		EmailFrom:            envOrDefault("SWIMCLUB_EMAIL_FROM", "Skien Svømmeklubb <noreply@skiensvk.no>"),
		RosterExcludeGroupID: os.Getenv("SWIMCLUB_SPOND_EXCLUDE_GROUP"),
	}

	if key := os.Getenv("SWIMCLUB_RESEND_KEY"); key != "" {
		p.Email = emailPkg.NewResendSender(key, p.EmailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		p.Email = emailPkg.NewNoopSender()
		log.Println("Email sender configured (noop — set SWIMCLUB_RESEND_KEY for real delivery)")
	}

	testMode, err := settings.ContractTestMode(context.Background())
	if err != nil {
		testMode = true
	}

	p.Esign = esign.NewAnvilClient(esign.AnvilConfig{
		APIKey:      os.Getenv("SWIMCLUB_ANVIL_KEY"),
		TemplateEID: os.Getenv("SWIMCLUB_ANVIL_TEMPLATE"),
		ClubName:    envOrDefault("SWIMCLUB_CLUB_NAME", "Skien Svømmeklubb"),
		ClubEmail:   envOrDefault("SWIMCLUB_CLUB_EMAIL", "post@skiensvk.no"),
	}, nil)

	p.Payroll = payroll.NewTripletexClient(payroll.TripletexConfig{
		ConsumerToken: os.Getenv("SWIMCLUB_TRIPLETEX_CONSUMER_TOKEN"),
		EmployeeToken: os.Getenv("SWIMCLUB_TRIPLETEX_EMPLOYEE_TOKEN"),
		TestMode:      testMode,
	}, nil)

	p.Roster = roster.NewSpondClient(roster.SpondConfig{
		Username: os.Getenv("SWIMCLUB_SPOND_USERNAME"),
		Password: os.Getenv("SWIMCLUB_SPOND_PASSWORD"),
	}, nil)

	p.Generator = aigen.NewAnthropicGenerator(
		os.Getenv("SWIMCLUB_ANTHROPIC_KEY"),
		os.Getenv("SWIMCLUB_ANTHROPIC_MODEL"),
	)

	return p
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
