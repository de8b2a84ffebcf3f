package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"swimclub/internal/adapters/aigen"
	"swimclub/internal/adapters/email"
	"swimclub/internal/adapters/esign"
	"swimclub/internal/adapters/http/middleware"
	"swimclub/internal/adapters/payroll"
	"swimclub/internal/adapters/roster"
	planStore "swimclub/internal/adapters/storage/plan"
	trainerStore "swimclub/internal/adapters/storage/trainer"
	workoutStore "swimclub/internal/adapters/storage/workout"
	"swimclub/internal/application/access"
	identityDomain "swimclub/internal/domain/identity"
	partyDomain "swimclub/internal/domain/party"
	planDomain "swimclub/internal/domain/plan"
	swimmerDomain "swimclub/internal/domain/swimmer"
	trainerDomain "swimclub/internal/domain/trainer"
	trainerlevelDomain "swimclub/internal/domain/trainerlevel"
	wagelevelDomain "swimclub/internal/domain/wagelevel"
	workoutDomain "swimclub/internal/domain/workout"
)

// --- Mock stores ---

type mockAccountStore struct {
	accounts map[string]identityDomain.Account
}

func (m *mockAccountStore) GetByID(ctx context.Context, id string) (identityDomain.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return identityDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) GetByEmail(ctx context.Context, em string) (identityDomain.Account, error) {
	for _, a := range m.accounts {
		if a.Email == em {
			return a, nil
		}
	}
	return identityDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) Save(ctx context.Context, a identityDomain.Account) error {
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) Delete(ctx context.Context, id string) error {
	delete(m.accounts, id)
	return nil
}

func (m *mockAccountStore) Count(ctx context.Context) (int, error) {
	return len(m.accounts), nil
}

type mockAdminStore struct {
	records map[string]identityDomain.AdminRecord // keyed by identity id
}

func (m *mockAdminStore) GetByIdentityID(ctx context.Context, identityID string) (identityDomain.AdminRecord, error) {
	if rec, ok := m.records[identityID]; ok {
		return rec, nil
	}
	return identityDomain.AdminRecord{}, sql.ErrNoRows
}

func (m *mockAdminStore) Save(ctx context.Context, rec identityDomain.AdminRecord) error {
	m.records[rec.IdentityID] = rec
	return nil
}

func (m *mockAdminStore) Delete(ctx context.Context, id string) error {
	for key, rec := range m.records {
		if rec.ID == id {
			delete(m.records, key)
		}
	}
	return nil
}

func (m *mockAdminStore) List(ctx context.Context) ([]identityDomain.AdminRecord, error) {
	var list []identityDomain.AdminRecord
	for _, rec := range m.records {
		list = append(list, rec)
	}
	return list, nil
}

type mockTrainerStore struct {
	trainers map[string]trainerDomain.Trainer
	parties  map[string][]string
	levels   map[string][]string
}

func (m *mockTrainerStore) GetByID(ctx context.Context, id string) (trainerDomain.Trainer, error) {
	if t, ok := m.trainers[id]; ok {
		return t, nil
	}
	return trainerDomain.Trainer{}, sql.ErrNoRows
}

func (m *mockTrainerStore) GetByIdentityID(ctx context.Context, identityID string) (trainerDomain.Trainer, error) {
	for _, t := range m.trainers {
		if t.IdentityID == identityID {
			return t, nil
		}
	}
	return trainerDomain.Trainer{}, sql.ErrNoRows
}

func (m *mockTrainerStore) GetByEmail(ctx context.Context, em string) (trainerDomain.Trainer, error) {
	for _, t := range m.trainers {
		if t.Email == em {
			return t, nil
		}
	}
	return trainerDomain.Trainer{}, sql.ErrNoRows
}

func (m *mockTrainerStore) GetByDocumentRef(ctx context.Context, documentRef string) (trainerDomain.Trainer, error) {
	for _, t := range m.trainers {
		if t.ContractDocumentRef == documentRef {
			return t, nil
		}
	}
	return trainerDomain.Trainer{}, sql.ErrNoRows
}

func (m *mockTrainerStore) Save(ctx context.Context, t trainerDomain.Trainer) error {
	m.trainers[t.ID] = t
	return nil
}

func (m *mockTrainerStore) Delete(ctx context.Context, id string) error {
	delete(m.trainers, id)
	delete(m.parties, id)
	delete(m.levels, id)
	return nil
}

func (m *mockTrainerStore) List(ctx context.Context, filter trainerStore.ListFilter) ([]trainerDomain.Trainer, error) {
	var list []trainerDomain.Trainer
	for _, t := range m.trainers {
		if filter.ContractStatus != "" && t.ContractStatus != filter.ContractStatus {
			continue
		}
		list = append(list, t)
	}
	return list, nil
}

func (m *mockTrainerStore) ListByParty(ctx context.Context, partyID string) ([]trainerDomain.Trainer, error) {
	var list []trainerDomain.Trainer
	for id, t := range m.trainers {
		for _, p := range m.parties[id] {
			if p == partyID {
				list = append(list, t)
			}
		}
	}
	return list, nil
}

func (m *mockTrainerStore) Count(ctx context.Context) (int, error) {
	return len(m.trainers), nil
}

func (m *mockTrainerStore) SetContractStatus(ctx context.Context, id, status string) error {
	t, ok := m.trainers[id]
	if !ok {
		return sql.ErrNoRows
	}
	t.ContractStatus = status
	m.trainers[id] = t
	return nil
}

func (m *mockTrainerStore) PartyIDs(ctx context.Context, trainerID string) ([]string, error) {
	return m.parties[trainerID], nil
}

func (m *mockTrainerStore) SetPartyIDs(ctx context.Context, trainerID string, partyIDs []string) error {
	m.parties[trainerID] = partyIDs
	return nil
}

func (m *mockTrainerStore) LevelIDs(ctx context.Context, trainerID string) ([]string, error) {
	return m.levels[trainerID], nil
}

func (m *mockTrainerStore) SetLevelIDs(ctx context.Context, trainerID string, levelIDs []string) error {
	m.levels[trainerID] = levelIDs
	return nil
}

type mockPartyStore struct {
	parties map[string]partyDomain.Party
}

func (m *mockPartyStore) GetByID(ctx context.Context, id string) (partyDomain.Party, error) {
	if p, ok := m.parties[id]; ok {
		return p, nil
	}
	return partyDomain.Party{}, sql.ErrNoRows
}

func (m *mockPartyStore) GetBySlug(ctx context.Context, slug string) (partyDomain.Party, error) {
	for _, p := range m.parties {
		if p.Slug == slug {
			return p, nil
		}
	}
	return partyDomain.Party{}, sql.ErrNoRows
}

func (m *mockPartyStore) Save(ctx context.Context, p partyDomain.Party) error {
	m.parties[p.ID] = p
	return nil
}

func (m *mockPartyStore) Delete(ctx context.Context, id string) error {
	delete(m.parties, id)
	return nil
}

func (m *mockPartyStore) List(ctx context.Context) ([]partyDomain.Party, error) {
	var list []partyDomain.Party
	for _, p := range m.parties {
		list = append(list, p)
	}
	return list, nil
}

type mockSwimmerStore struct {
	swimmers map[string]swimmerDomain.Swimmer
}

func (m *mockSwimmerStore) GetByID(ctx context.Context, id string) (swimmerDomain.Swimmer, error) {
	if s, ok := m.swimmers[id]; ok {
		return s, nil
	}
	return swimmerDomain.Swimmer{}, sql.ErrNoRows
}

func (m *mockSwimmerStore) GetByRosterMemberID(ctx context.Context, rosterMemberID string) (swimmerDomain.Swimmer, error) {
	for _, s := range m.swimmers {
		if s.RosterMemberID == rosterMemberID {
			return s, nil
		}
	}
	return swimmerDomain.Swimmer{}, sql.ErrNoRows
}

func (m *mockSwimmerStore) Save(ctx context.Context, s swimmerDomain.Swimmer) error {
	m.swimmers[s.ID] = s
	return nil
}

func (m *mockSwimmerStore) Delete(ctx context.Context, id string) error {
	delete(m.swimmers, id)
	return nil
}

func (m *mockSwimmerStore) DeleteByContacts(ctx context.Context, emails, phones []string) (int, error) {
	emailSet := make(map[string]bool)
	for _, e := range emails {
		emailSet[e] = true
	}
	phoneSet := make(map[string]bool)
	for _, p := range phones {
		phoneSet[p] = true
	}
	deleted := 0
	for id, s := range m.swimmers {
		if (s.Email != "" && emailSet[s.Email]) || (s.Phone != "" && phoneSet[s.Phone]) {
			delete(m.swimmers, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockSwimmerStore) List(ctx context.Context) ([]swimmerDomain.Swimmer, error) {
	var list []swimmerDomain.Swimmer
	for _, s := range m.swimmers {
		list = append(list, s)
	}
	return list, nil
}

func (m *mockSwimmerStore) ListByParty(ctx context.Context, partyID string) ([]swimmerDomain.Swimmer, error) {
	var list []swimmerDomain.Swimmer
	for _, s := range m.swimmers {
		if s.PartyID == partyID {
			list = append(list, s)
		}
	}
	return list, nil
}

func (m *mockSwimmerStore) CountByParty(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, s := range m.swimmers {
		counts[s.PartyID]++
	}
	return counts, nil
}

type mockWorkoutStore struct {
	sessions map[string]workoutDomain.Session
}

func (m *mockWorkoutStore) GetByID(ctx context.Context, id string) (workoutDomain.Session, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return workoutDomain.Session{}, sql.ErrNoRows
}

func (m *mockWorkoutStore) Save(ctx context.Context, s workoutDomain.Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *mockWorkoutStore) Delete(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *mockWorkoutStore) List(ctx context.Context, filter workoutStore.ListFilter) ([]workoutDomain.Session, error) {
	var list []workoutDomain.Session
	for _, s := range m.sessions {
		if filter.FocusStroke != "" && s.FocusStroke != filter.FocusStroke {
			continue
		}
		if filter.Intensity != "" && s.Intensity != filter.Intensity {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(s.Title), strings.ToLower(filter.Search)) {
			continue
		}
		list = append(list, s)
	}
	return list, nil
}

type mockPlanStore struct {
	plans    map[string]planDomain.PlannedSession
	workouts *mockWorkoutStore
}

func (m *mockPlanStore) GetByID(ctx context.Context, id string) (planDomain.PlannedSession, error) {
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return planDomain.PlannedSession{}, sql.ErrNoRows
}

func (m *mockPlanStore) Save(ctx context.Context, p planDomain.PlannedSession) error {
	m.plans[p.ID] = p
	return nil
}

func (m *mockPlanStore) Delete(ctx context.Context, id string) error {
	delete(m.plans, id)
	return nil
}

func (m *mockPlanStore) ListEntries(ctx context.Context, partyID, from, to string) ([]planStore.Entry, error) {
	var list []planStore.Entry
	for _, p := range m.plans {
		if partyID != "" && p.PartyID != partyID {
			continue
		}
		if from != "" && p.PlannedDate < from {
			continue
		}
		if to != "" && p.PlannedDate > to {
			continue
		}
		entry := planStore.Entry{Plan: p}
		if p.SessionID != "" {
			if s, ok := m.workouts.sessions[p.SessionID]; ok {
				entry.Title = s.Title
				entry.Content = s.Content
				entry.TotalMeters = s.TotalMeters
				entry.FocusStroke = s.FocusStroke
				entry.Intensity = s.Intensity
			}
		} else {
			entry.Title = p.AITitle
			entry.Content = p.AIContent
			entry.TotalMeters = p.AITotalMeters
			entry.FocusStroke = p.AIFocusStroke
			entry.Intensity = p.AIIntensity
		}
		list = append(list, entry)
	}
	return list, nil
}

func (m *mockPlanStore) CountBySession(ctx context.Context, sessionID string) (int, error) {
	count := 0
	for _, p := range m.plans {
		if p.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

type mockWageLevelStore struct {
	levels map[string]wagelevelDomain.WageLevel
}

func (m *mockWageLevelStore) GetByID(ctx context.Context, id string) (wagelevelDomain.WageLevel, error) {
	if l, ok := m.levels[id]; ok {
		return l, nil
	}
	return wagelevelDomain.WageLevel{}, sql.ErrNoRows
}

func (m *mockWageLevelStore) Save(ctx context.Context, l wagelevelDomain.WageLevel) error {
	m.levels[l.ID] = l
	return nil
}

func (m *mockWageLevelStore) Delete(ctx context.Context, id string) error {
	delete(m.levels, id)
	return nil
}

func (m *mockWageLevelStore) List(ctx context.Context) ([]wagelevelDomain.WageLevel, error) {
	var list []wagelevelDomain.WageLevel
	for _, l := range m.levels {
		list = append(list, l)
	}
	return list, nil
}

type mockTrainerLevelStore struct {
	levels map[string]trainerlevelDomain.Level
}

func (m *mockTrainerLevelStore) GetByID(ctx context.Context, id string) (trainerlevelDomain.Level, error) {
	if l, ok := m.levels[id]; ok {
		return l, nil
	}
	return trainerlevelDomain.Level{}, sql.ErrNoRows
}

func (m *mockTrainerLevelStore) Save(ctx context.Context, l trainerlevelDomain.Level) error {
	m.levels[l.ID] = l
	return nil
}

func (m *mockTrainerLevelStore) Delete(ctx context.Context, id string) error {
	delete(m.levels, id)
	return nil
}

func (m *mockTrainerLevelStore) List(ctx context.Context) ([]trainerlevelDomain.Level, error) {
	var list []trainerlevelDomain.Level
	for _, l := range m.levels {
		list = append(list, l)
	}
	return list, nil
}

type mockSettingsStore struct {
	registrationOpen bool
	aiEnabled        bool
	testMode         bool
}

func (m *mockSettingsStore) RegistrationOpen(ctx context.Context) (bool, error) {
	return m.registrationOpen, nil
}

func (m *mockSettingsStore) SetRegistrationOpen(ctx context.Context, open bool) error {
	m.registrationOpen = open
	return nil
}

func (m *mockSettingsStore) WorkoutAIEnabled(ctx context.Context) (bool, error) {
	return m.aiEnabled, nil
}

func (m *mockSettingsStore) SetWorkoutAIEnabled(ctx context.Context, enabled bool) error {
	m.aiEnabled = enabled
	return nil
}

func (m *mockSettingsStore) ContractTestMode(ctx context.Context) (bool, error) {
	return m.testMode, nil
}

func (m *mockSettingsStore) SetContractTestMode(ctx context.Context, enabled bool) error {
	m.testMode = enabled
	return nil
}

// --- Mock providers ---

type mockEsign struct {
	documentRef string
	status      string
}

func (m *mockEsign) CreatePacket(ctx context.Context, input esign.CreatePacketInput) (esign.Packet, error) {
	return esign.Packet{DocumentRef: m.documentRef, Status: "sent"}, nil
}

func (m *mockEsign) PacketStatus(ctx context.Context, documentRef string) (string, error) {
	return m.status, nil
}

type mockPayroll struct {
	nextID int64
}

func (m *mockPayroll) CreateEmployee(ctx context.Context, emp payroll.Employee) (int64, error) {
	return m.nextID, nil
}

func (m *mockPayroll) UpdateEmployee(ctx context.Context, employeeID int64, emp payroll.Employee) (int64, error) {
	return employeeID, nil
}

type mockRoster struct {
	groups []roster.Group
}

func (m *mockRoster) Groups(ctx context.Context) ([]roster.Group, error) {
	return m.groups, nil
}

type mockGenerator struct {
	workout aigen.Workout
}

func (m *mockGenerator) Generate(ctx context.Context, input aigen.GenerateInput) (aigen.Workout, error) {
	return m.workout, nil
}

func (m *mockGenerator) Adjust(ctx context.Context, input aigen.AdjustInput) (aigen.Workout, error) {
	return m.workout, nil
}

type mockSender struct {
	requests []email.SendRequest
}

func (m *mockSender) Send(ctx context.Context, req email.SendRequest) (email.SendResult, error) {
	m.requests = append(m.requests, req)
	return email.SendResult{MessageID: "msg-001", SentAt: time.Now()}, nil
}

// --- Test helpers ---

// newFullStores returns a Stores with all mock stores initialized.
func newFullStores() *Stores {
	workouts := &mockWorkoutStore{sessions: make(map[string]workoutDomain.Session)}
	return &Stores{
		AccountStore:      &mockAccountStore{accounts: make(map[string]identityDomain.Account)},
		AdminStore:        &mockAdminStore{records: make(map[string]identityDomain.AdminRecord)},
		TrainerStore:      &mockTrainerStore{trainers: make(map[string]trainerDomain.Trainer), parties: make(map[string][]string), levels: make(map[string][]string)},
		PartyStore:        &mockPartyStore{parties: make(map[string]partyDomain.Party)},
		SwimmerStore:      &mockSwimmerStore{swimmers: make(map[string]swimmerDomain.Swimmer)},
		WorkoutStore:      workouts,
		PlanStore:         &mockPlanStore{plans: make(map[string]planDomain.PlannedSession), workouts: workouts},
		WageLevelStore:    &mockWageLevelStore{levels: make(map[string]wagelevelDomain.WageLevel)},
		TrainerLevelStore: &mockTrainerLevelStore{levels: make(map[string]trainerlevelDomain.Level)},
		SettingsStore:     &mockSettingsStore{registrationOpen: true, aiEnabled: true, testMode: true},
	}
}

func newTestProviders() *Providers {
	return &Providers{
		Esign:     &mockEsign{documentRef: "packet-001", status: "sent"},
		Payroll:   &mockPayroll{nextID: 4711},
		Roster:    &mockRoster{},
		Generator: &mockGenerator{workout: aigen.Workout{Title: "Generert økt", Content: "400 innsvøm", TotalMeters: "2000"}},
		Email:     &mockSender{},
		EmailFrom: "Skien Svømmeklubb <noreply@skiensvk.no>",
	}
}

// setupTest resets the package globals the handlers read.
func setupTest() {
	stores = newFullStores()
	providers = newTestProviders()
	sessions = middleware.NewSessionStore()
	resolver = &access.Resolver{AdminStore: stores.AdminStore, TrainerStore: stores.TrainerStore}
}

// authRequest returns a request with the given session injected into context.
func authRequest(method, url string, body string, sess middleware.Session) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	ctx := middleware.ContextWithSession(req.Context(), sess)
	return req.WithContext(ctx)
}

// adminSession authenticated via the enterprise provider, which grants
// administrator rights without an admin record.
var adminSession = middleware.Session{
	IdentityID: "identity-admin",
	Email:      "admin@skiensvk.no",
	Providers:  []string{identityDomain.ProviderAzure},
	CreatedAt:  time.Now(),
}

var trainerSession = middleware.Session{
	IdentityID: "identity-trainer",
	Email:      "kari@example.com",
	Providers:  []string{identityDomain.ProviderEmail},
	CreatedAt:  time.Now(),
}

// seedTrainer stores a trainer linked to trainerSession with the given
// module access flags.
func seedTrainer(library, planner, statistics bool) trainerDomain.Trainer {
	t := trainerDomain.Trainer{
		ID:                      "trainer-001",
		IdentityID:              "identity-trainer",
		Email:                   "kari@example.com",
		Name:                    "Kari Nordmann",
		CanAccessWorkoutLibrary: library,
		CanAccessPlanner:        planner,
		CanAccessStatistics:     statistics,
	}
	stores.TrainerStore.Save(context.Background(), t)
	return t
}

// --- Tests: auth ---

func TestHandleRegister_Valid(t *testing.T) {
	setupTest()
	body := `{"Email":"ny@example.com","Password":"korrekt hest batteri stift","Name":"Ny Trener","NationalID":"01015012345","BankAccountNumber":"12345678903","Phone":"90000000","Street":"Gate 1","Zip":"3701","City":"Skien"}`
	req := httptest.NewRequest("POST", "/api/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handleRegister(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if _, err := stores.TrainerStore.GetByEmail(context.Background(), "ny@example.com"); err != nil {
		t.Errorf("trainer not stored: %v", err)
	}
}

func TestHandleRegister_Closed(t *testing.T) {
	setupTest()
	stores.SettingsStore.SetRegistrationOpen(context.Background(), false)

	body := `{"Email":"ny@example.com","Password":"korrekt hest batteri stift","Name":"Ny Trener","NationalID":"01015012345","BankAccountNumber":"12345678903","Phone":"90000000","Street":"Gate 1","Zip":"3701","City":"Skien"}`
	req := httptest.NewRequest("POST", "/api/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handleRegister(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleRegister_MethodNotAllowed(t *testing.T) {
	setupTest()
	req := httptest.NewRequest("GET", "/api/register", nil)
	rec := httptest.NewRecorder()
	handleRegister(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("got %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleLogin_Valid(t *testing.T) {
	setupTest()
	acct := identityDomain.Account{ID: "acct-001", Email: "kari@example.com"}
	if err := acct.SetPassword("korrekt hest batteri stift"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stores.AccountStore.Save(context.Background(), acct)

	body := `{"Email":"kari@example.com","Password":"korrekt hest batteri stift"}`
	req := httptest.NewRequest("POST", "/api/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handleLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].Value == "" {
		t.Error("expected a session cookie")
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	setupTest()
	acct := identityDomain.Account{ID: "acct-001", Email: "kari@example.com"}
	if err := acct.SetPassword("korrekt hest batteri stift"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stores.AccountStore.Save(context.Background(), acct)

	body := `{"Email":"kari@example.com","Password":"feil passord helt klart"}`
	req := httptest.NewRequest("POST", "/api/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handleLogin(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestHandleMe_Unauthenticated(t *testing.T) {
	setupTest()
	req := httptest.NewRequest("GET", "/api/me", nil)
	rec := httptest.NewRecorder()
	handleMe(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestHandleMe_TrainerFlags(t *testing.T) {
	setupTest()
	seedTrainer(true, false, true)

	req := authRequest("GET", "/api/me", "", trainerSession)
	rec := httptest.NewRecorder()
	handleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	var resp meResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.IsAdmin {
		t.Error("trainer should not be admin")
	}
	if !resp.IsTrainer || resp.TrainerID != "trainer-001" {
		t.Errorf("expected trainer profile, got %+v", resp)
	}
	if !resp.ModuleAccess[trainerDomain.ModuleWorkoutLibrary] {
		t.Error("expected workout library access")
	}
	if resp.ModuleAccess[trainerDomain.ModulePlanner] {
		t.Error("did not expect planner access")
	}
}

func TestHandleMe_EnterpriseAdmin(t *testing.T) {
	setupTest()

	req := authRequest("GET", "/api/me", "", adminSession)
	rec := httptest.NewRecorder()
	handleMe(rec, req)

	var resp meResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if !resp.IsAdmin {
		t.Error("enterprise identity should be admin")
	}
	if !resp.ModuleAccess[trainerDomain.ModulePlanner] {
		t.Error("admin should have access to all modules")
	}
}

// --- Tests: trainers ---

func TestHandleTrainers_NonAdmin(t *testing.T) {
	setupTest()
	seedTrainer(true, true, true)

	req := authRequest("GET", "/api/trainers", "", trainerSession)
	rec := httptest.NewRecorder()
	handleTrainers(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleTrainers_AdminList(t *testing.T) {
	setupTest()
	seedTrainer(false, false, false)

	req := authRequest("GET", "/api/trainers", "", adminSession)
	rec := httptest.NewRecorder()
	handleTrainers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	var trainers []trainerDomain.Trainer
	json.NewDecoder(rec.Body).Decode(&trainers)
	if len(trainers) != 1 {
		t.Errorf("got %d trainers, want 1", len(trainers))
	}
}

func TestHandleTrainerProfile_SelfAccess(t *testing.T) {
	setupTest()
	seedTrainer(false, false, false)

	req := authRequest("GET", "/api/trainers/profile", "", trainerSession)
	rec := httptest.NewRecorder()
	handleTrainerProfile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestHandleTrainerProfile_OtherTrainerForbidden(t *testing.T) {
	setupTest()
	seedTrainer(true, true, true)
	stores.TrainerStore.Save(context.Background(), trainerDomain.Trainer{ID: "trainer-002", Name: "Annen Trener", Email: "annen@example.com"})

	req := authRequest("GET", "/api/trainers/profile?id=trainer-002", "", trainerSession)
	rec := httptest.NewRecorder()
	handleTrainerProfile(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleTrainerProfile_AdminUpdate(t *testing.T) {
	setupTest()
	seedTrainer(false, false, false)
	stores.WageLevelStore.Save(context.Background(), wagelevelDomain.WageLevel{ID: "wage-001", Name: "Nivå 1", HourlyWage: 250})

	body := `{"TrainerID":"trainer-001","WageLevelID":"wage-001","MinimumHours":7.5,"ContractPermanent":true,"LevelIDs":[],"PartyIDs":[],"CanAccessWorkoutLibrary":true,"CanAccessPlanner":false,"CanAccessStatistics":false,"ContractFromDate":"","ContractToDate":""}`
	req := authRequest("PUT", "/api/trainers/profile", body, adminSession)
	rec := httptest.NewRecorder()
	handleTrainerProfile(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusNoContent, rec.Body.String())
	}
	updated, _ := stores.TrainerStore.GetByID(context.Background(), "trainer-001")
	if updated.WageLevelID != "wage-001" || !updated.CanAccessWorkoutLibrary {
		t.Errorf("update not applied: %+v", updated)
	}
}

func TestHandleSendContract_Valid(t *testing.T) {
	setupTest()
	tr := seedTrainer(false, false, false)
	tr.WageLevelID = "wage-001"
	stores.TrainerStore.Save(context.Background(), tr)
	stores.WageLevelStore.Save(context.Background(), wagelevelDomain.WageLevel{ID: "wage-001", Name: "Nivå 1", HourlyWage: 250, MinimumHours: 10})

	req := authRequest("POST", "/api/trainers/send-contract", `{"TrainerID":"trainer-001"}`, adminSession)
	rec := httptest.NewRecorder()
	handleSendContract(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	updated, _ := stores.TrainerStore.GetByID(context.Background(), "trainer-001")
	if updated.ContractDocumentRef != "packet-001" || updated.ContractStatus != "sent" {
		t.Errorf("contract state not persisted: %+v", updated)
	}
}

func TestHandleSendContract_MissingWageLevel(t *testing.T) {
	setupTest()
	seedTrainer(false, false, false)

	req := authRequest("POST", "/api/trainers/send-contract", `{"TrainerID":"trainer-001"}`, adminSession)
	rec := httptest.NewRecorder()
	handleSendContract(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleSyncContractStatus_Valid(t *testing.T) {
	setupTest()
	tr := seedTrainer(false, false, false)
	tr.ContractDocumentRef = "packet-001"
	tr.ContractStatus = "sent"
	stores.TrainerStore.Save(context.Background(), tr)
	providers.Esign.(*mockEsign).status = "partial"

	req := authRequest("POST", "/api/trainers/sync-contract-status", `{"TrainerID":"trainer-001"}`, adminSession)
	rec := httptest.NewRecorder()
	handleSyncContractStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["ContractStatus"] != "club_signed" {
		t.Errorf("got status %q, want club_signed", resp["ContractStatus"])
	}
}

func TestHandleSyncPayroll_Valid(t *testing.T) {
	setupTest()
	seedTrainer(false, false, false)

	req := authRequest("POST", "/api/trainers/sync-payroll", `{"TrainerID":"trainer-001","UserType":"STANDARD"}`, adminSession)
	rec := httptest.NewRecorder()
	handleSyncPayroll(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp map[string]int64
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["PayrollEmployeeID"] != 4711 {
		t.Errorf("got employee id %d, want 4711", resp["PayrollEmployeeID"])
	}
}

// --- Tests: webhook ---

func TestHandleEsignWebhook_SignerComplete(t *testing.T) {
	setupTest()
	tr := seedTrainer(false, false, false)
	tr.ContractDocumentRef = "packet-001"
	tr.ContractStatus = "sent"
	stores.TrainerStore.Save(context.Background(), tr)

	body := `{"action":"signerComplete","data":{"routingOrder":1,"etchPacket":{"eid":"packet-001"}}}`
	req := httptest.NewRequest("POST", "/api/webhooks/esign", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handleEsignWebhook(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusNoContent)
	}
	updated, _ := stores.TrainerStore.GetByID(context.Background(), "trainer-001")
	if updated.ContractStatus != "club_signed" {
		t.Errorf("got status %q, want club_signed", updated.ContractStatus)
	}
}

func TestHandleEsignWebhook_MalformedBodyStillOK(t *testing.T) {
	setupTest()
	req := httptest.NewRequest("POST", "/api/webhooks/esign", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	handleEsignWebhook(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("got %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestHandleEsignWebhook_MethodNotAllowed(t *testing.T) {
	setupTest()
	req := httptest.NewRequest("GET", "/api/webhooks/esign", nil)
	rec := httptest.NewRecorder()
	handleEsignWebhook(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("got %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

// --- Tests: workouts ---

func TestHandleWorkouts_GET_NoModuleAccess(t *testing.T) {
	setupTest()
	seedTrainer(false, true, true)

	req := authRequest("GET", "/api/workouts", "", trainerSession)
	rec := httptest.NewRecorder()
	handleWorkouts(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleWorkouts_GET_RendersMarkdown(t *testing.T) {
	setupTest()
	seedTrainer(true, false, false)
	stores.WorkoutStore.Save(context.Background(), workoutDomain.Session{
		ID: "session-001", Title: "Terskel", Content: "# Hoveddel\n8x400 crawl",
		TotalMeters: "3200", FocusStroke: "crawl", Intensity: "moderat",
	})

	req := authRequest("GET", "/api/workouts?id=session-001", "", trainerSession)
	rec := httptest.NewRecorder()
	handleWorkouts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	var resp workoutResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if !strings.Contains(resp.ContentHTML, "<h1") {
		t.Errorf("expected rendered markdown, got %q", resp.ContentHTML)
	}
}

func TestHandleWorkouts_POST_CreatesWithTrainerAttribution(t *testing.T) {
	setupTest()
	seedTrainer(true, false, false)

	body := `{"Title":"Sprint","Content":"8x50 maks","TotalMeters":"2000","FocusStroke":"crawl","Intensity":"topp"}`
	req := authRequest("POST", "/api/workouts", body, trainerSession)
	rec := httptest.NewRecorder()
	handleWorkouts(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	saved, err := stores.WorkoutStore.GetByID(context.Background(), resp["SessionID"])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.CreatedBy != "trainer-001" {
		t.Errorf("got CreatedBy %q, want trainer-001", saved.CreatedBy)
	}
}

func TestHandleWorkouts_POST_InvalidStroke(t *testing.T) {
	setupTest()
	seedTrainer(true, false, false)

	body := `{"Title":"Sprint","Content":"8x50","TotalMeters":"2000","FocusStroke":"sommerfugl","Intensity":"topp"}`
	req := authRequest("POST", "/api/workouts", body, trainerSession)
	rec := httptest.NewRecorder()
	handleWorkouts(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleWorkouts_DELETE_InUse(t *testing.T) {
	setupTest()
	seedTrainer(true, false, false)
	stores.WorkoutStore.Save(context.Background(), workoutDomain.Session{ID: "session-001", Title: "Terskel", Content: "x", FocusStroke: "crawl", Intensity: "moderat"})
	stores.PlanStore.Save(context.Background(), planDomain.PlannedSession{ID: "plan-001", SessionID: "session-001", PartyID: "party-a", PlannedDate: "2026-03-02"})

	req := authRequest("DELETE", "/api/workouts?id=session-001", "", trainerSession)
	rec := httptest.NewRecorder()
	handleWorkouts(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("got %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestHandleGenerateWorkout_Valid(t *testing.T) {
	setupTest()
	seedTrainer(true, false, false)

	body := `{"Stroke":"crawl","TotalMeters":2000,"Intensity":"moderat"}`
	req := authRequest("POST", "/api/workouts/generate", body, trainerSession)
	rec := httptest.NewRecorder()
	handleGenerateWorkout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var workout aigen.Workout
	json.NewDecoder(rec.Body).Decode(&workout)
	if workout.Title != "Generert økt" {
		t.Errorf("got title %q", workout.Title)
	}
}

func TestHandleGenerateWorkout_Disabled(t *testing.T) {
	setupTest()
	seedTrainer(true, false, false)
	stores.SettingsStore.SetWorkoutAIEnabled(context.Background(), false)

	body := `{"Stroke":"crawl","TotalMeters":2000,"Intensity":"moderat"}`
	req := authRequest("POST", "/api/workouts/generate", body, trainerSession)
	rec := httptest.NewRecorder()
	handleGenerateWorkout(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

// --- Tests: planner and statistics ---

func TestHandlePlanner_POST_Valid(t *testing.T) {
	setupTest()
	seedTrainer(false, true, false)
	stores.WorkoutStore.Save(context.Background(), workoutDomain.Session{ID: "session-001", Title: "Terskel", Content: "x", FocusStroke: "crawl", Intensity: "moderat"})

	body := `{"SessionID":"session-001","PartyID":"party-a","PlannedDate":"2026-03-02"}`
	req := authRequest("POST", "/api/planner", body, trainerSession)
	rec := httptest.NewRecorder()
	handlePlanner(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	saved, err := stores.PlanStore.GetByID(context.Background(), resp["PlanID"])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.PlannedBy != "trainer-001" {
		t.Errorf("got PlannedBy %q, want trainer-001", saved.PlannedBy)
	}
}

func TestHandlePlanner_POST_InvalidDate(t *testing.T) {
	setupTest()
	seedTrainer(false, true, false)

	body := `{"SessionID":"session-001","PartyID":"party-a","PlannedDate":"02.03.2026"}`
	req := authRequest("POST", "/api/planner", body, trainerSession)
	rec := httptest.NewRecorder()
	handlePlanner(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandlePlanner_GET_Entries(t *testing.T) {
	setupTest()
	seedTrainer(false, true, false)
	stores.WorkoutStore.Save(context.Background(), workoutDomain.Session{ID: "session-001", Title: "Terskel", Content: "x", TotalMeters: "3000", FocusStroke: "crawl", Intensity: "moderat"})
	stores.PlanStore.Save(context.Background(), planDomain.PlannedSession{ID: "plan-001", SessionID: "session-001", PartyID: "party-a", PlannedDate: "2026-03-02"})

	req := authRequest("GET", "/api/planner?party=party-a&from=2026-03-01&to=2026-03-08", "", trainerSession)
	rec := httptest.NewRecorder()
	handlePlanner(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	var entries []planStore.Entry
	json.NewDecoder(rec.Body).Decode(&entries)
	if len(entries) != 1 || entries[0].Title != "Terskel" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestHandleSendPlanEmail_Valid(t *testing.T) {
	setupTest()
	tr := seedTrainer(false, true, false)
	stores.TrainerStore.SetPartyIDs(context.Background(), tr.ID, []string{"party-a"})
	stores.WorkoutStore.Save(context.Background(), workoutDomain.Session{ID: "session-001", Title: "Terskel", Content: "8x400", TotalMeters: "3200", FocusStroke: "crawl", Intensity: "moderat"})
	stores.PlanStore.Save(context.Background(), planDomain.PlannedSession{ID: "plan-001", SessionID: "session-001", PartyID: "party-a", PlannedDate: "2026-03-02"})

	req := authRequest("POST", "/api/planner/send-email", `{"PlanID":"plan-001"}`, trainerSession)
	rec := httptest.NewRecorder()
	handleSendPlanEmail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	sender := providers.Email.(*mockSender)
	if len(sender.requests) != 1 {
		t.Fatalf("got %d sends, want 1", len(sender.requests))
	}
	if !strings.Contains(sender.requests[0].Subject, "Terskel") {
		t.Errorf("unexpected subject %q", sender.requests[0].Subject)
	}
}

func TestHandleSendPlanEmail_NoRecipients(t *testing.T) {
	setupTest()
	seedTrainer(false, true, false)
	stores.PlanStore.Save(context.Background(), planDomain.PlannedSession{ID: "plan-001", PartyID: "party-b", PlannedDate: "2026-03-02", AITitle: "Generert"})

	req := authRequest("POST", "/api/planner/send-email", `{"PlanID":"plan-001"}`, trainerSession)
	rec := httptest.NewRecorder()
	handleSendPlanEmail(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleStatistics_Valid(t *testing.T) {
	setupTest()
	seedTrainer(false, false, true)
	stores.PartyStore.Save(context.Background(), partyDomain.Party{ID: "party-a", Name: "A-partiet", Slug: "a", Competitive: true})
	stores.PlanStore.Save(context.Background(), planDomain.PlannedSession{
		ID: "plan-001", PartyID: "party-a", PlannedDate: "2026-03-02",
		AITitle: "Generert", AITotalMeters: "3000", AIFocusStroke: "crawl", AIIntensity: "moderat",
	})

	req := authRequest("GET", "/api/statistics?from=2026-03-01&to=2026-03-31", "", trainerSession)
	rec := httptest.NewRecorder()
	handleStatistics(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp struct {
		TotalMeters  int
		SessionCount int
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.TotalMeters != 3000 || resp.SessionCount != 1 {
		t.Errorf("got %+v, want 3000 meters over 1 session", resp)
	}
}

// --- Tests: admin catalog ---

func TestHandleParties_GET_RequiresAuth(t *testing.T) {
	setupTest()
	req := httptest.NewRequest("GET", "/api/parties", nil)
	rec := httptest.NewRecorder()
	handleParties(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestHandleParties_POST_NonAdmin(t *testing.T) {
	setupTest()
	seedTrainer(true, true, true)

	body := `{"Name":"Nytt parti","Slug":"nytt-parti","Competitive":false,"RosterSubgroupID":"","Sequence":1}`
	req := authRequest("POST", "/api/parties", body, trainerSession)
	rec := httptest.NewRecorder()
	handleParties(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleParties_POST_Valid(t *testing.T) {
	setupTest()

	body := `{"Name":"Elite","Slug":"elite","Competitive":true,"RosterSubgroupID":"sub-1","Sequence":1}`
	req := authRequest("POST", "/api/parties", body, adminSession)
	rec := httptest.NewRecorder()
	handleParties(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if _, err := stores.PartyStore.GetBySlug(context.Background(), "elite"); err != nil {
		t.Errorf("party not stored: %v", err)
	}
}

func TestHandleWageLevels_POST_Valid(t *testing.T) {
	setupTest()

	body := `{"Name":"Nivå 2","HourlyWage":300,"MinimumHours":5,"Sequence":2}`
	req := authRequest("POST", "/api/wage-levels", body, adminSession)
	rec := httptest.NewRecorder()
	handleWageLevels(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
}

func TestHandleWageLevels_POST_NegativeWage(t *testing.T) {
	setupTest()

	body := `{"Name":"Nivå 2","HourlyWage":-1,"MinimumHours":0,"Sequence":2}`
	req := authRequest("POST", "/api/wage-levels", body, adminSession)
	rec := httptest.NewRecorder()
	handleWageLevels(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleSettings_Roundtrip(t *testing.T) {
	setupTest()

	body := `{"RegistrationOpen":false}`
	req := authRequest("POST", "/api/settings", body, adminSession)
	rec := httptest.NewRecorder()
	handleSettings(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusNoContent)
	}

	req = authRequest("GET", "/api/settings", "", adminSession)
	rec = httptest.NewRecorder()
	handleSettings(rec, req)
	var resp settingsResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.RegistrationOpen {
		t.Error("expected registration to be closed")
	}
	if !resp.WorkoutAIEnabled {
		t.Error("AI toggle should be untouched")
	}
}

func TestHandleRosterSync_Valid(t *testing.T) {
	setupTest()
	stores.PartyStore.Save(context.Background(), partyDomain.Party{ID: "party-a", Name: "A-partiet", Slug: "a", Competitive: true, RosterSubgroupID: "sub-a"})
	providers.Roster.(*mockRoster).groups = []roster.Group{
		{
			ID:   "group-main",
			Name: "Skien Svømmeklubb",
			Members: []roster.Member{
				{ID: "m1", FirstName: "Ola", LastName: "Nordmann", Email: "ola@example.com", SubgroupIDs: []string{"sub-a"}},
				{ID: "m2", FirstName: "Per", LastName: "Hansen", SubgroupIDs: []string{"sub-x"}},
			},
			Subgroups: []roster.Subgroup{{ID: "sub-a", Name: "A"}},
		},
	}

	req := authRequest("POST", "/api/roster/sync", `{"GroupID":"group-main"}`, adminSession)
	rec := httptest.NewRecorder()
	handleRosterSync(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var result struct {
		Created int
		Skipped int
	}
	json.NewDecoder(rec.Body).Decode(&result)
	if result.Created != 1 {
		t.Errorf("got %d created, want 1", result.Created)
	}
}
