package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"swimclub/internal/adapters/aigen"
	"swimclub/internal/adapters/email"
	"swimclub/internal/adapters/esign"
	"swimclub/internal/adapters/payroll"
	"swimclub/internal/adapters/roster"
	planStoreIface "swimclub/internal/adapters/storage/plan"
	trainerStoreIface "swimclub/internal/adapters/storage/trainer"
	workoutStoreIface "swimclub/internal/adapters/storage/workout"
	identityDomainT "swimclub/internal/domain/identity"
	partyDomainT "swimclub/internal/domain/party"
	planDomainT "swimclub/internal/domain/plan"
	swimmerDomainT "swimclub/internal/domain/swimmer"
	trainerDomainT "swimclub/internal/domain/trainer"
	trainerlevelDomainT "swimclub/internal/domain/trainerlevel"
	wagelevelDomainT "swimclub/internal/domain/wagelevel"
	workoutDomainT "swimclub/internal/domain/workout"
)

var errMockNotFound = errors.New("not found")

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

// seqID returns a generator producing id-001, id-002, ...
func seqID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

// --- trainer store ---

// mockTrainerStore implements the trainer Store over maps.
type mockTrainerStore struct {
	trainers map[string]trainerDomainT.Trainer
	parties  map[string][]string // trainer id -> party ids
	levels   map[string][]string // trainer id -> level ids
	saveErr  error
}

func newMockTrainerStore() *mockTrainerStore {
	return &mockTrainerStore{
		trainers: make(map[string]trainerDomainT.Trainer),
		parties:  make(map[string][]string),
		levels:   make(map[string][]string),
	}
}

func (m *mockTrainerStore) GetByID(_ context.Context, id string) (trainerDomainT.Trainer, error) {
	t, ok := m.trainers[id]
	if !ok {
		return trainerDomainT.Trainer{}, errMockNotFound
	}
	return t, nil
}

func (m *mockTrainerStore) GetByIdentityID(_ context.Context, identityID string) (trainerDomainT.Trainer, error) {
	for _, t := range m.trainers {
		if t.IdentityID == identityID {
			return t, nil
		}
	}
	return trainerDomainT.Trainer{}, errMockNotFound
}

func (m *mockTrainerStore) GetByEmail(_ context.Context, email string) (trainerDomainT.Trainer, error) {
	for _, t := range m.trainers {
		if t.Email == email {
			return t, nil
		}
	}
	return trainerDomainT.Trainer{}, errMockNotFound
}

func (m *mockTrainerStore) GetByDocumentRef(_ context.Context, documentRef string) (trainerDomainT.Trainer, error) {
	for _, t := range m.trainers {
		if t.ContractDocumentRef == documentRef && documentRef != "" {
			return t, nil
		}
	}
	return trainerDomainT.Trainer{}, errMockNotFound
}

func (m *mockTrainerStore) Save(_ context.Context, t trainerDomainT.Trainer) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.trainers[t.ID] = t
	return nil
}

func (m *mockTrainerStore) Delete(_ context.Context, id string) error {
	delete(m.trainers, id)
	delete(m.parties, id)
	delete(m.levels, id)
	return nil
}

func (m *mockTrainerStore) List(_ context.Context, filter trainerStoreIface.ListFilter) ([]trainerDomainT.Trainer, error) {
	var out []trainerDomainT.Trainer
	for _, t := range m.trainers {
		if filter.ContractStatus != "" && t.ContractStatus != filter.ContractStatus {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockTrainerStore) ListByParty(_ context.Context, partyID string) ([]trainerDomainT.Trainer, error) {
	var out []trainerDomainT.Trainer
	for trainerID, partyIDs := range m.parties {
		for _, pid := range partyIDs {
			if pid == partyID {
				out = append(out, m.trainers[trainerID])
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockTrainerStore) Count(_ context.Context) (int, error) {
	return len(m.trainers), nil
}

func (m *mockTrainerStore) SetContractStatus(_ context.Context, id, status string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	t, ok := m.trainers[id]
	if !ok {
		return errMockNotFound
	}
	t.ContractStatus = status
	m.trainers[id] = t
	return nil
}

func (m *mockTrainerStore) PartyIDs(_ context.Context, trainerID string) ([]string, error) {
	return m.parties[trainerID], nil
}

func (m *mockTrainerStore) SetPartyIDs(_ context.Context, trainerID string, partyIDs []string) error {
	m.parties[trainerID] = partyIDs
	return nil
}

func (m *mockTrainerStore) LevelIDs(_ context.Context, trainerID string) ([]string, error) {
	return m.levels[trainerID], nil
}

func (m *mockTrainerStore) SetLevelIDs(_ context.Context, trainerID string, levelIDs []string) error {
	m.levels[trainerID] = levelIDs
	return nil
}

// --- party store ---

type mockPartyStore struct {
	parties map[string]partyDomainT.Party
}

func newMockPartyStore() *mockPartyStore {
	return &mockPartyStore{parties: make(map[string]partyDomainT.Party)}
}

func (m *mockPartyStore) GetByID(_ context.Context, id string) (partyDomainT.Party, error) {
	p, ok := m.parties[id]
	if !ok {
		return partyDomainT.Party{}, errMockNotFound
	}
	return p, nil
}

func (m *mockPartyStore) GetBySlug(_ context.Context, slug string) (partyDomainT.Party, error) {
	for _, p := range m.parties {
		if p.Slug == slug {
			return p, nil
		}
	}
	return partyDomainT.Party{}, errMockNotFound
}

func (m *mockPartyStore) Save(_ context.Context, p partyDomainT.Party) error {
	m.parties[p.ID] = p
	return nil
}

func (m *mockPartyStore) Delete(_ context.Context, id string) error {
	delete(m.parties, id)
	return nil
}

func (m *mockPartyStore) List(_ context.Context) ([]partyDomainT.Party, error) {
	var out []partyDomainT.Party
	for _, p := range m.parties {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

// --- swimmer store ---

type mockSwimmerStore struct {
	swimmers map[string]swimmerDomainT.Swimmer
}

func newMockSwimmerStore() *mockSwimmerStore {
	return &mockSwimmerStore{swimmers: make(map[string]swimmerDomainT.Swimmer)}
}

func (m *mockSwimmerStore) GetByID(_ context.Context, id string) (swimmerDomainT.Swimmer, error) {
	s, ok := m.swimmers[id]
	if !ok {
		return swimmerDomainT.Swimmer{}, errMockNotFound
	}
	return s, nil
}

func (m *mockSwimmerStore) GetByRosterMemberID(_ context.Context, rosterMemberID string) (swimmerDomainT.Swimmer, error) {
	for _, s := range m.swimmers {
		if s.RosterMemberID == rosterMemberID {
			return s, nil
		}
	}
	return swimmerDomainT.Swimmer{}, errMockNotFound
}

func (m *mockSwimmerStore) Save(_ context.Context, s swimmerDomainT.Swimmer) error {
	m.swimmers[s.ID] = s
	return nil
}

func (m *mockSwimmerStore) Delete(_ context.Context, id string) error {
	delete(m.swimmers, id)
	return nil
}

func (m *mockSwimmerStore) DeleteByContacts(_ context.Context, emails, phones []string) (int, error) {
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

func (m *mockSwimmerStore) List(_ context.Context) ([]swimmerDomainT.Swimmer, error) {
	var out []swimmerDomainT.Swimmer
	for _, s := range m.swimmers {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockSwimmerStore) ListByParty(_ context.Context, partyID string) ([]swimmerDomainT.Swimmer, error) {
	var out []swimmerDomainT.Swimmer
	for _, s := range m.swimmers {
		if s.PartyID == partyID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSwimmerStore) CountByParty(_ context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, s := range m.swimmers {
		counts[s.PartyID]++
	}
	return counts, nil
}

// --- workout store ---

type mockWorkoutStore struct {
	sessions map[string]workoutDomainT.Session
}

func newMockWorkoutStore() *mockWorkoutStore {
	return &mockWorkoutStore{sessions: make(map[string]workoutDomainT.Session)}
}

func (m *mockWorkoutStore) GetByID(_ context.Context, id string) (workoutDomainT.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return workoutDomainT.Session{}, errMockNotFound
	}
	return s, nil
}

func (m *mockWorkoutStore) Save(_ context.Context, s workoutDomainT.Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *mockWorkoutStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *mockWorkoutStore) List(_ context.Context, _ workoutStoreIface.ListFilter) ([]workoutDomainT.Session, error) {
	var out []workoutDomainT.Session
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out, nil
}

// --- plan store ---

type mockPlanStore struct {
	plans    map[string]planDomainT.PlannedSession
	sessions *mockWorkoutStore // resolves bank session fields for ListEntries
}

func newMockPlanStore() *mockPlanStore {
	return &mockPlanStore{plans: make(map[string]planDomainT.PlannedSession)}
}

func (m *mockPlanStore) GetByID(_ context.Context, id string) (planDomainT.PlannedSession, error) {
	p, ok := m.plans[id]
	if !ok {
		return planDomainT.PlannedSession{}, errMockNotFound
	}
	return p, nil
}

func (m *mockPlanStore) Save(_ context.Context, p planDomainT.PlannedSession) error {
	m.plans[p.ID] = p
	return nil
}

func (m *mockPlanStore) Delete(_ context.Context, id string) error {
	delete(m.plans, id)
	return nil
}

func (m *mockPlanStore) ListEntries(_ context.Context, partyID, from, to string) ([]planStoreIface.Entry, error) {
	var out []planStoreIface.Entry
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
		e := planStoreIface.Entry{Plan: p}
		if p.IsGenerated() {
			e.Title = p.AITitle
			e.Content = p.AIContent
			e.TotalMeters = p.AITotalMeters
			e.FocusStroke = p.AIFocusStroke
			e.Intensity = p.AIIntensity
		} else if m.sessions != nil {
			if s, ok := m.sessions.sessions[p.SessionID]; ok {
				e.Title = s.Title
				e.Content = s.Content
				e.TotalMeters = s.TotalMeters
				e.FocusStroke = s.FocusStroke
				e.Intensity = s.Intensity
			}
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plan.PlannedDate < out[j].Plan.PlannedDate })
	return out, nil
}

func (m *mockPlanStore) CountBySession(_ context.Context, sessionID string) (int, error) {
	count := 0
	for _, p := range m.plans {
		if p.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

// --- wage level store ---

type mockWageLevelStore struct {
	levels map[string]wagelevelDomainT.WageLevel
}

func newMockWageLevelStore() *mockWageLevelStore {
	return &mockWageLevelStore{levels: make(map[string]wagelevelDomainT.WageLevel)}
}

func (m *mockWageLevelStore) GetByID(_ context.Context, id string) (wagelevelDomainT.WageLevel, error) {
	l, ok := m.levels[id]
	if !ok {
		return wagelevelDomainT.WageLevel{}, errMockNotFound
	}
	return l, nil
}

func (m *mockWageLevelStore) Save(_ context.Context, l wagelevelDomainT.WageLevel) error {
	m.levels[l.ID] = l
	return nil
}

func (m *mockWageLevelStore) Delete(_ context.Context, id string) error {
	delete(m.levels, id)
	return nil
}

func (m *mockWageLevelStore) List(_ context.Context) ([]wagelevelDomainT.WageLevel, error) {
	var out []wagelevelDomainT.WageLevel
	for _, l := range m.levels {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

// --- trainer level store ---

type mockTrainerLevelStore struct {
	levels map[string]trainerlevelDomainT.Level
}

func newMockTrainerLevelStore() *mockTrainerLevelStore {
	return &mockTrainerLevelStore{levels: make(map[string]trainerlevelDomainT.Level)}
}

func (m *mockTrainerLevelStore) GetByID(_ context.Context, id string) (trainerlevelDomainT.Level, error) {
	l, ok := m.levels[id]
	if !ok {
		return trainerlevelDomainT.Level{}, errMockNotFound
	}
	return l, nil
}

func (m *mockTrainerLevelStore) Save(_ context.Context, l trainerlevelDomainT.Level) error {
	m.levels[l.ID] = l
	return nil
}

func (m *mockTrainerLevelStore) Delete(_ context.Context, id string) error {
	delete(m.levels, id)
	return nil
}

func (m *mockTrainerLevelStore) List(_ context.Context) ([]trainerlevelDomainT.Level, error) {
	var out []trainerlevelDomainT.Level
	for _, l := range m.levels {
		out = append(out, l)
	}
	return out, nil
}

// --- settings store ---

type mockSettingsStore struct {
	registrationOpen bool
	workoutAIEnabled bool
	contractTestMode bool
}

func newMockSettingsStore() *mockSettingsStore {
	return &mockSettingsStore{registrationOpen: true, workoutAIEnabled: true, contractTestMode: true}
}

func (m *mockSettingsStore) RegistrationOpen(_ context.Context) (bool, error) {
	return m.registrationOpen, nil
}

func (m *mockSettingsStore) SetRegistrationOpen(_ context.Context, open bool) error {
	m.registrationOpen = open
	return nil
}

func (m *mockSettingsStore) WorkoutAIEnabled(_ context.Context) (bool, error) {
	return m.workoutAIEnabled, nil
}

func (m *mockSettingsStore) SetWorkoutAIEnabled(_ context.Context, enabled bool) error {
	m.workoutAIEnabled = enabled
	return nil
}

func (m *mockSettingsStore) ContractTestMode(_ context.Context) (bool, error) {
	return m.contractTestMode, nil
}

func (m *mockSettingsStore) SetContractTestMode(_ context.Context, enabled bool) error {
	m.contractTestMode = enabled
	return nil
}

// --- account store ---

type mockAccountStore struct {
	accounts map[string]identityDomainT.Account // keyed by email
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]identityDomainT.Account)}
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (identityDomainT.Account, error) {
	a, ok := m.accounts[email]
	if !ok {
		return identityDomainT.Account{}, errMockNotFound
	}
	return a, nil
}

func (m *mockAccountStore) Save(_ context.Context, a identityDomainT.Account) error {
	m.accounts[a.Email] = a
	return nil
}

// --- external providers ---

// mockEsign records created packets and serves canned statuses.
type mockEsign struct {
	createdInputs []esign.CreatePacketInput
	documentRef   string
	status        string
	createErr     error
	statusErr     error
}

func (m *mockEsign) CreatePacket(_ context.Context, input esign.CreatePacketInput) (esign.Packet, error) {
	if m.createErr != nil {
		return esign.Packet{}, m.createErr
	}
	m.createdInputs = append(m.createdInputs, input)
	return esign.Packet{DocumentRef: m.documentRef, Status: "sent"}, nil
}

func (m *mockEsign) PacketStatus(_ context.Context, _ string) (string, error) {
	if m.statusErr != nil {
		return "", m.statusErr
	}
	return m.status, nil
}

// mockPayroll records employee writes. updateErr applies to UpdateEmployee
// only, so stale-id recovery can be exercised.
type mockPayroll struct {
	nextID    int64
	created   []payroll.Employee
	updated   []payroll.Employee
	updateErr error
	createErr error
}

func (m *mockPayroll) CreateEmployee(_ context.Context, emp payroll.Employee) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.created = append(m.created, emp)
	return m.nextID, nil
}

func (m *mockPayroll) UpdateEmployee(_ context.Context, employeeID int64, emp payroll.Employee) (int64, error) {
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	m.updated = append(m.updated, emp)
	return employeeID, nil
}

type mockRoster struct {
	groups []roster.Group
	err    error
}

func (m *mockRoster) Groups(_ context.Context) ([]roster.Group, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.groups, nil
}

type mockSender struct {
	sent []email.SendRequest
	err  error
}

func (m *mockSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	if m.err != nil {
		return email.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "msg-001", SentAt: fixedTime}, nil
}

type mockGenerator struct {
	workout aigen.Workout
	err     error

	generateInputs []aigen.GenerateInput
	adjustInputs   []aigen.AdjustInput
}

func (m *mockGenerator) Generate(_ context.Context, input aigen.GenerateInput) (aigen.Workout, error) {
	if m.err != nil {
		return aigen.Workout{}, m.err
	}
	m.generateInputs = append(m.generateInputs, input)
	return m.workout, nil
}

func (m *mockGenerator) Adjust(_ context.Context, input aigen.AdjustInput) (aigen.Workout, error) {
	if m.err != nil {
		return aigen.Workout{}, m.err
	}
	m.adjustInputs = append(m.adjustInputs, input)
	return m.workout, nil
}
