package orchestrators

import (
	"context"
	"errors"
	"testing"

	"swimclub/internal/adapters/roster"
	partyDomain "swimclub/internal/domain/party"
	swimmerDomain "swimclub/internal/domain/swimmer"
)

func rosterParties() *mockPartyStore {
	store := newMockPartyStore()
	store.parties["party-a"] = partyDomain.Party{
		ID: "party-a", Name: "Elite", Slug: "elite", Competitive: true,
		RosterSubgroupID: "sub-a", Sequence: 1, CreatedAt: fixedTime,
	}
	store.parties["party-b"] = partyDomain.Party{
		ID: "party-b", Name: "Rekrutt", Slug: "rekrutt",
		RosterSubgroupID: "sub-b", Sequence: 2, CreatedAt: fixedTime,
	}
	store.parties["party-ss"] = partyDomain.Party{
		ID: "party-ss", Name: "Svømmeskolen", Slug: partyDomain.SwimSchoolSlug,
		RosterSubgroupID: "sub-ss", Sequence: 3, CreatedAt: fixedTime,
	}
	return store
}

func rosterGroups() []roster.Group {
	return []roster.Group{
		{
			ID:   "group-main",
			Name: "Skien Svømmeklubb",
			Members: []roster.Member{
				{ID: "m1", FirstName: "Ola", LastName: "Hansen", Email: "Ola@Example.com", SubgroupIDs: []string{"sub-a"}},
				{ID: "m2", FirstName: "Ida", LastName: "Berg", Phone: "+47 900 00 001", SubgroupIDs: []string{"sub-b"}},
				{ID: "m3", FirstName: "Per", LastName: "Vik", SubgroupIDs: []string{"sub-unmapped"}},
				{ID: "m4", FirstName: "Eva", LastName: "Lund", SubgroupIDs: []string{"sub-ss"}},
				{ID: "m5", FirstName: "Siri", LastName: "Dahl", Email: "styret@example.com", SubgroupIDs: []string{"sub-a"}},
			},
		},
		{
			ID:   "group-board",
			Name: "Styret",
			Members: []roster.Member{
				{ID: "b1", FirstName: "Siri", LastName: "Dahl", Email: "Styret@example.com "},
			},
		},
	}
}

func syncRosterDeps(swimmers *mockSwimmerStore) SyncRosterDeps {
	return SyncRosterDeps{
		Roster:       &mockRoster{groups: rosterGroups()},
		PartyStore:   rosterParties(),
		SwimmerStore: swimmers,
		GenerateID:   seqID(),
		Now:          fixedNow,
	}
}

// TestExecuteSyncRoster_ImportsMappedMembers tests the full import run:
// mapped members imported, unmapped and swim-school members skipped, board
// members excluded by normalized email.
func TestExecuteSyncRoster_ImportsMappedMembers(t *testing.T) {
	swimmers := newMockSwimmerStore()
	result, err := ExecuteSyncRoster(context.Background(), SyncRosterInput{
		GroupID:        "group-main",
		ExcludeGroupID: "group-board",
	}, syncRosterDeps(swimmers))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 2 {
		t.Errorf("expected 2 created, got %d", result.Created)
	}
	// m3 (unmapped subgroup), m4 (swim school) and m5 (board email).
	if result.Skipped != 3 {
		t.Errorf("expected 3 skipped, got %d", result.Skipped)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}

	s, err := swimmers.GetByRosterMemberID(context.Background(), "m1")
	if err != nil {
		t.Fatalf("expected m1 imported: %v", err)
	}
	if s.PartyID != "party-a" {
		t.Errorf("expected m1 in party-a, got %s", s.PartyID)
	}
	if s.Email != "ola@example.com" {
		t.Errorf("expected normalized email, got %s", s.Email)
	}

	s, err = swimmers.GetByRosterMemberID(context.Background(), "m2")
	if err != nil {
		t.Fatalf("expected m2 imported: %v", err)
	}
	if s.Phone != "+4790000001" {
		t.Errorf("expected normalized phone, got %s", s.Phone)
	}
}

// TestExecuteSyncRoster_UpdatesKeepIdentity tests that a re-run updates in
// place without changing the swimmer's row id or created time.
func TestExecuteSyncRoster_UpdatesKeepIdentity(t *testing.T) {
	swimmers := newMockSwimmerStore()
	earlier := fixedTime.AddDate(0, -1, 0)
	swimmers.swimmers["existing-001"] = swimmerDomain.Swimmer{
		ID: "existing-001", RosterMemberID: "m1",
		FirstName: "Ola", LastName: "Hansen",
		PartyID: "party-b", CreatedAt: earlier,
	}

	result, err := ExecuteSyncRoster(context.Background(), SyncRosterInput{GroupID: "group-main"}, syncRosterDeps(swimmers))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Updated != 1 {
		t.Errorf("expected 1 updated, got %d", result.Updated)
	}
	if result.Created != 2 {
		t.Errorf("expected 2 created, got %d", result.Created)
	}

	s := swimmers.swimmers["existing-001"]
	if s.PartyID != "party-a" {
		t.Errorf("expected party moved to party-a, got %s", s.PartyID)
	}
	if !s.CreatedAt.Equal(earlier) {
		t.Errorf("expected CreatedAt preserved, got %v", s.CreatedAt)
	}
	if !s.UpdatedAt.Equal(fixedTime) {
		t.Errorf("expected UpdatedAt=%v, got %v", fixedTime, s.UpdatedAt)
	}
}

// TestExecuteSyncRoster_DeletesExcludedImports tests that previously
// imported members of the exclusion group are purged by contact match.
func TestExecuteSyncRoster_DeletesExcludedImports(t *testing.T) {
	swimmers := newMockSwimmerStore()
	swimmers.swimmers["old-board"] = swimmerDomain.Swimmer{
		ID: "old-board", RosterMemberID: "stale-99",
		FirstName: "Siri", LastName: "Dahl",
		Email: "styret@example.com", PartyID: "party-a", CreatedAt: fixedTime,
	}

	result, err := ExecuteSyncRoster(context.Background(), SyncRosterInput{
		GroupID:        "group-main",
		ExcludeGroupID: "group-board",
	}, syncRosterDeps(swimmers))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", result.Deleted)
	}
	if _, ok := swimmers.swimmers["old-board"]; ok {
		t.Error("expected board member purged")
	}
}

// TestExecuteSyncRoster_DepartedMembersKept tests that members who left the
// roster are never pruned by a sync run.
func TestExecuteSyncRoster_DepartedMembersKept(t *testing.T) {
	swimmers := newMockSwimmerStore()
	swimmers.swimmers["departed"] = swimmerDomain.Swimmer{
		ID: "departed", RosterMemberID: "gone-1",
		FirstName: "Nils", LastName: "Moen",
		PartyID: "party-a", CreatedAt: fixedTime,
	}

	if _, err := ExecuteSyncRoster(context.Background(), SyncRosterInput{GroupID: "group-main"}, syncRosterDeps(swimmers)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := swimmers.swimmers["departed"]; !ok {
		t.Error("expected departed member kept")
	}
}

// TestExecuteSyncRoster_GroupNotFound tests the unknown-group error.
func TestExecuteSyncRoster_GroupNotFound(t *testing.T) {
	_, err := ExecuteSyncRoster(context.Background(), SyncRosterInput{GroupID: "group-zzz"}, syncRosterDeps(newMockSwimmerStore()))
	if !errors.Is(err, ErrRosterGroupNotFound) {
		t.Errorf("expected ErrRosterGroupNotFound, got %v", err)
	}
}

// TestExecuteSyncRoster_DefaultsToFirstGroup tests that an empty group id
// selects the provider's first group.
func TestExecuteSyncRoster_DefaultsToFirstGroup(t *testing.T) {
	swimmers := newMockSwimmerStore()
	result, err := ExecuteSyncRoster(context.Background(), SyncRosterInput{}, syncRosterDeps(swimmers))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 3 {
		t.Errorf("expected 3 created without exclusion, got %d", result.Created)
	}
}
