package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"swimclub/internal/adapters/roster"
	partyStore "swimclub/internal/adapters/storage/party"
	swimmerStore "swimclub/internal/adapters/storage/swimmer"
	swimmerDomain "swimclub/internal/domain/swimmer"
)

// ErrRosterGroupNotFound signals that the configured roster group does not
// exist for the account.
var ErrRosterGroupNotFound = errors.New("roster group not found")

// SyncRosterInput carries input for the roster sync orchestrator.
type SyncRosterInput struct {
	// GroupID selects the roster group to import; empty takes the first.
	GroupID string
	// ExcludeGroupID names a group (e.g. the board) whose members are
	// never imported as swimmers.
	ExcludeGroupID string
}

// SyncRosterResult summarises one import run.
type SyncRosterResult struct {
	Created int
	Updated int
	Skipped int
	Deleted int
	Errors  []string
}

// SyncRosterDeps holds dependencies for SyncRoster.
type SyncRosterDeps struct {
	Roster       roster.Client
	PartyStore   partyStore.Store
	SwimmerStore swimmerStore.Store
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSyncRoster imports club swimmers from the roster provider.
// Members map to parties via the party's roster subgroup id; members
// without a mapped subgroup, members of the exclusion group, and the whole
// swim-school party are skipped. Previously imported members of the
// exclusion group are deleted.
// PRE: caller is an administrator
// POST: swimmer rows upserted by roster member id; returns per-run counts
// INVARIANT: exclusion matches on normalized email/phone, never member id
func ExecuteSyncRoster(ctx context.Context, input SyncRosterInput, deps SyncRosterDeps) (SyncRosterResult, error) {
	var result SyncRosterResult

	groups, err := deps.Roster.Groups(ctx)
	if err != nil {
		return result, err
	}

	target, ok := pickGroup(groups, input.GroupID)
	if !ok {
		return result, ErrRosterGroupNotFound
	}

	subgroupToParty, err := mapSubgroupsToParties(ctx, deps.PartyStore)
	if err != nil {
		return result, err
	}

	excludedEmails, excludedPhones := excludedContacts(groups, input.ExcludeGroupID)
	if len(excludedEmails) > 0 || len(excludedPhones) > 0 {
		deleted, err := deps.SwimmerStore.DeleteByContacts(ctx, setToSlice(excludedEmails), setToSlice(excludedPhones))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("delete excluded: %v", err))
		} else {
			result.Deleted = deleted
		}
	}

	now := deps.Now()
	for _, member := range target.Members {
		email := swimmerDomain.NormalizeEmail(member.Email)
		phone := swimmerDomain.NormalizePhone(member.Phone)
		if (email != "" && excludedEmails[email]) || (phone != "" && excludedPhones[phone]) {
			result.Skipped++
			continue
		}

		partyID := partyForMember(member, subgroupToParty)
		if partyID == "" {
			result.Skipped++
			continue
		}

		s := swimmerDomain.Swimmer{
			RosterMemberID: member.ID,
			FirstName:      member.FirstName,
			LastName:       member.LastName,
			Email:          email,
			Phone:          phone,
			PartyID:        partyID,
			UpdatedAt:      now,
		}
		if s.Name() == "" {
			result.Skipped++
			continue
		}

		existing, err := deps.SwimmerStore.GetByRosterMemberID(ctx, member.ID)
		if err == nil {
			s.ID = existing.ID
			s.CreatedAt = existing.CreatedAt
			if err := deps.SwimmerStore.Save(ctx, s); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("update %s: %v", member.ID, err))
				continue
			}
			result.Updated++
		} else {
			s.ID = deps.GenerateID()
			s.CreatedAt = now
			if err := deps.SwimmerStore.Save(ctx, s); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("insert %s: %v", member.ID, err))
				continue
			}
			result.Created++
		}
	}

	slog.Info("roster_synced",
		"created", result.Created, "updated", result.Updated,
		"skipped", result.Skipped, "deleted", result.Deleted,
		"error_count", len(result.Errors))
	return result, nil
}

func pickGroup(groups []roster.Group, groupID string) (roster.Group, bool) {
	if groupID == "" {
		if len(groups) == 0 {
			return roster.Group{}, false
		}
		return groups[0], true
	}
	for _, g := range groups {
		if g.ID == groupID {
			return g, true
		}
	}
	return roster.Group{}, false
}

// mapSubgroupsToParties indexes parties by roster subgroup id. The
// swim-school party never participates even when mapped.
func mapSubgroupsToParties(ctx context.Context, store partyStore.Store) (map[string]string, error) {
	parties, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string)
	for _, p := range parties {
		if p.RosterSubgroupID == "" || p.IsSwimSchool() {
			continue
		}
		m[p.RosterSubgroupID] = p.ID
	}
	return m, nil
}

func excludedContacts(groups []roster.Group, excludeGroupID string) (map[string]bool, map[string]bool) {
	emails := make(map[string]bool)
	phones := make(map[string]bool)
	if excludeGroupID == "" {
		return emails, phones
	}
	for _, g := range groups {
		if g.ID != excludeGroupID {
			continue
		}
		for _, m := range g.Members {
			if email := swimmerDomain.NormalizeEmail(m.Email); email != "" {
				emails[email] = true
			}
			if phone := swimmerDomain.NormalizePhone(m.Phone); phone != "" {
				phones[phone] = true
			}
		}
	}
	return emails, phones
}

func partyForMember(member roster.Member, subgroupToParty map[string]string) string {
	for _, sgID := range member.SubgroupIDs {
		if partyID, ok := subgroupToParty[sgID]; ok {
			return partyID
		}
	}
	return ""
}

func setToSlice(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	return out
}
