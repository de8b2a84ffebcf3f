// Package roster reads the club's member groups from the external
// group-roster provider.
package roster

import "context"

// Member is one person in a roster group. The provider assigns a different
// member id per group for the same person, so exclusion matching runs on
// contact details instead of ids.
type Member struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	SubgroupIDs []string
}

// Subgroup is a named subdivision of a group.
type Subgroup struct {
	ID   string
	Name string
}

// Group is a roster group with its members and subgroups.
type Group struct {
	ID        string
	Name      string
	Members   []Member
	Subgroups []Subgroup
}

// Client is the interface for the roster provider.
type Client interface {
	// Groups logs in and returns all groups visible to the account.
	Groups(ctx context.Context) ([]Group, error)
}
