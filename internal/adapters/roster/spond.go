package roster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.spond.com/core/v1"

// SpondConfig holds credentials for the Spond roster API.
type SpondConfig struct {
	Username string
	Password string
	// BaseURL overrides the API base, used in tests.
	BaseURL string
}

// SpondClient implements Client against the Spond API.
type SpondClient struct {
	config SpondConfig
	client *http.Client
}

// NewSpondClient creates a client for the Spond API.
// PRE: config carries username and password
func NewSpondClient(config SpondConfig, client *http.Client) *SpondClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultAPIBase
	}
	return &SpondClient{config: config, client: client}
}

// Groups logs in and fetches all groups with members and subgroups.
// POST: Returns the account's groups
func (c *SpondClient) Groups(ctx context.Context) ([]Group, error) {
	token, err := c.login(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/groups/", nil)
	if err != nil {
		return nil, fmt.Errorf("build groups request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("groups request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read groups response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("groups request returned %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	var raw []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Members []struct {
			ID          string   `json:"id"`
			FirstName   string   `json:"firstName"`
			LastName    string   `json:"lastName"`
			Email       string   `json:"email"`
			PhoneNumber string   `json:"phoneNumber"`
			SubGroups   []string `json:"subGroups"`
		} `json:"members"`
		SubGroups []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"subGroups"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode groups response: %w", err)
	}

	groups := make([]Group, 0, len(raw))
	for _, g := range raw {
		group := Group{ID: g.ID, Name: g.Name}
		for _, m := range g.Members {
			group.Members = append(group.Members, Member{
				ID:          m.ID,
				FirstName:   m.FirstName,
				LastName:    m.LastName,
				Email:       m.Email,
				Phone:       m.PhoneNumber,
				SubgroupIDs: m.SubGroups,
			})
		}
		for _, sg := range g.SubGroups {
			group.Subgroups = append(group.Subgroups, Subgroup{ID: sg.ID, Name: sg.Name})
		}
		groups = append(groups, group)
	}

	slog.Info("roster_groups_fetched", "group_count", len(groups))
	return groups, nil
}

// login authenticates and returns a bearer token.
func (c *SpondClient) login(ctx context.Context) (string, error) {
	if c.config.Username == "" || c.config.Password == "" {
		return "", fmt.Errorf("roster credentials not configured")
	}

	body, err := json.Marshal(map[string]string{
		"email":    c.config.Username,
		"password": c.config.Password,
	})
	if err != nil {
		return "", fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read login response: %w", err)
	}

	var result struct {
		LoginToken string `json:"loginToken"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if result.LoginToken == "" {
		return "", fmt.Errorf("roster login failed: %s", truncate(string(data), 200))
	}
	return result.LoginToken, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
