package payroll

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	productionBaseURL = "https://tripletex.no/v2"
	testBaseURL       = "https://api-test.tripletex.tech/v2"
)

// TripletexConfig holds API credentials for the Tripletex payroll system.
type TripletexConfig struct {
	ConsumerToken string
	EmployeeToken string
	// TestMode targets the Tripletex test environment.
	TestMode bool
	// BaseURL overrides the environment URL, used in tests.
	BaseURL string
}

// TripletexClient implements Client against the Tripletex REST API.
type TripletexClient struct {
	config TripletexConfig
	client *http.Client
}

// NewTripletexClient creates a client for the Tripletex API.
// PRE: config carries both tokens
func NewTripletexClient(config TripletexConfig, client *http.Client) *TripletexClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if config.BaseURL == "" {
		config.BaseURL = productionBaseURL
		if config.TestMode {
			config.BaseURL = testBaseURL
		}
	}
	return &TripletexClient{config: config, client: client}
}

// CreateEmployee registers a new employee.
// POST: Returns the provider's employee id
func (c *TripletexClient) CreateEmployee(ctx context.Context, emp Employee) (int64, error) {
	id, err := c.sendEmployee(ctx, http.MethodPost, c.config.BaseURL+"/employee", emp)
	if err != nil {
		return 0, err
	}
	slog.Info("payroll_employee_created", "employee_id", id, "email", emp.Email)
	return id, nil
}

// UpdateEmployee updates an existing employee by id.
// POST: Returns the employee id, or ErrEmployeeNotFound when it is gone
func (c *TripletexClient) UpdateEmployee(ctx context.Context, employeeID int64, emp Employee) (int64, error) {
	id, err := c.sendEmployee(ctx, http.MethodPut,
		fmt.Sprintf("%s/employee/%d", c.config.BaseURL, employeeID), emp)
	if err != nil {
		return 0, err
	}
	slog.Info("payroll_employee_updated", "employee_id", id, "email", emp.Email)
	return id, nil
}

// sendEmployee performs the employee write with a fresh session token.
func (c *TripletexClient) sendEmployee(ctx context.Context, method, endpoint string, emp Employee) (int64, error) {
	token, err := c.createSession(ctx)
	if err != nil {
		return 0, err
	}

	payload := map[string]interface{}{
		"firstName": emp.FirstName,
		"lastName":  emp.LastName,
		"email":     emp.Email,
		"address": map[string]interface{}{
			"addressLine1": emp.AddressLine1,
			"addressLine2": emp.AddressLine2,
			"postalCode":   emp.PostalCode,
			"city":         emp.City,
		},
	}
	if emp.BankAccountNumber != "" {
		payload["bankAccountNumber"] = emp.BankAccountNumber
	}
	if emp.NationalID != "" {
		payload["nationalIdentityNumber"] = emp.NationalID
	}
	if emp.DateOfBirth != "" {
		payload["dateOfBirth"] = emp.DateOfBirth
	}
	if emp.UserType != "" {
		payload["userType"] = emp.UserType
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal employee: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build employee request: %w", err)
	}
	// Tripletex sessions authenticate as company 0 with the token as password.
	req.SetBasicAuth("0", token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("employee request: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode == http.StatusNotFound {
		return 0, ErrEmployeeNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("employee request returned %d: %s", resp.StatusCode, validationDetail(data))
	}

	var result struct {
		Value struct {
			ID int64 `json:"id"`
		} `json:"value"`
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return 0, fmt.Errorf("decode employee response: %w", err)
	}
	id := result.Value.ID
	if id == 0 {
		id = result.ID
	}
	if id == 0 {
		return 0, fmt.Errorf("no employee id in response")
	}
	return id, nil
}

// createSession exchanges the consumer and employee tokens for a session
// token.
func (c *TripletexClient) createSession(ctx context.Context) (string, error) {
	if c.config.ConsumerToken == "" || c.config.EmployeeToken == "" {
		return "", fmt.Errorf("payroll credentials not configured")
	}

	endpoint := fmt.Sprintf("%s/token/session/:create?consumerToken=%s&employeeToken=%s&expirationDate=2099-12-31",
		c.config.BaseURL,
		url.QueryEscape(c.config.ConsumerToken),
		url.QueryEscape(c.config.EmployeeToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build session request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("session request: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("session auth returned %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	var result struct {
		Value struct {
			Token string `json:"token"`
		} `json:"value"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode session response: %w", err)
	}
	token := result.Value.Token
	if token == "" {
		token = result.Token
	}
	if token == "" {
		return "", fmt.Errorf("no session token in response")
	}
	return token, nil
}

// validationDetail extracts the provider's field-level validation messages
// when present, falling back to the raw body.
func validationDetail(data []byte) string {
	var parsed struct {
		ValidationMessages []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"validationMessages"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil && len(parsed.ValidationMessages) > 0 {
		detail := ""
		for i, v := range parsed.ValidationMessages {
			if i > 0 {
				detail += ", "
			}
			detail += v.Field + ": " + v.Message
		}
		return detail
	}
	return truncate(string(data), 300)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
