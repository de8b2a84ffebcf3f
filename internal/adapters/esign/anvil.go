package esign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const defaultGraphQLURL = "https://graphql.useanvil.com"

// templateFileID names the single PDF file inside every packet.
const templateFileID = "contract"

// AnvilConfig holds the provider credentials and the field aliases of the
// PDF template. Aliases default to the template shipped with the club's
// Anvil workspace when left empty.
type AnvilConfig struct {
	APIKey      string
	TemplateEID string
	GraphQLURL  string

	ClubName  string
	ClubEmail string

	FieldHourlyWage    string
	FieldMinimumHours  string
	FieldFromDate      string
	FieldToDate        string
	FieldName          string
	FieldNationalID    string
	FieldAddress       string
	FieldSignatureClub string
	FieldSignatureUser string
}

func (c AnvilConfig) withDefaults() AnvilConfig {
	def := func(v *string, fallback string) {
		if *v == "" {
			*v = fallback
		}
	}
	def(&c.GraphQLURL, defaultGraphQLURL)
	def(&c.ClubName, "Skien Svømmeklubb")
	def(&c.ClubEmail, "hei@skiensvk.no")
	def(&c.FieldHourlyWage, "timelonn")
	def(&c.FieldMinimumHours, "antallTimer")
	def(&c.FieldFromDate, "fradato")
	def(&c.FieldToDate, "tildato")
	def(&c.FieldName, "navn")
	def(&c.FieldNationalID, "pnr")
	def(&c.FieldAddress, "adresse")
	def(&c.FieldSignatureClub, "signature_club")
	def(&c.FieldSignatureUser, "signature_user")
	return c
}

// AnvilClient implements Provider against the Anvil GraphQL API.
type AnvilClient struct {
	config AnvilConfig
	client *http.Client
}

// NewAnvilClient creates a client for the Anvil e-signature API.
// PRE: config.APIKey and config.TemplateEID are set
func NewAnvilClient(config AnvilConfig, client *http.Client) *AnvilClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &AnvilClient{config: config.withDefaults(), client: client}
}

const createEtchPacketMutation = `
mutation CreateEtchPacket(
  $name: String!, $signatureEmailSubject: String,
  $isDraft: Boolean, $isTest: Boolean,
  $files: [EtchFile!], $data: JSON, $signers: [JSON!]
) {
  createEtchPacket(
    name: $name, signatureEmailSubject: $signatureEmailSubject,
    isDraft: $isDraft, isTest: $isTest,
    files: $files, data: $data, signers: $signers
  ) {
    eid
    status
  }
}`

const etchPacketStatusQuery = `
query EtchPacketStatus($eid: String!) {
  etchPacket(eid: $eid) {
    eid
    status
  }
}`

// CreatePacket creates a signature packet for a trainer contract. The club
// signs first (routing order 1), the trainer second.
// PRE: input.TrainerEmail is valid
// POST: Returns the packet's document ref on success
func (c *AnvilClient) CreatePacket(ctx context.Context, input CreatePacketInput) (Packet, error) {
	if c.config.APIKey == "" {
		return Packet{}, fmt.Errorf("anvil api key not configured")
	}
	if c.config.TemplateEID == "" {
		return Packet{}, fmt.Errorf("anvil pdf template not configured")
	}

	payloadData := map[string]string{
		c.config.FieldHourlyWage:   strconv.FormatFloat(input.HourlyWage, 'f', -1, 64),
		c.config.FieldMinimumHours: strconv.FormatFloat(input.MinimumHours, 'f', -1, 64),
		c.config.FieldName:         input.TrainerName,
		c.config.FieldAddress:      input.Address,
	}
	if input.NationalID != "" {
		payloadData[c.config.FieldNationalID] = input.NationalID
	}
	if input.FromDate != "" {
		payloadData[c.config.FieldFromDate] = formatNorwegianDate(input.FromDate)
	}
	if input.ToDate != "" {
		payloadData[c.config.FieldToDate] = formatNorwegianDate(input.ToDate)
	}

	variables := map[string]interface{}{
		"name":                  fmt.Sprintf("Kontrakt for signering: %s", input.TrainerName),
		"signatureEmailSubject": "Vennligst signer kontrakten",
		"isDraft":               false,
		"isTest":                input.TestMode,
		"files": []map[string]interface{}{
			{"id": templateFileID, "castEid": c.config.TemplateEID},
		},
		"data": map[string]interface{}{
			"payloads": map[string]interface{}{
				templateFileID: map[string]interface{}{"data": payloadData},
			},
		},
		"signers": []map[string]interface{}{
			{
				"id":           "club",
				"name":         c.config.ClubName,
				"email":        c.config.ClubEmail,
				"signerType":   "email",
				"routingOrder": 1,
				"fields": []map[string]string{
					{"fileId": templateFileID, "fieldId": c.config.FieldSignatureClub},
				},
			},
			{
				"id":           "user",
				"name":         input.TrainerName,
				"email":        input.TrainerEmail,
				"signerType":   "email",
				"routingOrder": 2,
				"fields": []map[string]string{
					{"fileId": templateFileID, "fieldId": c.config.FieldSignatureUser},
				},
			},
		},
	}

	var result struct {
		CreateEtchPacket struct {
			EID    string `json:"eid"`
			Status string `json:"status"`
		} `json:"createEtchPacket"`
	}
	if err := c.requestGraphQL(ctx, createEtchPacketMutation, variables, &result); err != nil {
		slog.Error("esign_create_packet_failed", "error", err.Error(), "trainer_email", input.TrainerEmail)
		return Packet{}, err
	}
	if result.CreateEtchPacket.EID == "" {
		return Packet{}, fmt.Errorf("provider returned no packet eid")
	}

	slog.Info("esign_packet_created", "document_ref", result.CreateEtchPacket.EID, "test_mode", input.TestMode)
	return Packet{
		DocumentRef: result.CreateEtchPacket.EID,
		Status:      result.CreateEtchPacket.Status,
	}, nil
}

// PacketStatus fetches the provider's status for a packet.
// PRE: documentRef is non-empty
func (c *AnvilClient) PacketStatus(ctx context.Context, documentRef string) (string, error) {
	if c.config.APIKey == "" {
		return "", fmt.Errorf("anvil api key not configured")
	}

	var result struct {
		EtchPacket struct {
			EID    string `json:"eid"`
			Status string `json:"status"`
		} `json:"etchPacket"`
	}
	err := c.requestGraphQL(ctx, etchPacketStatusQuery, map[string]interface{}{"eid": documentRef}, &result)
	if err != nil {
		slog.Error("esign_status_failed", "error", err.Error(), "document_ref", documentRef)
		return "", err
	}
	return result.EtchPacket.Status, nil
}

// requestGraphQL posts a GraphQL document to the provider and unmarshals
// the "data" object into out. The API key goes in basic auth as the
// username with an empty password.
func (c *AnvilClient) requestGraphQL(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.GraphQLURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.config.APIKey, "")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("graphql request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read graphql response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql request returned %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("decode graphql response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("graphql error: %s", envelope.Errors[0].Message)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode graphql data: %w", err)
		}
	}
	return nil
}

// formatNorwegianDate renders YYYY-MM-DD as DD.MM.YYYY for the contract
// document. Unparseable input passes through untouched.
func formatNorwegianDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02.01.2006")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
