package orchestrators

import (
	"context"
	"encoding/json"
	"log/slog"

	trainerStore "swimclub/internal/adapters/storage/trainer"
	"swimclub/internal/domain/contract"
)

// ContractWebhookDeps holds dependencies for ContractWebhook.
type ContractWebhookDeps struct {
	TrainerStore trainerStore.Store
}

// webhookEnvelope is the provider's delivery shape. The data field arrives
// either as a JSON object or as a JSON-encoded string of one.
type webhookEnvelope struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// webhookData is the union of the fields carried by the three event shapes.
type webhookData struct {
	EID          string `json:"eid"`
	RoutingOrder int    `json:"routingOrder"`
	Status       string `json:"status"`
	EtchPacket   struct {
		EID string `json:"eid"`
	} `json:"etchPacket"`
}

// ExecuteContractWebhook applies one signature-provider notification to the
// matching trainer's contract status. Every malformed or unmatchable
// delivery is silently discarded: the provider retries on any other
// response, and its events are not trustworthy enough to act on loudly.
// POST: At most one trainer's contract status changed; never returns an
// error for bad input, only for store failures
func ExecuteContractWebhook(ctx context.Context, body []byte, deps ContractWebhookDeps) error {
	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		slog.Info("contract_webhook_discarded", "reason", "malformed_body")
		return nil
	}
	if envelope.Action == "" {
		slog.Info("contract_webhook_discarded", "reason", "missing_action")
		return nil
	}

	raw := []byte(envelope.Data)
	// Some provider configurations double-encode data as a JSON string.
	var asString string
	if json.Unmarshal(raw, &asString) == nil {
		raw = []byte(asString)
	}

	var data webhookData
	if err := json.Unmarshal(raw, &data); err != nil {
		slog.Info("contract_webhook_discarded", "reason", "malformed_data", "action", envelope.Action)
		return nil
	}

	documentRef := data.EtchPacket.EID
	if documentRef == "" {
		documentRef = data.EID
	}
	if documentRef == "" {
		slog.Info("contract_webhook_discarded", "reason", "missing_document_ref", "action", envelope.Action)
		return nil
	}

	t, err := deps.TrainerStore.GetByDocumentRef(ctx, documentRef)
	if err != nil {
		slog.Info("contract_webhook_discarded", "reason", "unknown_document_ref", "document_ref", documentRef)
		return nil
	}

	ev := contract.Event{
		Action:       envelope.Action,
		DocumentRef:  documentRef,
		RoutingOrder: data.RoutingOrder,
		Status:       data.Status,
	}
	next, changed := contract.Apply(t.ContractStatus, ev)
	if !changed {
		slog.Info("contract_webhook_noop", "action", ev.Action, "trainer_id", t.ID, "status", t.ContractStatus)
		return nil
	}

	if err := deps.TrainerStore.SetContractStatus(ctx, t.ID, next); err != nil {
		slog.Error("contract_webhook_save_failed", "error", err.Error(), "trainer_id", t.ID)
		return err
	}

	slog.Info("contract_status_changed", "trainer_id", t.ID, "from", t.ContractStatus, "to", next, "action", ev.Action)
	return nil
}
