package orchestrators

import (
	"context"
	"testing"

	"swimclub/internal/domain/contract"
	trainerDomain "swimclub/internal/domain/trainer"
)

func webhookTrainer(status, documentRef string) trainerDomain.Trainer {
	return trainerDomain.Trainer{
		ID:                  "trainer-001",
		Email:               "kari@example.com",
		Name:                "Kari Nordmann",
		ContractDocumentRef: documentRef,
		ContractStatus:      status,
		CreatedAt:           fixedTime,
	}
}

// TestExecuteContractWebhook_ClubSignerAdvances tests that the first
// signer's completion moves sent to club_signed.
func TestExecuteContractWebhook_ClubSignerAdvances(t *testing.T) {
	store := newMockTrainerStore()
	store.trainers["trainer-001"] = webhookTrainer(contract.StatusSent, "packet-abc")

	body := []byte(`{"action":"signerComplete","data":{"routingOrder":1,"etchPacket":{"eid":"packet-abc"}}}`)
	if err := ExecuteContractWebhook(context.Background(), body, ContractWebhookDeps{TrainerStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.trainers["trainer-001"].ContractStatus; got != contract.StatusClubSigned {
		t.Errorf("expected status=club_signed, got %s", got)
	}
}

// TestExecuteContractWebhook_TrainerSignerIgnored tests that the second
// signer's completion alone never changes the status.
func TestExecuteContractWebhook_TrainerSignerIgnored(t *testing.T) {
	store := newMockTrainerStore()
	store.trainers["trainer-001"] = webhookTrainer(contract.StatusSent, "packet-abc")

	body := []byte(`{"action":"signerComplete","data":{"routingOrder":2,"etchPacket":{"eid":"packet-abc"}}}`)
	if err := ExecuteContractWebhook(context.Background(), body, ContractWebhookDeps{TrainerStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.trainers["trainer-001"].ContractStatus; got != contract.StatusSent {
		t.Errorf("expected status unchanged at sent, got %s", got)
	}
}

// TestExecuteContractWebhook_PacketCompleteForcesCompleted tests that the
// packet-complete event completes the contract even when the signer events
// were never delivered.
func TestExecuteContractWebhook_PacketCompleteForcesCompleted(t *testing.T) {
	store := newMockTrainerStore()
	store.trainers["trainer-001"] = webhookTrainer(contract.StatusSent, "packet-abc")

	body := []byte(`{"action":"etchPacketComplete","data":{"eid":"packet-abc"}}`)
	if err := ExecuteContractWebhook(context.Background(), body, ContractWebhookDeps{TrainerStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.trainers["trainer-001"].ContractStatus; got != contract.StatusCompleted {
		t.Errorf("expected status=completed, got %s", got)
	}
}

// TestExecuteContractWebhook_Declined tests the declined status update.
func TestExecuteContractWebhook_Declined(t *testing.T) {
	store := newMockTrainerStore()
	store.trainers["trainer-001"] = webhookTrainer(contract.StatusClubSigned, "packet-abc")

	body := []byte(`{"action":"signerUpdateStatus","data":{"status":"declined","etchPacket":{"eid":"packet-abc"}}}`)
	if err := ExecuteContractWebhook(context.Background(), body, ContractWebhookDeps{TrainerStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.trainers["trainer-001"].ContractStatus; got != contract.StatusDeclined {
		t.Errorf("expected status=declined, got %s", got)
	}
}

// TestExecuteContractWebhook_DoubleEncodedData tests that a JSON-string
// encoded data field is unwrapped before parsing.
func TestExecuteContractWebhook_DoubleEncodedData(t *testing.T) {
	store := newMockTrainerStore()
	store.trainers["trainer-001"] = webhookTrainer(contract.StatusSent, "packet-abc")

	body := []byte(`{"action":"signerComplete","data":"{\"routingOrder\":1,\"etchPacket\":{\"eid\":\"packet-abc\"}}"}`)
	if err := ExecuteContractWebhook(context.Background(), body, ContractWebhookDeps{TrainerStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.trainers["trainer-001"].ContractStatus; got != contract.StatusClubSigned {
		t.Errorf("expected status=club_signed, got %s", got)
	}
}

// TestExecuteContractWebhook_UnknownRefDiscarded tests that deliveries for
// an unknown packet are swallowed without error.
func TestExecuteContractWebhook_UnknownRefDiscarded(t *testing.T) {
	store := newMockTrainerStore()
	store.trainers["trainer-001"] = webhookTrainer(contract.StatusSent, "packet-abc")

	body := []byte(`{"action":"signerComplete","data":{"routingOrder":1,"etchPacket":{"eid":"packet-zzz"}}}`)
	if err := ExecuteContractWebhook(context.Background(), body, ContractWebhookDeps{TrainerStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.trainers["trainer-001"].ContractStatus; got != contract.StatusSent {
		t.Errorf("expected status unchanged at sent, got %s", got)
	}
}

// TestExecuteContractWebhook_MalformedBody tests that garbage input is
// swallowed without error.
func TestExecuteContractWebhook_MalformedBody(t *testing.T) {
	store := newMockTrainerStore()
	for _, body := range []string{"not json", `{}`, `{"action":"signerComplete","data":42}`, `{"action":"signerComplete","data":{}}`} {
		if err := ExecuteContractWebhook(context.Background(), []byte(body), ContractWebhookDeps{TrainerStore: store}); err != nil {
			t.Errorf("body %q: unexpected error: %v", body, err)
		}
	}
}

// TestExecuteContractWebhook_StoreFailurePropagates tests that a failed
// status write is reported so the provider retries the delivery.
func TestExecuteContractWebhook_StoreFailurePropagates(t *testing.T) {
	store := newMockTrainerStore()
	store.trainers["trainer-001"] = webhookTrainer(contract.StatusSent, "packet-abc")
	store.saveErr = errMockNotFound

	body := []byte(`{"action":"etchPacketComplete","data":{"eid":"packet-abc"}}`)
	if err := ExecuteContractWebhook(context.Background(), body, ContractWebhookDeps{TrainerStore: store}); err == nil {
		t.Error("expected error when the status write fails")
	}
}

// TestExecuteContractWebhook_RepeatedDeliveryNoop tests at-least-once
// tolerance: replaying the club-signer event past sent changes nothing.
func TestExecuteContractWebhook_RepeatedDeliveryNoop(t *testing.T) {
	store := newMockTrainerStore()
	store.trainers["trainer-001"] = webhookTrainer(contract.StatusClubSigned, "packet-abc")

	body := []byte(`{"action":"signerComplete","data":{"routingOrder":1,"etchPacket":{"eid":"packet-abc"}}}`)
	if err := ExecuteContractWebhook(context.Background(), body, ContractWebhookDeps{TrainerStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.trainers["trainer-001"].ContractStatus; got != contract.StatusClubSigned {
		t.Errorf("expected status unchanged at club_signed, got %s", got)
	}
}
