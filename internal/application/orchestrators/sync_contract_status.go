package orchestrators

import (
	"context"
	"log/slog"

	"swimclub/internal/adapters/esign"
	trainerStore "swimclub/internal/adapters/storage/trainer"
	"swimclub/internal/domain/contract"
)

// SyncContractStatusInput carries input for the status pull orchestrator.
type SyncContractStatusInput struct {
	TrainerID string
}

// SyncContractStatusDeps holds dependencies for SyncContractStatus.
type SyncContractStatusDeps struct {
	TrainerStore trainerStore.Store
	Esign        esign.Provider
}

// ExecuteSyncContractStatus pulls the packet status from the provider and
// overwrites the trainer's contract status with the mapped value. Used when
// webhook deliveries were missed.
// PRE: a contract has been sent for the trainer; caller is an administrator
// POST: Returns the mapped status; trainer row updated when the provider
// reported one
func ExecuteSyncContractStatus(ctx context.Context, input SyncContractStatusInput, deps SyncContractStatusDeps) (string, error) {
	t, err := deps.TrainerStore.GetByID(ctx, input.TrainerID)
	if err != nil {
		return "", err
	}
	if t.ContractDocumentRef == "" {
		return "", contract.ErrNoContractInFlight
	}

	providerStatus, err := deps.Esign.PacketStatus(ctx, t.ContractDocumentRef)
	if err != nil {
		return "", err
	}

	mapped := contract.FromProviderStatus(providerStatus)
	if providerStatus != "" {
		if err := deps.TrainerStore.SetContractStatus(ctx, t.ID, mapped); err != nil {
			return "", err
		}
	}

	slog.Info("contract_status_synced", "trainer_id", t.ID, "provider_status", providerStatus, "status", mapped)
	return mapped, nil
}
