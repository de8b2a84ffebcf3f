package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"swimclub/internal/adapters/esign"
	settingsStore "swimclub/internal/adapters/storage/settings"
	trainerStore "swimclub/internal/adapters/storage/trainer"
	wagelevelStore "swimclub/internal/adapters/storage/wagelevel"
	"swimclub/internal/domain/contract"
)

// SendContractInput carries input for the contract send orchestrator.
type SendContractInput struct {
	TrainerID string
}

// SendContractResult reports the created packet.
type SendContractResult struct {
	DocumentRef string
	TestMode    bool
}

// SendContractDeps holds dependencies for SendContract.
type SendContractDeps struct {
	TrainerStore   trainerStore.Store
	WageLevelStore wagelevelStore.Store
	Settings       settingsStore.Store
	Esign          esign.Provider
	Now            func() time.Time
}

// ExecuteSendContract builds a signature packet for a trainer's contract and
// records the in-flight packet on the trainer.
// PRE: trainer has a wage level and a valid email; caller is an administrator
// POST: document ref, sent status and sent timestamp persisted only after the
// provider call succeeds
func ExecuteSendContract(ctx context.Context, input SendContractInput, deps SendContractDeps) (SendContractResult, error) {
	t, err := deps.TrainerStore.GetByID(ctx, input.TrainerID)
	if err != nil {
		return SendContractResult{}, err
	}
	if t.WageLevelID == "" {
		return SendContractResult{}, contract.ErrMissingWageLevel
	}
	if !strings.Contains(t.Email, "@") {
		return SendContractResult{}, contract.ErrMissingEmail
	}

	level, err := deps.WageLevelStore.GetByID(ctx, t.WageLevelID)
	if err != nil {
		return SendContractResult{}, err
	}
	minHours := t.MinimumHours
	if minHours == 0 {
		minHours = level.MinimumHours
	}

	testMode, err := deps.Settings.ContractTestMode(ctx)
	if err != nil {
		return SendContractResult{}, err
	}

	packet, err := deps.Esign.CreatePacket(ctx, esign.CreatePacketInput{
		TrainerName:  t.Name,
		TrainerEmail: t.Email,
		NationalID:   t.NationalID,
		Address:      t.Address(),
		HourlyWage:   level.HourlyWage,
		MinimumHours: minHours,
		FromDate:     t.ContractFromDate,
		ToDate:       t.ContractToDate,
		TestMode:     testMode,
	})
	if err != nil {
		return SendContractResult{}, err
	}

	t.ContractDocumentRef = packet.DocumentRef
	t.ContractStatus = contract.StatusSent
	t.ContractSentAt = deps.Now()
	t.UpdatedAt = t.ContractSentAt
	if err := deps.TrainerStore.Save(ctx, t); err != nil {
		return SendContractResult{}, err
	}

	slog.Info("contract_sent", "trainer_id", t.ID, "document_ref", packet.DocumentRef, "test_mode", testMode)
	return SendContractResult{DocumentRef: packet.DocumentRef, TestMode: testMode}, nil
}
