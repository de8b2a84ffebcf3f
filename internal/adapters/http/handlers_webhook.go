package web

import (
	"io"
	"net/http"

	"swimclub/internal/application/orchestrators"
)

// maxWebhookBody caps how much of a webhook delivery is read.
const maxWebhookBody = 1 << 20

// handleEsignWebhook handles POST /api/webhooks/esign.
//
// The signature provider retries on any non-2xx response, so the handler
// answers 204 for every delivery it can read. Malformed and unmatchable
// payloads are discarded inside the orchestrator; only a store failure
// surfaces as an error, which lets the provider redeliver.
func handleEsignWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	deps := orchestrators.ContractWebhookDeps{TrainerStore: stores.TrainerStore}
	if err := orchestrators.ExecuteContractWebhook(r.Context(), body, deps); err != nil {
		internalError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
