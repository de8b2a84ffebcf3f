package contract

import "errors"

// Status constants for the contract signing lifecycle.
const (
	StatusNone       = "none"
	StatusSent       = "sent"
	StatusClubSigned = "club_signed"
	StatusCompleted  = "completed"
	StatusDeclined   = "declined"
	StatusVoided     = "voided"
)

// Webhook action constants, matching the signature provider's event names.
const (
	ActionSignerComplete = "signerComplete"
	ActionPacketComplete = "etchPacketComplete"
	ActionSignerStatus   = "signerUpdateStatus"
)

// ClubRoutingOrder is the signer position of the club. The club signs first,
// the trainer second.
const ClubRoutingOrder = 1

// Domain errors
var (
	ErrNoContractInFlight = errors.New("no contract has been sent for this trainer")
	ErrMissingWageLevel   = errors.New("trainer must have a wage level before a contract can be sent")
	ErrMissingEmail       = errors.New("trainer must have a valid email before a contract can be sent")
)

// Event is an inbound notification from the signature provider. Consumed
// once, never persisted.
type Event struct {
	Action       string
	DocumentRef  string
	RoutingOrder int
	Status       string
}

// Apply computes the status that results from applying an event to the
// current status. The second return value is false when the event causes no
// change (unknown action, wrong routing order, or a transition that is not an
// edge of the lifecycle).
//
// The rules tolerate at-least-once and out-of-order delivery: repeated
// signer-complete events are no-ops once past sent, and packet-complete
// forces completed regardless of the current status.
// INVARIANT: current is never mutated; terminal statuses only change via packet-complete
func Apply(current string, ev Event) (string, bool) {
	switch ev.Action {
	case ActionSignerComplete:
		if ev.RoutingOrder != ClubRoutingOrder {
			return current, false
		}
		if current != StatusSent {
			return current, false
		}
		return StatusClubSigned, true
	case ActionPacketComplete:
		// Always the true terminal signal, even if signer events were lost.
		if current == StatusCompleted {
			return current, false
		}
		return StatusCompleted, true
	case ActionSignerStatus:
		switch ev.Status {
		case "declined":
			if current == StatusDeclined {
				return current, false
			}
			return StatusDeclined, true
		case "voided":
			if current == StatusVoided {
				return current, false
			}
			return StatusVoided, true
		}
		return current, false
	default:
		return current, false
	}
}

// providerStatusMap translates the signature provider's packet status
// vocabulary into the lifecycle statuses tracked here.
var providerStatusMap = map[string]string{
	"draft":     StatusSent,
	"sent":      StatusSent,
	"delivered": StatusSent,
	"partial":   StatusClubSigned,
	"completed": StatusCompleted,
	"declined":  StatusDeclined,
	"voided":    StatusVoided,
}

// FromProviderStatus maps a provider packet status to a lifecycle status.
// Unrecognised provider statuses map to sent, which is the weakest claim
// that can be made once a packet exists.
func FromProviderStatus(providerStatus string) string {
	if s, ok := providerStatusMap[providerStatus]; ok {
		return s
	}
	return StatusSent
}

// IsTerminal returns true for statuses that no signer event moves past.
// INVARIANT: completed can still be forced by packet-complete
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusDeclined || status == StatusVoided
}
