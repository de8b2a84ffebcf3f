// Package esign talks to the e-signature provider that carries trainer
// contracts through signing.
package esign

import "context"

// CreatePacketInput carries the contract fields merged into the PDF
// template and the two signers of the packet.
type CreatePacketInput struct {
	TrainerName  string
	TrainerEmail string
	NationalID   string
	Address      string
	HourlyWage   float64
	MinimumHours float64
	FromDate     string // YYYY-MM-DD, optional
	ToDate       string // YYYY-MM-DD, optional

	// TestMode sends the packet without consuming a production credit.
	TestMode bool
}

// Packet identifies a created signature packet at the provider.
type Packet struct {
	DocumentRef string
	Status      string
}

// Provider is the interface for the e-signature service.
type Provider interface {
	// CreatePacket creates a signature packet with the club as first
	// signer and the trainer as second, and returns its document ref.
	CreatePacket(ctx context.Context, input CreatePacketInput) (Packet, error)
	// PacketStatus returns the provider's raw status string for a packet.
	PacketStatus(ctx context.Context, documentRef string) (string, error)
}
