package settings

import "context"

// Store exposes the application settings through typed accessors. Missing
// rows read as the domain defaults.
type Store interface {
	RegistrationOpen(ctx context.Context) (bool, error)
	SetRegistrationOpen(ctx context.Context, open bool) error

	WorkoutAIEnabled(ctx context.Context) (bool, error)
	SetWorkoutAIEnabled(ctx context.Context, enabled bool) error

	ContractTestMode(ctx context.Context) (bool, error)
	SetContractTestMode(ctx context.Context, enabled bool) error
}
