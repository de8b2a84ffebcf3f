package settings

// Named settings with a typed get/set contract each. The narrow per-setting
// surface replaces an untyped key/value blob so callers cannot invent keys
// or smuggle the wrong type through.
const (
	KeyRegistrationOpen = "registration_open"
	KeyWorkoutAIEnabled = "workout_ai_enabled"
	KeyContractTestMode = "contract_test_mode"
)

// Defaults used when a setting has never been written.
const (
	DefaultRegistrationOpen = true
	DefaultWorkoutAIEnabled = true
	DefaultContractTestMode = true
)
