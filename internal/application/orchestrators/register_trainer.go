package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	settingsStore "swimclub/internal/adapters/storage/settings"
	trainerStore "swimclub/internal/adapters/storage/trainer"
	identityDomain "swimclub/internal/domain/identity"
	trainerDomain "swimclub/internal/domain/trainer"
)

// Orchestrator errors
var (
	ErrRegistrationClosed = errors.New("trainer registration is closed")
	ErrEmailTaken         = errors.New("a trainer with this email is already registered")
)

// RegisterTrainerInput carries input for the registration orchestrator.
type RegisterTrainerInput struct {
	Email             string
	Password          string
	Name              string
	NationalID        string
	BankAccountNumber string
	Phone             string
	Street            string
	Street2           string
	Zip               string
	City              string
}

// RegisterTrainerDeps holds dependencies for RegisterTrainer.
type RegisterTrainerDeps struct {
	AccountStore trainerAccountStore
	TrainerStore trainerStore.Store
	Settings     settingsStore.Store
	GenerateID   func() string
	Now          func() time.Time
}

// trainerAccountStore is the slice of the account store registration needs.
type trainerAccountStore interface {
	GetByEmail(ctx context.Context, email string) (identityDomain.Account, error)
	Save(ctx context.Context, a identityDomain.Account) error
}

// ExecuteRegisterTrainer creates a login account and a trainer profile from
// the public registration form.
// PRE: registration is open; email not in use; password >= 12 chars
// POST: Account and Trainer persisted; module access flags default false
// INVARIANT: birthdate is derived from the national id, never user-supplied
func ExecuteRegisterTrainer(ctx context.Context, input RegisterTrainerInput, deps RegisterTrainerDeps) (string, error) {
	open, err := deps.Settings.RegistrationOpen(ctx)
	if err != nil {
		return "", err
	}
	if !open {
		return "", ErrRegistrationClosed
	}

	if _, err := deps.AccountStore.GetByEmail(ctx, input.Email); err == nil {
		return "", ErrEmailTaken
	}
	if _, err := deps.TrainerStore.GetByEmail(ctx, input.Email); err == nil {
		return "", ErrEmailTaken
	}

	now := deps.Now()

	account := identityDomain.Account{
		ID:        deps.GenerateID(),
		Email:     input.Email,
		CreatedAt: now,
	}
	if err := account.Validate(); err != nil {
		return "", err
	}
	if err := account.SetPassword(input.Password); err != nil {
		return "", err
	}

	nationalID := trainerDomain.NormalizeNationalID(input.NationalID)
	t := trainerDomain.Trainer{
		ID:                deps.GenerateID(),
		IdentityID:        account.ID,
		Email:             input.Email,
		Name:              input.Name,
		NationalID:        nationalID,
		Birthdate:         trainerDomain.BirthdateFromNationalID(nationalID),
		BankAccountNumber: input.BankAccountNumber,
		Phone:             input.Phone,
		Street:            input.Street,
		Street2:           input.Street2,
		Zip:               input.Zip,
		City:              input.City,
		ContractStatus:    "none",
		CreatedAt:         now,
	}
	if err := validateRegistration(&t); err != nil {
		return "", err
	}

	if err := deps.AccountStore.Save(ctx, account); err != nil {
		return "", err
	}
	if err := deps.TrainerStore.Save(ctx, t); err != nil {
		return "", err
	}

	slog.Info("trainer_registered", "trainer_id", t.ID, "email", t.Email)
	return t.ID, nil
}

// validateRegistration applies the registration form's required fields on
// top of the domain validation. Admin-created trainers only need the domain
// rules; self-registration requires the full profile.
func validateRegistration(t *trainerDomain.Trainer) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.NationalID == "" {
		return trainerDomain.ErrInvalidNationalID
	}
	if t.BankAccountNumber == "" {
		return trainerDomain.ErrEmptyBankAccount
	}
	if t.Phone == "" {
		return trainerDomain.ErrEmptyPhone
	}
	if t.Street == "" {
		return trainerDomain.ErrEmptyStreet
	}
	if t.Zip == "" {
		return trainerDomain.ErrEmptyZip
	}
	if t.City == "" {
		return trainerDomain.ErrEmptyCity
	}
	return nil
}
