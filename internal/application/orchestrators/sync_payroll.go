package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"swimclub/internal/adapters/payroll"
	trainerStore "swimclub/internal/adapters/storage/trainer"
	trainerDomain "swimclub/internal/domain/trainer"
)

// ErrMissingPayrollEmail signals a trainer without the email the payroll
// registry requires.
var ErrMissingPayrollEmail = errors.New("trainer has no email for payroll sync")

// SyncPayrollInput carries input for the payroll sync orchestrator.
type SyncPayrollInput struct {
	TrainerID string
	// UserType is the provider access level for the employee; empty
	// skips the field.
	UserType string
}

// SyncPayrollDeps holds dependencies for SyncPayroll.
type SyncPayrollDeps struct {
	TrainerStore trainerStore.Store
	Payroll      payroll.Client
	Now          func() time.Time
}

// ExecuteSyncPayroll mirrors a trainer into the payroll system's employee
// registry and stores the external employee id.
// PRE: trainer has an email; caller is an administrator
// POST: employee created or updated at the provider; stale stored ids are
// cleared and the employee recreated
// INVARIANT: when a national id is sent, the date of birth sent with it is
// always the one derived from that id
func ExecuteSyncPayroll(ctx context.Context, input SyncPayrollInput, deps SyncPayrollDeps) (int64, error) {
	t, err := deps.TrainerStore.GetByID(ctx, input.TrainerID)
	if err != nil {
		return 0, err
	}
	if t.Email == "" {
		return 0, ErrMissingPayrollEmail
	}

	emp := buildPayrollEmployee(t, input.UserType)

	var employeeID int64
	if t.PayrollEmployeeID != 0 {
		employeeID, err = deps.Payroll.UpdateEmployee(ctx, t.PayrollEmployeeID, emp)
		if errors.Is(err, payroll.ErrEmployeeNotFound) {
			slog.Info("payroll_employee_stale", "trainer_id", t.ID, "employee_id", t.PayrollEmployeeID)
			t.PayrollEmployeeID = 0
			employeeID = 0
			err = nil
		}
		if err != nil {
			return 0, err
		}
	}
	if employeeID == 0 {
		employeeID, err = deps.Payroll.CreateEmployee(ctx, emp)
		if err != nil {
			return 0, err
		}
	}

	t.PayrollEmployeeID = employeeID
	t.UpdatedAt = deps.Now()
	if err := deps.TrainerStore.Save(ctx, t); err != nil {
		return 0, err
	}

	slog.Info("payroll_synced", "trainer_id", t.ID, "employee_id", employeeID)
	return employeeID, nil
}

// buildPayrollEmployee maps a trainer profile to the provider's employee
// payload, applying the provider's field length limits.
func buildPayrollEmployee(t trainerDomain.Trainer, userType string) payroll.Employee {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		name = "Unknown"
	}
	parts := strings.Fields(name)
	firstName := clip(parts[0], 50)
	lastName := clip(strings.Join(parts[1:], " "), 50)
	if lastName == "" {
		lastName = firstName
	}

	emp := payroll.Employee{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        clip(t.Email, 100),
		AddressLine1: clip(orDash(t.Street), 100),
		AddressLine2: clip(t.Street2, 100),
		PostalCode:   clip(orDefault(t.Zip, "0"), 10),
		City:         clip(orDash(t.City), 100),
	}
	if t.BankAccountNumber != "" {
		emp.BankAccountNumber = clip(strings.ReplaceAll(t.BankAccountNumber, " ", ""), 30)
	}

	digits := trainerDomain.NormalizeNationalID(t.NationalID)
	if len(digits) == 11 {
		emp.NationalID = digits
		emp.DateOfBirth = trainerDomain.BirthdateFromNationalID(digits)
	}
	if emp.DateOfBirth == "" && t.Birthdate != "" {
		emp.DateOfBirth = t.Birthdate
	}

	switch userType {
	case "STANDARD", "EXTENDED", "NO_ACCESS":
		emp.UserType = userType
	}
	return emp
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func orDash(s string) string {
	return orDefault(s, "-")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
