// Package payroll mirrors trainer profiles into the payroll system's
// employee registry.
package payroll

import (
	"context"
	"errors"
)

// ErrEmployeeNotFound signals that the stored employee id no longer exists
// at the provider. Callers clear the stored id and create a fresh employee.
var ErrEmployeeNotFound = errors.New("payroll employee not found")

// Employee is the payload sent to the payroll provider.
type Employee struct {
	FirstName string
	LastName  string
	Email     string

	AddressLine1 string
	AddressLine2 string
	PostalCode   string
	City         string

	BankAccountNumber string
	NationalID        string
	DateOfBirth       string // YYYY-MM-DD
	UserType          string // STANDARD, EXTENDED or NO_ACCESS
}

// Client is the interface for the payroll provider.
type Client interface {
	// CreateEmployee registers a new employee and returns its id.
	CreateEmployee(ctx context.Context, emp Employee) (int64, error)
	// UpdateEmployee updates an existing employee. Returns
	// ErrEmployeeNotFound when the id is gone at the provider.
	UpdateEmployee(ctx context.Context, employeeID int64, emp Employee) (int64, error)
}
