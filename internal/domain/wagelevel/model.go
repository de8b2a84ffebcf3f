package wagelevel

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyName    = errors.New("wage level name cannot be empty")
	ErrNegativeWage = errors.New("hourly wage cannot be negative")
)

// WageLevel is a pay step trainers are assigned to. HourlyWage and
// MinimumHours feed the generated contract document.
type WageLevel struct {
	ID           string
	Name         string
	HourlyWage   float64
	MinimumHours float64
	Sequence     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks if the WageLevel has valid data.
// PRE: WageLevel struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (w *WageLevel) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrEmptyName
	}
	if w.HourlyWage < 0 {
		return ErrNegativeWage
	}
	return nil
}
