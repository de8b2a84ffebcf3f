package trainerlevel

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyName = errors.New("trainer level name cannot be empty")
)

// Level is a coaching certification step (the national federation's trainer
// ladder). Trainers hold any number of levels.
type Level struct {
	ID        string
	Name      string
	Sequence  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the Level has valid data.
// PRE: Level struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (l *Level) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
