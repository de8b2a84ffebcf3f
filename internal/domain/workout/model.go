package workout

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength       = 500
	MaxTotalMetersLength = 100
)

// Focus stroke constants.
const (
	StrokeCrawl     = "crawl"
	StrokeBack      = "rygg"
	StrokeBreast    = "bryst"
	StrokeButterfly = "butterfly"
	StrokeMedley    = "medley"
)

// Intensity constants.
const (
	IntensityLight    = "lett"
	IntensityModerate = "moderat"
	IntensityHigh     = "høy"
	IntensityPeak     = "topp"
)

// Strokes lists all valid focus stroke values.
var Strokes = []string{StrokeCrawl, StrokeBack, StrokeBreast, StrokeButterfly, StrokeMedley}

// Intensities lists all valid intensity values.
var Intensities = []string{IntensityLight, IntensityModerate, IntensityHigh, IntensityPeak}

// Domain errors
var (
	ErrEmptyTitle       = errors.New("session title cannot be empty")
	ErrTitleTooLong     = errors.New("session title cannot exceed 500 characters")
	ErrInvalidStroke    = errors.New("focus stroke must be one of: crawl, rygg, bryst, butterfly, medley")
	ErrInvalidIntensity = errors.New("intensity must be one of: lett, moderat, høy, topp")
)

// Session is a reusable workout in the session bank. TotalMeters is kept as
// free text because coaches write forms like "3x1000" or "5150/4850" for
// split groups; aggregation parses the digits out.
type Session struct {
	ID          string
	Title       string
	Content     string
	TotalMeters string
	FocusStroke string
	Intensity   string
	CreatedBy   string // trainer id, empty when created by an administrator
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks if the Session has valid data.
// PRE: Session struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (s *Session) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyTitle
	}
	if len(s.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if s.FocusStroke != "" && !contains(Strokes, s.FocusStroke) {
		return ErrInvalidStroke
	}
	if s.Intensity != "" && !contains(Intensities, s.Intensity) {
		return ErrInvalidIntensity
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
