// Package stats holds the numeric helpers behind the statistics views.
package stats

import (
	"regexp"
	"time"
)

var digitRuns = regexp.MustCompile(`\d+`)

// ParseMeters extracts every digit run from a free-text meters field and
// sums them. Coaches write "5150/4850" for split groups, which should read
// as 10000 total. Multiplication forms are not interpreted: "3x1000" sums
// to 1003, which matches how the field has always been aggregated.
// POST: Returns 0 when the text contains no digits
func ParseMeters(text string) int {
	total := 0
	for _, run := range digitRuns.FindAllString(text, -1) {
		n := 0
		for _, c := range run {
			n = n*10 + int(c-'0')
		}
		total += n
	}
	return total
}

// MondayOfWeek returns the Monday of the week containing date, as a
// YYYY-MM-DD string. Dates are bucketed in local time so a Sunday session
// lands in the same week as the Monday it followed.
// PRE: date is a valid YYYY-MM-DD string
// POST: Returns "" when date does not parse
func MondayOfWeek(date string) string {
	t, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return ""
	}
	// time.Weekday numbers Sunday as 0; shift so Monday is 0.
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format("2006-01-02")
}
