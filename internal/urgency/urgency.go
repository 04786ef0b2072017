// Package urgency classifies due dates relative to the current day.
package urgency

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// WeekHorizon is the last day count that still earns a badge.
const WeekHorizon = 7

// Severity orders urgency tiers. Higher values are more urgent.
type Severity int

const (
	None Severity = iota
	WithinWeek
	DueToday
	Overdue
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case WithinWeek:
		return "within-week"
	case DueToday:
		return "today"
	case Overdue:
		return "overdue"
	default:
		return "none"
	}
}

// Compare returns -1, 0 or +1 as s is less, equally or more urgent than o.
func (s Severity) Compare(o Severity) int {
	switch {
	case s < o:
		return -1
	case s > o:
		return 1
	}
	return 0
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSeverity parses a severity name as produced by String.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "within-week", "week":
		return WithinWeek, nil
	case "today":
		return DueToday, nil
	case "overdue":
		return Overdue, nil
	}
	return None, fmt.Errorf("unknown severity %q", s)
}

// Urgency is the derived classification of a due date. It is never stored
// on a task; callers recompute it against the current day.
type Urgency struct {
	// Days is the signed calendar-day count until the due date, nil when
	// there is no due date.
	Days *int `json:"daysUntilDue,omitempty"`
	// Status is the badge label, empty when no badge applies.
	Status   string   `json:"status,omitempty"`
	Severity Severity `json:"severity"`
}

// HasBadge reports whether a status label should be displayed.
func (u Urgency) HasBadge() bool {
	return u.Status != ""
}

// Today returns the local calendar day of now.
func Today(now time.Time) civil.Date {
	return civil.DateOf(now.In(time.Local))
}

// DaysUntil returns the number of calendar days from today to due.
// Negative values mean the due date has passed.
func DaysUntil(due, today civil.Date) int {
	return due.DaysSince(today)
}

// Classify maps an optional due date to its urgency relative to today.
func Classify(due *civil.Date, today civil.Date) Urgency {
	if due == nil {
		return Urgency{}
	}
	days := DaysUntil(*due, today)
	return Urgency{
		Days:     &days,
		Status:   label(days),
		Severity: severity(days),
	}
}

func label(days int) string {
	switch {
	case days < 0:
		return "Overdue"
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days <= WeekHorizon:
		return fmt.Sprintf("%d days", days)
	}
	return ""
}

func severity(days int) Severity {
	switch {
	case days < 0:
		return Overdue
	case days == 0:
		return DueToday
	case days <= WeekHorizon:
		return WithinWeek
	}
	return None
}

// AtLeast reports whether u is at least as urgent as min.
func AtLeast(u Urgency, min Severity) bool {
	return u.Severity >= min
}

// ParseDate parses an optional YYYY-MM-DD date. Empty input yields nil
// without error.
func ParseDate(s string) (*civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return &d, nil
}
