// Package notify carries transient, auto-dismissing user notifications.
package notify

import (
	"encoding/json"
	"fmt"
	"time"
)

// Severity classifies a notification for display.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// DefaultDuration applies when a notification has no duration set.
const DefaultDuration = 3 * time.Second

// Notification is a single human-readable event description.
type Notification struct {
	Message  string
	Severity Severity
	Duration time.Duration
}

// Success builds a success notification.
func Success(msg string, d time.Duration) Notification {
	return Notification{Message: msg, Severity: SeveritySuccess, Duration: d}
}

// Error builds an error notification.
func Error(msg string, d time.Duration) Notification {
	return Notification{Message: msg, Severity: SeverityError, Duration: d}
}

// Info builds an info notification.
func Info(msg string, d time.Duration) Notification {
	return Notification{Message: msg, Severity: SeverityInfo, Duration: d}
}

// TTL returns the dismissal delay, falling back to DefaultDuration.
func (n Notification) TTL() time.Duration {
	if n.Duration <= 0 {
		return DefaultDuration
	}
	return n.Duration
}

type wireNotification struct {
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	DurationMs int64    `json:"durationMs"`
}

// MarshalJSON encodes the duration as integer milliseconds.
func (n Notification) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireNotification{
		Message:    n.Message,
		Severity:   n.Severity,
		DurationMs: n.Duration.Milliseconds(),
	})
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON.
func (n *Notification) UnmarshalJSON(data []byte) error {
	var w wireNotification
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Severity {
	case SeveritySuccess, SeverityError, SeverityInfo:
	default:
		return fmt.Errorf("invalid severity %q", w.Severity)
	}
	n.Message = w.Message
	n.Severity = w.Severity
	n.Duration = time.Duration(w.DurationMs) * time.Millisecond
	return nil
}

// Durations holds the display time per kind of store event.
type Durations struct {
	Created time.Duration
	Toggled time.Duration
	Deleted time.Duration
	Error   time.Duration
}

// DefaultDurations returns the stock display times.
func DefaultDurations() Durations {
	return Durations{
		Created: 3000 * time.Millisecond,
		Toggled: 2500 * time.Millisecond,
		Deleted: 2500 * time.Millisecond,
		Error:   4000 * time.Millisecond,
	}
}

// Sink receives notifications.
type Sink interface {
	Notify(Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notification)

// Notify calls f(n).
func (f SinkFunc) Notify(n Notification) {
	f(n)
}

// Multi fans a notification out to every non-nil sink in order.
type Multi []Sink

// Notify delivers n to each sink.
func (m Multi) Notify(n Notification) {
	for _, s := range m {
		if s != nil {
			s.Notify(n)
		}
	}
}

// Discard drops every notification.
var Discard Sink = SinkFunc(func(Notification) {})
