package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"

	"github.com/nibzard/focusflow/internal/urgency"
)

// Priority is a task's importance.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority parses a priority name. Empty input yields PriorityMedium.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("%w %q, must be one of: low, medium, high", ErrInvalidPriority, s)
}

// Label returns the display label.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityHigh:
		return "High"
	default:
		return "Medium"
	}
}

// Next cycles low -> medium -> high -> low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium, "":
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// Task is a single to-do item.
type Task struct {
	ID        int         `json:"id"`
	Title     string      `json:"title"`
	Due       *civil.Date `json:"dueDate,omitempty"`
	Priority  Priority    `json:"priority"`
	Completed bool        `json:"completed"`
	CreatedAt time.Time   `json:"createdAt"`
}

// IsZero returns true if the task has not been assigned an ID.
func (t *Task) IsZero() bool {
	return t.ID == 0
}

// Urgency classifies the task's due date against today.
func (t Task) Urgency(today civil.Date) urgency.Urgency {
	return urgency.Classify(t.Due, today)
}

// Draft is the input to Create.
type Draft struct {
	Title    string
	Due      *civil.Date
	Priority Priority
}

// Default title limits.
const (
	DefaultMinTitle = 3
	DefaultMaxTitle = 100
)

// Limits bounds the trimmed title length, counted in runes.
type Limits struct {
	MinTitle int
	MaxTitle int
}

// DefaultLimits returns the stock title limits.
func DefaultLimits() Limits {
	return Limits{MinTitle: DefaultMinTitle, MaxTitle: DefaultMaxTitle}
}

// ValidateTitle trims title and checks it against the limits.
func (l Limits) ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	n := utf8.RuneCountInString(trimmed)
	switch {
	case n == 0:
		return "", &ValidationError{
			Path:    "title",
			Err:     ErrTitleRequired,
			Message: "Task title is required",
		}
	case n < l.MinTitle:
		return "", &ValidationError{
			Path:    "title",
			Err:     ErrTitleTooShort,
			Message: fmt.Sprintf("Task title must be at least %d characters long", l.MinTitle),
		}
	case l.MaxTitle > 0 && n > l.MaxTitle:
		return "", &ValidationError{
			Path:    "title",
			Err:     ErrTitleTooLong,
			Message: fmt.Sprintf("Task title must be at most %d characters long", l.MaxTitle),
		}
	}
	return trimmed, nil
}

// Validate checks a draft and returns a normalized copy.
func (l Limits) Validate(d Draft) (Draft, error) {
	title, err := l.ValidateTitle(d.Title)
	if err != nil {
		return Draft{}, err
	}
	priority, err := ParsePriority(string(d.Priority))
	if err != nil {
		return Draft{}, &ValidationError{Path: "priority", Err: err, Message: "Invalid priority"}
	}
	out := Draft{Title: title, Priority: priority}
	if d.Due != nil {
		due := *d.Due
		if !due.IsValid() {
			return Draft{}, &ValidationError{
				Path:    "dueDate",
				Err:     fmt.Errorf("invalid date %v", due),
				Message: "Invalid due date",
			}
		}
		out.Due = &due
	}
	return out, nil
}

var (
	ErrTitleRequired   = errors.New("title required")
	ErrTitleTooShort   = errors.New("minimum length")
	ErrTitleTooLong    = errors.New("maximum length")
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrNotFound matches any *NotFoundError.
	ErrNotFound = errors.New("task not found")
	// ErrCreateInFlight is returned when a Create is already outstanding.
	ErrCreateInFlight = errors.New("a task is already being created")
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path    string // field or JSON path of the offending value
	Err     error  // underlying error
	Message string // user-facing text, may be empty
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text to show next to the form.
func (e *ValidationError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error()
}

// SubmissionError reports a failure of the asynchronous creation step.
type SubmissionError struct {
	Title string
	Err   error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("create task %q: %s", e.Title, e.Err)
}

// Unwrap returns the underlying error.
func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text to show next to the form.
func (e *SubmissionError) UserMessage() string {
	if e.Err == nil {
		return "Failed to create task"
	}
	return "Failed to create task: " + e.Err.Error()
}

// NotFoundError reports an unknown task ID.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %d not found", e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// UserMessage extracts display text from errors returned by this package.
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.UserMessage()
	}
	var se *SubmissionError
	if errors.As(err, &se) {
		return se.UserMessage()
	}
	if errors.Is(err, ErrCreateInFlight) {
		return "A task is already being created"
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
