package todo

import (
	"fmt"
	"time"

	"github.com/nibzard/focusflow/internal/notify"
)

// EventKind names a store mutation.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventToggled EventKind = "toggled"
	EventDeleted EventKind = "deleted"
	EventSeeded  EventKind = "seeded"
	EventFailed  EventKind = "failed"
)

// Event describes one store mutation or failed creation. For EventFailed the
// Task carries only the submitted fields and Err is set.
type Event struct {
	Kind         EventKind
	Task         Task
	Notification notify.Notification
	At           time.Time
	Err          error
}

// Observer receives store events after the mutation is visible.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) {
	f(e)
}

func createdNotification(t Task, d notify.Durations) notify.Notification {
	return notify.Success(fmt.Sprintf(`Task "%s" created`, t.Title), d.Created)
}

// toggledNotification describes the new state using the state before the flip.
func toggledNotification(before Task, d notify.Durations) notify.Notification {
	if before.Completed {
		return notify.Success(fmt.Sprintf(`Task "%s" marked incomplete`, before.Title), d.Toggled)
	}
	return notify.Success(fmt.Sprintf(`Task "%s" completed!`, before.Title), d.Toggled)
}

func deletedNotification(t Task, d notify.Durations) notify.Notification {
	return notify.Info(fmt.Sprintf(`Task "%s" deleted`, t.Title), d.Deleted)
}

func failedNotification(title string, d notify.Durations) notify.Notification {
	return notify.Error(fmt.Sprintf(`Failed to create task "%s"`, title), d.Error)
}
