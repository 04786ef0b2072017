package todo

import (
	"cloud.google.com/go/civil"

	"github.com/nibzard/focusflow/internal/urgency"
)

// Stats aggregates a snapshot.
type Stats struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Active    int     `json:"active"`
	Progress  float64 `json:"progress"`
}

// Summarize counts tasks. Progress is Completed/Total, or 0 when empty.
func Summarize(tasks []Task) Stats {
	st := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			st.Completed++
		}
	}
	st.Active = st.Total - st.Completed
	if st.Total > 0 {
		st.Progress = float64(st.Completed) / float64(st.Total)
	}
	return st
}

// Partition splits tasks into active and completed groups, keeping order.
func Partition(tasks []Task) (active, completed []Task) {
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			active = append(active, t)
		}
	}
	return active, completed
}

// FilterByUrgency keeps tasks at least as urgent as min. With min == None
// every task is kept.
func FilterByUrgency(tasks []Task, today civil.Date, min urgency.Severity) []Task {
	if min == urgency.None {
		return tasks
	}
	var out []Task
	for _, t := range tasks {
		if urgency.AtLeast(t.Urgency(today), min) {
			out = append(out, t)
		}
	}
	return out
}

// View is a task together with its urgency for a given day.
type View struct {
	Task
	Urgency urgency.Urgency `json:"urgency"`
}

// Views classifies each task against today.
func Views(tasks []Task, today civil.Date) []View {
	out := make([]View, len(tasks))
	for i, t := range tasks {
		out[i] = View{Task: t, Urgency: t.Urgency(today)}
	}
	return out
}
