package ui

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/nibzard/focusflow/internal/todo"
	"github.com/nibzard/focusflow/internal/urgency"
)

const emptyMessage = "No tasks created yet. Add one using the form above!"

// listView is the derived state of the task list for one render.
type listView struct {
	today     civil.Date
	stats     todo.Stats
	active    []todo.Task
	completed []todo.Task
}

// rows returns the selectable tasks in display order.
func (lv listView) rows(showCompleted bool) []todo.Task {
	if !showCompleted {
		return lv.active
	}
	out := make([]todo.Task, 0, len(lv.active)+len(lv.completed))
	out = append(out, lv.active...)
	return append(out, lv.completed...)
}

func buildListView(tasks []todo.Task, today civil.Date, filter urgency.Severity) listView {
	active, completed := todo.Partition(todo.FilterByUrgency(tasks, today, filter))
	return listView{
		today:     today,
		stats:     todo.Summarize(tasks),
		active:    active,
		completed: completed,
	}
}

func filterLabel(s urgency.Severity) string {
	switch s {
	case urgency.Overdue:
		return "overdue"
	case urgency.DueToday:
		return "due today or overdue"
	case urgency.WithinWeek:
		return "due within a week"
	}
	return ""
}

func (m *Model) writeList(b *strings.Builder, lv listView) {
	if lv.stats.Total == 0 {
		b.WriteString(emptyStyle.Render(emptyMessage) + "\n")
		return
	}

	b.WriteString(sectionStyle.Render("Tasks") + "\n")
	b.WriteString(fmt.Sprintf("%d of %d completed  %s\n\n",
		lv.stats.Completed, lv.stats.Total, m.progress.ViewAs(lv.stats.Progress)))

	if m.filter != urgency.None {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Filter: %s (0 to clear)", filterLabel(m.filter))) + "\n\n")
	}

	row := 0
	listFocused := m.focus == focusList
	if len(lv.active) == 0 {
		b.WriteString(mutedStyle.Render("  No matching tasks.") + "\n")
	}
	for _, t := range lv.active {
		b.WriteString(renderCard(t, lv.today, listFocused && row == m.selected) + "\n")
		row++
	}

	if len(lv.completed) == 0 {
		return
	}
	marker := "▸"
	if m.showCompleted {
		marker = "▾"
	}
	b.WriteString("\n" + sectionStyle.Render(fmt.Sprintf("%s Completed (%d)", marker, len(lv.completed))) + "\n")
	if !m.showCompleted {
		return
	}
	for _, t := range lv.completed {
		b.WriteString(renderCard(t, lv.today, listFocused && row == m.selected) + "\n")
		row++
	}
}

// renderCard renders one task on a single line: check glyph, title, due
// date with urgency badge, priority badge.
func renderCard(t todo.Task, today civil.Date, selected bool) string {
	parts := make([]string, 0, 5)
	if t.Completed {
		parts = append(parts, checkStyle.Render("✓"), doneTitleStyle.Render(t.Title))
	} else {
		parts = append(parts, "○", t.Title)
	}
	if t.Due != nil {
		parts = append(parts, mutedStyle.Render("due "+t.Due.String()))
		if badge := urgencyBadge(t.Urgency(today)); badge != "" {
			parts = append(parts, badge)
		}
	}
	parts = append(parts, priorityBadge(t.Priority))

	line := strings.Join(parts, " ")
	if selected {
		return selectedCardStyle.Render(line)
	}
	return cardStyle.Render(line)
}
