package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/focusflow/internal/notify"
	"github.com/nibzard/focusflow/internal/todo"
	"github.com/nibzard/focusflow/internal/urgency"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75")).Bold(true)

	labelStyle       = lipgloss.NewStyle().Width(10)
	activeLabelStyle = labelStyle.Foreground(lipgloss.Color("#7D56F4")).Bold(true)

	cardStyle         = lipgloss.NewStyle().PaddingLeft(2)
	selectedCardStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(lipgloss.Color("#7D56F4"))

	doneTitleStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#808080"))
	checkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))

	badgeStyle = lipgloss.NewStyle().Padding(0, 1)

	toastStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder())

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080")).
			Border(lipgloss.NormalBorder()).
			Padding(1, 4)
)

// priorityBadge renders Low green, Medium yellow, High red.
func priorityBadge(p todo.Priority) string {
	var fg, bg string
	switch p {
	case todo.PriorityLow:
		fg, bg = "#166534", "#DCFCE7"
	case todo.PriorityHigh:
		fg, bg = "#991B1B", "#FEE2E2"
	default:
		fg, bg = "#854D0E", "#FEF9C3"
	}
	return badgeStyle.
		Foreground(lipgloss.Color(fg)).
		Background(lipgloss.Color(bg)).
		Render(p.Label())
}

// urgencyBadge renders the status label coloured by severity. It is empty
// when no badge applies.
func urgencyBadge(u urgency.Urgency) string {
	if !u.HasBadge() {
		return ""
	}
	var fg, bg string
	switch u.Severity {
	case urgency.Overdue:
		fg, bg = "#991B1B", "#FEE2E2"
	case urgency.DueToday:
		fg, bg = "#9A3412", "#FFEDD5"
	default:
		fg, bg = "#1E40AF", "#DBEAFE"
	}
	return badgeStyle.
		Foreground(lipgloss.Color(fg)).
		Background(lipgloss.Color(bg)).
		Render(u.Status)
}

func toastBorder(s notify.Severity) lipgloss.Style {
	switch s {
	case notify.SeverityError:
		return toastStyle.BorderForeground(lipgloss.Color("#EF4444"))
	case notify.SeverityInfo:
		return toastStyle.BorderForeground(lipgloss.Color("#3B82F6"))
	default:
		return toastStyle.BorderForeground(lipgloss.Color("#22C55E"))
	}
}
