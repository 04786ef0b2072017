package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/focusflow/internal/todo"
	"github.com/nibzard/focusflow/internal/urgency"
)

type field int

const (
	fieldTitle field = iota
	fieldDue
	fieldPriority
	fieldCount
)

// form is the task input form: title, optional due date and priority.
type form struct {
	title    textinput.Model
	due      textinput.Model
	priority todo.Priority
	focus    field
	limits   todo.Limits
	err      string
}

func newForm(limits todo.Limits) form {
	title := textinput.New()
	title.Placeholder = "Enter task title..."
	title.Prompt = ""
	if limits.MaxTitle > 0 {
		title.CharLimit = limits.MaxTitle
	}

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD (optional)"
	due.Prompt = ""
	due.CharLimit = len("2006-01-02")

	return form{
		title:    title,
		due:      due,
		priority: todo.PriorityMedium,
		limits:   limits,
	}
}

// focusField moves the cursor to fl and returns the blink command.
func (f *form) focusField(fl field) tea.Cmd {
	f.focus = fl
	f.title.Blur()
	f.due.Blur()
	switch fl {
	case fieldTitle:
		return f.title.Focus()
	case fieldDue:
		return f.due.Focus()
	}
	return nil
}

func (f *form) blur() {
	f.title.Blur()
	f.due.Blur()
}

func (f *form) next(step int) tea.Cmd {
	fl := (int(f.focus) + step + int(fieldCount)) % int(fieldCount)
	return f.focusField(field(fl))
}

// reset restores the empty form with Medium priority.
func (f *form) reset() {
	f.title.Reset()
	f.due.Reset()
	f.priority = todo.PriorityMedium
	f.err = ""
}

// update forwards a key to the focused field. Editing clears the error.
func (f *form) update(msg tea.KeyMsg, keys KeyMap) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		before := f.title.Value()
		f.title, cmd = f.title.Update(msg)
		if f.title.Value() != before {
			f.err = ""
		}
	case fieldDue:
		before := f.due.Value()
		f.due, cmd = f.due.Update(msg)
		if f.due.Value() != before {
			f.err = ""
		}
	case fieldPriority:
		if key.Matches(msg, keys.CyclePriority) {
			f.priority = f.priority.Next()
			f.err = ""
		}
	}
	return cmd
}

// draft validates the form. The due date may not be before today, although
// the store itself accepts past dates.
func (f *form) draft(today civil.Date) (todo.Draft, error) {
	d := todo.Draft{Title: f.title.Value(), Priority: f.priority}
	if _, err := f.limits.ValidateTitle(d.Title); err != nil {
		return todo.Draft{}, err
	}
	due, err := urgency.ParseDate(f.due.Value())
	if err != nil {
		return todo.Draft{}, &todo.ValidationError{
			Path:    "dueDate",
			Err:     err,
			Message: "Due date must be YYYY-MM-DD",
		}
	}
	if due != nil && due.Before(today) {
		return todo.Draft{}, &todo.ValidationError{
			Path:    "dueDate",
			Err:     fmt.Errorf("%s is before %s", due, today),
			Message: "Due date cannot be in the past",
		}
	}
	d.Due = due
	return f.limits.Validate(d)
}

func (f *form) view(focused, submitting bool) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Create New Task") + "\n\n")

	if f.err != "" {
		b.WriteString(errorStyle.Render(f.err) + "\n\n")
	}

	label := func(fl field, text string) string {
		if focused && f.focus == fl && !submitting {
			return activeLabelStyle.Render(text)
		}
		return labelStyle.Render(text)
	}

	b.WriteString(label(fieldTitle, "Title*") + f.title.View() + "\n")
	counter := fmt.Sprintf("%d", utf8.RuneCountInString(f.title.Value()))
	if f.limits.MaxTitle > 0 {
		counter += fmt.Sprintf("/%d", f.limits.MaxTitle)
	}
	b.WriteString(labelStyle.Render("") + mutedStyle.Render(counter) + "\n")
	b.WriteString(label(fieldDue, "Due") + f.due.View() + "\n")
	b.WriteString(label(fieldPriority, "Priority") + priorityBadge(f.priority) + "\n\n")

	if submitting {
		b.WriteString(mutedStyle.Render("Creating...") + "\n")
	} else {
		b.WriteString(mutedStyle.Render("enter: Create Task  ctrl+l: Clear") + "\n")
	}
	return b.String()
}
