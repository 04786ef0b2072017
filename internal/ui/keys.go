package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the TUI key bindings.
type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	Toggle        key.Binding
	Delete        key.Binding
	ToggleDone    key.Binding
	FocusForm     key.Binding
	NextField     key.Binding
	PrevField     key.Binding
	Submit        key.Binding
	Clear         key.Binding
	CyclePriority key.Binding
	Back          key.Binding
	FilterOverdue key.Binding
	FilterToday   key.Binding
	FilterWeek    key.Binding
	FilterClear   key.Binding
	Help          key.Binding
	Quit          key.Binding
	ForceQuit     key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "complete"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		ToggleDone: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "show/hide completed"),
		),
		FocusForm: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a", "add task"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "create task"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear form"),
		),
		CyclePriority: key.NewBinding(
			key.WithKeys(" ", "left", "right"),
			key.WithHelp("space", "cycle priority"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "to list"),
		),
		FilterOverdue: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "overdue"),
		),
		FilterToday: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "due today+"),
		),
		FilterWeek: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "this week+"),
		),
		FilterClear: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "clear filter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.FocusForm, k.Toggle, k.Delete, k.ToggleDone, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Delete, k.ToggleDone},
		{k.FocusForm, k.NextField, k.PrevField, k.Submit, k.Clear, k.CyclePriority, k.Back},
		{k.FilterOverdue, k.FilterToday, k.FilterWeek, k.FilterClear},
		{k.Help, k.Quit, k.ForceQuit},
	}
}
