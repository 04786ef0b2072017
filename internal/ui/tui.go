// Package ui provides the terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/focusflow/internal/notify"
	"github.com/nibzard/focusflow/internal/todo"
	"github.com/nibzard/focusflow/internal/urgency"
)

// Options configures the TUI.
type Options struct {
	Store *todo.Store
	// Notifications delivers store notifications, typically from a
	// notify.Channel wired as the store's sink.
	Notifications <-chan notify.Notification
	// Clock defaults to the store's clock.
	Clock  func() time.Time
	Logger *log.Logger
	// TickInterval is how often urgency is re-rendered without input.
	TickInterval time.Duration
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := New(ctx, opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type focusArea int

const (
	focusForm focusArea = iota
	focusList
)

// Model is the bubbletea model for the task manager.
type Model struct {
	ctx    context.Context
	store  *todo.Store
	notes  <-chan notify.Notification
	clock  func() time.Time
	logger *log.Logger

	keys     KeyMap
	help     help.Model
	progress progress.Model
	form     form

	focus         focusArea
	submitting    bool
	selected      int
	showCompleted bool
	filter        urgency.Severity
	showHelp      bool
	tickInterval  time.Duration

	toast    *notify.Notification
	toastGen uint64
}

type tickMsg time.Time

type createdMsg struct {
	task todo.Task
	err  error
}

type notificationMsg notify.Notification

type notificationsClosedMsg struct{}

type toastExpiredMsg struct {
	gen uint64
}

// New builds a model over opts.Store.
func New(ctx context.Context, opts Options) *Model {
	clock := opts.Clock
	if clock == nil {
		clock = opts.Store.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	interval := opts.TickInterval
	if interval <= 0 {
		interval = time.Minute
	}
	m := &Model{
		ctx:          ctx,
		store:        opts.Store,
		notes:        opts.Notifications,
		clock:        clock,
		logger:       logger,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		progress:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(24), progress.WithoutPercentage()),
		form:         newForm(opts.Store.Limits()),
		tickInterval: interval,
	}
	m.form.focusField(fieldTitle)
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tickCmd(m.tickInterval)}
	if m.notes != nil {
		cmds = append(cmds, waitForNotification(m.notes))
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.showHelp {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Help, m.keys.Back):
				m.showHelp = false
			}
			return m, nil
		}
		if m.focus == focusForm {
			return m, m.updateForm(msg)
		}
		return m, m.updateList(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		if w := msg.Width / 3; w > 10 {
			m.progress.Width = w
		}
		return m, nil
	case tickMsg:
		// Urgency is derived at render time; the tick only forces a redraw.
		return m, tickCmd(m.tickInterval)
	case createdMsg:
		m.submitting = false
		if msg.err != nil {
			m.form.err = todo.UserMessage(msg.err)
			return m, nil
		}
		m.form.reset()
		m.selected = 0
		m.logger.Debug("Task created from form", "task_id", msg.task.ID)
		if m.focus == focusForm {
			return m, m.form.focusField(fieldTitle)
		}
		return m, nil
	case notificationMsg:
		n := notify.Notification(msg)
		m.toast = &n
		m.toastGen++
		gen := m.toastGen
		return m, tea.Batch(
			waitForNotification(m.notes),
			tea.Tick(n.TTL(), func(time.Time) tea.Msg { return toastExpiredMsg{gen: gen} }),
		)
	case notificationsClosedMsg:
		m.notes = nil
		return m, nil
	case toastExpiredMsg:
		// A newer toast supersedes older timers.
		if msg.gen == m.toastGen {
			m.toast = nil
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		if p, ok := pm.(progress.Model); ok {
			m.progress = p
		}
		return m, cmd
	}

	if m.focus == focusForm && !m.submitting {
		var cmd tea.Cmd
		switch m.form.focus {
		case fieldTitle:
			m.form.title, cmd = m.form.title.Update(msg)
		case fieldDue:
			m.form.due, cmd = m.form.due.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.focus = focusList
		m.form.blur()
		return nil
	case m.submitting:
		// The form is disabled while a create is outstanding.
		return nil
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Clear):
		m.form.reset()
		return m.form.focusField(fieldTitle)
	case key.Matches(msg, m.keys.NextField):
		return m.form.next(1)
	case key.Matches(msg, m.keys.PrevField):
		return m.form.next(-1)
	}
	return m.form.update(msg, m.keys)
}

func (m *Model) submit() tea.Cmd {
	draft, err := m.form.draft(urgency.Today(m.clock()))
	if err != nil {
		m.form.err = todo.UserMessage(err)
		return nil
	}
	m.form.err = ""
	m.submitting = true
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		task, err := store.Create(ctx, draft)
		return createdMsg{task: task, err: err}
	}
}

func (m *Model) updateList(msg tea.KeyMsg) tea.Cmd {
	lv := m.listView()
	rows := lv.rows(m.showCompleted)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.FocusForm, m.keys.NextField):
		m.focus = focusForm
		return m.form.focusField(fieldTitle)
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(rows)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selectedTask(rows); ok {
			if _, err := m.store.Toggle(t.ID); err != nil {
				m.logger.Warn("Toggle failed", "task_id", t.ID, "err", err)
			}
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selectedTask(rows); ok {
			if _, err := m.store.Delete(t.ID); err != nil {
				m.logger.Warn("Delete failed", "task_id", t.ID, "err", err)
			}
		}
	case key.Matches(msg, m.keys.ToggleDone):
		m.showCompleted = !m.showCompleted
	case key.Matches(msg, m.keys.FilterOverdue):
		m.filter = urgency.Overdue
	case key.Matches(msg, m.keys.FilterToday):
		m.filter = urgency.DueToday
	case key.Matches(msg, m.keys.FilterWeek):
		m.filter = urgency.WithinWeek
	case key.Matches(msg, m.keys.FilterClear):
		m.filter = urgency.None
	}
	m.clampSelection()
	return nil
}

func (m *Model) selectedTask(rows []todo.Task) (todo.Task, bool) {
	if m.selected < 0 || m.selected >= len(rows) {
		return todo.Task{}, false
	}
	return rows[m.selected], true
}

func (m *Model) clampSelection() {
	n := len(m.listView().rows(m.showCompleted))
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) listView() listView {
	return buildListView(m.store.Tasks(), urgency.Today(m.clock()), m.filter)
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("FocusFlow") + "\n\n")

	if m.toast != nil {
		b.WriteString(toastBorder(m.toast.Severity).Render(m.toast.Message) + "\n\n")
	}

	if m.showHelp {
		m.help.ShowAll = true
		b.WriteString(sectionStyle.Render("Keyboard Shortcuts") + "\n\n")
		b.WriteString(m.help.View(m.keys) + "\n\n")
		b.WriteString(mutedStyle.Render("Press ? or esc to close") + "\n")
		return b.String()
	}

	b.WriteString(m.form.view(m.focus == focusForm, m.submitting))
	b.WriteString("\n")
	m.writeList(&b, m.listView())
	b.WriteString("\n")

	m.help.ShowAll = false
	b.WriteString(m.help.View(m.keys) + "\n")
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForNotification(ch <-chan notify.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return notificationsClosedMsg{}
		}
		return notificationMsg(n)
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
