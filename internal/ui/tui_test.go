package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/focusflow/internal/notify"
	"github.com/nibzard/focusflow/internal/todo"
)

var fixedNow = time.Date(2026, time.October, 19, 9, 30, 0, 0, time.Local)

func newTestModel(t *testing.T, opts ...todo.Option) (*Model, *todo.Store) {
	t.Helper()
	base := []todo.Option{todo.WithClock(func() time.Time { return fixedNow })}
	store := todo.NewStore(append(base, opts...)...)
	return New(context.Background(), Options{Store: store}), store
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func send(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func typeText(m *Model, s string) {
	for _, r := range s {
		send(m, runes(string(r)))
	}
}

func date(t *testing.T, s string) *civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return &d
}

func seed(t *testing.T, store *todo.Store, entries ...todo.SeedEntry) {
	t.Helper()
	if _, err := store.Seed(entries...); err != nil {
		t.Fatal(err)
	}
}

func assertContains(t *testing.T, view string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(view, w) {
			t.Errorf("view missing %q:\n%s", w, view)
		}
	}
}

func assertNotContains(t *testing.T, view string, unwanted ...string) {
	t.Helper()
	for _, w := range unwanted {
		if strings.Contains(view, w) {
			t.Errorf("view unexpectedly contains %q:\n%s", w, view)
		}
	}
}

func TestEmptyState(t *testing.T) {
	m, _ := newTestModel(t)
	assertContains(t, m.View(), "Create New Task", "0/100", emptyMessage)
	assertNotContains(t, m.View(), "0 of 0")
}

func TestCreateFromForm(t *testing.T) {
	m, store := newTestModel(t)

	typeText(m, "Buy milk")
	assertContains(t, m.View(), "8/100")
	send(m, tab)
	typeText(m, "2026-10-20")
	send(m, tab, space) // Medium -> High

	cmd := send(m, enter)
	if cmd == nil {
		t.Fatal("expected a create command")
	}
	if !m.submitting {
		t.Fatal("expected submitting state")
	}
	assertContains(t, m.View(), "Creating...")

	// Input is ignored while submitting.
	send(m, space)
	if m.form.priority != todo.PriorityHigh {
		t.Errorf("priority changed while submitting: %s", m.form.priority)
	}

	send(m, cmd())
	if m.submitting {
		t.Error("submitting not cleared")
	}
	tasks := store.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("tasks: got %d, want 1", len(tasks))
	}
	got := tasks[0]
	if got.Title != "Buy milk" || got.Priority != todo.PriorityHigh || got.Due == nil || got.Due.String() != "2026-10-20" {
		t.Errorf("task: %+v", got)
	}
	if m.form.title.Value() != "" || m.form.due.Value() != "" || m.form.priority != todo.PriorityMedium {
		t.Error("form not reset after create")
	}
	assertContains(t, m.View(), "0 of 1 completed", "Buy milk", "Tomorrow", "High")
	assertNotContains(t, m.View(), emptyMessage)
}

func TestFormValidation(t *testing.T) {
	tests := []struct {
		name  string
		title string
		due   string
		want  string
	}{
		{"empty", "", "", "Task title is required"},
		{"short", "ab", "", "Task title must be at least 3 characters long"},
		{"past due", "Valid", "2026-10-18", "Due date cannot be in the past"},
		{"bad due", "Valid", "tomorrow", "Due date must be YYYY-MM-DD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store := newTestModel(t)
			typeText(m, tt.title)
			send(m, tab)
			typeText(m, tt.due)

			if cmd := send(m, enter); cmd != nil {
				t.Fatal("expected no command for invalid input")
			}
			if m.submitting {
				t.Error("submitting set for invalid input")
			}
			assertContains(t, m.View(), tt.want)
			if store.Len() != 0 {
				t.Error("store changed")
			}

			// Editing clears the error.
			send(m, tab, tab)
			typeText(m, "x")
			if m.form.err != "" {
				t.Errorf("error not cleared: %q", m.form.err)
			}
		})
	}
}

func TestDueTodayAccepted(t *testing.T) {
	m, store := newTestModel(t)
	typeText(m, "Today task")
	send(m, tab)
	typeText(m, "2026-10-19")
	cmd := send(m, enter)
	if cmd == nil {
		t.Fatalf("expected create, form error %q", m.form.err)
	}
	send(m, cmd())
	if store.Len() != 1 {
		t.Fatal("task not created")
	}
}

func TestSubmissionFailureKeepsInput(t *testing.T) {
	m, store := newTestModel(t, todo.WithSubmitter(todo.SubmitterFunc(func(context.Context, todo.Draft) error {
		return todo.ErrBackendUnavailable
	})))
	typeText(m, "Doomed")
	cmd := send(m, enter)
	send(m, cmd())

	if store.Len() != 0 {
		t.Error("failed create must not add a task")
	}
	if m.form.title.Value() != "Doomed" {
		t.Errorf("title lost: %q", m.form.title.Value())
	}
	assertContains(t, m.View(), "Failed to create task")
}

func TestClearForm(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, "ab")
	send(m, enter)
	send(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.form.title.Value() != "" || m.form.err != "" {
		t.Errorf("form not cleared: %q %q", m.form.title.Value(), m.form.err)
	}
}

func TestListToggleDeleteAndCompletedGroup(t *testing.T) {
	m, store := newTestModel(t)
	seed(t, store,
		todo.SeedEntry{Draft: todo.Draft{Title: "Older task"}},
		todo.SeedEntry{Draft: todo.Draft{Title: "Newer task"}},
	)
	send(m, esc)

	// Newest first; toggle it.
	send(m, space)
	view := m.View()
	assertContains(t, view, "1 of 2 completed", "▸ Completed (1)", "Older task")
	assertNotContains(t, view, "Newer task")

	send(m, runes("c"))
	assertContains(t, m.View(), "▾ Completed (1)", "Newer task", "✓")

	// Rows are now [Older task, Newer task]; delete the completed one.
	send(m, runes("j"), runes("d"))
	tasks := store.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Older task" {
		t.Fatalf("tasks after delete: %+v", tasks)
	}
	if m.selected != 0 {
		t.Errorf("selection not clamped: %d", m.selected)
	}
	assertNotContains(t, m.View(), "Completed (")
}

func TestUrgencyFilter(t *testing.T) {
	m, store := newTestModel(t)
	seed(t, store,
		todo.SeedEntry{Draft: todo.Draft{Title: "Late report", Due: date(t, "2026-10-10")}},
		todo.SeedEntry{Draft: todo.Draft{Title: "Dentist", Due: date(t, "2026-10-19")}},
		todo.SeedEntry{Draft: todo.Draft{Title: "Groceries", Due: date(t, "2026-10-23")}},
		todo.SeedEntry{Draft: todo.Draft{Title: "Someday"}},
	)
	send(m, esc)

	tests := []struct {
		key     string
		label   string
		visible []string
		hidden  []string
	}{
		{"1", "Filter: overdue", []string{"Late report"}, []string{"Dentist", "Groceries", "Someday"}},
		{"2", "Filter: due today or overdue", []string{"Late report", "Dentist"}, []string{"Groceries", "Someday"}},
		{"3", "Filter: due within a week", []string{"Late report", "Dentist", "Groceries"}, []string{"Someday"}},
		{"0", "", []string{"Late report", "Dentist", "Groceries", "Someday"}, []string{"Filter:"}},
	}
	for _, tt := range tests {
		send(m, runes(tt.key))
		view := m.View()
		if tt.label != "" {
			assertContains(t, view, tt.label)
		}
		assertContains(t, view, tt.visible...)
		assertNotContains(t, view, tt.hidden...)
		assertContains(t, view, "0 of 4 completed")
	}
}

func TestUrgencyBadges(t *testing.T) {
	m, store := newTestModel(t)
	seed(t, store,
		todo.SeedEntry{Draft: todo.Draft{Title: "Late report", Due: date(t, "2026-10-10")}},
		todo.SeedEntry{Draft: todo.Draft{Title: "Dentist", Due: date(t, "2026-10-19")}},
		todo.SeedEntry{Draft: todo.Draft{Title: "Groceries", Due: date(t, "2026-10-23")}},
	)
	assertContains(t, m.View(), "Overdue", "Today", "4 days", "due 2026-10-23")
}

func TestUrgencyFollowsClock(t *testing.T) {
	now := fixedNow
	store := todo.NewStore(todo.WithClock(func() time.Time { return now }))
	m := New(context.Background(), Options{Store: store})
	seed(t, store, todo.SeedEntry{Draft: todo.Draft{Title: "Dentist", Due: date(t, "2026-10-20")}})
	assertContains(t, m.View(), "Tomorrow")

	now = now.Add(48 * time.Hour)
	send(m, tickMsg(now))
	assertContains(t, m.View(), "Overdue")
}

func TestToastSupersedeAndExpire(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, notificationMsg(notify.Success(`Task "A" created`, time.Second)))
	send(m, notificationMsg(notify.Info(`Task "A" deleted`, time.Second)))
	assertContains(t, m.View(), `Task "A" deleted`)
	assertNotContains(t, m.View(), `Task "A" created`)

	send(m, toastExpiredMsg{gen: 1})
	if m.toast == nil {
		t.Fatal("stale timer dismissed the newer toast")
	}
	send(m, toastExpiredMsg{gen: 2})
	if m.toast != nil {
		t.Fatal("toast not dismissed")
	}
}

func TestNotificationsFromStore(t *testing.T) {
	ch := notify.NewChannel(4)
	store := todo.NewStore(todo.WithSink(ch), todo.WithClock(func() time.Time { return fixedNow }))
	m := New(context.Background(), Options{Store: store, Notifications: ch.C()})

	if _, err := store.Create(context.Background(), todo.Draft{Title: "Buy milk"}); err != nil {
		t.Fatal(err)
	}
	msg := waitForNotification(ch.C())()
	send(m, msg)
	assertContains(t, m.View(), `Task "Buy milk" created`)
}

func TestHelpAndQuit(t *testing.T) {
	m, _ := newTestModel(t)

	// In the form, q is text.
	send(m, runes("q"))
	if m.form.title.Value() != "q" {
		t.Fatalf("title: got %q", m.form.title.Value())
	}

	send(m, esc, runes("?"))
	assertContains(t, m.View(), "Keyboard Shortcuts")
	send(m, esc)
	assertNotContains(t, m.View(), "Keyboard Shortcuts")

	cmd := send(m, runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}
