package todo

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/focusflow/internal/notify"
)

// Store is the authoritative task collection for one session.
type Store struct {
	// emitMu serializes mutate-then-notify so sinks and observers see
	// events in mutation order. It is taken before mu and held while the
	// sink runs; sinks may read the store but must not mutate it.
	emitMu   sync.Mutex
	mu       sync.Mutex
	tasks    []Task // newest first
	lastID   int
	inFlight bool

	limits    Limits
	submitter Submitter
	sink      notify.Sink
	observers []Observer
	durations notify.Durations
	now       func() time.Time
	logger    *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLimits sets the title limits.
func WithLimits(l Limits) Option {
	return func(s *Store) {
		s.limits = l
	}
}

// WithSubmitter sets the asynchronous creation step.
func WithSubmitter(sub Submitter) Option {
	return func(s *Store) {
		s.submitter = sub
	}
}

// WithSink sets where notifications go.
func WithSink(sink notify.Sink) Option {
	return func(s *Store) {
		s.sink = sink
	}
}

// WithObserver adds an event observer.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		s.observers = append(s.observers, o)
	}
}

// WithDurations sets notification display times.
func WithDurations(d notify.Durations) Option {
	return func(s *Store) {
		s.durations = d
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		limits:    DefaultLimits(),
		submitter: LatencySubmitter{},
		sink:      notify.Discard,
		durations: notify.DefaultDurations(),
		now:       time.Now,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limits returns the title limits in effect.
func (s *Store) Limits() Limits {
	return s.limits
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Create validates d, runs the submitter and, on success, prepends the new
// task. Validation failures return a *ValidationError without touching the
// collection; submitter failures return a *SubmissionError and notify the
// sink with an error.
func (s *Store) Create(ctx context.Context, d Draft) (Task, error) {
	draft, err := s.limits.Validate(d)
	if err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return Task{}, ErrCreateInFlight
	}
	s.inFlight = true
	s.mu.Unlock()

	s.logger.Debug("Submitting task", "title", draft.Title, "priority", draft.Priority)
	err = s.submitter.Submit(ctx, draft)

	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	if err != nil {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()

		serr := &SubmissionError{Title: draft.Title, Err: err}
		s.logger.Warn("Task submission failed", "title", draft.Title, "err", err)
		s.emit(Event{
			Kind:         EventFailed,
			Task:         Task{Title: draft.Title, Due: draft.Due, Priority: draft.Priority},
			Notification: failedNotification(draft.Title, s.durations),
			Err:          serr,
		})
		return Task{}, serr
	}

	s.mu.Lock()
	task := s.commitLocked(draft, false)
	s.inFlight = false
	s.mu.Unlock()

	s.logger.Info("Task created", "task_id", task.ID, "title", task.Title)
	s.emit(Event{Kind: EventCreated, Task: task, Notification: createdNotification(task, s.durations)})
	return task, nil
}

// SeedEntry is a pre-validated task for Seed.
type SeedEntry struct {
	Draft
	Completed bool
}

// Seed inserts entries in order, as if each had been created in turn, without
// running the submitter or notifying the sink. Either every entry is inserted
// or none is.
func (s *Store) Seed(entries ...SeedEntry) ([]Task, error) {
	drafts := make([]Draft, len(entries))
	for i, e := range entries {
		d, err := s.limits.Validate(e.Draft)
		if err != nil {
			return nil, err
		}
		drafts[i] = d
	}

	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	s.mu.Lock()
	seeded := make([]Task, len(drafts))
	for i, d := range drafts {
		seeded[i] = s.commitLocked(d, entries[i].Completed)
	}
	s.mu.Unlock()

	for _, t := range seeded {
		s.emitObservers(Event{Kind: EventSeeded, Task: t, At: s.now()})
	}
	s.logger.Debug("Seeded tasks", "count", len(seeded))
	return seeded, nil
}

// Toggle flips the completion flag of the task with the given id.
func (s *Store) Toggle(id int) (Task, error) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return Task{}, &NotFoundError{ID: id}
	}
	before := s.tasks[i]
	s.tasks[i].Completed = !before.Completed
	after := s.tasks[i]
	s.mu.Unlock()

	s.logger.Info("Task toggled", "task_id", id, "completed", after.Completed)
	s.emit(Event{Kind: EventToggled, Task: after, Notification: toggledNotification(before, s.durations)})
	return after, nil
}

// Delete removes the task with the given id and returns it.
func (s *Store) Delete(id int) (Task, error) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return Task{}, &NotFoundError{ID: id}
	}
	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.mu.Unlock()

	s.logger.Info("Task deleted", "task_id", id, "title", removed.Title)
	s.emit(Event{Kind: EventDeleted, Task: removed, Notification: deletedNotification(removed, s.durations)})
	return removed, nil
}

// Tasks returns a snapshot of the collection, newest first.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns a task by ID.
func (s *Store) Get(id int) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Submitting reports whether a Create is in flight.
func (s *Store) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

func (s *Store) commitLocked(d Draft, completed bool) Task {
	s.lastID++
	task := Task{
		ID:        s.lastID,
		Title:     d.Title,
		Due:       d.Due,
		Priority:  d.Priority,
		Completed: completed,
		CreatedAt: s.now(),
	}
	s.tasks = append([]Task{task}, s.tasks...)
	return task
}

func (s *Store) indexLocked(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) emit(e Event) {
	if e.At.IsZero() {
		e.At = s.now()
	}
	if s.sink != nil {
		s.sink.Notify(e.Notification)
	}
	s.emitObservers(e)
}

func (s *Store) emitObservers(e Event) {
	for _, o := range s.observers {
		o.Observe(e)
	}
}
