package hooks

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nibzard/focusflow/internal/todo"
)

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	Options
	// Workers bounds concurrent hook processes. Values below 1 mean 1.
	Workers int
	// Events limits which event kinds run the hook; empty means all.
	Events []string
	Logger *log.Logger
	// OnResult is called after every invocation, from the worker goroutine.
	OnResult func(Result, error)
}

// Runner invokes the hook for store events without blocking the store.
type Runner struct {
	opts      RunnerOptions
	events    map[todo.EventKind]bool
	semaphore chan struct{}
	logger    *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewRunner creates a runner. Cancelling ctx kills running hooks.
func NewRunner(ctx context.Context, opts RunnerOptions) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var events map[todo.EventKind]bool
	if len(opts.Events) > 0 {
		events = make(map[todo.EventKind]bool, len(opts.Events))
		for _, e := range opts.Events {
			events[todo.EventKind(e)] = true
		}
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Runner{
		opts:      opts,
		events:    events,
		semaphore: make(chan struct{}, opts.Workers),
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Observe schedules the hook for e and returns immediately.
func (r *Runner) Observe(e todo.Event) {
	if r.opts.Command == "" {
		return
	}
	if r.events != nil && !r.events[e.Kind] {
		return
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()

		select {
		case r.semaphore <- struct{}{}:
			defer func() { <-r.semaphore }()
		case <-r.ctx.Done():
			return
		}

		result, err := Invoke(r.ctx, r.opts.Options, e)
		if err != nil {
			r.logger.Warn("Hook failed", "event", e.Kind, "task_id", e.Task.ID, "exit_code", result.ExitCode, "err", err)
		} else {
			r.logger.Debug("Hook ran", "event", e.Kind, "task_id", e.Task.ID)
		}
		if r.opts.OnResult != nil {
			r.opts.OnResult(result, err)
		}
	}()
}

// Close stops accepting events and waits for outstanding hooks.
func (r *Runner) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.wg.Wait()
	r.cancel()
	return nil
}

// Abort cancels running hooks and waits for them to exit.
func (r *Runner) Abort() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cancel()
	r.wg.Wait()
}
