package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nibzard/focusflow/internal/config"
	"github.com/nibzard/focusflow/internal/hooks"
	"github.com/nibzard/focusflow/internal/logging"
	"github.com/nibzard/focusflow/internal/metrics"
	"github.com/nibzard/focusflow/internal/notify"
	"github.com/nibzard/focusflow/internal/todo"
	"github.com/nibzard/focusflow/internal/urgency"
)

// consoleLogFile receives console logs while the TUI owns the terminal.
const consoleLogFile = "focusflow.log"

// session owns one task store and everything observing it.
type session struct {
	logger  *log.Logger
	store   *todo.Store
	journal *logging.Journal
	hooks   *hooks.Runner
	metrics *metrics.Metrics
	closers []io.Closer
}

type sessionOptions struct {
	sink        notify.Sink
	logger      *log.Logger
	withMetrics bool
	// submitter overrides the configured simulated backend.
	submitter todo.Submitter
}

func newLogger(cfg *config.Config, w io.Writer) *log.Logger {
	return logging.NewConsole(w, logging.ConsoleOptionsFromStrings(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller))
}

// openLogFile opens <log_dir>/focusflow.log for appending.
func openLogFile(cfg *config.Config) (*os.File, error) {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(cfg.LogDir, consoleLogFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// openSession builds the store and wires the journal, hook runner and
// metrics as observers, then loads the seed file if one is configured.
func openSession(ctx context.Context, cfg *config.Config, opts sessionOptions) (*session, error) {
	logger := opts.logger
	if logger == nil {
		logger = newLogger(cfg, stderr)
	}
	s := &session{logger: logger}

	storeOpts := []todo.Option{
		todo.WithLimits(cfg.Limits()),
		todo.WithDurations(cfg.Durations()),
		todo.WithLogger(logger),
	}
	if opts.submitter != nil {
		storeOpts = append(storeOpts, todo.WithSubmitter(opts.submitter))
	} else {
		storeOpts = append(storeOpts, todo.WithSubmitter(cfg.Submitter()))
	}
	debugSink := notify.SinkFunc(func(n notify.Notification) {
		logger.Debug("Notification", "severity", n.Severity, "message", n.Message)
	})
	storeOpts = append(storeOpts, todo.WithSink(notify.Multi{opts.sink, debugSink}))

	if cfg.Journal {
		j, err := logging.NewJournal(cfg.LogDir, cfg.ProjectRoot)
		if err != nil {
			return nil, fmt.Errorf("opening journal: %w", err)
		}
		j.Logger = logger
		s.journal = j
		s.closers = append(s.closers, j)
		storeOpts = append(storeOpts, todo.WithObserver(j))
		logger.Debug("Journal opened", "path", j.LogPath, "session", j.SessionID)
	}

	if cfg.HookCommand != "" {
		out := logger.StandardLog().Writer()
		s.hooks = hooks.NewRunner(ctx, hooks.RunnerOptions{
			Options: hooks.Options{
				Command: cfg.HookCommand,
				WorkDir: cfg.ProjectRoot,
				Stdout:  out,
				Stderr:  out,
			},
			Workers: cfg.HookWorkers,
			Events:  cfg.HookEvents,
			Logger:  logger,
			OnResult: func(r hooks.Result, err error) {
				if err != nil {
					logger.Warn("Hook failed", "kind", r.Event, "task_id", r.TaskID, "exit_code", r.ExitCode, "err", err)
					return
				}
				logger.Debug("Hook finished", "kind", r.Event, "task_id", r.TaskID)
			},
		})
		storeOpts = append(storeOpts, todo.WithObserver(s.hooks))
	}

	if opts.withMetrics {
		s.metrics = metrics.New()
		storeOpts = append(storeOpts, todo.WithObserver(s.metrics))
	}

	s.store = todo.NewStore(storeOpts...)
	if s.metrics != nil {
		s.metrics.TrackStore(s.store)
	}

	if cfg.SeedFile != "" {
		entries, err := todo.LoadSeed(cfg.SeedFile, urgency.Today(s.store.Now()))
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("loading seed file: %w", err)
		}
		if _, err := s.store.Seed(entries...); err != nil {
			s.Close()
			return nil, fmt.Errorf("seeding store: %w", err)
		}
		logger.Info("Seeded tasks", "count", len(entries), "file", cfg.SeedFile)
	}
	return s, nil
}

// Close waits for outstanding hooks, then closes the journal.
func (s *session) Close() error {
	var errs []error
	if s.hooks != nil {
		if err := s.hooks.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
