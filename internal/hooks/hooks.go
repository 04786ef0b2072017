// Package hooks runs an external command for task events.
package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/nibzard/focusflow/internal/notify"
	"github.com/nibzard/focusflow/internal/todo"
)

// Options configures a hook invocation.
type Options struct {
	Command string
	WorkDir string
	Stdout  io.Writer
	Stderr  io.Writer
	// Timeout bounds a single invocation; zero means no limit.
	Timeout time.Duration
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
	Event    todo.EventKind
	TaskID   int
	Severity notify.Severity
}

// Payload is the JSON document written to the hook's stdin.
type Payload struct {
	Event        todo.EventKind      `json:"event"`
	Task         todo.Task           `json:"task"`
	Notification notify.Notification `json:"notification"`
	At           time.Time           `json:"at"`
	Error        string              `json:"error,omitempty"`
}

// NewPayload converts a store event.
func NewPayload(e todo.Event) Payload {
	p := Payload{
		Event:        e.Kind,
		Task:         e.Task,
		Notification: e.Notification,
		At:           e.At,
	}
	if e.Err != nil {
		p.Error = e.Err.Error()
	}
	return p
}

// Invoke runs the hook command as `<command> <event> <task-id> <severity>`
// with the event payload on stdin.
func Invoke(ctx context.Context, opts Options, e todo.Event) (Result, error) {
	if opts.Command == "" {
		return Result{}, nil
	}

	body, err := json.Marshal(NewPayload(e))
	if err != nil {
		return Result{}, fmt.Errorf("encode hook payload: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	args := []string{string(e.Kind), strconv.Itoa(e.Task.ID), string(e.Notification.Severity)}
	cmd := exec.CommandContext(ctx, opts.Command, args...)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Stdin = bytes.NewReader(append(body, '\n'))
	cmd.Stdout = orDefault(opts.Stdout, os.Stdout)
	cmd.Stderr = orDefault(opts.Stderr, os.Stderr)

	err = cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
		Event:    e.Kind,
		TaskID:   e.Task.ID,
		Severity: e.Notification.Severity,
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

func orDefault(w, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
