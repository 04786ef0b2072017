package logging

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/focusflow/internal/todo"
)

// Record is one line of a session journal.
type Record struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Session   string    `json:"session"`

	TaskID    int    `json:"task_id,omitempty"`
	Title     string `json:"title,omitempty"`
	Priority  string `json:"priority,omitempty"`
	DueDate   string `json:"due_date,omitempty"`
	Completed *bool  `json:"completed,omitempty"`

	Message  string `json:"message,omitempty"`
	Severity string `json:"severity,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Journal appends task events for one session to a JSONL file.
type Journal struct {
	Dir       string
	SessionID string
	LogPath   string
	// Logger receives a warning the first time Observe fails to write.
	Logger    *log.Logger

	warnOnce sync.Once
	mu       sync.Mutex
	file     *os.File
	enc      *json.Encoder
	now      func() time.Time
	closed   bool
}

// NewJournal creates the project log directory and a fresh session file.
func NewJournal(baseDir, workDir string) (*Journal, error) {
	logDir, err := FindLogDir(baseDir, workDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	sessionID := uuid.NewString()
	logPath := filepath.Join(logDir, sessionFileName(time.Now(), sessionID))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}

	j := &Journal{
		Dir:       logDir,
		SessionID: sessionID,
		LogPath:   logPath,
		file:      file,
		enc:       json.NewEncoder(file),
		now:       time.Now,
	}
	if err := j.Write(Record{Type: "session_start"}); err != nil {
		file.Close()
		return nil, err
	}
	return j, nil
}

func sessionFileName(at time.Time, sessionID string) string {
	return fmt.Sprintf("%s-%s.jsonl", at.UTC().Format("20060102-150405"), sessionID[:8])
}

// Write appends a record, filling in the timestamp and session.
func (j *Journal) Write(r Record) error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return os.ErrClosed
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = j.now()
	}
	r.Session = j.SessionID
	if err := j.enc.Encode(r); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

// Observe records a store event. The journal is best effort: a failed write
// never reaches the store and is logged only once per journal.
func (j *Journal) Observe(e todo.Event) {
	err := j.Write(recordFromEvent(e))
	if err == nil || j.Logger == nil {
		return
	}
	j.warnOnce.Do(func() {
		j.Logger.Warn("Journal write failed, later failures are not logged", "path", j.LogPath, "err", err)
	})
}

func recordFromEvent(e todo.Event) Record {
	r := Record{
		Type:      "task_" + string(e.Kind),
		Timestamp: e.At,
		TaskID:    e.Task.ID,
		Title:     e.Task.Title,
		Priority:  string(e.Task.Priority),
		Message:   e.Notification.Message,
		Severity:  string(e.Notification.Severity),
	}
	if e.Task.Due != nil {
		r.DueDate = e.Task.Due.String()
	}
	if e.Kind != todo.EventFailed {
		completed := e.Task.Completed
		r.Completed = &completed
	}
	if e.Err != nil {
		r.Error = e.Err.Error()
	}
	return r
}

// Close writes a closing record and closes the file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	if err := j.Write(Record{Type: "session_end"}); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.file.Close()
}
