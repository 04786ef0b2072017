// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/focusflow/internal/config"
	"github.com/nibzard/focusflow/internal/logging"
	"github.com/nibzard/focusflow/internal/todo"
	"github.com/nibzard/focusflow/internal/ui"
)

// isolate points HOME and the working directory at temp dirs and clears
// FOCUSFLOW_* variables so no real config leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, kv := range os.Environ() {
		if k, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, config.EnvPrefix) {
			t.Setenv(k, "")
		}
	}

	wd := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(wd); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return home
}

// capture redirects the package output streams for the test.
func capture(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	oldOut, oldErr := stdout, stderr
	stdout, stderr = out, errOut
	t.Cleanup(func() { stdout, stderr = oldOut, oldErr })
	return out, errOut
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _ := capture(t)
	err := Run(context.Background(), args)
	return out.String(), err
}

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{name: "help flag", args: []string{"-help"}, want: "Commands:"},
		{name: "short help flag", args: []string{"-h"}, want: "Commands:"},
		{name: "help command", args: []string{"help"}, want: "classify DATE..."},
		{name: "version flag", args: []string{"-version"}, want: "focusflow version dev"},
		{name: "short version flag", args: []string{"-v"}, want: "focusflow version dev"},
		{name: "version command", args: []string{"version"}, want: "focusflow version dev"},
		{name: "unknown command", args: []string{"unknown-command"}, wantErr: "unknown command"},
		{name: "bad global flag", args: []string{"-min-title", "0"}, wantErr: "loading config"},
		{name: "extra args", args: []string{"schema", "extra"}, wantErr: "unexpected arguments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			out, err := run(t, tt.args...)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Run(%v) error = %v, want %q", tt.args, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Run(%v) error = %v", tt.args, err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("Run(%v) output missing %q:\n%s", tt.args, tt.want, out)
			}
		})
	}
}

func TestDemoCommand(t *testing.T) {
	isolate(t)
	out, err := run(t, "-journal=false", "demo")
	if err != nil {
		t.Fatalf("demo error = %v\n%s", err, out)
	}
	for _, want := range []string{
		`notify [success] Task "Write report" created (3s)`,
		`notify [success] Task "Review PR" created`,
		"rejected: Task title must be at least 3 characters long",
		`notify [success] Task "Write report" completed! (2.5s)`,
		`notify [info] Task "Review PR" deleted`,
		"[x] #1 Write report, High, due ",
		"(Today)",
		"1 of 1 completed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("demo output missing %q:\n%s", want, out)
		}
	}
}

func TestDemoIgnoresSeedFile(t *testing.T) {
	isolate(t)
	// A seed file that does not exist would fail session setup.
	out, err := run(t, "-journal=false", "-seed", "missing.json", "demo")
	if err != nil {
		t.Fatalf("demo error = %v\n%s", err, out)
	}
}

func TestJournalAndTail(t *testing.T) {
	isolate(t)
	logDir := t.TempDir()

	if _, err := run(t, "-log-dir", logDir, "demo"); err != nil {
		t.Fatalf("demo error = %v", err)
	}

	out, err := run(t, "-log-dir", logDir, "tail")
	if err != nil {
		t.Fatalf("tail error = %v", err)
	}
	for _, want := range []string{"Tailing:", `"type":"session_start"`, `"type":"task_created"`, `"type":"task_deleted"`, `"type":"session_end"`} {
		if !strings.Contains(out, want) {
			t.Errorf("tail output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "-log-dir", logDir, "tail", "-n", "1")
	if err != nil {
		t.Fatalf("tail -n error = %v", err)
	}
	if strings.Contains(out, "session_start") || !strings.Contains(out, "session_end") {
		t.Errorf("tail -n 1 output:\n%s", out)
	}

	out, err = run(t, "-log-dir", logDir, "tail", "-list")
	if err != nil {
		t.Fatalf("tail -list error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1 || !strings.HasSuffix(lines[0], "bytes") {
		t.Errorf("tail -list output:\n%s", out)
	}

	id := strings.Fields(lines[0])[0]
	if out, err = run(t, "-log-dir", logDir, "tail", id[:8]); err != nil {
		t.Fatalf("tail prefix error = %v", err)
	}
	if !strings.Contains(out, id) {
		t.Errorf("tail prefix did not pick session %s:\n%s", id, out)
	}

	if _, err := run(t, "-log-dir", logDir, "tail", "nomatch"); err == nil || !strings.Contains(err.Error(), "no session matching") {
		t.Errorf("tail nomatch error = %v", err)
	}
}

func TestTailWithoutSessions(t *testing.T) {
	isolate(t)
	out, err := run(t, "-log-dir", t.TempDir(), "tail")
	if err != nil {
		t.Fatalf("tail error = %v", err)
	}
	if !strings.Contains(out, "No session journals found.") {
		t.Errorf("tail output:\n%s", out)
	}
}

func TestClassifyCommand(t *testing.T) {
	isolate(t)
	out, err := run(t, "classify", "-today", "2026-10-19", "2026-10-18", "2026-10-19", "2026-10-20", "2026-10-24", "2026-11-30")
	if err != nil {
		t.Fatalf("classify error = %v", err)
	}
	if !strings.Contains(out, "Today: 2026-10-19") {
		t.Errorf("missing reference day:\n%s", out)
	}

	rows := map[string][]string{
		"2026-10-18": {"-1", "Overdue", "overdue"},
		"2026-10-19": {"0", "Today", "today"},
		"2026-10-20": {"1", "Tomorrow", "within-week"},
		"2026-10-24": {"5", "5 days", "within-week"},
		"2026-11-30": {"42", "-", "none"},
	}
	for _, line := range strings.Split(out, "\n") {
		for date, cells := range rows {
			if !strings.Contains(line, date) || strings.HasPrefix(line, "Today:") {
				continue
			}
			for _, c := range cells {
				if !strings.Contains(line, c) {
					t.Errorf("row %s missing %q: %q", date, c, line)
				}
			}
			delete(rows, date)
		}
	}
	if len(rows) > 0 {
		t.Errorf("rows not rendered: %v\n%s", rows, out)
	}
}

func TestClassifyErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no dates", []string{"classify"}, "at least one date"},
		{"bad date", []string{"classify", "2026-13-01"}, "expected YYYY-MM-DD"},
		{"bad today", []string{"classify", "-today", "someday", "2026-10-19"}, "invalid -today"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestSchemaCommand(t *testing.T) {
	isolate(t)
	out, err := run(t, "schema")
	if err != nil {
		t.Fatalf("schema error = %v", err)
	}
	var schema map[string]any
	if err := json.Unmarshal([]byte(out), &schema); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	if _, ok := schema["properties"]; !ok {
		t.Errorf("schema has no properties: %v", schema)
	}
}

func TestConfigCommand(t *testing.T) {
	t.Run("effective config", func(t *testing.T) {
		isolate(t)
		out, err := run(t, "config")
		if err != nil {
			t.Fatalf("config error = %v", err)
		}
		if !strings.Contains(out, "max_title_length = 100") {
			t.Errorf("config output:\n%s", out)
		}
		if strings.Contains(out, "# Sources:") {
			t.Error("sources printed without -sources")
		}
	})

	t.Run("sources", func(t *testing.T) {
		isolate(t)
		if err := os.WriteFile("focusflow.toml", []byte("min_title_length = 2\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		out, err := run(t, "-max-title", "50", "config", "-sources")
		if err != nil {
			t.Fatalf("config error = %v", err)
		}
		if !strings.Contains(out, "max_title_length = 50") || !strings.Contains(out, "min_title_length = 2") {
			t.Errorf("config output:\n%s", out)
		}
		want := map[string]string{
			"max_title_length": string(config.SourceFlag),
			"min_title_length": string(config.SourceProjFile),
			"listen_addr":      string(config.SourceDefault),
		}
		for _, line := range strings.Split(out, "\n") {
			fields := strings.Fields(strings.TrimPrefix(line, "#"))
			if len(fields) < 2 {
				continue
			}
			if src, ok := want[fields[0]]; ok {
				if got := strings.Join(fields[1:], " "); got != src {
					t.Errorf("%s source = %q, want %q", fields[0], got, src)
				}
				delete(want, fields[0])
			}
		}
		if len(want) > 0 {
			t.Errorf("sources not listed: %v\n%s", want, out)
		}
		if !strings.Contains(out, "focusflow.toml") {
			t.Errorf("project file not listed:\n%s", out)
		}
	})

	t.Run("example", func(t *testing.T) {
		isolate(t)
		out, err := run(t, "config", "-example")
		if err != nil {
			t.Fatalf("config error = %v", err)
		}
		if out != config.ExampleConfig() {
			t.Error("config -example does not match the example config")
		}
	})
}

func TestTUIRequiresTTY(t *testing.T) {
	if ui.IsTTY(os.Stdout) {
		t.Skip("stdout is a terminal")
	}
	isolate(t)
	_, err := run(t, "-journal=false")
	if err == nil || !strings.Contains(err.Error(), "requires a TTY") {
		t.Errorf("error = %v, want TTY error", err)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	isolate(t)
	capture(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, []string{"-journal=false", "serve", "-addr", "127.0.0.1:0"})
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestServeBadAddress(t *testing.T) {
	isolate(t)
	_, err := run(t, "-journal=false", "serve", "-addr", "not-an-address")
	if err == nil {
		t.Fatal("expected listen error")
	}
}

func TestOpenSessionSeedsAndJournals(t *testing.T) {
	isolate(t)
	capture(t)
	logDir := t.TempDir()
	seedPath := filepath.Join(t.TempDir(), "seed.json")
	seed := `{"schema_version": 1, "tasks": [
		{"title": "Water plants", "due_in_days": 0, "priority": "high"},
		{"title": "Read book", "completed": true}
	]}`
	if err := os.WriteFile(seedPath, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	cws, err := config.LoadWithSources(newFlagSet("test"), []string{"-log-dir", logDir, "-seed", seedPath})
	if err != nil {
		t.Fatal(err)
	}
	cfg := cws.Config

	s, err := openSession(context.Background(), cfg, sessionOptions{
		submitter:   todo.LatencySubmitter{},
		withMetrics: true,
	})
	if err != nil {
		t.Fatalf("openSession error = %v", err)
	}
	if s.store.Len() != 2 {
		t.Fatalf("seeded tasks = %d, want 2", s.store.Len())
	}
	active, completed := todo.Partition(s.store.Tasks())
	if len(active) != 1 || active[0].Title != "Water plants" || len(completed) != 1 {
		t.Errorf("partition: active=%+v completed=%+v", active, completed)
	}
	if s.metrics == nil || s.journal == nil {
		t.Fatal("metrics and journal should be wired")
	}

	if _, err := s.store.Create(context.Background(), todo.Draft{Title: "Call mom"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}

	data, err := os.ReadFile(s.journal.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"title":"Call mom"`) {
		t.Errorf("journal missing created task:\n%s", data)
	}

	dir, err := logging.FindLogDir(logDir, cfg.ProjectRoot)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(s.journal.LogPath) != dir {
		t.Errorf("journal in %s, want %s", filepath.Dir(s.journal.LogPath), dir)
	}
}

func TestOpenSessionBadSeed(t *testing.T) {
	isolate(t)
	capture(t)
	seedPath := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(seedPath, []byte(`{"schema_version": 1, "tasks": [{"title": 5}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cws, err := config.LoadWithSources(newFlagSet("test"), []string{"-journal=false", "-seed", seedPath})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := openSession(context.Background(), cws.Config, sessionOptions{}); err == nil || !strings.Contains(err.Error(), "loading seed file") {
		t.Errorf("openSession error = %v, want seed error", err)
	}
}
