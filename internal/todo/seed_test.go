package todo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
)

func TestParseSeed(t *testing.T) {
	today := civil.Date{Year: 2026, Month: 10, Day: 19}
	data := []byte(`{
  "schema_version": 1,
  "tasks": [
    {"title": "Write report", "due_in_days": 2, "priority": "high"},
    {"title": "Pay rent", "due_date": "2026-11-01"},
    {"title": "Old chore", "completed": true}
  ]
}`)

	entries, err := ParseSeed(data, today)
	if err != nil {
		t.Fatalf("ParseSeed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len: got %d, want 3", len(entries))
	}
	if entries[0].Due == nil || *entries[0].Due != today.AddDays(2) {
		t.Errorf("relative due: got %v", entries[0].Due)
	}
	if entries[0].Priority != PriorityHigh {
		t.Errorf("priority: got %q", entries[0].Priority)
	}
	want := civil.Date{Year: 2026, Month: 11, Day: 1}
	if entries[1].Due == nil || *entries[1].Due != want {
		t.Errorf("absolute due: got %v", entries[1].Due)
	}
	if !entries[2].Completed || entries[2].Due != nil {
		t.Errorf("third entry: got %+v", entries[2])
	}
}

func TestParseSeedSchemaErrors(t *testing.T) {
	today := civil.Date{Year: 2026, Month: 10, Day: 19}
	tests := []struct {
		name string
		data string
		path string
	}{
		{"missing version", `{"tasks": []}`, ""},
		{"wrong version", `{"schema_version": 2, "tasks": []}`, "schema_version"},
		{"bad priority", `{"schema_version": 1, "tasks": [{"title": "x", "priority": "urgent"}]}`, "tasks[0].priority"},
		{"unknown field", `{"schema_version": 1, "tasks": [{"title": "x", "status": "done"}]}`, "tasks[0]"},
		{"both dues", `{"schema_version": 1, "tasks": [{"title": "x", "due_date": "2026-10-20", "due_in_days": 1}]}`, "tasks[0]"},
		{"bad date", `{"schema_version": 1, "tasks": [{"title": "x", "due_date": "20/10/2026"}]}`, "tasks[0].due_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.data), today)
			if err == nil {
				t.Fatal("expected error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err %T is not a ValidationError: %v", err, err)
			}
			if tt.path != "" && !strings.Contains(err.Error(), tt.path) {
				t.Errorf("error %q does not mention %q", err, tt.path)
			}
		})
	}
}

func TestParseSeedInvalidJSON(t *testing.T) {
	if _, err := ParseSeed([]byte(`{`), civil.Date{}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadSeedIntoStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	content := `{"schema_version": 1, "tasks": [{"title": "First"}, {"title": "Second", "completed": true}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := LoadSeed(path, civil.Date{Year: 2026, Month: 10, Day: 19})
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	s := NewStore()
	if _, err := s.Seed(entries...); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	tasks := s.Tasks()
	if tasks[0].Title != "Second" || tasks[1].Title != "First" {
		t.Errorf("order: got %q, %q", tasks[0].Title, tasks[1].Title)
	}

	if _, err := LoadSeed(filepath.Join(dir, "missing.json"), civil.Date{}); err == nil {
		t.Error("expected error for missing file")
	}
}
