package utils

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"created", []string{"created"}},
		{"Created, deleted ,created", []string{"created", "deleted"}},
		{"toggled,,failed", []string{"toggled", "failed"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, SplitList(tt.in)); diff != "" {
			t.Errorf("SplitList(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestFieldPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"#/tasks", "tasks"},
		{"#/tasks/0/title", "tasks[0].title"},
		{"/tasks/12/due_date", "tasks[12].due_date"},
		{"#/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tt := range tests {
		if got := FieldPath(tt.in); got != tt.want {
			t.Errorf("FieldPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
