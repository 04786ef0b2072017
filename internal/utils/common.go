// Package utils holds small string helpers shared by config and todo.
package utils

import (
	"strconv"
	"strings"
)

// SplitList splits a comma-separated list, trimming and lowercasing each
// item. Empty items and repeats are dropped; order is kept.
func SplitList(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		item := strings.ToLower(strings.TrimSpace(part))
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// FieldPath turns a JSON Pointer such as "#/tasks/0/title" into the
// dotted form "tasks[0].title" used in validation messages.
func FieldPath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "#")
	var b strings.Builder
	for _, token := range strings.Split(pointer, "/") {
		if token == "" {
			continue
		}
		token = pointerUnescaper.Replace(token)
		if _, err := strconv.Atoi(token); err == nil {
			b.WriteString("[" + token + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(token)
	}
	return b.String()
}
