package config

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# FocusFlow configuration file
# Values can be overridden by FOCUSFLOW_* environment variables or CLI flags

# Log directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.focusflow"

# Console log level (debug, info, warn, error) and format (text, json, logfmt)
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false

# Write a JSONL journal of task events for every session
journal = true

# Optional JSON file with tasks to load at startup (see "focusflow schema")
# seed_file = "demo-tasks.json"

# Title length limits, counted in characters after trimming
min_title_length = 3
max_title_length = 100

# Simulated backend used when creating tasks
submit_latency_ms = 600
submit_failure_rate = 0.0

# Command run for every task event: <cmd> <event> <task-id> <severity>
# The event JSON is written to stdin.
# hook_command = "/path/to/hook.sh"
hook_workers = 2
# hook_events = ["created", "deleted"]

# HTTP surface for "focusflow serve"
listen_addr = "127.0.0.1:8080"
# allowed_origin = "http://localhost:3000"

# How long notifications stay visible
[toast]
created_ms = 3000
toggled_ms = 2500
deleted_ms = 2500
error_ms = 4000
`
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return buf.String(), nil
}

// SortedSources returns source-tracked fields in name order.
func (cws *ConfigWithSources) SortedSources() []string {
	fields := make([]string, 0, len(cws.Sources))
	for field := range cws.Sources {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
