package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nibzard/focusflow/internal/utils"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "FOCUSFLOW_"

type envBinding struct {
	name  string // variable name without EnvPrefix
	field string // source-tracking field
	apply func(cfg *Config, v string) error
}

func envString(target func(*Config) *string) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		*target(cfg) = v
		return nil
	}
}

func envInt(target func(*Config) *int) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*target(cfg) = i
		return nil
	}
}

func envBool(target func(*Config) *bool) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		*target(cfg) = boolFromString(v)
		return nil
	}
}

var envBindings = []envBinding{
	{"LOG_DIR", "log_dir", envString(func(c *Config) *string { return &c.LogDir })},
	{"LOG_LEVEL", "log_level", envString(func(c *Config) *string { return &c.LogLevel })},
	{"LOG_FORMAT", "log_format", envString(func(c *Config) *string { return &c.LogFormat })},
	{"LOG_TIMESTAMPS", "log_timestamps", envBool(func(c *Config) *bool { return &c.LogTimestamps })},
	{"LOG_CALLER", "log_caller", envBool(func(c *Config) *bool { return &c.LogCaller })},
	{"JOURNAL", "journal", envBool(func(c *Config) *bool { return &c.Journal })},
	{"SEED", "seed_file", envString(func(c *Config) *string { return &c.SeedFile })},
	{"MIN_TITLE_LENGTH", "min_title_length", envInt(func(c *Config) *int { return &c.MinTitleLength })},
	{"MAX_TITLE_LENGTH", "max_title_length", envInt(func(c *Config) *int { return &c.MaxTitleLength })},
	{"SUBMIT_LATENCY_MS", "submit_latency_ms", envInt(func(c *Config) *int { return &c.SubmitLatencyMS })},
	{"SUBMIT_FAILURE_RATE", "submit_failure_rate", func(cfg *Config, v string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return err
		}
		cfg.SubmitFailureRate = f
		return nil
	}},
	{"HOOK", "hook_command", envString(func(c *Config) *string { return &c.HookCommand })},
	{"HOOK_WORKERS", "hook_workers", envInt(func(c *Config) *int { return &c.HookWorkers })},
	{"HOOK_EVENTS", "hook_events", func(cfg *Config, v string) error {
		cfg.HookEvents = utils.SplitList(v)
		return nil
	}},
	{"LISTEN_ADDR", "listen_addr", envString(func(c *Config) *string { return &c.ListenAddr })},
	{"ALLOWED_ORIGIN", "allowed_origin", envString(func(c *Config) *string { return &c.AllowedOrigin })},
	{"TOAST_CREATED_MS", "toast.created_ms", envInt(func(c *Config) *int { return &c.Toast.CreatedMS })},
	{"TOAST_TOGGLED_MS", "toast.toggled_ms", envInt(func(c *Config) *int { return &c.Toast.ToggledMS })},
	{"TOAST_DELETED_MS", "toast.deleted_ms", envInt(func(c *Config) *int { return &c.Toast.DeletedMS })},
	{"TOAST_ERROR_MS", "toast.error_ms", envInt(func(c *Config) *int { return &c.Toast.ErrorMS })},
}

// loadFromEnv overrides config from FOCUSFLOW_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	var errs []error
	for _, b := range envBindings {
		v, ok := os.LookupEnv(EnvPrefix + b.name)
		if !ok || v == "" {
			continue
		}
		if err := b.apply(cfg, v); err != nil {
			errs = append(errs, fmt.Errorf("%s%s=%q: %w", EnvPrefix, b.name, v, err))
			continue
		}
		if sources != nil {
			sources[b.field] = SourceEnv
		}
	}
	return errors.Join(errs...)
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
