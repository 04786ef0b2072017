package config

import (
	"time"

	"github.com/nibzard/focusflow/internal/notify"
	"github.com/nibzard/focusflow/internal/todo"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultLogDir            = "~/.focusflow"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultMinTitleLength    = todo.DefaultMinTitle
	DefaultMaxTitleLength    = todo.DefaultMaxTitle
	DefaultSubmitLatencyMS   = 600
	DefaultHookWorkers       = 2
	DefaultListenAddr        = "127.0.0.1:8080"
	DefaultCreatedToastMS    = 3000
	DefaultToggledToastMS    = 2500
	DefaultDeletedToastMS    = 2500
	DefaultErrorToastMS      = 4000
	DefaultSubmitFailureRate = 0.0
)

// Config holds the full configuration for focusflow.
type Config struct {
	// Logging
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	Journal       bool   `toml:"journal"`

	// Demo data loaded into a fresh store
	SeedFile string `toml:"seed_file"`

	// Title limits
	MinTitleLength int `toml:"min_title_length"`
	MaxTitleLength int `toml:"max_title_length"`

	// Simulated backend
	SubmitLatencyMS   int     `toml:"submit_latency_ms"`
	SubmitFailureRate float64 `toml:"submit_failure_rate"`

	// Hooks
	HookCommand string   `toml:"hook_command"`
	HookWorkers int      `toml:"hook_workers"`
	HookEvents  []string `toml:"hook_events"`

	// HTTP surface
	ListenAddr    string `toml:"listen_addr"`
	AllowedOrigin string `toml:"allowed_origin"`

	Toast ToastConfig `toml:"toast"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// ToastConfig holds notification display times in milliseconds.
type ToastConfig struct {
	CreatedMS int `toml:"created_ms"`
	ToggledMS int `toml:"toggled_ms"`
	DeletedMS int `toml:"deleted_ms"`
	ErrorMS   int `toml:"error_ms"`
}

// Limits returns the title limits for the task store.
func (c *Config) Limits() todo.Limits {
	return todo.Limits{MinTitle: c.MinTitleLength, MaxTitle: c.MaxTitleLength}
}

// Durations returns the notification display times.
func (c *Config) Durations() notify.Durations {
	return notify.Durations{
		Created: time.Duration(c.Toast.CreatedMS) * time.Millisecond,
		Toggled: time.Duration(c.Toast.ToggledMS) * time.Millisecond,
		Deleted: time.Duration(c.Toast.DeletedMS) * time.Millisecond,
		Error:   time.Duration(c.Toast.ErrorMS) * time.Millisecond,
	}
}

// Submitter returns the simulated backend used by Create.
func (c *Config) Submitter() todo.LatencySubmitter {
	return todo.LatencySubmitter{
		Delay:       time.Duration(c.SubmitLatencyMS) * time.Millisecond,
		FailureRate: c.SubmitFailureRate,
	}
}
