package config

import (
	"flag"
	"strings"

	"github.com/nibzard/focusflow/internal/utils"
)

// flagToSource maps flag names to source field names.
var flagToSource = map[string]string{
	"log-dir":        "log_dir",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
	"journal":        "journal",
	"seed":           "seed_file",
	"min-title":      "min_title_length",
	"max-title":      "max_title_length",
	"latency":        "submit_latency_ms",
	"failure-rate":   "submit_failure_rate",
	"hook":           "hook_command",
	"hook-workers":   "hook_workers",
	"hook-events":    "hook_events",
	"listen":         "listen_addr",
	"allowed-origin": "allowed_origin",
}

// parseFlags defines and parses the global CLI flags. If sources is non-nil,
// it tracks which fields were set explicitly.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("focusflow", flag.ContinueOnError)
	}

	// Logging
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
	fs.BoolVar(&cfg.Journal, "journal", cfg.Journal, "Write a JSONL session journal")

	// Store
	fs.StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "Seed file with demo tasks")
	fs.IntVar(&cfg.MinTitleLength, "min-title", cfg.MinTitleLength, "Minimum task title length")
	fs.IntVar(&cfg.MaxTitleLength, "max-title", cfg.MaxTitleLength, "Maximum task title length")
	fs.IntVar(&cfg.SubmitLatencyMS, "latency", cfg.SubmitLatencyMS, "Simulated create latency (milliseconds)")
	fs.Float64Var(&cfg.SubmitFailureRate, "failure-rate", cfg.SubmitFailureRate, "Probability that a create fails (0-1)")

	// Hooks
	fs.StringVar(&cfg.HookCommand, "hook", cfg.HookCommand, "Hook command to run for every task event")
	fs.IntVar(&cfg.HookWorkers, "hook-workers", cfg.HookWorkers, "Maximum concurrent hook processes")
	hookEvents := strings.Join(cfg.HookEvents, ",")
	fs.StringVar(&hookEvents, "hook-events", hookEvents, "Comma-separated event kinds that run the hook (default all)")

	// HTTP
	fs.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "HTTP listen address for serve")
	fs.StringVar(&cfg.AllowedOrigin, "allowed-origin", cfg.AllowedOrigin, "Origin allowed to open the notification stream")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "hook-events" {
			cfg.HookEvents = utils.SplitList(hookEvents)
		}
		if sources == nil {
			return
		}
		if field, ok := flagToSource[f.Name]; ok {
			sources[field] = SourceFlag
		}
	})

	return nil
}
