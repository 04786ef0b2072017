package config

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.focusflow/focusflow.toml or OS-specific config dir)
// 3. Project config file (focusflow.toml or .focusflow.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := load(fs, args, nil)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}
	return load(fs, args, sources)
}

// load is the shared implementation. If sources is non-nil, it records the
// layer each field was last set by.
func load(fs *flag.FlagSet, args []string, sources map[string]ConfigSource) (*ConfigWithSources, error) {
	cfg := &Config{}
	cws := &ConfigWithSources{Config: cfg, Sources: sources}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		cws.Files = append(cws.Files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		cws.Files = append(cws.Files, projectConfigFile)
	}

	// 4. Override from environment
	if err := loadFromEnv(cfg, sources); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cws, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"journal",
		"seed_file",
		"min_title_length",
		"max_title_length",
		"submit_latency_ms",
		"submit_failure_rate",
		"hook_command",
		"hook_workers",
		"hook_events",
		"listen_addr",
		"allowed_origin",
		"toast.created_ms",
		"toast.toggled_ms",
		"toast.deleted_ms",
		"toast.error_ms",
	}
}

// loadConfigFile decodes TOML from path on top of cfg. Every key present in
// the file is attributed to source.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	if sources == nil {
		return nil
	}
	for _, key := range md.Keys() {
		if _, ok := sources[key.String()]; ok {
			sources[key.String()] = source
		}
	}
	return nil
}

// finalizeConfig computes derived values and validates the result.
func finalizeConfig(cfg *Config) error {
	// Expand ~ in paths
	cfg.LogDir = expandPath(cfg.LogDir)
	cfg.SeedFile = expandPath(cfg.SeedFile)

	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	return cfg.Validate()
}

// Validate reports settings that cannot be used together.
func (c *Config) Validate() error {
	var errs []error
	if c.MinTitleLength < 1 {
		errs = append(errs, fmt.Errorf("min_title_length must be at least 1, got %d", c.MinTitleLength))
	}
	if c.MaxTitleLength < c.MinTitleLength {
		errs = append(errs, fmt.Errorf("max_title_length (%d) must not be below min_title_length (%d)", c.MaxTitleLength, c.MinTitleLength))
	}
	if c.SubmitLatencyMS < 0 {
		errs = append(errs, fmt.Errorf("submit_latency_ms must not be negative"))
	}
	if c.SubmitFailureRate < 0 || c.SubmitFailureRate > 1 {
		errs = append(errs, fmt.Errorf("submit_failure_rate must be within [0,1], got %g", c.SubmitFailureRate))
	}
	if c.HookWorkers < 1 {
		errs = append(errs, fmt.Errorf("hook_workers must be at least 1, got %d", c.HookWorkers))
	}
	for name, ms := range map[string]int{
		"toast.created_ms": c.Toast.CreatedMS,
		"toast.toggled_ms": c.Toast.ToggledMS,
		"toast.deleted_ms": c.Toast.DeletedMS,
		"toast.error_ms":   c.Toast.ErrorMS,
	} {
		if ms <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, ms))
		}
	}
	return errors.Join(errs...)
}
