// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.focusflow/focusflow.toml or OS-specific config directory)
// 3. Project config file (focusflow.toml or .focusflow.toml in the working directory)
// 4. Environment variables (FOCUSFLOW_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.focusflow/focusflow.toml (preferred)
// - Windows: %APPDATA%\focusflow\focusflow.toml
// - macOS: ~/Library/Application Support/focusflow/focusflow.toml
// - Linux/BSD: $XDG_CONFIG_HOME/focusflow/focusflow.toml or ~/.config/focusflow/focusflow.toml
//
// Project-level config locations (overrides user config):
// - ./focusflow.toml (preferred)
// - ./.focusflow.toml
package config
