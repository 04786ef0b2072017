package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const configFileName = "focusflow.toml"

// expandPath expands $VARS and a leading ~ in p.
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	rest, ok := strings.CutPrefix(p, "~")
	if !ok {
		return p
	}
	sep := rest == "" || rest[0] == '/' || (runtime.GOOS == "windows" && rest[0] == '\\')
	if !sep {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if rest == "" {
		return home
	}
	return filepath.Join(home, rest[1:])
}

// findProjectConfigFile returns ./focusflow.toml or ./.focusflow.toml.
func findProjectConfigFile() string {
	return firstExisting(configFileName, "."+configFileName)
}

// findUserConfigFile returns ~/.focusflow/focusflow.toml, falling back to
// focusflow/focusflow.toml under the OS config directory.
func findUserConfigFile() string {
	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".focusflow", configFileName))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "focusflow", configFileName))
	}
	return firstExisting(candidates...)
}

func firstExisting(paths ...string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.LogDir = DefaultLogDir
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.Journal = true

	cfg.MinTitleLength = DefaultMinTitleLength
	cfg.MaxTitleLength = DefaultMaxTitleLength

	cfg.SubmitLatencyMS = DefaultSubmitLatencyMS
	cfg.SubmitFailureRate = DefaultSubmitFailureRate

	cfg.HookWorkers = DefaultHookWorkers
	cfg.ListenAddr = DefaultListenAddr

	cfg.Toast = ToastConfig{
		CreatedMS: DefaultCreatedToastMS,
		ToggledMS: DefaultToggledToastMS,
		DeletedMS: DefaultDeletedToastMS,
		ErrorMS:   DefaultErrorToastMS,
	}
}
