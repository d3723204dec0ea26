package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const configFileName = "missionctl.toml"

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	names := []string{configFileName, "." + configFileName}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// MISSIONCTL_CONFIG wins when set and must exist. Otherwise checks
// ~/.missionctl/missionctl.toml first, then falls back to OS-specific
// config directories.
func findUserConfigFile() (string, error) {
	if explicit := os.Getenv("MISSIONCTL_CONFIG"); explicit != "" {
		path := expandPath(explicit)
		if _, err := os.Stat(path); err != nil {
			return "", &ConfigurationError{Field: "MISSIONCTL_CONFIG", Err: err}
		}
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, ".missionctl", configFileName)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath, nil
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, "missionctl", configFileName)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath, nil
		}
	}

	return "", nil
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Output = DefaultOutput
	cfg.LogDir = DefaultLogDir
	cfg.RunLog = DefaultRunLog
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.Agents = AgentsConfig{
		StaleAfterDays: DefaultStaleAfterDays,
		RecentHours:    DefaultRecentHours,
	}
}

// GetConfigFile returns the highest-priority config file that was read.
func (cws *ConfigWithSources) GetConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}

// Describe returns the value of a tracked field as text, masking the API key.
func (cws *ConfigWithSources) Describe(field string) string {
	c := cws.Config
	switch field {
	case "base_url":
		return c.BaseURL
	case "api_key":
		return MaskedKey(c.APIKey)
	case "user_id":
		return c.UserID
	case "output":
		return c.Output
	case "log_dir":
		return c.LogDir
	case "run_log":
		return fmt.Sprint(c.RunLog)
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return fmt.Sprint(c.LogTimestamps)
	case "log_caller":
		return fmt.Sprint(c.LogCaller)
	case "agents.stale_after_days":
		return fmt.Sprint(c.Agents.StaleAfterDays)
	case "agents.recent_hours":
		return fmt.Sprint(c.Agents.RecentHours)
	case "agents.dry_run":
		return fmt.Sprint(c.Agents.DryRun)
	}
	return ""
}

// Fields returns the tracked field names in display order.
func (cws *ConfigWithSources) Fields() []string {
	return configFields()
}
