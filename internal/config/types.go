package config

import "time"

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
	DefaultLogDir         = "~/.missionctl"
	DefaultOutput         = "text"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultStaleAfterDays = 7
	DefaultRecentHours    = 24
	DefaultRunLog         = true
)

// Output formats accepted by the -o flag.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config holds the full configuration for missionctl.
type Config struct {
	// Backend
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	UserID  string `toml:"user_id"`

	// Output format for list and get commands (text, json, yaml)
	Output string `toml:"output"`

	// Run logs
	LogDir string `toml:"log_dir"`
	RunLog bool   `toml:"run_log"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Agent drivers
	Agents AgentsConfig `toml:"agents"`

	// Working directory (computed)
	ProjectRoot string `toml:"-"`
}

// AgentsConfig holds the thresholds and switches shared by the agent drivers.
type AgentsConfig struct {
	StaleAfterDays int  `toml:"stale_after_days"`
	RecentHours    int  `toml:"recent_hours"`
	DryRun         bool `toml:"dry_run"`
}

// StaleAfter returns how long a task may sit in progress without updates.
func (a AgentsConfig) StaleAfter() time.Duration {
	return time.Duration(a.StaleAfterDays) * 24 * time.Hour
}

// RecentWindow returns how far back a completion counts as recent.
func (a AgentsConfig) RecentWindow() time.Duration {
	return time.Duration(a.RecentHours) * time.Hour
}
