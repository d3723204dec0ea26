package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from environment variables. If sources is
// non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	track := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	// The backend's own variable names are accepted as fallbacks so an
	// existing agent environment works unchanged.
	if v := firstEnv("MISSIONCTL_URL", "CONVEX_URL"); v != "" {
		cfg.BaseURL = v
		track("base_url")
	}
	if v := firstEnv("MISSIONCTL_API_KEY", "API_KEY"); v != "" {
		cfg.APIKey = v
		track("api_key")
	}
	if v := firstEnv("MISSIONCTL_USER_ID", "USER_ID", "DEMO_USER_ID"); v != "" {
		cfg.UserID = v
		track("user_id")
	}
	if v := os.Getenv("MISSIONCTL_OUTPUT"); v != "" {
		cfg.Output = v
		track("output")
	}
	if v := os.Getenv("MISSIONCTL_LOG_DIR"); v != "" {
		cfg.LogDir = v
		track("log_dir")
	}
	if v := os.Getenv("MISSIONCTL_RUN_LOG"); v != "" {
		cfg.RunLog = boolFromString(v)
		track("run_log")
	}

	// Logging configuration
	if v := os.Getenv("MISSIONCTL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		track("log_level")
	}
	if v := os.Getenv("MISSIONCTL_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		track("log_format")
	}
	if v := os.Getenv("MISSIONCTL_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		track("log_timestamps")
	}
	if v := os.Getenv("MISSIONCTL_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		track("log_caller")
	}

	// Agent drivers
	if v := os.Getenv("MISSIONCTL_STALE_DAYS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return &ConfigurationError{Field: "MISSIONCTL_STALE_DAYS", Err: fmt.Errorf("not an integer: %q", v)}
		}
		cfg.Agents.StaleAfterDays = n
		track("agents.stale_after_days")
	}
	if v := os.Getenv("MISSIONCTL_RECENT_HOURS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return &ConfigurationError{Field: "MISSIONCTL_RECENT_HOURS", Err: fmt.Errorf("not an integer: %q", v)}
		}
		cfg.Agents.RecentHours = n
		track("agents.recent_hours")
	}
	if v := os.Getenv("MISSIONCTL_DRY_RUN"); v != "" {
		cfg.Agents.DryRun = boolFromString(v)
		track("agents.dry_run")
	}
	return nil
}

// firstEnv returns the first non-empty value among names.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
