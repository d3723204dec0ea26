package config

import (
	"flag"
)

// parseFlags defines the global flags on fs, parses args and applies every
// flag that was explicitly set. If sources is non-nil, it tracks the source
// of each applied value.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("missionctl", flag.ContinueOnError)
	}

	// Flags bind to copies so that an unset flag never clobbers a value
	// loaded from a file or the environment.
	baseURL := cfg.BaseURL
	apiKey := cfg.APIKey
	userID := cfg.UserID
	output := cfg.Output
	logDir := cfg.LogDir
	runLog := cfg.RunLog
	logLevel := cfg.LogLevel
	logFormat := cfg.LogFormat
	logTimestamps := cfg.LogTimestamps
	logCaller := cfg.LogCaller

	fs.StringVar(&baseURL, "url", baseURL, "Mission Control base URL")
	fs.StringVar(&apiKey, "api-key", apiKey, "API key sent as a bearer token")
	fs.StringVar(&userID, "user", userID, "User ID recorded as author of writes")
	fs.StringVar(&output, "o", output, "Output format (text, json, yaml)")
	fs.StringVar(&logDir, "log-dir", logDir, "Run log directory")
	fs.BoolVar(&runLog, "run-log", runLog, "Write JSONL run logs for agent commands")
	fs.StringVar(&logLevel, "log-level", logLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", logFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&logTimestamps, "log-timestamps", logTimestamps, "Show timestamps in logs")
	fs.BoolVar(&logCaller, "log-caller", logCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to config fields
	apply := map[string]struct {
		field string
		set   func()
	}{
		"url":            {"base_url", func() { cfg.BaseURL = baseURL }},
		"api-key":        {"api_key", func() { cfg.APIKey = apiKey }},
		"user":           {"user_id", func() { cfg.UserID = userID }},
		"o":              {"output", func() { cfg.Output = output }},
		"log-dir":        {"log_dir", func() { cfg.LogDir = logDir }},
		"run-log":        {"run_log", func() { cfg.RunLog = runLog }},
		"log-level":      {"log_level", func() { cfg.LogLevel = logLevel }},
		"log-format":     {"log_format", func() { cfg.LogFormat = logFormat }},
		"log-timestamps": {"log_timestamps", func() { cfg.LogTimestamps = logTimestamps }},
		"log-caller":     {"log_caller", func() { cfg.LogCaller = logCaller }},
	}

	fs.Visit(func(f *flag.Flag) {
		binding, ok := apply[f.Name]
		if !ok {
			return
		}
		binding.set()
		if sources != nil {
			sources[binding.field] = SourceFlag
		}
	})

	return nil
}
