package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.missionctl/missionctl.toml, OS-specific config dir, or MISSIONCTL_CONFIG)
// 3. Project config file (missionctl.toml or .missionctl.toml in current directory)
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
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}
	return load(fs, args, sources)
}

func load(fs *flag.FlagSet, args []string, sources map[string]ConfigSource) (*ConfigWithSources, error) {
	cfg := &Config{}
	var files []string

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	userConfigFile, err := findUserConfigFile()
	if err != nil {
		return nil, err
	}
	if userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		files = append(files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	projectConfigFile := findProjectConfigFile()
	if projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		files = append(files, projectConfigFile)
	}

	// 4. Override from environment
	if err := loadFromEnv(cfg, sources); err != nil {
		return nil, err
	}

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, err
	}

	return &ConfigWithSources{Config: cfg, Sources: sources, Files: files}, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"base_url",
		"api_key",
		"user_id",
		"output",
		"log_dir",
		"run_log",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"agents.stale_after_days",
		"agents.recent_hours",
		"agents.dry_run",
	}
}

// loadConfigFile decodes a TOML file over cfg. Keys absent from the file keep
// their current values. When sources is non-nil every key present in the file
// is attributed to source.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if sources == nil {
		return nil
	}
	for _, key := range md.Keys() {
		name := key.String()
		if _, ok := sources[name]; ok {
			sources[name] = source
		}
	}
	return nil
}

// finalizeConfig computes derived values and validates enumerated settings.
func finalizeConfig(cfg *Config) error {
	cfg.LogDir = expandPath(cfg.LogDir)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.Output = strings.ToLower(strings.TrimSpace(cfg.Output))

	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	switch cfg.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return &ConfigurationError{
			Field: "output",
			Err:   fmt.Errorf("unsupported format %q, must be one of: text, json, yaml", cfg.Output),
		}
	}
	if cfg.Agents.StaleAfterDays <= 0 {
		return &ConfigurationError{
			Field: "agents.stale_after_days",
			Err:   fmt.Errorf("must be positive, got %d", cfg.Agents.StaleAfterDays),
		}
	}
	if cfg.Agents.RecentHours <= 0 {
		return &ConfigurationError{
			Field: "agents.recent_hours",
			Err:   fmt.Errorf("must be positive, got %d", cfg.Agents.RecentHours),
		}
	}
	return nil
}
