// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.missionctl/missionctl.toml or OS-specific config directory)
// 3. Project config file (missionctl.toml or .missionctl.toml in the working directory)
// 4. Environment variables (MISSIONCTL_*, plus the backend's CONVEX_URL, API_KEY, USER_ID)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
// MISSIONCTL_CONFIG names an explicit file that replaces the user config lookup.
//
// User-level config locations:
// - ~/.missionctl/missionctl.toml (preferred)
// - Windows: %APPDATA%\missionctl\missionctl.toml
// - macOS: ~/Library/Application Support/missionctl/missionctl.toml
// - Linux/BSD: $XDG_CONFIG_HOME/missionctl/missionctl.toml or ~/.config/missionctl/missionctl.toml
//
// The resulting Config is built once at process start and passed explicitly
// to the API client and agent drivers.
package config
