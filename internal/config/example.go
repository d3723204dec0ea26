package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# missionctl configuration file
# Values can be overridden by environment variables or CLI flags

# Mission Control deployment (MISSIONCTL_URL or CONVEX_URL)
base_url = "https://your-deployment.convex.site"

# API key issued by "missionctl onboard" (MISSIONCTL_API_KEY or API_KEY)
# api_key = "mc_..."

# Identity recorded as creator and comment author (MISSIONCTL_USER_ID or USER_ID)
# user_id = ""

# Output format for list and get commands: text, json, yaml
output = "text"

# Agent run logs (supports ~ expansion)
log_dir = "~/.missionctl"
run_log = true

# Console logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false

[agents]
# Days an in-progress task may go without updates before a status check
stale_after_days = 7
# Hours a completed task counts as "completed yesterday" in the standup
recent_hours = 24
# Classify and render without writing anything back
dry_run = false
`
}
