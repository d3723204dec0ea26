package config

import (
	"fmt"
	"strings"

	"github.com/nibzard/missionctl/internal/utils"
)

// Field names accepted by Require.
const (
	FieldBaseURL = "base_url"
	FieldAPIKey  = "api_key"
	FieldUserID  = "user_id"
)

var fieldHints = map[string]string{
	FieldBaseURL: "set MISSIONCTL_URL (or CONVEX_URL), base_url in missionctl.toml, or -url",
	FieldAPIKey:  "set MISSIONCTL_API_KEY (or API_KEY), api_key in missionctl.toml, or -api-key",
	FieldUserID:  "set MISSIONCTL_USER_ID (or USER_ID), user_id in missionctl.toml, or -user",
}

// ConfigurationError reports a required setting that is missing or a
// setting whose value cannot be used.
type ConfigurationError struct {
	Field string
	Err   error // nil when the field is simply missing
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid configuration %s: %v", e.Field, e.Err)
	}
	msg := "missing configuration: " + e.Field
	if hint, ok := fieldHints[e.Field]; ok {
		msg += " (" + hint + ")"
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Require checks that each named field is set. It returns a
// ConfigurationError for the first one that is empty.
func (c *Config) Require(fields ...string) error {
	for _, field := range fields {
		var value string
		switch field {
		case FieldBaseURL:
			value = c.BaseURL
		case FieldAPIKey:
			value = c.APIKey
		case FieldUserID:
			value = c.UserID
		default:
			return fmt.Errorf("unknown config field %q", field)
		}
		if strings.TrimSpace(value) == "" {
			return &ConfigurationError{Field: field}
		}
	}
	return nil
}

// MaskedKey hides all but the last characters of an API key for display.
func MaskedKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return utils.MaskSecret(key)
}
