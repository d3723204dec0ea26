package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// credentialsFile is the subset of Config written by SaveCredentials.
type credentialsFile struct {
	BaseURL string `toml:"base_url,omitempty"`
	APIKey  string `toml:"api_key"`
	UserID  string `toml:"user_id"`
}

// SaveCredentials writes a config file holding the backend URL and a freshly
// issued identity. The file is created with mode 0600 and is never
// overwritten.
func SaveCredentials(path, baseURL, apiKey, userID string) error {
	path = expandPath(path)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("config file %s already exists", path)
		}
		return fmt.Errorf("creating config file: %w", err)
	}

	enc := toml.NewEncoder(f)
	if err := enc.Encode(credentialsFile{BaseURL: baseURL, APIKey: apiKey, UserID: userID}); err != nil {
		f.Close()
		return fmt.Errorf("writing config file: %w", err)
	}
	return f.Close()
}
