// ABOUTME: Configuration for the Charm KV backend used to sync filter state
// ABOUTME: Stores server host and auto-sync preference under the XDG data dir

package charm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/charm/kv"
)

const (
	// DefaultCharmHost is the public Charm Cloud server.
	DefaultCharmHost = "cloud.charm.sh"

	// AppName names the Charm KV database and the local data directory.
	AppName = "pocportal"

	// ConfigFileName is where sync preferences are stored locally.
	ConfigFileName = "charm-config.json"
)

// Config holds charm connection settings.
type Config struct {
	Host string `json:"host,omitempty"`

	// AutoSync pushes every filter change to the server as it is saved.
	AutoSync bool `json:"auto_sync"`

	StaleThreshold time.Duration `json:"stale_threshold,omitempty"`
}

// DefaultConfig returns the config used when nothing is stored.
func DefaultConfig() *Config {
	return &Config{
		Host:           DefaultCharmHost,
		AutoSync:       true,
		StaleThreshold: kv.DefaultStaleThreshold,
	}
}

var configPathOverride string

func configPath() (string, error) {
	if configPathOverride != "" {
		return configPathOverride, nil
	}
	dir := filepath.Join(xdg.DataHome, AppName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// LoadConfig reads sync preferences, falling back to defaults when the file
// is missing or unreadable. A non-empty host overrides the stored one.
func LoadConfig(host string) (*Config, error) {
	cfg := DefaultConfig()

	path, err := configPath()
	if err != nil {
		return withHost(cfg, host), nil //nolint:nilerr // no data dir means defaults
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return withHost(cfg, host), nil
	case err != nil:
		return nil, fmt.Errorf("failed to read charm config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return withHost(DefaultConfig(), host), nil //nolint:nilerr // corrupt config means defaults
	}
	if cfg.Host == "" {
		cfg.Host = DefaultCharmHost
	}
	if cfg.StaleThreshold == 0 {
		cfg.StaleThreshold = kv.DefaultStaleThreshold
	}
	return withHost(cfg, host), nil
}

func withHost(cfg *Config, host string) *Config {
	if host != "" {
		cfg.Host = host
	}
	return cfg
}

// Save persists the config to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// SetAutoSync enables or disables auto-sync and saves.
func (c *Config) SetAutoSync(enabled bool) error {
	c.AutoSync = enabled
	return c.Save()
}
