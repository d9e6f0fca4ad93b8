// ABOUTME: Application configuration for the POC portal analytics tool
// ABOUTME: Layers defaults, an XDG JSON file, .env and POCPORTAL_* environment overrides
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/sabixx/poc-portal-sub001/db"
	"github.com/sabixx/poc-portal-sub001/filters"
)

const (
	AppName        = "pocportal"
	ConfigFileName = "config.json"
	EnvPrefix      = "POCPORTAL_"
)

// Filter state backends.
const (
	BackendFile  = "file"
	BackendCharm = "charm"
)

var ErrInvalidBackend = errors.New("filter backend must be file or charm")

type Config struct {
	DBPath        string `json:"db_path,omitempty"`
	FilterBackend string `json:"filter_backend,omitempty"`
	FilterPath    string `json:"filter_path,omitempty"`
	CharmHost     string `json:"charm_host,omitempty"`
	DefaultTopN   int    `json:"default_top_n,omitempty"`
	LogLevel      string `json:"log_level,omitempty"`
}

func Default() *Config {
	return &Config{
		DBPath:        db.DefaultPath(),
		FilterBackend: BackendFile,
		FilterPath:    filters.DefaultPath(),
		DefaultTopN:   filters.TopTen,
		LogLevel:      "info",
	}
}

// Path returns the config file location.
func Path() string {
	return filepath.Join(xdg.ConfigHome, AppName, ConfigFileName)
}

// Load reads configuration from path (Path() when empty). A missing or
// invalid file yields defaults; environment variables, including ones from a
// .env file in the working directory, override file values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			cfg = Default()
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("DB_PATH", &c.DBPath)
	str("FILTER_BACKEND", &c.FilterBackend)
	str("FILTER_PATH", &c.FilterPath)
	str("CHARM_HOST", &c.CharmHost)
	str("LOG_LEVEL", &c.LogLevel)
	if v, ok := lookup(EnvPrefix + "TOP_N"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.DefaultTopN = n
		}
	}
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.FilterBackend == "" {
		c.FilterBackend = d.FilterBackend
	}
	if c.FilterPath == "" {
		c.FilterPath = d.FilterPath
	}
	if c.DefaultTopN != filters.TopFive && c.DefaultTopN != filters.TopTen {
		c.DefaultTopN = d.DefaultTopN
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	c.FilterBackend = strings.ToLower(c.FilterBackend)
}

func (c *Config) Validate() error {
	if c.FilterBackend != BackendFile && c.FilterBackend != BackendCharm {
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.FilterBackend)
	}
	return nil
}

// Save writes the config to path (Path() when empty).
func (c *Config) Save(path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
