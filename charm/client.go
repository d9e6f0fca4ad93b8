// ABOUTME: Charm KV client wrapper for synced filter state
// ABOUTME: Adds JSON helpers and optional sync-after-write on top of charm kv

package charm

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("key not found")

// Client wraps charm KV with config and sync helpers.
type Client struct {
	kv         *kv.KV
	config     *Config
	mu         sync.RWMutex
	testClient *testClient
}

// Open connects to the charm KV database for this app.
func Open(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// charm reads its server from the environment
	_ = os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(AppName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	c := &Client{kv: db, config: cfg}
	if cfg.AutoSync {
		if err := db.Sync(); err != nil {
			log.Warn("charm sync on open failed", "host", cfg.Host, "err", err)
		}
	}
	return c, nil
}

// Close is a no-op; charm kv releases badger on process exit.
func (c *Client) Close() error {
	return nil
}

func (c *Client) Config() *Config {
	if c.testClient != nil {
		return c.testClient.config
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// ID returns the charm user ID for this device.
func (c *Client) ID() (string, error) {
	if c.testClient != nil {
		return "test", nil
	}
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// Sync performs a manual sync with the charm server.
func (c *Client) Sync() error {
	if c.testClient != nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Sync()
}

// Get retrieves a value by key. Missing keys return ErrNotFound.
func (c *Client) Get(key []byte) ([]byte, error) {
	var (
		value []byte
		err   error
	)
	if c.testClient != nil {
		value, err = c.testClient.Get(key)
	} else {
		c.mu.RLock()
		value, err = c.kv.Get(key)
		c.mu.RUnlock()
	}
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return value, err
}

// Set stores a value and syncs if enabled.
func (c *Client) Set(key, value []byte) error {
	if c.testClient != nil {
		return c.testClient.Set(key, value)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Set(key, value); err != nil {
		return err
	}
	if c.config.AutoSync {
		_ = c.kv.Sync()
	}
	return nil
}

// Delete removes a key and syncs if enabled.
func (c *Client) Delete(key []byte) error {
	if c.testClient != nil {
		return c.testClient.Delete(key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Delete(key); err != nil {
		return err
	}
	if c.config.AutoSync {
		_ = c.kv.Sync()
	}
	return nil
}

func (c *Client) Keys() ([][]byte, error) {
	if c.testClient != nil {
		return c.testClient.Keys()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv.Keys()
}

// KeysWithPrefix returns all keys starting with prefix.
func (c *Client) KeysWithPrefix(prefix string) ([]string, error) {
	all, err := c.Keys()
	if err != nil {
		return nil, err
	}
	var matched []string
	for _, k := range all {
		if strings.HasPrefix(string(k), prefix) {
			matched = append(matched, string(k))
		}
	}
	return matched, nil
}

// GetJSON decodes the value stored under key into v.
func (c *Client) GetJSON(key string, v any) error {
	data, err := c.Get([]byte(key))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func (c *Client) SetJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return c.Set([]byte(key), data)
}

// Reset wipes every key in this app's database.
func (c *Client) Reset() error {
	if c.testClient != nil {
		return c.testClient.Reset()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}
