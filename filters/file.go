// ABOUTME: JSON file persistence for filter state
// ABOUTME: Stores the dashboard filters under the XDG data directory
package filters

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// FileName is the default filter state file name.
const FileName = "filters.json"

// FileStore persists filter state to a JSON file.
type FileStore struct {
	path string
}

// DefaultPath is $XDG_DATA_HOME/pocportal/filters.json.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "pocportal", FileName)
}

// NewFileStore returns a persister writing to path, or DefaultPath when
// path is empty.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath()
	}
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Load() (*FilterState, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read filter state: %w", err)
	}

	var st FilterState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to decode filter state: %w", err)
	}
	return &st, nil
}

func (f *FileStore) Save(st FilterState) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create filter state dir: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0600)
}
