// ABOUTME: Tests for configuration loading and environment overrides
// ABOUTME: Uses temp files so the user's real config is never touched
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.FilterBackend)
	assert.Equal(t, 10, cfg.DefaultTopN)
	assert.NotEmpty(t, cfg.DBPath)
	assert.NotEmpty(t, cfg.FilterPath)
}

func TestLoadInvalidFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().DefaultTopN, cfg.DefaultTopN)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	in := Default()
	in.DBPath = "/tmp/custom.db"
	in.FilterBackend = BackendCharm
	in.CharmHost = "charm.internal"
	in.DefaultTopN = 5
	require.NoError(t, in.Save(path))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", out.DBPath)
	assert.Equal(t, BackendCharm, out.FilterBackend)
	assert.Equal(t, "charm.internal", out.CharmHost)
	assert.Equal(t, 5, out.DefaultTopN)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, Default().Save(path))

	t.Setenv("POCPORTAL_DB_PATH", "/env/pocs.db")
	t.Setenv("POCPORTAL_TOP_N", "5")
	t.Setenv("POCPORTAL_FILTER_BACKEND", "CHARM")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/env/pocs.db", cfg.DBPath)
	assert.Equal(t, 5, cfg.DefaultTopN)
	assert.Equal(t, BackendCharm, cfg.FilterBackend)
}

func TestTopNOutsideChoicesFallsBack(t *testing.T) {
	t.Setenv("POCPORTAL_TOP_N", "7")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.DefaultTopN)
}

func TestInvalidBackend(t *testing.T) {
	t.Setenv("POCPORTAL_FILTER_BACKEND", "s3")
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrInvalidBackend)
}
