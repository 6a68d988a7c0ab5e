package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout())
	assert.Equal(t, 5*time.Second, cfg.DialTimeout())
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 3, cfg.MaxExtraPages)
	assert.Equal(t, 6000, cfg.MaxSnapshotChars)
	assert.True(t, cfg.CheckRobots)
	assert.Equal(t, 2*time.Second, cfg.LeadInterval())
	assert.Equal(t, 2, cfg.RetryAttempts)
	assert.Equal(t, 3*time.Second, cfg.RetryDelay())
	assert.Equal(t, "mobile", cfg.PSIStrategy)
	assert.Equal(t, "claude", cfg.AIProvider)
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "fetch_timeout_sec = 30\nmax_extra_pages = 5\ncheck_robots = false\npsi_strategy = \"desktop\"\nai_provider = \"openai\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout())
	assert.Equal(t, 5, cfg.MaxExtraPages)
	assert.False(t, cfg.CheckRobots)
	assert.Equal(t, "desktop", cfg.PSIStrategy)
	assert.Equal(t, "openai", cfg.AIProvider)
	// untouched keys keep defaults
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("fetch_timeout_sec = ["), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
