// Package config holds the immutable pipeline configuration. A Config is
// built once (defaults, optionally overlaid from a TOML file) and passed by
// value into each component; nothing reads ambient global state.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	FetchTimeoutSec  int    `toml:"fetch_timeout_sec"`
	DialTimeoutSec   int    `toml:"dial_timeout_sec"`
	MaxBodyBytes     int64  `toml:"max_body_bytes"`
	MaxExtraPages    int    `toml:"max_extra_pages"`
	MaxSnapshotChars int    `toml:"max_snapshot_chars"`
	CheckRobots      bool   `toml:"check_robots"`
	LeadIntervalSec  int    `toml:"lead_interval_sec"`
	RetryAttempts    int    `toml:"retry_attempts"`
	RetryDelaySec    int    `toml:"retry_delay_sec"`
	PSIStrategy      string `toml:"psi_strategy"`
	AIProvider       string `toml:"ai_provider"`
	AIModel          string `toml:"ai_model"`
}

func Default() Config {
	return Config{
		FetchTimeoutSec:  15,
		DialTimeoutSec:   5,
		MaxBodyBytes:     1 << 20, // 1MB
		MaxExtraPages:    3,
		MaxSnapshotChars: 6000,
		CheckRobots:      true,
		LeadIntervalSec:  2,
		RetryAttempts:    2,
		RetryDelaySec:    3,
		PSIStrategy:      "mobile",
		AIProvider:       "claude",
	}
}

// Load overlays a TOML file on the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c Config) FetchTimeout() time.Duration { return time.Duration(c.FetchTimeoutSec) * time.Second }
func (c Config) DialTimeout() time.Duration  { return time.Duration(c.DialTimeoutSec) * time.Second }
func (c Config) LeadInterval() time.Duration { return time.Duration(c.LeadIntervalSec) * time.Second }
func (c Config) RetryDelay() time.Duration   { return time.Duration(c.RetryDelaySec) * time.Second }
