package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gameserver.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.ListenAddress())
	assert.Equal(t, 30*time.Second, cfg.ActionTimeout())
	assert.Equal(t, 3*time.Second, cfg.InterHandDelay())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigParsesFile(t *testing.T) {
	path := writeConfig(t, `
server {
  address   = "0.0.0.0"
  port      = 9000
  log_level = "debug"
}

session {
  action_timeout_seconds   = 45
  inter_hand_delay_seconds = 5
}

blind_level {
  level       = 1
  small_blind = 5
  big_blind   = 10
}

blind_level {
  level       = 2
  small_blind = 10
  big_blind   = 20
}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddress())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 45*time.Second, cfg.ActionTimeout())
	assert.Equal(t, 5*time.Second, cfg.InterHandDelay())

	schedule := cfg.Schedule()
	require.Len(t, schedule, 2)
	assert.Equal(t, 5, schedule[0].SmallBlind)
	assert.Equal(t, 20, schedule[1].BigBlind)
}

func TestLoadConfigAppliesDefaultsForOmittedValues(t *testing.T) {
	path := writeConfig(t, `
server {
  port = 9000
}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Address)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.ActionTimeout())
}

func TestScheduleFallsBackToBuiltIn(t *testing.T) {
	cfg := DefaultConfig()

	schedule := cfg.Schedule()
	require.NotEmpty(t, schedule)
	assert.Equal(t, 5, schedule[0].SmallBlind)
	assert.Equal(t, 10, schedule[0].BigBlind)
}

func TestLoadConfigRejectsBadHCL(t *testing.T) {
	path := writeConfig(t, `server { port = `)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"tiny action timeout", func(c *Config) { c.Session.ActionTimeoutSeconds = 1 }},
		{"zero small blind", func(c *Config) {
			c.BlindLevels = []BlindLevelConfig{{Level: 1, SmallBlind: 0, BigBlind: 10}}
		}},
		{"inverted blinds", func(c *Config) {
			c.BlindLevels = []BlindLevelConfig{{Level: 1, SmallBlind: 10, BigBlind: 5}}
		}},
		{"duplicate level", func(c *Config) {
			c.BlindLevels = []BlindLevelConfig{
				{Level: 1, SmallBlind: 5, BigBlind: 10},
				{Level: 1, SmallBlind: 10, BigBlind: 20},
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
