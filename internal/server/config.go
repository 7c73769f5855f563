package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/weekendpoker/gameserver/internal/engine"
)

// Config is the complete server configuration.
type Config struct {
	Server      ServerSettings     `hcl:"server,block"`
	Session     *SessionSettings   `hcl:"session,block"`
	BlindLevels []BlindLevelConfig `hcl:"blind_level,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// SessionSettings tunes the per-table timing.
type SessionSettings struct {
	ActionTimeoutSeconds  int `hcl:"action_timeout_seconds,optional"`
	InterHandDelaySeconds int `hcl:"inter_hand_delay_seconds,optional"`
}

// BlindLevelConfig is one entry of the blind schedule.
type BlindLevelConfig struct {
	Level      int `hcl:"level"`
	SmallBlind int `hcl:"small_blind"`
	BigBlind   int `hcl:"big_blind"`
	MinBuyIn   int `hcl:"min_buy_in,optional"`
	MaxBuyIn   int `hcl:"max_buy_in,optional"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Session: &SessionSettings{
			ActionTimeoutSeconds:  30,
			InterHandDelaySeconds: 3,
		},
	}
}

// LoadConfig loads configuration from an HCL file. A missing file yields
// the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Session == nil {
		config.Session = &SessionSettings{}
	}
	if config.Session.ActionTimeoutSeconds == 0 {
		config.Session.ActionTimeoutSeconds = 30
	}
	if config.Session.InterHandDelaySeconds == 0 {
		config.Session.InterHandDelaySeconds = 3
	}

	return &config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Session.ActionTimeoutSeconds < 5 {
		return fmt.Errorf("action timeout must be at least 5 seconds, got %d", c.Session.ActionTimeoutSeconds)
	}

	seen := make(map[int]bool, len(c.BlindLevels))
	for _, bl := range c.BlindLevels {
		if bl.SmallBlind <= 0 {
			return fmt.Errorf("blind level %d: small blind must be positive", bl.Level)
		}
		if bl.BigBlind <= bl.SmallBlind {
			return fmt.Errorf("blind level %d: big blind must be greater than small blind", bl.Level)
		}
		if seen[bl.Level] {
			return fmt.Errorf("blind level %d: duplicate level", bl.Level)
		}
		seen[bl.Level] = true
	}
	return nil
}

// ListenAddress returns the full bind address.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// ActionTimeout returns the per-decision clock duration.
func (c *Config) ActionTimeout() time.Duration {
	return time.Duration(c.Session.ActionTimeoutSeconds) * time.Second
}

// InterHandDelay returns the pause between hands.
func (c *Config) InterHandDelay() time.Duration {
	return time.Duration(c.Session.InterHandDelaySeconds) * time.Second
}

// Schedule returns the configured blind schedule, falling back to the
// engine's built-in one when the file configures none.
func (c *Config) Schedule() []engine.BlindLevel {
	if len(c.BlindLevels) == 0 {
		return engine.DefaultBlindLevels
	}
	levels := make([]engine.BlindLevel, 0, len(c.BlindLevels))
	for _, bl := range c.BlindLevels {
		levels = append(levels, engine.BlindLevel{
			Level:      bl.Level,
			SmallBlind: bl.SmallBlind,
			BigBlind:   bl.BigBlind,
			MinBuyIn:   bl.MinBuyIn,
			MaxBuyIn:   bl.MaxBuyIn,
		})
	}
	return levels
}
