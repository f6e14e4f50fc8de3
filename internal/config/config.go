// Package config loads match settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Ko-stant/hex-tactics-engine/internal/geometry"
)

type AIConfig struct {
	Delay time.Duration `yaml:"delay"`
	Seed  uint64        `yaml:"seed"`
}

type HandConfig struct {
	Size int `yaml:"size"`
}

type MovementConfig struct {
	Policy string `yaml:"policy"`
}

// Config holds everything needed to start a match and serve it
type Config struct {
	Port     string              `yaml:"port"`
	Debug    bool                `yaml:"debug"`
	Grid     geometry.GridBounds `yaml:"grid"`
	HexSize  float64             `yaml:"hexSize"`
	AI       AIConfig            `yaml:"ai"`
	Hand     HandConfig          `yaml:"hand"`
	Movement MovementConfig      `yaml:"movement"`
	Roster   string              `yaml:"roster"`
}

// Default matches the 8x8 board with 40px hexes and a 100ms AI pause
func Default() Config {
	return Config{
		Port:     "8080",
		Grid:     geometry.DevBounds(),
		HexSize:  geometry.DevLayout().Size,
		AI:       AIConfig{Delay: 100 * time.Millisecond},
		Hand:     HandConfig{Size: 3},
		Movement: MovementConfig{Policy: "deduction"},
	}
}

// Load reads a YAML file on top of Default
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// FromEnv loads .env if present, then the YAML file named by HEX_CONFIG if
// set, then applies the remaining environment overrides.
func FromEnv() (Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("HEX_CONFIG"); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from APP_PORT, DEBUG_MODE, AI_DELAY_MS, AI_SEED
// and HEX_ROSTER using lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("APP_PORT"); ok && v != "" {
		c.Port = v
	}
	if v, ok := lookup("DEBUG_MODE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DEBUG_MODE: %w", err)
		}
		c.Debug = b
	}
	if v, ok := lookup("AI_DELAY_MS"); ok && v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AI_DELAY_MS: %w", err)
		}
		c.AI.Delay = time.Duration(ms) * time.Millisecond
	}
	if v, ok := lookup("AI_SEED"); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("AI_SEED: %w", err)
		}
		c.AI.Seed = seed
	}
	if v, ok := lookup("HEX_ROSTER"); ok && v != "" {
		c.Roster = v
	}
	return nil
}

// Validate rejects settings no match can be played with
func (c Config) Validate() error {
	var errs []error
	if c.Grid.Rows <= 0 || c.Grid.Cols <= 0 {
		errs = append(errs, fmt.Errorf("grid must be at least 1x1, got %dx%d", c.Grid.Cols, c.Grid.Rows))
	}
	if c.HexSize <= 0 {
		errs = append(errs, fmt.Errorf("hexSize must be positive, got %v", c.HexSize))
	}
	if c.AI.Delay < 0 {
		errs = append(errs, fmt.Errorf("ai.delay must not be negative, got %v", c.AI.Delay))
	}
	if c.Hand.Size <= 0 {
		errs = append(errs, fmt.Errorf("hand.size must be positive, got %d", c.Hand.Size))
	}
	switch c.Movement.Policy {
	case "", "deduction", "exhaust":
	default:
		errs = append(errs, fmt.Errorf("movement.policy must be deduction or exhaust, got %q", c.Movement.Policy))
	}
	return errors.Join(errs...)
}
