// Package config loads the game profile and server settings from YAML.
//
// An embedded default document is decoded first; a user file is decoded on
// top of it so keys it leaves out keep their defaults. Lists such as a
// profile's slices are replaced as a whole.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/logging"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/spin"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/wheel"
)

//go:embed default.yaml
var defaultYAML []byte

const (
	MaxPostSpinDelay = 10 * time.Second

	AnimationInstant = "instant"
	AnimationDelayed = "delayed"
	AnimationManual  = "manual"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Zones    ZonesConfig    `yaml:"zones"`
	Continue ContinueConfig `yaml:"continue"`
	Spin     SpinConfig     `yaml:"spin"`
	Bomb     BombConfig     `yaml:"bomb"`
	Seed     SeedConfig     `yaml:"seed"`
	Profiles ProfilesConfig `yaml:"profiles"`
}

type ServerConfig struct {
	Addr           string         `yaml:"addr"`
	DBPath         string         `yaml:"db_path"`
	MaxSessions    int            `yaml:"max_sessions"`
	Animation      string         `yaml:"animation"`
	AnimationDelay time.Duration  `yaml:"animation_delay"`
	Log            logging.Config `yaml:"log"`
	Cheats         CheatsConfig   `yaml:"cheats"`
}

// CheatsConfig guards the diagnostic endpoints. The token itself lives in
// the OS keyring (or TokenFile), never in this file.
type CheatsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Service   string `yaml:"service"`
	TokenFile string `yaml:"token_file"`
}

type ZonesConfig struct {
	SafeInterval  int `yaml:"safe_interval"`
	SuperInterval int `yaml:"super_interval"`
}

type ContinueConfig struct {
	BaseCost int `yaml:"base_cost"`
}

type SpinConfig struct {
	PostDelay time.Duration `yaml:"post_delay"`
}

type BombConfig struct {
	SliceID           string  `yaml:"slice_id"`
	BaseChance        float64 `yaml:"base_chance"`
	Increment         float64 `yaml:"increment"`
	MaxChance         float64 `yaml:"max_chance"`
	IncrementInterval int     `yaml:"increment_interval"`
}

type SeedConfig struct {
	Value int64 `yaml:"value"`
	Fixed bool  `yaml:"fixed"`
}

type ProfilesConfig struct {
	Normal wheel.ZoneProfile `yaml:"normal"`
	Safe   wheel.ZoneProfile `yaml:"safe"`
	Super  wheel.ZoneProfile `yaml:"super"`
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		panic(fmt.Sprintf("config: embedded default is invalid: %v", err))
	}
	return cfg
}

// Parse decodes data over the embedded defaults without validating.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode default: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: decode: %w", err)
		}
	}
	return &cfg, nil
}

// Load reads path (optional), applies environment overrides and validates.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		data = b
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides server settings from WHEEL_ADDR, WHEEL_DB and
// WHEEL_LOG_LEVEL.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("WHEEL_ADDR"); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup("WHEEL_DB"); ok && v != "" {
		c.Server.DBPath = v
	}
	if v, ok := lookup("WHEEL_LOG_LEVEL"); ok && v != "" {
		c.Server.Log.Level = v
	}
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Zones.SafeInterval < 1 {
		add("zones.safe_interval must be >= 1, got %d", c.Zones.SafeInterval)
	}
	if c.Zones.SuperInterval < 1 {
		add("zones.super_interval must be >= 1, got %d", c.Zones.SuperInterval)
	}
	if c.Continue.BaseCost < 1 {
		add("continue.base_cost must be >= 1, got %d", c.Continue.BaseCost)
	}
	if c.Spin.PostDelay < 0 || c.Spin.PostDelay > MaxPostSpinDelay {
		add("spin.post_delay must be within [0s, %s], got %s", MaxPostSpinDelay, c.Spin.PostDelay)
	}

	if strings.TrimSpace(c.Bomb.SliceID) == "" {
		add("bomb.slice_id must not be empty")
	}
	for name, v := range map[string]float64{
		"bomb.base_chance": c.Bomb.BaseChance,
		"bomb.increment":   c.Bomb.Increment,
		"bomb.max_chance":  c.Bomb.MaxChance,
	} {
		if v < 0 || v > 1 {
			add("%s must be within [0, 1], got %v", name, v)
		}
	}
	if c.Bomb.IncrementInterval < 1 {
		add("bomb.increment_interval must be >= 1, got %d", c.Bomb.IncrementInterval)
	}

	if len(c.Profiles.Normal.Slices) < wheel.SliceCount {
		add("profiles.normal needs at least %d slices, got %d", wheel.SliceCount, len(c.Profiles.Normal.Slices))
	}
	for _, p := range []struct {
		name    string
		profile wheel.ZoneProfile
	}{
		{"normal", c.Profiles.Normal},
		{"safe", c.Profiles.Safe},
		{"super", c.Profiles.Super},
	} {
		errs = append(errs, validateSlices("profiles."+p.name, p.profile.Slices)...)
	}

	switch c.Server.Animation {
	case AnimationInstant, AnimationDelayed, AnimationManual:
	default:
		add("server.animation must be one of instant, delayed, manual, got %q", c.Server.Animation)
	}
	if c.Server.AnimationDelay < 0 {
		add("server.animation_delay must be >= 0, got %s", c.Server.AnimationDelay)
	}
	if c.Server.MaxSessions < 1 {
		add("server.max_sessions must be >= 1, got %d", c.Server.MaxSessions)
	}

	return errors.Join(errs...)
}

func validateSlices(prefix string, slices []wheel.Slice) []error {
	var errs []error
	bombs := 0
	for i, s := range slices {
		if strings.TrimSpace(s.ID) == "" {
			errs = append(errs, fmt.Errorf("%s.slices[%d].id must not be empty", prefix, i))
		}
		if s.Value < 0 {
			errs = append(errs, fmt.Errorf("%s.slices[%d].value must be >= 0, got %d", prefix, i, s.Value))
		}
		if i < wheel.SliceCount && s.IsBomb() {
			bombs++
		}
	}
	if bombs > 1 {
		errs = append(errs, fmt.Errorf("%s has %d bomb placeholders, at most 1 allowed", prefix, bombs))
	}
	return errs
}

// Profile builds the game profile. The post-spin delay is clamped to
// [0, MaxPostSpinDelay].
func (c *Config) Profile() wheel.Profile {
	return wheel.Profile{
		SafeInterval:     c.Zones.SafeInterval,
		SuperInterval:    c.Zones.SuperInterval,
		BaseContinueCost: c.Continue.BaseCost,
		PostSpinDelay:    min(max(c.Spin.PostDelay, 0), MaxPostSpinDelay),
		Normal:           c.Profiles.Normal,
		Safe:             c.Profiles.Safe,
		Super:            c.Profiles.Super,
		Bomb:             wheel.BombSlice(c.Bomb.SliceID),
	}
}

// Randomizer returns the randomizer settings.
func (c *Config) Randomizer() spin.Config {
	return spin.Config{
		BaseChance:        c.Bomb.BaseChance,
		Increment:         c.Bomb.Increment,
		MaxChance:         c.Bomb.MaxChance,
		IncrementInterval: c.Bomb.IncrementInterval,
		Seed:              c.Seed.Value,
		UseSeed:           c.Seed.Fixed,
	}
}
