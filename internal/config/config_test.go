package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/wheel"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	p := cfg.Profile()
	if !p.HasValidBaseline() {
		t.Fatal("default profile has no baseline")
	}
	if p.SafeInterval != 5 || p.SuperInterval != 30 || p.BaseContinueCost != 200 || p.PostSpinDelay != time.Second {
		t.Errorf("unexpected profile settings: %+v", p)
	}
	if got := wheel.BombIndex(p.Normal.Slices); got != 3 {
		t.Errorf("normal bomb placeholder at %d, want 3", got)
	}
	if !p.Bomb.IsBomb() || p.Bomb.ID != "bomb" {
		t.Errorf("bomb slice = %+v", p.Bomb)
	}

	rc := cfg.Randomizer()
	if rc.Increment != 0.02 || rc.MaxChance != 0.3 || rc.IncrementInterval != 5 || rc.Seed != 12345 || rc.UseSeed {
		t.Errorf("unexpected randomizer config: %+v", rc)
	}
}

func TestOverlayKeepsUnsetKeys(t *testing.T) {
	cfg, err := Parse([]byte(`
zones:
  safe_interval: 4
spin:
  post_delay: 250ms
profiles:
  safe:
    visual:
      title: PLATINUM
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Zones.SafeInterval != 4 || cfg.Zones.SuperInterval != 30 {
		t.Errorf("zones = %+v", cfg.Zones)
	}
	if cfg.Spin.PostDelay != 250*time.Millisecond {
		t.Errorf("post_delay = %s", cfg.Spin.PostDelay)
	}
	if cfg.Profiles.Safe.Visual.Title != "PLATINUM" || cfg.Profiles.Safe.Visual.BackgroundColor != "#7A7A7A" {
		t.Errorf("safe visual = %+v", cfg.Profiles.Safe.Visual)
	}
	if len(cfg.Profiles.Safe.Slices) != wheel.SliceCount {
		t.Errorf("safe slices dropped: %d", len(cfg.Profiles.Safe.Slices))
	}
}

func TestSlicesAreReplacedWhole(t *testing.T) {
	cfg, err := Parse([]byte(`
profiles:
  super:
    slices:
      - {id: jackpot, kind: currency, value: 9999}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := cfg.Profiles.Super.Slices
	if len(got) != 1 || got[0].ID != "jackpot" || got[0].Kind != wheel.RewardCurrency {
		t.Fatalf("super slices = %+v", got)
	}
}

func TestValidateCollectsEveryError(t *testing.T) {
	cfg, err := Parse([]byte(`
zones:
  safe_interval: 0
  super_interval: -3
continue:
  base_cost: 0
spin:
  post_delay: 11s
bomb:
  slice_id: ""
  max_chance: 1.5
server:
  animation: slow
profiles:
  normal:
    slices:
      - {id: a, kind: bomb}
      - {id: b, kind: bomb}
      - {id: "", kind: currency, value: -1}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	err = cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	for _, want := range []string{
		"zones.safe_interval",
		"zones.super_interval",
		"continue.base_cost must be >= 1",
		"spin.post_delay",
		"bomb.slice_id",
		"bomb.max_chance",
		"server.animation",
		"profiles.normal needs at least 8 slices",
		"profiles.normal has 2 bomb placeholders",
		"profiles.normal.slices[2].id",
		"profiles.normal.slices[2].value",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in:\n%s", want, msg)
		}
	}
}

func TestUnknownKindRejected(t *testing.T) {
	_, err := Parse([]byte(`
profiles:
  normal:
    slices:
      - {id: a, kind: diamond}
`))
	if err == nil {
		t.Fatal("expected a decode error for an unknown kind")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		"WHEEL_ADDR":      "127.0.0.1:9000",
		"WHEEL_DB":        "/tmp/w.db",
		"WHEEL_LOG_LEVEL": "",
	}
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.DBPath != "/tmp/w.db" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.Log.Level != "info" {
		t.Errorf("empty env value overrode level: %q", cfg.Server.Log.Level)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheel.yaml")
	if err := os.WriteFile(path, []byte("continue:\n  base_cost: 300\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WHEEL_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Continue.BaseCost != 300 || cfg.Server.Log.Level != "warn" {
		t.Errorf("cost = %d level = %q", cfg.Continue.BaseCost, cfg.Server.Log.Level)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestProfileClampsDelay(t *testing.T) {
	cfg := Default()
	cfg.Spin.PostDelay = time.Minute
	if got := cfg.Profile().PostSpinDelay; got != MaxPostSpinDelay {
		t.Errorf("PostSpinDelay = %s, want %s", got, MaxPostSpinDelay)
	}
	cfg.Spin.PostDelay = -time.Second
	if got := cfg.Profile().PostSpinDelay; got != 0 {
		t.Errorf("PostSpinDelay = %s, want 0", got)
	}
}
