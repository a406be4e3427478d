package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv isolates a test from variables set in the developer shell
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfigPath, EnvBalls, EnvAudio, EnvVolume, EnvTick, EnvRedisURL} {
		t.Setenv(k, "")
	}
}

// TestDefaultValid verifies the stock configuration passes validation
func TestDefaultValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config to validate, got %v", err)
	}
	if cfg.Balls != 5 {
		t.Errorf("Expected 5 balls, got %d", cfg.Balls)
	}
	if cfg.Table.DrainLine() != 1330 {
		t.Errorf("Expected drain line 1330, got %v", cfg.Table.DrainLine())
	}
}

// TestLoadTOMLOverrides verifies file values replace defaults and untouched fields survive
func TestLoadTOMLOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "pinball.toml")
	data := `
balls = 3

[timing]
settle_delay = "500ms"

[scoring]
bumper_points = 250
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Balls != 3 {
		t.Errorf("Expected 3 balls, got %d", cfg.Balls)
	}
	if cfg.Timing.SettleDelay.Duration != 500*time.Millisecond {
		t.Errorf("Expected 500ms settle delay, got %v", cfg.Timing.SettleDelay.Duration)
	}
	if cfg.Scoring.BumperPoints != 250 {
		t.Errorf("Expected 250 bumper points, got %d", cfg.Scoring.BumperPoints)
	}
	if cfg.Scoring.TargetPoints != 500 {
		t.Errorf("Expected default target points 500, got %d", cfg.Scoring.TargetPoints)
	}
}

// TestLoadEnvOverridesFile verifies environment wins over the TOML file
func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "pinball.toml")
	if err := os.WriteFile(path, []byte("balls = 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvBalls, "7")
	t.Setenv(EnvAudio, "false")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/2")

	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Balls != 7 {
		t.Errorf("Expected 7 balls from env, got %d", cfg.Balls)
	}
	if cfg.Audio.Enabled {
		t.Error("Expected audio disabled from env")
	}
	if cfg.HighScore.RedisURL != "redis://localhost:6379/2" {
		t.Errorf("Expected redis url from env, got %q", cfg.HighScore.RedisURL)
	}
}

// TestLoadDotEnvFile verifies a .env file feeds the override pass
func TestLoadDotEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvVolume)
	t.Cleanup(func() { os.Unsetenv(EnvVolume) })

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("PINBALL_VOLUME=0.25\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", envPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Audio.Volume != 0.25 {
		t.Errorf("Expected volume 0.25, got %v", cfg.Audio.Volume)
	}
}

// TestLoadRejectsBadEnv verifies malformed environment values surface ErrInvalid
func TestLoadRejectsBadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTick, "fast")

	_, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid, got %v", err)
	}
}

// TestValidateRanges verifies representative out-of-range values are rejected
func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero balls", func(c *Config) { c.Balls = 0 }},
		{"inverted left paddle", func(c *Config) { c.Paddle.LeftActive = c.Paddle.LeftRest - 0.1 }},
		{"inverted right paddle", func(c *Config) { c.Paddle.RightActive = c.Paddle.RightRest + 0.1 }},
		{"return ratio", func(c *Config) { c.Paddle.ReturnRatio = 0 }},
		{"launcher range", func(c *Config) { c.Launcher.MaxPower = c.Launcher.MinPower }},
		{"negative points", func(c *Config) { c.Scoring.BumperPoints = -1 }},
		{"tick too long", func(c *Config) { c.Timing.Tick = D(time.Second) }},
		{"volume", func(c *Config) { c.Audio.Volume = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Expected ErrInvalid, got %v", err)
			}
		})
	}
}

// TestSaveRoundTrip verifies Save output is accepted by Load
func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "out.toml")

	cfg := Default()
	cfg.Timing.BonusResetDelay = D(2 * time.Second)
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Timing.BonusResetDelay.Duration != 2*time.Second {
		t.Errorf("Expected 2s bonus reset, got %v", loaded.Timing.BonusResetDelay.Duration)
	}
}
