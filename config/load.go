package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment keys
const (
	EnvConfigPath = "PINBALL_CONFIG"
	EnvBalls      = "PINBALL_BALLS"
	EnvAudio      = "PINBALL_AUDIO"
	EnvVolume     = "PINBALL_VOLUME"
	EnvTick       = "PINBALL_TICK"
	EnvRedisURL   = "REDIS_URL"
)

// Load builds a validated config from defaults, the TOML file at path (if any) and the environment
// An empty path falls back to $PINBALL_CONFIG; a missing file at that point is an error
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if err := loadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as TOML
func Save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := Encode(f, cfg); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// Encode writes cfg as TOML to w
func Encode(w io.Writer, cfg *Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// loadDotEnv populates the process environment from .env files, absent files are skipped
// Variables already set in the environment win
func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg fields from environment variables
func ApplyEnv(cfg *Config) error {
	var err error
	if cfg.Balls, err = getEnvInt(EnvBalls, cfg.Balls); err != nil {
		return err
	}
	if cfg.Audio.Enabled, err = getEnvBool(EnvAudio, cfg.Audio.Enabled); err != nil {
		return err
	}
	if cfg.Audio.Volume, err = getEnvFloat(EnvVolume, cfg.Audio.Volume); err != nil {
		return err
	}
	if cfg.Timing.Tick.Duration, err = getEnvDuration(EnvTick, cfg.Timing.Tick.Duration); err != nil {
		return err
	}
	cfg.HighScore.RedisURL = getEnv(EnvRedisURL, cfg.HighScore.RedisURL)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%w: %s=%q", ErrInvalid, key, value)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("%w: %s=%q", ErrInvalid, key, value)
	}
	return v, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%w: %s=%q", ErrInvalid, key, value)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%w: %s=%q", ErrInvalid, key, value)
	}
	return v, nil
}
