// Package config holds the read-only session configuration
// Values load in order: defaults, optional TOML file, .env and process environment
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/pinball/parameter"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// Config is the full session configuration, never mutated after Load returns
type Config struct {
	Balls     int       `toml:"balls"`
	Table     Table     `toml:"table"`
	Paddle    Paddle    `toml:"paddle"`
	Launcher  Launcher  `toml:"launcher"`
	Scoring   Scoring   `toml:"scoring"`
	Timing    Timing    `toml:"timing"`
	Audio     Audio     `toml:"audio"`
	HighScore HighScore `toml:"highscore"`
}

// Table describes playfield extents and world constants
type Table struct {
	Width       float64 `toml:"width"`
	Height      float64 `toml:"height"`
	DrainMargin float64 `toml:"drain_margin"`
	BallRadius  float64 `toml:"ball_radius"`
	Gravity     float64 `toml:"gravity"`
}

// Paddle holds flipper motion limits, angles in radians counter-clockwise on screen
type Paddle struct {
	AngularVelocity float64 `toml:"angular_velocity"`
	ReturnRatio     float64 `toml:"return_ratio"`
	LeftRest        float64 `toml:"left_rest"`
	LeftActive      float64 `toml:"left_active"`
	RightRest       float64 `toml:"right_rest"`
	RightActive     float64 `toml:"right_active"`
}

// Launcher holds plunger charge oscillation
type Launcher struct {
	MinPower      float64 `toml:"min_power"`
	MaxPower      float64 `toml:"max_power"`
	Speed         float64 `toml:"speed"`
	VelocityScale float64 `toml:"velocity_scale"`
}

// Scoring holds point values and the bumper kick
type Scoring struct {
	BumperPoints    int     `toml:"bumper_points"`
	TargetPoints    int     `toml:"target_points"`
	AllTargetsBonus int     `toml:"all_targets_bonus"`
	BumperImpulse   float64 `toml:"bumper_impulse"`
}

// Timing holds tick rate and game-time delays
type Timing struct {
	Tick            Duration `toml:"tick"`
	SettleDelay     Duration `toml:"settle_delay"`
	BonusResetDelay Duration `toml:"bonus_reset_delay"`
	Instructions    Duration `toml:"instructions"`
	KeyHold         Duration `toml:"key_hold"`
	KeyRepeatGuard  Duration `toml:"key_repeat_guard"`
}

// Audio controls the synthesized cue player
type Audio struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

// HighScore selects the score store, empty RedisURL keeps scores in memory
type HighScore struct {
	RedisURL string `toml:"redis_url"`
	Key      string `toml:"key"`
	Initials string `toml:"initials"`
}

// Duration is a time.Duration that reads and writes as "1500ms" in TOML
type Duration struct {
	time.Duration
}

// D wraps a time.Duration
func D(d time.Duration) Duration {
	return Duration{d}
}

// UnmarshalText parses Go duration syntax
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText writes Go duration syntax
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the stock table configuration
func Default() *Config {
	return &Config{
		Balls: parameter.BallsPerGame,
		Table: Table{
			Width:       parameter.TableWidth,
			Height:      parameter.TableHeight,
			DrainMargin: parameter.DrainMargin,
			BallRadius:  parameter.BallRadius,
			Gravity:     parameter.Gravity,
		},
		Paddle: Paddle{
			AngularVelocity: parameter.PaddleAngularVelocity,
			ReturnRatio:     parameter.PaddleReturnRatio,
			LeftRest:        parameter.PaddleLeftRestAngle,
			LeftActive:      parameter.PaddleLeftActiveAngle,
			RightRest:       parameter.PaddleRightRestAngle,
			RightActive:     parameter.PaddleRightActiveAngle,
		},
		Launcher: Launcher{
			MinPower:      parameter.LauncherMinPower,
			MaxPower:      parameter.LauncherMaxPower,
			Speed:         parameter.LauncherSpeed,
			VelocityScale: parameter.LaunchVelocityScale,
		},
		Scoring: Scoring{
			BumperPoints:    parameter.BumperPoints,
			TargetPoints:    parameter.TargetPoints,
			AllTargetsBonus: parameter.AllTargetsBonus,
			BumperImpulse:   parameter.BumperImpulse,
		},
		Timing: Timing{
			Tick:            D(parameter.TickInterval),
			SettleDelay:     D(parameter.SettleDelay),
			BonusResetDelay: D(parameter.BonusResetDelay),
			Instructions:    D(parameter.InstructionsDuration),
			KeyHold:         D(parameter.KeyHoldTimeout),
			KeyRepeatGuard:  D(parameter.KeyRepeatGuard),
		},
		Audio: Audio{
			Enabled: true,
			Volume:  parameter.DefaultVolume,
		},
		HighScore: HighScore{
			Key:      "pinball:highscores",
			Initials: parameter.DefaultInitials,
		},
	}
}

// Validate reports the first out-of-range value
func (c *Config) Validate() error {
	switch {
	case c.Balls < 1:
		return fmt.Errorf("%w: balls must be positive, got %d", ErrInvalid, c.Balls)
	case c.Table.Width <= 0 || c.Table.Height <= 0:
		return fmt.Errorf("%w: table size %vx%v", ErrInvalid, c.Table.Width, c.Table.Height)
	case c.Table.BallRadius <= 0:
		return fmt.Errorf("%w: ball radius %v", ErrInvalid, c.Table.BallRadius)
	case c.Table.DrainMargin < 0:
		return fmt.Errorf("%w: drain margin %v", ErrInvalid, c.Table.DrainMargin)
	case c.Paddle.AngularVelocity <= 0:
		return fmt.Errorf("%w: paddle angular velocity %v", ErrInvalid, c.Paddle.AngularVelocity)
	case c.Paddle.ReturnRatio <= 0 || c.Paddle.ReturnRatio > 1:
		return fmt.Errorf("%w: paddle return ratio %v outside (0,1]", ErrInvalid, c.Paddle.ReturnRatio)
	case c.Paddle.LeftActive <= c.Paddle.LeftRest:
		return fmt.Errorf("%w: left paddle active angle must exceed rest", ErrInvalid)
	case c.Paddle.RightActive >= c.Paddle.RightRest:
		return fmt.Errorf("%w: right paddle active angle must be below rest", ErrInvalid)
	case c.Launcher.MinPower < 0 || c.Launcher.MaxPower <= c.Launcher.MinPower:
		return fmt.Errorf("%w: launcher power range [%v,%v]", ErrInvalid, c.Launcher.MinPower, c.Launcher.MaxPower)
	case c.Launcher.Speed <= 0:
		return fmt.Errorf("%w: launcher speed %v", ErrInvalid, c.Launcher.Speed)
	case c.Scoring.BumperPoints < 0 || c.Scoring.TargetPoints < 0 || c.Scoring.AllTargetsBonus < 0:
		return fmt.Errorf("%w: negative point value", ErrInvalid)
	case c.Timing.Tick.Duration < parameter.MinTickInterval || c.Timing.Tick.Duration > parameter.MaxTickInterval:
		return fmt.Errorf("%w: tick %v outside [%v,%v]", ErrInvalid, c.Timing.Tick.Duration,
			parameter.MinTickInterval, parameter.MaxTickInterval)
	case c.Timing.SettleDelay.Duration < 0 || c.Timing.BonusResetDelay.Duration < 0 || c.Timing.Instructions.Duration < 0:
		return fmt.Errorf("%w: negative delay", ErrInvalid)
	case c.Audio.Volume < 0 || c.Audio.Volume > 1:
		return fmt.Errorf("%w: volume %v outside [0,1]", ErrInvalid, c.Audio.Volume)
	}
	return nil
}

// DrainLine is the y coordinate past which the ball counts as drained
func (t Table) DrainLine() float64 {
	return t.Height + t.DrainMargin
}

// TickSeconds returns the fixed step in seconds
func (c *Config) TickSeconds() float64 {
	return c.Timing.Tick.Seconds()
}
