package parameter

import "time"

// Session
const (
	// BallsPerGame is the default number of lives
	BallsPerGame = 5
)

// Scoring
const (
	BumperPoints     = 100
	TargetPoints     = 500
	AllTargetsBonus  = 2500
	MaxHighScores    = 10
	InitialsMaxRunes = 3
	DefaultInitials  = "AAA"

	// HighScoreTimeout bounds each store round trip
	HighScoreTimeout = 2 * time.Second
)

// Launcher (plunger)
const (
	LauncherMinPower = 10.0
	LauncherMaxPower = 30.0

	// LauncherSpeed is the power change per tick while charging
	LauncherSpeed = 0.8
)

// Delayed actions
const (
	// SettleDelay is the pause between a drain and the next life (or game over)
	SettleDelay = 1500 * time.Millisecond

	// BonusResetDelay lets the player see the cleared bank before targets re-arm
	BonusResetDelay = 1000 * time.Millisecond

	// InstructionsDuration is how long the start banner stays visible
	InstructionsDuration = 3000 * time.Millisecond
)

// Input
const (
	// KeyHoldTimeout treats a paddle key as released when no repeat arrives within it
	KeyHoldTimeout = 300 * time.Millisecond

	// KeyRepeatGuard swallows auto-repeat of the launcher toggle key
	KeyRepeatGuard = 150 * time.Millisecond
)
