package parameter

import "time"

// Game Loop & Engine Timing
const (
	// TickInterval is the fixed simulation step (~60 Hz)
	TickInterval = 16 * time.Millisecond

	// MinTickInterval bounds configured tick rates from below
	MinTickInterval = 4 * time.Millisecond

	// MaxTickInterval bounds configured tick rates from above; larger steps tunnel the ball through walls
	MaxTickInterval = 40 * time.Millisecond

	// MaxCatchUpTicks is the number of ticks the loop runs back-to-back after a stall before resyncing
	MaxCatchUpTicks = 4

	// PhysicsSubsteps splits each tick into smaller integration steps
	// BallMaxSpeed * MaxTickInterval / PhysicsSubsteps stays under the ball radius
	PhysicsSubsteps = 10

	// SolverIterations is the constraint solver iteration count for the physics space
	SolverIterations = 10
)

// Logging
const (
	LogDir      = "logs"
	LogFileName = "pinball.log"

	// MaxLogSize triggers rotation of the previous log file (10MB)
	MaxLogSize = 10 * 1024 * 1024
)
