package parameter

// Table space is in pixels with +Y pointing down the table (toward the drain)
// Body angles are counter-clockwise as seen on screen

// World
const (
	// Gravity is the downward acceleration in px/s^2
	Gravity = 500.0

	// LaunchVelocityScale converts launcher power into upward ball speed (px/s per power unit)
	LaunchVelocityScale = 115.0
)

// Ball
const (
	BallRadius     = 16.0
	BallMass       = 1.0
	BallFriction   = 0.005
	BallElasticity = 0.85

	// BallMaxSpeed caps ball speed (px/s) so one substep never moves further than the ball radius
	// It sits above the full-power launch speed
	BallMaxSpeed = 3600.0
)

// Paddle (flipper)
const (
	PaddleLength     = 120.0
	PaddleThickness  = 24.0
	PaddleMass       = 10.0
	PaddleElasticity = 1.2
	PaddleFriction   = 0.3

	// PaddleAngularVelocity is the activation speed in rad/s, return runs at PaddleReturnRatio of it
	PaddleAngularVelocity = 15.0
	PaddleReturnRatio     = 0.5

	// Left paddle rotates up by increasing angle, right paddle by decreasing
	PaddleLeftRestAngle    = -0.3
	PaddleLeftActiveAngle  = 0.6
	PaddleRightRestAngle   = 0.3
	PaddleRightActiveAngle = -0.6
)

// Bumper
const (
	BumperRadius     = 32.0
	BumperElasticity = 1.3

	// BumperImpulse is the radial kick magnitude (mass * px/s)
	BumperImpulse = 450.0

	// BumperFallbackEpsilon is the separation below which the kick uses the fallback direction
	BumperFallbackEpsilon = 1e-6
)

// Target
const (
	TargetWidth      = 40.0
	TargetHeight     = 80.0
	TargetElasticity = 0.5
)

// Static geometry materials
const (
	WallElasticity    = 0.5
	WallFriction      = 0.1
	GuideFriction     = 0.05
	BucketElasticity  = 0.2
	BucketFriction    = 0.5
	KickerElasticity  = 2.0
	GuideHalfWidth    = 5.0
	WallThickness     = 20.0
	CurvedGuideChords = 8

	// GatePassCos is the minimum cosine between the ball-to-gate contact normal and the pass direction
	// for the ball to cross a one-way gate
	GatePassCos = 0.5
)
