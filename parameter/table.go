package parameter

import "math"

// Table dimensions
const (
	TableWidth  = 720.0
	TableHeight = 1280.0

	// DrainMargin is the distance below the table bottom that counts as drained
	DrainMargin = 50.0
)

// Playfield is the region left of the launch lane
const (
	PlayfieldLeft   = WallThickness
	PlayfieldRight  = 600.0
	PlayfieldCenter = (PlayfieldLeft + PlayfieldRight) / 2
)

// Launch lane and bucket
const (
	LaneSeparatorX      = 610.0
	LaneSeparatorTop    = 420.0
	LaneSeparatorBottom = 1220.0

	BucketFloorY     = 1210.0
	BucketFloorWidth = 100.0
	BucketWallTop    = 1100.0

	// LaneGateRise is how far the one-way gate climbs from the separator top to the right wall
	LaneGateRise = 40.0

	// BallSpawnX/Y is the resting coordinate inside the launch bucket
	BallSpawnX = TableWidth - 60
	BallSpawnY = TableHeight - 120
)

// Curved guides in the top corners
const (
	CurvedGuideRadius      = 140.0
	CurvedGuideInnerRadius = 90.0

	// CurvedGuideInnerInset trims the inner arc at both ends so the channel stays open (radians)
	CurvedGuideInnerInset = 0.35

	// CurvedGuideExit is how far past the left wall tangent the left orbit extends (radians)
	CurvedGuideExit = math.Pi / 4
)

// Paddle pivots
const (
	PaddlePivotY      = 1150.0
	PaddleLeftPivotX  = 160.0
	PaddleRightPivotX = 2*PlayfieldCenter - PaddleLeftPivotX
)

// Scoring element layout
const (
	BumperClusterY = 300.0
	BumperSpacingX = 80.0
	BumperSpacingY = 60.0
	TargetRowY     = 560.0
	TargetRowGap   = 100.0
	TargetSpacingX = 80.0
	TargetsPerRow  = 3
	TargetRowCount = 2
	TargetCount    = TargetsPerRow * TargetRowCount
	BumperCount    = 4

	// Kicker edge runs parallel to the outlane guide at KickerOffset, spanning KickerEdgeStart..KickerEdgeEnd along it
	KickerOffset    = 52.0
	KickerEdgeStart = 20.0
	KickerEdgeEnd   = 110.0
	KickerTipX      = 210.0
	KickerTipY      = 1040.0
	OutlaneTopX     = 60.0
	OutlaneTopY     = 980.0
	OutlaneBottomX  = 150.0
	OutlaneBottomY  = 1130.0
	InlaneX         = 60.0
	InlaneTopY      = 880.0
	InlaneBottomY   = OutlaneTopY
)
