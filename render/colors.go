package render

import "github.com/gdamore/tcell/v2"

// Table palette
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbWall       = tcell.NewRGBColor(120, 130, 160) // Slate
	RgbLane       = tcell.NewRGBColor(70, 75, 100)   // Dim slate for the launch lane floor
	RgbKicker     = tcell.NewRGBColor(255, 120, 200) // Pink slingshots
	RgbBumper     = tcell.NewRGBColor(255, 80, 80)   // Red
	RgbTargetLit  = tcell.NewRGBColor(255, 255, 0)   // Bright yellow
	RgbTargetDown = tcell.NewRGBColor(101, 67, 33)   // Dark brown
	RgbPaddle     = tcell.NewRGBColor(100, 150, 255) // Blue
	RgbBall       = tcell.NewRGBColor(255, 255, 255) // White
)

// HUD palette
var (
	RgbStatusText  = tcell.NewRGBColor(255, 255, 255) // White
	RgbStatusDim   = tcell.NewRGBColor(180, 180, 180) // Brighter gray
	RgbPowerLow    = tcell.NewRGBColor(0, 200, 0)     // Normal green
	RgbPowerHigh   = tcell.NewRGBColor(255, 165, 0)   // Orange
	RgbBonus       = tcell.NewRGBColor(255, 255, 0)   // Bright yellow
	RgbOverlayBg   = tcell.NewRGBColor(40, 42, 60)    // Panel background
	RgbOverlayText = tcell.NewRGBColor(135, 206, 250) // Light sky blue
	RgbGameOver    = tcell.NewRGBColor(255, 0, 0)     // Red
)
