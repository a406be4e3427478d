package physics

import (
	"github.com/lixenwraith/pinball/vmath"
)

// CapSpeed limits the velocity magnitude to maxSpeed
// Returns the capped velocity and true if it was clamped
func CapSpeed(v vmath.Vec2F, maxSpeed float64) (vmath.Vec2F, bool) {
	magSq := vmath.V2FMagSq(v)
	if magSq <= maxSpeed*maxSpeed {
		return v, false
	}
	mag := vmath.V2FMag(v)
	if mag == 0 {
		return v, false
	}
	return vmath.V2FScale(v, maxSpeed/mag), true
}
