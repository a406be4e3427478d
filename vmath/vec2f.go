package vmath

import (
	"math"
)

// Vec2F is a float64 2D vector in table space (pixels, +Y down)
type Vec2F struct {
	X, Y float64
}

func V2F(x, y float64) Vec2F {
	return Vec2F{X: x, Y: y}
}

func V2FAdd(a, b Vec2F) Vec2F {
	return Vec2F{a.X + b.X, a.Y + b.Y}
}

func V2FSub(a, b Vec2F) Vec2F {
	return Vec2F{a.X - b.X, a.Y - b.Y}
}

func V2FScale(v Vec2F, s float64) Vec2F {
	return Vec2F{v.X * s, v.Y * s}
}

func V2FMagSq(v Vec2F) float64 {
	return v.X*v.X + v.Y*v.Y
}

func V2FMag(v Vec2F) float64 {
	return math.Sqrt(V2FMagSq(v))
}

// V2FNormalize returns the unit vector, or the zero vector for zero input
func V2FNormalize(v Vec2F) Vec2F {
	mag := V2FMag(v)
	if mag == 0 {
		return Vec2F{}
	}
	inv := 1.0 / mag
	return Vec2F{v.X * inv, v.Y * inv}
}

// V2FDirection returns the unit vector from origin toward target
// Falls back to fallback when the points coincide within epsilon
func V2FDirection(origin, target Vec2F, epsilon float64, fallback Vec2F) Vec2F {
	d := V2FSub(target, origin)
	mag := V2FMag(d)
	if mag <= epsilon {
		return fallback
	}
	return V2FScale(d, 1.0/mag)
}

// V2FRotate rotates v by angle radians
func V2FRotate(v Vec2F, angle float64) Vec2F {
	sin, cos := math.Sincos(angle)
	return Vec2F{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

func V2FDot(a, b Vec2F) float64 {
	return a.X*b.X + a.Y*b.Y
}

func V2FDist(a, b Vec2F) float64 {
	return V2FMag(V2FSub(a, b))
}

// ClampF clamps v into [lo, hi]; bounds may be given in either order
func ClampF(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// V2FLerp interpolates from a to b by t
func V2FLerp(a, b Vec2F, t float64) Vec2F {
	return Vec2F{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}
