package engine

import (
	"errors"

	"github.com/lixenwraith/pinball/vmath"
)

// ErrUnknownBody is returned when a handle does not name a live body or joint
var ErrUnknownBody = errors.New("unknown body")

// BodyID is an opaque rigid body handle issued by a Simulator, zero is never issued
type BodyID uint32

// JointID is an opaque constraint handle, zero is never issued
type JointID uint32

// NoBody marks an absent body
const NoBody BodyID = 0

// BodyKind selects how the simulator integrates a body
type BodyKind uint8

const (
	// BodyStatic never moves
	BodyStatic BodyKind = iota
	// BodyDynamic is integrated under gravity, contacts and joints
	BodyDynamic
)

// Role classifies a body for collision filtering and contact reporting
type Role uint8

const (
	RoleWall Role = iota
	RoleBall
	RolePaddle
	RoleBumper
	RoleTarget
)

var roleNames = [...]string{"wall", "ball", "paddle", "bumper", "target"}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// ShapeKind selects the collision primitive
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeBox
	ShapeSegment
)

// Shape is a collision primitive in body-local coordinates
type Shape struct {
	Kind ShapeKind

	// Radius is the circle radius or the segment half thickness
	Radius float64

	// Width/Height are box extents centered on the body
	Width, Height float64

	// A/B are segment endpoints
	A, B vmath.Vec2F
}

// Circle is a circle centered on the body
func Circle(r float64) Shape {
	return Shape{Kind: ShapeCircle, Radius: r}
}

// Box is an axis-aligned (in body space) rectangle centered on the body
func Box(w, h float64) Shape {
	return Shape{Kind: ShapeBox, Width: w, Height: h}
}

// Segment is a rounded line between two body-local points
func Segment(a, b vmath.Vec2F, radius float64) Shape {
	return Shape{Kind: ShapeSegment, A: a, B: b, Radius: radius}
}

// Material holds surface response coefficients
type Material struct {
	Elasticity float64
	Friction   float64
}

// BodyDef describes a body to create
type BodyDef struct {
	Kind     BodyKind
	Role     Role
	Position vmath.Vec2F
	Angle    float64
	Mass     float64 // dynamic only
	Material Material
	Shapes   []Shape

	// Pass makes a static body one-way: the ball crosses it while moving along Pass
	Pass vmath.Vec2F
}

// BodyState is a read-only copy of body kinematics
type BodyState struct {
	Position        vmath.Vec2F
	Velocity        vmath.Vec2F
	Angle           float64
	AngularVelocity float64
}

// Contact reports two bodies that started touching during a step
type Contact struct {
	A, B BodyID
}

// Other returns the body paired with id, or NoBody if id is not part of the contact
func (c Contact) Other(id BodyID) BodyID {
	switch id {
	case c.A:
		return c.B
	case c.B:
		return c.A
	}
	return NoBody
}

// Simulator is the rigid-body engine contract the gameplay core drives
// Coordinates are table pixels with +Y toward the drain; angles are counter-clockwise on screen
// All calls happen on the game loop goroutine
type Simulator interface {
	CreateBody(def BodyDef) (BodyID, error)
	RemoveBody(id BodyID) error
	Exists(id BodyID) bool
	Body(id BodyID) (BodyState, bool)
	Role(id BodyID) (Role, bool)

	// SetPosition and SetAngle move dynamic bodies only, static geometry is fixed at creation
	SetPosition(id BodyID, p vmath.Vec2F) error
	SetVelocity(id BodyID, v vmath.Vec2F) error
	SetAngle(id BodyID, angle float64) error
	SetAngularVelocity(id BodyID, w float64) error
	ApplyImpulse(id BodyID, impulse vmath.Vec2F) error

	// CreateHinge pins a dynamic body to the world at a world-space pivot
	CreateHinge(id BodyID, pivot vmath.Vec2F) (JointID, error)
	RemoveJoint(id JointID) error

	// Step integrates dt seconds and returns contacts begun during the step
	Step(dt float64) []Contact
}
