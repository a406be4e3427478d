// Package physics adapts the Chipmunk2D port (jakecoffman/cp) to engine.Simulator
package physics

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/parameter"
	"github.com/lixenwraith/pinball/vmath"
)

// ErrStaticBody is returned when moving a body created as static
var ErrStaticBody = errors.New("static body cannot move")

// Collision categories: the ball collides with everything, everything else only with the ball
const (
	categoryBall  uint = 1 << 0
	categoryTable uint = 1 << 1
)

type entry struct {
	id     engine.BodyID
	role   engine.Role
	kind   engine.BodyKind
	body   *cp.Body
	shapes []*cp.Shape
	pass   vmath.Vec2F
}

type joint struct {
	body       engine.BodyID
	constraint *cp.Constraint
}

// World is a Chipmunk2D space in table coordinates
// cp angles grow clockwise on a y-down screen, so angles and angular velocities are negated at the boundary
type World struct {
	space    *cp.Space
	substeps int
	maxSpeed float64

	bodies    map[engine.BodyID]*entry
	joints    map[engine.JointID]*joint
	nextBody  engine.BodyID
	nextJoint engine.JointID

	// Contacts begun during the current Step, deduplicated per body pair
	contacts []engine.Contact
	seen     map[[2]engine.BodyID]struct{}
}

// NewWorld creates an empty space with gravity along +Y
func NewWorld(gravity float64) *World {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: 0, Y: gravity})
	space.Iterations = parameter.SolverIterations

	w := &World{
		space:    space,
		substeps: parameter.PhysicsSubsteps,
		maxSpeed: parameter.BallMaxSpeed,
		bodies:   make(map[engine.BodyID]*entry),
		joints:   make(map[engine.JointID]*joint),
		seen:     make(map[[2]engine.BodyID]struct{}),
	}

	handler := space.NewWildcardCollisionHandler(collisionType(engine.RoleBall))
	handler.BeginFunc = w.begin
	return w
}

func collisionType(r engine.Role) cp.CollisionType {
	return cp.CollisionType(r) + 1
}

func toCP(v vmath.Vec2F) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

func fromCP(v cp.Vector) vmath.Vec2F {
	return vmath.Vec2F{X: v.X, Y: v.Y}
}

func (w *World) begin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	a, b := arb.Bodies()
	ida, oka := a.UserData.(engine.BodyID)
	idb, okb := b.UserData.(engine.BodyID)
	if !oka || !okb {
		return true
	}
	if w.crossing(arb, ida, idb) {
		return false
	}
	key := [2]engine.BodyID{ida, idb}
	if idb < ida {
		key = [2]engine.BodyID{idb, ida}
	}
	if _, dup := w.seen[key]; !dup {
		w.seen[key] = struct{}{}
		w.contacts = append(w.contacts, engine.Contact{A: ida, B: idb})
	}
	return true
}

// crossing reports whether the ball is passing through a one-way gate
// The ball must move along the pass direction and meet the gate from its entry side
// Returning false from begin makes cp ignore the pair until it separates
func (w *World) crossing(arb *cp.Arbiter, ida, idb engine.BodyID) bool {
	ball, gate := w.bodies[ida], w.bodies[idb]
	normal := fromCP(arb.Normal())
	if ball == nil || gate == nil {
		return false
	}
	if ball.role != engine.RoleBall {
		ball, gate = gate, ball
		normal = vmath.V2FScale(normal, -1)
	}
	if ball.role != engine.RoleBall || gate.pass == (vmath.Vec2F{}) {
		return false
	}
	pass := vmath.V2FNormalize(gate.pass)
	return vmath.V2FDot(fromCP(ball.body.Velocity()), pass) > 0 &&
		vmath.V2FDot(normal, pass) > parameter.GatePassCos
}

// CreateBody adds a body and its shapes to the space
func (w *World) CreateBody(def engine.BodyDef) (engine.BodyID, error) {
	if len(def.Shapes) == 0 {
		return engine.NoBody, fmt.Errorf("body without shapes")
	}

	var body *cp.Body
	switch def.Kind {
	case engine.BodyStatic:
		body = cp.NewStaticBody()
	case engine.BodyDynamic:
		if def.Mass <= 0 {
			return engine.NoBody, fmt.Errorf("dynamic body needs positive mass, got %v", def.Mass)
		}
		body = cp.NewBody(def.Mass, moment(def))
	default:
		return engine.NoBody, fmt.Errorf("unknown body kind %d", def.Kind)
	}
	body.SetPosition(toCP(def.Position))
	body.SetAngle(-def.Angle)

	w.nextBody++
	id := w.nextBody
	body.UserData = id
	w.space.AddBody(body)

	filter := cp.NewShapeFilter(cp.NO_GROUP, categoryTable, categoryBall)
	if def.Role == engine.RoleBall {
		filter = cp.NewShapeFilter(cp.NO_GROUP, categoryBall, cp.ALL_CATEGORIES)
	}

	e := &entry{id: id, role: def.Role, kind: def.Kind, body: body}
	if def.Kind == engine.BodyStatic {
		e.pass = def.Pass
	}
	for _, s := range def.Shapes {
		var shape *cp.Shape
		switch s.Kind {
		case engine.ShapeCircle:
			shape = cp.NewCircle(body, s.Radius, cp.Vector{})
		case engine.ShapeBox:
			shape = cp.NewBox(body, s.Width, s.Height, 0)
		case engine.ShapeSegment:
			shape = cp.NewSegment(body, toCP(s.A), toCP(s.B), s.Radius)
		default:
			w.removeEntry(e)
			return engine.NoBody, fmt.Errorf("unknown shape kind %d", s.Kind)
		}
		shape.SetElasticity(def.Material.Elasticity)
		shape.SetFriction(def.Material.Friction)
		shape.SetCollisionType(collisionType(def.Role))
		shape.SetFilter(filter)
		shape.UserData = id
		w.space.AddShape(shape)
		e.shapes = append(e.shapes, shape)
	}

	w.bodies[id] = e
	return id, nil
}

// moment sums shape moments about the body origin
func moment(def engine.BodyDef) float64 {
	m := def.Mass / float64(len(def.Shapes))
	total := 0.0
	for _, s := range def.Shapes {
		switch s.Kind {
		case engine.ShapeCircle:
			total += cp.MomentForCircle(m, 0, s.Radius, cp.Vector{})
		case engine.ShapeBox:
			total += cp.MomentForBox(m, s.Width, s.Height)
		case engine.ShapeSegment:
			total += cp.MomentForSegment(m, toCP(s.A), toCP(s.B), s.Radius)
		}
	}
	return total
}

// RemoveBody removes the body, its shapes and any joint attached to it
func (w *World) RemoveBody(id engine.BodyID) error {
	e, ok := w.bodies[id]
	if !ok {
		return engine.ErrUnknownBody
	}
	for jid, j := range w.joints {
		if j.body == id {
			w.space.RemoveConstraint(j.constraint)
			delete(w.joints, jid)
		}
	}
	w.removeEntry(e)
	delete(w.bodies, id)
	return nil
}

func (w *World) removeEntry(e *entry) {
	for _, s := range e.shapes {
		w.space.RemoveShape(s)
	}
	e.shapes = nil
	w.space.RemoveBody(e.body)
}

func (w *World) Exists(id engine.BodyID) bool {
	_, ok := w.bodies[id]
	return ok
}

func (w *World) Body(id engine.BodyID) (engine.BodyState, bool) {
	e, ok := w.bodies[id]
	if !ok {
		return engine.BodyState{}, false
	}
	return engine.BodyState{
		Position:        fromCP(e.body.Position()),
		Velocity:        fromCP(e.body.Velocity()),
		Angle:           -e.body.Angle(),
		AngularVelocity: -e.body.AngularVelocity(),
	}, true
}

func (w *World) Role(id engine.BodyID) (engine.Role, bool) {
	e, ok := w.bodies[id]
	if !ok {
		return 0, false
	}
	return e.role, true
}

func (w *World) SetPosition(id engine.BodyID, p vmath.Vec2F) error {
	e, err := w.movable(id)
	if err != nil {
		return err
	}
	e.body.SetPosition(toCP(p))
	return nil
}

func (w *World) SetVelocity(id engine.BodyID, v vmath.Vec2F) error {
	return w.dynamic(id, func(b *cp.Body) { b.SetVelocity(v.X, v.Y) })
}

func (w *World) SetAngle(id engine.BodyID, angle float64) error {
	e, err := w.movable(id)
	if err != nil {
		return err
	}
	e.body.SetAngle(-angle)
	return nil
}

// movable returns a dynamic body; static geometry is fixed once created
func (w *World) movable(id engine.BodyID) (*entry, error) {
	e, ok := w.bodies[id]
	if !ok {
		return nil, engine.ErrUnknownBody
	}
	if e.kind != engine.BodyDynamic {
		return nil, fmt.Errorf("%w: body %d", ErrStaticBody, id)
	}
	return e, nil
}

func (w *World) SetAngularVelocity(id engine.BodyID, av float64) error {
	return w.dynamic(id, func(b *cp.Body) { b.SetAngularVelocity(-av) })
}

func (w *World) ApplyImpulse(id engine.BodyID, impulse vmath.Vec2F) error {
	return w.dynamic(id, func(b *cp.Body) { b.ApplyImpulseAtWorldPoint(toCP(impulse), b.Position()) })
}

// dynamic runs fn on a dynamic body; static bodies silently ignore velocity changes
func (w *World) dynamic(id engine.BodyID, fn func(*cp.Body)) error {
	e, ok := w.bodies[id]
	if !ok {
		return engine.ErrUnknownBody
	}
	if e.kind == engine.BodyDynamic {
		fn(e.body)
	}
	return nil
}

// CreateHinge pins the body to the static world body at pivot
func (w *World) CreateHinge(id engine.BodyID, pivot vmath.Vec2F) (engine.JointID, error) {
	e, ok := w.bodies[id]
	if !ok {
		return 0, engine.ErrUnknownBody
	}
	if e.kind != engine.BodyDynamic {
		return 0, fmt.Errorf("hinge on static body %d", id)
	}
	c := w.space.AddConstraint(cp.NewPivotJoint(w.space.StaticBody, e.body, toCP(pivot)))
	w.nextJoint++
	w.joints[w.nextJoint] = &joint{body: id, constraint: c}
	return w.nextJoint, nil
}

func (w *World) RemoveJoint(id engine.JointID) error {
	j, ok := w.joints[id]
	if !ok {
		return engine.ErrUnknownBody
	}
	w.space.RemoveConstraint(j.constraint)
	delete(w.joints, id)
	return nil
}

// Step advances dt seconds in fixed substeps, capping ball speed after each
func (w *World) Step(dt float64) []engine.Contact {
	w.contacts = nil
	clear(w.seen)

	sub := dt / float64(w.substeps)
	for i := 0; i < w.substeps; i++ {
		w.space.Step(sub)
		w.capBallSpeed()
	}
	return w.contacts
}

func (w *World) capBallSpeed() {
	for _, e := range w.bodies {
		if e.role != engine.RoleBall {
			continue
		}
		if v, capped := CapSpeed(fromCP(e.body.Velocity()), w.maxSpeed); capped {
			e.body.SetVelocity(v.X, v.Y)
		}
	}
}

var _ engine.Simulator = (*World)(nil)
