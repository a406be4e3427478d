// Package enginetest provides a deterministic in-memory Simulator for gameplay tests
package enginetest

import (
	"fmt"

	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/vmath"
)

// FakeBody is the stored state of one body
type FakeBody struct {
	Def     engine.BodyDef
	State   engine.BodyState
	Hinged  bool
	Impulse vmath.Vec2F // accumulated impulse, for assertions
}

// Fake integrates dynamic bodies with explicit Euler and no collision detection
// Contacts are injected with QueueContact and returned by the next Step
type Fake struct {
	Gravity vmath.Vec2F

	bodies    map[engine.BodyID]*FakeBody
	joints    map[engine.JointID]engine.BodyID
	nextBody  engine.BodyID
	nextJoint engine.JointID
	pending   []engine.Contact

	// Steps counts Step calls
	Steps int

	// BeforeStep, when set, runs at the start of every Step
	BeforeStep func(f *Fake)
}

// NewFake creates an empty world without gravity
func NewFake() *Fake {
	return &Fake{
		bodies: make(map[engine.BodyID]*FakeBody),
		joints: make(map[engine.JointID]engine.BodyID),
	}
}

func (f *Fake) CreateBody(def engine.BodyDef) (engine.BodyID, error) {
	if def.Kind == engine.BodyDynamic && def.Mass <= 0 {
		return engine.NoBody, fmt.Errorf("dynamic body needs positive mass, got %v", def.Mass)
	}
	f.nextBody++
	f.bodies[f.nextBody] = &FakeBody{
		Def:   def,
		State: engine.BodyState{Position: def.Position, Angle: def.Angle},
	}
	return f.nextBody, nil
}

func (f *Fake) RemoveBody(id engine.BodyID) error {
	if _, ok := f.bodies[id]; !ok {
		return engine.ErrUnknownBody
	}
	for jid, bid := range f.joints {
		if bid == id {
			delete(f.joints, jid)
		}
	}
	delete(f.bodies, id)
	return nil
}

func (f *Fake) Exists(id engine.BodyID) bool {
	_, ok := f.bodies[id]
	return ok
}

func (f *Fake) Body(id engine.BodyID) (engine.BodyState, bool) {
	b, ok := f.bodies[id]
	if !ok {
		return engine.BodyState{}, false
	}
	return b.State, true
}

func (f *Fake) Role(id engine.BodyID) (engine.Role, bool) {
	b, ok := f.bodies[id]
	if !ok {
		return 0, false
	}
	return b.Def.Role, true
}

func (f *Fake) SetPosition(id engine.BodyID, p vmath.Vec2F) error {
	return f.with(id, func(b *FakeBody) { b.State.Position = p })
}

func (f *Fake) SetVelocity(id engine.BodyID, v vmath.Vec2F) error {
	return f.with(id, func(b *FakeBody) { b.State.Velocity = v })
}

func (f *Fake) SetAngle(id engine.BodyID, angle float64) error {
	return f.with(id, func(b *FakeBody) { b.State.Angle = angle })
}

func (f *Fake) SetAngularVelocity(id engine.BodyID, w float64) error {
	return f.with(id, func(b *FakeBody) { b.State.AngularVelocity = w })
}

// ApplyImpulse changes velocity by impulse/mass; static bodies ignore it
func (f *Fake) ApplyImpulse(id engine.BodyID, impulse vmath.Vec2F) error {
	return f.with(id, func(b *FakeBody) {
		b.Impulse = vmath.V2FAdd(b.Impulse, impulse)
		if b.Def.Kind != engine.BodyDynamic {
			return
		}
		b.State.Velocity = vmath.V2FAdd(b.State.Velocity, vmath.V2FScale(impulse, 1/b.Def.Mass))
	})
}

func (f *Fake) CreateHinge(id engine.BodyID, pivot vmath.Vec2F) (engine.JointID, error) {
	b, ok := f.bodies[id]
	if !ok {
		return 0, engine.ErrUnknownBody
	}
	b.Hinged = true
	b.State.Position = pivot
	f.nextJoint++
	f.joints[f.nextJoint] = id
	return f.nextJoint, nil
}

func (f *Fake) RemoveJoint(id engine.JointID) error {
	bid, ok := f.joints[id]
	if !ok {
		return engine.ErrUnknownBody
	}
	delete(f.joints, id)
	if b, ok := f.bodies[bid]; ok {
		b.Hinged = false
	}
	return nil
}

// Step integrates dynamic bodies; hinged bodies only rotate
func (f *Fake) Step(dt float64) []engine.Contact {
	f.Steps++
	if f.BeforeStep != nil {
		f.BeforeStep(f)
	}

	for _, b := range f.bodies {
		if b.Def.Kind != engine.BodyDynamic {
			continue
		}
		b.State.Angle += b.State.AngularVelocity * dt
		if b.Hinged {
			continue
		}
		b.State.Velocity = vmath.V2FAdd(b.State.Velocity, vmath.V2FScale(f.Gravity, dt))
		b.State.Position = vmath.V2FAdd(b.State.Position, vmath.V2FScale(b.State.Velocity, dt))
	}

	contacts := f.pending
	f.pending = nil
	return contacts
}

// QueueContact makes the next Step report a contact between a and b
func (f *Fake) QueueContact(a, b engine.BodyID) {
	f.pending = append(f.pending, engine.Contact{A: a, B: b})
}

// Get exposes stored body data
func (f *Fake) Get(id engine.BodyID) (*FakeBody, bool) {
	b, ok := f.bodies[id]
	return b, ok
}

// BodyCount returns the number of live bodies
func (f *Fake) BodyCount() int {
	return len(f.bodies)
}

// JointCount returns the number of live joints
func (f *Fake) JointCount() int {
	return len(f.joints)
}

// FindRole returns live bodies with role in creation order
func (f *Fake) FindRole(role engine.Role) []engine.BodyID {
	var ids []engine.BodyID
	for id := engine.BodyID(1); id <= f.nextBody; id++ {
		if b, ok := f.bodies[id]; ok && b.Def.Role == role {
			ids = append(ids, id)
		}
	}
	return ids
}

func (f *Fake) with(id engine.BodyID, fn func(*FakeBody)) error {
	b, ok := f.bodies[id]
	if !ok {
		return engine.ErrUnknownBody
	}
	fn(b)
	return nil
}

var _ engine.Simulator = (*Fake)(nil)
