// Package table assembles the static collision geometry, scoring elements, paddles and ball
package table

import (
	"errors"
	"fmt"
	"log"

	"github.com/lixenwraith/pinball/config"
	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/parameter"
	"github.com/lixenwraith/pinball/vmath"
)

// Side selects a paddle
type Side uint8

const (
	SideLeft Side = iota
	SideRight
)

// Sign is +1 for the left paddle and -1 for the right, the direction of activation rotation
func (s Side) Sign() float64 {
	if s == SideRight {
		return -1
	}
	return 1
}

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// Element is a scoring body
type Element struct {
	Index    int
	Body     engine.BodyID
	Role     engine.Role
	Position vmath.Vec2F
}

// Paddle is a hinged paddle body
type Paddle struct {
	PaddleSpec
	Body  engine.BodyID
	Hinge engine.JointID
}

// Table owns every body it created
type Table struct {
	sim    engine.Simulator
	layout *Layout

	walls     []engine.BodyID
	wallNames []string
	bumpers   []Element
	targets   []Element
	paddles   [2]Paddle
	ball      engine.BodyID

	destroyed bool
}

// Build validates the layout and creates bodies in fixed order: frame walls, curved guides,
// launch lane, kickers, lane guides, bumpers, targets, paddles with hinges, ball
// On failure every body created so far is removed
func Build(sim engine.Simulator, cfg *config.Config) (*Table, error) {
	layout := NewLayout(cfg)
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("table layout: %w", err)
	}

	t := &Table{sim: sim, layout: layout}
	if err := t.build(); err != nil {
		t.Destroy()
		return nil, err
	}
	return t, nil
}

func (t *Table) build() error {
	for _, w := range t.layout.Walls {
		id, err := t.sim.CreateBody(engine.BodyDef{
			Kind:     engine.BodyStatic,
			Role:     engine.RoleWall,
			Position: w.Position,
			Material: w.Material,
			Shapes:   w.Shapes,
			Pass:     w.Pass,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", w.Name, err)
		}
		t.walls = append(t.walls, id)
		t.wallNames = append(t.wallNames, w.Name)
	}

	for i, p := range t.layout.Bumpers {
		id, err := t.sim.CreateBody(engine.BodyDef{
			Kind:     engine.BodyStatic,
			Role:     engine.RoleBumper,
			Position: p,
			Material: bumperMaterial,
			Shapes:   []engine.Shape{engine.Circle(parameter.BumperRadius)},
		})
		if err != nil {
			return fmt.Errorf("create bumper %d: %w", i, err)
		}
		t.bumpers = append(t.bumpers, Element{Index: i, Body: id, Role: engine.RoleBumper, Position: p})
	}

	for i, p := range t.layout.Targets {
		id, err := t.sim.CreateBody(engine.BodyDef{
			Kind:     engine.BodyStatic,
			Role:     engine.RoleTarget,
			Position: p,
			Material: targetMaterial,
			Shapes:   []engine.Shape{engine.Box(parameter.TargetWidth, parameter.TargetHeight)},
		})
		if err != nil {
			return fmt.Errorf("create target %d: %w", i, err)
		}
		t.targets = append(t.targets, Element{Index: i, Body: id, Role: engine.RoleTarget, Position: p})
	}

	for i, spec := range t.layout.Paddles {
		blade := vmath.V2F(spec.Side.Sign()*parameter.PaddleLength, 0)
		id, err := t.sim.CreateBody(engine.BodyDef{
			Kind:     engine.BodyDynamic,
			Role:     engine.RolePaddle,
			Position: spec.Pivot,
			Angle:    spec.Rest,
			Mass:     parameter.PaddleMass,
			Material: paddleMaterial,
			Shapes:   []engine.Shape{engine.Segment(vmath.Vec2F{}, blade, parameter.PaddleThickness/2)},
		})
		if err != nil {
			return fmt.Errorf("create %s paddle: %w", spec.Side, err)
		}
		t.paddles[i] = Paddle{PaddleSpec: spec, Body: id}

		hinge, err := t.sim.CreateHinge(id, spec.Pivot)
		if err != nil {
			return fmt.Errorf("hinge %s paddle: %w", spec.Side, err)
		}
		t.paddles[i].Hinge = hinge
	}

	return t.spawnBall()
}

func (t *Table) spawnBall() error {
	id, err := t.sim.CreateBody(engine.BodyDef{
		Kind:     engine.BodyDynamic,
		Role:     engine.RoleBall,
		Position: t.layout.BallSpawn,
		Mass:     parameter.BallMass,
		Material: ballMaterial,
		Shapes:   []engine.Shape{engine.Circle(t.layout.BallRadius)},
	})
	if err != nil {
		return fmt.Errorf("create ball: %w", err)
	}
	t.ball = id
	return nil
}

// Ball returns the ball handle, which may have been removed by the simulator
func (t *Table) Ball() engine.BodyID {
	return t.ball
}

// BallState returns the ball kinematics, false if the ball body is missing
func (t *Table) BallState() (engine.BodyState, bool) {
	if t.destroyed || t.ball == engine.NoBody {
		return engine.BodyState{}, false
	}
	return t.sim.Body(t.ball)
}

// Bumpers returns the bumper elements in creation order
func (t *Table) Bumpers() []Element {
	return t.bumpers
}

// Targets returns the target elements in creation order
func (t *Table) Targets() []Element {
	return t.targets
}

// Paddle returns the paddle on side
func (t *Table) Paddle(side Side) Paddle {
	return t.paddles[side]
}

// Walls returns every non-scoring static body
func (t *Table) Walls() []engine.BodyID {
	return t.walls
}

// Layout returns the geometry the table was built from
func (t *Table) Layout() *Layout {
	return t.layout
}

// DrainLine is the y coordinate below which the ball counts as drained
func (t *Table) DrainLine() float64 {
	return t.layout.DrainLine
}

// InLaunchLane reports whether p is inside the launch lane or bucket
func (t *Table) InLaunchLane(p vmath.Vec2F) bool {
	return t.layout.Lane.Contains(p)
}

// Validate re-checks the layout the table was built from
func (t *Table) Validate() error {
	return t.layout.Validate()
}

// ResetBall places the ball at rest in the launch bucket, respawning it if the body vanished
func (t *Table) ResetBall() error {
	if t.destroyed {
		return errors.New("table destroyed")
	}
	if t.ball == engine.NoBody || !t.sim.Exists(t.ball) {
		log.Printf("[table] ball body missing, respawning")
		return t.spawnBall()
	}

	errs := []error{
		t.sim.SetPosition(t.ball, t.layout.BallSpawn),
		t.sim.SetVelocity(t.ball, vmath.Vec2F{}),
		t.sim.SetAngle(t.ball, 0),
		t.sim.SetAngularVelocity(t.ball, 0),
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("reset ball: %w", err)
	}
	return nil
}

// ReleaseHinges removes the paddle hinge constraints, safe to call repeatedly
func (t *Table) ReleaseHinges() {
	for i := range t.paddles {
		if t.paddles[i].Hinge == 0 {
			continue
		}
		if err := t.sim.RemoveJoint(t.paddles[i].Hinge); err != nil {
			log.Printf("[table] release %s hinge: %v", t.paddles[i].Side, err)
		}
		t.paddles[i].Hinge = 0
	}
}

// Destroy releases every body, constraints first; idempotent
func (t *Table) Destroy() {
	if t.destroyed {
		return
	}
	t.ReleaseHinges()

	remove := func(id engine.BodyID) {
		if id == engine.NoBody || !t.sim.Exists(id) {
			return
		}
		if err := t.sim.RemoveBody(id); err != nil {
			log.Printf("[table] remove body %d: %v", id, err)
		}
	}

	remove(t.ball)
	for _, p := range t.paddles {
		remove(p.Body)
	}
	for _, e := range t.targets {
		remove(e.Body)
	}
	for _, e := range t.bumpers {
		remove(e.Body)
	}
	for _, id := range t.walls {
		remove(id)
	}

	t.destroyed = true
}

// Destroyed reports whether Destroy ran
func (t *Table) Destroyed() bool {
	return t.destroyed
}
