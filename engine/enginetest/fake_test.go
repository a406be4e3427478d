package enginetest

import (
	"errors"
	"testing"

	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/vmath"
)

// TestFakeIntegratesGravity verifies free bodies fall and hinged bodies stay pinned
func TestFakeIntegratesGravity(t *testing.T) {
	f := NewFake()
	f.Gravity = vmath.V2F(0, 100)

	ball, _ := f.CreateBody(engine.BodyDef{Kind: engine.BodyDynamic, Role: engine.RoleBall, Mass: 1})
	paddle, _ := f.CreateBody(engine.BodyDef{Kind: engine.BodyDynamic, Role: engine.RolePaddle, Mass: 10})
	if _, err := f.CreateHinge(paddle, vmath.V2F(5, 5)); err != nil {
		t.Fatal(err)
	}
	f.SetAngularVelocity(paddle, 2)

	f.Step(0.5)

	bs, _ := f.Body(ball)
	if bs.Velocity.Y != 50 || bs.Position.Y != 25 {
		t.Errorf("Expected v=50 y=25, got v=%v y=%v", bs.Velocity.Y, bs.Position.Y)
	}
	ps, _ := f.Body(paddle)
	if ps.Position != vmath.V2F(5, 5) {
		t.Errorf("Expected hinged body at pivot, got %v", ps.Position)
	}
	if ps.Angle != 1 {
		t.Errorf("Expected angle 1, got %v", ps.Angle)
	}
}

// TestFakeContactsDeliveredOnce verifies queued contacts appear on the next step only
func TestFakeContactsDeliveredOnce(t *testing.T) {
	f := NewFake()
	f.QueueContact(1, 2)
	if got := f.Step(0.01); len(got) != 1 {
		t.Fatalf("Expected 1 contact, got %d", len(got))
	}
	if got := f.Step(0.01); len(got) != 0 {
		t.Errorf("Expected contacts drained, got %d", len(got))
	}
}

// TestFakeRemoveBody verifies removal drops joints and later calls fail with ErrUnknownBody
func TestFakeRemoveBody(t *testing.T) {
	f := NewFake()
	id, _ := f.CreateBody(engine.BodyDef{Kind: engine.BodyDynamic, Mass: 1})
	f.CreateHinge(id, vmath.Vec2F{})

	if err := f.RemoveBody(id); err != nil {
		t.Fatal(err)
	}
	if f.JointCount() != 0 {
		t.Errorf("Expected joints removed with body, got %d", f.JointCount())
	}
	if err := f.SetVelocity(id, vmath.Vec2F{}); !errors.Is(err, engine.ErrUnknownBody) {
		t.Errorf("Expected ErrUnknownBody, got %v", err)
	}
}

// TestContactOther verifies partner lookup
func TestContactOther(t *testing.T) {
	c := engine.Contact{A: 3, B: 7}
	if c.Other(3) != 7 || c.Other(7) != 3 {
		t.Error("Expected partner lookup in both directions")
	}
	if c.Other(9) != engine.NoBody {
		t.Error("Expected NoBody for unrelated id")
	}
}
