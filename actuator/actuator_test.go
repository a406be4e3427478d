package actuator

import (
	"math"
	"testing"

	"github.com/lixenwraith/pinball/config"
	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/engine/enginetest"
	"github.com/lixenwraith/pinball/events"
	"github.com/lixenwraith/pinball/status"
	"github.com/lixenwraith/pinball/table"
	"github.com/lixenwraith/pinball/vmath"
)

const dt = 1.0 / 60

type rig struct {
	sim    *enginetest.Fake
	tbl    *table.Table
	audio  *enginetest.Audio
	router *events.Router
	ctrl   *Controller
}

func newRig(t *testing.T) *rig {
	t.Helper()
	cfg := config.Default()
	sim := enginetest.NewFake()
	tbl, err := table.Build(sim, cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	r := &rig{sim: sim, tbl: tbl, audio: &enginetest.Audio{}, router: events.NewRouter()}
	r.ctrl = NewController(sim, tbl, cfg, r.audio, r.router, nil)
	return r
}

func (r *rig) tick(in engine.Input) {
	r.ctrl.Apply(in)
	r.sim.Step(dt)
	r.ctrl.Update()
}

func inBounds(angle, rest, active float64) bool {
	lo, hi := rest, active
	if lo > hi {
		lo, hi = hi, lo
	}
	return angle >= lo && angle <= hi
}

// TestPaddleActivateStaysInBounds verifies the angle never leaves [rest, active] while swinging up and back
func TestPaddleActivateStaysInBounds(t *testing.T) {
	for _, side := range []table.Side{table.SideLeft, table.SideRight} {
		r := newRig(t)
		p := r.ctrl.Paddle(side)
		rest, active := p.Bounds()

		in := engine.Input{LeftPaddle: side == table.SideLeft, RightPaddle: side == table.SideRight}
		for i := 0; i < 30; i++ {
			r.tick(in)
			if !inBounds(p.Angle(), rest, active) {
				t.Fatalf("%s tick %d: angle %v outside [%v,%v]", side, i, p.Angle(), rest, active)
			}
		}
		if p.Angle() != active {
			t.Errorf("%s: expected angle clamped to %v, got %v", side, active, p.Angle())
		}
		st, _ := r.sim.Body(r.tbl.Paddle(side).Body)
		if st.AngularVelocity != 0 {
			t.Errorf("%s: expected zero angular velocity at active, got %v", side, st.AngularVelocity)
		}

		for i := 0; i < 60; i++ {
			r.tick(engine.Input{})
			if !inBounds(p.Angle(), rest, active) {
				t.Fatalf("%s return tick %d: angle %v outside bounds", side, i, p.Angle())
			}
		}
		if p.State() != PaddleResting || p.Angle() != rest {
			t.Errorf("%s: expected resting at %v, got %v at %v", side, rest, p.State(), p.Angle())
		}
	}
}

// TestPaddleOvershootClamped verifies a large step past the bound is clamped exactly
func TestPaddleOvershootClamped(t *testing.T) {
	r := newRig(t)
	p := r.ctrl.Paddle(table.SideLeft)
	_, active := p.Bounds()

	p.Activate()
	r.sim.Step(0.5)
	p.Update()

	if p.Angle() != active {
		t.Errorf("Expected angle %v, got %v", active, p.Angle())
	}
}

// TestPaddleVelocities verifies activation and return speeds and mirrored signs
func TestPaddleVelocities(t *testing.T) {
	r := newRig(t)
	left := r.ctrl.Paddle(table.SideLeft)
	right := r.ctrl.Paddle(table.SideRight)
	leftBody := r.tbl.Paddle(table.SideLeft).Body
	rightBody := r.tbl.Paddle(table.SideRight).Body

	left.Activate()
	right.Activate()
	ls, _ := r.sim.Body(leftBody)
	rs, _ := r.sim.Body(rightBody)
	if ls.AngularVelocity != 15 || rs.AngularVelocity != -15 {
		t.Errorf("Expected +15/-15 activation, got %v/%v", ls.AngularVelocity, rs.AngularVelocity)
	}

	left.Deactivate()
	right.Deactivate()
	ls, _ = r.sim.Body(leftBody)
	rs, _ = r.sim.Body(rightBody)
	if ls.AngularVelocity != -7.5 || rs.AngularVelocity != 7.5 {
		t.Errorf("Expected -7.5/+7.5 return, got %v/%v", ls.AngularVelocity, rs.AngularVelocity)
	}
}

// TestPaddleIdempotentTransitions verifies repeated commands neither re-trigger cues nor change state
func TestPaddleIdempotentTransitions(t *testing.T) {
	r := newRig(t)
	p := r.ctrl.Paddle(table.SideLeft)

	p.Deactivate()
	if p.State() != PaddleResting {
		t.Errorf("Expected Deactivate at rest to be a no-op, got %v", p.State())
	}

	p.Activate()
	p.Activate()
	if got := r.audio.Count(engine.CuePaddle); got != 1 {
		t.Errorf("Expected 1 paddle cue, got %d", got)
	}

	p.Deactivate()
	p.Deactivate()
	if p.State() != PaddleReturning {
		t.Errorf("Expected returning, got %v", p.State())
	}

	p.Activate()
	if p.State() != PaddleActivating {
		t.Errorf("Expected re-activation from returning, got %v", p.State())
	}
}

// TestPaddleExternalPushClamped verifies a pushed resting paddle snaps back to rest
func TestPaddleExternalPushClamped(t *testing.T) {
	r := newRig(t)
	p := r.ctrl.Paddle(table.SideRight)
	rest, _ := p.Bounds()
	body := r.tbl.Paddle(table.SideRight).Body

	r.sim.SetAngle(body, rest+1)
	r.sim.SetAngularVelocity(body, 4)
	p.Update()

	st, _ := r.sim.Body(body)
	if st.Angle != rest || st.AngularVelocity != 0 {
		t.Errorf("Expected rest %v with zero velocity, got %v/%v", rest, st.Angle, st.AngularVelocity)
	}
}

// TestPaddleReset verifies Reset snaps to rest from any state
func TestPaddleReset(t *testing.T) {
	r := newRig(t)
	p := r.ctrl.Paddle(table.SideLeft)
	rest, _ := p.Bounds()
	p.Activate()
	r.sim.Step(dt)

	p.Reset()
	if p.State() != PaddleResting || p.Angle() != rest {
		t.Errorf("Expected resting at %v, got %v at %v", rest, p.State(), p.Angle())
	}
}

// TestLauncherOscillation verifies power rises to max, falls to min, and never leaves the range
func TestLauncherOscillation(t *testing.T) {
	l := NewLauncher(config.Launcher{MinPower: 1, MaxPower: 3, Speed: 1}, nil, nil, nil)
	l.StartCharge()
	if l.Power() != 1 {
		t.Fatalf("Expected start at min power 1, got %v", l.Power())
	}

	want := []float64{2, 3, 2, 1, 2, 3}
	for i, w := range want {
		l.Update()
		if l.Power() != w {
			t.Errorf("Update %d: expected %v, got %v", i, w, l.Power())
		}
	}

	l.StartCharge()
	if l.Power() != 3 {
		t.Errorf("Expected StartCharge while charging to be a no-op, got %v", l.Power())
	}
}

// TestLauncherOscillationStock verifies the default tuning climbs strictly from min to max,
// turns exactly at max, falls strictly back to min and turns again
func TestLauncherOscillationStock(t *testing.T) {
	cfg := config.Default().Launcher
	if cfg.MinPower != 10 || cfg.Speed != 0.8 || cfg.MaxPower != 30 {
		t.Fatalf("Expected stock tuning 10/0.8/30, got %v/%v/%v", cfg.MinPower, cfg.Speed, cfg.MaxPower)
	}
	l := NewLauncher(cfg, nil, nil, nil)
	l.StartCharge()
	if l.Power() != 10 {
		t.Fatalf("Expected charge to start at 10, got %v", l.Power())
	}

	// 25 updates of 0.8 span the range each way
	const leg = 25
	prev := l.Power()
	for i := 1; i <= leg; i++ {
		l.Update()
		if l.Power() <= prev {
			t.Fatalf("Rise update %d: expected above %v, got %v", i, prev, l.Power())
		}
		if want := 10 + 0.8*float64(i); math.Abs(l.Power()-want) > 1e-9 {
			t.Errorf("Rise update %d: expected %v, got %v", i, want, l.Power())
		}
		prev = l.Power()
	}
	if l.Power() != 30 {
		t.Fatalf("Expected peak exactly 30 after %d updates, got %v", leg, l.Power())
	}

	for i := 1; i <= leg; i++ {
		l.Update()
		if l.Power() >= prev {
			t.Fatalf("Fall update %d: expected below %v, got %v", i, prev, l.Power())
		}
		if want := 30 - 0.8*float64(i); math.Abs(l.Power()-want) > 1e-9 {
			t.Errorf("Fall update %d: expected %v, got %v", i, want, l.Power())
		}
		prev = l.Power()
	}
	if l.Power() != 10 {
		t.Fatalf("Expected trough exactly 10 after %d updates, got %v", leg, l.Power())
	}

	l.Update()
	if l.Power() <= 10 {
		t.Errorf("Expected rise after trough, got %v", l.Power())
	}

	if p, ok := l.Release(); !ok || p <= 10 || l.Power() != 0 {
		t.Errorf("Expected release of charged power and zero after, got %v %v power %v", p, ok, l.Power())
	}
}

// TestLauncherReleaseIdle verifies release without charge does nothing
func TestLauncherReleaseIdle(t *testing.T) {
	audio := &enginetest.Audio{}
	router := events.NewRouter()
	launches := 0
	router.Register(events.HandlerFunc{Types: []events.EventType{events.EventLaunch}, Fn: func(events.GameEvent) { launches++ }})

	l := NewLauncher(config.Default().Launcher, audio, router, nil)
	if _, ok := l.Release(); ok {
		t.Error("Expected idle release to report false")
	}
	if launches != 0 || len(audio.Cues) != 0 {
		t.Errorf("Expected no event or cue, got %d events %d cues", launches, len(audio.Cues))
	}
}

// TestLaunchFromLane verifies release sets the ball velocity from the charged power
func TestLaunchFromLane(t *testing.T) {
	r := newRig(t)
	r.ctrl.Apply(engine.Input{ChargeStart: true})
	r.ctrl.Update()
	r.ctrl.Update()

	power := r.ctrl.Launcher().Power()
	r.ctrl.Apply(engine.Input{Release: true})

	st, _ := r.tbl.BallState()
	want := vmath.V2F(0, -power*config.Default().Launcher.VelocityScale)
	if st.Velocity != want {
		t.Errorf("Expected ball velocity %v, got %v", want, st.Velocity)
	}
	if r.ctrl.Launcher().Power() != 0 || r.ctrl.Launcher().Charging() {
		t.Error("Expected launcher idle with zero power after release")
	}
	if r.audio.Count(engine.CueLaunch) != 1 {
		t.Errorf("Expected 1 launch cue, got %d", r.audio.Count(engine.CueLaunch))
	}
}

// TestLaunchOutsideLane verifies the charge is consumed without moving a ball in play
func TestLaunchOutsideLane(t *testing.T) {
	r := newRig(t)
	r.sim.SetPosition(r.tbl.Ball(), vmath.V2F(310, 600))

	r.ctrl.Apply(engine.Input{ChargeStart: true})
	r.ctrl.Apply(engine.Input{Release: true})

	st, _ := r.tbl.BallState()
	if st.Velocity != (vmath.Vec2F{}) {
		t.Errorf("Expected untouched ball, got velocity %v", st.Velocity)
	}
	if r.ctrl.Launcher().Charging() {
		t.Error("Expected charge consumed")
	}
}

// TestLaunchWithoutBall verifies release with a missing ball is a harmless no-op
func TestLaunchWithoutBall(t *testing.T) {
	r := newRig(t)
	r.sim.RemoveBody(r.tbl.Ball())

	r.ctrl.Apply(engine.Input{ChargeStart: true})
	r.ctrl.Apply(engine.Input{Release: true})

	if r.ctrl.Launcher().Charging() {
		t.Error("Expected charge consumed")
	}
}

// TestLauncherPublishesPeak verifies the power gauge tracks the charge and the peak keeps the strongest launch
func TestLauncherPublishesPeak(t *testing.T) {
	reg := status.NewRegistry()
	l := NewLauncher(config.Default().Launcher, nil, nil, reg)
	power := reg.Floats.Get(status.MetricPower)
	peak := reg.Floats.Get(status.MetricPeakPower)

	l.StartCharge()
	for i := 0; i < 3; i++ {
		l.Update()
	}
	if power.Get() != l.Power() {
		t.Errorf("Expected power gauge %v, got %v", l.Power(), power.Get())
	}
	strong, _ := l.Release()

	l.StartCharge()
	l.Release()

	if peak.Get() != strong {
		t.Errorf("Expected peak %v, got %v", strong, peak.Get())
	}
	if power.Get() != 0 {
		t.Errorf("Expected power gauge 0 after release, got %v", power.Get())
	}
}
