package game

import (
	"testing"
	"time"

	"github.com/lixenwraith/pinball/config"
	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/engine/enginetest"
	"github.com/lixenwraith/pinball/lifecycle"
	"github.com/lixenwraith/pinball/vmath"
)

const step = 16 * time.Millisecond

type script struct {
	queue []engine.Input
	hold  engine.Input
	polls int
}

func (s *script) Poll() engine.Input {
	s.polls++
	if len(s.queue) == 0 {
		return s.hold
	}
	in := s.queue[0]
	s.queue = s.queue[1:]
	return in
}

func (s *script) push(in ...engine.Input) {
	s.queue = append(s.queue, in...)
}

type env struct {
	s       *Session
	sim     *enginetest.Fake
	in      *script
	audio   *enginetest.Audio
	reports []int
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{sim: enginetest.NewFake(), in: &script{}, audio: &enginetest.Audio{}}
	e.s = NewSession(config.Default(), Deps{
		Sim:      e.sim,
		Audio:    e.audio,
		Input:    e.in,
		Reporter: lifecycle.FinalScoreFunc(func(score int) { e.reports = append(e.reports, score) }),
	})
	if err := e.s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return e
}

func (e *env) ticks(n int) {
	for i := 0; i < n; i++ {
		e.s.Tick(step)
	}
}

func (e *env) ball() engine.BodyID {
	return e.s.table.Ball()
}

// launch charges for a few ticks and releases
func (e *env) launch() {
	e.in.push(engine.Input{ChargeStart: true}, engine.Input{}, engine.Input{}, engine.Input{Release: true})
	e.ticks(4)
}

// TestStartState verifies the initial session state
func TestStartState(t *testing.T) {
	e := newEnv(t)
	if e.s.Phase() != PhasePlaying {
		t.Errorf("Expected playing, got %v", e.s.Phase())
	}
	if e.s.Lives() != 5 || e.s.Score() != 0 {
		t.Errorf("Expected 5 lives and 0 score, got %d and %d", e.s.Lives(), e.s.Score())
	}
	snap := e.s.Snapshot()
	if !snap.BallVisible || snap.Ball != vmath.V2F(660, 1160) {
		t.Errorf("Expected ball in bucket, got %v visible=%v", snap.Ball, snap.BallVisible)
	}
	if !snap.Instructions {
		t.Error("Expected instructions at start")
	}
	if len(snap.Bumpers) != 4 || len(snap.Targets) != 6 {
		t.Errorf("Expected 4 bumpers and 6 targets, got %d and %d", len(snap.Bumpers), len(snap.Targets))
	}
}

// TestInstructionsFade verifies the banner hides after its delay
func TestInstructionsFade(t *testing.T) {
	e := newEnv(t)
	e.ticks(int(3000*time.Millisecond/step) - 1)
	if !e.s.Snapshot().Instructions {
		t.Fatal("Expected instructions before delay")
	}
	e.ticks(2)
	if e.s.Snapshot().Instructions {
		t.Error("Expected instructions hidden after delay")
	}
}

// TestLaunchPutsBallInPlay verifies the plunger sends the ball up and activates the lifecycle
func TestLaunchPutsBallInPlay(t *testing.T) {
	e := newEnv(t)
	e.launch()

	st, _ := e.sim.Body(e.ball())
	if st.Velocity.Y >= 0 {
		t.Errorf("Expected upward velocity, got %v", st.Velocity)
	}
	if e.s.lifecycle.State() != lifecycle.StateActive {
		t.Errorf("Expected active lifecycle, got %v", e.s.lifecycle.State())
	}
	if e.audio.Count(engine.CueLaunch) != 1 {
		t.Errorf("Expected 1 launch cue, got %d", e.audio.Count(engine.CueLaunch))
	}
}

// TestBumperContactScores verifies contacts reported by the simulator reach the bumper handler
func TestBumperContactScores(t *testing.T) {
	e := newEnv(t)
	e.launch()
	bumper := e.sim.FindRole(engine.RoleBumper)[0]
	wall := e.sim.FindRole(engine.RoleWall)[0]

	e.sim.QueueContact(e.ball(), bumper)
	e.sim.QueueContact(wall, e.ball())
	e.ticks(1)
	e.sim.QueueContact(bumper, e.ball())
	e.ticks(1)

	if e.s.Score() != 200 {
		t.Errorf("Expected 200, got %d", e.s.Score())
	}
}

// TestTargetBonusCycle verifies the bank bonus, HUD flash, and re-arm after the delay
func TestTargetBonusCycle(t *testing.T) {
	e := newEnv(t)
	e.launch()
	for _, id := range e.sim.FindRole(engine.RoleTarget) {
		e.sim.QueueContact(e.ball(), id)
		e.sim.QueueContact(id, e.ball())
	}
	e.ticks(1)

	if e.s.Score() != 6*500+2500 {
		t.Errorf("Expected 5500, got %d", e.s.Score())
	}
	snap := e.s.Snapshot()
	if !snap.BonusFlash {
		t.Error("Expected bonus flash")
	}
	for i, tg := range snap.Targets {
		if !tg.Hit {
			t.Errorf("Expected target %d lit", i)
		}
	}

	e.ticks(int(time.Second/step) + 1)
	snap = e.s.Snapshot()
	if snap.BonusFlash {
		t.Error("Expected flash cleared after reset")
	}
	for i, tg := range snap.Targets {
		if tg.Hit {
			t.Errorf("Expected target %d re-armed", i)
		}
	}
}

// TestDrainGatesInputAndRespawns verifies a drain costs one life, blocks input, then restores the ball
func TestDrainGatesInputAndRespawns(t *testing.T) {
	e := newEnv(t)
	e.launch()
	e.sim.SetPosition(e.ball(), vmath.V2F(310, 1400))
	e.sim.SetVelocity(e.ball(), vmath.Vec2F{})
	e.ticks(1)

	if e.s.Phase() != PhaseDraining || e.s.Lives() != 4 {
		t.Fatalf("Expected draining with 4 lives, got %v with %d", e.s.Phase(), e.s.Lives())
	}

	e.in.hold = engine.Input{LeftPaddle: true}
	e.ticks(5)
	paddle := e.s.table.Paddle(0).Body
	st, _ := e.sim.Body(paddle)
	if st.AngularVelocity != 0 || e.audio.Count(engine.CuePaddle) != 0 {
		t.Errorf("Expected paddle input ignored while draining, got w=%v", st.AngularVelocity)
	}
	e.in.hold = engine.Input{}

	e.ticks(int(1500*time.Millisecond/step) + 1)
	if e.s.Phase() != PhasePlaying || e.s.Lives() != 4 {
		t.Errorf("Expected playing with 4 lives, got %v with %d", e.s.Phase(), e.s.Lives())
	}
	ball, _ := e.sim.Body(e.ball())
	if ball.Position != vmath.V2F(660, 1160) || ball.Velocity != (vmath.Vec2F{}) {
		t.Errorf("Expected ball at rest in bucket, got %+v", ball)
	}
}

// TestGameOverAfterAllLives verifies the final drain ends the game and reports the score once
func TestGameOverAfterAllLives(t *testing.T) {
	e := newEnv(t)
	bumper := e.sim.FindRole(engine.RoleBumper)[0]

	for i := 0; i < 5; i++ {
		e.launch()
		e.sim.QueueContact(e.ball(), bumper)
		e.ticks(1)
		e.sim.SetPosition(e.ball(), vmath.V2F(310, 1400))
		e.sim.SetVelocity(e.ball(), vmath.Vec2F{})
		e.ticks(1)
		e.ticks(int(1500*time.Millisecond/step) + 1)
	}

	if e.s.Phase() != PhaseGameOver {
		t.Fatalf("Expected game over, got %v", e.s.Phase())
	}
	if len(e.reports) != 1 || e.reports[0] != 500 {
		t.Errorf("Expected one report of 500, got %v", e.reports)
	}
	if e.s.FinalScore() != 500 {
		t.Errorf("Expected final score 500, got %d", e.s.FinalScore())
	}

	// Input is dead after game over
	e.in.hold = engine.Input{RightPaddle: true}
	e.ticks(3)
	if e.audio.Count(engine.CuePaddle) != 0 {
		t.Error("Expected no paddle activation after game over")
	}
}

// TestPaddlesStayInBoundsDuringPlay verifies paddle angles under rapid toggling
func TestPaddlesStayInBoundsDuringPlay(t *testing.T) {
	e := newEnv(t)
	pattern := []engine.Input{
		{LeftPaddle: true}, {LeftPaddle: true, RightPaddle: true}, {}, {RightPaddle: true},
		{LeftPaddle: true}, {}, {}, {LeftPaddle: true, RightPaddle: true},
	}
	cfg := config.Default().Paddle
	for i := 0; i < 200; i++ {
		e.in.push(pattern[i%len(pattern)])
		e.ticks(1)
		snap := e.s.Snapshot()
		if a := snap.Paddles[0].Angle; a < cfg.LeftRest || a > cfg.LeftActive {
			t.Fatalf("Tick %d: left angle %v out of bounds", i, a)
		}
		if a := snap.Paddles[1].Angle; a > cfg.RightRest || a < cfg.RightActive {
			t.Fatalf("Tick %d: right angle %v out of bounds", i, a)
		}
	}
}

// TestPauseFreezesGameplay verifies paused ticks drain input without stepping physics
func TestPauseFreezesGameplay(t *testing.T) {
	e := newEnv(t)
	e.s.SetPaused(true)
	e.in.push(engine.Input{ChargeStart: true})
	e.ticks(3)

	if e.sim.Steps != 0 {
		t.Errorf("Expected no physics steps while paused, got %d", e.sim.Steps)
	}
	if e.in.polls != 3 {
		t.Errorf("Expected input drained every tick, got %d polls", e.in.polls)
	}
	if !e.s.Status().Bools.Get("session.paused").Load() {
		t.Error("Expected paused metric set")
	}

	e.s.SetPaused(false)
	e.ticks(1)
	if e.sim.Steps != 1 {
		t.Errorf("Expected physics to resume, got %d steps", e.sim.Steps)
	}
	if e.s.Snapshot().Charging {
		t.Error("Expected charge edge dropped while paused")
	}
}

// TestCloseDuringSettle verifies teardown releases every body and no late timer fires
func TestCloseDuringSettle(t *testing.T) {
	e := &env{sim: enginetest.NewFake(), in: &script{}, audio: &enginetest.Audio{}}
	// One life so the pending settle would end the game
	cfg := config.Default()
	cfg.Balls = 1
	e.s = NewSession(cfg, Deps{
		Sim:      e.sim,
		Input:    e.in,
		Audio:    e.audio,
		Reporter: lifecycle.FinalScoreFunc(func(score int) { e.reports = append(e.reports, score) }),
	})
	if err := e.s.Start(); err != nil {
		t.Fatal(err)
	}

	e.launch()
	e.sim.SetPosition(e.ball(), vmath.V2F(310, 1400))
	e.ticks(1)
	if e.s.Phase() != PhaseDraining {
		t.Fatalf("Expected draining, got %v", e.s.Phase())
	}

	e.s.Close()
	e.s.Close()
	steps := e.sim.Steps
	e.ticks(200)

	if len(e.reports) != 0 {
		t.Errorf("Expected no final score after close, got %v", e.reports)
	}
	if e.sim.Steps != steps {
		t.Errorf("Expected no steps after close, got %d", e.sim.Steps-steps)
	}
	if e.sim.BodyCount() != 0 || e.sim.JointCount() != 0 {
		t.Errorf("Expected empty simulator, got %d bodies %d joints", e.sim.BodyCount(), e.sim.JointCount())
	}
	if err := e.s.Start(); err != ErrClosed {
		t.Errorf("Expected ErrClosed on restart, got %v", err)
	}
}
