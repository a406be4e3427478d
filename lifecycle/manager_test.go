package lifecycle

import (
	"testing"
	"time"

	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/engine/enginetest"
	"github.com/lixenwraith/pinball/events"
	"github.com/lixenwraith/pinball/status"
	"github.com/lixenwraith/pinball/vmath"
)

type stubTable struct {
	pos     vmath.Vec2F
	missing bool
	resets  int
}

func (s *stubTable) BallState() (engine.BodyState, bool) {
	if s.missing {
		return engine.BodyState{}, false
	}
	return engine.BodyState{Position: s.pos}, true
}

func (s *stubTable) ResetBall() error {
	s.resets++
	s.missing = false
	s.pos = vmath.V2F(660, 1160)
	return nil
}

func (s *stubTable) DrainLine() float64 { return 1330 }

type counter struct{ n int }

func (c *counter) Reset() { c.n++ }

type fixedScore int

func (f fixedScore) Total() int { return int(f) }

type harness struct {
	m        *Manager
	tbl      *stubTable
	acts     *counter
	sched    *engine.Scheduler
	router   *events.Router
	audio    *enginetest.Audio
	reports  []int
	reg      *status.Registry
	gameOver int
}

func newHarness(lives int) *harness {
	h := &harness{
		tbl:    &stubTable{pos: vmath.V2F(660, 1160)},
		acts:   &counter{},
		sched:  engine.NewScheduler(),
		router: events.NewRouter(),
		audio:  &enginetest.Audio{},
		reg:    status.NewRegistry(),
	}
	h.router.Register(events.HandlerFunc{
		Types: []events.EventType{events.EventGameOver},
		Fn:    func(events.GameEvent) { h.gameOver++ },
	})
	h.m = NewManager(Config{
		Lives:       lives,
		SettleDelay: 1500 * time.Millisecond,
		Table:       h.tbl,
		Actuators:   h.acts,
		Score:       fixedScore(4200),
		Scheduler:   h.sched,
		Router:      h.router,
		Audio:       h.audio,
		Reporter:    FinalScoreFunc(func(s int) { h.reports = append(h.reports, s) }),
		Status:      h.reg,
	})
	return h
}

func (h *harness) launchAndDrain() {
	h.router.Publish(events.GameEvent{Type: events.EventLaunch, Power: 20})
	h.tbl.pos = vmath.V2F(310, 1400)
	h.m.Poll()
}

// TestLaunchTransitions verifies only Launching moves to Active on launch
func TestLaunchTransitions(t *testing.T) {
	h := newHarness(3)
	if h.m.State() != StateLaunching || !h.m.AcceptsInput() {
		t.Fatalf("Expected launching with input accepted, got %v", h.m.State())
	}
	h.router.Publish(events.GameEvent{Type: events.EventLaunch})
	if h.m.State() != StateActive {
		t.Errorf("Expected active after launch, got %v", h.m.State())
	}
	h.m.OnLaunch()
	if h.m.State() != StateActive {
		t.Errorf("Expected repeated launch to keep active, got %v", h.m.State())
	}
}

// TestPollIgnoredOutsideActive verifies a ball below the line does nothing before launch
func TestPollIgnoredOutsideActive(t *testing.T) {
	h := newHarness(3)
	h.tbl.pos = vmath.V2F(310, 1400)
	h.m.Poll()
	if h.m.Lives() != 3 || h.m.State() != StateLaunching {
		t.Errorf("Expected no drain while launching, got lives=%d state=%v", h.m.Lives(), h.m.State())
	}
}

// TestDrainLosesExactlyOneLife verifies repeated polls during the settle delay do not double count
func TestDrainLosesExactlyOneLife(t *testing.T) {
	h := newHarness(3)
	h.launchAndDrain()

	for i := 0; i < 10; i++ {
		h.m.Poll()
		h.sched.Advance(16 * time.Millisecond)
	}
	if h.m.Lives() != 2 {
		t.Errorf("Expected 2 lives, got %d", h.m.Lives())
	}
	if h.m.State() != StateDraining || h.m.AcceptsInput() {
		t.Errorf("Expected draining without input, got %v", h.m.State())
	}
	if h.audio.Count(engine.CueDrain) != 1 {
		t.Errorf("Expected 1 drain cue, got %d", h.audio.Count(engine.CueDrain))
	}
	if got := h.reg.Ints.Get(status.MetricDrains).Load(); got != 1 {
		t.Errorf("Expected drain metric 1, got %d", got)
	}
}

// TestSettleRestoresBall verifies the next life starts in the bucket with actuators reset
func TestSettleRestoresBall(t *testing.T) {
	h := newHarness(3)
	h.launchAndDrain()

	h.sched.Advance(1499 * time.Millisecond)
	if h.m.State() != StateDraining {
		t.Fatalf("Expected still draining before delay, got %v", h.m.State())
	}
	h.sched.Advance(time.Millisecond)

	if h.m.State() != StateLaunching {
		t.Errorf("Expected launching, got %v", h.m.State())
	}
	if h.tbl.resets != 1 || h.acts.n != 1 {
		t.Errorf("Expected 1 ball reset and 1 actuator reset, got %d and %d", h.tbl.resets, h.acts.n)
	}
}

// TestMissingBallIsLogged verifies a vanished ball neither drains nor changes state
func TestMissingBallIsLogged(t *testing.T) {
	h := newHarness(3)
	h.router.Publish(events.GameEvent{Type: events.EventLaunch})
	h.tbl.missing = true

	h.m.Poll()
	if h.m.Lives() != 3 || h.m.State() != StateActive {
		t.Errorf("Expected no transition, got lives=%d state=%v", h.m.Lives(), h.m.State())
	}
}

// TestGameOverReportsOnce verifies the last drain ends the session and reports the final score once
func TestGameOverReportsOnce(t *testing.T) {
	h := newHarness(2)
	for i := 0; i < 2; i++ {
		h.launchAndDrain()
		h.sched.Advance(2 * time.Second)
	}

	if h.m.State() != StateGameOver {
		t.Fatalf("Expected game over, got %v", h.m.State())
	}
	if h.m.Lives() != 0 {
		t.Errorf("Expected 0 lives, got %d", h.m.Lives())
	}
	if len(h.reports) != 1 || h.reports[0] != 4200 {
		t.Errorf("Expected one report of 4200, got %v", h.reports)
	}
	if h.gameOver != 1 {
		t.Errorf("Expected 1 game over event, got %d", h.gameOver)
	}
	if h.m.AcceptsInput() {
		t.Error("Expected input rejected after game over")
	}

	// Terminal: further launches and polls change nothing
	h.launchAndDrain()
	h.sched.Advance(2 * time.Second)
	if h.m.State() != StateGameOver || len(h.reports) != 1 {
		t.Errorf("Expected terminal state, got %v with %d reports", h.m.State(), len(h.reports))
	}
}

// TestClosedSchedulerHoldsDraining verifies teardown during the settle delay fires nothing late
func TestClosedSchedulerHoldsDraining(t *testing.T) {
	h := newHarness(1)
	h.launchAndDrain()
	h.sched.Close()
	h.sched.Advance(5 * time.Second)

	if h.m.State() != StateDraining {
		t.Errorf("Expected draining to persist, got %v", h.m.State())
	}
	if len(h.reports) != 0 {
		t.Errorf("Expected no final score report, got %v", h.reports)
	}
}
