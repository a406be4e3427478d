// Package game orchestrates one pinball session: it owns the tick order, input gating and teardown
package game

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lixenwraith/pinball/actuator"
	"github.com/lixenwraith/pinball/config"
	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/events"
	"github.com/lixenwraith/pinball/lifecycle"
	"github.com/lixenwraith/pinball/scoring"
	"github.com/lixenwraith/pinball/status"
	"github.com/lixenwraith/pinball/table"
)

// Phase is the coarse session state shown to the player
type Phase uint8

const (
	PhaseSetup Phase = iota
	PhasePlaying
	PhaseDraining
	PhaseGameOver
)

var phaseNames = [...]string{"setup", "playing", "draining", "game_over"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// ErrClosed is returned when starting a closed session
var ErrClosed = errors.New("session closed")

// Deps are the external collaborators of a session
type Deps struct {
	Sim      engine.Simulator
	Audio    engine.AudioPlayer
	Input    engine.InputSource
	Reporter lifecycle.FinalScoreReporter
	Status   *status.Registry
}

// Session is one game from first launch to game over
// Start, Tick, Close and Snapshot must be called from the same goroutine
type Session struct {
	cfg   *config.Config
	sim   engine.Simulator
	audio engine.AudioPlayer
	input engine.InputSource
	reg   *status.Registry

	reporter lifecycle.FinalScoreReporter

	scheduler *engine.Scheduler
	events    *events.Router
	contacts  *scoring.Router
	ledger    *scoring.Ledger
	table     *table.Table
	actuators *actuator.Controller
	lifecycle *lifecycle.Manager
	targets   []*scoring.Target
	bank      *scoring.TargetBank

	phase            Phase
	started          bool
	closed           bool
	paused           bool
	showInstructions bool
	bonusFlash       bool
	finalScore       int
	ticks            uint64
}

// NewSession creates a session in PhaseSetup; no bodies exist until Start
func NewSession(cfg *config.Config, deps Deps) *Session {
	audio := deps.Audio
	if audio == nil {
		audio = engine.NopAudio{}
	}
	reg := deps.Status
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Session{
		cfg:      cfg,
		sim:      deps.Sim,
		audio:    audio,
		input:    deps.Input,
		reg:      reg,
		reporter: deps.Reporter,
		phase:    PhaseSetup,
	}
}

// Start builds the table and wires every component
func (s *Session) Start() error {
	if s.closed {
		return ErrClosed
	}
	if s.started {
		return nil
	}

	tbl, err := table.Build(s.sim, s.cfg)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	s.table = tbl

	s.scheduler = engine.NewScheduler()
	s.events = events.NewRouter()
	s.ledger = scoring.NewLedger(s.events)
	s.contacts = scoring.NewRouter(tbl.Ball)

	// Launch handlers run in registration order: ball velocity first, then the lifecycle transition
	s.actuators = actuator.NewController(s.sim, tbl, s.cfg, s.audio, s.events, s.reg)
	s.lifecycle = lifecycle.NewManager(lifecycle.Config{
		Lives:       s.cfg.Balls,
		SettleDelay: s.cfg.Timing.SettleDelay.Duration,
		Table:       tbl,
		Actuators:   s.actuators,
		Score:       s.ledger,
		Scheduler:   s.scheduler,
		Router:      s.events,
		Audio:       s.audio,
		Reporter:    lifecycle.FinalScoreFunc(s.reportFinal),
		Status:      s.reg,
	})

	sc := s.cfg.Scoring
	for _, e := range tbl.Bumpers() {
		s.contacts.Register(e.Body, scoring.NewBumper(s.sim, e, sc.BumperPoints, sc.BumperImpulse, s.ledger, s.audio, s.reg))
	}
	for _, e := range tbl.Targets() {
		tg := scoring.NewTarget(e, sc.TargetPoints, s.ledger, s.audio, s.events, s.reg)
		s.targets = append(s.targets, tg)
		s.contacts.Register(e.Body, tg)
	}
	s.bank = scoring.NewTargetBank(s.targets, sc.AllTargetsBonus, s.cfg.Timing.BonusResetDelay.Duration,
		s.ledger, s.scheduler, s.events, s.reg)

	s.events.Register(s)

	s.showInstructions = true
	s.scheduler.After(s.cfg.Timing.Instructions.Duration, func() { s.showInstructions = false })

	s.started = true
	s.phase = PhasePlaying
	log.Printf("[game] session started: %d balls", s.cfg.Balls)
	return nil
}

// Tick runs one fixed step: input relay, physics, actuators, collisions, timers, drain poll
func (s *Session) Tick(dt time.Duration) {
	if !s.started || s.closed {
		return
	}

	// Always drain the input source so edges latched while gated do not leak into the next life
	var in engine.Input
	if s.input != nil {
		in = s.input.Poll()
	}
	if s.paused {
		return
	}
	s.ticks++

	if s.lifecycle.AcceptsInput() {
		s.actuators.Apply(in)
	}

	contacts := s.sim.Step(dt.Seconds())
	s.actuators.Update()
	s.contacts.Dispatch(contacts)
	s.scheduler.Advance(dt)
	s.lifecycle.Poll()

	s.syncPhase()
}

// Close tears the session down: input, timers, routing, actuators and hinges, then bodies
// Idempotent; nothing scheduled before Close runs afterwards
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.input = nil

	if !s.started {
		return
	}
	s.scheduler.Close()
	s.contacts.Close()
	s.events.Close()
	s.actuators.Reset()
	s.table.ReleaseHinges()
	s.table.Destroy()
	log.Printf("[game] session closed: score %d", s.ledger.Total())
}

// SetPaused freezes gameplay; input is still drained
func (s *Session) SetPaused(paused bool) {
	s.paused = paused
	s.reg.Bools.Get(status.MetricPaused).Store(paused)
}

// Paused reports the pause flag
func (s *Session) Paused() bool {
	return s.paused
}

// Phase returns the coarse session state
func (s *Session) Phase() Phase {
	return s.phase
}

// Score returns the running total
func (s *Session) Score() int {
	if s.ledger == nil {
		return 0
	}
	return s.ledger.Total()
}

// Lives returns the remaining lives
func (s *Session) Lives() int {
	if s.lifecycle == nil {
		return s.cfg.Balls
	}
	return s.lifecycle.Lives()
}

// FinalScore returns the reported final score, valid in PhaseGameOver
func (s *Session) FinalScore() int {
	return s.finalScore
}

// Closed reports whether Close ran
func (s *Session) Closed() bool {
	return s.closed
}

// Status returns the metrics registry the session writes to
func (s *Session) Status() *status.Registry {
	return s.reg
}

// EventTypes implements events.Handler
func (s *Session) EventTypes() []events.EventType {
	return []events.EventType{events.EventAllTargetsCleared, events.EventTargetsReset, events.EventGameOver}
}

// HandleEvent tracks notifications the HUD shows
func (s *Session) HandleEvent(ev events.GameEvent) {
	switch ev.Type {
	case events.EventAllTargetsCleared:
		s.bonusFlash = true
	case events.EventTargetsReset:
		s.bonusFlash = false
	case events.EventGameOver:
		s.phase = PhaseGameOver
	}
}

func (s *Session) reportFinal(score int) {
	s.finalScore = score
	log.Printf("[game] game over: final score %d", score)
	if s.reporter != nil {
		s.reporter.ReportFinalScore(score)
	}
}

func (s *Session) syncPhase() {
	switch s.lifecycle.State() {
	case lifecycle.StateLaunching, lifecycle.StateActive:
		s.phase = PhasePlaying
	case lifecycle.StateDraining:
		s.phase = PhaseDraining
	case lifecycle.StateGameOver:
		s.phase = PhaseGameOver
	}
}
