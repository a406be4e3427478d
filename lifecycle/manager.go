// Package lifecycle tracks the ball through launch, play and drain across a finite number of lives
package lifecycle

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/events"
	"github.com/lixenwraith/pinball/status"
)

// State is the ball lifecycle phase
type State uint8

const (
	// StateLaunching waits in the bucket for a launch
	StateLaunching State = iota
	// StateActive has the ball in play
	StateActive
	// StateDraining waits out the settle delay after a drain
	StateDraining
	// StateGameOver is terminal
	StateGameOver
)

var stateNames = [...]string{"launching", "active", "draining", "game_over"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// BallTable is the table surface the manager needs
type BallTable interface {
	BallState() (engine.BodyState, bool)
	ResetBall() error
	DrainLine() float64
}

// Resetter returns actuators to their idle pose
type Resetter interface {
	Reset()
}

// ScoreSource exposes the running total
type ScoreSource interface {
	Total() int
}

// FinalScoreReporter receives the final total exactly once per session
type FinalScoreReporter interface {
	ReportFinalScore(score int)
}

// FinalScoreFunc adapts a function to FinalScoreReporter
type FinalScoreFunc func(score int)

func (f FinalScoreFunc) ReportFinalScore(score int) { f(score) }

// Config holds the manager dependencies
type Config struct {
	Lives       int
	SettleDelay time.Duration

	Table     BallTable
	Actuators Resetter
	Score     ScoreSource
	Scheduler *engine.Scheduler
	Router    *events.Router
	Audio     engine.AudioPlayer
	Reporter  FinalScoreReporter
	Status    *status.Registry
}

// Manager is the ball lifecycle state machine
type Manager struct {
	table     BallTable
	actuators Resetter
	score     ScoreSource
	scheduler *engine.Scheduler
	router    *events.Router
	audio     engine.AudioPlayer
	reporter  FinalScoreReporter

	settleDelay time.Duration
	lives       int
	state       State
	reported    bool

	statDrains *atomic.Int64
}

// NewManager starts in Launching with cfg.Lives and listens for launches on cfg.Router
func NewManager(cfg Config) *Manager {
	m := &Manager{
		table:       cfg.Table,
		actuators:   cfg.Actuators,
		score:       cfg.Score,
		scheduler:   cfg.Scheduler,
		router:      cfg.Router,
		audio:       cfg.Audio,
		reporter:    cfg.Reporter,
		settleDelay: cfg.SettleDelay,
		lives:       cfg.Lives,
		state:       StateLaunching,
	}
	if m.audio == nil {
		m.audio = engine.NopAudio{}
	}
	if cfg.Status != nil {
		m.statDrains = cfg.Status.Ints.Get(status.MetricDrains)
	}
	if m.router != nil {
		m.router.Register(m)
	}
	return m
}

func (m *Manager) EventTypes() []events.EventType {
	return []events.EventType{events.EventLaunch}
}

func (m *Manager) HandleEvent(ev events.GameEvent) {
	if ev.Type == events.EventLaunch {
		m.OnLaunch()
	}
}

// OnLaunch puts the ball in play, ignored outside Launching
func (m *Manager) OnLaunch() {
	if m.state == StateLaunching {
		m.state = StateActive
	}
}

// Poll checks for a drain, only while Active
func (m *Manager) Poll() {
	if m.state != StateActive {
		return
	}
	st, ok := m.table.BallState()
	if !ok {
		log.Printf("[lifecycle] drain check skipped: ball body missing")
		return
	}
	if st.Position.Y > m.table.DrainLine() {
		m.drain()
	}
}

func (m *Manager) drain() {
	m.state = StateDraining
	m.lives--
	if m.statDrains != nil {
		m.statDrains.Add(1)
	}
	m.audio.PlayCue(engine.CueDrain)
	m.publish(events.GameEvent{Type: events.EventBallDrained, Lives: m.lives})
	m.scheduler.After(m.settleDelay, m.settle)
}

func (m *Manager) settle() {
	if m.state != StateDraining {
		return
	}
	if m.lives > 0 {
		if err := m.table.ResetBall(); err != nil {
			log.Printf("[lifecycle] reset ball: %v", err)
		}
		if m.actuators != nil {
			m.actuators.Reset()
		}
		m.state = StateLaunching
		m.publish(events.GameEvent{Type: events.EventBallReady, Lives: m.lives})
		return
	}

	m.state = StateGameOver
	final := 0
	if m.score != nil {
		final = m.score.Total()
	}
	if !m.reported && m.reporter != nil {
		m.reported = true
		m.reporter.ReportFinalScore(final)
	}
	m.publish(events.GameEvent{Type: events.EventGameOver, Score: final})
}

// AcceptsInput reports whether actuator input should be relayed
func (m *Manager) AcceptsInput() bool {
	return m.state == StateLaunching || m.state == StateActive
}

// State returns the current phase
func (m *Manager) State() State {
	return m.state
}

// Lives returns the remaining lives, the ball in play included
func (m *Manager) Lives() int {
	return m.lives
}

func (m *Manager) publish(ev events.GameEvent) {
	if m.router != nil {
		m.router.Publish(ev)
	}
}
