package scoring

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/events"
	"github.com/lixenwraith/pinball/parameter"
	"github.com/lixenwraith/pinball/status"
	"github.com/lixenwraith/pinball/table"
	"github.com/lixenwraith/pinball/vmath"
)

// bumperFallback is the kick direction when the ball center coincides with the bumper center
var bumperFallback = vmath.V2F(0, -1)

// Bumper scores on every contact and kicks the ball radially away
type Bumper struct {
	sim     engine.Simulator
	ledger  *Ledger
	audio   engine.AudioPlayer
	center  vmath.Vec2F
	points  int
	impulse float64

	statHits *atomic.Int64
}

// NewBumper creates the handler for one bumper element; audio and reg may be nil
func NewBumper(sim engine.Simulator, e table.Element, points int, impulse float64, ledger *Ledger, audio engine.AudioPlayer, reg *status.Registry) *Bumper {
	if audio == nil {
		audio = engine.NopAudio{}
	}
	b := &Bumper{sim: sim, ledger: ledger, audio: audio, center: e.Position, points: points, impulse: impulse}
	if reg != nil {
		b.statHits = reg.Ints.Get(status.MetricBumperHits)
	}
	return b
}

func (b *Bumper) HandleContact(ball engine.BodyID) {
	if err := b.ledger.AddPoints(b.points); err != nil {
		log.Printf("[scoring] bumper points: %v", err)
	}
	b.audio.PlayCue(engine.CueBumper)
	if b.statHits != nil {
		b.statHits.Add(1)
	}

	st, ok := b.sim.Body(ball)
	if !ok {
		log.Printf("[scoring] bumper kick skipped: ball %d missing", ball)
		return
	}
	dir := vmath.V2FDirection(b.center, st.Position, parameter.BumperFallbackEpsilon, bumperFallback)
	if err := b.sim.ApplyImpulse(ball, vmath.V2FScale(dir, b.impulse)); err != nil {
		log.Printf("[scoring] bumper kick: %v", err)
	}
}

// Target scores once per hit-cycle
type Target struct {
	element table.Element
	ledger  *Ledger
	audio   engine.AudioPlayer
	router  *events.Router
	points  int
	hit     bool

	statHits *atomic.Int64
}

// NewTarget creates the handler for one target element; audio, router and reg may be nil
func NewTarget(e table.Element, points int, ledger *Ledger, audio engine.AudioPlayer, router *events.Router, reg *status.Registry) *Target {
	if audio == nil {
		audio = engine.NopAudio{}
	}
	t := &Target{element: e, ledger: ledger, audio: audio, router: router, points: points}
	if reg != nil {
		t.statHits = reg.Ints.Get(status.MetricTargetHits)
	}
	return t
}

func (t *Target) HandleContact(engine.BodyID) {
	if t.hit {
		return
	}
	t.hit = true

	if err := t.ledger.AddPoints(t.points); err != nil {
		log.Printf("[scoring] target points: %v", err)
	}
	t.audio.PlayCue(engine.CueTarget)
	if t.statHits != nil {
		t.statHits.Add(1)
	}
	if t.router != nil {
		t.router.Publish(events.GameEvent{Type: events.EventTargetHit, Body: t.element.Body})
	}
}

// Hit reports whether the target is down
func (t *Target) Hit() bool {
	return t.hit
}

// Element returns the table element
func (t *Target) Element() table.Element {
	return t.element
}

// Reset re-arms the target
func (t *Target) Reset() {
	t.hit = false
}

// TargetBank awards the bonus once all targets are down, then re-arms them after a delay
type TargetBank struct {
	targets   []*Target
	ledger    *Ledger
	scheduler *engine.Scheduler
	router    *events.Router
	bonus     int
	delay     time.Duration

	// armed is cleared when the bonus is paid and set again when the bank resets
	armed      bool
	resetTimer engine.TimerID

	statBonuses *atomic.Int64
}

// NewTargetBank registers the bank for target hits on router
func NewTargetBank(targets []*Target, bonus int, delay time.Duration, ledger *Ledger, scheduler *engine.Scheduler, router *events.Router, reg *status.Registry) *TargetBank {
	b := &TargetBank{
		targets:   targets,
		ledger:    ledger,
		scheduler: scheduler,
		router:    router,
		bonus:     bonus,
		delay:     delay,
		armed:     true,
	}
	if reg != nil {
		b.statBonuses = reg.Ints.Get(status.MetricBonuses)
	}
	router.Register(b)
	return b
}

func (b *TargetBank) EventTypes() []events.EventType {
	return []events.EventType{events.EventTargetHit}
}

func (b *TargetBank) HandleEvent(events.GameEvent) {
	if !b.armed || !b.AllHit() {
		return
	}
	b.armed = false

	if err := b.ledger.AddPoints(b.bonus); err != nil {
		log.Printf("[scoring] bonus: %v", err)
	}
	if b.statBonuses != nil {
		b.statBonuses.Add(1)
	}
	b.router.Publish(events.GameEvent{Type: events.EventAllTargetsCleared})
	b.resetTimer = b.scheduler.After(b.delay, b.rearm)
}

// AllHit reports whether every target is down
func (b *TargetBank) AllHit() bool {
	if len(b.targets) == 0 {
		return false
	}
	for _, t := range b.targets {
		if !t.hit {
			return false
		}
	}
	return true
}

// Targets returns the bank members
func (b *TargetBank) Targets() []*Target {
	return b.targets
}

// Reset cancels a pending re-arm and raises every target now
func (b *TargetBank) Reset() {
	if b.resetTimer != 0 {
		b.scheduler.Cancel(b.resetTimer)
		b.resetTimer = 0
	}
	for _, t := range b.targets {
		t.Reset()
	}
	b.armed = true
}

func (b *TargetBank) rearm() {
	b.resetTimer = 0
	for _, t := range b.targets {
		t.Reset()
	}
	b.armed = true
	b.router.Publish(events.GameEvent{Type: events.EventTargetsReset})
}
