// Package actuator drives the player-controlled bodies: two hinged paddles and the launcher
package actuator

import (
	"log"

	"github.com/lixenwraith/pinball/config"
	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/table"
	"github.com/lixenwraith/pinball/vmath"
)

// PaddleState is the paddle motion phase
type PaddleState uint8

const (
	PaddleResting PaddleState = iota
	PaddleActivating
	PaddleReturning
)

func (s PaddleState) String() string {
	switch s {
	case PaddleActivating:
		return "activating"
	case PaddleReturning:
		return "returning"
	default:
		return "resting"
	}
}

// Paddle is the state machine for one hinged paddle
// The body angle never leaves the closed interval between rest and active
type Paddle struct {
	sim   engine.Simulator
	audio engine.AudioPlayer

	body   engine.BodyID
	side   table.Side
	rest   float64
	active float64

	// sign is the rotation direction toward active
	sign        float64
	omega       float64
	returnOmega float64

	state PaddleState
}

// NewPaddle binds a state machine to a table paddle, audio may be nil
func NewPaddle(sim engine.Simulator, p table.Paddle, cfg config.Paddle, audio engine.AudioPlayer) *Paddle {
	if audio == nil {
		audio = engine.NopAudio{}
	}
	return &Paddle{
		sim:         sim,
		audio:       audio,
		body:        p.Body,
		side:        p.Side,
		rest:        p.Rest,
		active:      p.Active,
		sign:        p.Side.Sign(),
		omega:       cfg.AngularVelocity,
		returnOmega: cfg.AngularVelocity * cfg.ReturnRatio,
	}
}

// Activate swings the paddle toward its active angle, no-op while already activating
func (p *Paddle) Activate() {
	if p.state == PaddleActivating {
		return
	}
	p.state = PaddleActivating
	p.command()
	p.audio.PlayCue(engine.CuePaddle)
}

// Deactivate returns the paddle toward rest at the reduced speed, no-op unless activating
func (p *Paddle) Deactivate() {
	if p.state != PaddleActivating {
		return
	}
	p.state = PaddleReturning
	p.command()
}

// Update runs after integration: stops the paddle at its bounds, re-issues the motor
// velocity while travelling, and clamps any overshoot back into range
func (p *Paddle) Update() {
	st, ok := p.sim.Body(p.body)
	if !ok {
		return
	}
	angle := st.Angle

	switch p.state {
	case PaddleActivating:
		if p.sign*(angle-p.active) >= 0 {
			p.hold(p.active)
			return
		}
	case PaddleReturning:
		if p.sign*(angle-p.rest) <= 0 {
			p.hold(p.rest)
			p.state = PaddleResting
			return
		}
	case PaddleResting:
		p.hold(p.rest)
		return
	}

	if clamped := vmath.ClampF(angle, p.rest, p.active); clamped != angle {
		p.setAngle(clamped)
	}
	p.command()
}

// Reset forces the paddle to rest with zero velocity
func (p *Paddle) Reset() {
	p.state = PaddleResting
	p.hold(p.rest)
}

// State returns the current motion phase
func (p *Paddle) State() PaddleState {
	return p.state
}

// Angle returns the body angle, or rest if the body is gone
func (p *Paddle) Angle() float64 {
	if st, ok := p.sim.Body(p.body); ok {
		return st.Angle
	}
	return p.rest
}

// Bounds returns the rest and active angles
func (p *Paddle) Bounds() (rest, active float64) {
	return p.rest, p.active
}

// command issues the angular velocity for the current state
func (p *Paddle) command() {
	var w float64
	switch p.state {
	case PaddleActivating:
		w = p.sign * p.omega
	case PaddleReturning:
		w = -p.sign * p.returnOmega
	}
	if err := p.sim.SetAngularVelocity(p.body, w); err != nil {
		log.Printf("[actuator] %s paddle velocity: %v", p.side, err)
	}
}

func (p *Paddle) hold(angle float64) {
	p.setAngle(angle)
	if err := p.sim.SetAngularVelocity(p.body, 0); err != nil {
		log.Printf("[actuator] %s paddle stop: %v", p.side, err)
	}
}

func (p *Paddle) setAngle(angle float64) {
	if err := p.sim.SetAngle(p.body, angle); err != nil {
		log.Printf("[actuator] %s paddle angle: %v", p.side, err)
	}
}
