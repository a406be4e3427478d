package actuator

import (
	"log"

	"github.com/lixenwraith/pinball/config"
	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/events"
	"github.com/lixenwraith/pinball/status"
	"github.com/lixenwraith/pinball/table"
	"github.com/lixenwraith/pinball/vmath"
)

// Controller relays input to both paddles and the launcher and applies launch impulses
type Controller struct {
	sim   engine.Simulator
	table *table.Table

	left     *Paddle
	right    *Paddle
	launcher *Launcher

	velocityScale float64
}

// NewController wires actuators to the table and registers the launch effect on router
func NewController(sim engine.Simulator, tbl *table.Table, cfg *config.Config, audio engine.AudioPlayer, router *events.Router, reg *status.Registry) *Controller {
	c := &Controller{
		sim:           sim,
		table:         tbl,
		left:          NewPaddle(sim, tbl.Paddle(table.SideLeft), cfg.Paddle, audio),
		right:         NewPaddle(sim, tbl.Paddle(table.SideRight), cfg.Paddle, audio),
		launcher:      NewLauncher(cfg.Launcher, audio, router, reg),
		velocityScale: cfg.Launcher.VelocityScale,
	}
	if router != nil {
		router.Register(c)
	}
	return c
}

// Apply relays one tick of input
func (c *Controller) Apply(in engine.Input) {
	if in.LeftPaddle {
		c.left.Activate()
	} else {
		c.left.Deactivate()
	}
	if in.RightPaddle {
		c.right.Activate()
	} else {
		c.right.Deactivate()
	}

	if in.ChargeStart {
		c.launcher.StartCharge()
	}
	if in.Release {
		c.launcher.Release()
	}
}

// Update advances every actuator after the physics step
func (c *Controller) Update() {
	c.left.Update()
	c.right.Update()
	c.launcher.Update()
}

// Reset returns paddles to rest and drops launcher charge
func (c *Controller) Reset() {
	c.left.Reset()
	c.right.Reset()
	c.launcher.Reset()
}

// Paddle returns the machine for side
func (c *Controller) Paddle(side table.Side) *Paddle {
	if side == table.SideRight {
		return c.right
	}
	return c.left
}

// Launcher returns the plunger machine
func (c *Controller) Launcher() *Launcher {
	return c.launcher
}

// HandleEvent applies the launch effect
func (c *Controller) HandleEvent(ev events.GameEvent) {
	if ev.Type == events.EventLaunch {
		c.applyLaunch(ev.Power)
	}
}

// EventTypes implements events.Handler
func (c *Controller) EventTypes() []events.EventType {
	return []events.EventType{events.EventLaunch}
}

// applyLaunch sends the ball up the lane; the charge is spent even when nothing moves
func (c *Controller) applyLaunch(power float64) {
	st, ok := c.table.BallState()
	if !ok {
		log.Printf("[actuator] launch ignored: ball body missing")
		return
	}
	if !c.table.InLaunchLane(st.Position) {
		return
	}
	if err := c.sim.SetVelocity(c.table.Ball(), vmath.V2F(0, -power*c.velocityScale)); err != nil {
		log.Printf("[actuator] launch: %v", err)
	}
}
