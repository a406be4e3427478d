package actuator

import (
	"github.com/lixenwraith/pinball/config"
	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/events"
	"github.com/lixenwraith/pinball/status"
)

// LauncherState is the plunger phase
type LauncherState uint8

const (
	LauncherIdle LauncherState = iota
	LauncherCharging
)

// Launcher oscillates charge power between min and max while held
type Launcher struct {
	audio  engine.AudioPlayer
	router *events.Router

	minPower  float64
	maxPower  float64
	speed     float64
	power     float64
	direction float64
	state     LauncherState

	statPower *status.Gauge
	statPeak  *status.Gauge
}

// NewLauncher creates an idle launcher; audio, router and reg may be nil
func NewLauncher(cfg config.Launcher, audio engine.AudioPlayer, router *events.Router, reg *status.Registry) *Launcher {
	if audio == nil {
		audio = engine.NopAudio{}
	}
	l := &Launcher{
		audio:    audio,
		router:   router,
		minPower: cfg.MinPower,
		maxPower: cfg.MaxPower,
		speed:    cfg.Speed,
	}
	if reg != nil {
		l.statPower = reg.Floats.Get(status.MetricPower)
		l.statPeak = reg.Floats.Get(status.MetricPeakPower)
	}
	return l
}

// StartCharge begins charging at minimum power, no-op while charging
func (l *Launcher) StartCharge() {
	if l.state == LauncherCharging {
		return
	}
	l.state = LauncherCharging
	l.power = l.minPower
	l.direction = 1
	l.publishPower()
}

// Update advances the oscillation by one tick
func (l *Launcher) Update() {
	if l.state != LauncherCharging {
		return
	}
	l.power += l.speed * l.direction
	if l.power >= l.maxPower {
		l.power = l.maxPower
		l.direction = -1
	} else if l.power <= l.minPower {
		l.power = l.minPower
		l.direction = 1
	}
	l.publishPower()
}

// Release fires the launch event with the current power and returns it
// ok is false when the launcher was idle
func (l *Launcher) Release() (power float64, ok bool) {
	if l.state != LauncherCharging {
		return 0, false
	}
	power = l.power
	l.state = LauncherIdle

	if l.router != nil {
		l.router.Publish(events.GameEvent{Type: events.EventLaunch, Power: power})
	}
	l.audio.PlayCue(engine.CueLaunch)
	if l.statPeak != nil {
		l.statPeak.Raise(power)
	}

	l.power = 0
	l.publishPower()
	return power, true
}

// Reset drops any charge
func (l *Launcher) Reset() {
	l.state = LauncherIdle
	l.power = 0
	l.direction = 1
	l.publishPower()
}

// Power returns the current charge, 0 when idle
func (l *Launcher) Power() float64 {
	return l.power
}

// Charging reports whether a charge is in progress
func (l *Launcher) Charging() bool {
	return l.state == LauncherCharging
}

// Range returns the configured power bounds
func (l *Launcher) Range() (min, max float64) {
	return l.minPower, l.maxPower
}

func (l *Launcher) publishPower() {
	if l.statPower != nil {
		l.statPower.Set(l.power)
	}
}
