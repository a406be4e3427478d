package input

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/parameter"
)

// Keyboard turns terminal key events into per-tick control state
// Terminals report presses only, so a paddle stays held until no press or repeat
// arrives within the hold timeout. The launch key toggles charge and release,
// with repeats inside the guard window ignored.
type Keyboard struct {
	mu    sync.Mutex
	table *KeyTable
	now   func() time.Time

	holdTimeout time.Duration
	repeatGuard time.Duration

	leftSeen  time.Time
	rightSeen time.Time

	charging    bool
	launchSeen  time.Time
	chargeStart bool
	release     bool
}

// NewKeyboard creates a keyboard with the given bindings and timings
// A nil table or zero duration selects the default
func NewKeyboard(table *KeyTable, hold, repeatGuard time.Duration) *Keyboard {
	if table == nil {
		table = DefaultKeyTable()
	}
	if hold <= 0 {
		hold = parameter.KeyHoldTimeout
	}
	if repeatGuard <= 0 {
		repeatGuard = parameter.KeyRepeatGuard
	}
	return &Keyboard{
		table:       table,
		now:         time.Now,
		holdTimeout: hold,
		repeatGuard: repeatGuard,
	}
}

// SetClock replaces the time source
func (k *Keyboard) SetClock(now func() time.Time) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.now = now
}

// HandleKey records a key event and returns its action
// Gameplay actions are consumed here; the caller handles the rest
func (k *Keyboard) HandleKey(ev *tcell.EventKey) Action {
	action := k.table.Lookup(ev)

	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	switch action {
	case ActionLeftPaddle:
		k.leftSeen = now
	case ActionRightPaddle:
		k.rightSeen = now
	case ActionLaunch:
		k.launch(now)
	}
	return action
}

// launch toggles the charge, swallowing auto-repeat bursts
func (k *Keyboard) launch(now time.Time) {
	last := k.launchSeen
	k.launchSeen = now
	if !last.IsZero() && now.Sub(last) < k.repeatGuard {
		return
	}

	if k.charging {
		k.charging = false
		k.release = true
		return
	}
	k.charging = true
	k.chargeStart = true
}

// Poll returns paddle levels and the launcher edges latched since the previous call
func (k *Keyboard) Poll() engine.Input {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	in := engine.Input{
		LeftPaddle:  k.held(k.leftSeen, now),
		RightPaddle: k.held(k.rightSeen, now),
		ChargeStart: k.chargeStart,
		Release:     k.release,
	}
	k.chargeStart = false
	k.release = false
	return in
}

func (k *Keyboard) held(seen, now time.Time) bool {
	return !seen.IsZero() && now.Sub(seen) < k.holdTimeout
}

// Charging reports whether the launch key is toggled on
func (k *Keyboard) Charging() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.charging
}

// SyncCharging aligns the toggle with the launcher when no edge is pending
// Edges polled during gated ticks are dropped, which would otherwise leave the toggle inverted
func (k *Keyboard) SyncCharging(charging bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.chargeStart || k.release {
		return
	}
	k.charging = charging
}

// Reset clears held keys and pending edges
func (k *Keyboard) Reset() {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.leftSeen = time.Time{}
	k.rightSeen = time.Time{}
	k.charging = false
	k.launchSeen = time.Time{}
	k.chargeStart = false
	k.release = false
}
