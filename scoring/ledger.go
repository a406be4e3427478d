// Package scoring turns collisions into points: the score ledger, the collision registration
// table and the bumper/target handlers
package scoring

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/pinball/events"
)

// ErrNegativePoints rejects deductions; the total only grows until Reset
var ErrNegativePoints = errors.New("negative points")

type subscriber struct {
	id int
	fn func(total int)
}

// Ledger is the session score
type Ledger struct {
	total  int
	subs   []subscriber
	nextID int
	router *events.Router
}

// NewLedger creates a zero ledger that mirrors changes to router, which may be nil
func NewLedger(router *events.Router) *Ledger {
	return &Ledger{router: router}
}

// AddPoints adds delta and notifies subscribers; zero is accepted silently
func (l *Ledger) AddPoints(delta int) error {
	if delta < 0 {
		return fmt.Errorf("%w: %d", ErrNegativePoints, delta)
	}
	if delta == 0 {
		return nil
	}
	l.total += delta
	l.notify()
	return nil
}

// Reset zeroes the total
func (l *Ledger) Reset() {
	if l.total == 0 {
		return
	}
	l.total = 0
	l.notify()
}

// Total returns the current score
func (l *Ledger) Total() int {
	return l.total
}

// Subscribe registers fn for every change and returns its cancel function
func (l *Ledger) Subscribe(fn func(total int)) (unsubscribe func()) {
	l.nextID++
	id := l.nextID
	l.subs = append(l.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range l.subs {
			if s.id == id {
				l.subs = append(l.subs[:i], l.subs[i+1:]...)
				return
			}
		}
	}
}

func (l *Ledger) notify() {
	// Copy so subscribers may unsubscribe during notification
	subs := append([]subscriber(nil), l.subs...)
	for _, s := range subs {
		s.fn(l.total)
	}
	if l.router != nil {
		l.router.Publish(events.GameEvent{Type: events.EventScoreChanged, Score: l.total})
	}
}
