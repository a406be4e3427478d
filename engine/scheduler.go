package engine

import (
	"sort"
	"time"
)

// TimerID identifies a scheduled callback, zero means not scheduled
type TimerID uint64

type timer struct {
	id  TimerID
	due time.Duration
	fn  func()
}

// Scheduler is a game-time timer registry advanced by the fixed tick
// Not safe for concurrent use; owned by the game loop goroutine
type Scheduler struct {
	now    time.Duration
	nextID TimerID
	timers []timer
	closed bool
}

// NewScheduler creates an empty scheduler at game time zero
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After registers fn to run once game time advances by d
// Returns 0 and drops fn when the scheduler is closed
func (s *Scheduler) After(d time.Duration, fn func()) TimerID {
	if s.closed || fn == nil {
		return 0
	}
	if d < 0 {
		d = 0
	}
	s.nextID++
	s.timers = append(s.timers, timer{id: s.nextID, due: s.now + d, fn: fn})
	return s.nextID
}

// Cancel removes a pending timer, reports whether it was pending
func (s *Scheduler) Cancel(id TimerID) bool {
	for i, t := range s.timers {
		if t.id == id {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves game time forward and runs due timers in due order, ties by registration order
// Timers registered by a callback run in the same call if already due
func (s *Scheduler) Advance(dt time.Duration) {
	if s.closed {
		return
	}
	s.now += dt

	for !s.closed {
		idx := -1
		for i, t := range s.timers {
			if t.due > s.now {
				continue
			}
			if idx < 0 || t.due < s.timers[idx].due || (t.due == s.timers[idx].due && t.id < s.timers[idx].id) {
				idx = i
			}
		}
		if idx < 0 {
			return
		}
		t := s.timers[idx]
		s.timers = append(s.timers[:idx], s.timers[idx+1:]...)
		t.fn()
	}
}

// Close cancels every pending timer; later After calls are ignored
func (s *Scheduler) Close() {
	s.closed = true
	s.timers = nil
}

// Closed reports whether Close was called
func (s *Scheduler) Closed() bool {
	return s.closed
}

// Now returns accumulated game time
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending returns the IDs of outstanding timers in due order
func (s *Scheduler) Pending() []TimerID {
	sorted := make([]timer, len(s.timers))
	copy(sorted, s.timers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].due < sorted[j].due })

	ids := make([]TimerID, len(sorted))
	for i, t := range sorted {
		ids[i] = t.id
	}
	return ids
}
