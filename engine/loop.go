package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/pinball/core"
	"github.com/lixenwraith/pinball/parameter"
	"github.com/lixenwraith/pinball/status"
)

// Ticker advances game state by one fixed step
type Ticker interface {
	Tick(dt time.Duration)
}

// TickerFunc adapts a function to Ticker
type TickerFunc func(dt time.Duration)

func (f TickerFunc) Tick(dt time.Duration) { f(dt) }

// Loop drives a Ticker on a fixed interval from a single goroutine
// Deadlines advance by whole intervals so jitter does not accumulate; after a long stall the loop
// runs a bounded burst of catch-up ticks then resyncs to wall time
type Loop struct {
	ticker       Ticker
	tickInterval time.Duration

	nextTickDeadline time.Time
	tickCount        atomic.Uint64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	statTicks *atomic.Int64
}

// NewLoop creates a stopped loop, reg may be nil
func NewLoop(tickInterval time.Duration, ticker Ticker, reg *status.Registry) *Loop {
	l := &Loop{
		ticker:       ticker,
		tickInterval: tickInterval,
		stopChan:     make(chan struct{}),
	}
	if reg != nil {
		l.statTicks = reg.Ints.Get(status.MetricTicks)
	}
	return l
}

// Start begins ticking, repeated calls are ignored
func (l *Loop) Start() {
	if l.running.CompareAndSwap(false, true) {
		l.wg.Add(1)
		core.Go(l.run)
	}
}

// Stop halts the loop and waits for the in-flight tick to finish
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
		if l.running.Load() {
			l.wg.Wait()
			l.running.Store(false)
		}
	})
}

// TickCount returns the number of completed ticks
func (l *Loop) TickCount() uint64 {
	return l.tickCount.Load()
}

func (l *Loop) run() {
	defer l.wg.Done()

	l.nextTickDeadline = time.Now().Add(l.tickInterval)

	timer := time.NewTimer(l.tickInterval)
	defer timer.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-timer.C:
		}

		burst := 0
		for !time.Now().Before(l.nextTickDeadline) {
			select {
			case <-l.stopChan:
				return
			default:
			}

			l.processTick()
			l.nextTickDeadline = l.nextTickDeadline.Add(l.tickInterval)

			burst++
			if burst >= parameter.MaxCatchUpTicks {
				l.nextTickDeadline = time.Now().Add(l.tickInterval)
				break
			}
		}

		sleep := time.Until(l.nextTickDeadline)
		if sleep < 0 {
			sleep = 0
		}
		timer.Reset(sleep)
	}
}

func (l *Loop) processTick() {
	l.ticker.Tick(l.tickInterval)
	n := l.tickCount.Add(1)
	if l.statTicks != nil {
		l.statTicks.Store(int64(n))
	}
}
