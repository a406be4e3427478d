package audio

import (
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/lixenwraith/pinball/config"
	"github.com/lixenwraith/pinball/core"
	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// tone describes one cue's synthesized voice
type tone struct {
	freq float64
	gain float64
}

var cueTones = [engine.CueCount]tone{
	engine.CuePaddle: {parameter.PaddleCueFreq, parameter.PaddleCueGain},
	engine.CueBumper: {parameter.BumperCueFreq, parameter.BumperCueGain},
	engine.CueTarget: {parameter.TargetCueFreq, parameter.TargetCueGain},
	engine.CueLaunch: {parameter.LaunchCueFreq, parameter.LaunchCueGain},
	engine.CueDrain:  {parameter.DrainCueFreq, parameter.DrainCueGain},
}

// CuePlayer synthesizes short tones for game cues
// Cues are queued and mixed on a worker goroutine; PlayCue never blocks the tick
type CuePlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	queue       chan engine.Cue
	done        chan struct{}
	volume      float64
	muted       atomic.Bool
	dropped     atomic.Int64
	initialized bool
}

// NewCuePlayer creates a player in silent mode until Start succeeds
func NewCuePlayer(cfg config.Audio) *CuePlayer {
	return &CuePlayer{
		mixer:  &beep.Mixer{},
		queue:  make(chan engine.Cue, parameter.AudioQueueSize),
		volume: cfg.Volume,
	}
}

// Name implements service.Service
func (p *CuePlayer) Name() string { return "audio" }

// Start opens the speaker and starts the mixing worker
// On failure the player stays silent and the error is returned for logging
func (p *CuePlayer) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}

	speaker.Play(p.mixer)
	p.initialized = true
	p.done = make(chan struct{})
	done := p.done
	core.Go(func() { p.run(done) })
	return nil
}

// PlayCue queues a cue, dropping it when the queue is full or the player is silent
func (p *CuePlayer) PlayCue(c engine.Cue) {
	if c >= engine.CueCount || p.muted.Load() {
		return
	}

	p.mu.Lock()
	ready := p.initialized
	p.mu.Unlock()
	if !ready {
		return
	}

	select {
	case p.queue <- c:
	default:
		p.dropped.Add(1)
	}
}

// run moves queued cues into the mixer until Stop
func (p *CuePlayer) run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case c := <-p.queue:
			s := NewCueStreamer(c, sampleRate, p.volume)
			speaker.Lock()
			p.mixer.Add(s)
			speaker.Unlock()
		}
	}
}

// SetMuted silences or restores cue playback
func (p *CuePlayer) SetMuted(muted bool) {
	p.muted.Store(muted)
}

// ToggleMute flips the mute state and returns the new value
func (p *CuePlayer) ToggleMute() bool {
	for {
		old := p.muted.Load()
		if p.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Muted reports whether cues are silenced
func (p *CuePlayer) Muted() bool {
	return p.muted.Load()
}

// Initialized reports whether the speaker is open
func (p *CuePlayer) Initialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Dropped returns the number of cues discarded on a full queue
func (p *CuePlayer) Dropped() int64 {
	return p.dropped.Load()
}

// Stop halts the worker and releases the speaker
func (p *CuePlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}
	close(p.done)

	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()

	p.initialized = false
	log.Printf("[audio] stopped, %d cues dropped", p.dropped.Load())
	return nil
}

// NewCueStreamer builds the finite streamer for one cue at the given master volume
func NewCueStreamer(c engine.Cue, sr beep.SampleRate, volume float64) beep.Streamer {
	t := cueTones[c]
	gen := NewToneGenerator(sr, t.freq, parameter.CueDuration, parameter.CueAttack, parameter.CueRelease)
	return beep.Take(sr.N(parameter.CueDuration), newVolume(gen, t.gain*volume))
}

// newVolume maps a linear gain onto beep's log scale, zero gain is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// ToneGenerator is a sine voice with a linear attack and release
type ToneGenerator struct {
	sr      beep.SampleRate
	freq    float64
	pos     int
	total   int
	attack  int
	release int
}

// NewToneGenerator creates a generator that ends after duration
func NewToneGenerator(sr beep.SampleRate, freq float64, duration, attack, release time.Duration) *ToneGenerator {
	return &ToneGenerator{
		sr:      sr,
		freq:    freq,
		total:   sr.N(duration),
		attack:  sr.N(attack),
		release: sr.N(release),
	}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.total {
			return i, i > 0
		}

		t := float64(g.pos) / float64(g.sr)
		val := math.Sin(2*math.Pi*g.freq*t) * g.envelope()

		samples[i][0] = val
		samples[i][1] = val
		g.pos++
	}
	return len(samples), true
}

// envelope returns the gain at the current position
func (g *ToneGenerator) envelope() float64 {
	if g.attack > 0 && g.pos < g.attack {
		return float64(g.pos) / float64(g.attack)
	}
	remaining := g.total - g.pos
	if g.release > 0 && remaining < g.release {
		return float64(remaining) / float64(g.release)
	}
	return 1
}

func (g *ToneGenerator) Err() error { return nil }
