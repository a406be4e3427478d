package main

import (
	"log"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/pinball/config"
	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/game"
	"github.com/lixenwraith/pinball/highscore"
	"github.com/lixenwraith/pinball/input"
	"github.com/lixenwraith/pinball/render"
	"github.com/lixenwraith/pinball/status"
)

// cueSink is the audio surface the app needs beyond cue playback
type cueSink interface {
	engine.AudioPlayer
	ToggleMute() bool
	Muted() bool
}

// app owns one terminal and a sequence of sessions
// Sessions are created, ticked and closed only on the loop goroutine; the event
// goroutine talks to it through the keyboard and the command channel
type app struct {
	cfg      *config.Config
	screen   tcell.Screen
	renderer *render.TerminalRenderer
	audio    cueSink
	keyboard *input.Keyboard
	recorder *highscore.Recorder
	reg      *status.Registry
	newSim   func() engine.Simulator
	debug    bool

	session  *game.Session
	commands chan input.Action
	quit     chan struct{}
	quitOnce sync.Once
}

type appDeps struct {
	Screen   tcell.Screen
	Audio    cueSink
	Recorder *highscore.Recorder
	NewSim   func() engine.Simulator
	Debug    bool
}

func newApp(cfg *config.Config, deps appDeps) *app {
	return &app{
		cfg:      cfg,
		screen:   deps.Screen,
		renderer: render.NewTerminalRenderer(deps.Screen),
		audio:    deps.Audio,
		keyboard: input.NewKeyboard(nil, cfg.Timing.KeyHold.Duration, cfg.Timing.KeyRepeatGuard.Duration),
		recorder: deps.Recorder,
		reg:      status.NewRegistry(),
		newSim:   deps.NewSim,
		debug:    deps.Debug,
		commands: make(chan input.Action, 16),
		quit:     make(chan struct{}),
	}
}

// startSession replaces the current session with a fresh one
func (a *app) startSession() error {
	if a.session != nil {
		a.session.Close()
	}

	a.keyboard.Reset()
	a.recorder.Reset()
	a.session = game.NewSession(a.cfg, game.Deps{
		Sim:      a.newSim(),
		Audio:    a.audio,
		Input:    a.keyboard,
		Reporter: a.recorder,
		Status:   a.reg,
	})
	return a.session.Start()
}

// Tick implements engine.Ticker
func (a *app) Tick(dt time.Duration) {
	a.drainCommands()
	if a.stopped() || a.session == nil {
		return
	}

	a.session.Tick(dt)
	a.draw()
}

func (a *app) draw() {
	snap := a.session.Snapshot()
	a.keyboard.SyncCharging(snap.Charging)

	board, ready := a.recorder.Board()
	a.renderer.RenderFrame(render.Frame{
		Snapshot:   snap,
		Board:      board,
		BoardReady: ready,
		Initials:   a.recorder.Initials(),
		Muted:      a.audio.Muted(),
		Debug:      a.debug,
	})
}

func (a *app) drainCommands() {
	for {
		select {
		case act := <-a.commands:
			a.handleAction(act)
		default:
			return
		}
	}
}

func (a *app) handleAction(act input.Action) {
	switch act {
	case input.ActionPause:
		if a.session != nil && a.session.Phase() != game.PhaseGameOver {
			a.session.SetPaused(!a.session.Paused())
			log.Printf("[main] paused=%t", a.session.Paused())
		}
	case input.ActionMute:
		log.Printf("[main] muted=%t", a.audio.ToggleMute())
	case input.ActionNewGame:
		if a.session == nil || a.session.Phase() == game.PhaseGameOver {
			if err := a.startSession(); err != nil {
				log.Printf("[main] new game failed: %v", err)
				a.stop()
			}
		}
	case input.ActionQuit:
		a.stop()
	}
}

// dispatch handles one terminal event on the event goroutine
func (a *app) dispatch(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		act := a.keyboard.HandleKey(ev)
		if act == input.ActionNone || act.IsGameplay() {
			return
		}
		select {
		case a.commands <- act:
		default:
			log.Printf("[main] command queue full, dropped %v", act)
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
}

func (a *app) stop() {
	a.quitOnce.Do(func() {
		close(a.quit)
		// Wake PollEvent so the event goroutine sees the quit
		a.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
}

func (a *app) stopped() bool {
	select {
	case <-a.quit:
		return true
	default:
		return false
	}
}

// run starts the first session and blocks until quit
func (a *app) run() error {
	if err := a.startSession(); err != nil {
		return err
	}

	loop := engine.NewLoop(a.cfg.Timing.Tick.Duration, a, a.reg)
	loop.Start()

	for !a.stopped() {
		ev := a.screen.PollEvent()
		if ev == nil {
			a.stop()
			break
		}
		a.dispatch(ev)
	}

	loop.Stop()
	a.session.Close()
	a.recorder.Wait()
	return nil
}
