package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/pinball/audio"
	"github.com/lixenwraith/pinball/config"
	"github.com/lixenwraith/pinball/core"
	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/highscore"
	"github.com/lixenwraith/pinball/parameter"
	"github.com/lixenwraith/pinball/physics"
	"github.com/lixenwraith/pinball/service"
)

var (
	configFlag     = flag.String("config", "", "Path to a TOML config file (default $PINBALL_CONFIG)")
	debugFlag      = flag.Bool("debug", false, "Write a debug log to logs/pinball.log")
	initialsFlag   = flag.String("initials", "", "Initials saved with high scores")
	dumpConfigFlag = flag.Bool("dump-config", false, "Print the effective config as TOML and exit")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(*configFlag, ".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *initialsFlag != "" {
		cfg.HighScore.Initials = *initialsFlag
	}

	if *dumpConfigFlag {
		if err := config.Encode(os.Stdout, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode config: %v\n", err)
			os.Exit(1)
		}
		return
	}

	store := openStore(cfg.HighScore)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	core.RegisterCrashScreen(screen)
	defer func() {
		core.RegisterCrashScreen(nil)
		screen.Fini()
	}()

	player := audio.NewCuePlayer(cfg.Audio)

	var services service.Group
	if cfg.Audio.Enabled {
		services.AddOptional(player)
	}
	services.Add(service.Funcs{ID: "highscore", OnStop: store.Close})
	if err := services.Start(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to start services: %v\n", err)
		os.Exit(1)
	}
	defer services.Stop()

	a := newApp(cfg, appDeps{
		Screen:   screen,
		Audio:    player,
		Recorder: highscore.NewRecorder(store, cfg.HighScore.Initials),
		NewSim:   func() engine.Simulator { return physics.NewWorld(cfg.Table.Gravity) },
		Debug:    *debugFlag,
	})
	if err := a.run(); err != nil {
		log.Printf("[main] %v", err)
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
}

// openStore connects to Redis when configured and falls back to an in-memory board
func openStore(cfg config.HighScore) highscore.Store {
	if cfg.RedisURL == "" {
		return highscore.NewMemory()
	}

	ctx, cancel := context.WithTimeout(context.Background(), parameter.HighScoreTimeout)
	defer cancel()

	store, err := highscore.Connect(ctx, cfg.RedisURL, cfg.Key)
	if err != nil {
		log.Printf("[highscore] redis unavailable, keeping scores in memory: %v", err)
		return highscore.NewMemory()
	}
	log.Printf("[highscore] using redis key %s", cfg.Key)
	return store
}
