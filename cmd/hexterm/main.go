package main

import (
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/Ko-stant/hex-tactics-engine/internal/config"
	"github.com/Ko-stant/hex-tactics-engine/internal/tactics"
)

// LoggerImpl writes engine logs to a file so they stay off the board
type LoggerImpl struct {
	logger *log.Logger
}

func (l *LoggerImpl) Printf(format string, v ...interface{}) {
	l.logger.Printf(format, v...)
}

func newLogger() (*LoggerImpl, func()) {
	path := os.Getenv("HEXTERM_LOG")
	if path == "" {
		return &LoggerImpl{logger: log.New(io.Discard, "", 0)}, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return &LoggerImpl{logger: log.New(io.Discard, "", 0)}, func() {}
	}
	return &LoggerImpl{logger: log.New(f, "", log.LstdFlags)}, func() { f.Close() }
}

func newMatch(cfg config.Config, logger tactics.Logger) (*tactics.Match, error) {
	policy, err := tactics.ParseMovementPolicy(cfg.Movement.Policy)
	if err != nil {
		return nil, err
	}
	var rng *rand.Rand
	if cfg.AI.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.AI.Seed, cfg.AI.Seed))
	}
	match := tactics.NewMatch(tactics.Options{
		Bounds:   cfg.Grid,
		AIDelay:  cfg.AI.Delay,
		HandSize: cfg.Hand.Size,
		Policy:   policy,
		Rand:     rng,
		Logger:   logger,
	})
	return match, nil
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, closeLog := newLogger()
	defer closeLog()

	match, err := newMatch(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create match: %v\n", err)
		os.Exit(1)
	}
	defer match.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	game := NewGame(screen, match, cfg.Grid)
	if err := startMatch(match, cfg); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to start match: %v\n", err)
		os.Exit(1)
	}
	game.draw()
	game.run()
}

func startMatch(match *tactics.Match, cfg config.Config) error {
	roster := tactics.DevRoster()
	if cfg.Roster != "" {
		var err error
		if roster, err = tactics.LoadRoster(cfg.Roster, cfg.Grid); err != nil {
			return err
		}
	}
	return match.Initialize(roster)
}
