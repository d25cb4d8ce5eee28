// cmd/tui/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"gearspire/internal/app"
	"gearspire/internal/config"
	"gearspire/internal/defs"
	"gearspire/internal/logging"
)

const frameInterval = 50 * time.Millisecond

func main() {
	configDir := flag.String("config", ".", "directory with gearspire.{yaml,json,toml}")
	logFile := flag.String("log", "", "write logs to this file (the terminal is taken by the UI)")
	flag.Parse()

	if err := run(*configDir, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "gearspire-tui: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir, logFile string) error {
	settings, err := config.Load(configDir)
	if err != nil {
		return err
	}
	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	log := logging.NewWithWriter(out, settings.LogLevel)

	if _, _, err := defs.LoadOverrides(settings.Defs.TowersFile, settings.Defs.EnemiesFile); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := app.NewRunner(app.NewGame(app.OptionsFromSettings(settings), log), config.TicksPerSecond, log)
	go runner.Run(ctx)

	c := newClient(ctx, screen, runner, log)
	loop(c, screen)
	return nil
}

func loop(c *client, screen tcell.Screen) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !c.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			c.draw(c.runner.Snapshot())
		}
	}
}
