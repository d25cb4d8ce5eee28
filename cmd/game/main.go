// cmd/game/main.go
package main

import (
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"gearspire/internal/app"
	"gearspire/internal/config"
	"gearspire/internal/defs"
	"gearspire/internal/logging"
	"gearspire/internal/state"
	"gearspire/internal/storage"
)

type AppGame struct {
	stateMachine   *state.StateMachine
	lastUpdateTime time.Time
	width, height  int
}

func (a *AppGame) Update() error {
	now := time.Now()
	deltaTime := now.Sub(a.lastUpdateTime).Seconds()
	if deltaTime > config.MaxDeltaTime {
		deltaTime = config.MaxDeltaTime
	}
	a.lastUpdateTime = now
	a.stateMachine.Update(deltaTime)
	return nil
}

func (a *AppGame) Draw(screen *ebiten.Image) {
	a.stateMachine.Draw(screen)
}

func (a *AppGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.width, a.height
}

func main() {
	configDir := flag.String("config", ".", "directory with gearspire.{yaml,json,toml}")
	skipMenu := flag.Bool("play", false, "start in a game instead of the title screen")
	pprofAddr := flag.String("pprof", "", "serve net/http/pprof on this address, e.g. localhost:6060")
	flag.Parse()

	settings, err := config.Load(*configDir)
	if err != nil {
		bootLog := logging.New("info", true)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logging.New(settings.LogLevel, settings.LogPretty)

	towers, enemies, err := defs.LoadOverrides(settings.Defs.TowersFile, settings.Defs.EnemiesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load definitions")
	}
	if towers+enemies > 0 {
		log.Info().Int("towers", towers).Int("enemies", enemies).Msg("definition overrides loaded")
	}

	if *pprofAddr != "" {
		go func() {
			log.Warn().Err(http.ListenAndServe(*pprofAddr, nil)).Msg("pprof stopped")
		}()
	}

	store, err := storage.Open(settings.Storage, log)
	if err != nil {
		log.Warn().Err(err).Msg("saves disabled")
		store = nil
	} else {
		defer store.Close()
	}

	deps := state.Deps{Options: app.OptionsFromSettings(settings), Store: store, Log: log}
	sm := state.NewStateMachine()
	if *skipMenu {
		sm.SetState(state.NewGameState(sm, deps))
	} else {
		sm.SetState(state.NewMenuState(sm, deps, nil))
	}

	w, h := deps.ScreenSize()
	game := &AppGame{stateMachine: sm, lastUpdateTime: time.Now(), width: w, height: h}
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Gearspire")
	ebiten.SetTPS(config.TicksPerSecond)
	if err := ebiten.RunGame(game); err != nil {
		log.Error().Err(err).Msg("game loop")
		os.Exit(1)
	}
}
