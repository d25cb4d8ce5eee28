// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"gearspire/internal/api"
	"gearspire/internal/app"
	"gearspire/internal/config"
	"gearspire/internal/defs"
	"gearspire/internal/logging"
	"gearspire/internal/metrics"
	"gearspire/internal/storage"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configDir := flag.String("config", ".", "directory with gearspire.{yaml,json,toml}")
	autosaveEvery := flag.Duration("autosave", time.Minute, "autosave interval, 0 disables")
	resume := flag.Bool("resume", false, "restore the autosave slot on start")
	flag.Parse()

	settings, err := config.Load(*configDir)
	if err != nil {
		bootLog := logging.New("info", true)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logging.New(settings.LogLevel, settings.LogPretty)

	if err := run(settings, *autosaveEvery, *resume, log); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func run(settings *config.Settings, autosaveEvery time.Duration, resume bool, log zerolog.Logger) error {
	towers, enemies, err := defs.LoadOverrides(settings.Defs.TowersFile, settings.Defs.EnemiesFile)
	if err != nil {
		return err
	}
	if towers+enemies > 0 {
		log.Info().Int("towers", towers).Int("enemies", enemies).Msg("definition overrides loaded")
	}

	store, err := storage.Open(settings.Storage, log)
	if err != nil {
		return err
	}
	defer store.Close()

	game := app.NewGame(app.OptionsFromSettings(settings), log)
	m := metrics.New()
	m.Subscribe(game.EventDispatcher)

	runner := app.NewRunner(game, config.TicksPerSecond, log)
	runner.OnTick(m.ObserveTick)

	// раннер живёт дольше HTTP-сервера, чтобы успеть сделать финальное сохранение
	simCtx, stopSim := context.WithCancel(context.Background())
	defer stopSim()
	simDone := make(chan error, 1)
	go func() { simDone <- runner.Run(simCtx) }()

	if resume {
		if err := api.LoadGame(simCtx, runner, store, api.AutosaveSlot); err != nil {
			log.Warn().Err(err).Msg("resume failed, starting fresh")
		} else {
			log.Info().Int("wave", runner.Snapshot().Wave).Msg("resumed from autosave")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := api.NewIPRateLimiter(api.RateLimitConfig{
		RequestsPerSecond: settings.HTTP.RequestsPerSecond,
		Burst:             settings.HTTP.Burst,
	})
	hub := api.NewHub(settings.HTTP.CORSOrigins, m, log)
	router := api.NewRouter(api.RouterConfig{
		Runner:      runner,
		Store:       store,
		Metrics:     m,
		Hub:         hub,
		RateLimiter: limiter,
		CORSOrigins: settings.HTTP.CORSOrigins,
		Log:         log,
	})

	go hub.BroadcastLoop(ctx, runner, settings.HTTP.SnapshotHz)
	go api.AutosaveLoop(ctx, runner, store, autosaveEvery, log)
	go cleanupLoop(ctx, limiter, api.DefaultRateLimitConfig.CleanupInterval)

	srv := &http.Server{
		Addr:              settings.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case err := <-simDone:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	if autosaveEvery > 0 && !runner.Snapshot().GameOver {
		if _, err := api.SaveGame(shutdownCtx, runner, store, api.AutosaveSlot); err != nil {
			log.Error().Err(err).Msg("final autosave failed")
		} else {
			log.Info().Msg("final autosave written")
		}
	}

	stopSim()
	if err := <-simDone; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Int64("tick", runner.Snapshot().Tick).Msg("bye")
	return nil
}

func cleanupLoop(ctx context.Context, limiter *api.IPRateLimiter, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Cleanup()
		}
	}
}
