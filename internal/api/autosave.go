// internal/api/autosave.go
package api

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"gearspire/internal/app"
	"gearspire/internal/interfaces"
	"gearspire/internal/save"
	"gearspire/internal/storage"
)

// AutosaveSlot — слот периодического сохранения сервера
const AutosaveSlot = "autosave"

// SaveGame captures the running game between ticks and writes it to slot.
func SaveGame(ctx context.Context, runner interfaces.GameRunner, store storage.Store, slot string) (*save.SaveState, error) {
	if err := storage.ValidateSlot(slot); err != nil {
		return nil, err
	}
	v, err := runner.Do(ctx, func(g *app.Game) (any, error) {
		return g.Capture(), nil
	})
	if err != nil {
		return nil, err
	}
	st := v.(*save.SaveState)
	if err := store.Save(ctx, slot, st); err != nil {
		return nil, err
	}
	return st, nil
}

// LoadGame reads slot and restores it into the running game.
func LoadGame(ctx context.Context, runner interfaces.GameRunner, store storage.Store, slot string) error {
	st, err := store.Load(ctx, slot)
	if err != nil {
		return err
	}
	_, err = runner.Do(ctx, func(g *app.Game) (any, error) {
		return nil, g.Restore(st)
	})
	return err
}

// AutosaveLoop saves to AutosaveSlot every interval until ctx ends.
// Nothing is written while the game is over.
func AutosaveLoop(ctx context.Context, runner interfaces.GameRunner, store storage.Store, every time.Duration, log zerolog.Logger) {
	if every <= 0 {
		return
	}
	log = log.With().Str("component", "autosave").Logger()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if runner.Snapshot().GameOver {
				continue
			}
			saveCtx, cancel := context.WithTimeout(ctx, commandTimeout)
			st, err := SaveGame(saveCtx, runner, store, AutosaveSlot)
			cancel()
			switch {
			case errors.Is(err, context.Canceled), errors.Is(err, app.ErrRunnerStopped):
				return
			case err != nil:
				log.Error().Err(err).Msg("autosave failed")
			default:
				log.Debug().Int64("tick", st.Tick).Int("wave", st.Wave.Current).Msg("autosaved")
			}
		}
	}
}
