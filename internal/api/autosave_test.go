package api

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearspire/internal/app"
	"gearspire/internal/defs"
	"gearspire/internal/storage"
)

func TestAutosaveLoopWritesSlot(t *testing.T) {
	g := app.NewGame(app.DefaultOptions(), zerolog.Nop())
	runner := app.NewRunner(g, 120, zerolog.Nop())
	store, err := storage.NewFileStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runner.Run(ctx)

	_, err = runner.Do(ctx, func(g *app.Game) (any, error) {
		return g.PlaceTower(4, 4, defs.SteamCannon)
	})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		AutosaveLoop(ctx, runner, store, 20*time.Millisecond, zerolog.Nop())
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, err := store.Load(context.Background(), AutosaveSlot)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	st, err := store.Load(context.Background(), AutosaveSlot)
	require.NoError(t, err)
	require.Len(t, st.Towers, 1)
	assert.Equal(t, g.SessionID, st.SessionID)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("autosave loop did not stop")
	}
}

func TestSaveAndLoadGame(t *testing.T) {
	g := app.NewGame(app.DefaultOptions(), zerolog.Nop())
	runner := app.NewRunner(g, 120, zerolog.Nop())
	store, err := storage.NewFileStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runner.Run(ctx)

	_, err = SaveGame(ctx, runner, store, "../escape")
	assert.ErrorIs(t, err, storage.ErrInvalidSlot)

	_, err = runner.Do(ctx, func(g *app.Game) (any, error) {
		return g.PlaceTower(6, 2, defs.FrostCondenser)
	})
	require.NoError(t, err)
	st, err := SaveGame(ctx, runner, store, "slot1")
	require.NoError(t, err)
	assert.Len(t, st.Towers, 1)

	_, err = runner.Do(ctx, func(g *app.Game) (any, error) {
		g.Restart()
		return nil, nil
	})
	require.NoError(t, err)
	assert.Empty(t, runner.Snapshot().Towers)

	require.NoError(t, LoadGame(ctx, runner, store, "slot1"))
	snap := runner.Snapshot()
	require.Len(t, snap.Towers, 1)
	assert.Equal(t, defs.FrostCondenser, snap.Towers[0].Kind)

	assert.ErrorIs(t, LoadGame(ctx, runner, store, "missing"), storage.ErrNotFound)
}
