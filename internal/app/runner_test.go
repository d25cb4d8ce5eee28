package app

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearspire/internal/defs"
)

func TestRunnerStepPublishesSnapshot(t *testing.T) {
	g, _ := newTestGame(t)
	r := NewRunner(g, 60, zerolog.Nop())
	assert.EqualValues(t, 0, r.Snapshot().Tick)

	var hooked int
	r.OnTick(func(*Game, time.Duration) { hooked++ })
	r.Step()
	r.Step()

	assert.EqualValues(t, 2, r.Snapshot().Tick)
	assert.Equal(t, 2, hooked)
}

func TestRunnerDoAppliesCommands(t *testing.T) {
	g, _ := newTestGame(t)
	r := NewRunner(g, 1000, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	v, err := r.Do(context.Background(), func(g *Game) (any, error) {
		tw, err := g.PlaceTower(5, 2, defs.FrostCondenser)
		if err != nil {
			return nil, err
		}
		return tw.ID, nil
	})
	require.NoError(t, err)
	assert.NotZero(t, v)

	// снимок обновляется сразу после команды
	snap := r.Snapshot()
	require.Len(t, snap.Towers, 1)
	assert.Equal(t, defs.FrostCondenser, snap.Towers[0].Kind)

	_, err = r.Do(context.Background(), func(g *Game) (any, error) {
		return g.PlaceTower(5, 2, defs.FrostCondenser)
	})
	assert.ErrorIs(t, err, ErrInvalidPlacement)

	require.Eventually(t, func() bool { return r.Snapshot().Tick > 5 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	_, err = r.Do(context.Background(), func(*Game) (any, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrRunnerStopped)
}

func TestRunnerDoHonoursContext(t *testing.T) {
	g, _ := newTestGame(t)
	r := NewRunner(g, 60, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := r.Do(ctx, func(*Game) (any, error) { return nil, nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
