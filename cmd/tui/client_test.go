package main

import (
	"context"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearspire/internal/app"
	"gearspire/internal/config"
	"gearspire/internal/defs"
	"gearspire/pkg/gridmap"
)

func newTestClient(t *testing.T) (*client, tcell.SimulationScreen, *app.Runner) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(120, 40)
	t.Cleanup(screen.Fini)

	opts := app.DefaultOptions()
	opts.Seed = 11
	runner := app.NewRunner(app.NewGame(opts, zerolog.Nop()), config.TicksPerSecond, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go runner.Run(ctx)

	return newClient(ctx, screen, runner, zerolog.Nop()), screen, runner
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func press(c *client, s string) {
	for _, r := range s {
		c.handleKey(runeKey(r))
	}
}

func TestCursorStaysOnBoard(t *testing.T) {
	c, _, runner := newTestClient(t)
	snap := runner.Snapshot()

	for i, n := 0, snap.Width+5; i < n; i++ {
		c.handleKey(key(tcell.KeyLeft))
	}
	press(c, "kkkkk")
	assert.Equal(t, gridmap.Point{}, c.cursor)

	for i, n := 0, snap.Width+5; i < n; i++ {
		press(c, "l")
	}
	for i, n := 0, snap.Height+5; i < n; i++ {
		c.handleKey(key(tcell.KeyDown))
	}
	assert.Equal(t, gridmap.Point{X: snap.Width - 1, Y: snap.Height - 1}, c.cursor)
}

func TestBuildSelectAndUpgrade(t *testing.T) {
	c, _, runner := newTestClient(t)
	c.cursor = gridmap.Point{X: 5, Y: 3}

	press(c, "2")
	c.handleKey(key(tcell.KeyEnter))
	snap := runner.Snapshot()
	require.Len(t, snap.Towers, 1)
	assert.Equal(t, defs.SteamCannon, snap.Towers[0].Kind)
	assert.Zero(t, c.selected)

	press(c, "b")
	require.Equal(t, snap.Towers[0].ID, c.selected)

	press(c, "u")
	assert.Equal(t, "Upgraded", c.status)
	assert.Equal(t, 2, runner.Snapshot().Towers[0].Level)

	press(c, "s")
	assert.Empty(t, runner.Snapshot().Towers)
	assert.Zero(t, c.selected)
}

func TestActionsNeedSelection(t *testing.T) {
	c, _, _ := newTestClient(t)
	press(c, "u")
	assert.Equal(t, "Select a tower first", c.status)
	press(c, "f")
	assert.Equal(t, "Select a tower first", c.status)
}

func TestRejectedCommandShowsError(t *testing.T) {
	c, _, runner := newTestClient(t)
	c.cursor = runner.Snapshot().Spawn
	press(c, "b")
	assert.Equal(t, app.ErrInvalidPlacement.Error(), c.status)
	assert.Empty(t, runner.Snapshot().Towers)
}

func TestCrateToggle(t *testing.T) {
	c, _, runner := newTestClient(t)
	c.cursor = gridmap.Point{X: 10, Y: 4}

	press(c, "c")
	assert.Equal(t, "Crate placed", c.status)
	press(c, "c")
	assert.Equal(t, "Crate removed", c.status)

	for _, cell := range runner.Snapshot().Cells {
		assert.False(t, cell.X == 10 && cell.Y == 4 && cell.Type == gridmap.CellCrate.String())
	}
}

func TestFuseThreeTowers(t *testing.T) {
	c, _, runner := newTestClient(t)
	press(c, "3")
	for x := 5; x <= 7; x++ {
		c.cursor = gridmap.Point{X: x, Y: 3}
		press(c, "b") // строим
		press(c, "b") // выделяем
		press(c, "f")
	}
	require.Len(t, c.fusion, 3)

	press(c, "F")
	snap := runner.Snapshot()
	require.Len(t, snap.Towers, 1)
	assert.Equal(t, 2, snap.Towers[0].Tier)
	assert.Equal(t, snap.Towers[0].ID, c.selected)
	assert.Empty(t, c.fusion)
}

func TestWavePauseAndRestart(t *testing.T) {
	c, _, runner := newTestClient(t)

	press(c, " ")
	assert.Equal(t, "Wave started", c.status)
	assert.True(t, runner.Snapshot().WaveInProgress)
	press(c, " ")
	assert.Equal(t, "Wave already running", c.status)

	press(c, "p")
	assert.True(t, runner.Snapshot().Paused)
	press(c, "p")
	assert.False(t, runner.Snapshot().Paused)

	press(c, "R")
	snap := runner.Snapshot()
	assert.False(t, snap.WaveInProgress)
	assert.Zero(t, snap.Wave)
}

func TestQuitKeys(t *testing.T) {
	c, _, _ := newTestClient(t)
	assert.True(t, c.handleKey(runeKey('h')))
	assert.False(t, c.handleKey(runeKey('q')))
	assert.False(t, c.handleKey(key(tcell.KeyEscape)))
	assert.False(t, c.handleKey(key(tcell.KeyCtrlC)))
}

func TestDrawBoardAndHUD(t *testing.T) {
	c, screen, runner := newTestClient(t)
	c.cursor = gridmap.Point{X: 5, Y: 3}
	press(c, "4b")

	snap := runner.Snapshot()
	c.draw(snap)

	r, _, _, _ := screen.GetContent(5*cellWidth, 3)
	assert.Equal(t, 'F', r)
	r, _, _, _ = screen.GetContent(5*cellWidth+1, 3)
	assert.Equal(t, '1', r)

	r, _, _, _ = screen.GetContent(snap.Spawn.X*cellWidth, snap.Spawn.Y)
	assert.Equal(t, '>', r)
	r, _, _, _ = screen.GetContent(snap.Goal.X*cellWidth, snap.Goal.Y)
	assert.Equal(t, '#', r)

	_, _, style, _ := screen.GetContent(c.cursor.X*cellWidth, c.cursor.Y)
	assert.Equal(t, towerStyles[defs.FrostCondenser].Reverse(true), style, "cursor cell is reversed")

	line := make([]rune, 0, 5)
	for x := 0; x < 5; x++ {
		r, _, _, _ := screen.GetContent(x, snap.Height+1)
		line = append(line, r)
	}
	assert.Equal(t, "Lives", string(line))
}
