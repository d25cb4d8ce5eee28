package state

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearspire/internal/app"
	"gearspire/internal/defs"
	"gearspire/internal/storage"
	"gearspire/pkg/gridmap"
)

func newTestState(t *testing.T) (*StateMachine, *GameState) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	opts := app.DefaultOptions()
	opts.Seed = 7
	deps := Deps{Options: opts, Store: store, Log: zerolog.Nop()}

	sm := NewStateMachine()
	gs := NewGameState(sm, deps)
	sm.SetState(gs)
	return sm, gs
}

func at(gs *GameState, x, y int) (int, int) {
	ts := gs.snap.TileSize
	return int(float64(x)*ts + ts/2), int(float64(y)*ts + ts/2)
}

func click(gs *GameState, x, y int) frameInput {
	mx, my := at(gs, x, y)
	return frameInput{mouseX: mx, mouseY: my, left: true}
}

func keys(k ...ebiten.Key) frameInput {
	return frameInput{keys: k}
}

func TestDepsScreenSize(t *testing.T) {
	w, h := Deps{Options: app.DefaultOptions()}.ScreenSize()
	assert.Equal(t, 1120, w)
	assert.Equal(t, 740, h)
}

func TestClickPlacesSelectedKind(t *testing.T) {
	_, gs := newTestState(t)

	gs.handleInput(keys(ebiten.Key3))
	gs.handleInput(click(gs, 5, 3))

	tower := gs.game.TowerAt(5, 3)
	require.NotNil(t, tower)
	assert.Equal(t, defs.TeslaCoil, tower.Kind)
	assert.Len(t, gs.snap.Towers, 1)
	assert.Zero(t, gs.selected, "placing does not select")

	// клик по башне выделяет её
	gs.handleInput(click(gs, 5, 3))
	assert.Equal(t, tower.ID, gs.selected)
	assert.Equal(t, tower.ID, gs.panel.TargetEntity)

	// повторная постройка на спавне отклоняется сообщением
	gs.handleInput(click(gs, gs.snap.Spawn.X, gs.snap.Spawn.Y))
	assert.Len(t, gs.snap.Towers, 1)
	assert.Equal(t, app.ErrInvalidPlacement.Error(), gs.message)
}

func TestKeyboardTowerActions(t *testing.T) {
	_, gs := newTestState(t)
	gs.handleInput(click(gs, 5, 3))
	gs.handleInput(click(gs, 5, 3))
	require.NotZero(t, gs.selected)

	cost := gs.snap.Towers[0].UpgradeCost
	gold := gs.game.Gold
	gs.handleInput(keys(ebiten.KeyU))
	assert.Equal(t, gold-cost, gs.game.Gold)
	assert.Equal(t, 2, gs.snap.Towers[0].Level)

	mode := gs.snap.Towers[0].TargetingMode
	gs.handleInput(keys(ebiten.KeyT))
	assert.Equal(t, mode.Next(), gs.snap.Towers[0].TargetingMode)

	gs.handleInput(keys(ebiten.KeyS))
	assert.Empty(t, gs.snap.Towers)
	assert.Zero(t, gs.selected, "sold tower is deselected")
}

func TestCrateMode(t *testing.T) {
	_, gs := newTestState(t)

	gs.handleInput(keys(ebiten.KeyC))
	require.True(t, gs.toolbar.CrateMode)
	gs.handleInput(click(gs, 10, 4))
	c, ok := gs.game.Grid.GetCell(10, 4)
	require.True(t, ok)
	assert.Equal(t, gridmap.CellCrate, c.Type)

	in := click(gs, 10, 4)
	in.left, in.right = false, true
	gs.handleInput(in)
	c, _ = gs.game.Grid.GetCell(10, 4)
	assert.Equal(t, gridmap.CellEmpty, c.Type)
}

func TestShiftClickFusion(t *testing.T) {
	_, gs := newTestState(t)
	gs.handleInput(keys(ebiten.Key3))
	for x := 5; x <= 7; x++ {
		gs.handleInput(click(gs, x, 3))
	}
	require.Len(t, gs.snap.Towers, 3)

	for x := 5; x <= 7; x++ {
		in := click(gs, x, 3)
		in.shift = true
		gs.handleInput(in)
	}
	require.Len(t, gs.fusion, 3)

	// снятие отметки и повторная
	in := click(gs, 7, 3)
	in.shift = true
	gs.handleInput(in)
	assert.Len(t, gs.fusion, 2)
	gs.handleInput(in)
	assert.Len(t, gs.fusion, 3)

	gs.handleInput(keys(ebiten.KeyEnter))
	require.Len(t, gs.snap.Towers, 1)
	assert.Equal(t, 2, gs.snap.Towers[0].Tier)
	assert.Empty(t, gs.fusion)
	assert.Equal(t, gs.snap.Towers[0].ID, gs.selected)
}

func TestFuseNeedsTwoTowers(t *testing.T) {
	_, gs := newTestState(t)
	gs.handleInput(click(gs, 5, 3))
	gs.handleInput(click(gs, 5, 3))
	gs.handleInput(keys(ebiten.KeyF))
	gs.handleInput(keys(ebiten.KeyEnter))
	assert.Len(t, gs.snap.Towers, 1)
	assert.Len(t, gs.fusion, 1)
}

func TestSpaceStartsWaveAndTicksAdvance(t *testing.T) {
	_, gs := newTestState(t)
	gs.handleInput(keys(ebiten.KeySpace))
	assert.True(t, gs.snap.WaveInProgress)
	assert.Equal(t, 1, gs.snap.Wave)

	gs.advance(1.0)
	assert.Equal(t, int64(16), gs.snap.Tick, "one frame runs at most maxStepsPerFrame ticks")
	for i, n := 0, 5; i < n; i++ {
		gs.advance(0.25)
	}
	assert.NotEmpty(t, gs.snap.Creeps)

	gs.speedBtn.ToggleState()
	gs.accumulator = 0
	before := gs.snap.Tick
	gs.advance(0.1)
	assert.InDelta(t, float64(before+12), float64(gs.snap.Tick), 1, "2x speed doubles ticks per frame")
}

func TestPauseStateFreezesAndResumes(t *testing.T) {
	sm, gs := newTestState(t)

	gs.handleInput(keys(ebiten.KeyP))
	pause, ok := sm.Current().(*PauseState)
	require.True(t, ok)
	assert.True(t, gs.game.Paused())
	assert.True(t, gs.pauseBtn.IsPaused)

	pause.handleInput(keys(ebiten.KeyEscape))
	assert.Same(t, gs, sm.Current())
	assert.False(t, gs.game.Paused())
	assert.False(t, gs.pauseBtn.IsPaused)

	gs.handleInput(keys(ebiten.KeyP))
	sm.Current().(*PauseState).handleInput(keys(ebiten.KeyQ))
	_, ok = sm.Current().(*MenuState)
	assert.True(t, ok)
}

func TestGameOverShowsMenu(t *testing.T) {
	sm, gs := newTestState(t)
	gs.game.Score = 340
	gs.game.Lives = 1
	gs.game.LoseLife()

	gs.advance(0.1)
	menu, ok := sm.Current().(*MenuState)
	require.True(t, ok)
	require.NotNil(t, menu.result)
	assert.Equal(t, 340, menu.result.Score)

	menu.handleInput(keys(ebiten.KeySpace))
	next, ok := sm.Current().(*GameState)
	require.True(t, ok)
	assert.NotSame(t, gs, next)
	assert.False(t, next.game.IsGameOver())
}

func TestQuickSaveAndLoad(t *testing.T) {
	sm, gs := newTestState(t)
	gs.handleInput(click(gs, 5, 3))
	gs.handleInput(keys(ebiten.KeyF5))
	assert.Equal(t, "Saved", gs.message)

	gs.handleInput(click(gs, 5, 3))
	gs.handleInput(keys(ebiten.KeyS))
	require.Empty(t, gs.snap.Towers)

	gs.handleInput(keys(ebiten.KeyF9))
	assert.Equal(t, "Loaded", gs.message)
	require.Len(t, gs.snap.Towers, 1)
	assert.Equal(t, gridmap.Point{X: 5, Y: 3}, gs.snap.Towers[0].Cell)

	// загрузка с титульного экрана
	menu := NewMenuState(sm, gs.deps, nil)
	sm.SetState(menu)
	menu.handleInput(keys(ebiten.KeyL))
	loaded, ok := sm.Current().(*GameState)
	require.True(t, ok)
	assert.Len(t, loaded.snap.Towers, 1)
}

func TestRestartClearsSelection(t *testing.T) {
	_, gs := newTestState(t)
	gs.handleInput(click(gs, 5, 3))
	gs.handleInput(click(gs, 5, 3))
	gs.handleInput(keys(ebiten.KeyF))

	gs.handleInput(keys(ebiten.KeyN))
	assert.Empty(t, gs.snap.Towers)
	assert.Zero(t, gs.selected)
	assert.Empty(t, gs.fusion)
}
