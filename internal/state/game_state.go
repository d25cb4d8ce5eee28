// internal/state/game_state.go
package state

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"

	"gearspire/internal/app"
	"gearspire/internal/config"
	"gearspire/internal/event"
	"gearspire/internal/storage"
	"gearspire/internal/types"
	"gearspire/internal/ui"
	"gearspire/pkg/gridmap"
	"gearspire/pkg/render"
)

const (
	// QuickSaveSlot — слот для F5/F9
	QuickSaveSlot = "quick"

	maxStepsPerFrame = 16
	messageDuration  = 2 * time.Second
	storeTimeout     = 3 * time.Second
)

var (
	hudColor     = color.RGBA{28, 30, 38, 255}
	messageColor = color.RGBA{255, 230, 140, 255}
	kindKeys     = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5}
)

// frameInput — ввод за один кадр, собранный до обработки
type frameInput struct {
	mouseX, mouseY int
	left, right    bool
	shift          bool
	keys           []ebiten.Key
}

func (in frameInput) pressed(k ebiten.Key) bool {
	return slices.Contains(in.keys, k)
}

func readInput() frameInput {
	mx, my := ebiten.CursorPosition()
	return frameInput{
		mouseX: mx,
		mouseY: my,
		left:   inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		right:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight),
		shift:  ebiten.IsKeyPressed(ebiten.KeyShift),
		keys:   inpututil.AppendJustPressedKeys(nil),
	}
}

// GameState — основное игровое состояние: ввод, шаг симуляции, отрисовка
type GameState struct {
	sm   *StateMachine
	deps Deps
	game *app.Game
	log  zerolog.Logger

	renderer    *render.BoardRenderer
	snap        app.Snapshot
	boardW      int
	boardH      int
	maxLives    int
	accumulator float64

	toolbar   *ui.Toolbar
	panel     *ui.InfoPanel
	lives     *ui.LivesIndicator
	wave      *ui.WaveIndicator
	indicator *ui.StateIndicator
	speedBtn  *ui.SpeedButton
	pauseBtn  *ui.PauseButton

	selected     types.EntityID
	fusion       []types.EntityID
	hover        gridmap.Point
	hoverOn      bool
	mouseX       int
	mouseY       int
	message      string
	messageUntil time.Time
	result       *event.GameOverData
}

// NewGameState starts a fresh game.
func NewGameState(sm *StateMachine, deps Deps) *GameState {
	return newGameStateFor(sm, deps, app.NewGame(deps.Options, deps.Log))
}

func newGameStateFor(sm *StateMachine, deps Deps, g *app.Game) *GameState {
	gs := &GameState{
		sm:       sm,
		deps:     deps,
		game:     g,
		log:      deps.Log.With().Str("component", "client").Logger(),
		renderer: render.NewBoardRenderer(render.DefaultBoardColors()),
		maxLives: max(deps.Options.Lives, g.Lives),
	}
	gs.snap = g.Snapshot()
	gs.boardW, gs.boardH = render.BoardSize(&gs.snap)

	y0 := gs.boardH
	w := float32(gs.boardW)
	gs.lives = ui.NewLivesIndicator(10, float32(y0+12))
	gs.toolbar = ui.NewToolbar(230, y0+13)
	gs.panel = ui.NewInfoPanel(gs.boardW)
	gs.wave = ui.NewWaveIndicator(float64(w-200), float64(y0+30))
	gs.indicator = ui.NewStateIndicator(w-140, float32(y0+30), 12)
	gs.speedBtn = ui.NewSpeedButton(w-90, float32(y0+26), 10, []color.RGBA{
		{120, 200, 120, 255}, {230, 200, 80, 255}, {230, 110, 60, 255},
	})
	gs.pauseBtn = ui.NewPauseButton(w-35, float32(y0+30), 10, color.RGBA{200, 200, 200, 255}, ui.IdleWaveColor)

	d := g.EventDispatcher
	d.Subscribe(event.WaveCompleted, event.ListenerFunc(func(e event.Event) {
		if data, ok := e.Data.(event.WaveData); ok {
			gs.flash(fmt.Sprintf("Wave %d cleared", data.Wave))
		}
	}))
	d.Subscribe(event.TowerRemoved, event.ListenerFunc(func(e event.Event) {
		if data, ok := e.Data.(event.TowerData); ok {
			gs.forget(data.TowerID)
		}
	}))
	d.Subscribe(event.GameOver, event.ListenerFunc(func(e event.Event) {
		if data, ok := e.Data.(event.GameOverData); ok {
			gs.result = &data
		}
	}))
	return gs
}

// Game exposes the simulation driven by this state.
func (gs *GameState) Game() *app.Game { return gs.game }

func (gs *GameState) Enter() {
	gs.accumulator = 0
}

func (gs *GameState) Exit() {}

func (gs *GameState) Update(deltaTime float64) {
	gs.handleInput(readInput())
	if gs.sm.Current() != gs {
		return
	}
	gs.advance(deltaTime)
}

// advance runs fixed ticks for the elapsed time scaled by the speed button.
func (gs *GameState) advance(deltaTime float64) {
	step := 1.0 / float64(config.TicksPerSecond)
	gs.accumulator += deltaTime * float64(gs.speedBtn.Multiplier())
	n := 0
	for gs.accumulator >= step && n < maxStepsPerFrame {
		gs.game.Update()
		gs.accumulator -= step
		n++
	}
	if n == maxStepsPerFrame {
		gs.accumulator = 0
	}
	gs.refresh()
	if gs.game.IsGameOver() {
		result := gs.result
		if result == nil {
			result = &event.GameOverData{Score: gs.game.Score, Wave: gs.snap.Wave}
		}
		gs.sm.SetState(NewMenuState(gs.sm, gs.deps, result))
	}
}

func (gs *GameState) refresh() {
	gs.snap = gs.game.Snapshot()
}

func (gs *GameState) handleInput(in frameInput) {
	gs.mouseX, gs.mouseY = in.mouseX, in.mouseY
	gs.hover, gs.hoverOn = gs.boardCell(in.mouseX, in.mouseY)
	defer gs.refresh()

	if in.pressed(ebiten.KeyP) || (in.pressed(ebiten.KeyEscape) && gs.selected == 0) {
		gs.openPause()
		return
	}
	if in.pressed(ebiten.KeyEscape) {
		gs.deselect()
	}
	for i, k := range kindKeys {
		if in.pressed(k) {
			gs.toolbar.Select(i)
		}
	}
	switch {
	case in.pressed(ebiten.KeyC):
		gs.toolbar.ToggleCrateMode()
	case in.pressed(ebiten.KeySpace):
		gs.startWave()
	case in.pressed(ebiten.KeyU):
		gs.upgradeSelected()
	case in.pressed(ebiten.KeyS):
		gs.sellSelected()
	case in.pressed(ebiten.KeyT):
		gs.cycleTargeting()
	case in.pressed(ebiten.KeyF):
		gs.toggleFusion(gs.selected)
	case in.pressed(ebiten.KeyEnter):
		gs.fuse()
	case in.pressed(ebiten.KeyX):
		gs.placeRandom()
	case in.pressed(ebiten.KeyN):
		gs.restart()
	case in.pressed(ebiten.KeyF5):
		gs.quickSave()
	case in.pressed(ebiten.KeyF9):
		gs.quickLoad()
	}

	if action := gs.panel.Update(in.mouseX, in.mouseY, in.left); action != ui.PanelNone {
		gs.applyPanel(action)
		return
	}
	if gs.panel.Contains(in.mouseX, in.mouseY) {
		return
	}
	if gs.toolbar.Update(in.mouseX, in.mouseY, in.left) {
		return
	}
	if in.left {
		switch {
		case gs.pauseBtn.IsClicked(in.mouseX, in.mouseY):
			gs.openPause()
			return
		case gs.speedBtn.IsClicked(in.mouseX, in.mouseY):
			gs.speedBtn.ToggleState()
			return
		case gs.indicator.IsClicked(in.mouseX, in.mouseY):
			gs.indicator.HandleClick()
			gs.startWave()
			return
		}
	}
	if !gs.hoverOn {
		return
	}
	if in.left {
		gs.clickCell(gs.hover, in.shift)
	} else if in.right {
		gs.rightClickCell(gs.hover)
	}
}

func (gs *GameState) boardCell(x, y int) (gridmap.Point, bool) {
	if y >= gs.boardH || x >= gs.boardW {
		return gridmap.Point{}, false
	}
	return render.CellAt(&gs.snap, x, y)
}

func (gs *GameState) clickCell(cell gridmap.Point, shift bool) {
	if t := gs.game.TowerAt(cell.X, cell.Y); t != nil {
		if shift {
			gs.toggleFusion(t.ID)
		} else {
			gs.selectTower(t.ID)
		}
		return
	}
	if gs.toolbar.CrateMode {
		gs.report(gs.game.PlaceCrate(cell.X, cell.Y))
		return
	}
	t, err := gs.game.PlaceTower(cell.X, cell.Y, gs.toolbar.Selected)
	if err != nil {
		gs.report(err)
		return
	}
	gs.log.Debug().Uint64("id", uint64(t.ID)).Str("kind", string(t.Kind)).Msg("tower placed")
}

func (gs *GameState) rightClickCell(cell gridmap.Point) {
	if c, ok := gs.game.Grid.GetCell(cell.X, cell.Y); ok && c.Type == gridmap.CellCrate {
		gs.report(gs.game.RemoveCrate(cell.X, cell.Y))
		return
	}
	gs.deselect()
}

func (gs *GameState) placeRandom() {
	if !gs.hoverOn {
		return
	}
	t, err := gs.game.PlaceRandomTower(gs.hover.X, gs.hover.Y)
	if err != nil {
		gs.report(err)
		return
	}
	gs.flash(t.Name())
}

func (gs *GameState) applyPanel(a ui.PanelAction) {
	switch a {
	case ui.PanelUpgrade:
		gs.upgradeSelected()
	case ui.PanelSell:
		gs.sellSelected()
	case ui.PanelTargeting:
		gs.cycleTargeting()
	case ui.PanelFuse:
		gs.toggleFusion(gs.selected)
	}
}

func (gs *GameState) selectTower(id types.EntityID) {
	gs.selected = id
	gs.panel.SetTarget(id)
}

func (gs *GameState) deselect() {
	gs.selected = 0
	gs.panel.Hide()
}

// forget drops a removed tower from the selection and the fusion queue.
func (gs *GameState) forget(id types.EntityID) {
	if gs.selected == id {
		gs.deselect()
	}
	gs.fusion = slices.DeleteFunc(gs.fusion, func(f types.EntityID) bool { return f == id })
}

func (gs *GameState) startWave() {
	if gs.game.IsGameOver() {
		return
	}
	if !gs.game.StartWave() {
		gs.flash("Wave already running")
		return
	}
	gs.flash(fmt.Sprintf("Wave %d", gs.game.WaveSystem.CurrentWave()))
}

func (gs *GameState) upgradeSelected() {
	if gs.selected == 0 {
		return
	}
	gs.report(gs.game.UpgradeTower(gs.selected))
}

func (gs *GameState) sellSelected() {
	if gs.selected == 0 {
		return
	}
	refund, err := gs.game.SellTower(gs.selected)
	if err != nil {
		gs.report(err)
		return
	}
	gs.flash(fmt.Sprintf("+%d gold", refund))
}

func (gs *GameState) cycleTargeting() {
	if gs.selected == 0 {
		return
	}
	mode, err := gs.game.CycleTargetingMode(gs.selected)
	if err != nil {
		gs.report(err)
		return
	}
	gs.flash("Targeting: " + string(mode))
}

func (gs *GameState) toggleFusion(id types.EntityID) {
	if id == 0 {
		return
	}
	if i := slices.Index(gs.fusion, id); i >= 0 {
		gs.fusion = slices.Delete(gs.fusion, i, i+1)
		return
	}
	if len(gs.fusion) >= config.FusionMaxTowers {
		gs.flash(fmt.Sprintf("At most %d towers fuse", config.FusionMaxTowers))
		return
	}
	gs.fusion = append(gs.fusion, id)
	if len(gs.fusion) >= config.FusionMinTowers {
		gs.flash(fmt.Sprintf("Enter: fuse %d towers", len(gs.fusion)))
	}
}

func (gs *GameState) fuse() {
	if len(gs.fusion) < config.FusionMinTowers {
		gs.flash(fmt.Sprintf("Mark %d-%d towers with F", config.FusionMinTowers, config.FusionMaxTowers))
		return
	}
	t, err := gs.game.CombineTowers(slices.Clone(gs.fusion))
	if err != nil {
		gs.report(err)
		return
	}
	gs.fusion = nil
	gs.selectTower(t.ID)
	gs.flash(fmt.Sprintf("%s tier %d", t.Name(), t.Tier))
}

func (gs *GameState) restart() {
	gs.game.Restart()
	gs.deselect()
	gs.fusion = nil
	gs.result = nil
	gs.flash("Restarted")
}

func (gs *GameState) quickSave() {
	if gs.deps.Store == nil {
		gs.flash("Saves are disabled")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := gs.deps.Store.Save(ctx, QuickSaveSlot, gs.game.Capture()); err != nil {
		gs.log.Error().Err(err).Msg("quick save failed")
		gs.flash("Save failed")
		return
	}
	gs.flash("Saved")
}

func (gs *GameState) quickLoad() {
	if gs.deps.Store == nil {
		gs.flash("Saves are disabled")
		return
	}
	if err := loadInto(gs.game, gs.deps.Store); err != nil {
		gs.log.Warn().Err(err).Msg("quick load failed")
		if errors.Is(err, storage.ErrNotFound) {
			gs.flash("No quick save")
		} else {
			gs.flash("Load failed")
		}
		return
	}
	gs.deselect()
	gs.fusion = nil
	gs.flash("Loaded")
}

func loadInto(g *app.Game, store storage.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	st, err := store.Load(ctx, QuickSaveSlot)
	if err != nil {
		return err
	}
	return g.Restore(st)
}

func (gs *GameState) openPause() {
	gs.sm.SetState(NewPauseState(gs.sm, gs))
}

// report flashes err, if any, as a short message.
func (gs *GameState) report(err error) {
	if err == nil {
		return
	}
	gs.log.Debug().Err(err).Msg("action rejected")
	gs.flash(err.Error())
}

func (gs *GameState) flash(msg string) {
	gs.message = msg
	gs.messageUntil = time.Now().Add(messageDuration)
}

func (gs *GameState) Draw(screen *ebiten.Image) {
	screen.Fill(config.BackgroundColor)

	board := screen.SubImage(image.Rect(0, 0, gs.boardW, gs.boardH)).(*ebiten.Image)
	hoverOK := false
	if gs.hoverOn {
		if gs.toolbar.CrateMode {
			hoverOK = gs.game.Grid.CanPlaceCrate(gs.hover.X, gs.hover.Y)
		} else {
			hoverOK = gs.game.CanPlaceTower(gs.hover.X, gs.hover.Y)
		}
	}
	gs.renderer.Draw(board, &gs.snap, render.Highlight{
		Selected: gs.selected,
		Fusion:   gs.fusion,
		Hover:    gs.hover,
		HoverOn:  gs.hoverOn,
		HoverOK:  hoverOK,
	})
	gs.panel.Draw(screen, &gs.snap, slices.Contains(gs.fusion, gs.selected), gs.mouseX, gs.mouseY)

	if gs.message != "" && time.Now().Before(gs.messageUntil) {
		ui.DrawText(screen, gs.message, 9, 9, color.Black)
		ui.DrawText(screen, gs.message, 8, 8, messageColor)
	}
	gs.drawHUD(screen)
}

func (gs *GameState) drawHUD(screen *ebiten.Image) {
	y0 := float32(gs.boardH)
	vector.DrawFilledRect(screen, 0, y0, float32(gs.boardW), config.HUDHeight, hudColor, false)

	gs.lives.Draw(screen, gs.snap.Lives, gs.maxLives)
	gs.toolbar.Draw(screen, gs.mouseX, gs.mouseY)

	x := float64(gs.toolbar.CrateButton.Rect.Max.X + 14)
	ui.DrawText(screen, fmt.Sprintf("Gold  %d", gs.snap.Gold), x, float64(y0+6), config.TextColor)
	ui.DrawText(screen, fmt.Sprintf("Score %d", gs.snap.Score), x, float64(y0+22), config.TextColor)
	ui.DrawText(screen, fmt.Sprintf("Build %d/%d", gs.snap.TowersPlacedThisRound, gs.snap.MaxTowersPerRound), x, float64(y0+38), config.TextColor)

	gs.wave.Draw(screen, gs.snap.Wave)
	gs.indicator.Draw(screen, gs.snap.WaveInProgress, gs.snap.WaveProgress)
	gs.speedBtn.Draw(screen)
	gs.pauseBtn.Draw(screen)
}
