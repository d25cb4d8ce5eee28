// internal/state/menu_state.go
package state

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"gearspire/internal/app"
	"gearspire/internal/config"
	"gearspire/internal/event"
	"gearspire/internal/ui"
)

var menuHelp = []string{
	"Left click: build / select    Right click: remove crate",
	"1-5: tower kind    C: crate mode    X: random tower",
	"Space: next wave    U: upgrade    S: sell    T: targeting",
	"F / Shift+click: mark for fusion    Enter: fuse",
	"P: pause    N: restart    F5 / F9: quick save / load",
}

// MenuState — титульный экран и экран конца игры
type MenuState struct {
	sm      *StateMachine
	deps    Deps
	result  *event.GameOverData
	message string
}

// NewMenuState builds the title screen; result is nil unless a game just ended.
func NewMenuState(sm *StateMachine, deps Deps, result *event.GameOverData) *MenuState {
	return &MenuState{sm: sm, deps: deps, result: result}
}

func (m *MenuState) Enter() {}

func (m *MenuState) Update(deltaTime float64) {
	m.handleInput(readInput())
}

func (m *MenuState) handleInput(in frameInput) {
	switch {
	case in.pressed(ebiten.KeySpace), in.pressed(ebiten.KeyEnter), in.left:
		m.sm.SetState(NewGameState(m.sm, m.deps))
	case in.pressed(ebiten.KeyL), in.pressed(ebiten.KeyF9):
		m.load()
	}
}

// load resumes the quick save in a new game.
func (m *MenuState) load() {
	if m.deps.Store == nil {
		m.message = "Saves are disabled"
		return
	}
	g := app.NewGame(m.deps.Options, m.deps.Log)
	if err := loadInto(g, m.deps.Store); err != nil {
		m.deps.Log.Warn().Err(err).Msg("load from menu failed")
		m.message = "No usable quick save"
		return
	}
	m.sm.SetState(newGameStateFor(m.sm, m.deps, g))
}

func (m *MenuState) Draw(screen *ebiten.Image) {
	screen.Fill(config.BackgroundColor)
	w, h := m.deps.ScreenSize()
	cx, y := float64(w)/2, float64(h)/3

	ui.DrawTextOutlined(screen, "GEARSPIRE", cx, y, color.RGBA{230, 180, 40, 255}, color.Black, 1)
	y += 30
	if m.result != nil {
		ui.DrawTextCentered(screen, fmt.Sprintf("Game over on wave %d, score %d", m.result.Wave, m.result.Score), cx, y, config.GoalColor)
		y += 24
	}
	ui.DrawTextCentered(screen, "Space: new game    L: load quick save", cx, y, config.TextColor)
	y += 36
	for _, line := range menuHelp {
		ui.DrawTextCentered(screen, line, cx, y, color.RGBA{160, 160, 170, 255})
		y += 18
	}
	if m.message != "" {
		ui.DrawTextCentered(screen, m.message, cx, y+18, config.GoalColor)
	}
}

func (m *MenuState) Exit() {}
