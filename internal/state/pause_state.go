// internal/state/pause_state.go
package state

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"gearspire/internal/ui"
)

var pauseOverlayColor = color.RGBA{0, 0, 0, 150}

// PauseState замораживает партию и рисует её под затемнением
type PauseState struct {
	sm   *StateMachine
	game *GameState
}

func NewPauseState(sm *StateMachine, gs *GameState) *PauseState {
	return &PauseState{sm: sm, game: gs}
}

func (p *PauseState) Enter() {
	p.game.game.SetPaused(true)
	p.game.pauseBtn.TogglePause()
}

func (p *PauseState) Update(deltaTime float64) {
	p.handleInput(readInput())
}

func (p *PauseState) handleInput(in frameInput) {
	switch {
	case in.pressed(ebiten.KeyP), in.pressed(ebiten.KeyEscape), in.pressed(ebiten.KeySpace):
		p.sm.SetState(p.game)
	case in.left && p.game.pauseBtn.IsClicked(in.mouseX, in.mouseY):
		p.sm.SetState(p.game)
	case in.pressed(ebiten.KeyQ):
		p.sm.SetState(NewMenuState(p.sm, p.game.deps, nil))
	}
}

func (p *PauseState) Draw(screen *ebiten.Image) {
	p.game.Draw(screen)
	w, h := float32(p.game.boardW), float32(p.game.boardH)
	vector.DrawFilledRect(screen, 0, 0, w, h, pauseOverlayColor, false)
	ui.DrawTextOutlined(screen, "PAUSED", float64(w/2), float64(h/2-20), color.White, color.Black, 1)
	ui.DrawTextCentered(screen, "P / Esc / Space: resume    Q: quit to title", float64(w/2), float64(h/2+4), color.White)
}

func (p *PauseState) Exit() {
	p.game.game.SetPaused(false)
	p.game.pauseBtn.TogglePause()
}
