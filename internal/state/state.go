// internal/state/state.go
package state

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"gearspire/internal/app"
	"gearspire/internal/config"
	"gearspire/internal/storage"
)

// State — интерфейс для всех состояний
type State interface {
	Enter()
	Update(deltaTime float64)
	Draw(screen *ebiten.Image)
	Exit()
}

// Deps — то, что нужно состояниям для создания партии
type Deps struct {
	Options app.Options
	Store   storage.Store // может быть nil, тогда сохранения отключены
	Log     zerolog.Logger
}

// ScreenSize returns the window size for a board built from opts.
func (d Deps) ScreenSize() (int, int) {
	return int(float64(d.Options.Width) * d.Options.TileSize),
		int(float64(d.Options.Height)*d.Options.TileSize) + config.HUDHeight
}

// StateMachine — структура для управления состояниями
type StateMachine struct {
	current State
}

// NewStateMachine создаёт новую машину состояний без начального состояния
func NewStateMachine() *StateMachine {
	return &StateMachine{}
}

// SetState устанавливает новое состояние
func (sm *StateMachine) SetState(newState State) {
	if sm.current != nil {
		sm.current.Exit()
	}
	sm.current = newState
	if sm.current != nil {
		sm.current.Enter()
	}
}

func (sm *StateMachine) Current() State { return sm.current }

// Update обновляет текущее состояние
func (sm *StateMachine) Update(deltaTime float64) {
	if sm.current != nil {
		sm.current.Update(deltaTime)
	}
}

// Draw отрисовывает текущее состояние
func (sm *StateMachine) Draw(screen *ebiten.Image) {
	if sm.current != nil {
		sm.current.Draw(screen)
	}
}
