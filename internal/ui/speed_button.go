// internal/ui/speed_button.go
package ui

import (
	"image/color"
	"math"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// SpeedMultipliers — множители скорости симуляции по состояниям кнопки
var SpeedMultipliers = []int{1, 2, 4}

// SpeedButton — кнопка скорости, переключает множитель по кругу
type SpeedButton struct {
	X, Y          float32
	Size          float32
	LastClickTime time.Time
	StateColors   []color.RGBA
	CurrentState  int
}

func NewSpeedButton(x, y, size float32, stateColors []color.RGBA) *SpeedButton {
	return &SpeedButton{
		X:           x,
		Y:           y,
		Size:        size,
		StateColors: stateColors,
	}
}

func (b *SpeedButton) Draw(screen *ebiten.Image) {
	elapsed := time.Since(b.LastClickTime).Seconds()
	scale := 1.0 + 0.3*math.Exp(-elapsed*8)
	size := b.Size * float32(scale)

	c := b.StateColors[b.CurrentState%len(b.StateColors)]

	height := size * 1.2
	width := size
	offset := width * 0.8

	left := triangle(b.X-width, b.Y-height/2, b.X, b.Y, b.X-width, b.Y+height/2)
	fillPath(screen, left, c)
	strokePath(screen, left, 1, color.White)

	right := triangle(b.X-width+offset, b.Y-height/2, b.X+offset, b.Y, b.X-width+offset, b.Y+height/2)
	fillPath(screen, right, c)
	strokePath(screen, right, 1, color.White)

	DrawTextCentered(screen, strconv.Itoa(b.Multiplier())+"x", float64(b.X), float64(b.Y+height/2+8), color.White)
}

// IsClicked использует круг, так как форма сложная
func (b *SpeedButton) IsClicked(x, y int) bool {
	return inCircle(x, y, b.X, b.Y, b.Size*1.5)
}

func (b *SpeedButton) ToggleState() {
	b.CurrentState = (b.CurrentState + 1) % len(SpeedMultipliers)
	b.LastClickTime = time.Now()
}

// Multiplier returns how many ticks run per frame step.
func (b *SpeedButton) Multiplier() int {
	return SpeedMultipliers[b.CurrentState%len(SpeedMultipliers)]
}
