// internal/ui/indicator.go
package ui

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	IdleWaveColor   = color.RGBA{0, 200, 120, 255}
	ActiveWaveColor = color.RGBA{220, 160, 40, 255}
)

// StateIndicator — кружок состояния волны; клик по нему запускает волну
type StateIndicator struct {
	X, Y          float32
	Radius        float32
	LastClickTime time.Time
}

func NewStateIndicator(x, y, radius float32) *StateIndicator {
	return &StateIndicator{X: x, Y: y, Radius: radius}
}

// Draw fills the indicator with the wave colour and a progress arc while a wave runs.
func (i *StateIndicator) Draw(screen *ebiten.Image, inProgress bool, progress float64) {
	elapsed := time.Since(i.LastClickTime).Seconds()
	r := i.Radius * float32(1.0+0.3*math.Exp(-elapsed*8))

	c := IdleWaveColor
	if inProgress {
		c = ActiveWaveColor
	}
	vector.DrawFilledCircle(screen, i.X, i.Y, r, c, true)
	vector.StrokeCircle(screen, i.X, i.Y, r, 1, color.White, true)

	if inProgress && progress > 0 {
		p := &vector.Path{}
		start := -math.Pi / 2
		p.Arc(i.X, i.Y, r+4, float32(start), float32(start+2*math.Pi*math.Min(progress, 1)), vector.Clockwise)
		strokePath(screen, p, 2, color.White)
	}
}

func (i *StateIndicator) IsClicked(x, y int) bool {
	return inCircle(x, y, i.X, i.Y, i.Radius)
}

func (i *StateIndicator) HandleClick() {
	i.LastClickTime = time.Now()
}
