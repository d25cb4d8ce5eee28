// internal/ui/pause_button.go
package ui

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// PauseButton — круглая кнопка паузы с анимацией клика
type PauseButton struct {
	X, Y          float32
	Size          float32
	LastClickTime time.Time
	IsPaused      bool
	PauseColor    color.Color
	PlayColor     color.Color
}

func NewPauseButton(x, y, size float32, pauseColor, playColor color.Color) *PauseButton {
	return &PauseButton{
		X:          x,
		Y:          y,
		Size:       size,
		PauseColor: pauseColor,
		PlayColor:  playColor,
	}
}

func (b *PauseButton) Draw(screen *ebiten.Image) {
	elapsed := time.Since(b.LastClickTime).Seconds()
	scale := 1.0 + 0.3*math.Exp(-elapsed*8)
	s := b.Size * float32(scale)

	if b.IsPaused {
		// Треугольник (play)
		p := triangle(b.X-s*0.8, b.Y-s, b.X-s*0.8, b.Y+s, b.X+s, b.Y)
		fillPath(screen, p, b.PlayColor)
		strokePath(screen, p, 1, color.White)
		return
	}

	// Два прямоугольника (pause)
	width := s * 0.6
	height := s * 2.0
	spacing := s * 0.4
	vector.DrawFilledRect(screen, b.X-width-spacing/2, b.Y-height/2, width, height, b.PauseColor, false)
	vector.StrokeRect(screen, b.X-width-spacing/2, b.Y-height/2, width, height, 1, color.White, false)
	vector.DrawFilledRect(screen, b.X+spacing/2, b.Y-height/2, width, height, b.PauseColor, false)
	vector.StrokeRect(screen, b.X+spacing/2, b.Y-height/2, width, height, 1, color.White, false)
}

func (b *PauseButton) IsClicked(x, y int) bool {
	return inCircle(x, y, b.X, b.Y, b.Size*1.2)
}

func (b *PauseButton) TogglePause() {
	b.IsPaused = !b.IsPaused
	b.LastClickTime = time.Now()
}

func (b *PauseButton) SetPaused(paused bool) {
	b.IsPaused = paused
}

func inCircle(x, y int, cx, cy, r float32) bool {
	dx, dy := float32(x)-cx, float32(y)-cy
	return dx*dx+dy*dy <= r*r
}
