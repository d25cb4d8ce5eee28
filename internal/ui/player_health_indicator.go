// internal/ui/player_health_indicator.go
package ui

import (
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	LivesCols          = 10
	LivesCircleRadius  = 6.0
	LivesCircleSpacing = 3.0
)

var (
	LivesHighColor  = color.RGBA{70, 110, 230, 255}
	LivesLowColor   = color.RGBA{220, 50, 50, 255}
	LivesEmptyColor = color.RGBA{0, 0, 0, 255}
)

// LivesIndicator отображает жизни игрока сеткой кружков.
type LivesIndicator struct {
	X, Y float32
}

func NewLivesIndicator(x, y float32) *LivesIndicator {
	return &LivesIndicator{X: x, Y: y}
}

// livesColor: above half the surplus is blue, the rest red; lost lives are black.
func livesColor(j, lives, maxLives int) color.RGBA {
	if j >= lives {
		return LivesEmptyColor
	}
	half := maxLives / 2
	if lives > half && j < lives-half {
		return LivesHighColor
	}
	return LivesLowColor
}

func (i *LivesIndicator) Draw(screen *ebiten.Image, lives, maxLives int) {
	if maxLives < lives {
		maxLives = lives
	}
	step := float32(LivesCircleRadius*2 + LivesCircleSpacing)
	for j := 0; j < maxLives; j++ {
		row, col := j/LivesCols, j%LivesCols
		cx := i.X + float32(col)*step + LivesCircleRadius
		cy := i.Y + float32(row)*step + LivesCircleRadius
		vector.DrawFilledCircle(screen, cx, cy, LivesCircleRadius, livesColor(j, lives, maxLives), true)
		vector.StrokeCircle(screen, cx, cy, LivesCircleRadius, 1, color.White, true)
	}
	label := strconv.Itoa(lives) + "/" + strconv.Itoa(maxLives)
	DrawText(screen, label, float64(i.X+LivesCols*step+6), float64(i.Y), color.White)
}
