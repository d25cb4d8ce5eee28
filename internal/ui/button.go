// internal/ui/button.go
package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Button представляет собой кликабельную кнопку в UI.
type Button struct {
	Rect        image.Rectangle
	Text        string
	TextColor   color.RGBA
	BgColor     color.RGBA
	HoverColor  color.RGBA
	ActiveColor color.RGBA
	Active      bool
	Disabled    bool
}

// NewButton создает новую кнопку.
func NewButton(rect image.Rectangle, text string) *Button {
	return &Button{
		Rect:        rect,
		Text:        text,
		TextColor:   color.RGBA{230, 230, 230, 255},
		BgColor:     color.RGBA{55, 60, 70, 255},
		HoverColor:  color.RGBA{75, 82, 95, 255},
		ActiveColor: color.RGBA{70, 130, 180, 255},
	}
}

// Contains reports whether (x, y) is inside the button.
func (b *Button) Contains(x, y int) bool {
	return image.Pt(x, y).In(b.Rect)
}

// IsClicked проверяет, был ли сделан клик по кнопке.
func (b *Button) IsClicked(x, y int, pressed bool) bool {
	return pressed && !b.Disabled && b.Contains(x, y)
}

// Draw отрисовывает кнопку.
func (b *Button) Draw(screen *ebiten.Image, mouseX, mouseY int) {
	bg := b.BgColor
	switch {
	case b.Active:
		bg = b.ActiveColor
	case !b.Disabled && b.Contains(mouseX, mouseY):
		bg = b.HoverColor
	}
	fg := b.TextColor
	if b.Disabled {
		fg = color.RGBA{120, 120, 120, 255}
	}

	x, y := float32(b.Rect.Min.X), float32(b.Rect.Min.Y)
	w, h := float32(b.Rect.Dx()), float32(b.Rect.Dy())
	vector.DrawFilledRect(screen, x, y, w, h, bg, false)
	vector.StrokeRect(screen, x, y, w, h, 2, color.RGBA{30, 30, 36, 255}, false)
	DrawTextCentered(screen, b.Text, float64(x+w/2), float64(y+h/2), fg)
}
