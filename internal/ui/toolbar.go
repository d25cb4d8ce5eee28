// internal/ui/toolbar.go
package ui

import (
	"image"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"gearspire/internal/defs"
)

// Toolbar — ряд кнопок выбора башни и режима ящиков
type Toolbar struct {
	Kinds       []defs.TowerKind
	KindButtons []*Button
	CrateButton *Button

	Selected  defs.TowerKind
	CrateMode bool
}

// NewToolbar lays buttons out left to right starting at (x, y).
func NewToolbar(x, y int) *Toolbar {
	const w, h, gap = 92, 34, 6
	tb := &Toolbar{Kinds: defs.TowerKinds, Selected: defs.DefaultTowerKind}
	for i, k := range tb.Kinds {
		r := image.Rect(x, y, x+w, y+h)
		tb.KindButtons = append(tb.KindButtons, NewButton(r, strconv.Itoa(i+1)+" "+shortName(defs.Tower(k).Name)))
		x += w + gap
	}
	tb.CrateButton = NewButton(image.Rect(x, y, x+w-20, y+h), "C Crate")
	tb.sync()
	return tb
}

func shortName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return name
}

// Select picks the tower kind at index i; out-of-range indexes are ignored.
func (tb *Toolbar) Select(i int) {
	if i < 0 || i >= len(tb.Kinds) {
		return
	}
	tb.Selected = tb.Kinds[i]
	tb.CrateMode = false
	tb.sync()
}

func (tb *Toolbar) ToggleCrateMode() {
	tb.CrateMode = !tb.CrateMode
	tb.sync()
}

// Update handles a click; it reports whether the toolbar consumed it.
func (tb *Toolbar) Update(mouseX, mouseY int, pressed bool) bool {
	if !pressed {
		return false
	}
	for i, b := range tb.KindButtons {
		if b.IsClicked(mouseX, mouseY, pressed) {
			tb.Select(i)
			return true
		}
	}
	if tb.CrateButton.IsClicked(mouseX, mouseY, pressed) {
		tb.ToggleCrateMode()
		return true
	}
	return false
}

func (tb *Toolbar) sync() {
	for i, b := range tb.KindButtons {
		b.Active = !tb.CrateMode && tb.Kinds[i] == tb.Selected
	}
	tb.CrateButton.Active = tb.CrateMode
}

func (tb *Toolbar) Draw(screen *ebiten.Image, mouseX, mouseY int) {
	for _, b := range tb.KindButtons {
		b.Draw(screen, mouseX, mouseY)
	}
	tb.CrateButton.Draw(screen, mouseX, mouseY)
}
