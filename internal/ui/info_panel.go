// internal/ui/info_panel.go
package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"gearspire/internal/app"
	"gearspire/internal/types"
)

const (
	panelWidth     = 220
	panelHeight    = 170
	panelMargin    = 5
	animationSpeed = 12.0
	lineHeight     = 16
)

// PanelAction — действие, выбранное в панели
type PanelAction int

const (
	PanelNone PanelAction = iota
	PanelUpgrade
	PanelSell
	PanelTargeting
	PanelFuse
)

// InfoPanel displays the selected tower and its actions. It slides in from the right edge.
type InfoPanel struct {
	IsVisible    bool
	TargetEntity types.EntityID

	boardWidth int
	currentX   float64
	targetX    float64

	UpgradeButton   *Button
	SellButton      *Button
	TargetingButton *Button
	FuseButton      *Button
}

// NewInfoPanel creates a new information panel for a board boardWidth pixels wide.
func NewInfoPanel(boardWidth int) *InfoPanel {
	return &InfoPanel{
		boardWidth:      boardWidth,
		currentX:        float64(boardWidth),
		targetX:         float64(boardWidth),
		UpgradeButton:   NewButton(image.Rectangle{}, "Upgrade"),
		SellButton:      NewButton(image.Rectangle{}, "Sell"),
		TargetingButton: NewButton(image.Rectangle{}, "Target"),
		FuseButton:      NewButton(image.Rectangle{}, "Fuse"),
	}
}

func (p *InfoPanel) SetTarget(id types.EntityID) {
	p.TargetEntity = id
	p.IsVisible = true
	p.targetX = float64(p.boardWidth - panelWidth - panelMargin)
}

func (p *InfoPanel) Hide() {
	p.targetX = float64(p.boardWidth)
}

// Contains reports whether (x, y) falls on the visible panel.
func (p *InfoPanel) Contains(x, y int) bool {
	return p.IsVisible && image.Pt(x, y).In(p.rect())
}

func (p *InfoPanel) rect() image.Rectangle {
	x := int(p.currentX)
	return image.Rect(x, panelMargin, x+panelWidth, panelMargin+panelHeight)
}

// Update animates the panel and returns the action clicked this frame.
func (p *InfoPanel) Update(mouseX, mouseY int, pressed bool) PanelAction {
	if p.currentX != p.targetX {
		diff := p.targetX - p.currentX
		if math.Abs(diff) < animationSpeed {
			p.currentX = p.targetX
		} else if diff > 0 {
			p.currentX += animationSpeed
		} else {
			p.currentX -= animationSpeed
		}
		if p.currentX >= float64(p.boardWidth) {
			p.IsVisible = false
			p.TargetEntity = 0
		}
	}
	p.layout()
	if !p.IsVisible || p.TargetEntity == 0 {
		return PanelNone
	}

	switch {
	case p.UpgradeButton.IsClicked(mouseX, mouseY, pressed):
		return PanelUpgrade
	case p.SellButton.IsClicked(mouseX, mouseY, pressed):
		return PanelSell
	case p.TargetingButton.IsClicked(mouseX, mouseY, pressed):
		return PanelTargeting
	case p.FuseButton.IsClicked(mouseX, mouseY, pressed):
		return PanelFuse
	}
	return PanelNone
}

func (p *InfoPanel) layout() {
	r := p.rect()
	bw, bh := (panelWidth-30)/2, 24
	row1 := r.Max.Y - 2*bh - 15
	row2 := r.Max.Y - bh - 10
	p.UpgradeButton.Rect = image.Rect(r.Min.X+10, row1, r.Min.X+10+bw, row1+bh)
	p.SellButton.Rect = image.Rect(r.Min.X+20+bw, row1, r.Min.X+20+2*bw, row1+bh)
	p.TargetingButton.Rect = image.Rect(r.Min.X+10, row2, r.Min.X+10+bw, row2+bh)
	p.FuseButton.Rect = image.Rect(r.Min.X+20+bw, row2, r.Min.X+20+2*bw, row2+bh)
}

// Draw renders the panel for the tower with TargetEntity in s. fusing marks the tower as queued for fusion.
func (p *InfoPanel) Draw(screen *ebiten.Image, s *app.Snapshot, fusing bool, mouseX, mouseY int) {
	if !p.IsVisible {
		return
	}
	r := p.rect()
	vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), color.RGBA{25, 35, 45, 230}, true)
	vector.StrokeRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 2, color.RGBA{70, 130, 180, 255}, true)

	t := findTower(s, p.TargetEntity)
	if t == nil {
		DrawText(screen, "Unknown Entity", float64(r.Min.X+10), float64(r.Min.Y+10), color.White)
		return
	}

	x, y := float64(r.Min.X+10), float64(r.Min.Y+8)
	lines := []string{
		fmt.Sprintf("%s  L%d  T%d", t.Name, t.Level, t.Tier),
		fmt.Sprintf("Damage: %.1f", t.Damage),
		fmt.Sprintf("Range: %.2f  Rate: %d", t.Range, t.FireRate),
		fmt.Sprintf("Kills: %d  Mode: %s", t.Kills, t.TargetingMode),
	}
	for _, l := range lines {
		DrawText(screen, l, x, y, color.RGBA{230, 230, 230, 255})
		y += lineHeight
	}

	p.UpgradeButton.Text = "Upgrade"
	if t.CanUpgrade {
		p.UpgradeButton.Text = fmt.Sprintf("Up %dg", t.UpgradeCost)
	}
	p.UpgradeButton.Disabled = !t.CanUpgrade || s.Gold < t.UpgradeCost
	p.SellButton.Text = fmt.Sprintf("Sell %dg", t.SellValue)
	p.FuseButton.Active = fusing

	p.UpgradeButton.Draw(screen, mouseX, mouseY)
	p.SellButton.Draw(screen, mouseX, mouseY)
	p.TargetingButton.Draw(screen, mouseX, mouseY)
	p.FuseButton.Draw(screen, mouseX, mouseY)
}

func findTower(s *app.Snapshot, id types.EntityID) *app.TowerSnapshot {
	for i := range s.Towers {
		if s.Towers[i].ID == id {
			return &s.Towers[i]
		}
	}
	return nil
}
