// pkg/render/board_renderer.go
package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"gearspire/internal/app"
	"gearspire/internal/defs"
	"gearspire/internal/types"
	"gearspire/internal/utils"
	"gearspire/pkg/gridmap"
)

// Highlight describes player-facing overlays drawn on top of the board.
type Highlight struct {
	Selected types.EntityID
	Fusion   []types.EntityID
	Hover    gridmap.Point
	HoverOn  bool
	HoverOK  bool
}

// BoardRenderer draws a Snapshot. The empty grid is pre-rendered once per
// board size; occupied cells and entities are drawn every frame.
type BoardRenderer struct {
	colors   BoardColors
	face     text.Face
	mapImage *ebiten.Image // предрендеренная сетка
	width    int
	height   int
	tile     float64
}

func NewBoardRenderer(colors BoardColors) *BoardRenderer {
	return &BoardRenderer{
		colors: colors,
		face:   text.NewGoXFace(basicfont.Face7x13),
	}
}

// BoardSize returns the pixel size of the board for s.
func BoardSize(s *app.Snapshot) (int, int) {
	return int(float64(s.Width) * s.TileSize), int(float64(s.Height) * s.TileSize)
}

func (r *BoardRenderer) ensureMapImage(s *app.Snapshot) {
	if r.mapImage != nil && r.width == s.Width && r.height == s.Height && r.tile == s.TileSize {
		return
	}
	if r.mapImage != nil {
		r.mapImage.Deallocate()
	}
	w, h := BoardSize(s)
	r.mapImage = ebiten.NewImage(w, h)
	r.width, r.height, r.tile = s.Width, s.Height, s.TileSize
	r.renderMapImage()
}

// renderMapImage рисует пустую сетку на внутреннем изображении
func (r *BoardRenderer) renderMapImage() {
	r.mapImage.Fill(r.colors.BackgroundColor)
	ts := float32(r.tile)
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			px, py := float32(x)*ts, float32(y)*ts
			vector.DrawFilledRect(r.mapImage, px, py, ts, ts, r.colors.EmptyColor, false)
			vector.StrokeRect(r.mapImage, px, py, ts, ts, r.colors.StrokeWidth, r.colors.GridLineColor, false)
		}
	}
}

// Draw renders the board into screen at the origin.
func (r *BoardRenderer) Draw(screen *ebiten.Image, s *app.Snapshot, hl Highlight) {
	r.ensureMapImage(s)
	screen.DrawImage(r.mapImage, nil)

	ts := float32(s.TileSize)
	for _, c := range s.Cells {
		px, py := float32(c.X)*ts, float32(c.Y)*ts
		switch c.Type {
		case "path":
			vector.DrawFilledRect(screen, px+1, py+1, ts-2, ts-2, r.colors.PathColor, false)
		case "crate":
			vector.DrawFilledRect(screen, px+3, py+3, ts-6, ts-6, r.colors.CrateColor, false)
			vector.StrokeLine(screen, px+3, py+3, px+ts-3, py+ts-3, 2, DarkenColor(r.colors.CrateColor), false)
			vector.StrokeLine(screen, px+ts-3, py+3, px+3, py+ts-3, 2, DarkenColor(r.colors.CrateColor), false)
		}
	}
	r.drawMarker(screen, s.Spawn, r.colors.SpawnColor, "S", ts)
	r.drawMarker(screen, s.Goal, r.colors.GoalColor, "G", ts)

	if hl.HoverOn {
		hc := WithAlpha(r.colors.GoalColor, 70)
		if hl.HoverOK {
			hc = WithAlpha(r.colors.SpawnColor, 70)
		}
		vector.DrawFilledRect(screen, float32(hl.Hover.X)*ts, float32(hl.Hover.Y)*ts, ts, ts, hc, false)
	}

	fusion := make(map[types.EntityID]bool, len(hl.Fusion))
	for _, id := range hl.Fusion {
		fusion[id] = true
	}
	for i := range s.Towers {
		t := &s.Towers[i]
		if t.ID == hl.Selected {
			vector.DrawFilledCircle(screen, float32(t.X), float32(t.Y), float32(t.RangeWorld), WithAlpha(r.colors.RangeColor, 30), true)
			vector.StrokeCircle(screen, float32(t.X), float32(t.Y), float32(t.RangeWorld), 1, WithAlpha(r.colors.RangeColor, 120), true)
		}
		r.drawTower(screen, t, ts, t.ID == hl.Selected, fusion[t.ID])
	}

	for i := range s.Creeps {
		r.drawCreep(screen, &s.Creeps[i])
	}
	for _, p := range s.Projectiles {
		radius := float32(3)
		if p.Type == defs.ProjectileCannonball {
			radius = 5
		}
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), radius, ProjectileColor(p.Type), true)
	}
}

func (r *BoardRenderer) drawMarker(screen *ebiten.Image, p gridmap.Point, c color.RGBA, label string, ts float32) {
	px, py := float32(p.X)*ts, float32(p.Y)*ts
	vector.DrawFilledRect(screen, px+2, py+2, ts-4, ts-4, c, false)
	r.drawCentered(screen, label, float64(px+ts/2), float64(py+ts/2), color.White)
}

func (r *BoardRenderer) drawTower(screen *ebiten.Image, t *app.TowerSnapshot, ts float32, selected, fused bool) {
	px, py := float32(t.Cell.X)*ts, float32(t.Cell.Y)*ts
	base := TowerColor(t.Kind)
	vector.DrawFilledRect(screen, px+4, py+4, ts-8, ts-8, DarkenColor(base), false)
	vector.DrawFilledCircle(screen, float32(t.X), float32(t.Y), ts/2-8, base, true)

	outline := LightenColor(DarkenColor(base), 40)
	width := float32(1)
	switch {
	case fused:
		outline, width = color.RGBA{255, 220, 0, 255}, 3
	case selected:
		outline, width = color.RGBA{255, 255, 255, 255}, 2
	case t.Tier > 1:
		outline, width = color.RGBA{230, 180, 40, 255}, 2
	}
	vector.StrokeRect(screen, px+4, py+4, ts-8, ts-8, width, outline, false)

	// уровни точками вдоль нижнего края
	for i := 0; i < t.Level; i++ {
		vector.DrawFilledCircle(screen, px+8+float32(i)*6, py+ts-7, 2, color.White, false)
	}
}

func (r *BoardRenderer) drawCreep(screen *ebiten.Image, c *app.CreepSnapshot) {
	radius := float32(10)
	switch c.Kind {
	case defs.Golem:
		radius = 14
	case defs.Scout:
		radius = 7
	case defs.Spider:
		radius = 8
	}
	x, y := float32(c.X), float32(c.Y)
	vector.DrawFilledCircle(screen, x, y, radius, CreepColor(c.Kind), true)
	if c.Shielded {
		vector.StrokeCircle(screen, x, y, radius+3, 2, color.RGBA{120, 200, 255, 255}, true)
	}
	if c.Slowed {
		vector.StrokeCircle(screen, x, y, radius, 2, ProjectileColor(defs.ProjectileFrost), true)
	}
	if c.Poisoned {
		vector.DrawFilledCircle(screen, x+radius*0.7, y-radius*0.7, 3, ProjectileColor(defs.ProjectilePoison), true)
	}

	// полоска здоровья
	barW := radius * 2
	frac := float32(utils.Clamp(c.HealthFraction, 0, 1))
	vector.DrawFilledRect(screen, x-radius, y-radius-6, barW, 3, r.colors.HealthBackColor, false)
	vector.DrawFilledRect(screen, x-radius, y-radius-6, barW*frac, 3, r.colors.HealthColor, false)
}

func (r *BoardRenderer) drawCentered(screen *ebiten.Image, label string, cx, cy float64, c color.Color) {
	w, h := text.Measure(label, r.face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(cx-w/2, cy-h/2)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, label, r.face, op)
}

// CellAt maps a screen position to a cell of s.
func CellAt(s *app.Snapshot, px, py int) (gridmap.Point, bool) {
	if s.TileSize <= 0 || px < 0 || py < 0 {
		return gridmap.Point{}, false
	}
	p := gridmap.Point{X: int(float64(px) / s.TileSize), Y: int(float64(py) / s.TileSize)}
	if p.X >= s.Width || p.Y >= s.Height {
		return gridmap.Point{}, false
	}
	return p, true
}
