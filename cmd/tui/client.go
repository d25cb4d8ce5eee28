// cmd/tui/client.go
package main

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"gearspire/internal/app"
	"gearspire/internal/config"
	"gearspire/internal/defs"
	"gearspire/internal/interfaces"
	"gearspire/internal/types"
	"gearspire/pkg/gridmap"
)

const (
	cellWidth      = 2
	commandTimeout = time.Second
)

var (
	styleEmpty  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePath   = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleCrate  = tcell.StyleDefault.Foreground(tcell.ColorMaroon)
	styleSpawn  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleGoal   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleCreep  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleShot   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

var towerGlyphs = map[defs.TowerKind]rune{
	defs.GearTurret:     'G',
	defs.SteamCannon:    'S',
	defs.TeslaCoil:      'T',
	defs.FrostCondenser: 'F',
	defs.PoisonGasVent:  'P',
}

var towerStyles = map[defs.TowerKind]tcell.Style{
	defs.GearTurret:     tcell.StyleDefault.Foreground(tcell.ColorGoldenrod),
	defs.SteamCannon:    tcell.StyleDefault.Foreground(tcell.ColorSilver),
	defs.TeslaCoil:      tcell.StyleDefault.Foreground(tcell.ColorBlue),
	defs.FrostCondenser: tcell.StyleDefault.Foreground(tcell.ColorAqua),
	defs.PoisonGasVent:  tcell.StyleDefault.Foreground(tcell.ColorLime),
}

var creepGlyphs = map[defs.CreepKind]rune{
	defs.Raider:  'r',
	defs.Scout:   's',
	defs.Golem:   'g',
	defs.Airship: 'a',
	defs.Spider:  'x',
}

const helpLine = "hjkl/arrows move  1-5 kind  enter build/select  x random  c crate  u/s/t upgrade/sell/target  f mark F fuse  space wave  p pause  R restart  q quit"

// client рисует снимок в терминале и переводит клавиши в команды раннера
type client struct {
	screen tcell.Screen
	runner interfaces.GameRunner
	ctx    context.Context
	log    zerolog.Logger

	cursor   gridmap.Point
	kind     defs.TowerKind
	selected types.EntityID
	fusion   []types.EntityID
	status   string
}

func newClient(ctx context.Context, screen tcell.Screen, runner interfaces.GameRunner, log zerolog.Logger) *client {
	return &client{
		screen: screen,
		runner: runner,
		ctx:    ctx,
		log:    log,
		cursor: gridmap.Point{X: 1, Y: 1},
		kind:   defs.DefaultTowerKind,
	}
}

func (c *client) exec(cmd app.Command) (any, error) {
	ctx, cancel := context.WithTimeout(c.ctx, commandTimeout)
	defer cancel()
	v, err := c.runner.Do(ctx, cmd)
	if err != nil {
		c.status = err.Error()
		c.log.Debug().Err(err).Msg("command rejected")
	}
	return v, err
}

// handleKey applies one key press; it returns false when the client should quit.
func (c *client) handleKey(ev *tcell.EventKey) bool {
	snap := c.runner.Snapshot()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		c.move(snap, 0, -1)
	case tcell.KeyDown:
		c.move(snap, 0, 1)
	case tcell.KeyLeft:
		c.move(snap, -1, 0)
	case tcell.KeyRight:
		c.move(snap, 1, 0)
	case tcell.KeyEnter:
		c.buildOrSelect(snap)
	case tcell.KeyRune:
		return c.handleRune(snap, ev.Rune())
	}
	return true
}

func (c *client) handleRune(snap app.Snapshot, r rune) bool {
	switch r {
	case 'q':
		return false
	case 'h':
		c.move(snap, -1, 0)
	case 'j':
		c.move(snap, 0, 1)
	case 'k':
		c.move(snap, 0, -1)
	case 'l':
		c.move(snap, 1, 0)
	case '1', '2', '3', '4', '5':
		c.kind = defs.TowerKinds[r-'1']
		c.status = "Building " + defs.Tower(c.kind).Name
	case 'b':
		c.buildOrSelect(snap)
	case 'x':
		c.placeRandom()
	case 'c':
		c.toggleCrate(snap)
	case 'u':
		c.onSelected(func(g *app.Game, id types.EntityID) (any, error) {
			return nil, g.UpgradeTower(id)
		}, "Upgraded")
	case 's':
		c.onSelected(func(g *app.Game, id types.EntityID) (any, error) {
			return g.SellTower(id)
		}, "Sold")
		if c.status == "Sold" {
			c.forget(c.selected)
		}
	case 't':
		c.onSelected(func(g *app.Game, id types.EntityID) (any, error) {
			return g.CycleTargetingMode(id)
		}, "Targeting changed")
	case 'f':
		c.toggleFusion()
	case 'F':
		c.fuse()
	case ' ':
		c.startWave()
	case 'p':
		paused := !snap.Paused
		c.exec(func(g *app.Game) (any, error) {
			g.SetPaused(paused)
			return nil, nil
		})
	case 'R':
		if _, err := c.exec(func(g *app.Game) (any, error) {
			g.Restart()
			return nil, nil
		}); err == nil {
			c.selected, c.fusion = 0, nil
			c.status = "Restarted"
		}
	}
	return true
}

func (c *client) move(snap app.Snapshot, dx, dy int) {
	c.cursor.X = min(max(c.cursor.X+dx, 0), snap.Width-1)
	c.cursor.Y = min(max(c.cursor.Y+dy, 0), snap.Height-1)
}

func towerAt(snap app.Snapshot, p gridmap.Point) *app.TowerSnapshot {
	for i := range snap.Towers {
		if snap.Towers[i].Cell == p {
			return &snap.Towers[i]
		}
	}
	return nil
}

func (c *client) buildOrSelect(snap app.Snapshot) {
	if t := towerAt(snap, c.cursor); t != nil {
		c.selected = t.ID
		c.status = fmt.Sprintf("Selected %s #%d", t.Name, t.ID)
		return
	}
	x, y, kind := c.cursor.X, c.cursor.Y, c.kind
	if _, err := c.exec(func(g *app.Game) (any, error) {
		t, err := g.PlaceTower(x, y, kind)
		if err != nil {
			return nil, err
		}
		return t.ID, nil
	}); err == nil {
		c.status = "Built " + defs.Tower(kind).Name
	}
}

func (c *client) placeRandom() {
	x, y := c.cursor.X, c.cursor.Y
	v, err := c.exec(func(g *app.Game) (any, error) {
		t, err := g.PlaceRandomTower(x, y)
		if err != nil {
			return nil, err
		}
		return t.Kind, nil
	})
	if err == nil {
		c.status = "Built " + defs.Tower(v.(defs.TowerKind)).Name
	}
}

func (c *client) toggleCrate(snap app.Snapshot) {
	x, y := c.cursor.X, c.cursor.Y
	crate := slices.ContainsFunc(snap.Cells, func(cs app.CellSnapshot) bool {
		return cs.X == x && cs.Y == y && cs.Type == gridmap.CellCrate.String()
	})
	if _, err := c.exec(func(g *app.Game) (any, error) {
		if crate {
			return nil, g.RemoveCrate(x, y)
		}
		return nil, g.PlaceCrate(x, y)
	}); err == nil {
		c.status = "Crate placed"
		if crate {
			c.status = "Crate removed"
		}
	}
}

func (c *client) onSelected(cmd func(g *app.Game, id types.EntityID) (any, error), done string) {
	if c.selected == 0 {
		c.status = "Select a tower first"
		return
	}
	id := c.selected
	if _, err := c.exec(func(g *app.Game) (any, error) { return cmd(g, id) }); err == nil {
		c.status = done
	}
}

func (c *client) forget(id types.EntityID) {
	if c.selected == id {
		c.selected = 0
	}
	c.fusion = slices.DeleteFunc(c.fusion, func(f types.EntityID) bool { return f == id })
}

func (c *client) toggleFusion() {
	if c.selected == 0 {
		c.status = "Select a tower first"
		return
	}
	if i := slices.Index(c.fusion, c.selected); i >= 0 {
		c.fusion = slices.Delete(c.fusion, i, i+1)
	} else if len(c.fusion) < config.FusionMaxTowers {
		c.fusion = append(c.fusion, c.selected)
	}
	c.status = fmt.Sprintf("%d marked for fusion", len(c.fusion))
}

func (c *client) fuse() {
	ids := slices.Clone(c.fusion)
	v, err := c.exec(func(g *app.Game) (any, error) {
		t, err := g.CombineTowers(ids)
		if err != nil {
			return nil, err
		}
		return t.ID, nil
	})
	if err != nil {
		return
	}
	c.fusion = nil
	c.selected = v.(types.EntityID)
	c.status = "Fused"
}

func (c *client) startWave() {
	v, err := c.exec(func(g *app.Game) (any, error) {
		return g.StartWave(), nil
	})
	if err != nil {
		return
	}
	if !v.(bool) {
		c.status = "Wave already running"
		return
	}
	c.status = "Wave started"
}

// draw renders snap; the board uses two columns per cell.
func (c *client) draw(snap app.Snapshot) {
	c.screen.Clear()
	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			c.put(x, y, '.', ' ', styleEmpty)
		}
	}
	for _, cell := range snap.Cells {
		switch cell.Type {
		case gridmap.CellPath.String():
			c.put(cell.X, cell.Y, ':', ':', stylePath)
		case gridmap.CellCrate.String():
			c.put(cell.X, cell.Y, '[', ']', styleCrate)
		}
	}
	c.put(snap.Spawn.X, snap.Spawn.Y, '>', '>', styleSpawn)
	c.put(snap.Goal.X, snap.Goal.Y, '#', '#', styleGoal)

	for _, t := range snap.Towers {
		style := towerStyles[t.Kind]
		if t.ID == c.selected {
			style = style.Underline(true)
		}
		if slices.Contains(c.fusion, t.ID) {
			style = style.Bold(true)
		}
		level := rune('0' + t.Level)
		if t.Tier > 1 {
			level = '+'
		}
		glyph, ok := towerGlyphs[t.Kind]
		if !ok {
			glyph = '?'
		}
		c.put(t.Cell.X, t.Cell.Y, glyph, level, style)
	}
	if snap.TileSize > 0 {
		for _, p := range snap.Projectiles {
			c.putHalf(snap, p.X, p.Y, '*', styleShot)
		}
		for _, cr := range snap.Creeps {
			glyph, ok := creepGlyphs[cr.Kind]
			if !ok {
				glyph = 'r'
			}
			style := styleCreep
			if cr.Slowed {
				style = style.Foreground(tcell.ColorAqua)
			}
			c.putHalf(snap, cr.X, cr.Y, glyph, style)
		}
	}

	// курсор
	mainc, _, style, _ := c.screen.GetContent(c.cursor.X*cellWidth, c.cursor.Y)
	c.screen.SetContent(c.cursor.X*cellWidth, c.cursor.Y, mainc, nil, style.Reverse(true))

	row := snap.Height + 1
	c.text(0, row, c.statusLine(snap), styleText)
	row++
	c.text(0, row, c.selectedLine(snap), styleText)
	row++
	c.text(0, row, c.status, styleStatus)
	row++
	c.text(0, row, helpLine, styleDim)
	c.screen.Show()
}

func (c *client) statusLine(snap app.Snapshot) string {
	wave := "idle"
	if snap.WaveInProgress {
		wave = fmt.Sprintf("%d%%", int(snap.WaveProgress*100))
	}
	parts := []string{
		fmt.Sprintf("Lives %d", snap.Lives),
		fmt.Sprintf("Gold %d", snap.Gold),
		fmt.Sprintf("Score %d", snap.Score),
		fmt.Sprintf("Wave %d (%s)", snap.Wave, wave),
		fmt.Sprintf("Build %d/%d", snap.TowersPlacedThisRound, snap.MaxTowersPerRound),
		"Kind " + defs.Tower(c.kind).Name,
	}
	if snap.Paused {
		parts = append(parts, "PAUSED")
	}
	if snap.GameOver {
		parts = append(parts, "GAME OVER (R restarts)")
	}
	return strings.Join(parts, "  ")
}

func (c *client) selectedLine(snap app.Snapshot) string {
	if c.selected == 0 {
		return ""
	}
	for _, t := range snap.Towers {
		if t.ID == c.selected {
			return fmt.Sprintf("#%d %s L%d T%d  dmg %.1f  range %.2f  rate %d  kills %d  mode %s  sell %d  upgrade %d",
				t.ID, t.Name, t.Level, t.Tier, t.Damage, t.Range, t.FireRate, t.Kills, t.TargetingMode, t.SellValue, t.UpgradeCost)
		}
	}
	c.forget(c.selected)
	return ""
}

func (c *client) put(x, y int, left, right rune, style tcell.Style) {
	c.screen.SetContent(x*cellWidth, y, left, nil, style)
	c.screen.SetContent(x*cellWidth+1, y, right, nil, style)
}

// putHalf places a glyph at world coordinates, using the half-cell column for sub-tile x.
func (c *client) putHalf(snap app.Snapshot, wx, wy float64, glyph rune, style tcell.Style) {
	col := int(wx / snap.TileSize * cellWidth)
	row := int(wy / snap.TileSize)
	if col < 0 || row < 0 || col >= snap.Width*cellWidth || row >= snap.Height {
		return
	}
	c.screen.SetContent(col, row, glyph, nil, style)
}

func (c *client) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		c.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
