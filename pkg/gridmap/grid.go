// pkg/gridmap/grid.go
package gridmap

import (
	"math"

	"gearspire/internal/types"
)

// CellType — тип клетки
type CellType uint8

const (
	CellEmpty CellType = iota
	CellPath
	CellTower
	CellCrate
)

var cellTypeNames = [...]string{
	CellEmpty: "empty",
	CellPath:  "path",
	CellTower: "tower",
	CellCrate: "crate",
}

func (t CellType) String() string {
	if int(t) < len(cellTypeNames) {
		return cellTypeNames[t]
	}
	return "unknown"
}

// ParseCellType maps a persisted name back to its CellType.
func ParseCellType(s string) (CellType, bool) {
	for i, name := range cellTypeNames {
		if name == s {
			return CellType(i), true
		}
	}
	return CellEmpty, false
}

// IsObstruction reports whether the type blocks creeps.
func (t CellType) IsObstruction() bool {
	return t == CellTower || t == CellCrate
}

// NoBuildRadius is measured in tiles from the spawn cell.
const NoBuildRadius = 1.5

// Point is a grid coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell — одна клетка сетки
type Cell struct {
	X, Y    int
	Type    CellType
	TowerID types.EntityID // 0 если клетка не занята башней
	Cost    float64
	Blocked bool
}

// Grid owns tile occupancy. Spawn and Goal are fixed for the lifetime of the grid.
type Grid struct {
	Width    int
	Height   int
	TileSize float64
	Spawn    Point
	Goal     Point

	cells   []Cell
	version uint64
}

// NewGrid creates a grid with spawn on the left edge and goal on the right edge,
// both on the middle row.
func NewGrid(width, height int, tileSize float64) *Grid {
	if width < 2 {
		width = 2
	}
	if height < 1 {
		height = 1
	}
	if tileSize <= 0 {
		tileSize = 1
	}
	g := &Grid{
		Width:    width,
		Height:   height,
		TileSize: tileSize,
		Spawn:    Point{X: 0, Y: height / 2},
		Goal:     Point{X: width - 1, Y: height / 2},
		cells:    make([]Cell, width*height),
	}
	g.fill()
	return g
}

func (g *Grid) fill() {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			g.cells[y*g.Width+x] = Cell{X: x, Y: y, Type: CellEmpty, Cost: 1}
		}
	}
	g.cellAt(g.Spawn.X, g.Spawn.Y).Type = CellPath
	g.cellAt(g.Goal.X, g.Goal.Y).Type = CellPath
}

// Reset clears every cell back to the fresh layout. Spawn and goal stay.
func (g *Grid) Reset() {
	g.fill()
	g.version++
}

// GenerateBasePath marks the whole spawn row as path.
func (g *Grid) GenerateBasePath() {
	y := g.Spawn.Y
	for x := g.Spawn.X; x <= g.Goal.X; x++ {
		c := g.cellAt(x, y)
		if c.Type == CellEmpty {
			c.Type = CellPath
			g.version++
		}
	}
}

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

func (g *Grid) cellAt(x, y int) *Cell {
	return &g.cells[y*g.Width+x]
}

// GetCell returns a copy of the cell at (x, y).
func (g *Grid) GetCell(x, y int) (Cell, bool) {
	if !g.InBounds(x, y) {
		return Cell{}, false
	}
	return *g.cellAt(x, y), true
}

// SetCell commits a cell change. Any tower reference is cleared unless the new
// type is tower. Obstructions are refused on the spawn and goal cells.
func (g *Grid) SetCell(x, y int, t CellType, tower types.EntityID) bool {
	if !g.InBounds(x, y) {
		return false
	}
	p := Point{X: x, Y: y}
	if t.IsObstruction() && (p == g.Spawn || p == g.Goal) {
		return false
	}
	c := g.cellAt(x, y)
	if t != CellTower {
		tower = 0
	}
	if c.Type == t && c.TowerID == tower {
		return true
	}
	c.Type = t
	c.TowerID = tower
	c.Blocked = t.IsObstruction()
	g.version++
	return true
}

// IsWalkable: only empty and path cells are traversable.
func (g *Grid) IsWalkable(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	t := g.cellAt(x, y).Type
	return t == CellEmpty || t == CellPath
}

// InNoBuildZone reports whether (x, y) lies within NoBuildRadius of spawn.
func (g *Grid) InNoBuildZone(x, y int) bool {
	dx := float64(x - g.Spawn.X)
	dy := float64(y - g.Spawn.Y)
	return math.Sqrt(dx*dx+dy*dy) <= NoBuildRadius
}

// CanPlace checks whether an obstruction of the given kind may be committed at (x, y).
// The cell is set speculatively and restored before returning.
func (g *Grid) CanPlace(x, y int, kind CellType) bool {
	if !kind.IsObstruction() || !g.InBounds(x, y) {
		return false
	}
	c := g.cellAt(x, y)
	if c.Type != CellEmpty || g.InNoBuildZone(x, y) {
		return false
	}
	original := *c
	c.Type = kind
	defer func() {
		*c = original
	}()
	return g.HasValidPath()
}

// CanPlaceTower is CanPlace for towers.
func (g *Grid) CanPlaceTower(x, y int) bool {
	return g.CanPlace(x, y, CellTower)
}

// CanPlaceCrate is CanPlace for crates.
func (g *Grid) CanPlaceCrate(x, y int) bool {
	return g.CanPlace(x, y, CellCrate)
}

func (g *Grid) HasValidPath() bool {
	return len(FindPath(g.Spawn, g.Goal, g)) > 0
}

// Path returns the current spawn-to-goal route, or nil when none exists.
func (g *Grid) Path() []Point {
	return FindPath(g.Spawn, g.Goal, g)
}

// WorldToGrid floors world coordinates to the containing tile.
func (g *Grid) WorldToGrid(wx, wy float64) Point {
	return Point{
		X: int(math.Floor(wx / g.TileSize)),
		Y: int(math.Floor(wy / g.TileSize)),
	}
}

// GridToWorld returns the centre of the tile.
func (g *Grid) GridToWorld(p Point) (float64, float64) {
	return float64(p.X)*g.TileSize + g.TileSize/2, float64(p.Y)*g.TileSize + g.TileSize/2
}

// Version increments on every committed change.
func (g *Grid) Version() uint64 {
	return g.version
}

// NonEmptyCells lists every cell whose type is not empty, row by row.
func (g *Grid) NonEmptyCells() []Cell {
	var out []Cell
	for _, c := range g.cells {
		if c.Type != CellEmpty {
			out = append(out, c)
		}
	}
	return out
}

// Cells returns a copy of all cells, row-major.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

// TowersInRange collects tower ids within Euclidean distance r of (x, y).
func (g *Grid) TowersInRange(x, y, r int) []types.EntityID {
	var ids []types.EntityID
	minX, maxX := max(0, x-r), min(g.Width-1, x+r)
	minY, maxY := max(0, y-r), min(g.Height-1, y+r)
	for ty := minY; ty <= maxY; ty++ {
		for tx := minX; tx <= maxX; tx++ {
			dx, dy := tx-x, ty-y
			if dx*dx+dy*dy > r*r {
				continue
			}
			c := g.cellAt(tx, ty)
			if c.Type == CellTower && c.TowerID != 0 {
				ids = append(ids, c.TowerID)
			}
		}
	}
	return ids
}
