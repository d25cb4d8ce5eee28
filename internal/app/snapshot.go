// internal/app/snapshot.go
package app

import (
	"gearspire/internal/defs"
	"gearspire/internal/types"
	"gearspire/pkg/gridmap"
)

// Snapshot is an immutable copy of game state for renderers and remote clients.
// Value types only, so a snapshot may cross goroutines freely.
type Snapshot struct {
	Tick     int64         `json:"tick"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	TileSize float64       `json:"tileSize"`
	Spawn    gridmap.Point `json:"spawn"`
	Goal     gridmap.Point `json:"goal"`

	Cells       []CellSnapshot       `json:"cells"`
	Creeps      []CreepSnapshot      `json:"creeps"`
	Towers      []TowerSnapshot      `json:"towers"`
	Projectiles []ProjectileSnapshot `json:"projectiles"`

	Lives                 int     `json:"lives"`
	Gold                  int     `json:"gold"`
	Score                 int     `json:"score"`
	Wave                  int     `json:"wave"`
	WaveInProgress        bool    `json:"waveInProgress"`
	WaveProgress          float64 `json:"waveProgress"`
	TowersPlacedThisRound int     `json:"towersPlacedThisRound"`
	MaxTowersPerRound     int     `json:"maxTowersPerRound"`
	Paused                bool    `json:"paused"`
	GameOver              bool    `json:"gameOver"`
}

// CellSnapshot — непустая клетка
type CellSnapshot struct {
	X       int            `json:"x"`
	Y       int            `json:"y"`
	Type    string         `json:"type"`
	TowerID types.EntityID `json:"towerId,omitempty"`
}

type CreepSnapshot struct {
	ID             types.EntityID `json:"id"`
	Kind           defs.CreepKind `json:"kind"`
	X              float64        `json:"x"`
	Y              float64        `json:"y"`
	Health         float64        `json:"health"`
	MaxHealth      float64        `json:"maxHealth"`
	HealthFraction float64        `json:"healthFraction"`
	PathIndex      int            `json:"pathIndex"`
	Slowed         bool           `json:"slowed"`
	Poisoned       bool           `json:"poisoned"`
	Shielded       bool           `json:"shielded"`
}

type TowerSnapshot struct {
	ID            types.EntityID     `json:"id"`
	Kind          defs.TowerKind     `json:"kind"`
	Name          string             `json:"name"`
	Cell          gridmap.Point      `json:"cell"`
	X             float64            `json:"x"`
	Y             float64            `json:"y"`
	Range         float64            `json:"range"`
	RangeWorld    float64            `json:"rangeWorld"`
	Damage        float64            `json:"damage"`
	FireRate      int                `json:"fireRate"`
	Level         int                `json:"level"`
	Tier          int                `json:"tier"`
	Kills         int                `json:"kills"`
	TargetingMode defs.TargetingMode `json:"targetingMode"`
	SellValue     int                `json:"sellValue"`
	UpgradeCost   int                `json:"upgradeCost"`
	CanUpgrade    bool               `json:"canUpgrade"`
}

type ProjectileSnapshot struct {
	ID   types.EntityID      `json:"id"`
	X    float64             `json:"x"`
	Y    float64             `json:"y"`
	Type defs.ProjectileType `json:"type"`
}

// Snapshot copies the current state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:                  g.World.Tick,
		Width:                 g.Grid.Width,
		Height:                g.Grid.Height,
		TileSize:              g.Grid.TileSize,
		Spawn:                 g.Grid.Spawn,
		Goal:                  g.Grid.Goal,
		Lives:                 g.Lives,
		Gold:                  g.Gold,
		Score:                 g.Score,
		Wave:                  g.WaveSystem.CurrentWave(),
		WaveInProgress:        g.WaveSystem.IsWaveInProgress(),
		WaveProgress:          g.WaveSystem.WaveProgress(),
		TowersPlacedThisRound: g.towersPlaced,
		MaxTowersPerRound:     g.opts.MaxTowersPerRound,
		Paused:                g.paused,
		GameOver:              g.gameOver,
	}

	cells := g.Grid.NonEmptyCells()
	s.Cells = make([]CellSnapshot, 0, len(cells))
	for _, c := range cells {
		s.Cells = append(s.Cells, CellSnapshot{X: c.X, Y: c.Y, Type: c.Type.String(), TowerID: c.TowerID})
	}

	s.Creeps = make([]CreepSnapshot, 0, len(g.World.Creeps))
	for _, c := range g.World.Creeps {
		if !c.Alive() {
			continue
		}
		s.Creeps = append(s.Creeps, CreepSnapshot{
			ID:             c.ID,
			Kind:           c.Kind,
			X:              c.X,
			Y:              c.Y,
			Health:         c.Health.Value,
			MaxHealth:      c.Health.Max,
			HealthFraction: c.HealthFraction(),
			PathIndex:      c.Progress(),
			Slowed:         c.Slowed(),
			Poisoned:       c.Poisoned(),
			Shielded:       c.Shield > 0,
		})
	}

	s.Towers = make([]TowerSnapshot, 0, len(g.World.Towers))
	for _, t := range g.World.Towers {
		s.Towers = append(s.Towers, TowerSnapshot{
			ID:            t.ID,
			Kind:          t.Kind,
			Name:          t.Name(),
			Cell:          t.Cell,
			X:             t.X,
			Y:             t.Y,
			Range:         t.Range,
			RangeWorld:    t.RangeWorld(g.Grid.TileSize),
			Damage:        t.Damage,
			FireRate:      t.FireRate,
			Level:         t.Level,
			Tier:          t.Tier,
			Kills:         t.Kills,
			TargetingMode: t.TargetingMode,
			SellValue:     t.SellValue(),
			UpgradeCost:   t.UpgradeCost(),
			CanUpgrade:    t.CanUpgrade(),
		})
	}

	s.Projectiles = make([]ProjectileSnapshot, 0, len(g.World.Projectiles))
	for _, p := range g.World.Projectiles {
		s.Projectiles = append(s.Projectiles, ProjectileSnapshot{ID: p.ID, X: p.X, Y: p.Y, Type: p.Type})
	}
	return s
}
