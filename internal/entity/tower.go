// internal/entity/tower.go
package entity

import (
	"math"

	"gearspire/internal/component"
	"gearspire/internal/config"
	"gearspire/internal/defs"
	"gearspire/internal/types"
	"gearspire/pkg/gridmap"
)

// Tower — башня на клетке сетки. Характеристики считаются от base.
type Tower struct {
	ID   types.EntityID
	Kind defs.TowerKind
	Cell gridmap.Point
	component.Position
	component.Combat
	Level         int
	Tier          int
	FusedFrom     int // сколько башен слито, 0 для обычной
	Kills         int
	TargetingMode defs.TargetingMode
	Cost          int

	base defs.TowerDefinition
}

// NewTower creates a level-1 tower of kind ready to fire at tick.
func NewTower(id types.EntityID, kind defs.TowerKind, cell gridmap.Point, mapper WorldMapper, tick int64) *Tower {
	def := defs.Tower(kind)
	t := &Tower{
		ID:            id,
		Kind:          def.ID,
		Cell:          cell,
		Level:         1,
		Tier:          1,
		TargetingMode: defs.TargetFirst,
		Cost:          def.Cost,
		base:          def,
	}
	t.X, t.Y = mapper.GridToWorld(cell)
	t.recalculate()
	t.LastFireTick = tick - int64(t.FireRate)
	return t
}

// Projectile is the projectile type this tower fires.
func (t *Tower) Projectile() defs.ProjectileType {
	return t.base.Projectile
}

func (t *Tower) Name() string {
	if t.Tier > 1 {
		return "T2 " + t.base.Name
	}
	return t.base.Name
}

// RangeWorld converts the tile range to world units.
func (t *Tower) RangeWorld(tileSize float64) float64 {
	return t.Range * tileSize
}

// SetTargetingMode rejects unknown modes.
func (t *Tower) SetTargetingMode(mode defs.TargetingMode) bool {
	if !mode.Valid() {
		return false
	}
	t.TargetingMode = mode
	return true
}

// CanUpgrade is false at max level.
func (t *Tower) CanUpgrade() bool {
	return t.Level < config.MaxTowerLevel
}

// UpgradeCost is the gold needed for the next level.
func (t *Tower) UpgradeCost() int {
	return defs.UpgradeCost(t.Level)
}

// Upgrade raises the level by one.
func (t *Tower) Upgrade() bool {
	if !t.CanUpgrade() {
		return false
	}
	t.SetLevel(t.Level + 1)
	return true
}

// SetLevel clamps level to [1, MaxTowerLevel] and recalculates stats.
func (t *Tower) SetLevel(level int) {
	t.Level = max(1, min(level, config.MaxTowerLevel))
	t.recalculate()
}

// SellValue — сколько вернётся игроку при продаже
func (t *Tower) SellValue() int {
	return defs.SellValue(t.Cost)
}

// Fuse turns this tower into a tier-2 tower built from n towers.
// Stats always start from the kind's definition, so fusing a fused tower does not compound.
func (t *Tower) Fuse(n int) {
	b := defs.Tower(t.Kind)
	b.Damage = math.Floor(b.Damage * (1 + float64(n)*config.FusionDamagePerTower))
	b.Range *= min(config.FusionMaxRangeFactor, 1+float64(n)*config.FusionRangePerTower)
	b.FireRate = max(config.MinFireRate, int(math.Floor(float64(b.FireRate)*config.FusionFireRateFactor)))
	t.base = b
	t.Tier = 2
	t.FusedFrom = n
	t.recalculate()
}

func (t *Tower) recalculate() {
	l := float64(t.Level - 1)
	t.Damage = max(1, math.Floor(t.base.Damage*(1+l*config.LevelDamageBonus)))
	t.Range = max(1, t.base.Range*(1+l*config.LevelRangeBonus))
	t.FireRate = max(config.MinFireRate, int(math.Floor(float64(t.base.FireRate)*(1-l*config.LevelFireRateBonus))))
}
