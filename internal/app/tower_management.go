// internal/app/tower_management.go
package app

import (
	"errors"
	"fmt"

	"gearspire/internal/config"
	"gearspire/internal/defs"
	"gearspire/internal/entity"
	"gearspire/internal/event"
	"gearspire/internal/types"
	"gearspire/pkg/gridmap"
)

var (
	ErrGameOver         = errors.New("game is over")
	ErrRoundLimit       = errors.New("tower limit for this round reached")
	ErrInvalidPlacement = errors.New("cell cannot be built on")
	ErrTowerNotFound    = errors.New("tower not found")
	ErrMaxLevel         = errors.New("tower is at max level")
	ErrNotEnoughGold    = errors.New("not enough gold")
	ErrInvalidMode      = errors.New("unknown targeting mode")
	ErrInvalidFusion    = errors.New("fusion needs 2-3 distinct towers")
	ErrNoCrate          = errors.New("no crate on cell")
)

// CanPlaceTower checks the round limit and the grid rules without mutating anything.
func (g *Game) CanPlaceTower(x, y int) bool {
	return !g.gameOver && g.towersPlaced < g.opts.MaxTowersPerRound && g.Grid.CanPlaceTower(x, y)
}

// PlaceTower builds a tower of kind at (x, y). An empty kind rolls one from
// the spawn weights.
func (g *Game) PlaceTower(x, y int, kind defs.TowerKind) (*entity.Tower, error) {
	if g.gameOver {
		return nil, ErrGameOver
	}
	if g.towersPlaced >= g.opts.MaxTowersPerRound {
		return nil, ErrRoundLimit
	}
	if !g.Grid.CanPlaceTower(x, y) {
		return nil, ErrInvalidPlacement
	}
	if kind == "" {
		kind = defs.TowerKind(g.Rng.ChooseWeighted(g.spawnWeights.Entries()))
	}

	cell := gridmap.Point{X: x, Y: y}
	t := entity.NewTower(g.World.NewEntity(), kind, cell, g.Grid, g.World.Tick)
	g.Grid.SetCell(x, y, gridmap.CellTower, t.ID)
	g.World.AddTower(t)
	g.towersPlaced++

	g.log.Debug().Uint64("tower", uint64(t.ID)).Str("kind", string(t.Kind)).Int("x", x).Int("y", y).Msg("tower placed")
	g.EventDispatcher.Dispatch(event.Event{
		Type: event.TowerPlaced,
		Data: event.TowerData{TowerID: t.ID, Kind: t.Kind, Cell: cell},
	})
	return t, nil
}

// PlaceRandomTower is PlaceTower with a kind drawn from the spawn weights.
func (g *Game) PlaceRandomTower(x, y int) (*entity.Tower, error) {
	return g.PlaceTower(x, y, "")
}

// PlaceCrate puts an obstruction on (x, y). Crates do not count toward the round limit.
func (g *Game) PlaceCrate(x, y int) error {
	if g.gameOver {
		return ErrGameOver
	}
	if !g.Grid.CanPlaceCrate(x, y) {
		return ErrInvalidPlacement
	}
	g.Grid.SetCell(x, y, gridmap.CellCrate, 0)
	return nil
}

// RemoveCrate clears a crate back to an empty cell.
func (g *Game) RemoveCrate(x, y int) error {
	c, ok := g.Grid.GetCell(x, y)
	if !ok || c.Type != gridmap.CellCrate {
		return ErrNoCrate
	}
	g.Grid.SetCell(x, y, gridmap.CellEmpty, 0)
	return nil
}

// TowerAt returns the tower occupying (x, y), if any.
func (g *Game) TowerAt(x, y int) *entity.Tower {
	c, ok := g.Grid.GetCell(x, y)
	if !ok || c.Type != gridmap.CellTower {
		return nil
	}
	return g.World.Tower(c.TowerID)
}

// SellTower removes the tower and refunds its sell value.
func (g *Game) SellTower(id types.EntityID) (int, error) {
	t := g.World.Tower(id)
	if t == nil {
		return 0, ErrTowerNotFound
	}
	refund := t.SellValue()
	g.removeTower(t)
	g.Gold += refund
	return refund, nil
}

func (g *Game) removeTower(t *entity.Tower) {
	g.World.RemoveTower(t.ID)
	g.Grid.SetCell(t.Cell.X, t.Cell.Y, gridmap.CellEmpty, 0)
	g.EventDispatcher.Dispatch(event.Event{
		Type: event.TowerRemoved,
		Data: event.TowerData{TowerID: t.ID, Kind: t.Kind, Cell: t.Cell},
	})
}

// UpgradeTower spends gold to raise the tower one level.
func (g *Game) UpgradeTower(id types.EntityID) error {
	t := g.World.Tower(id)
	if t == nil {
		return ErrTowerNotFound
	}
	if !t.CanUpgrade() {
		return ErrMaxLevel
	}
	cost := t.UpgradeCost()
	if g.Gold < cost {
		return fmt.Errorf("%w: need %d, have %d", ErrNotEnoughGold, cost, g.Gold)
	}
	g.Gold -= cost
	prev := t.Level
	t.Upgrade()
	g.EventDispatcher.Dispatch(event.Event{
		Type: event.TowerLeveled,
		Data: event.TowerLeveledData{TowerID: t.ID, Level: t.Level, PreviousLevel: prev, Kills: t.Kills},
	})
	return nil
}

func (g *Game) SetTargetingMode(id types.EntityID, mode defs.TargetingMode) error {
	t := g.World.Tower(id)
	if t == nil {
		return ErrTowerNotFound
	}
	if !t.SetTargetingMode(mode) {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	return nil
}

// CycleTargetingMode switches the tower to the next mode and returns it.
func (g *Game) CycleTargetingMode(id types.EntityID) (defs.TargetingMode, error) {
	t := g.World.Tower(id)
	if t == nil {
		return "", ErrTowerNotFound
	}
	t.SetTargetingMode(t.TargetingMode.Next())
	return t.TargetingMode, nil
}

// CombineTowers fuses 2-3 towers into a tier-2 tower on the first tower's cell.
// The other towers are removed and their cost is folded into the result.
func (g *Game) CombineTowers(ids []types.EntityID) (*entity.Tower, error) {
	if g.gameOver {
		return nil, ErrGameOver
	}
	if len(ids) < config.FusionMinTowers || len(ids) > config.FusionMaxTowers {
		return nil, ErrInvalidFusion
	}
	towers := make([]*entity.Tower, 0, len(ids))
	seen := make(map[types.EntityID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, ErrInvalidFusion
		}
		seen[id] = true
		t := g.World.Tower(id)
		if t == nil {
			return nil, fmt.Errorf("%w: %d", ErrTowerNotFound, id)
		}
		towers = append(towers, t)
	}

	result := towers[0]
	for _, t := range towers[1:] {
		result.Cost += t.Cost
		result.Kills += t.Kills
		g.removeTower(t)
	}
	result.Fuse(len(towers))
	// суммарные убийства могут дать новый уровень; купленный уровень не теряется
	if level := defs.LevelForKills(result.Kills); level > result.Level {
		result.SetLevel(level)
	}

	g.log.Info().Uint64("tower", uint64(result.ID)).Int("parts", len(towers)).Msg("towers fused")
	return result, nil
}

// SetSpawnWeights replaces the random-placement weights after validating them.
func (g *Game) SetSpawnWeights(w defs.SpawnWeights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	g.spawnWeights = w.Clone()
	return nil
}

func (g *Game) SpawnWeights() defs.SpawnWeights {
	return g.spawnWeights.Clone()
}

// TowersPlacedThisRound counts placements since the last completed wave.
func (g *Game) TowersPlacedThisRound() int {
	return g.towersPlaced
}

func (g *Game) MaxTowersPerRound() int {
	return g.opts.MaxTowersPerRound
}
