package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearspire/internal/config"
	"gearspire/internal/defs"
	"gearspire/internal/event"
	"gearspire/internal/types"
	"gearspire/pkg/gridmap"
)

func TestPlaceTowerRoundLimit(t *testing.T) {
	g, rec := newTestGame(t)

	for x := 5; x < 5+config.MaxTowersPerRound; x++ {
		_, err := g.PlaceTower(x, 2, defs.GearTurret)
		require.NoError(t, err)
	}
	assert.False(t, g.CanPlaceTower(12, 2))
	_, err := g.PlaceTower(12, 2, defs.GearTurret)
	assert.ErrorIs(t, err, ErrRoundLimit)
	assert.Equal(t, config.MaxTowersPerRound, rec.count(event.TowerPlaced))

	// ящики не считаются
	assert.NoError(t, g.PlaceCrate(12, 2))

	require.True(t, g.StartWave())
	g.WaveSystem.SkipWave()
	assert.Zero(t, g.TowersPlacedThisRound())
	_, err = g.PlaceTower(13, 2, defs.GearTurret)
	assert.NoError(t, err)
}

func TestPlaceTowerRejectsInvalidCells(t *testing.T) {
	g, _ := newTestGame(t)

	cases := map[string]gridmap.Point{
		"out of bounds": {X: -1, Y: 0},
		"spawn":         g.Grid.Spawn,
		"goal":          g.Grid.Goal,
		"no-build zone": {X: 1, Y: 8},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := g.PlaceTower(p.X, p.Y, defs.GearTurret)
			assert.ErrorIs(t, err, ErrInvalidPlacement)
		})
	}

	_, err := g.PlaceTower(5, 2, defs.GearTurret)
	require.NoError(t, err)
	_, err = g.PlaceTower(5, 2, defs.GearTurret)
	assert.ErrorIs(t, err, ErrInvalidPlacement, "occupied")
	assert.Equal(t, 1, g.TowersPlacedThisRound())
}

func TestPlaceTowerCannotSealTheGoal(t *testing.T) {
	g, _ := newTestGame(t)
	goal := g.Grid.Goal
	require.NoError(t, g.PlaceCrate(goal.X-1, goal.Y))
	require.NoError(t, g.PlaceCrate(goal.X, goal.Y-1))

	_, err := g.PlaceTower(goal.X, goal.Y+1, defs.GearTurret)
	assert.ErrorIs(t, err, ErrInvalidPlacement)
	assert.True(t, g.Grid.HasValidPath())
}

func TestPlaceRandomTowerUsesSpawnWeights(t *testing.T) {
	g, _ := newTestGame(t)
	require.NoError(t, g.SetSpawnWeights(defs.SpawnWeights{
		defs.GearTurret:     0,
		defs.SteamCannon:    0,
		defs.TeslaCoil:      50,
		defs.FrostCondenser: 50,
		defs.PoisonGasVent:  0,
	}))

	for x := 5; x < 10; x++ {
		tw, err := g.PlaceRandomTower(x, 2)
		require.NoError(t, err)
		assert.Contains(t, []defs.TowerKind{defs.TeslaCoil, defs.FrostCondenser}, tw.Kind)
	}
}

func TestSetSpawnWeightsValidates(t *testing.T) {
	g, _ := newTestGame(t)
	before := g.SpawnWeights()

	err := g.SetSpawnWeights(defs.SpawnWeights{defs.GearTurret: 100})
	assert.Error(t, err)
	assert.Equal(t, before, g.SpawnWeights())

	w := g.SpawnWeights()
	w[defs.GearTurret] = 0
	assert.Equal(t, 20, g.SpawnWeights()[defs.GearTurret], "copy is detached")
}

func TestCratePlaceAndRemove(t *testing.T) {
	g, _ := newTestGame(t)

	require.NoError(t, g.PlaceCrate(4, 4))
	assert.ErrorIs(t, g.PlaceCrate(4, 4), ErrInvalidPlacement)
	assert.Zero(t, g.TowersPlacedThisRound())

	require.NoError(t, g.RemoveCrate(4, 4))
	assert.ErrorIs(t, g.RemoveCrate(4, 4), ErrNoCrate)
	c, _ := g.Grid.GetCell(4, 4)
	assert.Equal(t, gridmap.CellEmpty, c.Type)
}

func TestSellTowerRefunds(t *testing.T) {
	g, rec := newTestGame(t)
	tw, err := g.PlaceTower(5, 2, defs.SteamCannon)
	require.NoError(t, err)
	assert.Equal(t, tw, g.TowerAt(5, 2))

	refund, err := g.SellTower(tw.ID)
	require.NoError(t, err)
	assert.Equal(t, 35, refund)
	assert.Equal(t, config.StartingGold+35, g.Gold)
	assert.Nil(t, g.TowerAt(5, 2))
	assert.Empty(t, g.World.Towers)
	assert.Equal(t, 1, rec.count(event.TowerRemoved))

	c, _ := g.Grid.GetCell(5, 2)
	assert.Equal(t, gridmap.CellEmpty, c.Type)
	assert.Zero(t, c.TowerID)

	_, err = g.SellTower(tw.ID)
	assert.ErrorIs(t, err, ErrTowerNotFound)
}

func TestUpgradeTowerSpendsGold(t *testing.T) {
	g, rec := newTestGame(t)
	tw, err := g.PlaceTower(5, 2, defs.GearTurret)
	require.NoError(t, err)
	baseDamage := tw.Damage

	require.NoError(t, g.UpgradeTower(tw.ID))
	assert.Equal(t, 2, tw.Level)
	assert.Equal(t, config.StartingGold-25, g.Gold)
	assert.Greater(t, tw.Damage, baseDamage)
	require.Equal(t, 1, rec.count(event.TowerLeveled))

	g.Gold = 10
	assert.ErrorIs(t, g.UpgradeTower(tw.ID), ErrNotEnoughGold)
	assert.Equal(t, 2, tw.Level)

	g.Gold = 1000
	tw.SetLevel(config.MaxTowerLevel)
	assert.ErrorIs(t, g.UpgradeTower(tw.ID), ErrMaxLevel)
	assert.ErrorIs(t, g.UpgradeTower(999), ErrTowerNotFound)
}

func TestTargetingModes(t *testing.T) {
	g, _ := newTestGame(t)
	tw, err := g.PlaceTower(5, 2, defs.GearTurret)
	require.NoError(t, err)

	require.NoError(t, g.SetTargetingMode(tw.ID, defs.TargetStrongest))
	assert.Equal(t, defs.TargetStrongest, tw.TargetingMode)

	assert.ErrorIs(t, g.SetTargetingMode(tw.ID, "weakest"), ErrInvalidMode)
	assert.Equal(t, defs.TargetStrongest, tw.TargetingMode)

	mode, err := g.CycleTargetingMode(tw.ID)
	require.NoError(t, err)
	assert.Equal(t, defs.TargetClosest, mode)

	_, err = g.CycleTargetingMode(999)
	assert.ErrorIs(t, err, ErrTowerNotFound)
}

func TestCombineTowers(t *testing.T) {
	g, rec := newTestGame(t)
	var ids []types.EntityID
	for x := 5; x < 8; x++ {
		tw, err := g.PlaceTower(x, 2, defs.TeslaCoil)
		require.NoError(t, err)
		tw.Kills = x - 4
		ids = append(ids, tw.ID)
	}
	base := defs.Tower(defs.TeslaCoil)

	fused, err := g.CombineTowers(ids)
	require.NoError(t, err)

	assert.Equal(t, ids[0], fused.ID)
	assert.Equal(t, 2, fused.Tier)
	assert.Equal(t, 3, fused.FusedFrom)
	assert.Equal(t, gridmap.Point{X: 5, Y: 2}, fused.Cell)
	assert.Equal(t, 150, fused.Cost)
	assert.Equal(t, 1+2+3, fused.Kills)
	assert.Equal(t, 1, fused.Level)
	assert.InDelta(t, 37, fused.Damage, 1e-9) // floor(15 * 2.5)
	assert.InDelta(t, base.Range*1.6, fused.Range, 1e-9)
	assert.Equal(t, 60, fused.FireRate)
	require.Len(t, g.World.Towers, 1)
	assert.Equal(t, 2, rec.count(event.TowerRemoved))

	for _, x := range []int{6, 7} {
		c, _ := g.Grid.GetCell(x, 2)
		assert.Equal(t, gridmap.CellEmpty, c.Type)
	}
}

func TestCombineTowersRejectsBadInput(t *testing.T) {
	g, _ := newTestGame(t)
	a, err := g.PlaceTower(5, 2, defs.GearTurret)
	require.NoError(t, err)
	b, err := g.PlaceTower(6, 2, defs.GearTurret)
	require.NoError(t, err)

	_, err = g.CombineTowers([]types.EntityID{a.ID})
	assert.ErrorIs(t, err, ErrInvalidFusion)
	_, err = g.CombineTowers([]types.EntityID{a.ID, a.ID})
	assert.ErrorIs(t, err, ErrInvalidFusion)
	_, err = g.CombineTowers([]types.EntityID{a.ID, b.ID, 99})
	assert.ErrorIs(t, err, ErrTowerNotFound)
	_, err = g.CombineTowers([]types.EntityID{a.ID, b.ID, a.ID, b.ID})
	assert.ErrorIs(t, err, ErrInvalidFusion)

	assert.Len(t, g.World.Towers, 2)
	assert.Equal(t, 1, a.Tier)
}

func TestCombineTowersLevelsFromSummedKills(t *testing.T) {
	g, _ := newTestGame(t)
	a, err := g.PlaceTower(5, 2, defs.TeslaCoil)
	require.NoError(t, err)
	b, err := g.PlaceTower(6, 2, defs.TeslaCoil)
	require.NoError(t, err)
	a.Kills, b.Kills = 10, 5

	fused, err := g.CombineTowers([]types.EntityID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, 15, fused.Kills)
	assert.Equal(t, defs.LevelForKills(15), fused.Level)
	assert.Equal(t, 2, fused.Level)
	// floor(floor(15 * 2) * 1.25)
	assert.Equal(t, 37.0, fused.Damage)

	c, err := g.PlaceTower(7, 2, defs.TeslaCoil)
	require.NoError(t, err)
	c.SetLevel(4)
	d, err := g.PlaceTower(8, 2, defs.TeslaCoil)
	require.NoError(t, err)
	again, err := g.CombineTowers([]types.EntityID{c.ID, d.ID})
	require.NoError(t, err)
	assert.Equal(t, 4, again.Level, "bought levels are kept")
}

func TestCombineTowersAfterGameOver(t *testing.T) {
	g, _ := newTestGame(t)
	a, err := g.PlaceTower(5, 2, defs.GearTurret)
	require.NoError(t, err)
	b, err := g.PlaceTower(6, 2, defs.GearTurret)
	require.NoError(t, err)

	g.Lives = 0
	g.Update()
	require.True(t, g.IsGameOver())

	_, err = g.CombineTowers([]types.EntityID{a.ID, b.ID})
	assert.ErrorIs(t, err, ErrGameOver)
	assert.Len(t, g.World.Towers, 2)
	assert.Equal(t, 1, a.Tier)
}
