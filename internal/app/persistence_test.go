package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearspire/internal/defs"
	"gearspire/internal/save"
	"gearspire/internal/types"
	"gearspire/pkg/gridmap"
)

func TestCaptureRestoreRoundTrip(t *testing.T) {
	g, _ := newTestGame(t)
	require.NoError(t, g.PlaceCrate(10, 3))
	require.NoError(t, g.PlaceCrate(14, 12))
	tw, err := g.PlaceTower(12, 2, defs.SteamCannon)
	require.NoError(t, err)
	tw.SetLevel(3)
	tw.Kills = 7
	require.NoError(t, g.SetTargetingMode(tw.ID, defs.TargetStrongest))
	require.NoError(t, g.SetSpawnWeights(defs.SpawnWeights{
		defs.GearTurret: 40, defs.SteamCannon: 10, defs.TeslaCoil: 10, defs.FrostCondenser: 20, defs.PoisonGasVent: 20,
	}))
	require.True(t, g.StartWave())
	for i := 0; i < 40; i++ {
		g.Update()
	}
	require.NotEmpty(t, g.World.Creeps)
	g.World.Creeps[0].ApplySlow(0.5, 90)

	before := g.Capture()
	data, err := save.Encode(before)
	require.NoError(t, err)
	decoded, err := save.Decode(data)
	require.NoError(t, err)

	g2, _ := newTestGame(t)
	require.NoError(t, g2.Restore(decoded))
	after := g2.Capture()

	after.SavedAt = before.SavedAt
	assert.Equal(t, before, after)

	rt := g2.TowerAt(12, 2)
	require.NotNil(t, rt)
	assert.Equal(t, 3, rt.Level)
	assert.Equal(t, tw.Damage, rt.Damage)
	assert.Equal(t, defs.TargetStrongest, rt.TargetingMode)
	c, _ := g2.Grid.GetCell(10, 3)
	assert.Equal(t, gridmap.CellCrate, c.Type)
	assert.Equal(t, g.WaveSystem.WaveProgress(), g2.WaveSystem.WaveProgress())
	assert.True(t, g2.World.Creeps[0].Slowed())

	// both copies keep simulating identically
	for i := 0; i < 30; i++ {
		g.Update()
		g2.Update()
	}
	assert.Equal(t, g.Snapshot().Creeps, g2.Snapshot().Creeps)
}

func TestRestoreSkipsIncompleteEntities(t *testing.T) {
	g, _ := newTestGame(t)
	st := &save.SaveState{
		Version: save.CurrentVersion,
		Grid: save.GridState{Cells: []save.CellState{
			{X: ptr(3), Y: ptr(3), Type: "crate"},
			{X: ptr(4), Type: "crate"},
			{X: ptr(5), Y: ptr(5), Type: "lava"},
		}},
		Towers: []save.TowerState{
			{ID: 4, Type: "tesla_coil", X: ptr(6), Y: ptr(2), Level: 2},
			{ID: 5, Type: "tesla_coil", Y: ptr(2)},
			{ID: 6, X: ptr(7), Y: ptr(2)},
			{ID: 7, Type: "gear_turret", X: ptr(3), Y: ptr(3)}, // на ящике
		},
		Wave: save.WaveState{
			Current: 2,
			Creeps: []save.CreepState{
				{ID: 10, Type: "golem", X: ptr(60.0), Y: ptr(340.0)},
				{ID: 11, X: ptr(60.0), Y: ptr(340.0)},
				{ID: 12, Type: "scout", Y: ptr(340.0)},
			},
		},
	}

	require.NoError(t, g.Restore(st))

	c, _ := g.Grid.GetCell(3, 3)
	assert.Equal(t, gridmap.CellCrate, c.Type)
	c, _ = g.Grid.GetCell(5, 5)
	assert.Equal(t, gridmap.CellEmpty, c.Type)

	require.Len(t, g.World.Towers, 1)
	assert.EqualValues(t, 4, g.World.Towers[0].ID)
	assert.Equal(t, 2, g.World.Towers[0].Level)

	require.Len(t, g.World.Creeps, 1)
	golem := g.World.Creeps[0]
	assert.Equal(t, defs.Golem, golem.Kind)
	assert.Equal(t, 360.0, golem.Health.Max, "wave 2 scaling by default")
	assert.Equal(t, golem.Health.Max, golem.Health.Value)
	assert.NotEmpty(t, golem.Path.Points, "missing path falls back to the grid route")

	// missing lives fall back to the configured default
	assert.Equal(t, g.opts.Lives, g.Lives)
	assert.Equal(t, defs.DefaultSpawnWeights(), g.SpawnWeights())

	next := g.World.NewEntity()
	assert.Greater(t, uint64(next), uint64(10))
}

func TestRestoreRejectsBadSpawnWeights(t *testing.T) {
	g, _ := newTestGame(t)
	st := &save.SaveState{
		Version:      save.CurrentVersion,
		SpawnWeights: map[string]int{"gear_turret": 100},
	}
	require.NoError(t, g.Restore(st))
	assert.Equal(t, defs.DefaultSpawnWeights(), g.SpawnWeights())
}

func TestRestoreVersionOneSave(t *testing.T) {
	raw := `{
		"version": 1,
		"lives": 4,
		"gold": 80,
		"towers": [{"id": 3, "type": "steam_cannon", "x": 4, "y": 4, "level": 0, "targetingMode": "bogus"}],
		"wave": {"current": 3}
	}`
	st, err := save.Decode([]byte(raw))
	require.NoError(t, err)

	g, _ := newTestGame(t)
	require.NoError(t, g.Restore(st))

	assert.Equal(t, 4, g.Lives)
	assert.Equal(t, 80, g.Gold)
	assert.Equal(t, 3, g.WaveSystem.CurrentWave())
	require.Len(t, g.World.Towers, 1)
	tw := g.World.Towers[0]
	assert.Equal(t, 1, tw.Level)
	assert.Equal(t, 1, tw.Tier)
	assert.Zero(t, tw.Kills)
	assert.Equal(t, defs.TargetFirst, tw.TargetingMode)
}

func TestRestoreWithNoLivesIsGameOver(t *testing.T) {
	g, _ := newTestGame(t)
	require.NoError(t, g.Restore(&save.SaveState{Version: 2, Lives: ptr(0)}))
	assert.True(t, g.IsGameOver())
}

func TestRestoreUnsupportedVersion(t *testing.T) {
	g, _ := newTestGame(t)
	err := g.Restore(&save.SaveState{Version: save.CurrentVersion + 1})
	assert.ErrorIs(t, err, save.ErrUnsupportedVersion)
}

func TestRestoreReproducesTwiceFusedTower(t *testing.T) {
	g, _ := newTestGame(t)
	var ids []types.EntityID
	for x := 5; x < 8; x++ {
		tw, err := g.PlaceTower(x, 2, defs.GearTurret)
		require.NoError(t, err)
		ids = append(ids, tw.ID)
	}
	first, err := g.CombineTowers(ids)
	require.NoError(t, err)
	other, err := g.PlaceTower(9, 2, defs.GearTurret)
	require.NoError(t, err)
	fused, err := g.CombineTowers([]types.EntityID{first.ID, other.ID})
	require.NoError(t, err)
	require.Equal(t, 16.0, fused.Damage, "second fusion starts from the kind's stats")

	data, err := save.Encode(g.Capture())
	require.NoError(t, err)
	decoded, err := save.Decode(data)
	require.NoError(t, err)

	g2, _ := newTestGame(t)
	require.NoError(t, g2.Restore(decoded))
	rt := g2.TowerAt(5, 2)
	require.NotNil(t, rt)
	assert.Equal(t, fused.Tier, rt.Tier)
	assert.Equal(t, fused.Damage, rt.Damage)
	assert.Equal(t, fused.Range, rt.Range)
	assert.Equal(t, fused.FireRate, rt.FireRate)
}

func TestRestoreSkipsPathSeveringObstructions(t *testing.T) {
	g, _ := newTestGame(t)
	var cells []save.CellState
	for y := 0; y < g.Grid.Height; y++ {
		cells = append(cells, save.CellState{X: ptr(10), Y: ptr(y), Type: "crate"})
	}
	spawn := g.Grid.Spawn
	st := &save.SaveState{
		Version: save.CurrentVersion,
		Gold:    100,
		Grid:    save.GridState{Width: g.Grid.Width, Height: g.Grid.Height, Cells: cells},
		Towers: []save.TowerState{
			{ID: 40, Type: "gear_turret", X: ptr(spawn.X + 1), Y: ptr(spawn.Y)}, // в зоне запрета
			{ID: 41, Type: "gear_turret", X: ptr(4), Y: ptr(4)},
		},
	}
	require.NoError(t, g.Restore(st))

	require.True(t, g.Grid.HasValidPath())
	crates := 0
	for _, c := range g.Grid.NonEmptyCells() {
		if c.Type == gridmap.CellCrate {
			crates++
		}
	}
	assert.Equal(t, g.Grid.Height-1, crates, "the crate that would seal the wall is dropped")
	require.Len(t, g.World.Towers, 1)
	assert.EqualValues(t, 41, g.World.Towers[0].ID)

	require.True(t, g.StartWave())
	g.Update()
	assert.True(t, g.WaveSystem.IsWaveInProgress())
	assert.Equal(t, 100, g.Gold)
}

func TestRestoreRejectsOtherGridSize(t *testing.T) {
	g, _ := newTestGame(t)
	st := &save.SaveState{
		Version: save.CurrentVersion,
		Gold:    55,
		Grid:    save.GridState{Width: 20, Height: g.Grid.Height},
	}
	err := g.Restore(st)
	assert.ErrorIs(t, err, ErrGridMismatch)
	assert.NotEqual(t, 55, g.Gold, "rejected save leaves the game untouched")
}
