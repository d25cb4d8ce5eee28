package defs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTowerFallsBackToDefault(t *testing.T) {
	def := Tower("laser_cannon")
	assert.Equal(t, GearTurret, def.ID)
	assert.Equal(t, 45, def.FireRate)

	cannon := Tower(SteamCannon)
	assert.Equal(t, ProjectileCannonball, cannon.Projectile)
	assert.Equal(t, 25.0, cannon.Damage)
}

func TestEnemyFallsBackToRaider(t *testing.T) {
	assert.Equal(t, Raider, Enemy("dragon").ID)
	assert.Equal(t, 50.0, Enemy(Airship).Shield)
	assert.Equal(t, 1.0, Enemy(Spider).Regeneration)
}

func TestEnemyWeights(t *testing.T) {
	w1 := EnemyWeights(1)
	assert.Equal(t, []WeightedEntry{
		{ID: "raider", Weight: 9},
		{ID: "scout", Weight: 2},
		{ID: "golem", Weight: 0},
		{ID: "airship", Weight: 0},
		{ID: "spider", Weight: 0},
	}, w1)

	w12 := EnemyWeights(12)
	assert.Equal(t, 2, w12[0].Weight)
	assert.Equal(t, 8, w12[1].Weight)
	assert.Equal(t, 9, w12[2].Weight)
	assert.Equal(t, 7, w12[3].Weight)
	assert.Equal(t, 5, w12[4].Weight)
}

func TestScalingIsMonotonic(t *testing.T) {
	for w := 1; w < 60; w++ {
		assert.LessOrEqual(t, HealthMultiplier(w), HealthMultiplier(w+1))
		assert.LessOrEqual(t, GoldMultiplier(w), GoldMultiplier(w+1))
		assert.LessOrEqual(t, SpeedMultiplier(w), SpeedMultiplier(w+1))
		assert.LessOrEqual(t, EnemyCount(w), EnemyCount(w+1))
	}
	assert.Equal(t, 1.0, HealthMultiplier(1))
	assert.Equal(t, 12, EnemyCount(1))
	assert.Equal(t, 1.5, SpeedMultiplier(1000))
}

func TestLevelForKills(t *testing.T) {
	cases := map[int]int{0: 1, 14: 1, 15: 2, 39: 2, 40: 3, 90: 4, 179: 4, 180: 5, 10000: 5}
	for kills, level := range cases {
		assert.Equal(t, level, LevelForKills(kills), "kills=%d", kills)
	}
}

func TestSpawnWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultSpawnWeights().Validate())

	w := DefaultSpawnWeights()
	w[GearTurret] = 61
	w[SteamCannon] = 0
	w[TeslaCoil] = 0
	w[FrostCondenser] = 19
	w[PoisonGasVent] = 20
	assert.ErrorContains(t, w.Validate(), "exceeds cap")

	missing := DefaultSpawnWeights()
	delete(missing, PoisonGasVent)
	err := missing.Validate()
	assert.ErrorContains(t, err, "missing weight")
	assert.ErrorContains(t, err, "sum to 100")

	unknown := DefaultSpawnWeights()
	unknown["laser"] = 0
	assert.ErrorContains(t, unknown.Validate(), "unknown tower type")
}

func TestLoadTowerDefinitionsMerges(t *testing.T) {
	t.Cleanup(ResetLibraries)

	path := filepath.Join(t.TempDir(), "towers.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"tesla_coil","damage":30}]`), 0644))

	n, err := LoadTowerDefinitions(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 30.0, Tower(TeslaCoil).Damage)
	assert.Equal(t, 75, Tower(TeslaCoil).FireRate, "unset fields keep the built-in value")
}

func TestLoadDefinitionsErrors(t *testing.T) {
	t.Cleanup(ResetLibraries)
	dir := t.TempDir()

	_, err := LoadTowerDefinitions(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"id":"zeppelin","health":5}]`), 0644))
	_, err = LoadEnemyDefinitions(bad)
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Equal(t, 100.0, Enemy(Raider).Health)
}

func TestLoadOverrides(t *testing.T) {
	t.Cleanup(ResetLibraries)

	towers, enemies, err := LoadOverrides("", "")
	require.NoError(t, err)
	assert.Zero(t, towers+enemies)

	dir := t.TempDir()
	path := filepath.Join(dir, "enemies.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"golem","health":500}]`), 0644))
	towers, enemies, err = LoadOverrides("", path)
	require.NoError(t, err)
	assert.Equal(t, 0, towers)
	assert.Equal(t, 1, enemies)
	assert.Equal(t, 500.0, Enemy(Golem).Health)

	_, _, err = LoadOverrides(filepath.Join(dir, "missing.json"), path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
