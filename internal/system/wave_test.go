package system

import (
	"slices"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearspire/internal/config"
	"gearspire/internal/defs"
	"gearspire/internal/entity"
	"gearspire/internal/event"
	"gearspire/internal/utils"
	"gearspire/pkg/gridmap"
)

func newWave(f *fixture) *WaveSystem {
	return NewWaveSystem(f.world, f.grid, f.disp, f.player, utils.NewPRNGService(42), nop())
}

func TestStartWaveBuildsSortedQueue(t *testing.T) {
	f := newFixture()
	s := newWave(f)

	require.True(t, s.StartWave())
	assert.False(t, s.StartWave(), "already in progress")
	assert.Equal(t, 1, s.CurrentWave())
	assert.True(t, s.IsWaveInProgress())
	assert.Equal(t, 1, f.rec.count(event.WaveStarted))

	st := s.State()
	require.Len(t, st.Queue, defs.EnemyCount(1))
	assert.True(t, sort.SliceIsSorted(st.Queue, func(i, j int) bool { return st.Queue[i].Tick < st.Queue[j].Tick }))
	for i, e := range st.Queue {
		assert.GreaterOrEqual(t, e.Tick, 0)
		assert.LessOrEqual(t, e.Tick, (len(st.Queue)-1)*config.SpawnDelay+config.SpawnJitter, "entry %d", i)
		// wave 1 only rolls raiders and scouts
		assert.Contains(t, []defs.CreepKind{defs.Raider, defs.Scout}, e.Kind)
	}
}

func TestWaveQueueIsDeterministicForSeed(t *testing.T) {
	a, b := newFixture(), newFixture()
	wa, wb := newWave(a), newWave(b)
	wa.StartWave()
	wb.StartWave()
	assert.Equal(t, wa.State().Queue, wb.State().Queue)
}

func TestWaveSpawnsScaledCreeps(t *testing.T) {
	f := newFixture()
	s := newWave(f)
	s.Restore(WaveState{Current: 2})
	s.StartWave()
	require.Equal(t, 3, s.CurrentWave())

	for i := 0; i < config.SpawnJitter+1; i++ {
		s.Update()
	}
	require.NotEmpty(t, f.world.Creeps, "the first entry is due by tick 10")
	c := f.world.Creeps[0]
	base := defs.Enemy(c.Kind)
	assert.Equal(t, base.Health*1.4, c.Health.Max)
	assert.InDelta(t, base.Speed*1.04, c.Velocity.BaseSpeed, 1e-9)
	assert.Less(t, s.Pending(), defs.EnemyCount(3))
}

func TestWaveCompletesOnceQueueAndCreepsAreGone(t *testing.T) {
	f := newFixture()
	s := newWave(f)
	s.StartWave()
	for i := 0; i < 40; i++ {
		s.Update()
	}
	require.NotEmpty(t, f.world.Creeps)

	s.queue = nil
	s.KillAllEnemies()
	assert.True(t, s.IsWaveInProgress())

	s.Update()
	assert.False(t, s.IsWaveInProgress())
	assert.Equal(t, 1, f.rec.count(event.WaveCompleted))
	assert.Equal(t, 1, f.player.resets)

	s.Update()
	assert.Equal(t, 1, f.rec.count(event.WaveCompleted), "completion fires once")
	assert.Equal(t, 1.0, s.WaveProgress())
}

func TestWaveRewardsKillExactlyOnce(t *testing.T) {
	f := newFixture()
	s := newWave(f)
	s.StartWave()
	s.queue = nil

	c := f.creepAt(defs.Raider, 20, 340)
	f.creepAt(defs.Raider, 20, 340)
	c.TakeDamageFrom(500, true, 9)

	s.Update()
	require.Equal(t, 1, f.rec.count(event.EnemyKilled))
	data := f.rec.events[1].Data.(event.EnemyKilledData)
	assert.Equal(t, c.ID, data.EnemyID)
	assert.EqualValues(t, 9, data.TowerID)
	assert.Equal(t, 10, f.player.gold)
	assert.Equal(t, 100, f.player.score)
	assert.Len(t, f.world.Creeps, 1)

	s.Update()
	assert.Equal(t, 1, f.rec.count(event.EnemyKilled))
}

func TestWaveLeakCostsLife(t *testing.T) {
	f := newFixture()
	s := newWave(f)
	s.StartWave()
	s.queue = nil

	c := f.creepAt(defs.Scout, 0, 0)
	c.SetPath([]gridmap.Point{f.grid.Goal})
	c.X, c.Y = f.grid.GridToWorld(f.grid.Goal)

	s.Update()
	assert.Equal(t, 19, f.player.lives)
	assert.Equal(t, 1, f.rec.count(event.EnemyLeaked))
	assert.Zero(t, f.rec.count(event.EnemyKilled))
	assert.False(t, s.IsWaveInProgress())
	assert.Equal(t, defs.WaveBonusGold(1), f.player.gold)
	assert.Equal(t, config.WaveScorePerWave, f.player.score)
}

func TestWaveRepathsAroundNewObstruction(t *testing.T) {
	f := newFixture()
	s := newWave(f)
	s.StartWave()
	s.queue = nil

	c := f.creepAt(defs.Golem, 20, 340)
	blocked := gridmap.Point{X: 5, Y: 8}
	require.Contains(t, c.Path.Points, blocked)

	require.True(t, f.grid.CanPlaceCrate(blocked.X, blocked.Y))
	f.grid.SetCell(blocked.X, blocked.Y, gridmap.CellCrate, 0)
	s.Update()

	assert.NotContains(t, c.Path.Points, blocked)
	assert.Equal(t, f.grid.Goal, c.Path.Points[len(c.Path.Points)-1])
}

func TestFirstTargetingSurvivesRepath(t *testing.T) {
	f := newFixture()
	s := newWave(f)
	c := newCombat(f)
	s.StartWave()
	s.queue = nil

	row := make([]gridmap.Point, 0, f.grid.Width)
	for x := 0; x < f.grid.Width; x++ {
		row = append(row, gridmap.Point{X: x, Y: f.grid.Spawn.Y})
	}
	place := func(idx int) *entity.Creep {
		cr := f.creepAt(defs.Raider, 0, 0)
		cr.SetPath(slices.Clone(row))
		cr.Path.CurrentIndex = idx
		cr.X, cr.Y = f.grid.GridToWorld(row[idx-1])
		return cr
	}
	trail := place(11)
	lead := place(13)

	tw := f.tower(defs.GearTurret, gridmap.Point{X: 11, Y: f.grid.Spawn.Y - 1})
	require.Same(t, lead, c.FindTarget(tw, f.world.LiveCreeps()))

	crate := gridmap.Point{X: 16, Y: f.grid.Spawn.Y}
	require.True(t, f.grid.CanPlaceCrate(crate.X, crate.Y))
	f.grid.SetCell(crate.X, crate.Y, gridmap.CellCrate, 0)
	s.Update()

	require.NotContains(t, lead.Path.Points, crate)
	require.NotContains(t, trail.Path.Points, crate)
	assert.Less(t, lead.Remaining(), trail.Remaining())
	assert.Same(t, lead, c.FindTarget(tw, f.world.LiveCreeps()), "lead creep stays first after both repath")
}

func TestNextWaveInfo(t *testing.T) {
	f := newFixture()
	s := newWave(f)
	info := s.NextWaveInfo()
	assert.Equal(t, 1, info.WaveNumber)
	assert.Equal(t, 12, info.EnemyCount)
	assert.Equal(t, 6, info.EstimatedSeconds)
	assert.Equal(t, 25, info.BonusGold)
	assert.Len(t, info.Weights, 5)
}

func TestSkipAndReset(t *testing.T) {
	f := newFixture()
	s := newWave(f)
	s.StartWave()
	s.Update()
	s.SkipWave()
	assert.False(t, s.IsWaveInProgress())
	assert.Empty(t, f.world.Creeps)
	assert.Zero(t, s.Pending())
	assert.Equal(t, 1, f.rec.count(event.WaveCompleted))

	s.SkipWave()
	assert.Equal(t, 1, f.rec.count(event.WaveCompleted), "idle skip is a no-op")

	s.Reset()
	assert.Zero(t, s.CurrentWave())
	assert.Equal(t, 1, s.NextWaveInfo().WaveNumber)
}

func TestWaveRestoreKeepsQueueOrder(t *testing.T) {
	f := newFixture()
	s := newWave(f)
	s.Restore(WaveState{
		Current:    4,
		InProgress: true,
		SpawnTimer: 12,
		Queue:      []SpawnEntry{{Kind: defs.Golem, Tick: 90}, {Kind: defs.Raider, Tick: 30}},
	})
	st := s.State()
	assert.Equal(t, 4, st.Current)
	assert.Equal(t, []SpawnEntry{{Kind: defs.Raider, Tick: 30}, {Kind: defs.Golem, Tick: 90}}, st.Queue)
	assert.Equal(t, 2, st.Total)
	assert.InDelta(t, 0, s.WaveProgress(), 1e-9)
}
