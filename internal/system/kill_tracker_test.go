package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearspire/internal/defs"
	"gearspire/internal/event"
	"gearspire/internal/types"
	"gearspire/pkg/gridmap"
)

func kill(f *fixture, tower types.EntityID) {
	f.disp.Dispatch(event.Event{Type: event.EnemyKilled, Data: event.EnemyKilledData{EnemyID: 1000, TowerID: tower}})
}

func TestKillTrackerLevelsOnThreshold(t *testing.T) {
	f := newFixture()
	NewKillTracker(f.world, f.disp, nop())
	tw := f.tower(defs.GearTurret, gridmap.Point{X: 4, Y: 4})
	baseDamage := tw.Damage

	for i := 0; i < 14; i++ {
		kill(f, tw.ID)
	}
	assert.Equal(t, 14, tw.Kills)
	assert.Equal(t, 1, tw.Level)
	assert.Zero(t, f.rec.count(event.TowerLeveled))

	kill(f, tw.ID)
	assert.Equal(t, 2, tw.Level)
	assert.Equal(t, 10.0, tw.Damage, "floor(8 * 1.25)")
	assert.Greater(t, tw.Damage, baseDamage)
	require.Equal(t, 1, f.rec.count(event.TowerLeveled))

	var leveled event.TowerLeveledData
	for _, e := range f.rec.events {
		if e.Type == event.TowerLeveled {
			leveled = e.Data.(event.TowerLeveledData)
		}
	}
	assert.Equal(t, event.TowerLeveledData{TowerID: tw.ID, Level: 2, PreviousLevel: 1, Kills: 15}, leveled)
}

func TestKillTrackerKeepsBoughtLevels(t *testing.T) {
	f := newFixture()
	NewKillTracker(f.world, f.disp, nop())
	tw := f.tower(defs.GearTurret, gridmap.Point{X: 4, Y: 4})
	tw.SetLevel(3)

	for i := 0; i < 40; i++ {
		kill(f, tw.ID)
	}
	assert.Equal(t, 3, tw.Level, "40 kills is level 3, no change")
	assert.Zero(t, f.rec.count(event.TowerLeveled))

	for i := 0; i < 50; i++ {
		kill(f, tw.ID)
	}
	assert.Equal(t, 4, tw.Level)
}

func TestKillTrackerIgnoresUnattributedKills(t *testing.T) {
	f := newFixture()
	NewKillTracker(f.world, f.disp, nop())
	tw := f.tower(defs.GearTurret, gridmap.Point{X: 4, Y: 4})

	kill(f, 0)
	kill(f, 999)
	f.disp.Dispatch(event.Event{Type: event.EnemyKilled, Data: "garbage"})
	assert.Zero(t, tw.Kills)
}
