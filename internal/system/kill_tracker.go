// internal/system/kill_tracker.go
package system

import (
	"github.com/rs/zerolog"

	"gearspire/internal/defs"
	"gearspire/internal/entity"
	"gearspire/internal/event"
)

// KillTracker считает убийства башен и повышает их уровень по порогам.
type KillTracker struct {
	world      *entity.World
	dispatcher *event.Dispatcher
	log        zerolog.Logger
}

// NewKillTracker subscribes the tracker to EnemyKilled.
func NewKillTracker(world *entity.World, dispatcher *event.Dispatcher, log zerolog.Logger) *KillTracker {
	kt := &KillTracker{
		world:      world,
		dispatcher: dispatcher,
		log:        log.With().Str("system", "kills").Logger(),
	}
	dispatcher.Subscribe(event.EnemyKilled, kt)
	return kt
}

func (kt *KillTracker) OnEvent(e event.Event) {
	data, ok := e.Data.(event.EnemyKilledData)
	if !ok || data.TowerID == 0 {
		return
	}
	t := kt.world.Tower(data.TowerID)
	if t == nil {
		// башню могли продать, пока снаряд летел
		return
	}
	t.Kills++

	// уровень от убийств только растёт, купленные уровни не отбираются
	level := defs.LevelForKills(t.Kills)
	if level <= t.Level {
		return
	}
	prev := t.Level
	t.SetLevel(level)
	kt.log.Info().
		Uint64("tower", uint64(t.ID)).
		Int("level", t.Level).
		Int("kills", t.Kills).
		Msg("tower leveled")
	kt.dispatcher.Dispatch(event.Event{
		Type: event.TowerLeveled,
		Data: event.TowerLeveledData{TowerID: t.ID, Level: t.Level, PreviousLevel: prev, Kills: t.Kills},
	})
}
