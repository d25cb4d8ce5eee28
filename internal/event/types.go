// internal/event/types.go
package event

import (
	"gearspire/internal/defs"
	"gearspire/internal/types"
	"gearspire/pkg/gridmap"
)

const (
	EnemyKilled   EventType = "EnemyKilled"   // Враг уничтожен
	EnemyLeaked   EventType = "EnemyLeaked"   // Враг дошёл до цели
	WaveStarted   EventType = "WaveStarted"   // Волна началась
	WaveCompleted EventType = "WaveCompleted" // Волна закончилась
	TowerPlaced   EventType = "TowerPlaced"   // Башня построена
	TowerRemoved  EventType = "TowerRemoved"
	TowerLeveled  EventType = "TowerLeveled"
	GameOver      EventType = "GameOver"
)

// EnemyKilledData is published exactly once per creep death.
// TowerID is 0 when no tower can be credited.
type EnemyKilledData struct {
	EnemyID   types.EntityID
	EnemyKind defs.CreepKind
	TowerID   types.EntityID
	Gold      int
}

type EnemyLeakedData struct {
	EnemyID   types.EntityID
	EnemyKind defs.CreepKind
	LivesLeft int
}

type WaveData struct {
	Wave       int
	EnemyCount int
}

type TowerData struct {
	TowerID types.EntityID
	Kind    defs.TowerKind
	Cell    gridmap.Point
}

type TowerLeveledData struct {
	TowerID       types.EntityID
	Level         int
	PreviousLevel int
	Kills         int
}

type GameOverData struct {
	Score int
	Wave  int
}
