// internal/save/save.go
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gearspire/pkg/gridmap"
)

// CurrentVersion is written into every new save.
// Version 1 saves predate kill tracking and spawn weights.
const CurrentVersion = 2

var ErrUnsupportedVersion = errors.New("unsupported save version")

// SaveState — всё, что нужно, чтобы продолжить партию.
// Pointer fields are required for the entity to be restored; a missing one
// means the entity is skipped on load rather than invented.
type SaveState struct {
	Version               int            `json:"version"`
	SessionID             string         `json:"sessionId,omitempty"`
	SavedAt               time.Time      `json:"savedAt"`
	Tick                  int64          `json:"tick"`
	NextID                uint64         `json:"nextId,omitempty"`
	Lives                 *int           `json:"lives,omitempty"`
	Gold                  int            `json:"gold"`
	Score                 int            `json:"score"`
	TowersPlacedThisRound int            `json:"towersPlacedThisRound"`
	Grid                  GridState      `json:"grid"`
	Towers                []TowerState   `json:"towers"`
	SpawnWeights          map[string]int `json:"spawnWeights,omitempty"`
	Wave                  WaveState      `json:"wave"`
}

type GridState struct {
	Width    int         `json:"width"`
	Height   int         `json:"height"`
	TileSize float64     `json:"tileSize"`
	Cells    []CellState `json:"cells"`
}

// CellState — одна непустая клетка
type CellState struct {
	X    *int   `json:"x"`
	Y    *int   `json:"y"`
	Type string `json:"type"`
}

type TowerState struct {
	ID            uint64 `json:"id"`
	Type          string `json:"type"`
	X             *int   `json:"x"`
	Y             *int   `json:"y"`
	Level         int    `json:"level"`
	Tier          int    `json:"tier,omitempty"`
	FusedFrom     int    `json:"fusedFrom,omitempty"`
	TargetingMode string `json:"targetingMode"`
	Kills         int    `json:"kills"`
	Cost          int    `json:"cost,omitempty"`
	LastFireTick  *int64 `json:"lastFireTick,omitempty"`
}

type WaveState struct {
	Current    int          `json:"current"`
	InProgress bool         `json:"inProgress"`
	SpawnTimer int          `json:"spawnTimer"`
	Total      int          `json:"total,omitempty"`
	Queue      []SpawnState `json:"queue,omitempty"`
	Creeps     []CreepState `json:"creeps,omitempty"`
}

type SpawnState struct {
	Kind string `json:"kind"`
	Tick int    `json:"tick"`
}

type CreepState struct {
	ID             uint64          `json:"id"`
	Type           string          `json:"type"`
	X              *float64        `json:"x"`
	Y              *float64        `json:"y"`
	Health         *float64        `json:"health,omitempty"`
	MaxHealth      float64         `json:"maxHealth,omitempty"`
	BaseSpeed      float64         `json:"baseSpeed,omitempty"`
	Gold           int             `json:"gold,omitempty"`
	Shield         float64         `json:"shield,omitempty"`
	Regeneration   float64         `json:"regeneration,omitempty"`
	Path           []gridmap.Point `json:"path,omitempty"`
	PathIndex      int             `json:"pathIndex"`
	SlowMultiplier float64         `json:"slowMultiplier,omitempty"`
	SlowDuration   int             `json:"slowDuration,omitempty"`
	PoisonDamage   float64         `json:"poisonDamage,omitempty"`
	PoisonDuration int             `json:"poisonDuration,omitempty"`
	PoisonSource   uint64          `json:"poisonSource,omitempty"`
}

// Encode writes st as indented JSON, stamping the current version.
func Encode(st *SaveState) ([]byte, error) {
	st.Version = CurrentVersion
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return data, nil
}

// Decode parses a save of any supported version and migrates it to CurrentVersion.
func Decode(data []byte) (*SaveState, error) {
	var st SaveState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	if err := Migrate(&st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Migrate upgrades st in place. Unknown newer versions are refused.
func Migrate(st *SaveState) error {
	switch {
	case st.Version > CurrentVersion:
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, st.Version)
	case st.Version < 0:
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, st.Version)
	}
	if st.Version <= 1 {
		migrateV1(st)
	}
	st.Version = CurrentVersion
	return nil
}

// migrateV1: у первой версии не было убийств и тиров.
func migrateV1(st *SaveState) {
	for i := range st.Towers {
		t := &st.Towers[i]
		t.Kills = max(0, t.Kills)
		if t.Tier == 0 {
			t.Tier = 1
		}
		if t.Level < 1 {
			t.Level = 1
		}
	}
}
