package save

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearspire/pkg/gridmap"
)

func intp(v int) *int { return &v }

func TestEncodeDecode(t *testing.T) {
	x, y := 120.5, 340.0
	st := &SaveState{
		Version:   0,
		SessionID: "abc",
		SavedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Tick:      99,
		Lives:     intp(12),
		Gold:      40,
		Grid: GridState{Width: 28, Height: 17, TileSize: 40, Cells: []CellState{
			{X: intp(3), Y: intp(4), Type: "crate"},
		}},
		Towers: []TowerState{{ID: 2, Type: "tesla_coil", X: intp(5), Y: intp(2), Level: 2, Tier: 1, TargetingMode: "closest", Kills: 20}},
		Wave: WaveState{
			Current:    2,
			InProgress: true,
			Queue:      []SpawnState{{Kind: "scout", Tick: 60}},
			Creeps:     []CreepState{{ID: 9, Type: "raider", X: &x, Y: &y, Path: []gridmap.Point{{X: 0, Y: 8}, {X: 1, Y: 8}}, PathIndex: 1}},
		},
	}

	data, err := Encode(st)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, st.Version)
	assert.Contains(t, string(data), "\n  \"version\": 2")

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, st, got)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}

func TestMigrateVersionOne(t *testing.T) {
	st := &SaveState{
		Version: 1,
		Towers: []TowerState{
			{Type: "gear_turret", Level: 0, Kills: -3},
			{Type: "gear_turret", Level: 4, Tier: 2},
		},
	}
	require.NoError(t, Migrate(st))

	assert.Equal(t, CurrentVersion, st.Version)
	assert.Equal(t, TowerState{Type: "gear_turret", Level: 1, Tier: 1}, st.Towers[0])
	assert.Equal(t, 4, st.Towers[1].Level)
	assert.Equal(t, 2, st.Towers[1].Tier)
}

func TestMigrateRejectsUnknownVersions(t *testing.T) {
	for _, v := range []int{-1, CurrentVersion + 1} {
		assert.ErrorIs(t, Migrate(&SaveState{Version: v}), ErrUnsupportedVersion, "version %d", v)
	}

	data, _ := json.Marshal(map[string]any{"version": 7})
	_, err := Decode(data)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestMissingPositionStaysNil(t *testing.T) {
	st, err := Decode([]byte(`{"version":2,"towers":[{"id":1,"type":"gear_turret","y":3}]}`))
	require.NoError(t, err)
	require.Len(t, st.Towers, 1)
	assert.Nil(t, st.Towers[0].X)
	assert.NotNil(t, st.Towers[0].Y)
	assert.Nil(t, st.Lives)
}
