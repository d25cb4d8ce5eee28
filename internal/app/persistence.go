// internal/app/persistence.go
package app

import (
	"errors"
	"fmt"
	"time"

	"gearspire/internal/defs"
	"gearspire/internal/entity"
	"gearspire/internal/save"
	"gearspire/internal/system"
	"gearspire/internal/types"
	"gearspire/pkg/gridmap"
)

// ErrGridMismatch is returned when a save was made on a grid of another size.
var ErrGridMismatch = errors.New("saved grid size does not match")

// Capture serialises the resumable state. Projectiles are not saved.
func (g *Game) Capture() *save.SaveState {
	lives := g.Lives
	st := &save.SaveState{
		Version:               save.CurrentVersion,
		SessionID:             g.SessionID,
		SavedAt:               time.Now().UTC(),
		Tick:                  g.World.Tick,
		NextID:                uint64(g.World.NextID),
		Lives:                 &lives,
		Gold:                  g.Gold,
		Score:                 g.Score,
		TowersPlacedThisRound: g.towersPlaced,
		Grid: save.GridState{
			Width:    g.Grid.Width,
			Height:   g.Grid.Height,
			TileSize: g.Grid.TileSize,
		},
		SpawnWeights: make(map[string]int, len(g.spawnWeights)),
	}

	for _, c := range g.Grid.NonEmptyCells() {
		// башни восстанавливаются из списка башен
		if c.Type == gridmap.CellTower {
			continue
		}
		st.Grid.Cells = append(st.Grid.Cells, save.CellState{X: ptr(c.X), Y: ptr(c.Y), Type: c.Type.String()})
	}

	for _, t := range g.World.Towers {
		st.Towers = append(st.Towers, save.TowerState{
			ID:            uint64(t.ID),
			Type:          string(t.Kind),
			X:             ptr(t.Cell.X),
			Y:             ptr(t.Cell.Y),
			Level:         t.Level,
			Tier:          t.Tier,
			FusedFrom:     t.FusedFrom,
			TargetingMode: string(t.TargetingMode),
			Kills:         t.Kills,
			Cost:          t.Cost,
			LastFireTick:  ptr(t.LastFireTick),
		})
	}

	for k, v := range g.spawnWeights {
		st.SpawnWeights[string(k)] = v
	}

	ws := g.WaveSystem.State()
	st.Wave = save.WaveState{
		Current:    ws.Current,
		InProgress: ws.InProgress,
		SpawnTimer: ws.SpawnTimer,
		Total:      ws.Total,
	}
	for _, e := range ws.Queue {
		st.Wave.Queue = append(st.Wave.Queue, save.SpawnState{Kind: string(e.Kind), Tick: e.Tick})
	}
	for _, c := range g.World.Creeps {
		if !c.Alive() {
			continue
		}
		st.Wave.Creeps = append(st.Wave.Creeps, save.CreepState{
			ID:             uint64(c.ID),
			Type:           string(c.Kind),
			X:              ptr(c.X),
			Y:              ptr(c.Y),
			Health:         ptr(c.Health.Value),
			MaxHealth:      c.Health.Max,
			BaseSpeed:      c.Velocity.BaseSpeed,
			Gold:           c.GoldValue,
			Shield:         c.Shield,
			Regeneration:   c.Regeneration,
			Path:           append([]gridmap.Point(nil), c.Path.Points...),
			PathIndex:      c.Path.CurrentIndex,
			SlowMultiplier: c.Slow.Multiplier,
			SlowDuration:   c.Slow.Duration,
			PoisonDamage:   c.Poison.DamagePerTick,
			PoisonDuration: c.Poison.Duration,
			PoisonSource:   uint64(c.Poison.Source),
		})
	}
	return st
}

// Restore replaces the current game with st. Fields that are missing or
// invalid fall back to defaults; entities without a position or type are skipped.
func (g *Game) Restore(st *save.SaveState) error {
	if err := save.Migrate(st); err != nil {
		return err
	}
	// нулевой размер: старый или неполный сейв, принимаем
	if (st.Grid.Width != 0 && st.Grid.Width != g.Grid.Width) || (st.Grid.Height != 0 && st.Grid.Height != g.Grid.Height) {
		return fmt.Errorf("%w: %dx%d, want %dx%d", ErrGridMismatch, st.Grid.Width, st.Grid.Height, g.Grid.Width, g.Grid.Height)
	}

	g.Grid.Reset()
	if g.opts.BasePath {
		g.Grid.GenerateBasePath()
	}
	g.World.Towers = nil
	g.World.Clear()
	g.World.Tick = max(0, st.Tick)
	g.World.NextID = 1
	if st.NextID > 1 {
		g.World.Reserve(types.EntityID(st.NextID - 1))
	}

	skipped := 0
	for _, c := range st.Grid.Cells {
		if !g.restoreCell(c) {
			skipped++
		}
	}
	for _, ts := range st.Towers {
		if !g.restoreTower(ts) {
			skipped++
		}
	}

	g.Lives = g.opts.Lives
	if st.Lives != nil {
		g.Lives = max(0, *st.Lives)
	}
	g.Gold = max(0, st.Gold)
	g.Score = max(0, st.Score)
	g.towersPlaced = min(max(0, st.TowersPlacedThisRound), g.opts.MaxTowersPerRound)
	if st.SessionID != "" {
		g.SessionID = st.SessionID
	}

	g.spawnWeights = defs.DefaultSpawnWeights()
	if len(st.SpawnWeights) > 0 {
		w := make(defs.SpawnWeights, len(st.SpawnWeights))
		for k, v := range st.SpawnWeights {
			w[defs.TowerKind(k)] = v
		}
		if err := w.Validate(); err == nil {
			g.spawnWeights = w
		} else {
			g.log.Warn().Err(err).Msg("saved spawn weights rejected, using defaults")
		}
	}

	wave := max(0, st.Wave.Current)
	for _, cs := range st.Wave.Creeps {
		if !g.restoreCreep(cs, wave) {
			skipped++
		}
	}
	queue := make([]system.SpawnEntry, 0, len(st.Wave.Queue))
	for _, e := range st.Wave.Queue {
		if e.Kind == "" {
			skipped++
			continue
		}
		queue = append(queue, system.SpawnEntry{Kind: defs.CreepKind(e.Kind), Tick: max(0, e.Tick)})
	}
	g.WaveSystem.Restore(system.WaveState{
		Current:    wave,
		InProgress: st.Wave.InProgress,
		SpawnTimer: st.Wave.SpawnTimer,
		Total:      st.Wave.Total,
		Queue:      queue,
	})

	g.paused = false
	g.gameOver = g.Lives <= 0
	g.log.Info().
		Int("towers", len(g.World.Towers)).
		Int("creeps", len(g.World.Creeps)).
		Int("wave", wave).
		Int("skipped", skipped).
		Msg("game restored")
	return nil
}

func (g *Game) restoreCell(c save.CellState) bool {
	if c.X == nil || c.Y == nil {
		return false
	}
	t, ok := gridmap.ParseCellType(c.Type)
	if !ok || t == gridmap.CellTower {
		return false
	}
	if t == gridmap.CellEmpty {
		return true
	}
	// препятствия проходят те же проверки, что и при постройке
	if t.IsObstruction() && !g.Grid.CanPlace(*c.X, *c.Y, t) {
		return false
	}
	return g.Grid.SetCell(*c.X, *c.Y, t, 0)
}

func (g *Game) restoreTower(ts save.TowerState) bool {
	if ts.X == nil || ts.Y == nil || ts.Type == "" {
		return false
	}
	if !g.Grid.CanPlaceTower(*ts.X, *ts.Y) {
		return false
	}

	id := types.EntityID(ts.ID)
	if id == 0 || g.World.Tower(id) != nil {
		id = g.World.NewEntity()
	}
	g.World.Reserve(id)

	p := gridmap.Point{X: *ts.X, Y: *ts.Y}
	if !g.Grid.SetCell(p.X, p.Y, gridmap.CellTower, id) {
		return false
	}
	t := entity.NewTower(id, defs.TowerKind(ts.Type), p, g.Grid, g.World.Tick)
	if ts.Tier > 1 {
		t.Fuse(max(ts.FusedFrom, 2))
	}
	t.SetLevel(max(1, ts.Level))
	if !t.SetTargetingMode(defs.TargetingMode(ts.TargetingMode)) {
		t.TargetingMode = defs.TargetFirst
	}
	t.Kills = max(0, ts.Kills)
	if ts.Cost > 0 {
		t.Cost = ts.Cost
	}
	if ts.LastFireTick != nil {
		t.LastFireTick = *ts.LastFireTick
	}
	g.World.AddTower(t)
	return true
}

func (g *Game) restoreCreep(cs save.CreepState, wave int) bool {
	if cs.X == nil || cs.Y == nil || cs.Type == "" {
		return false
	}
	id := types.EntityID(cs.ID)
	if id == 0 || g.World.Creep(id) != nil {
		id = g.World.NewEntity()
	}
	g.World.Reserve(id)

	path := cs.Path
	if len(path) == 0 {
		path = g.Grid.Path()
	}
	c := entity.NewCreep(id, defs.CreepKind(cs.Type), path, g.Grid)
	c.ScaleForWave(max(1, wave))
	c.X, c.Y = *cs.X, *cs.Y
	c.Path.CurrentIndex = min(max(0, cs.PathIndex), len(path))

	if cs.MaxHealth > 0 {
		c.Health.Max = cs.MaxHealth
	}
	c.Health.Value = c.Health.Max
	if cs.Health != nil {
		c.Health.Value = min(max(0, *cs.Health), c.Health.Max)
	}
	if c.Health.Value <= 0 {
		return false
	}
	if cs.BaseSpeed > 0 {
		c.Velocity.BaseSpeed = cs.BaseSpeed
		c.Velocity.Speed = cs.BaseSpeed
	}
	if cs.Gold > 0 {
		c.GoldValue = cs.Gold
	}
	if cs.Shield > 0 {
		c.Shield = cs.Shield
	}
	if cs.Regeneration > 0 {
		c.Regeneration = cs.Regeneration
	}
	if cs.SlowDuration > 0 && cs.SlowMultiplier > 0 {
		c.Slow.Apply(cs.SlowMultiplier, cs.SlowDuration)
	}
	if cs.PoisonDuration > 0 && cs.PoisonDamage > 0 {
		c.Poison.Apply(cs.PoisonDamage, cs.PoisonDuration, types.EntityID(cs.PoisonSource))
	}
	g.World.AddCreep(c)
	return true
}

func ptr[T any](v T) *T { return &v }
