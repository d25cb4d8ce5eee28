// internal/system/wave.go
package system

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"gearspire/internal/config"
	"gearspire/internal/defs"
	"gearspire/internal/entity"
	"gearspire/internal/event"
	"gearspire/internal/utils"
	"gearspire/pkg/gridmap"
)

// PlayerSink receives wave rewards and penalties.
type PlayerSink interface {
	AddGold(amount int)
	AddScore(amount int)
	// LoseLife returns the lives left.
	LoseLife() int
	// ResetRound clears per-round limits after a wave completes.
	ResetRound()
}

// SpawnEntry — запланированное появление врага. Tick считается от начала волны.
type SpawnEntry struct {
	Kind defs.CreepKind `json:"kind"`
	Tick int            `json:"tick"`
}

// WaveInfo describes the next wave before it starts.
type WaveInfo struct {
	WaveNumber       int                  `json:"waveNumber"`
	EnemyCount       int                  `json:"enemyCount"`
	Weights          []defs.WeightedEntry `json:"weights"`
	EstimatedSeconds int                  `json:"estimatedSeconds"`
	BonusGold        int                  `json:"bonusGold"`
}

// WaveState is the resumable part of the wave manager.
type WaveState struct {
	Current    int
	InProgress bool
	SpawnTimer int
	Total      int
	Queue      []SpawnEntry
}

type WaveSystem struct {
	world      *entity.World
	grid       *gridmap.Grid
	dispatcher *event.Dispatcher
	player     PlayerSink
	rng        *utils.PRNGService
	log        zerolog.Logger

	currentWave int
	inProgress  bool
	spawnTimer  int
	total       int
	queue       []SpawnEntry
	gridVersion uint64
}

func NewWaveSystem(world *entity.World, grid *gridmap.Grid, dispatcher *event.Dispatcher,
	player PlayerSink, rng *utils.PRNGService, log zerolog.Logger) *WaveSystem {
	return &WaveSystem{
		world:       world,
		grid:        grid,
		dispatcher:  dispatcher,
		player:      player,
		rng:         rng,
		log:         log.With().Str("system", "wave").Logger(),
		gridVersion: grid.Version(),
	}
}

// StartWave begins the next wave. Returns false if one is already running.
func (s *WaveSystem) StartWave() bool {
	if s.inProgress {
		return false
	}
	s.currentWave++
	s.inProgress = true
	s.spawnTimer = 0
	s.queue = s.buildQueue(s.currentWave)
	s.total = len(s.queue)

	s.log.Info().Int("wave", s.currentWave).Int("enemies", s.total).Msg("wave started")
	s.dispatcher.Dispatch(event.Event{
		Type: event.WaveStarted,
		Data: event.WaveData{Wave: s.currentWave, EnemyCount: s.total},
	})
	return true
}

func (s *WaveSystem) buildQueue(wave int) []SpawnEntry {
	count := defs.EnemyCount(wave)
	weights := defs.EnemyWeights(wave)
	queue := make([]SpawnEntry, count)
	for i := range queue {
		kind := defs.CreepKind(s.rng.ChooseWeighted(weights))
		jitter := s.rng.IntRange(-config.SpawnJitter, config.SpawnJitter)
		queue[i] = SpawnEntry{Kind: kind, Tick: max(0, i*config.SpawnDelay+jitter)}
	}
	sort.SliceStable(queue, func(i, j int) bool { return queue[i].Tick < queue[j].Tick })
	return queue
}

// Update spawns due creeps, steps every creep and settles deaths and leaks.
func (s *WaveSystem) Update() {
	if !s.inProgress {
		return
	}
	s.spawnTimer++

	for len(s.queue) > 0 && s.queue[0].Tick <= s.spawnTimer {
		entry := s.queue[0]
		s.queue = s.queue[1:]
		s.spawn(entry.Kind)
	}

	if v := s.grid.Version(); v != s.gridVersion {
		s.gridVersion = v
		s.repath()
	}

	kept := s.world.Creeps[:0]
	for _, c := range s.world.Creeps {
		c.Update()
		switch {
		case c.Dead:
			s.reward(c)
		case c.ReachedEnd:
			s.leak(c)
		default:
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(s.world.Creeps); i++ {
		s.world.Creeps[i] = nil
	}
	s.world.Creeps = kept

	if len(s.queue) == 0 && len(s.world.Creeps) == 0 {
		s.completeWave()
	}
}

func (s *WaveSystem) spawn(kind defs.CreepKind) {
	path := s.grid.Path()
	if len(path) == 0 {
		s.log.Warn().Str("kind", string(kind)).Msg("no path, spawn dropped")
		return
	}
	c := entity.NewCreep(s.world.NewEntity(), kind, path, s.grid)
	c.ScaleForWave(s.currentWave)
	s.world.AddCreep(c)
	s.log.Debug().Uint64("id", uint64(c.ID)).Str("kind", string(c.Kind)).Msg("spawn")
}

// repath re-routes creeps whose remaining route crosses a blocked cell.
// Each one joins the fresh spawn-goal route at its nearest waypoint through
// the bounded search.
func (s *WaveSystem) repath() {
	route := s.grid.Path()
	for _, c := range s.world.Creeps {
		if !c.Alive() || !s.routeBlocked(c) {
			continue
		}
		from := s.grid.WorldToGrid(c.X, c.Y)
		if len(route) == 0 {
			c.SetPath(gridmap.FindSimplePath(from, s.grid.Goal, s.grid))
			continue
		}
		join := nearestWaypoint(route, from)
		path := gridmap.FindSimplePath(from, route[join], s.grid)
		path = append(path, route[join+1:]...)
		c.SetPath(path)
	}
}

func (s *WaveSystem) routeBlocked(c *entity.Creep) bool {
	for _, p := range c.Path.Points[min(c.Path.CurrentIndex, len(c.Path.Points)):] {
		if !s.grid.IsWalkable(p.X, p.Y) {
			return true
		}
	}
	return false
}

func nearestWaypoint(route []gridmap.Point, from gridmap.Point) int {
	best, bestDist := 0, math.Inf(1)
	for i, p := range route {
		if d := utils.Distance(float64(p.X), float64(p.Y), float64(from.X), float64(from.Y)); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (s *WaveSystem) reward(c *entity.Creep) {
	s.player.AddGold(c.GoldValue)
	s.player.AddScore(c.GoldValue * config.KillScoreFactor)
	s.dispatcher.Dispatch(event.Event{
		Type: event.EnemyKilled,
		Data: event.EnemyKilledData{EnemyID: c.ID, EnemyKind: c.Kind, TowerID: c.KilledBy, Gold: c.GoldValue},
	})
}

func (s *WaveSystem) leak(c *entity.Creep) {
	left := s.player.LoseLife()
	s.log.Debug().Uint64("id", uint64(c.ID)).Int("lives", left).Msg("leak")
	s.dispatcher.Dispatch(event.Event{
		Type: event.EnemyLeaked,
		Data: event.EnemyLeakedData{EnemyID: c.ID, EnemyKind: c.Kind, LivesLeft: left},
	})
}

func (s *WaveSystem) completeWave() {
	if !s.inProgress {
		return
	}
	s.inProgress = false
	bonus := defs.WaveBonusGold(s.currentWave)
	s.player.AddGold(bonus)
	s.player.AddScore(config.WaveScorePerWave * s.currentWave)
	s.player.ResetRound()

	s.log.Info().Int("wave", s.currentWave).Int("bonus", bonus).Msg("wave complete")
	s.dispatcher.Dispatch(event.Event{
		Type: event.WaveCompleted,
		Data: event.WaveData{Wave: s.currentWave, EnemyCount: s.total},
	})
}

func (s *WaveSystem) IsWaveInProgress() bool { return s.inProgress }
func (s *WaveSystem) CurrentWave() int       { return s.currentWave }

// Pending is the number of creeps still waiting in the spawn queue.
func (s *WaveSystem) Pending() int { return len(s.queue) }

// NextWaveInfo previews the wave StartWave would begin.
func (s *WaveSystem) NextWaveInfo() WaveInfo {
	next := s.currentWave + 1
	count := defs.EnemyCount(next)
	return WaveInfo{
		WaveNumber:       next,
		EnemyCount:       count,
		Weights:          defs.EnemyWeights(next),
		EstimatedSeconds: int(math.Ceil(float64(count*config.SpawnDelay) / config.TicksPerSecond)),
		BonusGold:        defs.WaveBonusGold(next),
	}
}

// WaveProgress is the fraction of the wave's creeps already settled, 1 when idle.
func (s *WaveSystem) WaveProgress() float64 {
	if !s.inProgress || s.total == 0 {
		return 1
	}
	remaining := len(s.queue) + len(s.world.Creeps)
	return max(0, 1-float64(remaining)/float64(s.total))
}

// SkipWave drops the queue and every creep, then completes the running wave.
func (s *WaveSystem) SkipWave() {
	s.queue = nil
	s.world.Clear()
	s.completeWave()
}

// KillAllEnemies credits every live creep as killed and removes them.
func (s *WaveSystem) KillAllEnemies() {
	for _, c := range s.world.Creeps {
		if c.Alive() {
			s.reward(c)
		}
	}
	s.world.Creeps = nil
}

// Reset returns the manager to wave 0 with nothing queued.
func (s *WaveSystem) Reset() {
	s.currentWave = 0
	s.inProgress = false
	s.spawnTimer = 0
	s.total = 0
	s.queue = nil
	s.world.Clear()
	s.gridVersion = s.grid.Version()
}

// State returns a copy of the resumable wave state.
func (s *WaveSystem) State() WaveState {
	return WaveState{
		Current:    s.currentWave,
		InProgress: s.inProgress,
		SpawnTimer: s.spawnTimer,
		Total:      s.total,
		Queue:      append([]SpawnEntry(nil), s.queue...),
	}
}

// Restore loads a previously captured state. Creeps are restored separately.
func (s *WaveSystem) Restore(st WaveState) {
	s.currentWave = max(0, st.Current)
	s.inProgress = st.InProgress
	s.spawnTimer = max(0, st.SpawnTimer)
	s.queue = append([]SpawnEntry(nil), st.Queue...)
	sort.SliceStable(s.queue, func(i, j int) bool { return s.queue[i].Tick < s.queue[j].Tick })
	s.total = max(st.Total, len(s.queue)+len(s.world.Creeps))
	s.gridVersion = s.grid.Version()
}
