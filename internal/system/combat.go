// internal/system/combat.go
package system

import (
	"github.com/rs/zerolog"

	"gearspire/internal/defs"
	"gearspire/internal/entity"
	"gearspire/internal/utils"
)

// CombatSystem управляет атакой башен: выбор цели и выстрел.
type CombatSystem struct {
	world    *entity.World
	tileSize float64
	rng      *utils.PRNGService
	log      zerolog.Logger
}

func NewCombatSystem(world *entity.World, tileSize float64, rng *utils.PRNGService, log zerolog.Logger) *CombatSystem {
	return &CombatSystem{
		world:    world,
		tileSize: tileSize,
		rng:      rng,
		log:      log.With().Str("system", "combat").Logger(),
	}
}

// Update gives every ready tower one chance to fire at the world's current tick.
func (s *CombatSystem) Update() {
	tick := s.world.Tick
	live := s.world.LiveCreeps()
	if len(live) == 0 {
		return
	}
	for _, t := range s.world.Towers {
		if !t.Ready(tick) {
			continue
		}
		target := s.FindTarget(t, live)
		if target == nil {
			continue
		}
		s.fire(t, target, tick)
	}
}

// FindTarget applies the tower's targeting mode to the creeps in range.
// Returns nil when nothing is in range.
func (s *CombatSystem) FindTarget(t *entity.Tower, creeps []*entity.Creep) *entity.Creep {
	inRange := creepsWithin(creeps, t.X, t.Y, t.RangeWorld(s.tileSize))
	if len(inRange) == 0 {
		return nil
	}

	switch t.TargetingMode {
	case defs.TargetStrongest:
		best := inRange[0]
		for _, c := range inRange[1:] {
			if c.Health.Value > best.Health.Value {
				best = c
			}
		}
		return best
	case defs.TargetClosest:
		best := inRange[0]
		bestDist := utils.Distance(t.X, t.Y, best.X, best.Y)
		for _, c := range inRange[1:] {
			if d := utils.Distance(t.X, t.Y, c.X, c.Y); d < bestDist {
				best, bestDist = c, d
			}
		}
		return best
	case defs.TargetRandom:
		return inRange[s.rng.Intn(len(inRange))]
	default:
		// first: ближе всех к цели по оставшемуся пути
		best := inRange[0]
		bestLeft := best.Remaining()
		for _, c := range inRange[1:] {
			if left := c.Remaining(); left < bestLeft {
				best, bestLeft = c, left
			}
		}
		return best
	}
}

func (s *CombatSystem) fire(t *entity.Tower, target *entity.Creep, tick int64) {
	p := entity.NewProjectile(s.world.NewEntity(), t.X, t.Y, target.X, target.Y, t.Damage, t.Projectile(), t.ID)
	s.world.AddProjectile(p)
	t.LastFireTick = tick
	s.log.Trace().
		Uint64("tower", uint64(t.ID)).
		Uint64("target", uint64(target.ID)).
		Str("projectile", string(p.Type)).
		Msg("fire")
}
