// internal/system/projectile.go
package system

import (
	"math"

	"github.com/rs/zerolog"

	"gearspire/internal/config"
	"gearspire/internal/defs"
	"gearspire/internal/entity"
	"gearspire/internal/types"
	"gearspire/internal/utils"
)

// ProjectileSystem двигает снаряды и разрешает попадания.
type ProjectileSystem struct {
	world *entity.World
	log   zerolog.Logger
}

func NewProjectileSystem(world *entity.World, log zerolog.Logger) *ProjectileSystem {
	return &ProjectileSystem{
		world: world,
		log:   log.With().Str("system", "projectile").Logger(),
	}
}

// Update moves every projectile one step. Arrived projectiles resolve once,
// expired ones vanish without effect.
func (s *ProjectileSystem) Update() {
	if len(s.world.Projectiles) == 0 {
		return
	}
	live := s.world.LiveCreeps()
	kept := s.world.Projectiles[:0]
	for _, p := range s.world.Projectiles {
		arrived, expired := p.Step()
		switch {
		case expired:
			continue
		case arrived:
			s.Resolve(p, live)
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(s.world.Projectiles); i++ {
		s.world.Projectiles[i] = nil
	}
	s.world.Projectiles = kept
}

// Resolve applies the projectile's effect at its target point.
func (s *ProjectileSystem) Resolve(p *entity.Projectile, creeps []*entity.Creep) {
	switch p.Type {
	case defs.ProjectileCannonball:
		s.hitSplash(p, creeps)
	case defs.ProjectileLightning:
		s.hitChain(p, creeps)
	case defs.ProjectileFrost:
		s.hitFrost(p, creeps)
	case defs.ProjectilePoison:
		s.hitPoison(p, creeps)
	default:
		s.hitSingle(p, creeps)
	}
}

func (s *ProjectileSystem) hitSingle(p *entity.Projectile, creeps []*entity.Creep) {
	if c := closestCreep(creeps, p.TargetX, p.TargetY, config.BulletHitRadius, nil); c != nil {
		ApplyDamage(c, p.Damage, p.Source)
	}
}

// hitSplash: урон падает линейно от центра до SplashFloor на краю.
func (s *ProjectileSystem) hitSplash(p *entity.Projectile, creeps []*entity.Creep) {
	for _, c := range creepsWithin(creeps, p.TargetX, p.TargetY, config.SplashRadius) {
		d := utils.Distance(c.X, c.Y, p.TargetX, p.TargetY)
		mult := math.Max(config.SplashFloor, 1-d/config.SplashRadius)
		ApplyDamage(c, p.Damage*mult, p.Source)
	}
}

// hitChain bounces from the creep nearest the impact point; a creep is hit
// at most once per chain.
func (s *ProjectileSystem) hitChain(p *entity.Projectile, creeps []*entity.Creep) {
	hit := make(map[types.EntityID]bool, config.ChainMaxJumps)
	current := closestCreep(creeps, p.TargetX, p.TargetY, config.ChainStartRadius, nil)
	for i := 0; current != nil && i < config.ChainMaxJumps; i++ {
		hit[current.ID] = true
		ApplyDamage(current, p.Damage*math.Pow(config.ChainFalloff, float64(i)), p.Source)
		current = closestCreep(creeps, current.X, current.Y, config.ChainRadius, hit)
	}
	s.log.Trace().Int("links", len(hit)).Msg("chain")
}

func (s *ProjectileSystem) hitFrost(p *entity.Projectile, creeps []*entity.Creep) {
	for _, c := range creepsWithin(creeps, p.TargetX, p.TargetY, config.FrostRadius) {
		ApplyDamage(c, p.Damage, p.Source)
		c.ApplySlow(config.FrostSlowFactor, config.FrostSlowDuration)
	}
}

// hitPoison только вешает яд, мгновенного урона нет.
func (s *ProjectileSystem) hitPoison(p *entity.Projectile, creeps []*entity.Creep) {
	for _, c := range creepsWithin(creeps, p.TargetX, p.TargetY, config.PoisonRadius) {
		c.ApplyPoison(p.Damage*config.PoisonDamageFactor, config.PoisonDuration, p.Source)
	}
}
