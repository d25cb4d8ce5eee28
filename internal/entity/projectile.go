// internal/entity/projectile.go
package entity

import (
	"gearspire/internal/component"
	"gearspire/internal/config"
	"gearspire/internal/defs"
	"gearspire/internal/types"
	"gearspire/internal/utils"
)

// Projectile летит к точке, а не к врагу: цель фиксируется при выстреле.
type Projectile struct {
	ID types.EntityID
	component.Position
	TargetX, TargetY float64
	VX, VY           float64
	Damage           float64
	Speed            float64
	Type             defs.ProjectileType
	Age              int
	MaxAge           int
	Source           types.EntityID
}

func NewProjectile(id types.EntityID, x, y, tx, ty, damage float64, typ defs.ProjectileType, source types.EntityID) *Projectile {
	p := &Projectile{
		ID:       id,
		Position: component.Position{X: x, Y: y},
		TargetX:  tx,
		TargetY:  ty,
		Damage:   damage,
		Speed:    config.ProjectileSpeed,
		Type:     typ,
		MaxAge:   config.ProjectileMaxAge,
		Source:   source,
	}
	if d := utils.Distance(x, y, tx, ty); d > 0 {
		p.VX = (tx - x) / d * p.Speed
		p.VY = (ty - y) / d * p.Speed
	}
	return p
}

// Step advances one tick. arrived means the projectile must resolve now;
// expired means it timed out and is removed without effect.
func (p *Projectile) Step() (arrived, expired bool) {
	p.Age++
	if p.Age > p.MaxAge {
		return false, true
	}
	p.X += p.VX
	p.Y += p.VY
	return utils.Distance(p.X, p.Y, p.TargetX, p.TargetY) < config.ProjectileHitEps, false
}
