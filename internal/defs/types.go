// internal/defs/types.go
package defs

// ProjectileType selects how a projectile resolves on impact.
type ProjectileType string

const (
	ProjectileBullet     ProjectileType = "bullet"
	ProjectileCannonball ProjectileType = "cannonball"
	ProjectileLightning  ProjectileType = "lightning"
	ProjectileFrost      ProjectileType = "frost"
	ProjectilePoison     ProjectileType = "poison"
)

// TargetingMode — политика выбора цели башней
type TargetingMode string

const (
	TargetFirst     TargetingMode = "first"
	TargetStrongest TargetingMode = "strongest"
	TargetClosest   TargetingMode = "closest"
	TargetRandom    TargetingMode = "random"
)

// TargetingModes in cycling order.
var TargetingModes = []TargetingMode{TargetFirst, TargetStrongest, TargetClosest, TargetRandom}

func (m TargetingMode) Valid() bool {
	for _, v := range TargetingModes {
		if v == m {
			return true
		}
	}
	return false
}

// Next returns the mode after m, wrapping around.
func (m TargetingMode) Next() TargetingMode {
	for i, v := range TargetingModes {
		if v == m {
			return TargetingModes[(i+1)%len(TargetingModes)]
		}
	}
	return TargetFirst
}
