// internal/system/utils.go
package system

import (
	"gearspire/internal/entity"
	"gearspire/internal/types"
	"gearspire/internal/utils"
)

// ApplyDamage наносит урон врагу от имени башни source.
// Возвращает true, если именно этот удар убил врага.
func ApplyDamage(c *entity.Creep, damage float64, source types.EntityID) bool {
	if c == nil || !c.Alive() {
		return false
	}
	c.TakeDamageFrom(damage, false, source)
	return c.Dead
}

// creepsWithin — живые враги не дальше r от точки (x, y), в порядке мира.
func creepsWithin(creeps []*entity.Creep, x, y, r float64) []*entity.Creep {
	var out []*entity.Creep
	for _, c := range creeps {
		if !c.Alive() {
			continue
		}
		if utils.Distance(c.X, c.Y, x, y) <= r {
			out = append(out, c)
		}
	}
	return out
}

// closestCreep ищет ближайшего живого врага строго ближе maxRange.
// Враги из skip пропускаются.
func closestCreep(creeps []*entity.Creep, x, y, maxRange float64, skip map[types.EntityID]bool) *entity.Creep {
	var closest *entity.Creep
	best := maxRange
	for _, c := range creeps {
		if !c.Alive() || skip[c.ID] {
			continue
		}
		if d := utils.Distance(c.X, c.Y, x, y); d < best {
			closest = c
			best = d
		}
	}
	return closest
}
