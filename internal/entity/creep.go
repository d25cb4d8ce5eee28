// internal/entity/creep.go
package entity

import (
	"math"

	"gearspire/internal/component"
	"gearspire/internal/config"
	"gearspire/internal/defs"
	"gearspire/internal/types"
	"gearspire/internal/utils"
	"gearspire/pkg/gridmap"
)

// WorldMapper converts grid waypoints into world coordinates.
type WorldMapper interface {
	GridToWorld(p gridmap.Point) (float64, float64)
}

// Creep — враг, идущий от спавна к цели
type Creep struct {
	ID   types.EntityID
	Kind defs.CreepKind
	component.Position
	Velocity     component.Velocity
	Path         component.Path
	Health       component.Health
	GoldValue    int
	Shield       float64
	Regeneration float64
	Slow         component.SlowEffect
	Poison       component.PoisonEffect

	Dead       bool
	ReachedEnd bool
	KilledBy   types.EntityID

	mapper WorldMapper
}

// NewCreep places a creep of kind at the first waypoint of path.
// Unknown kinds fall back to the default creep.
func NewCreep(id types.EntityID, kind defs.CreepKind, path []gridmap.Point, mapper WorldMapper) *Creep {
	def := defs.Enemy(kind)
	c := &Creep{
		ID:           id,
		Kind:         def.ID,
		Velocity:     component.Velocity{Speed: def.Speed, BaseSpeed: def.Speed},
		Path:         component.Path{Points: path},
		Health:       component.Health{Value: def.Health, Max: def.Health},
		GoldValue:    def.Gold,
		Shield:       def.Shield,
		Regeneration: def.Regeneration,
		Slow:         component.SlowEffect{Multiplier: 1},
		mapper:       mapper,
	}
	if len(path) > 0 {
		c.X, c.Y = mapper.GridToWorld(path[0])
	}
	return c
}

// ScaleForWave applies the per-wave multipliers to a freshly spawned creep.
func (c *Creep) ScaleForWave(wave int) {
	c.Health.Max = math.Floor(c.Health.Max * defs.HealthMultiplier(wave))
	c.Health.Value = c.Health.Max
	c.GoldValue = int(math.Floor(float64(c.GoldValue) * defs.GoldMultiplier(wave)))
	c.Velocity.BaseSpeed *= defs.SpeedMultiplier(wave)
	c.Velocity.Speed = c.Velocity.BaseSpeed
}

// Alive is false once the creep died or leaked.
func (c *Creep) Alive() bool {
	return !c.Dead && !c.ReachedEnd
}

// Update runs one tick: status effects, regeneration, then movement.
func (c *Creep) Update() {
	if !c.Alive() {
		return
	}
	c.updateStatusEffects()
	if c.Dead {
		return
	}
	c.regenerate()
	c.move()
}

func (c *Creep) updateStatusEffects() {
	c.Slow.Tick()

	if c.Poison.Active() {
		c.Poison.Duration--
		c.TakeDamageFrom(c.Poison.DamagePerTick, true, c.Poison.Source)
		if c.Poison.Duration <= 0 {
			c.Poison.Clear()
		}
	}
}

func (c *Creep) regenerate() {
	if c.Regeneration > 0 && c.Health.Value < c.Health.Max {
		c.Health.Value = min(c.Health.Max, c.Health.Value+c.Regeneration)
	}
}

func (c *Creep) move() {
	target, ok := c.Path.Current()
	if !ok {
		c.ReachedEnd = true
		return
	}
	tx, ty := c.mapper.GridToWorld(target)

	step := c.Velocity.BaseSpeed * c.Slow.Factor()
	c.Velocity.Speed = step

	dist := utils.Distance(c.X, c.Y, tx, ty)
	if dist <= step {
		c.X, c.Y = tx, ty
		c.Path.CurrentIndex++
	} else {
		c.X += (tx - c.X) / dist * step
		c.Y += (ty - c.Y) / dist * step
	}

	if c.Path.Done() {
		c.ReachedEnd = true
	}
}

// TakeDamage applies amount and returns the damage actually dealt.
// Unless ignoreShield is set, the shield absorbs up to half the hit.
func (c *Creep) TakeDamage(amount float64, ignoreShield bool) float64 {
	return c.TakeDamageFrom(amount, ignoreShield, 0)
}

// TakeDamageFrom is TakeDamage that remembers which tower landed the killing blow.
func (c *Creep) TakeDamageFrom(amount float64, ignoreShield bool, source types.EntityID) float64 {
	if c.Dead || amount <= 0 {
		return 0
	}
	actual := amount
	if !ignoreShield && c.Shield > 0 {
		actual -= min(c.Shield, amount*config.ShieldAbsorbFactor)
	}
	c.Health.Value -= actual
	if c.Health.Value <= 0 {
		c.Health.Value = 0
		c.Dead = true
		c.KilledBy = source
	}
	return actual
}

// ApplySlow keeps the strongest multiplier and the longest duration.
func (c *Creep) ApplySlow(multiplier float64, duration int) {
	if c.Dead {
		return
	}
	c.Slow.Apply(multiplier, duration)
}

// ApplyPoison keeps the highest damage per tick and the longest duration.
func (c *Creep) ApplyPoison(damagePerTick float64, duration int, source types.EntityID) {
	if c.Dead {
		return
	}
	c.Poison.Apply(damagePerTick, duration, source)
}

// SetPath replaces the remaining route, keeping the current position.
func (c *Creep) SetPath(path []gridmap.Point) {
	c.Path = component.Path{Points: path}
}

// Progress is the index of the waypoint the creep is heading to.
// The index restarts at 0 after SetPath, so it only orders creeps on the same route.
func (c *Creep) Progress() int {
	return c.Path.CurrentIndex
}

// Remaining is the world distance left to walk: to the current waypoint,
// then along the rest of the route. 0 once the route is done.
func (c *Creep) Remaining() float64 {
	target, ok := c.Path.Current()
	if !ok {
		return 0
	}
	px, py := c.mapper.GridToWorld(target)
	total := utils.Distance(c.X, c.Y, px, py)
	for _, p := range c.Path.Points[c.Path.CurrentIndex+1:] {
		x, y := c.mapper.GridToWorld(p)
		total += utils.Distance(px, py, x, y)
		px, py = x, y
	}
	return total
}

func (c *Creep) HealthFraction() float64 { return c.Health.Fraction() }
func (c *Creep) Slowed() bool            { return c.Slow.Active() }
func (c *Creep) Poisoned() bool          { return c.Poison.Active() }
