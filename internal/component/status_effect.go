// internal/component/status_effect.go
package component

import "gearspire/internal/types"

// SlowEffect indicates that an entity is slowed.
// Multiplier is 1 when no slow is active.
type SlowEffect struct {
	Multiplier float64
	Duration   int // ticks left
}

// Apply keeps the strongest multiplier and the longest duration.
func (s *SlowEffect) Apply(multiplier float64, duration int) {
	if s.Duration <= 0 {
		s.Multiplier = multiplier
	} else {
		s.Multiplier = min(s.Multiplier, multiplier)
	}
	s.Duration = max(s.Duration, duration)
}

// Tick counts down one tick and clears the slow when it expires.
func (s *SlowEffect) Tick() {
	if s.Duration <= 0 {
		return
	}
	s.Duration--
	if s.Duration <= 0 {
		s.Duration = 0
		s.Multiplier = 1
	}
}

func (s *SlowEffect) Active() bool { return s.Duration > 0 }

// Factor is the speed multiplier in effect right now.
func (s *SlowEffect) Factor() float64 {
	if s.Duration > 0 {
		return s.Multiplier
	}
	return 1
}

// PoisonEffect — урон за тик, игнорирующий щит
type PoisonEffect struct {
	DamagePerTick float64
	Duration      int
	Source        types.EntityID // tower credited with poison kills
}

// Apply keeps the highest damage and the longest duration.
func (p *PoisonEffect) Apply(damagePerTick float64, duration int, source types.EntityID) {
	if damagePerTick >= p.DamagePerTick || p.Source == 0 {
		p.Source = source
	}
	p.DamagePerTick = max(p.DamagePerTick, damagePerTick)
	p.Duration = max(p.Duration, duration)
}

func (p *PoisonEffect) Active() bool { return p.Duration > 0 }

// Clear removes the poison.
func (p *PoisonEffect) Clear() {
	p.DamagePerTick = 0
	p.Duration = 0
	p.Source = 0
}
