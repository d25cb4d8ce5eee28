// internal/component/combat.go
package component

// Health — компонент здоровья
type Health struct {
	Value float64
	Max   float64
}

// Fraction returns Value/Max in [0, 1].
func (h Health) Fraction() float64 {
	if h.Max <= 0 {
		return 0
	}
	return max(0, min(1, h.Value/h.Max))
}

// Combat — компонент для башен, управляющий атакой
type Combat struct {
	Damage       float64
	Range        float64 // в клетках
	FireRate     int     // тиков между выстрелами
	LastFireTick int64
}

// Ready reports whether at least FireRate ticks passed since the last shot.
func (c *Combat) Ready(tick int64) bool {
	return tick-c.LastFireTick >= int64(c.FireRate)
}
