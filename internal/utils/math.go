// internal/utils/math.go
package utils

import "math"

// Distance — евклидово расстояние между двумя точками
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// Clamp ограничивает v диапазоном [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
