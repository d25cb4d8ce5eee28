// internal/component/movement.go
package component

import "gearspire/pkg/gridmap"

// Position — компонент позиции (мировые координаты)
type Position struct {
	X, Y float64
}

// Velocity — компонент скорости, единицы мира за тик
type Velocity struct {
	Speed     float64
	BaseSpeed float64
}

// Path — компонент пути
type Path struct {
	Points       []gridmap.Point
	CurrentIndex int
}

// Done reports whether every waypoint has been reached.
func (p *Path) Done() bool {
	return p.CurrentIndex >= len(p.Points)
}

// Current returns the waypoint being walked toward.
func (p *Path) Current() (gridmap.Point, bool) {
	if p.Done() || p.CurrentIndex < 0 {
		return gridmap.Point{}, false
	}
	return p.Points[p.CurrentIndex], true
}
