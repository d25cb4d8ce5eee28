// internal/entity/world.go
package entity

import "gearspire/internal/types"

// World holds every live entity in insertion order so iteration is deterministic.
type World struct {
	Tick        int64
	NextID      types.EntityID
	Creeps      []*Creep
	Towers      []*Tower
	Projectiles []*Projectile
}

func NewWorld() *World {
	return &World{NextID: 1}
}

func (w *World) NewEntity() types.EntityID {
	id := w.NextID
	w.NextID++
	return id
}

// Reserve makes sure future ids never collide with id.
func (w *World) Reserve(id types.EntityID) {
	if id >= w.NextID {
		w.NextID = id + 1
	}
}

func (w *World) AddCreep(c *Creep)           { w.Creeps = append(w.Creeps, c) }
func (w *World) AddTower(t *Tower)           { w.Towers = append(w.Towers, t) }
func (w *World) AddProjectile(p *Projectile) { w.Projectiles = append(w.Projectiles, p) }

func (w *World) Tower(id types.EntityID) *Tower {
	for _, t := range w.Towers {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (w *World) Creep(id types.EntityID) *Creep {
	for _, c := range w.Creeps {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// RemoveTower drops the tower with id and reports whether it existed.
func (w *World) RemoveTower(id types.EntityID) bool {
	for i, t := range w.Towers {
		if t.ID == id {
			w.Towers = append(w.Towers[:i], w.Towers[i+1:]...)
			return true
		}
	}
	return false
}

// LiveCreeps returns creeps that are neither dead nor leaked.
func (w *World) LiveCreeps() []*Creep {
	live := make([]*Creep, 0, len(w.Creeps))
	for _, c := range w.Creeps {
		if c.Alive() {
			live = append(live, c)
		}
	}
	return live
}

// Clear removes creeps and projectiles; towers stay.
func (w *World) Clear() {
	w.Creeps = nil
	w.Projectiles = nil
}
