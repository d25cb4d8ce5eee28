// internal/defs/spawn_weights.go
package defs

import (
	"errors"
	"fmt"

	"gearspire/internal/config"
)

// WeightedEntry is one row of a weighted draw.
// ID is the drawn value, Weight its relative chance.
type WeightedEntry struct {
	ID     string `json:"id"`
	Weight int    `json:"weight"`
}

// SpawnWeights sets the chance of each tower kind when a tower is placed at random.
type SpawnWeights map[TowerKind]int

// DefaultSpawnWeights gives every kind the same chance.
func DefaultSpawnWeights() SpawnWeights {
	w := make(SpawnWeights, len(TowerKinds))
	for _, k := range TowerKinds {
		w[k] = config.SpawnWeightTotal / len(TowerKinds)
	}
	return w
}

// Validate requires every kind present, non-negative weights under the cap, summing to 100.
func (w SpawnWeights) Validate() error {
	var errs []error
	sum := 0
	for _, k := range TowerKinds {
		if _, ok := w[k]; !ok {
			errs = append(errs, fmt.Errorf("missing weight for %s", k))
		}
	}
	for k, v := range w {
		if !KnownTower(k) {
			errs = append(errs, fmt.Errorf("unknown tower type: %s", k))
			continue
		}
		if v < 0 {
			errs = append(errs, fmt.Errorf("invalid weight for %s: must be non-negative", k))
			continue
		}
		if v > config.SpawnWeightCap {
			errs = append(errs, fmt.Errorf("weight for %s (%d) exceeds cap of %d", k, v, config.SpawnWeightCap))
		}
		sum += v
	}
	if sum != config.SpawnWeightTotal {
		errs = append(errs, fmt.Errorf("total weights must sum to %d (current: %d)", config.SpawnWeightTotal, sum))
	}
	return errors.Join(errs...)
}

// Entries returns the weights in TowerKinds order.
func (w SpawnWeights) Entries() []WeightedEntry {
	out := make([]WeightedEntry, 0, len(TowerKinds))
	for _, k := range TowerKinds {
		out = append(out, WeightedEntry{ID: string(k), Weight: w[k]})
	}
	return out
}

// Clone returns an independent copy.
func (w SpawnWeights) Clone() SpawnWeights {
	c := make(SpawnWeights, len(w))
	for k, v := range w {
		c[k] = v
	}
	return c
}
