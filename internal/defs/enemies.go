// internal/defs/enemies.go
package defs

// CreepKind identifies an enemy type.
type CreepKind string

const (
	Raider  CreepKind = "raider"
	Scout   CreepKind = "scout"
	Golem   CreepKind = "golem"
	Airship CreepKind = "airship"
	Spider  CreepKind = "spider"
)

const DefaultCreepKind = Raider

// CreepKinds lists every kind in weight-table order.
var CreepKinds = []CreepKind{Raider, Scout, Golem, Airship, Spider}

// EnemyDefinition holds all the static data for a specific type of enemy.
type EnemyDefinition struct {
	ID           CreepKind `json:"id"`
	Name         string    `json:"name"`
	Health       float64   `json:"health"`
	Speed        float64   `json:"speed"` // world units per tick
	Gold         int       `json:"gold"`
	Shield       float64   `json:"shield"`
	Regeneration float64   `json:"regeneration"` // HP per tick
}

func defaultEnemies() map[CreepKind]EnemyDefinition {
	return map[CreepKind]EnemyDefinition{
		Raider:  {ID: Raider, Name: "Clockwork Raider", Health: 100, Speed: 1.5, Gold: 10},
		Scout:   {ID: Scout, Name: "Steam Scout", Health: 60, Speed: 2.5, Gold: 8},
		Golem:   {ID: Golem, Name: "Brass Golem", Health: 300, Speed: 0.8, Gold: 25},
		Airship: {ID: Airship, Name: "Sky Airship", Health: 200, Speed: 1.2, Gold: 20, Shield: 50},
		Spider:  {ID: Spider, Name: "Mechanical Spider", Health: 150, Speed: 1.8, Gold: 15, Regeneration: 1},
	}
}

// EnemyLibrary is a map to hold all enemy definitions, keyed by their ID.
var EnemyLibrary = defaultEnemies()

// Enemy returns the definition for kind, falling back to DefaultCreepKind.
func Enemy(kind CreepKind) EnemyDefinition {
	if def, ok := EnemyLibrary[kind]; ok {
		return def
	}
	return EnemyLibrary[DefaultCreepKind]
}

func KnownEnemy(kind CreepKind) bool {
	_, ok := EnemyLibrary[kind]
	return ok
}
