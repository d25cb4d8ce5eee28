// internal/defs/towers.go
package defs

// TowerKind identifies a tower type.
type TowerKind string

const (
	GearTurret     TowerKind = "gear_turret"
	SteamCannon    TowerKind = "steam_cannon"
	TeslaCoil      TowerKind = "tesla_coil"
	FrostCondenser TowerKind = "frost_condenser"
	PoisonGasVent  TowerKind = "poison_vent"
)

// DefaultTowerKind is used whenever an unknown kind is requested.
const DefaultTowerKind = GearTurret

// TowerKinds lists every kind in a stable order.
var TowerKinds = []TowerKind{GearTurret, SteamCannon, TeslaCoil, FrostCondenser, PoisonGasVent}

// TowerDefinition holds all the static data for a specific type of tower.
type TowerDefinition struct {
	ID         TowerKind      `json:"id"`
	Name       string         `json:"name"`
	Damage     float64        `json:"damage"`
	Range      float64        `json:"range"`     // в клетках
	FireRate   int            `json:"fire_rate"` // тиков между выстрелами
	Cost       int            `json:"cost"`
	Projectile ProjectileType `json:"projectile"`
}

func defaultTowers() map[TowerKind]TowerDefinition {
	return map[TowerKind]TowerDefinition{
		GearTurret:     {ID: GearTurret, Name: "Gear Turret", Damage: 8, Range: 2.8, FireRate: 45, Cost: 50, Projectile: ProjectileBullet},
		SteamCannon:    {ID: SteamCannon, Name: "Steam Cannon", Damage: 25, Range: 2.8, FireRate: 90, Cost: 50, Projectile: ProjectileCannonball},
		TeslaCoil:      {ID: TeslaCoil, Name: "Tesla Coil", Damage: 15, Range: 3.0, FireRate: 75, Cost: 50, Projectile: ProjectileLightning},
		FrostCondenser: {ID: FrostCondenser, Name: "Frost Condenser", Damage: 12, Range: 2.5, FireRate: 60, Cost: 50, Projectile: ProjectileFrost},
		PoisonGasVent:  {ID: PoisonGasVent, Name: "Poison Gas Vent", Damage: 8, Range: 2.2, FireRate: 80, Cost: 50, Projectile: ProjectilePoison},
	}
}

// TowerLibrary is a map to hold all tower definitions, keyed by their ID.
var TowerLibrary = defaultTowers()

// Tower returns the definition for kind, falling back to DefaultTowerKind.
func Tower(kind TowerKind) TowerDefinition {
	if def, ok := TowerLibrary[kind]; ok {
		return def
	}
	return TowerLibrary[DefaultTowerKind]
}

// KnownTower reports whether kind has a definition.
func KnownTower(kind TowerKind) bool {
	_, ok := TowerLibrary[kind]
	return ok
}
