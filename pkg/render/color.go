// pkg/render/color.go
package render

import (
	"image/color"

	"gearspire/internal/config"
	"gearspire/internal/defs"
)

// BoardColors holds all the color definitions needed to render the board background.
type BoardColors struct {
	BackgroundColor color.RGBA
	EmptyColor      color.RGBA
	PathColor       color.RGBA
	CrateColor      color.RGBA
	GridLineColor   color.RGBA
	SpawnColor      color.RGBA
	GoalColor       color.RGBA
	RangeColor      color.RGBA
	HealthColor     color.RGBA
	HealthBackColor color.RGBA
	StrokeWidth     float32
}

// DefaultBoardColors returns the palette from config.
func DefaultBoardColors() BoardColors {
	return BoardColors{
		BackgroundColor: config.BackgroundColor,
		EmptyColor:      config.EmptyCellColor,
		PathColor:       config.PathCellColor,
		CrateColor:      config.CrateColor,
		GridLineColor:   config.GridLineColor,
		SpawnColor:      config.SpawnColor,
		GoalColor:       config.GoalColor,
		RangeColor:      config.RangeColor,
		HealthColor:     config.HealthBarColor,
		HealthBackColor: config.HealthBackColor,
		StrokeWidth:     1,
	}
}

var towerColors = map[defs.TowerKind]color.RGBA{
	defs.GearTurret:     {190, 150, 70, 255},
	defs.SteamCannon:    {150, 150, 160, 255},
	defs.TeslaCoil:      {90, 140, 255, 255},
	defs.FrostCondenser: {150, 230, 255, 255},
	defs.PoisonGasVent:  {110, 200, 80, 255},
}

var creepColors = map[defs.CreepKind]color.RGBA{
	defs.Raider:  {200, 80, 60, 255},
	defs.Scout:   {240, 200, 80, 255},
	defs.Golem:   {120, 110, 100, 255},
	defs.Airship: {170, 120, 200, 255},
	defs.Spider:  {60, 60, 60, 255},
}

var projectileColors = map[defs.ProjectileType]color.RGBA{
	defs.ProjectileBullet:     {255, 230, 150, 255},
	defs.ProjectileCannonball: {40, 40, 40, 255},
	defs.ProjectileLightning:  {180, 210, 255, 255},
	defs.ProjectileFrost:      {200, 245, 255, 255},
	defs.ProjectilePoison:     {140, 255, 90, 255},
}

// TowerColor — цвет башни, белый для неизвестных типов
func TowerColor(kind defs.TowerKind) color.RGBA {
	if c, ok := towerColors[kind]; ok {
		return c
	}
	return color.RGBA{255, 255, 255, 255}
}

func CreepColor(kind defs.CreepKind) color.RGBA {
	if c, ok := creepColors[kind]; ok {
		return c
	}
	return creepColors[defs.DefaultCreepKind]
}

func ProjectileColor(t defs.ProjectileType) color.RGBA {
	if c, ok := projectileColors[t]; ok {
		return c
	}
	return projectileColors[defs.ProjectileBullet]
}

// DarkenColor reduces the brightness of a color.
func DarkenColor(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * 0.5),
		G: uint8(float64(c.G) * 0.5),
		B: uint8(float64(c.B) * 0.5),
		A: c.A,
	}
}

// LightenColor adds delta to every channel, clamped at 255.
func LightenColor(c color.RGBA, delta int) color.RGBA {
	return color.RGBA{
		R: uint8(min(255, int(c.R)+delta)),
		G: uint8(min(255, int(c.G)+delta)),
		B: uint8(min(255, int(c.B)+delta)),
		A: c.A,
	}
}

// WithAlpha returns c as a non-premultiplied color with alpha a.
func WithAlpha(c color.RGBA, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}
