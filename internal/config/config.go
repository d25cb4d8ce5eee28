// internal/config/config.go
package config

import "image/color"

// Simulation constants. Every duration is measured in ticks.
const (
	TicksPerSecond = 60

	GridWidth  = 28
	GridHeight = 17
	TileSize   = 40.0

	StartingLives     = 20
	StartingGold      = 100
	MaxTowersPerRound = 5

	// Projectiles
	ProjectileSpeed    = 5.0
	ProjectileMaxAge   = 300
	ProjectileHitEps   = 10.0
	BulletHitRadius    = 15.0
	SplashRadius       = 60.0
	SplashFloor        = 0.3
	ChainStartRadius   = 20.0
	ChainRadius        = 100.0
	ChainMaxJumps      = 3
	ChainFalloff       = 0.8
	FrostRadius        = 50.0
	FrostSlowFactor    = 0.5
	FrostSlowDuration  = 180
	PoisonRadius       = 80.0
	PoisonDamageFactor = 0.1
	PoisonDuration     = 300

	// Creeps
	ShieldAbsorbFactor = 0.5

	// Waves
	BaseEnemyCount       = 10
	EnemiesPerWaveFactor = 2
	SpawnDelay           = 30
	SpawnJitter          = 10
	HealthScalePerWave   = 0.2
	GoldScalePerWave     = 0.1
	SpeedScalePerWave    = 0.02
	MaxSpeedScale        = 1.5
	WaveBonusBase        = 20
	WaveBonusPerWave     = 5
	WaveScorePerWave     = 100
	KillScoreFactor      = 10

	// Towers
	MaxTowerLevel        = 5
	MinFireRate          = 10
	SellRefundFactor     = 0.7
	UpgradeCostPerLevel  = 25
	LevelDamageBonus     = 0.25
	LevelRangeBonus      = 0.15
	LevelFireRateBonus   = 0.1
	FusionMinTowers      = 2
	FusionMaxTowers      = 3
	FusionDamagePerTower = 0.5
	FusionRangePerTower  = 0.2
	FusionMaxRangeFactor = 2.0
	FusionFireRateFactor = 0.8
	SpawnWeightCap       = 60
	SpawnWeightTotal     = 100

	// Front ends
	ScreenWidth  = int(GridWidth * TileSize)
	HUDHeight    = 60
	ScreenHeight = int(GridHeight*TileSize) + HUDHeight
	MaxDeltaTime = 0.06
)

var (
	BackgroundColor = color.RGBA{20, 20, 30, 255}
	EmptyCellColor  = color.RGBA{45, 52, 60, 255}
	PathCellColor   = color.RGBA{92, 74, 50, 255}
	CrateColor      = color.RGBA{140, 100, 60, 255}
	GridLineColor   = color.RGBA{30, 30, 40, 255}
	SpawnColor      = color.RGBA{0, 200, 120, 255}
	GoalColor       = color.RGBA{220, 60, 60, 255}
	HealthBarColor  = color.RGBA{80, 220, 80, 255}
	HealthBackColor = color.RGBA{60, 20, 20, 255}
	TextColor       = color.RGBA{230, 230, 230, 255}
	RangeColor      = color.RGBA{255, 255, 255, 40}
)
