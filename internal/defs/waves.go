package defs

import "gearspire/internal/config"

// EnemyCount — количество врагов в волне
func EnemyCount(wave int) int {
	return config.BaseEnemyCount + wave*config.EnemiesPerWaveFactor
}

// EnemyWeights returns the spawn weights for wave in CreepKinds order.
// Tougher kinds unlock as the wave number grows.
func EnemyWeights(wave int) []WeightedEntry {
	return []WeightedEntry{
		{ID: string(Raider), Weight: max(10-wave, 2)},
		{ID: string(Scout), Weight: min(wave*2, 8)},
		{ID: string(Golem), Weight: max(0, wave-3)},
		{ID: string(Airship), Weight: max(0, wave-5)},
		{ID: string(Spider), Weight: max(0, wave-7)},
	}
}

// HealthMultiplier, GoldMultiplier and SpeedMultiplier never decrease with wave.
func HealthMultiplier(wave int) float64 {
	return 1 + float64(max(wave-1, 0))*config.HealthScalePerWave
}

func GoldMultiplier(wave int) float64 {
	return 1 + float64(max(wave-1, 0))*config.GoldScalePerWave
}

func SpeedMultiplier(wave int) float64 {
	return min(config.MaxSpeedScale, 1+float64(max(wave-1, 0))*config.SpeedScalePerWave)
}

// WaveBonusGold is paid once when wave completes.
func WaveBonusGold(wave int) int {
	return config.WaveBonusBase + wave*config.WaveBonusPerWave
}
