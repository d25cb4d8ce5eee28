package defs

import "gearspire/internal/config"

// KillsToLevel[i] is the kill count needed for level i+1.
var KillsToLevel = []int{0, 15, 40, 90, 180}

// LevelForKills maps a kill count to a tower level, capped at MaxTowerLevel.
func LevelForKills(kills int) int {
	level := 1
	for i := 1; i < len(KillsToLevel); i++ {
		if kills >= KillsToLevel[i] {
			level = i + 1
		}
	}
	return min(level, config.MaxTowerLevel)
}

// UpgradeCost is the gold needed to go from level to level+1.
func UpgradeCost(level int) int {
	return config.UpgradeCostPerLevel * level
}

// SellValue is the refund for a tower that cost cost.
func SellValue(cost int) int {
	return int(float64(cost) * config.SellRefundFactor)
}
