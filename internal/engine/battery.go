package engine

import "github.com/tartampluch/go-wv58a/internal/config"

// BatteryState is one battery sample.
type BatteryState struct {
	Percent  int // 0-100
	Charging bool
}

// BatterySpriteIndex selects the row of the battery sprite sheet: 0 is full,
// 10 is empty or charging.
func BatterySpriteIndex(b BatteryState) int {
	if b.Charging {
		return config.BatteryChargingIdx
	}
	pct := min(max(b.Percent, 0), 100)
	return config.BatteryLevels - 1 - pct/10
}
