package util

import "math"

// RoundPercent returns round(100*part/whole), or 0 when whole is 0.
func RoundPercent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(whole)))
}
