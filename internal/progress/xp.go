package progress

// XPPerLevel is the width of every level band.
const XPPerLevel = 500

// CalculateLevel returns the level reached with xp points. Level 1 starts at 0.
func CalculateLevel(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// XPToNextLevel returns the points missing to reach the next level.
func XPToNextLevel(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return CalculateLevel(xp)*XPPerLevel - xp
}

// LevelProgressPercent returns the position inside the current level band, in [0, 100).
func LevelProgressPercent(xp int) float64 {
	if xp < 0 {
		xp = 0
	}
	levelStart := (CalculateLevel(xp) - 1) * XPPerLevel
	return float64(xp-levelStart) / XPPerLevel * 100
}
