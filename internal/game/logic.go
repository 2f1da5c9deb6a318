package game

// LevelCleared reports whether the collected rewards complete the level. On
// the final level the level also counts as cleared one reward short of the
// total.
func LevelCleared(tally, total int, finalLevel bool) bool {
	if tally == total {
		return true
	}
	return finalLevel && tally == total-1
}
