package leveling

import (
	"maps"
	"math"
	"slices"
)

// PodiumSize is the number of ranked places; anything below is unranked.
const PodiumSize = 3

// PodiumRank returns 1, 2 or 3 when value is among the top three distinct
// values of pool, and 0 otherwise.
//
// Equal values share one place, so a crowd tied at zero occupies a single
// slot rather than every podium position.
func PodiumRank(value float64, pool []float64) int {
	if math.IsNaN(value) {
		return 0
	}
	for i, v := range DistinctDescending(pool) {
		if i >= PodiumSize {
			break
		}
		if v == value {
			return i + 1
		}
	}
	return 0
}

// DistinctDescending returns the distinct non-NaN values of pool, highest first.
func DistinctDescending(pool []float64) []float64 {
	set := make(map[float64]struct{}, len(pool))
	for _, v := range pool {
		if math.IsNaN(v) {
			continue
		}
		set[v] = struct{}{}
	}
	out := slices.Sorted(maps.Keys(set))
	slices.Reverse(out)
	return out
}
