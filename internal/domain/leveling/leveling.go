// Package leveling turns raw experience totals into levels, level progress and
// podium ranks.
//
// Levels follow a cubic curve: reaching level L costs scale*L^3 experience, so
// early levels are cheap and later ones grow disproportionately. Every function
// here is pure and safe to call from any number of goroutines.
package leveling

import (
	"fmt"
	"math"

	"github.com/okian/herostats/internal/domain/model"
)

// DefaultLevelScale is the curve divisor used when a hero or ability has no
// usable metadata.
const DefaultLevelScale = 315.0

// maxLevel bounds the level for degenerate scale/experience combinations.
const maxLevel = math.MaxInt32

// ScaleOrDefault returns scale when it is a finite positive number and
// DefaultLevelScale otherwise.
func ScaleOrDefault(scale float64) float64 {
	if scale > 0 && !math.IsInf(scale, 0) && !math.IsNaN(scale) {
		return scale
	}
	return DefaultLevelScale
}

// threshold is the total experience at which level starts.
func threshold(level int, scale float64) float64 {
	l := float64(level)
	return scale * l * l * l
}

// HeroLevel returns floor(cbrt(totalXP/scale)).
//
// Non-positive experience yields level 0. An unusable scale is replaced with
// DefaultLevelScale.
func HeroLevel(totalXP int64, scale float64) int {
	if totalXP <= 0 {
		return 0
	}
	scale = ScaleOrDefault(scale)
	xp := float64(totalXP)

	root := math.Cbrt(xp / scale)
	if math.IsInf(root, 0) || root >= maxLevel {
		return maxLevel
	}
	level := int(math.Floor(root))

	// Cbrt may land an ulp either side of an exact cube.
	for level > 0 && threshold(level, scale) > xp {
		level--
	}
	for level < maxLevel && threshold(level+1, scale) <= xp {
		level++
	}
	return level
}

// LevelProgress returns how far totalXP is between the start of its level and
// the start of the next one, in [0, 1).
func LevelProgress(totalXP int64, scale float64) float64 {
	if totalXP <= 0 {
		return 0
	}
	scale = ScaleOrDefault(scale)
	level := HeroLevel(totalXP, scale)

	lo := threshold(level, scale)
	hi := threshold(level+1, scale)
	if hi <= lo {
		return 0
	}
	p := (float64(totalXP) - lo) / (hi - lo)
	switch {
	case p < 0:
		return 0
	case p >= 1:
		return math.Nextafter(1, 0)
	}
	return p
}

// ExperienceForLevel returns the total experience needed to reach level.
func ExperienceForLevel(level int, scale float64) float64 {
	if level <= 0 {
		return 0
	}
	return threshold(level, ScaleOrDefault(scale))
}

// Derive computes level and progress, rejecting inputs outside the curve's
// domain instead of coercing them.
func Derive(totalXP int64, scale float64) (model.DerivedLevel, error) {
	if totalXP < 0 {
		return model.DerivedLevel{}, fmt.Errorf("%w: %d", ErrInvalidExperienceValue, totalXP)
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return model.DerivedLevel{}, fmt.Errorf("%w: %v", ErrInvalidLevelScale, scale)
	}
	return model.DerivedLevel{
		Level:    HeroLevel(totalXP, scale),
		Progress: LevelProgress(totalXP, scale),
	}, nil
}
