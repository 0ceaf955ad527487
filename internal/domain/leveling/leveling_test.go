package leveling_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/herostats/internal/domain/leveling"
	"github.com/okian/herostats/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHeroLevel(t *testing.T) {
	Convey("Given the default level scale", t, func() {
		s := leveling.DefaultLevelScale

		Convey("When experience is exactly one scale unit", func() {
			Convey("Then the hero should be level 1", func() {
				So(leveling.HeroLevel(315, s), ShouldEqual, 1)
			})
		})

		Convey("When experience is one point short of level 1", func() {
			Convey("Then the hero should still be level 0", func() {
				So(leveling.HeroLevel(314, s), ShouldEqual, 0)
			})
		})

		Convey("When experience sits on a cube boundary", func() {
			Convey("Then the level should match the cube root exactly", func() {
				for level := 1; level <= 200; level++ {
					xp := int64(315 * level * level * level)
					So(leveling.HeroLevel(xp, s), ShouldEqual, level)
					So(leveling.HeroLevel(xp-1, s), ShouldEqual, level-1)
				}
			})
		})

		Convey("When experience is zero or negative", func() {
			Convey("Then the level should be 0", func() {
				So(leveling.HeroLevel(0, s), ShouldEqual, 0)
				So(leveling.HeroLevel(-50, s), ShouldEqual, 0)
			})
		})
	})

	Convey("Given an unusable scale", t, func() {
		Convey("Then the default scale should be applied", func() {
			So(leveling.HeroLevel(315, 0), ShouldEqual, 1)
			So(leveling.HeroLevel(315, -10), ShouldEqual, 1)
			So(leveling.HeroLevel(315, math.NaN()), ShouldEqual, 1)
		})
	})
}

func TestHeroLevelMonotonic(t *testing.T) {
	Convey("Given several positive scales", t, func() {
		scales := []float64{1, 7.5, 315, 1000}

		Convey("Then level never decreases as experience grows", func() {
			for _, s := range scales {
				prev := 0
				for xp := int64(0); xp <= 200_000; xp += 37 {
					level := leveling.HeroLevel(xp, s)
					So(level, ShouldBeGreaterThanOrEqualTo, prev)
					prev = level
				}
			}
		})
	})
}

func TestLevelProgress(t *testing.T) {
	Convey("Given the default level scale", t, func() {
		s := leveling.DefaultLevelScale

		Convey("When experience is zero", func() {
			Convey("Then progress should be exactly 0", func() {
				So(leveling.LevelProgress(0, s), ShouldEqual, 0)
			})
		})

		Convey("When experience is at the start of a level", func() {
			Convey("Then progress should be exactly 0", func() {
				So(leveling.LevelProgress(315, s), ShouldEqual, 0)
				So(leveling.LevelProgress(2520, s), ShouldEqual, 0)
			})
		})

		Convey("When experience is between levels 1 and 2", func() {
			// level 1 starts at 315, level 2 at 2520
			p := leveling.LevelProgress(1418, s)

			Convey("Then progress should follow the cubic span", func() {
				So(p, ShouldAlmostEqual, float64(1418-315)/float64(2520-315), 1e-12)
			})
		})

		Convey("When sweeping a wide experience range", func() {
			Convey("Then progress stays in [0, 1)", func() {
				for xp := int64(0); xp <= 500_000; xp += 113 {
					p := leveling.LevelProgress(xp, s)
					So(p, ShouldBeGreaterThanOrEqualTo, 0)
					So(p, ShouldBeLessThan, 1)
				}
			})
		})
	})
}

func TestRoundTrip(t *testing.T) {
	Convey("Given levels derived across several scales", t, func() {
		Convey("Then each level's own threshold maps back to it", func() {
			for _, s := range []float64{1, 315, 1000} {
				for xp := int64(0); xp <= 1_000_000; xp += 9973 {
					level := leveling.HeroLevel(xp, s)
					floorXP := int64(leveling.ExperienceForLevel(level, s))
					So(leveling.HeroLevel(floorXP, s), ShouldEqual, level)
					So(leveling.ExperienceForLevel(level, s), ShouldBeLessThanOrEqualTo, float64(xp))
				}
			}
		})
	})
}

func TestDerive(t *testing.T) {
	Convey("Given checked level derivation", t, func() {
		Convey("When inputs are valid", func() {
			d, err := leveling.Derive(2520, 315)

			Convey("Then level and progress should be returned", func() {
				So(err, ShouldBeNil)
				So(d, ShouldResemble, model.DerivedLevel{Level: 2, Progress: 0})
			})
		})

		Convey("When experience is negative", func() {
			_, err := leveling.Derive(-1, 315)

			Convey("Then ErrInvalidExperienceValue should be returned", func() {
				So(errors.Is(err, leveling.ErrInvalidExperienceValue), ShouldBeTrue)
			})
		})

		Convey("When the scale is not positive", func() {
			_, errZero := leveling.Derive(10, 0)
			_, errNaN := leveling.Derive(10, math.NaN())
			_, errInf := leveling.Derive(10, math.Inf(1))

			Convey("Then ErrInvalidLevelScale should be returned", func() {
				So(errors.Is(errZero, leveling.ErrInvalidLevelScale), ShouldBeTrue)
				So(errors.Is(errNaN, leveling.ErrInvalidLevelScale), ShouldBeTrue)
				So(errors.Is(errInf, leveling.ErrInvalidLevelScale), ShouldBeTrue)
			})
		})
	})
}

func TestScaleOrDefault(t *testing.T) {
	cases := map[float64]float64{
		500:          500,
		0.5:          0.5,
		0:            leveling.DefaultLevelScale,
		-3:           leveling.DefaultLevelScale,
		math.Inf(1):  leveling.DefaultLevelScale,
		math.Inf(-1): leveling.DefaultLevelScale,
	}
	for in, want := range cases {
		if got := leveling.ScaleOrDefault(in); got != want {
			t.Errorf("ScaleOrDefault(%v) = %v, want %v", in, got, want)
		}
	}
	if got := leveling.ScaleOrDefault(math.NaN()); got != leveling.DefaultLevelScale {
		t.Errorf("ScaleOrDefault(NaN) = %v, want default", got)
	}
}
