package leveling_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/herostats/internal/domain/leveling"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPodiumRank(t *testing.T) {
	Convey("Given a pool with a tie at the top", t, func() {
		pool := []float64{100, 90, 100, 80, 70}

		Convey("Then distinct values should take consecutive places", func() {
			So(leveling.PodiumRank(100, pool), ShouldEqual, 1)
			So(leveling.PodiumRank(90, pool), ShouldEqual, 2)
			So(leveling.PodiumRank(80, pool), ShouldEqual, 3)
		})

		Convey("Then the fourth distinct value should be unranked", func() {
			So(leveling.PodiumRank(70, pool), ShouldEqual, 0)
		})

		Convey("Then a value missing from the pool should be unranked", func() {
			So(leveling.PodiumRank(95, pool), ShouldEqual, 0)
		})
	})

	Convey("Given a pool where every entry is equal", t, func() {
		pool := []float64{5, 5, 5, 5, 5}

		Convey("Then that value should hold first place only", func() {
			So(leveling.PodiumRank(5, pool), ShouldEqual, 1)
		})
	})

	Convey("Given many players tied at zero", t, func() {
		pool := []float64{0, 0, 0, 0, 12, 0, 3}

		Convey("Then zero should take a single place", func() {
			So(leveling.PodiumRank(12, pool), ShouldEqual, 1)
			So(leveling.PodiumRank(3, pool), ShouldEqual, 2)
			So(leveling.PodiumRank(0, pool), ShouldEqual, 3)
		})
	})

	Convey("Given an empty pool", t, func() {
		Convey("Then every value should be unranked", func() {
			So(leveling.PodiumRank(10, nil), ShouldEqual, 0)
			So(leveling.PodiumRank(0, []float64{}), ShouldEqual, 0)
		})
	})

	Convey("Given NaN in the pool or as the value", t, func() {
		pool := []float64{math.NaN(), 4, 2}

		Convey("Then NaN should be ignored", func() {
			So(leveling.PodiumRank(4, pool), ShouldEqual, 1)
			So(leveling.PodiumRank(math.NaN(), pool), ShouldEqual, 0)
		})
	})
}

func TestDistinctDescending(t *testing.T) {
	got := leveling.DistinctDescending([]float64{3, 1, 3, 2, 1, 7})
	want := []float64{7, 3, 2, 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DistinctDescending mismatch (-want +got):\n%s", diff)
	}
}
