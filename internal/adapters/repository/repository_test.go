package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/herostats/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryNameStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty name store", t, func() {
		s := NewMemoryNameStore()

		Convey("When a name is missing", func() {
			_, err := s.Get(ctx, "p1")

			Convey("Then ErrNotFound should be returned", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When names are stored", func() {
			So(s.Put(ctx, "p1", "Steve"), ShouldBeNil)
			So(s.Put(ctx, "p1", " Alex "), ShouldBeNil)

			Convey("Then the latest trimmed name should win", func() {
				name, err := s.Get(ctx, "p1")
				So(err, ShouldBeNil)
				So(name, ShouldEqual, "Alex")
				So(s.Len(), ShouldEqual, 1)
			})
		})

		Convey("When a blank name is stored", func() {
			err := s.Put(ctx, "p1", "  ")

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, ErrInvalidName), ShouldBeTrue)
				So(s.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestMemoryPool(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given an empty pool", t, func() {
		p := NewMemoryPool(WithClock(func() time.Time { return at }))

		Convey("Then it should have no values and no refresh time", func() {
			So(p.ValuesFor(ctx, model.StatKills), ShouldBeEmpty)
			So(p.UpdatedAt(model.StatKills).IsZero(), ShouldBeTrue)
			So(p.Size(), ShouldEqual, 0)
		})

		Convey("When records are merged", func() {
			p.Merge(ctx, model.StatKills, []model.StatRecord{
				{PlayerID: "a", Kills: 50, Deaths: 3},
				{PlayerID: "b", Kills: 40, Deaths: 9},
				{PlayerID: "", Kills: 999},
			})

			Convey("Then values should cover every pooled record", func() {
				kills := p.ValuesFor(ctx, model.StatKills)
				sort.Float64s(kills)
				So(kills, ShouldResemble, []float64{40, 50})
				So(p.Size(), ShouldEqual, 2)
				So(p.UpdatedAt(model.StatKills).Equal(at), ShouldBeTrue)
				So(p.UpdatedAt(model.StatDeaths).IsZero(), ShouldBeTrue)
			})

			Convey("And a later merge should update known players", func() {
				p.Merge(ctx, model.StatDeaths, []model.StatRecord{
					{PlayerID: "a", Kills: 55, Deaths: 4},
					{PlayerID: "c", Kills: 1, Deaths: 20},
				})

				rec, err := p.Record(ctx, "a")
				So(err, ShouldBeNil)
				So(rec.Kills, ShouldEqual, 55)
				So(p.Size(), ShouldEqual, 3)
			})

			Convey("And an upsert should replace a pooled record without a refresh", func() {
				later := at.Add(time.Hour)
				p.now = func() time.Time { return later }

				So(p.Upsert(ctx, model.StatRecord{PlayerID: "a", Kills: 51}), ShouldBeTrue)
				So(p.Upsert(ctx, model.StatRecord{PlayerID: "ghost", Kills: 99}), ShouldBeFalse)

				kills := p.ValuesFor(ctx, model.StatKills)
				sort.Float64s(kills)
				So(kills, ShouldResemble, []float64{40, 51})
				So(p.Size(), ShouldEqual, 2)
				So(p.UpdatedAt(model.StatKills).Equal(at), ShouldBeTrue)
			})

			Convey("And the returned values should be a copy", func() {
				vs := p.ValuesFor(ctx, model.StatKills)
				vs[0] = -1
				So(p.ValuesFor(ctx, model.StatKills), ShouldNotContain, -1.0)
			})
		})

		Convey("When looking up an unknown record", func() {
			_, err := p.Record(ctx, "ghost")

			Convey("Then ErrNotFound should be returned", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a bounded pool", t, func() {
		p := NewMemoryPool(WithMaxRecords(2))
		p.Merge(ctx, model.StatXP, []model.StatRecord{{PlayerID: "a", XP: 1}, {PlayerID: "b", XP: 2}})

		Convey("When new ids arrive after it is full", func() {
			p.Merge(ctx, model.StatXP, []model.StatRecord{{PlayerID: "c", XP: 3}, {PlayerID: "a", XP: 10}})

			Convey("Then they should be dropped while known ids update", func() {
				xp := p.ValuesFor(ctx, model.StatXP)
				sort.Float64s(xp)
				if diff := cmp.Diff([]float64{2, 10}, xp); diff != "" {
					t.Errorf("pool values mismatch (-want +got):\n%s", diff)
				}
				So(p.Size(), ShouldEqual, 2)
			})
		})
	})
}

func TestMemoryPoolConcurrency(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPool()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			p.Merge(ctx, model.StatBounty, []model.StatRecord{{PlayerID: string(rune('a' + n)), Bounty: int64(n)}})
		}(i)
		go func() {
			defer wg.Done()
			_ = p.ValuesFor(ctx, model.StatBounty)
		}()
	}
	wg.Wait()

	if got := len(p.ValuesFor(ctx, model.StatBounty)); got != 8 {
		t.Errorf("expected 8 pooled values, got %d", got)
	}
}
