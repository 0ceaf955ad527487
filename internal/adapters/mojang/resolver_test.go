package mojang_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/okian/herostats/internal/adapters/mojang"
	"github.com/okian/herostats/internal/adapters/upstream"
	logging "github.com/okian/herostats/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	steveID      = "8667ba71-b85a-4004-af54-457a9734eed7"
	steveCompact = "8667ba71b85a4004af54457a9734eed7"
)

type fakeServices struct {
	primaryDown  bool
	fallbackDown bool
	fallbackHits atomic.Int32
}

func (f *fakeServices) primary() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/session/minecraft/profile/", func(w http.ResponseWriter, r *http.Request) {
		if f.primaryDown {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		if r.URL.Path != "/session/minecraft/profile/"+steveCompact {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(`{"id":"` + steveCompact + `","name":"Steve"}`))
	})
	mux.HandleFunc("/users/profiles/minecraft/", func(w http.ResponseWriter, r *http.Request) {
		if f.primaryDown {
			http.Error(w, "down", http.StatusTooManyRequests)
			return
		}
		if r.URL.Path != "/users/profiles/minecraft/Steve" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"id":"` + steveCompact + `","name":"Steve"}`))
	})
	return httptest.NewServer(mux)
}

func (f *fakeServices) fallback() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.fallbackHits.Add(1)
		if f.fallbackDown {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		switch r.URL.Path {
		case "/api/player/minecraft/" + steveID, "/api/player/minecraft/Steve":
			_, _ = w.Write([]byte(`{"success":true,"data":{"player":{"id":"` + steveID + `","username":"SteveFromDB"}}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"success":false,"code":"minecraft.invalid_username"}`))
		}
	}))
}

func TestResolver(t *testing.T) {
	_ = logging.Init()
	ctx := context.Background()

	Convey("Given a resolver with a primary and a fallback service", t, func() {
		f := &fakeServices{}
		primary := f.primary()
		defer primary.Close()
		fallback := f.fallback()
		defer fallback.Close()

		r := mojang.NewResolver(
			mojang.WithSessionURL(primary.URL),
			mojang.WithLookupURL(primary.URL),
			mojang.WithFallbackURL(fallback.URL),
			mojang.WithUpstreams(upstream.New("mojang-test"), upstream.New("playerdb-test")),
		)

		Convey("When the primary answers", func() {
			name, err := r.ProfileName(ctx, steveID)
			id, idErr := r.UUIDFor(ctx, "Steve")

			Convey("Then its answers should be used without the fallback", func() {
				So(err, ShouldBeNil)
				So(name, ShouldEqual, "Steve")
				So(idErr, ShouldBeNil)
				So(id, ShouldEqual, steveID)
				So(f.fallbackHits.Load(), ShouldEqual, 0)
			})
		})

		Convey("When the primary is down", func() {
			f.primaryDown = true
			name, err := r.ProfileName(ctx, steveID)
			id, idErr := r.UUIDFor(ctx, "Steve")

			Convey("Then the fallback should answer", func() {
				So(err, ShouldBeNil)
				So(name, ShouldEqual, "SteveFromDB")
				So(idErr, ShouldBeNil)
				So(id, ShouldEqual, steveID)
				So(f.fallbackHits.Load(), ShouldEqual, 2)
			})
		})

		Convey("When both services fail", func() {
			f.primaryDown = true
			f.fallbackDown = true
			_, err := r.ProfileName(ctx, steveID)

			Convey("Then the combined error should be returned", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, upstream.ErrUnavailable), ShouldBeTrue)
				So(errors.Is(err, mojang.ErrProfileNotFound), ShouldBeFalse)
			})
		})

		Convey("When neither service knows the player", func() {
			_, err := r.ProfileName(ctx, "00000000-0000-0000-0000-000000000001")
			_, idErr := r.UUIDFor(ctx, "Nobody")

			Convey("Then ErrProfileNotFound should be returned", func() {
				So(errors.Is(err, mojang.ErrProfileNotFound), ShouldBeTrue)
				So(errors.Is(idErr, mojang.ErrProfileNotFound), ShouldBeTrue)
			})
		})

		Convey("When the name is not a valid player name", func() {
			_, err := r.UUIDFor(ctx, "a/b")

			Convey("Then no service should be called", func() {
				So(errors.Is(err, mojang.ErrInvalidName), ShouldBeTrue)
				So(f.fallbackHits.Load(), ShouldEqual, 0)
			})
		})
	})
}
