package worker_test

import (
	"context"
	"errors"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	worker "github.com/accakut/facspair/internal/adapters/worker"
	logging "github.com/accakut/facspair/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logging.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type span struct{ lo, hi int }

// collect runs Range and returns the chunks it produced, sorted by lo.
func collect(p *worker.Pool, n int) ([]span, error) {
	var mu sync.Mutex
	var spans []span
	err := p.Range(context.Background(), n, func(_ context.Context, lo, hi int) error {
		mu.Lock()
		defer mu.Unlock()
		spans = append(spans, span{lo, hi})
		return nil
	})
	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })
	return spans, err
}

func TestNewPool(t *testing.T) {
	convey.Convey("Given pool construction", t, func() {
		convey.Convey("When the worker count is positive", func() {
			p := worker.NewPool(3, worker.WithName("pairing"))
			convey.So(p.Size(), convey.ShouldEqual, 3)
		})

		convey.Convey("When the worker count is zero", func() {
			p := worker.NewPool(0)
			convey.So(p.Size(), convey.ShouldBeGreaterThanOrEqualTo, 1)
		})

		convey.Convey("When a custom logger is given", func() {
			p := worker.NewPool(1, worker.WithLogger(logging.Named("custom")), worker.WithLogger(nil))
			convey.So(p, convey.ShouldNotBeNil)
		})
	})
}

func TestPoolRange(t *testing.T) {
	convey.Convey("Given a pool of four workers", t, func() {
		p := worker.NewPool(4)

		convey.Convey("When ten items are ranged over", func() {
			spans, err := collect(p, 10)

			convey.Convey("Then the chunks tile [0,10) without overlap", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(spans), convey.ShouldBeLessThanOrEqualTo, 4)
				next := 0
				for _, s := range spans {
					convey.So(s.lo, convey.ShouldEqual, next)
					convey.So(s.hi, convey.ShouldBeGreaterThan, s.lo)
					next = s.hi
				}
				convey.So(next, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When fewer items than workers are ranged over", func() {
			spans, err := collect(p, 2)
			convey.So(err, convey.ShouldBeNil)
			convey.So(spans, convey.ShouldResemble, []span{{0, 1}, {1, 2}})
		})

		convey.Convey("When there are no items", func() {
			spans, err := collect(p, 0)
			convey.So(err, convey.ShouldBeNil)
			convey.So(spans, convey.ShouldBeEmpty)
		})

		convey.Convey("When the chunk function is nil", func() {
			err := p.Range(context.Background(), 5, nil)
			convey.So(errors.Is(err, worker.ErrNilFunc), convey.ShouldBeTrue)
		})

		convey.Convey("When a chunk fails", func() {
			boom := errors.New("boom")
			err := p.Range(context.Background(), 8, func(_ context.Context, lo, _ int) error {
				if lo == 0 {
					return boom
				}
				return nil
			})

			convey.Convey("Then the error is returned wrapped", func() {
				convey.So(errors.Is(err, boom), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the context is already canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			called := false
			var mu sync.Mutex
			err := p.Range(ctx, 8, func(context.Context, int, int) error {
				mu.Lock()
				called = true
				mu.Unlock()
				return nil
			})

			convey.Convey("Then no chunk runs", func() {
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
				convey.So(called, convey.ShouldBeFalse)
			})
		})
	})
}
