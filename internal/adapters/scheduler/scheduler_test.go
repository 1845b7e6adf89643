package scheduler_test

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/jamaine1984/indira/internal/adapters/scheduler"
	"github.com/jamaine1984/indira/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
	os.Exit(m.Run())
}

func TestRunner(t *testing.T) {
	Convey("Given a runner with registered jobs", t, func() {
		runner := scheduler.New(scheduler.WithRunTimeout(time.Second))

		Convey("When registering with an invalid cron spec", func() {
			err := runner.Register("bad", "not a spec", func(context.Context) error { return nil })

			So(err, ShouldNotBeNil)
		})

		Convey("When a ticking job runs", func() {
			var runs atomic.Int64
			So(runner.Register("tick", "@every 100ms", func(context.Context) error {
				runs.Add(1)
				return nil
			}), ShouldBeNil)

			runner.Start()
			time.Sleep(350 * time.Millisecond)
			runner.Stop(context.Background())

			Convey("Then it fires repeatedly on the cadence", func() {
				So(runs.Load(), ShouldBeGreaterThanOrEqualTo, 2)
			})
		})

		Convey("When a job fails or panics", func() {
			var after atomic.Int64
			So(runner.Register("fail", "@every 100ms", func(context.Context) error {
				return errors.New("boom")
			}), ShouldBeNil)
			So(runner.Register("panic", "@every 100ms", func(context.Context) error {
				panic("boom")
			}), ShouldBeNil)
			So(runner.Register("healthy", "@every 100ms", func(context.Context) error {
				after.Add(1)
				return nil
			}), ShouldBeNil)

			runner.Start()
			time.Sleep(350 * time.Millisecond)
			runner.Stop(context.Background())

			Convey("Then other jobs keep running", func() {
				So(after.Load(), ShouldBeGreaterThanOrEqualTo, 2)
			})
		})

		Convey("When a job outlives the run timeout", func() {
			tight := scheduler.New(scheduler.WithRunTimeout(50 * time.Millisecond))
			var sawDeadline atomic.Bool
			So(tight.Register("slow", "@every 100ms", func(ctx context.Context) error {
				select {
				case <-ctx.Done():
					sawDeadline.Store(true)
					return ctx.Err()
				case <-time.After(time.Second):
					return nil
				}
			}), ShouldBeNil)

			tight.Start()
			time.Sleep(300 * time.Millisecond)
			tight.Stop(context.Background())

			Convey("Then the run context expires", func() {
				So(sawDeadline.Load(), ShouldBeTrue)
			})
		})
	})
}
