package scoring_test

import (
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/jamaine1984/indira/internal/domain/model"
	"github.com/jamaine1984/indira/internal/domain/scoring"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestCalculator_Score(t *testing.T) {
	Convey("Given a calculator with a fixed clock", t, func() {
		calc := scoring.NewCalculator(scoring.WithClock(fixedNow))

		Convey("When scoring the reference pair", func() {
			// 3 of the source's 5 interests shared, ~1.4km apart, age
			// gap 3, target seen 30 minutes ago, complete profile.
			source := model.Profile{
				ID:        "alice",
				Interests: []string{"hiking", "cooking", "travel", "music", "movies"},
				Location:  &model.Location{Lat: 34.0522, Lon: -118.2437},
				Age:       intPtr(30),
			}
			target := model.Profile{
				ID:        "bob",
				Interests: []string{"hiking", "cooking", "travel"},
				Location:  &model.Location{Lat: 34.0622, Lon: -118.2537},
				Age:       intPtr(33),
				LastSeen:  timePtr(fixedNow().Add(-30 * time.Minute)),
				Photos:    []string{"p1.jpg"},
				Bio:       "hello",
			}

			Convey("Then the factors sum to 80.00", func() {
				// interests 18 + distance 25 + age 12 + activity 15 + completeness 10
				So(calc.Score(source, target), ShouldEqual, 80.00)
			})

			Convey("And scoring is deterministic", func() {
				first := calc.Score(source, target)
				second := calc.Score(source, target)
				So(first, ShouldEqual, second)
			})
		})

		Convey("When only locations are set", func() {
			source := model.Profile{ID: "a", Location: &model.Location{Lat: 34.0522, Lon: -118.2437}}

			Convey("Then a ~1.4km pair lands in the closest bucket", func() {
				target := model.Profile{ID: "b", Location: &model.Location{Lat: 34.0622, Lon: -118.2537}}
				So(calc.Score(source, target), ShouldEqual, 25)
			})

			Convey("And farther pairs land in coarser buckets", func() {
				// ~0.18 degrees latitude is ~20km
				near := model.Profile{ID: "b", Location: &model.Location{Lat: 34.232, Lon: -118.2437}}
				So(calc.Score(source, near), ShouldEqual, 20)

				// ~3 degrees latitude is ~330km
				far := model.Profile{ID: "c", Location: &model.Location{Lat: 37.0522, Lon: -118.2437}}
				So(calc.Score(source, far), ShouldEqual, 5)
			})
		})

		Convey("When the target's location is missing", func() {
			source := model.Profile{
				ID:        "alice",
				Interests: []string{"hiking", "cooking"},
				Location:  &model.Location{Lat: 34.0522, Lon: -118.2437},
				Age:       intPtr(30),
			}
			target := model.Profile{
				ID:        "bob",
				Interests: []string{"hiking", "cooking"},
				Age:       intPtr(31),
				LastSeen:  timePtr(fixedNow().Add(-30 * time.Minute)),
				Photos:    []string{"p1.jpg"},
				Bio:       "hello",
			}

			Convey("Then the distance factor contributes zero", func() {
				// interests 30 + distance 0 + age 15 + activity 15 + completeness 10
				So(calc.Score(source, target), ShouldEqual, 70.00)
			})
		})

		Convey("When the profiles are empty", func() {
			Convey("Then every factor degrades to zero without error", func() {
				So(calc.Score(model.Profile{ID: "a"}, model.Profile{ID: "b"}), ShouldEqual, 0)
			})
		})

		Convey("When interest-set sizes differ between directions", func() {
			a := model.Profile{ID: "a", Interests: []string{"hiking", "cooking"}}
			b := model.Profile{ID: "b", Interests: []string{"hiking", "cooking", "travel", "music"}}

			Convey("Then the score is directional", func() {
				// a->b normalizes by 2 shared of 2; b->a by 2 of 4. The
				// completeness factor also reads only the target.
				So(calc.Score(a, b), ShouldNotEqual, calc.Score(b, a))
			})
		})

		Convey("When scoring arbitrary pairs", func() {
			profiles := []model.Profile{
				{ID: "p1"},
				{ID: "p2", Interests: []string{"x"}, Age: intPtr(20)},
				{
					ID:        "p3",
					Interests: []string{"x", "y", "z"},
					Location:  &model.Location{Lat: 40.7128, Lon: -74.0060},
					Age:       intPtr(55),
					LastSeen:  timePtr(fixedNow().Add(-200 * time.Hour)),
					Photos:    []string{"a.jpg", "b.jpg"},
					Bio:       "bio",
				},
			}

			Convey("Then every score is bounded and has two decimals", func() {
				for _, src := range profiles {
					for _, tgt := range profiles {
						got := calc.Score(src, tgt)
						So(got, ShouldBeGreaterThanOrEqualTo, 0)
						So(got, ShouldBeLessThanOrEqualTo, 100)
						So(math.Round(got*100), ShouldEqual, got*100)
					}
				}
			})
		})

		Convey("When the age gap crosses bucket boundaries", func() {
			base := model.Profile{ID: "a", Age: intPtr(30)}

			Convey("Then each bucket awards its fixed points", func() {
				So(calc.Score(base, model.Profile{ID: "b", Age: intPtr(32)}), ShouldEqual, 15)
				So(calc.Score(base, model.Profile{ID: "b", Age: intPtr(35)}), ShouldEqual, 12)
				So(calc.Score(base, model.Profile{ID: "b", Age: intPtr(40)}), ShouldEqual, 8)
				So(calc.Score(base, model.Profile{ID: "b", Age: intPtr(50)}), ShouldEqual, 4)
			})
		})

		Convey("When the target's activity recency varies", func() {
			source := model.Profile{ID: "a"}
			seen := func(ago time.Duration) model.Profile {
				return model.Profile{ID: "b", LastSeen: timePtr(fixedNow().Add(-ago))}
			}

			Convey("Then each bucket awards its fixed points", func() {
				So(calc.Score(source, seen(30*time.Minute)), ShouldEqual, 15)
				So(calc.Score(source, seen(10*time.Hour)), ShouldEqual, 12)
				So(calc.Score(source, seen(48*time.Hour)), ShouldEqual, 8)
				So(calc.Score(source, seen(100*time.Hour)), ShouldEqual, 4)
			})
		})

		Convey("When the target profile is partially complete", func() {
			source := model.Profile{ID: "a"}

			Convey("Then completeness points are independent and additive", func() {
				So(calc.Score(source, model.Profile{ID: "b", Photos: []string{"p"}}), ShouldEqual, 4)
				So(calc.Score(source, model.Profile{ID: "b", Bio: "hi"}), ShouldEqual, 3)
				So(calc.Score(source, model.Profile{ID: "b", Interests: []string{"x"}}), ShouldEqual, 3)
			})
		})
	})
}
