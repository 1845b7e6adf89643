package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording scoring metrics", func() {
			Convey("Then recording should not panic", func() {
				So(func() {
					RecordScoreComputed()
					RecordScoringError()
					RecordScoringLatency(12.5)
					RecordCandidateSkipped()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording cache metrics", func() {
			Convey("Then recording should not panic", func() {
				So(func() {
					RecordCacheUpsert()
					RecordCacheUpsertError()
					RecordCacheSweepDeleted(10)
					UpdateCacheEntries(100)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording discovery and job metrics", func() {
			Convey("Then recording should not panic", func() {
				So(func() {
					RecordDiscoveryRequest()
					RecordDiscoveryLatency(8.0)
					RecordJobRun("recompute_all")
					RecordJobFailure("recompute_all")
					RecordJobDuration("recompute_all", 150)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP and system metrics", func() {
			Convey("Then recording should not panic", func() {
				So(func() {
					RecordHTTPRequest("score", "POST", "200")
					RecordHTTPRequestDuration("score", "POST", "200", 3.5)
					RecordErrorByComponent("service", "cache_upsert")
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(42)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering from the registry", func() {
			families, err := GetRegistry().Gather()

			Convey("Then registered metrics are exposed", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
