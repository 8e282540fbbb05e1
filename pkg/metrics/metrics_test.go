package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(
			WithPrometheusRegistry(registry),
			WithNamespace("test"),
			WithSubsystem("unit"),
			WithHistogramBuckets([]float64{1, 10}),
			WithRefreshInterval(2*time.Second),
		)

		Convey("Then its collectors are registered there", func() {
			So(m, ShouldNotBeNil)
			So(m.RefreshInterval(), ShouldEqual, 2*time.Second)
			m.framesProcessed.Inc()
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			var names []string
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(strings.Join(names, ","), ShouldContainSubstring, "test_unit_frames_processed_total")
		})
	})
}

func TestRefreshInterval(t *testing.T) {
	Convey("Given the package-level manager", t, func() {
		Convey("Then pollers refresh at the default interval", func() {
			So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
		})
	})
}

func TestRecorders(t *testing.T) {
	Convey("Given the package-level recorders", t, func() {
		Convey("When recording detection metrics", func() {
			before := testutil.ToFloat64(globalManager.episodesEmitted.WithLabelValues("tackle"))
			RecordEpisodeEmitted("tackle")
			RecordEpisodeEmitted("tackle")

			Convey("Then the labelled counter advances", func() {
				after := testutil.ToFloat64(globalManager.episodesEmitted.WithLabelValues("tackle"))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When updating gauges", func() {
			UpdateQueueSize(7)
			UpdateWorkerCount(4)
			UpdateVideosStored(3)

			Convey("Then the gauges hold the last value", func() {
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.workerCount), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.videosStored), ShouldEqual, 3)
			})
		})

		Convey("When recording the rest", func() {
			So(func() {
				RecordFrameProcessed()
				RecordFrameRejected()
				RecordEpisodesDiscarded(2)
				RecordEpisodesMerged(1)
				RecordVideoProcessed(750, 12.5)
				RecordVideoSkipped("labels_missing")
				RecordVideoDuplicate()
				UpdateQueueCapacity(64)
				UpdateQueueUtilization(0.5)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueRejected()
				WorkerBusy(1)
				WorkerBusy(-1)
				RecordWorkerError()
				RecordHTTPRequest("videos", "GET", "200")
				RecordHTTPRequestDuration("videos", "GET", "200", 1.5)
				RecordErrorByComponent("worker", "labels_decode")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
			}, ShouldNotPanic)
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
