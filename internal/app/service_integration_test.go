package service_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/dribble/internal/adapters/dataset"
	"github.com/okian/dribble/internal/adapters/export"
	service "github.com/okian/dribble/internal/app"
	"github.com/okian/dribble/internal/synth"
)

func TestService_EndToEnd(t *testing.T) {
	Convey("Given a synthetic dataset with one broken video", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		root := t.TempDir()
		cfg := &synth.Config{OutDir: root, Subset: "interpolated-predictions", Videos: 8, Seed: 11}
		expected, err := synth.Generate(ctx, cfg, nil)
		So(err, ShouldBeNil)
		So(os.MkdirAll(root+"/interpolated-predictions/SNGS-999", 0o750), ShouldBeNil)

		ds := dataset.New(root)
		jobs, err := ds.Discover(ctx)
		So(err, ShouldBeNil)
		So(jobs, ShouldHaveLength, 9)

		svc := service.New(
			service.WithFrameSource(ds),
			service.WithWorkerCount(3),
			service.WithQueueSize(4),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When every video is submitted and awaited", func() {
			for _, job := range jobs {
				_, err := svc.Submit(ctx, job)
				So(err, ShouldBeNil)
			}
			So(svc.Wait(ctx), ShouldBeNil)

			Convey("Then detection matches the scripted scenarios", func() {
				mismatches, err := synth.Verify(ctx, expected, svc.Summaries(ctx))
				So(err, ShouldBeNil)
				So(mismatches, ShouldEqual, 0)

				stats := svc.GetStats()
				So(stats["completed"], ShouldEqual, int64(8))
				So(stats["skipped"], ShouldEqual, int64(1))
			})

			Convey("Then the export lists only readable videos", func() {
				out := t.TempDir()
				doc := export.NewBuilder().Build(svc.Results(ctx))
				path, err := export.Write(out, doc)
				So(err, ShouldBeNil)

				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				var got export.Document
				So(json.Unmarshal(data, &got), ShouldBeNil)
				So(got.Info.Version, ShouldEqual, "dribble_events_1.0")
				So(got.Videos, ShouldHaveLength, 8)
				So(got.Videos[0].FileName, ShouldEqual, "000001.jpg")

				events := 0
				for _, v := range got.Videos {
					events += len(v.DribbleEvents)
					for _, e := range v.DribbleEvents {
						So(e.Finished, ShouldBeTrue)
						So(e.EndFrame, ShouldNotBeNil)
					}
				}
				want := 0
				for _, e := range expected {
					want += e.Dribbles + e.Tackles
				}
				So(events, ShouldEqual, want)
			})
		})
	})
}
