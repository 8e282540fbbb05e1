package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/dribble/internal/domain/model"
)

func intp(v int) *int { return &v }

func result(videoID string, eps ...model.Episode) model.VideoResult {
	return model.VideoResult{Job: model.VideoJob{VideoID: videoID}, Episodes: eps, Frames: 100}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		ctx := context.Background()
		s := NewMemoryStore(WithCapacity(4))

		Convey("Then lookups miss", func() {
			_, err := s.Get(ctx, "nope")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(s.Count(ctx), ShouldEqual, 0)
			So(s.List(ctx), ShouldBeEmpty)
		})

		Convey("When putting a result without video id", func() {
			err := s.Put(ctx, model.VideoResult{})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, ErrEmptyVideo), ShouldBeTrue)
			})
		})

		Convey("When storing results out of order", func() {
			dribble := model.Episode{PossessionHolder: 1, StartFrame: 3, EndFrame: intp(9), Finished: true, DetectedDribble: true}
			tackle := model.Episode{PossessionHolder: 2, StartFrame: 20, EndFrame: intp(30), Finished: true, DetectedTackle: true}
			So(s.Put(ctx, result("b", dribble, tackle, dribble)), ShouldBeNil)
			So(s.Put(ctx, result("a")), ShouldBeNil)
			failed := model.VideoResult{Job: model.VideoJob{VideoID: "c"}, Err: errors.New("labels file missing")}
			So(s.Put(ctx, failed), ShouldBeNil)

			Convey("Then List is ordered by video id", func() {
				list := s.List(ctx)
				So(list, ShouldHaveLength, 3)
				So(list[0].Job.VideoID, ShouldEqual, "a")
				So(list[1].Job.VideoID, ShouldEqual, "b")
				So(list[2].Job.VideoID, ShouldEqual, "c")
			})

			Convey("Then Summaries count classes and skips", func() {
				sums := s.Summaries(ctx)
				So(sums[1], ShouldResemble, Summary{VideoID: "b", Episodes: 3, Dribbles: 2, Tackles: 1, Frames: 100})
				So(sums[2].Skipped, ShouldBeTrue)
				So(sums[2].Error, ShouldEqual, "labels file missing")
			})

			Convey("Then returned episodes are copies", func() {
				got, err := s.Get(ctx, "b")
				So(err, ShouldBeNil)
				*got.Episodes[0].EndFrame = 99
				got.Episodes[0].Frames = append(got.Episodes[0].Frames, 42)

				again, _ := s.Get(ctx, "b")
				So(*again.Episodes[0].EndFrame, ShouldEqual, 9)
				So(again.Episodes[0].Frames, ShouldBeEmpty)
			})

			Convey("Then putting the same video replaces it", func() {
				So(s.Put(ctx, result("b")), ShouldBeNil)
				got, _ := s.Get(ctx, "b")
				So(got.Episodes, ShouldBeEmpty)
				So(s.Count(ctx), ShouldEqual, 3)
			})
		})
	})
}

func TestMemoryStoreConcurrency(t *testing.T) {
	Convey("Given concurrent writers and readers", t, func() {
		ctx := context.Background()
		s := NewMemoryStore()
		var wg sync.WaitGroup

		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				_ = s.Put(ctx, result(fmt.Sprintf("video-%03d", i)))
			}(i)
			go func() {
				defer wg.Done()
				_ = s.List(ctx)
				_ = s.Count(ctx)
			}()
		}
		wg.Wait()

		Convey("Then every video is stored once", func() {
			So(s.Count(ctx), ShouldEqual, 50)
		})
	})
}
