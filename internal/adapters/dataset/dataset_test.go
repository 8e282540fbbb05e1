package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/dribble/internal/domain/model"
)

func intp(v int) *int { return &v }

func bbox(x, y float64) *BboxPitch {
	return &BboxPitch{
		XBottomLeft: x - 0.5, YBottomLeft: y,
		XBottomRight: x + 0.5, YBottomRight: y,
		XBottomMiddle: x, YBottomMiddle: y,
	}
}

func sampleLabels() *Labels {
	return &Labels{
		Info: Info{Version: "1.3", Name: "SNGS-021", SeqLength: 3},
		Images: []Image{
			{ImageID: "img-1", FileName: "000001.jpg"},
			{ImageID: "img-2", FileName: "000002.jpg"},
			{ImageID: "img-3", FileName: "000003.jpg"},
		},
		Categories: []Category{
			{ID: 1, Name: "player", Supercategory: "object"},
			{ID: 2, Name: "goalkeeper", Supercategory: "object"},
			{ID: 3, Name: "referee", Supercategory: "object"},
			{ID: 4, Name: "ball", Supercategory: "object"},
			{ID: 5, Name: "pitch", Supercategory: "pitch"},
		},
		Annotations: []Annotation{
			// image 1: two players, a referee, two balls, the pitch
			{ID: "a1", ImageID: "img-1", TrackID: intp(7), CategoryID: 1, BboxPitch: bbox(1, 2),
				Attributes: &Attributes{Team: "left"}},
			{ID: "a2", ImageID: "img-1", TrackID: intp(9), CategoryID: 2, BboxPitch: bbox(4, 4),
				Attributes: &Attributes{Team: "right"}},
			{ID: "a3", ImageID: "img-1", TrackID: intp(11), CategoryID: 3, BboxPitch: bbox(0, 0)},
			{ID: "a4", ImageID: "img-1", CategoryID: 4, BboxPitch: bbox(1.5, 2)},
			{ID: "a5", ImageID: "img-1", CategoryID: 4, BboxPitch: bbox(30, 30)},
			{ID: "a6", ImageID: "img-1", CategoryID: 5},
			// image 2: only a ball
			{ID: "b1", ImageID: "img-2", CategoryID: 4, BboxPitch: bbox(1, 1)},
			// image 3: a player without track id, one without pitch box, one valid, no ball
			{ID: "c1", ImageID: "img-3", CategoryID: 1, BboxPitch: bbox(5, 5)},
			{ID: "c2", ImageID: "img-3", TrackID: intp(3), CategoryID: 1},
			{ID: "c3", ImageID: "img-3", TrackID: intp(7), CategoryID: 1, BboxPitch: bbox(2, 2),
				Attributes: &Attributes{Team: "left"}},
		},
	}
}

func writeVideo(t *testing.T, dir string, labels *Labels) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if labels == nil {
		return
	}
	data, err := json.Marshal(labels)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, LabelsFile), data, 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestConvert(t *testing.T) {
	Convey("Given labels with mixed annotations", t, func() {
		labels := sampleLabels()
		missing := model.Point{X: 1e9, Y: 1e9}

		Convey("When converting with no filters", func() {
			frames := New("").Convert(labels)

			Convey("Then player-less images are dropped and numbering follows image order", func() {
				want := []model.Frame{
					{
						Number: 0,
						Players: []model.Player{
							{ID: 7, Position: model.Point{X: 1, Y: 2}},
							{ID: 9, Position: model.Point{X: 4, Y: 4}},
							{ID: 11, Position: model.Point{X: 0, Y: 0}},
						},
						Ball: model.Ball{Position: model.Point{X: 1.5, Y: 2}},
					},
					{
						Number:  2,
						Players: []model.Player{{ID: 7, Position: model.Point{X: 2, Y: 2}}},
						Ball:    model.Ball{Position: missing},
					},
				}
				So(cmp.Diff(want, frames), ShouldBeEmpty)
			})
		})

		Convey("When ignoring referees and the right team", func() {
			frames := New("",
				WithIgnorePersonClasses("referee"),
				WithIgnoreTeams("right"),
				WithMissingBall(model.Point{X: -1, Y: -1}),
			).Convert(labels)

			Convey("Then only the left player remains", func() {
				So(frames, ShouldHaveLength, 2)
				So(frames[0].Players, ShouldHaveLength, 1)
				So(frames[0].Players[0].ID, ShouldEqual, 7)
				So(frames[1].Ball.Position, ShouldResemble, model.Point{X: -1, Y: -1})
			})
		})

		Convey("When the ball category is ignored", func() {
			frames := New("", WithIgnorePersonClasses("ball")).Convert(labels)

			Convey("Then the missing ball position is used", func() {
				So(frames[0].Ball.Position, ShouldResemble, missing)
			})
		})
	})
}

func TestDiscoverAndLoad(t *testing.T) {
	Convey("Given a dataset root with two subsets", t, func() {
		root := t.TempDir()
		writeVideo(t, filepath.Join(root, "test", "SNGS-117"), sampleLabels())
		writeVideo(t, filepath.Join(root, "test", "SNGS-021"), sampleLabels())
		writeVideo(t, filepath.Join(root, "test", "SNGS-050"), nil)
		writeVideo(t, filepath.Join(root, "valid", "SNGS-001"), sampleLabels())
		So(os.WriteFile(filepath.Join(root, "test", "README"), []byte("x"), 0o600), ShouldBeNil)
		bad := filepath.Join(root, "valid", "SNGS-002")
		writeVideo(t, bad, nil)
		So(os.WriteFile(filepath.Join(bad, LabelsFile), []byte("{not json"), 0o600), ShouldBeNil)

		ds := New(root, WithSubsets("test", "valid"))
		ctx := context.Background()

		Convey("When discovering", func() {
			jobs, err := ds.Discover(ctx)

			Convey("Then directories are listed per subset in name order", func() {
				So(err, ShouldBeNil)
				ids := make([]string, len(jobs))
				for i, j := range jobs {
					ids[i] = j.VideoID
					So(j.Index, ShouldEqual, i)
				}
				So(ids, ShouldResemble, []string{
					"test/SNGS-021", "test/SNGS-050", "test/SNGS-117",
					"valid/SNGS-001", "valid/SNGS-002",
				})
			})

			Convey("Then loading reports missing and malformed labels", func() {
				frames, err := ds.Frames(ctx, jobs[0])
				So(err, ShouldBeNil)
				So(frames, ShouldHaveLength, 2)

				_, err = ds.Frames(ctx, jobs[1])
				So(errors.Is(err, ErrLabelsMissing), ShouldBeTrue)

				_, err = ds.Frames(ctx, jobs[4])
				So(errors.Is(err, ErrLabelsDecode), ShouldBeTrue)
			})
		})

		Convey("When a subset does not exist", func() {
			_, err := New(root, WithSubsets("challenge")).Discover(ctx)

			Convey("Then ErrSubsetMissing is returned", func() {
				So(errors.Is(err, ErrSubsetMissing), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := ds.Frames(cctx, model.VideoJob{Dir: filepath.Join(root, "test", "SNGS-021")})

			Convey("Then loading stops", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}
