package model_test

import (
	"testing"

	"github.com/okian/dribble/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIDSet(t *testing.T) {
	Convey("Given id sets", t, func() {
		outer := model.NewIDSet(3, 1, 2)
		inner := model.NewIDSet(2)

		Convey("Then membership and ordering should hold", func() {
			So(outer.Has(1), ShouldBeTrue)
			So(outer.Has(4), ShouldBeFalse)
			So(outer.Len(), ShouldEqual, 3)
			So(outer.Sorted(), ShouldResemble, []int{1, 2, 3})
		})

		Convey("Then subset checks should be directional", func() {
			So(inner.SubsetOf(outer), ShouldBeTrue)
			So(outer.SubsetOf(inner), ShouldBeFalse)
			So(model.IDSet{}.SubsetOf(inner), ShouldBeTrue)
		})

		Convey("When cloning a set", func() {
			c := outer.Clone()
			c.Add(9)

			Convey("Then the original is unchanged", func() {
				So(outer.Has(9), ShouldBeFalse)
				So(c.Has(9), ShouldBeTrue)
			})
		})
	})
}

func TestEpisode(t *testing.T) {
	Convey("Given a new episode", t, func() {
		e := model.NewEpisode(7, 10)

		Convey("Then it starts unfinished with its start frame recorded", func() {
			So(e.Frames, ShouldResemble, []int{10})
			So(e.EndFrame, ShouldBeNil)
			So(e.End(), ShouldEqual, 10)
			So(e.Class(), ShouldEqual, model.ClassNone)
		})

		Convey("When flags are set", func() {
			e.DetectedDribble = true
			So(e.Class(), ShouldEqual, model.ClassDribble)
			e.DetectedTackle = true
			So(e.Class(), ShouldEqual, model.ClassTackle)
			So(e.Class().String(), ShouldEqual, "tackle")
		})

		Convey("When cloning a finalized episode", func() {
			end := 12
			e.EndFrame = &end
			e.AddFrame(11)
			e.InnerDefenders.Add(3)
			c := e.Clone()
			c.AddFrame(12)
			*c.EndFrame = 99
			c.InnerDefenders.Add(4)

			Convey("Then the copy shares no mutable state", func() {
				So(e.Frames, ShouldResemble, []int{10, 11})
				So(*e.EndFrame, ShouldEqual, 12)
				So(e.InnerDefenders.Has(4), ShouldBeFalse)
			})
		})
	})
}
