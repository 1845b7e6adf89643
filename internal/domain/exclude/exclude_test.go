package exclude_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/jamaine1984/indira/internal/domain/exclude"
)

func TestSet(t *testing.T) {
	Convey("Given a set built from a source and interaction histories", t, func() {
		likes := []string{"bob", "carol"}
		swipes := []string{"carol", "dave"}
		set := exclude.New("alice", likes, swipes)

		Convey("Then the source itself is excluded", func() {
			So(set.Contains("alice"), ShouldBeTrue)
		})

		Convey("Then every liked and swiped id is excluded", func() {
			So(set.Contains("bob"), ShouldBeTrue)
			So(set.Contains("carol"), ShouldBeTrue)
			So(set.Contains("dave"), ShouldBeTrue)
		})

		Convey("Then other ids are not excluded", func() {
			So(set.Contains("erin"), ShouldBeFalse)
		})

		Convey("Then overlapping lists are deduplicated", func() {
			// alice, bob, carol, dave
			So(set.Size(), ShouldEqual, 4)
		})

		Convey("When adding an empty id", func() {
			set.Add("")

			Convey("Then it is ignored", func() {
				So(set.Size(), ShouldEqual, 4)
				So(set.Contains(""), ShouldBeFalse)
			})
		})
	})
}
