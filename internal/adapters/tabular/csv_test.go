package tabular_test

import (
	"strings"
	"testing"

	"github.com/okian/opteams/internal/adapters/tabular"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleCSV = `Character,Energy,Fighting,Strength,Intellect,Threat,Special
spider_man,4,6,5,5,7,May enter play from reserve
hulk,3,7,8,2,9,
storm (V),8,5,4,5,6,Weather control
`

func TestCSVReader(t *testing.T) {
	Convey("Given a well-formed character CSV", t, func() {
		reader := &tabular.CSVReader{}

		Convey("When reading", func() {
			rows, err := reader.Read(strings.NewReader(sampleCSV))

			Convey("Then all rows are returned in order", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 3)
				So(rows[0].Name, ShouldEqual, "spider_man")
				So(rows[1].Name, ShouldEqual, "hulk")
				So(rows[2].Name, ShouldEqual, "storm (V)")
			})

			Convey("And stats stay unparsed strings", func() {
				So(rows[0].Stats["Strength"], ShouldEqual, "5")
				So(rows[1].Stats["Threat"], ShouldEqual, "9")
			})

			Convey("And line numbers account for the header", func() {
				So(rows[0].Line, ShouldEqual, 2)
				So(rows[2].Line, ShouldEqual, 4)
			})

			Convey("And special text is carried through", func() {
				So(rows[0].Special, ShouldEqual, "May enter play from reserve")
				So(rows[1].Special, ShouldEqual, "")
			})
		})
	})

	Convey("Given a CSV missing a required column", t, func() {
		csv := "Character,Energy,Fighting,Intellect,Threat,Special\nx,1,2,3,4,\n"

		Convey("When reading", func() {
			_, err := (&tabular.CSVReader{}).Read(strings.NewReader(csv))

			Convey("Then the missing column is named", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "Strength")
			})
		})
	})

	Convey("Given a CSV with a ragged row", t, func() {
		csv := "Character,Energy,Fighting,Strength,Intellect,Threat,Special\nx,1,2,3\n"

		Convey("When reading", func() {
			_, err := (&tabular.CSVReader{}).Read(strings.NewReader(csv))

			Convey("Then the offending line is identified", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "line 2")
			})
		})
	})

	Convey("Given an empty input", t, func() {
		Convey("When reading", func() {
			_, err := (&tabular.CSVReader{}).Read(strings.NewReader(""))

			Convey("Then the header failure is reported", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
