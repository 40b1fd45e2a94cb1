// Package colorize assigns palette colours to timeline benefit series.
package colorize

import (
	"fmt"

	"github.com/sells-group/cobenefits-atlas/internal/model"
)

// Palette is the fixed series palette. Series beyond its length wrap.
var Palette = [...]string{"#3b82f6", "#10b981", "#06b6d4", "#f59e0b", "#8b5cf6", "#ef4444", "#f97316"}

// ColorAt returns the palette colour for a series ordinal.
func ColorAt(i int) string {
	n := len(Palette)
	return Palette[((i%n)+n)%n]
}

// GradientID is the SVG gradient id used to fill series i.
func GradientID(i int) string {
	return fmt.Sprintf("color-%d", i)
}

// Point is one year's value of a series.
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Series is one benefit category across all frames.
type Series struct {
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	Gradient string  `json:"gradient"`
	Points   []Point `json:"points"`
}

// LegendEntry pairs a series name with its colour.
type LegendEntry struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Chart is the colourised timeline. Series and Legend share one
// ordinal-to-colour mapping.
type Chart struct {
	Years  []int         `json:"years"`
	Series []Series      `json:"series"`
	Legend []LegendEntry `json:"legend"`
	Max    float64       `json:"max"`
}

// Empty reports whether the chart has no series.
func (c Chart) Empty() bool {
	return len(c.Series) == 0
}

// Build colourises the timeline. Categories are taken from the first
// frame, in order; values in later frames are read by the same ordinal so
// a short frame contributes 0. An empty timeline yields an empty chart.
func Build(frames []model.TimelineFrame) Chart {
	if len(frames) == 0 {
		return Chart{Years: []int{}, Series: []Series{}, Legend: []LegendEntry{}}
	}

	years := make([]int, len(frames))
	for i, f := range frames {
		years[i] = f.Year
	}

	first := frames[0].Benefits
	series := make([]Series, len(first))
	legend := make([]LegendEntry, len(first))
	maxV := 0.0
	for i, b := range first {
		points := make([]Point, len(frames))
		for j, f := range frames {
			v := f.ValueAt(i)
			points[j] = Point{Year: f.Year, Value: v}
			if v > maxV {
				maxV = v
			}
		}
		series[i] = Series{
			Index:    i,
			Name:     b.Name,
			Color:    ColorAt(i),
			Gradient: GradientID(i),
			Points:   points,
		}
		legend[i] = LegendEntry{Name: b.Name, Color: ColorAt(i)}
	}

	return Chart{Years: years, Series: series, Legend: legend, Max: maxV}
}
