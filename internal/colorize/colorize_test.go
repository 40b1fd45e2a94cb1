package colorize

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cobenefits-atlas/internal/model"
)

func frames(names ...string) []model.TimelineFrame {
	var out []model.TimelineFrame
	for y, year := range []int{2025, 2030, 2050} {
		f := model.TimelineFrame{Year: year}
		for i, n := range names {
			f.Benefits = append(f.Benefits, model.BenefitValue{Name: n, Value: float64((y + 1) * (i + 1))})
		}
		out = append(out, f)
	}
	return out
}

func TestBuild_LegendMatchesPalette(t *testing.T) {
	chart := Build(frames("Air Quality", "Noise", "Activity"))

	want := []LegendEntry{
		{Name: "Air Quality", Color: Palette[0]},
		{Name: "Noise", Color: Palette[1]},
		{Name: "Activity", Color: Palette[2]},
	}
	if diff := cmp.Diff(want, chart.Legend); diff != "" {
		t.Errorf("legend mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, chart.Series, 3)
	for i, s := range chart.Series {
		assert.Equal(t, chart.Legend[i].Color, s.Color)
		assert.Equal(t, chart.Legend[i].Name, s.Name)
		assert.Equal(t, fmt.Sprintf("color-%d", i), s.Gradient)
	}
}

func TestBuild_StableAcrossRenders(t *testing.T) {
	data := frames("Air Quality", "Noise", "Activity")
	if diff := cmp.Diff(Build(data), Build(data)); diff != "" {
		t.Errorf("renders differ:\n%s", diff)
	}
}

func TestBuild_Points(t *testing.T) {
	chart := Build(frames("Air Quality", "Noise"))

	assert.Equal(t, []int{2025, 2030, 2050}, chart.Years)
	assert.Equal(t, []Point{{2025, 2}, {2030, 4}, {2050, 6}}, chart.Series[1].Points)
	assert.InDelta(t, 6, chart.Max, 1e-9)
}

func TestBuild_WrapsPalette(t *testing.T) {
	names := make([]string, 9)
	for i := range names {
		names[i] = fmt.Sprintf("B%d", i)
	}
	chart := Build(frames(names...))

	require.Len(t, chart.Legend, 9)
	assert.Equal(t, Palette[0], chart.Legend[7].Color)
	assert.Equal(t, Palette[1], chart.Legend[8].Color)
}

func TestBuild_ShortFrameReadsZero(t *testing.T) {
	data := frames("Air Quality", "Noise")
	data[1].Benefits = data[1].Benefits[:1]

	chart := Build(data)
	assert.Zero(t, chart.Series[1].Points[1].Value)
}

func TestBuild_Empty(t *testing.T) {
	chart := Build(nil)
	assert.True(t, chart.Empty())
	assert.Empty(t, chart.Series)
	assert.Empty(t, chart.Legend)

	chart = Build([]model.TimelineFrame{})
	assert.Empty(t, chart.Legend)
}

func TestColorAt(t *testing.T) {
	assert.Equal(t, "#3b82f6", ColorAt(0))
	assert.Equal(t, "#f97316", ColorAt(6))
	assert.Equal(t, "#3b82f6", ColorAt(7))
	assert.Equal(t, "#f97316", ColorAt(-1))
}
