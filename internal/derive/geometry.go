package derive

import "math"

// RadialRadius is the radius of the progress rings on the timeline section.
const RadialRadius = 70.0

// BarWidths scales each value to 0..100 relative to the maximum of values.
// The maximum is recomputed on every call. When the maximum is not
// positive every width is 0.
func BarWidths(values []float64) []float64 {
	widths := make([]float64, len(values))
	if len(values) == 0 {
		return widths
	}

	maxV := math.Inf(-1)
	for _, v := range values {
		if !math.IsNaN(v) && v > maxV {
			maxV = v
		}
	}
	if maxV <= 0 || math.IsInf(maxV, 0) {
		return widths
	}

	for i, v := range values {
		widths[i] = clamp(v/maxV*100, 0, 100)
	}
	return widths
}

// Arc is the stroke geometry of a circular progress indicator.
type Arc struct {
	Radius        float64 `json:"radius"`
	Circumference float64 `json:"circumference"`
	Visible       float64 `json:"visible"` // drawn stroke length
	Gap           float64 `json:"gap"`     // stroke-dashoffset, circumference - visible
}

// Radial computes the arc for a percentage. Percentages outside 0..100 are
// clamped for geometry only.
func Radial(percentage, radius float64) Arc {
	if math.IsNaN(radius) || radius < 0 {
		radius = 0
	}
	c := 2 * math.Pi * radius
	p := percentage
	if math.IsNaN(p) {
		p = 0
	}
	visible := clamp(p, 0, 100) / 100 * c
	return Arc{
		Radius:        radius,
		Circumference: c,
		Visible:       visible,
		Gap:           c - visible,
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
