package model

// TimelineFrame is one year of animated_timeline.json. Every frame lists the
// same benefit names in the same order.
type TimelineFrame struct {
	Year     int            `json:"year"`
	Benefits []BenefitValue `json:"benefits"`
}

// BenefitValue is a named benefit value for a single year, in millions of GBP.
type BenefitValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ValueAt returns the value at the given ordinal, or 0 when the frame is
// shorter than expected.
func (f TimelineFrame) ValueAt(i int) float64 {
	if i < 0 || i >= len(f.Benefits) {
		return 0
	}
	return f.Benefits[i].Value
}
