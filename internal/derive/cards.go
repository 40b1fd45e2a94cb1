package derive

import "github.com/sells-group/cobenefits-atlas/internal/model"

// Card is one figure in the "what drives the value" grid.
type Card struct {
	Title       string `json:"title"`
	Value       string `json:"value"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
}

// BenefitCards derives the four headline benefit cards.
func BenefitCards(s model.SummaryRecord) []Card {
	return []Card{
		{
			Title:       "Cleaner Air",
			Value:       FormatCurrency(s.AirQuality.Total),
			Subtitle:    FormatPercent(s.AirQuality.Percentage) + " of total value",
			Description: "Reduced air pollution leads to fewer respiratory illnesses and hospital visits.",
		},
		{
			Title:       "Active Living",
			Value:       FormatBillionValue(CategoryBillions(s.CoBenefits, model.CoBenefitPhysicalActivity), 1),
			Subtitle:    "Walking & cycling",
			Description: "More walking and cycling means healthier communities and lower healthcare costs.",
		},
		{
			Title:       "Comfortable Homes",
			Value:       FormatBillionValue(CategoryBillions(s.CoBenefits, model.CoBenefitExcessCold), 1),
			Subtitle:    "Energy efficiency",
			Description: "Better insulation keeps homes warmer in winter, reducing heating bills.",
		},
		{
			Title:       "Quieter Streets",
			Value:       FormatCurrency(NoiseMagnitude(s.CoBenefits)),
			Subtitle:    "Noise reduction",
			Description: "Less traffic noise improves sleep quality and mental wellbeing.",
		},
	}
}

// CategoryBar is a co-benefit scaled for a bar chart.
type CategoryBar struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value string  `json:"value"`
	Total float64 `json:"total"`
	Width float64 `json:"width"`
}

// TopCoBenefits returns the first n co-benefits in source order with bar
// widths relative to the largest among them.
func TopCoBenefits(s model.SummaryRecord, n int) []CategoryBar {
	list := s.CoBenefits
	if n >= 0 && len(list) > n {
		list = list[:n]
	}

	totals := make([]float64, len(list))
	for i, c := range list {
		totals[i] = c.Total
	}
	widths := BarWidths(totals)

	bars := make([]CategoryBar, len(list))
	for i, c := range list {
		bars[i] = CategoryBar{
			ID:    c.ID,
			Name:  c.Name,
			Value: FormatCurrency(c.Total),
			Total: c.Total,
			Width: widths[i],
		}
	}
	return bars
}

// RingStat is a co-benefit drawn as a circular progress ring.
type RingStat struct {
	Name       string `json:"name"`
	Percentage string `json:"percentage"`
	Value      string `json:"value"`
	Arc        Arc    `json:"arc"`
}

// Rings derives progress rings for the first n co-benefits.
func Rings(s model.SummaryRecord, n int) []RingStat {
	list := s.CoBenefits
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	out := make([]RingStat, len(list))
	for i, c := range list {
		out[i] = RingStat{
			Name:       c.Name,
			Percentage: FormatPercent(c.Percentage),
			Value:      FormatCurrency(c.Total),
			Arc:        Radial(c.Percentage, RadialRadius),
		}
	}
	return out
}
