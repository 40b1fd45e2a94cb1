package model

// Co-benefit identifiers the dashboard looks up by name.
const (
	CoBenefitPhysicalActivity = "physical_activity"
	CoBenefitExcessCold       = "excess_cold"
	CoBenefitNoise            = "noise"
)

// SummaryRecord is the national roll-up served as summary_data.json.
// Monetary values are in thousands of GBP.
type SummaryRecord struct {
	TotalBenefits TotalBenefits `json:"total_benefits"`
	TotalAreas    int           `json:"total_areas"`
	AirQuality    AirQuality    `json:"air_quality"`
	CoBenefits    []CoBenefit   `json:"co_benefits"`
}

// TotalBenefits is the headline figure plus the source's own formatted string.
type TotalBenefits struct {
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

// AirQuality is the air-quality sub-total. Percentage is computed by the
// data source and is not derived from CoBenefits.
type AirQuality struct {
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

// CoBenefit is one category in the ordered co-benefit list. Percentages are
// independent per category and need not sum to 100.
type CoBenefit struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}
