package model

// RegionRecord is one entry of regional_detailed.json.
type RegionRecord struct {
	Region          string    `json:"region"`
	TotalAirQuality float64   `json:"total_air_quality"`
	AreaCount       int       `json:"area_count"`
	AvgPerArea      float64   `json:"avg_per_area"`
	TopAreas        []TopArea `json:"top_areas"`
}

// TopArea is a small area contributing to a region's air-quality value.
// The source pre-sorts these by AirQuality descending. AirQuality is in
// millions of GBP.
type TopArea struct {
	SmallArea   string  `json:"small_area"`
	DisplayName string  `json:"display_name,omitempty"`
	AirQuality  float64 `json:"air_quality"`
}

// Label returns the display name, falling back to the small-area code.
func (a TopArea) Label() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.SmallArea
}

// FindRegion returns the region with the given name.
func FindRegion(regions []RegionRecord, name string) (RegionRecord, bool) {
	for _, r := range regions {
		if r.Region == name {
			return r, true
		}
	}
	return RegionRecord{}, false
}
