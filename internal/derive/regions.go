package derive

import "github.com/sells-group/cobenefits-atlas/internal/model"

// TopAreaLimit is how many of a region's top areas the detail panel lists.
const TopAreaLimit = 8

// RegionBar is one clickable bar of the regional breakdown.
type RegionBar struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Areas    string  `json:"areas"`
	Width    float64 `json:"width"`
	Selected bool    `json:"selected"`
}

// RegionBars derives bars for the regions in source order. Widths are
// relative to the largest air-quality total in this list.
func RegionBars(regions []model.RegionRecord, selected string) []RegionBar {
	values := make([]float64, len(regions))
	for i, r := range regions {
		values[i] = r.TotalAirQuality
	}
	widths := BarWidths(values)

	bars := make([]RegionBar, len(regions))
	for i, r := range regions {
		bars[i] = RegionBar{
			Name:     r.Region,
			Value:    FormatCurrency(r.TotalAirQuality),
			Areas:    FormatCount(r.AreaCount) + " areas",
			Width:    widths[i],
			Selected: selected != "" && r.Region == selected,
		}
	}
	return bars
}

// AreaRow is one line of the top-areas list.
type AreaRow struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RegionDetail is the content of the detail panel for a selected region.
type RegionDetail struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Areas    string    `json:"areas"`
	TopAreas []AreaRow `json:"top_areas"`
}

// Detail derives the detail panel. The source order of top areas is kept
// and only the first TopAreaLimit are shown.
func Detail(r model.RegionRecord) RegionDetail {
	top := r.TopAreas
	if len(top) > TopAreaLimit {
		top = top[:TopAreaLimit]
	}
	rows := make([]AreaRow, len(top))
	for i, a := range top {
		rows[i] = AreaRow{Name: a.Label(), Value: FormatMillions(a.AirQuality, 2)}
	}
	return RegionDetail{
		Name:     r.Region,
		Value:    FormatBillions(r.TotalAirQuality, 2),
		Areas:    FormatCount(r.AreaCount),
		TopAreas: rows,
	}
}

// QuickStat is a region's average value per area.
type QuickStat struct {
	Name    string `json:"name"`
	Average string `json:"average"`
}

// QuickStats lists the average per area of the first n regions.
func QuickStats(regions []model.RegionRecord, n int) []QuickStat {
	if n >= 0 && len(regions) > n {
		regions = regions[:n]
	}
	out := make([]QuickStat, len(regions))
	for i, r := range regions {
		out[i] = QuickStat{Name: r.Region, Average: FormatMillions(r.AvgPerArea, 2) + " avg/area"}
	}
	return out
}
