package dashboard

import (
	"github.com/sells-group/cobenefits-atlas/internal/colorize"
	"github.com/sells-group/cobenefits-atlas/internal/derive"
	"github.com/sells-group/cobenefits-atlas/internal/loader"
	"github.com/sells-group/cobenefits-atlas/internal/scroll"
)

// Section sizes shown on the page.
const (
	CoBenefitChartSize = 6
	QuickStatCount     = 3
	RingCount          = 3
)

// View is the render-ready content of the page. Sections are only
// populated when Status is "ready".
type View struct {
	Status       string         `json:"status"`
	Error        string         `json:"error,omitempty"`
	ScrollY      float64        `json:"scroll_y"`
	ScrollTarget *scroll.Target `json:"scroll_target,omitempty"`
	Selected     string         `json:"selected,omitempty"`

	BigNumbers BigNumbers           `json:"big_numbers"`
	Cards      []derive.Card        `json:"cards"`
	CoBenefits []derive.CategoryBar `json:"co_benefits"`
	Regions    []derive.RegionBar   `json:"regions"`
	Detail     *derive.RegionDetail `json:"detail,omitempty"`
	QuickStats []derive.QuickStat   `json:"quick_stats"`
	Chart      colorize.Chart       `json:"chart"`
	Rings      []derive.RingStat    `json:"rings"`
	Daily      DailyImpact          `json:"daily"`
	Closing    Closing              `json:"closing"`
}

// BigNumbers is the headline row under the hero.
type BigNumbers struct {
	TotalValue      string `json:"total_value"`
	AirQualityShare string `json:"air_quality_share"`
	AreasCovered    string `json:"areas_covered"`
}

// DailyImpact carries the figure quoted in the "better sleep" paragraph.
type DailyImpact struct {
	AirQualityValue string `json:"air_quality_value"`
}

// Closing is the call-to-action row at the end of the page.
type Closing struct {
	TotalValue      string `json:"total_value"`
	AirQualityShare string `json:"air_quality_share"`
	Communities     string `json:"communities"`
}

// Ready reports whether the sections are populated.
func (v View) Ready() bool {
	return v.Status == loader.StateReady.String()
}

// Render derives the view from state. It has no side effects and is safe to
// call on every state change.
func Render(s State) View {
	v := View{
		Status:       s.Load.String(),
		ScrollY:      s.ScrollY,
		ScrollTarget: s.ScrollTarget,
		Selected:     s.Selection.Name(),
	}

	if s.Load == loader.StateFailed {
		if s.Err != nil {
			v.Error = s.Err.Error()
		} else {
			v.Error = "data could not be loaded"
		}
		return v
	}
	if s.Load != loader.StateReady || s.Data == nil {
		if s.Load == loader.StateReady {
			v.Status = loader.StateLoading.String()
		}
		return v
	}

	sum := s.Data.Summary
	regions := s.Data.Regions

	v.BigNumbers = BigNumbers{
		TotalValue:      derive.FormatCurrency(sum.TotalBenefits.Value),
		AirQualityShare: derive.FormatPercent(sum.AirQuality.Percentage),
		AreasCovered:    derive.FormatCount(sum.TotalAreas),
	}
	v.Cards = derive.BenefitCards(sum)
	v.CoBenefits = derive.TopCoBenefits(sum, CoBenefitChartSize)
	v.Regions = derive.RegionBars(regions, s.Selection.Name())
	if r, ok := s.Selection.Detail(regions); ok {
		d := derive.Detail(r)
		v.Detail = &d
	}
	v.QuickStats = derive.QuickStats(regions, QuickStatCount)
	v.Chart = colorize.Build(s.Data.Timeline)
	v.Rings = derive.Rings(sum, RingCount)
	v.Daily = DailyImpact{AirQualityValue: derive.FormatCurrency(sum.AirQuality.Total)}
	v.Closing = Closing{
		TotalValue:      derive.FormatBillions(sum.TotalBenefits.Value, 0),
		AirQualityShare: derive.FormatPercent(sum.AirQuality.Percentage),
		Communities:     derive.FormatCompactCount(sum.TotalAreas),
	}
	return v
}
