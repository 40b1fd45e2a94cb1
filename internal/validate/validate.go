// Package validate checks a loaded dataset for the consistency rules the
// dashboard relies on.
package validate

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/cobenefits-atlas/internal/model"
)

// Severity of an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one failed check.
type Issue struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Check    string   `json:"check" yaml:"check"`
	Resource string   `json:"resource" yaml:"resource"`
	Message  string   `json:"message" yaml:"message"`
}

// Report is the outcome of Check.
type Report struct {
	Session    string  `json:"session,omitempty" yaml:"session,omitempty"`
	CoBenefits int     `json:"co_benefits" yaml:"co_benefits"`
	Regions    int     `json:"regions" yaml:"regions"`
	Frames     int     `json:"frames" yaml:"frames"`
	Issues     []Issue `json:"issues" yaml:"issues"`
}

// Errors counts error-severity issues.
func (r Report) Errors() int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			n++
		}
	}
	return n
}

// OK reports whether no error-severity issue was found.
func (r Report) OK() bool {
	return r.Errors() == 0
}

// Check runs every check and collects the issues.
func Check(ds model.Dataset) Report {
	r := Report{
		CoBenefits: len(ds.Summary.CoBenefits),
		Regions:    len(ds.Regions),
		Frames:     len(ds.Timeline),
		Issues:     []Issue{},
	}
	r.Issues = append(r.Issues, checkSummary(ds.Summary)...)
	r.Issues = append(r.Issues, checkRegions(ds.Regions)...)
	r.Issues = append(r.Issues, checkTimeline(ds.Timeline)...)
	return r
}

func checkSummary(s model.SummaryRecord) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(s.CoBenefits))
	for _, c := range s.CoBenefits {
		if seen[c.ID] {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Check:    "unique_co_benefit_id",
				Resource: "summary",
				Message:  fmt.Sprintf("co-benefit id %q appears more than once", c.ID),
			})
		}
		seen[c.ID] = true
	}
	if s.AirQuality.Percentage < 0 || s.AirQuality.Percentage > 100 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Check:    "percentage_range",
			Resource: "summary",
			Message:  fmt.Sprintf("air quality percentage %v outside 0..100", s.AirQuality.Percentage),
		})
	}
	if s.TotalAreas < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Check:    "non_negative_areas",
			Resource: "summary",
			Message:  fmt.Sprintf("total_areas is %d", s.TotalAreas),
		})
	}
	return issues
}

func checkRegions(regions []model.RegionRecord) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(regions))
	for _, r := range regions {
		if seen[r.Region] {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Check:    "unique_region",
				Resource: "regional",
				Message:  fmt.Sprintf("region %q appears more than once", r.Region),
			})
		}
		seen[r.Region] = true

		if r.AreaCount < 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Check:    "non_negative_areas",
				Resource: "regional",
				Message:  fmt.Sprintf("region %q has area_count %d", r.Region, r.AreaCount),
			})
		}
		for i := 1; i < len(r.TopAreas); i++ {
			if r.TopAreas[i].AirQuality > r.TopAreas[i-1].AirQuality {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Check:    "top_areas_sorted",
					Resource: "regional",
					Message:  fmt.Sprintf("region %q top_areas not in descending order at index %d", r.Region, i),
				})
				break
			}
		}
	}
	return issues
}

func checkTimeline(frames []model.TimelineFrame) []Issue {
	var issues []Issue
	if len(frames) == 0 {
		return issues
	}
	first := frames[0].Benefits
	for i, f := range frames {
		if i > 0 && f.Year <= frames[i-1].Year {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Check:    "years_ascending",
				Resource: "timeline",
				Message:  fmt.Sprintf("frame %d year %d does not follow %d", i, f.Year, frames[i-1].Year),
			})
		}
		if !sameOrder(first, f.Benefits) {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Check:    "benefit_order",
				Resource: "timeline",
				Message:  fmt.Sprintf("frame %d (%d) lists benefits in a different order than frame 0", i, f.Year),
			})
		}
	}
	return issues
}

func sameOrder(a, b []model.BenefitValue) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}

// Format is a report encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Write encodes r to w.
func Write(w io.Writer, r Report, format Format) error {
	switch format {
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return eris.Wrap(err, "validate: encode yaml")
		}
		return eris.Wrap(enc.Close(), "validate: close yaml encoder")
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(r), "validate: encode json")
	default:
		return eris.Errorf("validate: unknown format %q", format)
	}
}
