package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sells-group/cobenefits-atlas/internal/dashboard"
	"github.com/sells-group/cobenefits-atlas/internal/derive"
)

// Terminal palette.
var (
	accent  = lipgloss.Color("#60a5fa")
	green   = lipgloss.Color("#34d399")
	muted   = lipgloss.Color("#9ca3af")
	danger  = lipgloss.Color("#f87171")
	barFill = lipgloss.Color("#3b82f6")
	barRest = lipgloss.Color("#1f2937")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginTop(1)
	labelStyle  = lipgloss.NewStyle().Foreground(muted)
	valueStyle  = lipgloss.NewStyle().Bold(true)
	greenStyle  = lipgloss.NewStyle().Foreground(green)
	errorStyle  = lipgloss.NewStyle().Foreground(danger).Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(barRest).Padding(0, 1)
	fillStyle   = lipgloss.NewStyle().Foreground(barFill)
	restStyle   = lipgloss.NewStyle().Foreground(barRest)
)

// TextOptions controls terminal rendering.
type TextOptions struct {
	Width int
	// Cursor is the highlighted region bar, or -1 for none.
	Cursor int
}

// Text renders v for a terminal of the given width.
func Text(v dashboard.View, opts TextOptions) string {
	width := opts.Width
	if width <= 0 {
		width = 80
	}

	if !v.Ready() {
		if v.Error != "" {
			return errorStyle.Render("The data could not be loaded.") + "\n" + labelStyle.Render(v.Error) + "\n"
		}
		return labelStyle.Render("Loading...") + "\n"
	}

	var sections []string
	sections = append(sections,
		titleStyle.Render("Cleaner Air, Healthier Lives"),
		labelStyle.Render("How climate action quietly creates real economic value through better air quality."),
	)

	sections = append(sections, titleStyle.Render("What drives the economic value"),
		stat("Total Economic Value", v.BigNumbers.TotalValue),
		stat("From Cleaner Air", v.BigNumbers.AirQualityShare),
		stat("Areas Covered", v.BigNumbers.AreasCovered),
	)
	for _, c := range v.Cards {
		sections = append(sections, stat(c.Title, c.Value))
	}

	sections = append(sections, titleStyle.Render("Who benefits the most"))
	barWidth := width - 40
	if barWidth < 10 {
		barWidth = 10
	}
	for i, r := range v.Regions {
		sections = append(sections, regionLine(r, i == opts.Cursor, barWidth))
	}
	if v.Detail != nil {
		sections = append(sections, panelStyle.Render(detail(*v.Detail)))
	} else {
		sections = append(sections, labelStyle.Render("Select a region to explore detailed benefits"))
	}
	for _, q := range v.QuickStats {
		sections = append(sections, stat(q.Name+" avg", q.Average))
	}

	sections = append(sections, titleStyle.Render("Air quality improvements over time"))
	if !v.Chart.Empty() {
		years := make([]string, len(v.Chart.Years))
		for i, y := range v.Chart.Years {
			years[i] = fmt.Sprint(y)
		}
		sections = append(sections, labelStyle.Render(strings.Join(years, "  ")))
		var legend []string
		for _, l := range v.Chart.Legend {
			legend = append(legend, swatch(l.Color).Render("■")+" "+l.Name)
		}
		sections = append(sections, strings.Join(legend, "   "))
	}
	for _, r := range v.Rings {
		sections = append(sections, stat(r.Name, r.Percentage+"  "+r.Value))
	}

	sections = append(sections,
		titleStyle.Render("Better lives, every day"),
		stat("Health improvements", v.Daily.AirQualityValue),
		titleStyle.Render("Cleaner air is an investment in better lives"),
		stat("Total National Value", v.Closing.TotalValue),
		stat("Driven by Air Quality", v.Closing.AirQualityShare),
		stat("Communities Benefit", v.Closing.Communities),
	)

	return lipgloss.NewStyle().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, sections...)) + "\n"
}

func stat(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-28s", label)) + valueStyle.Render(value)
}

func regionLine(r derive.RegionBar, cursor bool, barWidth int) string {
	marker := "  "
	if cursor {
		marker = cursorStyle.Render("> ")
	}
	name := fmt.Sprintf("%-18s", r.Name)
	if r.Selected {
		name = cursorStyle.Render(name)
	}
	filled := int(r.Width / 100 * float64(barWidth))
	bar := fillStyle.Render(strings.Repeat("█", filled)) + restStyle.Render(strings.Repeat("░", barWidth-filled))
	return marker + name + bar + " " + greenStyle.Render(r.Value)
}

func detail(d derive.RegionDetail) string {
	lines := []string{
		valueStyle.Render(d.Name),
		stat("Air Quality Value", d.Value),
		stat("Areas Covered", d.Areas),
		labelStyle.Render("Top Performing Areas"),
	}
	for _, a := range d.TopAreas {
		lines = append(lines, fmt.Sprintf("  %-32s %s", a.Name, greenStyle.Render(a.Value)))
	}
	return strings.Join(lines, "\n")
}

func swatch(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
