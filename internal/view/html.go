// Package view turns a dashboard.View into HTML for the browser and styled
// text for the terminal.
package view

import (
	_ "embed"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cobenefits-atlas/internal/colorize"
	"github.com/sells-group/cobenefits-atlas/internal/dashboard"
	"github.com/sells-group/cobenefits-atlas/internal/derive"
)

// Chart canvas size in SVG user units.
const (
	ChartWidth  = 800
	ChartHeight = 300
)

//go:embed page.gohtml
var pageSource string

var page = template.Must(template.New("page").Funcs(template.FuncMap{
	"toggleHref":  ToggleHref,
	"pct":         pct,
	"num":         num,
	"areaPath":    AreaPath,
	"chartWidth":  func() int { return ChartWidth },
	"chartHeight": func() int { return ChartHeight },
}).Parse(pageSource))

// HTML writes the full page for v.
func HTML(w io.Writer, v dashboard.View) error {
	if err := page.Execute(w, v); err != nil {
		return eris.Wrap(err, "view: render html")
	}
	return nil
}

// ToggleHref is the link a region bar points at: clicking the selected
// region clears the selection, any other region selects it.
func ToggleHref(bar derive.RegionBar) string {
	if bar.Selected {
		return "/"
	}
	return "/?" + url.Values{"region": {bar.Name}}.Encode()
}

// AreaPath is the closed SVG path of one series, scaled to the chart canvas
// against maxV. Points are spaced evenly along the x axis.
func AreaPath(points []colorize.Point, maxV float64) string {
	if len(points) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("M0," + num(ChartHeight))
	for i, p := range points {
		b.WriteString(" L" + num(xAt(i, len(points))) + "," + num(yAt(p.Value, maxV)))
	}
	b.WriteString(" L" + num(xAt(len(points)-1, len(points))) + "," + num(ChartHeight) + " Z")
	return b.String()
}

func xAt(i, n int) float64 {
	if n < 2 {
		return 0
	}
	return float64(ChartWidth) * float64(i) / float64(n-1)
}

func yAt(v, maxV float64) float64 {
	if maxV <= 0 || v <= 0 {
		return ChartHeight
	}
	if v > maxV {
		v = maxV
	}
	return ChartHeight - v/maxV*ChartHeight
}

func pct(w float64) string {
	return num(w) + "%"
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
