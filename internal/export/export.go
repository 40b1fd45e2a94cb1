// Package export writes the regional breakdown as a spreadsheet.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/cobenefits-atlas/internal/derive"
	"github.com/sells-group/cobenefits-atlas/internal/model"
)

// SheetName is the worksheet written by XLSX.
const SheetName = "Regions"

// Header is the column order of every export.
var Header = []string{"region", "air_quality_value", "area_count", "avg_per_area", "bar_width", "top_area"}

// Row is one region in export form.
type Row struct {
	Region     string
	Value      float64
	AreaCount  int
	AvgPerArea float64
	BarWidth   float64
	TopArea    string
}

// Rows flattens regions in input order. BarWidth is the same 0..100 scale
// the dashboard draws.
func Rows(regions []model.RegionRecord) []Row {
	values := make([]float64, len(regions))
	for i, r := range regions {
		values[i] = r.TotalAirQuality
	}
	widths := derive.BarWidths(values)

	rows := make([]Row, len(regions))
	for i, r := range regions {
		top := ""
		if len(r.TopAreas) > 0 {
			top = r.TopAreas[0].Label()
		}
		rows[i] = Row{
			Region:     r.Region,
			Value:      r.TotalAirQuality,
			AreaCount:  r.AreaCount,
			AvgPerArea: r.AvgPerArea,
			BarWidth:   widths[i],
			TopArea:    top,
		}
	}
	return rows
}

// CSV writes the header and one record per region.
func CSV(w io.Writer, regions []model.RegionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, r := range Rows(regions) {
		rec := []string{
			r.Region,
			formatFloat(r.Value),
			strconv.Itoa(r.AreaCount),
			formatFloat(r.AvgPerArea),
			formatFloat(r.BarWidth),
			r.TopArea,
		}
		if err := cw.Write(rec); err != nil {
			return eris.Wrapf(err, "export: write csv row %q", r.Region)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// XLSX writes a single-sheet workbook with typed numeric cells.
func XLSX(w io.Writer, regions []model.RegionRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range Header {
		header.AddCell().SetString(h)
	}
	for _, r := range Rows(regions) {
		row := sheet.AddRow()
		row.AddCell().SetString(r.Region)
		row.AddCell().SetFloat(r.Value)
		row.AddCell().SetInt(r.AreaCount)
		row.AddCell().SetFloat(r.AvgPerArea)
		row.AddCell().SetFloat(r.BarWidth)
		row.AddCell().SetString(r.TopArea)
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
