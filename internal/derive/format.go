// Package derive computes display-ready figures from the loaded datasets.
// Every function is total: missing data yields zero values, never a panic.
package derive

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var countPrinter = message.NewPrinter(language.BritishEnglish)

// FormatCurrency formats a value in thousands of GBP as billions with one
// decimal, e.g. 150000 -> "£150.0B".
func FormatCurrency(thousands float64) string {
	return FormatBillions(thousands, 1)
}

// FormatBillions formats a value in thousands of GBP as billions with the
// given number of decimals.
func FormatBillions(thousands float64, decimals int) string {
	return FormatBillionValue(thousands/1000, decimals)
}

// FormatBillionValue formats a value already in billions of GBP.
func FormatBillionValue(billions float64, decimals int) string {
	return "£" + toFixed(billions, decimals) + "B"
}

// FormatMillions formats a value already in millions of GBP.
func FormatMillions(millions float64, decimals int) string {
	return "£" + toFixed(millions, decimals) + "M"
}

// FormatPercent renders a percentage with no decimals, e.g. 33.0 -> "33%".
func FormatPercent(p float64) string {
	return toFixed(p, 0) + "%"
}

// FormatCount renders an integer with British thousands separators.
func FormatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

// FormatCompactCount renders a count as 950, 46K or 1.2M.
func FormatCompactCount(n int) string {
	abs := math.Abs(float64(n))
	sign := ""
	if n < 0 {
		sign = "-"
	}
	switch {
	case abs < 1000:
		return strconv.Itoa(n)
	case abs < 1_000_000:
		return sign + toFixed(abs/1000, 0) + "K"
	default:
		s := toFixed(abs/1_000_000, 1)
		return sign + strings.TrimSuffix(s, ".0") + "M"
	}
}

// toFixed rounds half away from zero at the given decimals. NaN and
// infinities render as zero and negative zero loses its sign.
func toFixed(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	if decimals < 0 {
		decimals = 0
	}
	scale := math.Pow(10, float64(decimals))
	r := math.Round(v*scale) / scale
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', decimals, 64)
}
