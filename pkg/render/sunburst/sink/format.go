package sink

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatValue renders v with thousands separators, keeping up to two
// decimals for fractional values.
func FormatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

// FormatShare renders part as a percentage of total.
func FormatShare(part, total float64) string {
	if total <= 0 {
		return "0%"
	}
	return printer.Sprintf("%.1f%%", 100*math.Max(part, 0)/total)
}

// FormatCount is the tooltip count line: the value followed by its share.
func FormatCount(metric string, v, total float64) string {
	s := FormatValue(v) + " (" + FormatShare(v, total) + ")"
	if metric != "" {
		s = metric + ": " + s
	}
	return s
}
