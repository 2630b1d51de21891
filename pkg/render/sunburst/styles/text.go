package styles

import (
	"math"
	"unicode/utf8"
)

const (
	fontSizeMin   = 8.0
	fontSizeMax   = 13.0
	charWidth     = 0.6 // average glyph width relative to font size
	labelPadding  = 4.0
	ellipsis      = "…"
	minLabelChars = 3
)

// TextWidth estimates the rendered width of s at size.
func TextWidth(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size * charWidth
}

// LabelFontSize picks a font size for a label laid out along a ring band of
// thickness band, where the arc at mid radius is arcLen long. Labels run
// radially, so the band bounds the text length and the arc bounds its height.
func LabelFontSize(arcLen, band float64) float64 {
	return math.Max(fontSizeMin, math.Min(fontSizeMax, math.Min(arcLen*0.7, band/4)))
}

// FitLabel returns label shortened to fit into a band of thickness band at
// size, and whether any text fits at all. An arc shorter than the font
// height never gets a label.
func FitLabel(label string, arcLen, band, size float64) (string, bool) {
	if arcLen < size*1.1 {
		return "", false
	}
	avail := band - 2*labelPadding
	if TextWidth(label, size) <= avail {
		return label, true
	}
	n := int(avail/(size*charWidth)) - 1
	if n < minLabelChars {
		return "", false
	}
	return Truncate(label, n), true
}

// Truncate shortens s to at most n runes plus an ellipsis.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + ellipsis
}
