package sink

import (
	"time"

	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/render/sunburst/styles"
)

// Geometry shared by the SVG and JSON sinks.
const (
	Margin       = 10.0
	LegendWidth  = 170.0
	legendRow    = 20.0
	legendSwatch = 12.0
)

// Config is the immutable chart configuration for one render pass.
type Config struct {
	Width  float64
	Height float64

	DimensionFields []string
	DimensionIDs    []string
	MetricField     string

	ColorScheme         string
	CustomColors        []string
	ColorSchemeReversed bool
	FontColor           string
	FontOpacity         float64
	FontFamily          string
	ShowLegend          bool
	ShowLabels          bool

	InstanceID    string
	InteractionID string

	// FilterActive and Selection describe the host's retained selection.
	FilterActive bool
	Selection    []dscc.Value
	// FilterEnabled lets clicks emit filter events.
	FilterEnabled     bool
	AnimationDuration time.Duration
}

// ApplyStyles copies resolved style options into c.
func (c Config) ApplyStyles(o styles.Options) Config {
	c.ColorScheme = o.ColorScheme
	c.CustomColors = o.CustomColors
	c.ColorSchemeReversed = o.ColorSchemeReversed
	c.FontColor = o.FontColor
	c.FontOpacity = o.FontOpacity
	c.FontFamily = o.FontFamily
	c.ShowLegend = o.ShowLegend
	c.ShowLabels = o.ShowLabels
	if o.InstanceID != "" {
		c.InstanceID = o.InstanceID
	}
	return c
}

// Styles returns the style portion of c.
func (c Config) Styles() styles.Options {
	return styles.Options{
		InstanceID:          c.InstanceID,
		ColorScheme:         c.ColorScheme,
		CustomColors:        c.CustomColors,
		ColorSchemeReversed: c.ColorSchemeReversed,
		FontColor:           c.FontColor,
		FontOpacity:         c.FontOpacity,
		FontFamily:          c.FontFamily,
		ShowLegend:          c.ShowLegend,
		ShowLabels:          c.ShowLabels,
	}
}

// Palette returns the color palette for c.
func (c Config) Palette() styles.Palette {
	return styles.NewPalette(c.Styles())
}

// chartWidth returns the width available to the chart itself.
func (c Config) chartWidth() float64 {
	if c.ShowLegend {
		return max(c.Width-LegendWidth, 0)
	}
	return c.Width
}

// Radius returns the outer radius of the chart.
func (c Config) Radius() float64 {
	return max(min(c.chartWidth(), c.Height)/2-Margin, 0)
}

// Center returns the position of the chart center within the canvas.
func (c Config) Center() (x, y float64) {
	return c.chartWidth() / 2, c.Height / 2
}

func (c Config) prefix() string {
	if c.InstanceID == "" {
		return "sb"
	}
	return "sb-" + c.InstanceID
}
