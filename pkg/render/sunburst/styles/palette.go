package styles

import (
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Schemes are the categorical color schemes selectable through arcColors.
var Schemes = map[string][]string{
	"category10": {"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf"},
	"tableau10":  {"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f", "#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab"},
	"accent":     {"#7fc97f", "#beaed4", "#fdc086", "#ffff99", "#386cb0", "#f0027f", "#bf5b17", "#666666"},
	"dark2":      {"#1b9e77", "#d95f02", "#7570b3", "#e7298a", "#66a61e", "#e6ab02", "#a6761d", "#666666"},
	"paired":     {"#a6cee3", "#1f78b4", "#b2df8a", "#33a02c", "#fb9a99", "#e31a1c", "#fdbf6f", "#ff7f00", "#cab2d6", "#6a3d9a", "#ffff99", "#b15928"},
	"pastel1":    {"#fbb4ae", "#b3cde3", "#ccebc5", "#decbe4", "#fed9a6", "#ffffcc", "#e5d8bd", "#fddaec", "#f2f2f2"},
	"set1":       {"#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00", "#ffff33", "#a65628", "#f781bf", "#999999"},
	"set2":       {"#66c2a5", "#fc8d62", "#8da0cb", "#e78ac3", "#a6d854", "#ffd92f", "#e5c494", "#b3b3b3"},
	"set3":       {"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462", "#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f"},
}

// SchemeNames returns the known scheme names in sorted order.
func SchemeNames() []string {
	names := make([]string, 0, len(Schemes))
	for k := range Schemes {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

const (
	depthLighten = 0.18
	maxLighten   = 0.65
)

var white = colorful.Color{R: 1, G: 1, B: 1}

// Palette assigns colors to arcs. Every first-ring key gets a base color and
// its descendants get lighter shades of it, one step per level.
type Palette struct {
	colors []colorful.Color
}

// NewPalette builds the palette for o. Unknown scheme names and invalid
// custom colors fall back to category10.
func NewPalette(o Options) Palette {
	var hexes []string
	if len(o.CustomColors) > 0 {
		hexes = o.CustomColors
	} else {
		hexes = Schemes[normalizeScheme(o.ColorScheme)]
	}

	colors := parseColors(hexes)
	if len(colors) == 0 {
		colors = parseColors(Schemes[DefaultColorScheme])
	}
	if o.ColorSchemeReversed {
		slices.Reverse(colors)
	}
	return Palette{colors: colors}
}

func normalizeScheme(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimPrefix(name, "scheme")
}

func parseColors(hexes []string) []colorful.Color {
	out := make([]colorful.Color, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Len returns the number of base colors.
func (p Palette) Len() int { return len(p.colors) }

// Base returns the base color for the first-ring key at index as hex.
func (p Palette) Base(index int) string {
	return p.base(index).Hex()
}

func (p Palette) base(index int) colorful.Color {
	if index < 0 {
		index = -index
	}
	return p.colors[index%len(p.colors)]
}

// ColorFor returns the fill of an arc at depth whose first-ring ancestor has
// index top.
func (p Palette) ColorFor(top, depth int) string {
	c := p.base(top)
	if depth <= 1 {
		return c.Hex()
	}
	t := min(float64(depth-1)*depthLighten, maxLighten)
	return c.BlendLab(white, t).Clamped().Hex()
}
